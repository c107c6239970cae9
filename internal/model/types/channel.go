package types

type Channel string

const (
	ChannelDXVK     Channel = "dxvk"
	ChannelGPLAsync Channel = "dxvk-gplasync"
)

func (c Channel) String() string {
	return string(c)
}

func (c Channel) Known() bool {
	switch c {
	case ChannelDXVK, ChannelGPLAsync:
		return true
	default:
		return false
	}
}
