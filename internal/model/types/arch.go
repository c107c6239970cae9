package types

type Arch string

const (
	Arch64 Arch = "x64"
	Arch32 Arch = "x32"
)

func (a Arch) String() string {
	return string(a)
}

// Aliases lists the folder names an upstream archive may use for a.
func (a Arch) Aliases() []string {
	switch a {
	case Arch32:
		return []string{"x32", "x86"}
	default:
		return []string{string(a)}
	}
}
