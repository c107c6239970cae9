package model

type TargetUpdate struct {
	Name       *string
	InstallDir *string
	Descriptor *string
	Is64       *bool
	Is32       *bool
}

func (u TargetUpdate) Empty() bool {
	return u.Name == nil && u.InstallDir == nil && u.Descriptor == nil && u.Is64 == nil && u.Is32 == nil
}

type FetchParam struct {
	Channel     string
	Version     string
	DownloadURL string
}

type SyncLibraryParam struct {
	SteamApps string
	Prune     bool
}
