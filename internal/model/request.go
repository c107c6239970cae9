package model

type ResolveRequirementsRequest struct {
	Descriptor string `query:"descriptor"`
	X64        bool   `query:"x64"`
	X32        bool   `query:"x32"`
}

type ListReleasesRequest struct {
	Channel string `params:"channel" validate:"required,channel"`
	Order   string `query:"order"`
}

type FetchVersionRequest struct {
	Version     string `json:"version" validate:"required,version"`
	DownloadURL string `json:"download_url" validate:"omitempty,url"`
}

type ApplyRequest struct {
	Channel string `json:"channel" validate:"required,channel"`
	Version string `json:"version" validate:"required,version"`
}

type UpdateTargetRequest struct {
	Name       *string `json:"name"`
	InstallDir *string `json:"install_dir"`
	Descriptor *string `json:"direct_x_version"`
	Is64       *bool   `json:"is_64_bit"`
	Is32       *bool   `json:"is_32_bit"`
}
