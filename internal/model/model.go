package model

import (
	"time"

	"github.com/MirrorChyan/dxvk-manager/internal/model/types"
)

type Bitness struct {
	Is64 bool `json:"is_64_bit"`
	Is32 bool `json:"is_32_bit"`
}

// Target is one tracked application install.
type Target struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	InstallDir string  `json:"install_dir"`
	Descriptor string  `json:"direct_x_version"`
	Bitness    Bitness `json:"bitness"`
}

// PatchState is the slice of a target's record owned by the patch engine.
// When Patched is false every Applied* field is empty.
type PatchState struct {
	Patched        bool          `json:"patched"`
	Backuped       bool          `json:"backuped"`
	AppliedChannel types.Channel `json:"applied_channel,omitempty"`
	AppliedVersion string        `json:"applied_version,omitempty"`
	AppliedAt      *time.Time    `json:"applied_at,omitempty"`
	AppliedFiles   []string      `json:"applied_files,omitempty"`
}

type Release struct {
	Version       string `json:"version"`
	DisplayName   string `json:"display_name"`
	PublishedDate string `json:"published_date,omitempty"`
	DownloadURL   string `json:"download_url,omitempty"`
	IsDownloaded  bool   `json:"is_downloaded"`
}

// Actionable reports whether the release has an asset that can be fetched.
func (r Release) Actionable() bool {
	return r.DownloadURL != ""
}
