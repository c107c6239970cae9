package model

import "github.com/MirrorChyan/dxvk-manager/internal/model/types"

type RequirementsResponseData struct {
	Files       []string   `json:"files"`
	Description string     `json:"description"`
	Arch        types.Arch `json:"arch"`
	Warning     string     `json:"warning,omitempty"`
}

type ApplyResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Warning  string `json:"warning,omitempty"`
	Recorded bool   `json:"recorded"`

	Copied  []string `json:"copied_files,omitempty"`
	Missing []string `json:"missing_files,omitempty"`
	Failed  []string `json:"failed_files,omitempty"`
}

type RestoreResult struct {
	Success       bool     `json:"success"`
	Message       string   `json:"message"`
	RestoredFiles []string `json:"restored_files"`
	FailedFiles   []string `json:"failed_files"`
}

type RemoveResult struct {
	Success      bool     `json:"success"`
	Message      string   `json:"message"`
	RemovedFiles []string `json:"removed_files"`
	FailedFiles  []string `json:"failed_files"`
}

type VerifyResult struct {
	Patched  bool          `json:"patched"`
	Channel  types.Channel `json:"channel,omitempty"`
	Version  string        `json:"version,omitempty"`
	Matching []string      `json:"matching"`
	Drifted  []string      `json:"drifted"`
	Missing  []string      `json:"missing"`
}

// Intact reports whether every applied file still matches the cached payload.
func (r *VerifyResult) Intact() bool {
	return r.Patched && len(r.Drifted) == 0 && len(r.Missing) == 0
}

type CachedResponseData struct {
	Channel types.Channel `json:"channel"`
	Version string        `json:"version"`
	Cached  bool          `json:"cached"`
}

type BackupResponseData struct {
	Exists bool `json:"exists"`
}

type SyncLibraryResult struct {
	Discovered int      `json:"discovered"`
	Added      []string `json:"added"`
	Updated    []string `json:"updated"`
	Removed    []string `json:"removed"`
}
