package metadata

import (
	"time"

	"github.com/MirrorChyan/dxvk-manager/internal/model"
	"github.com/MirrorChyan/dxvk-manager/internal/model/types"
)

// record keys shared with the game library tooling
const (
	KeyName       = "pageName"
	KeyInstallDir = "installDir"
	KeyDescriptor = "direct3dVersions"
	KeyExec32     = "executable32bit"
	KeyExec64     = "executable64bit"
	KeySource     = "source"

	KeyPatched        = "patched"
	KeyBackuped       = "backuped"
	KeyAppliedVersion = "dxvk_version"
	KeyAppliedChannel = "dxvk_type"
	KeyAppliedAt      = "dxvk_timestamp"
	KeyAppliedFiles   = "dxvk_files"
)

const unknown = "Unknown"

// SourceSteam marks records seeded from a Steam library scan.
const SourceSteam = "steam"

// StateFromRecord reads the patch state fields of r. A record that is not
// patched never reports applied fields.
func StateFromRecord(r Record) model.PatchState {
	s := model.PatchState{
		Patched:  r.Bool(KeyPatched),
		Backuped: r.Bool(KeyBackuped),
	}
	if !s.Patched {
		return s
	}
	s.AppliedChannel = types.Channel(r.String(KeyAppliedChannel))
	s.AppliedVersion = r.String(KeyAppliedVersion)
	if at, err := time.Parse(time.RFC3339, r.String(KeyAppliedAt)); err == nil {
		s.AppliedAt = &at
	}
	s.AppliedFiles = r.Strings(KeyAppliedFiles)
	return s
}

// StateRecord is the merge patch that writes s. Cleared fields map to nil so
// Save removes them.
func StateRecord(s model.PatchState) Record {
	r := Record{
		KeyPatched:        s.Patched,
		KeyBackuped:       s.Backuped,
		KeyAppliedChannel: nil,
		KeyAppliedVersion: nil,
		KeyAppliedAt:      nil,
		KeyAppliedFiles:   nil,
	}
	if !s.Patched {
		return r
	}
	if s.AppliedChannel != "" {
		r[KeyAppliedChannel] = s.AppliedChannel.String()
	}
	if s.AppliedVersion != "" {
		r[KeyAppliedVersion] = s.AppliedVersion
	}
	if s.AppliedAt != nil {
		r[KeyAppliedAt] = s.AppliedAt.UTC().Format(time.RFC3339)
	}
	if len(s.AppliedFiles) > 0 {
		r[KeyAppliedFiles] = append([]string(nil), s.AppliedFiles...)
	}
	return r
}

// ClearedState is the record patch for an unpatched target.
func ClearedState() Record {
	return StateRecord(model.PatchState{})
}

func flag(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
