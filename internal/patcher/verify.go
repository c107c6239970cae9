package patcher

import (
	"path/filepath"

	"github.com/MirrorChyan/dxvk-manager/internal/model"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/errs"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/filehash"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/fileops"
	"github.com/MirrorChyan/dxvk-manager/internal/resolver"
	"go.uber.org/zap"
)

type ChangeType int

const (
	Unchanged ChangeType = iota
	Modified
	Deleted
)

type Change struct {
	Filename   string     `json:"filename"`
	ChangeType ChangeType `json:"change_type"`
}

// Verify compares the installed binaries of a patched target with the cached
// payload they were copied from.
func (e *Engine) Verify(target *model.Target) (*model.VerifyResult, error) {
	state := e.State(target.ID)
	result := &model.VerifyResult{
		Patched:  state.Patched,
		Matching: []string{},
		Drifted:  []string{},
		Missing:  []string{},
	}
	if !state.Patched {
		return result, nil
	}
	result.Channel = state.AppliedChannel
	result.Version = state.AppliedVersion

	if err := checkInstallDir(target); err != nil {
		return nil, err
	}
	ch, err := e.channels.Get(state.AppliedChannel.String())
	if err != nil {
		return nil, err
	}
	req := resolver.Resolve(target.Descriptor, target.Bitness)
	binDir, _, err := e.payloads.ResolveArchDir(ch, state.AppliedVersion, req.Arch)
	if err != nil {
		return nil, err
	}

	files := state.AppliedFiles
	if len(files) == 0 {
		files = req.Files
	}

	changes := make([]Change, 0, len(files))
	for _, f := range files {
		change, err := compareFile(filepath.Join(binDir, f), filepath.Join(target.InstallDir, f))
		if err != nil {
			e.logger.Error("Failed to verify binary",
				zap.String("target", target.ID),
				zap.String("file", f),
				zap.Error(err),
			)
			return nil, errs.ErrNotFound.WithMessage("cannot verify %s", f).Wrap(err)
		}
		change.Filename = f
		changes = append(changes, change)
	}

	for _, c := range changes {
		switch c.ChangeType {
		case Unchanged:
			result.Matching = append(result.Matching, c.Filename)
		case Modified:
			result.Drifted = append(result.Drifted, c.Filename)
		case Deleted:
			result.Missing = append(result.Missing, c.Filename)
		}
	}
	return result, nil
}

func compareFile(cached, installed string) (Change, error) {
	if !fileops.IsFile(installed) {
		return Change{ChangeType: Deleted}, nil
	}
	same, err := filehash.Same(cached, installed)
	if err != nil {
		return Change{}, err
	}
	if same {
		return Change{ChangeType: Unchanged}, nil
	}
	return Change{ChangeType: Modified}, nil
}
