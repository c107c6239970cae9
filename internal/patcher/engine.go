package patcher

import (
	"path/filepath"
	"time"

	"github.com/MirrorChyan/dxvk-manager/internal/channel"
	"github.com/MirrorChyan/dxvk-manager/internal/metadata"
	"github.com/MirrorChyan/dxvk-manager/internal/model"
	"github.com/MirrorChyan/dxvk-manager/internal/model/types"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/errs"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/fileops"
	"github.com/MirrorChyan/dxvk-manager/internal/resolver"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
)

// BackupSuffix marks the preserved vendor copy of a replaced binary.
const BackupSuffix = ".bkp"

// PayloadResolver finds the cached folder holding one architecture's binaries.
type PayloadResolver interface {
	ResolveArchDir(ch *channel.Channel, version string, arch types.Arch) (string, []string, error)
}

// Engine moves targets between the unpatched and patched states. Callers
// serialize operations per target; the engine holds no lock.
type Engine struct {
	logger   *zap.Logger
	payloads PayloadResolver
	store    metadata.Store
	channels *channel.Set
	now      func() time.Time
}

func NewEngine(logger *zap.Logger, payloads PayloadResolver, store metadata.Store, channels *channel.Set) *Engine {
	return &Engine{
		logger:   logger,
		payloads: payloads,
		store:    store,
		channels: channels,
		now:      time.Now,
	}
}

// State returns the persisted patch state. Unknown targets are unpatched.
func (e *Engine) State(id string) model.PatchState {
	r, err := e.store.Load(id)
	if err != nil {
		if !errors.Is(err, errs.ErrNotFound) {
			e.logger.Error("Failed to load patch state",
				zap.String("target", id),
				zap.Error(err),
			)
		}
		return model.PatchState{}
	}
	return metadata.StateFromRecord(r)
}

// HasBackup reports whether any binary the target needs, or was given, has
// a backup next to it.
func (e *Engine) HasBackup(target *model.Target) bool {
	if target.InstallDir == "" {
		return false
	}
	for _, f := range e.trackedFiles(target, e.State(target.ID)) {
		if fileops.IsFile(backupPath(target.InstallDir, f)) {
			return true
		}
	}
	return false
}

func (e *Engine) operationLogger(op string, target *model.Target) *zap.Logger {
	return e.logger.With(
		zap.String("op", ksuid.New().String()),
		zap.String("operation", op),
		zap.String("target", target.ID),
	)
}

// trackedFiles is the recomputed requirement followed by any file recorded
// at apply time that the requirement no longer names.
func (e *Engine) trackedFiles(target *model.Target, state model.PatchState) []string {
	req := resolver.Resolve(target.Descriptor, target.Bitness)
	return union(req.Files, state.AppliedFiles)
}

func checkInstallDir(target *model.Target) error {
	if target.InstallDir == "" || !fileops.IsDir(target.InstallDir) {
		return errs.ErrNotFound.WithMessage("Game directory not found: %s", target.InstallDir)
	}
	return nil
}

func backupPath(dir, file string) string {
	return filepath.Join(dir, file+BackupSuffix)
}

func union(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, f := range list {
			if f == "" || filepath.Base(f) != f {
				continue
			}
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			out = append(out, f)
		}
	}
	return out
}

func displayName(target *model.Target) string {
	if target.Name != "" {
		return target.Name
	}
	return target.ID
}
