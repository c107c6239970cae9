package patcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MirrorChyan/dxvk-manager/internal/metadata"
	"github.com/MirrorChyan/dxvk-manager/internal/metrics"
	"github.com/MirrorChyan/dxvk-manager/internal/model"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/errs"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/fileops"
	"go.uber.org/zap"
)

// Restore puts the backed up vendor binaries back. It requires a recorded
// backup and clears the patch state once at least one file was restored.
func (e *Engine) Restore(ctx context.Context, target *model.Target) *model.RestoreResult {
	log := e.operationLogger("restore", target)
	result := e.restore(ctx, log, target)
	metrics.PatchOperations.WithLabelValues("restore", metrics.Result(result.Success)).Inc()
	return result
}

func (e *Engine) restore(ctx context.Context, log *zap.Logger, target *model.Target) *model.RestoreResult {
	result := &model.RestoreResult{
		RestoredFiles: []string{},
		FailedFiles:   []string{},
	}
	if err := ctx.Err(); err != nil {
		result.Message = "Operation cancelled"
		return result
	}

	state := e.State(target.ID)
	if !state.Backuped {
		err := errs.ErrPreconditionFailure.WithMessage("No backups found for %s. Cannot restore original binaries.", displayName(target))
		log.Warn("Restore rejected", zap.Error(err))
		result.Message = err.Message()
		return result
	}
	if err := checkInstallDir(target); err != nil {
		log.Warn("Restore rejected", zap.Error(err))
		result.Message = errs.UserMessage(err, "Game directory not found")
		return result
	}

	for _, f := range e.trackedFiles(target, state) {
		current := filepath.Join(target.InstallDir, f)
		bkp := backupPath(target.InstallDir, f)
		if !fileops.IsFile(bkp) {
			continue
		}
		if _, err := fileops.RemoveIfExists(current); err != nil {
			log.Error("Failed to remove patched binary",
				zap.String("file", current),
				zap.Error(err),
			)
			result.FailedFiles = append(result.FailedFiles, f)
			continue
		}
		if err := os.Rename(bkp, current); err != nil {
			log.Error("Failed to restore backup",
				zap.String("file", bkp),
				zap.Error(err),
			)
			result.FailedFiles = append(result.FailedFiles, f)
			continue
		}
		log.Info("Restored binary", zap.String("file", current))
		result.RestoredFiles = append(result.RestoredFiles, f)
	}

	if len(result.RestoredFiles) == 0 {
		result.Message = "Could not find any backups to restore"
		log.Warn("Restore found no backups although one was recorded",
			zap.Strings("failed", result.FailedFiles),
		)
		return result
	}

	result.Success = true
	result.Message = fmt.Sprintf("Restored %d original files for %s", len(result.RestoredFiles), displayName(target))
	if len(result.FailedFiles) > 0 {
		result.Message += fmt.Sprintf(" (%d failed)", len(result.FailedFiles))
	}
	if err := e.store.Save(target.ID, metadata.ClearedState()); err != nil {
		log.Error("Files restored but state could not be cleared", zap.Error(err))
		result.Message += "; the patch state could not be saved"
	}
	return result
}

// ForceRemove deletes the translation layer's binaries without restoring
// anything and clears the patch state. It is the fallback when no backup
// exists.
func (e *Engine) ForceRemove(ctx context.Context, target *model.Target) *model.RemoveResult {
	log := e.operationLogger("remove", target)
	result := e.forceRemove(ctx, log, target)
	metrics.PatchOperations.WithLabelValues("remove", metrics.Result(result.Success)).Inc()
	return result
}

func (e *Engine) forceRemove(ctx context.Context, log *zap.Logger, target *model.Target) *model.RemoveResult {
	result := &model.RemoveResult{
		RemovedFiles: []string{},
		FailedFiles:  []string{},
	}
	if err := ctx.Err(); err != nil {
		result.Message = "Operation cancelled"
		return result
	}
	if err := checkInstallDir(target); err != nil {
		log.Warn("Remove rejected", zap.Error(err))
		result.Message = errs.UserMessage(err, "Game directory not found")
		return result
	}

	state := e.State(target.ID)
	for _, f := range e.trackedFiles(target, state) {
		p := filepath.Join(target.InstallDir, f)
		removed, err := fileops.RemoveIfExists(p)
		if err != nil {
			log.Error("Failed to remove binary",
				zap.String("file", p),
				zap.Error(err),
			)
			result.FailedFiles = append(result.FailedFiles, f)
			continue
		}
		if removed {
			log.Info("Removed binary", zap.String("file", p))
			result.RemovedFiles = append(result.RemovedFiles, f)
		}
	}

	if len(result.RemovedFiles) == 0 && len(result.FailedFiles) > 0 {
		result.Message = fmt.Sprintf("Failed to remove DXVK files from %s", displayName(target))
		return result
	}

	result.Success = true
	if len(result.RemovedFiles) == 0 {
		result.Message = fmt.Sprintf("No DXVK files were present in %s", displayName(target))
	} else {
		result.Message = fmt.Sprintf("Removed %d DXVK files from %s", len(result.RemovedFiles), displayName(target))
	}
	if len(result.FailedFiles) > 0 {
		result.Message += fmt.Sprintf(" (%d failed)", len(result.FailedFiles))
	}
	if err := e.store.Save(target.ID, metadata.ClearedState()); err != nil {
		log.Error("Files removed but state could not be cleared", zap.Error(err))
		result.Message += "; the patch state could not be saved"
	}
	return result
}
