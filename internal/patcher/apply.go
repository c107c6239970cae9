package patcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/MirrorChyan/dxvk-manager/internal/channel"
	"github.com/MirrorChyan/dxvk-manager/internal/metadata"
	"github.com/MirrorChyan/dxvk-manager/internal/metrics"
	"github.com/MirrorChyan/dxvk-manager/internal/model"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/errs"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/fileops"
	"github.com/MirrorChyan/dxvk-manager/internal/resolver"
	"go.uber.org/zap"
)

// Apply backs up the vendor binaries of target (unless it is already
// patched) and copies the cached version's binaries over them. Per-file
// failures are collected; the operation succeeds when at least one file was
// copied.
func (e *Engine) Apply(ctx context.Context, target *model.Target, ch *channel.Channel, version string) *model.ApplyResult {
	log := e.operationLogger("apply", target).With(
		zap.String("channel", ch.ID.String()),
		zap.String("version", version),
	)
	result := e.apply(ctx, log, target, ch, version)

	label := metrics.Result(result.Success)
	if result.Success && (len(result.Missing) > 0 || len(result.Failed) > 0) {
		label = metrics.ResultPartial
	}
	metrics.PatchOperations.WithLabelValues("apply", label).Inc()
	return result
}

func (e *Engine) apply(ctx context.Context, log *zap.Logger, target *model.Target, ch *channel.Channel, version string) *model.ApplyResult {
	if err := ctx.Err(); err != nil {
		return &model.ApplyResult{Message: "Operation cancelled"}
	}
	if err := checkInstallDir(target); err != nil {
		log.Warn("Apply rejected", zap.Error(err))
		return &model.ApplyResult{Message: errs.UserMessage(err, "Game directory not found")}
	}

	req := resolver.Resolve(target.Descriptor, target.Bitness)
	log.Info("Resolved required binaries",
		zap.Strings("files", req.Files),
		zap.String("description", req.Description),
		zap.String("arch", req.Arch.String()),
	)

	binDir, attempted, err := e.payloads.ResolveArchDir(ch, version, req.Arch)
	if err != nil {
		log.Error("Cached payload not found",
			zap.Strings("attempted", attempted),
			zap.Error(err),
		)
		return &model.ApplyResult{Message: errs.UserMessage(err, "DXVK files not found in cache")}
	}
	log.Info("Using payload directory", zap.String("dir", binDir))

	state := e.State(target.ID)

	var existing []string
	for _, f := range req.Files {
		if fileops.IsFile(filepath.Join(target.InstallDir, f)) {
			existing = append(existing, f)
		}
	}

	backuped := state.Backuped
	unprotected := make(map[string]struct{})
	if !state.Patched {
		backuped = false
		for _, f := range existing {
			ok, err := e.backup(log, target.InstallDir, f)
			if err != nil {
				unprotected[f] = struct{}{}
				continue
			}
			if ok {
				backuped = true
			}
		}
	} else {
		log.Info("Target already patched, keeping existing backups")
	}

	result := &model.ApplyResult{}
	for _, f := range req.Files {
		if _, skip := unprotected[f]; skip {
			// never overwrite a vendor binary that could not be backed up
			result.Failed = append(result.Failed, f)
			continue
		}
		src := filepath.Join(binDir, f)
		if !fileops.IsFile(src) {
			log.Warn("Binary missing from payload", zap.String("file", src))
			result.Missing = append(result.Missing, f)
			continue
		}
		if err := fileops.CopyFile(src, filepath.Join(target.InstallDir, f)); err != nil {
			log.Error("Failed to copy binary",
				zap.String("file", f),
				zap.Error(err),
			)
			result.Failed = append(result.Failed, f)
			continue
		}
		log.Debug("Copied binary", zap.String("file", f))
		result.Copied = append(result.Copied, f)
	}

	if len(result.Copied) == 0 {
		result.Message = fmt.Sprintf("Failed to copy DXVK files to %s", displayName(target))
		log.Error("Apply copied nothing",
			zap.Strings("missing", result.Missing),
			zap.Strings("failed", result.Failed),
		)
		return result
	}
	result.Success = true

	var applied []string
	if state.Patched {
		applied = state.AppliedFiles
	}
	now := e.now()
	newState := model.PatchState{
		Patched:        true,
		Backuped:       backuped,
		AppliedChannel: ch.ID,
		AppliedVersion: version,
		AppliedAt:      &now,
		AppliedFiles:   union(applied, result.Copied),
	}

	var warnings []string
	if err := e.store.Save(target.ID, metadata.StateRecord(newState)); err != nil {
		log.Error("Files patched but state could not be recorded", zap.Error(err))
		warnings = append(warnings, "DXVK was applied but the patch state could not be saved")
	} else {
		result.Recorded = true
	}
	if len(existing) == 0 {
		warnings = append(warnings, fmt.Sprintf("No existing %s files were found in the game directory; this game may not need DXVK", req.Description))
	}
	if req.Incompatible {
		warnings = append(warnings, req.Description)
	}
	result.Warning = strings.Join(warnings, "; ")

	result.Message = fmt.Sprintf("Successfully applied %s %s to %s", ch.DisplayName, version, displayName(target))
	if n := len(result.Missing) + len(result.Failed); n > 0 {
		result.Message += fmt.Sprintf(" (%d of %d files could not be copied)", n, len(req.Files))
	}
	log.Info("Apply finished",
		zap.Strings("copied", result.Copied),
		zap.Bool("backuped", backuped),
		zap.Bool("recorded", result.Recorded),
	)
	return result
}

// backup copies file to its backup path unless a backup already exists.
// It reports whether a backup is present afterwards.
func (e *Engine) backup(log *zap.Logger, dir, file string) (bool, error) {
	dst := backupPath(dir, file)
	if fileops.IsFile(dst) {
		log.Debug("Backup already present", zap.String("file", dst))
		return true, nil
	}
	if err := fileops.CopyFile(filepath.Join(dir, file), dst); err != nil {
		log.Error("Failed to back up binary",
			zap.String("file", file),
			zap.Error(err),
		)
		_, _ = fileops.RemoveIfExists(dst)
		return false, err
	}
	log.Info("Backed up binary", zap.String("file", dst))
	return true, nil
}
