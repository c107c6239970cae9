package logic

import (
	"context"

	"github.com/MirrorChyan/dxvk-manager/internal/library"
	"github.com/MirrorChyan/dxvk-manager/internal/metadata"
	"github.com/MirrorChyan/dxvk-manager/internal/model"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/errs"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func (m *Manager) Target(targetID string) (*model.Target, error) {
	return m.targets.Lookup(targetID)
}

func (m *Manager) UpdateTarget(targetID string, update model.TargetUpdate) (*model.Target, error) {
	return m.targets.Update(targetID, update)
}

// SyncLibrary seeds records for installed Steam apps and refreshes their
// install directories. With Prune, records previously seeded from Steam
// whose app is gone are deleted; manually added targets are kept.
func (m *Manager) SyncLibrary(ctx context.Context, param model.SyncLibraryParam) (*model.SyncLibraryResult, error) {
	steamApps := param.SteamApps
	if steamApps == "" {
		steamApps = string(m.steamApps)
	}
	if steamApps == "" {
		steamApps = library.DefaultSteamApps()
	}

	apps, err := library.Scan(m.logger, steamApps)
	if err != nil {
		return nil, errs.NewUnexpected("failed to scan steam library", err)
	}

	result := &model.SyncLibraryResult{
		Discovered: len(apps),
		Added:      []string{},
		Updated:    []string{},
		Removed:    []string{},
	}
	installed := make(map[string]struct{}, len(apps))
	for _, app := range apps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		installed[app.ID] = struct{}{}

		record, err := m.store.Load(app.ID)
		switch {
		case errors.Is(err, errs.ErrNotFound):
			seed := metadata.DefaultRecord(app.Name, app.InstallDir)
			seed[metadata.KeySource] = metadata.SourceSteam
			if err := m.store.Save(app.ID, seed); err != nil {
				return nil, err
			}
			result.Added = append(result.Added, app.ID)
		case err != nil:
			m.logger.Warn("Skipping unreadable record",
				zap.String("id", app.ID),
				zap.Error(err),
			)
		case record.String(metadata.KeyInstallDir) != app.InstallDir:
			m.logger.Info("Updating installation directory",
				zap.String("id", app.ID),
				zap.String("from", record.String(metadata.KeyInstallDir)),
				zap.String("to", app.InstallDir),
			)
			if err := m.store.Save(app.ID, metadata.Record{metadata.KeyInstallDir: app.InstallDir}); err != nil {
				return nil, err
			}
			result.Updated = append(result.Updated, app.ID)
		}
	}

	if !param.Prune {
		return result, nil
	}

	ids, err := m.store.List()
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := installed[id]; ok {
			continue
		}
		record, err := m.store.Load(id)
		if err != nil || record.String(metadata.KeySource) != metadata.SourceSteam {
			continue
		}
		if err := m.store.Delete(id); err != nil {
			m.logger.Error("Failed to prune record",
				zap.String("id", id),
				zap.Error(err),
			)
			continue
		}
		result.Removed = append(result.Removed, id)
	}
	m.logger.Info("Library synchronized",
		zap.Int("discovered", result.Discovered),
		zap.Int("added", len(result.Added)),
		zap.Int("updated", len(result.Updated)),
		zap.Int("removed", len(result.Removed)),
	)
	return result, nil
}
