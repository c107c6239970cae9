package logic

import (
	"context"
	"os"
	"path/filepath"

	"github.com/MirrorChyan/dxvk-manager/internal/channel"
	"github.com/MirrorChyan/dxvk-manager/internal/model"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/errs"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
)

// FetchAndCache downloads and unpacks a version into the cache. It is a
// no-op when the version is already present. Without a download URL the
// release catalog is consulted. Concurrent calls for the same version share
// one download.
func (m *Manager) FetchAndCache(ctx context.Context, param model.FetchParam) error {
	ch, err := m.channels.Get(param.Channel)
	if err != nil {
		return err
	}
	if !ch.ValidVersion(param.Version) {
		return errs.ErrInvalidParams.WithMessage("invalid version %q", param.Version)
	}
	if m.storage.IsPresent(ch, param.Version) {
		return nil
	}

	key := ch.ID.String() + ":" + ch.DirName(param.Version)
	_, err, _ = m.fetchGroup.Do(key, func() (any, error) {
		return nil, m.fetchAndCache(ctx, ch, param)
	})
	return err
}

func (m *Manager) fetchAndCache(ctx context.Context, ch *channel.Channel, param model.FetchParam) error {
	log := m.logger.With(
		zap.String("op", ksuid.New().String()),
		zap.String("channel", ch.ID.String()),
		zap.String("version", param.Version),
	)
	if m.storage.IsPresent(ch, param.Version) {
		return nil
	}

	url := param.DownloadURL
	if url == "" {
		release, err := m.catalog.Find(ctx, ch, param.Version)
		if err != nil {
			return err
		}
		if !release.Actionable() {
			return errs.ErrNotFound.WithMessage("%s %s has no downloadable asset", ch.DisplayName, param.Version)
		}
		url = release.DownloadURL
	}

	archivePath := filepath.Join(m.storage.ChannelDir(ch), ch.ArchiveName(param.Version))
	log.Info("Downloading release", zap.String("url", url))
	if err := m.fetcher.Fetch(ctx, url, archivePath); err != nil {
		log.Error("Download failed", zap.Error(err))
		return err
	}

	staging := m.storage.StagingDir(ch, param.Version)
	if err := m.fetcher.Unpack(ctx, archivePath, staging); err != nil {
		log.Error("Extraction failed",
			zap.String("archive", archivePath),
			zap.Error(err),
		)
		if rmErr := os.RemoveAll(staging); rmErr != nil {
			log.Warn("Failed to remove staging directory", zap.Error(rmErr))
		}
		return err
	}

	if err := m.storage.Commit(ch, param.Version, staging); err != nil {
		_ = os.RemoveAll(staging)
		return errs.ErrExtractionFailure.WithMessage("failed to move %s %s into the cache", ch.DisplayName, param.Version).Wrap(err)
	}
	log.Info("Version cached", zap.String("dir", m.storage.VersionDir(ch, param.Version)))
	return nil
}

func (m *Manager) IsCached(channelID, version string) (bool, error) {
	ch, err := m.channels.Get(channelID)
	if err != nil {
		return false, err
	}
	if !ch.ValidVersion(version) {
		return false, nil
	}
	return m.storage.IsPresent(ch, version), nil
}

func (m *Manager) InstalledVersions(channelID string) ([]string, error) {
	ch, err := m.channels.Get(channelID)
	if err != nil {
		return nil, err
	}
	versions, err := m.storage.Installed(ch)
	if err != nil {
		m.logger.Error("Failed to list cached versions",
			zap.String("channel", channelID),
			zap.Error(err),
		)
		return nil, errs.NewUnexpected("failed to list cached versions", err)
	}
	return versions, nil
}
