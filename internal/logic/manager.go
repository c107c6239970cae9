package logic

import (
	"github.com/MirrorChyan/dxvk-manager/internal/catalog"
	"github.com/MirrorChyan/dxvk-manager/internal/channel"
	"github.com/MirrorChyan/dxvk-manager/internal/fetcher"
	"github.com/MirrorChyan/dxvk-manager/internal/metadata"
	"github.com/MirrorChyan/dxvk-manager/internal/patcher"
	"github.com/MirrorChyan/dxvk-manager/internal/stg"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// LibraryPath is the steamapps directory scanned by SyncLibrary.
type LibraryPath string

// Manager is the entry point for every operation exposed to the command
// surfaces.
type Manager struct {
	logger    *zap.Logger
	channels  *channel.Set
	catalog   *catalog.Catalog
	fetcher   *fetcher.Fetcher
	storage   *stg.Storage
	engine    *patcher.Engine
	store     metadata.Store
	targets   *metadata.TargetProvider
	steamApps LibraryPath

	fetchGroup singleflight.Group
}

func NewManager(
	logger *zap.Logger,
	channels *channel.Set,
	catalog *catalog.Catalog,
	fetcher *fetcher.Fetcher,
	storage *stg.Storage,
	engine *patcher.Engine,
	store metadata.Store,
	targets *metadata.TargetProvider,
	steamApps LibraryPath,
) *Manager {
	return &Manager{
		logger:    logger,
		channels:  channels,
		catalog:   catalog,
		fetcher:   fetcher,
		storage:   storage,
		engine:    engine,
		store:     store,
		targets:   targets,
		steamApps: steamApps,
	}
}

func (m *Manager) Channels() *channel.Set {
	return m.channels
}
