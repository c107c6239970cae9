package provider

import (
	"github.com/MirrorChyan/dxvk-manager/internal/cache"
	"github.com/MirrorChyan/dxvk-manager/internal/catalog"
	"github.com/MirrorChyan/dxvk-manager/internal/channel"
	"github.com/MirrorChyan/dxvk-manager/internal/config"
	"github.com/MirrorChyan/dxvk-manager/internal/fetcher"
	"github.com/MirrorChyan/dxvk-manager/internal/metadata"
	"github.com/MirrorChyan/dxvk-manager/internal/patcher"
	"github.com/MirrorChyan/dxvk-manager/internal/stg"
	"github.com/google/wire"
	"go.uber.org/zap"
)

var InfraSet = wire.NewSet(
	NewChannelSet,
	NewStorage,
	NewFetcher,
	NewCacheGroup,
	NewFileStore,
	metadata.NewTargetProvider,
	catalog.New,
	patcher.NewEngine,
	wire.Bind(new(catalog.IndexGetter), new(*fetcher.Fetcher)),
	wire.Bind(new(catalog.PresenceChecker), new(*stg.Storage)),
	wire.Bind(new(patcher.PayloadResolver), new(*stg.Storage)),
	wire.Bind(new(metadata.Store), new(*metadata.FileStore)),
)

// NewChannelSet applies the configured endpoint overrides to the built-in
// channels.
func NewChannelSet(conf *config.Config) *channel.Set {
	dxvk := channel.DXVK()
	override(&dxvk, conf.Channels.DXVK)
	gpl := channel.GPLAsync()
	override(&gpl, conf.Channels.DXVKGPLAsync)
	return channel.NewSet(dxvk, gpl)
}

func override(ch *channel.Channel, o config.ChannelOverride) {
	if o.IndexURL != "" {
		ch.IndexURL = o.IndexURL
	}
	if o.DownloadURL != "" {
		ch.DownloadURL = o.DownloadURL
	}
}

func NewStorage(logger *zap.Logger, conf *config.Config) *stg.Storage {
	return stg.New(logger, conf.Storage.Root)
}

func NewFetcher(logger *zap.Logger, conf *config.Config) *fetcher.Fetcher {
	return fetcher.New(logger, fetcher.Config{
		Timeout:       conf.Fetch.Timeout,
		UnpackTimeout: conf.Fetch.UnpackTimeout,
		UserAgent:     conf.Fetch.UserAgent,
		MaxRedirects:  conf.Fetch.MaxRedirects,
	})
}

// NewCacheGroup also drops cached indexes whenever the TTL is reconfigured.
func NewCacheGroup(logger *zap.Logger, conf *config.Config) *cache.MultiCacheGroup {
	group := cache.NewCacheGroup(conf.Catalog.CacheTTL)
	config.RegisterKeyListener(config.KeyListener{
		Key: config.CatalogTTLKey,
		Listener: func(any) {
			logger.Info("Catalog cache TTL changed, evicting cached indexes")
			group.EvictAll()
		},
	})
	return group
}

func NewFileStore(logger *zap.Logger, conf *config.Config) *metadata.FileStore {
	return metadata.NewFileStore(logger, conf.Storage.MetadataDir)
}
