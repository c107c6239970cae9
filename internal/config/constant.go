package config

import "time"

const (
	AppName           = "dxvk-manager"
	EnvPrefix         = "DXVKM"
	DefaultConfigName = "config"
	DefaultConfigType = "yaml"
	DefaultEnvFile    = ".env"

	DefaultHost           = "127.0.0.1"
	DefaultPort           = 8000
	DefaultFetchTimeout   = 3 * time.Minute
	DefaultUserAgent      = "DXVK-Manager-App"
	DefaultMaxRedirects   = 10
	DefaultCatalogTTL     = 5 * time.Minute
	DefaultLogLevel       = "info"
	DefaultLogMaxSize     = 10
	DefaultLogMaxBackups  = 3
	DefaultLogMaxAge      = 28
	DefaultMetadataSubdir = "games-meta/metadata"
)

const (
	LogLevelKey      = "log.level"
	CatalogTTLKey    = "catalog.cache_ttl"
	storageRootKey   = "storage.root"
	metadataDirKey   = "storage.metadata_dir"
	steamAppsKey     = "library.steamapps"
	serverHostKey    = "server.host"
	serverPortKey    = "server.port"
	fetchTimeoutKey  = "fetch.timeout"
	fetchAgentKey    = "fetch.user_agent"
	fetchRedirectKey = "fetch.max_redirects"
)
