package config

import "time"

type (
	Config struct {
		Server   ServerConfig   `mapstructure:"server"`
		Log      LogConfig      `mapstructure:"log"`
		Storage  StorageConfig  `mapstructure:"storage"`
		Fetch    FetchConfig    `mapstructure:"fetch"`
		Catalog  CatalogConfig  `mapstructure:"catalog"`
		Channels ChannelsConfig `mapstructure:"channels"`
		Library  LibraryConfig  `mapstructure:"library"`
	}
	ServerConfig struct {
		Host string `mapstructure:"host"`
		Port int    `mapstructure:"port"`
	}

	LogConfig struct {
		Level      string `mapstructure:"level"`
		File       string `mapstructure:"file"`
		MaxSize    int    `mapstructure:"max_size"`
		MaxBackups int    `mapstructure:"max_backups"`
		MaxAge     int    `mapstructure:"max_age"`
		Compress   bool   `mapstructure:"compress"`
	}
	StorageConfig struct {
		Root        string `mapstructure:"root"`
		MetadataDir string `mapstructure:"metadata_dir"`
	}
	FetchConfig struct {
		Timeout       time.Duration `mapstructure:"timeout"`
		UnpackTimeout time.Duration `mapstructure:"unpack_timeout"`
		UserAgent     string        `mapstructure:"user_agent"`
		MaxRedirects  int           `mapstructure:"max_redirects"`
	}
	CatalogConfig struct {
		CacheTTL time.Duration `mapstructure:"cache_ttl"`
	}
	ChannelsConfig struct {
		DXVK         ChannelOverride `mapstructure:"dxvk"`
		DXVKGPLAsync ChannelOverride `mapstructure:"dxvk_gplasync"`
	}
	// ChannelOverride replaces upstream endpoints, for mirrors.
	ChannelOverride struct {
		IndexURL    string `mapstructure:"index_url"`
		DownloadURL string `mapstructure:"download_url"`
	}
	LibraryConfig struct {
		SteamApps string `mapstructure:"steamapps"`
	}
)
