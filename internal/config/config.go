package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/MirrorChyan/dxvk-manager/internal/library"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// New loads defaults, then an optional .env file, then the yaml config file
// and finally DXVKM_ environment variables. A missing config file is not an
// error; a malformed one is. An explicit path must exist.
func New(path string) (*viper.Viper, *Config, error) {
	if err := godotenv.Load(DefaultEnvFile); err != nil && !os.IsNotExist(err) {
		return nil, nil, errors.Wrap(err, "load .env")
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType(DefaultConfigType)
		v.AddConfigPath(".")
		v.AddConfigPath("config")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, AppName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, nil, errors.Wrap(err, "read config file")
		}
	}

	var c = new(Config)
	if err := v.Unmarshal(c); err != nil {
		return nil, nil, errors.Wrap(err, "unmarshal config")
	}
	c.fill()
	return v, c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(serverHostKey, DefaultHost)
	v.SetDefault(serverPortKey, DefaultPort)
	v.SetDefault(LogLevelKey, DefaultLogLevel)
	v.SetDefault("log.max_size", DefaultLogMaxSize)
	v.SetDefault("log.max_backups", DefaultLogMaxBackups)
	v.SetDefault("log.max_age", DefaultLogMaxAge)
	v.SetDefault(fetchTimeoutKey, DefaultFetchTimeout)
	v.SetDefault(fetchAgentKey, DefaultUserAgent)
	v.SetDefault(fetchRedirectKey, DefaultMaxRedirects)
	v.SetDefault(CatalogTTLKey, DefaultCatalogTTL)
	v.SetDefault(steamAppsKey, library.DefaultSteamApps())

	// bound so that env-only values are seen by Unmarshal
	for _, key := range []string{
		storageRootKey,
		metadataDirKey,
		"log.file",
		"fetch.unpack_timeout",
		"channels.dxvk.index_url",
		"channels.dxvk_gplasync.index_url",
		"channels.dxvk_gplasync.download_url",
	} {
		_ = v.BindEnv(key)
	}
}

// fill derives the storage paths that depend on other values.
func (c *Config) fill() {
	if c.Storage.Root == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = os.TempDir()
		}
		c.Storage.Root = filepath.Join(dir, AppName)
	}
	if c.Storage.MetadataDir == "" {
		c.Storage.MetadataDir = filepath.Join(c.Storage.Root, filepath.FromSlash(DefaultMetadataSubdir))
	}
}
