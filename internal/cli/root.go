package cli

import (
	"github.com/MirrorChyan/dxvk-manager/internal/config"
	"github.com/MirrorChyan/dxvk-manager/internal/logger"
	"github.com/MirrorChyan/dxvk-manager/internal/wire"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile    string
	debug      bool
	jsonOutput bool

	vp   *viper.Viper
	conf *config.Config
	deps *wire.Components
)

var rootCmd = &cobra.Command{
	Use:   "dxvk-manager",
	Short: "Download DXVK builds and patch them into game installs",
	Long: `dxvk-manager keeps a local cache of DXVK and DXVK-gplasync releases and
swaps their DLLs into game directories, backing up the originals so they can
be restored.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setUp,
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or <user config dir>/dxvk-manager/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(releasesCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(cachedCmd)
	rootCmd.AddCommand(requirementsCmd)
	rootCmd.AddCommand(targetCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(statusCmd)
}

func setUp(cmd *cobra.Command, _ []string) error {
	var err error
	vp, conf, err = config.New(cfgFile)
	if err != nil {
		return err
	}
	if debug {
		conf.Log.Level = "debug"
	}

	zap.ReplaceGlobals(logger.New(conf))
	deps = wire.NewComponents(conf, zap.L())
	return nil
}
