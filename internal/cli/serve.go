package cli

import (
	"github.com/MirrorChyan/dxvk-manager/internal/application"
	"github.com/MirrorChyan/dxvk-manager/internal/config"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/restserver"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local REST API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		config.Watch(vp, conf)

		app := application.New(zap.L())
		app.AddAdapter(restserver.NewAdapter(conf, deps.RestServer))

		zap.L().Info("Serving",
			zap.String("host", conf.Server.Host),
			zap.Int("port", conf.Server.Port),
			zap.String("storage", conf.Storage.Root),
		)
		return app.Run(cmd.Context())
	},
}
