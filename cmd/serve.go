package cmd

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, setupOpts{coach: true})
		if err != nil {
			return err
		}
		defer rt.close()

		if rt.cfg.Production() {
			gin.SetMode(gin.ReleaseMode)
		}
		addr := rt.cfg.HTTP.Address
		if a, _ := cmd.Flags().GetString("addr"); a != "" {
			addr = a
		}

		serviceName := ""
		if rt.cfg.Otel.Enabled {
			serviceName = rt.cfg.Otel.ServiceName
		}
		router := httpapi.NewRouter(httpapi.RouterConfig{
			Log:         rt.log,
			Progress:    rt.svc,
			ServiceName: serviceName,
		})
		return httpapi.NewServer(addr, router, rt.cfg.HTTP.ShutdownTimeout, rt.log).Run(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides http.address)")
}
