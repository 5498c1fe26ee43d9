// file: cmd/serve.go
// version: 1.0.0
// guid: 1b2c3d4e-5f6a-4b7c-9d8e-0f1a2b3c4d5e

package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jdfalk/bookmeta/internal/config"
	"github.com/jdfalk/bookmeta/internal/logger"
	"github.com/jdfalk/bookmeta/internal/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start an HTTP API exposing identify, cover and batch lookups plus
/health and /metrics. Changes to log_level in the config file are applied
without a restart; other settings need one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := openSource(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer h.Close()

		if h.log.Level() != logger.DebugLevel {
			gin.SetMode(gin.ReleaseMode)
		}

		cfg := server.DefaultServerConfig(config.AppConfig.ListenAddr())
		cfg.RequestsPerMinute = config.AppConfig.Server.RequestsPerMinute
		cfg.Burst = config.AppConfig.Server.Burst
		cfg.BasicAuthUsername = config.AppConfig.Server.BasicAuthUsername
		cfg.BasicAuthPassword = config.AppConfig.Server.BasicAuthPassword
		if w, _ := cmd.Flags().GetInt("workers"); w > 0 {
			cfg.BatchWorkers = w
		}

		var idx server.IndexStats
		if h.index != nil {
			idx = h.index
		}
		srv := server.NewServer(h.source, idx, h.log, cfg)

		if viper.ConfigFileUsed() != "" {
			viper.OnConfigChange(func(e fsnotify.Event) {
				if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
					return
				}
				prev, err := config.Reload()
				if err != nil {
					log.Printf("[WARN] config change in %s ignored: %v", e.Name, err)
					return
				}
				h.log.SetLevel(logger.ParseLevel(config.AppConfig.LogLevel))
				if restartNeeded(prev, config.AppConfig) {
					log.Printf("[WARN] %s changed; restart to apply settings other than log_level", e.Name)
				} else {
					log.Printf("[INFO] reloaded %s", e.Name)
				}
			})
			viper.WatchConfig()
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(cmd.ErrOrStderr(), "Serving %s lookups on http://%s\n", h.source.Name(), cfg.Addr)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().String("host", "", "host to bind the API server to (default 127.0.0.1)")
	serveCmd.Flags().Int("port", 0, "port to run the API server on (default 8484)")
	serveCmd.Flags().Int("workers", 0, "ISBNs looked up concurrently per batch request (default 4)")

	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

// restartNeeded reports whether anything besides the log level changed.
func restartNeeded(prev, next config.Config) bool {
	prev.LogLevel = next.LogLevel
	return prev != next
}
