// file: cmd/root.go
// version: 2.0.0
// guid: 6a7b8c9d-0e1f-2a3b-4c5d-6e7f8a9b0c1d

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jdfalk/bookmeta/internal/cache"
	"github.com/jdfalk/bookmeta/internal/config"
	"github.com/jdfalk/bookmeta/internal/idindex"
	"github.com/jdfalk/bookmeta/internal/logger"
	"github.com/jdfalk/bookmeta/internal/matcher"
	"github.com/jdfalk/bookmeta/internal/metadata"
)

// Version is the CLI and User-Agent version.
const Version = "1.0.0"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bookmeta",
	Short: "Look up Greek book metadata and covers by ISBN",
	Long: `bookmeta queries a Biblionet lookup service by ISBN and prints
normalized metadata records (title, authors, publisher, tags, publication
date, series) and downloads cover images.

It can also run as an HTTP API with Prometheus metrics.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.bookmeta.yaml)")
	rootCmd.PersistentFlags().String("base-url", "", "lookup service URL (default http://localhost/~nikan/bookmeta/index.php)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "per request timeout (default 20s)")
	rootCmd.PersistentFlags().String("index", "", "path to a persistent ISBN/cover index (PebbleDB directory)")
	rootCmd.PersistentFlags().String("log-level", "", "debug, info, warn or error")

	_ = viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	_ = viper.BindPFlag("request_timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("index_path", rootCmd.PersistentFlags().Lookup("index"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(identifyCmd)
	rootCmd.AddCommand(coverCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(diagnosticsCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(config.DefaultConfigName)
	}

	viper.SetEnvPrefix("BOOKMETA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	config.InitConfig()
}

// sourceHandle bundles a configured source with the resources it holds.
type sourceHandle struct {
	source *metadata.Source
	index  *idindex.Store
	log    *logger.Logger
}

func (h *sourceHandle) Close() {
	if h.index != nil {
		if err := h.index.Close(); err != nil {
			h.log.Error("failed to close identifier index: %v", err)
		}
	}
}

// openSource builds a source from config.AppConfig. Logs go to logOut.
func openSource(logOut io.Writer) (*sourceHandle, error) {
	cfg := config.AppConfig
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	h := &sourceHandle{
		log: logger.NewWithWriter(logger.ParseLevel(cfg.LogLevel), logOut),
	}
	opts := []metadata.Option{
		metadata.WithLogger(h.log.With(strings.ToLower(cfg.SourceName))),
		metadata.WithRanker(matcher.NewRanker()),
		metadata.WithFetcher(metadata.NewHTTPFetcher(metadata.WithUserAgent("bookmeta/" + Version))),
	}

	switch {
	case cfg.IndexPath != "":
		store, err := idindex.Open(cfg.IndexPath)
		if err != nil {
			return nil, err
		}
		h.index = store
		opts = append(opts, metadata.WithIdentifierIndex(store), metadata.WithCoverCache(store.Covers()))
	case cfg.CoverCacheMaxEntries > 0:
		opts = append(opts, metadata.WithCoverCache(cache.NewBounded[string](0, cfg.CoverCacheMaxEntries)))
	}

	src, err := metadata.NewSource(cfg.SourceConfig(), opts...)
	if err != nil {
		h.Close()
		return nil, err
	}
	h.source = src
	return h, nil
}
