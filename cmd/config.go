// file: cmd/config.go
// version: 1.0.0
// guid: 2c3d4e5f-6a7b-4c8d-8e9f-0a1b2c3d4e5f

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jdfalk/bookmeta/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := config.Dump(true)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configSaveCmd = &cobra.Command{
	Use:   "save [path]",
	Short: "Write the effective configuration to a YAML file",
	Long: `Write the effective configuration (defaults, config file, environment
and flags merged) to path, or to the loaded config file / $HOME/.bookmeta.yaml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.AppConfig.Validate(); err != nil {
			return fmt.Errorf("refusing to save invalid configuration: %w", err)
		}
		return config.SaveConfigToFile(path)
	},
}

func init() {
	configCmd.AddCommand(configSaveCmd)
}
