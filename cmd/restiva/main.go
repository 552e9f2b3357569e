package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/restiva/restiva/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "restiva",
	Short:   "Restic REST backend storage server",
	Long: `Restiva serves the restic REST backend protocol over HTTP,
storing backup repositories on the local filesystem.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		setupLogging(cfg.Log)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("storage-path", "", "repository storage directory (default: ./repositories, env: RESTIVA_STORAGE_PATH)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (env: RESTIVA_LOG_LEVEL)")
	rootCmd.PersistentFlags().String("log-format", "", "log format: text, json (env: RESTIVA_LOG_FORMAT)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
