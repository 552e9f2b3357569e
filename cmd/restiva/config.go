package main

import (
	"github.com/spf13/cobra"

	"github.com/restiva/restiva/config"
)

// loadConfig reads configuration for the invoked command, honoring an
// explicit --config file when given.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var files []string

	configFile, _ := cmd.Flags().GetString("config")
	if configFile != "" {
		files = append(files, configFile)
	}

	return config.Load(files, cmd.Flags())
}
