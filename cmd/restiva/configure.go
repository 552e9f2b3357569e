package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Generate a config file interactively",
	Long: `Generate a starter config.yaml interactively.

You will be prompted for:
  - Storage directory for repositories
  - HTTP listen port
  - Log level and format

The file is written to the path given with --config (default: ./config.yaml).`,
	// configure writes the file the pre-run would try to load, so it
	// skips the usual config loading.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE:              runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

// fileConfig mirrors the config file layout for generation.
type fileConfig struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

func runConfigure(cmd *cobra.Command, args []string) error {
	target, _ := cmd.Flags().GetString("config")
	if target == "" {
		target = "config.yaml"
	}

	if _, err := os.Stat(target); err == nil {
		overwrite := promptui.Prompt{
			Label:     fmt.Sprintf("%s exists, overwrite", target),
			IsConfirm: true,
		}
		if _, err := overwrite.Run(); err != nil {
			return handlePromptError(err)
		}
	}

	var cfg fileConfig

	storagePrompt := promptui.Prompt{
		Label:   "Storage directory",
		Default: "./repositories",
		Validate: func(s string) error {
			if s == "" {
				return errors.New("storage directory cannot be empty")
			}
			return nil
		},
	}
	storagePath, err := storagePrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}
	cfg.Storage.Path = storagePath

	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: "9000",
		Validate: func(s string) error {
			port, convErr := strconv.Atoi(s)
			if convErr != nil || port < 1 || port > 65535 {
				return errors.New("port must be a number between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	levelSelect := promptui.Select{
		Label: "Log level",
		Items: []string{"debug", "info", "warn", "error"},
	}
	_, level, err := levelSelect.Run()
	if err != nil {
		return handlePromptError(err)
	}
	cfg.Log.Level = level

	formatSelect := promptui.Select{
		Label: "Log format",
		Items: []string{"text", "json"},
	}
	_, format, err := formatSelect.Run()
	if err != nil {
		return handlePromptError(err)
	}
	cfg.Log.Format = format

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Printf("Wrote %s\n", target)
	return nil
}

// handlePromptError handles promptui errors.
func handlePromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) {
		return errors.New("interrupted")
	}

	if errors.Is(err, promptui.ErrAbort) {
		return errors.New("aborted")
	}

	return err
}
