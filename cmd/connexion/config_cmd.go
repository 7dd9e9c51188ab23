package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/connexion/internal/config"
)

var configCommand = &cobra.Command{
	Use:   "config",
	Short: "Work with configuration files",
}

var configValidateCommand = &cobra.Command{
	Use:   "validate",
	Short: "Check a config file against the schema and value ranges",
	RunE:  runConfigValidateCmd,
}

var configValidateFor string

func init() {
	configValidateCommand.Flags().StringVar(&configValidateFor, "for", "", `Also check what a command needs: "search" or "connect"`)
	configCommand.AddCommand(configValidateCommand)
	rootCmd.AddCommand(configCommand)
}

func runConfigValidateCmd(cmd *cobra.Command, _ []string) error {
	if configPath == "" {
		return errors.New("--config is required")
	}
	if err := config.ValidateDocument(configPath); err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	switch configValidateFor {
	case "":
		err = cfg.Validate()
	case "search":
		err = cfg.ValidateSearch()
	case "connect":
		err = cfg.ValidateOutreach()
	default:
		return fmt.Errorf("unknown command %q for --for", configValidateFor)
	}
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Config OK: %s\n", configPath)
	return nil
}
