// Package config provides the config parent command and subcommands.
package config

import (
	"github.com/spf13/cobra"

	"github.com/leefowlercu/mhtmlfix/cmd/config/subcommands"
)

// ConfigCmd is the parent command for all config-related subcommands.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage mhtmlfix configuration",
	Long: "Manage mhtmlfix configuration.\n\n" +
		"The config command allows you to view, validate, and create the mhtmlfix " +
		"configuration. Configuration is stored in a YAML file located at " +
		"~/.config/mhtmlfix/config.yaml by default, and every key can be overridden " +
		"with an MHTMLFIX_ environment variable (for example MHTMLFIX_FIX_CID_DOMAIN).",
}

func init() {
	ConfigCmd.AddCommand(subcommands.ShowCmd)
	ConfigCmd.AddCommand(subcommands.ValidateCmd)
	ConfigCmd.AddCommand(subcommands.InitCmd)
}
