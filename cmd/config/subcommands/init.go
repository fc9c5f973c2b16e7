package subcommands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/mhtmlfix/internal/config"
)

var (
	initForce bool
)

// InitCmd writes a config file populated with defaults.
var InitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file with default values",
	Long: "Create a configuration file with default values.\n\n" +
		"Writes config.yaml to the config directory (MHTMLFIX_CONFIG_DIR or " +
		"~/.config/mhtmlfix). An existing file is left alone unless --force is " +
		"given, in which case a timestamped backup is made before it is replaced.",
	Example: `  # Create the default configuration
  mhtmlfix config init

  # Replace an existing configuration, keeping a backup
  mhtmlfix config init --force`,
	PreRunE: validateInit,
	RunE:    runInit,
}

func init() {
	InitCmd.Flags().BoolVar(&initForce, "force", false, "Replace an existing config file (a backup is kept)")
}

func validateInit(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	return nil
}

func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configPath := config.DefaultConfigPath()

	if config.ConfigExistsAt(configPath) {
		if !initForce {
			fmt.Fprintf(out, "Configuration file already exists: %s\n", configPath)
			fmt.Fprintln(out, "Use --force to replace it.")
			return nil
		}

		backupPath := fmt.Sprintf("%s.backup.%d", configPath, time.Now().Unix())
		if err := copyFile(configPath, backupPath); err != nil {
			return fmt.Errorf("failed to create backup; %w", err)
		}
		fmt.Fprintf(out, "Backup created: %s\n", backupPath)
	}

	cfg := config.NewDefaultConfig()
	if err := config.WriteDefault(&cfg); err != nil {
		return fmt.Errorf("failed to write config file; %w", err)
	}

	fmt.Fprintf(out, "Configuration written: %s\n", configPath)
	return nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0600)
}
