package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/mhtmlfix/cmd/config"
	"github.com/leefowlercu/mhtmlfix/cmd/fix"
	"github.com/leefowlercu/mhtmlfix/cmd/inspect"
	"github.com/leefowlercu/mhtmlfix/cmd/version"
	internalconfig "github.com/leefowlercu/mhtmlfix/internal/config"
	"github.com/leefowlercu/mhtmlfix/internal/logging"
)

// logManager is the global logging manager, created in init() and upgraded after config loads
var logManager *logging.Manager

// verbose forces debug logging regardless of the configured log_level
var verbose bool

var mhtmlfixCmd = &cobra.Command{
	Use:   "mhtmlfix",
	Short: "Repair image references in MHTML web archives",
	Long: "mhtmlfix repairs MHTML (.mhtml/.mht) web archives whose images do not display.\n\n" +
		"Saved pages often reference their images by URL while the image parts carry no " +
		"Content-ID, so viewers cannot match the two. mhtmlfix gives every image part a " +
		"unique Content-ID and rewrites the page's <img> tags to cid: references, " +
		"leaving everything else in the archive untouched.",
	PersistentPreRunE: runInitialize,
}

func init() {
	logManager = logging.NewManager()
	slog.SetDefault(logManager.Logger())

	mhtmlfixCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log per-part progress (debug level)")

	mhtmlfixCmd.AddCommand(fix.FixCmd)
	mhtmlfixCmd.AddCommand(inspect.InspectCmd)
	mhtmlfixCmd.AddCommand(config.ConfigCmd)
	mhtmlfixCmd.AddCommand(version.VersionCmd)
}

func runInitialize(cmd *cobra.Command, args []string) error {
	logger := logManager.Logger()

	if err := internalconfig.Init(); err != nil {
		return err
	}

	levelStr := internalconfig.GetString("log_level")
	level, ok := logging.ParseLevel(levelStr)
	if !ok && levelStr != "" {
		logger.Warn("invalid log level configured, using default", "configured", levelStr, "default", "info")
	}

	opts := logging.FileOptions{
		Path:       internalconfig.GetPath("log_file"),
		MaxSizeMB:  internalconfig.GetInt("log_max_size_mb"),
		MaxBackups: internalconfig.GetInt("log_max_backups"),
	}
	if err := logManager.Upgrade(opts, level); err != nil {
		// keep going on stderr only
		logger.Warn("failed to enable file logging, continuing with stderr only", "error", err)
	}
	if verbose {
		logManager.SetLevel(slog.LevelDebug)
	}

	return nil
}

// Execute runs the root command.
func Execute() error {
	mhtmlfixCmd.SilenceErrors = true
	mhtmlfixCmd.SilenceUsage = true

	defer func() { _ = logManager.Close() }()

	err := mhtmlfixCmd.Execute()
	if err != nil {
		cmd, _, _ := mhtmlfixCmd.Find(os.Args[1:])
		if cmd == nil {
			cmd = mhtmlfixCmd
		}

		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if !cmd.SilenceUsage {
			fmt.Fprintf(os.Stderr, "\n")
			cmd.SetOut(os.Stderr)
			_ = cmd.Usage()
		}

		return err
	}

	return nil
}
