package config

import "github.com/spf13/viper"

// Default configuration values.
const (
	DefaultLogLevel      = "info"
	DefaultLogFile       = "~/.config/mhtmlfix/mhtmlfix.log"
	DefaultLogMaxSizeMB  = 10
	DefaultLogMaxBackups = 3

	// Repair defaults.
	DefaultFixOutputSuffix = "_fixed"
	DefaultFixCIDDomain    = "mhtml.fixer"
	DefaultFixHyphenPrefix = "image"
)

// NewDefaultConfig returns a Config populated with default values.
func NewDefaultConfig() Config {
	return Config{
		LogLevel:      DefaultLogLevel,
		LogFile:       DefaultLogFile,
		LogMaxSizeMB:  DefaultLogMaxSizeMB,
		LogMaxBackups: DefaultLogMaxBackups,
		Fix: FixConfig{
			OutputSuffix: DefaultFixOutputSuffix,
			CIDDomain:    DefaultFixCIDDomain,
			HyphenPrefix: DefaultFixHyphenPrefix,
		},
	}
}

// setViperDefaults registers all default configuration values with a viper instance.
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_file", DefaultLogFile)
	v.SetDefault("log_max_size_mb", DefaultLogMaxSizeMB)
	v.SetDefault("log_max_backups", DefaultLogMaxBackups)

	// Repair defaults
	v.SetDefault("fix.output_suffix", DefaultFixOutputSuffix)
	v.SetDefault("fix.cid_domain", DefaultFixCIDDomain)
	v.SetDefault("fix.hyphen_prefix", DefaultFixHyphenPrefix)
}
