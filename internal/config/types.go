package config

// Config is the root configuration structure for the application.
type Config struct {
	LogLevel      string    `yaml:"log_level" mapstructure:"log_level"`
	LogFile       string    `yaml:"log_file" mapstructure:"log_file"`
	LogMaxSizeMB  int       `yaml:"log_max_size_mb" mapstructure:"log_max_size_mb"`
	LogMaxBackups int       `yaml:"log_max_backups" mapstructure:"log_max_backups"`
	Fix           FixConfig `yaml:"fix" mapstructure:"fix"`
}

// FixConfig holds settings for the archive repair.
type FixConfig struct {
	// OutputSuffix is inserted before the input's extension to name the output.
	OutputSuffix string `yaml:"output_suffix" mapstructure:"output_suffix"`
	// CIDDomain is the right-hand side of generated Content-IDs.
	CIDDomain string `yaml:"cid_domain" mapstructure:"cid_domain"`
	// HyphenPrefix is prepended to sanitized names that start with "-".
	HyphenPrefix string `yaml:"hyphen_prefix" mapstructure:"hyphen_prefix"`
}
