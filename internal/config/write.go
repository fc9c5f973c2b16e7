package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/leefowlercu/mhtmlfix/internal/fsutil"
)

// keyComments annotates each key of a written config file, addressed by its
// dotted viper key.
var keyComments = map[string]string{
	"log_level":         "debug, info, warn, or error",
	"log_file":          "JSON log file, rotated by size; empty logs to stderr only",
	"log_max_size_mb":   "size in megabytes at which the log file rotates",
	"log_max_backups":   "rotated log files kept",
	"fix":               "archive repair",
	"fix.output_suffix": "inserted before the input's extension to name the repaired archive",
	"fix.cid_domain":    "right-hand side of generated Content-IDs",
	"fix.hyphen_prefix": "prepended to image names that start with a hyphen",
}

// Write stores cfg at path as commented YAML with mode 0600, creating the
// directory (0700) if needed. The file is replaced atomically.
func Write(cfg *Config, path string) error {
	path = ExpandPath(path)

	data, err := render(cfg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory %s; %w", dir, err)
	}
	if err := fsutil.WriteFileAtomic(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file %s; %w", path, err)
	}
	return nil
}

// WriteDefault writes cfg to DefaultConfigPath.
func WriteDefault(cfg *Config) error {
	return Write(cfg, DefaultConfigPath())
}

func render(cfg *Config) ([]byte, error) {
	var node yaml.Node
	if err := node.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to marshal config; %w", err)
	}
	annotate(&node, "")

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# mhtmlfix configuration\n# Generated: %s\n\n", time.Now().Format(time.RFC3339))

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, fmt.Errorf("failed to marshal config; %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal config; %w", err)
	}
	return buf.Bytes(), nil
}

// annotate attaches keyComments to the keys of a mapping node, recursing into
// nested mappings.
func annotate(node *yaml.Node, prefix string) {
	if node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		name := prefix + key.Value
		if comment, ok := keyComments[name]; ok {
			key.HeadComment = comment
		}
		annotate(value, name+".")
	}
}
