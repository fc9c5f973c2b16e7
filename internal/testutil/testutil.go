// Package testutil provides testing utilities for isolated test environments.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leefowlercu/mhtmlfix/internal/config"
)

// TestEnv provides an isolated test environment with its own config directory.
type TestEnv struct {
	t         *testing.T
	ConfigDir string
	DataDir   string
}

// NewTestEnv creates an isolated test environment.
// Environment variables point config and log paths into a temp directory,
// and the global config is reinitialized from them. Cleanup is automatic
// via t.Cleanup.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	root := t.TempDir()
	configDir := filepath.Join(root, "config")
	dataDir := filepath.Join(root, "data")
	for _, dir := range []string{configDir, dataDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create test dir %s: %v", dir, err)
		}
	}

	t.Setenv("HOME", root)
	t.Setenv("MHTMLFIX_CONFIG_DIR", configDir)
	t.Setenv("MHTMLFIX_LOG_FILE", filepath.Join(configDir, "mhtmlfix.log"))

	config.Reset()
	if err := config.Init(); err != nil {
		t.Fatalf("failed to initialize test config: %v", err)
	}

	t.Cleanup(func() {
		config.Reset()
	})

	return &TestEnv{
		t:         t,
		ConfigDir: configDir,
		DataDir:   dataDir,
	}
}

// ConfigPath returns the config file location inside the environment.
func (e *TestEnv) ConfigPath() string {
	return filepath.Join(e.ConfigDir, "config.yaml")
}

// WriteConfig writes content as the environment's config file and
// reinitializes the global config from it.
func (e *TestEnv) WriteConfig(content string) string {
	e.t.Helper()

	path := e.ConfigPath()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		e.t.Fatalf("failed to write config: %v", err)
	}

	config.Reset()
	if err := config.Init(); err != nil {
		e.t.Fatalf("failed to reinitialize config: %v", err)
	}
	return path
}

// CreateFile writes content to name inside the data directory and returns
// its absolute path.
func (e *TestEnv) CreateFile(name, content string) string {
	e.t.Helper()

	path := filepath.Join(e.DataDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		e.t.Fatalf("failed to create dir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		e.t.Fatalf("failed to create test file %s: %v", path, err)
	}
	return path
}

// Archive builds a minimal CRLF MHTML document with boundary "AAA" around
// the given part texts. Each part should start with its header lines.
func Archive(parts ...string) string {
	var b strings.Builder
	b.WriteString("From: <Saved by Blink>\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: multipart/related;\r\n\ttype=\"text/html\";\r\n\tboundary=\"AAA\"\r\n\r\n")
	for _, p := range parts {
		b.WriteString("--AAA\r\n")
		b.WriteString(p)
	}
	b.WriteString("--AAA--\r\n")
	return b.String()
}

// SamplePage is an archive with one HTML part referencing two images, one
// of which is present.
var SamplePage = Archive(
	"Content-Type: text/html\r\nContent-Location: https://example.com/page.html\r\n\r\n"+
		"<html><img src=\"https://example.com/a.png\"><img src=\"missing.png\"></html>\r\n\r\n",
	"Content-Type: image/png\r\nContent-Transfer-Encoding: base64\r\nContent-Location: https://example.com/a.png\r\n\r\n"+
		"iVBORw0KGgo=\r\n\r\n",
)
