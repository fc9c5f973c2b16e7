package cmdutil

import (
	"path/filepath"
	"testing"
)

func TestResolvePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"tilde", "~/pages/a.mhtml", filepath.Join(home, "pages", "a.mhtml")},
		{"cleans", home + "/x/../a.mhtml", filepath.Join(home, "a.mhtml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePath(tt.input)
			if err != nil {
				t.Fatalf("ResolvePath() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolvePath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolvePath_RelativeBecomesAbsolute(t *testing.T) {
	got, err := ResolvePath("page.mhtml")
	if err != nil {
		t.Fatalf("ResolvePath() error = %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("ResolvePath() = %q, want absolute path", got)
	}
}

func TestResolveFilePath(t *testing.T) {
	dir := t.TempDir()

	if _, err := ResolveFilePath(dir); err == nil {
		t.Error("expected error for a directory")
	}

	missing := filepath.Join(dir, "missing.mhtml")
	got, err := ResolveFilePath(missing)
	if err != nil {
		t.Fatalf("ResolveFilePath() error = %v", err)
	}
	if got != missing {
		t.Errorf("ResolveFilePath() = %q, want %q", got, missing)
	}
}
