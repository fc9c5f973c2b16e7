package styles

import (
	"bytes"
	"io"
	"testing"
)

func TestPlain_RendersUnchanged(t *testing.T) {
	p := Plain()
	for name, style := range map[string]func(...string) string{
		"Title":   p.Title.Render,
		"Label":   p.Label.Render,
		"Success": p.Success.Render,
		"Warning": p.Warning.Render,
		"Error":   p.Error.Render,
		"Muted":   p.Muted.Render,
	} {
		if got := style("page.html"); got != "page.html" {
			t.Errorf("%s.Render() = %q, want plain text", name, got)
		}
	}
}

func TestColored_RendersNonEmpty(t *testing.T) {
	p := Colored()
	if p.Title.Render("x") == "" || p.Warning.Render("x") == "" {
		t.Error("colored styles should render non-empty output")
	}
}

func TestShouldColorize_NonFileWriters(t *testing.T) {
	tests := []struct {
		name string
		w    io.Writer
	}{
		{"discard", io.Discard},
		{"buffer", &bytes.Buffer{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if ShouldColorize(tt.w) {
				t.Errorf("ShouldColorize(%s) = true, want false", tt.name)
			}
		})
	}
}

func TestFor_BufferIsPlain(t *testing.T) {
	p := For(&bytes.Buffer{})
	if got := p.Error.Render("boom"); got != "boom" {
		t.Errorf("For(buffer).Error.Render() = %q, want %q", got, "boom")
	}
}
