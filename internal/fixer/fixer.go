// Package fixer runs the image-reference repair over a whole MHTML archive:
// split, assign identifiers, rewrite the markup, reassemble.
package fixer

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/leefowlercu/mhtmlfix/internal/diagnostics"
	"github.com/leefowlercu/mhtmlfix/internal/filetype"
	"github.com/leefowlercu/mhtmlfix/internal/fsutil"
	"github.com/leefowlercu/mhtmlfix/internal/markup"
	"github.com/leefowlercu/mhtmlfix/internal/mhtml"
	"github.com/leefowlercu/mhtmlfix/internal/reference"
)

// DefaultOutputSuffix is inserted before the input's extension to name the
// repaired archive.
const DefaultOutputSuffix = "_fixed"

var (
	// ErrInputNotFound indicates the input archive does not exist.
	ErrInputNotFound = errors.New("input file not found")

	// ErrOutputIsInput indicates the output path would overwrite the input.
	ErrOutputIsInput = errors.New("output path must differ from input path")
)

// Report summarises a repair run.
type Report struct {
	// InputDigest and OutputDigest are SHA-256 hex digests of the archives.
	InputDigest  string
	OutputDigest string

	Boundary    string
	Parts       int
	Images      int
	Skipped     int
	Assignments []reference.Assignment
	// References counts the original references (locations and stale
	// Content-IDs) that resolve to an assigned identifier.
	References  int
	Markup      markup.Stats
	Diagnostics []diagnostics.Record
}

// Result is the repaired archive and its report.
type Result struct {
	Output []byte
	Report Report
}

// Fixer holds the identifier settings for repair runs.
type Fixer struct {
	domain        string
	hyphenPrefix  string
	disambiguator reference.Disambiguator
	logger        *slog.Logger
}

// Option configures a Fixer.
type Option func(*Fixer)

// WithDomain sets the identifier domain suffix.
func WithDomain(domain string) Option {
	return func(f *Fixer) { f.domain = domain }
}

// WithHyphenPrefix sets the prefix used for names starting with "-".
func WithHyphenPrefix(prefix string) Option {
	return func(f *Fixer) { f.hyphenPrefix = prefix }
}

// WithDisambiguator replaces the random identifier suffix source.
func WithDisambiguator(d reference.Disambiguator) Option {
	return func(f *Fixer) { f.disambiguator = d }
}

// WithLogger forwards diagnostics to logger as they are raised.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fixer) { f.logger = logger }
}

// New creates a Fixer.
func New(opts ...Option) *Fixer {
	f := &Fixer{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fix repairs raw and returns the new archive. raw is not modified.
// Unresolved references are reported as warnings, not errors.
func (f *Fixer) Fix(raw []byte) (*Result, error) {
	sink := diagnostics.NewSink(f.logger)

	if !filetype.LooksLikeArchive(raw) {
		sink.Info("input has no multipart header; searching the whole file for a boundary")
	}

	archive, err := mhtml.Split(raw)
	if err != nil {
		return nil, err
	}
	sink.Debug("split archive", "boundary", archive.Boundary, "parts", len(archive.Parts))

	assigner := reference.NewAssigner(
		reference.WithDomain(f.domain),
		reference.WithHyphenPrefix(f.hyphenPrefix),
		reference.WithDisambiguator(f.disambiguator),
		reference.WithDiagnostics(sink),
	)
	assigned := assigner.Assign(archive)
	sink.Debug("mapped references", "count", assigned.Map.Len(), "references", assigned.Map.Keys())

	stats, err := markup.NewRewriter(assigned.Map, sink).Rewrite(archive)
	if err != nil {
		return nil, err
	}

	output := archive.Bytes()
	return &Result{
		Output: output,
		Report: Report{
			InputDigest:  filetype.HashBytes(raw),
			OutputDigest: filetype.HashBytes(output),
			Boundary:     archive.Boundary,
			Parts:        len(archive.Parts),
			Images:       len(archive.Images()),
			Skipped:      assigned.Skipped,
			Assignments:  assigned.Assignments,
			References:   assigned.Map.Len(),
			Markup:       stats,
			Diagnostics:  sink.Records(),
		},
	}, nil
}

// ReadInput reads the archive at path, mapping a missing file to
// ErrInputNotFound.
func ReadInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("failed to read input file; %w", err)
	}
	return data, nil
}

// FixFile repairs the archive at input and writes it to output. Nothing is
// written unless the whole transform succeeds, and input is never
// overwritten.
func (f *Fixer) FixFile(input, output string) (*Report, error) {
	if fsutil.SamePath(input, output) {
		return nil, ErrOutputIsInput
	}

	raw, err := ReadInput(input)
	if err != nil {
		return nil, err
	}

	result, err := f.Fix(raw)
	if err != nil {
		return nil, err
	}

	if err := fsutil.WriteFileAtomic(output, result.Output, 0644); err != nil {
		return nil, fmt.Errorf("failed to write output file; %w", err)
	}

	return &result.Report, nil
}

// OutputPath derives the repaired archive's path from the input path.
// An empty suffix falls back to DefaultOutputSuffix.
func OutputPath(input, suffix string) string {
	if suffix == "" {
		suffix = DefaultOutputSuffix
	}
	return fsutil.InsertSuffix(input, suffix)
}

// Changed reports whether the repair altered any byte of the archive.
func (r *Report) Changed() bool {
	return r.InputDigest != r.OutputDigest
}

// Warnings returns the warning diagnostics of the report.
func (r *Report) Warnings() []diagnostics.Record {
	var out []diagnostics.Record
	for _, rec := range r.Diagnostics {
		if rec.Level == diagnostics.LevelWarning {
			out = append(out, rec)
		}
	}
	return out
}
