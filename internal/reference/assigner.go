// Package reference gives every image part of an archive a fresh Content-ID
// and records which old references should now point at it.
package reference

import (
	"strings"

	"github.com/leefowlercu/mhtmlfix/internal/diagnostics"
	"github.com/leefowlercu/mhtmlfix/internal/mhtml"
)

// Assignment describes the identifier given to one image part.
type Assignment struct {
	PartIndex  int
	Location   string
	Identifier string
	PreviousID string
}

// Result is the outcome of an assignment pass.
type Result struct {
	Map         *Map
	Assignments []Assignment
	Skipped     int
}

// Assigner rewrites image part headers. Use NewAssigner to construct.
type Assigner struct {
	domain        string
	hyphenPrefix  string
	disambiguator Disambiguator
	diag          *diagnostics.Sink
}

// Option configures an Assigner.
type Option func(*Assigner)

// WithDomain sets the identifier domain suffix. Empty keeps the default.
func WithDomain(domain string) Option {
	return func(a *Assigner) {
		if domain != "" {
			a.domain = domain
		}
	}
}

// WithHyphenPrefix sets the prefix for names starting with "-". Empty keeps
// the default.
func WithHyphenPrefix(prefix string) Option {
	return func(a *Assigner) {
		if prefix != "" {
			a.hyphenPrefix = prefix
		}
	}
}

// WithDisambiguator replaces the random suffix source.
func WithDisambiguator(d Disambiguator) Option {
	return func(a *Assigner) {
		if d != nil {
			a.disambiguator = d
		}
	}
}

// WithDiagnostics sets the sink notes are recorded to.
func WithDiagnostics(sink *diagnostics.Sink) Option {
	return func(a *Assigner) {
		a.diag = sink
	}
}

// NewAssigner creates an Assigner with default domain, prefix, and a random
// disambiguator.
func NewAssigner(opts ...Option) *Assigner {
	a := &Assigner{
		domain:        DefaultDomain,
		hyphenPrefix:  DefaultHyphenPrefix,
		disambiguator: RandomDisambiguator,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assign walks the image parts in archive order. Parts without a
// Content-Location are left untouched and contribute nothing to the map;
// markup can never reference them afterwards.
func (a *Assigner) Assign(archive *mhtml.Archive) *Result {
	result := &Result{Map: NewMap()}

	for i, part := range archive.Parts {
		if part.Kind != mhtml.KindImage {
			continue
		}

		location, _ := part.Headers.Get(mhtml.HeaderContentLocation)
		if location == "" {
			result.Skipped++
			a.diag.Info("image part has no location; left unchanged", "part", i+1)
			continue
		}

		base := Sanitize(FileName(location), a.hyphenPrefix)
		id := NewIdentifier(base, a.disambiguator(), a.domain)
		result.Map.Set(location, id)

		assignment := Assignment{PartIndex: i, Location: location, Identifier: id}

		if value, ok := part.Headers.Get(mhtml.HeaderContentID); ok {
			if old := trimAngles(value); old != "" {
				result.Map.Set(old, id)
				assignment.PreviousID = old
			}
			part.SetHeader(mhtml.HeaderContentID, "<"+id+">")
		} else {
			part.InsertHeaderAfter(mhtml.HeaderContentLocation, mhtml.HeaderContentID, "<"+id+">")
		}

		result.Assignments = append(result.Assignments, assignment)
		a.diag.Debug("assigned identifier", "part", i+1, "location", location, "identifier", id)
	}

	return result
}

func trimAngles(value string) string {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "<")
	value = strings.TrimSuffix(value, ">")
	return strings.TrimSpace(value)
}
