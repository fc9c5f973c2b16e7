package reference

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

const (
	// DefaultDomain is the fixed right-hand side of generated identifiers.
	DefaultDomain = "mhtml.fixer"

	// DefaultHyphenPrefix is prepended to a sanitized name that would
	// otherwise start with a hyphen.
	DefaultHyphenPrefix = "image"

	// DisambiguatorLength is the number of hex digits in the random suffix.
	DisambiguatorLength = 8
)

// Disambiguator returns the random suffix that keeps identifiers for equal
// file names apart. It must return DisambiguatorLength lowercase hex digits.
type Disambiguator func() string

// RandomDisambiguator takes the leading hex digits of a random UUID.
// Uniqueness is probabilistic.
func RandomDisambiguator() string {
	id := uuid.New()
	return hex.EncodeToString(id[:DisambiguatorLength/2])
}

// FileName returns the last "/"-separated segment of a location. Query
// strings and fragments are kept; they are sanitized like any other text.
func FileName(location string) string {
	if i := strings.LastIndexByte(location, '/'); i >= 0 {
		return location[i+1:]
	}
	return location
}

// Sanitize replaces every character outside [A-Za-z0-9._-] with "_". A
// result starting with "-" gets hyphenPrefix prepended; an empty name
// becomes hyphenPrefix.
func Sanitize(name, hyphenPrefix string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if isIdentifierChar(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}

	sanitized := b.String()
	switch {
	case sanitized == "":
		return hyphenPrefix
	case strings.HasPrefix(sanitized, "-"):
		return hyphenPrefix + sanitized
	default:
		return sanitized
	}
}

// NewIdentifier joins the parts of a Content-ID: base.suffix@domain.
func NewIdentifier(base, suffix, domain string) string {
	return base + "." + suffix + "@" + domain
}

func isIdentifierChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.', r == '_', r == '-':
		return true
	default:
		return false
	}
}
