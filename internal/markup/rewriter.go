// Package markup rewrites the image references of an archive's HTML part so
// they point at Content-IDs.
//
// Tags are found by pattern, not parsed: an <img> tag runs from "<img" to the
// next ">", so a ">" inside a quoted attribute value ends the match early.
package markup

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/leefowlercu/mhtmlfix/internal/diagnostics"
	"github.com/leefowlercu/mhtmlfix/internal/mhtml"
	"github.com/leefowlercu/mhtmlfix/internal/reference"
)

// SchemePrefix marks a reference to a Content-ID.
const SchemePrefix = "cid:"

var (
	imgTagPattern = regexp.MustCompile(`(?i)<img\b[^>]*>`)

	// The value is in group 1 (double quotes), 2 (single quotes), or 3
	// (unquoted, up to whitespace or ">").
	srcAttrPattern = regexp.MustCompile(`(?i)(?:^|[\s"'/])src\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'>]+))`)
)

// Stats counts what a rewrite pass did.
type Stats struct {
	Encoding   string
	Tags       int
	Rewritten  int
	Unresolved int
	NoSource   int
}

// Rewriter resolves <img src> values against a reference map.
type Rewriter struct {
	refs *reference.Map
	diag *diagnostics.Sink
}

// NewRewriter creates a Rewriter. diag may be nil.
func NewRewriter(refs *reference.Map, diag *diagnostics.Sink) *Rewriter {
	if refs == nil {
		refs = reference.NewMap()
	}
	return &Rewriter{refs: refs, diag: diag}
}

// Rewrite processes the first markup part of archive in place. Only that
// part's body changes; its header block is kept byte-for-byte.
func (r *Rewriter) Rewrite(archive *mhtml.Archive) (Stats, error) {
	part, err := archive.Markup()
	if err != nil {
		return Stats{}, err
	}
	if extra := archive.MarkupCount() - 1; extra > 0 {
		r.diag.Info("additional markup parts left unchanged", "count", extra)
	}

	_, body := part.SplitBody()
	encoding := part.TransferEncoding()

	plain, err := Decode(encoding, body)
	if err != nil {
		r.diag.Warn("markup body could not be decoded; scanning it as-is", "encoding", encoding, "error", err)
		encoding = mhtml.DefaultTransferEncoding
		plain = body
	}

	rewritten, stats := r.RewriteBody(plain)
	stats.Encoding = encoding

	encoded, err := Encode(encoding, rewritten)
	if err != nil {
		return stats, fmt.Errorf("failed to re-encode markup body; %w", err)
	}
	part.SetBody(encoded)

	return stats, nil
}

// RewriteBody rewrites every <img> tag of a decoded body and makes each one
// self-closing.
func (r *Rewriter) RewriteBody(plain []byte) ([]byte, Stats) {
	var stats Stats
	out := imgTagPattern.ReplaceAllFunc(plain, func(tag []byte) []byte {
		stats.Tags++
		return r.rewriteTag(tag, &stats)
	})
	return out, stats
}

func (r *Rewriter) rewriteTag(tag []byte, stats *Stats) []byte {
	// tag aliases the body being scanned
	tag = bytes.Clone(tag)

	start, end := srcValueSpan(tag)
	if start < 0 {
		stats.NoSource++
		return selfClose(tag)
	}

	value := string(tag[start:end])
	id, ok := r.refs.Resolve(resolutionKey(value))
	if !ok {
		stats.Unresolved++
		r.diag.Warn("image reference not resolved", "src", value)
		return selfClose(tag)
	}

	stats.Rewritten++
	replaced := make([]byte, 0, len(tag)-(end-start)+len(SchemePrefix)+len(id)+2)
	replaced = append(replaced, tag[:start]...)
	replaced = append(replaced, SchemePrefix...)
	replaced = append(replaced, id...)
	replaced = append(replaced, tag[end:]...)
	return selfClose(replaced)
}

// srcValueSpan returns the byte range of the src value inside tag, or -1, -1
// when the tag has no non-empty src.
func srcValueSpan(tag []byte) (int, int) {
	loc := srcAttrPattern.FindSubmatchIndex(tag)
	if loc == nil {
		return -1, -1
	}
	for group := 1; group <= 3; group++ {
		start, end := loc[2*group], loc[2*group+1]
		if start >= 0 {
			if end == start {
				return -1, -1
			}
			return start, end
		}
	}
	return -1, -1
}

// resolutionKey strips a leading "cid:" (any case) from a src value.
func resolutionKey(value string) string {
	if len(value) >= len(SchemePrefix) && strings.EqualFold(value[:len(SchemePrefix)], SchemePrefix) {
		return value[len(SchemePrefix):]
	}
	return value
}

// selfClose makes tag end in "/>".
func selfClose(tag []byte) []byte {
	switch {
	case bytes.HasSuffix(tag, []byte("/>")):
		return tag
	case bytes.HasSuffix(tag, []byte(">")):
		return append(tag[:len(tag)-1], "/>"...)
	default:
		return append(tag, "/>"...)
	}
}
