package mhtml

import (
	"regexp"
	"strings"
)

// Kind classifies a part by its Content-Type.
type Kind int

const (
	KindOther Kind = iota
	KindImage
	KindMarkup
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindMarkup:
		return "markup"
	default:
		return "other"
	}
}

// DefaultTransferEncoding applies when a part declares no
// Content-Transfer-Encoding.
const DefaultTransferEncoding = "7bit"

var blankLinePattern = regexp.MustCompile(`\r?\n\r?\n`)

// Part is one boundary-delimited section of an archive. Its raw bytes are
// everything between two delimiters, leading line break included.
type Part struct {
	raw     []byte
	Headers Headers
	Kind    Kind
}

// NewPart parses the header block of raw and classifies the part.
func NewPart(raw []byte) *Part {
	p := &Part{raw: raw}
	p.reparse()
	return p
}

// Bytes returns the part's current raw bytes.
func (p *Part) Bytes() []byte {
	return p.raw
}

// ContentType returns the lower-cased media type without parameters.
func (p *Part) ContentType() string {
	value, _ := p.Headers.Get(HeaderContentType)
	return mediaType(value)
}

// TransferEncoding returns the lower-cased Content-Transfer-Encoding, or
// DefaultTransferEncoding when the header is absent.
func (p *Part) TransferEncoding() string {
	value, ok := p.Headers.Get(HeaderContentTransferEncoding)
	value = strings.ToLower(strings.TrimSpace(value))
	if !ok || value == "" {
		return DefaultTransferEncoding
	}
	return value
}

// SetHeader replaces the value of the first field matching key, keeping the
// field's original key spelling and position. It reports whether a field was
// found.
func (p *Part) SetHeader(key, value string) bool {
	i := p.Headers.index(key)
	if i < 0 {
		return false
	}
	field := p.Headers[i]
	p.splice(field.start, field.end, field.Key+": "+value)
	return true
}

// InsertHeaderAfter adds a new field on the line directly after the first
// field matching after, using that field's line break style. It reports
// whether the anchor field was found.
func (p *Part) InsertHeaderAfter(after, key, value string) bool {
	i := p.Headers.index(after)
	if i < 0 {
		return false
	}
	anchor := p.Headers[i]
	lineBreak := anchor.lineBreak
	if lineBreak == "" {
		lineBreak = "\r\n"
	}
	p.splice(anchor.end, anchor.end, lineBreak+key+": "+value)
	return true
}

// SplitBody divides the part at its first blank line. The returned head
// includes the blank line. A part without a blank line is all head.
func (p *Part) SplitBody() (head, body []byte) {
	loc := blankLinePattern.FindIndex(p.raw)
	if loc == nil {
		return p.raw, nil
	}
	return p.raw[:loc[1]], p.raw[loc[1]:]
}

// SetBody replaces everything after the first blank line, leaving the head
// byte-for-byte intact.
func (p *Part) SetBody(body []byte) {
	head, _ := p.SplitBody()
	raw := make([]byte, 0, len(head)+len(body))
	raw = append(raw, head...)
	raw = append(raw, body...)
	p.raw = raw
	p.reparse()
}

// splice rebuilds raw with raw[start:end] replaced by text. The raw slice may
// alias the archive input, so a fresh buffer is always allocated.
func (p *Part) splice(start, end int, text string) {
	raw := make([]byte, 0, len(p.raw)-(end-start)+len(text))
	raw = append(raw, p.raw[:start]...)
	raw = append(raw, text...)
	raw = append(raw, p.raw[end:]...)
	p.raw = raw
	p.reparse()
}

func (p *Part) reparse() {
	p.Headers = parseHeaders(p.raw)
	p.Kind = classify(p.ContentType())
}

func classify(contentType string) Kind {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return KindImage
	case contentType == "text/html":
		return KindMarkup
	default:
		return KindOther
	}
}

func mediaType(value string) string {
	if i := strings.IndexByte(value, ';'); i >= 0 {
		value = value[:i]
	}
	return strings.ToLower(strings.TrimSpace(value))
}
