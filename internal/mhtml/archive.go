// Package mhtml splits a saved MHTML archive into its boundary-delimited
// parts and writes them back out.
//
// The package is deliberately not a MIME library: parts are kept as raw
// bytes and only their header block is parsed, so anything the repair does
// not touch is written back byte-for-byte.
package mhtml

import (
	"bytes"
	"errors"
	"io"
	"regexp"
)

var (
	// ErrMissingBoundary indicates the top-level header declares no boundary.
	ErrMissingBoundary = errors.New("boundary marker not found")

	// ErrMissingMarkupPart indicates the archive holds no text/html part.
	ErrMissingMarkupPart = errors.New("markup part not found")
)

var boundaryPattern = regexp.MustCompile(`(?i)\bboundary\s*=\s*(?:"([^"]+)"|([^\s";]+))`)

// Archive is a split MHTML document.
type Archive struct {
	// Boundary is the token declared in the top-level header, verbatim.
	Boundary string

	// Preamble is everything before the first delimiter, including the
	// top-level header block.
	Preamble []byte

	// Parts are the sections between the first and the terminal delimiter,
	// in input order.
	Parts []*Part
}

// Split locates the boundary token and slices raw into parts. The closing
// slice after the terminal delimiter is discarded.
func Split(raw []byte) (*Archive, error) {
	boundary, ok := FindBoundary(raw)
	if !ok {
		return nil, ErrMissingBoundary
	}

	chunks := bytes.Split(raw, []byte(delimiter(boundary)))

	archive := &Archive{
		Boundary: boundary,
		Preamble: chunks[0],
	}
	if len(chunks) > 2 {
		archive.Parts = make([]*Part, 0, len(chunks)-2)
		for _, chunk := range chunks[1 : len(chunks)-1] {
			archive.Parts = append(archive.Parts, NewPart(chunk))
		}
	}

	return archive, nil
}

// FindBoundary returns the boundary parameter declared in the top-level
// header block. The rest of the input is searched only when the header
// block carries none.
func FindBoundary(raw []byte) (string, bool) {
	header := raw
	if loc := blankLinePattern.FindIndex(raw); loc != nil {
		header = raw[:loc[0]]
	}

	m := boundaryPattern.FindSubmatch(header)
	if m == nil {
		m = boundaryPattern.FindSubmatch(raw)
	}
	if m == nil {
		return "", false
	}
	if len(m[1]) > 0 {
		return string(m[1]), true
	}
	return string(m[2]), true
}

// Delimiter returns the part delimiter line, "--" followed by the boundary.
func (a *Archive) Delimiter() string {
	return delimiter(a.Boundary)
}

// Images returns the image parts in archive order.
func (a *Archive) Images() []*Part {
	return a.partsOf(KindImage)
}

// Markup returns the first text/html part. Any later markup parts are left
// alone by the repair.
func (a *Archive) Markup() (*Part, error) {
	for _, part := range a.Parts {
		if part.Kind == KindMarkup {
			return part, nil
		}
	}
	return nil, ErrMissingMarkupPart
}

// MarkupCount returns the number of text/html parts.
func (a *Archive) MarkupCount() int {
	return len(a.partsOf(KindMarkup))
}

func (a *Archive) partsOf(kind Kind) []*Part {
	var parts []*Part
	for _, part := range a.Parts {
		if part.Kind == kind {
			parts = append(parts, part)
		}
	}
	return parts
}

func delimiter(boundary string) string {
	return "--" + boundary
}

// WriteTo reassembles the archive: the preamble, then each part preceded by
// the delimiter and a line break unless the part already starts with one,
// then the terminal delimiter.
func (a *Archive) WriteTo(w io.Writer) (int64, error) {
	delim := []byte(a.Delimiter())
	var total int64

	write := func(b []byte) error {
		n, err := w.Write(b)
		total += int64(n)
		return err
	}

	if err := write(a.Preamble); err != nil {
		return total, err
	}
	for _, part := range a.Parts {
		if err := write(delim); err != nil {
			return total, err
		}
		raw := part.Bytes()
		if !startsWithLineBreak(raw) {
			if err := write([]byte("\r\n")); err != nil {
				return total, err
			}
		}
		if err := write(raw); err != nil {
			return total, err
		}
	}
	if err := write(append(delim, "--\r\n"...)); err != nil {
		return total, err
	}

	return total, nil
}

// Bytes returns the reassembled archive.
func (a *Archive) Bytes() []byte {
	var buf bytes.Buffer
	_, _ = a.WriteTo(&buf)
	return buf.Bytes()
}

func startsWithLineBreak(b []byte) bool {
	return bytes.HasPrefix(b, []byte("\r\n")) || bytes.HasPrefix(b, []byte("\n"))
}
