package mhtml

import (
	"bytes"
	"strings"
)

// Well-known part header names.
const (
	HeaderContentType             = "Content-Type"
	HeaderContentLocation         = "Content-Location"
	HeaderContentID               = "Content-ID"
	HeaderContentTransferEncoding = "Content-Transfer-Encoding"
)

// Header is a single header field of a part.
type Header struct {
	Key   string
	Value string

	// start and end delimit the field, continuation lines included, within
	// the part's raw bytes. end stops before the terminating line break.
	start     int
	end       int
	lineBreak string
}

// Headers is the ordered list of header fields of a part. Duplicate keys are
// kept in the order they appear.
type Headers []Header

// Get returns the value of the first field whose key matches
// case-insensitively.
func (h Headers) Get(key string) (string, bool) {
	if i := h.index(key); i >= 0 {
		return h[i].Value, true
	}
	return "", false
}

// Values returns the values of every field matching key, in order.
func (h Headers) Values(key string) []string {
	var values []string
	for _, field := range h {
		if strings.EqualFold(field.Key, key) {
			values = append(values, field.Value)
		}
	}
	return values
}

func (h Headers) index(key string) int {
	for i, field := range h {
		if strings.EqualFold(field.Key, key) {
			return i
		}
	}
	return -1
}

// parseHeaders reads the header block at the top of a part. A single leading
// line break (the one following the boundary delimiter) is skipped. Parsing
// stops at the first blank line or at the first line that is neither a field
// nor a continuation.
func parseHeaders(raw []byte) Headers {
	var headers Headers

	pos := 0
	switch {
	case bytes.HasPrefix(raw, []byte("\r\n")):
		pos = 2
	case bytes.HasPrefix(raw, []byte("\n")):
		pos = 1
	}

	for pos < len(raw) {
		lineEnd, next, lineBreak := nextLine(raw, pos)
		line := raw[pos:lineEnd]
		if len(bytes.TrimSpace(line)) == 0 {
			break
		}

		// Folded continuation of the previous field
		if (line[0] == ' ' || line[0] == '\t') && len(headers) > 0 {
			last := &headers[len(headers)-1]
			last.Value = strings.TrimSpace(last.Value + " " + string(bytes.TrimSpace(line)))
			last.end = lineEnd
			last.lineBreak = lineBreak
			pos = next
			continue
		}

		colon := bytes.IndexByte(line, ':')
		if colon <= 0 {
			break
		}

		headers = append(headers, Header{
			Key:       string(bytes.TrimSpace(line[:colon])),
			Value:     string(bytes.TrimSpace(line[colon+1:])),
			start:     pos,
			end:       lineEnd,
			lineBreak: lineBreak,
		})
		pos = next
	}

	return headers
}

// nextLine returns the end of the line starting at pos (line break
// excluded), the offset of the following line, and the line break itself.
func nextLine(raw []byte, pos int) (lineEnd, next int, lineBreak string) {
	nl := bytes.IndexByte(raw[pos:], '\n')
	if nl < 0 {
		return len(raw), len(raw), ""
	}
	nl += pos
	if nl > pos && raw[nl-1] == '\r' {
		return nl - 1, nl + 1, "\r\n"
	}
	return nl, nl + 1, "\n"
}
