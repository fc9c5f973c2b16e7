package markup

import (
	"bytes"
	"fmt"
	"io"
	"mime/quotedprintable"
	"strings"
)

// EncodingQuotedPrintable is the only transfer encoding decoded before the
// scan. Every other encoding is passed through as-is.
const EncodingQuotedPrintable = "quoted-printable"

// Decode returns the plaintext of body for the given transfer encoding.
func Decode(encoding string, body []byte) ([]byte, error) {
	if !isQuotedPrintable(encoding) {
		return body, nil
	}

	decoded, err := io.ReadAll(quotedprintable.NewReader(bytes.NewReader(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode quoted-printable body; %w", err)
	}
	return decoded, nil
}

// Encode is the inverse of Decode. Quoted-printable output always decodes
// back to exactly plain. Each CRLF in plain stays a hard line break; a lone
// CR or LF inside a line is escaped so it cannot shift the part boundary.
func Encode(encoding string, plain []byte) ([]byte, error) {
	if !isQuotedPrintable(encoding) {
		return plain, nil
	}

	var buf bytes.Buffer
	for i, line := range bytes.Split(plain, crlf) {
		if i > 0 {
			buf.Write(crlf)
		}
		if len(line) == 0 {
			continue
		}
		w := quotedprintable.NewWriter(&buf)
		w.Binary = true
		if _, err := w.Write(line); err != nil {
			return nil, fmt.Errorf("failed to encode quoted-printable body; %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode quoted-printable body; %w", err)
		}
	}
	return buf.Bytes(), nil
}

var crlf = []byte("\r\n")

func isQuotedPrintable(encoding string) bool {
	return strings.EqualFold(strings.TrimSpace(encoding), EncodingQuotedPrintable)
}
