// Package filetype recognises MHTML archives and fingerprints their content.
package filetype

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
)

// Kind is the detected type of an input file.
type Kind string

const (
	KindMHTML   Kind = "mhtml"
	KindUnknown Kind = "unknown"
)

// sniffLength bounds how much of the content LooksLikeArchive inspects.
const sniffLength = 4096

var archiveExtensions = map[string]bool{
	".mhtml": true,
	".mht":   true,
}

// HashBytes computes the SHA-256 hash of the provided bytes.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Detect classifies a file by its content, falling back to its extension.
func Detect(path string, content []byte) Kind {
	if LooksLikeArchive(content) || archiveExtensions[strings.ToLower(filepath.Ext(path))] {
		return KindMHTML
	}
	return KindUnknown
}

// LooksLikeArchive reports whether the start of content carries a
// multipart/related header or a MIME-Version header with a boundary.
func LooksLikeArchive(content []byte) bool {
	head := content
	if len(head) > sniffLength {
		head = head[:sniffLength]
	}
	head = bytes.ToLower(head)

	if bytes.Contains(head, []byte("multipart/related")) {
		return true
	}
	return bytes.Contains(head, []byte("mime-version:")) && bytes.Contains(head, []byte("boundary="))
}
