package mhtml

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleArchive = "From: <Saved by Blink>\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/related;\r\n" +
	"\ttype=\"text/html\";\r\n" +
	"\tboundary=\"----AAA----\"\r\n" +
	"\r\n" +
	"\r\n" +
	"------AAA----\r\n" +
	"Content-Type: text/html\r\n" +
	"Content-Transfer-Encoding: quoted-printable\r\n" +
	"Content-Location: https://example.com/page.html\r\n" +
	"\r\n" +
	"<html><body><img src=3D\"img1.png\"></body></html>\r\n" +
	"\r\n" +
	"------AAA----\r\n" +
	"Content-Type: image/png\r\n" +
	"Content-Transfer-Encoding: base64\r\n" +
	"Content-Location: https://example.com/img1.png\r\n" +
	"\r\n" +
	"iVBORw0KGgo=\r\n" +
	"\r\n" +
	"------AAA----\r\n" +
	"Content-Type: text/css\r\n" +
	"Content-Location: https://example.com/site.css\r\n" +
	"\r\n" +
	"body{}\r\n" +
	"\r\n" +
	"------AAA------\r\n"

func TestSplit_SampleArchive(t *testing.T) {
	archive, err := Split([]byte(sampleArchive))
	require.NoError(t, err)

	assert.Equal(t, "----AAA----", archive.Boundary)
	assert.Equal(t, "------AAA----", archive.Delimiter())
	assert.True(t, strings.HasPrefix(string(archive.Preamble), "From: <Saved by Blink>"))
	require.Len(t, archive.Parts, 3)

	assert.Equal(t, KindMarkup, archive.Parts[0].Kind)
	assert.Equal(t, KindImage, archive.Parts[1].Kind)
	assert.Equal(t, KindOther, archive.Parts[2].Kind)

	assert.Equal(t, "quoted-printable", archive.Parts[0].TransferEncoding())
	assert.Equal(t, DefaultTransferEncoding, archive.Parts[2].TransferEncoding())
}

func TestSplit_MissingBoundary(t *testing.T) {
	_, err := Split([]byte("Content-Type: multipart/related\r\n\r\nno parts here\r\n"))
	if !errors.Is(err, ErrMissingBoundary) {
		t.Fatalf("Split() error = %v, want ErrMissingBoundary", err)
	}
}

func TestFindBoundary(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"quoted", "Content-Type: multipart/related; boundary=\"abc\"\r\n\r\n", "abc", true},
		{"case insensitive", "Content-Type: multipart/related; BOUNDARY=\"abc\"\r\n\r\n", "abc", true},
		{"unquoted", "Content-Type: multipart/related; boundary=abc\r\n\r\n", "abc", true},
		{"unquoted with params", "Content-Type: multipart/related; boundary=abc; type=text/html\r\n\r\n", "abc", true},
		{"outside header block", "Subject: x\r\n\r\nContent-Type: multipart/related; boundary=\"late\"\r\n", "late", true},
		{"absent", "Content-Type: text/html\r\n\r\n<p>boundary</p>", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindBoundary([]byte(tt.raw))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplit_HeaderBlockWins(t *testing.T) {
	raw := "Content-Type: multipart/related; boundary=\"first\"\r\n\r\n" +
		"--first\r\nContent-Type: text/plain; boundary=\"second\"\r\n\r\nx\r\n--first--\r\n"

	archive, err := Split([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "first", archive.Boundary)
	assert.Len(t, archive.Parts, 1)
}

func TestSplit_NoDelimiters(t *testing.T) {
	archive, err := Split([]byte("Content-Type: multipart/related; boundary=\"X\"\r\n\r\nempty"))
	require.NoError(t, err)
	assert.Empty(t, archive.Parts)
}

func TestArchive_Markup(t *testing.T) {
	archive, err := Split([]byte(sampleArchive))
	require.NoError(t, err)

	markup, err := archive.Markup()
	require.NoError(t, err)
	assert.Same(t, archive.Parts[0], markup)
	assert.Equal(t, 1, archive.MarkupCount())
	assert.Len(t, archive.Images(), 1)

	archive.Parts = archive.Parts[1:]
	_, err = archive.Markup()
	assert.ErrorIs(t, err, ErrMissingMarkupPart)
}

func TestArchive_RoundTripUnmodified(t *testing.T) {
	archive, err := Split([]byte(sampleArchive))
	require.NoError(t, err)

	assert.Equal(t, sampleArchive, string(archive.Bytes()))
}

func TestArchive_RoundTripPartCount(t *testing.T) {
	archive, err := Split([]byte(sampleArchive))
	require.NoError(t, err)

	archive.Parts[1].SetHeader(HeaderContentLocation, "other.png")

	again, err := Split(archive.Bytes())
	require.NoError(t, err)
	require.Len(t, again.Parts, len(archive.Parts))
	for i := range archive.Parts {
		assert.Equal(t, archive.Parts[i].Kind, again.Parts[i].Kind, "part %d", i)
		assert.Equal(t, archive.Parts[i].Bytes(), again.Parts[i].Bytes(), "part %d", i)
	}
}

func TestArchive_WriteToAddsMissingLineBreak(t *testing.T) {
	archive := &Archive{
		Boundary: "B",
		Preamble: []byte("Content-Type: multipart/related; boundary=\"B\"\r\n\r\n"),
		Parts: []*Part{
			NewPart([]byte("Content-Type: text/html\r\n\r\n<p/>\r\n")),
			NewPart([]byte("\r\nContent-Type: image/png\r\n\r\nxx\r\n")),
		},
	}

	var buf bytes.Buffer
	n, err := archive.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	want := "Content-Type: multipart/related; boundary=\"B\"\r\n\r\n" +
		"--B\r\nContent-Type: text/html\r\n\r\n<p/>\r\n" +
		"--B\r\nContent-Type: image/png\r\n\r\nxx\r\n" +
		"--B--\r\n"
	assert.Equal(t, want, buf.String())
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestArchive_WriteToPropagatesErrors(t *testing.T) {
	archive, err := Split([]byte(sampleArchive))
	require.NoError(t, err)

	_, err = archive.WriteTo(failingWriter{})
	assert.EqualError(t, err, "disk full")
}

func TestSplit_DoesNotMutateInput(t *testing.T) {
	input := []byte(sampleArchive)
	archive, err := Split(input)
	require.NoError(t, err)

	archive.Parts[1].InsertHeaderAfter(HeaderContentLocation, HeaderContentID, "<x@y>")
	archive.Parts[0].SetBody([]byte("replaced\r\n"))

	assert.Equal(t, sampleArchive, string(input))
}
