package markup

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leefowlercu/mhtmlfix/internal/diagnostics"
	"github.com/leefowlercu/mhtmlfix/internal/mhtml"
	"github.com/leefowlercu/mhtmlfix/internal/reference"
)

func testMap() *reference.Map {
	m := reference.NewMap()
	m.Set("https://example.com/images/img1.png", "img1.png.0000000a@mhtml.fixer")
	m.Set("img2.gif", "img2.gif.0000000b@mhtml.fixer")
	m.Set("frame-7@mhtml.blink", "img2.gif.0000000b@mhtml.fixer")
	return m
}

func TestRewriteBody_Tags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "exact location",
			in:   `<img src="https://example.com/images/img1.png">`,
			want: `<img src="cid:img1.png.0000000a@mhtml.fixer"/>`,
		},
		{
			name: "file name fallback",
			in:   `<img alt="x" src="img1.png" width="3">`,
			want: `<img alt="x" src="cid:img1.png.0000000a@mhtml.fixer" width="3"/>`,
		},
		{
			name: "old identifier with scheme",
			in:   `<IMG SRC="CID:frame-7@mhtml.blink" />`,
			want: `<IMG SRC="cid:img2.gif.0000000b@mhtml.fixer" />`,
		},
		{
			name: "single quotes kept",
			in:   `<img src='img2.gif'>`,
			want: `<img src='cid:img2.gif.0000000b@mhtml.fixer'/>`,
		},
		{
			name: "unquoted value",
			in:   `<img src=img2.gif alt=x>`,
			want: `<img src=cid:img2.gif.0000000b@mhtml.fixer alt=x/>`,
		},
		{
			name: "spaces around equals",
			in:   `<img src = "img2.gif">`,
			want: `<img src = "cid:img2.gif.0000000b@mhtml.fixer"/>`,
		},
		{
			name: "unresolved stays but closes",
			in:   `<img src="missing.png">`,
			want: `<img src="missing.png"/>`,
		},
		{
			name: "no src",
			in:   `<img alt="decorative">`,
			want: `<img alt="decorative"/>`,
		},
		{
			name: "empty src",
			in:   `<img src="">`,
			want: `<img src=""/>`,
		},
		{
			name: "data-src ignored in favour of src",
			in:   `<img data-src="missing.png" src="img2.gif">`,
			want: `<img data-src="missing.png" src="cid:img2.gif.0000000b@mhtml.fixer"/>`,
		},
		{
			name: "srcset is not src",
			in:   `<img srcset="img2.gif 2x">`,
			want: `<img srcset="img2.gif 2x"/>`,
		},
		{
			name: "already self-closing",
			in:   `<img src="img2.gif"/>`,
			want: `<img src="cid:img2.gif.0000000b@mhtml.fixer"/>`,
		},
		{
			name: "bare tag",
			in:   `<img>`,
			want: `<img/>`,
		},
		{
			name: "other tags untouched",
			in:   `<imgur><a href="img2.gif">x</a>`,
			want: `<imgur><a href="img2.gif">x</a>`,
		},
		{
			name: "multi-line tag",
			in:   "<img\r\n  src=\"img2.gif\"\r\n  alt=\"y\">",
			want: "<img\r\n  src=\"cid:img2.gif.0000000b@mhtml.fixer\"\r\n  alt=\"y\"/>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rw := NewRewriter(testMap(), nil)
			got, _ := rw.RewriteBody([]byte(tt.in))
			assert.Equal(t, tt.want, string(got))
		})
	}
}

// A ">" inside a quoted attribute ends the tag match early; the tail of the
// tag is left as text.
func TestRewriteBody_QuotedBracketLimitation(t *testing.T) {
	rw := NewRewriter(testMap(), nil)
	got, stats := rw.RewriteBody([]byte(`<img alt="a>b" src="img2.gif">`))

	assert.Equal(t, `<img alt="a/>b" src="img2.gif">`, string(got))
	assert.Equal(t, 1, stats.Tags)
	assert.Equal(t, 1, stats.NoSource)
}

func TestRewriteBody_StatsAndWarnings(t *testing.T) {
	sink := diagnostics.NewSink(nil)
	rw := NewRewriter(testMap(), sink)

	body := `<p><img src="img1.png"><img src="missing.png"><img alt=""></p>`
	out, stats := rw.RewriteBody([]byte(body))

	assert.Equal(t, Stats{Tags: 3, Rewritten: 1, Unresolved: 1, NoSource: 1}, stats)

	warnings := sink.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, "image reference not resolved src=missing.png", warnings[0].String())

	every := regexp.MustCompile(`(?i)<img\b[^>]*>`).FindAll(out, -1)
	require.Len(t, every, 3)
	for _, tag := range every {
		assert.True(t, strings.HasSuffix(string(tag), "/>"), "tag %q not self-closing", tag)
	}
}

func TestRewriteBody_DoesNotMutateInput(t *testing.T) {
	in := []byte(`<img src="img2.gif"><img src="x">`)
	orig := string(in)

	NewRewriter(testMap(), nil).RewriteBody(in)

	assert.Equal(t, orig, string(in))
}

func TestSelfClose(t *testing.T) {
	assert.Equal(t, "<img/>", string(selfClose([]byte("<img/>"))))
	assert.Equal(t, "<img a/>", string(selfClose([]byte("<img a>"))))
	assert.Equal(t, "<img a/>", string(selfClose([]byte("<img a"))))
}

func TestResolutionKey(t *testing.T) {
	assert.Equal(t, "abc@x", resolutionKey("cid:abc@x"))
	assert.Equal(t, "abc@x", resolutionKey("CiD:abc@x"))
	assert.Equal(t, "img.png", resolutionKey("img.png"))
	assert.Equal(t, "cid", resolutionKey("cid"))
}

func archiveWith(t *testing.T, markupHeaders, markupBody string, extra ...string) *mhtml.Archive {
	t.Helper()
	var b strings.Builder
	b.WriteString("Content-Type: multipart/related; boundary=\"AAA\"\r\n\r\n")
	b.WriteString("--AAA\r\n")
	b.WriteString(markupHeaders)
	b.WriteString("\r\n")
	b.WriteString(markupBody)
	for _, part := range extra {
		b.WriteString("--AAA\r\n")
		b.WriteString(part)
	}
	b.WriteString("--AAA--\r\n")

	archive, err := mhtml.Split([]byte(b.String()))
	require.NoError(t, err)
	return archive
}

func TestRewrite_QuotedPrintableBody(t *testing.T) {
	headers := "Content-Type: text/html; charset=\"utf-8\"\r\nContent-Transfer-Encoding: quoted-printable\r\n"
	body := "<html><body><img src=3D\"img2.gif\" alt=3D\"caf=C3=A9\"></body></html>\r\n\r\n"
	archive := archiveWith(t, headers, body)

	stats, err := NewRewriter(testMap(), nil).Rewrite(archive)
	require.NoError(t, err)
	assert.Equal(t, EncodingQuotedPrintable, stats.Encoding)
	assert.Equal(t, 1, stats.Rewritten)

	part := archive.Parts[0]
	head, encoded := part.SplitBody()
	assert.Equal(t, "\r\n"+headers+"\r\n", string(head))

	decoded, err := Decode(EncodingQuotedPrintable, encoded)
	require.NoError(t, err)
	assert.Equal(t, "<html><body><img src=\"cid:img2.gif.0000000b@mhtml.fixer\" alt=\"café\"/></body></html>\r\n\r\n", string(decoded))
}

func TestRewrite_PassThroughBody(t *testing.T) {
	headers := "Content-Type: text/html\r\nContent-Transfer-Encoding: 8bit\r\n"
	archive := archiveWith(t, headers, "<img src=\"img2.gif\">\r\n")

	stats, err := NewRewriter(testMap(), nil).Rewrite(archive)
	require.NoError(t, err)
	assert.Equal(t, "8bit", stats.Encoding)

	_, body := archive.Parts[0].SplitBody()
	assert.Equal(t, "<img src=\"cid:img2.gif.0000000b@mhtml.fixer\"/>\r\n", string(body))
}

func TestRewrite_DefaultEncoding(t *testing.T) {
	archive := archiveWith(t, "Content-Type: text/html\r\n", "<img src=\"x\">\r\n")

	stats, err := NewRewriter(testMap(), nil).Rewrite(archive)
	require.NoError(t, err)
	assert.Equal(t, mhtml.DefaultTransferEncoding, stats.Encoding)
}

func TestRewrite_OnlyFirstMarkupPart(t *testing.T) {
	second := "Content-Type: text/html\r\n\r\n<img src=\"img2.gif\">\r\n"
	archive := archiveWith(t, "Content-Type: text/html\r\n", "<img src=\"img2.gif\">\r\n", second)
	before := string(archive.Parts[1].Bytes())

	sink := diagnostics.NewSink(nil)
	_, err := NewRewriter(testMap(), sink).Rewrite(archive)
	require.NoError(t, err)

	assert.Equal(t, before, string(archive.Parts[1].Bytes()))
	assert.Contains(t, string(archive.Parts[0].Bytes()), "cid:img2.gif.0000000b@mhtml.fixer")
	require.Equal(t, 1, sink.Len())
	assert.Equal(t, "additional markup parts left unchanged", sink.Records()[0].Message)
}

func TestRewrite_MissingMarkupPart(t *testing.T) {
	var b strings.Builder
	b.WriteString("Content-Type: multipart/related; boundary=\"AAA\"\r\n\r\n")
	b.WriteString("--AAA\r\nContent-Type: image/png\r\n\r\nAAAA\r\n--AAA--\r\n")
	archive, err := mhtml.Split([]byte(b.String()))
	require.NoError(t, err)

	_, err = NewRewriter(testMap(), nil).Rewrite(archive)
	assert.ErrorIs(t, err, mhtml.ErrMissingMarkupPart)
}
