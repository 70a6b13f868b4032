package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBookmarks_Layout(t *testing.T) {
	tree := BuildTree([]FilteredRecord{
		{GroupName: "Acme", Country: "US", Location: "NYC", ExporterType: "exporter_aes", IPAddress: "10.0.0.1", Hostname: "host1"},
	})

	got := GenerateBookmarks(tree, DefaultRules())

	want := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks Menu</H1>
<DL><p>
    <DT><H3>Acme</H3>
    <DL><p>
        <DT><H3>US</H3>
        <DL><p>
            <DT><H3>NYC</H3>
            <DL><p>
                <DT><A HREF="https://10.0.0.1">aes-host1</A>
            </DL><p>
        </DL><p>
    </DL><p>
</DL><p>
`
	assert.Equal(t, want, got)
}

func TestGenerateBookmarks_NonStandardURL(t *testing.T) {
	tree := BuildTree([]FilteredRecord{
		{GroupName: "G", Country: "US", Location: "NYC", ExporterType: "exporter_ems", IPAddress: "10.0.0.2", Hostname: "sbc1"},
		{GroupName: "G", Country: "US", Location: "NYC", ExporterType: "exporter_ams", IPAddress: "10.0.0.3", Hostname: "ams1"},
	})

	got := GenerateBookmarks(tree, DefaultRules())

	assert.Contains(t, got, `<DT><A HREF="https://10.0.0.2/sbc">ems-sbc1</A>`)
	assert.Contains(t, got, `<DT><A HREF="https://10.0.0.3:8443/emlogin">ams-ams1</A>`)
}

func TestGenerateBookmarks_Empty(t *testing.T) {
	got := GenerateBookmarks(BuildTree(nil), DefaultRules())

	assert.True(t, strings.HasPrefix(got, "<!DOCTYPE NETSCAPE-Bookmark-file-1>\n"))
	assert.True(t, strings.HasSuffix(got, "<H1>Bookmarks Menu</H1>\n<DL><p>\n</DL><p>\n"))
	assert.NotContains(t, got, "<DT>")

	assert.Equal(t, got, GenerateBookmarks(nil, DefaultRules()))
}

func TestGenerateBookmarks_Escaping(t *testing.T) {
	tree := BuildTree([]FilteredRecord{
		{GroupName: "R&D", Country: "US", Location: "<lab>", ExporterType: "exporter_aes", IPAddress: "10.0.0.1", Hostname: `a"b`},
	})

	got := GenerateBookmarks(tree, RuleSet{})

	assert.Contains(t, got, "<DT><H3>R&amp;D</H3>")
	assert.Contains(t, got, "<DT><H3>&lt;lab&gt;</H3>")
	assert.Contains(t, got, ">aes-a&#34;b</A>")
}

// Every <DL> is closed and folders nest exactly three levels deep.
func TestGenerateBookmarks_WellFormed(t *testing.T) {
	tree := BuildTree([]FilteredRecord{
		{GroupName: "A", Country: "US", Location: "NYC", ExporterType: "exporter_aes", IPAddress: "1", Hostname: "h"},
		{GroupName: "A", Country: "US", Location: "LA", ExporterType: "exporter_acm", IPAddress: "2", Hostname: "h"},
		{GroupName: "A", Country: "DE", Location: "BER", ExporterType: "exporter_aes", IPAddress: "3", Hostname: "h"},
		{GroupName: "B", Country: "FR", Location: "PAR", ExporterType: "exporter_avayasbc", IPAddress: "4", Hostname: "h"},
	})

	got := GenerateBookmarks(tree, DefaultRules())

	depth, maxDepth, links := 0, 0, 0
	for _, line := range strings.Split(got, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "<DL><p>":
			depth++
			maxDepth = max(maxDepth, depth)
		case line == "</DL><p>":
			depth--
			require.GreaterOrEqual(t, depth, 0, "closing tag without opener")
		case strings.HasPrefix(line, "<DT><A "):
			links++
			assert.Equal(t, 4, depth, "links sit inside group/country/location lists")
		}
	}

	assert.Equal(t, 0, depth)
	assert.Equal(t, 4, maxDepth, "top-level list plus three folder levels")
	assert.Equal(t, tree.Len(), links)
	assert.Equal(t, strings.Count(got, "<DL><p>"), strings.Count(got, "</DL><p>"))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRenderBookmarks_WriteError(t *testing.T) {
	err := RenderBookmarks(failingWriter{}, BuildTree(nil), RuleSet{})
	assert.EqualError(t, err, "disk full")
}

func TestLinkText(t *testing.T) {
	rec := FilteredRecord{ExporterType: "exporter_avayasbc", Hostname: "edge-01"}
	assert.Equal(t, "avayasbc-edge-01", LinkText(rec))
}
