package core

// markup.go renders a BookmarkTree as a Netscape bookmark file, the exchange
// format understood by the bookmark importers of mainstream browsers.
//
// Layout, one indentation step (four spaces) per folder level:
//
//	<!DOCTYPE NETSCAPE-Bookmark-file-1>
//	<META ...><TITLE>..</TITLE><H1>..</H1>
//	<DL><p>
//	    <DT><H3>group</H3>
//	    <DL><p>
//	        <DT><H3>country</H3>
//	        <DL><p>
//	            <DT><H3>location</H3>
//	            <DL><p>
//	                <DT><A HREF="https://ip">label-hostname</A>
//	            </DL><p>
//	        </DL><p>
//	    </DL><p>
//	</DL><p>

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strings"
)

const bookmarksHeader = "<!DOCTYPE NETSCAPE-Bookmark-file-1>\n" +
	"<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n" +
	"<TITLE>Bookmarks</TITLE>\n" +
	"<H1>Bookmarks Menu</H1>\n"

const indentUnit = "    "

// LinkText returns the visible text of a record's bookmark.
func LinkText(rec FilteredRecord) string {
	return Label(rec.ExporterType) + "-" + rec.Hostname
}

// RenderBookmarks writes the bookmark document for tree to w. Folder names
// and link text are HTML-escaped. An empty tree still produces the header
// and an empty top-level list.
func RenderBookmarks(w io.Writer, tree *BookmarkTree, rules RuleSet) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(bookmarksHeader)
	bw.WriteString("<DL><p>\n")

	if tree != nil {
		for _, group := range tree.Groups() {
			openFolder(bw, 1, group)
			for _, country := range tree.Countries(group) {
				openFolder(bw, 2, country)
				for _, location := range tree.Locations(group, country) {
					openFolder(bw, 3, location)
					for _, rec := range tree.Records(group, country, location) {
						fmt.Fprintf(bw, "%s<DT><A HREF=\"%s\">%s</A>\n",
							indent(4),
							html.EscapeString(rules.URL(rec.ExporterType, rec.IPAddress)),
							html.EscapeString(LinkText(rec)),
						)
					}
					closeFolder(bw, 3)
				}
				closeFolder(bw, 2)
			}
			closeFolder(bw, 1)
		}
	}

	bw.WriteString("</DL><p>\n")
	return bw.Flush()
}

// GenerateBookmarks returns the bookmark document for tree as a string.
func GenerateBookmarks(tree *BookmarkTree, rules RuleSet) string {
	var b strings.Builder
	// strings.Builder never fails a write.
	_ = RenderBookmarks(&b, tree, rules)
	return b.String()
}

func openFolder(w *bufio.Writer, depth int, name string) {
	fmt.Fprintf(w, "%s<DT><H3>%s</H3>\n", indent(depth), html.EscapeString(name))
	fmt.Fprintf(w, "%s<DL><p>\n", indent(depth))
}

func closeFolder(w *bufio.Writer, depth int) {
	fmt.Fprintf(w, "%s</DL><p>\n", indent(depth))
}

func indent(depth int) string {
	return strings.Repeat(indentUnit, depth)
}
