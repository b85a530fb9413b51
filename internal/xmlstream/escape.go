package xmlstream

import "strings"

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"\t", "&#9;",
	"\n", "&#10;",
	"\r", "&#13;",
)

// EscapeText escapes character data for use between tags. Unlike
// encoding/xml.EscapeText, it leaves apostrophes unescaped, matching
// createrepo_c's output and every real-world repomd.xml this package
// reads.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// EscapeAttr escapes a double-quoted attribute value.
func EscapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
