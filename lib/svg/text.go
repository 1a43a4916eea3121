package svg

import "strings"

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeText replaces the reserved markup characters with their named entities.
// It is applied to every attribute key and value and to every EscapedText child.
func EscapeText(text string) string {
	return escaper.Replace(text)
}
