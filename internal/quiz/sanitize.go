package quiz

import (
	"html"
	"html/template"
	"strings"

	"github.com/gosimple/slug"
	"github.com/microcosm-cc/bluemonday"
)

// MaxSlugLen bounds stored slugs; anything longer is treated as malformed
// and never reaches the database.
const MaxSlugLen = 128

// strict strips every HTML element, including script bodies.
var strict = bluemonday.StrictPolicy()

// Sanitize neutralizes markup in user-submitted text: tags are stripped and
// the remaining text is entity-escaped. Idempotent, so applying it again at
// render time is a no-op.
func Sanitize(s string) string {
	stripped := strict.Sanitize(s)
	// Unescape before escaping so entities from a previous pass (or from
	// bluemonday itself) are not double-encoded.
	return html.EscapeString(html.UnescapeString(stripped))
}

// ToDisplayMarkup escapes text and converts newline conventions to HTML:
// double newlines become paragraph breaks, single newlines become <br>.
// Paragraphs are converted first so line breaks never split them.
func ToDisplayMarkup(s string) template.HTML {
	escaped := Sanitize(strings.ReplaceAll(s, "\r\n", "\n"))
	withParagraphs := strings.ReplaceAll(escaped, "\n\n", "</p><p>")
	withBreaks := strings.ReplaceAll(withParagraphs, "\n", "<br>")
	return template.HTML("<p>" + withBreaks + "</p>")
}

// Slugify derives the URL-safe identifier for a category name: lowercase,
// whitespace runs collapsed to single hyphens, non-word characters dropped,
// repeated hyphens collapsed, leading/trailing hyphens trimmed.
func Slugify(name string) string {
	return slug.Make(name)
}
