package content

import (
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// BlockType identifies the kind of a rich text block.
type BlockType string

const (
	BlockParagraph BlockType = "paragraph"
	BlockHeading   BlockType = "heading"
)

// Run is a styled span of text inside a block.
type Run struct {
	Text   string `json:"text"`
	Bold   bool   `json:"bold,omitempty"`
	Italic bool   `json:"italic,omitempty"`
}

// Block is a paragraph or heading. Level is only meaningful for headings.
type Block struct {
	Type     BlockType `json:"type"`
	Level    int       `json:"level,omitempty"`
	Children []Run     `json:"children"`
}

// RichText is an ordered list of blocks.
type RichText []Block

// IsEmpty reports whether the text holds no visible characters.
func (r RichText) IsEmpty() bool {
	return strings.TrimSpace(r.PlainText()) == ""
}

// PlainText joins block texts with a blank line between blocks.
func (r RichText) PlainText() string {
	parts := make([]string, 0, len(r))
	for _, block := range r {
		var sb strings.Builder
		for _, run := range block.Children {
			sb.WriteString(run.Text)
		}
		if text := strings.TrimSpace(sb.String()); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Locales names the primary and alternate site locales.
type Locales struct {
	Primary   string
	Alternate string
}

// DefaultLocales is the en/ar pair the site ships with.
var DefaultLocales = Locales{Primary: "en", Alternate: "ar"}

// Pick returns alt for the alternate locale and primary otherwise. An empty
// alt falls back to primary.
func (l Locales) Pick(locale, primary, alt string) string {
	if l.isAlternate(locale) && strings.TrimSpace(alt) != "" {
		return alt
	}
	return primary
}

// PickRich is Pick for rich text values.
func (l Locales) PickRich(locale string, primary, alt RichText) RichText {
	if l.isAlternate(locale) && !alt.IsEmpty() {
		return alt
	}
	return primary
}

func (l Locales) isAlternate(locale string) bool {
	return locale != "" && strings.EqualFold(locale, l.Alternate)
}

// Localize picks between primary and alt using DefaultLocales.
func Localize(locale, primary, alt string) string {
	return DefaultLocales.Pick(locale, primary, alt)
}

var stripPolicy = bluemonday.StrictPolicy()

// Excerpt strips markup, collapses whitespace and cuts the text to max runes,
// appending an ellipsis when something was dropped. A non-positive max uses
// DefaultExcerptLength.
func Excerpt(text string, max int) string {
	if max <= 0 {
		max = DefaultExcerptLength
	}
	clean := strings.Join(strings.Fields(stripPolicy.Sanitize(text)), " ")
	if utf8.RuneCountInString(clean) <= max {
		return clean
	}
	runes := []rune(clean)
	return strings.TrimSpace(string(runes[:max])) + "…"
}
