package render

import "regexp"

type SpanKind int

const (
	SpanText SpanKind = iota
	SpanBoldItalic
	SpanBold
	SpanItalic
	SpanCode
	SpanImage
	SpanLink
)

// Span is one inline segment of a text-bearing block. Text holds the literal
// content (the alt text for images, the label for links); URL is set for
// images and links only.
type Span struct {
	Kind SpanKind `json:"kind"`
	Text string   `json:"text"`
	URL  string   `json:"url,omitempty"`
}

// Ordered by precedence: when two constructs match at the same position, the
// earlier entry wins (so *** is bold+italic, never italic wrapping a bold).
var inlinePatterns = []struct {
	kind SpanKind
	re   *regexp.Regexp
}{
	{SpanBoldItalic, regexp.MustCompile(`\*\*\*(.+?)\*\*\*`)},
	{SpanBold, regexp.MustCompile(`\*\*(.+?)\*\*`)},
	{SpanItalic, regexp.MustCompile(`\*([^*]+)\*`)},
	{SpanCode, regexp.MustCompile("`([^`]+)`")},
	{SpanImage, regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)},
	{SpanLink, regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)},
}

// Inline splits a line of text into formatting spans. Formatting does not
// nest: the content inside a construct is kept literal, matching the
// single-pass substitution the site has always rendered with.
func Inline(text string) []Span {
	var spans []Span

	rest := text
	for rest != "" {
		best := -1
		var bestLoc []int
		for i, p := range inlinePatterns {
			loc := p.re.FindStringSubmatchIndex(rest)
			if loc == nil {
				continue
			}
			if best == -1 || loc[0] < bestLoc[0] {
				best = i
				bestLoc = loc
			}
		}

		if best == -1 {
			spans = append(spans, Span{Kind: SpanText, Text: rest})
			break
		}

		if bestLoc[0] > 0 {
			spans = append(spans, Span{Kind: SpanText, Text: rest[:bestLoc[0]]})
		}

		p := inlinePatterns[best]
		span := Span{Kind: p.kind, Text: rest[bestLoc[2]:bestLoc[3]]}
		if p.kind == SpanImage || p.kind == SpanLink {
			span.URL = rest[bestLoc[4]:bestLoc[5]]
		}
		spans = append(spans, span)

		rest = rest[bestLoc[1]:]
	}

	return spans
}
