// Package render converts the constrained markdown dialect used by blog posts
// into a display tree of block nodes. It is a pure transform: content is
// stored raw and rendered on every read, never cached.
package render

import (
	"regexp"
	"strings"
)

type BlockKind int

const (
	BlockHeading BlockKind = iota
	BlockParagraph
	BlockList
	BlockQuote
	BlockRule
	BlockEmbed
)

// Block is one node of the display tree.
type Block struct {
	Kind    BlockKind `json:"kind"`
	Level   int       `json:"level,omitempty"`   // headings: 1-3
	Spans   []Span    `json:"spans,omitempty"`   // heading, paragraph, quote
	Ordered bool      `json:"ordered,omitempty"` // list type
	Items   [][]Span  `json:"items,omitempty"`   // list items
	VideoID string    `json:"videoId,omitempty"` // embeds
}

var (
	orderedItemRe = regexp.MustCompile(`^(\d+)\.\s(.+)`)
	embedRe       = regexp.MustCompile(`\{\{youtube:([a-zA-Z0-9_-]+)\}\}`)
)

// Render parses raw markdown line by line into a sequence of blocks.
// Contiguous list items of the same type group into a single list block; a
// type switch, a blank line, or any non-list line flushes the open group.
// Blank lines are otherwise dropped.
func Render(text string) []Block {
	if text == "" {
		return nil
	}

	var (
		blocks   []Block
		items    [][]Span
		ordered  bool
		listOpen bool
	)

	flush := func() {
		if listOpen && len(items) > 0 {
			blocks = append(blocks, Block{Kind: BlockList, Ordered: ordered, Items: items})
		}
		items = nil
		listOpen = false
	}

	for _, line := range strings.Split(text, "\n") {
		if m := embedRe.FindStringSubmatch(line); m != nil {
			flush()
			blocks = append(blocks, Block{Kind: BlockEmbed, VideoID: m[1]})
			continue
		}

		trimmed := strings.TrimSpace(line)

		// Rule check comes before list markers so a bare "***" is a rule,
		// not an empty list item.
		if trimmed == "---" || trimmed == "***" {
			flush()
			blocks = append(blocks, Block{Kind: BlockRule})
			continue
		}

		if itemText, ok, isOrdered := listItem(line); ok {
			if !listOpen || ordered != isOrdered {
				flush()
				listOpen = true
				ordered = isOrdered
			}
			items = append(items, Inline(itemText))
			continue
		}

		flush()

		switch {
		case trimmed == "":
			// dropped
		case strings.HasPrefix(line, "### "):
			blocks = append(blocks, Block{Kind: BlockHeading, Level: 3, Spans: Inline(line[4:])})
		case strings.HasPrefix(line, "## "):
			blocks = append(blocks, Block{Kind: BlockHeading, Level: 2, Spans: Inline(line[3:])})
		case strings.HasPrefix(line, "# "):
			blocks = append(blocks, Block{Kind: BlockHeading, Level: 1, Spans: Inline(line[2:])})
		case strings.HasPrefix(line, "> "):
			blocks = append(blocks, Block{Kind: BlockQuote, Spans: Inline(line[2:])})
		default:
			blocks = append(blocks, Block{Kind: BlockParagraph, Spans: Inline(line)})
		}
	}
	flush()

	return blocks
}

// listItem reports whether the line is a list item, returning its text and
// whether it belongs to an ordered list.
func listItem(line string) (text string, ok bool, ordered bool) {
	if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") {
		return line[2:], true, false
	}
	if m := orderedItemRe.FindStringSubmatch(line); m != nil {
		return m[2], true, true
	}
	return "", false, false
}
