// Package markdown renders the small markdown subset produced by the career
// advisor: level 2/3 headers, unordered and ordered lists, bold spans and
// paragraphs. Anything else is treated as paragraph text.
package markdown

import (
	"regexp"
	"strings"
)

type BlockKind string

const (
	KindHeading2      BlockKind = "h2"
	KindHeading3      BlockKind = "h3"
	KindUnorderedList BlockKind = "ul"
	KindOrderedList   BlockKind = "ol"
	KindParagraph     BlockKind = "p"
)

// Span is a run of inline text.
type Span struct {
	Text string `json:"text"`
	Bold bool   `json:"bold,omitempty"`
}

// Block is either a text block (Spans) or a list (Items).
type Block struct {
	Kind  BlockKind `json:"kind"`
	Spans []Span    `json:"spans,omitempty"`
	Items [][]Span  `json:"items,omitempty"`
}

func (b Block) IsList() bool {
	return b.Kind == KindUnorderedList || b.Kind == KindOrderedList
}

var (
	boldPattern     = regexp.MustCompile(`\*\*.*?\*\*`)
	orderedPrefix   = regexp.MustCompile(`^\d+\.\s`)
	orderedMarker   = regexp.MustCompile(`^\d+\.\s+`)
	unorderedMarker = regexp.MustCompile(`^[-*]\s+`)
	heading2Marker  = regexp.MustCompile(`^##\s+`)
	heading3Marker  = regexp.MustCompile(`^###\s+`)
)

// parser holds the only state the scan needs: the list being accumulated.
type parser struct {
	blocks   []Block
	listKind BlockKind
	items    [][]Span
}

func (p *parser) flush() {
	if p.listKind != "" && len(p.items) > 0 {
		p.blocks = append(p.blocks, Block{Kind: p.listKind, Items: p.items})
	}
	p.listKind = ""
	p.items = nil
}

func (p *parser) addItem(kind BlockKind, text string) {
	if p.listKind != kind {
		p.flush()
	}
	p.listKind = kind
	p.items = append(p.items, ParseInline(text))
}

func (p *parser) addText(kind BlockKind, text string) {
	p.flush()
	p.blocks = append(p.blocks, Block{Kind: kind, Spans: ParseInline(text)})
}

// Parse converts text into blocks in a single pass over its lines.
func Parse(text string) []Block {
	p := &parser{}
	if text == "" {
		return p.blocks
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			p.flush()
		case strings.HasPrefix(trimmed, "### "):
			p.addText(KindHeading3, heading3Marker.ReplaceAllString(trimmed, ""))
		case strings.HasPrefix(trimmed, "## "):
			p.addText(KindHeading2, heading2Marker.ReplaceAllString(trimmed, ""))
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			p.addItem(KindUnorderedList, unorderedMarker.ReplaceAllString(trimmed, ""))
		case orderedPrefix.MatchString(trimmed):
			p.addItem(KindOrderedList, orderedMarker.ReplaceAllString(trimmed, ""))
		default:
			p.addText(KindParagraph, trimmed)
		}
	}
	p.flush()

	return p.blocks
}

// ParseInline splits a line into plain and bold spans. Bold markers are
// matched non-greedily, so "**a** and **b**" yields two bold spans.
func ParseInline(line string) []Span {
	spans := make([]Span, 0, 1)
	last := 0
	for _, loc := range boldPattern.FindAllStringIndex(line, -1) {
		if loc[0] > last {
			spans = append(spans, plainSpan(line[last:loc[0]]))
		}
		spans = append(spans, Span{Text: line[loc[0]+2 : loc[1]-2], Bold: true})
		last = loc[1]
	}
	if last < len(line) {
		spans = append(spans, plainSpan(line[last:]))
	}
	return spans
}

// plainSpan wraps unmatched text. A leftover "**" or "***" both opens and
// closes a marker, so it becomes an empty bold span.
func plainSpan(text string) Span {
	if text == "**" || text == "***" {
		return Span{Bold: true}
	}
	return Span{Text: text}
}
