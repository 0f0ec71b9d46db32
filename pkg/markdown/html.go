package markdown

import (
	"html"
	"strings"
)

// RenderHTML renders blocks as HTML fragments. All text is escaped; only the
// tags produced here reach the output.
func RenderHTML(blocks []Block) string {
	var b strings.Builder
	for _, block := range blocks {
		switch block.Kind {
		case KindUnorderedList, KindOrderedList:
			b.WriteString("<" + string(block.Kind) + ">")
			for _, item := range block.Items {
				b.WriteString("<li>")
				writeSpans(&b, item)
				b.WriteString("</li>")
			}
			b.WriteString("</" + string(block.Kind) + ">\n")
		default:
			b.WriteString("<" + string(block.Kind) + ">")
			writeSpans(&b, block.Spans)
			b.WriteString("</" + string(block.Kind) + ">\n")
		}
	}
	return b.String()
}

// ToHTML is Parse followed by RenderHTML.
func ToHTML(text string) string {
	return RenderHTML(Parse(text))
}

func writeSpans(b *strings.Builder, spans []Span) {
	for _, s := range spans {
		if s.Bold {
			b.WriteString("<strong>")
			b.WriteString(html.EscapeString(s.Text))
			b.WriteString("</strong>")
			continue
		}
		b.WriteString(html.EscapeString(s.Text))
	}
}
