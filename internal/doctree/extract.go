package doctree

import "strings"

// ExtractText computes a block's visible text, used by contains/regex
// selectors. Pure and recursive, following spec §4.1.
//
// Grounded on prosemark-go's nodeMatchesSelector, which derives a single
// comparable string (stem/title) from a binder Node; generalized here to a
// full recursive extraction over the Markdown block/inline tree.
func ExtractText(b *Block) string {
	if b == nil {
		return ""
	}
	switch b.Kind {
	case Paragraph, Heading:
		return extractInlines(b.Inlines)
	case Blockquote, FootnoteDefinition:
		return joinBlocks(b.Children, "\n")
	case List:
		return joinBlocks(b.Children, "\n")
	case ListItem:
		text := joinBlocks(b.Children, "\n")
		if b.HasTask {
			prefix := "[ ]"
			if b.Checked {
				prefix = "[x]"
			}
			if text == "" {
				return prefix
			}
			return prefix + " " + text
		}
		return text
	case CodeBlock:
		return b.Literal
	case Table:
		rows := make([]string, len(b.Rows))
		for i, row := range b.Rows {
			rows[i] = strings.Join(row, "\t")
		}
		return strings.Join(rows, "\n")
	case ThematicBreak, HTMLBlock, LinkDefinition:
		return ""
	default:
		return ""
	}
}

func joinBlocks(blocks []*Block, sep string) string {
	parts := make([]string, 0, len(blocks))
	for _, child := range blocks {
		parts = append(parts, ExtractText(child))
	}
	return strings.Join(parts, sep)
}

func extractInlines(inlines []Inline) string {
	var sb strings.Builder
	for _, in := range inlines {
		sb.WriteString(extractInline(in))
	}
	return sb.String()
}

func extractInline(in Inline) string {
	switch in.Kind {
	case Text, CodeSpan:
		return in.Text
	case Link, Image:
		return extractInlines(in.Children)
	case Emphasis, Strong, Strikethrough:
		return extractInlines(in.Children)
	case Autolink, FootnoteReference, LineBreak:
		return ""
	default:
		return ""
	}
}

// IsGitHubAlert reports the alert kind ("note", "tip", "important", "warning",
// "caution", or any other bracketed kind) of a blockquote that begins with a
// "[!KIND]" marker, and ok=false if b is not such a blockquote. This is a
// derived property computed by the extractor rather than a distinct parser
// block kind (SPEC_FULL.md §C.1).
func IsGitHubAlert(b *Block) (kind string, ok bool) {
	if b == nil || b.Kind != Blockquote || len(b.Children) == 0 {
		return "", false
	}
	first := ExtractText(b.Children[0])
	first = strings.TrimSpace(strings.SplitN(first, "\n", 2)[0])
	if !strings.HasPrefix(first, "[!") {
		return "", false
	}
	end := strings.Index(first, "]")
	if end < 0 {
		return "", false
	}
	return strings.ToLower(first[2:end]), true
}
