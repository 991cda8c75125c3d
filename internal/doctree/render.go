package doctree

import (
	"strconv"
	"strings"
)

// Render serializes blocks back to Markdown source. There is no ecosystem
// library that renders an AST back to Markdown text (goldmark's own renderer
// package only targets HTML), so this is a hand-written block-by-block
// writer, kept narrow and isolated behind this single entry point.
func Render(blocks []*Block) string {
	var sb strings.Builder
	renderBlocks(&sb, blocks, "")
	return strings.TrimSuffix(sb.String(), "\n")
}

func renderBlocks(sb *strings.Builder, blocks []*Block, indent string) {
	for i, b := range blocks {
		if i > 0 {
			sb.WriteString("\n")
		}
		renderBlock(sb, b, indent)
	}
}

func renderBlock(sb *strings.Builder, b *Block, indent string) {
	switch b.Kind {
	case Paragraph:
		sb.WriteString(indent)
		sb.WriteString(renderInlines(b.Inlines))
		sb.WriteString("\n")

	case Heading:
		sb.WriteString(indent)
		sb.WriteString(strings.Repeat("#", b.Level))
		sb.WriteString(" ")
		sb.WriteString(renderInlines(b.Inlines))
		sb.WriteString("\n")

	case ThematicBreak:
		sb.WriteString(indent)
		sb.WriteString("---\n")

	case Blockquote:
		renderContainer(sb, b.Children, indent+"> ", indent+">")

	case List:
		renderList(sb, b, indent)

	case CodeBlock:
		renderCodeBlock(sb, b, indent)

	case HTMLBlock:
		sb.WriteString(b.Literal)
		if !strings.HasSuffix(b.Literal, "\n") {
			sb.WriteString("\n")
		}

	case LinkDefinition:
		sb.WriteString(indent)
		sb.WriteString("[" + b.Label + "]: " + b.Destination)
		if b.Title != "" {
			sb.WriteString(` "` + b.Title + `"`)
		}
		sb.WriteString("\n")

	case Table:
		renderTable(sb, b, indent)

	case FootnoteDefinition:
		sb.WriteString(indent + "[^" + b.Label + "]:")
		renderFootnoteBody(sb, b.Children, indent)

	default:
	}
}

// renderContainer writes child blocks with firstLinePrefix on the first
// rendered line of each child and contLinePrefix on continuation lines, the
// shape a Markdown blockquote's "> " marker requires.
func renderContainer(sb *strings.Builder, children []*Block, firstLinePrefix, contLinePrefix string) {
	var inner strings.Builder
	renderBlocks(&inner, children, "")
	lines := strings.Split(strings.TrimSuffix(inner.String(), "\n"), "\n")
	for _, line := range lines {
		if line == "" {
			sb.WriteString(strings.TrimRight(contLinePrefix, " ") + "\n")
			continue
		}
		sb.WriteString(firstLinePrefix + line + "\n")
	}
}

func renderList(sb *strings.Builder, list *Block, indent string) {
	for i, item := range list.Children {
		marker := "- "
		if list.Ordered {
			marker = strconv.Itoa(list.StartNum+i) + ". "
		}
		prefix := indent + marker
		cont := indent + strings.Repeat(" ", len(marker))

		var inner strings.Builder
		renderListItemBody(&inner, item)
		lines := strings.Split(strings.TrimSuffix(inner.String(), "\n"), "\n")
		for j, line := range lines {
			p := cont
			if j == 0 {
				p = prefix
			}
			if line == "" {
				sb.WriteString("\n")
				continue
			}
			sb.WriteString(p + line + "\n")
		}
		if !list.Tight && i < len(list.Children)-1 {
			sb.WriteString("\n")
		}
	}
}

func renderListItemBody(sb *strings.Builder, item *Block) {
	if item.HasTask {
		if item.Checked {
			sb.WriteString("[x] ")
		} else {
			sb.WriteString("[ ] ")
		}
	}
	renderBlocks(sb, item.Children, "")
}

func renderCodeBlock(sb *strings.Builder, b *Block, indent string) {
	if b.Fenced {
		sb.WriteString(indent + "```" + b.Info + "\n")
		for _, line := range strings.Split(strings.TrimSuffix(b.Literal, "\n"), "\n") {
			sb.WriteString(indent + line + "\n")
		}
		sb.WriteString(indent + "```\n")
		return
	}
	for _, line := range strings.Split(strings.TrimSuffix(b.Literal, "\n"), "\n") {
		sb.WriteString(indent + "    " + line + "\n")
	}
}

func renderTable(sb *strings.Builder, b *Block, indent string) {
	if len(b.Rows) == 0 {
		return
	}
	sb.WriteString(indent + "| " + strings.Join(b.Rows[0], " | ") + " |\n")
	sep := make([]string, len(b.Rows[0]))
	for i, align := range b.Alignments {
		if i >= len(sep) {
			break
		}
		switch align {
		case "left":
			sep[i] = ":---"
		case "right":
			sep[i] = "---:"
		case "center":
			sep[i] = ":---:"
		default:
			sep[i] = "---"
		}
	}
	for i := range sep {
		if sep[i] == "" {
			sep[i] = "---"
		}
	}
	sb.WriteString(indent + "| " + strings.Join(sep, " | ") + " |\n")
	for _, row := range b.Rows[1:] {
		sb.WriteString(indent + "| " + strings.Join(row, " | ") + " |\n")
	}
}

func renderFootnoteBody(sb *strings.Builder, children []*Block, indent string) {
	if len(children) == 0 {
		sb.WriteString("\n")
		return
	}
	if len(children) == 1 && children[0].Kind == Paragraph {
		sb.WriteString(" " + renderInlines(children[0].Inlines) + "\n")
		return
	}
	sb.WriteString("\n")
	renderContainer(sb, children, indent+"    ", indent+"")
}

func renderInlines(inlines []Inline) string {
	var sb strings.Builder
	for _, in := range inlines {
		renderInline(&sb, in)
	}
	return sb.String()
}

func renderInline(sb *strings.Builder, in Inline) {
	switch in.Kind {
	case Text:
		sb.WriteString(in.Text)
	case CodeSpan:
		sb.WriteString("`" + in.Text + "`")
	case Emphasis:
		sb.WriteString("*")
		for _, c := range in.Children {
			renderInline(sb, c)
		}
		sb.WriteString("*")
	case Strong:
		sb.WriteString("**")
		for _, c := range in.Children {
			renderInline(sb, c)
		}
		sb.WriteString("**")
	case Strikethrough:
		sb.WriteString("~~")
		for _, c := range in.Children {
			renderInline(sb, c)
		}
		sb.WriteString("~~")
	case Link:
		sb.WriteString("[")
		for _, c := range in.Children {
			renderInline(sb, c)
		}
		sb.WriteString("](" + in.Destination)
		if in.Title != "" {
			sb.WriteString(` "` + in.Title + `"`)
		}
		sb.WriteString(")")
	case Image:
		sb.WriteString("![")
		for _, c := range in.Children {
			renderInline(sb, c)
		}
		sb.WriteString("](" + in.Destination)
		if in.Title != "" {
			sb.WriteString(` "` + in.Title + `"`)
		}
		sb.WriteString(")")
	case Autolink:
		sb.WriteString("<" + in.Text + ">")
	case FootnoteReference:
		sb.WriteString("[^" + in.Text + "]")
	case LineBreak:
		sb.WriteString("\n")
	}
}
