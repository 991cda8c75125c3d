package doctree

import (
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Footnote,
	),
)

// parseCtx carries the source bytes and the footnote index-to-label mapping
// through a single Parse call. The mapping exists because goldmark's
// footnote extension resolves a [^label] reference to its definition's
// Index during AST construction and drops the original label text from the
// *east.FootnoteLink node itself; collectFootnoteLabels recovers it from the
// matching *east.FootnoteDefinition so a reference round-trips back to its
// source label instead of a bare number.
type parseCtx struct {
	src    []byte
	labels map[int]string
}

// Parse converts a Markdown document body (frontmatter, if any, already
// stripped by the caller) into a block tree.
//
// Grounded on other_examples' goldmark wrapper: goldmark.New with
// extension.GFM + extension.Footnote, Parser().Parse(text.NewReader(...)),
// then an ast.Walk-driven conversion. Library: github.com/yuin/goldmark.
func Parse(src []byte) ([]*Block, error) {
	reader := text.NewReader(src)
	root := md.Parser().Parse(reader)
	ctx := &parseCtx{src: src, labels: collectFootnoteLabels(root)}

	var blocks []*Block
	child := root.FirstChild()
	for child != nil {
		var err error
		blocks, err = expandTopLevel(blocks, child, ctx)
		if err != nil {
			return nil, NewError(KindMarkdownParseError, "%v", err)
		}
		child = child.NextSibling()
	}
	return blocks, nil
}

// collectFootnoteLabels walks the whole AST for *east.FootnoteDefinition
// nodes and records Index -> Ref, so convertInline can resolve a
// *east.FootnoteLink's Index back to the label it was written with.
func collectFootnoteLabels(root ast.Node) map[int]string {
	labels := map[int]string{}
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if def, ok := n.(*east.FootnoteDefinition); ok {
				labels[def.Index] = string(def.Ref)
			}
		}
		return ast.WalkContinue, nil
	})
	return labels
}

func convertBlock(n ast.Node, ctx *parseCtx) (*Block, error) {
	switch node := n.(type) {
	case *ast.Paragraph:
		return &Block{Kind: Paragraph, Inlines: convertInlines(node, ctx)}, nil

	case *ast.Heading:
		return &Block{Kind: Heading, Level: node.Level, Inlines: convertInlines(node, ctx)}, nil

	case *ast.ThematicBreak:
		return &Block{Kind: ThematicBreak}, nil

	case *ast.Blockquote:
		children, err := convertChildren(node, ctx)
		if err != nil {
			return nil, err
		}
		return &Block{Kind: Blockquote, Children: children}, nil

	case *ast.List:
		items, err := convertListItems(node, ctx)
		if err != nil {
			return nil, err
		}
		startNum := node.Start
		if startNum == 0 && node.IsOrdered() {
			startNum = 1
		}
		return &Block{
			Kind:     List,
			Ordered:  node.IsOrdered(),
			StartNum: startNum,
			Tight:    node.IsTight,
			Children: items,
		}, nil

	case *ast.CodeBlock:
		return &Block{Kind: CodeBlock, Fenced: false, Literal: segmentsText(node.Lines(), ctx.src)}, nil

	case *ast.FencedCodeBlock:
		info := ""
		if node.Info != nil {
			info = string(node.Info.Text(ctx.src))
		}
		return &Block{Kind: CodeBlock, Fenced: true, Info: info, Literal: segmentsText(node.Lines(), ctx.src)}, nil

	case *ast.HTMLBlock:
		lit := segmentsText(node.Lines(), ctx.src)
		if node.HasClosure() {
			lit += string(node.ClosureLine.Value(ctx.src))
		}
		return &Block{Kind: HTMLBlock, Literal: lit}, nil

	case *east.Table:
		return convertTable(node, ctx)

	case *ast.TextBlock:
		// Top-level bare text block (rare outside list items); treat as a
		// paragraph for selector/extractor purposes.
		return &Block{Kind: Paragraph, Inlines: convertInlines(node, ctx)}, nil

	case *east.FootnoteDefinition:
		return convertFootnoteDefinition(node, ctx)

	default:
		return nil, nil
	}
}

// Parse's top-level loop only sees direct children of the document root, but
// goldmark groups all footnote definitions under one *east.FootnoteList
// sibling. Expand it into individual FootnoteDefinition blocks here so
// top-level indices line up with spec §3's flat block slice.
func expandTopLevel(blocks []*Block, n ast.Node, ctx *parseCtx) ([]*Block, error) {
	if list, ok := n.(*east.FootnoteList); ok {
		child := list.FirstChild()
		for child != nil {
			if def, ok := child.(*east.FootnoteDefinition); ok {
				b, err := convertFootnoteDefinition(def, ctx)
				if err != nil {
					return nil, err
				}
				blocks = append(blocks, b)
			}
			child = child.NextSibling()
		}
		return blocks, nil
	}
	b, err := convertBlock(n, ctx)
	if err != nil {
		return nil, err
	}
	if b != nil {
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func convertFootnoteDefinition(n *east.FootnoteDefinition, ctx *parseCtx) (*Block, error) {
	children, err := convertChildren(n, ctx)
	if err != nil {
		return nil, err
	}
	return &Block{Kind: FootnoteDefinition, Label: string(n.Ref), Children: children}, nil
}

func convertChildren(n ast.Node, ctx *parseCtx) ([]*Block, error) {
	var out []*Block
	child := n.FirstChild()
	for child != nil {
		var err error
		out, err = expandTopLevel(out, child, ctx)
		if err != nil {
			return nil, err
		}
		child = child.NextSibling()
	}
	return out, nil
}

func convertListItems(list *ast.List, ctx *parseCtx) ([]*Block, error) {
	var items []*Block
	child := list.FirstChild()
	for child != nil {
		item, ok := child.(*ast.ListItem)
		if !ok {
			child = child.NextSibling()
			continue
		}
		inner, err := convertChildren(item, ctx)
		if err != nil {
			return nil, err
		}
		li := &Block{Kind: ListItem, Children: inner}
		if task, ok := findTaskCheckBox(item); ok {
			li.HasTask = true
			li.Checked = task.IsChecked
		}
		items = append(items, li)
		child = child.NextSibling()
	}
	return items, nil
}

// findTaskCheckBox looks for a *east.TaskCheckBox among the first paragraph's
// leading inline content, the shape goldmark's extension.TaskList produces.
func findTaskCheckBox(item *ast.ListItem) (*east.TaskCheckBox, bool) {
	first := item.FirstChild()
	if first == nil {
		return nil, false
	}
	inline := first.FirstChild()
	if box, ok := inline.(*east.TaskCheckBox); ok {
		return box, true
	}
	return nil, false
}

func convertTable(t *east.Table, ctx *parseCtx) (*Block, error) {
	b := &Block{Kind: Table}
	for _, a := range t.Alignments {
		switch a {
		case east.AlignLeft:
			b.Alignments = append(b.Alignments, "left")
		case east.AlignRight:
			b.Alignments = append(b.Alignments, "right")
		case east.AlignCenter:
			b.Alignments = append(b.Alignments, "center")
		default:
			b.Alignments = append(b.Alignments, "")
		}
	}
	child := t.FirstChild()
	for child != nil {
		var row []string
		switch r := child.(type) {
		case *east.TableHeader:
			row = convertTableRow(r, ctx)
		case *east.TableRow:
			row = convertTableRow(r, ctx)
		}
		if row != nil {
			b.Rows = append(b.Rows, row)
		}
		child = child.NextSibling()
	}
	return b, nil
}

func convertTableRow(row ast.Node, ctx *parseCtx) []string {
	var cells []string
	child := row.FirstChild()
	for child != nil {
		if cell, ok := child.(*east.TableCell); ok {
			cells = append(cells, extractInlines(convertInlines(cell, ctx)))
		}
		child = child.NextSibling()
	}
	return cells
}

func convertInlines(n ast.Node, ctx *parseCtx) []Inline {
	var out []Inline
	child := n.FirstChild()
	for child != nil {
		out = append(out, convertInline(child, ctx))
		child = child.NextSibling()
	}
	return out
}

func convertInline(n ast.Node, ctx *parseCtx) Inline {
	switch node := n.(type) {
	case *ast.Text:
		text := string(node.Segment.Value(ctx.src))
		if node.HardLineBreak() || node.SoftLineBreak() {
			text += "\n"
		}
		return Inline{Kind: Text, Text: text}
	case *ast.String:
		return Inline{Kind: Text, Text: string(node.Value)}
	case *ast.CodeSpan:
		return Inline{Kind: CodeSpan, Text: codeSpanText(node, ctx.src)}
	case *ast.Emphasis:
		kind := Emphasis
		if node.Level >= 2 {
			kind = Strong
		}
		return Inline{Kind: kind, Children: convertInlines(node, ctx)}
	case *ast.Link:
		return Inline{Kind: Link, Destination: string(node.Destination), Title: string(node.Title), Children: convertInlines(node, ctx)}
	case *ast.Image:
		return Inline{Kind: Image, Destination: string(node.Destination), Title: string(node.Title), Children: convertInlines(node, ctx)}
	case *ast.AutoLink:
		return Inline{Kind: Autolink, Text: string(node.URL(ctx.src))}
	case *ast.RawHTML:
		return Inline{Kind: Text, Text: segmentsText(node.Segments, ctx.src)}
	case *east.Strikethrough:
		return Inline{Kind: Strikethrough, Children: convertInlines(node, ctx)}
	case *east.FootnoteLink:
		return Inline{Kind: FootnoteReference, Text: ctx.labels[node.Index]}
	default:
		return Inline{Kind: Text, Text: ""}
	}
}

func codeSpanText(n *ast.CodeSpan, src []byte) string {
	var out string
	child := n.FirstChild()
	for child != nil {
		if t, ok := child.(*ast.Text); ok {
			out += string(t.Segment.Value(src))
		}
		child = child.NextSibling()
	}
	return out
}

func segmentsText(lines *text.Segments, src []byte) string {
	var out string
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		out += string(seg.Value(src))
	}
	return out
}
