package doctree_test

import (
	"testing"

	"github.com/ngirard/mdsplice/internal/doctree"
)

// TestParse_BlockKinds verifies that each top-level construct parses into
// the expected BlockKind in document order.
func TestParse_BlockKinds(t *testing.T) {
	src := "# Title\n\nSome text.\n\n---\n\n- one\n- two\n\n> quoted\n\n```go\nfmt.Println(1)\n```\n"
	blocks, err := doctree.Parse([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []doctree.BlockKind{
		doctree.Heading,
		doctree.Paragraph,
		doctree.ThematicBreak,
		doctree.List,
		doctree.Blockquote,
		doctree.CodeBlock,
	}
	if len(blocks) != len(want) {
		t.Fatalf("got %d blocks, want %d", len(blocks), len(want))
	}
	for i, k := range want {
		if blocks[i].Kind != k {
			t.Errorf("block %d: kind = %v, want %v", i, blocks[i].Kind, k)
		}
	}
}

// TestParse_HeadingLevel checks that ATX heading depth is preserved.
func TestParse_HeadingLevel(t *testing.T) {
	blocks, err := doctree.Parse([]byte("### Sub\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 1 || blocks[0].Kind != doctree.Heading {
		t.Fatalf("expected a single heading block, got %+v", blocks)
	}
	if blocks[0].Level != 3 {
		t.Errorf("level = %d, want 3", blocks[0].Level)
	}
}

// TestParse_TaskListItem confirms checkbox state is recovered from a GFM
// task list item.
func TestParse_TaskListItem(t *testing.T) {
	blocks, err := doctree.Parse([]byte("- [ ] todo\n- [x] done\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 1 || blocks[0].Kind != doctree.List {
		t.Fatalf("expected a single list block, got %+v", blocks)
	}
	items := blocks[0].Children
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if !items[0].HasTask || items[0].Checked {
		t.Errorf("item 0: HasTask=%v Checked=%v, want HasTask=true Checked=false", items[0].HasTask, items[0].Checked)
	}
	if !items[1].HasTask || !items[1].Checked {
		t.Errorf("item 1: HasTask=%v Checked=%v, want HasTask=true Checked=true", items[1].HasTask, items[1].Checked)
	}
}

// TestParse_FootnoteReferenceRoundTrip guards against regressing to the
// goldmark resolution index: the reference's Text must be the original
// label, not the numeric Index goldmark assigns during resolution.
func TestParse_FootnoteReferenceRoundTrip(t *testing.T) {
	src := "See note[^alpha] and another[^beta].\n\n[^alpha]: First note.\n\n[^beta]: Second note.\n"
	blocks, err := doctree.Parse([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 3 {
		t.Fatalf("got %d blocks, want 3 (paragraph + 2 footnote definitions), got %+v", len(blocks), blocks)
	}

	para := blocks[0]
	var refs []string
	for _, in := range para.Inlines {
		if in.Kind == doctree.FootnoteReference {
			refs = append(refs, in.Text)
		}
	}
	if len(refs) != 2 || refs[0] != "alpha" || refs[1] != "beta" {
		t.Fatalf("footnote reference labels = %v, want [alpha beta]", refs)
	}

	if blocks[1].Kind != doctree.FootnoteDefinition || blocks[1].Label != "alpha" {
		t.Errorf("blocks[1] = %+v, want FootnoteDefinition labeled alpha", blocks[1])
	}
	if blocks[2].Kind != doctree.FootnoteDefinition || blocks[2].Label != "beta" {
		t.Errorf("blocks[2] = %+v, want FootnoteDefinition labeled beta", blocks[2])
	}
}

// TestParse_FootnoteReferenceRoundTrip_ReverseOrder exercises a document
// where the definitions are declared out of the order they're referenced,
// which is where goldmark's resolution Index diverges most sharply from the
// source label.
func TestParse_FootnoteReferenceRoundTrip_ReverseOrder(t *testing.T) {
	src := "First see[^z] then see[^a].\n\n[^a]: Defined first in source.\n\n[^z]: Defined second in source.\n"
	blocks, err := doctree.Parse([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	para := blocks[0]
	var refs []string
	for _, in := range para.Inlines {
		if in.Kind == doctree.FootnoteReference {
			refs = append(refs, in.Text)
		}
	}
	if len(refs) != 2 || refs[0] != "z" || refs[1] != "a" {
		t.Fatalf("footnote reference labels = %v, want [z a]", refs)
	}
}

// TestParse_FencedCodeBlockInfo confirms the fence info string and literal
// body survive parsing separately from indentation.
func TestParse_FencedCodeBlockInfo(t *testing.T) {
	blocks, err := doctree.Parse([]byte("```python\nprint(1)\n```\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 1 || blocks[0].Kind != doctree.CodeBlock {
		t.Fatalf("expected a single code block, got %+v", blocks)
	}
	if !blocks[0].Fenced {
		t.Error("expected Fenced = true")
	}
	if blocks[0].Info != "python" {
		t.Errorf("Info = %q, want python", blocks[0].Info)
	}
	if blocks[0].Literal != "print(1)\n" {
		t.Errorf("Literal = %q, want %q", blocks[0].Literal, "print(1)\n")
	}
}

// TestParse_Table confirms header/body rows and per-column alignment are
// captured.
func TestParse_Table(t *testing.T) {
	src := "| a | b |\n|:--|--:|\n| 1 | 2 |\n"
	blocks, err := doctree.Parse([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 1 || blocks[0].Kind != doctree.Table {
		t.Fatalf("expected a single table block, got %+v", blocks)
	}
	tbl := blocks[0]
	if len(tbl.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(tbl.Rows))
	}
	if tbl.Rows[0][0] != "a" || tbl.Rows[0][1] != "b" {
		t.Errorf("header row = %v", tbl.Rows[0])
	}
	if tbl.Rows[1][0] != "1" || tbl.Rows[1][1] != "2" {
		t.Errorf("body row = %v", tbl.Rows[1])
	}
	if tbl.Alignments[0] != "left" || tbl.Alignments[1] != "right" {
		t.Errorf("alignments = %v, want [left right]", tbl.Alignments)
	}
}
