package doctree_test

import (
	"testing"

	"github.com/ngirard/mdsplice/internal/doctree"
)

func mustParse(t *testing.T, src string) []*doctree.Block {
	t.Helper()
	blocks, err := doctree.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	return blocks
}

// TestLocate_ByTypeAndContains confirms a plain type+contains selector finds
// the first matching top-level block.
func TestLocate_ByTypeAndContains(t *testing.T) {
	blocks := mustParse(t, "# Intro\n\nBody one.\n\n## Details\n\nBody two.\n")
	sel := &doctree.Selector{Type: "heading", Contains: "Details"}
	found, ambiguous, err := doctree.Locate(blocks, sel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ambiguous {
		t.Error("expected no ambiguity")
	}
	if found.Kind != doctree.FoundBlock || found.BlockIndex != 2 {
		t.Errorf("found = %+v, want FoundBlock at index 2", found)
	}
}

// TestLocate_ContainsFallsBackCaseInsensitively confirms a `contains`
// selector that matches nothing case-sensitively retries case-insensitively
// before reporting NodeNotFound (SPEC_FULL.md §C.5's bare-stem fallback).
func TestLocate_ContainsFallsBackCaseInsensitively(t *testing.T) {
	blocks := mustParse(t, "# INTRODUCTION\n\nBody.\n")
	sel := &doctree.Selector{Type: "heading", Contains: "introduction"}
	found, ambiguous, err := doctree.Locate(blocks, sel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ambiguous {
		t.Error("expected no ambiguity")
	}
	if found.Kind != doctree.FoundBlock || found.BlockIndex != 0 {
		t.Errorf("found = %+v, want FoundBlock at index 0", found)
	}
}

// TestLocate_ContainsPrefersExactCaseMatch confirms the case-sensitive match
// wins outright when one exists, never falling back when it needn't.
func TestLocate_ContainsPrefersExactCaseMatch(t *testing.T) {
	blocks := mustParse(t, "# intro\n\nBody one.\n\n# INTRO\n\nBody two.\n")
	sel := &doctree.Selector{Type: "heading", Contains: "intro"}
	found, ambiguous, err := doctree.Locate(blocks, sel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ambiguous {
		t.Error("expected no ambiguity: the case-insensitive duplicate must not be counted")
	}
	if found.Kind != doctree.FoundBlock || found.BlockIndex != 0 {
		t.Errorf("found = %+v, want FoundBlock at index 0", found)
	}
}

// TestLocate_OrdinalTieBreak confirms the ordinal selects the Nth match in
// document order and flags ambiguity when more matches remain.
func TestLocate_OrdinalTieBreak(t *testing.T) {
	blocks := mustParse(t, "First para.\n\nSecond para.\n\nThird para.\n")
	sel := &doctree.Selector{Type: "paragraph", Ordinal: 2}
	found, ambiguous, err := doctree.Locate(blocks, sel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.BlockIndex != 1 {
		t.Errorf("BlockIndex = %d, want 1", found.BlockIndex)
	}
	if !ambiguous {
		t.Error("expected ambiguous = true since a third paragraph remains")
	}
}

// TestLocate_OrdinalOutOfRange confirms an ordinal beyond the match count
// fails with NodeNotFound.
func TestLocate_OrdinalOutOfRange(t *testing.T) {
	blocks := mustParse(t, "Only one paragraph.\n")
	sel := &doctree.Selector{Type: "paragraph", Ordinal: 2}
	_, _, err := doctree.Locate(blocks, sel)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !doctree.Is(err, doctree.KindNodeNotFound) {
		t.Errorf("expected KindNodeNotFound, got %v", err)
	}
}

// TestLocate_ConflictingScope confirms after and within together are
// rejected.
func TestLocate_ConflictingScope(t *testing.T) {
	blocks := mustParse(t, "# Heading\n\nBody.\n")
	sel := &doctree.Selector{
		Type:   "paragraph",
		After:  &doctree.Selector{Type: "heading"},
		Within: &doctree.Selector{Type: "heading"},
	}
	_, _, err := doctree.Locate(blocks, sel)
	if !doctree.Is(err, doctree.KindConflictingScope) {
		t.Errorf("expected KindConflictingScope, got %v", err)
	}
}

// TestLocate_WithinHeadingSection confirms `within` a heading restricts the
// search space to that heading's section (up to the next heading of equal
// or lesser level).
func TestLocate_WithinHeadingSection(t *testing.T) {
	blocks := mustParse(t, "# A\n\nIn A.\n\n# B\n\nIn B.\n")
	sel := &doctree.Selector{
		Type:   "paragraph",
		Within: &doctree.Selector{Type: "heading", Contains: "B"},
	}
	found, _, err := doctree.Locate(blocks, sel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.BlockIndex != 3 {
		t.Errorf("BlockIndex = %d, want 3 (the paragraph in section B)", found.BlockIndex)
	}
}

// TestLocate_AfterBlock confirms `after` restricts the search space to
// blocks following the landmark.
func TestLocate_AfterBlock(t *testing.T) {
	blocks := mustParse(t, "First.\n\nSecond.\n\nThird.\n")
	sel := &doctree.Selector{
		Type:  "paragraph",
		After: &doctree.Selector{Type: "paragraph", Contains: "Second"},
	}
	found, _, err := doctree.Locate(blocks, sel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.BlockIndex != 2 {
		t.Errorf("BlockIndex = %d, want 2", found.BlockIndex)
	}
}

// TestLocate_ListItemType confirms the li/item type token switches to
// item-mode candidates across all top-level lists.
func TestLocate_ListItemType(t *testing.T) {
	blocks := mustParse(t, "- alpha\n- beta\n- gamma\n")
	sel := &doctree.Selector{Type: "li", Contains: "beta"}
	found, _, err := doctree.Locate(blocks, sel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Kind != doctree.FoundListItem || found.BlockIndex != 0 || found.ItemIndex != 1 {
		t.Errorf("found = %+v, want FoundListItem{0,1}", found)
	}
}

// TestLocate_WithinList_ItemMode confirms within on a list landmark limits
// item-mode matches to that list's own items.
func TestLocate_WithinList_ItemMode(t *testing.T) {
	blocks := mustParse(t, "- one\n- two\n\nOther list:\n\n- x\n- y\n")
	sel := &doctree.Selector{
		Type:   "li",
		Within: &doctree.Selector{Type: "list", Ordinal: 1},
	}
	matches, err := doctree.LocateAll(blocks, sel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	for _, m := range matches {
		if m.BlockIndex != 0 {
			t.Errorf("match %+v should belong to the first list", m)
		}
	}
}

// TestLocateAll_GitHubAlertType confirms the alert type token matches
// blockquotes carrying a [!KIND] marker.
func TestLocateAll_GitHubAlertType(t *testing.T) {
	blocks := mustParse(t, "> [!WARNING]\n> careful\n\n> plain\n")
	matches, err := doctree.LocateAll(blocks, &doctree.Selector{Type: "alert"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 || matches[0].BlockIndex != 0 {
		t.Errorf("matches = %+v, want a single match at index 0", matches)
	}
}

// TestBlockAt covers all three FoundNode addressing modes.
func TestBlockAt(t *testing.T) {
	blocks := mustParse(t, "> quoted text\n\n- item one\n")
	container := doctree.FoundNode{Kind: doctree.FoundContainerChild, BlockIndex: 0, ItemIndex: 0}
	if got := doctree.BlockAt(blocks, container); got.Kind != doctree.Paragraph {
		t.Errorf("container child = %+v, want Paragraph", got)
	}
	item := doctree.FoundNode{Kind: doctree.FoundListItem, BlockIndex: 1, ItemIndex: 0}
	if got := doctree.BlockAt(blocks, item); got.Kind != doctree.ListItem {
		t.Errorf("list item = %+v, want ListItem", got)
	}
	block := doctree.FoundNode{Kind: doctree.FoundBlock, BlockIndex: 1}
	if got := doctree.BlockAt(blocks, block); got.Kind != doctree.List {
		t.Errorf("block = %+v, want List", got)
	}
}
