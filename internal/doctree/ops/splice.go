// Package ops implements the splicer primitives that mutate an owned block
// sequence, and the transaction executor that sequences a list of operations
// against a cloned document.
package ops

import (
	"github.com/ngirard/mdsplice/internal/doctree"
)

// ReplaceBlock removes the block at i and inserts newBlocks in its place.
//
// Grounded on prosemark-go's deleteRemoveRange/moveRebuildDocument
// slice-splicing shape, generalized from line-index splicing to
// block-index splicing.
func ReplaceBlock(blocks []*doctree.Block, i int, newBlocks []*doctree.Block) []*doctree.Block {
	out := make([]*doctree.Block, 0, len(blocks)-1+len(newBlocks))
	out = append(out, blocks[:i]...)
	out = append(out, newBlocks...)
	out = append(out, blocks[i+1:]...)
	return out
}

// InsertBlock inserts newBlocks relative to i according to position. Only
// Before/After are valid here; PrependChild/AppendChild are handled by
// InsertChild, since they target a container's own inner-block sequence
// rather than the top-level slice.
func InsertBlock(blocks []*doctree.Block, i int, newBlocks []*doctree.Block, position doctree.Position) []*doctree.Block {
	at := i
	if position == doctree.After {
		at = i + 1
	}
	out := make([]*doctree.Block, 0, len(blocks)+len(newBlocks))
	out = append(out, blocks[:at]...)
	out = append(out, newBlocks...)
	out = append(out, blocks[at:]...)
	return out
}

// DeleteBlock removes the block at i.
func DeleteBlock(blocks []*doctree.Block, i int) []*doctree.Block {
	return DeleteRange(blocks, i, i+1)
}

// DeleteRange removes blocks[start:end). end=-1 extends to end-of-document.
func DeleteRange(blocks []*doctree.Block, start, end int) []*doctree.Block {
	if end < 0 {
		end = len(blocks)
	}
	out := make([]*doctree.Block, 0, len(blocks)-(end-start))
	out = append(out, blocks[:start]...)
	out = append(out, blocks[end:]...)
	return out
}

// ReplaceRange removes blocks[start:end) and inserts newBlocks at start.
func ReplaceRange(blocks []*doctree.Block, start, end int, newBlocks []*doctree.Block) []*doctree.Block {
	if end < 0 {
		end = len(blocks)
	}
	out := make([]*doctree.Block, 0, len(blocks)-(end-start)+len(newBlocks))
	out = append(out, blocks[:start]...)
	out = append(out, newBlocks...)
	out = append(out, blocks[end:]...)
	return out
}

// SectionEnd returns the exclusive end index of the heading section starting
// at blocks[i]: the next heading with level <= blocks[i].Level, or
// len(blocks). Returns an error if blocks[i] is not a heading.
func SectionEnd(blocks []*doctree.Block, i int) (int, error) {
	if blocks[i].Kind != doctree.Heading {
		return 0, doctree.NewError(doctree.KindSectionRequiresHeading, "delete_section requires a heading, got %s", blocks[i].Kind)
	}
	level := blocks[i].Level
	for j := i + 1; j < len(blocks); j++ {
		if blocks[j].Kind == doctree.Heading && blocks[j].Level <= level {
			return j, nil
		}
	}
	return len(blocks), nil
}

// DeleteSection removes the heading section starting at blocks[i].
func DeleteSection(blocks []*doctree.Block, i int) ([]*doctree.Block, error) {
	end, err := SectionEnd(blocks, i)
	if err != nil {
		return nil, err
	}
	return DeleteRange(blocks, i, end), nil
}

// InsertChild implements the PrependChild/AppendChild container rules of
// spec §4.3: headings are semantic containers whose children are the blocks
// of their section; blockquotes, list-items, and footnote definitions are
// true containers whose own Children slice receives the insertion; lists
// require newBlocks to harvest to exactly one list of matching kind, whose
// items are merged at the head or tail; anything else is
// InvalidChildInsertion.
func InsertChild(blocks []*doctree.Block, i int, newBlocks []*doctree.Block, prepend bool) ([]*doctree.Block, error) {
	target := blocks[i]
	if target.Kind == doctree.Heading {
		if prepend {
			return InsertBlock(blocks, i+1, newBlocks, doctree.Before), nil
		}
		end, err := SectionEnd(blocks, i)
		if err != nil {
			return nil, err
		}
		return InsertBlock(blocks, end, newBlocks, doctree.Before), nil
	}
	if err := InsertChildInto(target, newBlocks, prepend); err != nil {
		return nil, err
	}
	return blocks, nil
}

// InsertChildInto applies the true-container / list PrependChild/AppendChild
// rule (spec §4.3's rules 2-4) directly to target, for callers that address
// the container by pointer rather than by a top-level block index — e.g. a
// list-item or blockquote/footnote-definition child located via
// doctree.FoundListItem/FoundContainerChild, which have no top-level index of
// their own. Heading's section-based rule only applies to top-level headings
// and is handled by InsertChild, not here.
func InsertChildInto(target *doctree.Block, newBlocks []*doctree.Block, prepend bool) error {
	switch target.Kind {
	case doctree.Blockquote, doctree.FootnoteDefinition, doctree.ListItem:
		target.Children = insertChildren(target.Children, newBlocks, prepend)
		return nil

	case doctree.List:
		items, err := harvestListItems(newBlocks, target.Ordered)
		if err != nil {
			return err
		}
		target.Children = insertChildren(target.Children, items, prepend)
		return nil

	default:
		return doctree.NewError(doctree.KindInvalidChildInsertion, "cannot insert a child into a %s", target.Kind)
	}
}

func insertChildren(children []*doctree.Block, newChildren []*doctree.Block, prepend bool) []*doctree.Block {
	if prepend {
		out := make([]*doctree.Block, 0, len(children)+len(newChildren))
		out = append(out, newChildren...)
		out = append(out, children...)
		return out
	}
	out := make([]*doctree.Block, 0, len(children)+len(newChildren))
	out = append(out, children...)
	out = append(out, newChildren...)
	return out
}

// harvestListItems requires newBlocks to be exactly one List block of the
// given orderedness, and returns its items.
func harvestListItems(newBlocks []*doctree.Block, ordered bool) ([]*doctree.Block, error) {
	if len(newBlocks) != 1 || newBlocks[0].Kind != doctree.List {
		return nil, doctree.NewError(doctree.KindInvalidListItemContent, "content for a list child must be exactly one list")
	}
	list := newBlocks[0]
	if list.Ordered != ordered {
		return nil, doctree.NewError(doctree.KindInvalidListItemContent, "content list kind does not match target list")
	}
	return list.Children, nil
}

// ReplaceListItem replaces the item at (blockIndex, itemIndex) of the list at
// blocks[blockIndex] with newItems (harvested from a single-list content
// parse by the caller).
func ReplaceListItem(blocks []*doctree.Block, blockIndex, itemIndex int, newItems []*doctree.Block) {
	list := blocks[blockIndex]
	out := make([]*doctree.Block, 0, len(list.Children)-1+len(newItems))
	out = append(out, list.Children[:itemIndex]...)
	out = append(out, newItems...)
	out = append(out, list.Children[itemIndex+1:]...)
	list.Children = out
}

// InsertListItem inserts newItems relative to itemIndex within the list at
// blocks[blockIndex].
func InsertListItem(blocks []*doctree.Block, blockIndex, itemIndex int, newItems []*doctree.Block, position doctree.Position) {
	list := blocks[blockIndex]
	at := itemIndex
	if position == doctree.After {
		at = itemIndex + 1
	}
	out := make([]*doctree.Block, 0, len(list.Children)+len(newItems))
	out = append(out, list.Children[:at]...)
	out = append(out, newItems...)
	out = append(out, list.Children[at:]...)
	list.Children = out
}

// DeleteListItem removes the item at itemIndex from the list at
// blocks[blockIndex] and reports whether the list became empty (the caller
// is responsible for then removing the parent list block — spec §8's "list
// cleanup" invariant).
func DeleteListItem(blocks []*doctree.Block, blockIndex, itemIndex int) (becameEmpty bool) {
	list := blocks[blockIndex]
	list.Children = append(list.Children[:itemIndex], list.Children[itemIndex+1:]...)
	return len(list.Children) == 0
}

// HarvestListContent parses raw Markdown content for a list-item primitive
// and extracts its items, failing with InvalidListItemContent if content
// does not parse to exactly one list.
func HarvestListContent(content []*doctree.Block) ([]*doctree.Block, error) {
	if len(content) != 1 || content[0].Kind != doctree.List {
		return nil, doctree.NewError(doctree.KindInvalidListItemContent, "list-item content must parse as a single list")
	}
	return content[0].Children, nil
}
