package ops

import (
	"github.com/ngirard/mdsplice/internal/doctree"
	"github.com/ngirard/mdsplice/internal/frontmatter"
)

// Working is the transaction executor's mutable clone: the block tree plus
// the frontmatter store, the two halves a Document pairs together.
//
// New relative to the teacher: prosemark-go has no multi-operation
// transaction or alias concept — each CLI verb is a single standalone
// mutation. Built in the teacher's clone-before-mutate idiom
// (internal/binder/ops's "returns src unchanged on error" atomicity
// contract), generalized from "return unmodified bytes" to "discard the
// cloned tree".
type Working struct {
	Blocks      []*doctree.Block
	Frontmatter frontmatter.Store
}

// Clone deep-copies a Working value.
func (w Working) Clone() Working {
	return Working{
		Blocks:      doctree.CloneBlocks(w.Blocks),
		Frontmatter: w.Frontmatter.Clone(),
	}
}

type aliasRegistry map[string]*doctree.Selector

// Apply runs operations against a clone of working, committing the clone
// back only if every operation succeeds (spec §4.5). On error, working is
// returned unchanged.
func Apply(working Working, operations []doctree.Operation) (Working, doctree.Outcome, error) {
	clone := working.Clone()
	registry := aliasRegistry{}
	var outcome doctree.Outcome

	for i, op := range operations {
		ambiguous, err := applyOne(&clone, registry, op)
		if err != nil {
			return working, doctree.Outcome{}, doctree.WrapOperationFailed(i, err)
		}
		if ambiguous {
			outcome.AmbiguityDetected = true
		}
		if isFrontmatterOp(op.Kind) {
			outcome.FrontmatterMutated = true
		}
	}

	return clone, outcome, nil
}

func isFrontmatterOp(kind doctree.OperationKind) bool {
	switch kind {
	case doctree.OpSetFrontmatter, doctree.OpDeleteFrontmatter, doctree.OpReplaceFrontmatter:
		return true
	default:
		return false
	}
}

func applyOne(w *Working, registry aliasRegistry, op doctree.Operation) (ambiguous bool, err error) {
	switch op.Kind {
	case doctree.OpInsert:
		return applyInsert(w, registry, op)
	case doctree.OpReplace:
		return applyReplace(w, registry, op)
	case doctree.OpDelete:
		return applyDelete(w, registry, op)
	case doctree.OpSetFrontmatter:
		return false, applySetFrontmatter(w, op)
	case doctree.OpDeleteFrontmatter:
		return false, w.Frontmatter.Delete(op.Key)
	case doctree.OpReplaceFrontmatter:
		return false, applyReplaceFrontmatter(w, op)
	default:
		return false, doctree.NewError(doctree.KindNoContent, "unknown operation kind")
	}
}

func applySetFrontmatter(w *Working, op doctree.Operation) error {
	if op.Format != "" {
		if !w.Frontmatter.Present {
			w.Frontmatter.Present = true
			w.Frontmatter.Format = frontmatter.Format(op.Format)
		}
	}
	return w.Frontmatter.Set(op.Key, op.Value)
}

func applyReplaceFrontmatter(w *Working, op doctree.Operation) error {
	format := w.Frontmatter.Format
	if op.Format != "" {
		format = frontmatter.Format(op.Format)
	} else if format == "" {
		format = frontmatter.YAML
	}
	w.Frontmatter = frontmatter.Store{
		Present: true,
		Format:  format,
		Value:   op.Value,
	}
	return nil
}

func applyInsert(w *Working, registry aliasRegistry, op doctree.Operation) (bool, error) {
	sel, err := resolveSelectorHandle(op.Selector, registry, "")
	if err != nil {
		return false, err
	}
	if err := registerAlias(registry, sel); err != nil {
		return false, err
	}

	target, ambiguous, err := doctree.Locate(w.Blocks, sel)
	if err != nil {
		return false, err
	}

	newBlocks, err := parseOperationContent(op.Content)
	if err != nil {
		return false, err
	}

	position := op.Position

	switch target.Kind {
	case doctree.FoundBlock:
		switch position {
		case doctree.PrependChild, doctree.AppendChild:
			w.Blocks, err = InsertChild(w.Blocks, target.BlockIndex, newBlocks, position == doctree.PrependChild)
		default:
			w.Blocks = InsertBlock(w.Blocks, target.BlockIndex, newBlocks, position)
		}

	case doctree.FoundListItem, doctree.FoundContainerChild:
		owner := w.Blocks[target.BlockIndex]
		switch position {
		case doctree.PrependChild, doctree.AppendChild:
			err = InsertChildInto(owner.Children[target.ItemIndex], newBlocks, position == doctree.PrependChild)
		default:
			if target.Kind == doctree.FoundListItem {
				items, herr := HarvestListContent(newBlocks)
				if herr != nil {
					err = herr
					break
				}
				InsertListItem(w.Blocks, target.BlockIndex, target.ItemIndex, items, position)
			} else {
				owner.Children = InsertBlock(owner.Children, target.ItemIndex, newBlocks, position)
			}
		}
	}
	return ambiguous, err
}

func applyReplace(w *Working, registry aliasRegistry, op doctree.Operation) (bool, error) {
	sel, err := resolveSelectorHandle(op.Selector, registry, "")
	if err != nil {
		return false, err
	}
	if err := registerAlias(registry, sel); err != nil {
		return false, err
	}

	target, ambiguous, err := doctree.Locate(w.Blocks, sel)
	if err != nil {
		return false, err
	}

	newBlocks, err := parseOperationContent(op.Content)
	if err != nil {
		return false, err
	}

	if op.Until != nil {
		if target.Kind != doctree.FoundBlock {
			return false, doctree.NewError(doctree.KindRangeRequiresBlock, "until requires a block target")
		}
		endIdx, untilAmbig, err := resolveUntilEnd(w.Blocks, registry, op.Until, target.BlockIndex)
		if err != nil {
			return false, err
		}
		w.Blocks = ReplaceRange(w.Blocks, target.BlockIndex, endIdx, newBlocks)
		return ambiguous || untilAmbig, nil
	}

	switch target.Kind {
	case doctree.FoundBlock:
		w.Blocks = ReplaceBlock(w.Blocks, target.BlockIndex, newBlocks)
	case doctree.FoundListItem:
		items, err := HarvestListContent(newBlocks)
		if err != nil {
			return false, err
		}
		ReplaceListItem(w.Blocks, target.BlockIndex, target.ItemIndex, items)
	case doctree.FoundContainerChild:
		owner := w.Blocks[target.BlockIndex]
		owner.Children = ReplaceBlock(owner.Children, target.ItemIndex, newBlocks)
	}
	return ambiguous, nil
}

func applyDelete(w *Working, registry aliasRegistry, op doctree.Operation) (bool, error) {
	sel, err := resolveSelectorHandle(op.Selector, registry, "")
	if err != nil {
		return false, err
	}
	if err := registerAlias(registry, sel); err != nil {
		return false, err
	}

	target, ambiguous, err := doctree.Locate(w.Blocks, sel)
	if err != nil {
		return false, err
	}

	if op.Until != nil {
		if target.Kind != doctree.FoundBlock {
			return false, doctree.NewError(doctree.KindRangeRequiresBlock, "until requires a block target")
		}
		endIdx, untilAmbig, err := resolveUntilEnd(w.Blocks, registry, op.Until, target.BlockIndex)
		if err != nil {
			return false, err
		}
		w.Blocks = DeleteRange(w.Blocks, target.BlockIndex, endIdx)
		return ambiguous || untilAmbig, nil
	}

	if op.Section {
		if target.Kind != doctree.FoundBlock {
			return false, doctree.NewError(doctree.KindSectionRequiresHeading, "section delete requires a top-level heading target")
		}
		w.Blocks, err = DeleteSection(w.Blocks, target.BlockIndex)
		return ambiguous, err
	}

	switch target.Kind {
	case doctree.FoundBlock:
		w.Blocks = DeleteBlock(w.Blocks, target.BlockIndex)
	case doctree.FoundListItem:
		if empty := DeleteListItem(w.Blocks, target.BlockIndex, target.ItemIndex); empty {
			w.Blocks = DeleteBlock(w.Blocks, target.BlockIndex)
		}
	case doctree.FoundContainerChild:
		owner := w.Blocks[target.BlockIndex]
		owner.Children = DeleteBlock(owner.Children, target.ItemIndex)
	}
	return ambiguous, nil
}

// resolveUntilEnd locates the until handle's endpoint, restricted to matches
// strictly after startIdx (spec §4.5c's "second search that begins strictly
// after the start node"), returning len(blocks) (range-to-end-of-document)
// if nothing matches past startIdx.
func resolveUntilEnd(blocks []*doctree.Block, registry aliasRegistry, until *doctree.SelectorHandle, startIdx int) (int, bool, error) {
	sel, err := resolveSelectorHandle(*until, registry, "until")
	if err != nil {
		return 0, false, err
	}
	return ResolveUntilRange(blocks, sel, startIdx)
}

// ResolveUntilRange resolves an already-resolved until selector to an
// exclusive end index for a range starting at startIdx, restricted to
// matches strictly after startIdx (spec §4.5c's "second search that begins
// strictly after the start node"). Returns len(blocks) (range extends to
// end-of-document) if nothing matches past startIdx. Exported so
// internal/document's read-only get(selector, until) can share this logic
// without going through the transaction executor's alias registry.
func ResolveUntilRange(blocks []*doctree.Block, untilSel *doctree.Selector, startIdx int) (int, bool, error) {
	matches, err := doctree.LocateAll(blocks, untilSel)
	if err != nil {
		return 0, false, err
	}
	var after []doctree.FoundNode
	for _, m := range matches {
		if m.Kind == doctree.FoundBlock && m.BlockIndex > startIdx {
			after = append(after, m)
		}
	}
	if len(after) == 0 {
		return len(blocks), false, nil
	}
	ordinal := untilSel.EffectiveOrdinal()
	if ordinal > len(after) {
		return len(blocks), false, nil
	}
	return after[ordinal-1].BlockIndex, len(after) > ordinal, nil
}

func parseOperationContent(content string) ([]*doctree.Block, error) {
	if content == "" {
		return nil, doctree.NewError(doctree.KindNoContent, "operation requires content")
	}
	return doctree.Parse([]byte(content))
}

func registerAlias(registry aliasRegistry, sel *doctree.Selector) error {
	if sel.Alias == "" {
		return nil
	}
	if _, exists := registry[sel.Alias]; exists {
		return &doctree.Error{Kind: doctree.KindSelectorAliasAlreadyDefined, Index: -1, Msg: "alias already defined: " + sel.Alias}
	}
	registry[sel.Alias] = sel
	return nil
}

// resolveSelectorHandle resolves a SelectorHandle to a fully-resolved
// Selector (its own after/within/refs resolved recursively), per spec
// §4.5a. op names the nested position ("after"/"within"/"until") for error
// attachment, or "" at the operation's own top level.
func resolveSelectorHandle(h doctree.SelectorHandle, registry aliasRegistry, op string) (*doctree.Selector, error) {
	if h.Inline != nil && h.Ref != "" {
		return nil, ambiguousSource(op)
	}
	if h.Ref != "" {
		sel, ok := registry[h.Ref]
		if !ok {
			return nil, &doctree.Error{Kind: doctree.KindSelectorAliasNotDefined, Op: op, Index: -1, Msg: "alias not defined: " + h.Ref}
		}
		return sel, nil
	}
	if h.Inline == nil {
		return nil, ambiguousSource(op)
	}
	return resolveSelector(h.Inline, registry)
}

func ambiguousSource(op string) *doctree.Error {
	if op == "" {
		return &doctree.Error{Kind: doctree.KindAmbiguousSelectorSource, Index: -1, Msg: "exactly one of selector/selector_ref must be set"}
	}
	return &doctree.Error{Kind: doctree.KindAmbiguousNestedSelectorSource, Op: op, Index: -1, Msg: "exactly one of " + op + "/" + op + "_ref must be set"}
}

func resolveSelector(sel *doctree.Selector, registry aliasRegistry) (*doctree.Selector, error) {
	resolved := *sel

	if sel.After != nil && sel.AfterRef != "" {
		return nil, ambiguousSource("after")
	}
	if sel.Within != nil && sel.WithinRef != "" {
		return nil, ambiguousSource("within")
	}

	switch {
	case sel.AfterRef != "":
		after, ok := registry[sel.AfterRef]
		if !ok {
			return nil, &doctree.Error{Kind: doctree.KindSelectorAliasNotDefined, Op: "after", Index: -1, Msg: "alias not defined: " + sel.AfterRef}
		}
		resolved.After = after
	case sel.After != nil:
		after, err := resolveSelector(sel.After, registry)
		if err != nil {
			return nil, err
		}
		resolved.After = after
	}

	switch {
	case sel.WithinRef != "":
		within, ok := registry[sel.WithinRef]
		if !ok {
			return nil, &doctree.Error{Kind: doctree.KindSelectorAliasNotDefined, Op: "within", Index: -1, Msg: "alias not defined: " + sel.WithinRef}
		}
		resolved.Within = within
	case sel.Within != nil:
		within, err := resolveSelector(sel.Within, registry)
		if err != nil {
			return nil, err
		}
		resolved.Within = within
	}

	return &resolved, nil
}
