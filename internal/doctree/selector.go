package doctree

import (
	"regexp"
	"strings"
)

// candidate is one addressable node produced while enumerating a search
// space, paired with the block it actually points at (for predicate
// matching).
type candidate struct {
	node  FoundNode
	block *Block
}

// itemType reports whether token selects list-items rather than blocks.
func itemType(token string) bool {
	switch strings.ToLower(token) {
	case "li", "item", "listitem":
		return true
	default:
		return false
	}
}

// blockMatchesType reports whether b matches the block-mode type token.
// Grounded on prosemark-go's nodeMatchesSelector, generalized from binder
// node fields to the Markdown type vocabulary of spec §6.1.
func blockMatchesType(b *Block, token string) bool {
	if token == "" {
		return true
	}
	t := strings.ToLower(token)
	switch t {
	case "p", "paragraph":
		return b.Kind == Paragraph
	case "heading":
		return b.Kind == Heading
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return b.Kind == Heading && b.Level == int(t[1]-'0')
	case "list":
		return b.Kind == List
	case "table":
		return b.Kind == Table
	case "blockquote":
		return b.Kind == Blockquote
	case "code", "codeblock":
		return b.Kind == CodeBlock
	case "html", "htmlblock":
		return b.Kind == HTMLBlock
	case "thematicbreak":
		return b.Kind == ThematicBreak
	case "definition":
		return b.Kind == LinkDefinition
	case "footnotedefinition":
		return b.Kind == FootnoteDefinition
	case "githubalert", "alert":
		_, ok := IsGitHubAlert(b)
		return ok
	case "note", "tip", "important", "warning", "caution":
		kind, ok := IsGitHubAlert(b)
		return ok && kind == t
	default:
		if strings.HasPrefix(t, "alert-") {
			kind, ok := IsGitHubAlert(b)
			return ok && kind == strings.TrimPrefix(t, "alert-")
		}
		return false
	}
}

// matchesPredicate is the AND of type/contains/regex (spec §4.2). typeToken
// is ignored for item-mode candidates (the li/item/listitem token already
// selected list-item candidates; no further type constraint applies).
// foldCase retries the contains predicate case-insensitively, the bare-stem
// fallback of SPEC_FULL.md §C.5.
func matchesPredicate(b *Block, sel *Selector, inItemMode bool, foldCase bool) (bool, error) {
	if !inItemMode && sel.Type != "" {
		if !blockMatchesType(b, sel.Type) {
			return false, nil
		}
	}
	text := ExtractText(b)
	if sel.Contains != "" {
		contains := strings.Contains(text, sel.Contains)
		if !contains && foldCase {
			contains = strings.Contains(strings.ToLower(text), strings.ToLower(sel.Contains))
		}
		if !contains {
			return false, nil
		}
	}
	if sel.Regex != "" {
		re, err := regexp.Compile(sel.Regex)
		if err != nil {
			return false, NewError(KindInvalidRegex, "invalid regex %q: %v", sel.Regex, err)
		}
		if !re.MatchString(text) {
			return false, nil
		}
	}
	return true, nil
}

// flattenItems enumerates every item of every top-level List block, in
// document order (spec §4.2's tie-breaking rule, restricted to top-level
// lists per DESIGN.md's Open Question decision).
func flattenItems(blocks []*Block) []candidate {
	var out []candidate
	for listIdx, b := range blocks {
		if b.Kind != List {
			continue
		}
		for itemIdx, item := range b.Children {
			out = append(out, candidate{
				node:  FoundNode{Kind: FoundListItem, BlockIndex: listIdx, ItemIndex: itemIdx},
				block: item,
			})
		}
	}
	return out
}

// allBlocks enumerates every top-level block as a FoundBlock candidate.
func allBlocks(blocks []*Block) []candidate {
	out := make([]candidate, len(blocks))
	for i, b := range blocks {
		out[i] = candidate{node: FoundNode{Kind: FoundBlock, BlockIndex: i}, block: b}
	}
	return out
}

// containerChildren enumerates the inner blocks of a Blockquote or
// FootnoteDefinition top-level block as FoundContainerChild candidates.
func containerChildren(blocks []*Block, containerIdx int) []candidate {
	c := blocks[containerIdx]
	out := make([]candidate, len(c.Children))
	for i, child := range c.Children {
		out[i] = candidate{
			node:  FoundNode{Kind: FoundContainerChild, BlockIndex: containerIdx, ItemIndex: i},
			block: child,
		}
	}
	return out
}

// headingSectionEnd returns the index (exclusive) where the section started
// by the heading at blocks[headingIdx] ends: the next heading with level <=
// this one's, or len(blocks).
func headingSectionEnd(blocks []*Block, headingIdx int) int {
	level := blocks[headingIdx].Level
	for i := headingIdx + 1; i < len(blocks); i++ {
		if blocks[i].Kind == Heading && blocks[i].Level <= level {
			return i
		}
	}
	return len(blocks)
}

// resolveScope computes the ordered candidate search space for sel, honoring
// After/Within (mutually exclusive; both set is ConflictingScope).
func resolveScope(blocks []*Block, sel *Selector, inItemMode bool) ([]candidate, error) {
	if sel.After != nil && sel.Within != nil {
		return nil, NewError(KindConflictingScope, "selector has both after and within")
	}

	if sel.Within != nil {
		return resolveWithinScope(blocks, sel.Within, inItemMode)
	}
	if sel.After != nil {
		return resolveAfterScope(blocks, sel.After, inItemMode)
	}

	if inItemMode {
		return flattenItems(blocks), nil
	}
	return allBlocks(blocks), nil
}

func resolveWithinScope(blocks []*Block, within *Selector, inItemMode bool) ([]candidate, error) {
	landmark, _, err := Locate(blocks, within)
	if err != nil {
		return nil, err
	}
	landmarkBlock := BlockAt(blocks, landmark)

	switch {
	case landmark.Kind == FoundBlock && landmarkBlock.Kind == Heading:
		if inItemMode {
			// within a heading for an item-mode target: items of any
			// top-level lists inside the section.
			end := headingSectionEnd(blocks, landmark.BlockIndex)
			var out []candidate
			for _, c := range flattenItems(blocks) {
				if c.node.BlockIndex > landmark.BlockIndex && c.node.BlockIndex < end {
					out = append(out, c)
				}
			}
			return out, nil
		}
		end := headingSectionEnd(blocks, landmark.BlockIndex)
		return allBlocks(blocks)[landmark.BlockIndex+1 : end], nil

	case landmarkBlock.Kind == Blockquote || landmarkBlock.Kind == FootnoteDefinition:
		if inItemMode {
			// Items of a list nested inside a blockquote/footnote-definition
			// are not independently addressable (DESIGN.md Open Questions).
			return nil, nil
		}
		if landmark.Kind != FoundBlock {
			return nil, nil
		}
		return containerChildren(blocks, landmark.BlockIndex), nil

	case landmarkBlock.Kind == List && inItemMode:
		if landmark.Kind != FoundBlock {
			return nil, nil
		}
		var out []candidate
		for _, c := range flattenItems(blocks) {
			if c.node.BlockIndex == landmark.BlockIndex {
				out = append(out, c)
			}
		}
		return out, nil

	default:
		// Any other landmark is an invalid `within` target: no matches.
		return nil, nil
	}
}

func resolveAfterScope(blocks []*Block, after *Selector, inItemMode bool) ([]candidate, error) {
	landmark, _, err := Locate(blocks, after)
	if err != nil {
		return nil, err
	}

	if !inItemMode {
		switch landmark.Kind {
		case FoundBlock:
			return allBlocks(blocks)[landmark.BlockIndex+1:], nil
		case FoundListItem, FoundContainerChild:
			return allBlocks(blocks)[landmark.BlockIndex+1:], nil
		}
	}

	// Item-mode target.
	items := flattenItems(blocks)
	switch landmark.Kind {
	case FoundListItem:
		var out []candidate
		for _, c := range items {
			if c.node.BlockIndex == landmark.BlockIndex && c.node.ItemIndex > landmark.ItemIndex {
				out = append(out, c)
			} else if c.node.BlockIndex > landmark.BlockIndex {
				out = append(out, c)
			}
		}
		return out, nil
	default:
		var out []candidate
		for _, c := range items {
			if c.node.BlockIndex > landmark.BlockIndex {
				out = append(out, c)
			}
		}
		return out, nil
	}
}

// BlockAt resolves the Block a FoundNode addresses.
func BlockAt(blocks []*Block, n FoundNode) *Block {
	switch n.Kind {
	case FoundBlock:
		return blocks[n.BlockIndex]
	case FoundListItem:
		return blocks[n.BlockIndex].Children[n.ItemIndex]
	case FoundContainerChild:
		return blocks[n.BlockIndex].Children[n.ItemIndex]
	default:
		return nil
	}
}

// LocateAll returns every match for sel in document order, ignoring ordinal
// (spec §4.2). A `contains` predicate that matches nothing case-sensitively
// is retried case-insensitively before giving up (SPEC_FULL.md §C.5's
// bare-stem/title fallback), so the matching order never introduces a new
// observable error or outcome beyond the standard ambiguity flag.
func LocateAll(blocks []*Block, sel *Selector) ([]FoundNode, error) {
	inItemMode := itemType(sel.Type)

	space, err := resolveScope(blocks, sel, inItemMode)
	if err != nil {
		return nil, err
	}

	out, err := locateAllIn(space, sel, inItemMode, false)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 && sel.Contains != "" {
		return locateAllIn(space, sel, inItemMode, true)
	}
	return out, nil
}

func locateAllIn(space []candidate, sel *Selector, inItemMode, foldCase bool) ([]FoundNode, error) {
	var out []FoundNode
	for _, c := range space {
		ok, err := matchesPredicate(c.block, sel, inItemMode, foldCase)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, c.node)
		}
	}
	return out, nil
}

// Locate returns the sel.Ordinal-th match (1-based) and an ambiguity flag
// that is true iff more matches exist than the ordinal implies (spec §4.2).
// Fails with NodeNotFound if the ordinal exceeds the match count or a
// referenced landmark cannot be resolved.
func Locate(blocks []*Block, sel *Selector) (FoundNode, bool, error) {
	matches, err := LocateAll(blocks, sel)
	if err != nil {
		return FoundNode{}, false, err
	}
	ordinal := sel.EffectiveOrdinal()
	if ordinal > len(matches) {
		return FoundNode{}, false, NewError(KindNodeNotFound,
			"selector matched %d node(s); ordinal %d out of range", len(matches), ordinal)
	}
	ambiguous := len(matches) > ordinal
	return matches[ordinal-1], ambiguous, nil
}
