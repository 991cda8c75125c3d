// Package document implements the public façade (spec.md §4.6): parse, render,
// apply, preview, get, and frontmatter access over a single in-memory Markdown
// document, combining internal/doctree, internal/doctree/ops, and
// internal/frontmatter the way prosemark-go's cmd package combines binder +
// ops + node, but as a library API rather than only a CLI surface.
package document

import (
	"github.com/ngirard/mdsplice/internal/doctree"
	"github.com/ngirard/mdsplice/internal/doctree/ops"
	"github.com/ngirard/mdsplice/internal/frontmatter"
)

// Document holds a parsed Markdown document: its frontmatter store and its
// block tree. A Document has exclusive ownership of both (spec §5); nothing
// else holds a reference into working.Blocks.
type Document struct {
	working ops.Working

	// body is the original post-frontmatter source, kept for Lint's
	// raw-text link-label-usage scan (doctree.LintStructure). It is a
	// snapshot from Parse time; edits applied afterward are not reflected
	// in it, matching Lint's role as a pre-edit structural check rather
	// than a live invariant.
	body []byte
}

// Parse splits src into frontmatter and body, then parses each half. Failure
// on either yields FrontmatterParseError or MarkdownParseError.
func Parse(src []byte) (*Document, error) {
	store, body, err := frontmatter.Detect(src)
	if err != nil {
		return nil, doctree.NewError(doctree.KindFrontmatterParseError, "%v", err)
	}

	blocks, err := doctree.Parse(body)
	if err != nil {
		return nil, doctree.NewError(doctree.KindMarkdownParseError, "%v", err)
	}

	return &Document{working: ops.Working{Blocks: blocks, Frontmatter: store}, body: body}, nil
}

// Lint runs the structural and frontmatter checks of SPEC_FULL.md §C.3.
// Read-only: it never mutates the document and sits outside the transaction
// executor's atomicity contract entirely.
func (d *Document) Lint() ([]doctree.Finding, []frontmatter.Finding) {
	return doctree.LintStructure(d.body, d.working.Blocks), frontmatter.Lint(d.working.Frontmatter)
}

// Render serializes the document's frontmatter (if present and non-empty)
// followed by the body (spec §6.3).
func (d *Document) Render() (string, error) {
	return renderWorking(d.working)
}

func renderWorking(w ops.Working) (string, error) {
	fm, err := w.Frontmatter.Render()
	if err != nil {
		return "", doctree.NewError(doctree.KindFrontmatterSerializeError, "%v", err)
	}
	return fm + doctree.Render(w.Blocks), nil
}

// Apply runs operations against the document's own tree, committing the
// result only if every operation succeeds (spec §4.5). On error the document
// is left byte-identical to its pre-call state.
func (d *Document) Apply(operations []doctree.Operation) (doctree.Outcome, error) {
	next, outcome, err := ops.Apply(d.working, operations)
	if err != nil {
		return doctree.Outcome{}, err
	}
	d.working = next
	return outcome, nil
}

// Preview runs operations against a clone and renders the result without
// ever mutating the document (spec §4.6).
func (d *Document) Preview(operations []doctree.Operation) (string, error) {
	next, _, err := ops.Apply(d.working, operations)
	if err != nil {
		return "", err
	}
	return renderWorking(next)
}

// GetOptions controls Document.Get's read-only extraction.
type GetOptions struct {
	// Section requires sel to resolve to a top-level heading and extends the
	// extraction to that heading's whole section. Mutually satisfiable with
	// Until, in which case Until's range wins (spec §4.6).
	Section bool
	// Until, if set, extends the extraction from sel's match up to (but not
	// including) Until's match, found by a second search beginning strictly
	// after the start node (spec §4.5c). Only valid when sel resolves to a
	// top-level block; RangeRequiresBlock otherwise.
	Until *doctree.Selector
}

// Get renders the subtree matched by sel (spec §4.6). section=true requires
// a heading target; combined with Until, the range wins. Until on a
// list-item or container-child target is RangeRequiresBlock.
func (d *Document) Get(sel *doctree.Selector, opts GetOptions) (string, error) {
	blocks := d.working.Blocks

	target, _, err := doctree.Locate(blocks, sel)
	if err != nil {
		return "", err
	}

	if opts.Until != nil {
		if target.Kind != doctree.FoundBlock {
			return "", doctree.NewError(doctree.KindRangeRequiresBlock, "until requires a top-level block target")
		}
		end, _, err := ops.ResolveUntilRange(blocks, opts.Until, target.BlockIndex)
		if err != nil {
			return "", err
		}
		return doctree.Render(blocks[target.BlockIndex:end]), nil
	}

	if opts.Section {
		if target.Kind != doctree.FoundBlock {
			return "", doctree.NewError(doctree.KindSectionRequiresHeading, "section requires a top-level heading target")
		}
		end, err := ops.SectionEnd(blocks, target.BlockIndex)
		if err != nil {
			return "", err
		}
		return doctree.Render(blocks[target.BlockIndex:end]), nil
	}

	return doctree.Render([]*doctree.Block{doctree.BlockAt(blocks, target)}), nil
}

// GetAll renders every node sel matches, in document order (spec §4.6's
// select_all=true), ignoring sel's ordinal (doctree.LocateAll's contract).
// section/until compound a single range around one match and so apply only
// to Get, not GetAll.
func (d *Document) GetAll(sel *doctree.Selector) ([]string, error) {
	blocks := d.working.Blocks

	matches, err := doctree.LocateAll(blocks, sel)
	if err != nil {
		return nil, err
	}

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = doctree.Render([]*doctree.Block{doctree.BlockAt(blocks, m)})
	}
	return out, nil
}

// Frontmatter returns the document's frontmatter value, or (nil, false) if
// none is present.
func (d *Document) Frontmatter() (interface{}, bool) {
	if !d.working.Frontmatter.Present {
		return nil, false
	}
	return d.working.Frontmatter.Value, true
}

// FrontmatterFormat returns the document's frontmatter delimiter style, or
// ("", false) if none is present.
func (d *Document) FrontmatterFormat() (frontmatter.Format, bool) {
	if !d.working.Frontmatter.Present {
		return "", false
	}
	return d.working.Frontmatter.Format, true
}
