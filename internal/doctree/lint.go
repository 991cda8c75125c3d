package doctree

import (
	"fmt"
	"regexp"
	"strings"
)

// Finding is one structural lint result (SPEC_FULL.md §C.3). Lint is
// read-only: it never mutates blocks and sits outside the transaction
// executor's atomicity contract entirely.
type Finding struct {
	Code    string
	Message string
}

const (
	FindingDuplicateHeading           = "duplicate-heading"
	FindingUnusedLinkDefinition       = "unused-link-definition"
	FindingUnresolvedFootnoteRef      = "unresolved-footnote-reference"
	FindingUnusedFootnoteDefinition   = "unused-footnote-definition"
)

// LintStructure runs the structural checks of SPEC_FULL.md §C.3 over the
// parsed body: duplicate heading text at the same level, link-reference
// definitions with no referencing link, and footnote references with no
// matching definition (or vice versa). body is the original source, used
// for the label-usage scan the resolved block tree alone cannot answer
// (goldmark resolves reference-style links into plain Link nodes, losing
// which label, if any, produced them).
//
// Grounded on cmd/doctor.go's scanEscapingBinderLinks (a raw-source regexp
// scan alongside the parsed tree, for checks the tree itself can't answer)
// and internal/node/doctor.go's RunDoctor (accumulate a flat diagnostic
// list, no early exit on the first finding).
func LintStructure(body []byte, blocks []*Block) []Finding {
	var findings []Finding
	findings = append(findings, duplicateHeadings(blocks)...)
	findings = append(findings, unusedLinkDefinitions(body, blocks)...)
	findings = append(findings, footnoteMismatches(blocks)...)
	return findings
}

func duplicateHeadings(blocks []*Block) []Finding {
	type key struct {
		level int
		text  string
	}
	seen := map[key]int{}
	var findings []Finding
	walkBlocks(blocks, func(b *Block) {
		if b.Kind != Heading {
			return
		}
		k := key{level: b.Level, text: ExtractText(b)}
		seen[k]++
		if seen[k] == 2 {
			findings = append(findings, Finding{
				Code:    FindingDuplicateHeading,
				Message: fmt.Sprintf("duplicate h%d heading text: %q", k.level, k.text),
			})
		}
	})
	return findings
}

// linkLabelUseRE matches a reference-style link or image use: [text][label],
// [text][], or the shorthand [label]. Best-effort, mirroring
// scanEscapingBinderLinks's regexp-over-raw-source approach rather than
// reconstructing goldmark's label-resolution internals.
var linkLabelUseRE = regexp.MustCompile(`\[[^\]]*\]\[([^\]]*)\]|\[([^\]]+)\]`)

func unusedLinkDefinitions(body []byte, blocks []*Block) []Finding {
	used := map[string]bool{}
	for _, m := range linkLabelUseRE.FindAllStringSubmatch(string(body), -1) {
		label := m[1]
		if label == "" {
			label = m[2]
		}
		used[normalizeLabel(label)] = true
	}

	var findings []Finding
	walkBlocks(blocks, func(b *Block) {
		if b.Kind != LinkDefinition {
			return
		}
		if !used[normalizeLabel(b.Label)] {
			findings = append(findings, Finding{
				Code:    FindingUnusedLinkDefinition,
				Message: fmt.Sprintf("link-reference definition %q is never referenced", b.Label),
			})
		}
	})
	return findings
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func footnoteMismatches(blocks []*Block) []Finding {
	defined := map[string]bool{}
	walkBlocks(blocks, func(b *Block) {
		if b.Kind == FootnoteDefinition {
			defined[b.Label] = true
		}
	})

	referenced := map[string]bool{}
	walkInlinesInBlocks(blocks, func(in Inline) {
		if in.Kind == FootnoteReference {
			referenced[in.Text] = true
		}
	})

	var findings []Finding
	for label := range referenced {
		if !defined[label] {
			findings = append(findings, Finding{
				Code:    FindingUnresolvedFootnoteRef,
				Message: fmt.Sprintf("footnote reference %q has no matching definition", label),
			})
		}
	}
	for label := range defined {
		if !referenced[label] {
			findings = append(findings, Finding{
				Code:    FindingUnusedFootnoteDefinition,
				Message: fmt.Sprintf("footnote definition %q is never referenced", label),
			})
		}
	}
	return findings
}

func walkBlocks(blocks []*Block, visit func(*Block)) {
	for _, b := range blocks {
		visit(b)
		walkBlocks(b.Children, visit)
	}
}

func walkInlinesInBlocks(blocks []*Block, visit func(Inline)) {
	walkBlocks(blocks, func(b *Block) {
		walkInlines(b.Inlines, visit)
	})
}

func walkInlines(inlines []Inline, visit func(Inline)) {
	for _, in := range inlines {
		visit(in)
		walkInlines(in.Children, visit)
	}
}
