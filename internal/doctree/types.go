// Package doctree holds the in-memory block tree for a Markdown document: the
// tagged-union block/inline types, the selector model, the locator, the text
// extractor, and the goldmark-backed parse/render adapters.
package doctree

// BlockKind discriminates the tagged union of block-level nodes.
type BlockKind int

const (
	Paragraph BlockKind = iota
	Heading
	ThematicBreak
	Blockquote
	List
	ListItem
	CodeBlock
	HTMLBlock
	LinkDefinition
	Table
	FootnoteDefinition
)

// String names a BlockKind for diagnostics and tests.
func (k BlockKind) String() string {
	switch k {
	case Paragraph:
		return "paragraph"
	case Heading:
		return "heading"
	case ThematicBreak:
		return "thematicbreak"
	case Blockquote:
		return "blockquote"
	case List:
		return "list"
	case ListItem:
		return "listitem"
	case CodeBlock:
		return "code"
	case HTMLBlock:
		return "html"
	case LinkDefinition:
		return "definition"
	case Table:
		return "table"
	case FootnoteDefinition:
		return "footnotedefinition"
	default:
		return "unknown"
	}
}

// Block is a single node of the block tree. Fields are interpreted according
// to Kind; a Block never carries fields from more than one kind's set at once.
// The Document that owns a []Block has exclusive ownership: no two Blocks
// (or their Children) alias the same *Block value.
type Block struct {
	Kind BlockKind

	// Heading
	Level int // 1..6

	// List
	Ordered  bool
	StartNum int // ordered-list starting number
	Tight    bool

	// ListItem
	HasTask bool // true if this item carries a task-list checkbox
	Checked bool // valid only when HasTask

	// CodeBlock
	Fenced bool
	Info   string // fence info string, e.g. "go"

	// Literal text content: CodeBlock body, HTMLBlock raw markup.
	Literal string

	// LinkDefinition / FootnoteDefinition
	Label       string
	Destination string
	Title       string

	// Table
	Rows       [][]string
	Alignments []string

	// Children holds nested blocks: List's ListItem children, Blockquote's and
	// FootnoteDefinition's and ListItem's inner blocks.
	Children []*Block

	// Inlines holds the inline content of Paragraph and Heading blocks.
	Inlines []Inline
}

// InlineKind discriminates the tagged union of inline nodes.
type InlineKind int

const (
	Text InlineKind = iota
	CodeSpan
	Emphasis
	Strong
	Strikethrough
	Link
	Image
	Autolink
	FootnoteReference
	LineBreak
)

// Inline is a single span-level node.
type Inline struct {
	Kind InlineKind

	// Text / CodeSpan / Autolink literal, or FootnoteReference's label.
	Text string

	// Emphasis / Strong / Strikethrough / Link / Image content.
	Children []Inline

	// Link / Image
	Destination string
	Title       string
}

// Position is the relative placement of an Insert operation.
type Position int

const (
	Before Position = iota
	After
	PrependChild
	AppendChild
)

// FoundNodeKind discriminates what a FoundNode addresses.
type FoundNodeKind int

const (
	// FoundBlock addresses a top-level block by index.
	FoundBlock FoundNodeKind = iota
	// FoundListItem addresses an item of a top-level List block: BlockIndex
	// is the enclosing list's top-level index, ItemIndex its position among
	// the list's own items (spec §3's ListItem{block_index, item_index}).
	FoundListItem
	// FoundContainerChild addresses a child of a top-level Blockquote or
	// FootnoteDefinition block: BlockIndex is the container's top-level
	// index, ItemIndex the child's position within the container's own
	// inner-block sequence. This is one deliberate level of nesting beyond
	// spec §3's two literal FoundNode variants, needed to make `within` on a
	// blockquote/footnote-definition landmark (spec §4.2) locate a specific
	// inner block rather than only the container as a whole; see DESIGN.md's
	// Open Question decisions for the scope limit this implies (no deeper
	// chaining, and list-item addressing never descends into nested lists).
	FoundContainerChild
)

// FoundNode is the locator's result: an index into the top-level block slice,
// a (list block index, item index) pair, or a (container block index, child
// index) pair. FoundNode is request-scoped: it becomes invalid the instant
// the tree it was resolved against is mutated.
type FoundNode struct {
	Kind       FoundNodeKind
	BlockIndex int
	ItemIndex  int // valid when Kind == FoundListItem or FoundContainerChild
}

// Selector is a deeply-immutable description of how to find a node.
type Selector struct {
	Type     string
	Contains string
	Regex    string
	Ordinal  int // 1-based; 0 means "unset", callers should default to 1

	After *Selector
	Within *Selector

	Alias string

	SelectorRef string
	AfterRef    string
	WithinRef   string
}

// EffectiveOrdinal returns the selector's ordinal, defaulting to 1.
func (s *Selector) EffectiveOrdinal() int {
	if s == nil || s.Ordinal <= 0 {
		return 1
	}
	return s.Ordinal
}

// SelectorHandle is either an inline Selector or a reference to a previously
// defined alias; exactly one must be set.
type SelectorHandle struct {
	Inline *Selector
	Ref    string
}

// IsZero reports whether neither Inline nor Ref is set.
func (h SelectorHandle) IsZero() bool {
	return h.Inline == nil && h.Ref == ""
}

// OperationKind discriminates the tagged union of transaction operations.
type OperationKind int

const (
	OpInsert OperationKind = iota
	OpReplace
	OpDelete
	OpSetFrontmatter
	OpDeleteFrontmatter
	OpReplaceFrontmatter
)

// Operation is one entry of a transaction, after JSON/YAML decoding but
// before selector-handle resolution.
type Operation struct {
	Kind OperationKind

	Selector SelectorHandle
	Until    *SelectorHandle // Replace/Delete only

	Content string // Markdown source (Insert/Replace); frontmatter ops use Value
	Position Position // Insert only; default After

	Section bool // Delete only

	Key    string      // SetFrontmatter/DeleteFrontmatter
	Value  interface{} // SetFrontmatter/ReplaceFrontmatter, a generic YAML-shaped value
	Format string      // SetFrontmatter/ReplaceFrontmatter: "" | "yaml" | "toml"
}

// Outcome is the result of a successful transaction.
type Outcome struct {
	AmbiguityDetected  bool
	FrontmatterMutated bool
}
