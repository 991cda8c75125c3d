package doctree

import "fmt"

// Kind is a closed taxonomy of engine error kinds (spec §7). Unlike
// prosemark-go's open string Diagnostic.Code ("BNDE001", "OPE001", ...), Kind
// is a Go type so callers can switch over it exhaustively with errors.As.
type Kind string

const (
	KindMarkdownParseError   Kind = "MarkdownParseError"
	KindFrontmatterParseError Kind = "FrontmatterParseError"

	KindNodeNotFound     Kind = "NodeNotFound"
	KindInvalidRegex     Kind = "InvalidRegex"
	KindConflictingScope Kind = "ConflictingScope"
	KindRangeRequiresBlock Kind = "RangeRequiresBlock"

	KindSelectorAliasNotDefined      Kind = "SelectorAliasNotDefined"
	KindSelectorAliasAlreadyDefined  Kind = "SelectorAliasAlreadyDefined"
	KindAmbiguousSelectorSource      Kind = "AmbiguousSelectorSource"
	KindAmbiguousNestedSelectorSource Kind = "AmbiguousNestedSelectorSource"

	KindInvalidChildInsertion  Kind = "InvalidChildInsertion"
	KindInvalidListItemContent Kind = "InvalidListItemContent"
	KindSectionRequiresHeading Kind = "SectionRequiresHeading"

	KindNoContent           Kind = "NoContent"
	KindAmbiguousContentSource Kind = "AmbiguousContentSource"

	KindFrontmatterMissing        Kind = "FrontmatterMissing"
	KindFrontmatterKeyNotFound    Kind = "FrontmatterKeyNotFound"
	KindFrontmatterSerializeError Kind = "FrontmatterSerializeError"

	KindOperationFailed Kind = "OperationFailed"
	KindIoError         Kind = "IoError"
)

// Error is the engine's single error type. Op names the nested-selector
// position ("after", "within", "until") for KindAmbiguousNestedSelectorSource,
// or is empty for kinds that don't need it. Index is the 0-based operation
// index, attached by the transaction executor (spec §7: "per-operation
// context attached at the executor level").
type Error struct {
	Kind  Kind
	Op    string
	Index int // -1 if not attached to a specific operation
	Err   error
	Msg   string
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Op)
	}
	if e.Kind == KindOperationFailed {
		return fmt.Sprintf("operation %d failed: %s", e.Index, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether err (or anything it wraps) carries the given Kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			if e.Kind == kind {
				return true
			}
			err = e.Err
			continue
		}
		break
	}
	return false
}

// NewError constructs an *Error of the given kind with a formatted message.
func NewError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Index: -1, Msg: fmt.Sprintf(format, args...)}
}

// WrapOperationFailed attaches the 0-based operation index to err, per spec
// §7's OperationFailed wrapper.
func WrapOperationFailed(index int, err error) *Error {
	return &Error{Kind: KindOperationFailed, Index: index, Err: err}
}
