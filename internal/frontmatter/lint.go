package frontmatter

import "reflect"

// Finding is one frontmatter lint result (SPEC_FULL.md §C.3).
type Finding struct {
	Code    string
	Message string
}

const FindingRoundTripMismatch = "frontmatter-round-trip-mismatch"

// Lint checks that the store's value round-trips through its declared
// format: encode then decode should reproduce the same value tree. A
// mismatch usually means a value the format cannot represent losslessly
// (e.g. a TOML table key that collides with an array index after
// normalization). Read-only; never mutates s.
func Lint(s Store) []Finding {
	if !s.Present {
		return nil
	}

	text, err := s.Render()
	if err != nil {
		return []Finding{{Code: FindingRoundTripMismatch, Message: "frontmatter failed to serialize: " + err.Error()}}
	}

	reparsed, _, err := Detect([]byte(text))
	if err != nil {
		return []Finding{{Code: FindingRoundTripMismatch, Message: "frontmatter failed to re-parse after serializing: " + err.Error()}}
	}

	if !reparsed.Present && !isEmptyCollapse(s.Value) {
		return []Finding{{Code: FindingRoundTripMismatch, Message: "frontmatter vanished after a round trip"}}
	}
	if reparsed.Present && !reflect.DeepEqual(s.Value, reparsed.Value) {
		return []Finding{{Code: FindingRoundTripMismatch, Message: "frontmatter value changed after a round trip"}}
	}
	return nil
}
