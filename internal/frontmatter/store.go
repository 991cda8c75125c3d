// Package frontmatter holds the frontmatter subsystem: detection, parsing,
// re-serialization, and dotted/indexed path read-write over a generic
// YAML-shaped value tree shared by YAML and TOML frontmatter blocks.
package frontmatter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ngirard/mdsplice/internal/doctree"
)

// Format names the two frontmatter delimiter styles.
type Format string

const (
	YAML Format = "yaml"
	TOML Format = "toml"
)

// yamlDelimRE and tomlDelimRE match a complete frontmatter block at the start
// of a document. The closing delimiter must appear unindented, on a line by
// itself, mirroring prosemark-go's frontmatterRE approach of locating the
// boundary with a single anchored regex rather than a line-by-line scanner.
// The content between the delimiters may be empty.
var (
	yamlDelimRE = regexp.MustCompile(`(?s)^---\r?\n((?:.*?\r?\n)?)---\r?\n`)
	tomlDelimRE = regexp.MustCompile(`(?s)^\+\+\+\r?\n((?:.*?\r?\n)?)\+\+\+\r?\n`)
)

// Store holds a parsed frontmatter value plus enough of the original framing
// to re-emit it in its original format.
type Store struct {
	Present         bool
	Format          Format
	Value           interface{}
	BodyStartOffset int
}

// Clone deep-copies the value tree so the transaction executor's
// clone-on-entry atomicity holds for frontmatter mutations too: Set/Delete
// mutate maps and slices in place, so a shallow copy would let a discarded
// clone's edits leak back into the original.
func (s Store) Clone() Store {
	s.Value = cloneValue(s.Value)
	return s
}

func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, e := range val {
			out[k] = cloneValue(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, e := range val {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Detect splits src into a Store and the remaining body bytes. Present is
// false (and body == src) when src does not begin with a recognized
// delimiter line.
func Detect(src []byte) (Store, []byte, error) {
	if loc := yamlDelimRE.FindSubmatchIndex(src); loc != nil {
		return decode(src, loc, YAML)
	}
	if loc := tomlDelimRE.FindSubmatchIndex(src); loc != nil {
		return decode(src, loc, TOML)
	}
	return Store{}, src, nil
}

func decode(src []byte, loc []int, format Format) (Store, []byte, error) {
	inner := src[loc[2]:loc[3]]
	body := src[loc[1]:]

	value, err := decodeValue(inner, format)
	if err != nil {
		return Store{}, nil, fmt.Errorf("parse %s frontmatter: %w", format, err)
	}
	if value == nil {
		value = map[string]interface{}{}
	}
	return Store{
		Present:         true,
		Format:          format,
		Value:           value,
		BodyStartOffset: loc[1],
	}, body, nil
}

// DecodeValue parses src as a bare value (no delimiter lines) in the given
// format. Used by opschema to decode a replace_frontmatter operation's
// content into the engine's generic value tree ahead of execution.
func DecodeValue(src []byte, format Format) (interface{}, error) {
	return decodeValue(src, format)
}

func decodeValue(src []byte, format Format) (interface{}, error) {
	switch format {
	case YAML:
		var v interface{}
		if err := yaml.Unmarshal(src, &v); err != nil {
			return nil, err
		}
		return v, nil
	case TOML:
		return decodeTOML(src)
	default:
		return nil, fmt.Errorf("unknown frontmatter format %q", format)
	}
}

// Render serializes the store's delimiter + value back to text, or "" if the
// store is absent or its value collapses to an empty mapping/sequence (spec
// §3's empty-frontmatter-collapse invariant).
func (s Store) Render() (string, error) {
	if !s.Present || isEmptyCollapse(s.Value) {
		return "", nil
	}
	switch s.Format {
	case YAML:
		out, err := yaml.Marshal(s.Value)
		if err != nil {
			return "", fmt.Errorf("serialize frontmatter: %w", err)
		}
		return "---\n" + string(out) + "---\n", nil
	case TOML:
		out, err := encodeTOML(s.Value)
		if err != nil {
			return "", fmt.Errorf("serialize frontmatter: %w", err)
		}
		return "+++\n" + out + "+++\n", nil
	default:
		return "", fmt.Errorf("unknown frontmatter format %q", s.Format)
	}
}

func isEmptyCollapse(v interface{}) bool {
	switch m := v.(type) {
	case map[string]interface{}:
		return len(m) == 0
	case []interface{}:
		return len(m) == 0
	default:
		return false
	}
}

// segment is one dotted/indexed path component: either a mapping key or an
// array index (Index >= 0).
type segment struct {
	key   string
	index int // -1 when this segment is a key
}

// parsePath splits a dotted path with optional [N]/name[N] index segments
// into its components (spec §4.4).
func parsePath(path string) ([]segment, error) {
	var segs []segment
	for _, raw := range strings.Split(path, ".") {
		name, idx, hasIdx, err := splitIndex(raw)
		if err != nil {
			return nil, err
		}
		if name != "" {
			segs = append(segs, segment{key: name, index: -1})
		}
		if hasIdx {
			segs = append(segs, segment{index: idx})
		}
	}
	return segs, nil
}

// splitIndex parses a single path component of the form "name", "name[N]",
// or "[N]".
func splitIndex(raw string) (name string, idx int, hasIdx bool, err error) {
	open := strings.IndexByte(raw, '[')
	if open < 0 {
		return raw, 0, false, nil
	}
	if !strings.HasSuffix(raw, "]") {
		return "", 0, false, fmt.Errorf("malformed index segment %q", raw)
	}
	name = raw[:open]
	idxStr := raw[open+1 : len(raw)-1]
	n, perr := strconv.Atoi(idxStr)
	if perr != nil || n < 0 {
		return "", 0, false, fmt.Errorf("malformed index segment %q", raw)
	}
	return name, n, true, nil
}

// Get reads the value at path, or (nil, false) if the path does not exist.
func (s Store) Get(path string) (interface{}, bool, error) {
	segs, err := parsePath(path)
	if err != nil {
		return nil, false, err
	}
	cur := s.Value
	for _, seg := range segs {
		var ok bool
		cur, ok = step(cur, seg)
		if !ok {
			return nil, false, nil
		}
	}
	return cur, true, nil
}

func step(cur interface{}, seg segment) (interface{}, bool) {
	if seg.index >= 0 {
		arr, ok := cur.([]interface{})
		if !ok || seg.index >= len(arr) {
			return nil, false
		}
		return arr[seg.index], true
	}
	m, ok := cur.(map[string]interface{})
	if !ok {
		return nil, false
	}
	v, ok := m[seg.key]
	return v, ok
}

// Set writes value at path, creating intermediate mappings on demand.
// Writing to an array index requires the index to be in-bounds or equal to
// the current length (append).
func (s *Store) Set(path string, value interface{}) error {
	segs, err := parsePath(path)
	if err != nil {
		return err
	}
	if len(segs) == 0 {
		return fmt.Errorf("empty frontmatter path")
	}
	if !s.Present {
		s.Present = true
		s.Format = YAML
		s.Value = map[string]interface{}{}
	}
	root, err := setAt(s.Value, segs, value)
	if err != nil {
		return err
	}
	s.Value = root
	return nil
}

func setAt(cur interface{}, segs []segment, value interface{}) (interface{}, error) {
	seg := segs[0]
	rest := segs[1:]

	if seg.index >= 0 {
		arr, _ := cur.([]interface{})
		if seg.index > len(arr) {
			return nil, fmt.Errorf("index %d out of bounds (len %d)", seg.index, len(arr))
		}
		if len(rest) == 0 {
			if seg.index == len(arr) {
				return append(arr, value), nil
			}
			arr[seg.index] = value
			return arr, nil
		}
		var child interface{}
		if seg.index < len(arr) {
			child = arr[seg.index]
		}
		updated, err := setAt(child, rest, value)
		if err != nil {
			return nil, err
		}
		if seg.index == len(arr) {
			return append(arr, updated), nil
		}
		arr[seg.index] = updated
		return arr, nil
	}

	m, ok := cur.(map[string]interface{})
	if !ok {
		m = map[string]interface{}{}
	}
	if len(rest) == 0 {
		m[seg.key] = value
		return m, nil
	}
	child, ok := m[seg.key]
	if !ok {
		if rest[0].index >= 0 {
			child = []interface{}{}
		} else {
			child = map[string]interface{}{}
		}
	}
	updated, err := setAt(child, rest, value)
	if err != nil {
		return nil, err
	}
	m[seg.key] = updated
	return m, nil
}

// Delete removes the value at path, failing with a KindFrontmatterKeyNotFound
// error if it does not exist.
func (s *Store) Delete(path string) error {
	segs, err := parsePath(path)
	if err != nil {
		return err
	}
	if len(segs) == 0 {
		return fmt.Errorf("empty frontmatter path")
	}
	root, deleted, err := deleteAt(s.Value, segs)
	if err != nil {
		return err
	}
	if !deleted {
		return doctree.NewError(doctree.KindFrontmatterKeyNotFound, "frontmatter key not found: %s", path)
	}
	s.Value = root
	return nil
}

func deleteAt(cur interface{}, segs []segment) (interface{}, bool, error) {
	seg := segs[0]
	rest := segs[1:]

	if seg.index >= 0 {
		arr, ok := cur.([]interface{})
		if !ok || seg.index >= len(arr) {
			return cur, false, nil
		}
		if len(rest) == 0 {
			return append(arr[:seg.index], arr[seg.index+1:]...), true, nil
		}
		updated, deleted, err := deleteAt(arr[seg.index], rest)
		if err != nil || !deleted {
			return cur, deleted, err
		}
		arr[seg.index] = updated
		return arr, true, nil
	}

	m, ok := cur.(map[string]interface{})
	if !ok {
		return cur, false, nil
	}
	child, exists := m[seg.key]
	if !exists {
		return cur, false, nil
	}
	if len(rest) == 0 {
		delete(m, seg.key)
		return m, true, nil
	}
	updated, deleted, err := deleteAt(child, rest)
	if err != nil || !deleted {
		return cur, deleted, err
	}
	m[seg.key] = updated
	return m, true, nil
}
