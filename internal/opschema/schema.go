// Package opschema decodes a transaction's wire representation (JSON or
// YAML, autodetected) into the engine's []doctree.Operation, validating the
// mutual-exclusion rules of selector/selector_ref, until/until_ref and
// content/content_file. after/after_ref and within/within_ref are carried
// through as decoded; the executor rejects a conflicting pair when it
// resolves the selector.
//
// Grounded on cmd/root.go's project-JSON decode pattern
// (json.Unmarshal(projectBytes, &proj)), generalized to autodetect YAML via
// the first non-whitespace byte. Libraries: encoding/json (stdlib — the
// schema is a closed Go struct, no ecosystem JSON library adds value here)
// and gopkg.in/yaml.v3.
package opschema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ngirard/mdsplice/internal/doctree"
	"github.com/ngirard/mdsplice/internal/frontmatter"
)

// Selector is the wire shape of a selector, decoded before resolution into
// doctree.Selector.
type Selector struct {
	Type     string    `json:"select_type,omitempty" yaml:"select_type,omitempty"`
	Contains string    `json:"select_contains,omitempty" yaml:"select_contains,omitempty"`
	Regex    string    `json:"select_regex,omitempty" yaml:"select_regex,omitempty"`
	Ordinal  int       `json:"select_ordinal,omitempty" yaml:"select_ordinal,omitempty"`
	After    *Selector `json:"after,omitempty" yaml:"after,omitempty"`
	AfterRef string    `json:"after_ref,omitempty" yaml:"after_ref,omitempty"`
	Within   *Selector `json:"within,omitempty" yaml:"within,omitempty"`
	WithinRef string   `json:"within_ref,omitempty" yaml:"within_ref,omitempty"`
	Alias    string    `json:"alias,omitempty" yaml:"alias,omitempty"`
}

// toDoctree converts a wire Selector to the engine's doctree.Selector,
// recursively converting After/Within. Ref fields are carried through
// unresolved; alias resolution happens at the executor.
func (s *Selector) toDoctree() *doctree.Selector {
	if s == nil {
		return nil
	}
	sel := &doctree.Selector{
		Type:      s.Type,
		Contains:  s.Contains,
		Regex:     s.Regex,
		Ordinal:   s.Ordinal,
		Alias:     s.Alias,
		AfterRef:  s.AfterRef,
		WithinRef: s.WithinRef,
	}
	sel.After = s.After.toDoctree()
	sel.Within = s.Within.toDoctree()
	return sel
}

// SelectorHandle is the wire shape of a selector | selector_ref pair.
type SelectorHandle struct {
	Selector    *Selector `json:"selector,omitempty" yaml:"selector,omitempty"`
	SelectorRef string    `json:"selector_ref,omitempty" yaml:"selector_ref,omitempty"`
}

func (h SelectorHandle) toDoctree() doctree.SelectorHandle {
	return doctree.SelectorHandle{Inline: h.Selector.toDoctree(), Ref: h.SelectorRef}
}

func (h SelectorHandle) validate(opLabel string) error {
	if h.Selector != nil && h.SelectorRef != "" {
		return doctree.NewError(doctree.KindAmbiguousSelectorSource, "%s: selector and selector_ref are mutually exclusive", opLabel)
	}
	if h.Selector == nil && h.SelectorRef == "" {
		return doctree.NewError(doctree.KindAmbiguousSelectorSource, "%s: one of selector/selector_ref is required", opLabel)
	}
	return nil
}

// rawOperation is the wire shape of one transaction entry; fields are a
// superset across all op kinds, validated per op in toOperation.
type rawOperation struct {
	Op string `json:"op" yaml:"op"`

	SelectorHandle `yaml:",inline"`

	Content     string `json:"content,omitempty" yaml:"content,omitempty"`
	ContentFile string `json:"content_file,omitempty" yaml:"content_file,omitempty"`

	Position string `json:"position,omitempty" yaml:"position,omitempty"`

	Until    *Selector `json:"until,omitempty" yaml:"until,omitempty"`
	UntilRef string    `json:"until_ref,omitempty" yaml:"until_ref,omitempty"`

	Section bool `json:"section,omitempty" yaml:"section,omitempty"`

	Key       string      `json:"key,omitempty" yaml:"key,omitempty"`
	Value     interface{} `json:"value,omitempty" yaml:"value,omitempty"`
	ValueFile string      `json:"value_file,omitempty" yaml:"value_file,omitempty"`

	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// DecodeSelector parses a standalone selector object (JSON or YAML,
// autodetected), for callers like cmd/get.go that need a single selector
// outside of a transaction's alias scope.
func DecodeSelector(src []byte) (*doctree.Selector, error) {
	var s Selector
	if err := unmarshalAuto(src, &s); err != nil {
		return nil, doctree.NewError(doctree.KindIoError, "decode selector: %v", err)
	}
	return s.toDoctree(), nil
}

// ContentLoader resolves content vs content_file for callers outside the
// engine (the CLI), which must read content_file from disk or stdin before
// handing a plain string to the core — the core never does file I/O itself
// (spec §5).
type ContentLoader func(path string) (string, error)

// Decode parses raw transaction bytes (JSON or YAML, autodetected from the
// first non-whitespace byte) into operations, resolving content_file/
// value_file via load when non-nil.
func Decode(src []byte, load ContentLoader) ([]doctree.Operation, error) {
	var raws []rawOperation
	if err := unmarshalAuto(src, &raws); err != nil {
		return nil, doctree.NewError(doctree.KindIoError, "decode transaction: %v", err)
	}

	ops := make([]doctree.Operation, 0, len(raws))
	for _, r := range raws {
		op, err := toOperation(r, load)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func unmarshalAuto(src []byte, v interface{}) error {
	trimmed := bytes.TrimLeft(src, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return json.Unmarshal(src, v)
	}
	return yaml.Unmarshal(src, v)
}

func toOperation(r rawOperation, load ContentLoader) (doctree.Operation, error) {
	switch r.Op {
	case "insert":
		return toInsert(r, load)
	case "replace":
		return toReplace(r, load)
	case "delete":
		return toDelete(r)
	case "set_frontmatter":
		return toSetFrontmatter(r, load)
	case "delete_frontmatter":
		return doctree.Operation{Kind: doctree.OpDeleteFrontmatter, Key: r.Key}, nil
	case "replace_frontmatter":
		return toReplaceFrontmatter(r, load)
	default:
		return doctree.Operation{}, doctree.NewError(doctree.KindNoContent, "unknown operation %q", r.Op)
	}
}

func resolveContent(content, contentFile string, load ContentLoader) (string, error) {
	if content != "" && contentFile != "" {
		return "", doctree.NewError(doctree.KindAmbiguousContentSource, "content and content_file are mutually exclusive")
	}
	if content != "" {
		return content, nil
	}
	if contentFile != "" {
		if load == nil {
			return "", doctree.NewError(doctree.KindNoContent, "content_file given but no loader configured")
		}
		return load(contentFile)
	}
	return "", doctree.NewError(doctree.KindNoContent, "operation requires content or content_file")
}

func toUntilHandle(r rawOperation) (*doctree.SelectorHandle, error) {
	if r.Until == nil && r.UntilRef == "" {
		return nil, nil
	}
	if r.Until != nil && r.UntilRef != "" {
		return nil, doctree.NewError(doctree.KindAmbiguousNestedSelectorSource, "until and until_ref are mutually exclusive")
	}
	h := doctree.SelectorHandle{Inline: r.Until.toDoctree(), Ref: r.UntilRef}
	return &h, nil
}

func toInsert(r rawOperation, load ContentLoader) (doctree.Operation, error) {
	if err := r.SelectorHandle.validate("insert"); err != nil {
		return doctree.Operation{}, err
	}
	content, err := resolveContent(r.Content, r.ContentFile, load)
	if err != nil {
		return doctree.Operation{}, err
	}
	position, err := parsePosition(r.Position)
	if err != nil {
		return doctree.Operation{}, err
	}
	return doctree.Operation{
		Kind:     doctree.OpInsert,
		Selector: r.SelectorHandle.toDoctree(),
		Content:  content,
		Position: position,
	}, nil
}

func toReplace(r rawOperation, load ContentLoader) (doctree.Operation, error) {
	if err := r.SelectorHandle.validate("replace"); err != nil {
		return doctree.Operation{}, err
	}
	content, err := resolveContent(r.Content, r.ContentFile, load)
	if err != nil {
		return doctree.Operation{}, err
	}
	until, err := toUntilHandle(r)
	if err != nil {
		return doctree.Operation{}, err
	}
	return doctree.Operation{
		Kind:     doctree.OpReplace,
		Selector: r.SelectorHandle.toDoctree(),
		Content:  content,
		Until:    until,
	}, nil
}

func toDelete(r rawOperation) (doctree.Operation, error) {
	if err := r.SelectorHandle.validate("delete"); err != nil {
		return doctree.Operation{}, err
	}
	until, err := toUntilHandle(r)
	if err != nil {
		return doctree.Operation{}, err
	}
	return doctree.Operation{
		Kind:     doctree.OpDelete,
		Selector: r.SelectorHandle.toDoctree(),
		Section:  r.Section,
		Until:    until,
	}, nil
}

func toSetFrontmatter(r rawOperation, load ContentLoader) (doctree.Operation, error) {
	value, err := resolveValue(r, load)
	if err != nil {
		return doctree.Operation{}, err
	}
	return doctree.Operation{
		Kind:   doctree.OpSetFrontmatter,
		Key:    r.Key,
		Value:  value,
		Format: r.Format,
	}, nil
}

// toReplaceFrontmatter decodes the operation's content (a full serialized
// frontmatter body, not a delimiter-wrapped block) via the requested format
// (default YAML), per spec §6.2's "replace_frontmatter: content |
// content_file, optional format".
func toReplaceFrontmatter(r rawOperation, load ContentLoader) (doctree.Operation, error) {
	content, err := resolveContent(r.Content, r.ContentFile, load)
	if err != nil {
		return doctree.Operation{}, err
	}
	format := frontmatter.Format(r.Format)
	if format == "" {
		format = frontmatter.YAML
	}
	value, err := frontmatter.DecodeValue([]byte(content), format)
	if err != nil {
		return doctree.Operation{}, doctree.NewError(doctree.KindFrontmatterParseError, "decode replace_frontmatter content: %v", err)
	}
	return doctree.Operation{
		Kind:   doctree.OpReplaceFrontmatter,
		Value:  value,
		Format: string(format),
	}, nil
}

func resolveValue(r rawOperation, load ContentLoader) (interface{}, error) {
	if r.Value != nil && r.ValueFile != "" {
		return nil, doctree.NewError(doctree.KindAmbiguousContentSource, "value and value_file are mutually exclusive")
	}
	if r.ValueFile != "" {
		if load == nil {
			return nil, doctree.NewError(doctree.KindNoContent, "value_file given but no loader configured")
		}
		raw, err := load(r.ValueFile)
		if err != nil {
			return nil, err
		}
		var v interface{}
		if err := unmarshalAuto([]byte(raw), &v); err != nil {
			return nil, doctree.NewError(doctree.KindFrontmatterParseError, "decode value_file: %v", err)
		}
		return v, nil
	}
	if r.Value == nil {
		return nil, doctree.NewError(doctree.KindNoContent, "operation requires value or value_file")
	}
	return normalizeJSONValue(r.Value), nil
}

// normalizeJSONValue converts encoding/json's map[string]interface{} (always
// string-keyed, already aligned) and float64-for-all-numbers decoding into
// the same shape yaml.v3 produces, so frontmatter writes look identical
// regardless of which wire format carried them.
func normalizeJSONValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, e := range val {
			out[k] = normalizeJSONValue(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, e := range val {
			out[i] = normalizeJSONValue(e)
		}
		return out
	case float64:
		if val == float64(int(val)) {
			return int(val)
		}
		return val
	default:
		return v
	}
}

func parsePosition(s string) (doctree.Position, error) {
	switch s {
	case "", "after":
		return doctree.After, nil
	case "before":
		return doctree.Before, nil
	case "prepend_child":
		return doctree.PrependChild, nil
	case "append_child":
		return doctree.AppendChild, nil
	default:
		return 0, fmt.Errorf("unknown insert position %q", s)
	}
}
