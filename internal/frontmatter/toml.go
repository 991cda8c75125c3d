package frontmatter

import (
	"bytes"
	"errors"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// decodeTOML parses TOML source into the same generic map[string]interface{}
// / []interface{} shape yaml.v3 produces, so the rest of the store never
// needs to know which format a document used.
func decodeTOML(src []byte) (interface{}, error) {
	var raw map[string]interface{}
	if err := toml.Unmarshal(src, &raw); err != nil {
		return nil, err
	}
	return normalizeTOML(raw), nil
}

// normalizeTOML walks a decoded TOML value and converts time.Time (go-toml's
// native representation for TOML datetimes) to RFC 3339 strings, keeping the
// value model's scalar set aligned with YAML's (spec §3: "TOML values are
// converted to/from YAML values losslessly for maps/sequences/scalars").
func normalizeTOML(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, e := range val {
			out[k] = normalizeTOML(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, e := range val {
			out[i] = normalizeTOML(e)
		}
		return out
	case time.Time:
		return val.Format(time.RFC3339)
	case int64:
		return int(val)
	default:
		return v
	}
}

// encodeTOML serializes a generic YAML-shaped value as TOML. go-toml/v2
// requires a top-level table, matching frontmatter's mapping-rooted value
// model.
func encodeTOML(v interface{}) (string, error) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return "", errors.New("TOML frontmatter value must be a mapping at its root")
	}
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(m); err != nil {
		return "", err
	}
	return buf.String(), nil
}
