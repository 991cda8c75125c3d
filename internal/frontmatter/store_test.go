package frontmatter_test

import (
	"testing"

	"github.com/ngirard/mdsplice/internal/frontmatter"
)

// TestDetect_YAML confirms a leading "---" block is parsed as YAML and the
// remaining body is returned unchanged.
func TestDetect_YAML(t *testing.T) {
	src := "---\ntitle: Hello\ntags:\n  - a\n  - b\n---\nBody text.\n"
	store, body, err := frontmatter.Detect([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !store.Present || store.Format != frontmatter.YAML {
		t.Fatalf("store = %+v, want Present=true Format=yaml", store)
	}
	if string(body) != "Body text.\n" {
		t.Errorf("body = %q", body)
	}
	m, ok := store.Value.(map[string]interface{})
	if !ok {
		t.Fatalf("Value = %#v, want a map", store.Value)
	}
	if m["title"] != "Hello" {
		t.Errorf("title = %v, want Hello", m["title"])
	}
}

// TestDetect_TOML confirms a leading "+++" block is parsed as TOML.
func TestDetect_TOML(t *testing.T) {
	src := "+++\ntitle = \"Hello\"\n+++\nBody text.\n"
	store, body, err := frontmatter.Detect([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !store.Present || store.Format != frontmatter.TOML {
		t.Fatalf("store = %+v, want Present=true Format=toml", store)
	}
	if string(body) != "Body text.\n" {
		t.Errorf("body = %q", body)
	}
}

// TestDetect_Absent confirms a document with no leading delimiter is
// returned with Present=false and the body untouched.
func TestDetect_Absent(t *testing.T) {
	src := "# Title\n\nNo frontmatter here.\n"
	store, body, err := frontmatter.Detect([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Present {
		t.Error("expected Present = false")
	}
	if string(body) != src {
		t.Errorf("body = %q, want unchanged source", body)
	}
}

// TestStore_RenderEmptyCollapse confirms a frontmatter store whose value
// collapses to an empty mapping renders to "" rather than an empty "---\n---\n"
// block.
func TestStore_RenderEmptyCollapse(t *testing.T) {
	store := frontmatter.Store{Present: true, Format: frontmatter.YAML, Value: map[string]interface{}{}}
	out, err := store.Render()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "" {
		t.Errorf("Render() = %q, want empty", out)
	}
}

// TestStore_RenderRoundTrip confirms Detect -> Render reproduces an
// equivalent delimiter block.
func TestStore_RenderRoundTrip(t *testing.T) {
	src := "---\ntitle: Hello\ncount: 3\n---\nBody.\n"
	store, _, err := frontmatter.Detect([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := store.Render()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reparsed, _, err := frontmatter.Detect([]byte(out + "Body.\n"))
	if err != nil {
		t.Fatalf("unexpected error re-parsing: %v", err)
	}
	if !reparsed.Present {
		t.Fatal("expected reparsed store to be present")
	}
	m := reparsed.Value.(map[string]interface{})
	if m["title"] != "Hello" || m["count"] != 3 {
		t.Errorf("reparsed value = %+v", m)
	}
}

// TestStore_GetSetDelete exercises dotted and indexed path access.
func TestStore_GetSetDelete(t *testing.T) {
	var s frontmatter.Store

	if err := s.Set("tags[0]", "first"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Set("tags[1]", "second"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Set("meta.owner", "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, ok, err := s.Get("tags[1]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || v != "second" {
		t.Errorf("tags[1] = %v, ok=%v, want second, true", v, ok)
	}

	v, ok, err = s.Get("meta.owner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || v != "alice" {
		t.Errorf("meta.owner = %v, ok=%v, want alice, true", v, ok)
	}

	if err := s.Delete("meta.owner"); err != nil {
		t.Fatalf("unexpected error deleting: %v", err)
	}
	if _, ok, err := s.Get("meta.owner"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	} else if ok {
		t.Error("expected meta.owner to be gone")
	}
}

// TestStore_GetMissingPath confirms a missing path reports ok=false rather
// than an error.
func TestStore_GetMissingPath(t *testing.T) {
	s := frontmatter.Store{Present: true, Value: map[string]interface{}{"a": 1}}
	_, ok, err := s.Get("b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected ok = false for a missing key")
	}
}

// TestStore_DeleteMissingPath confirms deleting a path that does not exist
// fails with KindFrontmatterKeyNotFound.
func TestStore_DeleteMissingPath(t *testing.T) {
	s := frontmatter.Store{Present: true, Value: map[string]interface{}{}}
	err := s.Delete("missing")
	if err == nil {
		t.Fatal("expected an error")
	}
}

// TestStore_Clone_Isolation confirms mutating the clone's value tree never
// reaches the original.
func TestStore_Clone_Isolation(t *testing.T) {
	original := frontmatter.Store{
		Present: true,
		Format:  frontmatter.YAML,
		Value: map[string]interface{}{
			"tags": []interface{}{"a", "b"},
		},
	}
	clone := original.Clone()
	if err := clone.Set("tags[0]", "mutated"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	origTags := original.Value.(map[string]interface{})["tags"].([]interface{})
	if origTags[0] != "a" {
		t.Errorf("original tags[0] mutated: %v", origTags[0])
	}
}
