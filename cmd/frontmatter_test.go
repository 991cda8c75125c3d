package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestNewFrontmatterCmd_PresentYAML(t *testing.T) {
	mock := &mockFileIO{files: map[string][]byte{
		"doc.md": []byte("---\ntitle: Hello\n---\nBody.\n"),
	}}
	c := NewFrontmatterCmd(mock)
	out := new(bytes.Buffer)
	c.SetOut(out)
	c.SetArgs([]string{"doc.md"})

	if err := c.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var result frontmatterOutput
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput: %s", err, out.String())
	}
	if !result.Present || result.Format != "yaml" {
		t.Errorf("result = %+v", result)
	}
	m, ok := result.Value.(map[string]interface{})
	if !ok || m["title"] != "Hello" {
		t.Errorf("Value = %#v", result.Value)
	}
}

func TestNewFrontmatterCmd_Absent(t *testing.T) {
	mock := &mockFileIO{files: map[string][]byte{
		"doc.md": []byte("No frontmatter here.\n"),
	}}
	c := NewFrontmatterCmd(mock)
	out := new(bytes.Buffer)
	c.SetOut(out)
	c.SetArgs([]string{"doc.md"})

	if err := c.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var result frontmatterOutput
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput: %s", err, out.String())
	}
	if result.Present {
		t.Error("expected Present = false")
	}
}

func TestNewFrontmatterCmd_ReadFileError(t *testing.T) {
	mock := &mockFileIO{readErr: errors.New("disk error")}
	c := NewFrontmatterCmd(mock)
	c.SetOut(new(bytes.Buffer))
	c.SetArgs([]string{"doc.md"})

	if err := c.Execute(); err == nil {
		t.Error("expected an error when ReadFile fails")
	}
}

func TestNewFrontmatterCmd_EncodeError(t *testing.T) {
	mock := &mockFileIO{files: map[string][]byte{"doc.md": []byte("Body.\n")}}
	c := NewFrontmatterCmd(mock)
	c.SetOut(&errWriter{err: errors.New("write error")})
	c.SetArgs([]string{"doc.md"})

	if err := c.Execute(); err == nil {
		t.Error("expected an error when JSON encoding fails")
	}
}
