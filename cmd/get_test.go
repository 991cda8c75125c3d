package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNewGetCmd_TypeContainsFlags(t *testing.T) {
	mock := &mockFileIO{files: map[string][]byte{
		"doc.md": []byte("# Intro\n\nHello there.\n\n# Other\n\nBody.\n"),
	}}
	c := NewGetCmd(mock)
	out := new(bytes.Buffer)
	c.SetOut(out)
	c.SetArgs([]string{"doc.md", "--type", "heading", "--contains", "Intro"})

	if err := c.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Intro") {
		t.Errorf("expected output to contain the matched section, got: %s", out.String())
	}
}

func TestNewGetCmd_SelectorFlagOverridesFlat(t *testing.T) {
	mock := &mockFileIO{files: map[string][]byte{
		"doc.md": []byte("# A\n\nBody A.\n\n# B\n\nBody B.\n"),
	}}
	c := NewGetCmd(mock)
	out := new(bytes.Buffer)
	c.SetOut(out)
	c.SetArgs([]string{"doc.md", "--selector", `{"select_type": "heading", "select_contains": "B"}`, "--type", "paragraph"})

	if err := c.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "# B") {
		t.Errorf("expected selector flag to win over --type, got: %s", out.String())
	}
}

func TestNewGetCmd_AllReturnsEveryMatch(t *testing.T) {
	mock := &mockFileIO{files: map[string][]byte{
		"doc.md": []byte("# A\n\n# B\n\n# C\n"),
	}}
	c := NewGetCmd(mock)
	out := new(bytes.Buffer)
	c.SetOut(out)
	c.SetArgs([]string{"doc.md", "--type", "heading", "--all", "--json"})

	if err := c.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var result getOutput
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput: %s", err, out.String())
	}
	if len(result.Results) != 3 {
		t.Errorf("got %d results, want 3", len(result.Results))
	}
}

func TestNewGetCmd_NoMatchReturnsError(t *testing.T) {
	mock := &mockFileIO{files: map[string][]byte{
		"doc.md": []byte("# A\n"),
	}}
	c := NewGetCmd(mock)
	c.SetOut(new(bytes.Buffer))
	c.SetArgs([]string{"doc.md", "--type", "heading", "--contains", "Nonexistent"})

	if err := c.Execute(); err == nil {
		t.Error("expected an error when the selector matches nothing")
	}
}

func TestNewGetCmd_ReadFileError(t *testing.T) {
	mock := &mockFileIO{readErr: errors.New("disk error")}
	c := NewGetCmd(mock)
	c.SetOut(new(bytes.Buffer))
	c.SetArgs([]string{"doc.md", "--type", "heading"})

	if err := c.Execute(); err == nil {
		t.Error("expected an error when ReadFile fails")
	}
}

func TestNewGetCmd_InvalidSelectorJSON(t *testing.T) {
	mock := &mockFileIO{files: map[string][]byte{"doc.md": []byte("# A\n")}}
	c := NewGetCmd(mock)
	c.SetOut(new(bytes.Buffer))
	c.SetArgs([]string{"doc.md", "--selector", "not json"})

	if err := c.Execute(); err == nil {
		t.Error("expected an error for malformed --selector")
	}
}

func TestNewGetCmd_UntilOnBlockTargetSucceeds(t *testing.T) {
	mock := &mockFileIO{files: map[string][]byte{
		"doc.md": []byte("# A\n\nIntro.\n\n# B\n\nOther.\n"),
	}}
	c := NewGetCmd(mock)
	c.SetOut(new(bytes.Buffer))
	c.SetArgs([]string{"doc.md", "--type", "heading", "--contains", "A", "--until", `{"select_type": "heading", "select_contains": "B"}`})

	if err := c.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
