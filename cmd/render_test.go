package cmd

import (
	"bytes"
	"errors"
	"testing"
)

func TestNewRenderCmd_PrintsRenderedDocument(t *testing.T) {
	mock := &mockFileIO{files: map[string][]byte{
		"doc.md": []byte("# Title\n\nBody.\n"),
	}}
	c := NewRenderCmd(mock)
	out := new(bytes.Buffer)
	c.SetOut(out)
	c.SetArgs([]string{"doc.md"})

	if err := c.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "# Title\n\nBody.\n" {
		t.Errorf("out = %q", out.String())
	}
}

func TestNewRenderCmd_ReadFileError(t *testing.T) {
	mock := &mockFileIO{readErr: errors.New("disk error")}
	c := NewRenderCmd(mock)
	c.SetOut(new(bytes.Buffer))
	c.SetArgs([]string{"doc.md"})

	if err := c.Execute(); err == nil {
		t.Error("expected an error when ReadFile fails")
	}
}
