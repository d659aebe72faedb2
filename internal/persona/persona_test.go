package persona

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePersona(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "persona.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write persona file: %v", err)
	}
	return path
}

func TestLoadParsesDocument(t *testing.T) {
	path := writePersona(t, `
name: Jane Doe
years_of_experience: 5
skills:
  - Go
  - Distributed systems
experience:
  - company: Acme
    role: Backend Engineer
`)
	ctx, err := Load(path)
	if err != nil {
		t.Fatalf("load persona: %v", err)
	}
	name, ok := ctx.Field("name")
	if !ok || name != "Jane Doe" {
		t.Fatalf("expected name field, got %v", name)
	}
	rendered := ctx.Rendered()
	if !strings.Contains(rendered, "\"Jane Doe\"") {
		t.Fatalf("rendered persona missing name: %s", rendered)
	}
	if !strings.Contains(rendered, "Distributed systems") {
		t.Fatalf("rendered persona missing skills: %s", rendered)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing persona file")
	}
}

func TestLoadMalformedDocument(t *testing.T) {
	path := writePersona(t, "name: [unclosed")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for malformed persona document")
	}
}

func TestLoadEmptyDocument(t *testing.T) {
	path := writePersona(t, "")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for empty persona document")
	}
}
