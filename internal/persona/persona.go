package persona

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Context holds the candidate's biographical document: free-form fields such
// as experience entries and skills, loaded once at startup and shared
// read-only by every request.
type Context struct {
	fields   map[string]any
	rendered string
}

// Load reads and parses the persona document at path. A missing or malformed
// document is an error; the service cannot answer as a candidate without one.
func Load(path string) (*Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read persona %s: %w", path, err)
	}

	var fields map[string]any
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("parse persona %s: %w", path, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("persona %s is empty", path)
	}

	rendered, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render persona: %w", err)
	}

	return &Context{fields: fields, rendered: string(rendered)}, nil
}

// Rendered returns the document as indented JSON for prompt embedding.
func (c *Context) Rendered() string {
	return c.rendered
}

// Field returns a top-level persona field, for callers that need a single
// value such as the candidate's name.
func (c *Context) Field(key string) (any, bool) {
	v, ok := c.fields[key]
	return v, ok
}
