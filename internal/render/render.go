// Package render prints CLI results as indented JSON or YAML.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	"valence-go/internal/client"
)

// Renderer writes values to an output stream in one format.
type Renderer struct {
	w      io.Writer
	format string
}

// New returns a Renderer for format ("json" or "yaml").
func New(w io.Writer, format string) (*Renderer, error) {
	switch format {
	case "json", "yaml":
	default:
		return nil, fmt.Errorf("render: unsupported format %q", format)
	}
	return &Renderer{w: w, format: format}, nil
}

// Render writes v. Raw *client.Content is written as-is unless it is JSON,
// in which case it is reformatted like any other value.
func (r *Renderer) Render(v any) error {
	if c, ok := v.(*client.Content); ok {
		return r.content(c)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("render: encode %T: %w", v, err)
	}
	return r.json(data)
}

func (r *Renderer) content(c *client.Content) error {
	if c == nil {
		return nil
	}
	switch c.Kind {
	case client.KindNoContent:
		return nil
	case client.KindJSON:
		return r.json(c.Body)
	case client.KindText:
		_, err := fmt.Fprintln(r.w, c.Text())
		return err
	default:
		_, err := r.w.Write(c.Body)
		return err
	}
}

// json writes an encoded JSON document in the renderer's format. YAML output
// keeps the JSON key order.
func (r *Renderer) json(data []byte) error {
	if r.format == "yaml" {
		out, err := yaml.JSONToYAML(data)
		if err != nil {
			return fmt.Errorf("render: convert to yaml: %w", err)
		}
		_, err = r.w.Write(out)
		return err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("render: indent: %w", err)
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(r.w)
	return err
}
