package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"

	"valence-go/internal/client"
)

type orgUnit struct {
	Identifier string
	Name       string
	Code       *string
}

func TestNew_RejectsUnknownFormat(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, "xml"); err == nil {
		t.Fatal("New(xml) expected error, got nil")
	}
}

func TestRender(t *testing.T) {
	ou := orgUnit{Identifier: "6606", Name: "Dev"}

	tests := []struct {
		name   string
		format string
		value  any
		want   string
	}{
		{
			name:   "json struct",
			format: "json",
			value:  ou,
			want:   "{\n  \"Identifier\": \"6606\",\n  \"Name\": \"Dev\",\n  \"Code\": null\n}\n",
		},
		{
			name:   "json content reformatted",
			format: "json",
			value:  &client.Content{Kind: client.KindJSON, Body: []byte(`{"a":1}`)},
			want:   "{\n  \"a\": 1\n}\n",
		},
		{
			name:   "text content",
			format: "yaml",
			value:  &client.Content{Kind: client.KindText, Body: []byte("hello")},
			want:   "hello\n",
		},
		{
			name:   "binary content raw",
			format: "json",
			value:  &client.Content{Kind: client.KindBinary, Body: []byte{0x89, 'P', 'N', 'G'}},
			want:   "\x89PNG",
		},
		{
			name:   "no content",
			format: "json",
			value:  &client.Content{Kind: client.KindNoContent},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r, err := New(&buf, tt.format)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if err := r.Render(tt.value); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("Render() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRender_YAML(t *testing.T) {
	var buf bytes.Buffer
	r, err := New(&buf, "yaml")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := r.Render(orgUnit{Identifier: "6606", Name: "Dev"}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	out := buf.String()
	if i, j := strings.Index(out, "Identifier:"), strings.Index(out, "Name:"); i < 0 || j < i {
		t.Errorf("yaml keys out of order:\n%s", out)
	}

	var got map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	want := map[string]any{"Identifier": "6606", "Name": "Dev", "Code": nil}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("yaml round trip mismatch (-want +got):\n%s", diff)
	}
}
