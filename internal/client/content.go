package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Kind classifies a response body by its content type.
type Kind int

const (
	KindNoContent Kind = iota
	KindJSON
	KindText
	KindBinary
)

func (k Kind) String() string {
	switch k {
	case KindNoContent:
		return "no-content"
	case KindJSON:
		return "json"
	case KindText:
		return "text"
	default:
		return "binary"
	}
}

type noContent struct{}

func (noContent) String() string { return "no content" }

// NoContent is returned by Content.Value for an empty JSON response.
var NoContent = noContent{}

// Content is a negotiated response body.
type Content struct {
	Kind        Kind
	ContentType string
	Body        []byte
}

// Negotiate classifies body by contentType:
// application/json is validated as JSON (an empty body is KindNoContent),
// text/plain is text, and anything else is returned as raw bytes.
func Negotiate(contentType string, body []byte) (*Content, error) {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "application/json"):
		if len(bytes.TrimSpace(body)) == 0 {
			return &Content{Kind: KindNoContent, ContentType: contentType}, nil
		}
		if !json.Valid(body) {
			return nil, fmt.Errorf("%w: invalid JSON body (%d bytes)", ErrMalformedResponse, len(body))
		}
		return &Content{Kind: KindJSON, ContentType: contentType, Body: body}, nil
	case strings.Contains(ct, "text/plain"):
		return &Content{Kind: KindText, ContentType: contentType, Body: body}, nil
	default:
		return &Content{Kind: KindBinary, ContentType: contentType, Body: body}, nil
	}
}

// IsNoContent reports whether the response was an empty JSON body.
func (c *Content) IsNoContent() bool {
	return c.Kind == KindNoContent
}

// Text returns the body as a string.
func (c *Content) Text() string {
	return string(c.Body)
}

// Value returns the decoded JSON value, the text, the raw bytes or NoContent.
func (c *Content) Value() (any, error) {
	switch c.Kind {
	case KindNoContent:
		return NoContent, nil
	case KindJSON:
		var v any
		if err := json.Unmarshal(c.Body, &v); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
		}
		return v, nil
	case KindText:
		return c.Text(), nil
	default:
		return c.Body, nil
	}
}

// Decode unmarshals a JSON body into v.
func (c *Content) Decode(v any) error {
	if c.Kind != KindJSON {
		return fmt.Errorf("%w: want json, got %s (%q)", ErrUnexpectedContent, c.Kind, c.ContentType)
	}
	if err := json.Unmarshal(c.Body, v); err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	return nil
}
