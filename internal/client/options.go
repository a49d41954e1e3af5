package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"valence-go/internal/model"
)

// Options are the recognised per-call settings.
type Options struct {
	// Query values are merged into the request query; later values replace earlier ones.
	Query url.Values
	// Header values are set on the request after the body content type.
	Header http.Header
	// Debug, when set, receives the signed request and the raw response.
	Debug *model.DebugInfo
	// Version selects the API version token of a route; empty means the route default.
	Version string
}

// Option configures a single call.
type Option func(*Options)

// WithQuery merges q into the request query.
func WithQuery(q url.Values) Option {
	return func(o *Options) {
		if o.Query == nil {
			o.Query = make(url.Values)
		}
		for k, v := range q {
			o.Query[k] = append([]string(nil), v...)
		}
	}
}

// WithHeader sets an extra request header.
func WithHeader(key, value string) Option {
	return func(o *Options) {
		if o.Header == nil {
			o.Header = make(http.Header)
		}
		o.Header.Set(key, value)
	}
}

// WithDebug captures the request and response of the call into d.
func WithDebug(d *model.DebugInfo) Option {
	return func(o *Options) { o.Debug = d }
}

// WithVersion overrides the API version of a route.
func WithVersion(v string) Option {
	return func(o *Options) { o.Version = v }
}

// Collect applies opts in order and returns the result.
func Collect(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Body is an outgoing request body. A nil *Body sends no body.
type Body struct {
	Data        []byte
	ContentType string
}

// JSONBody encodes v as an application/json body.
func JSONBody(v any) (*Body, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json body: %w", err)
	}
	return &Body{Data: data, ContentType: "application/json"}, nil
}
