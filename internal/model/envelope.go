// Package model defines request and response envelopes shared by the client and the proxy.
package model

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

// Request describes one call to a Valence route before it is signed.
type Request struct {
	Method string
	Route  string // absolute path, e.g. /d2l/api/lp/1.0/users/whoami
	Query  url.Values
	Header http.Header
	Body   io.Reader
	// ContentLength is the body size when known; zero means unknown.
	ContentLength int64
}

// Response is a completed Valence response whose body is still open.
// The caller is responsible for closing Body.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}

// ProxyRequest represents a local request to be forwarded to Valence by the proxy.
type ProxyRequest struct {
	Ctx    context.Context
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   io.ReadCloser
}

// DebugInfo captures the last request and response of a call when passed
// down with client.WithDebug.
type DebugInfo struct {
	Request      *http.Request
	StatusCode   int
	Header       http.Header
	ResponseBody []byte
}

// AddRequest records the outgoing request after it was signed.
func (d *DebugInfo) AddRequest(req *http.Request) {
	d.Request = req
}

// AddResponse records the response status, headers and fully read body.
func (d *DebugInfo) AddResponse(status int, header http.Header, body []byte) {
	d.StatusCode = status
	d.Header = header.Clone()
	d.ResponseBody = body
}

// Reset drops any captured request and response.
func (d *DebugInfo) Reset() {
	*d = DebugInfo{}
}
