// Package valence is the route catalogue of the Valence API: one method per
// route, each building the route, calling the transport and decoding the
// response into typed data.
package valence

import (
	"context"
	"fmt"
	"strconv"

	"valence-go/internal/auth"
	"valence-go/internal/client"
	"valence-go/internal/upload"
)

// Service binds a transport to the auth context every call is made with.
type Service struct {
	client *client.Client
	uc     auth.Context
}

// New returns a Service that signs every call with uc.
func New(c *client.Client, uc auth.Context) *Service {
	return &Service{client: c, uc: uc}
}

// Context returns the auth context the service was built with.
func (s *Service) Context() auth.Context {
	return s.uc
}

// api builds /d2l/api/{family}/{ver}{path}. The version comes from
// client.WithVersion when given, otherwise def.
func api(family, def string, opts []client.Option, format string, args ...any) string {
	ver := client.Collect(opts).Version
	if ver == "" {
		ver = def
	}
	return "/d2l/api/" + family + "/" + ver + fmt.Sprintf(format, args...)
}

func lp(def string, opts []client.Option, format string, args ...any) string {
	return api("lp", def, opts, format, args...)
}

func le(def string, opts []client.Option, format string, args ...any) string {
	return api("le", def, opts, format, args...)
}

// decode unmarshals a JSON response into T. A failed call never yields a
// partially decoded value.
func decode[T any](c *client.Content, err error) (T, error) {
	var v T
	if err != nil {
		return v, err
	}
	if err := c.Decode(&v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// decodePtr is decode for single objects.
func decodePtr[T any](c *client.Content, err error) (*T, error) {
	v, err := decode[T](c, err)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// discard drops the body of a write-only call.
func discard(_ *client.Content, err error) error {
	return err
}

func (s *Service) get(ctx context.Context, route string, opts []client.Option) (*client.Content, error) {
	return s.client.Get(ctx, s.uc, route, opts...)
}

func (s *Service) del(ctx context.Context, route string, opts []client.Option) (*client.Content, error) {
	return s.client.Delete(ctx, s.uc, route, opts...)
}

// postJSON sends v as a JSON body. A nil v sends an empty body.
func (s *Service) postJSON(ctx context.Context, route string, v any, opts []client.Option) (*client.Content, error) {
	body, err := jsonBody(v)
	if err != nil {
		return nil, err
	}
	return s.client.Post(ctx, s.uc, route, body, opts...)
}

func (s *Service) putJSON(ctx context.Context, route string, v any, opts []client.Option) (*client.Content, error) {
	body, err := jsonBody(v)
	if err != nil {
		return nil, err
	}
	return s.client.Put(ctx, s.uc, route, body, opts...)
}

// deleteJSON is a DELETE that carries a JSON body.
func (s *Service) deleteJSON(ctx context.Context, route string, v any, opts []client.Option) (*client.Content, error) {
	body, err := jsonBody(v)
	if err != nil {
		return nil, err
	}
	return s.client.DeleteWithBody(ctx, s.uc, route, body, opts...)
}

func (s *Service) post(ctx context.Context, route string, body *client.Body, opts []client.Option) (*client.Content, error) {
	return s.client.Post(ctx, s.uc, route, body, opts...)
}

func (s *Service) put(ctx context.Context, route string, body *client.Body, opts []client.Option) (*client.Content, error) {
	return s.client.Put(ctx, s.uc, route, body, opts...)
}

// simpleUpload posts f as a multipart/mixed simple upload.
func (s *Service) simpleUpload(ctx context.Context, route string, f *upload.File, opts []client.Option) (*client.Content, error) {
	body, err := upload.EncodeSimple(f)
	if err != nil {
		return nil, err
	}
	return s.client.Post(ctx, s.uc, route, body, opts...)
}

func jsonBody(v any) (*client.Body, error) {
	if v == nil {
		return nil, nil
	}
	return client.JSONBody(v)
}

// queryOf builds query values, skipping empty ones.
func queryOf(kv ...string) client.Option {
	q := make(map[string][]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			q[kv[i]] = []string{kv[i+1]}
		}
	}
	return client.WithQuery(q)
}

// withQuery prepends route query values so caller options still override them.
func withQuery(opts []client.Option, kv ...string) []client.Option {
	return append([]client.Option{queryOf(kv...)}, opts...)
}

func itoa(n int64) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}
