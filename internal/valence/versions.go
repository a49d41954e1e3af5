package valence

import (
	"context"

	"valence-go/internal/client"
)

// ProductVersions lists the API versions one product component supports.
type ProductVersions struct {
	ProductCode       string
	LatestVersion     string
	SupportedVersions []string
}

// SupportedVersion answers whether one product version is supported.
type SupportedVersion struct {
	Supported     bool
	LatestVersion string
}

// SupportedVersionRequest names one product version to check in bulk.
type SupportedVersionRequest struct {
	ProductCode string
	Version     string
}

// ApiVersion names the latest supported version of one product.
type ApiVersion struct {
	ProductCode string
	Version     string
}

// BulkSupportedVersionResponse is the result of CheckVersions. Supported is
// true only when every requested version is; Versions lists the latest
// supported version per product.
type BulkSupportedVersionResponse struct {
	Supported bool
	Versions  []ApiVersion
}

// ProductVersions lists the versions a product component supports.
// Version routes work with anonymous contexts.
func (s *Service) ProductVersions(ctx context.Context, pc string, opts ...client.Option) (*ProductVersions, error) {
	return decodePtr[ProductVersions](s.client.GetAnonymous(ctx, s.uc, "/d2l/api/"+pc+"/versions/", opts...))
}

// ProductVersion reports whether a product component supports ver.
func (s *Service) ProductVersion(ctx context.Context, pc, ver string, opts ...client.Option) (*SupportedVersion, error) {
	return decodePtr[SupportedVersion](s.client.GetAnonymous(ctx, s.uc, "/d2l/api/"+pc+"/versions/"+ver, opts...))
}

// AllVersions lists every product component with its versions.
func (s *Service) AllVersions(ctx context.Context, opts ...client.Option) ([]ProductVersions, error) {
	return decode[[]ProductVersions](s.client.GetAnonymous(ctx, s.uc, "/d2l/api/versions/", opts...))
}

// CheckVersions asks the server whether all requested versions are supported.
func (s *Service) CheckVersions(ctx context.Context, reqs []SupportedVersionRequest, opts ...client.Option) (*BulkSupportedVersionResponse, error) {
	if reqs == nil {
		reqs = []SupportedVersionRequest{}
	}
	body, err := client.JSONBody(reqs)
	if err != nil {
		return nil, err
	}
	return decodePtr[BulkSupportedVersionResponse](s.client.PostAnonymous(ctx, s.uc, "/d2l/api/versions/check", body, opts...))
}
