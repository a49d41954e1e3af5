package valence

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"

	"valence-go/internal/client"
	"valence-go/internal/upload"
)

// LRWSSearchResult identifies one learning object version found by a search.
type LRWSSearchResult struct {
	IdentId      string
	RepositoryId int64
	Version      int
}

// LRWSSearchResultCollection is a search response. Results is decoded only
// when ExecutionStatus is zero.
type LRWSSearchResultCollection struct {
	ExecutionMessage string
	ExecutionStatus  int
	TotalResults     int
	Results          []LRWSSearchResult
}

// LRWSObjectLink carries a viewable URL for a learning object. URL is empty
// unless ExecutionStatus is zero.
type LRWSObjectLink struct {
	ExecutionMessage string
	ExecutionStatus  int
	URL              string
}

// LRWSObjectProperties describes a learning object version. The Execution
// fields report the repository's own status for the request.
type LRWSObjectProperties struct {
	ExecutionMessage        string
	ExecutionStatus         int
	Description             string
	HiddenFromSearchResults bool
	IdentId                 string
	OwnerId                 int64
	PublicallyAvailable     bool
	RepositoryId            int64
	Status                  int
	Title                   string
	Type                    int
	URL                     string
	Version                 int
	Keywords                string
}

// LRWSObjectPropertiesInput is the body of a properties update.
type LRWSObjectPropertiesInput struct {
	Description             string
	HiddenFromSearchResults bool
	OwnerId                 int64
	PublicallyAvailable     bool
	RepositoryId            int64
	Status                  int
	Title                   string
	Keywords                string
}

// LRWSPublishResult reports the identifier and version a publish created.
type LRWSPublishResult struct {
	ExecutionMessage string
	ExecutionStatus  int
	IdentId          string
	Version          int
}

// LearningObjectSearch runs a query against the given repositories.
func (s *Service) LearningObjectSearch(ctx context.Context, query string, offset, count int, repositories string, opts ...client.Option) (*LRWSSearchResultCollection, error) {
	opts = withQuery(opts,
		"query", query,
		"offset", strconv.Itoa(offset),
		"count", strconv.Itoa(count),
		"repositories", repositories,
	)
	raw, err := decode[json.RawMessage](s.get(ctx, api("lr", "1.0", opts, "/objects/search/"), opts))
	if err != nil {
		return nil, err
	}
	status := gjson.GetBytes(raw, "ExecutionStatus")
	if !status.Exists() {
		return nil, fmt.Errorf("learning object search: no ExecutionStatus: %w", client.ErrMalformedResponse)
	}
	out := &LRWSSearchResultCollection{
		ExecutionMessage: gjson.GetBytes(raw, "ExecutionMessage").String(),
		ExecutionStatus:  int(status.Int()),
		TotalResults:     int(gjson.GetBytes(raw, "TotalResults").Int()),
	}
	if out.ExecutionStatus != 0 {
		return out, nil
	}
	if results := gjson.GetBytes(raw, "Results"); results.IsArray() {
		if err := json.Unmarshal([]byte(results.Raw), &out.Results); err != nil {
			return nil, fmt.Errorf("learning object search: decode results: %w", client.ErrMalformedResponse)
		}
	}
	return out, nil
}

func lrObject(opts []client.Option, objectID int64, version int, suffix string) string {
	if version > 0 {
		return api("lr", "1.0", opts, "/objects/%d/%d/%s", objectID, version, suffix)
	}
	return api("lr", "1.0", opts, "/objects/%d/%s", objectID, suffix)
}

// LearningObject downloads an object. A version of zero means the latest.
func (s *Service) LearningObject(ctx context.Context, objectID int64, version int, opts ...client.Option) (*client.Content, error) {
	return s.get(ctx, lrObject(opts, objectID, version, "download/"), opts)
}

// LearningObjectLink returns a link to a learning object. A version of zero
// addresses the latest version.
func (s *Service) LearningObjectLink(ctx context.Context, objectID int64, version int, opts ...client.Option) (*LRWSObjectLink, error) {
	return decodePtr[LRWSObjectLink](s.get(ctx, lrObject(opts, objectID, version, "link/"), opts))
}

func (s *Service) LearningObjectProperties(ctx context.Context, objectID int64, version int, opts ...client.Option) (*LRWSObjectProperties, error) {
	return decodePtr[LRWSObjectProperties](s.get(ctx, lrObject(opts, objectID, version, "properties/"), opts))
}

// LearningObjectMetadata returns the metadata document of one object version.
func (s *Service) LearningObjectMetadata(ctx context.Context, objectID int64, version int, opts ...client.Option) (*client.Content, error) {
	return s.get(ctx, api("lr", "1.0", opts, "/objects/%d/%d/metadata/", objectID, version), opts)
}

// DeleteLearningObject is a POST with an empty body.
func (s *Service) DeleteLearningObject(ctx context.Context, objectID int64, opts ...client.Option) error {
	return discard(s.post(ctx, api("lr", "1.0", opts, "/objects/%d/delete/", objectID), nil, opts))
}

// UpdateLearningObject publishes f as a new version of an object.
func (s *Service) UpdateLearningObject(ctx context.Context, objectID int64, f *upload.File, opts ...client.Option) (*LRWSPublishResult, error) {
	body, err := upload.EncodeFormFile("Resource", f)
	if err != nil {
		return nil, err
	}
	return decodePtr[LRWSPublishResult](s.post(ctx, api("lr", "1.0", opts, "/objects/%d/", objectID), body, opts))
}

func (s *Service) UpdateLearningObjectProperties(ctx context.Context, objectID int64, version int, props LRWSObjectPropertiesInput, opts ...client.Option) (*client.Content, error) {
	return s.postJSON(ctx, lrObject(opts, objectID, version, "properties/"), props, opts)
}

// CreateLearningObject publishes f into a repository.
func (s *Service) CreateLearningObject(ctx context.Context, repositoryID int64, f *upload.File, opts ...client.Option) (*LRWSPublishResult, error) {
	body, err := upload.EncodeFormFile("Resource", f)
	if err != nil {
		return nil, err
	}
	opts = withQuery(opts, "repositoryId", strconv.FormatInt(repositoryID, 10))
	return decodePtr[LRWSPublishResult](s.put(ctx, api("lr", "1.0", opts, "/objects/"), body, opts))
}
