package valence

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"valence-go/internal/client"
	"valence-go/internal/upload"
)

// Locker item types.
const (
	LockerItemFile   = 1
	LockerItemFolder = 2
)

// LockerItem is one entry of a locker folder listing. Type is
// LockerItemFile or LockerItemFolder; Size is in bytes.
type LockerItem struct {
	Name         string
	Description  string
	Type         int
	Size         int64
	LastModified string
}

// LockerFileDescriptor is the descriptor part of a locker file upload.
type LockerFileDescriptor struct {
	Description string
	IsPublic    bool
}

// GroupLockerStatus reports whether a group category has lockers set up.
type GroupLockerStatus struct {
	HasLocker bool
}

// LockerContent is what a locker path resolves to: a folder listing when the
// path ends in "/", otherwise the file itself.
type LockerContent struct {
	Items []LockerItem
	File  *client.Content
}

// IsFolder reports whether the path resolved to a folder listing rather
// than file content.
func (c *LockerContent) IsFolder() bool { return c.File == nil }

// Locker addresses one locker: the caller's, a user's or a group's.
type Locker struct {
	s      *Service
	prefix func(opts []client.Option) string
	// renameVersion is the default version for folder renames.
	renameVersion string
}

// MyLocker returns the caller's locker.
func (s *Service) MyLocker() *Locker {
	return &Locker{s: s, renameVersion: "1.0", prefix: func(opts []client.Option) string {
		return le("1.0", opts, "/locker/myLocker")
	}}
}

// UserLocker returns another user's locker.
func (s *Service) UserLocker(userID int64) *Locker {
	return &Locker{s: s, renameVersion: "1.2", prefix: func(opts []client.Option) string {
		return le("1.0", opts, "/locker/user/%d", userID)
	}}
}

// GroupLocker returns a group's locker.
func (s *Service) GroupLocker(orgUnitID, groupID int64) *Locker {
	return &Locker{s: s, renameVersion: "1.0", prefix: func(opts []client.Option) string {
		return le("1.0", opts, "/%d/locker/group/%d", orgUnitID, groupID)
	}}
}

func checkPath(path string) error {
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("locker path %q is not rooted: %w", path, client.ErrMalformedInput)
	}
	return nil
}

func (l *Locker) route(path string, opts []client.Option) (string, error) {
	if err := checkPath(path); err != nil {
		return "", err
	}
	return l.prefix(opts) + escapePath(path), nil
}

// escapePath escapes each segment of a locker path so names containing
// '#', '?', '%' or spaces address the item they name.
func escapePath(path string) string {
	segs := strings.Split(path, "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return strings.Join(segs, "/")
}

// Get fetches a folder listing or a file.
func (l *Locker) Get(ctx context.Context, path string, opts ...client.Option) (*LockerContent, error) {
	route, err := l.route(path, opts)
	if err != nil {
		return nil, err
	}
	c, err := l.s.get(ctx, route, opts)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, "/") {
		return &LockerContent{File: c}, nil
	}
	items, err := decode[[]LockerItem](c, nil)
	if err != nil {
		return nil, err
	}
	return &LockerContent{Items: items}, nil
}

// Delete removes the file or folder at path. Folders are removed with
// their contents.
func (l *Locker) Delete(ctx context.Context, path string, opts ...client.Option) error {
	route, err := l.route(path, opts)
	if err != nil {
		return err
	}
	return discard(l.s.del(ctx, route, opts))
}

// CreateFolder creates name inside the folder at path.
func (l *Locker) CreateFolder(ctx context.Context, path, name string, opts ...client.Option) (*client.Content, error) {
	route, err := l.route(path, opts)
	if err != nil {
		return nil, err
	}
	return l.s.postJSON(ctx, route, name, opts)
}

// RenameFolder renames the folder at path.
func (l *Locker) RenameFolder(ctx context.Context, path, name string, opts ...client.Option) (*client.Content, error) {
	if client.Collect(opts).Version == "" {
		opts = append([]client.Option{client.WithVersion(l.renameVersion)}, opts...)
	}
	route, err := l.route(path, opts)
	if err != nil {
		return nil, err
	}
	return l.s.putJSON(ctx, route, name, opts)
}

// CreateFile uploads f into the folder at path.
func (l *Locker) CreateFile(ctx context.Context, path string, f *upload.File, opts ...client.Option) (*client.Content, error) {
	route, err := l.route(path, opts)
	if err != nil {
		return nil, err
	}
	return l.s.simpleUpload(ctx, route, f, opts)
}

// GroupLockerCategory reports whether lockers are set up for the groups in
// a category.
func (s *Service) GroupLockerCategory(ctx context.Context, orgUnitID, groupCategoryID int64, opts ...client.Option) (*GroupLockerStatus, error) {
	return decodePtr[GroupLockerStatus](s.get(ctx, lp("1.0", opts, "/%d/groupcategories/%d/locker", orgUnitID, groupCategoryID), opts))
}

// SetupGroupLockerCategory enables lockers for every group in a category.
func (s *Service) SetupGroupLockerCategory(ctx context.Context, orgUnitID, groupCategoryID int64, opts ...client.Option) (*GroupLockerStatus, error) {
	return decodePtr[GroupLockerStatus](s.postJSON(ctx, lp("1.0", opts, "/%d/groupcategories/%d/locker", orgUnitID, groupCategoryID), nil, opts))
}
