package valence

import (
	"context"

	"valence-go/internal/client"
	"valence-go/internal/upload"
)

// SubmissionDescriptor is the descriptor part of a dropbox submission upload.
type SubmissionDescriptor struct {
	Text string
	HTML string
}

// DropboxFolders returns the folder listing as the server sent it.
func (s *Service) DropboxFolders(ctx context.Context, orgUnitID int64, opts ...client.Option) (*client.Content, error) {
	return s.get(ctx, le("1.0", opts, "/%d/dropbox/folders/", orgUnitID), opts)
}

func (s *Service) DropboxFolder(ctx context.Context, orgUnitID, folderID int64, opts ...client.Option) (*client.Content, error) {
	return s.get(ctx, le("1.0", opts, "/%d/dropbox/folders/%d", orgUnitID, folderID), opts)
}

func (s *Service) DropboxSubmissions(ctx context.Context, orgUnitID, folderID int64, opts ...client.Option) (*client.Content, error) {
	return s.get(ctx, le("1.0", opts, "/%d/dropbox/folders/%d/submissions/", orgUnitID, folderID), opts)
}

// SubmitMyDropboxFile submits f to a folder on behalf of the caller.
func (s *Service) SubmitMyDropboxFile(ctx context.Context, orgUnitID, folderID int64, f *upload.File, opts ...client.Option) (*client.Content, error) {
	return s.simpleUpload(ctx, le("1.0", opts, "/%d/dropbox/folders/%d/submissions/mysubmissions/", orgUnitID, folderID), f, opts)
}

func (s *Service) SubmitGroupDropboxFile(ctx context.Context, orgUnitID, folderID, groupID int64, f *upload.File, opts ...client.Option) (*client.Content, error) {
	return s.simpleUpload(ctx, le("1.0", opts, "/%d/dropbox/folders/%d/submissions/group/%d", orgUnitID, folderID, groupID), f, opts)
}
