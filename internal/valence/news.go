package valence

import (
	"context"

	"valence-go/internal/client"
	"valence-go/internal/upload"
)

// NewsAttachment is a file attached to a news item.
type NewsAttachment struct {
	FileId   int64
	FileName string
	Size     int64
}

// NewsItem is an announcement on an org unit's news feed. EndDate is nil
// when the item does not expire.
type NewsItem struct {
	Id                        int64
	IsHidden                  bool
	Title                     string
	Body                      RichText
	StartDate                 string
	EndDate                   *string
	IsGlobal                  bool
	IsPublished               bool
	ShowOnlyInCourseOfferings bool
	Attachments               []NewsAttachment
}

// NewsItemData is the body of a news item create or update.
type NewsItemData struct {
	Title                     string
	Body                      RichTextInput
	StartDate                 string
	EndDate                   *string
	IsGlobal                  bool
	IsPublished               bool
	ShowOnlyInCourseOfferings bool
}

// MyFeed returns the caller's feed. since and until are ISO 8601 timestamps
// and are omitted when empty.
func (s *Service) MyFeed(ctx context.Context, since, until string, opts ...client.Option) (*client.Content, error) {
	opts = withQuery(opts, "since", since, "until", until)
	return s.get(ctx, lp("1.0", opts, "/feed/"), opts)
}

func (s *Service) DeleteNewsItem(ctx context.Context, orgUnitID, newsItemID int64, opts ...client.Option) error {
	return discard(s.del(ctx, le("1.0", opts, "/%d/news/%d", orgUnitID, newsItemID), opts))
}

func (s *Service) DeleteNewsAttachment(ctx context.Context, orgUnitID, newsItemID, fileID int64, opts ...client.Option) error {
	return discard(s.del(ctx, le("1.0", opts, "/%d/news/%d/attachments/%d", orgUnitID, newsItemID, fileID), opts))
}

// News lists the news items of an org unit. A non-empty since, in UTC ISO
// 8601 form, limits the list to items published after it.
func (s *Service) News(ctx context.Context, orgUnitID int64, since string, opts ...client.Option) ([]NewsItem, error) {
	opts = withQuery(opts, "since", since)
	return decode[[]NewsItem](s.get(ctx, le("1.0", opts, "/%d/news/", orgUnitID), opts))
}

func (s *Service) NewsItem(ctx context.Context, orgUnitID, newsItemID int64, opts ...client.Option) (*NewsItem, error) {
	return decodePtr[NewsItem](s.get(ctx, le("1.0", opts, "/%d/news/%d", orgUnitID, newsItemID), opts))
}

// NewsAttachment downloads one attachment of a news item.
func (s *Service) NewsAttachment(ctx context.Context, orgUnitID, newsItemID, fileID int64, opts ...client.Option) (*client.Content, error) {
	return s.get(ctx, le("1.0", opts, "/%d/news/%d/attachments/%d", orgUnitID, newsItemID, fileID), opts)
}

// DismissNewsItem hides a news item from the calling user's feed.
func (s *Service) DismissNewsItem(ctx context.Context, orgUnitID, newsItemID int64, opts ...client.Option) error {
	return discard(s.post(ctx, le("1.0", opts, "/%d/news/%d/dismiss", orgUnitID, newsItemID), nil, opts))
}

// RestoreNewsItem undoes DismissNewsItem.
func (s *Service) RestoreNewsItem(ctx context.Context, orgUnitID, newsItemID int64, opts ...client.Option) error {
	return discard(s.post(ctx, le("1.0", opts, "/%d/news/%d/restore", orgUnitID, newsItemID), nil, opts))
}

// CreateNewsItem always sends multipart/mixed; files may be empty.
func (s *Service) CreateNewsItem(ctx context.Context, orgUnitID int64, data NewsItemData, files []*upload.File, opts ...client.Option) (*NewsItem, error) {
	body, err := upload.EncodeMixed(data, files)
	if err != nil {
		return nil, err
	}
	return decodePtr[NewsItem](s.post(ctx, le("1.0", opts, "/%d/news/", orgUnitID), body, opts))
}

// AddNewsAttachment uploads f as a form-data "file" part.
func (s *Service) AddNewsAttachment(ctx context.Context, orgUnitID, newsItemID int64, f *upload.File, opts ...client.Option) (*client.Content, error) {
	body, err := upload.EncodeFormFile("file", f)
	if err != nil {
		return nil, err
	}
	return s.post(ctx, le("1.0", opts, "/%d/news/%d/attachments/", orgUnitID, newsItemID), body, opts)
}
