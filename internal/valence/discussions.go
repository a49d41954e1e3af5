package valence

import (
	"context"
	"fmt"
	"strings"

	"valence-go/internal/client"
	"valence-go/internal/upload"
)

// Forum is a discussion forum. Date fields are nil when unrestricted.
type Forum struct {
	ForumId          int64
	StartDate        *string
	EndDate          *string
	PostStartDate    *string
	PostEndDate      *string
	Name             string
	AllowAnonymous   bool
	IsLocked         bool
	IsHidden         bool
	RequiresApproval bool
	Description      RichText
}

// ForumData is the body of a forum create.
type ForumData struct {
	Name             string
	Description      RichTextInput
	StartDate        *string
	EndDate          *string
	PostStartDate    *string
	PostEndDate      *string
	AllowAnonymous   bool
	IsLocked         bool
	IsHidden         bool
	RequiresApproval bool
}

// ForumUpdateData is the body of a forum update.
type ForumUpdateData struct {
	Name             string
	Description      RichTextInput
	AllowAnonymous   bool
	IsLocked         bool
	IsHidden         bool
	RequiresApproval bool
}

// Topic is a discussion topic within a forum.
type Topic struct {
	ForumId                int64
	TopicId                int64
	Name                   string
	Description            RichText
	StartDate              *string
	EndDate                *string
	UnlockStartDate        *string
	UnlockEndDate          *string
	IsLocked               bool
	AllowAnonymousPosts    bool
	RequiresApproval       bool
	UnApprovedPostCount    int
	PinnedPostCount        int
	ScoringType            *string
	IsAutoScore            bool
	ScoreOutOf             *float64
	IncludeNonScoredValues bool
	ScoredCount            int
	RatingsSum             int
	RatingsCount           int
	IsHidden               bool
	MustPostToParticipate  bool
}

// CreateTopicData is the body of a topic create or update.
type CreateTopicData struct {
	Name                   string
	Description            RichTextInput
	AllowAnonymousPosts    bool
	StartDate              *string
	EndDate                *string
	IsHidden               bool
	UnlockStartDate        *string
	UnlockEndDate          *string
	RequiresApproval       bool
	ScoreOutOf             *float64
	IsAutoScore            bool
	IncludeNonScoredValues bool
	ScoringType            *string
	IsLocked               bool
	MustPostToParticipate  bool
}

// GroupRef names a group by id.
type GroupRef struct {
	GroupId int64
}

// GroupRestriction limits a topic to the members of one group.
type GroupRestriction struct {
	GroupRestriction GroupRef
}

// NewGroupRestriction restricts a topic to groupID.
func NewGroupRestriction(groupID int64) GroupRestriction {
	return GroupRestriction{GroupRestriction: GroupRef{GroupId: groupID}}
}

// Post is a discussion post. PostingUserId is nil for anonymous posts and
// ParentPostId is nil for a thread's first post.
type Post struct {
	ForumId          int64
	TopicId          int64
	PostId           int64
	PostingUserId    *int64
	ThreadId         int64
	ParentPostId     *int64
	Subject          string
	Message          RichText
	DatePosted       string
	IsAnonymous      bool
	RequiresApproval bool
	IsDeleted        bool
	LastEditedDate   *string
	LastEditedBy     *int64
	CanRate          bool
	ReplyPostIds     []int64
}

// CreatePostData is the body of a post create. Set ParentPostId to reply.
type CreatePostData struct {
	ParentPostId *int64
	Subject      string
	Message      RichTextInput
	IsAnonymous  bool
}

// UpdatePostData is the body of a post edit.
type UpdatePostData struct {
	Subject string
	Message RichTextInput
}

// ApprovalData is a post's moderation state.
type ApprovalData struct {
	IsApproved bool
}

// FlagData is a post's flag for the calling user.
type FlagData struct {
	IsFlagged bool
}

// RatingData summarises the ratings on a post. UserRating is the caller's
// own rating, nil when unrated.
type RatingData struct {
	RatingsAverage *float64
	RatingsCount   int
	UserRating     *int
}

// UserRatingData is the caller's rating of a post. Rating is nil to clear it.
type UserRatingData struct {
	Rating *int
}

// ReadStatusData is a post's read state for the calling user.
type ReadStatusData struct {
	IsRead bool
}

var ratingNames = []string{"one", "two", "three", "four", "five"}

// ParseRating maps "one".."five" (any case) to 1..5.
func ParseRating(name string) (int, error) {
	for i, n := range ratingNames {
		if strings.EqualFold(name, n) {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("bad rating %q, want one of %v or 1-5: %w", name, ratingNames, client.ErrMalformedInput)
}

// NewUserRating clamps r to 1..5.
func NewUserRating(r int) UserRatingData {
	r = min(max(r, 1), 5)
	return UserRatingData{Rating: &r}
}

func forumRoute(opts []client.Option, orgUnitID int64, format string, args ...any) string {
	return le("1.0", opts, "/%d/discussions/forums/%s", orgUnitID, fmt.Sprintf(format, args...))
}

func postRoute(opts []client.Option, orgUnitID, forumID, topicID, postID int64, suffix string) string {
	return forumRoute(opts, orgUnitID, "%d/topics/%d/posts/%d%s", forumID, topicID, postID, suffix)
}

func (s *Service) DeleteForum(ctx context.Context, orgUnitID, forumID int64, opts ...client.Option) error {
	return discard(s.del(ctx, forumRoute(opts, orgUnitID, "%d", forumID), opts))
}

func (s *Service) Forums(ctx context.Context, orgUnitID int64, opts ...client.Option) ([]Forum, error) {
	return decode[[]Forum](s.get(ctx, forumRoute(opts, orgUnitID, ""), opts))
}

func (s *Service) Forum(ctx context.Context, orgUnitID, forumID int64, opts ...client.Option) (*Forum, error) {
	return decodePtr[Forum](s.get(ctx, forumRoute(opts, orgUnitID, "%d", forumID), opts))
}

func (s *Service) CreateForum(ctx context.Context, orgUnitID int64, data ForumData, opts ...client.Option) (*Forum, error) {
	return decodePtr[Forum](s.postJSON(ctx, forumRoute(opts, orgUnitID, ""), data, opts))
}

func (s *Service) UpdateForum(ctx context.Context, orgUnitID, forumID int64, data ForumUpdateData, opts ...client.Option) (*Forum, error) {
	return decodePtr[Forum](s.putJSON(ctx, forumRoute(opts, orgUnitID, "%d", forumID), data, opts))
}

func (s *Service) DeleteTopic(ctx context.Context, orgUnitID, forumID, topicID int64, opts ...client.Option) error {
	return discard(s.del(ctx, forumRoute(opts, orgUnitID, "%d/topics/%d", forumID, topicID), opts))
}

// DeleteTopicGroupRestriction removes one group from a topic's restriction list.
func (s *Service) DeleteTopicGroupRestriction(ctx context.Context, orgUnitID, forumID, topicID int64, r GroupRestriction, opts ...client.Option) error {
	return discard(s.deleteJSON(ctx, forumRoute(opts, orgUnitID, "%d/topics/%d/groupRestrictions/", forumID, topicID), r, opts))
}

func (s *Service) Topics(ctx context.Context, orgUnitID, forumID int64, opts ...client.Option) ([]Topic, error) {
	return decode[[]Topic](s.get(ctx, forumRoute(opts, orgUnitID, "%d/topics/", forumID), opts))
}

func (s *Service) Topic(ctx context.Context, orgUnitID, forumID, topicID int64, opts ...client.Option) (*Topic, error) {
	return decodePtr[Topic](s.get(ctx, forumRoute(opts, orgUnitID, "%d/topics/%d", forumID, topicID), opts))
}

func (s *Service) TopicGroupRestrictions(ctx context.Context, orgUnitID, forumID, topicID int64, opts ...client.Option) ([]GroupRestriction, error) {
	return decode[[]GroupRestriction](s.get(ctx, forumRoute(opts, orgUnitID, "%d/topics/%d/groupRestrictions/", forumID, topicID), opts))
}

func (s *Service) CreateTopic(ctx context.Context, orgUnitID, forumID int64, data CreateTopicData, opts ...client.Option) (*Topic, error) {
	return decodePtr[Topic](s.postJSON(ctx, forumRoute(opts, orgUnitID, "%d/topics/", forumID), data, opts))
}

func (s *Service) UpdateTopic(ctx context.Context, orgUnitID, forumID, topicID int64, data CreateTopicData, opts ...client.Option) (*Topic, error) {
	return decodePtr[Topic](s.putJSON(ctx, forumRoute(opts, orgUnitID, "%d/topics/%d", forumID, topicID), data, opts))
}

// AddTopicGroupRestriction adds a group to a topic's restriction list.
func (s *Service) AddTopicGroupRestriction(ctx context.Context, orgUnitID, forumID, topicID int64, r GroupRestriction, opts ...client.Option) error {
	return discard(s.putJSON(ctx, forumRoute(opts, orgUnitID, "%d/topics/%d/groupRestrictions/", forumID, topicID), r, opts))
}

func (s *Service) DeletePost(ctx context.Context, orgUnitID, forumID, topicID, postID int64, opts ...client.Option) error {
	return discard(s.del(ctx, postRoute(opts, orgUnitID, forumID, topicID, postID, ""), opts))
}

func (s *Service) DeleteMyPostRating(ctx context.Context, orgUnitID, forumID, topicID, postID int64, opts ...client.Option) error {
	return discard(s.del(ctx, postRoute(opts, orgUnitID, forumID, topicID, postID, "/Rating/MyRating"), opts))
}

func (s *Service) Posts(ctx context.Context, orgUnitID, forumID, topicID int64, opts ...client.Option) ([]Post, error) {
	return decode[[]Post](s.get(ctx, forumRoute(opts, orgUnitID, "%d/topics/%d/posts/", forumID, topicID), opts))
}

func (s *Service) Post(ctx context.Context, orgUnitID, forumID, topicID, postID int64, opts ...client.Option) (*Post, error) {
	return decodePtr[Post](s.get(ctx, postRoute(opts, orgUnitID, forumID, topicID, postID, ""), opts))
}

func (s *Service) PostApproval(ctx context.Context, orgUnitID, forumID, topicID, postID int64, opts ...client.Option) (*ApprovalData, error) {
	return decodePtr[ApprovalData](s.get(ctx, postRoute(opts, orgUnitID, forumID, topicID, postID, "/Approval"), opts))
}

func (s *Service) PostFlag(ctx context.Context, orgUnitID, forumID, topicID, postID int64, opts ...client.Option) (*FlagData, error) {
	return decodePtr[FlagData](s.get(ctx, postRoute(opts, orgUnitID, forumID, topicID, postID, "/Flag"), opts))
}

func (s *Service) PostRating(ctx context.Context, orgUnitID, forumID, topicID, postID int64, opts ...client.Option) (*RatingData, error) {
	return decodePtr[RatingData](s.get(ctx, postRoute(opts, orgUnitID, forumID, topicID, postID, "/Rating"), opts))
}

func (s *Service) MyPostRating(ctx context.Context, orgUnitID, forumID, topicID, postID int64, opts ...client.Option) (*UserRatingData, error) {
	return decodePtr[UserRatingData](s.get(ctx, postRoute(opts, orgUnitID, forumID, topicID, postID, "/Rating/MyRating"), opts))
}

func (s *Service) PostReadStatus(ctx context.Context, orgUnitID, forumID, topicID, postID int64, opts ...client.Option) (*ReadStatusData, error) {
	return decodePtr[ReadStatusData](s.get(ctx, postRoute(opts, orgUnitID, forumID, topicID, postID, "/ReadStatus"), opts))
}

// CreatePost creates a post. With files the post is sent as multipart/mixed
// with one part per attachment, otherwise as plain JSON.
func (s *Service) CreatePost(ctx context.Context, orgUnitID, forumID, topicID int64, data CreatePostData, files []*upload.File, opts ...client.Option) (*Post, error) {
	route := forumRoute(opts, orgUnitID, "%d/topics/%d/posts/", forumID, topicID)
	if len(files) == 0 {
		return decodePtr[Post](s.postJSON(ctx, route, data, opts))
	}
	body, err := upload.EncodeMixed(data, files)
	if err != nil {
		return nil, err
	}
	return decodePtr[Post](s.post(ctx, route, body, opts))
}

func (s *Service) UpdatePost(ctx context.Context, orgUnitID, forumID, topicID, postID int64, data UpdatePostData, opts ...client.Option) (*Post, error) {
	return decodePtr[Post](s.putJSON(ctx, postRoute(opts, orgUnitID, forumID, topicID, postID, ""), data, opts))
}

// SetPostApproval approves or unapproves a post awaiting moderation.
func (s *Service) SetPostApproval(ctx context.Context, orgUnitID, forumID, topicID, postID int64, approved bool, opts ...client.Option) (*ApprovalData, error) {
	return decodePtr[ApprovalData](s.putJSON(ctx, postRoute(opts, orgUnitID, forumID, topicID, postID, "/Approval"), ApprovalData{IsApproved: approved}, opts))
}

func (s *Service) SetPostFlag(ctx context.Context, orgUnitID, forumID, topicID, postID int64, flagged bool, opts ...client.Option) (*FlagData, error) {
	return decodePtr[FlagData](s.putJSON(ctx, postRoute(opts, orgUnitID, forumID, topicID, postID, "/Flag"), FlagData{IsFlagged: flagged}, opts))
}

// SetMyPostRating rates a post; rating is clamped to 1..5.
func (s *Service) SetMyPostRating(ctx context.Context, orgUnitID, forumID, topicID, postID int64, rating int, opts ...client.Option) (*UserRatingData, error) {
	return decodePtr[UserRatingData](s.putJSON(ctx, postRoute(opts, orgUnitID, forumID, topicID, postID, "/Rating/MyRating"), NewUserRating(rating), opts))
}

func (s *Service) SetPostReadStatus(ctx context.Context, orgUnitID, forumID, topicID, postID int64, read bool, opts ...client.Option) (*ReadStatusData, error) {
	return decodePtr[ReadStatusData](s.putJSON(ctx, postRoute(opts, orgUnitID, forumID, topicID, postID, "/ReadStatus"), ReadStatusData{IsRead: read}, opts))
}
