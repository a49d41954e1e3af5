package valence

import (
	"context"

	"valence-go/internal/client"
)

// CourseCompletion records that a user completed a course. ExpiryDate is
// nil for completions that never expire.
type CourseCompletion struct {
	OrgUnitId     int64
	CompletionId  int64
	UserId        int64
	CompletedDate string
	ExpiryDate    *string
}

// CourseCompletionCreateData is the body of a completion create.
type CourseCompletionCreateData struct {
	UserId        int64
	CompletedDate string
	ExpiryDate    *string
}

// CourseCompletionUpdateData is the body of a completion update.
type CourseCompletionUpdateData struct {
	CompletedDate string
	ExpiryDate    *string
}

// CompletionFilter narrows course completion listings. Empty fields are omitted.
type CompletionFilter struct {
	UserID      int64
	StartExpiry string
	EndExpiry   string
	Bookmark    string
}

func (s *Service) DeleteCourseCompletion(ctx context.Context, orgUnitID, completionID int64, opts ...client.Option) error {
	return discard(s.del(ctx, le("1.1", opts, "/%d/grades/courseCompletion/%d", orgUnitID, completionID), opts))
}

func (s *Service) OrgCourseCompletions(ctx context.Context, orgUnitID int64, f CompletionFilter, opts ...client.Option) (*PagedResultSet[CourseCompletion], error) {
	opts = withQuery(opts, "userId", itoa(f.UserID), "startExpiry", f.StartExpiry, "endExpiry", f.EndExpiry, "bookmark", f.Bookmark)
	return decodePtr[PagedResultSet[CourseCompletion]](s.get(ctx, le("1.1", opts, "/%d/grades/courseCompletion/", orgUnitID), opts))
}

// UserCourseCompletions lists a user's completions across org units. f.UserID is ignored.
func (s *Service) UserCourseCompletions(ctx context.Context, userID int64, f CompletionFilter, opts ...client.Option) (*PagedResultSet[CourseCompletion], error) {
	opts = withQuery(opts, "startExpiry", f.StartExpiry, "endExpiry", f.EndExpiry, "bookmark", f.Bookmark)
	return decodePtr[PagedResultSet[CourseCompletion]](s.get(ctx, le("1.1", opts, "/grades/courseCompletion/%d/", userID), opts))
}

func (s *Service) CreateCourseCompletion(ctx context.Context, orgUnitID int64, data CourseCompletionCreateData, opts ...client.Option) (*CourseCompletion, error) {
	return decodePtr[CourseCompletion](s.postJSON(ctx, le("1.1", opts, "/%d/grades/courseCompletion/", orgUnitID), data, opts))
}

// UpdateCourseCompletion updates a completion record. The API takes a POST here.
func (s *Service) UpdateCourseCompletion(ctx context.Context, orgUnitID, completionID int64, data CourseCompletionUpdateData, opts ...client.Option) (*CourseCompletion, error) {
	return decodePtr[CourseCompletion](s.postJSON(ctx, le("1.1", opts, "/%d/grades/courseCompletion/%d", orgUnitID, completionID), data, opts))
}
