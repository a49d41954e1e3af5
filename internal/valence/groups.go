package valence

import (
	"context"

	"valence-go/internal/client"
)

// GroupCategory is a set of groups created together in an org unit.
type GroupCategory struct {
	GroupCategoryId      int64
	Name                 string
	Description          RichText
	EnrollmentStyle      string
	EnrollmentQuantity   *int64
	AutoEnroll           bool
	RandomizeEnrollments bool
	Groups               []int64
	MaxUsersPerGroup     *int64
}

func (s *Service) DeleteGroupCategory(ctx context.Context, orgUnitID, categoryID int64, opts ...client.Option) error {
	return discard(s.del(ctx, lp("1.0", opts, "/%d/groupcategories/%d", orgUnitID, categoryID), opts))
}

func (s *Service) DeleteGroup(ctx context.Context, orgUnitID, categoryID, groupID int64, opts ...client.Option) error {
	return discard(s.del(ctx, lp("1.0", opts, "/%d/groupcategories/%d/groups/%d", orgUnitID, categoryID, groupID), opts))
}

// DeleteGroupEnrollment removes a user from a group.
func (s *Service) DeleteGroupEnrollment(ctx context.Context, orgUnitID, categoryID, groupID, userID int64, opts ...client.Option) error {
	return discard(s.del(ctx, lp("1.0", opts, "/%d/groupcategories/%d/groups/%d/enrollments/%d", orgUnitID, categoryID, groupID, userID), opts))
}

func (s *Service) GroupCategories(ctx context.Context, orgUnitID int64, opts ...client.Option) ([]GroupCategory, error) {
	return decode[[]GroupCategory](s.get(ctx, lp("1.0", opts, "/%d/groupcategories/", orgUnitID), opts))
}
