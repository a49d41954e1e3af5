package valence

import (
	"context"

	"valence-go/internal/client"
)

// ClasslistUser is one user on a course classlist.
type ClasslistUser struct {
	Identifier        string
	ProfileIdentifier string
	DisplayName       string
	UserName          string
	OrgDefinedId      string
	Email             string
}

// EnrollmentData is a user's role in an org unit. IsCascading is set when
// the enrollment was inherited from a parent org unit.
type EnrollmentData struct {
	OrgUnitId   int64
	UserId      int64
	RoleId      int64
	IsCascading bool
}

// CreateEnrollmentData is the body of an enrollment create.
type CreateEnrollmentData struct {
	OrgUnitId int64
	UserId    int64
	RoleId    int64
}

// OrgUnitInfo is the short form of an org unit in enrollment listings.
type OrgUnitInfo struct {
	Id   int64
	Type OrgUnitTypeInfo
	Name string
	Code string
}

// AccessInfo is a user's access window to an org unit.
type AccessInfo struct {
	IsActive  bool
	StartDate *string
	EndDate   *string
	CanAccess bool
}

// MyOrgUnitInfo is one of the calling user's enrollments with its access
// window.
type MyOrgUnitInfo struct {
	OrgUnit OrgUnitInfo
	Access  AccessInfo
}

// RoleInfo is the short form of a role in enrollment listings.
type RoleInfo struct {
	Id   int64
	Code string
	Name string
}

// OrgUnitUser is one user enrolled in an org unit.
type OrgUnitUser struct {
	User User
	Role RoleInfo
}

// UserOrgUnit is one org unit a user is enrolled in.
type UserOrgUnit struct {
	OrgUnit OrgUnitInfo
	Role    RoleInfo
}

// Classlist returns the class list of a course offering.
func (s *Service) Classlist(ctx context.Context, orgUnitID int64, opts ...client.Option) ([]ClasslistUser, error) {
	return decode[[]ClasslistUser](s.get(ctx, le("1.0", opts, "/%d/classlist/", orgUnitID), opts))
}

// DeleteEnrollment removes a user from an org unit. orgFirst selects the
// orgUnits/{ou}/users/{u} form of the route over users/{u}/orgUnits/{ou}.
func (s *Service) DeleteEnrollment(ctx context.Context, orgUnitID, userID int64, orgFirst bool, opts ...client.Option) error {
	return discard(s.del(ctx, enrollmentRoute(orgUnitID, userID, orgFirst, opts), opts))
}

// Enrollment returns one user's enrollment in an org unit.
func (s *Service) Enrollment(ctx context.Context, orgUnitID, userID int64, orgFirst bool, opts ...client.Option) (*EnrollmentData, error) {
	return decodePtr[EnrollmentData](s.get(ctx, enrollmentRoute(orgUnitID, userID, orgFirst, opts), opts))
}

func enrollmentRoute(orgUnitID, userID int64, orgFirst bool, opts []client.Option) string {
	if orgFirst {
		return lp("1.0", opts, "/enrollments/orgUnits/%d/users/%d", orgUnitID, userID)
	}
	return lp("1.0", opts, "/enrollments/users/%d/orgUnits/%d", userID, orgUnitID)
}

// MyEnrollments returns one page of the caller's enrollments, optionally
// filtered by org unit type.
func (s *Service) MyEnrollments(ctx context.Context, ouTypeID int64, bookmark string, opts ...client.Option) (*PagedResultSet[MyOrgUnitInfo], error) {
	opts = withQuery(opts, "bookmark", bookmark, "orgUnitTypeId", itoa(ouTypeID))
	return decodePtr[PagedResultSet[MyOrgUnitInfo]](s.get(ctx, lp("1.0", opts, "/enrollments/myenrollments/"), opts))
}

// EnrolledUsers returns one page of users enrolled in an org unit.
func (s *Service) EnrolledUsers(ctx context.Context, orgUnitID, roleID int64, bookmark string, opts ...client.Option) (*PagedResultSet[OrgUnitUser], error) {
	opts = withQuery(opts, "bookmark", bookmark, "roleId", itoa(roleID))
	return decodePtr[PagedResultSet[OrgUnitUser]](s.get(ctx, lp("1.0", opts, "/enrollments/orgUnits/%d/users/", orgUnitID), opts))
}

// UserEnrollments returns one page of the org units a user is enrolled in.
func (s *Service) UserEnrollments(ctx context.Context, userID, ouTypeID, roleID int64, bookmark string, opts ...client.Option) (*PagedResultSet[UserOrgUnit], error) {
	opts = withQuery(opts, "bookmark", bookmark, "orgUnitTypeId", itoa(ouTypeID), "roleId", itoa(roleID))
	return decodePtr[PagedResultSet[UserOrgUnit]](s.get(ctx, lp("1.0", opts, "/enrollments/users/%d/orgUnits/", userID), opts))
}

func (s *Service) CreateEnrollment(ctx context.Context, data CreateEnrollmentData, opts ...client.Option) (*EnrollmentData, error) {
	return decodePtr[EnrollmentData](s.postJSON(ctx, lp("1.0", opts, "/enrollments/"), data, opts))
}
