package valence

import (
	"context"
	"encoding/json"

	"valence-go/internal/client"
)

// Role is a user role defined for the organization.
type Role struct {
	Identifier  string
	DisplayName string
	Code        string
}

// Organization describes the root org unit of the LMS.
type Organization struct {
	Identifier string
	Name       string
	TimeZone   string
}

// OrgUnitTypeInfo is the short form of an org unit type.
type OrgUnitTypeInfo struct {
	Id   int64
	Code string
	Name string
}

// OrgUnit is an org unit as returned by relative listings.
type OrgUnit struct {
	Identifier string
	Name       string
	Code       string
	Type       OrgUnitTypeInfo
}

// OrgUnitProperties is an org unit with its path. It is also the body of
// a custom org unit update.
type OrgUnitProperties struct {
	Identifier string
	Name       string
	Code       string
	Path       string
	Type       OrgUnitTypeInfo
}

// OrgUnitCreateData is the body of a custom org unit create. Type is an
// org unit type id and Parents lists the parent org unit ids.
type OrgUnitCreateData struct {
	Type    int64
	Name    string
	Code    string
	Parents []int64
}

// OrgUnitType is an org unit type definition. Permissions is kept
// undecoded.
type OrgUnitType struct {
	Id          int64
	Code        string
	Name        string
	Description string
	SortOrder   int64
	Permissions json.RawMessage `json:",omitempty"`
	CanEdit     bool
	CanDelete   bool
}

func (s *Service) Roles(ctx context.Context, opts ...client.Option) ([]Role, error) {
	return decode[[]Role](s.get(ctx, lp("1.0", opts, "/roles/"), opts))
}

func (s *Service) Role(ctx context.Context, roleID int64, opts ...client.Option) (*Role, error) {
	return decodePtr[Role](s.get(ctx, lp("1.0", opts, "/roles/%d", roleID), opts))
}

func (s *Service) OrganizationInfo(ctx context.Context, opts ...client.Option) (*Organization, error) {
	return decodePtr[Organization](s.get(ctx, lp("1.0", opts, "/organization/info"), opts))
}

// OrgUnitChildren lists the direct children of an org unit, optionally
// filtered by org unit type (zero means any).
func (s *Service) OrgUnitChildren(ctx context.Context, orgUnitID, ouTypeID int64, opts ...client.Option) ([]OrgUnit, error) {
	return s.orgUnitRelatives(ctx, "children", orgUnitID, ouTypeID, opts)
}

func (s *Service) OrgUnitDescendants(ctx context.Context, orgUnitID, ouTypeID int64, opts ...client.Option) ([]OrgUnit, error) {
	return s.orgUnitRelatives(ctx, "descendants", orgUnitID, ouTypeID, opts)
}

func (s *Service) OrgUnitParents(ctx context.Context, orgUnitID, ouTypeID int64, opts ...client.Option) ([]OrgUnit, error) {
	return s.orgUnitRelatives(ctx, "parents", orgUnitID, ouTypeID, opts)
}

func (s *Service) orgUnitRelatives(ctx context.Context, rel string, orgUnitID, ouTypeID int64, opts []client.Option) ([]OrgUnit, error) {
	opts = withQuery(opts, "ouTypeId", itoa(ouTypeID))
	return decode[[]OrgUnit](s.get(ctx, lp("1.0", opts, "/orgstructure/%d/%s/", orgUnitID, rel), opts))
}

func (s *Service) OrgUnitProperties(ctx context.Context, orgUnitID int64, opts ...client.Option) (*OrgUnitProperties, error) {
	return decodePtr[OrgUnitProperties](s.get(ctx, lp("1.3", opts, "/orgstructure/%d", orgUnitID), opts))
}

func (s *Service) CreateCustomOrgUnit(ctx context.Context, data OrgUnitCreateData, opts ...client.Option) (*OrgUnit, error) {
	return decodePtr[OrgUnit](s.postJSON(ctx, lp("1.3", opts, "/orgstructure/"), data, opts))
}

func (s *Service) UpdateCustomOrgUnit(ctx context.Context, orgUnitID int64, props OrgUnitProperties, opts ...client.Option) (*OrgUnitProperties, error) {
	return decodePtr[OrgUnitProperties](s.putJSON(ctx, lp("1.4", opts, "/orgstructure/%d", orgUnitID), props, opts))
}

func (s *Service) OrgUnitTypes(ctx context.Context, opts ...client.Option) ([]OrgUnitType, error) {
	return decode[[]OrgUnitType](s.get(ctx, lp("1.0", opts, "/outypes/"), opts))
}

func (s *Service) OrgUnitType(ctx context.Context, typeID int64, opts ...client.Option) (*OrgUnitType, error) {
	return decodePtr[OrgUnitType](s.get(ctx, lp("1.0", opts, "/outypes/%d", typeID), opts))
}
