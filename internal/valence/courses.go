package valence

import (
	"context"

	"valence-go/internal/client"
)

// CourseOffering is a course offering with its template, semester and
// department, each nil when not set.
type CourseOffering struct {
	Identifier     string
	Name           string
	Code           string
	IsActive       bool
	Path           string
	StartDate      *string
	EndDate        *string
	CourseTemplate *BasicOrgUnit
	Semester       *BasicOrgUnit
	Department     *BasicOrgUnit
}

// BasicOrgUnit is the short form of an org unit nested in other records.
type BasicOrgUnit struct {
	Identifier string
	Name       string
	Code       string
}

// CourseOfferingInfo is the body of a course offering update.
type CourseOfferingInfo struct {
	Name      string
	Code      string
	StartDate *string
	EndDate   *string
	IsActive  bool
}

// CreateCourseOffering is the body of a course offering create.
type CreateCourseOffering struct {
	Name             string
	Code             string
	Path             string
	CourseTemplateId int64
	SemesterId       *int64
	StartDate        *string
	EndDate          *string
	LocaleId         *int64
	ForceLocale      bool
	ShowAddressBook  bool
}

// CourseTemplate is a course template org unit.
type CourseTemplate struct {
	Identifier string
	Name       string
	Code       string
	Path       string
}

// CourseTemplateInfo is the body of a course template update.
type CourseTemplateInfo struct {
	Name string
	Code string
}

// CreateCourseTemplate is the body of a course template create.
type CreateCourseTemplate struct {
	Name             string
	Code             string
	Path             string
	ParentOrgUnitIds []int64
}

// SchemaElement lists the org unit types allowed around a course or template.
type SchemaElement struct {
	OrgUnitType     OrgUnitTypeInfo
	AllowedChildren []OrgUnitTypeInfo
	AllowedParents  []OrgUnitTypeInfo
}

func (s *Service) DeleteCourseOffering(ctx context.Context, orgUnitID int64, opts ...client.Option) error {
	return discard(s.del(ctx, lp("1.0", opts, "/courses/%d", orgUnitID), opts))
}

func (s *Service) CourseSchema(ctx context.Context, opts ...client.Option) ([]SchemaElement, error) {
	return decode[[]SchemaElement](s.get(ctx, lp("1.0", opts, "/courses/schema"), opts))
}

func (s *Service) CourseOffering(ctx context.Context, orgUnitID int64, opts ...client.Option) (*CourseOffering, error) {
	return decodePtr[CourseOffering](s.get(ctx, lp("1.0", opts, "/courses/%d", orgUnitID), opts))
}

func (s *Service) CreateCourseOffering(ctx context.Context, data CreateCourseOffering, opts ...client.Option) (*CourseOffering, error) {
	return decodePtr[CourseOffering](s.postJSON(ctx, lp("1.0", opts, "/courses/"), data, opts))
}

func (s *Service) UpdateCourseOffering(ctx context.Context, orgUnitID int64, data CourseOfferingInfo, opts ...client.Option) error {
	return discard(s.putJSON(ctx, lp("1.0", opts, "/courses/%d", orgUnitID), data, opts))
}

func (s *Service) DeleteCourseTemplate(ctx context.Context, orgUnitID int64, opts ...client.Option) error {
	return discard(s.del(ctx, lp("1.0", opts, "/coursetemplates/%d", orgUnitID), opts))
}

func (s *Service) CourseTemplate(ctx context.Context, orgUnitID int64, opts ...client.Option) (*CourseTemplate, error) {
	return decodePtr[CourseTemplate](s.get(ctx, lp("1.0", opts, "/coursetemplates/%d", orgUnitID), opts))
}

func (s *Service) CourseTemplateSchema(ctx context.Context, opts ...client.Option) ([]SchemaElement, error) {
	return decode[[]SchemaElement](s.get(ctx, lp("1.0", opts, "/coursetemplates/schema"), opts))
}

func (s *Service) CreateCourseTemplate(ctx context.Context, data CreateCourseTemplate, opts ...client.Option) (*CourseTemplate, error) {
	return decodePtr[CourseTemplate](s.postJSON(ctx, lp("1.0", opts, "/coursetemplates/"), data, opts))
}

func (s *Service) UpdateCourseTemplate(ctx context.Context, orgUnitID int64, data CourseTemplateInfo, opts ...client.Option) error {
	return discard(s.putJSON(ctx, lp("1.0", opts, "/coursetemplates/%d", orgUnitID), data, opts))
}
