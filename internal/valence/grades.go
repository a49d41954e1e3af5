package valence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"valence-go/internal/client"
)

// GradeObject is one of NumericGradeObject, PassFailGradeObject,
// SelectBoxGradeObject, TextGradeObject or UnknownGradeObject, selected by
// the GradeType field.
type GradeObject interface {
	Common() *GradeObjectBase
}

// GradeObjectBase holds the fields every grade object carries. GradeType
// names the variant and CategoryId is zero for uncategorised objects.
type GradeObjectBase struct {
	Id          int64
	GradeType   string
	Name        string
	ShortName   string
	CategoryId  int64
	Description RichText
}

// Common returns the shared fields, letting a GradeObject of any variant
// be inspected without a type switch.
func (g *GradeObjectBase) Common() *GradeObjectBase { return g }

// NumericGradeObject is graded in points out of MaxPoints. GradeSchemeId is
// nil when the org default scheme applies.
type NumericGradeObject struct {
	GradeObjectBase
	MaxPoints                        float64
	CanExceedMaxPoints               bool
	IsBonus                          bool
	ExcludeFromFinalGradeCalculation bool
	GradeSchemeId                    *int64
}

// PassFailGradeObject is graded pass or fail. MaxPoints is awarded on a pass.
type PassFailGradeObject struct {
	GradeObjectBase
	MaxPoints                        float64
	IsBonus                          bool
	ExcludeFromFinalGradeCalculation bool
	GradeSchemeId                    *int64
}

// SelectBoxGradeObject is graded by picking a symbol of its grade scheme,
// so GradeSchemeId is required.
type SelectBoxGradeObject struct {
	GradeObjectBase
	MaxPoints                        float64
	IsBonus                          bool
	ExcludeFromFinalGradeCalculation bool
	GradeSchemeId                    int64
}

// TextGradeObject carries free-text feedback and does not count towards the
// final grade.
type TextGradeObject struct {
	GradeObjectBase
}

// UnknownGradeObject keeps a grade object whose GradeType is not recognised.
type UnknownGradeObject struct {
	GradeObjectBase
	Raw json.RawMessage
}

// DecodeGradeObject decodes raw into the variant named by its GradeType.
func DecodeGradeObject(raw []byte) (GradeObject, error) {
	var (
		g   GradeObject
		err error
	)
	switch gjson.GetBytes(raw, "GradeType").String() {
	case "Numeric":
		v := &NumericGradeObject{}
		g, err = v, json.Unmarshal(raw, v)
	case "PassFail":
		v := &PassFailGradeObject{}
		g, err = v, json.Unmarshal(raw, v)
	case "SelectBox":
		v := &SelectBoxGradeObject{}
		g, err = v, json.Unmarshal(raw, v)
	case "Text":
		v := &TextGradeObject{}
		g, err = v, json.Unmarshal(raw, v)
	default:
		v := &UnknownGradeObject{Raw: append(json.RawMessage(nil), raw...)}
		g, err = v, json.Unmarshal(raw, &v.GradeObjectBase)
	}
	if err != nil {
		return nil, fmt.Errorf("decode grade object: %w", err)
	}
	return g, nil
}

func decodeGradeObjects(c *client.Content, err error) ([]GradeObject, error) {
	raws, err := decode[[]json.RawMessage](c, err)
	if err != nil {
		return nil, err
	}
	out := make([]GradeObject, 0, len(raws))
	for _, raw := range raws {
		g, err := DecodeGradeObject(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func decodeGradeObject(c *client.Content, err error) (GradeObject, error) {
	raw, err := decode[json.RawMessage](c, err)
	if err != nil {
		return nil, err
	}
	return DecodeGradeObject(raw)
}

// GradeObjectInput is the body of a grade object create or update. The
// concrete type sets GradeType on the wire.
type GradeObjectInput interface {
	gradeType() string
}

// NumericGradeObjectInput creates or updates a Numeric grade object.
type NumericGradeObjectInput struct {
	Name                             string
	ShortName                        string
	CategoryId                       int64
	Description                      RichTextInput
	MaxPoints                        float64
	CanExceedMaxPoints               bool
	IsBonus                          bool
	ExcludeFromFinalGradeCalculation bool
	GradeSchemeId                    *int64
}

// PassFailGradeObjectInput creates or updates a PassFail grade object.
type PassFailGradeObjectInput struct {
	Name                             string
	ShortName                        string
	CategoryId                       int64
	Description                      RichTextInput
	MaxPoints                        float64
	IsBonus                          bool
	ExcludeFromFinalGradeCalculation bool
	GradeSchemeId                    *int64
}

// SelectBoxGradeObjectInput creates or updates a SelectBox grade object.
type SelectBoxGradeObjectInput struct {
	Name                             string
	ShortName                        string
	CategoryId                       int64
	Description                      RichTextInput
	MaxPoints                        float64
	IsBonus                          bool
	ExcludeFromFinalGradeCalculation bool
	GradeSchemeId                    int64
}

// TextGradeObjectInput creates or updates a Text grade object.
type TextGradeObjectInput struct {
	Name        string
	ShortName   string
	CategoryId  int64
	Description RichTextInput
}

func (NumericGradeObjectInput) gradeType() string   { return "Numeric" }
func (PassFailGradeObjectInput) gradeType() string  { return "PassFail" }
func (SelectBoxGradeObjectInput) gradeType() string { return "SelectBox" }
func (TextGradeObjectInput) gradeType() string      { return "Text" }

// MarshalJSON writes the input with its GradeType discriminator.
func (g NumericGradeObjectInput) MarshalJSON() ([]byte, error) {
	type plain NumericGradeObjectInput
	return json.Marshal(struct {
		GradeType string
		plain
	}{g.gradeType(), plain(g)})
}

func (g PassFailGradeObjectInput) MarshalJSON() ([]byte, error) {
	type plain PassFailGradeObjectInput
	return json.Marshal(struct {
		GradeType string
		plain
	}{g.gradeType(), plain(g)})
}

func (g SelectBoxGradeObjectInput) MarshalJSON() ([]byte, error) {
	type plain SelectBoxGradeObjectInput
	return json.Marshal(struct {
		GradeType string
		plain
	}{g.gradeType(), plain(g)})
}

func (g TextGradeObjectInput) MarshalJSON() ([]byte, error) {
	type plain TextGradeObjectInput
	return json.Marshal(struct {
		GradeType string
		plain
	}{g.gradeType(), plain(g)})
}

// GradeObjectCategory groups grade objects. The pointer fields are nil when
// the category leaves the setting to its grade objects. Grades holds the
// member objects undecoded.
type GradeObjectCategory struct {
	Id                     int64
	Name                   string
	ShortName              string
	CanExceedMax           bool
	ExcludeFromFinalGrade  bool
	StartDate              *string
	EndDate                *string
	Weight                 *float64
	MaxPoints              *float64
	AutoPoints             *bool
	WeightDistributionType *int
	NumberOfHighestToDrop  *int
	NumberOfLowestToDrop   *int
	Grades                 []json.RawMessage `json:",omitempty"`
}

// GradeObjectCategoryData is the body of a grade category create.
type GradeObjectCategoryData struct {
	Name                   string
	ShortName              string
	CanExceedMax           bool
	ExcludeFromFinalGrade  bool
	StartDate              *string
	EndDate                *string
	Weight                 *float64
	MaxPoints              *float64
	AutoPoints             *bool
	WeightDistributionType *int
	NumberOfHighestToDrop  *int
	NumberOfLowestToDrop   *int
}

// GradeSchemeRange maps grades from PercentStart upwards to Symbol until the
// next range begins.
type GradeSchemeRange struct {
	PercentStart  float64
	Symbol        string
	AssignedValue *float64
	Colour        string
}

// GradeScheme is an ordered set of symbol ranges used to display grades.
type GradeScheme struct {
	Id        int64
	Name      string
	ShortName string
	Ranges    []GradeSchemeRange
}

// GradeValue is a user's grade on a grade object. The points fields are set
// only for computable values; see IsComputable.
type GradeValue struct {
	DisplayedGrade        string
	GradeObjectIdentifier string
	GradeObjectName       string
	GradeObjectType       int
	GradeObjectTypeName   string
	PointsNumerator       *float64
	PointsDenominator     *float64
	WeightedNumerator     *float64
	WeightedDenominator   *float64

	computable bool
}

// IsComputable reports whether the response carried a PointsNumerator field.
func (g *GradeValue) IsComputable() bool { return g.computable }

// UnmarshalJSON decodes the value and records whether it is computable.
func (g *GradeValue) UnmarshalJSON(data []byte) error {
	type plain GradeValue
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*g = GradeValue(p)
	g.computable = gjson.GetBytes(data, "PointsNumerator").Exists()
	return nil
}

// Grade object type codes carried by incoming grade values.
const (
	GradeObjectTypeNumeric   = 1
	GradeObjectTypePassFail  = 2
	GradeObjectTypeSelectBox = 3
	GradeObjectTypeText      = 4
)

// IncomingGradeValue is the body of a grade value update.
type IncomingGradeValue struct {
	Comments        *RichTextInput `json:",omitempty"`
	PrivateComments *RichTextInput `json:",omitempty"`
	GradeObjectType int
	PointsNumerator *float64 `json:",omitempty"`
	Pass            *bool    `json:",omitempty"`
	Value           *string  `json:",omitempty"`
	Text            *string  `json:",omitempty"`
}

// NumericGradeValue builds an update awarding points on a Numeric object.
func NumericGradeValue(points float64) IncomingGradeValue {
	return IncomingGradeValue{GradeObjectType: GradeObjectTypeNumeric, PointsNumerator: &points}
}

// PassFailGradeValue builds an update for a PassFail object.
func PassFailGradeValue(pass bool) IncomingGradeValue {
	return IncomingGradeValue{GradeObjectType: GradeObjectTypePassFail, Pass: &pass}
}

// SelectBoxGradeValue builds an update picking the scheme symbol value.
func SelectBoxGradeValue(value string) IncomingGradeValue {
	return IncomingGradeValue{GradeObjectType: GradeObjectTypeSelectBox, Value: &value}
}

// TextGradeValue builds an update for a Text object.
func TextGradeValue(text string) IncomingGradeValue {
	return IncomingGradeValue{GradeObjectType: GradeObjectTypeText, Text: &text}
}

// IncomingFinalAdjustedGradeValue overrides a user's final adjusted grade.
type IncomingFinalAdjustedGradeValue struct {
	PointsNumerator   *float64
	PointsDenominator *float64
}

func (s *Service) DeleteGradeObject(ctx context.Context, orgUnitID, gradeObjectID int64, opts ...client.Option) error {
	return discard(s.del(ctx, le("1.0", opts, "/%d/grades/%d", orgUnitID, gradeObjectID), opts))
}

// GradeObjects lists the grade objects of an org unit, each decoded to its
// GradeType variant.
func (s *Service) GradeObjects(ctx context.Context, orgUnitID int64, opts ...client.Option) ([]GradeObject, error) {
	return decodeGradeObjects(s.get(ctx, le("1.0", opts, "/%d/grades/", orgUnitID), opts))
}

func (s *Service) GradeObject(ctx context.Context, orgUnitID, gradeObjectID int64, opts ...client.Option) (GradeObject, error) {
	return decodeGradeObject(s.get(ctx, le("1.0", opts, "/%d/grades/%d", orgUnitID, gradeObjectID), opts))
}

func (s *Service) CreateGradeObject(ctx context.Context, orgUnitID int64, in GradeObjectInput, opts ...client.Option) (GradeObject, error) {
	return decodeGradeObject(s.postJSON(ctx, le("1.0", opts, "/%d/grades/", orgUnitID), in, opts))
}

func (s *Service) UpdateGradeObject(ctx context.Context, orgUnitID, gradeObjectID int64, in GradeObjectInput, opts ...client.Option) (GradeObject, error) {
	return decodeGradeObject(s.putJSON(ctx, le("1.0", opts, "/%d/grades/%d", orgUnitID, gradeObjectID), in, opts))
}

func (s *Service) DeleteGradeCategory(ctx context.Context, orgUnitID, categoryID int64, opts ...client.Option) error {
	return discard(s.del(ctx, le("1.0", opts, "/%d/grades/categories/%d", orgUnitID, categoryID), opts))
}

func (s *Service) GradeCategories(ctx context.Context, orgUnitID int64, opts ...client.Option) ([]GradeObjectCategory, error) {
	return decode[[]GradeObjectCategory](s.get(ctx, le("1.0", opts, "/%d/grades/categories/", orgUnitID), opts))
}

func (s *Service) GradeCategory(ctx context.Context, orgUnitID, categoryID int64, opts ...client.Option) (*GradeObjectCategory, error) {
	return decodePtr[GradeObjectCategory](s.get(ctx, le("1.0", opts, "/%d/grades/categories/%d", orgUnitID, categoryID), opts))
}

func (s *Service) CreateGradeCategory(ctx context.Context, orgUnitID int64, data GradeObjectCategoryData, opts ...client.Option) (*GradeObjectCategory, error) {
	return decodePtr[GradeObjectCategory](s.postJSON(ctx, le("1.0", opts, "/%d/grades/categories/", orgUnitID), data, opts))
}

func (s *Service) GradeSchemes(ctx context.Context, orgUnitID int64, opts ...client.Option) ([]GradeScheme, error) {
	return decode[[]GradeScheme](s.get(ctx, le("1.0", opts, "/%d/grades/schemes/", orgUnitID), opts))
}

func (s *Service) GradeScheme(ctx context.Context, orgUnitID, schemeID int64, opts ...client.Option) (*GradeScheme, error) {
	return decodePtr[GradeScheme](s.get(ctx, le("1.0", opts, "/%d/grades/schemes/%d", orgUnitID, schemeID), opts))
}

// MyFinalGradeValue returns the caller's final grade in an org unit.
func (s *Service) MyFinalGradeValue(ctx context.Context, orgUnitID int64, opts ...client.Option) (*GradeValue, error) {
	return decodePtr[GradeValue](s.get(ctx, le("1.0", opts, "/%d/grades/final/values/myGradeValue", orgUnitID), opts))
}

// FinalGradeValue returns a user's final calculated grade.
func (s *Service) FinalGradeValue(ctx context.Context, orgUnitID, userID int64, opts ...client.Option) (*GradeValue, error) {
	return decodePtr[GradeValue](s.get(ctx, le("1.0", opts, "/%d/grades/final/values/%d", orgUnitID, userID), opts))
}

func (s *Service) GradeValue(ctx context.Context, orgUnitID, gradeObjectID, userID int64, opts ...client.Option) (*GradeValue, error) {
	return decodePtr[GradeValue](s.get(ctx, le("1.0", opts, "/%d/grades/%d/values/%d", orgUnitID, gradeObjectID, userID), opts))
}

// MyGradeValue returns the calling user's own grade on a grade object.
func (s *Service) MyGradeValue(ctx context.Context, orgUnitID, gradeObjectID int64, opts ...client.Option) (*GradeValue, error) {
	return decodePtr[GradeValue](s.get(ctx, le("1.0", opts, "/%d/grades/%d/values/myGradeValue", orgUnitID, gradeObjectID), opts))
}

// MyGradeValues returns all of the caller's grade values in an org unit.
func (s *Service) MyGradeValues(ctx context.Context, orgUnitID int64, opts ...client.Option) ([]GradeValue, error) {
	return decode[[]GradeValue](s.get(ctx, le("1.0", opts, "/%d/grades/values/myGradeValues/", orgUnitID), opts))
}

func (s *Service) UserGradeValues(ctx context.Context, orgUnitID, userID int64, opts ...client.Option) ([]GradeValue, error) {
	return decode[[]GradeValue](s.get(ctx, le("1.0", opts, "/%d/grades/values/%d/", orgUnitID, userID), opts))
}

// RecalculateFinalGrade recalculates one user's final grade.
func (s *Service) RecalculateFinalGrade(ctx context.Context, orgUnitID, userID int64, opts ...client.Option) error {
	return discard(s.postJSON(ctx, le("1.0", opts, "/%d/grades/final/calculated/%d", orgUnitID, userID), nil, opts))
}

func (s *Service) RecalculateAllFinalGrades(ctx context.Context, orgUnitID int64, opts ...client.Option) error {
	return discard(s.postJSON(ctx, le("1.0", opts, "/%d/grades/final/calculated/all", orgUnitID), nil, opts))
}

func (s *Service) UpdateFinalAdjustedGrade(ctx context.Context, orgUnitID, userID int64, v IncomingFinalAdjustedGradeValue, opts ...client.Option) error {
	return discard(s.putJSON(ctx, le("1.0", opts, "/%d/grades/final/values/%d", orgUnitID, userID), v, opts))
}

func (s *Service) UpdateGradeValue(ctx context.Context, orgUnitID, gradeObjectID, userID int64, v IncomingGradeValue, opts ...client.Option) error {
	return discard(s.putJSON(ctx, le("1.0", opts, "/%d/grades/%d/values/%d", orgUnitID, gradeObjectID, userID), v, opts))
}
