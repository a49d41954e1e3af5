package valence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestDecodeGradeObject_Dispatch(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"numeric", `{"Id":1,"GradeType":"Numeric","Name":"Quiz","MaxPoints":10,"CanExceedMaxPoints":true}`, "*valence.NumericGradeObject"},
		{"pass fail", `{"Id":2,"GradeType":"PassFail","Name":"Attend"}`, "*valence.PassFailGradeObject"},
		{"select box", `{"Id":3,"GradeType":"SelectBox","Name":"Level","GradeSchemeId":4}`, "*valence.SelectBoxGradeObject"},
		{"text", `{"Id":4,"GradeType":"Text","Name":"Notes"}`, "*valence.TextGradeObject"},
		{"unknown type", `{"Id":5,"GradeType":"Formula","Name":"Calc"}`, "*valence.UnknownGradeObject"},
		{"missing type", `{"Id":6,"Name":"Bare"}`, "*valence.UnknownGradeObject"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := DecodeGradeObject([]byte(tt.raw))
			if err != nil {
				t.Fatalf("DecodeGradeObject() error = %v", err)
			}
			if got := fmt.Sprintf("%T", g); got != tt.want {
				t.Errorf("variant = %s, want %s", got, tt.want)
			}
			if g.Common().Id == 0 || g.Common().Name == "" {
				t.Errorf("common fields not decoded: %+v", g.Common())
			}
		})
	}
}

func TestDecodeGradeObject_NumericFields(t *testing.T) {
	g, err := DecodeGradeObject([]byte(`{"Id":1,"GradeType":"Numeric","Name":"Quiz","ShortName":"Q","CategoryId":7,"MaxPoints":10,"IsBonus":true,"GradeSchemeId":null}`))
	if err != nil {
		t.Fatalf("DecodeGradeObject() error = %v", err)
	}
	n, ok := g.(*NumericGradeObject)
	if !ok {
		t.Fatalf("variant = %T, want *NumericGradeObject", g)
	}
	if n.CategoryId != 7 || n.MaxPoints != 10 || !n.IsBonus || n.GradeSchemeId != nil {
		t.Errorf("NumericGradeObject = %+v", n)
	}
}

func TestUnknownGradeObject_KeepsRaw(t *testing.T) {
	raw := `{"Id":5,"GradeType":"Formula","Name":"Calc","Formula":"[a]+[b]"}`
	g, err := DecodeGradeObject([]byte(raw))
	if err != nil {
		t.Fatalf("DecodeGradeObject() error = %v", err)
	}
	u := g.(*UnknownGradeObject)
	if string(u.Raw) != raw {
		t.Errorf("Raw = %s, want %s", u.Raw, raw)
	}
	if u.GradeType != "Formula" {
		t.Errorf("GradeType = %q, want Formula", u.GradeType)
	}
}

func TestGradeObjectInput_MarshalSetsGradeType(t *testing.T) {
	scheme := int64(3)
	tests := []struct {
		in   GradeObjectInput
		want string
	}{
		{NumericGradeObjectInput{Name: "Quiz", MaxPoints: 10, GradeSchemeId: &scheme}, "Numeric"},
		{PassFailGradeObjectInput{Name: "Attend"}, "PassFail"},
		{SelectBoxGradeObjectInput{Name: "Level", GradeSchemeId: 3}, "SelectBox"},
		{TextGradeObjectInput{Name: "Notes"}, "Text"},
	}
	for _, tt := range tests {
		data, err := json.Marshal(tt.in)
		if err != nil {
			t.Fatalf("Marshal(%T) error = %v", tt.in, err)
		}
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatalf("Unmarshal error = %v", err)
		}
		if m["GradeType"] != tt.want {
			t.Errorf("%T GradeType = %v, want %s", tt.in, m["GradeType"], tt.want)
		}
		if m["Name"] == nil {
			t.Errorf("%T lost its Name field: %s", tt.in, data)
		}
	}
}

func TestGradeValue_Computable(t *testing.T) {
	var with, without GradeValue
	if err := json.Unmarshal([]byte(`{"DisplayedGrade":"8 / 10","PointsNumerator":8,"PointsDenominator":10}`), &with); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	if err := json.Unmarshal([]byte(`{"DisplayedGrade":"Pass","GradeObjectType":2}`), &without); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	if !with.IsComputable() || *with.PointsNumerator != 8 {
		t.Errorf("with points: IsComputable() = %v, PointsNumerator = %v", with.IsComputable(), with.PointsNumerator)
	}
	if without.IsComputable() {
		t.Error("without points: IsComputable() = true, want false")
	}
}

func TestIncomingGradeValue_Variants(t *testing.T) {
	tests := []struct {
		in   IncomingGradeValue
		want map[string]any
	}{
		{NumericGradeValue(7.5), map[string]any{"GradeObjectType": 1.0, "PointsNumerator": 7.5}},
		{PassFailGradeValue(true), map[string]any{"GradeObjectType": 2.0, "Pass": true}},
		{SelectBoxGradeValue("A"), map[string]any{"GradeObjectType": 3.0, "Value": "A"}},
		{TextGradeValue("done"), map[string]any{"GradeObjectType": 4.0, "Text": "done"}},
	}
	for _, tt := range tests {
		data, err := json.Marshal(tt.in)
		if err != nil {
			t.Fatalf("Marshal error = %v", err)
		}
		var got map[string]any
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Unmarshal error = %v", err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("body mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestGradeObjects_List(t *testing.T) {
	svc, f := newFake(t, jsonType, `[{"Id":1,"GradeType":"Numeric","Name":"A"},{"Id":2,"GradeType":"Weird","Name":"B"}]`)

	got, err := svc.GradeObjects(context.Background(), 6606)
	if err != nil {
		t.Fatalf("GradeObjects() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if _, ok := got[0].(*NumericGradeObject); !ok {
		t.Errorf("got[0] = %T, want *NumericGradeObject", got[0])
	}
	if _, ok := got[1].(*UnknownGradeObject); !ok {
		t.Errorf("got[1] = %T, want *UnknownGradeObject", got[1])
	}
	if p := f.last(t).Path; p != "/d2l/api/le/1.0/6606/grades/" {
		t.Errorf("path = %q", p)
	}
}

func TestUpdateGradeObject_RouteCarriesID(t *testing.T) {
	svc, f := newFake(t, jsonType, `{"Id":3,"GradeType":"Text","Name":"Notes"}`)

	if _, err := svc.UpdateGradeObject(context.Background(), 6606, 3, TextGradeObjectInput{Name: "Notes"}); err != nil {
		t.Fatalf("UpdateGradeObject() error = %v", err)
	}
	got := f.last(t)
	if got.Method != http.MethodPut || got.Path != "/d2l/api/le/1.0/6606/grades/3" {
		t.Errorf("request = %s %s, want PUT /d2l/api/le/1.0/6606/grades/3", got.Method, got.Path)
	}
	var body map[string]any
	if err := json.Unmarshal([]byte(got.Body), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["GradeType"] != "Text" {
		t.Errorf("GradeType = %v, want Text", body["GradeType"])
	}
}

func TestOrgCourseCompletions_Filters(t *testing.T) {
	svc, f := newFake(t, jsonType, `{"PagingInfo":{"Bookmark":"","HasMoreItems":false},"Items":[{"OrgUnitId":5,"CompletionId":1,"UserId":9,"CompletedDate":"2024-01-01T00:00:00.000Z"}]}`)

	page, err := svc.OrgCourseCompletions(context.Background(), 5, CompletionFilter{UserID: 9, StartExpiry: "2024-01-01T00:00:00.000Z"})
	if err != nil {
		t.Fatalf("OrgCourseCompletions() error = %v", err)
	}
	want := []CourseCompletion{{OrgUnitId: 5, CompletionId: 1, UserId: 9, CompletedDate: "2024-01-01T00:00:00.000Z"}}
	if diff := cmp.Diff(want, page.Items, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Items mismatch (-want +got):\n%s", diff)
	}
	q := f.last(t).Query
	if q.Get("userId") != "9" || q.Get("startExpiry") == "" || q.Has("endExpiry") || q.Has("bookmark") {
		t.Errorf("query = %v", q)
	}
}
