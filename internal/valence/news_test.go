package valence

import (
	"context"
	"mime"
	"net/http"
	"strings"
	"testing"
)

func TestCreateNewsItem_NoFiles(t *testing.T) {
	svc, f := newFake(t, jsonType, `{"Id":3,"Title":"Hello"}`)

	data := NewsItemData{Title: "Hello", Body: NewRichTextInput("<p>hi</p>", true), StartDate: "2024-01-01T00:00:00.000Z"}
	got, err := svc.CreateNewsItem(context.Background(), 6606, data, nil)
	if err != nil {
		t.Fatalf("CreateNewsItem() error = %v", err)
	}
	if got.Id != 3 {
		t.Errorf("Id = %d, want 3", got.Id)
	}

	req := f.last(t)
	_, params, err := mime.ParseMediaType(req.ContentType)
	if err != nil {
		t.Fatalf("ParseMediaType(%q) error = %v", req.ContentType, err)
	}
	b := params["boundary"]
	if !strings.HasPrefix(req.Body, "--"+b+"\r\nContent-Type: application/json\r\n\r\n") {
		t.Errorf("body does not open with descriptor part:\n%s", req.Body)
	}
	if !strings.HasSuffix(req.Body, "\r\n--"+b+"--") || strings.Count(req.Body, "--"+b) != 2 {
		t.Errorf("want descriptor plus terminator only:\n%s", req.Body)
	}
}

func TestMyFeed_Query(t *testing.T) {
	svc, f := newFake(t, jsonType, `[]`)

	if _, err := svc.MyFeed(context.Background(), "2024-01-01T00:00:00.000Z", ""); err != nil {
		t.Fatalf("MyFeed() error = %v", err)
	}
	req := f.last(t)
	if req.Path != "/d2l/api/lp/1.0/feed/" || req.Query.Get("since") == "" || req.Query.Has("until") {
		t.Errorf("request = %s?%s", req.Path, req.Query.Encode())
	}
}

func TestCalendarEvents_AssociatedOnly(t *testing.T) {
	svc, f := newFake(t, jsonType, `[]`)

	if _, err := svc.CalendarEvents(context.Background(), 6606, true); err != nil {
		t.Fatalf("CalendarEvents() error = %v", err)
	}
	req := f.last(t)
	if req.Method != http.MethodGet || req.Path != "/d2l/api/le/1.1/6606/calendar/events/" || req.Query.Get("associatedEventsOnly") != "true" {
		t.Errorf("request = %s %s?%s", req.Method, req.Path, req.Query.Encode())
	}
}
