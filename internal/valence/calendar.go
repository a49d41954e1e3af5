package valence

import (
	"context"

	"valence-go/internal/client"
)

func (s *Service) DeleteCalendarEvent(ctx context.Context, orgUnitID, eventID int64, opts ...client.Option) error {
	return discard(s.del(ctx, le("1.1", opts, "/%d/calendar/event/%d", orgUnitID, eventID), opts))
}

func (s *Service) CalendarEvent(ctx context.Context, orgUnitID, eventID int64, opts ...client.Option) (*client.Content, error) {
	return s.get(ctx, le("1.1", opts, "/%d/calendar/event/%d", orgUnitID, eventID), opts)
}

// CalendarEvents lists events for an org unit, optionally only those
// associated with it directly.
func (s *Service) CalendarEvents(ctx context.Context, orgUnitID int64, associatedOnly bool, opts ...client.Option) (*client.Content, error) {
	if associatedOnly {
		opts = withQuery(opts, "associatedEventsOnly", "true")
	}
	return s.get(ctx, le("1.1", opts, "/%d/calendar/events/", orgUnitID), opts)
}
