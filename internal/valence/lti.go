package valence

import (
	"context"

	"valence-go/internal/client"
)

// LTIToolProvider is an LTI tool provider registered for an org unit.
type LTIToolProvider struct {
	LtiProviderId    int64
	OrgUnitId        int64
	LaunchPoint      string
	UseDefaultTcInfo bool
	Key              string
	Name             string
	Description      string
	ContactEmail     string
	IsVisible        bool
}

func (s *Service) LTIToolProviders(ctx context.Context, orgUnitID int64, opts ...client.Option) ([]LTIToolProvider, error) {
	return decode[[]LTIToolProvider](s.get(ctx, le("1.3", opts, "/lti/tp/%d/", orgUnitID), opts))
}

func (s *Service) LTIToolProvider(ctx context.Context, orgUnitID, providerID int64, opts ...client.Option) (*LTIToolProvider, error) {
	return decodePtr[LTIToolProvider](s.get(ctx, le("1.3", opts, "/lti/tp/%d/%d", orgUnitID, providerID), opts))
}
