package config

import (
	"context"
	"fmt"
	"strconv"

	"github.com/plexusone/agentcore-confluence-gateway/params"
)

// SmokeSettings locates a deployed gateway for the smoke test.
type SmokeSettings struct {
	Region              string
	GatewayID           string
	ConfluenceSubdomain string
	TestPageID          int64
}

// LoadSmoke resolves SmokeSettings. gatewayID, when non-empty, overrides the
// stored gateway id; otherwise the parameter is required.
func LoadSmoke(ctx context.Context, r *params.Resolver, gatewayID string) (*SmokeSettings, error) {
	if gatewayID == "" {
		var err error
		gatewayID, err = r.Get(ctx, params.GatewayID, "")
		if err != nil {
			return nil, err
		}
	}

	subdomain, err := r.Get(ctx, params.ConfluenceSubdomain, DefaultConfluenceSubdomain)
	if err != nil {
		return nil, err
	}

	rawPageID, err := r.Get(ctx, params.TestPageID, DefaultTestPageID)
	if err != nil {
		return nil, err
	}
	pageID, err := strconv.ParseInt(rawPageID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parameter %s must be numeric, got %q", params.TestPageID, rawPageID)
	}

	return &SmokeSettings{
		Region:              r.Region(),
		GatewayID:           gatewayID,
		ConfluenceSubdomain: subdomain,
		TestPageID:          pageID,
	}, nil
}
