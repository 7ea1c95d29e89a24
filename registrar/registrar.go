package registrar

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/plexusone/agentcore-confluence-gateway/internal/log"
	"github.com/plexusone/agentcore-confluence-gateway/params"
)

// Registrar upserts providers and persists their ARNs.
type Registrar struct {
	store  *params.Resolver
	logger *slog.Logger
}

// New returns a Registrar that persists ARNs through store.
func New(store *params.Resolver, logger *slog.Logger) *Registrar {
	return &Registrar{store: store, logger: log.OrDefault(logger)}
}

// Register upserts p and writes its ARN to p.ParameterName(), overwriting any
// previous value. A failed chain returns a *RegistrationError.
func (r *Registrar) Register(ctx context.Context, p Provider) (Result, error) {
	logger := r.logger.With("provider", p.Name())

	res := Upsert(ctx, p)
	for _, a := range res.Attempts {
		if a.Err != nil {
			logger.Warn("credential provider step failed", "step", a.Step, "error", a.Err)
		} else {
			logger.Debug("credential provider step succeeded", "step", a.Step, "arn", a.ARN)
		}
	}
	if !res.OK() {
		return res, &RegistrationError{Provider: p.Name(), Attempts: res.Attempts}
	}
	logger.Info("credential provider resolved", "outcome", res.Outcome, "arn", res.ARN)

	if err := r.store.Put(ctx, p.ParameterName(), res.ARN, p.Description()); err != nil {
		return res, fmt.Errorf("storing provider ARN: %w", err)
	}
	return res, nil
}

// ResolveRegion prefers the canonical region parameter and falls back to
// fallback on any lookup failure.
func ResolveRegion(ctx context.Context, store *params.Resolver, fallback string) string {
	region, found, err := store.GetOptional(ctx, params.Region)
	if err != nil || !found || region == "" {
		return fallback
	}
	return region
}
