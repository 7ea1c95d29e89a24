package cli

import (
	"context"
	"log/slog"

	"github.com/plexusone/agentcore-confluence-gateway/config"
	"github.com/plexusone/agentcore-confluence-gateway/params"
)

// Environment variables read when resolving deployment settings.
const (
	OverlayEnv        = "GATEWAY_CONFIG"
	DefaultAccountEnv = "CDK_DEFAULT_ACCOUNT"
)

// LoadSettings resolves deployment settings for env from the parameter store
// in the clients' region, the CDK default account, STS and the overlay file
// named by GATEWAY_CONFIG.
func LoadSettings(ctx context.Context, clients *AWSClients, env string, getenv func(string) string, logger *slog.Logger) (*config.Settings, error) {
	var overlay *config.Overlay
	if path := getenv(OverlayEnv); path != "" {
		var err error
		if overlay, err = config.LoadOverlayFile(path); err != nil {
			return nil, err
		}
	}

	store := params.New(clients.SSM, clients.Region(), params.WithLogger(logger))
	return config.Load(ctx, store, config.LoadOptions{
		Env:            env,
		DefaultRegion:  clients.Region(),
		DefaultAccount: getenv(DefaultAccountEnv),
		Identity:       clients.STS,
		Overlay:        overlay,
	})
}
