package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plexusone/agentcore-confluence-gateway/params"
)

func TestLoadSmoke(t *testing.T) {
	ctx := context.Background()

	t.Run("gateway id required", func(t *testing.T) {
		_, err := LoadSmoke(ctx, resolver(nil), "")
		assert.True(t, params.IsConfigurationError(err))
	})

	t.Run("defaults", func(t *testing.T) {
		s, err := LoadSmoke(ctx, resolver(map[string]string{params.GatewayID: "gw-123"}), "")
		require.NoError(t, err)
		assert.Equal(t, "gw-123", s.GatewayID)
		assert.Equal(t, "us-east-1", s.Region)
		assert.Equal(t, DefaultConfluenceSubdomain, s.ConfluenceSubdomain)
		assert.EqualValues(t, 622593, s.TestPageID)
	})

	t.Run("override skips parameter", func(t *testing.T) {
		s, err := LoadSmoke(ctx, resolver(nil), "gw-flag")
		require.NoError(t, err)
		assert.Equal(t, "gw-flag", s.GatewayID)
	})

	t.Run("non-numeric page id", func(t *testing.T) {
		_, err := LoadSmoke(ctx, resolver(map[string]string{
			params.GatewayID:  "gw-123",
			params.TestPageID: "home",
		}), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), params.TestPageID)
	})
}
