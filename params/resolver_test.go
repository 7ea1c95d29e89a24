package params_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plexusone/agentcore-confluence-gateway/internal/log"
	"github.com/plexusone/agentcore-confluence-gateway/params"
	"github.com/plexusone/agentcore-confluence-gateway/params/paramstest"
)

func newResolver(store *paramstest.FakeSSM) *params.Resolver {
	return params.New(store, "us-east-1", params.WithLogger(log.Discard()))
}

func TestGet(t *testing.T) {
	ctx := context.Background()

	t.Run("stored value wins over default", func(t *testing.T) {
		r := newResolver(paramstest.New(map[string]string{params.Region: "eu-west-1"}))
		got, err := r.Get(ctx, params.Region, "us-east-1")
		require.NoError(t, err)
		assert.Equal(t, "eu-west-1", got)
	})

	t.Run("default used when not found", func(t *testing.T) {
		r := newResolver(paramstest.New(nil))
		got, err := r.Get(ctx, params.ConfluenceSubdomain, "acme")
		require.NoError(t, err)
		assert.Equal(t, "acme", got)
	})

	t.Run("required without default fails", func(t *testing.T) {
		r := newResolver(paramstest.New(nil))
		_, err := r.Get(ctx, params.GatewayID, "")
		require.Error(t, err)

		var cfgErr *params.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, params.GatewayID, cfgErr.Name)
		assert.Equal(t, "us-east-1", cfgErr.Region)
		assert.Contains(t, err.Error(), params.GatewayID)
		assert.Contains(t, err.Error(), "setup steps")
	})

	t.Run("other errors propagate without default", func(t *testing.T) {
		denied := errors.New("AccessDeniedException: not authorized")
		store := paramstest.New(nil)
		store.GetErr = denied
		r := newResolver(store)

		_, err := r.Get(ctx, params.Region, "us-east-1")
		require.ErrorIs(t, err, denied)
		assert.False(t, params.IsConfigurationError(err))
	})
}

func TestGetOptional(t *testing.T) {
	ctx := context.Background()
	r := newResolver(paramstest.New(map[string]string{params.CredentialProviderARN: "arn:provider"}))

	v, ok, err := r.GetOptional(ctx, params.CredentialProviderARN)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "arn:provider", v)

	v, ok, err = r.GetOptional(ctx, params.OAuthCredentialProviderARN)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestGetSecure(t *testing.T) {
	ctx := context.Background()
	store := paramstest.New(nil)
	r := newResolver(store)

	require.NoError(t, r.Put(ctx, "/confluence/gateway/secret", "s3cret", "", params.Secure()))

	got, err := r.GetSecure(ctx, "/confluence/gateway/secret")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)

	_, err = r.GetSecure(ctx, "/confluence/gateway/missing")
	var cfgErr *params.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.True(t, cfgErr.Secure)
}

func TestPutOverwrites(t *testing.T) {
	ctx := context.Background()
	store := paramstest.New(map[string]string{params.CredentialProviderARN: "arn:old"})
	r := newResolver(store)

	require.NoError(t, r.Put(ctx, params.CredentialProviderARN, "arn:new", "provider arn"))

	e, ok := store.Entry(params.CredentialProviderARN)
	require.True(t, ok)
	assert.Equal(t, "arn:new", e.Value)
	assert.Equal(t, types.ParameterTypeString, e.Type)
	assert.Equal(t, "provider arn", e.Description)
	assert.EqualValues(t, 2, e.Version)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, params.IsNotFound(&types.ParameterNotFound{}))
	assert.False(t, params.IsNotFound(errors.New("boom")))
}
