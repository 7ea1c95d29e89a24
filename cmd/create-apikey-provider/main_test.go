package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plexusone/agentcore-confluence-gateway/internal/cli"
	"github.com/plexusone/agentcore-confluence-gateway/params"
	"github.com/plexusone/agentcore-confluence-gateway/params/paramstest"
	"github.com/plexusone/agentcore-confluence-gateway/registrar/registrartest"
)

func setup(t *testing.T) (*paramstest.FakeSSM, *registrartest.FakeControl, cli.ClientFactory) {
	t.Helper()
	store := paramstest.New(nil)
	control := registrartest.New()
	return store, control, func(_ context.Context, region string) (*cli.AWSClients, error) {
		c := &cli.AWSClients{SSM: store, Control: control}
		c.Config.Region = region
		return c, nil
	}
}

func TestMissingAPIKeyExitsBeforeControlCalls(t *testing.T) {
	t.Setenv("CONFLUENCE_API_KEY", "")
	_, control, factory := setup(t)

	cmd := newRootCmd(factory)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{})

	code := cli.Execute(context.Background(), cmd)

	assert.Equal(t, 1, code)
	assert.Empty(t, control.Calls)
	assert.Contains(t, stderr.String(), "missing environment variables: CONFLUENCE_API_KEY")
	assert.Contains(t, stderr.String(), "Hint:")
}

func TestRegistersAndStoresARN(t *testing.T) {
	t.Setenv("CONFLUENCE_API_KEY", "bWVAZXhhbXBsZS5jb206dG9rZW4=")
	t.Setenv("AWS_REGION", "us-east-1")
	store, control, factory := setup(t)

	cmd := newRootCmd(factory)
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--name", "docs-apikey"})

	require.Equal(t, 0, cli.Execute(context.Background(), cmd))

	assert.Equal(t, "bWVAZXhhbXBsZS5jb206dG9rZW4=", control.APIKeys["docs-apikey"])
	e, ok := store.Entry(params.CredentialProviderARN)
	require.True(t, ok)
	assert.Equal(t, registrartest.APIKeyARN("docs-apikey"), e.Value)
}
