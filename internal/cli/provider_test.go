package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plexusone/agentcore-confluence-gateway/internal/log"
	"github.com/plexusone/agentcore-confluence-gateway/params"
	"github.com/plexusone/agentcore-confluence-gateway/params/paramstest"
	"github.com/plexusone/agentcore-confluence-gateway/registrar"
	"github.com/plexusone/agentcore-confluence-gateway/registrar/registrartest"
)

type fakeClients struct {
	ssm     *paramstest.FakeSSM
	control *registrartest.FakeControl
	regions []string
}

func (f *fakeClients) factory(_ context.Context, region string) (*AWSClients, error) {
	f.regions = append(f.regions, region)
	c := &AWSClients{SSM: f.ssm, Control: f.control}
	c.Config.Region = region
	return c, nil
}

func apiKeyCommand() ProviderCommand {
	return ProviderCommand{
		Use:         "test",
		DefaultName: registrar.APIKeyProviderName,
		Inputs:      []string{registrar.APIKeyEnv},
		InputHint:   "export it",
		NewProvider: func(api registrar.ControlAPI, name string, in registrar.Inputs) registrar.Provider {
			return registrar.NewAPIKeyProvider(api, name, in[registrar.APIKeyEnv])
		},
	}
}

func testOptions(values map[string]string) *providerOptions {
	return &providerOptions{
		GlobalFlags: GlobalFlags{Getenv: env(values), Logger: log.Discard()},
		name:        registrar.APIKeyProviderName,
	}
}

func TestRunProvider_MissingInputsFailBeforeAnyCall(t *testing.T) {
	fc := &fakeClients{ssm: paramstest.New(nil), control: registrartest.New()}
	var out bytes.Buffer

	err := runProvider(context.Background(), &out, apiKeyCommand(), testOptions(nil), fc.factory)

	var missing *registrar.MissingInputsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"CONFLUENCE_API_KEY"}, missing.Names)

	var hint *HintError
	require.ErrorAs(t, err, &hint)
	assert.Equal(t, "export it", hint.Hint)

	assert.Empty(t, fc.control.Calls)
	assert.Empty(t, fc.ssm.Gets)
	assert.Empty(t, fc.ssm.Puts)
}

func TestRunProvider_RegistersInParameterRegion(t *testing.T) {
	fc := &fakeClients{
		ssm:     paramstest.New(map[string]string{params.Region: "eu-west-1"}),
		control: registrartest.New(),
	}
	var out bytes.Buffer

	opts := testOptions(map[string]string{registrar.APIKeyEnv: "a2V5", "AWS_REGION": "us-east-1"})
	err := runProvider(context.Background(), &out, apiKeyCommand(), opts, fc.factory)
	require.NoError(t, err)

	assert.Equal(t, []string{"us-east-1", "eu-west-1"}, fc.regions)
	assert.Equal(t, []string{"CreateApiKey"}, fc.control.Calls)

	e, ok := fc.ssm.Entry(params.CredentialProviderARN)
	require.True(t, ok)
	assert.Equal(t, registrartest.APIKeyARN(registrar.APIKeyProviderName), e.Value)

	assert.Contains(t, out.String(), "Using region: eu-west-1")
	assert.Contains(t, out.String(), "Credential provider created: ")
}

func TestRunProvider_FailedChainDoesNotPersist(t *testing.T) {
	control := registrartest.New()
	control.APIKeys[registrar.APIKeyProviderName] = "old"
	control.UpdateErr = errors.New("update broken")
	control.ListErr = errors.New("list broken")
	fc := &fakeClients{ssm: paramstest.New(nil), control: control}

	opts := testOptions(map[string]string{registrar.APIKeyEnv: "new"})
	err := runProvider(context.Background(), &bytes.Buffer{}, apiKeyCommand(), opts, fc.factory)

	var regErr *registrar.RegistrationError
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, 1, ExitCode(err))
	assert.Empty(t, fc.ssm.Puts)
}
