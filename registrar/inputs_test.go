package registrar

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecrets struct {
	value string
	err   error
	calls int
}

func (f *fakeSecrets) GetSecretValue(context.Context, *secretsmanager.GetSecretValueInput, ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(f.value)}, nil
}

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadInputs(t *testing.T) {
	ctx := context.Background()
	names := []string{OAuthClientIDEnv, OAuthSecretEnv}

	t.Run("environment only", func(t *testing.T) {
		sm := &fakeSecrets{}
		in, err := LoadInputs(ctx, names, envOf(map[string]string{
			OAuthClientIDEnv: "id",
			OAuthSecretEnv:   "secret",
		}), sm, "confluence/oauth")
		require.NoError(t, err)
		assert.Equal(t, Inputs{OAuthClientIDEnv: "id", OAuthSecretEnv: "secret"}, in)
		assert.Zero(t, sm.calls, "secret not read when env is complete")
	})

	t.Run("secret fills missing", func(t *testing.T) {
		sm := &fakeSecrets{value: `{"OAUTH_CLIENT_ID":"from-secret","OAUTH_CLIENT_SECRET":"shh"}`}
		in, err := LoadInputs(ctx, names, envOf(map[string]string{OAuthClientIDEnv: "from-env"}), sm, "confluence/oauth")
		require.NoError(t, err)
		assert.Equal(t, "from-env", in[OAuthClientIDEnv])
		assert.Equal(t, "shh", in[OAuthSecretEnv])
	})

	t.Run("raw secret for single input", func(t *testing.T) {
		sm := &fakeSecrets{value: "cmF3LWtleQ=="}
		in, err := LoadInputs(ctx, []string{APIKeyEnv}, envOf(nil), sm, "confluence/apikey")
		require.NoError(t, err)
		assert.Equal(t, "cmF3LWtleQ==", in[APIKeyEnv])
	})

	t.Run("raw secret for multiple inputs is rejected", func(t *testing.T) {
		_, err := LoadInputs(ctx, names, envOf(nil), &fakeSecrets{value: "plain"}, "confluence/oauth")
		require.Error(t, err)
	})

	t.Run("secret error propagates", func(t *testing.T) {
		boom := errors.New("ResourceNotFoundException")
		_, err := LoadInputs(ctx, names, envOf(nil), &fakeSecrets{err: boom}, "confluence/oauth")
		require.ErrorIs(t, err, boom)
	})
}

func TestValidateInputs(t *testing.T) {
	require.NoError(t, ValidateInputs(Inputs{"A": "1", "B": "2"}, "A", "B"))

	err := ValidateInputs(Inputs{"B": "2"}, "A", "B", "C")
	var missing *MissingInputsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"A", "C"}, missing.Names)
	assert.Equal(t, "missing environment variables: A, C", err.Error())
}

func TestCheckAPIKeyFormat(t *testing.T) {
	good := base64.StdEncoding.EncodeToString([]byte("me@example.com:token123"))
	assert.NoError(t, CheckAPIKeyFormat(good))

	assert.Error(t, CheckAPIKeyFormat("not base64!"))
	assert.Error(t, CheckAPIKeyFormat(base64.StdEncoding.EncodeToString([]byte("no-colon"))))
	assert.Error(t, CheckAPIKeyFormat(base64.StdEncoding.EncodeToString([]byte("user:token"))))
}
