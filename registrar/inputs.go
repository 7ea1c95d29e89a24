package registrar

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsManagerAPI is the Secrets Manager call used to source inputs.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

var _ SecretsManagerAPI = (*secretsmanager.Client)(nil)

// Inputs maps input names (environment variable names) to values.
type Inputs map[string]string

// LoadInputs reads names from the environment. When secretID is set, names
// still missing are filled from that Secrets Manager secret. The secret is
// either a JSON object keyed by input name or, when a single input is
// requested, the raw value.
func LoadInputs(ctx context.Context, names []string, getenv func(string) string, sm SecretsManagerAPI, secretID string) (Inputs, error) {
	in := make(Inputs, len(names))
	var missing []string
	for _, name := range names {
		if v := getenv(name); v != "" {
			in[name] = v
			continue
		}
		missing = append(missing, name)
	}
	if len(missing) == 0 || secretID == "" || sm == nil {
		return in, nil
	}

	out, err := sm.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		return nil, fmt.Errorf("reading secret %s: %w", secretID, err)
	}
	raw := aws.ToString(out.SecretString)

	var fields map[string]string
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		if len(names) == 1 {
			in[names[0]] = raw
			return in, nil
		}
		return nil, fmt.Errorf("secret %s must be a JSON object with keys %v", secretID, names)
	}
	for _, name := range missing {
		if v := fields[name]; v != "" {
			in[name] = v
		}
	}
	return in, nil
}

// ValidateInputs returns a *MissingInputsError naming every required input
// without a value, in the order given.
func ValidateInputs(in Inputs, required ...string) error {
	var missing []string
	for _, name := range required {
		if in[name] == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &MissingInputsError{Names: missing}
	}
	return nil
}
