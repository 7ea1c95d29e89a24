// Package registrar creates or updates Bedrock AgentCore credential providers
// and records their ARNs in the parameter store.
//
// Registration is an idempotent upsert. A create that conflicts with an
// existing provider of the same name falls back to an in-place update, and
// an update that fails falls back to listing providers and matching by name.
// The chain runs once; there is no retry loop.
package registrar

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol"
)

// ControlAPI is the subset of the AgentCore control-plane client used here.
type ControlAPI interface {
	CreateApiKeyCredentialProvider(ctx context.Context, params *bedrockagentcorecontrol.CreateApiKeyCredentialProviderInput, optFns ...func(*bedrockagentcorecontrol.Options)) (*bedrockagentcorecontrol.CreateApiKeyCredentialProviderOutput, error)
	UpdateApiKeyCredentialProvider(ctx context.Context, params *bedrockagentcorecontrol.UpdateApiKeyCredentialProviderInput, optFns ...func(*bedrockagentcorecontrol.Options)) (*bedrockagentcorecontrol.UpdateApiKeyCredentialProviderOutput, error)
	ListApiKeyCredentialProviders(ctx context.Context, params *bedrockagentcorecontrol.ListApiKeyCredentialProvidersInput, optFns ...func(*bedrockagentcorecontrol.Options)) (*bedrockagentcorecontrol.ListApiKeyCredentialProvidersOutput, error)

	CreateOauth2CredentialProvider(ctx context.Context, params *bedrockagentcorecontrol.CreateOauth2CredentialProviderInput, optFns ...func(*bedrockagentcorecontrol.Options)) (*bedrockagentcorecontrol.CreateOauth2CredentialProviderOutput, error)
	UpdateOauth2CredentialProvider(ctx context.Context, params *bedrockagentcorecontrol.UpdateOauth2CredentialProviderInput, optFns ...func(*bedrockagentcorecontrol.Options)) (*bedrockagentcorecontrol.UpdateOauth2CredentialProviderOutput, error)
	ListOauth2CredentialProviders(ctx context.Context, params *bedrockagentcorecontrol.ListOauth2CredentialProvidersInput, optFns ...func(*bedrockagentcorecontrol.Options)) (*bedrockagentcorecontrol.ListOauth2CredentialProvidersOutput, error)
}

var _ ControlAPI = (*bedrockagentcorecontrol.Client)(nil)

// Summary is a listed credential provider.
type Summary struct {
	Name string
	ARN  string
}

// Provider is one credential-provider variant bound to its secret material.
type Provider interface {
	// Name is the provider name, unique per account and region.
	Name() string

	// ParameterName is where the provider ARN is persisted.
	ParameterName() string

	// Description is stored alongside the persisted ARN.
	Description() string

	Create(ctx context.Context) (string, error)
	Update(ctx context.Context) (string, error)
	List(ctx context.Context) ([]Summary, error)
}
