// Package config builds the explicit configuration objects shared by the
// gateway commands. A Settings value is constructed once at process start
// from the parameter store, the environment and an optional overlay file,
// then passed by reference to everything that needs it. Nothing here runs
// at import time.
package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/plexusone/agentcore-confluence-gateway/params"
)

// Defaults.
const (
	DefaultEnv                 = "dev"
	DefaultRegion              = "us-east-1"
	DefaultConfluenceSubdomain = "rassk97"
	DefaultTestPageID          = "622593"
	DefaultProject             = "ConfluenceGateway"
)

// Inbound identity types accepted by the gateway authorizer.
const (
	IdentityIAM     = "IAM"
	IdentityCognito = "Cognito"
)

// InboundIdentity selects how callers authenticate to the gateway.
type InboundIdentity struct {
	// Type is IdentityIAM or IdentityCognito.
	Type string `json:"type" yaml:"type"`

	// UserPoolID is the Cognito user pool id. Preferred over UserPoolARN.
	UserPoolID string `json:"userPoolId,omitempty" yaml:"userPoolId,omitempty"`

	// UserPoolARN is parsed for its trailing path segment when UserPoolID is empty.
	UserPoolARN string `json:"userPoolArn,omitempty" yaml:"userPoolArn,omitempty"`

	// ClientIDs are used as both the allowed audience and the allowed clients.
	ClientIDs []string `json:"clientIds,omitempty" yaml:"clientIds,omitempty"`
}

// Settings is the resolved deploy-time configuration for the gateway stack.
type Settings struct {
	Env       string
	AccountID string
	Region    string

	StackName          string
	GatewayName        string
	GatewayDescription string

	ConfluenceSubdomain string

	// CredentialProviderARN is empty until create-apikey-provider has run.
	CredentialProviderARN string
	// OAuthCredentialProviderARN is empty until create-oauth-provider has run.
	OAuthCredentialProviderARN string

	InboundIdentity InboundIdentity

	// PublishGatewayID writes the gateway id to params.GatewayID on deploy.
	PublishGatewayID bool

	Tags map[string]string
}

// CallerIdentityAPI is the STS call used to discover the account id.
type CallerIdentityAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

var _ CallerIdentityAPI = (*sts.Client)(nil)

// LoadOptions controls Load.
type LoadOptions struct {
	// Env names the environment (default "dev").
	Env string

	// DefaultRegion is used when the region parameter is absent.
	DefaultRegion string

	// DefaultAccount is used when the account parameter is absent
	// (typically CDK_DEFAULT_ACCOUNT).
	DefaultAccount string

	// Identity, when set, is asked for the account id as a last resort.
	Identity CallerIdentityAPI

	// Overlay is applied after the parameter-store values.
	Overlay *Overlay
}

// Load resolves Settings from the parameter store. A required value with no
// fallback yields a *params.ConfigurationError.
func Load(ctx context.Context, r *params.Resolver, opts LoadOptions) (*Settings, error) {
	env := opts.Env
	if opts.Overlay != nil && opts.Overlay.Env != "" {
		env = opts.Overlay.Env
	}
	if env == "" {
		env = DefaultEnv
	}

	defaultRegion := opts.DefaultRegion
	if defaultRegion == "" {
		defaultRegion = DefaultRegion
	}

	account, err := resolveAccount(ctx, r, opts)
	if err != nil {
		return nil, err
	}

	region, err := r.Get(ctx, params.Region, defaultRegion)
	if err != nil {
		return nil, err
	}

	subdomain, err := r.Get(ctx, params.ConfluenceSubdomain, DefaultConfluenceSubdomain)
	if err != nil {
		return nil, err
	}

	apiKeyARN, _, err := r.GetOptional(ctx, params.CredentialProviderARN)
	if err != nil {
		return nil, err
	}
	oauthARN, _, err := r.GetOptional(ctx, params.OAuthCredentialProviderARN)
	if err != nil {
		return nil, err
	}

	s := &Settings{
		Env:                        env,
		AccountID:                  account,
		Region:                     region,
		StackName:                  fmt.Sprintf("ConfluenceGatewayStack-%s", capitalize(env)),
		GatewayName:                fmt.Sprintf("confluence-gateway-%s", env),
		GatewayDescription:         fmt.Sprintf("AgentCore Gateway for Confluence integration (%s)", env),
		ConfluenceSubdomain:        subdomain,
		CredentialProviderARN:      apiKeyARN,
		OAuthCredentialProviderARN: oauthARN,
		InboundIdentity:            InboundIdentity{Type: IdentityIAM},
		PublishGatewayID:           true,
		Tags: map[string]string{
			"Environment": env,
			"Project":     DefaultProject,
			"ManagedBy":   "CDK",
		},
	}

	if opts.Overlay != nil {
		opts.Overlay.apply(s)
	}
	return s, nil
}

func resolveAccount(ctx context.Context, r *params.Resolver, opts LoadOptions) (string, error) {
	account, found, err := r.GetOptional(ctx, params.AccountID)
	if err != nil {
		return "", err
	}
	if found {
		return account, nil
	}
	if opts.DefaultAccount != "" {
		return r.Get(ctx, params.AccountID, opts.DefaultAccount)
	}
	if opts.Identity != nil {
		out, err := opts.Identity.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
		if err != nil {
			return "", fmt.Errorf("getting AWS identity: %w", err)
		}
		return aws.ToString(out.Account), nil
	}
	return "", &params.ConfigurationError{Name: params.AccountID, Region: r.Region()}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
