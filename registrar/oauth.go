package registrar

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol/types"

	"github.com/plexusone/agentcore-confluence-gateway/params"
)

// OAuth provider defaults.
const (
	OAuthProviderName = "confluence-oauth-provider"
	OAuthClientIDEnv  = "OAUTH_CLIENT_ID"
	OAuthSecretEnv    = "OAUTH_CLIENT_SECRET"
)

// Atlassian OAuth 2.0 authorization server.
const (
	AtlassianIssuer           = "https://auth.atlassian.com"
	AtlassianAuthorizationURL = "https://auth.atlassian.com/authorize"
	AtlassianTokenURL         = "https://auth.atlassian.com/oauth/token"
)

// AtlassianScopes are the scopes the Atlassian app must grant. They are set in
// the Atlassian developer console, not on the credential provider.
var AtlassianScopes = []string{"read:confluence-content.all", "offline_access"}

// OAuthProvider registers an Atlassian OAuth 2.0 client.
type OAuthProvider struct {
	api          ControlAPI
	name         string
	clientID     string
	clientSecret string
}

// NewOAuthProvider returns an OAuth provider named name. An empty name
// selects OAuthProviderName.
func NewOAuthProvider(api ControlAPI, name, clientID, clientSecret string) *OAuthProvider {
	if name == "" {
		name = OAuthProviderName
	}
	return &OAuthProvider{api: api, name: name, clientID: clientID, clientSecret: clientSecret}
}

func (p *OAuthProvider) Name() string          { return p.name }
func (p *OAuthProvider) ParameterName() string { return params.OAuthCredentialProviderARN }
func (p *OAuthProvider) Description() string {
	return "ARN of Confluence OAuth 2.0 credential provider in AgentCore"
}

func (p *OAuthProvider) providerConfig() types.Oauth2ProviderConfigInput {
	return &types.Oauth2ProviderConfigInputMemberCustomOauth2ProviderConfig{
		Value: types.CustomOauth2ProviderConfigInput{
			ClientId:     aws.String(p.clientID),
			ClientSecret: aws.String(p.clientSecret),
			OauthDiscovery: &types.Oauth2DiscoveryMemberAuthorizationServerMetadata{
				Value: types.Oauth2AuthorizationServerMetadata{
					Issuer:                aws.String(AtlassianIssuer),
					AuthorizationEndpoint: aws.String(AtlassianAuthorizationURL),
					TokenEndpoint:         aws.String(AtlassianTokenURL),
					ResponseTypes:         []string{"code"},
				},
			},
		},
	}
}

func (p *OAuthProvider) Create(ctx context.Context) (string, error) {
	out, err := p.api.CreateOauth2CredentialProvider(ctx, &bedrockagentcorecontrol.CreateOauth2CredentialProviderInput{
		Name:                      aws.String(p.name),
		CredentialProviderVendor:  types.CredentialProviderVendorTypeCustomOauth2,
		Oauth2ProviderConfigInput: p.providerConfig(),
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.CredentialProviderArn), nil
}

func (p *OAuthProvider) Update(ctx context.Context) (string, error) {
	out, err := p.api.UpdateOauth2CredentialProvider(ctx, &bedrockagentcorecontrol.UpdateOauth2CredentialProviderInput{
		Name:                      aws.String(p.name),
		CredentialProviderVendor:  types.CredentialProviderVendorTypeCustomOauth2,
		Oauth2ProviderConfigInput: p.providerConfig(),
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.CredentialProviderArn), nil
}

func (p *OAuthProvider) List(ctx context.Context) ([]Summary, error) {
	var (
		summaries []Summary
		next      *string
	)
	for {
		out, err := p.api.ListOauth2CredentialProviders(ctx, &bedrockagentcorecontrol.ListOauth2CredentialProvidersInput{
			NextToken: next,
		})
		if err != nil {
			return nil, err
		}
		for _, item := range out.CredentialProviders {
			summaries = append(summaries, Summary{
				Name: aws.ToString(item.Name),
				ARN:  aws.ToString(item.CredentialProviderArn),
			})
		}
		if aws.ToString(out.NextToken) == "" {
			return summaries, nil
		}
		next = out.NextToken
	}
}
