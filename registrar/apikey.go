package registrar

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol"

	"github.com/plexusone/agentcore-confluence-gateway/params"
)

// API-key provider defaults.
const (
	APIKeyProviderName = "confluence-apikey-provider"
	APIKeyEnv          = "CONFLUENCE_API_KEY"
)

// APIKeyProvider registers a Confluence API token.
type APIKeyProvider struct {
	api    ControlAPI
	name   string
	apiKey string
}

// NewAPIKeyProvider returns an API-key provider named name. An empty name
// selects APIKeyProviderName.
func NewAPIKeyProvider(api ControlAPI, name, apiKey string) *APIKeyProvider {
	if name == "" {
		name = APIKeyProviderName
	}
	return &APIKeyProvider{api: api, name: name, apiKey: apiKey}
}

func (p *APIKeyProvider) Name() string          { return p.name }
func (p *APIKeyProvider) ParameterName() string { return params.CredentialProviderARN }
func (p *APIKeyProvider) Description() string {
	return "ARN of Confluence API Key credential provider in AgentCore"
}

func (p *APIKeyProvider) Create(ctx context.Context) (string, error) {
	out, err := p.api.CreateApiKeyCredentialProvider(ctx, &bedrockagentcorecontrol.CreateApiKeyCredentialProviderInput{
		Name:   aws.String(p.name),
		ApiKey: aws.String(p.apiKey),
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.CredentialProviderArn), nil
}

func (p *APIKeyProvider) Update(ctx context.Context) (string, error) {
	out, err := p.api.UpdateApiKeyCredentialProvider(ctx, &bedrockagentcorecontrol.UpdateApiKeyCredentialProviderInput{
		Name:   aws.String(p.name),
		ApiKey: aws.String(p.apiKey),
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.CredentialProviderArn), nil
}

func (p *APIKeyProvider) List(ctx context.Context) ([]Summary, error) {
	var (
		summaries []Summary
		next      *string
	)
	for {
		out, err := p.api.ListApiKeyCredentialProviders(ctx, &bedrockagentcorecontrol.ListApiKeyCredentialProvidersInput{
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

// CheckAPIKeyFormat reports whether key looks like base64("email:api_token").
// Registration accepts any value; Atlassian rejects a malformed key later.
func CheckAPIKeyFormat(key string) error {
	decoded, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		return errors.New("API key is not valid base64; expected base64(\"email:api_token\")")
	}
	email, token, ok := strings.Cut(string(decoded), ":")
	if !ok || email == "" || token == "" {
		return errors.New("decoded API key is not of the form \"email:api_token\"")
	}
	if !strings.Contains(email, "@") {
		return errors.New("decoded API key does not start with an email address")
	}
	return nil
}
