// Package registrartest provides an in-memory AgentCore credential-provider
// control plane for tests.
package registrartest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol/types"
)

// FakeControl implements registrar.ControlAPI in memory, keyed by provider name.
type FakeControl struct {
	mu sync.Mutex

	APIKeys map[string]string
	OAuth   map[string]types.Oauth2ProviderConfigInput

	// UpdateErr, when set, fails every update.
	UpdateErr error
	// ListErr, when set, fails every list.
	ListErr error
	// PageSize splits list results into pages. Zero returns one page.
	PageSize int

	// Calls records each operation, e.g. "CreateApiKey" or "ListOauth2".
	Calls []string
}

// New returns an empty FakeControl.
func New() *FakeControl {
	return &FakeControl{
		APIKeys: make(map[string]string),
		OAuth:   make(map[string]types.Oauth2ProviderConfigInput),
	}
}

// APIKeyARN returns the ARN the fake assigns to an API-key provider.
func APIKeyARN(name string) string {
	return fmt.Sprintf("arn:aws:bedrock-agentcore:us-east-1:111122223333:token-vault/default/apikeycredentialprovider/%s", name)
}

// OAuthARN returns the ARN the fake assigns to an OAuth2 provider.
func OAuthARN(name string) string {
	return fmt.Sprintf("arn:aws:bedrock-agentcore:us-east-1:111122223333:token-vault/default/oauth2credentialprovider/%s", name)
}

// Conflict returns the error the service reports for a duplicate name.
func Conflict(name string) error {
	return &types.ConflictException{Message: aws.String(fmt.Sprintf("credential provider %s already exists", name))}
}

func (f *FakeControl) CreateApiKeyCredentialProvider(_ context.Context, in *bedrockagentcorecontrol.CreateApiKeyCredentialProviderInput, _ ...func(*bedrockagentcorecontrol.Options)) (*bedrockagentcorecontrol.CreateApiKeyCredentialProviderOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "CreateApiKey")
	name := aws.ToString(in.Name)
	if _, ok := f.APIKeys[name]; ok {
		return nil, Conflict(name)
	}
	f.APIKeys[name] = aws.ToString(in.ApiKey)
	return &bedrockagentcorecontrol.CreateApiKeyCredentialProviderOutput{
		Name:                  in.Name,
		CredentialProviderArn: aws.String(APIKeyARN(name)),
	}, nil
}

func (f *FakeControl) UpdateApiKeyCredentialProvider(_ context.Context, in *bedrockagentcorecontrol.UpdateApiKeyCredentialProviderInput, _ ...func(*bedrockagentcorecontrol.Options)) (*bedrockagentcorecontrol.UpdateApiKeyCredentialProviderOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "UpdateApiKey")
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}
	name := aws.ToString(in.Name)
	if _, ok := f.APIKeys[name]; !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("not found")}
	}
	f.APIKeys[name] = aws.ToString(in.ApiKey)
	return &bedrockagentcorecontrol.UpdateApiKeyCredentialProviderOutput{
		Name:                  in.Name,
		CredentialProviderArn: aws.String(APIKeyARN(name)),
	}, nil
}

func (f *FakeControl) ListApiKeyCredentialProviders(_ context.Context, in *bedrockagentcorecontrol.ListApiKeyCredentialProvidersInput, _ ...func(*bedrockagentcorecontrol.Options)) (*bedrockagentcorecontrol.ListApiKeyCredentialProvidersOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "ListApiKey")
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	var items []types.ApiKeyCredentialProviderItem
	for _, name := range sortedKeys(f.APIKeys) {
		items = append(items, types.ApiKeyCredentialProviderItem{
			Name:                  aws.String(name),
			CredentialProviderArn: aws.String(APIKeyARN(name)),
		})
	}
	page, next := f.paginate(len(items), in.NextToken)
	return &bedrockagentcorecontrol.ListApiKeyCredentialProvidersOutput{
		CredentialProviders: items[page[0]:page[1]],
		NextToken:           next,
	}, nil
}

func (f *FakeControl) CreateOauth2CredentialProvider(_ context.Context, in *bedrockagentcorecontrol.CreateOauth2CredentialProviderInput, _ ...func(*bedrockagentcorecontrol.Options)) (*bedrockagentcorecontrol.CreateOauth2CredentialProviderOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "CreateOauth2")
	name := aws.ToString(in.Name)
	if _, ok := f.OAuth[name]; ok {
		return nil, Conflict(name)
	}
	f.OAuth[name] = in.Oauth2ProviderConfigInput
	return &bedrockagentcorecontrol.CreateOauth2CredentialProviderOutput{
		Name:                  in.Name,
		CredentialProviderArn: aws.String(OAuthARN(name)),
	}, nil
}

func (f *FakeControl) UpdateOauth2CredentialProvider(_ context.Context, in *bedrockagentcorecontrol.UpdateOauth2CredentialProviderInput, _ ...func(*bedrockagentcorecontrol.Options)) (*bedrockagentcorecontrol.UpdateOauth2CredentialProviderOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "UpdateOauth2")
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}
	name := aws.ToString(in.Name)
	f.OAuth[name] = in.Oauth2ProviderConfigInput
	return &bedrockagentcorecontrol.UpdateOauth2CredentialProviderOutput{
		Name:                  in.Name,
		CredentialProviderArn: aws.String(OAuthARN(name)),
	}, nil
}

func (f *FakeControl) ListOauth2CredentialProviders(_ context.Context, in *bedrockagentcorecontrol.ListOauth2CredentialProvidersInput, _ ...func(*bedrockagentcorecontrol.Options)) (*bedrockagentcorecontrol.ListOauth2CredentialProvidersOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "ListOauth2")
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	var items []types.Oauth2CredentialProviderItem
	for _, name := range sortedKeys(f.OAuth) {
		items = append(items, types.Oauth2CredentialProviderItem{
			Name:                  aws.String(name),
			CredentialProviderArn: aws.String(OAuthARN(name)),
		})
	}
	page, next := f.paginate(len(items), in.NextToken)
	return &bedrockagentcorecontrol.ListOauth2CredentialProvidersOutput{
		CredentialProviders: items[page[0]:page[1]],
		NextToken:           next,
	}, nil
}

func (f *FakeControl) paginate(n int, token *string) ([2]int, *string) {
	if f.PageSize <= 0 {
		return [2]int{0, n}, nil
	}
	start := 0
	if token != nil {
		fmt.Sscanf(*token, "%d", &start)
	}
	end := start + f.PageSize
	if end >= n {
		return [2]int{start, n}, nil
	}
	return [2]int{start, end}, aws.String(fmt.Sprintf("%d", end))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
