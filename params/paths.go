package params

// Prefix is the parameter-store path prefix owned by the gateway tooling.
// The gateway execution role is granted read access to everything below it.
const Prefix = "/confluence/"

// Fixed parameter paths.
const (
	AccountID                  = "/confluence/gateway/aws-account-id"
	Region                     = "/confluence/gateway/aws-region"
	ConfluenceSubdomain        = "/confluence/gateway/confluence-subdomain"
	CredentialProviderARN      = "/confluence/gateway/credential-provider-arn"
	OAuthCredentialProviderARN = "/confluence/gateway/oauth-credential-provider-arn"
	GatewayID                  = "/confluence/gateway/gateway-id"
	TestPageID                 = "/confluence/gateway/test-page-id"
)
