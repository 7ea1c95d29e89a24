package agentcore

import (
	"fmt"
	"strings"

	"github.com/plexusone/agentcore-confluence-gateway/config"
)

// InboundIdentity is re-exported from config for convenience.
type InboundIdentity = config.InboundIdentity

// Gateway authorizer types.
const (
	AuthorizerIAM       = "AWS_IAM"
	AuthorizerCustomJWT = "CUSTOM_JWT"
)

// PlaceholderPoolID is used when a Cognito identity names no user pool.
const PlaceholderPoolID = "placeholder"

// Authorizer is the resolved inbound authorization for a gateway.
type Authorizer struct {
	// Type is AuthorizerIAM or AuthorizerCustomJWT.
	Type string

	// DiscoveryURL is the OpenID discovery document. Empty for IAM.
	DiscoveryURL string

	AllowedAudience []string
	AllowedClients  []string
}

// ResolveAuthorizer maps an inbound identity to a gateway authorizer. A nil
// identity selects IAM.
func ResolveAuthorizer(identity *InboundIdentity, region string) (Authorizer, error) {
	if identity == nil {
		return Authorizer{Type: AuthorizerIAM}, nil
	}

	switch identity.Type {
	case config.IdentityIAM:
		return Authorizer{Type: AuthorizerIAM}, nil

	case config.IdentityCognito:
		poolID := identity.UserPoolID
		if poolID == "" {
			poolID = poolIDFromARN(identity.UserPoolARN)
		}
		clients := append([]string{}, identity.ClientIDs...)
		return Authorizer{
			Type:            AuthorizerCustomJWT,
			DiscoveryURL:    CognitoDiscoveryURL(region, poolID),
			AllowedAudience: clients,
			AllowedClients:  clients,
		}, nil

	default:
		return Authorizer{}, fmt.Errorf("unsupported inbound identity type %q (want %q or %q)",
			identity.Type, config.IdentityIAM, config.IdentityCognito)
	}
}

// CognitoDiscoveryURL returns the OpenID configuration URL of a user pool.
func CognitoDiscoveryURL(region, poolID string) string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s/.well-known/openid-configuration", region, poolID)
}

func poolIDFromARN(arn string) string {
	if arn == "" {
		return PlaceholderPoolID
	}
	i := strings.LastIndex(arn, "/")
	return arn[i+1:]
}
