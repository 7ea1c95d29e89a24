package agentcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plexusone/agentcore-confluence-gateway/config"
)

func TestResolveAuthorizer(t *testing.T) {
	tests := []struct {
		name     string
		identity *InboundIdentity
		want     Authorizer
	}{
		{
			name:     "nil defaults to IAM",
			identity: nil,
			want:     Authorizer{Type: AuthorizerIAM},
		},
		{
			name:     "IAM",
			identity: &InboundIdentity{Type: config.IdentityIAM},
			want:     Authorizer{Type: AuthorizerIAM},
		},
		{
			name:     "Cognito with pool id",
			identity: &InboundIdentity{Type: config.IdentityCognito, UserPoolID: "pool123"},
			want: Authorizer{
				Type:            AuthorizerCustomJWT,
				DiscoveryURL:    "https://cognito-idp.us-east-1.amazonaws.com/pool123/.well-known/openid-configuration",
				AllowedAudience: []string{},
				AllowedClients:  []string{},
			},
		},
		{
			name: "Cognito pool id preferred over ARN",
			identity: &InboundIdentity{
				Type:        config.IdentityCognito,
				UserPoolID:  "explicit",
				UserPoolARN: "arn:aws:cognito-idp:us-east-1:111122223333:userpool/from-arn",
				ClientIDs:   []string{"c1", "c2"},
			},
			want: Authorizer{
				Type:            AuthorizerCustomJWT,
				DiscoveryURL:    "https://cognito-idp.us-east-1.amazonaws.com/explicit/.well-known/openid-configuration",
				AllowedAudience: []string{"c1", "c2"},
				AllowedClients:  []string{"c1", "c2"},
			},
		},
		{
			name: "Cognito pool id parsed from ARN",
			identity: &InboundIdentity{
				Type:        config.IdentityCognito,
				UserPoolARN: "arn:aws:cognito-idp:us-east-1:111122223333:userpool/us-east-1_AbC",
			},
			want: Authorizer{
				Type:            AuthorizerCustomJWT,
				DiscoveryURL:    "https://cognito-idp.us-east-1.amazonaws.com/us-east-1_AbC/.well-known/openid-configuration",
				AllowedAudience: []string{},
				AllowedClients:  []string{},
			},
		},
		{
			name:     "Cognito without pool uses placeholder",
			identity: &InboundIdentity{Type: config.IdentityCognito},
			want: Authorizer{
				Type:            AuthorizerCustomJWT,
				DiscoveryURL:    "https://cognito-idp.us-east-1.amazonaws.com/placeholder/.well-known/openid-configuration",
				AllowedAudience: []string{},
				AllowedClients:  []string{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveAuthorizer(tt.identity, "us-east-1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveAuthorizer_IAMHasNoDiscoveryURL(t *testing.T) {
	got, err := ResolveAuthorizer(&InboundIdentity{Type: "IAM"}, "eu-west-1")
	require.NoError(t, err)
	assert.Equal(t, AuthorizerIAM, got.Type)
	assert.Empty(t, got.DiscoveryURL)
}

func TestResolveAuthorizer_UnknownType(t *testing.T) {
	_, err := ResolveAuthorizer(&InboundIdentity{Type: "OIDC"}, "us-east-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OIDC")
}
