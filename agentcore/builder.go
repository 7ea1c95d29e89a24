package agentcore

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"

	"github.com/plexusone/agentcore-confluence-gateway/config"
)

// GatewayStackBuilder provides a fluent interface for building gateway stacks.
type GatewayStackBuilder struct {
	config StackConfig
}

// NewGatewayStackBuilder creates a new builder for an IAM-authorized gateway.
func NewGatewayStackBuilder(stackName, gatewayName string) *GatewayStackBuilder {
	return &GatewayStackBuilder{
		config: StackConfig{
			StackName:   stackName,
			GatewayName: gatewayName,
			Tags:        make(map[string]string),
		},
	}
}

// WithDescription sets the stack description.
func (b *GatewayStackBuilder) WithDescription(description string) *GatewayStackBuilder {
	b.config.Description = description
	return b
}

// WithGatewayDescription sets the gateway resource description.
func (b *GatewayStackBuilder) WithGatewayDescription(description string) *GatewayStackBuilder {
	b.config.GatewayDescription = description
	return b
}

// WithEnvironment pins the account and region.
func (b *GatewayStackBuilder) WithEnvironment(account, region string) *GatewayStackBuilder {
	b.config.Account = account
	b.config.Region = region
	return b
}

// WithIAMAuth authorizes callers with SigV4.
func (b *GatewayStackBuilder) WithIAMAuth() *GatewayStackBuilder {
	b.config.InboundIdentity = &InboundIdentity{Type: config.IdentityIAM}
	return b
}

// WithCognitoAuth authorizes callers with JWTs issued by a Cognito user pool.
// poolIDOrARN may be a pool id or a pool ARN.
func (b *GatewayStackBuilder) WithCognitoAuth(poolIDOrARN string, clientIDs ...string) *GatewayStackBuilder {
	identity := &InboundIdentity{Type: config.IdentityCognito, ClientIDs: clientIDs}
	if isARN(poolIDOrARN) {
		identity.UserPoolARN = poolIDOrARN
	} else {
		identity.UserPoolID = poolIDOrARN
	}
	b.config.InboundIdentity = identity
	return b
}

// WithCredentialProviderARN sets the value reported in the CredentialProviderArn output.
func (b *GatewayStackBuilder) WithCredentialProviderARN(arn string) *GatewayStackBuilder {
	b.config.CredentialProviderARN = arn
	return b
}

// PublishGatewayID stores the gateway identifier in SSM.
func (b *GatewayStackBuilder) PublishGatewayID() *GatewayStackBuilder {
	b.config.PublishGatewayID = true
	return b
}

// WithTags sets multiple tags.
func (b *GatewayStackBuilder) WithTags(tags map[string]string) *GatewayStackBuilder {
	for k, v := range tags {
		b.config.Tags[k] = v
	}
	return b
}

// WithTag sets a single tag.
func (b *GatewayStackBuilder) WithTag(key, value string) *GatewayStackBuilder {
	b.config.Tags[key] = value
	return b
}

// Config returns the current configuration.
func (b *GatewayStackBuilder) Config() StackConfig {
	return b.config
}

// Validate validates the current configuration.
func (b *GatewayStackBuilder) Validate() error {
	b.config.ApplyDefaults()
	return b.config.Validate()
}

// Build creates the gateway stack.
func (b *GatewayStackBuilder) Build(scope constructs.Construct) *GatewayStack {
	return NewGatewayStack(scope, b.config.StackName, b.config)
}

func isARN(s string) bool {
	return len(s) > 4 && s[:4] == "arn:"
}

// NewApp creates a new CDK app with common settings.
func NewApp() awscdk.App {
	return awscdk.NewApp(&awscdk.AppProps{
		Context: &map[string]interface{}{
			"@aws-cdk/core:newStyleStackSynthesis": true,
		},
	})
}

// Synth synthesizes the CDK app to CloudFormation templates.
func Synth(app awscdk.App) {
	app.Synth(nil)
}
