package agentcore

import (
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/aws/jsii-runtime-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plexusone/agentcore-confluence-gateway/config"
)

func testConfig() StackConfig {
	return StackConfig{
		StackName:   "ConfluenceGatewayStack-Dev",
		Account:     "111122223333",
		Region:      "us-east-1",
		GatewayName: "confluence-gateway-dev",
		Tags:        map[string]string{"Environment": "dev"},
	}
}

func synth(t *testing.T, cfg StackConfig) (*GatewayStack, assertions.Template) {
	t.Helper()
	app := awscdk.NewApp(nil)
	stack := NewGatewayStack(app, cfg.StackName, cfg)
	return stack, assertions.Template_FromStack(stack.Stack, nil)
}

func TestGatewayStack_IAMGateway(t *testing.T) {
	stack, template := synth(t, testConfig())

	assert.Equal(t, AuthorizerIAM, stack.Authorizer.Type)
	template.ResourceCountIs(jsii.String("AWS::BedrockAgentCore::Gateway"), jsii.Number(1))
	template.HasResourceProperties(jsii.String("AWS::BedrockAgentCore::Gateway"), map[string]interface{}{
		"Name":           "confluence-gateway-dev",
		"AuthorizerType": "AWS_IAM",
		"ProtocolType":   "MCP",
	})

	gateways := template.FindResources(jsii.String("AWS::BedrockAgentCore::Gateway"), nil)
	require.Len(t, *gateways, 1)
	for _, res := range *gateways {
		props := (*res)["Properties"].(map[string]interface{})
		assert.NotContains(t, props, "AuthorizerConfiguration")
	}
}

func TestGatewayStack_ExecutionRole(t *testing.T) {
	_, template := synth(t, testConfig())

	template.HasResourceProperties(jsii.String("AWS::IAM::Role"), map[string]interface{}{
		"AssumeRolePolicyDocument": assertions.Match_ObjectLike(&map[string]interface{}{
			"Statement": assertions.Match_ArrayWith(&[]interface{}{
				assertions.Match_ObjectLike(&map[string]interface{}{
					"Principal": map[string]interface{}{"Service": "bedrock-agentcore.amazonaws.com"},
				}),
			}),
		}),
	})

	template.HasResourceProperties(jsii.String("AWS::IAM::Policy"), map[string]interface{}{
		"PolicyDocument": assertions.Match_ObjectLike(&map[string]interface{}{
			"Statement": []interface{}{
				map[string]interface{}{
					"Sid":      "ReadSSMParameters",
					"Effect":   "Allow",
					"Action":   []interface{}{"ssm:GetParameter", "ssm:GetParameters"},
					"Resource": "arn:aws:ssm:us-east-1:111122223333:parameter/confluence/*",
				},
				map[string]interface{}{
					"Sid":    "UseCredentialProviders",
					"Effect": "Allow",
					"Action": []interface{}{
						"bedrock-agentcore:GetCredentialProvider",
						"bedrock-agentcore:GetCredential",
						"bedrock-agentcore:InvokeGateway",
					},
					"Resource": "*",
				},
			},
		}),
	})
}

func TestGatewayStack_CognitoGateway(t *testing.T) {
	cfg := testConfig()
	cfg.InboundIdentity = &InboundIdentity{
		Type:       config.IdentityCognito,
		UserPoolID: "pool123",
		ClientIDs:  []string{"client-a"},
	}

	stack, template := synth(t, cfg)

	assert.Equal(t, AuthorizerCustomJWT, stack.Authorizer.Type)
	assert.Equal(t,
		"https://cognito-idp.us-east-1.amazonaws.com/pool123/.well-known/openid-configuration",
		stack.Authorizer.DiscoveryURL)
	template.HasResourceProperties(jsii.String("AWS::BedrockAgentCore::Gateway"), map[string]interface{}{
		"AuthorizerType":          "CUSTOM_JWT",
		"AuthorizerConfiguration": assertions.Match_AnyValue(),
	})
}

func TestGatewayStack_Outputs(t *testing.T) {
	_, template := synth(t, testConfig())

	for _, name := range []string{"GatewayURL", "GatewayID", "GatewayRoleArn"} {
		template.HasOutput(jsii.String(name), map[string]interface{}{
			"Export": map[string]interface{}{"Name": "ConfluenceGatewayStack-Dev-" + name},
		})
	}
	template.HasOutput(jsii.String("CredentialProviderArn"), map[string]interface{}{
		"Value": "NOT_SET_YET",
	})
}

func TestGatewayStack_CredentialProviderOutput(t *testing.T) {
	cfg := testConfig()
	cfg.CredentialProviderARN = "arn:aws:bedrock-agentcore:us-east-1:111122223333:token-vault/default/apikeycredentialprovider/confluence-apikey-provider"

	_, template := synth(t, cfg)

	template.HasOutput(jsii.String("CredentialProviderArn"), map[string]interface{}{
		"Value": cfg.CredentialProviderARN,
	})
}

func TestGatewayStack_PublishGatewayID(t *testing.T) {
	_, template := synth(t, testConfig())
	template.ResourceCountIs(jsii.String("AWS::SSM::Parameter"), jsii.Number(0))

	cfg := testConfig()
	cfg.PublishGatewayID = true
	stack, template := synth(t, cfg)

	require.NotNil(t, stack.GatewayIDParameter)
	template.HasResourceProperties(jsii.String("AWS::SSM::Parameter"), map[string]interface{}{
		"Name": "/confluence/gateway/gateway-id",
		"Type": "String",
	})
}

func TestGatewayStack_Tags(t *testing.T) {
	cfg := testConfig()
	cfg.Tags["Project"] = "ConfluenceGateway"

	_, template := synth(t, cfg)

	template.HasResourceProperties(jsii.String("AWS::IAM::Role"), map[string]interface{}{
		"Tags": assertions.Match_ArrayWith(&[]interface{}{
			map[string]interface{}{"Key": "Project", "Value": "ConfluenceGateway"},
		}),
	})
}

func TestNewGatewayStack_PanicsOnInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.InboundIdentity = &InboundIdentity{Type: "OIDC"}

	assert.Panics(t, func() {
		NewGatewayStack(awscdk.NewApp(nil), cfg.StackName, cfg)
	})
}
