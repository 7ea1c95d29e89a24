package agentcore

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsbedrockagentcore"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsssm"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/plexusone/agentcore-confluence-gateway/params"
)

// GatewayStack is a CDK stack that deploys an MCP gateway for Confluence to
// AWS Bedrock AgentCore.
type GatewayStack struct {
	awscdk.Stack

	// Config is the stack configuration after defaults were applied.
	Config StackConfig

	// Authorizer is the resolved inbound authorizer.
	Authorizer Authorizer

	// ExecutionRole is assumed by the AgentCore service on behalf of the gateway.
	ExecutionRole awsiam.Role

	// Gateway is the AWS::BedrockAgentCore::Gateway resource.
	Gateway awsbedrockagentcore.CfnGateway

	// GatewayIDParameter holds the gateway identifier. Nil unless
	// Config.PublishGatewayID is set.
	GatewayIDParameter awsssm.StringParameter
}

// NewGatewayStack creates a new Confluence gateway stack. It panics on an
// invalid configuration.
func NewGatewayStack(scope constructs.Construct, id string, config StackConfig) *GatewayStack {
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		panic(fmt.Sprintf("invalid stack configuration: %v", err))
	}

	props := &awscdk.StackProps{
		StackName:   jsii.String(config.StackName),
		Description: jsii.String(config.Description),
	}
	if config.Account != "" || config.Region != "" {
		props.Env = &awscdk.Environment{
			Account: optionalString(config.Account),
			Region:  optionalString(config.Region),
		}
	}

	stack := awscdk.NewStack(scope, jsii.String(id), props)

	s := &GatewayStack{
		Stack:  stack,
		Config: config,
	}

	// Validate already proved the identity resolves.
	s.Authorizer, _ = ResolveAuthorizer(config.InboundIdentity, *stack.Region())

	s.createExecutionRole()
	s.createGateway()
	s.publishGatewayID()
	s.addOutputs(id)

	for k, v := range config.Tags {
		awscdk.Tags_Of(stack).Add(jsii.String(k), jsii.String(v), nil)
	}

	return s
}

func (s *GatewayStack) createExecutionRole() {
	role := awsiam.NewRole(s.Stack, jsii.String("GatewayExecutionRole"), &awsiam.RoleProps{
		Description: jsii.String(fmt.Sprintf("Execution role for AgentCore gateway %s", s.Config.GatewayName)),
		AssumedBy:   awsiam.NewServicePrincipal(jsii.String(ServicePrincipal), nil),
	})

	role.AddToPolicy(awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
		Sid:     jsii.String("ReadSSMParameters"),
		Effect:  awsiam.Effect_ALLOW,
		Actions: jsii.Strings("ssm:GetParameter", "ssm:GetParameters"),
		Resources: jsii.Strings(fmt.Sprintf("arn:aws:ssm:%s:%s:parameter%s*",
			*s.Stack.Region(), *s.Stack.Account(), s.Config.ParameterPrefix)),
	}))

	role.AddToPolicy(awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
		Sid:    jsii.String("UseCredentialProviders"),
		Effect: awsiam.Effect_ALLOW,
		Actions: jsii.Strings(
			"bedrock-agentcore:GetCredentialProvider",
			"bedrock-agentcore:GetCredential",
			"bedrock-agentcore:InvokeGateway",
		),
		Resources: jsii.Strings("*"),
	}))

	s.ExecutionRole = role
}

func (s *GatewayStack) createGateway() {
	props := &awsbedrockagentcore.CfnGatewayProps{
		Name:           jsii.String(s.Config.GatewayName),
		Description:    jsii.String(s.Config.GatewayDescription),
		AuthorizerType: jsii.String(s.Authorizer.Type),
		ProtocolType:   jsii.String(ProtocolMCP),
		RoleArn:        s.ExecutionRole.RoleArn(),
		Tags:           convertTags(s.Config.Tags),
	}

	if s.Authorizer.Type == AuthorizerCustomJWT {
		props.AuthorizerConfiguration = &awsbedrockagentcore.CfnGateway_AuthorizerConfigurationProperty{
			CustomJwtAuthorizer: &awsbedrockagentcore.CfnGateway_CustomJWTAuthorizerConfigurationProperty{
				DiscoveryUrl:    jsii.String(s.Authorizer.DiscoveryURL),
				AllowedAudience: jsii.Strings(s.Authorizer.AllowedAudience...),
				AllowedClients:  jsii.Strings(s.Authorizer.AllowedClients...),
			},
		}
	}

	s.Gateway = awsbedrockagentcore.NewCfnGateway(s.Stack, jsii.String("Gateway"), props)
}

func (s *GatewayStack) publishGatewayID() {
	if !s.Config.PublishGatewayID {
		return
	}

	s.GatewayIDParameter = awsssm.NewStringParameter(s.Stack, jsii.String("GatewayIdParameter"), &awsssm.StringParameterProps{
		ParameterName: jsii.String(params.GatewayID),
		StringValue:   s.Gateway.AttrGatewayIdentifier(),
		Description:   jsii.String(fmt.Sprintf("Identifier of AgentCore gateway %s", s.Config.GatewayName)),
	})
}

func (s *GatewayStack) addOutputs(id string) {
	awscdk.NewCfnOutput(s.Stack, jsii.String("GatewayURL"), &awscdk.CfnOutputProps{
		Value:       s.Gateway.AttrGatewayUrl(),
		Description: jsii.String("AgentCore Gateway MCP endpoint URL"),
		ExportName:  jsii.String(fmt.Sprintf("%s-GatewayURL", id)),
	})

	awscdk.NewCfnOutput(s.Stack, jsii.String("GatewayID"), &awscdk.CfnOutputProps{
		Value:       s.Gateway.AttrGatewayIdentifier(),
		Description: jsii.String("AgentCore Gateway ID"),
		ExportName:  jsii.String(fmt.Sprintf("%s-GatewayID", id)),
	})

	awscdk.NewCfnOutput(s.Stack, jsii.String("GatewayRoleArn"), &awscdk.CfnOutputProps{
		Value:       s.ExecutionRole.RoleArn(),
		Description: jsii.String("Execution role ARN for the AgentCore Gateway"),
		ExportName:  jsii.String(fmt.Sprintf("%s-GatewayRoleArn", id)),
	})

	awscdk.NewCfnOutput(s.Stack, jsii.String("CredentialProviderArn"), &awscdk.CfnOutputProps{
		Value:       jsii.String(s.Config.credentialProviderOutput()),
		Description: jsii.String("API Key Credential Provider ARN (from SSM)"),
	})
}

// convertTags converts a map to CDK tags.
func convertTags(tags map[string]string) *map[string]*string {
	if len(tags) == 0 {
		return nil
	}
	result := make(map[string]*string)
	for k, v := range tags {
		result[k] = jsii.String(v)
	}
	return &result
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return jsii.String(v)
}
