package agentcore

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/plexusone/agentcore-confluence-gateway/params"
)

// ProtocolMCP is the only protocol the gateway speaks.
const ProtocolMCP = "MCP"

// CredentialProviderUnset is the output value used before a credential
// provider has been registered.
const CredentialProviderUnset = "NOT_SET_YET"

// ServicePrincipal assumes the gateway execution role.
const ServicePrincipal = "bedrock-agentcore.amazonaws.com"

var gatewayNamePattern = regexp.MustCompile(`^([0-9a-zA-Z][-]?){1,100}$`)

// StackConfig describes a Confluence gateway stack.
type StackConfig struct {
	// StackName is the CloudFormation stack name. It also prefixes the
	// exported output names.
	StackName   string `json:"stackName" yaml:"stackName"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Account and Region pin the stack environment. Both may be empty for
	// an environment-agnostic synth.
	Account string `json:"account,omitempty" yaml:"account,omitempty"`
	Region  string `json:"region,omitempty" yaml:"region,omitempty"`

	GatewayName        string `json:"gatewayName" yaml:"gatewayName"`
	GatewayDescription string `json:"gatewayDescription,omitempty" yaml:"gatewayDescription,omitempty"`

	// InboundIdentity selects the gateway authorizer. Nil means IAM.
	InboundIdentity *InboundIdentity `json:"inboundIdentity,omitempty" yaml:"inboundIdentity,omitempty"`

	// CredentialProviderARN is echoed in the CredentialProviderArn output.
	CredentialProviderARN string `json:"credentialProviderArn,omitempty" yaml:"credentialProviderArn,omitempty"`

	// ParameterPrefix scopes the ssm:GetParameter grant.
	ParameterPrefix string `json:"parameterPrefix,omitempty" yaml:"parameterPrefix,omitempty"`

	// PublishGatewayID stores the gateway identifier in SSM for the smoke test.
	PublishGatewayID bool `json:"publishGatewayId,omitempty" yaml:"publishGatewayId,omitempty"`

	Tags map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// ApplyDefaults fills unset fields.
func (c *StackConfig) ApplyDefaults() {
	if c.Description == "" {
		c.Description = "AgentCore Gateway for Confluence integration"
	}
	if c.GatewayDescription == "" {
		c.GatewayDescription = c.Description
	}
	if c.ParameterPrefix == "" {
		c.ParameterPrefix = params.Prefix
	}
	if c.Tags == nil {
		c.Tags = make(map[string]string)
	}
}

// Validate reports the first problem with the configuration.
func (c StackConfig) Validate() error {
	if c.StackName == "" {
		return errors.New("stackName is required")
	}
	if c.GatewayName == "" {
		return errors.New("gatewayName is required")
	}
	if !gatewayNamePattern.MatchString(c.GatewayName) {
		return fmt.Errorf("gatewayName %q must be alphanumeric with single hyphens, at most 100 characters", c.GatewayName)
	}
	if _, err := ResolveAuthorizer(c.InboundIdentity, c.Region); err != nil {
		return err
	}
	return nil
}

func (c StackConfig) credentialProviderOutput() string {
	if c.CredentialProviderARN == "" {
		return CredentialProviderUnset
	}
	return c.CredentialProviderARN
}
