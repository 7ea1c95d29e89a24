package cli

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/plexusone/agentcore-confluence-gateway/config"
	"github.com/plexusone/agentcore-confluence-gateway/params"
	"github.com/plexusone/agentcore-confluence-gateway/registrar"
)

// AWSClients bundles the service clients the commands use. Constructing
// clients performs no network calls.
type AWSClients struct {
	Config  aws.Config
	SSM     params.SSMAPI
	Control registrar.ControlAPI
	Secrets registrar.SecretsManagerAPI
	STS     config.CallerIdentityAPI
}

// ClientFactory builds clients for a region. Tests substitute fakes.
type ClientFactory func(ctx context.Context, region string) (*AWSClients, error)

// NewAWSClients is the production ClientFactory.
func NewAWSClients(ctx context.Context, region string) (*AWSClients, error) {
	cfg, err := LoadAWSConfig(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &AWSClients{
		Config:  cfg,
		SSM:     ssm.NewFromConfig(cfg),
		Control: bedrockagentcorecontrol.NewFromConfig(cfg),
		Secrets: secretsmanager.NewFromConfig(cfg),
		STS:     sts.NewFromConfig(cfg),
	}, nil
}

// Region returns the region the clients were built for.
func (c *AWSClients) Region() string {
	return c.Config.Region
}
