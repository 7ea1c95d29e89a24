// create-apikey-provider registers the Confluence API token as an AgentCore
// API-key credential provider and stores the provider ARN in SSM.
//
// Usage:
//
//	create-apikey-provider [flags]
//
// Examples:
//
//	export CONFLUENCE_API_KEY=$(printf 'me@example.com:api-token' | base64)
//	create-apikey-provider
//	create-apikey-provider --secret-id confluence-gateway/credentials
//	create-apikey-provider --region eu-west-1 --verbose
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/plexusone/agentcore-confluence-gateway/internal/cli"
	"github.com/plexusone/agentcore-confluence-gateway/registrar"
)

func main() {
	os.Exit(cli.Execute(context.Background(), newRootCmd(cli.NewAWSClients)))
}

func newRootCmd(newClients cli.ClientFactory) *cobra.Command {
	return cli.NewProviderCommand(cli.ProviderCommand{
		Use:   "create-apikey-provider",
		Short: "Register the Confluence API key with AgentCore Identity",
		Long: `Creates the API-key credential provider used by the Confluence gateway
target, or updates its key when it already exists, and stores the provider
ARN in /confluence/gateway/credential-provider-arn.

The key is read from CONFLUENCE_API_KEY, base64("email:api_token").`,
		DefaultName: registrar.APIKeyProviderName,
		Inputs:      []string{registrar.APIKeyEnv},
		InputHint:   `export CONFLUENCE_API_KEY=$(printf 'you@example.com:api-token' | base64), or pass --secret-id`,
		NewProvider: func(api registrar.ControlAPI, name string, in registrar.Inputs) registrar.Provider {
			return registrar.NewAPIKeyProvider(api, name, in[registrar.APIKeyEnv])
		},
		Check: func(in registrar.Inputs, logger *slog.Logger) {
			if err := registrar.CheckAPIKeyFormat(in[registrar.APIKeyEnv]); err != nil {
				logger.Warn("CONFLUENCE_API_KEY looks malformed", "error", err)
			}
		},
	}, newClients)
}
