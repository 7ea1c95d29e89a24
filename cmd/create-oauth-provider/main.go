// create-oauth-provider registers an Atlassian OAuth 2.0 client as an
// AgentCore OAuth2 credential provider and stores the provider ARN in SSM.
//
// Usage:
//
//	create-oauth-provider [flags]
//
// Examples:
//
//	export OAUTH_CLIENT_ID=... OAUTH_CLIENT_SECRET=...
//	create-oauth-provider
//	create-oauth-provider --secret-id confluence-gateway/credentials
package main

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plexusone/agentcore-confluence-gateway/internal/cli"
	"github.com/plexusone/agentcore-confluence-gateway/registrar"
)

func main() {
	os.Exit(cli.Execute(context.Background(), newRootCmd(cli.NewAWSClients)))
}

func newRootCmd(newClients cli.ClientFactory) *cobra.Command {
	return cli.NewProviderCommand(cli.ProviderCommand{
		Use:   "create-oauth-provider",
		Short: "Register the Atlassian OAuth client with AgentCore Identity",
		Long: `Creates the OAuth2 credential provider used by the Confluence gateway
target, or updates its client credentials when it already exists, and stores
the provider ARN in /confluence/gateway/oauth-credential-provider-arn.

Client credentials come from an OAuth 2.0 (3LO) app in the Atlassian
developer console. Grant the app these scopes there; they are not part of the
provider registration:

  ` + strings.Join(registrar.AtlassianScopes, "\n  "),
		DefaultName: registrar.OAuthProviderName,
		Inputs:      []string{registrar.OAuthClientIDEnv, registrar.OAuthSecretEnv},
		InputHint:   "create an OAuth 2.0 app at https://developer.atlassian.com/console/myapps/ and export its client id and secret, or pass --secret-id",
		NewProvider: func(api registrar.ControlAPI, name string, in registrar.Inputs) registrar.Provider {
			return registrar.NewOAuthProvider(api, name, in[registrar.OAuthClientIDEnv], in[registrar.OAuthSecretEnv])
		},
	}, newClients)
}
