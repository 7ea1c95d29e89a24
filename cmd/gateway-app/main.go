// gateway-app is the CDK app for the Confluence AgentCore gateway. Settings
// are read from SSM Parameter Store at synth time.
//
// Usage:
//
//	cdk --app "go run ./cmd/gateway-app" synth
//	cdk --app "go run ./cmd/gateway-app" deploy ConfluenceGatewayStack-Dev
//	cdk --app "go run ./cmd/gateway-app" -c env=staging deploy
//
// GATEWAY_CONFIG may name a YAML or JSON overlay file, see config.Overlay.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"

	"github.com/plexusone/agentcore-confluence-gateway/agentcore"
	"github.com/plexusone/agentcore-confluence-gateway/config"
	"github.com/plexusone/agentcore-confluence-gateway/internal/cli"
	"github.com/plexusone/agentcore-confluence-gateway/internal/log"
)

func main() {
	logger := log.Init(log.Options{Verbose: os.Getenv("GATEWAY_VERBOSE") != ""})
	ctx := context.Background()

	app := agentcore.NewApp()
	if _, err := build(ctx, app, cli.NewAWSClients, os.Getenv, logger); err != nil {
		cli.Report(os.Stderr, err)
		os.Exit(cli.ExitFatal)
	}
	agentcore.Synth(app)
}

// build resolves settings and adds the gateway stack to app.
func build(ctx context.Context, app awscdk.App, newClients cli.ClientFactory, getenv func(string) string, logger *slog.Logger) (*agentcore.GatewayStack, error) {
	clients, err := newClients(ctx, config.RegionFromEnv("", getenv))
	if err != nil {
		return nil, err
	}

	settings, err := cli.LoadSettings(ctx, clients, contextEnv(app), getenv, logger)
	if err != nil {
		return nil, err
	}

	stackConfig := agentcore.StackConfigFromSettings(settings)
	stackConfig.ApplyDefaults()
	if err := stackConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid gateway settings: %w", err)
	}

	return agentcore.NewGatewayStack(app, stackConfig.StackName, stackConfig), nil
}

// contextEnv returns the "env" CDK context value, if any.
func contextEnv(app awscdk.App) string {
	if v, ok := app.Node().TryGetContext(jsii.String("env")).(string); ok {
		return v
	}
	return ""
}
