// gateway-smoke exercises a deployed Confluence gateway: it lists the gateway
// tools over SigV4-signed MCP and calls the search, page and space tools.
//
// Usage:
//
//	gateway-smoke [flags]
//
// Examples:
//
//	gateway-smoke                          # gateway id from /confluence/gateway/gateway-id
//	gateway-smoke --gateway-id gw-abc123   # explicit gateway
//	gateway-smoke --transport sdk          # use an MCP SDK session
//	gateway-smoke --strict                 # exit 1 when any check fails
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/plexusone/agentcore-confluence-gateway/config"
	"github.com/plexusone/agentcore-confluence-gateway/gatewayclient"
	"github.com/plexusone/agentcore-confluence-gateway/internal/cli"
	"github.com/plexusone/agentcore-confluence-gateway/params"
)

// Transports.
const (
	TransportJSONRPC = "jsonrpc"
	TransportSDK     = "sdk"
)

type options struct {
	cli.GlobalFlags
	transport string
	strict    bool
	gatewayID string
}

// callerFactory opens a gateway connection. The returned close func may be nil.
type callerFactory func(ctx context.Context, transport, endpoint string, clients *cli.AWSClients, logger *slog.Logger) (gatewayclient.Caller, func() error, error)

func main() {
	os.Exit(cli.Execute(context.Background(), newRootCmd(cli.NewAWSClients, newCaller)))
}

func newRootCmd(newClients cli.ClientFactory, open callerFactory) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "gateway-smoke",
		Short: "Smoke-test the deployed Confluence AgentCore gateway",
		Long: `Lists the tools of the deployed gateway and calls the searchByCQL,
getPageById and getSpaces tools when they are advertised.

The gateway id, Confluence subdomain and test page id are read from SSM.
An empty tool list exits 1. Failed checks are reported and exit 0 unless
--strict is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), opts, newClients, open)
		},
	}
	opts.Register(cmd)
	cmd.Flags().StringVar(&opts.transport, "transport", TransportJSONRPC, "gateway transport: jsonrpc or sdk")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit 1 when any check fails")
	cmd.Flags().StringVar(&opts.gatewayID, "gateway-id", "", "gateway id (default: SSM "+params.GatewayID+")")
	return cmd
}

func run(ctx context.Context, out io.Writer, opts *options, newClients cli.ClientFactory, open callerFactory) error {
	if opts.transport != TransportJSONRPC && opts.transport != TransportSDK {
		return fmt.Errorf("unknown transport %q (want %s or %s)", opts.transport, TransportJSONRPC, TransportSDK)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	region := opts.ResolveRegion()
	clients, err := newClients(ctx, region)
	if err != nil {
		return err
	}

	store := params.New(clients.SSM, region, params.WithLogger(logger))
	smoke, err := config.LoadSmoke(ctx, store, opts.gatewayID)
	if err != nil {
		return err
	}

	endpoint := gatewayclient.GatewayURL(smoke.GatewayID, smoke.Region)
	fmt.Fprintf(out, "Gateway ID  : %s\n", smoke.GatewayID)
	fmt.Fprintf(out, "Gateway URL : %s\n", endpoint)
	fmt.Fprintf(out, "Confluence  : %s.atlassian.net\n\n", smoke.ConfluenceSubdomain)

	caller, closeFn, err := open(ctx, opts.transport, endpoint, clients, logger)
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer func() {
			if err := closeFn(); err != nil {
				logger.Debug("closing gateway session", "error", err)
			}
		}()
	}

	suite := &gatewayclient.Suite{
		Caller:    caller,
		Subdomain: smoke.ConfluenceSubdomain,
		PageID:    smoke.TestPageID,
		Logger:    logger,
	}
	report, err := suite.Run(ctx)
	if errors.Is(err, gatewayclient.ErrNoTools) {
		return cli.WithHint(err, "add a Confluence target to the gateway, then run the smoke test again")
	}
	if err != nil {
		return err
	}

	report.WriteText(out)

	if opts.strict && report.Failed() > 0 {
		return fmt.Errorf("%d check(s) failed", report.Failed())
	}
	return nil
}

func newCaller(ctx context.Context, transport, endpoint string, clients *cli.AWSClients, logger *slog.Logger) (gatewayclient.Caller, func() error, error) {
	httpClient := gatewayclient.NewHTTPClient(clients.Config, clients.Region())

	if transport == TransportSDK {
		caller, err := gatewayclient.ConnectSDK(ctx, endpoint, cli.Version, httpClient)
		if err != nil {
			return nil, nil, err
		}
		return caller, caller.Close, nil
	}
	return gatewayclient.New(endpoint, httpClient, gatewayclient.WithLogger(logger)), nil, nil
}
