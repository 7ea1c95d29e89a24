// Package cli holds the flags and helpers shared by the gateway commands.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/spf13/cobra"

	"github.com/plexusone/agentcore-confluence-gateway/config"
	"github.com/plexusone/agentcore-confluence-gateway/internal/log"
)

// Version is reported to the gateway by MCP clients. Set with -ldflags.
var Version = "dev"

// GlobalFlags are the persistent flags every command accepts.
type GlobalFlags struct {
	Region   string
	Verbose  bool
	JSONLogs bool

	// Logger is set by PreRun.
	Logger *slog.Logger

	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// Register adds the persistent flags to cmd and installs the logging pre-run.
func (g *GlobalFlags) Register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&g.Region, "region", "", "AWS region (env: AWS_REGION, AWS_DEFAULT_REGION)")
	cmd.PersistentFlags().BoolVarP(&g.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVar(&g.JSONLogs, "json-logs", false, "write logs as JSON")
	cmd.PersistentPreRunE = g.PreRun
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
}

// PreRun initializes logging.
func (g *GlobalFlags) PreRun(cmd *cobra.Command, _ []string) error {
	g.Logger = log.Init(log.Options{
		Verbose:    g.Verbose,
		JSONFormat: g.JSONLogs,
		Stderr:     cmd.ErrOrStderr(),
	})
	return nil
}

// Env returns the value of an environment variable.
func (g *GlobalFlags) Env(key string) string {
	if g.Getenv != nil {
		return g.Getenv(key)
	}
	return os.Getenv(key)
}

// ResolveRegion returns --region, AWS_REGION, AWS_DEFAULT_REGION or the
// default region, in that order.
func (g *GlobalFlags) ResolveRegion() string {
	return config.RegionFromEnv(g.Region, g.Env)
}

// LoadAWSConfig loads the shared AWS configuration for region.
func LoadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
}
