// deploy orchestrates a Confluence gateway deployment.
//
// It handles:
//  1. Pushing credential provider inputs from .env to AWS Secrets Manager
//  2. Resolving and checking the gateway settings from SSM
//  3. Bootstrapping AWS CDK
//  4. Deploying the gateway stack
//
// Usage:
//
//	deploy [flags]
//
// Examples:
//
//	deploy                        # Deploy the dev stack
//	deploy --env-file ../.env     # Specify env file location
//	deploy --region us-west-2     # Deploy to specific region
//	deploy --stage staging        # Deploy ConfluenceGatewayStack-Staging
//	deploy --dry-run              # Run cdk diff instead of deploy
//	deploy --skip-secrets         # Skip secrets push
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/spf13/cobra"

	"github.com/plexusone/agentcore-confluence-gateway/agentcore"
	"github.com/plexusone/agentcore-confluence-gateway/config"
	"github.com/plexusone/agentcore-confluence-gateway/internal/cli"
)

// DefaultApp is the cdk --app command for the gateway stack.
const DefaultApp = "go run ./cmd/gateway-app"

type options struct {
	cli.GlobalFlags
	stage         string
	envFile       string
	secretName    string
	app           string
	dryRun        bool
	skipSecrets   bool
	skipBootstrap bool
}

// commandRunner runs an external command with output attached to out.
type commandRunner func(ctx context.Context, out io.Writer, name string, args ...string) error

type deps struct {
	newClients cli.ClientFactory
	newSecrets func(cfg aws.Config) secretWriter
	run        commandRunner
}

func main() {
	d := deps{
		newClients: cli.NewAWSClients,
		newSecrets: func(cfg aws.Config) secretWriter { return secretsmanager.NewFromConfig(cfg) },
		run:        execCommand,
	}
	os.Exit(cli.Execute(context.Background(), newRootCmd(d)))
}

func newRootCmd(d deps) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the Confluence AgentCore gateway",
		Long: `Deploy the Confluence AgentCore gateway.

Steps:
  1. Push CONFLUENCE_API_KEY, OAUTH_CLIENT_ID and OAUTH_CLIENT_SECRET from .env
     to a Secrets Manager secret (read by the create-*-provider --secret-id flag)
  2. Resolve the gateway settings from SSM and fail early on missing parameters
  3. Bootstrap AWS CDK (if needed)
  4. Deploy the CDK stack`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), opts, d)
		},
	}
	opts.Register(cmd)
	f := cmd.Flags()
	f.StringVar(&opts.stage, "stage", config.DefaultEnv, "environment name, passed to the CDK app as -c env=<stage>")
	f.StringVar(&opts.envFile, "env-file", "", "path to .env file (default: .env or ../.env)")
	f.StringVar(&opts.secretName, "secret-name", DefaultSecretName, "Secrets Manager secret for credential provider inputs")
	f.StringVar(&opts.app, "app", DefaultApp, "cdk --app command")
	f.BoolVar(&opts.dryRun, "dry-run", false, "preview changes without deploying")
	f.BoolVar(&opts.skipSecrets, "skip-secrets", false, "skip pushing secrets")
	f.BoolVar(&opts.skipBootstrap, "skip-bootstrap", false, "skip CDK bootstrap")
	return cmd
}

func run(ctx context.Context, out io.Writer, opts *options, d deps) error {
	region := opts.ResolveRegion()

	fmt.Fprintln(out, "=== Confluence Gateway Deployment ===")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Region: %s\n", region)
	fmt.Fprintf(out, "Stage: %s\n", opts.stage)
	if opts.dryRun {
		fmt.Fprintln(out, "Mode: DRY RUN (no changes will be made)")
	}
	fmt.Fprintln(out)

	clients, err := d.newClients(ctx, region)
	if err != nil {
		return err
	}

	identity, err := clients.STS.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return fmt.Errorf("getting AWS identity: %w", err)
	}
	accountID := aws.ToString(identity.Account)
	fmt.Fprintf(out, "AWS Account: %s\n\n", accountID)

	// Step 1
	if opts.skipSecrets {
		fmt.Fprintln(out, "=== Step 1: Skipping secrets (--skip-secrets) ===")
	} else {
		fmt.Fprintln(out, "=== Step 1: Push Secrets ===")
		if err := pushSecrets(ctx, out, opts, d, clients); err != nil {
			return fmt.Errorf("pushing secrets: %w", err)
		}
	}
	fmt.Fprintln(out)

	// Step 2
	fmt.Fprintln(out, "=== Step 2: Check Settings ===")
	settings, err := cli.LoadSettings(ctx, clients, opts.stage, opts.Env, opts.Logger)
	if err != nil {
		return err
	}
	stackConfig := agentcore.StackConfigFromSettings(settings)
	stackConfig.ApplyDefaults()
	if err := stackConfig.Validate(); err != nil {
		return fmt.Errorf("invalid gateway settings: %w", err)
	}
	fmt.Fprintf(out, "Stack: %s\n", settings.StackName)
	fmt.Fprintf(out, "Gateway: %s\n", settings.GatewayName)
	fmt.Fprintf(out, "Target: %s/%s\n", settings.AccountID, settings.Region)
	if settings.CredentialProviderARN == "" && settings.OAuthCredentialProviderARN == "" {
		fmt.Fprintln(out, "Warning: no credential provider registered yet; run create-apikey-provider or create-oauth-provider")
	}
	fmt.Fprintln(out)

	// Step 3
	if opts.skipBootstrap {
		fmt.Fprintln(out, "=== Step 3: Skipping bootstrap (--skip-bootstrap) ===")
	} else {
		fmt.Fprintln(out, "=== Step 3: Bootstrap CDK ===")
		bootstrapCDK(ctx, out, d.run, settings.AccountID, settings.Region, opts.dryRun)
	}
	fmt.Fprintln(out)

	// Step 4
	fmt.Fprintln(out, "=== Step 4: Deploy ===")
	if err := deployCDK(ctx, out, d.run, opts, settings.StackName); err != nil {
		return fmt.Errorf("deploying: %w", err)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "=== Deployment Complete ===")
	if !opts.dryRun {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "To get outputs:")
		fmt.Fprintf(out, "  aws cloudformation describe-stacks --stack-name %s --region %s --query 'Stacks[0].Outputs' --no-cli-pager\n",
			settings.StackName, settings.Region)
	}
	return nil
}

func pushSecrets(ctx context.Context, out io.Writer, opts *options, d deps, clients *cli.AWSClients) error {
	path, err := findEnvFile(opts.envFile)
	if err != nil {
		fmt.Fprintf(out, "  %v, skipping secrets push\n", err)
		return nil
	}
	fmt.Fprintf(out, "Reading from: %s\n", path)

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	values, err := parseEnvFile(f, secretKeys)
	if err != nil {
		return err
	}

	var client secretWriter
	if !opts.dryRun {
		client = d.newSecrets(clients.Config)
	}
	return pushSecret(ctx, out, client, opts.secretName, values, opts.dryRun)
}

// bootstrapCDK runs cdk bootstrap. Failures are reported, not returned.
func bootstrapCDK(ctx context.Context, out io.Writer, run commandRunner, accountID, region string, dryRun bool) {
	target := fmt.Sprintf("aws://%s/%s", accountID, region)
	fmt.Fprintf(out, "Bootstrap target: %s\n", target)

	if dryRun {
		fmt.Fprintln(out, "[DRY RUN] Would run: cdk bootstrap "+target)
		return
	}

	if err := run(ctx, out, "cdk", "bootstrap", target); err != nil {
		fmt.Fprintf(out, "  Bootstrap did not complete (%v); continuing\n", err)
	}
}

// deployCDK runs cdk deploy, or cdk diff for a dry run.
func deployCDK(ctx context.Context, out io.Writer, run commandRunner, opts *options, stackName string) error {
	args := []string{"--app", opts.app, "-c", "env=" + opts.stage}

	if opts.dryRun {
		fmt.Fprintln(out, "Running cdk diff...")
		// cdk diff exits non-zero when there are differences.
		_ = run(ctx, out, "cdk", append([]string{"diff", stackName}, args...)...)
		return nil
	}

	fmt.Fprintln(out, "Running cdk deploy...")
	return run(ctx, out, "cdk", append([]string{"deploy", stackName}, append(args, "--require-approval", "never")...)...)
}

func execCommand(ctx context.Context, out io.Writer, name string, args ...string) error {
	//nolint:gosec // G204: arguments come from flags and resolved settings
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = out
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
