package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/plexusone/agentcore-confluence-gateway/params"
	"github.com/plexusone/agentcore-confluence-gateway/registrar"
)

// ProviderCommand describes a credential-provider registration command.
type ProviderCommand struct {
	Use   string
	Short string
	Long  string

	// DefaultName is the provider name used when --name is not given.
	DefaultName string

	// Inputs are the required environment variables, in report order.
	Inputs []string

	// InputHint explains how to supply missing inputs.
	InputHint string

	// NewProvider builds the provider from validated inputs.
	NewProvider func(api registrar.ControlAPI, name string, in registrar.Inputs) registrar.Provider

	// Check, if set, inspects the inputs and may log warnings.
	Check func(in registrar.Inputs, logger *slog.Logger)
}

type providerOptions struct {
	GlobalFlags
	name     string
	secretID string
}

// NewProviderCommand builds a cobra command that registers a credential
// provider and stores its ARN in SSM.
func NewProviderCommand(pc ProviderCommand, newClients ClientFactory) *cobra.Command {
	opts := &providerOptions{}
	cmd := &cobra.Command{
		Use:   pc.Use,
		Short: pc.Short,
		Long:  pc.Long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProvider(cmd.Context(), cmd.OutOrStdout(), pc, opts, newClients)
		},
	}
	opts.Register(cmd)
	cmd.Flags().StringVar(&opts.name, "name", pc.DefaultName, "credential provider name")
	cmd.Flags().StringVar(&opts.secretID, "secret-id", "", "Secrets Manager secret holding the inputs as a JSON object")
	return cmd
}

func runProvider(ctx context.Context, out io.Writer, pc ProviderCommand, opts *providerOptions, newClients ClientFactory) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	localRegion := opts.ResolveRegion()
	clients, err := newClients(ctx, localRegion)
	if err != nil {
		return err
	}

	in, err := registrar.LoadInputs(ctx, pc.Inputs, opts.Env, clients.Secrets, opts.secretID)
	if err != nil {
		return err
	}
	if err := registrar.ValidateInputs(in, pc.Inputs...); err != nil {
		return WithHint(err, pc.InputHint)
	}
	if pc.Check != nil {
		pc.Check(in, logger)
	}

	bootstrap := params.New(clients.SSM, localRegion, params.WithLogger(logger))
	region := registrar.ResolveRegion(ctx, bootstrap, localRegion)
	if region != localRegion {
		if clients, err = newClients(ctx, region); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "Using region: %s\n", region)

	provider := pc.NewProvider(clients.Control, opts.name, in)
	fmt.Fprintf(out, "Registering credential provider: %s\n", provider.Name())

	store := params.New(clients.SSM, region, params.WithLogger(logger))
	res, err := registrar.New(store, logger).Register(ctx, provider)
	if err != nil {
		return WithHint(err, "check the bedrock-agentcore permissions of your AWS credentials, then run the command again")
	}

	fmt.Fprintf(out, "Credential provider %s: %s\n", res.Outcome, res.ARN)
	fmt.Fprintf(out, "ARN stored in SSM: %s\n", provider.ParameterName())
	fmt.Fprintln(out, "The gateway stack reads it on the next deploy.")
	return nil
}
