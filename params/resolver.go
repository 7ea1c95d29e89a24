// Package params resolves gateway configuration from AWS Systems Manager
// Parameter Store.
//
// Values are read on every call; nothing is cached between calls or across
// process runs. Only the store's "parameter not found" error is interpreted.
// Every other error (throttling, access denied, network) is returned to the
// caller wrapped but otherwise unchanged, and is never retried here.
package params

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"

	"github.com/plexusone/agentcore-confluence-gateway/internal/log"
)

// SSMAPI is the subset of the SSM client used by Resolver.
type SSMAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
	PutParameter(ctx context.Context, params *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error)
}

var _ SSMAPI = (*ssm.Client)(nil)

// Resolver reads and writes parameters in a single region.
type Resolver struct {
	client SSMAPI
	region string
	logger *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for default-value warnings.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// New creates a Resolver backed by client. region is only used in error
// messages; the client must already be configured for it.
func New(client SSMAPI, region string, opts ...Option) *Resolver {
	r := &Resolver{client: client, region: region}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = log.OrDefault(r.logger)
	return r
}

// NewFromConfig creates a Resolver with an SSM client built from cfg.
func NewFromConfig(cfg aws.Config, opts ...Option) *Resolver {
	return New(ssm.NewFromConfig(cfg), cfg.Region, opts...)
}

// Region returns the region the resolver reports in errors.
func (r *Resolver) Region() string {
	return r.region
}

// Get returns the plain-string parameter name. When the parameter does not
// exist, def is returned with a warning; an empty def makes the parameter
// required and a *ConfigurationError is returned instead.
func (r *Resolver) Get(ctx context.Context, name, def string) (string, error) {
	value, found, err := r.lookup(ctx, name, false)
	if err != nil {
		return "", err
	}
	if found {
		return value, nil
	}
	if def == "" {
		return "", &ConfigurationError{Name: name, Region: r.region}
	}
	r.logger.Warn("SSM parameter not found, using default", "name", name, "default", def)
	return def, nil
}

// GetOptional returns the parameter and whether it exists. A missing
// parameter is not an error.
func (r *Resolver) GetOptional(ctx context.Context, name string) (string, bool, error) {
	return r.lookup(ctx, name, false)
}

// GetSecure returns the decrypted SecureString parameter name. There is no
// default path: a missing secret is always a *ConfigurationError.
func (r *Resolver) GetSecure(ctx context.Context, name string) (string, error) {
	value, found, err := r.lookup(ctx, name, true)
	if err != nil {
		return "", err
	}
	if !found {
		return "", &ConfigurationError{Name: name, Region: r.region, Secure: true}
	}
	return value, nil
}

func (r *Resolver) lookup(ctx context.Context, name string, decrypt bool) (string, bool, error) {
	input := &ssm.GetParameterInput{Name: aws.String(name)}
	if decrypt {
		input.WithDecryption = aws.Bool(true)
	}

	out, err := r.client.GetParameter(ctx, input)
	if err != nil {
		if IsNotFound(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("getting SSM parameter %s: %w", name, err)
	}
	if out.Parameter == nil {
		return "", false, nil
	}
	return aws.ToString(out.Parameter.Value), true, nil
}

type putOptions struct {
	secure bool
}

// PutOption configures Put.
type PutOption func(*putOptions)

// Secure stores the value as an encrypted SecureString.
func Secure() PutOption {
	return func(o *putOptions) {
		o.secure = true
	}
}

// Put writes value to name, overwriting any previous value. Concurrent
// writers race with last-write-wins semantics.
func (r *Resolver) Put(ctx context.Context, name, value, description string, opts ...PutOption) error {
	var o putOptions
	for _, opt := range opts {
		opt(&o)
	}

	paramType := types.ParameterTypeString
	if o.secure {
		paramType = types.ParameterTypeSecureString
	}

	input := &ssm.PutParameterInput{
		Name:      aws.String(name),
		Value:     aws.String(value),
		Type:      paramType,
		Overwrite: aws.Bool(true),
	}
	if description != "" {
		input.Description = aws.String(description)
	}

	if _, err := r.client.PutParameter(ctx, input); err != nil {
		return fmt.Errorf("putting SSM parameter %s: %w", name, err)
	}
	return nil
}
