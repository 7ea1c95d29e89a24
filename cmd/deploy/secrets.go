package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"

	"github.com/plexusone/agentcore-confluence-gateway/registrar"
)

// DefaultSecretName holds the registrar inputs pushed from the env file.
const DefaultSecretName = "confluence-gateway/credentials"

// secretKeys are the env-file keys pushed to Secrets Manager.
var secretKeys = []string{
	registrar.APIKeyEnv,
	registrar.OAuthClientIDEnv,
	registrar.OAuthSecretEnv,
}

// secretWriter is the subset of Secrets Manager the deploy command writes with.
type secretWriter interface {
	PutSecretValue(ctx context.Context, params *secretsmanager.PutSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error)
	CreateSecret(ctx context.Context, params *secretsmanager.CreateSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.CreateSecretOutput, error)
}

var _ secretWriter = (*secretsmanager.Client)(nil)

var envLine = regexp.MustCompile(`^\s*(export\s+)?([A-Za-z_][A-Za-z0-9_]*)=(.*)$`)

// parseEnvFile returns the values of keys found in r. Blank values and
// "your-" placeholders are ignored.
func parseEnvFile(r io.Reader, keys []string) (map[string]string, error) {
	wanted := make(map[string]bool, len(keys))
	for _, k := range keys {
		wanted[k] = true
	}

	values := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		matches := envLine.FindStringSubmatch(line)
		if matches == nil || !wanted[matches[2]] {
			continue
		}

		value := strings.Trim(strings.TrimSpace(matches[3]), `"'`)
		if value == "" || strings.HasPrefix(value, "your-") {
			continue
		}
		values[matches[2]] = value
	}
	return values, scanner.Err()
}

// findEnvFile returns explicit when set, otherwise the first of .env and
// ../.env that exists.
func findEnvFile(explicit string) (string, error) {
	candidates := []string{".env", filepath.Join("..", ".env")}
	if explicit != "" {
		candidates = []string{explicit}
		if !filepath.IsAbs(explicit) {
			candidates = append(candidates, filepath.Join("..", explicit))
		}
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no .env file found (searched %s)", strings.Join(candidates, ", "))
}

// pushSecret stores values as a JSON object in secretName, creating the
// secret when it does not exist.
func pushSecret(ctx context.Context, out io.Writer, client secretWriter, secretName string, values map[string]string, dryRun bool) error {
	if len(values) == 0 {
		fmt.Fprintf(out, "  Skipping %s (no keys found)\n", secretName)
		return nil
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintf(out, "  %s: %s\n", secretName, strings.Join(keys, ", "))

	if dryRun {
		fmt.Fprintln(out, "    [DRY RUN] Would create/update")
		return nil
	}

	data, err := json.Marshal(values)
	if err != nil {
		return err
	}

	_, err = client.PutSecretValue(ctx, &secretsmanager.PutSecretValueInput{
		SecretId:     aws.String(secretName),
		SecretString: aws.String(string(data)),
	})
	var notFound *types.ResourceNotFoundException
	switch {
	case err == nil:
		fmt.Fprintln(out, "    Updated")
		return nil
	case errors.As(err, &notFound):
		_, err = client.CreateSecret(ctx, &secretsmanager.CreateSecretInput{
			Name:         aws.String(secretName),
			Description:  aws.String("Confluence gateway credential provider inputs"),
			SecretString: aws.String(string(data)),
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "    Created")
		return nil
	default:
		return err
	}
}
