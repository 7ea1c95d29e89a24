package params

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// ConfigurationError reports a required parameter that is absent from the
// store and has no default.
type ConfigurationError struct {
	Name   string
	Region string
	Secure bool
}

func (e *ConfigurationError) Error() string {
	kind := "SSM parameter"
	if e.Secure {
		kind = "SSM SecureString parameter"
	}
	return fmt.Sprintf("required %s %q not found in region %q; run the setup steps to create it", kind, e.Name, e.Region)
}

// IsConfigurationError reports whether err is, or wraps, a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// IsNotFound reports whether err is the store's "parameter not found" error.
func IsNotFound(err error) bool {
	var notFound *types.ParameterNotFound
	return errors.As(err, &notFound)
}
