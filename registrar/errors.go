package registrar

import (
	"fmt"
	"strings"
)

// MissingInputsError lists required secret inputs that were not supplied.
type MissingInputsError struct {
	Names []string
}

func (e *MissingInputsError) Error() string {
	return fmt.Sprintf("missing environment variables: %s", strings.Join(e.Names, ", "))
}

// RegistrationError is returned when no step of the upsert chain produced an
// ARN. It is not retryable.
type RegistrationError struct {
	Provider string
	Attempts []Attempt
}

func (e *RegistrationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "could not resolve ARN for credential provider %q", e.Provider)
	for _, a := range e.Attempts {
		if a.Err != nil {
			fmt.Fprintf(&b, "; %s: %v", a.Step, a.Err)
		}
	}
	return b.String()
}

// Unwrap returns the error of the last attempt.
func (e *RegistrationError) Unwrap() error {
	for i := len(e.Attempts) - 1; i >= 0; i-- {
		if e.Attempts[i].Err != nil {
			return e.Attempts[i].Err
		}
	}
	return nil
}
