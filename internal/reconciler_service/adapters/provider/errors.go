package provider

import (
	"errors"
	"fmt"
)

// TransientError marks a provider failure that is worth retrying: network
// errors, rate limiting and provider-side 5xx responses.
type TransientError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransientError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider %s: transient failure (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider %s: transient failure: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// PermanentError marks a provider failure that retrying cannot fix, such as
// a 404 for an unknown SID or a rejected create request.
type PermanentError struct {
	Op         string
	StatusCode int
	Code       int
	Message    string
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("provider %s: permanent failure (status %d, code %d): %s", e.Op, e.StatusCode, e.Code, e.Message)
}

// IsTransient reports whether err is (or wraps) a TransientError.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
