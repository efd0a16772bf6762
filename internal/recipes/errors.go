package recipes

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for API requests.
var (
	// ErrNetwork covers transport failures, timeouts and non-2xx responses.
	ErrNetwork = errors.New("recipe api unreachable")

	// ErrDecode indicates the response body did not match the expected shape.
	ErrDecode = errors.New("recipe api returned malformed data")
)

// RequestError describes a failed API request.
type RequestError struct {
	Kind   error
	Path   string
	Status int
	Err    error
}

func (e *RequestError) Error() string {
	switch {
	case e.Status > 0 && e.Err == nil:
		return fmt.Sprintf("api %s returned status %d", e.Path, e.Status)
	case e.Status > 0:
		return fmt.Sprintf("api %s returned status %d: %v", e.Path, e.Status, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("api %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("api %s: %v", e.Path, e.Kind)
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *RequestError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// IsNetwork reports whether err is a network-kind request failure.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// IsDecode reports whether err is a decode-kind request failure.
func IsDecode(err error) bool {
	return errors.Is(err, ErrDecode)
}
