package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agext/levenshtein"
)

var (
	ErrMissingParameter = errors.New("missing parameter")
	ErrInvalidReference = errors.New("invalid reference")
	ErrDependencyCycle  = errors.New("dependency cycle detected")
	// ErrResourceUnavailable is logged when xrdb references cannot be
	// answered. Resolution falls back instead of returning it.
	ErrResourceUnavailable = errors.New("X resource database unavailable")
	ErrInvalidInherit      = errors.New("invalid inherit target")
	ErrInvalidValue        = errors.New("invalid value")
)

// KeyError ties an error to the fully qualified key it occurred in.
type KeyError struct {
	Path string // section.key
	Err  error
}

func (e *KeyError) Error() string {
	msg := e.Err.Error()
	if strings.HasPrefix(msg, e.Path+":") {
		return msg
	}
	return e.Path + ": " + msg
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

// CycleError reports a reference chain that leads back to itself. The last
// entry of Trace is the repeated key.
type CycleError struct {
	Trace []string
}

func (e *CycleError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Trace[len(e.Trace)-1])
	sb.WriteString(": dependency cycle detected:")
	for _, p := range e.Trace {
		sb.WriteString("\n>\t")
		sb.WriteString(p)
	}
	return sb.String()
}

func (e *CycleError) Is(target error) bool {
	return target == ErrDependencyCycle
}

// Recoverable reports whether err may be replaced by a caller-supplied
// default: only missing parameters and invalid references qualify.
func Recoverable(err error) bool {
	if errors.Is(err, ErrDependencyCycle) || errors.Is(err, ErrInvalidInherit) {
		return false
	}
	return errors.Is(err, ErrMissingParameter) || errors.Is(err, ErrInvalidReference)
}

// withPath attaches path to err unless it already names a key.
func withPath(path string, err error) error {
	var ke *KeyError
	var ce *CycleError
	if errors.As(err, &ke) || errors.As(err, &ce) {
		return err
	}
	return &KeyError{Path: path, Err: err}
}

// suggest returns a " (did you mean ...?)" hint for the candidate closest to
// name, or "" if nothing is close enough.
func suggest(name string, candidates []string) string {
	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein.Distance(name, c, nil)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist < 0 || bestDist > max(2, len(name)/3) {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", best)
}
