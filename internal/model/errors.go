package model

import "errors"

// ErrInconsistent marks an internal-consistency failure. Processing of the
// affected document must stop; the error is never retried.
var ErrInconsistent = errors.New("internal inconsistency")

// IsInconsistent reports whether err is an internal-consistency failure
func IsInconsistent(err error) bool {
	return errors.Is(err, ErrInconsistent)
}
