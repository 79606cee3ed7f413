package domain

import (
	"fmt"

	"github.com/juju/errors"
)

// ErrCategoryInUse is returned when deleting a category that still has items
// and the delete policy is reject.
const ErrCategoryInUse = errors.ConstError("category is in use")

// UpstreamPaymentError reports a payment provider failure.
type UpstreamPaymentError struct {
	StatusCode int
	Err        error
}

func (e *UpstreamPaymentError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%v (status %d)", e.Err, e.StatusCode)
	}
	return fmt.Sprintf("payment provider: %v", e.Err)
}

func (e *UpstreamPaymentError) Unwrap() error { return e.Err }
