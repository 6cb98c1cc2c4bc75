// Package apperror defines the error taxonomy shared by the store adapters,
// the coordinators and the HTTP layer. Adapters translate driver errors into
// these sentinels so callers can classify with errors.Is without knowing
// which store produced the failure.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the addressed entity does not exist in its
	// canonical store.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicateEntity indicates a conditional insert lost the uniqueness
	// check on the entity's identity key.
	ErrDuplicateEntity = errors.New("entity already exists")

	// ErrValidation indicates a malformed payload rejected before any store
	// call was made.
	ErrValidation = errors.New("validation failed")

	// ErrStoreUnavailable indicates a connection or timeout failure talking
	// to one of the backing stores.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// PartialFailure reports an operation whose canonical (primary store) step
// succeeded while the derived graph step failed. The primary write is never
// undone; the caller decides whether to re-issue a reconciliation request.
type PartialFailure struct {
	Op          string // coordinator operation, e.g. "CreateFlight"
	OperationID string // correlation id for the degraded request
	Step        string // graph step that failed, e.g. "upsert_edges"
	Risk        string // resulting inconsistency, e.g. missing or dual edges
	Err         error  // underlying graph-store error
}

func (p *PartialFailure) Error() string {
	return fmt.Sprintf("%s: primary write committed but graph step %s failed: %v", p.Op, p.Step, p.Err)
}

func (p *PartialFailure) Unwrap() error {
	return p.Err
}

// AsPartialFailure extracts a PartialFailure from an error chain.
func AsPartialFailure(err error) (*PartialFailure, bool) {
	var pf *PartialFailure
	if errors.As(err, &pf) {
		return pf, true
	}
	return nil, false
}

// IsNotFound reports whether err classifies as a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicate reports whether err classifies as a uniqueness violation.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateEntity)
}

// IsValidation reports whether err classifies as a malformed payload.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsUnavailable reports whether err classifies as a store connectivity or
// timeout failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// Validationf builds a field-level validation error wrapping ErrValidation.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Unavailable wraps a driver error as a store connectivity failure, keeping
// the original error in the chain.
func Unavailable(store string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, store, err)
}
