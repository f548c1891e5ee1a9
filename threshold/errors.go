package threshold

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports an unknown access request id
	ErrNotFound = errors.New("access request not found")

	// ErrNotInCommittee reports an approver absent from the committee
	ErrNotInCommittee = errors.New("validator is not a committee member")

	// ErrNotApproved reports a decryption attempt before the threshold
	ErrNotApproved = errors.New("access request is not approved")
)

// ValidationError reports malformed caller input on request creation or
// an operation against a request in a terminal state.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
