package zkproof

import "fmt"

// ValidationError reports a caller input outside a circuit's accepted range
type ValidationError struct {
	Circuit CircuitType
	Field   string
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid input %q: %s", e.Circuit, e.Field, e.Reason)
}

func invalidInput(ct CircuitType, field, reason string) error {
	return &ValidationError{Circuit: ct, Field: field, Reason: reason}
}
