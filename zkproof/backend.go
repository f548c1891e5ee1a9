package zkproof

import (
	"crypto/rand"
	"fmt"
)

// ProofInputs carries the validated witness values for one proving call.
// Only the fields relevant to the requested circuit are read.
type ProofInputs struct {
	BaselineSeverity int
	OutcomeSeverity  int
	DurationDays     int
	Completeness     CompletenessFlags
	CostUSDCents     int64
}

// CompletenessFlags marks which of the five required record sections exist
type CompletenessFlags struct {
	HasBaseline bool `json:"has_baseline"`
	HasOutcome  bool `json:"has_outcome"`
	HasDuration bool `json:"has_duration"`
	HasProtocol bool `json:"has_protocol"`
	HasCost     bool `json:"has_cost"`
}

// Count returns how many of the five flags are set
func (f CompletenessFlags) Count() int {
	n := 0
	for _, b := range []bool{f.HasBaseline, f.HasOutcome, f.HasDuration, f.HasProtocol, f.HasCost} {
		if b {
			n++
		}
	}
	return n
}

// Backend produces proof bytes for a validated witness
type Backend interface {
	Prove(ct CircuitType, in ProofInputs) ([]byte, error)
}

// mockProofSize matches the serialized size of a groth16/BN254 proof so
// placeholder artifacts exercise the same storage paths as real ones.
const mockProofSize = 256

// MockBackend emits random placeholder proof bytes. It is the reference
// stand-in for a real proving system; the typed validation, public inputs
// and verified flags are identical under either backend.
type MockBackend struct{}

func (MockBackend) Prove(ct CircuitType, _ ProofInputs) ([]byte, error) {
	if _, ok := Describe(ct); !ok {
		return nil, fmt.Errorf("unknown circuit %q", ct)
	}
	buf := make([]byte, mockProofSize)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate proof bytes: %w", err)
	}
	return buf, nil
}
