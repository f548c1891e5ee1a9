package zkproof

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/casevault/privacy/zkproof/circuits"
)

// GnarkBackend proves the catalog statements with groth16 over BN254.
// Compiled constraint systems and keys are built on first use per circuit
// and cached for the life of the backend.
type GnarkBackend struct {
	mu    sync.Mutex
	setup map[CircuitType]*trustedSetup
}

type trustedSetup struct {
	cs constraint.ConstraintSystem
	pk groth16.ProvingKey
	vk groth16.VerifyingKey
}

// NewGnarkBackend creates a backend with an empty setup cache
func NewGnarkBackend() *GnarkBackend {
	return &GnarkBackend{setup: make(map[CircuitType]*trustedSetup)}
}

func (b *GnarkBackend) Prove(ct CircuitType, in ProofInputs) ([]byte, error) {
	setup, err := b.setupFor(ct)
	if err != nil {
		return nil, err
	}

	assignment, err := assignmentFor(ct, in)
	if err != nil {
		return nil, err
	}

	witness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("witness creation failed: %w", err)
	}

	proof, err := groth16.Prove(setup.cs, setup.pk, witness)
	if err != nil {
		return nil, fmt.Errorf("proof creation failed: %w", err)
	}

	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("proof serialization failed: %w", err)
	}
	return buf.Bytes(), nil
}

func (b *GnarkBackend) setupFor(ct CircuitType) (*trustedSetup, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if s, ok := b.setup[ct]; ok {
		return s, nil
	}

	template, err := templateFor(ct)
	if err != nil {
		return nil, err
	}

	cs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, template)
	if err != nil {
		return nil, fmt.Errorf("failed to compile circuit %s: %w", ct, err)
	}

	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return nil, fmt.Errorf("failed to run setup for %s: %w", ct, err)
	}

	s := &trustedSetup{cs: cs, pk: pk, vk: vk}
	b.setup[ct] = s
	return s, nil
}

func templateFor(ct CircuitType) (frontend.Circuit, error) {
	switch ct {
	case CircuitSymptomImprovement:
		return &circuits.SymptomImprovement{}, nil
	case CircuitDurationVerification:
		return &circuits.DurationVerification{}, nil
	case CircuitDataCompleteness:
		return &circuits.DataCompleteness{}, nil
	case CircuitCostRange:
		return &circuits.CostRange{}, nil
	}
	return nil, fmt.Errorf("unknown circuit %q", ct)
}

func assignmentFor(ct CircuitType, in ProofInputs) (frontend.Circuit, error) {
	boolVar := func(b bool) int {
		if b {
			return 1
		}
		return 0
	}

	switch ct {
	case CircuitSymptomImprovement:
		return &circuits.SymptomImprovement{
			BaselineSeverity:      in.BaselineSeverity,
			OutcomeSeverity:       in.OutcomeSeverity,
			MinImprovementPercent: MinImprovementPercent,
		}, nil
	case CircuitDurationVerification:
		return &circuits.DurationVerification{
			DurationDays:    in.DurationDays,
			MinDurationDays: MinDurationDays,
		}, nil
	case CircuitDataCompleteness:
		return &circuits.DataCompleteness{
			HasBaseline: boolVar(in.Completeness.HasBaseline),
			HasOutcome:  boolVar(in.Completeness.HasOutcome),
			HasDuration: boolVar(in.Completeness.HasDuration),
			HasProtocol: boolVar(in.Completeness.HasProtocol),
			HasCost:     boolVar(in.Completeness.HasCost),
			FlagCount:   in.Completeness.Count(),
		}, nil
	case CircuitCostRange:
		return &circuits.CostRange{
			CostUSDCents:    in.CostUSDCents,
			MaxCostUSDCents: MaxCostUSDCents,
		}, nil
	}
	return nil, fmt.Errorf("unknown circuit %q", ct)
}
