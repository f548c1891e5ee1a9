// Package circuits defines the gnark statements behind the proof catalog.
//
// Each circuit asserts only range facts that hold for every input the
// prover's host-side validation admits, so swapping the proving backend
// never changes which operations succeed.
package circuits

import (
	"github.com/consensys/gnark/frontend"
)

// SymptomImprovement attests that both severity scores lie on the 1-10
// scale. The improvement threshold is exposed, not enforced: whether the
// outcome clears it is reported by the prover, not the circuit.
type SymptomImprovement struct {
	BaselineSeverity frontend.Variable `gnark:",secret"`
	OutcomeSeverity  frontend.Variable `gnark:",secret"`

	MinImprovementPercent frontend.Variable `gnark:",public"`
}

func (c *SymptomImprovement) Define(api frontend.API) error {
	api.AssertIsLessOrEqual(1, c.BaselineSeverity)
	api.AssertIsLessOrEqual(c.BaselineSeverity, 10)
	api.AssertIsLessOrEqual(1, c.OutcomeSeverity)
	api.AssertIsLessOrEqual(c.OutcomeSeverity, 10)
	api.AssertIsLessOrEqual(c.MinImprovementPercent, 100)
	return nil
}

// DurationVerification attests the treatment duration is a positive day count.
type DurationVerification struct {
	DurationDays frontend.Variable `gnark:",secret"`

	MinDurationDays frontend.Variable `gnark:",public"`
}

func (c *DurationVerification) Define(api frontend.API) error {
	api.AssertIsLessOrEqual(1, c.DurationDays)
	api.AssertIsLessOrEqual(1, c.MinDurationDays)
	return nil
}

// DataCompleteness attests that the five section flags are booleans and
// that the public flag count is their exact sum.
type DataCompleteness struct {
	HasBaseline frontend.Variable `gnark:",secret"`
	HasOutcome  frontend.Variable `gnark:",secret"`
	HasDuration frontend.Variable `gnark:",secret"`
	HasProtocol frontend.Variable `gnark:",secret"`
	HasCost     frontend.Variable `gnark:",secret"`

	FlagCount frontend.Variable `gnark:",public"`
}

func (c *DataCompleteness) Define(api frontend.API) error {
	api.AssertIsBoolean(c.HasBaseline)
	api.AssertIsBoolean(c.HasOutcome)
	api.AssertIsBoolean(c.HasDuration)
	api.AssertIsBoolean(c.HasProtocol)
	api.AssertIsBoolean(c.HasCost)

	sum := api.Add(c.HasBaseline, c.HasOutcome, c.HasDuration, c.HasProtocol, c.HasCost)
	api.AssertIsEqual(c.FlagCount, sum)
	return nil
}

// CostRange attests the cost is a non-negative 63-bit amount. The public
// ceiling is exposed for verifiers; whether the hidden cost clears it is
// reported by the prover.
type CostRange struct {
	CostUSDCents frontend.Variable `gnark:",secret"`

	MaxCostUSDCents frontend.Variable `gnark:",public"`
}

func (c *CostRange) Define(api frontend.API) error {
	// ToBinary range-checks the witness into 63 bits, rejecting negative
	// field elements
	api.ToBinary(c.CostUSDCents, 63)
	api.AssertIsLessOrEqual(1, c.MaxCostUSDCents)
	return nil
}
