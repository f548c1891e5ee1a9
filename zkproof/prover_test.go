package zkproof

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casevault/privacy/models"
)

func TestCatalogFixedOrder(t *testing.T) {
	catalog := Catalog()
	require.Len(t, catalog, 4)

	want := []CircuitType{
		CircuitSymptomImprovement,
		CircuitDurationVerification,
		CircuitDataCompleteness,
		CircuitCostRange,
	}
	for i, d := range catalog {
		require.Equal(t, want[i], d.CircuitType)
		require.Positive(t, d.ConstraintCount)
		require.NotEmpty(t, d.PublicInputNames)
	}
}

func TestProveSymptomImprovement(t *testing.T) {
	p := NewProver(nil)

	for b := 1; b <= 10; b++ {
		for o := 1; o <= 10; o++ {
			proof, err := p.ProveSymptomImprovement(b, o)
			require.NoError(t, err)
			require.True(t, proof.Verified)
			require.NotEmpty(t, proof.ProofBytes)
			require.Equal(t, MinImprovementPercent, proof.PublicInputs["min_improvement_percent"])
		}
	}
}

func TestProveSymptomImprovementRejectsOutOfRange(t *testing.T) {
	p := NewProver(nil)

	for _, tc := range []struct{ b, o int }{
		{0, 5}, {11, 5}, {5, 0}, {5, 11}, {-1, 3},
	} {
		_, err := p.ProveSymptomImprovement(tc.b, tc.o)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "severities b=%d o=%d", tc.b, tc.o)
		require.Equal(t, CircuitSymptomImprovement, verr.Circuit)
	}
}

func TestProveDurationVerification(t *testing.T) {
	p := NewProver(nil)

	_, err := p.ProveDurationVerification(-1)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = p.ProveDurationVerification(0)
	require.Error(t, err)

	for _, d := range []int{1, 3, 7, 365} {
		proof, err := p.ProveDurationVerification(d)
		require.NoError(t, err)
		require.True(t, proof.Verified)
		require.Equal(t, MinDurationDays, proof.PublicInputs["min_duration_days"])
	}
}

func TestProveDataCompletenessThreshold(t *testing.T) {
	p := NewProver(nil)

	fourOfFive := CompletenessFlags{
		HasBaseline: true, HasOutcome: true, HasDuration: true, HasProtocol: true,
	}
	proof, err := p.ProveDataCompleteness(fourOfFive)
	require.NoError(t, err)
	require.True(t, proof.Verified)
	require.Equal(t, 0.8, proof.PublicInputs["completeness_score"])

	threeOfFive := CompletenessFlags{
		HasBaseline: true, HasOutcome: true, HasDuration: true,
	}
	proof, err = p.ProveDataCompleteness(threeOfFive)
	require.NoError(t, err)
	require.False(t, proof.Verified)
}

func TestProveCostRange(t *testing.T) {
	p := NewProver(nil)

	_, err := p.ProveCostRange(-1)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	proof, err := p.ProveCostRange(500_000)
	require.NoError(t, err)
	require.True(t, proof.Verified)

	// Over the ceiling still proves, but with verified false and the
	// actual cost absent from the public inputs
	proof, err = p.ProveCostRange(2_000_000)
	require.NoError(t, err)
	require.False(t, proof.Verified)
	require.Equal(t, int64(MaxCostUSDCents), proof.PublicInputs["max_cost_usd_cents"])
	require.Len(t, proof.PublicInputs, 1)
}

func TestGenerateValidationProofs(t *testing.T) {
	p := NewProver(nil)

	proofs, err := p.GenerateValidationProofs(models.GetDemoRecord())
	require.NoError(t, err)
	require.Len(t, proofs, 4)

	want := []CircuitType{
		CircuitSymptomImprovement,
		CircuitDurationVerification,
		CircuitDataCompleteness,
		CircuitCostRange,
	}
	for i, proof := range proofs {
		require.Equal(t, want[i], proof.CircuitType)
		require.False(t, proof.GeneratedAt.IsZero())
	}
}

func TestGenerateValidationProofsAllOrNothing(t *testing.T) {
	p := NewProver(nil)

	record := models.GetDemoRecord()
	record.DurationDays = 0

	proofs, err := p.GenerateValidationProofs(record)
	require.Error(t, err)
	require.Nil(t, proofs)

	// The symptom proof that succeeded before the failure still lands in
	// the audit log; only the returned set is all-or-nothing
	require.Len(t, p.ListProofs(), 1)
}

func TestListProofsIsAppendOnlyCopy(t *testing.T) {
	p := NewProver(nil)

	_, err := p.ProveDurationVerification(10)
	require.NoError(t, err)
	_, err = p.ProveCostRange(100)
	require.NoError(t, err)

	log := p.ListProofs()
	require.Len(t, log, 2)

	// Mutating the returned slice must not touch the prover's log
	log[0].Verified = false
	fresh := p.ListProofs()
	require.True(t, fresh[0].Verified)
}

func TestMockBackendRejectsUnknownCircuit(t *testing.T) {
	_, err := MockBackend{}.Prove(CircuitType("no-such-circuit"), ProofInputs{})
	require.Error(t, err)
}
