package zkproof

// CircuitType identifies one of the fixed proof statements
type CircuitType string

const (
	CircuitSymptomImprovement   CircuitType = "symptom-improvement"
	CircuitDurationVerification CircuitType = "duration-verification"
	CircuitDataCompleteness     CircuitType = "data-completeness"
	CircuitCostRange            CircuitType = "cost-range"
)

// Statement thresholds exposed as public inputs
const (
	MinImprovementPercent = 20
	MinDurationDays       = 7
	CompletenessRequired  = 0.8
	MaxCostUSDCents       = 1_000_000 // 10,000 USD
)

// CircuitDescriptor describes one available proof statement
type CircuitDescriptor struct {
	CircuitType      CircuitType `json:"circuit_type"`
	Description      string      `json:"description"`
	ConstraintCount  int         `json:"constraint_count"`
	PublicInputNames []string    `json:"public_input_names"`
}

var catalog = []CircuitDescriptor{
	{
		CircuitType:      CircuitSymptomImprovement,
		Description:      "Proves symptom severity improved by at least a public threshold without revealing the scores",
		ConstraintCount:  512,
		PublicInputNames: []string{"min_improvement_percent"},
	},
	{
		CircuitType:      CircuitDurationVerification,
		Description:      "Proves the treatment ran for a positive number of days against a public minimum",
		ConstraintCount:  256,
		PublicInputNames: []string{"min_duration_days"},
	},
	{
		CircuitType:      CircuitDataCompleteness,
		Description:      "Proves how many of the five required record sections are present",
		ConstraintCount:  320,
		PublicInputNames: []string{"completeness_score", "required_score"},
	},
	{
		CircuitType:      CircuitCostRange,
		Description:      "Proves the treatment cost falls under a public ceiling without revealing the amount",
		ConstraintCount:  384,
		PublicInputNames: []string{"max_cost_usd_cents"},
	},
}

// Catalog returns the descriptors of all available circuits in fixed order
func Catalog() []CircuitDescriptor {
	out := make([]CircuitDescriptor, len(catalog))
	copy(out, catalog)
	return out
}

// Describe returns the descriptor for a circuit type
func Describe(ct CircuitType) (CircuitDescriptor, bool) {
	for _, d := range catalog {
		if d.CircuitType == ct {
			return d, true
		}
	}
	return CircuitDescriptor{}, false
}
