package zkproof

import (
	"fmt"
	"sync"
	"time"

	"github.com/casevault/privacy/models"
)

// Proof is one generated proof artifact bound to its circuit's declared
// public inputs. Immutable once returned.
type Proof struct {
	CircuitType  CircuitType    `json:"circuit_type"`
	ProofBytes   []byte         `json:"proof_bytes"`
	PublicInputs map[string]any `json:"public_inputs"`
	Verified     bool           `json:"verified"`
	GeneratedAt  time.Time      `json:"generated_at"`
}

// Prover validates typed inputs per circuit and produces proofs through a
// pluggable backend. Every successful proof is appended to an internal
// audit log; issued proofs are never mutated.
type Prover struct {
	backend Backend

	mu  sync.Mutex
	log []Proof
}

// NewProver creates a prover over the given backend, defaulting to the
// placeholder MockBackend when nil.
func NewProver(backend Backend) *Prover {
	if backend == nil {
		backend = MockBackend{}
	}
	return &Prover{backend: backend}
}

// ProveSymptomImprovement proves both severity scores lie in [1,10].
// The public input fixes the minimum improvement threshold in percent.
func (p *Prover) ProveSymptomImprovement(baselineSeverity, outcomeSeverity int) (*Proof, error) {
	if baselineSeverity < 1 || baselineSeverity > 10 {
		return nil, invalidInput(CircuitSymptomImprovement, "baselineSeverity", "severity must be between 1 and 10")
	}
	if outcomeSeverity < 1 || outcomeSeverity > 10 {
		return nil, invalidInput(CircuitSymptomImprovement, "outcomeSeverity", "severity must be between 1 and 10")
	}

	return p.emit(CircuitSymptomImprovement,
		ProofInputs{BaselineSeverity: baselineSeverity, OutcomeSeverity: outcomeSeverity},
		map[string]any{"min_improvement_percent": MinImprovementPercent},
		true)
}

// ProveDurationVerification proves the duration is a positive day count.
// The public input fixes the minimum-days threshold.
func (p *Prover) ProveDurationVerification(durationDays int) (*Proof, error) {
	if durationDays <= 0 {
		return nil, invalidInput(CircuitDurationVerification, "durationDays", "duration must be positive")
	}

	return p.emit(CircuitDurationVerification,
		ProofInputs{DurationDays: durationDays},
		map[string]any{"min_duration_days": MinDurationDays},
		true)
}

// ProveDataCompleteness proves how many of the five record sections are
// present. Verified is true only when the completeness score reaches the
// required threshold; this is the one circuit whose verified flag depends
// on input quality.
func (p *Prover) ProveDataCompleteness(flags CompletenessFlags) (*Proof, error) {
	score := float64(flags.Count()) / 5

	return p.emit(CircuitDataCompleteness,
		ProofInputs{Completeness: flags},
		map[string]any{
			"completeness_score": score,
			"required_score":     CompletenessRequired,
		},
		score >= CompletenessRequired)
}

// ProveCostRange proves the cost is non-negative. The public input exposes
// the cost ceiling, never the actual amount; Verified is true iff the cost
// stays under the ceiling.
func (p *Prover) ProveCostRange(costUSDCents int64) (*Proof, error) {
	if costUSDCents < 0 {
		return nil, invalidInput(CircuitCostRange, "costUsdCents", "cost must not be negative")
	}

	return p.emit(CircuitCostRange,
		ProofInputs{CostUSDCents: costUSDCents},
		map[string]any{"max_cost_usd_cents": int64(MaxCostUSDCents)},
		costUSDCents <= MaxCostUSDCents)
}

// GenerateValidationProofs derives each circuit's inputs from the record
// and runs all four circuits in catalog order. If any circuit fails the
// whole call fails; no partial proof set is returned.
func (p *Prover) GenerateValidationProofs(record *models.CaseStudyRecord) ([]Proof, error) {
	symptom, err := p.ProveSymptomImprovement(record.BaselineSeverity, record.OutcomeSeverity)
	if err != nil {
		return nil, fmt.Errorf("symptom improvement proof failed: %w", err)
	}

	duration, err := p.ProveDurationVerification(record.DurationDays)
	if err != nil {
		return nil, fmt.Errorf("duration proof failed: %w", err)
	}

	completeness, err := p.ProveDataCompleteness(CompletenessFlags{
		HasBaseline: record.BaselineSeverity > 0,
		HasOutcome:  record.OutcomeSeverity > 0,
		HasDuration: record.DurationDays > 0,
		HasProtocol: record.Protocol != "",
		HasCost:     record.CostUSDCents > 0,
	})
	if err != nil {
		return nil, fmt.Errorf("completeness proof failed: %w", err)
	}

	cost, err := p.ProveCostRange(record.CostUSDCents)
	if err != nil {
		return nil, fmt.Errorf("cost range proof failed: %w", err)
	}

	return []Proof{*symptom, *duration, *completeness, *cost}, nil
}

// ListProofs returns a copy of the audit log in generation order
func (p *Prover) ListProofs() []Proof {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Proof, len(p.log))
	copy(out, p.log)
	return out
}

func (p *Prover) emit(ct CircuitType, in ProofInputs, publicInputs map[string]any, verified bool) (*Proof, error) {
	proofBytes, err := p.backend.Prove(ct, in)
	if err != nil {
		return nil, fmt.Errorf("backend proving failed for %s: %w", ct, err)
	}

	proof := Proof{
		CircuitType:  ct,
		ProofBytes:   proofBytes,
		PublicInputs: publicInputs,
		Verified:     verified,
		GeneratedAt:  time.Now(),
	}

	p.mu.Lock()
	p.log = append(p.log, proof)
	p.mu.Unlock()

	return &proof, nil
}
