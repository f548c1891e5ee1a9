// Package privacy composes proof generation, compression accounting and
// threshold access into one record-processing pipeline with an aggregate
// disclosure-readiness score.
package privacy

import (
	"fmt"
	"time"

	"github.com/casevault/privacy/compression"
	"github.com/casevault/privacy/models"
	"github.com/casevault/privacy/threshold"
	"github.com/casevault/privacy/zkproof"
)

// ProcessOptions selects which pipeline stages run for one record
type ProcessOptions struct {
	GenerateProofs      bool `json:"generate_proofs"`
	CompressData        bool `json:"compress_data"`
	CreateAccessSession bool `json:"create_access_session"`

	// CompressionRatio overrides the accountant default when > 0
	CompressionRatio int `json:"compression_ratio,omitempty"`

	// Access-session fields, read only when CreateAccessSession is set
	Requester     string                  `json:"requester,omitempty"`
	Justification string                  `json:"justification,omitempty"`
	RequesterType threshold.RequesterType `json:"requester_type,omitempty"`
}

// ProcessResult reports everything a submission flow needs to attach to
// its ledger write. Partial results survive a failed stage.
type ProcessResult struct {
	Success          bool                `json:"success"`
	Proofs           []zkproof.Proof     `json:"proofs,omitempty"`
	Compression      *compression.Result `json:"compression,omitempty"`
	AccessSessionID  string              `json:"access_session_id,omitempty"`
	Errors           []string            `json:"errors,omitempty"`
	ProcessingTimeMS int64               `json:"processing_time_ms"`
}

// Orchestrator runs the privacy pipeline over the three core subsystems
type Orchestrator struct {
	prover     *zkproof.Prover
	accountant *compression.Accountant
	access     *threshold.Controller
}

// NewOrchestrator wires the pipeline. The access controller may be nil
// when the caller never creates access sessions at submission time.
func NewOrchestrator(prover *zkproof.Prover, accountant *compression.Accountant, access *threshold.Controller) *Orchestrator {
	return &Orchestrator{prover: prover, accountant: accountant, access: access}
}

// ProcessRecord runs the selected stages in order: proofs, compression,
// access session. A failed stage records its error, marks the call
// unsuccessful and skips the remaining stages; whatever was produced
// before the failure is still returned.
func (o *Orchestrator) ProcessRecord(record *models.CaseStudyRecord, opts ProcessOptions) *ProcessResult {
	start := time.Now()
	result := &ProcessResult{Success: true}

	defer func() {
		elapsed := time.Since(start).Milliseconds()
		if elapsed < 1 {
			elapsed = 1 // clock granularity floor
		}
		result.ProcessingTimeMS = elapsed
	}()

	if opts.GenerateProofs {
		proofs, err := o.prover.GenerateValidationProofs(record)
		if err != nil {
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("proof generation: %v", err))
			return result
		}
		result.Proofs = proofs
	}

	if opts.CompressData {
		compressed, err := o.accountant.Compress(record, opts.CompressionRatio)
		if err != nil {
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("compression: %v", err))
			return result
		}
		result.Compression = compressed
	}

	if opts.CreateAccessSession {
		if o.access == nil {
			result.Success = false
			result.Errors = append(result.Errors, "access session: no threshold controller configured")
			return result
		}
		req, err := o.access.RequestAccess(opts.Requester, threshold.RequestParams{
			CaseStudyID:   record.CaseStudyID,
			Justification: opts.Justification,
			RequesterType: opts.RequesterType,
		})
		if err != nil {
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("access session: %v", err))
			return result
		}
		result.AccessSessionID = req.ID
	}

	return result
}
