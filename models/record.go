package models

// Case-study record data model shared by the proving and compression
// pipelines. Field names follow the submission collaborator's JSON payload.

// CaseStudyRecord is the sensitive record a submitter wants to prove
// properties of without disclosing it.
type CaseStudyRecord struct {
	CaseStudyID string `json:"case_study_id"`

	// Severity scores on a 1-10 scale
	BaselineSeverity int `json:"baseline_severity"`
	OutcomeSeverity  int `json:"outcome_severity"`

	DurationDays int    `json:"duration_days"`
	Protocol     string `json:"protocol,omitempty"`
	CostUSDCents int64  `json:"cost_usd_cents"`

	// Free-text sections; only their sizes ever leave the submitter
	Narrative string `json:"narrative,omitempty"`
	Outcome   string `json:"outcome,omitempty"`
}

// Fields returns the serializable sections of the record in a stable order.
// The compression accountant sums their lengths for size accounting.
func (r *CaseStudyRecord) Fields() []string {
	return []string{
		r.CaseStudyID,
		r.Protocol,
		r.Narrative,
		r.Outcome,
	}
}

// GetDemoRecord returns a fully populated demo record for testing and examples
func GetDemoRecord() *CaseStudyRecord {
	return &CaseStudyRecord{
		CaseStudyID:      "cs-demo-0001",
		BaselineSeverity: 8,
		OutcomeSeverity:  3,
		DurationDays:     42,
		Protocol:         "low-dose ketamine, 6 weeks, weekly titration",
		CostUSDCents:     385000,
		Narrative:        "Patient-reported symptom diary, weekly PHQ-9 scores and clinician notes.",
		Outcome:          "Sustained improvement at 6-week follow-up; no adverse events reported.",
	}
}
