// Package threshold gates disclosure of a record behind a committee of
// independent approvers. An access request is approved only once at least
// threshold-many distinct committee members have recorded an approval.
package threshold

import "time"

// Status of an access request. Approved, rejected and expired are terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

// RequesterType classifies who is asking for disclosure
type RequesterType string

const (
	RequesterResearcher RequesterType = "researcher"
	RequesterValidator  RequesterType = "validator"
	RequesterPatient    RequesterType = "patient"
)

// EncryptionScheme names the symmetric scheme protecting the record
type EncryptionScheme string

const SchemeAES256GCM EncryptionScheme = "aes-256-gcm"

// CommitteeMember is one identity eligible to approve a request. The share
// commitment is present only once the member has approved.
type CommitteeMember struct {
	ValidatorAddress string     `json:"validator_address"`
	HasApproved      bool       `json:"has_approved"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	ShareCommitment  []byte     `json:"share_commitment,omitempty"`
}

// AccessRequest tracks one requester's pending right to decrypt one record.
// Committee size and threshold are fixed at creation; requests are never
// deleted, they persist for audit even past expiry.
type AccessRequest struct {
	ID               string            `json:"id"`
	CaseStudyID      string            `json:"case_study_id"`
	Requester        string            `json:"requester"`
	RequesterType    RequesterType     `json:"requester_type"`
	Justification    string            `json:"justification"`
	Status           Status            `json:"status"`
	Committee        []CommitteeMember `json:"committee"`
	Threshold        int               `json:"threshold"`
	CreatedAt        time.Time         `json:"created_at"`
	ExpiresAt        time.Time         `json:"expires_at"`
	EncryptionScheme EncryptionScheme  `json:"encryption_scheme"`
}

// ApprovedCount returns how many committee members have approved
func (r *AccessRequest) ApprovedCount() int {
	n := 0
	for _, m := range r.Committee {
		if m.HasApproved {
			n++
		}
	}
	return n
}

// Approvers returns the addresses of the members that have approved,
// in committee order.
func (r *AccessRequest) Approvers() []string {
	var out []string
	for _, m := range r.Committee {
		if m.HasApproved {
			out = append(out, m.ValidatorAddress)
		}
	}
	return out
}

// EffectiveStatus derives the status as of now. The stored field is never
// eagerly patched to expired; expiry is evaluated lazily on every read so
// the result cannot drift behind a background job's clock.
func (r *AccessRequest) EffectiveStatus(now time.Time) Status {
	switch r.Status {
	case StatusApproved, StatusRejected, StatusExpired:
		return r.Status
	}
	if now.After(r.ExpiresAt) {
		return StatusExpired
	}
	return r.Status
}

// Clone returns a deep copy so callers can never reach into stored state
func (r *AccessRequest) Clone() *AccessRequest {
	cp := *r
	cp.Committee = make([]CommitteeMember, len(r.Committee))
	copy(cp.Committee, r.Committee)
	for i := range cp.Committee {
		if sc := r.Committee[i].ShareCommitment; sc != nil {
			cp.Committee[i].ShareCommitment = append([]byte(nil), sc...)
		}
		if at := r.Committee[i].ApprovedAt; at != nil {
			t := *at
			cp.Committee[i].ApprovedAt = &t
		}
	}
	return &cp
}
