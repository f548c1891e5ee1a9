package threshold

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
)

// Committee defaults and creation-time validation bounds
const (
	DefaultCommitteeSize   = 5
	DefaultThreshold       = 3
	DefaultRequestTTL      = 48 * time.Hour
	MinJustificationLength = 50
)

// Config tunes a controller. Zero values fall back to the defaults above.
type Config struct {
	CommitteeSize int
	Threshold     int
	RequestTTL    time.Duration
}

// RequestParams carries the caller-supplied fields of a new access request
type RequestParams struct {
	CaseStudyID        string           `json:"case_study_id"`
	Justification      string           `json:"justification"`
	RequesterType      RequesterType    `json:"requester_type"`
	EncryptionScheme   EncryptionScheme `json:"encryption_scheme,omitempty"`
	PreferredThreshold int              `json:"preferred_threshold,omitempty"`
}

// CommitteeStatus summarizes approval progress for display. Progress is
// approved/threshold and may exceed 1.0 once more than threshold-many
// members approved; callers clamp for display.
type CommitteeStatus struct {
	Total     int     `json:"total"`
	Approved  int     `json:"approved"`
	Threshold int     `json:"threshold"`
	Progress  float64 `json:"progress"`
}

// DecryptResult reports the outcome of a gated decryption. Failures are
// descriptive, not propagated errors, so a disclosure UI can render them
// directly.
type DecryptResult struct {
	Success    bool     `json:"success"`
	Data       []byte   `json:"data,omitempty"`
	ApprovedBy []string `json:"approved_by,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// Controller owns the access-request state machine over an injected
// session store.
type Controller struct {
	store SessionStore
	cfg   Config
	now   func() time.Time
}

// NewController creates a controller over the given store
func NewController(store SessionStore, cfg Config) *Controller {
	if cfg.CommitteeSize <= 0 {
		cfg.CommitteeSize = DefaultCommitteeSize
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.RequestTTL <= 0 {
		cfg.RequestTTL = DefaultRequestTTL
	}
	return &Controller{store: store, cfg: cfg, now: time.Now}
}

// RequestAccess opens a new disclosure session: a fresh fixed-size
// committee, a threshold, and a 48h expiry window. Committee membership is
// fixed for the life of the request.
func (c *Controller) RequestAccess(requester string, params RequestParams) (*AccessRequest, error) {
	if len(params.Justification) < MinJustificationLength {
		return nil, &ValidationError{
			Field:  "justification",
			Reason: fmt.Sprintf("must be at least %d characters", MinJustificationLength),
		}
	}

	threshold := c.cfg.Threshold
	if params.PreferredThreshold > 0 {
		if params.PreferredThreshold > c.cfg.CommitteeSize {
			return nil, &ValidationError{
				Field:  "preferred_threshold",
				Reason: fmt.Sprintf("must not exceed committee size %d", c.cfg.CommitteeSize),
			}
		}
		threshold = params.PreferredThreshold
	}

	scheme := params.EncryptionScheme
	if scheme == "" {
		scheme = SchemeAES256GCM
	}

	committee, err := c.selectCommittee()
	if err != nil {
		return nil, err
	}

	now := c.now()
	req := &AccessRequest{
		ID:               requestID(params.CaseStudyID, now),
		CaseStudyID:      params.CaseStudyID,
		Requester:        requester,
		RequesterType:    params.RequesterType,
		Justification:    params.Justification,
		Status:           StatusPending,
		Committee:        committee,
		Threshold:        threshold,
		CreatedAt:        now,
		ExpiresAt:        now.Add(c.cfg.RequestTTL),
		EncryptionScheme: scheme,
	}

	if err := c.store.Put(req); err != nil {
		return nil, fmt.Errorf("failed to store access request: %w", err)
	}
	return req, nil
}

// Approve records one committee member's approval as an atomic
// read-modify-write against the session store. Re-approving an
// already-approved member is a silent no-op: the approval count is what
// the invariants are about, and it cannot double-count.
func (c *Controller) Approve(requestID, validatorAddress string, shareCommitment []byte) (*AccessRequest, error) {
	now := c.now()

	return c.store.Update(requestID, func(req *AccessRequest) error {
		switch req.EffectiveStatus(now) {
		case StatusExpired:
			return &ValidationError{Field: "request", Reason: "request has expired"}
		case StatusRejected:
			return &ValidationError{Field: "request", Reason: "request was rejected"}
		}

		member := findMember(req, validatorAddress)
		if member == nil {
			return ErrNotInCommittee
		}

		if !member.HasApproved {
			member.HasApproved = true
			member.ApprovedAt = &now
			member.ShareCommitment = append([]byte(nil), shareCommitment...)
		}

		switch count := req.ApprovedCount(); {
		case count >= req.Threshold:
			req.Status = StatusApproved
		case count > 0:
			req.Status = StatusActive
		}
		return nil
	})
}

// Decrypt releases the record payload iff the committee-approval invariant
// holds at the moment of the call, re-checked against the live session.
func (c *Controller) Decrypt(requestID, requester string) *DecryptResult {
	req, err := c.store.Get(requestID)
	if err != nil {
		return &DecryptResult{Error: fmt.Sprintf("access request %s not found", requestID)}
	}

	if req.EffectiveStatus(c.now()) != StatusApproved {
		return &DecryptResult{
			Error: fmt.Sprintf("access not approved: %d of %d required approvals",
				req.ApprovedCount(), req.Threshold),
		}
	}

	// Placeholder for the real threshold-decryption path: a production
	// deployment combines the committee's secret shares here.
	payload := make([]byte, 64)
	if _, err := rand.Read(payload); err != nil {
		return &DecryptResult{Error: fmt.Sprintf("decryption failed: %v", err)}
	}

	return &DecryptResult{
		Success:    true,
		Data:       payload,
		ApprovedBy: req.Approvers(),
	}
}

// Status returns the request with its lazily-derived effective status
func (c *Controller) Status(requestID string) (*AccessRequest, error) {
	req, err := c.store.Get(requestID)
	if err != nil {
		return nil, err
	}
	req.Status = req.EffectiveStatus(c.now())
	return req, nil
}

// CommitteeStatus reports approval progress for one request
func (c *Controller) CommitteeStatus(requestID string) (*CommitteeStatus, error) {
	req, err := c.store.Get(requestID)
	if err != nil {
		return nil, err
	}

	approved := req.ApprovedCount()
	return &CommitteeStatus{
		Total:     len(req.Committee),
		Approved:  approved,
		Threshold: req.Threshold,
		Progress:  float64(approved) / float64(req.Threshold),
	}, nil
}

// ListActive returns the requests still collecting approvals
// (effective status pending or active).
func (c *Controller) ListActive() ([]*AccessRequest, error) {
	return c.filtered(func(s Status) bool {
		return s == StatusPending || s == StatusActive
	})
}

// ListApproved returns the requests whose threshold has been reached
func (c *Controller) ListApproved() ([]*AccessRequest, error) {
	return c.filtered(func(s Status) bool { return s == StatusApproved })
}

func (c *Controller) filtered(keep func(Status) bool) ([]*AccessRequest, error) {
	all, err := c.store.List()
	if err != nil {
		return nil, err
	}

	now := c.now()
	out := make([]*AccessRequest, 0, len(all))
	for _, req := range all {
		if effective := req.EffectiveStatus(now); keep(effective) {
			req.Status = effective
			out = append(out, req)
		}
	}
	return out, nil
}

// selectCommittee draws fresh pseudo-random validator identities. This is
// a stand-in for a real selection policy such as stake-weighted sampling;
// only size and threshold semantics are load-bearing.
func (c *Controller) selectCommittee() ([]CommitteeMember, error) {
	committee := make([]CommitteeMember, c.cfg.CommitteeSize)
	for i := range committee {
		raw := make([]byte, 20)
		if _, err := rand.Read(raw); err != nil {
			return nil, fmt.Errorf("failed to select committee: %w", err)
		}
		committee[i] = CommitteeMember{ValidatorAddress: base58.Encode(raw)}
	}
	return committee, nil
}

func findMember(req *AccessRequest, validatorAddress string) *CommitteeMember {
	for i := range req.Committee {
		if req.Committee[i].ValidatorAddress == validatorAddress {
			return &req.Committee[i]
		}
	}
	return nil
}

func requestID(caseStudyID string, now time.Time) string {
	return fmt.Sprintf("%s-%d-%s", caseStudyID, now.Unix(), uuid.NewString()[:8])
}
