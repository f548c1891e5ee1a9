package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/casevault/privacy/compression"
	"github.com/casevault/privacy/models"
	"github.com/casevault/privacy/privacy"
	"github.com/casevault/privacy/threshold"
	"github.com/casevault/privacy/zkproof"
)

// Server handles HTTP requests for the privacy pipeline
type Server struct {
	prover       *zkproof.Prover
	accountant   *compression.Accountant
	access       *threshold.Controller
	orchestrator *privacy.Orchestrator
}

// NewServer creates a new HTTP server over the core subsystems
func NewServer(prover *zkproof.Prover, accountant *compression.Accountant, access *threshold.Controller, orchestrator *privacy.Orchestrator) *Server {
	return &Server{
		prover:       prover,
		accountant:   accountant,
		access:       access,
		orchestrator: orchestrator,
	}
}

// ==== Request/Response Types ====

// ProveRequest carries the typed inputs of one circuit. Only the fields
// the addressed circuit declares are read.
type ProveRequest struct {
	BaselineSeverity *int                       `json:"baseline_severity,omitempty"`
	OutcomeSeverity  *int                       `json:"outcome_severity,omitempty"`
	DurationDays     *int                       `json:"duration_days,omitempty"`
	Completeness     *zkproof.CompletenessFlags `json:"completeness,omitempty"`
	CostUSDCents     *int64                     `json:"cost_usd_cents,omitempty"`
}

// CompressRequest carries a record and an optional ratio override
type CompressRequest struct {
	Record *models.CaseStudyRecord `json:"record"`
	Ratio  int                     `json:"ratio,omitempty"`
}

// ProcessRequest carries a record plus the orchestrator stage flags
type ProcessRequest struct {
	Record  *models.CaseStudyRecord `json:"record"`
	Options privacy.ProcessOptions  `json:"options"`
}

// AccessRequestBody carries a new disclosure request
type AccessRequestBody struct {
	Requester string                  `json:"requester"`
	Params    threshold.RequestParams `json:"params"`
}

// ApproveRequest carries one committee member's approval
type ApproveRequest struct {
	ValidatorAddress string `json:"validator_address"`
	ShareCommitment  []byte `json:"share_commitment,omitempty"`
}

// DecryptRequest identifies who is asking for the cleartext
type DecryptRequest struct {
	Requester string `json:"requester"`
}

// CommitteeStatusResponse augments raw progress with display helpers
type CommitteeStatusResponse struct {
	threshold.CommitteeStatus
	Status        threshold.Status `json:"status"`
	TimeRemaining string           `json:"time_remaining"`
}

// ScoreResponse reports a score with its qualitative band
type ScoreResponse struct {
	Score int           `json:"score"`
	Level privacy.Level `json:"level"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Code      string    `json:"code,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ==== Handlers ====

// HandleHealth handles health check requests
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// HandleListCircuits returns the proof catalog
func (s *Server) HandleListCircuits(w http.ResponseWriter, r *http.Request) {
	catalog := zkproof.Catalog()
	respondJSON(w, http.StatusOK, map[string]any{
		"circuits": catalog,
		"count":    len(catalog),
	})
}

// HandleListProofs returns the prover's audit log
func (s *Server) HandleListProofs(w http.ResponseWriter, r *http.Request) {
	proofs := s.prover.ListProofs()
	respondJSON(w, http.StatusOK, map[string]any{
		"proofs": proofs,
		"count":  len(proofs),
	})
}

// HandleProve generates one proof for the circuit named in the URL
func (s *Server) HandleProve(w http.ResponseWriter, r *http.Request) {
	circuitName := zkproof.CircuitType(chi.URLParam(r, "circuit"))

	if _, ok := zkproof.Describe(circuitName); !ok {
		respondError(w, http.StatusNotFound, "circuit_not_found",
			fmt.Sprintf("circuit '%s' not found", circuitName))
		return
	}

	var req ProveRequest
	if !decodeBody(w, r, &req) {
		return
	}

	proof, err := s.prove(circuitName, req)
	if err != nil {
		var verr *zkproof.ValidationError
		if errors.As(err, &verr) {
			respondError(w, http.StatusBadRequest, "invalid_input", verr.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "proof_generation_failed",
			fmt.Sprintf("failed to generate proof: %v", err))
		return
	}

	metricProofsGenerated.WithLabelValues(string(circuitName)).Inc()
	respondJSON(w, http.StatusOK, proof)
}

func (s *Server) prove(ct zkproof.CircuitType, req ProveRequest) (*zkproof.Proof, error) {
	switch ct {
	case zkproof.CircuitSymptomImprovement:
		if req.BaselineSeverity == nil || req.OutcomeSeverity == nil {
			return nil, &zkproof.ValidationError{Circuit: ct, Field: "baseline_severity", Reason: "both severities are required"}
		}
		return s.prover.ProveSymptomImprovement(*req.BaselineSeverity, *req.OutcomeSeverity)
	case zkproof.CircuitDurationVerification:
		if req.DurationDays == nil {
			return nil, &zkproof.ValidationError{Circuit: ct, Field: "duration_days", Reason: "duration is required"}
		}
		return s.prover.ProveDurationVerification(*req.DurationDays)
	case zkproof.CircuitDataCompleteness:
		if req.Completeness == nil {
			return nil, &zkproof.ValidationError{Circuit: ct, Field: "completeness", Reason: "completeness flags are required"}
		}
		return s.prover.ProveDataCompleteness(*req.Completeness)
	case zkproof.CircuitCostRange:
		if req.CostUSDCents == nil {
			return nil, &zkproof.ValidationError{Circuit: ct, Field: "cost_usd_cents", Reason: "cost is required"}
		}
		return s.prover.ProveCostRange(*req.CostUSDCents)
	}
	return nil, fmt.Errorf("unknown circuit %q", ct)
}

// HandleCompress compresses a record and returns the accounting result
func (s *Server) HandleCompress(w http.ResponseWriter, r *http.Request) {
	var req CompressRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Record == nil {
		respondError(w, http.StatusBadRequest, "missing_record", "record is required")
		return
	}

	result, err := s.accountant.Compress(req.Record, req.Ratio)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "compression_failed",
			fmt.Sprintf("failed to compress record: %v", err))
		return
	}

	metricCompressions.Inc()
	metricBytesSaved.Add(float64(result.OriginalSize - result.CompressedSize))
	respondJSON(w, http.StatusOK, result)
}

// HandleProcess runs the orchestrated pipeline over one record
func (s *Server) HandleProcess(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Record == nil {
		respondError(w, http.StatusBadRequest, "missing_record", "record is required")
		return
	}

	result := s.orchestrator.ProcessRecord(req.Record, req.Options)
	respondJSON(w, http.StatusOK, result)
}

// HandleScore computes the privacy score from boolean query flags
func (s *Server) HandleScore(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	flag := func(name string) bool {
		b, _ := strconv.ParseBool(q.Get(name))
		return b
	}

	score := privacy.CalculateScore(
		flag("encryption"), flag("proofs"), flag("compression"), flag("access_control"))

	respondJSON(w, http.StatusOK, ScoreResponse{
		Score: score,
		Level: privacy.ScoreToLevel(score),
	})
}

// HandleRequestAccess opens a new disclosure session
func (s *Server) HandleRequestAccess(w http.ResponseWriter, r *http.Request) {
	var req AccessRequestBody
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := s.access.RequestAccess(req.Requester, req.Params)
	if err != nil {
		var verr *threshold.ValidationError
		if errors.As(err, &verr) {
			respondError(w, http.StatusBadRequest, "invalid_request", verr.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "request_failed",
			fmt.Sprintf("failed to create access request: %v", err))
		return
	}

	metricAccessRequests.Inc()
	respondJSON(w, http.StatusCreated, created)
}

// HandleApprove records one committee member's approval
func (s *Server) HandleApprove(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")

	var req ApproveRequest
	if !decodeBody(w, r, &req) {
		return
	}

	updated, err := s.access.Approve(requestID, req.ValidatorAddress, req.ShareCommitment)
	if err != nil {
		var verr *threshold.ValidationError
		switch {
		case errors.Is(err, threshold.ErrNotFound):
			respondError(w, http.StatusNotFound, "request_not_found",
				fmt.Sprintf("access request '%s' not found", requestID))
		case errors.Is(err, threshold.ErrNotInCommittee):
			respondError(w, http.StatusForbidden, "not_in_committee",
				"validator is not a member of this request's committee")
		case errors.As(err, &verr):
			respondError(w, http.StatusConflict, "invalid_state", verr.Error())
		default:
			respondError(w, http.StatusInternalServerError, "approval_failed",
				fmt.Sprintf("failed to record approval: %v", err))
		}
		return
	}

	metricApprovals.Inc()
	respondJSON(w, http.StatusOK, updated)
}

// HandleDecrypt attempts the gated decryption. Failures are part of the
// result body, not transport errors, so the disclosure UI renders them
// directly.
func (s *Server) HandleDecrypt(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")

	var req DecryptRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result := s.access.Decrypt(requestID, req.Requester)
	if result.Success {
		metricDecryptions.WithLabelValues("granted").Inc()
	} else {
		metricDecryptions.WithLabelValues("denied").Inc()
	}
	respondJSON(w, http.StatusOK, result)
}

// HandleCommitteeStatus reports approval progress and time remaining
func (s *Server) HandleCommitteeStatus(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")

	status, err := s.access.CommitteeStatus(requestID)
	if err != nil {
		respondError(w, http.StatusNotFound, "request_not_found",
			fmt.Sprintf("access request '%s' not found", requestID))
		return
	}

	req, err := s.access.Status(requestID)
	if err != nil {
		respondError(w, http.StatusNotFound, "request_not_found",
			fmt.Sprintf("access request '%s' not found", requestID))
		return
	}

	respondJSON(w, http.StatusOK, CommitteeStatusResponse{
		CommitteeStatus: *status,
		Status:          req.Status,
		TimeRemaining:   threshold.FormatTimeRemaining(req.ExpiresAt),
	})
}

// HandleListActive lists the requests still collecting approvals
func (s *Server) HandleListActive(w http.ResponseWriter, r *http.Request) {
	s.respondRequestList(w, s.access.ListActive)
}

// HandleListApproved lists the requests whose threshold has been reached
func (s *Server) HandleListApproved(w http.ResponseWriter, r *http.Request) {
	s.respondRequestList(w, s.access.ListApproved)
}

func (s *Server) respondRequestList(w http.ResponseWriter, list func() ([]*threshold.AccessRequest, error)) {
	requests, err := list()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "list_failed",
			fmt.Sprintf("failed to list access requests: %v", err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"requests": requests,
		"count":    len(requests),
	})
}

// ==== Helper Functions ====

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "failed to read request body")
		return false
	}
	defer r.Body.Close()

	if err := json.Unmarshal(body, dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_json",
			fmt.Sprintf("failed to parse request: %v", err))
		return false
	}
	return true
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:     message,
		Code:      code,
		Timestamp: time.Now(),
	})
}
