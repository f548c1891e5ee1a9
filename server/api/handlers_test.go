package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/casevault/privacy/compression"
	"github.com/casevault/privacy/models"
	"github.com/casevault/privacy/privacy"
	"github.com/casevault/privacy/server/api"
	"github.com/casevault/privacy/threshold"
	"github.com/casevault/privacy/zkproof"
)

func newTestRouter() *chi.Mux {
	prover := zkproof.NewProver(nil)
	accountant := compression.NewAccountant()
	access := threshold.NewController(threshold.NewMemoryStore(), threshold.Config{})
	orchestrator := privacy.NewOrchestrator(prover, accountant, access)
	server := api.NewServer(prover, accountant, access, orchestrator)

	r := chi.NewRouter()
	r.Get("/health", server.HandleHealth)
	r.Get("/circuits", server.HandleListCircuits)
	r.Get("/proofs", server.HandleListProofs)
	r.Post("/prove/{circuit}", server.HandleProve)
	r.Post("/compress", server.HandleCompress)
	r.Post("/process", server.HandleProcess)
	r.Get("/score", server.HandleScore)
	r.Route("/access", func(r chi.Router) {
		r.Post("/", server.HandleRequestAccess)
		r.Get("/active", server.HandleListActive)
		r.Get("/approved", server.HandleListApproved)
		r.Post("/{id}/approve", server.HandleApprove)
		r.Post("/{id}/decrypt", server.HandleDecrypt)
		r.Get("/{id}/status", server.HandleCommitteeStatus)
	})
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst))
}

func TestListCircuits(t *testing.T) {
	r := newTestRouter()

	w := doJSON(t, r, http.MethodGet, "/circuits", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count    int                         `json:"count"`
		Circuits []zkproof.CircuitDescriptor `json:"circuits"`
	}
	decode(t, w, &resp)
	require.Equal(t, 4, resp.Count)
	require.Equal(t, zkproof.CircuitSymptomImprovement, resp.Circuits[0].CircuitType)
}

func TestProveEndpoint(t *testing.T) {
	r := newTestRouter()

	baseline, outcome := 8, 3
	w := doJSON(t, r, http.MethodPost, "/prove/symptom-improvement", api.ProveRequest{
		BaselineSeverity: &baseline,
		OutcomeSeverity:  &outcome,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var proof zkproof.Proof
	decode(t, w, &proof)
	require.True(t, proof.Verified)
	require.NotEmpty(t, proof.ProofBytes)

	// The proof landed in the audit log
	w = doJSON(t, r, http.MethodGet, "/proofs", nil)
	var log struct {
		Count int `json:"count"`
	}
	decode(t, w, &log)
	require.Equal(t, 1, log.Count)
}

func TestProveEndpointRejectsInvalidInput(t *testing.T) {
	r := newTestRouter()

	baseline, outcome := 0, 3
	w := doJSON(t, r, http.MethodPost, "/prove/symptom-improvement", api.ProveRequest{
		BaselineSeverity: &baseline,
		OutcomeSeverity:  &outcome,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp api.ErrorResponse
	decode(t, w, &resp)
	require.Equal(t, "invalid_input", resp.Code)
}

func TestProveEndpointUnknownCircuit(t *testing.T) {
	r := newTestRouter()
	w := doJSON(t, r, http.MethodPost, "/prove/no-such-circuit", api.ProveRequest{})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCompressEndpoint(t *testing.T) {
	r := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/compress", api.CompressRequest{
		Record: models.GetDemoRecord(),
	})
	require.Equal(t, http.StatusOK, w.Code)

	var result compression.Result
	decode(t, w, &result)
	require.Equal(t, compression.DefaultRatio, result.AchievedRatio)
	require.NotEmpty(t, result.AccountReference)
}

func TestScoreEndpoint(t *testing.T) {
	r := newTestRouter()

	w := doJSON(t, r, http.MethodGet,
		"/score?encryption=true&proofs=true&compression=true&access_control=true", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.ScoreResponse
	decode(t, w, &resp)
	require.Equal(t, 100, resp.Score)
	require.Equal(t, "Maximum", resp.Level.Label)

	w = doJSON(t, r, http.MethodGet, "/score?encryption=true", nil)
	decode(t, w, &resp)
	require.Equal(t, 25, resp.Score)
	require.Equal(t, "Basic", resp.Level.Label)
}

func TestAccessLifecycleOverHTTP(t *testing.T) {
	r := newTestRouter()

	// Create
	w := doJSON(t, r, http.MethodPost, "/access", api.AccessRequestBody{
		Requester: "researcher-1",
		Params: threshold.RequestParams{
			CaseStudyID:   "cs-42",
			Justification: strings.Repeat("longitudinal outcome research ", 2),
			RequesterType: threshold.RequesterResearcher,
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created threshold.AccessRequest
	decode(t, w, &created)
	require.Len(t, created.Committee, 5)

	// Fresh status
	w = doJSON(t, r, http.MethodGet, "/access/"+created.ID+"/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status api.CommitteeStatusResponse
	decode(t, w, &status)
	require.Equal(t, 0, status.Approved)
	require.Equal(t, 3, status.Threshold)
	require.NotEqual(t, "Expired", status.TimeRemaining)

	// Decrypt denied before threshold
	w = doJSON(t, r, http.MethodPost, "/access/"+created.ID+"/decrypt",
		api.DecryptRequest{Requester: "researcher-1"})
	require.Equal(t, http.StatusOK, w.Code)
	var denied threshold.DecryptResult
	decode(t, w, &denied)
	require.False(t, denied.Success)

	// Three approvals
	for i := 0; i < 3; i++ {
		w = doJSON(t, r, http.MethodPost, "/access/"+created.ID+"/approve", api.ApproveRequest{
			ValidatorAddress: created.Committee[i].ValidatorAddress,
			ShareCommitment:  []byte(fmt.Sprintf("share-%d", i)),
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	// Decrypt granted
	w = doJSON(t, r, http.MethodPost, "/access/"+created.ID+"/decrypt",
		api.DecryptRequest{Requester: "researcher-1"})
	var granted threshold.DecryptResult
	decode(t, w, &granted)
	require.True(t, granted.Success)
	require.Len(t, granted.ApprovedBy, 3)

	// Views
	w = doJSON(t, r, http.MethodGet, "/access/approved", nil)
	var list struct {
		Count int `json:"count"`
	}
	decode(t, w, &list)
	require.Equal(t, 1, list.Count)
}

func TestAccessValidationAndMembershipErrors(t *testing.T) {
	r := newTestRouter()

	// Short justification
	w := doJSON(t, r, http.MethodPost, "/access", api.AccessRequestBody{
		Requester: "r",
		Params: threshold.RequestParams{
			CaseStudyID:   "cs-1",
			Justification: "ten chars!",
		},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Approvals against unknown ids and non-members
	w = doJSON(t, r, http.MethodPost, "/access/missing/approve",
		api.ApproveRequest{ValidatorAddress: "val"})
	require.Equal(t, http.StatusNotFound, w.Code)

	created := createRequest(t, r)
	w = doJSON(t, r, http.MethodPost, "/access/"+created.ID+"/approve",
		api.ApproveRequest{ValidatorAddress: "not-a-member"})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestProcessEndpoint(t *testing.T) {
	r := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/process", api.ProcessRequest{
		Record: models.GetDemoRecord(),
		Options: privacy.ProcessOptions{
			GenerateProofs: true,
			CompressData:   true,
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var result privacy.ProcessResult
	decode(t, w, &result)
	require.True(t, result.Success)
	require.Len(t, result.Proofs, 4)
	require.NotNil(t, result.Compression)
	require.GreaterOrEqual(t, result.ProcessingTimeMS, int64(1))
}

func createRequest(t *testing.T, r http.Handler) *threshold.AccessRequest {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/access", api.AccessRequestBody{
		Requester: "researcher-1",
		Params: threshold.RequestParams{
			CaseStudyID:   "cs-h",
			Justification: strings.Repeat("replication study data request ", 2),
			RequesterType: threshold.RequesterResearcher,
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	created := &threshold.AccessRequest{}
	decode(t, w, created)
	return created
}
