package privacy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casevault/privacy/compression"
	"github.com/casevault/privacy/models"
	"github.com/casevault/privacy/threshold"
	"github.com/casevault/privacy/zkproof"
)

func newTestOrchestrator() *Orchestrator {
	access := threshold.NewController(threshold.NewMemoryStore(), threshold.Config{})
	return NewOrchestrator(zkproof.NewProver(nil), compression.NewAccountant(), access)
}

func TestProcessRecordAllStages(t *testing.T) {
	o := newTestOrchestrator()

	result := o.ProcessRecord(models.GetDemoRecord(), ProcessOptions{
		GenerateProofs:      true,
		CompressData:        true,
		CreateAccessSession: true,
		Requester:           "researcher-1",
		Justification:       strings.Repeat("study access justification text ", 3),
		RequesterType:       threshold.RequesterResearcher,
	})

	require.True(t, result.Success)
	require.Empty(t, result.Errors)
	require.Len(t, result.Proofs, 4)
	require.NotNil(t, result.Compression)
	require.NotEmpty(t, result.AccessSessionID)
	require.GreaterOrEqual(t, result.ProcessingTimeMS, int64(1))
}

func TestProcessRecordSelectiveStages(t *testing.T) {
	o := newTestOrchestrator()

	result := o.ProcessRecord(models.GetDemoRecord(), ProcessOptions{
		CompressData: true,
	})

	require.True(t, result.Success)
	require.Empty(t, result.Proofs)
	require.NotNil(t, result.Compression)
	require.Empty(t, result.AccessSessionID)
}

func TestProcessRecordProofFailureShortCircuits(t *testing.T) {
	o := newTestOrchestrator()

	record := models.GetDemoRecord()
	record.BaselineSeverity = 15 // out of range

	result := o.ProcessRecord(record, ProcessOptions{
		GenerateProofs: true,
		CompressData:   true,
	})

	require.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0], "proof generation")
	require.Empty(t, result.Proofs)
	// Compression never ran
	require.Nil(t, result.Compression)
	require.GreaterOrEqual(t, result.ProcessingTimeMS, int64(1))
}

func TestProcessRecordAccessFailureKeepsEarlierResults(t *testing.T) {
	o := newTestOrchestrator()

	result := o.ProcessRecord(models.GetDemoRecord(), ProcessOptions{
		GenerateProofs:      true,
		CompressData:        true,
		CreateAccessSession: true,
		Requester:           "researcher-1",
		Justification:       "too short",
	})

	require.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0], "access session")
	// Partial success is reported, not hidden
	require.Len(t, result.Proofs, 4)
	require.NotNil(t, result.Compression)
	require.Empty(t, result.AccessSessionID)
}

func TestProcessRecordWithoutAccessController(t *testing.T) {
	o := NewOrchestrator(zkproof.NewProver(nil), compression.NewAccountant(), nil)

	result := o.ProcessRecord(models.GetDemoRecord(), ProcessOptions{
		CreateAccessSession: true,
	})

	require.False(t, result.Success)
	require.Contains(t, result.Errors[0], "no threshold controller")
}
