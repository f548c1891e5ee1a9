package compression

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casevault/privacy/models"
)

func TestEstimateSize(t *testing.T) {
	est := EstimateSize(1000, 10)
	require.Equal(t, Estimate{
		OriginalSize:   1000,
		CompressedSize: 100,
		Ratio:          10,
		Savings:        900,
	}, est)
}

func TestEstimateSizeFloors(t *testing.T) {
	est := EstimateSize(1005, 10)
	require.Equal(t, 100, est.CompressedSize)
	require.Equal(t, 905, est.Savings)
}

func TestFormatSize(t *testing.T) {
	require.Equal(t, "500 B", FormatSize(500))
	require.Equal(t, "1.46 KB", FormatSize(1500))
	require.Equal(t, "1.43 MB", FormatSize(1500000))
}

func TestCompress(t *testing.T) {
	a := NewAccountant()
	record := models.GetDemoRecord()

	result, err := a.Compress(record, 0)
	require.NoError(t, err)

	require.Equal(t, DefaultRatio, result.AchievedRatio)
	require.Positive(t, result.CompressedSize)
	require.LessOrEqual(t, result.CompressedSize, result.OriginalSize)
	require.Equal(t, result.OriginalSize/DefaultRatio, result.CompressedSize)

	require.NotEmpty(t, result.AccountReference)
	require.Len(t, result.IntegrityRoot, 32)
	require.NotEmpty(t, result.IntegrityProof)
	require.True(t, a.Verify(result))
}

func TestCompressRatioOverride(t *testing.T) {
	a := NewAccountant()

	result, err := a.Compress(models.GetDemoRecord(), 4)
	require.NoError(t, err)
	require.Equal(t, 4, result.AchievedRatio)
	require.Equal(t, result.OriginalSize/4, result.CompressedSize)
}

func TestCompressIntegrityRootIsDeterministic(t *testing.T) {
	a := NewAccountant()
	record := models.GetDemoRecord()

	first, err := a.Compress(record, 0)
	require.NoError(t, err)
	second, err := a.Compress(record, 0)
	require.NoError(t, err)

	// Same payload, same root; references and proofs stay fresh
	require.Equal(t, first.IntegrityRoot, second.IntegrityRoot)
	require.NotEqual(t, first.AccountReference, second.AccountReference)
}

func TestTotals(t *testing.T) {
	a := NewAccountant()
	record := models.GetDemoRecord()

	first, err := a.Compress(record, 0)
	require.NoError(t, err)
	second, err := a.Compress(record, 0)
	require.NoError(t, err)

	count, saved := a.Totals()
	require.Equal(t, 2, count)
	wantSaved := (first.OriginalSize - first.CompressedSize) +
		(second.OriginalSize - second.CompressedSize)
	require.Equal(t, wantSaved, saved)
}

func TestVerifyRejectsEmptyProof(t *testing.T) {
	a := NewAccountant()
	require.False(t, a.Verify(nil))
	require.False(t, a.Verify(&Result{}))
}
