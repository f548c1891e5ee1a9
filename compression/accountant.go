// Package compression accounts for the on-chain footprint reduction of a
// case-study record. The arithmetic is the contract; the integrity proof
// is a structural placeholder for a real Merkle proof.
package compression

import (
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/sha3"

	"github.com/casevault/privacy/models"
)

// DefaultRatio is the compression ratio applied when no override is given
const DefaultRatio = 10

// metadataOverhead is the fixed per-record accounting overhead in bytes
const metadataOverhead = 32

// Estimate holds the pure size accounting for a payload at a given ratio
type Estimate struct {
	OriginalSize   int `json:"original_size"`
	CompressedSize int `json:"compressed_size"`
	Ratio          int `json:"ratio"`
	Savings        int `json:"savings"`
}

// Result records one compression of a record
type Result struct {
	AccountReference string `json:"account_reference"`
	OriginalSize     int    `json:"original_size"`
	CompressedSize   int    `json:"compressed_size"`
	AchievedRatio    int    `json:"achieved_ratio"`
	IntegrityRoot    []byte `json:"integrity_root"`
	IntegrityProof   []byte `json:"integrity_proof"`
}

// EstimateSize computes compressed size and savings for a payload size.
// compressedSize = floor(dataSize/ratio); savings = dataSize - compressedSize.
func EstimateSize(dataSize, ratio int) Estimate {
	compressed := dataSize / ratio
	return Estimate{
		OriginalSize:   dataSize,
		CompressedSize: compressed,
		Ratio:          ratio,
		Savings:        dataSize - compressed,
	}
}

// Accountant performs compressions and keeps aggregate counters. It retains
// no individual results.
type Accountant struct {
	mu              sync.Mutex
	totalCompressed int
	totalBytesSaved int
}

// NewAccountant creates an accountant with zeroed counters
func NewAccountant() *Accountant {
	return &Accountant{}
}

// Compress accounts for one record at the given ratio (DefaultRatio when
// ratio < 1). The original size is the sum of the record's serialized field
// lengths plus the fixed metadata overhead.
func (a *Accountant) Compress(record *models.CaseStudyRecord, ratio int) (*Result, error) {
	if ratio < 1 {
		ratio = DefaultRatio
	}

	payload := serialize(record)
	originalSize := len(payload) + metadataOverhead
	est := EstimateSize(originalSize, ratio)

	ref := make([]byte, 32)
	if _, err := rand.Read(ref); err != nil {
		return nil, fmt.Errorf("failed to generate account reference: %w", err)
	}

	// Placeholder for a real Merkle inclusion proof
	integrityProof := make([]byte, 64)
	if _, err := rand.Read(integrityProof); err != nil {
		return nil, fmt.Errorf("failed to generate integrity proof: %w", err)
	}

	root := sha3.Sum256(payload)

	a.mu.Lock()
	a.totalCompressed++
	a.totalBytesSaved += est.Savings
	a.mu.Unlock()

	return &Result{
		AccountReference: base58.Encode(ref),
		OriginalSize:     est.OriginalSize,
		CompressedSize:   est.CompressedSize,
		AchievedRatio:    ratio,
		IntegrityRoot:    root[:],
		IntegrityProof:   integrityProof,
	}, nil
}

// Verify checks the structural integrity of a result. This is not a
// cryptographic check; a real deployment verifies the Merkle proof against
// the root.
func (a *Accountant) Verify(result *Result) bool {
	return result != nil && len(result.IntegrityProof) > 0
}

// Totals returns the number of compressions performed and total bytes saved
func (a *Accountant) Totals() (compressed, bytesSaved int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.totalCompressed, a.totalBytesSaved
}

// FormatSize renders a byte count for display, switching units at 1024
// and 1024*1024 with two-decimal rounding above 1 KB.
func FormatSize(bytes int) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%d B", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.2f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.2f MB", float64(bytes)/(1024*1024))
	}
}

func serialize(record *models.CaseStudyRecord) []byte {
	var payload []byte
	for _, f := range record.Fields() {
		payload = append(payload, f...)
	}
	// Numeric fields account for their fixed-width encodings
	payload = append(payload,
		byte(record.BaselineSeverity), byte(record.OutcomeSeverity),
		byte(record.DurationDays>>8), byte(record.DurationDays),
		byte(record.CostUSDCents>>24), byte(record.CostUSDCents>>16),
		byte(record.CostUSDCents>>8), byte(record.CostUSDCents),
	)
	return payload
}
