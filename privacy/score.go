package privacy

// Fixed feature weights; they sum to 100
const (
	weightEncryption    = 25
	weightProofs        = 30
	weightCompression   = 20
	weightAccessControl = 25
)

// FeatureSet captures which privacy features protect a record. Ephemeral;
// computed per scoring call and never persisted.
type FeatureSet struct {
	Encryption       bool `json:"encryption"`
	ZKProofs         int  `json:"zk_proofs"`
	Compression      bool `json:"compression"`
	CompressionRatio int  `json:"compression_ratio,omitempty"`
	MPCAccess        bool `json:"mpc_access"`
}

// Level is a qualitative privacy band for display
type Level struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

// CalculateScore sums the fixed weight of each present feature into a
// 0-100 score. No partial credit, no interaction terms.
func CalculateScore(hasEncryption, hasProofs, hasCompression, hasAccessControl bool) int {
	score := 0
	if hasEncryption {
		score += weightEncryption
	}
	if hasProofs {
		score += weightProofs
	}
	if hasCompression {
		score += weightCompression
	}
	if hasAccessControl {
		score += weightAccessControl
	}
	return score
}

// ScoreFeatures scores a feature set
func ScoreFeatures(fs FeatureSet) int {
	return CalculateScore(fs.Encryption, fs.ZKProofs > 0, fs.Compression, fs.MPCAccess)
}

// ScoreToLevel maps a score to its qualitative band. Bands are evaluated
// highest threshold first; each is inclusive at its lower bound.
func ScoreToLevel(score int) Level {
	switch {
	case score >= 90:
		return Level{Label: "Maximum", Description: "All privacy features active"}
	case score >= 75:
		return Level{Label: "High", Description: "Strong privacy protection"}
	case score >= 50:
		return Level{Label: "Good", Description: "Solid baseline protection"}
	default:
		return Level{Label: "Basic", Description: "Minimal privacy protection"}
	}
}
