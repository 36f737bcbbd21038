package domain

// RiskTier is the coarse risk bucket derived from classifier probability.
type RiskTier string

const (
	RiskHigh   RiskTier = "High"
	RiskMedium RiskTier = "Medium"
	RiskLow    RiskTier = "Low"
)

// RiskAssessment is the per-machine forecast result. Recomputed fresh on
// every forecast request, never persisted.
type RiskAssessment struct {
	MachineID        string
	TopFailureType   FailureType // FailureNone when no model produced a signal
	Probability      float64     // [0,1], probability of the top type
	PredictedMinutes float64     // regressor estimate for the top type
	TimeToFail       string      // display form: "imminent", "<n> min", "stable"
	Tier             RiskTier
	DiagnosticTags   []string // raw-threshold indicator labels
}
