package domain

import "time"

// Alert is one qualifying entry of the alert payload handed to the
// external notifier.
type Alert struct {
	MachineID   string   `json:"machine_id"`
	FailureType string   `json:"failure_type"`
	RiskLevel   RiskTier `json:"risk_level"` // High or Medium only
	Likelihood  float64  `json:"likelihood"` // [0,1]
	TimeToFail  string   `json:"time_to_fail"`
	Issues      string   `json:"issues"` // "; "-joined diagnostic tags, "None" when empty
}

// TrainingSummary describes the training state accompanying an alert batch.
type TrainingSummary struct {
	FilesCount      int       `json:"files_count"`
	TotalMachines   int       `json:"total_machines"`
	LatestTimestamp time.Time `json:"latest_timestamp"`
	TotalSamples    int       `json:"total_samples"`
}

// AlertPayload is the full contract handed to the external notifier.
type AlertPayload struct {
	ID      string          `json:"id"` // uuid per dispatch
	Alerts  []Alert         `json:"alerts"`
	Summary TrainingSummary `json:"training_summary"`
}
