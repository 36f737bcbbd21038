// Package reporting renders risk assessments as operator-facing reports.
package reporting

import "time"

// Report is the full machine risk report.
type Report struct {
	GeneratedAt  time.Time
	MachineCount int

	// Training provenance
	FilesCount      int
	TotalSamples    int
	LatestTimestamp time.Time

	// Rows sorted by machine_id
	Rows []RiskRow
}

// RiskRow is one machine in the risk report.
type RiskRow struct {
	MachineID   string
	FailureType string
	Likelihood  float64
	RiskLevel   string
	TimeToFail  string
	Issues      string
}
