package reporting

import (
	"context"
	"sort"
	"strings"
	"time"

	"maintlab/internal/domain"
	"maintlab/internal/storage"
)

// Generator produces reports from assessments and stored history.
type Generator struct {
	history storage.TrainingHistoryStore
	now     func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a report generator.
func NewGenerator(history storage.TrainingHistoryStore) *Generator {
	return &Generator{
		history: history,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds the full report from risk assessments and the training
// history.
func (g *Generator) Generate(ctx context.Context, assessments []*domain.RiskAssessment) (*Report, error) {
	records, err := g.history.List(ctx)
	if err != nil {
		return nil, err
	}

	totalSamples := 0
	var latest time.Time
	for _, rec := range records {
		totalSamples += rec.SampleCount
		if rec.MaxTimestamp.After(latest) {
			latest = rec.MaxTimestamp
		}
	}

	rows := make([]RiskRow, len(assessments))
	for i, a := range assessments {
		rows[i] = RiskRow{
			MachineID:   a.MachineID,
			FailureType: string(a.TopFailureType),
			Likelihood:  a.Probability,
			RiskLevel:   string(a.Tier),
			TimeToFail:  a.TimeToFail,
			Issues:      joinIssues(a.DiagnosticTags),
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].MachineID < rows[j].MachineID
	})

	return &Report{
		GeneratedAt:     g.now(),
		MachineCount:    len(rows),
		FilesCount:      len(records),
		TotalSamples:    totalSamples,
		LatestTimestamp: latest,
		Rows:            rows,
	}, nil
}

func joinIssues(tags []string) string {
	if len(tags) == 0 {
		return "None"
	}
	return strings.Join(tags, "; ")
}
