// Package alerting is the boundary between the forecasting engine and the
// external notifier. It filters the risk report by severity and packages
// qualifying entries with a training summary; how alerts are ultimately
// delivered is not this engine's concern.
package alerting

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"maintlab/internal/domain"
)

// Notifier delivers an alert payload to the outside world.
type Notifier interface {
	Notify(ctx context.Context, payload *domain.AlertPayload) error
}

// Filter keeps assessments above the probability cutoff (Medium or High).
func Filter(assessments []*domain.RiskAssessment, cutoff float64) []*domain.RiskAssessment {
	var kept []*domain.RiskAssessment
	for _, a := range assessments {
		if a.Probability > cutoff {
			kept = append(kept, a)
		}
	}
	return kept
}

// BuildPayload packages the filtered assessments and the training state
// into the notifier contract. The machine and sample totals cover the full
// report and history, not just the filtered entries.
func BuildPayload(assessments []*domain.RiskAssessment, history []*domain.TrainingHistoryRecord, cutoff float64) *domain.AlertPayload {
	payload := &domain.AlertPayload{
		ID: uuid.NewString(),
		Summary: domain.TrainingSummary{
			FilesCount:    len(history),
			TotalMachines: len(assessments),
		},
	}

	for _, rec := range history {
		payload.Summary.TotalSamples += rec.SampleCount
		if rec.MaxTimestamp.After(payload.Summary.LatestTimestamp) {
			payload.Summary.LatestTimestamp = rec.MaxTimestamp
		}
	}

	for _, a := range Filter(assessments, cutoff) {
		payload.Alerts = append(payload.Alerts, domain.Alert{
			MachineID:   a.MachineID,
			FailureType: string(a.TopFailureType),
			RiskLevel:   a.Tier,
			Likelihood:  a.Probability,
			TimeToFail:  a.TimeToFail,
			Issues:      joinIssues(a.DiagnosticTags),
		})
	}

	return payload
}

func joinIssues(tags []string) string {
	if len(tags) == 0 {
		return "None"
	}
	return strings.Join(tags, "; ")
}

// Dispatcher hands payloads to a notifier. Delivery failure is logged and
// never rolls back training or scoring state.
type Dispatcher struct {
	notifier Notifier
	logger   *zap.Logger
}

// NewDispatcher creates a dispatcher over a notifier.
func NewDispatcher(notifier Notifier, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{notifier: notifier, logger: logger}
}

// Dispatch delivers a payload. Empty payloads are skipped.
func (d *Dispatcher) Dispatch(ctx context.Context, payload *domain.AlertPayload) {
	if len(payload.Alerts) == 0 {
		d.logger.Debug("no qualifying alerts, skipping dispatch")
		return
	}

	if err := d.notifier.Notify(ctx, payload); err != nil {
		d.logger.Error("alert delivery failed",
			zap.String("payload_id", payload.ID),
			zap.Int("alerts", len(payload.Alerts)),
			zap.Error(err))
		return
	}

	d.logger.Info("alerts dispatched",
		zap.String("payload_id", payload.ID),
		zap.Int("alerts", len(payload.Alerts)))
}
