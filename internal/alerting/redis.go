package alerting

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"maintlab/internal/domain"
)

// RedisNotifier publishes alert payloads to a Redis Stream for downstream
// consumers (dashboards, mailers).
type RedisNotifier struct {
	client *redis.Client
	stream string
}

// NewRedisNotifier creates a notifier publishing to the given stream.
func NewRedisNotifier(client *redis.Client, stream string) *RedisNotifier {
	return &RedisNotifier{client: client, stream: stream}
}

var _ Notifier = (*RedisNotifier)(nil)

// Notify appends the payload to the stream as a JSON message.
func (n *RedisNotifier) Notify(ctx context.Context, payload *domain.AlertPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal alert payload: %w", err)
	}

	err = n.client.XAdd(ctx, &redis.XAddArgs{
		Stream: n.stream,
		Values: map[string]interface{}{
			"data":      string(data),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("publish to stream %s: %w", n.stream, err)
	}
	return nil
}

// LogNotifier writes alerts to the structured log. Used when no external
// delivery channel is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

var _ Notifier = (*LogNotifier)(nil)

// Notify logs each alert at warn level and the summary at info level.
func (n *LogNotifier) Notify(_ context.Context, payload *domain.AlertPayload) error {
	for _, a := range payload.Alerts {
		n.logger.Warn("maintenance alert",
			zap.String("machine_id", a.MachineID),
			zap.String("failure_type", a.FailureType),
			zap.String("risk_level", string(a.RiskLevel)),
			zap.Float64("likelihood", a.Likelihood),
			zap.String("time_to_fail", a.TimeToFail),
			zap.String("issues", a.Issues))
	}
	n.logger.Info("training summary",
		zap.Int("files_count", payload.Summary.FilesCount),
		zap.Int("total_machines", payload.Summary.TotalMachines),
		zap.Time("latest_timestamp", payload.Summary.LatestTimestamp),
		zap.Int("total_samples", payload.Summary.TotalSamples))
	return nil
}
