package domain

import "time"

// TrainingHistoryRecord is one entry of the append-only training log,
// one per processed batch file.
type TrainingHistoryRecord struct {
	ID           string    // uuid, assigned by the orchestrator
	SourceFile   string    // batch file name as discovered
	SampleCount  int       // readings in the batch
	MaxTimestamp time.Time // latest reading timestamp in the batch
	ProcessedAt  time.Time // when the batch finished processing
}
