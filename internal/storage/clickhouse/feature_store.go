package clickhouse

import (
	"context"
	"fmt"
	"time"

	"maintlab/internal/domain"
	"maintlab/internal/storage"
)

// FeatureStore implements storage.FeatureStore using ClickHouse. The
// feature_corpus table is a ReplacingMergeTree ordered by
// (machine_id, timestamp), so re-inserting a key replaces the row after
// merge and reads use FINAL for the deduplicated view.
type FeatureStore struct {
	conn *Conn
}

// NewFeatureStore creates a new FeatureStore.
func NewFeatureStore(conn *Conn) *FeatureStore {
	return &FeatureStore{conn: conn}
}

// Compile-time interface check.
var _ storage.FeatureStore = (*FeatureStore)(nil)

const featureColumns = `
	machine_id, timestamp, machine_id_encoded,
	temperature, vibration, pressure, current, fan_speed,
	hard_disk_status, power_supply_status, network_card_status, motherboard_status,
	hour, minute,
	temperature_rolling_avg, vibration_rolling_avg, current_rolling_avg,
	temp_fan_ratio, current_pressure_ratio, vibration_temp_interaction,
	hardware_failure_type, failure
`

// UpsertBulk inserts the vectors; rows sharing (machine_id, timestamp) with
// existing data are replaced by the merge tree.
func (s *FeatureStore) UpsertBulk(ctx context.Context, vecs []*domain.FeatureVector) error {
	if len(vecs) == 0 {
		return nil
	}
	for _, v := range vecs {
		if v == nil || v.MachineID == "" {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `INSERT INTO feature_corpus (`+featureColumns+`)`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, v := range vecs {
		err = batch.Append(
			v.MachineID, v.Timestamp, int32(v.MachineIDCode),
			v.Temperature, v.Vibration, v.Pressure, v.Current, v.FanSpeed,
			int32(v.HardDiskStatusCode), int32(v.PowerSupplyStatusCode),
			int32(v.NetworkCardStatusCode), int32(v.MotherboardStatusCode),
			int32(v.Hour), int32(v.Minute),
			v.TemperatureRollAvg, v.VibrationRollAvg, v.CurrentRollAvg,
			v.TempFanRatio, v.CurrentPressureRatio, v.VibrationTempInteraction,
			v.HardwareFailureType, int32(v.Failure),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetAll retrieves the whole corpus ordered by (machine_id, timestamp) ASC.
func (s *FeatureStore) GetAll(ctx context.Context) ([]*domain.FeatureVector, error) {
	query := `
		SELECT ` + featureColumns + `
		FROM feature_corpus FINAL
		ORDER BY machine_id ASC, timestamp ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query feature corpus: %w", err)
	}
	defer rows.Close()

	return scanFeatureVectors(rows)
}

// LatestPerMachine retrieves each machine's most recent vector, ordered by
// machine_id ASC.
func (s *FeatureStore) LatestPerMachine(ctx context.Context) ([]*domain.FeatureVector, error) {
	query := `
		SELECT ` + featureColumns + `
		FROM feature_corpus FINAL
		ORDER BY machine_id ASC, timestamp DESC
		LIMIT 1 BY machine_id
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query latest per machine: %w", err)
	}
	defer rows.Close()

	return scanFeatureVectors(rows)
}

// Count returns the number of stored vectors.
func (s *FeatureStore) Count(ctx context.Context) (int, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, `SELECT count(*) FROM feature_corpus FINAL`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count feature corpus: %w", err)
	}
	return int(count), nil
}

// chRows abstracts driver.Rows for scanning.
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanFeatureVectors scans multiple rows.
func scanFeatureVectors(rows chRows) ([]*domain.FeatureVector, error) {
	var vecs []*domain.FeatureVector

	for rows.Next() {
		var v domain.FeatureVector
		var ts time.Time
		var machineCode, hdStatus, psStatus, ncStatus, mbStatus int32
		var hour, minute, failure int32

		err := rows.Scan(
			&v.MachineID, &ts, &machineCode,
			&v.Temperature, &v.Vibration, &v.Pressure, &v.Current, &v.FanSpeed,
			&hdStatus, &psStatus, &ncStatus, &mbStatus,
			&hour, &minute,
			&v.TemperatureRollAvg, &v.VibrationRollAvg, &v.CurrentRollAvg,
			&v.TempFanRatio, &v.CurrentPressureRatio, &v.VibrationTempInteraction,
			&v.HardwareFailureType, &failure,
		)
		if err != nil {
			return nil, fmt.Errorf("scan feature row: %w", err)
		}

		v.Timestamp = ts.UTC()
		v.MachineIDCode = int(machineCode)
		v.HardDiskStatusCode = int(hdStatus)
		v.PowerSupplyStatusCode = int(psStatus)
		v.NetworkCardStatusCode = int(ncStatus)
		v.MotherboardStatusCode = int(mbStatus)
		v.Hour = int(hour)
		v.Minute = int(minute)
		v.Failure = int(failure)

		vecs = append(vecs, &v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feature rows: %w", err)
	}

	return vecs, nil
}
