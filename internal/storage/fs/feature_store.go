package fs

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"maintlab/internal/domain"
	"maintlab/internal/storage"
)

// FeatureStore persists the feature corpus as a JSON-lines file, one vector
// per line. Upserts rewrite the file atomically.
type FeatureStore struct {
	mu   sync.Mutex
	path string
}

// Compile-time interface check.
var _ storage.FeatureStore = (*FeatureStore)(nil)

// featureRow is the persisted form of a FeatureVector. Raw status strings
// are transient and not stored.
type featureRow struct {
	MachineID string    `json:"machine_id"`
	Timestamp time.Time `json:"timestamp"`

	MachineIDCode int `json:"machine_id_encoded"`

	Temperature float64 `json:"temperature"`
	Vibration   float64 `json:"vibration"`
	Pressure    float64 `json:"pressure"`
	Current     float64 `json:"current"`
	FanSpeed    float64 `json:"fan_speed"`

	HardDiskStatusCode    int `json:"hard_disk_status"`
	PowerSupplyStatusCode int `json:"power_supply_status"`
	NetworkCardStatusCode int `json:"network_card_status"`
	MotherboardStatusCode int `json:"motherboard_status"`

	Hour   int `json:"hour"`
	Minute int `json:"minute"`

	TemperatureRollAvg float64 `json:"temperature_rolling_avg"`
	VibrationRollAvg   float64 `json:"vibration_rolling_avg"`
	CurrentRollAvg     float64 `json:"current_rolling_avg"`

	TempFanRatio             float64 `json:"temp_fan_ratio"`
	CurrentPressureRatio     float64 `json:"current_pressure_ratio"`
	VibrationTempInteraction float64 `json:"vibration_temp_interaction"`

	HardwareFailureType string `json:"hardware_failure_type"`
	Failure             int    `json:"failure"`
}

func toRow(v *domain.FeatureVector) featureRow {
	return featureRow{
		MachineID:                v.MachineID,
		Timestamp:                v.Timestamp,
		MachineIDCode:            v.MachineIDCode,
		Temperature:              v.Temperature,
		Vibration:                v.Vibration,
		Pressure:                 v.Pressure,
		Current:                  v.Current,
		FanSpeed:                 v.FanSpeed,
		HardDiskStatusCode:       v.HardDiskStatusCode,
		PowerSupplyStatusCode:    v.PowerSupplyStatusCode,
		NetworkCardStatusCode:    v.NetworkCardStatusCode,
		MotherboardStatusCode:    v.MotherboardStatusCode,
		Hour:                     v.Hour,
		Minute:                   v.Minute,
		TemperatureRollAvg:       v.TemperatureRollAvg,
		VibrationRollAvg:         v.VibrationRollAvg,
		CurrentRollAvg:           v.CurrentRollAvg,
		TempFanRatio:             v.TempFanRatio,
		CurrentPressureRatio:     v.CurrentPressureRatio,
		VibrationTempInteraction: v.VibrationTempInteraction,
		HardwareFailureType:      v.HardwareFailureType,
		Failure:                  v.Failure,
	}
}

func fromRow(r featureRow) *domain.FeatureVector {
	return &domain.FeatureVector{
		MachineID:                r.MachineID,
		Timestamp:                r.Timestamp,
		MachineIDCode:            r.MachineIDCode,
		Temperature:              r.Temperature,
		Vibration:                r.Vibration,
		Pressure:                 r.Pressure,
		Current:                  r.Current,
		FanSpeed:                 r.FanSpeed,
		HardDiskStatusCode:       r.HardDiskStatusCode,
		PowerSupplyStatusCode:    r.PowerSupplyStatusCode,
		NetworkCardStatusCode:    r.NetworkCardStatusCode,
		MotherboardStatusCode:    r.MotherboardStatusCode,
		Hour:                     r.Hour,
		Minute:                   r.Minute,
		TemperatureRollAvg:       r.TemperatureRollAvg,
		VibrationRollAvg:         r.VibrationRollAvg,
		CurrentRollAvg:           r.CurrentRollAvg,
		TempFanRatio:             r.TempFanRatio,
		CurrentPressureRatio:     r.CurrentPressureRatio,
		VibrationTempInteraction: r.VibrationTempInteraction,
		HardwareFailureType:      r.HardwareFailureType,
		Failure:                  r.Failure,
	}
}

type corpusKey struct {
	machineID string
	timestamp int64
}

// UpsertBulk merges the vectors into the corpus by (machine_id, timestamp)
// and rewrites the file atomically.
func (s *FeatureStore) UpsertBulk(_ context.Context, vecs []*domain.FeatureVector) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return err
	}

	for _, v := range vecs {
		if v == nil || v.MachineID == "" {
			return storage.ErrInvalidInput
		}
		existing[corpusKey{v.MachineID, v.Timestamp.UnixNano()}] = toRow(v)
	}

	rows := make([]featureRow, 0, len(existing))
	for _, r := range existing {
		rows = append(rows, r)
	}
	sortRows(rows)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode feature row: %w", err)
		}
	}
	return writeAtomic(s.path, buf.Bytes())
}

// GetAll retrieves the whole corpus ordered by (machine_id, timestamp) ASC.
func (s *FeatureStore) GetAll(_ context.Context) ([]*domain.FeatureVector, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return nil, err
	}

	rows := make([]featureRow, 0, len(existing))
	for _, r := range existing {
		rows = append(rows, r)
	}
	sortRows(rows)

	vecs := make([]*domain.FeatureVector, len(rows))
	for i, r := range rows {
		vecs[i] = fromRow(r)
	}
	return vecs, nil
}

// LatestPerMachine retrieves each machine's most recent vector, ordered by
// machine_id ASC.
func (s *FeatureStore) LatestPerMachine(_ context.Context) ([]*domain.FeatureVector, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return nil, err
	}

	latest := make(map[string]featureRow)
	for _, r := range existing {
		cur, ok := latest[r.MachineID]
		if !ok || r.Timestamp.After(cur.Timestamp) {
			latest[r.MachineID] = r
		}
	}

	rows := make([]featureRow, 0, len(latest))
	for _, r := range latest {
		rows = append(rows, r)
	}
	sortRows(rows)

	vecs := make([]*domain.FeatureVector, len(rows))
	for i, r := range rows {
		vecs[i] = fromRow(r)
	}
	return vecs, nil
}

// Count returns the number of stored vectors.
func (s *FeatureStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return 0, err
	}
	return len(existing), nil
}

func (s *FeatureStore) load() (map[corpusKey]featureRow, error) {
	result := make(map[corpusKey]featureRow)

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return nil, fmt.Errorf("open feature corpus: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if len(bytes.TrimSpace(scanner.Bytes())) == 0 {
			continue
		}
		var r featureRow
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			return nil, fmt.Errorf("feature corpus line %d: %w", line, err)
		}
		result[corpusKey{r.MachineID, r.Timestamp.UnixNano()}] = r
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read feature corpus: %w", err)
	}
	return result, nil
}

func sortRows(rows []featureRow) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].MachineID != rows[j].MachineID {
			return rows[i].MachineID < rows[j].MachineID
		}
		return rows[i].Timestamp.Before(rows[j].Timestamp)
	})
}
