// Package ingest reads sensor batch files. Batches are CSV, one row per
// reading, and may arrive in a handful of text encodings; reads go through
// a fallback chain before the file is rejected.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"maintlab/internal/domain"
)

// RequiredColumns must all be present in a batch header. A missing column
// aborts the whole batch; no partial table is produced.
var RequiredColumns = []string{
	"timestamp", "machine_id",
	"temperature", "vibration", "pressure", "current", "fan_speed",
	"hard_disk_status", "power_supply_status", "network_card_status", "motherboard_status",
}

// Optional columns: hardware_failure_type (nullable) and failure.

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ReadBatch reads and parses one batch file.
func ReadBatch(path string) ([]domain.SensorReading, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch %s: %w", filepath.Base(path), err)
	}

	text, err := decodeText(raw)
	if err != nil {
		return nil, fmt.Errorf("decode batch %s: %w", filepath.Base(path), err)
	}

	readings, err := parseCSV(text)
	if err != nil {
		return nil, fmt.Errorf("batch %s: %w", filepath.Base(path), err)
	}
	return readings, nil
}

// decodeText applies the encoding fallback chain: UTF-8 (with or without
// BOM), then Latin-1, which accepts any byte sequence.
func decodeText(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(raw) {
		return string(raw), nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("latin-1 fallback: %w", err)
	}
	return string(decoded), nil
}

func parseCSV(text string) ([]domain.SensorReading, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := col[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	var readings []domain.SensorReading
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		reading, err := parseRow(record, col)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		readings = append(readings, reading)
	}

	return readings, nil
}

func parseRow(record []string, col map[string]int) (domain.SensorReading, error) {
	var r domain.SensorReading
	var err error

	r.MachineID = field(record, col, "machine_id")
	if r.MachineID == "" {
		return r, fmt.Errorf("empty machine_id")
	}

	if r.Timestamp, err = parseTimestamp(field(record, col, "timestamp")); err != nil {
		return r, err
	}

	numerics := []struct {
		name string
		dst  *float64
	}{
		{"temperature", &r.Temperature},
		{"vibration", &r.Vibration},
		{"pressure", &r.Pressure},
		{"current", &r.Current},
		{"fan_speed", &r.FanSpeed},
	}
	for _, n := range numerics {
		v := field(record, col, n.name)
		if *n.dst, err = strconv.ParseFloat(v, 64); err != nil {
			return r, fmt.Errorf("parse %s %q: %w", n.name, v, err)
		}
	}

	r.HardDiskStatus = field(record, col, "hard_disk_status")
	r.PowerSupplyStatus = field(record, col, "power_supply_status")
	r.NetworkCardStatus = field(record, col, "network_card_status")
	r.MotherboardStatus = field(record, col, "motherboard_status")

	r.HardwareFailureType = field(record, col, "hardware_failure_type")

	if v := field(record, col, "failure"); v != "" {
		if r.Failure, err = strconv.Atoi(v); err != nil {
			return r, fmt.Errorf("parse failure %q: %w", v, err)
		}
	}

	return r, nil
}

func field(record []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseTimestamp(v string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q", v)
}
