package features

import (
	"math"
	"testing"
	"time"

	"maintlab/internal/domain"
)

func ts(minute int) time.Time {
	return time.Date(2024, 6, 1, 10, minute, 0, 0, time.UTC)
}

func TestEngineer_SortsByMachineThenTime(t *testing.T) {
	batch := []domain.SensorReading{
		{MachineID: "M2", Timestamp: ts(0), FanSpeed: 1500, Pressure: 1},
		{MachineID: "M1", Timestamp: ts(5), FanSpeed: 1500, Pressure: 1},
		{MachineID: "M1", Timestamp: ts(0), FanSpeed: 1500, Pressure: 1},
	}

	vecs := Engineer(batch)
	if len(vecs) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(vecs))
	}

	wantOrder := []struct {
		machine string
		minute  int
	}{
		{"M1", 0}, {"M1", 5}, {"M2", 0},
	}
	for i, want := range wantOrder {
		if vecs[i].MachineID != want.machine || vecs[i].Minute != want.minute {
			t.Errorf("position %d: got (%s, %d), want (%s, %d)",
				i, vecs[i].MachineID, vecs[i].Minute, want.machine, want.minute)
		}
	}
}

func TestEngineer_RollingAverageWindow(t *testing.T) {
	batch := []domain.SensorReading{
		{MachineID: "M1", Timestamp: ts(0), Temperature: 60, FanSpeed: 1500, Pressure: 1},
		{MachineID: "M1", Timestamp: ts(1), Temperature: 70, FanSpeed: 1500, Pressure: 1},
		{MachineID: "M1", Timestamp: ts(2), Temperature: 80, FanSpeed: 1500, Pressure: 1},
		{MachineID: "M1", Timestamp: ts(3), Temperature: 90, FanSpeed: 1500, Pressure: 1},
	}

	vecs := Engineer(batch)

	// min period 1: first value is its own average
	want := []float64{60, 65, 70, 80}
	for i, w := range want {
		if math.Abs(vecs[i].TemperatureRollAvg-w) > 1e-9 {
			t.Errorf("row %d: rolling avg = %v, want %v", i, vecs[i].TemperatureRollAvg, w)
		}
	}
}

func TestEngineer_RollingAverageResetsPerMachine(t *testing.T) {
	batch := []domain.SensorReading{
		{MachineID: "M1", Timestamp: ts(0), Temperature: 100, FanSpeed: 1500, Pressure: 1},
		{MachineID: "M1", Timestamp: ts(1), Temperature: 100, FanSpeed: 1500, Pressure: 1},
		{MachineID: "M2", Timestamp: ts(2), Temperature: 50, FanSpeed: 1500, Pressure: 1},
	}

	vecs := Engineer(batch)

	// M2's first reading must not see M1's window
	if vecs[2].MachineID != "M2" {
		t.Fatalf("expected M2 at position 2, got %s", vecs[2].MachineID)
	}
	if vecs[2].TemperatureRollAvg != 50 {
		t.Errorf("M2 rolling avg = %v, want 50 (window must reset)", vecs[2].TemperatureRollAvg)
	}
}

func TestEngineer_FailureTypeSentinel(t *testing.T) {
	batch := []domain.SensorReading{
		{MachineID: "M1", Timestamp: ts(0), FanSpeed: 1500, Pressure: 1},
		{MachineID: "M1", Timestamp: ts(1), FanSpeed: 1500, Pressure: 1, HardwareFailureType: "fan"},
	}

	vecs := Engineer(batch)

	if vecs[0].HardwareFailureType != "none" {
		t.Errorf("empty annotation = %q, want \"none\"", vecs[0].HardwareFailureType)
	}
	if vecs[1].HardwareFailureType != "fan" {
		t.Errorf("annotation = %q, want \"fan\"", vecs[1].HardwareFailureType)
	}
}

func TestEngineer_DerivedRatios(t *testing.T) {
	batch := []domain.SensorReading{
		{MachineID: "M1", Timestamp: ts(0), Temperature: 75, Vibration: 0.1, Pressure: 2, Current: 8, FanSpeed: 1500},
	}

	v := Engineer(batch)[0]

	if math.Abs(v.TempFanRatio-5.0) > 1e-9 {
		t.Errorf("TempFanRatio = %v, want 5.0", v.TempFanRatio)
	}
	if math.Abs(v.CurrentPressureRatio-4.0) > 1e-9 {
		t.Errorf("CurrentPressureRatio = %v, want 4.0", v.CurrentPressureRatio)
	}
	if math.Abs(v.VibrationTempInteraction-7.5) > 1e-9 {
		t.Errorf("VibrationTempInteraction = %v, want 7.5", v.VibrationTempInteraction)
	}
}

func TestEngineer_ZeroDivisorGuard(t *testing.T) {
	batch := []domain.SensorReading{
		{MachineID: "M1", Timestamp: ts(0), Temperature: 75, Current: 8, FanSpeed: 0, Pressure: 0},
	}

	v := Engineer(batch)[0]

	if v.TempFanRatio != 0 {
		t.Errorf("TempFanRatio with zero fan speed = %v, want 0", v.TempFanRatio)
	}
	if v.CurrentPressureRatio != 0 {
		t.Errorf("CurrentPressureRatio with zero pressure = %v, want 0", v.CurrentPressureRatio)
	}
}

func TestEngineer_TimeFields(t *testing.T) {
	batch := []domain.SensorReading{
		{MachineID: "M1", Timestamp: time.Date(2024, 6, 1, 14, 37, 0, 0, time.UTC), FanSpeed: 1500, Pressure: 1},
	}

	v := Engineer(batch)[0]

	if v.Hour != 14 || v.Minute != 37 {
		t.Errorf("time fields = (%d, %d), want (14, 37)", v.Hour, v.Minute)
	}
}

func TestEngineer_DoesNotModifyInput(t *testing.T) {
	batch := []domain.SensorReading{
		{MachineID: "M2", Timestamp: ts(0), FanSpeed: 1500, Pressure: 1},
		{MachineID: "M1", Timestamp: ts(0), FanSpeed: 1500, Pressure: 1},
	}

	Engineer(batch)

	if batch[0].MachineID != "M2" {
		t.Errorf("input slice was reordered")
	}
}
