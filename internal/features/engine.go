// Package features turns a raw sensor batch into a table of numeric
// feature vectors. Output is deterministic for identical input: the batch
// is sorted by (machine_id, timestamp) before any windowed computation and
// rolling averages never leak across machine boundaries.
package features

import (
	"sort"

	"maintlab/internal/domain"
)

// rollingWindow is the rolling-average window in readings, with a minimum
// period of one so the first readings of a machine still get a value.
const rollingWindow = 3

// Engineer computes the feature table for one batch of readings.
// The input slice is not modified.
func Engineer(batch []domain.SensorReading) []*domain.FeatureVector {
	sorted := make([]domain.SensorReading, len(batch))
	copy(sorted, batch)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].MachineID != sorted[j].MachineID {
			return sorted[i].MachineID < sorted[j].MachineID
		}
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	// Rolling state per machine, reset at each machine boundary.
	var (
		currentMachine string
		tempWin        []float64
		vibWin         []float64
		currWin        []float64
	)

	result := make([]*domain.FeatureVector, len(sorted))
	for i, r := range sorted {
		if i == 0 || r.MachineID != currentMachine {
			currentMachine = r.MachineID
			tempWin = tempWin[:0]
			vibWin = vibWin[:0]
			currWin = currWin[:0]
		}

		tempWin = push(tempWin, r.Temperature)
		vibWin = push(vibWin, r.Vibration)
		currWin = push(currWin, r.Current)

		failureType := r.HardwareFailureType
		if failureType == "" {
			failureType = "none"
		}

		result[i] = &domain.FeatureVector{
			MachineID: r.MachineID,
			Timestamp: r.Timestamp,

			Temperature: r.Temperature,
			Vibration:   r.Vibration,
			Pressure:    r.Pressure,
			Current:     r.Current,
			FanSpeed:    r.FanSpeed,

			Hour:   r.Timestamp.Hour(),
			Minute: r.Timestamp.Minute(),

			TemperatureRollAvg: mean(tempWin),
			VibrationRollAvg:   mean(vibWin),
			CurrentRollAvg:     mean(currWin),

			TempFanRatio:             ratio(r.Temperature, r.FanSpeed/100),
			CurrentPressureRatio:     ratio(r.Current, r.Pressure),
			VibrationTempInteraction: r.Vibration * r.Temperature,

			HardwareFailureType: failureType,
			Failure:             r.Failure,

			HardDiskStatus:    r.HardDiskStatus,
			PowerSupplyStatus: r.PowerSupplyStatus,
			NetworkCardStatus: r.NetworkCardStatus,
			MotherboardStatus: r.MotherboardStatus,
		}
	}

	return result
}

// push appends v and keeps at most rollingWindow values.
func push(win []float64, v float64) []float64 {
	win = append(win, v)
	if len(win) > rollingWindow {
		win = win[1:]
	}
	return win
}

func mean(win []float64) float64 {
	var sum float64
	for _, v := range win {
		sum += v
	}
	return sum / float64(len(win))
}

// ratio guards against a zero divisor; sensors reporting zero would
// otherwise poison the feature table with infinities.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
