package domain

import "time"

// FeatureVector is the numeric projection of a SensorReading plus derived
// fields. Produced by the features package, encoded by the encoder registry,
// consumed read-only downstream. Label fields are carried so the persisted
// corpus supports target construction on retrain.
type FeatureVector struct {
	MachineID string    // raw machine identifier (key, not a model input)
	Timestamp time.Time // reading time (key, not a model input)

	MachineIDCode int // encoded machine identity

	Temperature float64
	Vibration   float64
	Pressure    float64
	Current     float64
	FanSpeed    float64

	HardDiskStatusCode    int // encoded categorical codes
	PowerSupplyStatusCode int
	NetworkCardStatusCode int
	MotherboardStatusCode int

	Hour   int
	Minute int

	TemperatureRollAvg float64 // per-machine rolling mean, window 3, min period 1
	VibrationRollAvg   float64
	CurrentRollAvg     float64

	TempFanRatio             float64 // temperature / (fan_speed/100)
	CurrentPressureRatio     float64 // current / pressure
	VibrationTempInteraction float64 // vibration * temperature

	HardwareFailureType string // label carry: annotated type, "none" sentinel
	Failure             int    // label carry: 0/1 failure flag

	// Raw categorical strings, populated between feature engineering and
	// encoding. Not persisted.
	HardDiskStatus    string
	PowerSupplyStatus string
	NetworkCardStatus string
	MotherboardStatus string
}

// FeatureNames lists model input features in the fixed Values() order.
var FeatureNames = []string{
	"machine_id_encoded",
	"temperature", "vibration", "pressure", "current",
	"hard_disk_status", "fan_speed", "power_supply_status",
	"network_card_status", "motherboard_status",
	"hour", "minute",
	"temperature_rolling_avg", "vibration_rolling_avg", "current_rolling_avg",
	"temp_fan_ratio", "current_pressure_ratio", "vibration_temp_interaction",
}

// Values returns the model input vector in FeatureNames order.
func (f *FeatureVector) Values() []float64 {
	return []float64{
		float64(f.MachineIDCode),
		f.Temperature, f.Vibration, f.Pressure, f.Current,
		float64(f.HardDiskStatusCode), f.FanSpeed, float64(f.PowerSupplyStatusCode),
		float64(f.NetworkCardStatusCode), float64(f.MotherboardStatusCode),
		float64(f.Hour), float64(f.Minute),
		f.TemperatureRollAvg, f.VibrationRollAvg, f.CurrentRollAvg,
		f.TempFanRatio, f.CurrentPressureRatio, f.VibrationTempInteraction,
	}
}
