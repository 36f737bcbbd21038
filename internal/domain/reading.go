package domain

import "time"

// SensorReading is one raw row from a sensor batch file. Label fields
// (HardwareFailureType, Failure) are optional annotations; all other
// fields are required by ingest validation.
type SensorReading struct {
	MachineID string
	Timestamp time.Time

	Temperature float64
	Vibration   float64
	Pressure    float64
	Current     float64
	FanSpeed    float64

	HardDiskStatus    string
	PowerSupplyStatus string
	NetworkCardStatus string
	MotherboardStatus string

	HardwareFailureType string // empty when the reading carries no annotation
	Failure             int    // 0/1 failure flag
}

// FailureType identifies one of the predicted hardware failure modes.
type FailureType string

const (
	FailureHardDisk    FailureType = "hard_disk"
	FailureFan         FailureType = "fan"
	FailurePowerSupply FailureType = "power_supply"
	FailureNetworkCard FailureType = "network_card"
	FailureMotherboard FailureType = "motherboard"

	// FailureNone is the sentinel for readings without an annotation and
	// assessments where no model produced a signal.
	FailureNone FailureType = "none"
)

// AllFailureTypes lists the predicted types in declaration order. This order
// breaks probability ties, so it must stay fixed.
var AllFailureTypes = []FailureType{
	FailureHardDisk,
	FailureFan,
	FailurePowerSupply,
	FailureNetworkCard,
	FailureMotherboard,
}
