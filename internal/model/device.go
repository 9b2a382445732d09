package model

import (
	"time"

	"github.com/asadolabs/asador/internal/errs"
)

// DeviceState is the cooking state of a device.
type DeviceState string

// Device states. The machine is cyclic: start/stop may be applied in any state.
const (
	StateIdle   DeviceState = "IDLE"
	StateActive DeviceState = "ACTIVE"
)

// Temperature bounds for measured and target values. The database column is
// numeric(5,2), so scale is enforced at the storage boundary.
const (
	MinTemperature = -999.99
	MaxTemperature = 999.99
)

// Device represents a thermometer. The id is externally assigned (burned into
// the hardware), never generated by the server.
type Device struct {
	ID                    int64
	Temperature           *float64 // last measured value, nil until first report
	LastTemperatureUpdate *time.Time
	TargetTemperature     *float64
	State                 DeviceState
}

// NewDevice creates a device in idle state with no temperature data.
func NewDevice(id int64) *Device {
	return &Device{ID: id, State: StateIdle}
}

// StartCooking moves the device to the active state.
func (d *Device) StartCooking() { d.State = StateActive }

// StopCooking moves the device back to the idle state.
func (d *Device) StopCooking() { d.State = StateIdle }

// SetTemperature stores the measured temperature and stamps the update time.
// The value is validated before any field is touched.
func (d *Device) SetTemperature(temperature *float64) error {
	if err := ValidateTemperature(temperature); err != nil {
		return err
	}
	now := time.Now().UTC()
	d.Temperature = temperature
	d.LastTemperatureUpdate = &now
	return nil
}

// SetTargetTemperature stores the target temperature after validation.
func (d *Device) SetTargetTemperature(temperature *float64) error {
	if err := ValidateTemperature(temperature); err != nil {
		return err
	}
	d.TargetTemperature = temperature
	return nil
}

// ClearTargetTemperature removes the target temperature. Always succeeds.
func (d *Device) ClearTargetTemperature() { d.TargetTemperature = nil }

// ValidateTemperature checks that a temperature is present and within
// [MinTemperature, MaxTemperature].
func ValidateTemperature(temperature *float64) error {
	if temperature == nil {
		return errs.Validation(errs.FieldError{Field: "temperature", Cause: errs.CauseMissing})
	}
	if *temperature < MinTemperature {
		return errs.Validation(errs.FieldError{Field: "temperature", Cause: errs.CauseTooLow})
	}
	if *temperature > MaxTemperature {
		return errs.Validation(errs.FieldError{Field: "temperature", Cause: errs.CauseTooHigh})
	}
	return nil
}
