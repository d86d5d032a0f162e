/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package dto

type BoilerStatus string

const (
	BoilerActive      BoilerStatus = "active"
	BoilerInactive    BoilerStatus = "inactive"
	BoilerMaintenance BoilerStatus = "maintenance"
)

type TankStatus string

const (
	StatusNormal   TankStatus = "normal"
	StatusWarning  TankStatus = "warning"
	StatusCritical TankStatus = "critical"
)

type SensorStatus string

const (
	SensorOnline  SensorStatus = "online"
	SensorOffline SensorStatus = "offline"
	SensorFault   SensorStatus = "fault"
)

// Sensor names, also used as keys in Tank.Sensors
const (
	SensorTemperature = "temperature"
	SensorLevel       = "level"
	SensorPressure    = "pressure"
	SensorFlow        = "flow"
)

// Position of a tank in plant coordinates, display only
type Position struct {
	X float64 `json:"x" codec:"x"`
	Y float64 `json:"y" codec:"y"`
	Z float64 `json:"z" codec:"z"`
}

type SensorReading struct {
	Value           float64      `json:"value"            codec:"value"`
	Timestamp       int64        `json:"timestamp"        codec:"timestamp"`
	Status          SensorStatus `json:"status"           codec:"status"`
	Accuracy        float64      `json:"accuracy"         codec:"accuracy"` // declared accuracy in percent, 0-100
	LastCalibration int64        `json:"last_calibration" codec:"last_calibration"`
}

// Tank is the mutable state of one storage tank. The simulation engine is the
// only writer; everything downstream works on snapshot copies.
type Tank struct {
	Id                int                      `json:"id"                           codec:"id"`
	Name              string                   `json:"name"                         codec:"name"`
	Position          Position                 `json:"position"                     codec:"position"`
	Temperature       float64                  `json:"temperature"                  codec:"temperature"`
	TargetTemperature float64                  `json:"target_temperature"           codec:"target_temperature"`
	Capacity          float64                  `json:"capacity"                     codec:"capacity"`
	CurrentLevel      float64                  `json:"current_level"                codec:"current_level"`
	BoilerStatus      BoilerStatus             `json:"boiler_status"                codec:"boiler_status"`
	Status            TankStatus               `json:"status"                       codec:"status"`
	Sensors           map[string]SensorReading `json:"sensors"                      codec:"sensors"`
	Prediction        *ControlPrediction       `json:"prediction,omitempty"         codec:"prediction,omitempty"`
	Efficiency        float64                  `json:"efficiency"                   codec:"efficiency"`
	MaintenanceScore  float64                  `json:"maintenance_score"            codec:"maintenance_score"`
	EnergyConsumption float64                  `json:"energy_consumption"           codec:"energy_consumption"`
	LastUpdated       int64                    `json:"last_updated"                 codec:"last_updated"`
}

// LevelPercent returns the fill level as a percentage of capacity
func (t *Tank) LevelPercent() float64 {
	if t.Capacity <= 0 {
		return 0
	}
	return t.CurrentLevel / t.Capacity * 100
}

// Clone returns a deep copy so published snapshots stay immutable
func (t *Tank) Clone() *Tank {
	cp := *t
	if t.Sensors != nil {
		cp.Sensors = make(map[string]SensorReading, len(t.Sensors))
		for name, reading := range t.Sensors {
			cp.Sensors[name] = reading
		}
	}
	if t.Prediction != nil {
		pred := *t.Prediction
		if t.Prediction.PredictedTemperatures != nil {
			pred.PredictedTemperatures = append([]float64(nil), t.Prediction.PredictedTemperatures...)
		}
		if t.Prediction.MaintenanceWindow != nil {
			window := *t.Prediction.MaintenanceWindow
			pred.MaintenanceWindow = &window
		}
		cp.Prediction = &pred
	}
	return &cp
}
