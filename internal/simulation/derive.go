/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package simulation

import (
	"math"
	"math/rand"

	"tanktwin/common/dto"
)

// Status classification thresholds
const (
	criticalTempDiff = 15.0
	warningTempDiff  = 8.0
	criticalLevelLow = 10.0
	warningLevelLow  = 20.0
	warningLevelHigh = 85.0
	criticalLevelHi  = 95.0
)

// ClassifyStatus derives tank health from temperature deviation, fill level
// and boiler state. Critical conditions short-circuit: a tank under
// maintenance is critical no matter what its readings say.
func ClassifyStatus(temperature, target, level, capacity float64, boiler dto.BoilerStatus) dto.TankStatus {
	tempDiff := math.Abs(temperature - target)
	levelPct := 0.0
	if capacity > 0 {
		levelPct = level / capacity * 100
	}

	if boiler == dto.BoilerMaintenance || tempDiff > criticalTempDiff ||
		levelPct < criticalLevelLow || levelPct > criticalLevelHi {
		return dto.StatusCritical
	}
	if tempDiff > warningTempDiff || levelPct < warningLevelLow || levelPct > warningLevelHigh {
		return dto.StatusWarning
	}
	return dto.StatusNormal
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// deriveEfficiency falls as the tank drifts from its target temperature
func deriveEfficiency(t *dto.Tank) float64 {
	tempDiff := math.Abs(t.Temperature - t.TargetTemperature)
	efficiency := 100 - tempDiff*4
	if t.BoilerStatus == dto.BoilerMaintenance {
		efficiency *= 0.5
	}
	return clamp(efficiency, 0, 100)
}

// deriveMaintenanceScore drops sharply when the boiler is down
func deriveMaintenanceScore(t *dto.Tank) float64 {
	if t.BoilerStatus == dto.BoilerMaintenance {
		return 25
	}
	tempDiff := math.Abs(t.Temperature - t.TargetTemperature)
	return clamp(100-tempDiff*2, 0, 100)
}

// deriveEnergyConsumption estimates the heating draw for this tick in kW
func deriveEnergyConsumption(t *dto.Tank, tempChange float64) float64 {
	consumption := 5.0
	if t.BoilerStatus == dto.BoilerActive {
		consumption += 20
	}
	consumption += math.Abs(tempChange) * 2
	return clamp(consumption, 0, 200)
}

// refreshSensors overwrites each reading with the physical value plus
// measurement noise bounded by the sensor's declared accuracy
func refreshSensors(t *dto.Tank, now int64, rng *rand.Rand) {
	if t.Sensors == nil {
		t.Sensors = make(map[string]dto.SensorReading, 4)
	}

	refresh := func(name string, physical float64) {
		reading := t.Sensors[name]
		if reading.Accuracy <= 0 || reading.Accuracy > 100 {
			reading.Accuracy = 95
		}
		if reading.Status == "" {
			reading.Status = dto.SensorOnline
		}
		span := (100 - reading.Accuracy) / 100 * math.Max(1, math.Abs(physical))
		reading.Value = physical + (rng.Float64()*2-1)*span
		reading.Timestamp = now
		t.Sensors[name] = reading
	}

	refresh(dto.SensorTemperature, t.Temperature)
	refresh(dto.SensorLevel, t.CurrentLevel)

	// pressure grows with head and temperature, flow with heating activity
	pressure := 1.0 + t.LevelPercent()/100*1.5 + (t.Temperature-100)/100*0.5
	refresh(dto.SensorPressure, pressure)

	flow := 0.5
	if t.BoilerStatus == dto.BoilerActive {
		flow = 2.0 + t.EnergyConsumption/50
	}
	refresh(dto.SensorFlow, flow)
}
