/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package simulation

import (
	"fmt"
	"math/rand"
	"time"

	"tanktwin/common/dto"
)

const (
	defaultCapacity = 10000.0
	defaultTarget   = 150.0

	// plant floor layout, display only
	tanksPerRow = 3
	rowSpacing  = 15.0
	colSpacing  = 20.0
)

// sensor accuracies as declared on the datasheet of the simulated hardware
var sensorAccuracies = map[string]float64{
	dto.SensorTemperature: 98,
	dto.SensorLevel:       96,
	dto.SensorPressure:    92,
	dto.SensorFlow:        90,
}

// NewFleet seeds size tanks with randomized but in-envelope initial state
func NewFleet(size int, rng *rand.Rand) []*dto.Tank {
	now := time.Now().UnixMilli()
	tanks := make([]*dto.Tank, 0, size)
	for i := 0; i < size; i++ {
		id := i + 1
		sensors := make(map[string]dto.SensorReading, len(sensorAccuracies))
		for name, accuracy := range sensorAccuracies {
			sensors[name] = dto.SensorReading{
				Status:          dto.SensorOnline,
				Accuracy:        accuracy,
				Timestamp:       now,
				LastCalibration: now,
			}
		}

		tanks = append(tanks, &dto.Tank{
			Id:   id,
			Name: fmt.Sprintf("Tank-%02d", id),
			Position: dto.Position{
				X: float64(i%tanksPerRow) * colSpacing,
				Y: 0,
				Z: float64(i/tanksPerRow) * rowSpacing,
			},
			Temperature:       120 + rng.Float64()*60, // within [120, 180]
			TargetTemperature: defaultTarget,
			Capacity:          defaultCapacity,
			CurrentLevel:      defaultCapacity * (0.4 + rng.Float64()*0.4),
			BoilerStatus:      dto.BoilerInactive,
			Status:            dto.StatusNormal,
			Sensors:           sensors,
			LastUpdated:       now,
		})
	}
	return tanks
}
