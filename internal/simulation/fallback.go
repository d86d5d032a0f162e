/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package simulation

import (
	"math"

	"tanktwin/common/dto"
)

const (
	fallbackSeriesLength = 10

	// well below confidenceThreshold, a synthesized prediction never overrides
	fallbackConfidence = 0.3
)

// synthesizeFallbackPrediction builds a display-only prediction when no oracle
// result is available: a noiseless convergence series toward target and the
// action the threshold rule would take.
func synthesizeFallbackPrediction(t *dto.Tank, now int64) *dto.ControlPrediction {
	series := make([]float64, 0, fallbackSeriesLength)
	temperature := t.Temperature
	for i := 0; i < fallbackSeriesLength; i++ {
		temperature += (t.TargetTemperature - temperature) * tempGainFactor
		series = append(series, temperature)
	}

	action := dto.ActionNoAction
	switch {
	case t.Temperature < t.TargetTemperature-ruleBand:
		action = dto.ActionStart
	case t.Temperature > t.TargetTemperature+ruleBand:
		action = dto.ActionStop
	}

	risk := 0.0
	if t.BoilerStatus == dto.BoilerMaintenance {
		risk = 1.0
	} else if deviation := math.Abs(t.Temperature - t.TargetTemperature); deviation > warningTempDiff {
		risk = math.Min(1, deviation/100)
	}

	return &dto.ControlPrediction{
		NextAction:            action,
		Confidence:            fallbackConfidence,
		PredictedTemperatures: series,
		TimeToTarget:          dto.TimeToTargetUnknown,
		FailureRisk:           risk,
		Created:               now,
	}
}
