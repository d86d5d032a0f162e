/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package simulation

import (
	"tanktwin/common/dto"
)

const (
	// oracle override only when confidence is above this
	confidenceThreshold = 0.8

	heatingBias = 1.5
	coolingBias = -0.5

	// rule-based hysteresis band around the target
	ruleBand = 5.0
)

// applyControlPolicy evaluates the boiler state machine once for this tick.
// Returns the temperature bias contributed by a confident oracle override.
//
// Precedence: maintenance is sticky and only an external reset clears it; a
// confident prediction overrides the threshold rule; otherwise the threshold
// rule applies. No transition fires outside these conditions.
func applyControlPolicy(t *dto.Tank, pred *dto.ControlPrediction) float64 {
	if t.BoilerStatus == dto.BoilerMaintenance {
		return 0
	}

	if pred.Confident(confidenceThreshold) {
		switch {
		case pred.NextAction == dto.ActionStart && t.BoilerStatus == dto.BoilerInactive:
			t.BoilerStatus = dto.BoilerActive
			return heatingBias
		case pred.NextAction == dto.ActionStop && t.BoilerStatus == dto.BoilerActive:
			t.BoilerStatus = dto.BoilerInactive
			return coolingBias
		}
		return 0
	}

	switch {
	case t.Temperature < t.TargetTemperature-ruleBand && t.BoilerStatus == dto.BoilerInactive:
		t.BoilerStatus = dto.BoilerActive
	case t.Temperature > t.TargetTemperature+ruleBand && t.BoilerStatus == dto.BoilerActive:
		t.BoilerStatus = dto.BoilerInactive
	}
	return 0
}
