/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tanktwin/common/dto"
)

func TestApplyControlPolicy_MaintenanceIsSticky(t *testing.T) {
	tank := &dto.Tank{
		Temperature:       110,
		TargetTemperature: 150,
		BoilerStatus:      dto.BoilerMaintenance,
	}
	pred := &dto.ControlPrediction{NextAction: dto.ActionStart, Confidence: 0.99}

	bias := applyControlPolicy(tank, pred)

	assert.Equal(t, dto.BoilerMaintenance, tank.BoilerStatus)
	assert.Zero(t, bias)
}

func TestApplyControlPolicy_ConfidentStartOverride(t *testing.T) {
	// in-band temperature, the rule alone would not start the boiler
	tank := &dto.Tank{
		Temperature:       149,
		TargetTemperature: 150,
		BoilerStatus:      dto.BoilerInactive,
	}
	pred := &dto.ControlPrediction{NextAction: dto.ActionStart, Confidence: 0.9}

	bias := applyControlPolicy(tank, pred)

	assert.Equal(t, dto.BoilerActive, tank.BoilerStatus)
	assert.Equal(t, heatingBias, bias)
}

func TestApplyControlPolicy_ConfidentStopOverride(t *testing.T) {
	tank := &dto.Tank{
		Temperature:       151,
		TargetTemperature: 150,
		BoilerStatus:      dto.BoilerActive,
	}
	pred := &dto.ControlPrediction{NextAction: dto.ActionStop, Confidence: 0.85}

	bias := applyControlPolicy(tank, pred)

	assert.Equal(t, dto.BoilerInactive, tank.BoilerStatus)
	assert.Equal(t, coolingBias, bias)
}

func TestApplyControlPolicy_ConfidentActionNotApplicable(t *testing.T) {
	// a confident start against an already active boiler changes nothing,
	// and it still preempts the rule
	tank := &dto.Tank{
		Temperature:       160,
		TargetTemperature: 150,
		BoilerStatus:      dto.BoilerActive,
	}
	pred := &dto.ControlPrediction{NextAction: dto.ActionStart, Confidence: 0.95}

	bias := applyControlPolicy(tank, pred)

	assert.Equal(t, dto.BoilerActive, tank.BoilerStatus)
	assert.Zero(t, bias)
}

func TestApplyControlPolicy_LowConfidenceFallsBackToRule(t *testing.T) {
	tank := &dto.Tank{
		Temperature:       140,
		TargetTemperature: 150,
		BoilerStatus:      dto.BoilerInactive,
	}
	pred := &dto.ControlPrediction{NextAction: dto.ActionStop, Confidence: 0.5}

	bias := applyControlPolicy(tank, pred)

	// temperature is more than ruleBand below target, the rule starts the boiler
	assert.Equal(t, dto.BoilerActive, tank.BoilerStatus)
	assert.Zero(t, bias)
}

func TestApplyControlPolicy_RuleBased(t *testing.T) {
	tests := []struct {
		name        string
		temperature float64
		boiler      dto.BoilerStatus
		expected    dto.BoilerStatus
	}{
		{"cold tank starts boiler", 144, dto.BoilerInactive, dto.BoilerActive},
		{"hot tank stops boiler", 156, dto.BoilerActive, dto.BoilerInactive},
		{"in band inactive stays inactive", 148, dto.BoilerInactive, dto.BoilerInactive},
		{"in band active stays active", 152, dto.BoilerActive, dto.BoilerActive},
		{"cold but already active stays active", 140, dto.BoilerActive, dto.BoilerActive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tank := &dto.Tank{
				Temperature:       tt.temperature,
				TargetTemperature: 150,
				BoilerStatus:      tt.boiler,
			}
			bias := applyControlPolicy(tank, nil)
			assert.Equal(t, tt.expected, tank.BoilerStatus)
			assert.Zero(t, bias)
		})
	}
}

func TestApplyControlPolicy_ExactThresholdConfidenceDoesNotOverride(t *testing.T) {
	tank := &dto.Tank{
		Temperature:       149,
		TargetTemperature: 150,
		BoilerStatus:      dto.BoilerInactive,
	}
	pred := &dto.ControlPrediction{NextAction: dto.ActionStart, Confidence: confidenceThreshold}

	applyControlPolicy(tank, pred)

	// confidence must be strictly above the threshold, rule keeps it inactive
	assert.Equal(t, dto.BoilerInactive, tank.BoilerStatus)
}
