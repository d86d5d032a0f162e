/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package dto

type ControlAction string

const (
	ActionStart    ControlAction = "start"
	ActionStop     ControlAction = "stop"
	ActionNoAction ControlAction = "no_action"
)

// TimeToTargetUnknown is the TimeToTarget value when the oracle could not
// estimate convergence
const TimeToTargetUnknown float64 = -1

type MaintenanceWindow struct {
	Start int64 `json:"start" codec:"start"`
	End   int64 `json:"end"   codec:"end"`
}

// ControlPrediction is the advisory output of the prediction oracle for one
// tank. The engine retains the last consumed prediction for display even when
// newer queries fail.
type ControlPrediction struct {
	NextAction              ControlAction      `json:"next_action"                     codec:"next_action"`
	Confidence              float64            `json:"confidence"                      codec:"confidence"` // 0-1
	PredictedTemperatures   []float64          `json:"predicted_temperatures,omitempty" codec:"predicted_temperatures,omitempty"`
	TimeToTarget            float64            `json:"time_to_target"                  codec:"time_to_target"` // seconds, TimeToTargetUnknown when not estimable
	EnergyOptimizationScore float64            `json:"energy_optimization_score"       codec:"energy_optimization_score"`
	FailureRisk             float64            `json:"failure_risk"                    codec:"failure_risk"` // 0-1
	MaintenanceWindow       *MaintenanceWindow `json:"maintenance_window,omitempty"    codec:"maintenance_window,omitempty"`
	Created                 int64              `json:"created,omitempty"               codec:"created,omitempty"`
	CorrelationId           string             `json:"correlation_id,omitempty"        codec:"correlation_id,omitempty"`
}

// Confident tells whether the prediction is strong enough to override the
// rule-based control policy
func (p *ControlPrediction) Confident(threshold float64) bool {
	return p != nil && p.Confidence > threshold
}

type ModelStatus struct {
	ModelId     string  `json:"model_id"              codec:"model_id"`
	Name        string  `json:"name"                  codec:"name"`
	State       string  `json:"state"                 codec:"state"` // ready, training, failed
	Accuracy    float64 `json:"accuracy,omitempty"    codec:"accuracy,omitempty"`
	LastTrained int64   `json:"last_trained,omitempty" codec:"last_trained,omitempty"`
}
