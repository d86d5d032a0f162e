/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package dto

type MaintenancePriority string

const (
	PriorityHigh   MaintenancePriority = "high"
	PriorityMedium MaintenancePriority = "medium"
	PriorityLow    MaintenancePriority = "low"
)

// SystemMetrics is recomputed on request from the latest snapshot, never persisted
type SystemMetrics struct {
	TotalTanks         int     `json:"total_tanks"         codec:"total_tanks"`
	ActiveTanks        int     `json:"active_tanks"        codec:"active_tanks"`
	AverageTemperature float64 `json:"average_temperature" codec:"average_temperature"`
	TotalCapacity      float64 `json:"total_capacity"      codec:"total_capacity"`
	TotalUsed          float64 `json:"total_used"          codec:"total_used"`
	AlertCount         int     `json:"alert_count"         codec:"alert_count"`
	LastUpdate         int64   `json:"last_update"         codec:"last_update"`
}

type TankEfficiency struct {
	TankId            int     `json:"tank_id"            codec:"tank_id"`
	Name              string  `json:"name"               codec:"name"`
	TempEfficiency    float64 `json:"temp_efficiency"    codec:"temp_efficiency"`
	LevelEfficiency   float64 `json:"level_efficiency"   codec:"level_efficiency"`
	BoilerEfficiency  float64 `json:"boiler_efficiency"  codec:"boiler_efficiency"`
	OverallEfficiency float64 `json:"overall_efficiency" codec:"overall_efficiency"`
}

type MaintenanceNeed struct {
	TankId   int                 `json:"tank_id"  codec:"tank_id"`
	Name     string              `json:"name"     codec:"name"`
	Priority MaintenancePriority `json:"priority" codec:"priority"`
	Reason   string              `json:"reason"   codec:"reason"`
}

type FleetSummary struct {
	AverageEfficiency float64 `json:"average_efficiency"  codec:"average_efficiency"`
	CriticalTanks     int     `json:"critical_tanks"      codec:"critical_tanks"`
	HighPriorityNeeds int     `json:"high_priority_needs" codec:"high_priority_needs"`
}

type FleetReport struct {
	Metrics     SystemMetrics     `json:"metrics"     codec:"metrics"`
	Efficiency  []TankEfficiency  `json:"efficiency"  codec:"efficiency"`
	Maintenance []MaintenanceNeed `json:"maintenance" codec:"maintenance"`
	Summary     FleetSummary      `json:"summary"     codec:"summary"`
	Generated   int64             `json:"generated"   codec:"generated"`
}
