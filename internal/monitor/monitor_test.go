/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package monitor

import (
	"testing"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tanktwin/common/dto"
)

type stubAlertCounter struct{ active int }

func (s *stubAlertCounter) ActiveCount() int { return s.active }

func fleetOfTwo() []dto.Tank {
	return []dto.Tank{
		{
			Id: 1, Name: "Tank-01",
			Temperature: 150, TargetTemperature: 150,
			Capacity: 10000, CurrentLevel: 6000,
			BoilerStatus: dto.BoilerActive, Status: dto.StatusNormal,
		},
		{
			Id: 2, Name: "Tank-02",
			Temperature: 140, TargetTemperature: 150,
			Capacity: 10000, CurrentLevel: 2000,
			BoilerStatus: dto.BoilerInactive, Status: dto.StatusWarning,
		},
	}
}

func TestMetrics_EmptyFleet(t *testing.T) {
	mon := NewTankMonitor(new(logger.MockLogger), nil)

	metrics := mon.Metrics()

	assert.Zero(t, metrics.TotalTanks)
	assert.Zero(t, metrics.ActiveTanks)
	assert.Zero(t, metrics.AverageTemperature)
	assert.Zero(t, metrics.TotalCapacity)
	assert.NotZero(t, metrics.LastUpdate)
}

func TestMetrics_Aggregation(t *testing.T) {
	counter := &stubAlertCounter{active: 3}
	mon := NewTankMonitor(new(logger.MockLogger), counter)
	mon.OnSnapshot(fleetOfTwo())

	metrics := mon.Metrics()

	assert.Equal(t, 2, metrics.TotalTanks)
	assert.Equal(t, 1, metrics.ActiveTanks)
	assert.Equal(t, 145.0, metrics.AverageTemperature)
	assert.Equal(t, 20000.0, metrics.TotalCapacity)
	assert.Equal(t, 8000.0, metrics.TotalUsed)
	assert.Equal(t, 3, metrics.AlertCount)
}

func TestEfficiency(t *testing.T) {
	mon := NewTankMonitor(new(logger.MockLogger), nil)
	mon.OnSnapshot(fleetOfTwo())

	efficiency := mon.Efficiency()
	require.Len(t, efficiency, 2)

	// on target, 60% full, boiler active
	assert.Equal(t, 100.0, efficiency[0].TempEfficiency)
	assert.Equal(t, 60.0, efficiency[0].LevelEfficiency)
	assert.Equal(t, 100.0, efficiency[0].BoilerEfficiency)
	assert.InDelta(t, (100.0+60+100)/3, efficiency[0].OverallEfficiency, 1e-9)

	// 10 off target, 20% full, boiler inactive
	assert.Equal(t, 50.0, efficiency[1].TempEfficiency)
	assert.Equal(t, 20.0, efficiency[1].LevelEfficiency)
	assert.Equal(t, 50.0, efficiency[1].BoilerEfficiency)
	assert.InDelta(t, (50.0+20+50)/3, efficiency[1].OverallEfficiency, 1e-9)
}

func TestEfficiency_TempScoreFloorsAtZero(t *testing.T) {
	mon := NewTankMonitor(new(logger.MockLogger), nil)
	mon.OnSnapshot([]dto.Tank{{
		Id: 1, Temperature: 180, TargetTemperature: 150,
		Capacity: 10000, CurrentLevel: 5000, BoilerStatus: dto.BoilerActive,
	}})

	efficiency := mon.Efficiency()
	require.Len(t, efficiency, 1)
	assert.Zero(t, efficiency[0].TempEfficiency)
}

func TestMaintenanceNeeds_PriorityOrder(t *testing.T) {
	tests := []struct {
		name     string
		tank     dto.Tank
		priority dto.MaintenancePriority
	}{
		{
			"boiler maintenance wins over everything",
			dto.Tank{Temperature: 180, TargetTemperature: 150, Capacity: 10000, CurrentLevel: 100,
				BoilerStatus: dto.BoilerMaintenance},
			dto.PriorityHigh,
		},
		{
			"large temperature drift",
			dto.Tank{Temperature: 170, TargetTemperature: 150, Capacity: 10000, CurrentLevel: 5000,
				BoilerStatus: dto.BoilerActive},
			dto.PriorityHigh,
		},
		{
			"low level",
			dto.Tank{Temperature: 150, TargetTemperature: 150, Capacity: 10000, CurrentLevel: 500,
				BoilerStatus: dto.BoilerActive},
			dto.PriorityMedium,
		},
		{
			"moderate drift",
			dto.Tank{Temperature: 159, TargetTemperature: 150, Capacity: 10000, CurrentLevel: 5000,
				BoilerStatus: dto.BoilerActive},
			dto.PriorityMedium,
		},
		{
			"healthy tank",
			dto.Tank{Temperature: 150, TargetTemperature: 150, Capacity: 10000, CurrentLevel: 5000,
				BoilerStatus: dto.BoilerActive},
			dto.PriorityLow,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mon := NewTankMonitor(new(logger.MockLogger), nil)
			mon.OnSnapshot([]dto.Tank{tt.tank})

			needs := mon.MaintenanceNeeds()
			require.Len(t, needs, 1)
			assert.Equal(t, tt.priority, needs[0].Priority)
			assert.NotEmpty(t, needs[0].Reason)
		})
	}
}

func TestReport(t *testing.T) {
	counter := &stubAlertCounter{active: 1}
	mon := NewTankMonitor(new(logger.MockLogger), counter)

	tanks := fleetOfTwo()
	tanks[1].Status = dto.StatusCritical
	tanks[1].BoilerStatus = dto.BoilerMaintenance
	mon.OnSnapshot(tanks)

	report := mon.Report()

	assert.Equal(t, 2, report.Metrics.TotalTanks)
	assert.Len(t, report.Efficiency, 2)
	assert.Len(t, report.Maintenance, 2)
	assert.Equal(t, 1, report.Summary.CriticalTanks)
	assert.Equal(t, 1, report.Summary.HighPriorityNeeds)
	assert.Positive(t, report.Summary.AverageEfficiency)
	assert.NotZero(t, report.Generated)
}

func TestReport_EmptyFleet(t *testing.T) {
	mon := NewTankMonitor(new(logger.MockLogger), nil)

	report := mon.Report()

	assert.Zero(t, report.Summary.AverageEfficiency)
	assert.Empty(t, report.Efficiency)
	assert.Empty(t, report.Maintenance)
	assert.NotZero(t, report.Generated)
}
