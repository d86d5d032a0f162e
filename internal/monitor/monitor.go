/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package monitor

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"

	"tanktwin/common/dto"
)

// AlertCounter reports the number of currently active alerts; the alarm
// manager satisfies this
type AlertCounter interface {
	ActiveCount() int
}

// TankMonitor keeps the latest published snapshot and computes fleet-level
// metrics from it on demand. It never touches live simulation state, only
// what was published, so its reads are always consistent with one tick.
type TankMonitor struct {
	lc     logger.LoggingClient
	alerts AlertCounter

	mu    sync.RWMutex
	tanks []dto.Tank
}

func NewTankMonitor(lc logger.LoggingClient, alerts AlertCounter) *TankMonitor {
	return &TankMonitor{lc: lc, alerts: alerts}
}

// OnSnapshot replaces the retained snapshot, last write wins
func (m *TankMonitor) OnSnapshot(tanks []dto.Tank) {
	m.mu.Lock()
	m.tanks = tanks
	m.mu.Unlock()
}

func (m *TankMonitor) OnAlert(_ dto.Alert) {}

func (m *TankMonitor) snapshot() []dto.Tank {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tanks
}

// Metrics aggregates the fleet; an empty fleet yields zeroes, not an error
func (m *TankMonitor) Metrics() dto.SystemMetrics {
	tanks := m.snapshot()
	metrics := dto.SystemMetrics{LastUpdate: time.Now().UnixMilli()}
	if m.alerts != nil {
		metrics.AlertCount = m.alerts.ActiveCount()
	}
	if len(tanks) == 0 {
		return metrics
	}

	var tempSum float64
	for i := range tanks {
		t := &tanks[i]
		metrics.TotalTanks++
		if t.BoilerStatus == dto.BoilerActive {
			metrics.ActiveTanks++
		}
		tempSum += t.Temperature
		metrics.TotalCapacity += t.Capacity
		metrics.TotalUsed += t.CurrentLevel
	}
	metrics.AverageTemperature = tempSum / float64(len(tanks))
	return metrics
}

// Efficiency scores each tank on temperature tracking, fill level and boiler
// utilization; the overall score is the plain average of the three
func (m *TankMonitor) Efficiency() []dto.TankEfficiency {
	tanks := m.snapshot()
	result := make([]dto.TankEfficiency, 0, len(tanks))
	for i := range tanks {
		t := &tanks[i]
		tempDiff := math.Abs(t.Temperature - t.TargetTemperature)
		tempEff := math.Max(0, 100-tempDiff*5)
		levelEff := t.LevelPercent()
		boilerEff := 50.0
		if t.BoilerStatus == dto.BoilerActive {
			boilerEff = 100
		}
		result = append(result, dto.TankEfficiency{
			TankId:            t.Id,
			Name:              t.Name,
			TempEfficiency:    tempEff,
			LevelEfficiency:   levelEff,
			BoilerEfficiency:  boilerEff,
			OverallEfficiency: (tempEff + levelEff + boilerEff) / 3,
		})
	}
	return result
}

// MaintenanceNeeds classifies each tank into a single priority bucket, first
// matching condition wins
func (m *TankMonitor) MaintenanceNeeds() []dto.MaintenanceNeed {
	tanks := m.snapshot()
	result := make([]dto.MaintenanceNeed, 0, len(tanks))
	for i := range tanks {
		t := &tanks[i]
		tempDiff := math.Abs(t.Temperature - t.TargetTemperature)
		levelPct := t.LevelPercent()

		need := dto.MaintenanceNeed{TankId: t.Id, Name: t.Name}
		switch {
		case t.BoilerStatus == dto.BoilerMaintenance:
			need.Priority = dto.PriorityHigh
			need.Reason = "Boiler under maintenance"
		case tempDiff > 15:
			need.Priority = dto.PriorityHigh
			need.Reason = fmt.Sprintf("Temperature off target by %.1f", tempDiff)
		case levelPct < 10:
			need.Priority = dto.PriorityMedium
			need.Reason = fmt.Sprintf("Level low at %.1f%%", levelPct)
		case tempDiff > 8:
			need.Priority = dto.PriorityMedium
			need.Reason = fmt.Sprintf("Temperature drifting, off target by %.1f", tempDiff)
		default:
			need.Priority = dto.PriorityLow
			need.Reason = "Routine inspection"
		}
		result = append(result, need)
	}
	return result
}

// Report assembles the full fleet report; it never fails, an empty fleet
// produces an empty report
func (m *TankMonitor) Report() dto.FleetReport {
	tanks := m.snapshot()
	efficiency := m.Efficiency()
	maintenance := m.MaintenanceNeeds()

	summary := dto.FleetSummary{}
	if len(efficiency) > 0 {
		var sum float64
		for _, e := range efficiency {
			sum += e.OverallEfficiency
		}
		summary.AverageEfficiency = sum / float64(len(efficiency))
	}
	for i := range tanks {
		if tanks[i].Status == dto.StatusCritical {
			summary.CriticalTanks++
		}
	}
	for _, need := range maintenance {
		if need.Priority == dto.PriorityHigh {
			summary.HighPriorityNeeds++
		}
	}

	return dto.FleetReport{
		Metrics:     m.Metrics(),
		Efficiency:  efficiency,
		Maintenance: maintenance,
		Summary:     summary,
		Generated:   time.Now().UnixMilli(),
	}
}
