/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package alarm

import (
	"sync"
	"testing"
	"time"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tanktwin/common/dto"
	twinErrors "tanktwin/common/errors"
	"tanktwin/internal/telemetry"
)

type captureEmitter struct {
	mu     sync.Mutex
	alerts []dto.Alert
}

func (e *captureEmitter) OnAlert(alert dto.Alert) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.alerts = append(e.alerts, alert)
}

func (e *captureEmitter) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.alerts)
}

func newTestManager(cooldown time.Duration) (*Manager, *captureEmitter, *telemetry.Telemetry) {
	emitter := &captureEmitter{}
	tel := telemetry.NewTelemetry()
	manager := NewManager(new(logger.MockLogger), cooldown, nil, emitter, tel)
	return manager, emitter, tel
}

func healthyTank(id int) dto.Tank {
	return dto.Tank{
		Id:                id,
		Name:              "Tank-01",
		Temperature:       150,
		TargetTemperature: 150,
		Capacity:          10000,
		CurrentLevel:      5000,
		BoilerStatus:      dto.BoilerActive,
	}
}

func TestOnSnapshot_HealthyTankEmitsNothing(t *testing.T) {
	manager, emitter, _ := newTestManager(time.Minute)

	manager.OnSnapshot([]dto.Tank{healthyTank(1)})

	assert.Zero(t, emitter.count())
	assert.Empty(t, manager.Alerts())
}

func TestOnSnapshot_TemperatureDeviation(t *testing.T) {
	manager, emitter, _ := newTestManager(time.Minute)

	tank := healthyTank(1)
	tank.Temperature = 162 // 12 off target

	manager.OnSnapshot([]dto.Tank{tank})

	require.Equal(t, 1, emitter.count())
	alerts := manager.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, dto.AlertTypeTemperature, alerts[0].Type)
	assert.Equal(t, dto.SeverityHigh, alerts[0].Severity)
	assert.Equal(t, 1, alerts[0].TankId)
	assert.NotEmpty(t, alerts[0].Id)
	assert.NotEmpty(t, alerts[0].CorrelationId)
}

func TestOnSnapshot_CriticalTemperatureDeviation(t *testing.T) {
	manager, _, _ := newTestManager(time.Minute)

	tank := healthyTank(1)
	tank.Temperature = 175 // 25 off target

	manager.OnSnapshot([]dto.Tank{tank})

	alerts := manager.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, dto.SeverityCritical, alerts[0].Severity)
}

func TestOnSnapshot_LevelAlerts(t *testing.T) {
	tests := []struct {
		name     string
		level    float64
		severity dto.AlertSeverity
	}{
		{"critically low", 300, dto.SeverityCritical},
		{"low", 1200, dto.SeverityMedium},
		{"near capacity", 9700, dto.SeverityHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager, _, _ := newTestManager(time.Minute)

			tank := healthyTank(1)
			tank.CurrentLevel = tt.level
			manager.OnSnapshot([]dto.Tank{tank})

			alerts := manager.Alerts()
			require.Len(t, alerts, 1)
			assert.Equal(t, dto.AlertTypeLevel, alerts[0].Type)
			assert.Equal(t, tt.severity, alerts[0].Severity)
		})
	}
}

func TestOnSnapshot_BoilerMaintenance(t *testing.T) {
	manager, _, _ := newTestManager(time.Minute)

	tank := healthyTank(1)
	tank.BoilerStatus = dto.BoilerMaintenance
	manager.OnSnapshot([]dto.Tank{tank})

	alerts := manager.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, dto.AlertTypeBoiler, alerts[0].Type)
	assert.Equal(t, dto.SeverityHigh, alerts[0].Severity)
}

func TestOnSnapshot_CooldownSuppressesRepeats(t *testing.T) {
	manager, emitter, tel := newTestManager(time.Minute)

	tank := healthyTank(1)
	tank.Temperature = 175

	for i := 0; i < 20; i++ {
		manager.OnSnapshot([]dto.Tank{tank})
	}

	assert.Equal(t, 1, emitter.count())
	assert.Len(t, manager.Alerts(), 1)
	assert.Equal(t, int64(1), tel.AlertsEmitted.Count())
	assert.Equal(t, int64(19), tel.AlertsSuppressed.Count())
}

func TestOnSnapshot_CooldownExpires(t *testing.T) {
	manager, emitter, _ := newTestManager(20 * time.Millisecond)

	tank := healthyTank(1)
	tank.Temperature = 175

	manager.OnSnapshot([]dto.Tank{tank})
	time.Sleep(40 * time.Millisecond)
	manager.OnSnapshot([]dto.Tank{tank})

	assert.Equal(t, 2, emitter.count())
}

func TestOnSnapshot_CooldownIsPerTankAndType(t *testing.T) {
	manager, emitter, _ := newTestManager(time.Minute)

	hot := healthyTank(1)
	hot.Temperature = 175
	low := healthyTank(2)
	low.CurrentLevel = 300

	// same tank tripping two different rules also emits twice
	hotAndLow := healthyTank(3)
	hotAndLow.Temperature = 175
	hotAndLow.CurrentLevel = 300

	manager.OnSnapshot([]dto.Tank{hot, low, hotAndLow})

	assert.Equal(t, 4, emitter.count())
}

func TestAcknowledge(t *testing.T) {
	manager, _, _ := newTestManager(time.Minute)

	tank := healthyTank(1)
	tank.Temperature = 175
	manager.OnSnapshot([]dto.Tank{tank})

	alerts := manager.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, 1, manager.ActiveCount())

	require.Nil(t, manager.Acknowledge(alerts[0].Id, "operator1"))
	assert.Zero(t, manager.ActiveCount())

	acked := manager.Alerts()[0]
	assert.True(t, acked.Acknowledged)
	assert.Equal(t, "operator1", acked.AcknowledgedBy)

	// repeated acknowledge keeps the original acknowledger
	require.Nil(t, manager.Acknowledge(alerts[0].Id, "operator2"))
	assert.Equal(t, "operator1", manager.Alerts()[0].AcknowledgedBy)
}

func TestAcknowledge_UnknownAlert(t *testing.T) {
	manager, _, _ := newTestManager(time.Minute)

	err := manager.Acknowledge("no-such-alert", "operator1")
	require.NotNil(t, err)
	assert.True(t, err.IsErrorType(twinErrors.ErrorTypeNotFound))
}

func TestAlerts_NewestFirstAndBounded(t *testing.T) {
	manager, _, _ := newTestManager(time.Minute)

	// every tank trips its own cooldown key, so one snapshot overflows retention
	tanks := make([]dto.Tank, 0, maxRetainedAlerts+50)
	for i := 1; i <= maxRetainedAlerts+50; i++ {
		tank := healthyTank(i)
		tank.Temperature = 175
		tanks = append(tanks, tank)
	}

	manager.OnSnapshot(tanks)

	alerts := manager.Alerts()
	require.Len(t, alerts, maxRetainedAlerts)
	assert.Equal(t, maxRetainedAlerts+50, alerts[0].TankId)
	// the oldest retained alert is the one right after the evicted window
	assert.Equal(t, 51, alerts[len(alerts)-1].TankId)
}
