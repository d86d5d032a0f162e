/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package alarm

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v3"
	gocache "github.com/patrickmn/go-cache"

	"tanktwin/common/dto"
	twinErrors "tanktwin/common/errors"
	"tanktwin/internal/telemetry"
)

// Alerting thresholds, deliberately wider than the status classification so
// an alert means the condition has persisted past a warning
const (
	alertTempDiffCritical = 20.0
	alertTempDiffHigh     = 10.0
	alertLevelCriticalPct = 5.0
	alertLevelLowPct      = 15.0
	alertLevelHighPct     = 95.0

	// in-memory alert history kept for the REST surface
	maxRetainedAlerts = 200
)

// Emitter receives every alert the manager raises. The broadcaster satisfies
// this so downstream sinks get alerts without the manager knowing them.
type Emitter interface {
	OnAlert(alert dto.Alert)
}

// Manager evaluates each published snapshot against the alerting rules and
// rate-limits emission per (tank, alert type) through a cooldown cache. It
// subscribes to the broadcaster like any other sink, so alerts always trail
// the snapshot they were derived from.
type Manager struct {
	lc        logger.LoggingClient
	cooldown  *gocache.Cache
	ttl       time.Duration
	store     *AlertStore // nil when persistence is disabled
	emitter   Emitter
	telemetry *telemetry.Telemetry

	mu     sync.RWMutex
	alerts map[string]*dto.Alert
	order  []string
}

func NewManager(lc logger.LoggingClient, cooldownTTL time.Duration, store *AlertStore,
	emitter Emitter, tel *telemetry.Telemetry) *Manager {

	return &Manager{
		lc:        lc,
		cooldown:  gocache.New(cooldownTTL, cooldownTTL*2),
		ttl:       cooldownTTL,
		store:     store,
		emitter:   emitter,
		telemetry: tel,
		alerts:    make(map[string]*dto.Alert),
	}
}

// OnSnapshot evaluates every tank in the published snapshot
func (m *Manager) OnSnapshot(tanks []dto.Tank) {
	for i := range tanks {
		for _, candidate := range evaluateTank(&tanks[i]) {
			m.emit(candidate)
		}
	}
}

// OnAlert is a no-op: the manager is the producer on this bus
func (m *Manager) OnAlert(_ dto.Alert) {}

// evaluateTank returns the alert candidates a tank's current state justifies,
// at most one per alert type
func evaluateTank(t *dto.Tank) []dto.Alert {
	var candidates []dto.Alert
	now := time.Now().UnixMilli()

	tempDiff := math.Abs(t.Temperature - t.TargetTemperature)
	switch {
	case tempDiff > alertTempDiffCritical:
		candidates = append(candidates, dto.Alert{
			TankId: t.Id, TankName: t.Name, Type: dto.AlertTypeTemperature,
			Severity:  dto.SeverityCritical,
			Message:   fmt.Sprintf("Temperature %.1f deviates %.1f from target %.1f", t.Temperature, tempDiff, t.TargetTemperature),
			Timestamp: now,
		})
	case tempDiff > alertTempDiffHigh:
		candidates = append(candidates, dto.Alert{
			TankId: t.Id, TankName: t.Name, Type: dto.AlertTypeTemperature,
			Severity:  dto.SeverityHigh,
			Message:   fmt.Sprintf("Temperature %.1f deviates %.1f from target %.1f", t.Temperature, tempDiff, t.TargetTemperature),
			Timestamp: now,
		})
	}

	levelPct := t.LevelPercent()
	switch {
	case levelPct < alertLevelCriticalPct:
		candidates = append(candidates, dto.Alert{
			TankId: t.Id, TankName: t.Name, Type: dto.AlertTypeLevel,
			Severity:  dto.SeverityCritical,
			Message:   fmt.Sprintf("Level critically low at %.1f%%", levelPct),
			Timestamp: now,
		})
	case levelPct < alertLevelLowPct:
		candidates = append(candidates, dto.Alert{
			TankId: t.Id, TankName: t.Name, Type: dto.AlertTypeLevel,
			Severity:  dto.SeverityMedium,
			Message:   fmt.Sprintf("Level low at %.1f%%", levelPct),
			Timestamp: now,
		})
	case levelPct > alertLevelHighPct:
		candidates = append(candidates, dto.Alert{
			TankId: t.Id, TankName: t.Name, Type: dto.AlertTypeLevel,
			Severity:  dto.SeverityHigh,
			Message:   fmt.Sprintf("Level near capacity at %.1f%%", levelPct),
			Timestamp: now,
		})
	}

	if t.BoilerStatus == dto.BoilerMaintenance {
		candidates = append(candidates, dto.Alert{
			TankId: t.Id, TankName: t.Name, Type: dto.AlertTypeBoiler,
			Severity:  dto.SeverityHigh,
			Message:   "Boiler in maintenance, heating unavailable",
			Timestamp: now,
		})
	}
	return candidates
}

// emit applies the per (tank, type) cooldown and publishes the alert when it
// passes. Suppressed alerts are counted, not logged, they are the common case.
func (m *Manager) emit(candidate dto.Alert) {
	key := fmt.Sprintf("%d|%s", candidate.TankId, candidate.Type)
	if _, suppressed := m.cooldown.Get(key); suppressed {
		m.telemetry.AlertsSuppressed.Inc(1)
		return
	}
	m.cooldown.Set(key, struct{}{}, m.ttl)

	candidate.Id = uuid.New().String()
	candidate.CorrelationId = shortuuid.New()

	m.mu.Lock()
	m.alerts[candidate.Id] = &candidate
	m.order = append(m.order, candidate.Id)
	if len(m.order) > maxRetainedAlerts {
		evicted := m.order[0]
		m.order = m.order[1:]
		delete(m.alerts, evicted)
	}
	m.mu.Unlock()

	m.telemetry.AlertsEmitted.Inc(1)
	m.lc.Warnf("alert %s: tank %d %s %s: %s",
		candidate.Id, candidate.TankId, candidate.Type, candidate.Severity, candidate.Message)

	if m.store != nil {
		if err := m.store.SaveAlert(candidate); err != nil {
			m.lc.Errorf("failed to persist alert %s: %s", candidate.Id, err.Message())
		}
	}
	if m.emitter != nil {
		m.emitter.OnAlert(candidate)
	}
}

// Acknowledge marks an alert acknowledged exactly once; repeating the call is
// a no-op and keeps the original acknowledger
func (m *Manager) Acknowledge(alertId string, by string) twinErrors.TwinError {
	m.mu.Lock()
	defer m.mu.Unlock()

	alert, ok := m.alerts[alertId]
	if !ok {
		return twinErrors.NewCommonTwinError(twinErrors.ErrorTypeNotFound,
			fmt.Sprintf("alert %s not found", alertId))
	}
	if alert.Acknowledged {
		return nil
	}
	alert.Acknowledged = true
	alert.AcknowledgedBy = by
	m.lc.Infof("alert %s acknowledged by %s", alertId, by)

	if m.store != nil {
		if err := m.store.UpdateAlert(*alert); err != nil {
			m.lc.Errorf("failed to persist acknowledgment for alert %s: %s", alertId, err.Message())
		}
	}
	return nil
}

// Alerts returns the retained history, newest first
func (m *Manager) Alerts() []dto.Alert {
	m.mu.RLock()
	defer m.mu.RUnlock()

	alerts := make([]dto.Alert, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		alerts = append(alerts, *m.alerts[m.order[i]])
	}
	return alerts
}

// ActiveCount is the number of retained alerts not yet acknowledged
func (m *Manager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, alert := range m.alerts {
		if !alert.Acknowledged {
			count++
		}
	}
	return count
}
