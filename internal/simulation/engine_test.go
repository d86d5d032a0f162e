/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package simulation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tanktwin/common/dto"
	twinErrors "tanktwin/common/errors"
	"tanktwin/internal/config"
	"tanktwin/internal/prediction"
	"tanktwin/internal/publisher"
	"tanktwin/internal/telemetry"
)

type captureSink struct {
	mu        sync.Mutex
	snapshots [][]dto.Tank
}

func (s *captureSink) OnSnapshot(tanks []dto.Tank) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, tanks)
}

func (s *captureSink) OnAlert(_ dto.Alert) {}

func (s *captureSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snapshots)
}

type stubOracle struct {
	prediction *dto.ControlPrediction
	err        twinErrors.TwinError
}

func (o *stubOracle) Predict(_ context.Context, _ dto.Tank) (*dto.ControlPrediction, twinErrors.TwinError) {
	return o.prediction, o.err
}
func (o *stubOracle) Observe(_ []dto.Tank) {}
func (o *stubOracle) Status() ([]dto.ModelStatus, twinErrors.TwinError) {
	return nil, nil
}
func (o *stubOracle) Retrain(_ string) (bool, twinErrors.TwinError) {
	return false, nil
}

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		TickInterval:         10 * time.Millisecond,
		MinTargetTemperature: 120,
		MaxTargetTemperature: 180,
		FleetSize:            4,
		RandomSeed:           42,
	}
}

func newTestEngine(t *testing.T, oracle prediction.Oracle, sink publisher.Sink) *Engine {
	t.Helper()
	return NewEngine(new(logger.MockLogger), testConfig(), oracle, sink, telemetry.NewTelemetry())
}

func TestNewEngine_SeedsFleet(t *testing.T) {
	engine := newTestEngine(t, nil, nil)

	snapshot := engine.Snapshot()
	require.Len(t, snapshot, 4)
	for _, tank := range snapshot {
		assert.GreaterOrEqual(t, tank.Temperature, 120.0)
		assert.LessOrEqual(t, tank.Temperature, 180.0)
		assert.GreaterOrEqual(t, tank.CurrentLevel, 0.0)
		assert.LessOrEqual(t, tank.CurrentLevel, tank.Capacity)
		assert.Equal(t, dto.BoilerInactive, tank.BoilerStatus)
	}
}

func TestTick_StaysInBounds(t *testing.T) {
	engine := newTestEngine(t, nil, nil)

	now := time.Now()
	for i := 0; i < 500; i++ {
		now = now.Add(2 * time.Second)
		engine.Tick(now)
	}

	for _, tank := range engine.Snapshot() {
		assert.GreaterOrEqual(t, tank.Temperature, minTemperature)
		assert.LessOrEqual(t, tank.Temperature, maxTemperature)
		assert.GreaterOrEqual(t, tank.CurrentLevel, 0.0)
		assert.LessOrEqual(t, tank.CurrentLevel, tank.Capacity)
		assert.Equal(t, now.UnixMilli(), tank.LastUpdated)
		assert.NotEmpty(t, tank.Status)
	}
}

func TestTick_PublishesToSink(t *testing.T) {
	sink := &captureSink{}
	engine := newTestEngine(t, nil, sink)

	engine.Tick(time.Now())
	engine.Tick(time.Now())

	assert.Equal(t, 2, sink.count())
}

func TestTick_SnapshotImmutable(t *testing.T) {
	engine := newTestEngine(t, nil, nil)
	engine.Tick(time.Now())

	before := engine.Snapshot()
	originalTarget := before[0].TargetTemperature

	require.Nil(t, engine.SetTarget(before[0].Id, 165))
	engine.Tick(time.Now())

	// the earlier snapshot keeps its values, only the new one sees the change
	assert.Equal(t, originalTarget, before[0].TargetTemperature)
	after := engine.Snapshot()
	assert.Equal(t, 165.0, after[0].TargetTemperature)
}

func TestTick_AttachesPrediction(t *testing.T) {
	oracle := &stubOracle{prediction: &dto.ControlPrediction{
		NextAction: dto.ActionNoAction,
		Confidence: 0.4,
	}}
	engine := newTestEngine(t, oracle, nil)

	engine.Tick(time.Now())

	for _, tank := range engine.Snapshot() {
		require.NotNil(t, tank.Prediction)
		assert.Equal(t, dto.ActionNoAction, tank.Prediction.NextAction)
	}
}

func TestTick_OracleFailureKeepsTicking(t *testing.T) {
	oracle := &stubOracle{err: twinErrors.NewCommonTwinError(twinErrors.ErrorTypeOracleUnavailable, "down")}
	engine := newTestEngine(t, oracle, nil)

	engine.Tick(time.Now())

	// the tick completes and every tank carries a synthesized fallback
	snapshot := engine.Snapshot()
	require.Len(t, snapshot, 4)
	for _, tank := range snapshot {
		require.NotNil(t, tank.Prediction)
		assert.Equal(t, fallbackConfidence, tank.Prediction.Confidence)
		assert.NotEmpty(t, tank.Prediction.PredictedTemperatures)
	}
}

func TestSetTarget(t *testing.T) {
	engine := newTestEngine(t, nil, nil)

	err := engine.SetTarget(999, 150)
	require.NotNil(t, err)
	assert.True(t, err.IsErrorType(twinErrors.ErrorTypeNotFound))

	err = engine.SetTarget(1, 119)
	require.NotNil(t, err)
	assert.True(t, err.IsErrorType(twinErrors.ErrorTypeValidation))

	err = engine.SetTarget(1, 181)
	require.NotNil(t, err)
	assert.True(t, err.IsErrorType(twinErrors.ErrorTypeValidation))

	assert.Nil(t, engine.SetTarget(1, 120))
	assert.Nil(t, engine.SetTarget(1, 180))
}

func TestResetMaintenance(t *testing.T) {
	engine := newTestEngine(t, nil, nil)

	err := engine.ResetMaintenance(999)
	require.NotNil(t, err)
	assert.True(t, err.IsErrorType(twinErrors.ErrorTypeNotFound))

	// not under maintenance, reset is a no-op
	require.Nil(t, engine.ResetMaintenance(1))

	engine.mu.Lock()
	engine.tanks[1].BoilerStatus = dto.BoilerMaintenance
	engine.mu.Unlock()

	require.Nil(t, engine.ResetMaintenance(1))
	engine.Tick(time.Now())

	// a reset tank may be switched back on by the rule but never stays in maintenance
	assert.NotEqual(t, dto.BoilerMaintenance, engine.Snapshot()[0].BoilerStatus)
}

func TestStartStop(t *testing.T) {
	sink := &captureSink{}
	engine := newTestEngine(t, nil, sink)

	assert.False(t, engine.IsRunning())
	engine.Start()
	assert.True(t, engine.IsRunning())

	// starting twice is a no-op
	engine.Start()
	assert.True(t, engine.IsRunning())

	assert.Eventually(t, func() bool { return sink.count() > 0 }, time.Second, 5*time.Millisecond)

	engine.Stop()
	assert.False(t, engine.IsRunning())

	// no tick fires after Stop returns
	countAfterStop := sink.count()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, countAfterStop, sink.count())

	// stopping twice is a no-op
	engine.Stop()
}

func TestSetTickInterval(t *testing.T) {
	engine := newTestEngine(t, nil, nil)

	err := engine.SetTickInterval(50 * time.Millisecond)
	require.NotNil(t, err)
	assert.True(t, err.IsErrorType(twinErrors.ErrorTypeValidation))

	require.Nil(t, engine.SetTickInterval(250*time.Millisecond))
	assert.Equal(t, 250*time.Millisecond, engine.TickInterval())
	assert.False(t, engine.IsRunning())

	// a running engine keeps running on the new cadence
	engine.Start()
	require.Nil(t, engine.SetTickInterval(500*time.Millisecond))
	assert.True(t, engine.IsRunning())
	engine.Stop()
}
