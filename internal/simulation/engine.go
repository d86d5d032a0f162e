/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package simulation

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"tanktwin/common/dto"
	twinErrors "tanktwin/common/errors"
	"tanktwin/internal/config"
	"tanktwin/internal/prediction"
	"tanktwin/internal/publisher"
	"tanktwin/internal/telemetry"
)

const (
	minTemperature = 100.0
	maxTemperature = 200.0

	// proportional gain toward the target plus a bounded perturbation
	tempGainFactor = 0.1
	tempNoiseBound = 1.0

	// net consumption: bounded swing with a negative mean
	levelSwing     = 50.0
	levelDriftMean = -5.0

	// per-tick probability of a stochastic boiler failure
	maintenanceProbability = 0.001

	// concurrent oracle queries per tick
	oracleConcurrency = 4
)

// Engine owns the tank fleet and is its only writer. A single timer goroutine
// drives ticks; external commands are serialized against the tick through the
// engine mutex and take effect from the next tick.
type Engine struct {
	lc        logger.LoggingClient
	cfg       *config.AppConfig
	oracle    prediction.Oracle // nil when no oracle is configured
	sink      publisher.Sink
	telemetry *telemetry.Telemetry

	mu       sync.Mutex
	tanks    map[int]*dto.Tank
	order    []int
	running  bool
	interval time.Duration
	ticker   *time.Ticker
	done     chan struct{}
	wg       sync.WaitGroup
	rng      *rand.Rand

	// generation invalidates in-flight oracle queries across stop/start
	generation atomic.Int64
	published  atomic.Value // []dto.Tank
}

func NewEngine(lc logger.LoggingClient, cfg *config.AppConfig, oracle prediction.Oracle,
	sink publisher.Sink, tel *telemetry.Telemetry) *Engine {

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	tanks := make(map[int]*dto.Tank)
	order := make([]int, 0, cfg.FleetSize)
	for _, tank := range NewFleet(cfg.FleetSize, rng) {
		tanks[tank.Id] = tank
		order = append(order, tank.Id)
	}
	sort.Ints(order)

	e := &Engine{
		lc:        lc,
		cfg:       cfg,
		oracle:    oracle,
		sink:      sink,
		telemetry: tel,
		tanks:     tanks,
		order:     order,
		interval:  cfg.TickInterval,
		rng:       rng,
	}
	tel.FleetSize.Update(int64(len(order)))

	e.mu.Lock()
	e.published.Store(e.cloneFleetLocked())
	e.mu.Unlock()
	return e
}

// Start begins the periodic tick loop; calling it while running is a no-op
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return
	}
	e.running = true
	e.done = make(chan struct{})
	e.ticker = time.NewTicker(e.interval)
	e.wg.Add(1)
	go e.loop(e.ticker, e.done)
	e.lc.Infof("simulation started, tick interval %v, fleet size %d", e.interval, len(e.order))
}

// Stop halts the loop and invalidates in-flight oracle queries. No tick fires
// after Stop returns.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	e.ticker.Stop()
	close(e.done)
	e.generation.Add(1)
	e.mu.Unlock()

	e.wg.Wait()
	e.lc.Info("simulation stopped")
}

// SetTickInterval reschedules the loop; the old timer is fully stopped before
// a new one starts so ticks never overlap
func (e *Engine) SetTickInterval(interval time.Duration) twinErrors.TwinError {
	if interval < 100*time.Millisecond {
		return twinErrors.NewCommonTwinError(twinErrors.ErrorTypeValidation,
			fmt.Sprintf("tick interval %v below the 100ms floor", interval))
	}

	wasRunning := e.IsRunning()
	e.Stop()
	e.mu.Lock()
	e.interval = interval
	e.mu.Unlock()
	if wasRunning {
		e.Start()
	}
	return nil
}

func (e *Engine) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

func (e *Engine) TickInterval() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.interval
}

func (e *Engine) loop(ticker *time.Ticker, done chan struct{}) {
	defer e.wg.Done()
	for {
		select {
		case <-done:
			return
		case now := <-ticker.C:
			e.Tick(now)
		}
	}
}

// Tick advances the whole fleet one step and publishes the resulting snapshot.
// Per-tank failures are isolated: one tank's problem never aborts the tick for
// the others.
func (e *Engine) Tick(now time.Time) {
	generation := e.generation.Load()
	predictions := e.prefetchPredictions(generation)

	e.mu.Lock()
	if e.generation.Load() != generation {
		// stopped while oracle queries were in flight, discard their results
		e.mu.Unlock()
		return
	}

	var errs *multierror.Error
	for _, id := range e.order {
		tank := e.tanks[id]
		if err := e.updateTank(tank, predictions[id], now); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	snapshot := e.cloneFleetLocked()
	e.published.Store(snapshot)
	e.mu.Unlock()

	if err := errs.ErrorOrNil(); err != nil {
		e.lc.Warnf("tick completed with tank errors: %v", err)
	}
	e.telemetry.TicksRun.Inc(1)

	if e.sink != nil {
		e.sink.OnSnapshot(snapshot)
	}
	if e.oracle != nil {
		e.oracle.Observe(snapshot)
	}
}

// prefetchPredictions queries the oracle concurrently against tank copies so
// oracle latency is bounded and never holds the fleet lock
func (e *Engine) prefetchPredictions(generation int64) map[int]*dto.ControlPrediction {
	if e.oracle == nil {
		return nil
	}

	e.mu.Lock()
	copies := make([]dto.Tank, 0, len(e.order))
	for _, id := range e.order {
		copies = append(copies, *e.tanks[id].Clone())
	}
	e.mu.Unlock()

	results := make(map[int]*dto.ControlPrediction, len(copies))
	var resultsMu sync.Mutex
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(oracleConcurrency)
	for _, tank := range copies {
		tank := tank
		g.Go(func() error {
			pred, twinErr := e.oracle.Predict(ctx, tank)
			if twinErr != nil {
				// advisory only: count it, log it, rule-based policy takes over
				e.telemetry.OracleFailures.Inc(1)
				e.lc.Debugf("prediction unavailable for tank %d: %s", tank.Id, twinErr.Message())
				return nil
			}
			resultsMu.Lock()
			results[tank.Id] = pred
			resultsMu.Unlock()
			return nil
		})
	}
	g.Wait()

	if e.generation.Load() != generation {
		return nil
	}
	return results
}

func (e *Engine) updateTank(t *dto.Tank, pred *dto.ControlPrediction, now time.Time) error {
	if pred != nil {
		t.Prediction = pred
	} else if t.Prediction == nil {
		t.Prediction = synthesizeFallbackPrediction(t, now.UnixMilli())
	}

	tempError := t.TargetTemperature - t.Temperature
	tempChange := tempError*tempGainFactor + (e.rng.Float64()*2-1)*tempNoiseBound
	tempChange += applyControlPolicy(t, pred)
	t.Temperature = clamp(t.Temperature+tempChange, minTemperature, maxTemperature)

	levelDelta := (e.rng.Float64()*2-1)*levelSwing + levelDriftMean
	t.CurrentLevel = clamp(t.CurrentLevel+levelDelta, 0, t.Capacity)

	if t.BoilerStatus != dto.BoilerMaintenance && e.rng.Float64() < maintenanceProbability {
		t.BoilerStatus = dto.BoilerMaintenance
		e.lc.Warnf("tank %d boiler failed, maintenance required", t.Id)
	}

	refreshSensors(t, now.UnixMilli(), e.rng)
	t.Status = ClassifyStatus(t.Temperature, t.TargetTemperature, t.CurrentLevel, t.Capacity, t.BoilerStatus)
	t.Efficiency = deriveEfficiency(t)
	t.MaintenanceScore = deriveMaintenanceScore(t)
	t.EnergyConsumption = deriveEnergyConsumption(t, tempChange)
	t.LastUpdated = now.UnixMilli()

	if t.Temperature < minTemperature || t.Temperature > maxTemperature ||
		t.CurrentLevel < 0 || t.CurrentLevel > t.Capacity {
		return twinErrors.NewCommonTwinError(twinErrors.ErrorTypeInvariant,
			fmt.Sprintf("tank %d state out of bounds after tick", t.Id))
	}
	return nil
}

// Snapshot returns the last published fleet state; callers must not mutate it
func (e *Engine) Snapshot() []dto.Tank {
	value := e.published.Load()
	if value == nil {
		return nil
	}
	return value.([]dto.Tank)
}

// SetTarget validates the new target against the operating envelope and
// applies it from the next tick
func (e *Engine) SetTarget(tankId int, target float64) twinErrors.TwinError {
	e.mu.Lock()
	defer e.mu.Unlock()

	tank, ok := e.tanks[tankId]
	if !ok {
		return twinErrors.NewCommonTwinError(twinErrors.ErrorTypeNotFound,
			fmt.Sprintf("tank %d not found", tankId))
	}
	if target < e.cfg.MinTargetTemperature || target > e.cfg.MaxTargetTemperature {
		return twinErrors.NewCommonTwinError(twinErrors.ErrorTypeValidation,
			fmt.Sprintf("target %v outside operating envelope [%v, %v]",
				target, e.cfg.MinTargetTemperature, e.cfg.MaxTargetTemperature))
	}
	tank.TargetTemperature = target
	e.lc.Infof("tank %d target temperature set to %v", tankId, target)
	return nil
}

// ResetMaintenance clears a sticky maintenance state back to inactive
func (e *Engine) ResetMaintenance(tankId int) twinErrors.TwinError {
	e.mu.Lock()
	defer e.mu.Unlock()

	tank, ok := e.tanks[tankId]
	if !ok {
		return twinErrors.NewCommonTwinError(twinErrors.ErrorTypeNotFound,
			fmt.Sprintf("tank %d not found", tankId))
	}
	if tank.BoilerStatus == dto.BoilerMaintenance {
		tank.BoilerStatus = dto.BoilerInactive
		e.lc.Infof("tank %d maintenance cleared", tankId)
	}
	return nil
}

func (e *Engine) cloneFleetLocked() []dto.Tank {
	snapshot := make([]dto.Tank, 0, len(e.order))
	for _, id := range e.order {
		snapshot = append(snapshot, *e.tanks[id].Clone())
	}
	return snapshot
}
