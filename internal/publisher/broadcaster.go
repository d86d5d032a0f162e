/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package publisher

import (
	"sync"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	gometrics "github.com/rcrowley/go-metrics"

	"tanktwin/common/dto"
)

const (
	snapshotBuffer = 8
	alertBuffer    = 64
)

// Sink receives the per-tick fleet snapshot and every emitted alert.
// Implementations must not mutate what they receive.
type Sink interface {
	OnSnapshot(tanks []dto.Tank)
	OnAlert(alert dto.Alert)
}

// Broadcaster decouples the simulation engine from its consumers: the engine
// hands off through buffered channels and a single fan-out goroutine delivers
// to subscribers, so a slow subscriber can never stall a tick.
type Broadcaster struct {
	lc          logger.LoggingClient
	mu          sync.RWMutex
	subscribers []Sink
	snapshotCh  chan []dto.Tank
	alertCh     chan dto.Alert
	done        chan struct{}
	wg          sync.WaitGroup
	dropped     gometrics.Counter
}

func NewBroadcaster(lc logger.LoggingClient, dropped gometrics.Counter) *Broadcaster {
	b := &Broadcaster{
		lc:         lc,
		snapshotCh: make(chan []dto.Tank, snapshotBuffer),
		alertCh:    make(chan dto.Alert, alertBuffer),
		done:       make(chan struct{}),
		dropped:    dropped,
	}
	if b.dropped == nil {
		b.dropped = gometrics.NilCounter{}
	}
	b.wg.Add(1)
	go b.run()
	return b
}

func (b *Broadcaster) Subscribe(sink Sink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, sink)
}

// OnSnapshot never blocks; when the buffer is full the snapshot is dropped
// and counted, the next tick will supersede it anyway
func (b *Broadcaster) OnSnapshot(tanks []dto.Tank) {
	select {
	case b.snapshotCh <- tanks:
	default:
		b.dropped.Inc(1)
		b.lc.Warn("snapshot buffer full, dropping snapshot")
	}
}

func (b *Broadcaster) OnAlert(alert dto.Alert) {
	select {
	case b.alertCh <- alert:
	default:
		b.dropped.Inc(1)
		b.lc.Warnf("alert buffer full, dropping alert %s", alert.Id)
	}
}

func (b *Broadcaster) run() {
	defer b.wg.Done()
	for {
		select {
		case <-b.done:
			return
		case tanks := <-b.snapshotCh:
			for _, sink := range b.sinks() {
				sink.OnSnapshot(tanks)
			}
		case alert := <-b.alertCh:
			for _, sink := range b.sinks() {
				sink.OnAlert(alert)
			}
		}
	}
}

func (b *Broadcaster) sinks() []Sink {
	b.mu.RLock()
	defer b.mu.RUnlock()
	sinks := make([]Sink, len(b.subscribers))
	copy(sinks, b.subscribers)
	return sinks
}

func (b *Broadcaster) Close() {
	close(b.done)
	b.wg.Wait()
}
