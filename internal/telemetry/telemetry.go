/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package telemetry

import (
	gometrics "github.com/rcrowley/go-metrics"

	"tanktwin/common/client"
)

// Telemetry holds the service counters; they are exposed over the REST
// surface and can be wired into a periodic reporter
type Telemetry struct {
	registry         gometrics.Registry
	TicksRun         gometrics.Counter
	AlertsEmitted    gometrics.Counter
	AlertsSuppressed gometrics.Counter
	OracleFailures   gometrics.Counter
	SnapshotsDropped gometrics.Counter
	FleetSize        gometrics.Gauge
}

func NewTelemetry() *Telemetry {
	t := &Telemetry{
		registry:         gometrics.NewRegistry(),
		TicksRun:         gometrics.NewCounter(),
		AlertsEmitted:    gometrics.NewCounter(),
		AlertsSuppressed: gometrics.NewCounter(),
		OracleFailures:   gometrics.NewCounter(),
		SnapshotsDropped: gometrics.NewCounter(),
		FleetSize:        gometrics.NewGauge(),
	}
	t.registry.Register(client.MetricTicksRun, t.TicksRun)
	t.registry.Register(client.MetricAlertsEmitted, t.AlertsEmitted)
	t.registry.Register(client.MetricAlertsSuppressed, t.AlertsSuppressed)
	t.registry.Register(client.MetricOracleFailures, t.OracleFailures)
	t.registry.Register(client.MetricSnapshotsDropped, t.SnapshotsDropped)
	t.registry.Register(client.MetricFleetSize, t.FleetSize)
	return t
}

func (t *Telemetry) Registry() gometrics.Registry {
	return t.registry
}

// Snapshot returns the current counter values for the telemetry endpoint
func (t *Telemetry) Snapshot() map[string]int64 {
	values := make(map[string]int64)
	t.registry.Each(func(name string, item interface{}) {
		switch metric := item.(type) {
		case gometrics.Counter:
			values[name] = metric.Count()
		case gometrics.Gauge:
			values[name] = metric.Value()
		}
	})
	return values
}
