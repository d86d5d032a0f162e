/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package client

// Constants related to how the service identifies itself in the Service Registry
const (
	TankTwinServiceName = "tank-twin"

	// Service key should start with app- for appservices
	TankTwinServiceKey = "app-tank-twin"
)

// Telemetry metric names
const (
	MetricTicksRun         = "tt_ticks_run"
	MetricAlertsEmitted    = "tt_alerts_emitted"
	MetricAlertsSuppressed = "tt_alerts_suppressed"
	MetricOracleFailures   = "tt_oracle_failures"
	MetricSnapshotsDropped = "tt_snapshots_dropped"
	MetricFleetSize        = "tt_fleet_size"
)

// Labels used on published events and telemetry samples
const (
	LabelTankId    = "tank_id"
	LabelTankName  = "tank"
	LabelAlertType = "type"
	LabelSeverity  = "severity"
	LabelNodeName  = "host"
)
