/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package dto

type AlertType string

const (
	AlertTypeTemperature AlertType = "temperature"
	AlertTypeLevel       AlertType = "level"
	AlertTypeBoiler      AlertType = "boiler"
)

type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "low"
	SeverityMedium   AlertSeverity = "medium"
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

// Alert is immutable once emitted except for the acknowledgment fields,
// which are set exactly once by an external acknowledge call.
type Alert struct {
	Id             string        `json:"id"                        codec:"id"`
	CorrelationId  string        `json:"correlation_id,omitempty"  codec:"correlation_id,omitempty"`
	TankId         int           `json:"tank_id"                   codec:"tank_id"`
	TankName       string        `json:"tank_name,omitempty"       codec:"tank_name,omitempty"`
	Type           AlertType     `json:"type"                      codec:"type"`
	Severity       AlertSeverity `json:"severity"                  codec:"severity"`
	Message        string        `json:"message"                   codec:"message"`
	Timestamp      int64         `json:"timestamp"                 codec:"timestamp"`
	Acknowledged   bool          `json:"acknowledged"              codec:"acknowledged"`
	AcknowledgedBy string        `json:"acknowledged_by,omitempty"  codec:"acknowledged_by,omitempty"`
}
