/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package config

import (
	"time"

	"github.com/edgexfoundry/app-functions-sdk-go/v3/pkg/interfaces"
	"github.com/spf13/cast"
)

const (
	DefaultTickIntervalMS   = 2000
	DefaultMinTargetTemp    = 120.0
	DefaultMaxTargetTemp    = 180.0
	DefaultAlertCooldownSec = 40
	DefaultOracleTimeoutMS  = 500
	DefaultFleetSize        = 6
)

type AppConfig struct {
	TickInterval         time.Duration
	MinTargetTemperature float64
	MaxTargetTemperature float64
	AlertCooldown        time.Duration
	OracleURL            string
	OracleTimeout        time.Duration
	FleetSize            int
	RandomSeed           int64
	MqttURL              string
	MqttTopicPrefix      string
	PersistAlerts        bool
}

func NewAppConfig() *AppConfig {
	appConfig := new(AppConfig)
	return appConfig
}

func (appConfig *AppConfig) LoadAppConfigurations(service interfaces.ApplicationService) {
	lc := service.LoggingClient()

	appConfig.TickInterval = time.Duration(intSetting(service, "TickIntervalMS", DefaultTickIntervalMS)) * time.Millisecond
	appConfig.MinTargetTemperature = floatSetting(service, "MinTargetTemperature", DefaultMinTargetTemp)
	appConfig.MaxTargetTemperature = floatSetting(service, "MaxTargetTemperature", DefaultMaxTargetTemp)
	appConfig.AlertCooldown = time.Duration(intSetting(service, "AlertCooldownSecs", DefaultAlertCooldownSec)) * time.Second
	appConfig.OracleTimeout = time.Duration(intSetting(service, "OracleTimeoutMS", DefaultOracleTimeoutMS)) * time.Millisecond
	appConfig.FleetSize = intSetting(service, "FleetSize", DefaultFleetSize)
	appConfig.RandomSeed = int64(intSetting(service, "RandomSeed", 0))

	oracleURL, err := service.GetAppSetting("OracleURL")
	if err != nil {
		lc.Errorf("Error reading OracleURL, control falls back to rule-based policy only: %v", err)
	}
	appConfig.OracleURL = oracleURL

	mqttURL, err := service.GetAppSetting("MqttURL")
	if err != nil {
		lc.Infof("MqttURL not configured, MQTT publication disabled")
	}
	appConfig.MqttURL = mqttURL

	mqttTopicPrefix, err := service.GetAppSetting("MqttTopicPrefix")
	if err != nil || mqttTopicPrefix == "" {
		mqttTopicPrefix = "tanktwin"
	}
	appConfig.MqttTopicPrefix = mqttTopicPrefix

	persistAlerts, err := service.GetAppSetting("PersistAlerts")
	if err == nil {
		appConfig.PersistAlerts = cast.ToBool(persistAlerts)
	}

	lc.Infof("TickInterval: %v, TargetEnvelope: [%v, %v], AlertCooldown: %v, FleetSize: %d",
		appConfig.TickInterval, appConfig.MinTargetTemperature, appConfig.MaxTargetTemperature,
		appConfig.AlertCooldown, appConfig.FleetSize)
}

func intSetting(service interfaces.ApplicationService, name string, defaultValue int) int {
	valueStr, err := service.GetAppSetting(name)
	if err != nil {
		service.LoggingClient().Errorf("Error reading %s, using default %d: %v", name, defaultValue, err)
		return defaultValue
	}
	value, err := cast.ToIntE(valueStr)
	if err != nil {
		service.LoggingClient().Errorf("Invalid %s value %s, using default %d", name, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func floatSetting(service interfaces.ApplicationService, name string, defaultValue float64) float64 {
	valueStr, err := service.GetAppSetting(name)
	if err != nil {
		service.LoggingClient().Errorf("Error reading %s, using default %v: %v", name, defaultValue, err)
		return defaultValue
	}
	value, err := cast.ToFloat64E(valueStr)
	if err != nil {
		service.LoggingClient().Errorf("Invalid %s value %s, using default %v", name, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
