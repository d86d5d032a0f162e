/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package main

import (
	"fmt"
	"os"

	"github.com/edgexfoundry/app-functions-sdk-go/v3/pkg"

	"tanktwin/common/client"
	"tanktwin/common/db"
	redisdb "tanktwin/common/db/redis"
	"tanktwin/internal/alarm"
	"tanktwin/internal/config"
	"tanktwin/internal/monitor"
	"tanktwin/internal/prediction"
	"tanktwin/internal/publisher"
	"tanktwin/internal/router"
	"tanktwin/internal/simulation"
	"tanktwin/internal/telemetry"
)

func main() {

	service, ok := pkg.NewAppService(client.TankTwinServiceKey)
	if !ok {
		fmt.Printf("Failed to start App Service: %s\n", client.TankTwinServiceKey)
		os.Exit(-1)
	}
	lc := service.LoggingClient()

	appConfig := config.NewAppConfig()
	appConfig.LoadAppConfigurations(service)

	tel := telemetry.NewTelemetry()
	broadcaster := publisher.NewBroadcaster(lc, tel.SnapshotsDropped)

	var oracle prediction.Oracle
	if appConfig.OracleURL != "" {
		oracle = prediction.NewHTTPOracle(lc, client.Client, appConfig.OracleURL, appConfig.OracleTimeout)
	} else {
		lc.Warn("No OracleURL configured, running on rule-based control only")
	}

	var alertStore *alarm.AlertStore
	if appConfig.PersistAlerts {
		dbConfig := db.NewDatabaseConfig()
		dbConfig.LoadAppConfigurations(service)
		dbClient := redisdb.CreateDBClient(dbConfig)
		if dbClient != nil {
			dbClient.Logger = lc
			alertStore = alarm.NewAlertStore(dbClient)
		} else {
			lc.Error("Could not connect to redis, alerts will not be persisted")
		}
	}

	alarms := alarm.NewManager(lc, appConfig.AlertCooldown, alertStore, broadcaster, tel)
	tankMonitor := monitor.NewTankMonitor(lc, alarms)
	hub := publisher.NewHub(lc)

	broadcaster.Subscribe(alarms)
	broadcaster.Subscribe(tankMonitor)
	broadcaster.Subscribe(hub)

	if appConfig.MqttURL != "" {
		mqttSink, err := publisher.NewMQTTSink(lc, appConfig.MqttURL, client.TankTwinServiceName, appConfig.MqttTopicPrefix)
		if err != nil {
			lc.Errorf("MQTT publication disabled: %v", err)
		} else {
			broadcaster.Subscribe(mqttSink)
			defer mqttSink.Close()
		}
	}

	engine := simulation.NewEngine(lc, appConfig, oracle, broadcaster, tel)

	r := router.NewRouter(service, engine, alarms, tankMonitor, oracle, hub, tel)
	r.LoadRestRoutes()

	engine.Start()

	err := service.Run()
	if err != nil {
		lc.Errorf("Run returned error: %v", err)
		os.Exit(-1)
	}

	engine.Stop()
	broadcaster.Close()

	os.Exit(0)
}
