/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package db

import (
	"errors"

	"github.com/edgexfoundry/app-functions-sdk-go/v3/pkg/interfaces"
)

// Redis storage keys
const (
	// Emitted alerts, one record per alert id plus a timestamp-scored index
	Alert = "tt:alert"
)

var (
	ErrNotFound = errors.New("item not found")
)

type DatabaseConfig struct {
	RedisHost     string
	RedisPort     string
	RedisName     string
	RedisUsername string
	RedisPassword string
}

func NewDatabaseConfig() *DatabaseConfig {
	dbConfig := new(DatabaseConfig)
	return dbConfig
}

// Loads the redis db configuration
func (dbConfig *DatabaseConfig) LoadAppConfigurations(service interfaces.ApplicationService) {
	lc := service.LoggingClient()

	redisHost, err := service.GetAppSetting("RedisHost")
	if err != nil {
		lc.Error(err.Error())
	}
	lc.Infof("RedisHost %s\n", redisHost)

	redisPort, err := service.GetAppSetting("RedisPort")
	if err != nil {
		lc.Error(err.Error())
	}
	lc.Infof("RedisPort %s\n", redisPort)

	redisName, err := service.GetAppSetting("RedisName")
	if err != nil {
		lc.Error(err.Error())
	}

	redisSecrets, err := service.SecretProvider().GetSecret("redisdb", "username", "password")
	if err == nil {
		dbConfig.RedisUsername = redisSecrets["username"]
		dbConfig.RedisPassword = redisSecrets["password"]
	} else {
		lc.Error(err.Error())
	}

	dbConfig.RedisHost = redisHost
	dbConfig.RedisPort = redisPort
	dbConfig.RedisName = redisName
}
