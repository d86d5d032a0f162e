/*******************************************************************************
 * Copyright 2018 Redis Labs Inc.
 * (c) Copyright 2020-2025 BMC Software, Inc.
 *
 * Contributors: BMC Software, Inc. - BMC Helix Edge
 *
 * Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License. You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software distributed under the License
 * is distributed on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express
 * or implied. See the License for the specific language governing permissions and limitations under
 * the License.
 *******************************************************************************/

package redis

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/gomodule/redigo/redis"

	"tanktwin/common/db"
)

var currClient *DBClient // a singleton so consumers share one pool
var once sync.Once

// DBClient represents a Redis client
type DBClient struct {
	Pool   *redis.Pool // A thread-safe pool of connections to Redis
	Logger logger.LoggingClient
}

func CreateDBClient(dbConfig *db.DatabaseConfig) *DBClient {
	dbClient, err := newDBClient(dbConfig)
	if err != nil {
		fmt.Printf("Couldn't create database client: %v\n", err.Error())
		return nil
	}
	return dbClient
}

// Return a pointer to the Redis client
func newDBClient(dbConfig *db.DatabaseConfig) (*DBClient, error) {
	once.Do(func() {
		connectionString := fmt.Sprintf("%s:%s", dbConfig.RedisHost, dbConfig.RedisPort)
		opts := []redis.DialOption{
			redis.DialConnectTimeout(time.Duration(9000) * time.Millisecond),
		}
		if os.Getenv("EDGEX_SECURITY_SECRET_STORE") != "false" {
			opts = append(opts, redis.DialPassword(dbConfig.RedisPassword))
		}

		dialFunc := func() (redis.Conn, error) {
			conn, err := redis.Dial(
				"tcp", connectionString, opts...,
			)
			if err != nil {
				return nil, fmt.Errorf("could not dial Redis: %s", err)
			}
			return conn, nil
		}

		pool := &redis.Pool{
			IdleTimeout: 0,
			MaxIdle:     10,
			Dial:        dialFunc,
		}

		currClient = &DBClient{
			Pool: pool,
		}
	})

	// Test connectivity now so don't have failures later when doing lazy connect.
	if _, err := currClient.Pool.Dial(); err != nil {
		return nil, err
	}

	return currClient, nil
}

func (c *DBClient) CloseSession() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}
