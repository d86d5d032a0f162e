/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package alarm

import (
	"encoding/json"
	"fmt"

	"github.com/gomodule/redigo/redis"

	"tanktwin/common/db"
	redisdb "tanktwin/common/db/redis"
	"tanktwin/common/dto"
	twinErrors "tanktwin/common/errors"
)

// AlertStore persists emitted alerts in Redis so they survive a service
// restart. Alerts are kept under their id with a timestamp-scored sorted set
// for range reads.
type AlertStore struct {
	client *redisdb.DBClient
}

func NewAlertStore(client *redisdb.DBClient) *AlertStore {
	return &AlertStore{client: client}
}

func (s *AlertStore) SaveAlert(alert dto.Alert) twinErrors.TwinError {
	conn := s.client.Pool.Get()
	defer conn.Close()

	id := db.Alert + ":" + alert.Id
	m, err := json.Marshal(alert)
	if err != nil {
		return twinErrors.NewCommonTwinError(twinErrors.ErrorTypeServerError,
			fmt.Sprintf("Error marshaling alert %s", alert.Id))
	}

	_ = conn.Send("MULTI")
	_ = conn.Send("SET", id, m)
	_ = conn.Send("ZADD", db.Alert, alert.Timestamp, id)
	_, err = conn.Do("EXEC")
	if err != nil {
		s.client.Logger.Errorf("Error saving alert in database: %v", err)
		return twinErrors.NewCommonTwinError(twinErrors.ErrorTypeDBError,
			fmt.Sprintf("Error saving alert %s", alert.Id))
	}
	return nil
}

// UpdateAlert rewrites the stored payload, used when an alert is acknowledged
func (s *AlertStore) UpdateAlert(alert dto.Alert) twinErrors.TwinError {
	conn := s.client.Pool.Get()
	defer conn.Close()

	id := db.Alert + ":" + alert.Id
	m, err := json.Marshal(alert)
	if err != nil {
		return twinErrors.NewCommonTwinError(twinErrors.ErrorTypeServerError,
			fmt.Sprintf("Error marshaling alert %s", alert.Id))
	}

	if _, err = conn.Do("SET", id, m); err != nil {
		s.client.Logger.Errorf("Error updating alert in database: %v", err)
		return twinErrors.NewCommonTwinError(twinErrors.ErrorTypeDBError,
			fmt.Sprintf("Error updating alert %s", alert.Id))
	}
	return nil
}

// GetAlerts returns up to limit persisted alerts, newest first
func (s *AlertStore) GetAlerts(limit int) ([]dto.Alert, twinErrors.TwinError) {
	conn := s.client.Pool.Get()
	defer conn.Close()

	end := -1
	if limit > 0 {
		end = limit - 1
	}
	ids, err := redis.Values(conn.Do("ZREVRANGE", db.Alert, 0, end))
	if err != nil && err != redis.ErrNil {
		s.client.Logger.Errorf("Error reading alert index from database: %v", err)
		return nil, twinErrors.NewCommonTwinError(twinErrors.ErrorTypeDBError, "Error reading alerts")
	}
	if len(ids) == 0 {
		return []dto.Alert{}, nil
	}

	objects, err := redis.ByteSlices(conn.Do("MGET", ids...))
	if err != nil {
		s.client.Logger.Errorf("Error reading alerts from database: %v", err)
		return nil, twinErrors.NewCommonTwinError(twinErrors.ErrorTypeDBError, "Error reading alerts")
	}

	alerts := make([]dto.Alert, 0, len(objects))
	for _, object := range objects {
		if object == nil {
			continue
		}
		var alert dto.Alert
		if err := json.Unmarshal(object, &alert); err != nil {
			s.client.Logger.Warnf("Skipping unreadable alert record: %v", err)
			continue
		}
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

// DeleteAlertsBefore trims alert history older than the given timestamp
func (s *AlertStore) DeleteAlertsBefore(timestamp int64) twinErrors.TwinError {
	conn := s.client.Pool.Get()
	defer conn.Close()

	ids, err := redis.Values(conn.Do("ZRANGEBYSCORE", db.Alert, "-inf", timestamp))
	if err != nil && err != redis.ErrNil {
		return twinErrors.NewCommonTwinError(twinErrors.ErrorTypeDBError, "Error trimming alerts")
	}
	if len(ids) == 0 {
		return nil
	}

	_ = conn.Send("MULTI")
	for _, id := range ids {
		_ = conn.Send("DEL", id)
		_ = conn.Send("ZREM", db.Alert, id)
	}
	if _, err = conn.Do("EXEC"); err != nil {
		s.client.Logger.Errorf("Error trimming alerts in database: %v", err)
		return twinErrors.NewCommonTwinError(twinErrors.ErrorTypeDBError, "Error trimming alerts")
	}
	return nil
}
