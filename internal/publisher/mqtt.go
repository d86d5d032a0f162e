/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package publisher

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/pkg/errors"

	"tanktwin/common/dto"
)

const connectTimeout = 10 * time.Second

// MQTTSink publishes snapshots and alerts to an external broker for
// dashboards and downstream consumers outside this node
type MQTTSink struct {
	client      mqtt.Client
	topicPrefix string
	lc          logger.LoggingClient
}

func NewMQTTSink(lc logger.LoggingClient, brokerURL, serviceName, topicPrefix string) (*MQTTSink, error) {
	// different clientIds for multiple instances on a node
	clientId := fmt.Sprintf("%s_%d", serviceName, rand.Int())
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientId).
		SetAutoReconnect(true).
		SetConnectRetry(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, errors.Errorf("timed out connecting to MQTT broker %s", brokerURL)
	}
	if token.Error() != nil {
		return nil, errors.Wrapf(token.Error(), "failed to connect to MQTT broker %s", brokerURL)
	}

	return &MQTTSink{
		client:      client,
		topicPrefix: topicPrefix,
		lc:          lc,
	}, nil
}

func (s *MQTTSink) OnSnapshot(tanks []dto.Tank) {
	s.publish(s.topicPrefix+"/snapshot", tanks)
}

func (s *MQTTSink) OnAlert(alert dto.Alert) {
	s.publish(s.topicPrefix+"/alert", alert)
}

func (s *MQTTSink) publish(topic string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		s.lc.Errorf("failed to marshal payload for topic %s: %v", topic, err)
		return
	}
	// QoS 0, fire-and-forget; the next tick supersedes a lost message
	s.client.Publish(topic, 0, false, payload)
}

func (s *MQTTSink) Close() {
	s.client.Disconnect(250)
}
