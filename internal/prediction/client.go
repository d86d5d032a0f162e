/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/jellydator/ttlcache/v3"

	"tanktwin/common/client"
	"tanktwin/common/dto"
	twinErrors "tanktwin/common/errors"
)

// predictions are cached briefly so a fast tick cadence does not hammer the oracle
const predictionCacheTTL = 10 * time.Second

// Oracle is the advisory control oracle. Predict may fail or time out at any
// time; callers must treat it as best-effort and fall back to rule-based
// control.
type Oracle interface {
	Predict(ctx context.Context, tank dto.Tank) (*dto.ControlPrediction, twinErrors.TwinError)
	Observe(tanks []dto.Tank)
	Status() ([]dto.ModelStatus, twinErrors.TwinError)
	Retrain(modelId string) (bool, twinErrors.TwinError)
}

type HTTPOracle struct {
	lc      logger.LoggingClient
	client  client.HTTPClient
	baseURL string
	timeout time.Duration
	cache   *ttlcache.Cache[int, *dto.ControlPrediction]
}

func NewHTTPOracle(lc logger.LoggingClient, httpClient client.HTTPClient, baseURL string, timeout time.Duration) *HTTPOracle {
	cache := ttlcache.New[int, *dto.ControlPrediction](
		ttlcache.WithTTL[int, *dto.ControlPrediction](predictionCacheTTL),
	)
	go cache.Start()

	return &HTTPOracle{
		lc:      lc,
		client:  httpClient,
		baseURL: baseURL,
		timeout: timeout,
		cache:   cache,
	}
}

func (o *HTTPOracle) Predict(ctx context.Context, tank dto.Tank) (*dto.ControlPrediction, twinErrors.TwinError) {
	if item := o.cache.Get(tank.Id); item != nil {
		return item.Value(), nil
	}

	reqCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	body, err := json.Marshal(tank)
	if err != nil {
		return nil, twinErrors.NewCommonTwinError(twinErrors.ErrorTypeServerError, "failed to marshal tank state")
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, o.baseURL+"/api/v3/oracle/predict", bytes.NewBuffer(body))
	if err != nil {
		return nil, twinErrors.NewCommonTwinError(twinErrors.ErrorTypeServerError, "failed to build oracle request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil || resp == nil {
		return nil, twinErrors.NewCommonTwinError(twinErrors.ErrorTypeOracleUnavailable,
			fmt.Sprintf("oracle predict failed for tank %d", tank.Id))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, twinErrors.NewCommonTwinError(twinErrors.ErrorTypeOracleUnavailable,
			fmt.Sprintf("oracle predict returned status %d for tank %d", resp.StatusCode, tank.Id))
	}

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, twinErrors.NewCommonTwinError(twinErrors.ErrorTypeOracleUnavailable, "failed reading oracle response")
	}

	var pred dto.ControlPrediction
	if err = json.Unmarshal(respBytes, &pred); err != nil {
		return nil, twinErrors.NewCommonTwinError(twinErrors.ErrorTypeBadRequest,
			fmt.Sprintf("malformed oracle payload for tank %d", tank.Id))
	}
	if twinErr := validatePrediction(&pred); twinErr != nil {
		return nil, twinErr
	}

	pred.Created = time.Now().UnixMilli()
	o.cache.Set(tank.Id, &pred, ttlcache.DefaultTTL)
	return &pred, nil
}

// Observe feeds the oracle's own history, fire-and-forget
func (o *HTTPOracle) Observe(tanks []dto.Tank) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
		defer cancel()

		body, err := json.Marshal(tanks)
		if err != nil {
			return
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/v3/oracle/observe", bytes.NewBuffer(body))
		if err != nil {
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := o.client.Do(req)
		if err != nil || resp == nil {
			o.lc.Debugf("oracle observe failed: %v", err)
			return
		}
		resp.Body.Close()
	}()
}

func (o *HTTPOracle) Status() ([]dto.ModelStatus, twinErrors.TwinError) {
	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/api/v3/oracle/status", nil)
	if err != nil {
		return nil, twinErrors.NewCommonTwinError(twinErrors.ErrorTypeServerError, "failed to build oracle status request")
	}

	resp, err := o.client.Do(req)
	if err != nil || resp == nil || resp.StatusCode != http.StatusOK {
		return nil, twinErrors.NewCommonTwinError(twinErrors.ErrorTypeOracleUnavailable, "oracle status query failed")
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, twinErrors.NewCommonTwinError(twinErrors.ErrorTypeOracleUnavailable, "failed reading oracle status")
	}

	var statuses []dto.ModelStatus
	if err = json.Unmarshal(respBytes, &statuses); err != nil {
		return nil, twinErrors.NewCommonTwinError(twinErrors.ErrorTypeOracleUnavailable, "malformed oracle status payload")
	}
	return statuses, nil
}

func (o *HTTPOracle) Retrain(modelId string) (bool, twinErrors.TwinError) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	url := fmt.Sprintf("%s/api/v3/oracle/model/%s/retrain", o.baseURL, modelId)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return false, twinErrors.NewCommonTwinError(twinErrors.ErrorTypeServerError, "failed to build oracle retrain request")
	}

	resp, err := o.client.Do(req)
	if err != nil || resp == nil {
		return false, twinErrors.NewCommonTwinError(twinErrors.ErrorTypeOracleUnavailable, "oracle retrain failed")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted:
		return true, nil
	case http.StatusNotFound:
		return false, twinErrors.NewCommonTwinError(twinErrors.ErrorTypeNotFound,
			fmt.Sprintf("model %s not found", modelId))
	default:
		return false, twinErrors.NewCommonTwinError(twinErrors.ErrorTypeOracleUnavailable,
			fmt.Sprintf("oracle retrain returned status %d", resp.StatusCode))
	}
}

func validatePrediction(pred *dto.ControlPrediction) twinErrors.TwinError {
	if pred.Confidence < 0 || pred.Confidence > 1 {
		return twinErrors.NewCommonTwinError(twinErrors.ErrorTypeBadRequest,
			fmt.Sprintf("prediction confidence %v out of range", pred.Confidence))
	}
	if pred.FailureRisk < 0 || pred.FailureRisk > 1 {
		return twinErrors.NewCommonTwinError(twinErrors.ErrorTypeBadRequest,
			fmt.Sprintf("prediction failure risk %v out of range", pred.FailureRisk))
	}
	switch pred.NextAction {
	case dto.ActionStart, dto.ActionStop, dto.ActionNoAction:
		return nil
	default:
		return twinErrors.NewCommonTwinError(twinErrors.ErrorTypeBadRequest,
			fmt.Sprintf("unknown prediction action %q", pred.NextAction))
	}
}
