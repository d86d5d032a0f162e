/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package router

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/edgexfoundry/app-functions-sdk-go/v3/pkg/interfaces"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"tanktwin/internal/alarm"
	"tanktwin/internal/monitor"
	"tanktwin/internal/prediction"
	"tanktwin/internal/publisher"
	"tanktwin/internal/simulation"
	"tanktwin/internal/telemetry"
)

const (
	ResponseFailureMsg         = "Failed to send response content"
	RequestBodyParseFailureMsg = "Failed to parse request body"
)

type targetRequest struct {
	TargetTemperature float64 `json:"target_temperature" validate:"required"`
}

type intervalRequest struct {
	IntervalMs int64 `json:"interval_ms" validate:"required,min=100"`
}

type acknowledgeRequest struct {
	AcknowledgedBy string `json:"acknowledged_by" validate:"required"`
}

type Router struct {
	edgexSdk  interfaces.ApplicationService
	engine    *simulation.Engine
	alarms    *alarm.Manager
	monitor   *monitor.TankMonitor
	oracle    prediction.Oracle // nil when no oracle is configured
	hub       *publisher.Hub
	telemetry *telemetry.Telemetry
	validate  *validator.Validate
}

func NewRouter(service interfaces.ApplicationService, engine *simulation.Engine, alarms *alarm.Manager,
	mon *monitor.TankMonitor, oracle prediction.Oracle, hub *publisher.Hub, tel *telemetry.Telemetry) *Router {

	return &Router{
		edgexSdk:  service,
		engine:    engine,
		alarms:    alarms,
		monitor:   mon,
		oracle:    oracle,
		hub:       hub,
		telemetry: tel,
		validate:  validator.New(),
	}
}

func (r Router) LoadRestRoutes() {

	r.edgexSdk.LoggingClient().Info("Adding Routes")

	_ = r.edgexSdk.AddCustomRoute("/api/v3/tanktwin/tanks", interfaces.Authenticated, func(c echo.Context) error {
		return handleGetTanks(c, r)
	}, http.MethodGet)

	_ = r.edgexSdk.AddCustomRoute("/api/v3/tanktwin/tanks/:tankId", interfaces.Authenticated, func(c echo.Context) error {
		return handleGetTank(c, r)
	}, http.MethodGet)

	_ = r.edgexSdk.AddCustomRoute("/api/v3/tanktwin/tanks/:tankId/target", interfaces.Authenticated, func(c echo.Context) error {
		return handlePutTarget(c, r)
	}, http.MethodPut)

	_ = r.edgexSdk.AddCustomRoute("/api/v3/tanktwin/tanks/:tankId/maintenance/reset", interfaces.Authenticated, func(c echo.Context) error {
		return handleResetMaintenance(c, r)
	}, http.MethodPost)

	_ = r.edgexSdk.AddCustomRoute("/api/v3/tanktwin/metrics", interfaces.Authenticated, func(c echo.Context) error {
		return respondJSON(c, r.monitor.Metrics())
	}, http.MethodGet)

	_ = r.edgexSdk.AddCustomRoute("/api/v3/tanktwin/efficiency", interfaces.Authenticated, func(c echo.Context) error {
		return respondJSON(c, r.monitor.Efficiency())
	}, http.MethodGet)

	_ = r.edgexSdk.AddCustomRoute("/api/v3/tanktwin/maintenance", interfaces.Authenticated, func(c echo.Context) error {
		return respondJSON(c, r.monitor.MaintenanceNeeds())
	}, http.MethodGet)

	_ = r.edgexSdk.AddCustomRoute("/api/v3/tanktwin/report", interfaces.Authenticated, func(c echo.Context) error {
		return respondJSON(c, r.monitor.Report())
	}, http.MethodGet)

	_ = r.edgexSdk.AddCustomRoute("/api/v3/tanktwin/alerts", interfaces.Authenticated, func(c echo.Context) error {
		return respondJSON(c, r.alarms.Alerts())
	}, http.MethodGet)

	_ = r.edgexSdk.AddCustomRoute("/api/v3/tanktwin/alerts/:alertId/acknowledge", interfaces.Authenticated, func(c echo.Context) error {
		return handleAcknowledgeAlert(c, r)
	}, http.MethodPost)

	_ = r.edgexSdk.AddCustomRoute("/api/v3/tanktwin/simulation/start", interfaces.Authenticated, func(c echo.Context) error {
		r.engine.Start()
		return respondJSON(c, map[string]any{"running": r.engine.IsRunning()})
	}, http.MethodPost)

	_ = r.edgexSdk.AddCustomRoute("/api/v3/tanktwin/simulation/stop", interfaces.Authenticated, func(c echo.Context) error {
		r.engine.Stop()
		return respondJSON(c, map[string]any{"running": r.engine.IsRunning()})
	}, http.MethodPost)

	_ = r.edgexSdk.AddCustomRoute("/api/v3/tanktwin/simulation/interval", interfaces.Authenticated, func(c echo.Context) error {
		return handlePutInterval(c, r)
	}, http.MethodPut)

	_ = r.edgexSdk.AddCustomRoute("/api/v3/tanktwin/telemetry", interfaces.Authenticated, func(c echo.Context) error {
		return respondJSON(c, r.telemetry.Snapshot())
	}, http.MethodGet)

	_ = r.edgexSdk.AddCustomRoute("/api/v3/tanktwin/oracle/status", interfaces.Authenticated, func(c echo.Context) error {
		return handleOracleStatus(c, r)
	}, http.MethodGet)

	_ = r.edgexSdk.AddCustomRoute("/api/v3/tanktwin/oracle/model/:modelId/retrain", interfaces.Authenticated, func(c echo.Context) error {
		return handleRetrain(c, r)
	}, http.MethodPost)

	if r.hub != nil {
		_ = r.edgexSdk.AddCustomRoute("/api/v3/tanktwin/stream", interfaces.Authenticated, func(c echo.Context) error {
			return r.hub.Serve(c)
		}, http.MethodGet)
	}
}

func respondJSON(c echo.Context, payload interface{}) error {
	if e := c.JSON(http.StatusOK, payload); e != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, ResponseFailureMsg)
	}
	return nil
}

func handleGetTanks(c echo.Context, r Router) *echo.HTTPError {
	e := c.JSON(http.StatusOK, r.engine.Snapshot())
	if e != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, ResponseFailureMsg)
	}
	return nil
}

func handleGetTank(c echo.Context, r Router) *echo.HTTPError {
	tankId, err := strconv.Atoi(c.Param("tankId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "tankId must be numeric")
	}

	for _, tank := range r.engine.Snapshot() {
		if tank.Id == tankId {
			if e := c.JSON(http.StatusOK, tank); e != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, ResponseFailureMsg)
			}
			return nil
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, "tank not found")
}

func handlePutTarget(c echo.Context, r Router) *echo.HTTPError {
	tankId, err := strconv.Atoi(c.Param("tankId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "tankId must be numeric")
	}

	var req targetRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, RequestBodyParseFailureMsg)
	}
	if err := r.validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if twinErr := r.engine.SetTarget(tankId, req.TargetTemperature); twinErr != nil {
		r.edgexSdk.LoggingClient().Errorf("Failed to set target for tank %d: %v", tankId, twinErr.Error())
		return twinErr.ConvertToHTTPError()
	}

	if e := c.NoContent(http.StatusNoContent); e != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, ResponseFailureMsg)
	}
	return nil
}

func handleResetMaintenance(c echo.Context, r Router) *echo.HTTPError {
	tankId, err := strconv.Atoi(c.Param("tankId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "tankId must be numeric")
	}

	if twinErr := r.engine.ResetMaintenance(tankId); twinErr != nil {
		r.edgexSdk.LoggingClient().Errorf("Failed to reset maintenance for tank %d: %v", tankId, twinErr.Error())
		return twinErr.ConvertToHTTPError()
	}

	if e := c.NoContent(http.StatusNoContent); e != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, ResponseFailureMsg)
	}
	return nil
}

func handleAcknowledgeAlert(c echo.Context, r Router) *echo.HTTPError {
	alertId := c.Param("alertId")

	var req acknowledgeRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, RequestBodyParseFailureMsg)
	}
	if err := r.validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if twinErr := r.alarms.Acknowledge(alertId, req.AcknowledgedBy); twinErr != nil {
		r.edgexSdk.LoggingClient().Errorf("Failed to acknowledge alert %s: %v", alertId, twinErr.Error())
		return twinErr.ConvertToHTTPError()
	}

	if e := c.NoContent(http.StatusNoContent); e != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, ResponseFailureMsg)
	}
	return nil
}

func handlePutInterval(c echo.Context, r Router) *echo.HTTPError {
	var req intervalRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, RequestBodyParseFailureMsg)
	}
	if err := r.validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if twinErr := r.engine.SetTickInterval(time.Duration(req.IntervalMs) * time.Millisecond); twinErr != nil {
		return twinErr.ConvertToHTTPError()
	}

	if e := c.JSON(http.StatusOK, map[string]any{"interval_ms": r.engine.TickInterval().Milliseconds()}); e != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, ResponseFailureMsg)
	}
	return nil
}

func handleOracleStatus(c echo.Context, r Router) *echo.HTTPError {
	if r.oracle == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "no oracle configured")
	}

	statuses, twinErr := r.oracle.Status()
	if twinErr != nil {
		r.edgexSdk.LoggingClient().Errorf("Failed to query oracle status: %v", twinErr.Error())
		return twinErr.ConvertToHTTPError()
	}

	if e := c.JSON(http.StatusOK, statuses); e != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, ResponseFailureMsg)
	}
	return nil
}

func handleRetrain(c echo.Context, r Router) *echo.HTTPError {
	if r.oracle == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "no oracle configured")
	}
	modelId := c.Param("modelId")

	accepted, twinErr := r.oracle.Retrain(modelId)
	if twinErr != nil {
		r.edgexSdk.LoggingClient().Errorf("Failed to trigger retrain for model %s: %v", modelId, twinErr.Error())
		return twinErr.ConvertToHTTPError()
	}

	if e := c.JSON(http.StatusAccepted, map[string]any{"model_id": modelId, "accepted": accepted}); e != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, ResponseFailureMsg)
	}
	return nil
}
