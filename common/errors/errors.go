/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package errors

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type ErrorType string

const (
	ErrorTypeNotFound          ErrorType = "NotFound"
	ErrorTypeValidation        ErrorType = "ValidationError"
	ErrorTypeOracleUnavailable ErrorType = "OracleUnavailable"
	ErrorTypeInvariant         ErrorType = "InvariantViolation"
	ErrorTypeServerError       ErrorType = "ServerError"
	ErrorTypeDBError           ErrorType = "DBError"
	ErrorTypeBadRequest        ErrorType = "BadRequest"
	ErrorTypeConflict          ErrorType = "Conflict"
	ErrorTypeConfig            ErrorType = "ConfigurationError"
	ErrorTypeUnknown           ErrorType = "Unknown"
)

type CommonTwinError struct {
	errorType ErrorType
	message   string
}

type TwinError interface {
	ErrorType() ErrorType
	Message() string
	IsErrorType(errorType ErrorType) bool
	Error() string
	ConvertToHTTPError() *echo.HTTPError
}

func (t CommonTwinError) ErrorType() ErrorType {
	return t.errorType
}

func (t CommonTwinError) Message() string {
	return t.message
}

func (t CommonTwinError) Error() string {
	return t.message
}

func (t CommonTwinError) IsErrorType(errorType ErrorType) bool {
	return errorType == t.errorType
}

func (t CommonTwinError) ConvertToHTTPError() *echo.HTTPError {
	return echo.NewHTTPError(errorTypeToCode(t.ErrorType()), t.Message())
}

func NewCommonTwinError(errorType ErrorType, message string) CommonTwinError {
	return CommonTwinError{errorType, message}
}

func errorTypeToCode(status ErrorType) int {
	switch status {
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeValidation, ErrorTypeBadRequest:
		return http.StatusBadRequest
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeOracleUnavailable:
		return http.StatusServiceUnavailable
	case ErrorTypeServerError, ErrorTypeDBError, ErrorTypeInvariant, ErrorTypeUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
