// ShopSphere - E-Commerce Recommendation Backend
// Copyright 2026 ShopSphere
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsphere/backend

// Package api provides the HTTP surface of the recommendation backend:
// Chi routing, middleware, and standardized JSON responses.
package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/shopsphere/backend/internal/logging"
	"github.com/shopsphere/backend/internal/models"
)

// Error codes for API responses.
const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeValidationFailed = "VALIDATION_ERROR"
	ErrCodeRecommendation   = "RECOMMENDATION_ERROR"
	ErrCodeOrder            = "ORDER_ERROR"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// ResponseWriter writes standardized API responses. It captures the request
// start time so every response carries its handler duration.
type ResponseWriter struct {
	w         http.ResponseWriter
	startTime time.Time
}

// NewResponseWriter creates a response writer for the current request.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{
		w:         w,
		startTime: time.Now(),
	}
}

// Success writes a 200 response with the given payload.
func (rw *ResponseWriter) Success(data interface{}) {
	rw.SuccessWithModel(data, 0)
}

// SuccessWithModel writes a 200 response stamped with the model version that
// served the request. A zero version is omitted from the metadata.
func (rw *ResponseWriter) SuccessWithModel(data interface{}, modelVersion uint64) {
	rw.writeJSON(http.StatusOK, models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:    time.Now().UTC(),
			QueryTimeMS:  time.Since(rw.startTime).Milliseconds(),
			ModelVersion: modelVersion,
		},
	})
}

// Created writes a 201 response with the given payload.
func (rw *ResponseWriter) Created(data interface{}) {
	rw.writeJSON(http.StatusCreated, models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(rw.startTime).Milliseconds(),
		},
	})
}

// Error writes an error response with the given status code.
func (rw *ResponseWriter) Error(statusCode int, code, message string) {
	rw.ErrorWithDetails(statusCode, code, message, nil)
}

// ErrorWithDetails writes an error response with additional structured details.
func (rw *ResponseWriter) ErrorWithDetails(statusCode int, code, message string, details map[string]interface{}) {
	rw.writeJSON(statusCode, models.APIResponse{
		Status: "error",
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(rw.startTime).Milliseconds(),
		},
	})
}

// BadRequest writes a 400 Bad Request error.
func (rw *ResponseWriter) BadRequest(message string) {
	rw.Error(http.StatusBadRequest, ErrCodeBadRequest, message)
}

// ValidationError writes a 400 error with validation details.
func (rw *ResponseWriter) ValidationError(message string, details map[string]interface{}) {
	rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed, message, details)
}

// NotFound writes a 404 Not Found error.
func (rw *ResponseWriter) NotFound(message string) {
	rw.Error(http.StatusNotFound, ErrCodeNotFound, message)
}

// InternalError writes a 500 Internal Server Error.
func (rw *ResponseWriter) InternalError(message string) {
	rw.Error(http.StatusInternalServerError, ErrCodeInternalError, message)
}

// writeJSON writes a JSON response with proper headers.
func (rw *ResponseWriter) writeJSON(statusCode int, data interface{}) {
	rw.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.w.WriteHeader(statusCode)

	if err := json.NewEncoder(rw.w).Encode(data); err != nil {
		logging.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
