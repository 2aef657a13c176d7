// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/tomtom215/cinematch/internal/models"
)

const readinessTimeout = 2 * time.Second

// HealthLive handles liveness probes. It succeeds whenever the process can
// answer.
//
// @Summary Liveness probe
// @Description Returns 200 while the process is alive, regardless of dependencies.
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus}
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, time.Time{}, &models.HealthStatus{
		Status:    models.HealthOK,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
	})
}

// HealthReady handles readiness probes. The catalog must hold titles and
// every registered check must pass within the probe timeout.
//
// @Summary Readiness probe
// @Description Returns 200 when the catalog is loaded and all dependency checks pass, 503 otherwise.
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus}
// @Failure 503 {object} models.APIResponse{data=models.HealthStatus}
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	checks := map[string]string{"catalog": models.HealthOK}
	ready := true
	if h.catalog.Len() == 0 {
		checks["catalog"] = "empty"
		ready = false
	}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			checks[name] = err.Error()
			ready = false
			continue
		}
		checks[name] = models.HealthOK
	}

	status := &models.HealthStatus{
		Status:    models.HealthOK,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Checks:    checks,
		Timestamp: time.Now().UTC(),
	}

	if ready {
		respondSuccess(w, r, time.Time{}, status)
		return
	}

	status.Status = models.HealthDegraded
	resp := models.Failure(&models.APIError{
		Code:    models.ErrCodeServiceUnavailable,
		Message: "Service is not ready",
	}, metadata(r, time.Time{}))
	resp.Data = status
	respondJSON(w, r, http.StatusServiceUnavailable, resp)
}

// errNotRunning is returned by readiness checks for stopped components.
var errNotRunning = errors.New("not running")

// RunningCheck adapts an IsRunning method to a ReadinessCheck.
func RunningCheck(isRunning func() bool) ReadinessCheck {
	return func(context.Context) error {
		if !isRunning() {
			return errNotRunning
		}
		return nil
	}
}
