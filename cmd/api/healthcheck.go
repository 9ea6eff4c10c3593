// cmd/api/healthcheck.go
package main

import (
	"context"
	"net/http"
	"time"
)

// livenessHandler handles GET /api. It answers with a fixed message without
// touching any collaborator, so load balancers can tell "process up" apart
// from "dependencies up".
func (app *applicationDependencies) livenessHandler(w http.ResponseWriter, r *http.Request) {
	err := app.writeJSON(w, http.StatusOK, envelope{"message": "All good in here"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// healthHandler handles GET /api/health. It pings the database and reports
// the connection state: 200 when connected, 503 otherwise.
func (app *applicationDependencies) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	state := "connected"
	stateCode := 1
	status := http.StatusOK

	if err := app.db.PingContext(ctx); err != nil {
		state = "disconnected"
		stateCode = 0
		status = http.StatusServiceUnavailable
	}

	healthCheck := envelope{
		"status":    map[int]string{1: "healthy", 0: "unhealthy"}[stateCode],
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database": envelope{
			"state":     state,
			"stateCode": stateCode,
		},
		"environment": envelope{
			"env":     app.config.environment,
			"version": appVersion,
		},
	}

	err := app.writeJSON(w, status, healthCheck, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
