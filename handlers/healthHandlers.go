package handlers

import (
	"context"
	"net/http"
	"time"

	"tasktracker/utilities"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

// Pinger probes the store.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type rootInfo struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Status  string `json:"status"`
	Docs    string `json:"docs"`
}

type healthStatus struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Timestamp string `json:"timestamp,omitempty"`
}

// RootHandler returns static service information.
func RootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rootInfo{
		Message: "Welcome to TaskTracker API",
		Version: Version,
		Status:  "healthy",
		Docs:    "/docs",
	})
}

// HealthHandler reports whether the store answers a trivial query.
func HealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			utilities.LogError(err, "HealthHandler: Health check failed")
			writeJSON(w, http.StatusServiceUnavailable, healthStatus{
				Status:   "unhealthy",
				Database: "disconnected",
			})
			return
		}

		writeJSON(w, http.StatusOK, healthStatus{
			Status:    "healthy",
			Database:  "connected",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}
