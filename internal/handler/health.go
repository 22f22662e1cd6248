package handler

import (
	"encoding/json"
	"net/http"
	"time"
)

// HealthHandler returns service readiness information.
type HealthHandler struct {
	service     string
	environment string
	startedAt   time.Time
}

// NewHealthHandler creates a health handler instance.
func NewHealthHandler(service, environment string) *HealthHandler {
	return &HealthHandler{
		service:     service,
		environment: environment,
		startedAt:   time.Now(),
	}
}

type healthResponse struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	Environment string `json:"environment"`
	Timestamp   string `json:"timestamp"`
	UptimeSec   int64  `json:"uptime_seconds"`
}

// Check responds with a basic health payload.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) error {
	resp := healthResponse{
		Status:      "ok",
		Service:     h.service,
		Environment: h.environment,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		UptimeSec:   int64(time.Since(h.startedAt).Seconds()),
	}

	body, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(body)
	return err
}
