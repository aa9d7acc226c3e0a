package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type ModelPinger interface {
	Ping(ctx context.Context) error
}

type ConnectionState interface {
	IsConnected() bool
	State() string
}

type HealthHandler struct {
	DB        Pinger
	WhatsApp  ConnectionState
	Ollama    ModelPinger
	StartTime time.Time
	Version   string
}

type HealthResponse struct {
	Success      bool              `json:"success"`
	Status       string            `json:"status"`
	Message      string            `json:"message"`
	Version      string            `json:"version"`
	Timestamp    time.Time         `json:"timestamp"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(db Pinger, whatsapp ConnectionState, ollama ModelPinger) *HealthHandler {
	return &HealthHandler{
		DB:        db,
		WhatsApp:  whatsapp,
		Ollama:    ollama,
		StartTime: time.Now(),
		Version:   "1.0.0",
	}
}

// Handle reports the process as degraded (503) only when the database is
// unreachable; WhatsApp and Ollama are informational.
func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]string)
	status := "healthy"

	if h.DB != nil {
		if err := h.DB.PingContext(ctx); err != nil {
			deps["database"] = fmt.Sprintf("unhealthy: %v", err)
			status = "degraded"
		} else {
			deps["database"] = "healthy"
		}
	} else {
		deps["database"] = "not configured"
	}

	if h.WhatsApp != nil {
		deps["whatsapp"] = h.WhatsApp.State()
	} else {
		deps["whatsapp"] = "not configured"
	}

	if h.Ollama != nil {
		if err := h.Ollama.Ping(ctx); err != nil {
			deps["ollama"] = fmt.Sprintf("unreachable: %v", err)
		} else {
			deps["ollama"] = "healthy"
		}
	} else {
		deps["ollama"] = "not configured"
	}

	resp := HealthResponse{
		Success:      status == "healthy",
		Status:       status,
		Message:      "WhatsApp sales bot API is running",
		Version:      h.Version,
		Timestamp:    time.Now().UTC(),
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}
