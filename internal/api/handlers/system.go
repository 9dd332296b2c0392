package handlers

import (
	"context"
	"net/http"

	"github.com/ramonehamilton/chaos-zero-companion/internal/api/response"
	"github.com/ramonehamilton/chaos-zero-companion/internal/version"
)

// Pinger reports whether the catalog database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// SystemHandler handles health and version requests.
type SystemHandler struct {
	db       Pinger
	sessions func() int
}

// NewSystemHandler creates a new SystemHandler. db and sessions may be nil.
func NewSystemHandler(db Pinger, sessions func() int) *SystemHandler {
	return &SystemHandler{db: db, sessions: sessions}
}

// Health reports service health. A failed database ping is a 503.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":  "healthy",
		"service": version.Service,
		"version": version.GetVersion(),
	}
	if h.sessions != nil {
		status["sessions"] = h.sessions()
	}

	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			status["status"] = "unhealthy"
			status["error"] = err.Error()
			response.JSON(w, http.StatusServiceUnavailable, status)
			return
		}
	}

	response.JSON(w, http.StatusOK, status)
}

// GetVersion returns the application version.
func (h *SystemHandler) GetVersion(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"version": version.GetVersion(),
		"service": version.Service,
	})
}
