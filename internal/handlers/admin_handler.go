package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Dias221467/SocialGraph/internal/services"
	"github.com/Dias221467/SocialGraph/pkg/apperrors"
	"github.com/Dias221467/SocialGraph/pkg/logger"
	"github.com/Dias221467/SocialGraph/pkg/middleware"
)

// AdminHandler exposes read-only views of the graph over HTTP.
type AdminHandler struct {
	Service *services.SocialGraph
}

func NewAdminHandler(service *services.SocialGraph) *AdminHandler {
	return &AdminHandler{Service: service}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// HealthHandler reports liveness and whether the snapshot is up to date.
func (h *AdminHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if h.Service.Dirty() {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          status,
		"active_sessions": h.Service.ActiveSessions(),
	})
}

// GetNetworkHandler returns the adjacency list of the whole graph.
func (h *AdminHandler) GetNetworkHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims != nil {
		logger.Log.WithField("admin", claims.Username).Info("Admin fetched network")
	}
	writeJSON(w, http.StatusOK, map[string]any{"network": h.Service.Network()})
}

func (h *AdminHandler) GetStatisticsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Statistics()
	if err != nil {
		status := http.StatusInternalServerError
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"statistics": stats})
}
