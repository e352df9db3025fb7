package handler

import (
	"log/slog"
	"net/http"

	"github.com/miguelgnzalez28/ultimate-kits/internal/service"
)

// AdminHandler serves the statistics endpoint. Access control (valid token
// plus admin claim) is enforced by middleware before this handler runs.
type AdminHandler struct {
	stats  *service.StatsService
	logger *slog.Logger
}

func NewAdminHandler(stats *service.StatsService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{stats: stats, logger: logger}
}

// HandleStats returns the visit and user aggregates.
//
// HTTP: GET /api/admin/stats (behind RequireAuth + RequireAdmin)
// 200 {total_visits, total_users, registered_visits, anonymous_visits, users, recent_visits} | 401 | 403
func (h *AdminHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Stats(r.Context())
	if err != nil {
		h.logger.Error("stats aggregation failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
