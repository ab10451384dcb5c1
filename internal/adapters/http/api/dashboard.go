package api

import (
	"net/http"

	"github.com/okian/salesboard/internal/domain/model"
)

// DashboardHandler serves the caller's role view.
type DashboardHandler struct {
	deps           Dependencies
	identityHeader string
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(deps Dependencies, identityHeader string) *DashboardHandler {
	return &DashboardHandler{deps: deps, identityHeader: identityHeader}
}

// HandleGetDashboard handles GET /api/dashboard.
func (h *DashboardHandler) HandleGetDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	email := identity(r, h.identityHeader)
	if email == "" {
		writeFailure(w, model.NewError(model.KindUnauthenticated, "user email is required"))
		return
	}
	m, err := h.deps.Dashboard(r.Context(), email)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}
