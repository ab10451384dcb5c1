package api

import (
	"net/http"
)

// StatsProvider exposes the dashboard service counters: requests per view
// kind, failures per error kind, announcements posted and the source in use.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves the service counters as JSON.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a stats handler over provider.
func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: provider}
}

// HandleStats handles GET /stats. Other methods get 404 so the route stays
// read-only.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.statsProvider.GetStats())
}
