package api

import (
	"net/http"
	"time"
)

// StatsProvider reports service statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves GET /stats: the service snapshot plus the limits this
// API enforces.
type StatsHandler struct {
	provider       StatsProvider
	started        time.Time
	maxUploadBytes int64
}

// NewStatsHandler creates a stats handler.
func NewStatsHandler(p StatsProvider, maxUploadBytes int64) *StatsHandler {
	return &StatsHandler{provider: p, started: time.Now(), maxUploadBytes: maxUploadBytes}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	src := h.provider.GetStats()
	out := make(map[string]interface{}, len(src)+2)
	for k, v := range src {
		out[k] = v
	}
	out["maxUploadBytes"] = h.maxUploadBytes
	out["uptimeSeconds"] = int64(time.Since(h.started).Seconds())
	writeJSON(w, http.StatusOK, out)
}
