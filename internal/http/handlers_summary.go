package http

import (
	"log/slog"
	"net/http"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodGet {
		methodNotAllowed(ctx, w, "GET")
		return
	}

	if cached, ok := s.summaryCache.get(); ok {
		slog.DebugContext(ctx, "Summary cache hit")
		writeJSON(ctx, w, http.StatusOK, cached)
		return
	}

	summary, err := s.summaries.Summarize(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	s.summaryCache.set(summary)
	writeJSON(ctx, w, http.StatusOK, summary)
}
