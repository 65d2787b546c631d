package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"courtside-quiz/internal/app"
	"courtside-quiz/internal/domain"
	"go.uber.org/zap"
)

// QueryHandler serves the read-only leaderboard and stats queries.
type QueryHandler struct {
	board  *app.LeaderboardService
	stats  *app.StatsService
	logger *zap.Logger
}

func NewQueryHandler(board *app.LeaderboardService, stats *app.StatsService, logger *zap.Logger) *QueryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryHandler{board: board, stats: stats, logger: logger}
}

// Register mounts the query routes on mux.
func (h *QueryHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /leaderboard/{mode}", h.Leaderboard)
	mux.HandleFunc("GET /stats/{displayName}", h.Stats)
}

type rankedEntry struct {
	Rank int `json:"rank"`
	domain.LeaderboardEntry
}

type leaderboardResponse struct {
	Mode    domain.Mode   `json:"mode"`
	Entries []rankedEntry `json:"entries"`
}

func (h *QueryHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	mode, err := domain.ParseMode(r.PathValue("mode"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	var difficulty domain.Difficulty
	if raw := r.URL.Query().Get("difficulty"); raw != "" {
		if difficulty, err = domain.ParseDifficulty(raw); err != nil {
			h.writeError(w, err)
			return
		}
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			h.writeError(w, errBadRequest)
			return
		}
	}

	entries, err := h.board.TopN(r.Context(), mode, difficulty, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	resp := leaderboardResponse{Mode: mode, Entries: make([]rankedEntry, len(entries))}
	for i, e := range entries {
		resp.Entries[i] = rankedEntry{Rank: i + 1, LeaderboardEntry: e}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *QueryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.PathValue("displayName"))
	if name == "" {
		h.writeError(w, domain.ErrDisplayNameRequired)
		return
	}
	report, err := h.stats.StatsFor(r.Context(), name)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *QueryHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errorCode(err) {
	case "bad_request", "unranked_mode":
		status = http.StatusBadRequest
	case "store_unavailable":
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("query failed", zap.Error(err))
	}
	writeJSON(w, status, errorPayload{Code: errorCode(err), Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
