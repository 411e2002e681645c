package httpapi

import (
	"net/http"
	"strconv"

	"propbets/models"
)

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	sort := models.ParseLeaderboardSort(r.URL.Query().Get("sort"))

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			offset = n
		}
	}

	entries, err := s.leaderboard.Leaderboard(r.Context(), sort, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleMyRank(w http.ResponseWriter, r *http.Request) {
	entry, err := s.leaderboard.UserRank(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}
