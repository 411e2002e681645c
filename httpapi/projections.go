package httpapi

import (
	"net/http"
	"strconv"

	"propbets/models"
)

type projectionsResponse struct {
	Projections []*models.Projection `json:"projections"`
	Total       int                  `json:"total"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
}

func (s *Server) handleProjections(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	board, total, err := s.projections.Page(r.Context(), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	// Annotate the page with the caller's existing picks.
	ids := make([]string, len(board))
	for i, p := range board {
		ids[i] = p.ID
	}
	picked, err := s.picks.PickedProjections(r.Context(), userIDFromContext(r.Context()), ids)
	if err != nil {
		writeError(w, err)
		return
	}
	for _, p := range board {
		if side, ok := picked[p.ID]; ok {
			pick := side
			p.Pick = &pick
		}
	}

	writeJSON(w, http.StatusOK, projectionsResponse{
		Projections: board,
		Total:       total,
		Page:        page,
		Limit:       limit,
	})
}
