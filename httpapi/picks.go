package httpapi

import (
	"encoding/json"
	"net/http"

	"propbets/models"
	"propbets/service"

	"github.com/gorilla/mux"
)

type createPickRequest struct {
	ProjectionID   string  `json:"projectionId"`
	PickType       string  `json:"pickType"`
	PlayerName     string  `json:"playerName"`
	PlayerImageURL *string `json:"playerImageUrl"`
	StatType       string  `json:"statType"`
	LineScore      float64 `json:"lineScore"`
}

type pickPayload struct {
	ID             string          `json:"id"`
	ProjectionID   string          `json:"projectionId"`
	PickType       models.PickType `json:"pickType"`
	PlayerName     string          `json:"playerName"`
	PlayerImageURL *string         `json:"playerImageUrl"`
	StatType       string          `json:"statType"`
	LineScore      float64         `json:"lineScore"`
	Outcome        *models.Outcome `json:"outcome"`
	IsResolved     bool            `json:"isResolved"`
	CreatedAt      string          `json:"createdAt"`
}

func toPickPayload(p *models.Pick) pickPayload {
	return pickPayload{
		ID:             p.ID,
		ProjectionID:   p.ProjectionID,
		PickType:       p.PickType,
		PlayerName:     p.PlayerName,
		PlayerImageURL: p.PlayerImageURL,
		StatType:       p.StatType,
		LineScore:      p.LineScore,
		Outcome:        p.Outcome,
		IsResolved:     p.IsResolved,
		CreatedAt:      p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (s *Server) handleCreatePick(w http.ResponseWriter, r *http.Request) {
	var req createPickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, service.NewValidationError("invalid request body"))
		return
	}

	pick, err := s.picks.Create(r.Context(), userIDFromContext(r.Context()), service.CreatePickInput{
		ProjectionID:   req.ProjectionID,
		PickType:       models.PickType(req.PickType),
		PlayerName:     req.PlayerName,
		PlayerImageURL: req.PlayerImageURL,
		StatType:       req.StatType,
		LineScore:      req.LineScore,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPickPayload(pick))
}

func (s *Server) handleListPicks(w http.ResponseWriter, r *http.Request) {
	picks, err := s.picks.ListForUser(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	payloads := make([]pickPayload, 0, len(picks))
	for _, p := range picks {
		payloads = append(payloads, toPickPayload(p))
	}

	writeJSON(w, http.StatusOK, payloads)
}

func (s *Server) handleResolvePick(w http.ResponseWriter, r *http.Request) {
	pickID := mux.Vars(r)["pickId"]

	pick, err := s.picks.Resolve(r.Context(), pickID, userIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPickPayload(pick))
}

func (s *Server) handleResolveAllPicks(w http.ResponseWriter, r *http.Request) {
	result, err := s.picks.ResolveAll(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"processed": result.Processed,
		"wins":      result.Wins,
		"losses":    result.Losses,
	})
}
