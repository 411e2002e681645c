package httpapi

import (
	"encoding/json"
	"net/http"

	"propbets/models"
	"propbets/service"

	"github.com/gorilla/mux"
)

type createBetRequest struct {
	Player   string  `json:"player"`
	Stat     string  `json:"stat"`
	Line     float64 `json:"line"`
	PickType string  `json:"pickType"`
}

type betPayload struct {
	ID              string               `json:"id"`
	CreatorID       string               `json:"creatorId"`
	Player          string               `json:"player"`
	Stat            string               `json:"stat"`
	Line            float64              `json:"line"`
	CreatorPickType models.PickType      `json:"creatorPickType"`
	Status          models.BetStatus     `json:"status"`
	Outcome         *models.Outcome      `json:"outcome"`
	CreatedAt       string               `json:"createdAt"`
	CreatorUsername string               `json:"creatorUsername,omitempty"`
	Participants    []participantPayload `json:"participants,omitempty"`
	IsCreator       *bool                `json:"isCreator,omitempty"`
	YourPick        *models.PickType     `json:"yourPick,omitempty"`
	YourOutcome     *models.Outcome      `json:"yourOutcome,omitempty"`
}

type participantPayload struct {
	UserID   string          `json:"userId"`
	Username string          `json:"username"`
	PickType models.PickType `json:"pickType"`
	Outcome  *models.Outcome `json:"outcome"`
}

func toBetPayload(bet *models.CustomBet) betPayload {
	return betPayload{
		ID:              bet.ID,
		CreatorID:       bet.CreatorID,
		Player:          bet.Player,
		Stat:            bet.Stat,
		Line:            bet.Line,
		CreatorPickType: bet.CreatorPickType,
		Status:          bet.Status,
		Outcome:         bet.Outcome,
		CreatedAt:       bet.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toDetailPayload(detail *models.BetDetail) betPayload {
	payload := toBetPayload(&detail.CustomBet)
	payload.CreatorUsername = detail.CreatorUsername
	for _, p := range detail.Participants {
		payload.Participants = append(payload.Participants, participantPayload{
			UserID:   p.UserID,
			Username: p.Username,
			PickType: p.PickType,
			Outcome:  p.Outcome,
		})
	}
	return payload
}

func (s *Server) handleCreateBet(w http.ResponseWriter, r *http.Request) {
	var req createBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, service.NewValidationError("invalid request body"))
		return
	}

	bet, err := s.customBets.Create(r.Context(), userIDFromContext(r.Context()),
		req.Player, req.Stat, req.Line, models.PickType(req.PickType))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBetPayload(bet))
}

func (s *Server) handleListBets(w http.ResponseWriter, r *http.Request) {
	views, err := s.customBets.ListForUser(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	payloads := make([]betPayload, 0, len(views))
	for _, view := range views {
		payload := toDetailPayload(&view.BetDetail)
		isCreator := view.IsCreator
		payload.IsCreator = &isCreator
		payload.YourPick = view.YourPick
		payload.YourOutcome = view.YourOutcome
		payloads = append(payloads, payload)
	}

	writeJSON(w, http.StatusOK, payloads)
}

func (s *Server) handleGetBet(w http.ResponseWriter, r *http.Request) {
	betID := mux.Vars(r)["betId"]

	detail, err := s.customBets.GetDetail(r.Context(), betID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toDetailPayload(detail))
}

type joinResponse struct {
	Bet         betPayload      `json:"bet"`
	YourPick    models.PickType `json:"yourPick"`
	CreatorPick models.PickType `json:"creatorPick"`
	Outcome     models.Outcome  `json:"outcome"`
	YourResult  models.Outcome  `json:"yourResult"`
}

func (s *Server) handleJoinBet(w http.ResponseWriter, r *http.Request) {
	betID := mux.Vars(r)["betId"]

	result, err := s.customBets.Join(r.Context(), betID, userIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, joinResponse{
		Bet:         toBetPayload(result.Bet),
		YourPick:    result.YourPick,
		CreatorPick: result.CreatorPick,
		Outcome:     result.Outcome,
		YourResult:  result.YourResult,
	})
}

func (s *Server) handleDeclineBet(w http.ResponseWriter, r *http.Request) {
	betID := mux.Vars(r)["betId"]

	if err := s.customBets.Decline(r.Context(), betID, userIDFromContext(r.Context())); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": string(models.BetStatusDeclined)})
}

func (s *Server) handleResolveBet(w http.ResponseWriter, r *http.Request) {
	betID := mux.Vars(r)["betId"]

	result, err := s.customBets.Resolve(r.Context(), betID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"outcome":      result.Outcome,
		"participants": result.ParticipantsCount,
	})
}

func (s *Server) handleRetrofit(w http.ResponseWriter, r *http.Request) {
	count, err := s.customBets.RetrofitCreatorParticipants(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"retrofitted": count})
}
