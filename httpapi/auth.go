package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"propbets/models"
	"propbets/service"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const userIDKey contextKey = "userID"

// userIDFromContext returns the authenticated user ID set by requireAuth
func userIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// issueToken signs a JWT for the user
func (s *Server) issueToken(userID string, expiry time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// requireAuth verifies the bearer token and stores the user ID on the context
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing or invalid authorization header"})
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(s.jwtSecret), nil
		})
		if err != nil || !token.Valid {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid or expired token"})
			return
		}

		claims := token.Claims.(*jwt.RegisteredClaims)
		ctx := context.WithValue(r.Context(), userIDKey, claims.Subject)
		next(w, r.WithContext(ctx))
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type guestRequest struct {
	Username string `json:"username"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *userPayload `json:"user"`
}

type userPayload struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	TotalPicks int     `json:"totalPicks"`
	WinRate    float64 `json:"winRate"`
}

func toUserPayload(u *models.User) *userPayload {
	return &userPayload{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Wins:       u.Wins,
		Losses:     u.Losses,
		TotalPicks: u.TotalPicks(),
		WinRate:    u.WinRate(),
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, service.NewValidationError("invalid request body"))
		return
	}

	user, err := s.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := s.issueToken(user.ID, s.jwtExpiry)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: toUserPayload(user)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, service.NewValidationError("invalid request body"))
		return
	}

	user, err := s.users.Authenticate(r.Context(), req.Login, req.Password)
	if err != nil {
		if service.IsAuthorization(err) {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
			return
		}
		writeError(w, err)
		return
	}

	token, err := s.issueToken(user.ID, s.jwtExpiry)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, User: toUserPayload(user)})
}

func (s *Server) handleGuest(w http.ResponseWriter, r *http.Request) {
	var req guestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, service.NewValidationError("invalid request body"))
		return
	}

	user, err := s.users.GetOrCreateGuest(r.Context(), req.Username)
	if err != nil {
		writeError(w, err)
		return
	}

	// Guest sessions run longer so casual users stay signed in.
	token, err := s.issueToken(user.ID, s.guestExpiry)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, User: toUserPayload(user)})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetProfile(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserPayload(user))
}
