package httpapi

import (
	"context"
	"net/http"
	"time"

	"propbets/projections"
	"propbets/service"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

// Server is the HTTP API surface
type Server struct {
	users       service.UserService
	customBets  service.CustomBetService
	picks       service.PickService
	leaderboard service.LeaderboardService
	projections *projections.Service

	jwtSecret   string
	jwtExpiry   time.Duration
	guestExpiry time.Duration
	corsOrigins []string

	httpServer *http.Server
}

// Config carries the server's non-service settings
type Config struct {
	Addr        string
	JWTSecret   string
	JWTExpiry   time.Duration
	GuestExpiry time.Duration
	CORSOrigins []string
}

// NewServer wires services into an HTTP server
func NewServer(
	cfg Config,
	users service.UserService,
	customBets service.CustomBetService,
	picks service.PickService,
	leaderboard service.LeaderboardService,
	board *projections.Service,
) *Server {
	s := &Server{
		users:       users,
		customBets:  customBets,
		picks:       picks,
		leaderboard: leaderboard,
		projections: board,
		jwtSecret:   cfg.JWTSecret,
		jwtExpiry:   cfg.JWTExpiry,
		guestExpiry: cfg.GuestExpiry,
		corsOrigins: cfg.CORSOrigins,
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      corsHandler.Handler(s.Router()),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	return s
}

// Router builds the route table
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogging)

	r.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", s.handleRegister).Methods("POST")
	auth.HandleFunc("/login", s.handleLogin).Methods("POST")
	auth.HandleFunc("/guest", s.handleGuest).Methods("POST")
	auth.HandleFunc("/profile", s.requireAuth(s.handleProfile)).Methods("GET")

	bets := api.PathPrefix("/custom-bets").Subrouter()
	bets.HandleFunc("", s.requireAuth(s.handleCreateBet)).Methods("POST")
	bets.HandleFunc("", s.requireAuth(s.handleListBets)).Methods("GET")
	bets.HandleFunc("/retrofit", s.requireAuth(s.handleRetrofit)).Methods("POST")
	// Bet detail is public so share links work without an account.
	bets.HandleFunc("/{betId}", s.handleGetBet).Methods("GET")
	bets.HandleFunc("/{betId}/join", s.requireAuth(s.handleJoinBet)).Methods("POST")
	bets.HandleFunc("/{betId}/accept", s.requireAuth(s.handleJoinBet)).Methods("POST")
	bets.HandleFunc("/{betId}/decline", s.requireAuth(s.handleDeclineBet)).Methods("POST")
	bets.HandleFunc("/{betId}/resolve", s.requireAuth(s.handleResolveBet)).Methods("POST")

	picks := api.PathPrefix("/picks").Subrouter()
	picks.HandleFunc("", s.requireAuth(s.handleCreatePick)).Methods("POST")
	picks.HandleFunc("", s.requireAuth(s.handleListPicks)).Methods("GET")
	picks.HandleFunc("/resolve-all", s.requireAuth(s.handleResolveAllPicks)).Methods("POST")
	picks.HandleFunc("/{pickId}/resolve", s.requireAuth(s.handleResolvePick)).Methods("POST")

	leaderboard := api.PathPrefix("/leaderboard").Subrouter()
	leaderboard.HandleFunc("", s.handleLeaderboard).Methods("GET")
	leaderboard.HandleFunc("/my-rank", s.requireAuth(s.handleMyRank)).Methods("GET")

	api.HandleFunc("/prizepicks/projections", s.requireAuth(s.handleProjections)).Methods("GET")

	return r
}

// Run serves until the context is cancelled, then drains connections
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", s.httpServer.Addr).Info("HTTP server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Info("Request handled")
	})
}
