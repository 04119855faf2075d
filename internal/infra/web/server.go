package web

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"course-subscription-platform/internal/domain/ports/repository"
	"course-subscription-platform/internal/usecase"
)

// Server is the read-only admin API: login, dashboard stats and the purchase
// audit trail. Purchases stay single-writer; nothing here mutates them.
type Server struct {
	statsUC   usecase.StatsUseCase
	purchases repository.PurchaseRepository
	auth      *AuthManager
	apiKey    string
	log       *zerolog.Logger
}

func NewServer(
	statsUC usecase.StatsUseCase,
	purchases repository.PurchaseRepository,
	auth *AuthManager,
	apiKey string,
	logger *zerolog.Logger,
) *Server {
	compLog := logger.With().Str("component", "AdminAPI").Logger()
	return &Server{
		statsUC:   statsUC,
		purchases: purchases,
		auth:      auth,
		apiKey:    apiKey,
		log:       &compLog,
	}
}

// RegisterRoutes sets up the routing for the admin API.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Post("/api/v1/auth/login", s.loginHandler)
	r.Group(func(r chi.Router) {
		r.Use(s.sessionMiddleware)
		r.Get("/api/v1/stats", statsHandler(s.statsUC))
		r.Get("/api/v1/purchases", purchasesListHandler(s.purchases))
	})
}

// loginHandler exchanges the configured API key for a short-lived admin
// session token.
func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		APIKey string `json:"api_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if s.apiKey == "" {
		s.log.Error().Msg("admin API key is not configured")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.APIKey), []byte(s.apiKey)) != 1 {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	token, err := s.auth.Mint(w)
	if err != nil {
		http.Error(w, "Failed to mint session", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"token": token})
}

func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.auth.ParseFromRequest(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
