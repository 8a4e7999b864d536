package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"typerace/auth"
	"typerace/game/service"
	"typerace/game/words"
	"typerace/storage"
	"typerace/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.RaceService
	tokens  *auth.Manager
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server
func NewServer(raceService service.RaceService, tokens *auth.Manager, hub *websocket.Hub) *Server {
	s := &Server{
		service: raceService,
		tokens:  tokens,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Auth
	api.HandleFunc("/auth/guest", s.handleCreateGuest).Methods("POST")
	api.HandleFunc("/auth/me", s.handleMe).Methods("GET")
	api.HandleFunc("/auth/logout", s.handleLogout).Methods("POST")

	// Rooms
	api.HandleFunc("/rooms", s.handleListRooms).Methods("GET")

	// Results and rankings
	api.HandleFunc("/games/results", s.handleSubmitResult).Methods("POST")
	api.HandleFunc("/leaderboard", s.handleLeaderboard).Methods("GET")

	// Practice material
	api.HandleFunc("/words", s.handleGenerateWords).Methods("GET")

	// Health
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Auth Handlers

func (s *Server) handleCreateGuest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username,omitempty"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	session, err := s.service.CreateGuest(r.Context(), req.Username)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	ident, err := s.tokens.FromRequest(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}

	user, err := s.service.GetUser(r.Context(), ident.ID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	// Tokens are stateless; the client discards its copy.
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Room Handlers

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.service.ListRooms(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(rooms),
		"rooms": rooms,
	})
}

// Result Handlers

func (s *Server) handleSubmitResult(w http.ResponseWriter, r *http.Request) {
	ident, err := s.tokens.FromRequest(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}

	var sub service.ResultSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.SubmitResult(r.Context(), ident, sub)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGuestNotAllowed):
			respondError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrInvalidGameMode), errors.Is(err, service.ErrInvalidResult):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := service.LeaderboardQuery{
		GameMode: query.Get("mode"),
		Period:   query.Get("period"),
	}
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			q.Page = p
		}
	}
	if sizeStr := query.Get("page_size"); sizeStr != "" {
		if n, err := strconv.Atoi(sizeStr); err == nil && n > 0 {
			q.PageSize = n
		}
	}

	page, err := s.service.Leaderboard(r.Context(), q)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPeriod), errors.Is(err, service.ErrInvalidGameMode):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	respondJSON(w, http.StatusOK, page)
}

// Word Handler

func (s *Server) handleGenerateWords(w http.ResponseWriter, r *http.Request) {
	count := words.RaceWordCount
	if countStr := r.URL.Query().Get("count"); countStr != "" {
		if n, err := strconv.Atoi(countStr); err == nil && n > 0 {
			count = n
		}
	}

	list, err := s.service.GenerateWords(r.Context(), count)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(list),
		"words": list,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "websocket unavailable", http.StatusServiceUnavailable)
		return
	}
	s.hub.ServeWS(w, r)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
