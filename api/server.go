package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mcp-training/game2048/game/service"
	"github.com/wricardo/mcp-training/game2048/transport/websocket"
)

// DefaultMaxBodyBytes bounds request bodies when Options leaves it unset.
const DefaultMaxBodyBytes = 64 << 10

// Options holds the optional collaborators of a Server.
type Options struct {
	// Scores enables /scores. Nil answers 404.
	Scores service.ScoreBoard
	// MCP enables POST /mcp.
	MCP          *server.MCPServer
	Logger       *log.Logger
	MaxBodyBytes int64
}

// Server represents the REST API server
type Server struct {
	service service.GameService
	scores  service.ScoreBoard
	hub     *websocket.Hub
	mcp     *server.MCPServer
	logger  *log.Logger
	maxBody int64
	router  *mux.Router
}

// NewServer creates a new API server. hub may be nil, which disables the
// websocket endpoint.
func NewServer(gameService service.GameService, hub *websocket.Hub, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}

	s := &Server{
		service: gameService,
		scores:  opts.Scores,
		hub:     hub,
		mcp:     opts.MCP,
		logger:  opts.Logger.WithPrefix("api"),
		maxBody: opts.MaxBodyBytes,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Use(requestIDMiddleware, s.accessLog)

	// Game operations
	game := s.router.PathPrefix("/game").Subrouter()
	game.HandleFunc("/new", s.handleNewGame).Methods("POST")
	game.HandleFunc("/move", s.handleMove).Methods("POST")
	game.HandleFunc("/rules", s.handleRules).Methods("GET")
	if s.hub != nil {
		game.HandleFunc("/ws", s.hub.ServeWS).Methods("GET")
	}

	// Scoreboard
	s.router.HandleFunc("/scores", s.handleTopScores).Methods("GET")
	s.router.HandleFunc("/scores", s.handleSubmitScore).Methods("POST")

	if s.mcp != nil {
		s.router.HandleFunc("/mcp", s.handleMCP).Methods("POST")
	}

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, service.ErrTypeNotFound, "no route for "+r.URL.Path)
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, service.ErrTypeBadRequest, "method "+r.Method+" not allowed")
	})
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

func respondError(w http.ResponseWriter, status int, errType, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Type: errType})
}

// fail answers with the status matching err. Internal errors are logged.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	errType := service.ErrorType(err)
	status := statusFor(errType)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", RequestID(r.Context()), "err", err)
	}
	respondError(w, status, errType, err.Error())
}

// decode reads a JSON body into v. An empty body leaves v unchanged when
// allowEmpty is set.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) bool {
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	defer body.Close()

	err := json.NewDecoder(body).Decode(v)
	if err == nil || (allowEmpty && errors.Is(err, io.EOF)) {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respondError(w, http.StatusRequestEntityTooLarge, service.ErrTypeBadRequest, "request body too large")
		return false
	}
	respondError(w, http.StatusBadRequest, service.ErrTypeBadRequest, "Invalid request body: "+err.Error())
	return false
}

// Game Handlers

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req service.NewGameRequest
	if !s.decode(w, r, &req, true) {
		return
	}

	state, err := s.service.NewGame(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req service.MoveRequest
	if !s.decode(w, r, &req, false) {
		return
	}

	result, err := s.service.Move(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.service.Rules(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rules)
}

// Scoreboard Handlers

func (s *Server) handleTopScores(w http.ResponseWriter, r *http.Request) {
	if s.scores == nil {
		s.fail(w, r, service.ErrScoreboardDisabled)
		return
	}

	var query service.TopScoresQuery
	for name, dst := range map[string]*int{"board_size": &query.BoardSize, "limit": &query.Limit} {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, service.ErrTypeBadRequest, name+" must be an integer")
			return
		}
		*dst = v
	}

	entries, err := s.scores.Top(r.Context(), query)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if entries == nil {
		entries = []service.ScoreEntry{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"scores": entries,
		"count":  len(entries),
	})
}

func (s *Server) handleSubmitScore(w http.ResponseWriter, r *http.Request) {
	if s.scores == nil {
		s.fail(w, r, service.ErrScoreboardDisabled)
		return
	}

	var req service.SubmitScoreRequest
	if !s.decode(w, r, &req, false) {
		return
	}

	entry, err := s.scores.Submit(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if s.hub != nil {
		s.hub.Broadcast("score", entry)
	}

	respondJSON(w, http.StatusCreated, entry)
}

// MCP Handler

func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		respondError(w, http.StatusBadRequest, service.ErrTypeBadRequest, "Failed to read request")
		return
	}
	defer r.Body.Close()

	response := s.mcp.HandleMessage(r.Context(), body)
	if response == nil {
		// Notifications have no reply
		w.WriteHeader(http.StatusAccepted)
		return
	}

	respondJSON(w, http.StatusOK, response)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status": "healthy",
	}
	if s.hub != nil {
		health["connections"] = s.hub.Count()
	}
	respondJSON(w, http.StatusOK, health)
}
