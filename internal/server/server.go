package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gravitas-games/nectar/internal/config"
	"github.com/gravitas-games/nectar/internal/game"
	"github.com/gravitas-games/nectar/internal/history"
)

// Server represents the game server
type Server struct {
	config   *config.Config
	session  *Session
	upgrader websocket.Upgrader
	httpSrv  *http.Server

	seats   SeatStore
	auth    *SeatAuth // nil in hot-seat mode
	history *history.Store
	logger  *slog.Logger

	// Shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new server instance. ledger may be nil.
func New(cfg *config.Config, ledger *history.Store, logger *slog.Logger, opts ...game.Option) (*Server, error) {
	logger.Info("initializing server")

	ctx, cancel := context.WithCancel(context.Background())

	seats, err := NewSeatStore(ctx, cfg.Redis)
	if err != nil {
		cancel()
		return nil, err
	}
	if cfg.Redis.Address != "" {
		logger.Info("connected to redis", "addr", cfg.Redis.Address)
	}

	var recorder ResultRecorder
	if ledger != nil {
		recorder = ledger
	}
	session, err := NewSession(cfg, recorder, logger, opts...)
	if err != nil {
		seats.Close()
		cancel()
		return nil, err
	}

	srv := &Server{
		config:  cfg,
		session: session,
		seats:   seats,
		history: ledger,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			Subprotocols:    []string{"access_token"},
		},
	}
	srv.upgrader.CheckOrigin = srv.checkOrigin
	if cfg.Auth.Enabled() {
		srv.auth = NewSeatAuth(cfg.Auth, seats, logger)
	}

	logger.Info("server initialized", "auth", cfg.Auth.Enabled(), "history", ledger != nil)
	return srv, nil
}

// Session returns the game session.
func (s *Server) Session() *Session { return s.session }

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /state", s.handleState)
	mux.HandleFunc("GET /history", s.handleHistory)
	mux.HandleFunc("POST /seats/{seat}", s.handleClaimSeat)
	mux.HandleFunc("DELETE /seats/{seat}", s.handleReleaseSeat)
	return mux
}

// Start begins listening for connections
func (s *Server) Start(addr string) error {
	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("listening", "ws", fmt.Sprintf("ws://%s/ws", addr), "health", fmt.Sprintf("http://%s/health", addr))

	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	s.logger.Info("shutting down server")

	s.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.httpSrv != nil {
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			s.logger.Error("http server shutdown error", "err", err)
		}
	}

	for _, conn := range s.session.Connections() {
		conn.Close()
	}

	if err := s.seats.Close(); err != nil {
		s.logger.Error("seat store close error", "err", err)
	}

	s.logger.Info("server shutdown complete")
	return nil
}

func (s *Server) checkOrigin(r *http.Request) bool {
	allowed := s.config.Server.AllowedOrigins
	origin := r.Header.Get("Origin")
	if len(allowed) == 0 || origin == "" {
		return true
	}
	for _, o := range allowed {
		if o == origin {
			return true
		}
	}
	return false
}

// handleWebSocket handles WebSocket connection requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	var seat *int
	if s.auth != nil {
		tokenString := extractTokenFromHeader(r)
		if tokenString == "" {
			s.logger.Debug("missing seat token", "remote", r.RemoteAddr)
			http.Error(w, "Missing seat token", http.StatusUnauthorized)
			return
		}
		claims, err := s.auth.Validate(r.Context(), s.session.ID, tokenString)
		if err != nil {
			s.logger.Info("invalid seat token", "remote", r.RemoteAddr, "err", err)
			http.Error(w, fmt.Sprintf("Invalid token: %v", err), http.StatusUnauthorized)
			return
		}
		seat = &claims.Seat
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	conn := NewConnection(ws, s, seat)
	s.session.Register(conn)
	conn.SendWelcome()

	conn.Handle() // Blocking
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		http.Error(w, "History disabled", http.StatusNotFound)
		return
	}
	results, err := s.history.Recent(r.Context(), s.config.History.RecentLimit)
	if err != nil {
		s.logger.Error("failed to read history", "err", err)
		http.Error(w, "Failed to read history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// SeatResponse is returned when a seat is claimed
type SeatResponse struct {
	Seat      int       `json:"seat"`
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Server) seatParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	if s.auth == nil {
		http.Error(w, "Seat tokens disabled", http.StatusNotFound)
		return 0, false
	}
	seat, err := strconv.Atoi(r.PathValue("seat"))
	if err != nil {
		http.Error(w, "Invalid seat", http.StatusBadRequest)
		return 0, false
	}
	if seat < 0 || seat >= s.session.PlayerCount() {
		http.Error(w, ErrSeatRange.Error(), http.StatusNotFound)
		return 0, false
	}
	return seat, true
}

func (s *Server) handleClaimSeat(w http.ResponseWriter, r *http.Request) {
	seat, ok := s.seatParam(w, r)
	if !ok {
		return
	}

	token, claims, err := s.auth.Claim(r.Context(), s.session.ID, seat)
	if errors.Is(err, ErrSeatTaken) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		s.logger.Error("failed to claim seat", "seat", seat, "err", err)
		http.Error(w, "Failed to claim seat", http.StatusInternalServerError)
		return
	}

	s.session.MarkSeatClaimed(seat, claims.IssuedAt.Time)
	writeJSON(w, http.StatusCreated, SeatResponse{
		Seat:      seat,
		SessionID: s.session.ID,
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
	})
}

func (s *Server) handleReleaseSeat(w http.ResponseWriter, r *http.Request) {
	seat, ok := s.seatParam(w, r)
	if !ok {
		return
	}

	claims, err := s.auth.Validate(r.Context(), s.session.ID, extractTokenFromHeader(r))
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid token: %v", err), http.StatusUnauthorized)
		return
	}
	if claims.Seat != seat {
		http.Error(w, "Token is for another seat", http.StatusForbidden)
		return
	}
	if err := s.auth.Release(r.Context(), claims); err != nil {
		s.logger.Error("failed to release seat", "seat", seat, "err", err)
		http.Error(w, "Failed to release seat", http.StatusInternalServerError)
		return
	}

	s.session.ReleaseSeat(seat)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
