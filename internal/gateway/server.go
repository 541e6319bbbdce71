package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"truco-lite/bridge"
	"truco-lite/card"
	"truco-lite/internal/ledger"
	"truco-lite/replay"
)

// Server serves live matches over HTTP and WebSocket.
type Server struct {
	r       *chi.Mux
	ledger  ledger.Service
	logger  zerolog.Logger
	newSeed func() int64

	mu      sync.RWMutex
	matches map[string]*match
}

func New(ledgerService ledger.Service) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		ledger:  ledgerService,
		logger:  log.With().Str("component", "gateway").Logger(),
		newSeed: func() int64 { return time.Now().UnixNano() },
		matches: make(map[string]*match),
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)

	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	s.r.Route("/matches", func(r chi.Router) {
		r.Post("/", s.handleCreateMatch)
		r.Get("/", s.handleRecentMatches)
		r.Get("/{id}", s.handleGetMatch)
		r.Get("/{id}/players/{player}", s.handlePlayerView)
		r.Post("/{id}/commands", s.handleCommand)
		r.Get("/{id}/ws", s.handleWebSocket)
	})
	return s
}

func (s *Server) Handler() http.Handler { return s.r }

type errorResponse struct {
	Error string `json:"error"`
}

type createMatchRequest struct {
	Players   []string `json:"players"`
	Threshold uint8    `json:"threshold"`
	Seed      int64    `json:"seed,omitempty"`
	Deck      []string `json:"deck,omitempty"`
}

type createMatchResponse struct {
	matchView
	BuilderState string `json:"builder_state,omitempty"`
}

type commandRequest struct {
	Player  string `json:"player"`
	Command string `json:"command"`
}

func (s *Server) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Players) > bridge.MaxPlayers {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":   fmt.Sprintf("at most %d players can be seated", bridge.MaxPlayers),
			"players": req.Players,
		})
		return
	}

	b := bridge.NewBuilder()
	for _, name := range req.Players {
		if err := b.AddPlayerRaw([]byte(name)); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	b.SetThreshold(req.Threshold)

	opts := bridge.FinalizeOptions{Seed: req.Seed}
	if opts.Seed == 0 {
		opts.Seed = s.newSeed()
	}
	for _, raw := range req.Deck {
		c, err := card.ParseCard(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		opts.Deck = append(opts.Deck, c)
	}

	fin := b.FinalizeWith(opts)
	game, ok := fin.Game()
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":         "match cannot start",
			"builder_state": b.State().String(),
			"players":       b.Players(),
		})
		return
	}

	m := &match{
		id: uuid.NewString(),
		scenario: replay.Scenario{
			Players:   b.Players(),
			Threshold: b.Threshold(),
			Seed:      opts.Seed,
			Deck:      req.Deck,
		},
		game:        game,
		createdAt:   time.Now().UTC(),
		subscribers: make(map[*Connection]struct{}),
	}
	s.mu.Lock()
	s.matches[m.id] = m
	s.mu.Unlock()

	m.mu.Lock()
	view := m.view()
	m.mu.Unlock()
	s.logger.Info().Str("match", m.id).Strs("players", m.scenario.Players).Msg("match created")
	writeJSON(w, http.StatusCreated, createMatchResponse{matchView: view})
}

func (s *Server) lookup(id string) *match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matches[id]
}

func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if m := s.lookup(id); m != nil {
		m.mu.Lock()
		view := m.view()
		m.mu.Unlock()
		writeJSON(w, http.StatusOK, view)
		return
	}
	if s.ledger == nil {
		writeError(w, http.StatusNotFound, "match not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	rec, err := s.ledger.GetMatch(ctx, id)
	if errors.Is(err, ledger.ErrNotFound) {
		writeError(w, http.StatusNotFound, "match not found")
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Str("match", id).Msg("ledger lookup failed")
		writeError(w, http.StatusInternalServerError, "ledger lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleRecentMatches(w http.ResponseWriter, r *http.Request) {
	if s.ledger == nil {
		writeJSON(w, http.StatusOK, map[string]any{"items": []ledger.MatchRecord{}})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	source := ledger.Source(r.URL.Query().Get("source"))
	items, err := s.ledger.RecentMatches(ctx, source, 0)
	if err != nil {
		s.logger.Error().Err(err).Msg("query recent matches failed")
		writeError(w, http.StatusInternalServerError, "query recent matches failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handlePlayerView(w http.ResponseWriter, r *http.Request) {
	m := s.lookup(chi.URLParam(r, "id"))
	if m == nil {
		writeError(w, http.StatusNotFound, "match not found")
		return
	}
	m.mu.Lock()
	view, err := m.viewFor(chi.URLParam(r, "player"))
	m.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	m := s.lookup(chi.URLParam(r, "id"))
	if m == nil {
		writeError(w, http.StatusNotFound, "match not found")
		return
	}
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := s.submit(r.Context(), m, req)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// submit applies one command under the match lock, fans the new state out to
// subscribers and stores the match once it is over.
func (s *Server) submit(ctx context.Context, m *match, req commandRequest) (matchView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.apply(req.Player, req.Command); err != nil {
		s.logger.Debug().Str("match", m.id).Str("player", req.Player).
			Str("command", req.Command).Err(err).Msg("command refused")
		return matchView{}, err
	}
	s.logger.Debug().Str("match", m.id).Str("player", req.Player).Str("command", req.Command).Msg("command applied")

	m.broadcastLocked()
	saved, err := m.saveIfFinished(ctx, s.ledger)
	if err != nil {
		s.logger.Error().Err(err).Str("match", m.id).Msg("save finished match failed")
	} else if saved {
		s.logger.Info().Str("match", m.id).Msg("finished match saved")
	}
	return m.view(), nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
