package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"wargame/config"
	"wargame/game"
	"wargame/oracle"
	"wargame/searcher"
)

// Server exposes the search engine over HTTP. Each request gets its own
// controller; the oracle clients are the only shared handles and they are
// stateless.
type Server struct {
	mover  oracle.MoveOracle
	scorer oracle.ScoreOracle
	cfg    config.Config
}

func New(mover oracle.MoveOracle, scorer oracle.ScoreOracle, cfg config.Config) *Server {
	return &Server{
		mover:  mover,
		scorer: scorer,
		cfg:    cfg,
	}
}

// Routes sets up the HTTP routes.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	// Oracle-backed searches are slow; the ceiling here is for runaway
	// requests, not normal latency.
	r.Use(middleware.Timeout(10 * time.Minute))
	r.Use(middleware.Heartbeat("/health"))

	r.Post("/wargame/run", s.handleRun)

	return r
}

type RunRequest struct {
	BusinessGoal   string               `json:"business_goal"`
	PlayerProfiles []game.PlayerProfile `json:"player_profiles"`
	GameState      game.State           `json:"game_state"`
	ActionSet      []string             `json:"action_set"`
	TimePeriods    int                  `json:"time_periods"`
	TimePeriodUnit string               `json:"time_period_unit"`

	// MoveHistory is prior play the move oracle may condition on.
	MoveHistory []game.Ply `json:"move_history,omitempty"`

	// Mode is "minimax" (default) or "maxn".
	Mode string `json:"mode,omitempty"`
}

type RunResponse struct {
	SearchID       string                    `json:"search_id"`
	BestScore      float64                   `json:"best_score"`
	BestMove       string                    `json:"best_move"`
	TreeStructure  map[string]*searcher.Node `json:"tree_structure"`
	TimePeriods    int                       `json:"time_periods"`
	TimePeriodUnit string                    `json:"time_period_unit"`
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	periods := req.TimePeriods
	if periods < 1 {
		periods = s.cfg.DefaultPeriods
	}
	unit := req.TimePeriodUnit
	if unit == "" {
		unit = s.cfg.PeriodUnit
	}

	options := []searcher.Option{
		searcher.WithMovesPerOpponent(s.cfg.MovesPerOpponent),
		searcher.WithScenarioCeiling(s.cfg.ScenarioCeiling),
		searcher.WithBatchSize(s.cfg.BatchSize),
		searcher.WithBatchRetries(s.cfg.BatchRetries),
		searcher.WithCallTimeout(s.cfg.CallTimeout),
		searcher.WithMetrics(),
	}
	if req.Mode == "maxn" {
		options = append(options, searcher.WithMode(searcher.ModeMaxN))
	}
	if len(req.MoveHistory) > 0 {
		options = append(options, searcher.WithMoveHistory(req.MoveHistory))
	}

	controller := searcher.New(s.mover, s.scorer, req.BusinessGoal, req.PlayerProfiles, options...)

	result, err := controller.Run(r.Context(), &req.GameState, req.ActionSet, periods, unit)
	if err != nil {
		if errors.Is(err, searcher.ErrEmptyActionSet) || errors.Is(err, searcher.ErrNoProfiles) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Msg("wargame search failed")
		s.writeError(w, http.StatusInternalServerError, "error running wargame simulation: "+err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, RunResponse{
		SearchID:       result.SearchID,
		BestScore:      result.BestScore,
		BestMove:       result.BestMove,
		TreeStructure:  result.Tree,
		TimePeriods:    result.ActualPeriods,
		TimePeriodUnit: result.TimePeriodUnit,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
