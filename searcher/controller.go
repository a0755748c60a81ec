package searcher

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"wargame/game"
	"wargame/metrics"
	"wargame/oracle"
)

// Invalid requests are rejected outright; everything else the controller
// recovers from locally.
var (
	ErrEmptyActionSet = errors.New("distinguished player's action set must not be empty")
	ErrNoProfiles     = errors.New("at least one player profile is required")
)

// stage names the controller's progress through one search. Transitions
// only move forward; a failure inside a stage falls back locally instead of
// moving the machine backward or aborting it.
type stage int

const (
	stageIdle stage = iota
	stageGeneratingOpponentMoves
	stageEnumeratingScenarios
	stageBatchScoring
	stageBuildingTree
	stageDone
)

func (s stage) String() string {
	switch s {
	case stageIdle:
		return "Idle"
	case stageGeneratingOpponentMoves:
		return "GeneratingOpponentMoves"
	case stageEnumeratingScenarios:
		return "EnumeratingScenarios"
	case stageBatchScoring:
		return "BatchScoring"
	case stageBuildingTree:
		return "BuildingTree"
	case stageDone:
		return "Done"
	default:
		return "Unknown"
	}
}

type Option func(c *Controller)

func WithMode(mode Mode) Option {
	return func(c *Controller) {
		c.mode = mode
	}
}

func WithMovesPerOpponent(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.movesPerOpponent = n
		}
	}
}

func WithScenarioCeiling(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.ceiling = n
		}
	}
}

func WithBatchSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithBatchRetries sets how many times a failed scoring batch is reissued
// before defaulting to neutral scores. Zero disables the retry.
func WithBatchRetries(n int) Option {
	return func(c *Controller) {
		if n >= 0 {
			c.batchRetries = n
		}
	}
}

func WithCallTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.callTimeout = d
		}
	}
}

// WithMoveHistory forwards prior-period moves to the MoveOracle so opponent
// proposals can condition on what has already been played.
func WithMoveHistory(history []game.Ply) Option {
	return func(c *Controller) {
		c.history = history
	}
}

func WithMetrics() Option {
	return func(c *Controller) {
		c.metrics = metrics.NewCollector()
	}
}

// Controller coordinates one search: opponent move generation, scenario
// enumeration, budget planning, batched scoring and tree construction. One
// controller instance serves one search at a time; it holds no state across
// invocations beyond its immutable configuration.
type Controller struct {
	mover    oracle.MoveOracle
	scorer   oracle.ScoreOracle
	goal     string
	profiles []game.PlayerProfile
	history  []game.Ply

	mode             Mode
	movesPerOpponent int
	ceiling          int
	batchSize        int
	batchRetries     int
	callTimeout      time.Duration
	metrics          metrics.Collector

	stage stage
}

// Result is what one completed search returns. The tree mapping is a pure
// value: serializable, owned by the caller, never reused.
type Result struct {
	SearchID       string           `json:"search_id"`
	BestScore      float64          `json:"best_score"`
	BestMove       string           `json:"best_move"`
	Tree           map[string]*Node `json:"tree_structure"`
	ActualPeriods  int              `json:"time_periods"`
	TimePeriodUnit string           `json:"time_period_unit"`

	Metric metrics.SearchMetric `json:"-"`
}

func New(mover oracle.MoveOracle, scorer oracle.ScoreOracle, goal string, profiles []game.PlayerProfile, options ...Option) *Controller {
	if mover == nil || scorer == nil {
		panic("both oracles are required")
	}

	c := &Controller{ // Default values
		mover:            mover,
		scorer:           scorer,
		goal:             goal,
		profiles:         profiles,
		mode:             ModeMinimax,
		movesPerOpponent: 2,
		ceiling:          1500,
		batchSize:        100,
		batchRetries:     1,
		callTimeout:      60 * time.Second,
		metrics:          metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Run searches from state for the best first move in actionSet. The search
// is fail-open: oracle failures degrade to deterministic fallbacks and the
// run still completes. Cancelling ctx aborts the search between stages and
// yields no result.
func (c *Controller) Run(ctx context.Context, state *game.State, actionSet []string, periods int, unit string) (*Result, error) {
	if len(c.profiles) == 0 {
		return nil, ErrNoProfiles
	}
	if len(actionSet) == 0 {
		// Generating moves for the distinguished player is the upstream
		// agent's job; fabricating them here would hide that failure.
		return nil, ErrEmptyActionSet
	}
	if periods < 1 {
		periods = 1
	}

	searchID := uuid.NewString()
	numOpponents := len(c.profiles) - 1
	c.stage = stageIdle
	c.metrics.Start(searchID, c.mode.String(), periods)

	// The horizon cap applies before any move generation so opponent-move
	// oracle calls are never issued for periods that will be discarded.
	horizon := planHorizon(len(actionSet), c.movesPerOpponent, numOpponents, periods, c.ceiling)
	if c.mode == ModeMaxN {
		horizon = 1
	}
	if horizon < periods {
		log.Warn().Msgf("search %s: reducing horizon from %d to %d periods to stay under %d scenarios", searchID, periods, horizon, c.ceiling)
	}
	c.metrics.SetHorizon(horizon, horizon < periods)

	if err := c.enterStage(ctx, stageGeneratingOpponentMoves, searchID); err != nil {
		return nil, err
	}
	table, err := c.generateOpponentMoves(ctx, state, actionSet, horizon, numOpponents)
	if err != nil {
		return nil, err
	}

	if err := c.enterStage(ctx, stageEnumeratingScenarios, searchID); err != nil {
		return nil, err
	}
	scenarios := enumerateScenarios(table, c.profiles)
	log.Info().Msgf("search %s: enumerated %d scenarios over %d periods", searchID, len(scenarios), horizon)

	if err := c.enterStage(ctx, stageBatchScoring, searchID); err != nil {
		return nil, err
	}
	scores, err := c.scoreScenarios(ctx, state, scenarios, horizon, searchID)
	if err != nil {
		return nil, err
	}

	if err := c.enterStage(ctx, stageBuildingTree, searchID); err != nil {
		return nil, err
	}
	tr, bestMove, bestScore := buildTree(table, scores, unit)

	c.stage = stageDone
	metric := c.metrics.Complete()
	log.Info().Msgf("search %s: done, best move %q with score %.3f", searchID, bestMove, bestScore)

	return &Result{
		SearchID:       searchID,
		BestScore:      bestScore,
		BestMove:       bestMove,
		Tree:           tr.nodes,
		ActualPeriods:  horizon,
		TimePeriodUnit: unit,
		Metric:         metric,
	}, nil
}

// enterStage is the only place the machine advances, and the only place a
// cancelled context is honored: aborting mid-stage is not required, between
// stages it is.
func (c *Controller) enterStage(ctx context.Context, next stage, searchID string) error {
	if err := ctx.Err(); err != nil {
		log.Warn().Msgf("search %s: aborted before %s", searchID, next)
		return err
	}
	c.stage = next
	log.Info().Msgf("search %s: %s", searchID, next)
	return nil
}

// generateOpponentMoves issues one MoveOracle call per (period, opponent)
// pair. The pairs have no data dependency, so they fan out concurrently;
// each writes to its own preallocated slot and no two share state.
func (c *Controller) generateOpponentMoves(ctx context.Context, state *game.State, actionSet []string, horizon, numOpponents int) (moveTable, error) {
	byPeriod := make([][][]string, horizon)
	for p := range byPeriod {
		byPeriod[p] = make([][]string, numOpponents)
	}

	g, gctx := errgroup.WithContext(ctx)
	for period := 0; period < horizon; period++ {
		for opp := 0; opp < numOpponents; opp++ {
			period, opp := period, opp
			g.Go(func() error {
				byPeriod[period][opp] = c.proposeMoves(gctx, state, period, opp)
				return gctx.Err()
			})
		}
	}
	if err := g.Wait(); err != nil {
		return moveTable{}, err
	}

	return moveTable{
		actions:   actionSet,
		opponents: byPeriod,
		periods:   horizon,
	}, nil
}

func (c *Controller) proposeMoves(ctx context.Context, state *game.State, period, opp int) []string {
	profile := c.profiles[opp+1]

	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	c.metrics.AddOracleCall()
	proposal, err := c.mover.ProposeMoves(callCtx, oracle.MoveRequest{
		State:    state,
		Goal:     c.goal,
		Profile:  profile,
		Period:   period,
		NumMoves: c.movesPerOpponent,
		History:  c.history,
	})
	if err != nil {
		log.Warn().Err(err).Msgf("move generation failed for %s in period %d, using fallback moves", profile.Name, period+1)
		c.metrics.AddFallback()
		return oracle.FallbackMoves(profile.Name, c.movesPerOpponent)
	}
	return oracle.PadMoves(proposal.Moves, profile.Name, c.movesPerOpponent)
}

// scoreScenarios submits every terminal scenario to the ScoreOracle: one
// call when the count fits in a single batch, otherwise independent batches
// merged under a lock. The merged map is completed with neutral defaults so
// propagation never sees a missing score.
func (c *Controller) scoreScenarios(ctx context.Context, state *game.State, scenarios []game.Scenario, horizon int, searchID string) (map[string]float64, error) {
	numBatches := (len(scenarios) + c.batchSize - 1) / c.batchSize
	c.metrics.SetScenarios(len(scenarios), numBatches)
	log.Info().Msgf("search %s: scoring %d scenarios in %d batches", searchID, len(scenarios), numBatches)

	merged := make(map[string]float64, len(scenarios))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(scenarios); start += c.batchSize {
		end := min(start+c.batchSize, len(scenarios))
		batch := scenarios[start:end]
		g.Go(func() error {
			scores := c.scoreBatch(gctx, state, batch, horizon)
			mu.Lock()
			for id, score := range scores {
				merged[id] = score
			}
			mu.Unlock()
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return oracle.FillMissing(merged, scenarios), nil
}

func (c *Controller) scoreBatch(ctx context.Context, state *game.State, batch []game.Scenario, horizon int) map[string]float64 {
	req := oracle.ScoreRequest{
		State:     state,
		Goal:      c.goal,
		Scenarios: batch,
		Periods:   horizon,
	}

	for attempt := 0; ; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
		c.metrics.AddOracleCall()
		sheet, err := c.scorer.ScoreScenarios(callCtx, req)
		cancel()

		if err == nil {
			return sheet.Scores
		}
		if attempt >= c.batchRetries || ctx.Err() != nil {
			log.Warn().Err(err).Msgf("batch of %d scenarios failed after %d attempts, defaulting to neutral scores", len(batch), attempt+1)
			c.metrics.AddFallback()
			return nil
		}
		log.Warn().Err(err).Msgf("batch of %d scenarios failed, retrying", len(batch))
		time.Sleep(time.Duration(50+rand.Intn(200)) * time.Millisecond)
	}
}
