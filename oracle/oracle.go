package oracle

import (
	"context"

	"wargame/game"
)

// The search engine consumes two oracle operations. Both are expensive,
// non-deterministic and remote; callers must pass a context with a timeout
// and be prepared to fall back on any error. Neither operation is ever
// retried by the adapter itself.

// MoveRequest asks for candidate moves for one player at one period.
type MoveRequest struct {
	State    *game.State        `json:"game_state"`
	Goal     string             `json:"business_goal"`
	Profile  game.PlayerProfile `json:"company_profile"`
	Period   int                `json:"period"`
	NumMoves int                `json:"num_moves"`
	History  []game.Ply         `json:"move_history,omitempty"`
}

// MoveProposal is the strict result schema for a move generation call. An
// adapter must either produce this or return an error; the engine never
// inspects untyped oracle output.
type MoveProposal struct {
	Moves []string `json:"moves"`
}

type MoveOracle interface {
	ProposeMoves(ctx context.Context, req MoveRequest) (MoveProposal, error)
}

// ScoreRequest submits a batch of terminal scenarios for evaluation.
type ScoreRequest struct {
	State     *game.State     `json:"game_state"`
	Goal      string          `json:"business_goal"`
	Scenarios []game.Scenario `json:"scenarios"`
	Periods   int             `json:"time_periods"`
}

// ScoreSheet maps scenario id to a utility in [0, 1] for the distinguished
// player. The sheet may be partial; the engine fills gaps with Neutral.
type ScoreSheet struct {
	Scores map[string]float64 `json:"scores"`
}

type ScoreOracle interface {
	ScoreScenarios(ctx context.Context, req ScoreRequest) (ScoreSheet, error)
}
