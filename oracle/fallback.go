package oracle

import (
	"fmt"

	"wargame/game"
)

// Neutral is the score assumed for any scenario the oracle failed to rate.
// The search must never fail on a partial or missing oracle response.
const Neutral = 0.5

// PadMoves normalizes an oracle move proposal to exactly n labels: extra
// moves are truncated, missing ones are synthesized deterministically so a
// short or failed oracle call still yields a full action set.
func PadMoves(moves []string, player string, n int) []string {
	if len(moves) > n {
		moves = moves[:n]
	}
	out := make([]string, 0, n)
	out = append(out, moves...)
	for k := len(out); k < n; k++ {
		out = append(out, fmt.Sprintf("%s Alternative %d", player, k+1))
	}
	return out
}

// FallbackMoves is PadMoves for a call that produced nothing at all.
func FallbackMoves(player string, n int) []string {
	return PadMoves(nil, player, n)
}

// FillMissing completes a score sheet over the given scenarios: absent
// entries get Neutral, out-of-range entries are clamped to [0, 1].
func FillMissing(scores map[string]float64, scenarios []game.Scenario) map[string]float64 {
	filled := make(map[string]float64, len(scenarios))
	for _, sc := range scenarios {
		score, ok := scores[sc.ID]
		if !ok {
			filled[sc.ID] = Neutral
			continue
		}
		filled[sc.ID] = clamp(score)
	}
	return filled
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
