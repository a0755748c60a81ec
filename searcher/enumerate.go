package searcher

import "wargame/game"

// moveTable holds the per-period move sets that feed scenario enumeration
// and tree construction. The distinguished player's action set is fixed
// across periods; opponent move sets are generated per (period, opponent).
type moveTable struct {
	actions   []string     // distinguished player's action set
	opponents [][][]string // [period][opponent][moves], opponents in profile order
	periods   int
}

func (mt moveTable) numOpponents() int {
	if len(mt.opponents) == 0 {
		return 0
	}
	return len(mt.opponents[0])
}

// enumerateScenarios expands the Cartesian product of per-player moves
// across all periods into terminal scenarios, in the fixed order: period 0
// (distinguished player, then opponents in profile order), period 1, and so
// on. Scenario ids s0, s1, ... follow product-iteration order; tree
// construction visits its leaves in the same order, which is what joins a
// leaf to its score.
func enumerateScenarios(table moveTable, profiles []game.PlayerProfile) []game.Scenario {
	paths := extendByPeriod(table, profiles, 0, nil)

	scenarios := make([]game.Scenario, len(paths))
	for i, plies := range paths {
		scenarios[i] = game.Scenario{ID: game.ScenarioID(i), Plies: plies}
	}
	return scenarios
}

func extendByPeriod(table moveTable, profiles []game.PlayerProfile, period int, prefix []game.Ply) [][]game.Ply {
	if period >= table.periods {
		return [][]game.Ply{prefix}
	}

	var paths [][]game.Ply
	for _, action := range table.actions {
		next := appendPly(prefix, game.Ply{Period: period + 1, Player: profiles[0].Name, Move: action})
		paths = append(paths, extendByOpponent(table, profiles, period, 0, next)...)
	}
	return paths
}

func extendByOpponent(table moveTable, profiles []game.PlayerProfile, period, opp int, prefix []game.Ply) [][]game.Ply {
	if opp >= table.numOpponents() {
		return extendByPeriod(table, profiles, period+1, prefix)
	}

	var paths [][]game.Ply
	for _, move := range table.opponents[period][opp] {
		next := appendPly(prefix, game.Ply{Period: period + 1, Player: profiles[opp+1].Name, Move: move})
		paths = append(paths, extendByOpponent(table, profiles, period, opp+1, next)...)
	}
	return paths
}

// appendPly copies before appending so sibling branches never share a
// backing array.
func appendPly(prefix []game.Ply, ply game.Ply) []game.Ply {
	next := make([]game.Ply, len(prefix), len(prefix)+1)
	copy(next, prefix)
	return append(next, ply)
}
