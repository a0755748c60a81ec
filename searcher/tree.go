package searcher

import (
	"fmt"
	"math"

	"wargame/game"
	"wargame/oracle"
)

// Mode selects how per-ply results combine during propagation.
type Mode int

const (
	// ModeMinimax treats the opponents collectively as a single adversary
	// minimizing the distinguished player's score, alternating MAX and MIN
	// layers across multiple periods. This is the default.
	ModeMinimax Mode = iota

	// ModeMaxN searches a flat one-period tree where every player
	// contributes one child layer. Move generation is independent per
	// player, but propagation is still adversarial toward player 0: the
	// engine tracks a single utility channel, not one per player.
	ModeMaxN
)

func (m Mode) String() string {
	switch m {
	case ModeMinimax:
		return "minimax"
	case ModeMaxN:
		return "maxn"
	default:
		return "unknown"
	}
}

// builder constructs the decision tree in a single top-down pass and
// propagates scores bottom-up. The arena and the leaf counter live here
// explicitly rather than in captured closures.
type builder struct {
	tree   *tree
	table  moveTable
	scores map[string]float64

	// leafSeq is the next leaf's index. Leaves are visited in the same
	// order scenarios were enumerated, so leaf k scores as scenario s<k>.
	leafSeq int
}

// buildTree returns the completed tree, the best first move for the
// distinguished player and the propagated root score.
func buildTree(table moveTable, scores map[string]float64, unit string) (*tree, string, float64) {
	b := &builder{
		tree:   newTree(),
		table:  table,
		scores: scores,
	}

	root := b.tree.add(&Node{
		Label:     fmt.Sprintf("Game Start (%d %ss)", table.periods, unit),
		Period:    -1,
		IsRoot:    true,
		IsMaxNode: true, // Root selects max among its children
	})

	rootScore := b.buildMax(0, root.ID)
	root.Score = &rootScore

	return b.tree, b.bestMove(root), rootScore
}

// bestMove is the label of the root child with the highest propagated
// score. Ties resolve to the first such child in action-set order.
func (b *builder) bestMove(root *Node) string {
	best := ""
	bestScore := math.Inf(-1)
	for _, childID := range root.Children {
		child := b.tree.nodes[childID]
		if child.Score != nil && *child.Score > bestScore {
			bestScore = *child.Score
			best = child.Label
		}
	}
	if best == "" && len(b.table.actions) > 0 {
		best = b.table.actions[0]
	}
	return best
}

// buildMax adds one MAX-layer node per distinguished-player action. Each
// node's children are chosen by the adversary.
func (b *builder) buildMax(period int, parentID string) float64 {
	if period >= b.table.periods {
		return b.addLeaf(period, parentID)
	}

	best := math.Inf(-1)
	for _, action := range b.table.actions {
		node := b.tree.add(&Node{
			Label:       action,
			PlayerIndex: intPtr(0),
			ParentID:    parentID,
			Period:      period,
			IsMaxNode:   false,
		})
		b.tree.attach(parentID, node.ID)

		score := b.buildMin(period, 0, node.ID)
		node.Score = &score
		best = math.Max(best, score)
	}
	return best
}

// buildMin adds one MIN-layer node per move of the opponent at opp, then
// chains to the next opponent within the period, or to the next period's
// MAX layer once every opponent has played. With zero opponents the MIN
// layer is skipped transparently.
func (b *builder) buildMin(period, opp int, parentID string) float64 {
	numOpp := b.table.numOpponents()
	if numOpp == 0 {
		return b.buildMax(period+1, parentID)
	}

	worst := math.Inf(1)
	for _, move := range b.table.opponents[period][opp] {
		node := b.tree.add(&Node{
			Label:       move,
			PlayerIndex: intPtr(opp + 1),
			ParentID:    parentID,
			Period:      period,
			IsMaxNode:   true,
		})
		b.tree.attach(parentID, node.ID)

		var score float64
		if opp+1 < numOpp {
			score = b.buildMin(period, opp+1, node.ID)
		} else {
			score = b.buildMax(period+1, node.ID)
		}
		node.Score = &score
		worst = math.Min(worst, score)
	}
	return worst
}

func (b *builder) addLeaf(period int, parentID string) float64 {
	score, ok := b.scores[game.ScenarioID(b.leafSeq)]
	if !ok {
		score = oracle.Neutral
	}
	b.leafSeq++

	leaf := b.tree.add(&Node{
		Label:    fmt.Sprintf("Final: %.2f", score),
		ParentID: parentID,
		Period:   period - 1,
		IsLeaf:   true,
		Score:    &score,
	})
	b.tree.attach(parentID, leaf.ID)

	return score
}
