package searcher

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// checkPropagation walks the whole tree and verifies the bottom-up
// invariant: a node whose children are chosen by the maximizer scores as
// the max of its children, any other non-leaf scores as the min. Holds for
// trees with at most one opponent, where the is_max_node flag and the
// selecting role coincide.
func checkPropagation(t *testing.T, tr *tree) {
	t.Helper()
	for _, node := range tr.nodes {
		if node.IsLeaf {
			require.NotNil(t, node.Score, "Leaves must carry a score")
			continue
		}
		require.NotEmpty(t, node.Children, "Non-leaf nodes must have children")
		require.NotNil(t, node.Score, "Non-leaf nodes must have a propagated score")

		best := math.Inf(-1)
		worst := math.Inf(1)
		for _, childID := range node.Children {
			child := tr.nodes[childID]
			require.NotNil(t, child.Score)
			best = math.Max(best, *child.Score)
			worst = math.Min(worst, *child.Score)
		}
		if node.IsMaxNode {
			require.Equal(t, best, *node.Score, "Node %s should take the max of its children", node.ID)
		} else {
			require.Equal(t, worst, *node.Score, "Node %s should take the min of its children", node.ID)
		}
	}
}

func TestBuildTreeZeroOpponentsOnePeriod(t *testing.T) {
	table := moveTable{
		actions:   []string{"Cut Price", "Raise Quality"},
		opponents: [][][]string{{}},
		periods:   1,
	}
	scores := map[string]float64{"s0": 0.3, "s1": 0.8}

	tr, bestMove, bestScore := buildTree(table, scores, "quarter")

	require.Equal(t, "Raise Quality", bestMove)
	require.Equal(t, 0.8, bestScore)
	require.Len(t, tr.nodes, 5, "Root, two action nodes, two leaves")

	root := tr.nodes["node_0"]
	require.True(t, root.IsRoot)
	require.Equal(t, "Game Start (1 quarters)", root.Label)
	require.Equal(t, -1, root.Period)
	require.Len(t, root.Children, 2, "Root has exactly one child per distinguished-player action")

	leaf := tr.nodes[tr.nodes[root.Children[1]].Children[0]]
	require.True(t, leaf.IsLeaf)
	require.Equal(t, "Final: 0.80", leaf.Label)
	require.Equal(t, 0, leaf.Period, "Leaves sit at the last searched period")
	require.Nil(t, leaf.PlayerIndex)

	checkPropagation(t, tr)
}

func TestBuildTreeMinimaxOnePeriodOneOpponent(t *testing.T) {
	table := moveTable{
		actions:   []string{"A", "B"},
		opponents: [][][]string{{{"X", "Y"}}},
		periods:   1,
	}
	// A: min(0.9, 0.2) = 0.2; B: min(0.6, 0.5) = 0.5; root max = 0.5
	scores := map[string]float64{"s0": 0.9, "s1": 0.2, "s2": 0.6, "s3": 0.5}

	tr, bestMove, bestScore := buildTree(table, scores, "quarter")

	require.Equal(t, "B", bestMove, "The adversary punishes A harder than B")
	require.Equal(t, 0.5, bestScore)

	root := tr.nodes["node_0"]
	nodeA := tr.nodes[root.Children[0]]
	require.Equal(t, "A", nodeA.Label)
	require.Equal(t, 0, *nodeA.PlayerIndex)
	require.False(t, nodeA.IsMaxNode, "Action node's children are chosen by the adversary")
	require.Equal(t, 0.2, *nodeA.Score)

	oppX := tr.nodes[nodeA.Children[0]]
	require.Equal(t, "X", oppX.Label)
	require.Equal(t, 1, *oppX.PlayerIndex)
	require.True(t, oppX.IsMaxNode)

	checkPropagation(t, tr)
}

func TestBuildTreeRootInvariantAtDepths(t *testing.T) {
	for _, periods := range []int{1, 2, 3} {
		t.Run(fmt.Sprintf("%d periods", periods), func(t *testing.T) {
			opponents := make([][][]string, periods)
			for p := range opponents {
				opponents[p] = [][]string{{
					fmt.Sprintf("X%d", p+1),
					fmt.Sprintf("Y%d", p+1),
				}}
			}
			table := moveTable{
				actions:   []string{"A", "B"},
				opponents: opponents,
				periods:   periods,
			}

			// Deterministic non-uniform scores over all 4^periods leaves
			count := 1
			for i := 0; i < periods; i++ {
				count *= 4
			}
			scores := make(map[string]float64, count)
			for i := 0; i < count; i++ {
				scores[fmt.Sprintf("s%d", i)] = float64(i%7) / 10
			}

			tr, bestMove, bestScore := buildTree(table, scores, "quarter")

			root := tr.nodes["node_0"]
			best := math.Inf(-1)
			for _, childID := range root.Children {
				best = math.Max(best, *tr.nodes[childID].Score)
			}
			require.Equal(t, best, bestScore, "Root score must equal the max over its children")
			require.Contains(t, table.actions, bestMove)
			checkPropagation(t, tr)
		})
	}
}

func TestBuildTreeTiesResolveToFirstAction(t *testing.T) {
	table := moveTable{
		actions:   []string{"A", "B", "C"},
		opponents: [][][]string{{}},
		periods:   1,
	}
	scores := map[string]float64{"s0": 0.6, "s1": 0.6, "s2": 0.6}

	_, bestMove, bestScore := buildTree(table, scores, "month")

	require.Equal(t, "A", bestMove, "Ties resolve to the first action in action-set order")
	require.Equal(t, 0.6, bestScore)
}

func TestBuildTreeMissingScoresDefaultToNeutral(t *testing.T) {
	table := moveTable{
		actions:   []string{"A", "B"},
		opponents: [][][]string{{}},
		periods:   1,
	}

	tr, bestMove, bestScore := buildTree(table, map[string]float64{}, "quarter")

	require.Equal(t, "A", bestMove)
	require.Equal(t, 0.5, bestScore, "Unscored leaves default to the neutral score")
	checkPropagation(t, tr)
}

func TestNodeSerializationSchema(t *testing.T) {
	score := 0.7
	node := &Node{
		ID:          "node_3",
		Label:       "Cut Price",
		PlayerIndex: intPtr(0),
		ParentID:    "node_0",
		Children:    []string{"node_4"},
		Score:       &score,
		Period:      1,
	}

	data, err := json.Marshal(node)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	for _, key := range []string{
		"id", "label", "player_index", "parent_id", "children",
		"score", "time_period", "is_root", "is_leaf", "is_max_node",
	} {
		require.Contains(t, fields, key, "Serialized node must keep the wire schema field %q", key)
	}
}
