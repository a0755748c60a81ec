package searcher

import "fmt"

// Node is one position in the decision tree. The serialized field names
// match the wire schema consumed by the frontend tree view.
//
// Invariant: a non-leaf node's score is the max (children chosen by the
// maximizing role) or min (otherwise) of its children's scores, set only
// after every child is scored. Scores propagate strictly bottom-up.
type Node struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	PlayerIndex *int     `json:"player_index"`
	ParentID    string   `json:"parent_id,omitempty"`
	Children    []string `json:"children"`
	Score       *float64 `json:"score"`
	Period      int      `json:"time_period"`
	IsRoot      bool     `json:"is_root"`
	IsLeaf      bool     `json:"is_leaf"`

	// IsMaxNode means this node's children are chosen by the maximizer.
	IsMaxNode bool `json:"is_max_node"`
}

// tree is an arena of nodes keyed by sequential ids. One tree belongs to
// exactly one search invocation and is discarded after the result is
// extracted; nodes are never deleted.
type tree struct {
	nodes map[string]*Node
	next  int
}

func newTree() *tree {
	return &tree{nodes: make(map[string]*Node)}
}

// add assigns the next arena id to n and registers it.
func (t *tree) add(n *Node) *Node {
	n.ID = fmt.Sprintf("node_%d", t.next)
	t.next++
	if n.Children == nil {
		n.Children = []string{}
	}
	t.nodes[n.ID] = n
	return n
}

// attach records child under parent, preserving insertion order.
func (t *tree) attach(parentID, childID string) {
	parent := t.nodes[parentID]
	parent.Children = append(parent.Children, childID)
}

func intPtr(i int) *int {
	return &i
}
