package game

import "fmt"

// Ply is one player's single move within one time period.
type Ply struct {
	Period int    `json:"period"`
	Player string `json:"player"`
	Move   string `json:"move"`
}

// Scenario is one complete assignment of moves to every player across every
// period up to the search horizon: a full root-to-leaf path through the tree.
// The ID is purely positional within one search invocation and is the only
// join key between enumeration and oracle scoring.
type Scenario struct {
	ID    string `json:"scenario_id"`
	Plies []Ply  `json:"moves"`
}

// ScenarioID formats the positional id for the k-th enumerated scenario.
func ScenarioID(k int) string {
	return fmt.Sprintf("s%d", k)
}
