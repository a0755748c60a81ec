package game

// PlayerState is one player's position in the simulated market.
type PlayerState struct {
	PlayerID          string         `json:"player_id"`
	MarketShare       float64        `json:"market_share"`
	Revenue           float64        `json:"revenue"`
	BrandSentiment    float64        `json:"brand_sentiment"`
	Resources         float64        `json:"resources"`
	AdditionalMetrics map[string]any `json:"additional_metrics,omitempty"`
}

// State is an immutable snapshot of the market at the start of a period.
// The search engine passes it to the oracles verbatim and never mutates it;
// operations that need a changed state must work on a copy.
type State struct {
	Period           int            `json:"period"`
	MarketSize       float64        `json:"market_size"`
	Players          []PlayerState  `json:"players"`
	MarketConditions map[string]any `json:"market_conditions,omitempty"`
}

// Copy returns a deep enough copy for handing the snapshot across an API
// boundary. Nested maps are shared: they are read-only by contract.
func (s *State) Copy() *State {
	players := make([]PlayerState, len(s.Players))
	copy(players, s.Players)
	return &State{
		Period:           s.Period,
		MarketSize:       s.MarketSize,
		Players:          players,
		MarketConditions: s.MarketConditions,
	}
}
