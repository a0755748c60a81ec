package game

// PlayerProfile describes one company in the wargame. The profile slice
// passed around the engine is ordered: index 0 is always the distinguished
// player whose utility the search optimizes.
type PlayerProfile struct {
	Name            string         `json:"name"`
	BusinessType    string         `json:"business_type"`
	CompanySize     int            `json:"company_size"`
	Products        []string       `json:"products"`
	TargetCustomers []string       `json:"target_customers"`
	Others          map[string]any `json:"others,omitempty"`

	// IsMaximizer is true only for the distinguished player. Opponents are
	// modeled as a combined adversary in minimax mode.
	IsMaximizer bool `json:"is_maximizer"`
}
