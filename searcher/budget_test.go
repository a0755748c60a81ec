package searcher

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlanHorizon(t *testing.T) {
	tests := []struct {
		name             string
		actions          int
		movesPerOpponent int
		opponents        int
		requested        int
		ceiling          int
		want             int
	}{
		{
			// b = 3*2 = 6: 6^4 = 1296 within budget, no reduction needed
			name:    "request within budget",
			actions: 3, movesPerOpponent: 2, opponents: 1,
			requested: 4, ceiling: 1500,
			want: 4,
		},
		{
			// Same branching, requested 6 reduces to the max feasible 5
			name:    "request over budget reduces",
			actions: 3, movesPerOpponent: 2, opponents: 1,
			requested: 6, ceiling: 1500,
			want: 5,
		},
		{
			// b = 40*5*5 = 1000 > 100: even one period busts the ceiling
			name:    "floor of one period",
			actions: 40, movesPerOpponent: 5, opponents: 2,
			requested: 3, ceiling: 100,
			want: 1,
		},
		{
			// b = 2 with no opponents: 2,4,8,16 all within 16
			name:    "zero opponents",
			actions: 2, movesPerOpponent: 2, opponents: 0,
			requested: 10, ceiling: 16,
			want: 5,
		},
		{
			// b = 1: no combinatorial growth, request passes through
			name:    "single action no growth",
			actions: 1, movesPerOpponent: 3, opponents: 0,
			requested: 7, ceiling: 10,
			want: 7,
		},
		{
			name:    "non-positive request clamps to one",
			actions: 3, movesPerOpponent: 2, opponents: 1,
			requested: 0, ceiling: 1500,
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := planHorizon(tt.actions, tt.movesPerOpponent, tt.opponents, tt.requested, tt.ceiling)
			require.Equal(t, tt.want, got, "Planner should cap the horizon at the feasible period count")
		})
	}
}
