package experiments

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/rs/zerolog/log"

	"wargame/game"
	"wargame/metrics"
	"wargame/oracle"
	"wargame/searcher"
)

const NumSearches = 10 // Per batch size

var batchSizes = []int{25, 50, 100, 200}

// RunBatchSizeExperiment measures how the scoring batch size trades batch
// count against per-call payload, using deterministic in-process oracles so
// run-to-run variance comes only from the engine.
func RunBatchSizeExperiment() {
	log.Info().Msg("starting batch_size experiment...")

	state, profiles, actionSet := fixture()
	records := []metrics.SearchMetric{}

	for _, batchSize := range batchSizes {
		log.Info().Msgf("starting batch size %d...", batchSize)

		for i := 0; i < NumSearches; i++ {
			controller := searcher.New(
				scriptedMoveOracle{},
				scriptedScoreOracle{},
				"maximize market share",
				profiles,
				searcher.WithMovesPerOpponent(2),
				searcher.WithBatchSize(batchSize),
				searcher.WithMetrics(),
			)

			result, err := controller.Run(context.Background(), state, actionSet, 3, "quarter")
			if err != nil {
				panic(fmt.Sprintf("search failed: %v", err))
			}
			records = append(records, result.Metric)

			log.Info().Msgf("batch size %d search %d of %d: best move %q in %s",
				batchSize, i+1, NumSearches, result.BestMove, result.Metric.Duration)
		}
	}

	log.Info().Msg("completed batch_size experiment")

	writer, err := metrics.NewWriter("batch_size")
	if err != nil {
		panic(fmt.Sprintf("failed to create experiment writer: %v", err))
	}
	err = writer.WriteSearchRecords(records)
	if err != nil {
		panic(fmt.Sprintf("failed to store search records: %v", err))
	}
	log.Info().Msg("stored search records")
}

func fixture() (*game.State, []game.PlayerProfile, []string) {
	state := &game.State{
		Period:     1,
		MarketSize: 1e9,
		Players: []game.PlayerState{
			{PlayerID: "OurCompany", MarketShare: 0.30, Revenue: 3e8, BrandSentiment: 0.6, Resources: 5e7},
			{PlayerID: "Competitor_A", MarketShare: 0.45, Revenue: 4.5e8, BrandSentiment: 0.7, Resources: 8e7},
			{PlayerID: "Competitor_B", MarketShare: 0.25, Revenue: 2.5e8, BrandSentiment: 0.5, Resources: 3e7},
		},
	}
	profiles := []game.PlayerProfile{
		{Name: "OurCompany", BusinessType: "SaaS", IsMaximizer: true},
		{Name: "Competitor_A", BusinessType: "SaaS"},
		{Name: "Competitor_B", BusinessType: "SaaS"},
	}
	actionSet := []string{"Cut Price", "Raise Quality", "Expand Abroad"}
	return state, profiles, actionSet
}

type scriptedMoveOracle struct{}

func (scriptedMoveOracle) ProposeMoves(_ context.Context, req oracle.MoveRequest) (oracle.MoveProposal, error) {
	moves := make([]string, req.NumMoves)
	for k := range moves {
		moves[k] = fmt.Sprintf("%s P%d Move %d", req.Profile.Name, req.Period+1, k+1)
	}
	return oracle.MoveProposal{Moves: moves}, nil
}

type scriptedScoreOracle struct{}

// ScoreScenarios rates each scenario by hashing its move sequence into
// [0, 1], so scores are stable across runs without any model in the loop.
func (scriptedScoreOracle) ScoreScenarios(_ context.Context, req oracle.ScoreRequest) (oracle.ScoreSheet, error) {
	scores := make(map[string]float64, len(req.Scenarios))
	for _, sc := range req.Scenarios {
		h := fnv.New32a()
		for _, ply := range sc.Plies {
			h.Write([]byte(ply.Move))
		}
		scores[sc.ID] = float64(h.Sum32()%1000) / 999
	}
	return oracle.ScoreSheet{Scores: scores}, nil
}
