package searcher

// planHorizon caps the number of periods actually searched so the terminal
// scenario count stays within the ceiling. Scenario cost is branching^p
// with per-period branching b = numActions * movesPerOpponent^numOpponents,
// so an unbounded request means unbounded oracle work.
//
// The horizon starts at 1 and extends while the running scenario total is
// still within the ceiling, so the last extension may land one period past
// the strict b^p bound. Floor of 1 period: the search always runs at least
// one period even when a single period already exceeds the ceiling.
func planHorizon(numActions, movesPerOpponent, numOpponents, requested, ceiling int) int {
	if requested < 1 {
		requested = 1
	}

	branching := numActions
	for i := 0; i < numOpponents; i++ {
		branching *= movesPerOpponent
	}
	if branching <= 1 { // No combinatorial growth to bound
		return requested
	}

	feasible := 1
	total := branching
	for total <= ceiling {
		feasible++
		total *= branching
	}

	if requested < feasible {
		return requested
	}
	return feasible
}
