package mcts

// Proportion is a Laplace-smoothed win/visit ratio: Wins successes out of
// Total trials, estimated as (Wins+1)/(Total+2) so that an unvisited node
// (0/0) reads as a neutral 0.5 rather than an undefined or zero value.
type Proportion struct {
	Wins  uint32
	Total uint32
}

// Ratio returns the smoothed win probability.
func (p Proportion) Ratio() float64 {
	return (float64(p.Wins) + 1) / (float64(p.Total) + 2)
}

// Complement flips the proportion to the other player's perspective.
func (p Proportion) Complement() Proportion {
	return Proportion{Wins: p.Total - p.Wins, Total: p.Total}
}

// Add accumulates delta into p.
func (p Proportion) Add(delta Proportion) Proportion {
	return Proportion{Wins: p.Wins + delta.Wins, Total: p.Total + delta.Total}
}

// Record folds one more trial into p.
func (p Proportion) Record(win bool) Proportion {
	if win {
		p.Wins++
	}
	p.Total++
	return p
}
