package search

// SearchCounter accumulates statistics from one search invocation. Lazy-SMP
// helper goroutines each keep their own SearchCounter and fold it into the
// primary's via Add once they stop.
type SearchCounter struct {
	StatesVisited uint64
	Evals         uint64
	TTHits        uint64
	BetaPrunes    uint64
	AWFailLows    uint64
	AWFailHighs   uint64
	LastDepth     uint64
}

// Add returns the componentwise sum of c and o. LastDepth takes the larger
// of the two, since it tracks progress rather than a cumulative count.
func (c SearchCounter) Add(o SearchCounter) SearchCounter {
	sum := SearchCounter{
		StatesVisited: c.StatesVisited + o.StatesVisited,
		Evals:         c.Evals + o.Evals,
		TTHits:        c.TTHits + o.TTHits,
		BetaPrunes:    c.BetaPrunes + o.BetaPrunes,
		AWFailLows:    c.AWFailLows + o.AWFailLows,
		AWFailHighs:   c.AWFailHighs + o.AWFailHighs,
		LastDepth:     c.LastDepth,
	}
	if o.LastDepth > sum.LastDepth {
		sum.LastDepth = o.LastDepth
	}
	return sum
}

// IsZero reports whether no statistic has been recorded yet.
func (c SearchCounter) IsZero() bool {
	return c == SearchCounter{}
}
