package mcts

import "github.com/janpfeifer/gitcgsearch/internal/cache"

// Entry is what the MCTS engine stores per Zobrist hash in its shared cache:
// a running Proportion that lets statistics from transposing lines of play
// pool together instead of being split across otherwise-identical arena
// nodes.
type Entry struct {
	Prop Proportion
}

// mergeEntry folds delta into the entry stored at hash, creating it if
// absent. A zero-capacity cache drops the write. Otherwise it always
// succeeds: an absent entry is written with an always-true predicate, which
// also evicts a different key occupying the slot, and a present entry is
// replaced only if it is unchanged since it was read, retrying otherwise.
func mergeEntry(tt *cache.Cache[Entry], hash uint64, delta Proportion) {
	if tt.Capacity() == 0 {
		return
	}
	for {
		existing, found := tt.Get(hash)
		if !found {
			if tt.ReplaceIf(hash, Entry{Prop: delta}, func(Entry) bool { return true }) {
				return
			}
			continue
		}
		merged := Entry{Prop: existing.Prop.Add(delta)}
		if tt.ReplaceIf(hash, merged, func(e Entry) bool { return e == existing }) {
			return
		}
	}
}
