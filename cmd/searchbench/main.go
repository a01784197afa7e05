// Command searchbench benchmarks the minimax and MCTS engines against the
// fixture games, reporting search statistics for each configuration.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"

	"github.com/janpfeifer/gitcgsearch/internal/games/nim"
	"github.com/janpfeifer/gitcgsearch/internal/games/ttt"
	"github.com/janpfeifer/gitcgsearch/internal/mcts"
	"github.com/janpfeifer/gitcgsearch/internal/minimax"
	"github.com/janpfeifer/gitcgsearch/internal/parameters"
	"github.com/janpfeifer/gitcgsearch/internal/profilers"
	"github.com/janpfeifer/gitcgsearch/internal/search"
	"github.com/janpfeifer/gitcgsearch/internal/ui/spinning"
)

var (
	flagEngine    = flag.String("engine", "minimax", "Which engine to benchmark: \"minimax\" or \"mcts\".")
	flagGame      = flag.String("game", "ttt", "Which fixture game to play: \"ttt\" or \"nim\".")
	flagDepth     = flag.Int("depth", 7, "Minimax full-width search depth, in plies.")
	flagTraverses = flag.Int("traverses", 800, "MCTS traverse budget.")
	flagParallel  = flag.Bool("parallel", false, "Enable Lazy-SMP parallel search (minimax only).")
	flagHelpers   = flag.Int("helpers", 24, "Lazy-SMP helper goroutine count (minimax only, with -parallel).")
	flagMaxTime   = flag.Duration("max_time", 0, "If > 0, bounds wall-clock time per search.")
	flagTTSizeMB  = flag.Uint64("tt_size_mb", 128, "Transposition table size, in megabytes.")
	flagConfig    = flag.String("config", "", "Comma-separated engine overrides, e.g. "+
		"\"target_round_delta=3,cpuct_init=1.5,temperature=0.5\".")
)

// applyMinimaxOverrides overrides any of the rarer minimax tunables named in
// params (parsed from -config), leaving the rest of cfg untouched.
// Unrecognized keys are left in params.
func applyMinimaxOverrides(cfg *minimax.Config, params parameters.Params) error {
	targetRoundDelta, err := parameters.PopParamOr(params, "target_round_delta", uint64(cfg.TargetRoundDelta))
	if err != nil {
		return err
	}
	cfg.TargetRoundDelta = uint8(targetRoundDelta)

	tacticalDepth, err := parameters.PopParamOr(params, "tactical_depth", uint64(cfg.TacticalDepth))
	if err != nil {
		return err
	}
	cfg.TacticalDepth = uint8(tacticalDepth)

	cfg.EnablePVS, err = parameters.PopParamOr(params, "enable_pvs", cfg.EnablePVS)
	return err
}

func applyMCTSOverrides(cfg *mcts.Config, params parameters.Params) error {
	var err error
	cfg.CPuctInit, err = parameters.PopParamOr(params, "cpuct_init", cfg.CPuctInit)
	if err != nil {
		return err
	}
	cfg.CPuctFactor, err = parameters.PopParamOr(params, "cpuct_factor", cfg.CPuctFactor)
	if err != nil {
		return err
	}
	cfg.Temperature, err = parameters.PopParamOr(params, "temperature", cfg.Temperature)
	if err != nil {
		return err
	}
	playouts, err := parameters.PopParamOr(params, "playouts_per_leaf", uint64(cfg.PlayoutsPerLeaf))
	if err != nil {
		return err
	}
	cfg.PlayoutsPerLeaf = int(playouts)
	return nil
}

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	spinning.SafeInterrupt(cancel, 5*time.Second)
	defer cancel()

	profilers.Setup(ctx)
	defer profilers.OnQuit()

	must.M(run(ctx))
}

func run(ctx context.Context) error {
	var limits *search.SearchLimits
	if *flagMaxTime > 0 {
		d := *flagMaxTime
		limits = &search.SearchLimits{MaxTime: &d}
	}

	switch *flagGame {
	case "ttt":
		return runTTT(ctx, limits)
	case "nim":
		return runNim(ctx, limits)
	default:
		return fmt.Errorf("searchbench: unknown -game %q", *flagGame)
	}
}

func runTTT(ctx context.Context, limits *search.SearchLimits) error {
	state := &ttt.State{}
	params := parameters.NewFromConfigString(*flagConfig)
	switch *flagEngine {
	case "minimax":
		cfg := minimax.DefaultConfig()
		cfg.Depth = uint8(*flagDepth)
		cfg.TargetRoundDelta = 9
		cfg.Parallel = *flagParallel
		cfg.Helpers = *flagHelpers
		cfg.TTSizeMB = uint32(*flagTTSizeMB)
		cfg.Limits = limits
		if err := applyMinimaxOverrides(&cfg, params); err != nil {
			return err
		}
		engine, err := minimax.New[*ttt.State, int](cfg)
		if err != nil {
			return err
		}
		return reportResult(engine.Search(ctx, state, search.Player0))
	case "mcts":
		cfg := mcts.DefaultConfig()
		cfg.MaxTraverses = *flagTraverses
		cfg.Limits = limits
		if err := applyMCTSOverrides(&cfg, params); err != nil {
			return err
		}
		engine, err := mcts.New[*ttt.State, int](cfg, float64(*flagTTSizeMB))
		if err != nil {
			return err
		}
		return reportResult(engine.Search(ctx, state, search.Player0))
	default:
		return fmt.Errorf("searchbench: unknown -engine %q", *flagEngine)
	}
}

func runNim(ctx context.Context, limits *search.SearchLimits) error {
	state := nim.New(5, 7, 9, 11)
	params := parameters.NewFromConfigString(*flagConfig)
	switch *flagEngine {
	case "minimax":
		cfg := minimax.DefaultConfig()
		cfg.Depth = uint8(*flagDepth)
		cfg.TargetRoundDelta = 40
		cfg.Parallel = *flagParallel
		cfg.Helpers = *flagHelpers
		cfg.TTSizeMB = uint32(*flagTTSizeMB)
		cfg.Limits = limits
		if err := applyMinimaxOverrides(&cfg, params); err != nil {
			return err
		}
		engine, err := minimax.New[*nim.State, nim.Action](cfg)
		if err != nil {
			return err
		}
		return reportResult(engine.Search(ctx, state, search.Player0))
	case "mcts":
		cfg := mcts.DefaultConfig()
		cfg.MaxTraverses = *flagTraverses
		cfg.Limits = limits
		if err := applyMCTSOverrides(&cfg, params); err != nil {
			return err
		}
		engine, err := mcts.New[*nim.State, nim.Action](cfg, float64(*flagTTSizeMB))
		if err != nil {
			return err
		}
		return reportResult(engine.Search(ctx, state, search.Player0))
	default:
		return fmt.Errorf("searchbench: unknown -engine %q", *flagEngine)
	}
}

func reportResult[S search.Game[S, A], A comparable](result search.SearchResult[S, A], err error) error {
	if err != nil {
		return err
	}
	fmt.Printf("eval=%v depth=%d states_visited=%d evals=%d tt_hits=%d beta_prunes=%d pv_len=%d\n",
		result.Eval, result.Counter.LastDepth, result.Counter.StatesVisited, result.Counter.Evals,
		result.Counter.TTHits, result.Counter.BetaPrunes, result.PV.Len())
	return nil
}
