package galaxy

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"
)

// progressStride is how many stars pass between progress reports.
const progressStride = 1000

// placementStream is the PCG stream used for catalog orientation. Component
// streams are 1 through len(AllComponents).
const placementStream = 100

// Tracker receives generation progress. Implementations must be safe for
// concurrent use when Options.Parallel is set.
type Tracker interface {
	ComponentStarted(c Component, total int)
	ComponentProgress(c Component, done int)
	ComponentFinished(c Component, res Result, elapsed time.Duration)
}

// Options controls a Generate run.
type Options struct {
	// Seed fixes every random stream. Zero picks a random seed, which is
	// reported in Catalog.Seed.
	Seed     uint64
	Parallel bool
	Tracker  Tracker
	Logger   *slog.Logger
}

// progress counts generated stars for one component and forwards every
// progressStride-th count to a Tracker. A nil *progress is a no-op.
type progress struct {
	c       Component
	tracker Tracker
	total   int
	done    int
}

func (p *progress) step() {
	if p == nil {
		return
	}
	p.done++
	if p.tracker != nil && (p.done%progressStride == 0 || p.done == p.total) {
		p.tracker.ComponentProgress(p.c, p.done)
	}
}

// NewRand returns the generator for stream under seed.
func NewRand(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}

// Generate validates cfg, runs every component generator and assembles the
// catalog. Each component draws from its own stream derived from the seed,
// so sequential and parallel runs with the same seed give the same catalog.
func Generate(cfg Config, opts Options) (*Catalog, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	seed := opts.Seed
	for seed == 0 {
		seed = rand.Uint64()
	}
	logger.Info("generating galaxy", "seed", seed, "stars", cfg.Total(), "parallel", opts.Parallel)

	results := make([]Result, len(AllComponents))
	run := func(c Component) error {
		res, err := runComponent(cfg, c, seed, opts.Tracker, logger)
		if err != nil {
			return err
		}
		results[c] = res
		return nil
	}

	start := time.Now()
	if opts.Parallel {
		var g errgroup.Group
		for _, c := range AllComponents {
			g.Go(func() error { return run(c) })
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for _, c := range AllComponents {
			if err := run(c); err != nil {
				return nil, err
			}
		}
	}

	cat, err := Assemble(results)
	if err != nil {
		return nil, err
	}
	cat.Seed = seed

	if cfg.Placement.Orient {
		o := RandomOrientation(NewRand(seed, placementStream), cfg.Placement.Offset)
		cat.Stars = o.Apply(cat.Stars)
	}

	logger.Info("galaxy generated", "stars", cat.Len(), "fallbacks", cat.Fallbacks(), "elapsed", time.Since(start))
	return cat, nil
}

func runComponent(cfg Config, c Component, seed uint64, tracker Tracker, logger *slog.Logger) (Result, error) {
	rng := NewRand(seed, c.stream())
	total := cfg.Counts()[c]
	prog := &progress{c: c, tracker: tracker, total: total}
	if tracker != nil {
		tracker.ComponentStarted(c, total)
	}

	start := time.Now()
	var (
		res Result
		err error
	)
	switch c {
	case Bulge:
		res = generateBulge(rng, cfg.Bulge, prog)
	case Bar:
		res = generateBar(rng, cfg.Bar, prog)
	case Disk:
		res = generateDisk(rng, cfg.Disk, prog)
	case SpiralArms:
		res, err = generateArms(rng, cfg.Arms, prog)
	case Halo:
		res = generateHalo(rng, cfg.Halo, prog)
	}
	if err != nil {
		return res, err
	}
	elapsed := time.Since(start)

	logger.Debug("component generated", "component", c, "stars", res.Stars.Len(), "elapsed", elapsed)
	if res.Fallbacks > 0 {
		logger.Warn("attempt cap reached, used fallback draws", "component", c, "fallbacks", res.Fallbacks)
	}
	if tracker != nil {
		tracker.ComponentFinished(c, res, elapsed)
	}
	return res, nil
}
