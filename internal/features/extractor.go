package features

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"battle-features/internal/battle"

	"golang.org/x/sync/errgroup"
)

// groupFuncs maps each group to the function that emits its features
var groupFuncs = map[Group]func(*battleContext){
	GroupTeam:     extractTeam,
	GroupTurns:    extractTurns,
	GroupMatchups: extractMatchups,
	GroupStatus:   extractStatus,
	GroupResidual: extractResidual,
	GroupDamage:   extractDamage,
	GroupSurvivor: extractSurvivor,
}

// battleContext is the per-battle accumulator. A fresh one is built for every
// battle and never shared.
type battleContext struct {
	b         *battle.Battle
	cfg       *Config
	dex       *Pokedex
	local     map[string]battle.Pokemon
	rec       *Record
	residuals func(battle.Side) *Residuals
}

func newBattleContext(b *battle.Battle, cfg *Config, dex *Pokedex) *battleContext {
	c := &battleContext{
		b:     b,
		cfg:   cfg,
		dex:   dex,
		local: make(map[string]battle.Pokemon, len(b.P1Team)+1),
		rec:   NewRecord(),
	}
	for _, p := range b.P1Team {
		if _, ok := c.local[p.Name]; !ok {
			c.local[p.Name] = p
		}
	}
	if _, ok := c.local[b.P2Lead.Name]; !ok {
		c.local[b.P2Lead.Name] = *b.P2Lead
	}

	var tracked [2]*Residuals
	c.residuals = func(side battle.Side) *Residuals {
		if tracked[side] == nil {
			tracked[side] = TrackResiduals(b.Timeline, side)
		}
		return tracked[side]
	}
	return c
}

// lookup resolves a name through the shared Pokedex, then the battle's own listings
func (c *battleContext) lookup(name string) (battle.Pokemon, bool) {
	if p, ok := c.dex.Lookup(name); ok {
		return p, true
	}
	p, ok := c.local[name]
	return p, ok
}

// BattleError reports a battle that could not be turned into features
type BattleError struct {
	Index    int
	BattleID string
	Err      error
}

func (e *BattleError) Error() string {
	return fmt.Sprintf("battle %d (%s): %v", e.Index, e.BattleID, e.Err)
}

func (e *BattleError) Unwrap() error { return e.Err }

// ProgressFunc is called as battles complete. It may be called from several
// goroutines, but never concurrently.
type ProgressFunc func(done, total int)

// Extractor turns battles into feature records according to a Config
type Extractor struct {
	cfg           Config
	dex           *Pokedex
	workers       int
	progress      ProgressFunc
	progressEvery int
}

type Option func(*Extractor)

// WithPokedex sets the attribute table used by the damage and survivor groups.
// Without one, ExtractAll builds a table from the battles it is given.
func WithPokedex(dex *Pokedex) Option {
	return func(e *Extractor) { e.dex = dex }
}

// WithWorkers bounds the number of battles extracted in parallel
func WithWorkers(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithProgress reports progress every n completed battles
func WithProgress(fn ProgressFunc, every int) Option {
	return func(e *Extractor) {
		e.progress = fn
		e.progressEvery = max(every, 1)
	}
}

// New validates cfg and returns an Extractor for it
func New(cfg Config, opts ...Option) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Extractor{cfg: cfg, workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Extractor) Config() Config { return e.cfg }

// Extract validates one battle and builds its feature record
func (e *Extractor) Extract(b *battle.Battle) (*Record, error) {
	return e.extract(b, e.dex)
}

func (e *Extractor) extract(b *battle.Battle, dex *Pokedex) (*Record, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	c := newBattleContext(b, &e.cfg, dex)
	c.rec.Set("battle_id", Str(b.BattleID))
	if won, ok := b.Won(); ok {
		c.rec.Set("player_won", Int(won))
	}
	for _, g := range AllGroups {
		if e.cfg.Enabled(g) {
			groupFuncs[g](c)
		}
	}
	return c.rec, nil
}

// Result holds the records of an ExtractAll call in input order. Battles that
// failed are left out of Records and listed in Errors.
type Result struct {
	Records []*Record
	Errors  []*BattleError
}

// ExtractAll extracts every battle in parallel. Output order matches input
// order and does not depend on scheduling.
func (e *Extractor) ExtractAll(ctx context.Context, battles []battle.Battle) (*Result, error) {
	dex := e.dex
	if dex == nil && e.cfg.needsPokedex() {
		dex = BuildPokedex(battles)
	}

	records := make([]*Record, len(battles))
	errs := make([]error, len(battles))

	var (
		mu   sync.Mutex
		done int
	)
	report := func() {
		if e.progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		done++
		if done%e.progressEvery == 0 || done == len(battles) {
			e.progress(done, len(battles))
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range battles {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records[i], errs[i] = e.extract(&battles[i], dex)
			report()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("extraction cancelled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extraction cancelled: %w", err)
	}

	res := &Result{Records: make([]*Record, 0, len(battles))}
	for i, rec := range records {
		if errs[i] != nil {
			res.Errors = append(res.Errors, &BattleError{Index: i, BattleID: battles[i].BattleID, Err: errs[i]})
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}
