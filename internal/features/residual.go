package features

import (
	"fmt"

	"battle-features/internal/battle"
)

// ResidualState is the last-observed condition of one Pokémon
type ResidualState struct {
	HPPct  float64
	Status string
}

// Alive reports hp strictly above zero
func (s ResidualState) Alive() bool { return s.HPPct > 0 }

// Statused reports any status other than nostatus
func (s ResidualState) Statused() bool { return s.Status != battle.StatusNone }

// Residuals maps one side's Pokémon names to their last-observed state.
// Names iterate in first-seen order.
type Residuals struct {
	names  []string
	states map[string]ResidualState
}

func newResiduals() *Residuals {
	return &Residuals{states: make(map[string]ResidualState)}
}

// Observe records a snapshot; later observations overwrite earlier ones
func (r *Residuals) Observe(name string, st ResidualState) {
	if _, ok := r.states[name]; !ok {
		r.names = append(r.names, name)
	}
	r.states[name] = st
}

func (r *Residuals) Get(name string) (ResidualState, bool) {
	st, ok := r.states[name]
	return st, ok
}

func (r *Residuals) Names() []string { return r.names }

func (r *Residuals) Len() int { return len(r.names) }

// TrackResiduals replays the timeline front to back for one side
func TrackResiduals(timeline []battle.Turn, side battle.Side) *Residuals {
	res := newResiduals()
	for i := range timeline {
		st := timeline[i].State(side)
		res.Observe(st.Name, ResidualState{HPPct: st.HPPct, Status: statusOf(st)})
	}
	return res
}

// statusOf normalizes a missing status to nostatus
func statusOf(st *battle.PokemonState) string {
	if st.Status == "" {
		return battle.StatusNone
	}
	return st.Status
}

func extractResidual(c *battleContext) {
	opts := c.cfg.Residual
	var (
		sums     [2]float64
		low      [2]int
		alive    [2]int
		statused [2]int
	)

	for _, side := range battle.Sides {
		res := c.residuals(side)
		hp := make([]float64, 0, res.Len())
		for _, name := range res.Names() {
			st, _ := res.Get(name)
			if opts.PerNameColumns {
				c.rec.Set(fmt.Sprintf("%s_%s_hp_pct", side.Prefix(), name), Num(st.HPPct))
			}
			hp = append(hp, st.HPPct)
			if st.HPPct < c.cfg.LowHPThreshold {
				low[side]++
			}
			if st.Alive() {
				alive[side]++
			}
			if st.Statused() {
				statused[side]++
			}
		}
		sums[side] = sum(hp)
	}

	c.rec.Set("p1_residual_hp_pct", Num(sums[battle.P1]))
	c.rec.Set("p2_residual_hp_pct", Num(sums[battle.P2]))

	p1Low := low[battle.P1]
	if opts.MirrorP2LowHPCount {
		p1Low = low[battle.P2]
	}
	c.rec.Set("p1_players_with_low_hp_pct", Int(p1Low))
	c.rec.Set("p2_players_with_low_hp_pct", Int(low[battle.P2]))

	if opts.Counts {
		c.rec.Set("p1_alive_count", Int(alive[battle.P1]))
		c.rec.Set("p2_alive_count", Int(alive[battle.P2]))
		c.rec.Set("p1_statused_count", Int(statused[battle.P1]))
		c.rec.Set("p2_statused_count", Int(statused[battle.P2]))
	}

	switch opts.Advantage {
	case CompareFlag:
		c.rec.Set("residual_hp_pct_advantage", Int(boolInt(sums[battle.P1] > sums[battle.P2])))
	default:
		c.rec.Set("residual_hp_pct_advantage", Num(sums[battle.P1]-sums[battle.P2]))
	}
}
