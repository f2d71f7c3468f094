package features

import (
	"fmt"

	"battle-features/internal/battle"

	"github.com/samber/lo"
)

// weightedStats are the attributes summed, HP-weighted, over surviving
// status-free Pokémon
var weightedStats = []string{"spd", "spe", "spa", "atk", "def", "level"}

// rosterTotals names the unweighted roster sums and the base stat behind each
var rosterTotals = []struct {
	name string
	stat string
}{
	{"speed", "spe"},
	{"attack", "atk"},
	{"defense", "def"},
	{"sp_attack", "spa"},
	{"sp_defense", "spd"},
	{"hp", "hp"},
}

// survivorTally holds one team's survivor aggregates
type survivorTally struct {
	weighted map[string]float64
	strong   int
	weak     int
	typed    int
	critical int
	swaps    int
	effects  float64
}

func attribute(p battle.Pokemon, stat string) float64 {
	if stat == "level" {
		return float64(p.Level)
	}
	v, _ := p.Stat(stat)
	return v
}

// seedRoster starts from the known roster at full health and overwrites it
// with the timeline. Player 2 is padded with unknown slots up to size.
func seedRoster(b *battle.Battle, side battle.Side, size int) *Residuals {
	roster := newResiduals()
	full := ResidualState{HPPct: 1, Status: battle.StatusNone}
	if side == battle.P1 {
		for _, p := range b.P1Team {
			roster.Observe(p.Name, full)
		}
	} else {
		roster.Observe(b.P2Lead.Name, full)
	}

	for i := range b.Timeline {
		st := b.Timeline[i].State(side)
		roster.Observe(st.Name, ResidualState{HPPct: st.HPPct, Status: statusOf(st)})
	}

	if side == battle.P2 {
		for i := roster.Len(); i < size; i++ {
			roster.Observe(fmt.Sprintf("p2_unknown_%d", i), full)
		}
	}
	return roster
}

// countSwaps counts turns whose active Pokémon differs from the previous turn's
func countSwaps(timeline []battle.Turn, side battle.Side) int {
	swaps := 0
	for i := 1; i < len(timeline); i++ {
		if timeline[i].State(side).Name != timeline[i-1].State(side).Name {
			swaps++
		}
	}
	return swaps
}

// tallySurvivors folds the seeded roster's last-known state into the subset
// counts and HP-weighted sums
func (c *battleContext) tallySurvivors(side battle.Side, roster *Residuals) survivorTally {
	opts := c.cfg.Survivor
	tally := survivorTally{weighted: make(map[string]float64, len(weightedStats))}

	for _, name := range roster.Names() {
		st, _ := roster.Get(name)
		if !st.Alive() {
			continue
		}
		p, known := c.lookup(name)

		if lo.Contains(opts.StrongNames, name) {
			tally.strong++
		}
		if lo.Contains(opts.WeakNames, name) {
			tally.weak++
		}
		if lo.Contains(opts.CriticalStatuses, st.Status) {
			tally.critical++
		}
		if !known {
			continue
		}
		if p.HasType(opts.SurvivorType) {
			tally.typed++
		}
		if !st.Statused() {
			for _, stat := range weightedStats {
				tally.weighted[stat] += attribute(p, stat) * st.HPPct
			}
		}
	}

	tally.swaps = countSwaps(c.b.Timeline, side)
	tally.effects = float64(len(c.b.LastTurn().State(side).Effects)) * opts.EffectWeight
	return tally
}

func extractSurvivor(c *battleContext) {
	opts := c.cfg.Survivor
	rosters := [2]*Residuals{
		seedRoster(c.b, battle.P1, opts.TeamSize),
		seedRoster(c.b, battle.P2, opts.TeamSize),
	}
	t1, t2 := c.tallySurvivors(battle.P1, rosters[battle.P1]), c.tallySurvivors(battle.P2, rosters[battle.P2])

	for _, stat := range weightedStats {
		c.rec.Set("t1_c_"+stat, Num(t1.weighted[stat]))
		c.rec.Set("t2_c_"+stat, Num(t2.weighted[stat]))
	}
	for _, stat := range weightedStats {
		a, b := t1.weighted[stat], t2.weighted[stat]
		c.rec.Set("c_"+stat+"_diff", Num(a-b))
		c.rec.Set("c_"+stat+"_adv", Int(boolInt(a > b)))
		c.rec.Set("c_"+stat+"_ratio", Num(ratio(a, b)))
	}

	c.rec.Set("t1_winningmost_num", Int(t1.strong))
	c.rec.Set("t2_winningmost_num", Int(t2.strong))
	c.rec.Set("t1_winning_loser_ratio", Num(orOne(t1.strong)/orOne(t2.weak)))
	c.rec.Set("t2_winning_loser_ratio", Num(orOne(t2.strong)/orOne(t1.weak)))

	c.rec.Set("t1_critical_status_num", Int(t1.critical))
	c.rec.Set("t2_critical_status_num", Int(t2.critical))
	c.rec.Set("critical_status_num_ratio", Num(orOne(t1.critical)/orOne(t2.critical)))

	typ := opts.SurvivorType
	c.rec.Set("t1_"+typ+"_num", Int(t1.typed))
	c.rec.Set("t2_"+typ+"_num", Int(t2.typed))
	c.rec.Set(typ+"_num_ratio", Num(orOne(t1.typed)/orOne(t2.typed)))

	effects := [2]float64{t1.effects, t2.effects}
	var totals [2]map[string]float64

	for _, side := range battle.Sides {
		roster := rosters[side]
		var hp []float64
		surviving, statusScore := 0, 0
		totals[side] = make(map[string]float64, len(rosterTotals))

		for _, name := range roster.Names() {
			st, _ := roster.Get(name)
			hp = append(hp, st.HPPct)
			if st.Alive() {
				surviving++
				if st.Statused() {
					statusScore++
				}
			}
			if p, ok := c.lookup(name); ok {
				for _, rt := range rosterTotals {
					totals[side][rt.name] += attribute(p, rt.stat)
				}
			}
		}

		team := fmt.Sprintf("team%d", side+1)
		c.rec.Set(team+"_mean_pc_hp", Num(mean(hp)))
		c.rec.Set(team+"_surviving_pokemon", Int(surviving))
		c.rec.Set(team+"_status_score", Num(float64(statusScore)+effects[side]))
	}

	for _, rt := range rosterTotals {
		c.rec.Set("total_"+rt.name+"_diff", Num(totals[battle.P1][rt.name]-totals[battle.P2][rt.name]))
	}
	for _, rt := range rosterTotals {
		c.rec.Set("total_"+rt.name+"_ratio", Num(ratio(totals[battle.P1][rt.name], totals[battle.P2][rt.name])))
	}

	c.rec.Set("team1_player_swaps", Int(t1.swaps))
	c.rec.Set("team2_player_swaps", Int(t2.swaps))
}
