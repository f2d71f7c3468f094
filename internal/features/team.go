package features

import (
	"fmt"

	"battle-features/internal/battle"

	"github.com/samber/lo"
)

func extractTeam(c *battleContext) {
	team := c.b.P1Team
	for _, stat := range battle.StatNames {
		vals := lo.Map(team, func(p battle.Pokemon, _ int) float64 {
			v, _ := p.Stat(stat)
			return v
		})
		c.rec.Set("p1_mean_"+stat, Num(mean(vals)))
	}

	for i, p := range team {
		slot := i + 1
		c.rec.Set(fmt.Sprintf("p1_name_%d", slot), Str(p.Name))
		c.rec.Set(fmt.Sprintf("p1_level_%d", slot), Int(p.Level))
		c.rec.Set(fmt.Sprintf("p1_types_1_%d", slot), Str(p.Type(0)))
		c.rec.Set(fmt.Sprintf("p1_types_2_%d", slot), Str(p.Type(1)))
	}
	levels := lo.Map(team, func(p battle.Pokemon, _ int) float64 { return float64(p.Level) })
	c.rec.Set("p1_mean_level", Num(mean(levels)))

	lead := c.b.P2Lead
	for _, stat := range battle.StatNames {
		v, _ := lead.Stat(stat)
		c.rec.Set("p2_lead_"+stat, Num(v))
	}
	c.rec.Set("p2_lead_name", Str(lead.Name))
	c.rec.Set("p2_lead_level", Int(lead.Level))
	c.rec.Set("p2_lead_types_1", Str(lead.Type(0)))
	c.rec.Set("p2_lead_types_2", Str(lead.Type(1)))

	stat := c.cfg.Team.LeadStat
	first, _ := team[0].Stat(stat)
	opp, _ := lead.Stat(stat)
	c.rec.Set(fmt.Sprintf("1st_player_%s_advantage", stat), Num(ratio(first, opp)))
	if c.cfg.Team.LeadStatDiff {
		c.rec.Set(fmt.Sprintf("1st_player_%s_diff", stat), Num(first-opp))
	}
}
