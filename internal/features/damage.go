package features

import "battle-features/internal/battle"

// ExpectedDamage is power x accuracy fraction x STAB x type effectiveness
func ExpectedDamage(m battle.Move, attackerTypes, defenderTypes []string) float64 {
	return m.BasePower * (m.Accuracy / 100) * STAB(m.Type, attackerTypes) * Effectiveness(m.Type, defenderTypes)
}

func extractDamage(c *battleContext) {
	var dmg [2][]float64
	for i := range c.b.Timeline {
		t := &c.b.Timeline[i]
		for _, side := range battle.Sides {
			m := t.Move(side)
			if m == nil {
				continue
			}
			attacker, _ := c.lookup(t.State(side).Name)
			defender, _ := c.lookup(t.State(side.Other()).Name)
			dmg[side] = append(dmg[side], ExpectedDamage(*m, attacker.Types, defender.Types))
		}
	}

	p1, p2 := mean(dmg[battle.P1]), mean(dmg[battle.P2])
	c.rec.Set("p1_mean_expected_damage", Num(p1))
	c.rec.Set("p2_mean_expected_damage", Num(p2))
	c.rec.Set("expected_damage_advantage", Bool(p1 > p2))
	c.rec.Set("expected_damage_diff", Num(p1-p2))
}
