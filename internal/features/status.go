package features

import (
	"battle-features/internal/battle"
)

type statusPair struct {
	p1, p2 string
}

func extractStatus(c *battleContext) {
	var perSide [2]map[string]int
	perSide[battle.P1] = make(map[string]int)
	perSide[battle.P2] = make(map[string]int)
	cross := make(map[statusPair]int)

	for i := range c.b.Timeline {
		t := &c.b.Timeline[i]
		if !t.BothMoved() {
			continue
		}
		s1, s2 := statusOf(&t.P1State), statusOf(&t.P2State)
		perSide[battle.P1][s1]++
		perSide[battle.P2][s2]++
		cross[statusPair{s1, s2}]++
	}

	for _, s := range c.cfg.Status.Statuses {
		c.rec.Set(s+"_diff", Int(perSide[battle.P1][s]-perSide[battle.P2][s]))
		if !c.cfg.Status.CrossCounts {
			continue
		}
		unaffected := cross[statusPair{battle.StatusNone, s}]
		c.rec.Set(battle.StatusNone+"_"+s, Int(unaffected))
		c.rec.Set(battle.StatusNone+"_"+s+"_diff", Int(unaffected-cross[statusPair{s, battle.StatusNone}]))
	}
}
