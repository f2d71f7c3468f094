package features

// extractMatchups counts active name pairs on turns where both sides moved.
// The resulting columns are sparse across battles.
func extractMatchups(c *battleContext) {
	for i := range c.b.Timeline {
		t := &c.b.Timeline[i]
		if !t.BothMoved() {
			continue
		}
		p1, p2 := t.P1State.Name, t.P2State.Name
		c.rec.Add(p1+"_"+p2, 1)
		if c.cfg.Matchups.NameCounters {
			c.rec.Add(p1, 1)
			c.rec.Add(p2, 1)
		}
	}
}
