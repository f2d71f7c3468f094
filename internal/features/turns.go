package features

import (
	"battle-features/internal/battle"
)

// moveTally accumulates one side's move attributes over the selected turns
type moveTally struct {
	accuracy []float64
	power    []float64
	priority []float64
}

func (m *moveTally) add(mv *battle.Move) {
	m.accuracy = append(m.accuracy, mv.Accuracy)
	m.power = append(m.power, mv.BasePower)
	m.priority = append(m.priority, float64(mv.Priority))
}

func extractTurns(c *battleContext) {
	opts := c.cfg.Turns
	timeline := c.b.Timeline
	threshold := c.cfg.shortageThreshold()

	var (
		hp       [2][]float64
		shortage [2]int
		zero     [2]int
		moves    [2]moveTally

		powerAdv, priorityAdv, hpAdv int
		priorityDiffs                []float64
	)

	for i := range timeline {
		t := &timeline[i]
		for _, side := range battle.Sides {
			st := t.State(side)
			hp[side] = append(hp[side], st.HPPct)
			if st.HPPct < threshold {
				shortage[side]++
			}
			if st.HPPct == 0 {
				zero[side]++
			}

			mv := t.Move(side)
			if mv == nil {
				continue
			}
			if opts.MoveScope == ScopeOwn || t.BothMoved() {
				moves[side].add(mv)
			}
		}

		if !t.BothMoved() {
			continue
		}
		if t.P1Move.BasePower <= t.P2Move.BasePower {
			powerAdv++
		}
		if t.P1Move.Priority > t.P2Move.Priority {
			priorityAdv++
		}
		priorityDiffs = append(priorityDiffs, float64(t.P1Move.Priority-t.P2Move.Priority))
		if t.P1State.HPPct > t.P2State.HPPct {
			hpAdv++
		}
	}

	c.rec.Set("p1_mean_hp_pct", Num(mean(hp[battle.P1])))
	c.rec.Set("p2_mean_hp_pct", Num(mean(hp[battle.P2])))

	if opts.LastTurnAdvantage {
		last := c.b.LastTurn()
		c.rec.Set("hp_last_advantage", Bool(last.P1State.HPPct >= last.P2State.HPPct))
	}

	c.rec.Set("p1_hp_pct_shortage", Int(shortage[battle.P1]))
	c.rec.Set("p2_hp_pct_shortage", Int(shortage[battle.P2]))
	c.rec.Set("p1_hp_pct_zero", Int(zero[battle.P1]))
	c.rec.Set("p2_hp_pct_zero", Int(zero[battle.P2]))
	switch opts.ZeroHP {
	case CompareFlag:
		c.rec.Set("p1_hp_pct_zero_advantage", Bool(zero[battle.P1] < zero[battle.P2]))
	default:
		c.rec.Set("p1_hp_pct_zero_diff", Int(zero[battle.P1]-zero[battle.P2]))
	}

	if opts.MoveStats {
		c.rec.Set("p1_mean_accuracy", Num(mean(moves[battle.P1].accuracy)))
		c.rec.Set("p2_mean_accuracy", Num(mean(moves[battle.P2].accuracy)))
		if opts.MeanBasePower {
			c.rec.Set("p1_mean_base_power", Num(mean(moves[battle.P1].power)))
			c.rec.Set("p2_mean_base_power", Num(mean(moves[battle.P2].power)))
		}
		c.rec.Set("power_advantage", Int(powerAdv))
		c.rec.Set("p1_mean_priority", Num(mean(moves[battle.P1].priority)))
		c.rec.Set("p2_mean_priority", Num(mean(moves[battle.P2].priority)))
		switch opts.PriorityAdvantage {
		case AggregateCount:
			c.rec.Set("priority_advantage", Int(priorityAdv))
		default:
			c.rec.Set("priority_advantage", Num(mean(priorityDiffs)))
		}
	}

	c.rec.Set("hp_pct_advantage", Int(hpAdv))
}
