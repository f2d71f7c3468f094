package features

import (
	"errors"
	"fmt"

	"battle-features/internal/battle"

	"github.com/samber/lo"
)

// Group is a toggleable set of related features
type Group string

const (
	GroupTeam     Group = "team"     // static team composition
	GroupTurns    Group = "turns"    // per-turn aggregates
	GroupMatchups Group = "matchups" // name-pair and identity counters
	GroupStatus   Group = "status"   // status cross-tabulation
	GroupResidual Group = "residual" // last-write-wins per-name state
	GroupDamage   Group = "damage"   // type-weighted expected damage
	GroupSurvivor Group = "survivor" // survivor/strategy features
)

// AllGroups lists every group in the order its features are emitted
var AllGroups = []Group{
	GroupTeam, GroupTurns, GroupMatchups, GroupStatus, GroupResidual, GroupDamage, GroupSurvivor,
}

// Comparison selects how two per-side aggregates are compared
type Comparison string

const (
	CompareDiff Comparison = "diff" // p1 - p2
	CompareFlag Comparison = "flag" // boolean/0-1 advantage
)

// Aggregation selects how a per-turn difference is folded over dual-move turns
type Aggregation string

const (
	AggregateCount    Aggregation = "count"     // turns where p1 > p2
	AggregateMeanDiff Aggregation = "mean-diff" // mean of p1 - p2
)

// MoveScope selects which turns feed the per-side move means
type MoveScope string

const (
	ScopeDual MoveScope = "dual" // both sides moved
	ScopeOwn  MoveScope = "own"  // this side moved
)

type TeamOptions struct {
	LeadStat     string `yaml:"lead_stat"`
	LeadStatDiff bool   `yaml:"lead_stat_diff"`
}

type TurnOptions struct {
	// Overrides Config.LowHPThreshold for the per-turn shortage count when > 0
	ShortageThreshold float64     `yaml:"shortage_threshold"`
	LastTurnAdvantage bool        `yaml:"last_turn_advantage"`
	ZeroHP            Comparison  `yaml:"zero_hp"`
	MoveStats         bool        `yaml:"move_stats"`
	MeanBasePower     bool        `yaml:"mean_base_power"`
	MoveScope         MoveScope   `yaml:"move_scope"`
	PriorityAdvantage Aggregation `yaml:"priority_advantage"`
}

type MatchupOptions struct {
	NameCounters bool `yaml:"name_counters"`
}

type StatusOptions struct {
	Statuses    []string `yaml:"statuses"`
	CrossCounts bool     `yaml:"cross_counts"`
}

type ResidualOptions struct {
	PerNameColumns bool       `yaml:"per_name_columns"`
	Counts         bool       `yaml:"counts"`
	Advantage      Comparison `yaml:"advantage"`
	// Writes player 2's low-HP count into the player 1 column as well. Only the
	// sealed presets set this, to replay the columns they were measured with.
	MirrorP2LowHPCount bool `yaml:"mirror_p2_low_hp_count"`
}

type SurvivorOptions struct {
	StrongNames      []string `yaml:"strong_names"`
	WeakNames        []string `yaml:"weak_names"`
	SurvivorType     string   `yaml:"survivor_type"`
	CriticalStatuses []string `yaml:"critical_statuses"`
	EffectWeight     float64  `yaml:"effect_weight"`
	TeamSize         int      `yaml:"team_size"`
}

// Config declares which feature groups run and how. Presets are named Configs.
type Config struct {
	Name           string  `yaml:"name"`
	LowHPThreshold float64 `yaml:"low_hp_threshold"`
	Groups         []Group `yaml:"groups"`

	Team     TeamOptions     `yaml:"team"`
	Turns    TurnOptions     `yaml:"turns"`
	Matchups MatchupOptions  `yaml:"matchups"`
	Status   StatusOptions   `yaml:"status"`
	Residual ResidualOptions `yaml:"residual"`
	Survivor SurvivorOptions `yaml:"survivor"`
}

// Enabled reports whether a group is part of the config
func (c *Config) Enabled(g Group) bool {
	return lo.Contains(c.Groups, g)
}

func (c *Config) shortageThreshold() float64 {
	if c.Turns.ShortageThreshold > 0 {
		return c.Turns.ShortageThreshold
	}
	return c.LowHPThreshold
}

// needsPokedex reports whether any enabled group looks up Pokémon beyond the
// battle's own team listing
func (c *Config) needsPokedex() bool {
	return c.Enabled(GroupDamage) || c.Enabled(GroupSurvivor)
}

var ErrInvalidConfig = errors.New("invalid feature config")

// Validate checks option values before any battle is processed
func (c *Config) Validate() error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w %q: %s", ErrInvalidConfig, c.Name, fmt.Sprintf(format, args...))
	}

	if c.LowHPThreshold <= 0 || c.LowHPThreshold > 1 {
		return fail("low_hp_threshold %v must be in (0,1]", c.LowHPThreshold)
	}
	if c.Turns.ShortageThreshold < 0 || c.Turns.ShortageThreshold > 1 {
		return fail("turns.shortage_threshold %v must be in [0,1]", c.Turns.ShortageThreshold)
	}
	if len(c.Groups) == 0 {
		return fail("no feature groups enabled")
	}
	for _, g := range c.Groups {
		if !lo.Contains(AllGroups, g) {
			return fail("unknown group %q", g)
		}
	}

	if c.Enabled(GroupTeam) {
		if _, ok := (battle.Pokemon{}).Stat(c.Team.LeadStat); !ok {
			return fail("team.lead_stat %q is not a base stat", c.Team.LeadStat)
		}
	}
	if c.Enabled(GroupTurns) {
		if c.Turns.ZeroHP != CompareDiff && c.Turns.ZeroHP != CompareFlag {
			return fail("turns.zero_hp %q must be diff or flag", c.Turns.ZeroHP)
		}
		if c.Turns.MoveStats {
			if c.Turns.MoveScope != ScopeDual && c.Turns.MoveScope != ScopeOwn {
				return fail("turns.move_scope %q must be dual or own", c.Turns.MoveScope)
			}
			if c.Turns.PriorityAdvantage != AggregateCount && c.Turns.PriorityAdvantage != AggregateMeanDiff {
				return fail("turns.priority_advantage %q must be count or mean-diff", c.Turns.PriorityAdvantage)
			}
		}
	}
	if c.Enabled(GroupResidual) {
		if c.Residual.Advantage != CompareDiff && c.Residual.Advantage != CompareFlag {
			return fail("residual.advantage %q must be diff or flag", c.Residual.Advantage)
		}
	}
	if c.Enabled(GroupStatus) && len(c.Status.Statuses) == 0 {
		return fail("status group enabled without statuses")
	}
	if c.Enabled(GroupSurvivor) {
		if c.Survivor.TeamSize < 1 {
			return fail("survivor.team_size must be positive")
		}
		if c.Survivor.EffectWeight < 0 {
			return fail("survivor.effect_weight must not be negative")
		}
	}
	return nil
}
