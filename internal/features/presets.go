package features

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"battle-features/internal/battle"
)

const DefaultPreset = "default"

var ErrUnknownPreset = errors.New("unknown preset")

var (
	fullStatuses    = []string{battle.StatusNone, battle.StatusFrozen, battle.StatusAsleep, battle.StatusFainted}
	minimalStatuses = []string{battle.StatusNone, battle.StatusFrozen, battle.StatusParalyzed, battle.StatusAsleep, battle.StatusFainted}
	sealedStatuses  = []string{
		battle.StatusNone, battle.StatusFrozen, battle.StatusAsleep, battle.StatusFainted,
		battle.StatusToxic, battle.StatusPoisoned, battle.StatusBurned,
	}
	allStatuses = []string{
		battle.StatusNone, battle.StatusFrozen, battle.StatusAsleep, battle.StatusFainted,
		battle.StatusParalyzed, battle.StatusPoisoned, battle.StatusBurned, battle.StatusToxic,
	}
)

func defaultSurvivor() SurvivorOptions {
	return SurvivorOptions{
		StrongNames:      []string{"exeggutor", "snorlax", "chansey"},
		WeakNames:        []string{"charizard"},
		SurvivorType:     "psychic",
		CriticalStatuses: []string{battle.StatusPoisoned, battle.StatusBurned},
		EffectWeight:     0.4,
		TeamSize:         6,
	}
}

// historicalTurns is the turn group as the fuller historical snapshots ran it
func historicalTurns() TurnOptions {
	return TurnOptions{
		LastTurnAdvantage: true,
		ZeroHP:            CompareDiff,
		MoveStats:         true,
		MoveScope:         ScopeOwn,
		PriorityAdvantage: AggregateMeanDiff,
	}
}

// builtins returns fresh copies of every built-in preset
func builtins() map[string]Config {
	presets := map[string]Config{
		DefaultPreset: {
			LowHPThreshold: 0.3,
			Groups:         AllGroups,
			Team:           TeamOptions{LeadStat: "spe", LeadStatDiff: true},
			Turns: TurnOptions{
				LastTurnAdvantage: true,
				ZeroHP:            CompareDiff,
				MoveStats:         true,
				MeanBasePower:     true,
				MoveScope:         ScopeDual,
				PriorityAdvantage: AggregateMeanDiff,
			},
			Matchups: MatchupOptions{NameCounters: true},
			Status:   StatusOptions{Statuses: allStatuses, CrossCounts: true},
			Residual: ResidualOptions{PerNameColumns: true, Counts: true, Advantage: CompareDiff},
			Survivor: defaultSurvivor(),
		},
		"full": {
			LowHPThreshold: 0.3,
			Groups:         []Group{GroupTeam, GroupTurns, GroupMatchups, GroupStatus, GroupResidual},
			Team:           TeamOptions{LeadStat: "spd"},
			Turns:          historicalTurns(),
			Matchups:       MatchupOptions{NameCounters: true},
			Status:         StatusOptions{Statuses: fullStatuses, CrossCounts: true},
			Residual:       ResidualOptions{PerNameColumns: true, Advantage: CompareDiff},
		},
		"battles-only": {
			LowHPThreshold: 0.3,
			Groups:         []Group{GroupTurns, GroupMatchups, GroupStatus, GroupResidual},
			Turns:          historicalTurns(),
			Matchups:       MatchupOptions{NameCounters: true},
			Status:         StatusOptions{Statuses: fullStatuses, CrossCounts: true},
			Residual:       ResidualOptions{PerNameColumns: true, Advantage: CompareFlag},
		},
		"minimal": {
			LowHPThreshold: 0.3,
			Groups:         []Group{GroupTurns, GroupStatus, GroupResidual},
			Turns:          TurnOptions{ZeroHP: CompareFlag},
			Status:         StatusOptions{Statuses: minimalStatuses, CrossCounts: true},
			Residual:       ResidualOptions{PerNameColumns: true, Advantage: CompareFlag},
		},
		"sealed-82": {
			LowHPThreshold: 0.3,
			Groups:         []Group{GroupTeam, GroupTurns, GroupMatchups, GroupResidual},
			Team:           TeamOptions{LeadStat: "spd"},
			Turns: TurnOptions{
				ShortageThreshold: 0.1,
				LastTurnAdvantage: true,
				ZeroHP:            CompareFlag,
				MoveStats:         true,
				MoveScope:         ScopeOwn,
				PriorityAdvantage: AggregateCount,
			},
			Matchups: MatchupOptions{NameCounters: true},
			Residual: ResidualOptions{PerNameColumns: true, Advantage: CompareFlag, MirrorP2LowHPCount: true},
		},
		"sealed-848": {
			LowHPThreshold: 0.3,
			Groups:         []Group{GroupTeam, GroupTurns, GroupMatchups, GroupStatus, GroupResidual},
			Team:           TeamOptions{LeadStat: "spd"},
			Turns: TurnOptions{
				ShortageThreshold: 0.1,
				LastTurnAdvantage: true,
				ZeroHP:            CompareDiff,
				MoveStats:         true,
				MoveScope:         ScopeOwn,
				PriorityAdvantage: AggregateMeanDiff,
			},
			Matchups: MatchupOptions{NameCounters: true},
			Status:   StatusOptions{Statuses: sealedStatuses},
			Residual: ResidualOptions{PerNameColumns: true, Advantage: CompareFlag, MirrorP2LowHPCount: true},
		},
		"damage": {
			LowHPThreshold: 0.35,
			Groups:         []Group{GroupTeam, GroupTurns, GroupResidual, GroupDamage},
			Team:           TeamOptions{LeadStat: "spe"},
			Turns: TurnOptions{
				LastTurnAdvantage: true,
				ZeroHP:            CompareDiff,
				MoveStats:         true,
				MoveScope:         ScopeOwn,
				PriorityAdvantage: AggregateMeanDiff,
			},
			Residual: ResidualOptions{Counts: true, Advantage: CompareDiff},
		},
		"survivor": {
			LowHPThreshold: 0.3,
			Groups:         []Group{GroupSurvivor},
			Survivor:       defaultSurvivor(),
		},
	}
	for name, cfg := range presets {
		cfg.Name = name
		presets[name] = cfg
	}
	return presets
}

var (
	registryMu sync.RWMutex
	registry   = builtins()
)

// Preset returns a copy of a named preset
func Preset(name string) (Config, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	cfg, ok := registry[name]
	if !ok {
		return Config{}, fmt.Errorf("%w %q (available: %v)", ErrUnknownPreset, name, presetNamesLocked())
	}
	return cfg.clone(), nil
}

// PresetNames lists registered presets alphabetically
func PresetNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return presetNamesLocked()
}

func presetNamesLocked() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds or replaces a preset after validating it
func Register(cfg Config) error {
	if cfg.Name == "" {
		return fmt.Errorf("%w: preset needs a name", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[cfg.Name] = cfg.clone()
	return nil
}

// clone copies the slices so callers cannot mutate a registered preset
func (c *Config) clone() Config {
	out := *c
	out.Groups = append([]Group(nil), c.Groups...)
	out.Status.Statuses = append([]string(nil), c.Status.Statuses...)
	out.Survivor.StrongNames = append([]string(nil), c.Survivor.StrongNames...)
	out.Survivor.WeakNames = append([]string(nil), c.Survivor.WeakNames...)
	out.Survivor.CriticalStatuses = append([]string(nil), c.Survivor.CriticalStatuses...)
	return out
}
