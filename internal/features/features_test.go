package features

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"battle-features/internal/battle"

	json "github.com/goccy/go-json"
)

var (
	tackle  = &battle.Move{Name: "tackle", Type: "normal", BasePower: 40, Accuracy: 100}
	surf    = &battle.Move{Name: "surf", Type: "water", BasePower: 100, Accuracy: 100}
	agility = &battle.Move{Name: "agility", Type: "psychic", BasePower: 0, Accuracy: 100, Priority: 1}
)

func state(name string, hp float64) battle.PokemonState {
	return battle.PokemonState{Name: name, HPPct: hp, Status: battle.StatusNone}
}

func turn(n int, p1 battle.PokemonState, m1 *battle.Move, p2 battle.PokemonState, m2 *battle.Move) battle.Turn {
	return battle.Turn{Turn: n, P1State: p1, P1Move: m1, P2State: p2, P2Move: m2}
}

func newBattle(id string, timeline ...battle.Turn) battle.Battle {
	won := true
	return battle.Battle{
		BattleID:  id,
		PlayerWon: &won,
		P1Team: []battle.Pokemon{
			{Name: "A", Level: 100, Types: []string{"water", "psychic"}, BaseHP: 60, BaseAtk: 75, BaseDef: 85, BaseSpa: 100, BaseSpd: 100, BaseSpe: 100},
			{Name: "snorlax", Level: 100, Types: []string{"normal", "notype"}, BaseHP: 160, BaseAtk: 110, BaseDef: 65, BaseSpa: 65, BaseSpd: 65, BaseSpe: 30},
		},
		P2Lead:   &battle.Pokemon{Name: "B", Level: 100, Types: []string{"fire", "notype"}, BaseHP: 78, BaseAtk: 84, BaseDef: 78, BaseSpa: 109, BaseSpd: 85, BaseSpe: 80},
		Timeline: timeline,
	}
}

func mustExtractor(t *testing.T, preset string, mutate func(*Config)) *Extractor {
	t.Helper()
	cfg, err := Preset(preset)
	if err != nil {
		t.Fatalf("Preset(%s): %v", preset, err)
	}
	if mutate != nil {
		mutate(&cfg)
	}
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func mustExtract(t *testing.T, e *Extractor, b battle.Battle) *Record {
	t.Helper()
	rec, err := e.Extract(&b)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	return rec
}

func feature(t *testing.T, rec *Record, key string) float64 {
	t.Helper()
	v, ok := rec.Get(key)
	if !ok {
		t.Fatalf("feature %q missing; have %v", key, rec.Keys())
	}
	return v.Float()
}

// TestPresets_AllValid tests that every built-in preset passes validation
func TestPresets_AllValid(t *testing.T) {
	for _, name := range PresetNames() {
		t.Run(name, func(t *testing.T) {
			cfg, err := Preset(name)
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Name != name {
				t.Errorf("Expected name %q, got %q", name, cfg.Name)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("Preset should validate: %v", err)
			}
		})
	}
}

func TestPreset_Unknown(t *testing.T) {
	if _, err := Preset("nope"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("Expected ErrUnknownPreset, got %v", err)
	}
}

// TestPreset_ReturnsCopy tests that mutating a returned preset leaves the registry intact
func TestPreset_ReturnsCopy(t *testing.T) {
	cfg, _ := Preset(DefaultPreset)
	cfg.Groups[0] = GroupDamage
	cfg.Status.Statuses[0] = "changed"

	again, _ := Preset(DefaultPreset)
	if again.Groups[0] != GroupTeam || again.Status.Statuses[0] != battle.StatusNone {
		t.Error("Registry preset was mutated through a returned copy")
	}
}

func TestRegister(t *testing.T) {
	cfg, _ := Preset("minimal")
	cfg.Name = "minimal-strict"
	cfg.LowHPThreshold = 0.1
	if err := Register(cfg); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	got, err := Preset("minimal-strict")
	if err != nil || got.LowHPThreshold != 0.1 {
		t.Errorf("Expected registered preset, got %+v (%v)", got, err)
	}

	cfg.LowHPThreshold = 0
	if err := Register(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for zero threshold, got %v", err)
	}
}

// TestConfigValidate tests option checks
func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"threshold above one", func(c *Config) { c.LowHPThreshold = 1.5 }},
		{"no groups", func(c *Config) { c.Groups = nil }},
		{"unknown group", func(c *Config) { c.Groups = append(c.Groups, "weather") }},
		{"bad lead stat", func(c *Config) { c.Team.LeadStat = "luck" }},
		{"bad zero comparison", func(c *Config) { c.Turns.ZeroHP = "ratio" }},
		{"bad move scope", func(c *Config) { c.Turns.MoveScope = "" }},
		{"no statuses", func(c *Config) { c.Status.Statuses = nil }},
		{"zero team size", func(c *Config) { c.Survivor.TeamSize = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, _ := Preset(DefaultPreset)
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

// TestLowHPCount_MonotonicInThreshold tests that raising the threshold never lowers a low-HP count
func TestLowHPCount_MonotonicInThreshold(t *testing.T) {
	b := newBattle("mono",
		turn(1, state("A", 0.95), tackle, state("B", 0.9), tackle),
		turn(2, state("A", 0.42), tackle, state("B", 0.31), tackle),
		turn(3, state("snorlax", 0.18), tackle, state("C", 0.05), tackle),
		turn(4, state("snorlax", 0), nil, state("C", 0.6), tackle),
	)

	keys := []string{"p1_hp_pct_shortage", "p2_hp_pct_shortage", "p1_players_with_low_hp_pct", "p2_players_with_low_hp_pct"}
	prev := make(map[string]float64)
	for _, thr := range []float64{0.05, 0.1, 0.2, 0.3, 0.35, 0.5, 0.75, 1} {
		e := mustExtractor(t, DefaultPreset, func(c *Config) { c.LowHPThreshold = thr })
		rec := mustExtract(t, e, b)
		for _, k := range keys {
			got := feature(t, rec, k)
			if got < prev[k] {
				t.Errorf("%s decreased from %v to %v at threshold %v", k, prev[k], got, thr)
			}
			prev[k] = got
		}
	}
	if prev["p1_hp_pct_shortage"] != 4 {
		t.Errorf("Expected 4 p1 shortage turns at threshold 1, got %v", prev["p1_hp_pct_shortage"])
	}
}

// TestHPLastAdvantage_TieGoesToPlayerOne tests that equal final HP counts as a p1 advantage
func TestHPLastAdvantage_TieGoesToPlayerOne(t *testing.T) {
	e := mustExtractor(t, DefaultPreset, nil)
	rec := mustExtract(t, e, newBattle("tie", turn(1, state("A", 0.5), tackle, state("B", 0.5), tackle)))

	v, _ := rec.Get("hp_last_advantage")
	if v.Kind() != KindBool || v.Float() != 1 {
		t.Errorf("Expected hp_last_advantage=true on a tie, got %v", v)
	}
}

// TestMatchupCounter_SkipsSwitchTurns tests that only dual-move turns count toward a name pair
func TestMatchupCounter_SkipsSwitchTurns(t *testing.T) {
	b := newBattle("pairs",
		turn(1, state("A", 1), tackle, state("B", 1), tackle),
		turn(2, state("A", 1), tackle, state("B", 1), nil),
		turn(3, state("A", 1), tackle, state("B", 1), tackle),
	)
	rec := mustExtract(t, mustExtractor(t, DefaultPreset, nil), b)

	if got := feature(t, rec, "A_B"); got != 2 {
		t.Errorf("Expected A_B=2, got %v", got)
	}
	if got := feature(t, rec, "A"); got != 2 {
		t.Errorf("Expected bare counter A=2, got %v", got)
	}

	rec = mustExtract(t, mustExtractor(t, DefaultPreset, func(c *Config) { c.Matchups.NameCounters = false }), b)
	if _, ok := rec.Get("A"); ok {
		t.Error("Bare name counters should be off")
	}
}

// TestResidual_LastWriteWins tests residual sums and alive counts from final occurrences
func TestResidual_LastWriteWins(t *testing.T) {
	b := newBattle("residual",
		turn(1, state("X", 0.9), tackle, state("B", 1), tackle),
		turn(2, state("Y", 0.3), tackle, state("B", 0.8), tackle),
		turn(3, state("Y", 0), nil, state("B", 0.8), tackle),
		turn(4, state("X", 0.4), tackle, state("B", 0.7), tackle),
	)
	rec := mustExtract(t, mustExtractor(t, DefaultPreset, nil), b)

	if got := feature(t, rec, "p1_residual_hp_pct"); got != 0.4 {
		t.Errorf("Expected p1 residual 0.4, got %v", got)
	}
	if got := feature(t, rec, "p1_alive_count"); got != 1 {
		t.Errorf("Expected 1 alive, got %v", got)
	}
	if got := feature(t, rec, "p1_X_hp_pct"); got != 0.4 {
		t.Errorf("Expected p1_X_hp_pct=0.4, got %v", got)
	}
	if got := feature(t, rec, "p1_players_with_low_hp_pct"); got != 1 {
		t.Errorf("Expected Y as the only low-HP p1 Pokémon, got %v", got)
	}
}

// TestResidual_MirrorP2LowHPCount tests the historical column copy
func TestResidual_MirrorP2LowHPCount(t *testing.T) {
	b := newBattle("mirror",
		turn(1, state("A", 0.9), tackle, state("B", 0.1), tackle),
		turn(2, state("A", 0.9), tackle, state("C", 0.2), tackle),
	)

	rec := mustExtract(t, mustExtractor(t, "sealed-82", nil), b)
	if got := feature(t, rec, "p1_players_with_low_hp_pct"); got != 2 {
		t.Errorf("sealed-82 should copy p2's count (2) into p1, got %v", got)
	}

	rec = mustExtract(t, mustExtractor(t, DefaultPreset, nil), b)
	if got := feature(t, rec, "p1_players_with_low_hp_pct"); got != 0 {
		t.Errorf("default should report p1's own count (0), got %v", got)
	}
}

// TestExpectedDamage_Formula tests the power x accuracy x STAB x effectiveness chain
func TestExpectedDamage_Formula(t *testing.T) {
	move := battle.Move{Type: "water", BasePower: 100, Accuracy: 50}
	got := ExpectedDamage(move, []string{"water", "notype"}, []string{"fire", "notype"})
	if got != 150 {
		t.Errorf("Expected 150, got %v", got)
	}

	tests := []struct {
		moveType string
		defender []string
		want     float64
	}{
		{"water", []string{"fire", "rock"}, 4},
		{"fire", []string{"water", "dragon"}, 0.25},
		{"Fighting", []string{"Ghost", "notype"}, 0},
		{"poison", []string{"grass", "notype"}, 1},
	}
	for _, tt := range tests {
		if got := Effectiveness(tt.moveType, tt.defender); got != tt.want {
			t.Errorf("Effectiveness(%s, %v) = %v, want %v", tt.moveType, tt.defender, got, tt.want)
		}
	}
}

// TestDamageGroup tests expected damage resolved through team listings
func TestDamageGroup(t *testing.T) {
	b := newBattle("damage",
		turn(1, state("A", 1), surf, state("B", 1), nil),
		turn(2, state("A", 1), surf, state("B", 0.4), nil),
	)
	rec := mustExtract(t, mustExtractor(t, "damage", nil), b)

	if got := feature(t, rec, "p1_mean_expected_damage"); got != 300 {
		t.Errorf("Expected 300 (100 x 1 x 1.5 x 2), got %v", got)
	}
	if got := feature(t, rec, "p2_mean_expected_damage"); got != 0 {
		t.Errorf("Expected 0 for a side with no moves, got %v", got)
	}
	if got := feature(t, rec, "expected_damage_advantage"); got != 1 {
		t.Errorf("Expected damage advantage for p1, got %v", got)
	}
}

// TestRatioGuards tests that zero denominators divide by one
func TestRatioGuards(t *testing.T) {
	if ratio(7, 0) != 7 || ratio(6, 3) != 2 {
		t.Error("ratio guard mismatch")
	}

	b := newBattle("guards", turn(1, state("A", 1), tackle, state("B", 1), tackle))
	b.P2Lead.BaseSpe = 0
	rec := mustExtract(t, mustExtractor(t, DefaultPreset, nil), b)
	if got := feature(t, rec, "1st_player_spe_advantage"); got != 100 {
		t.Errorf("Expected 100/1 with a zero lead speed, got %v", got)
	}
	if got := feature(t, rec, "critical_status_num_ratio"); got != 1 {
		t.Errorf("Expected 1/1 with no critical statuses, got %v", got)
	}
	if got := feature(t, rec, "c_spe_ratio"); got != 100 {
		t.Errorf("Expected c_spe_ratio 100/1 when p2 has no weighted speed, got %v", got)
	}
}

// TestEmptySubsetMeansAreZero tests that means over no eligible turns are 0
func TestEmptySubsetMeansAreZero(t *testing.T) {
	b := newBattle("switches",
		turn(1, state("A", 1), nil, state("B", 1), tackle),
		turn(2, state("snorlax", 1), tackle, state("B", 1), nil),
	)
	rec := mustExtract(t, mustExtractor(t, DefaultPreset, nil), b)
	for _, k := range []string{"p1_mean_accuracy", "p2_mean_priority", "priority_advantage"} {
		if got := feature(t, rec, k); got != 0 {
			t.Errorf("%s = %v, want 0", k, got)
		}
	}
}

// TestMoveScope tests own-move and dual-move averaging
func TestMoveScope(t *testing.T) {
	b := newBattle("scope",
		turn(1, state("A", 1), agility, state("B", 1), tackle),
		turn(2, state("A", 1), surf, state("B", 1), nil),
	)

	dual := mustExtract(t, mustExtractor(t, DefaultPreset, nil), b)
	if got := feature(t, dual, "p1_mean_priority"); got != 1 {
		t.Errorf("Dual scope should only see agility, got %v", got)
	}
	own := mustExtract(t, mustExtractor(t, DefaultPreset, func(c *Config) { c.Turns.MoveScope = ScopeOwn }), b)
	if got := feature(t, own, "p1_mean_priority"); got != 0.5 {
		t.Errorf("Own scope should average both moves, got %v", got)
	}
	if got := feature(t, own, "priority_advantage"); got != 1 {
		t.Errorf("Expected mean priority difference 1, got %v", got)
	}
}

// TestStatusCrossCounts tests per-side and cross status tallies
func TestStatusCrossCounts(t *testing.T) {
	p1Frozen := state("A", 1)
	p1Frozen.Status = battle.StatusFrozen
	p2Asleep := state("B", 1)
	p2Asleep.Status = battle.StatusAsleep

	b := newBattle("status",
		turn(1, state("A", 1), tackle, p2Asleep, tackle),
		turn(2, state("A", 1), tackle, p2Asleep, tackle),
		turn(3, p1Frozen, tackle, state("B", 1), tackle),
		turn(4, p1Frozen, nil, p2Asleep, tackle),
	)
	rec := mustExtract(t, mustExtractor(t, DefaultPreset, nil), b)

	want := map[string]float64{
		"slp_diff":          -2,
		"frz_diff":          1,
		"nostatus_slp":      2,
		"nostatus_slp_diff": 2,
		"nostatus_frz_diff": -1,
		"tox_diff":          0,
	}
	for k, v := range want {
		if got := feature(t, rec, k); got != v {
			t.Errorf("%s = %v, want %v", k, got, v)
		}
	}
}

// TestSurvivorGroup tests swaps, padding, subset counts and weighted sums
func TestSurvivorGroup(t *testing.T) {
	p2Burned := state("D", 0.6)
	p2Burned.Status = battle.StatusBurned
	p1Last := state("snorlax", 0.5)
	p1Last.Effects = []string{"reflect", "confusion"}

	b := newBattle("survivor",
		turn(1, state("A", 1), tackle, state("B", 0.8), tackle),
		turn(2, state("snorlax", 0.5), nil, state("B", 0), tackle),
		turn(3, p1Last, tackle, p2Burned, nil),
	)
	rec := mustExtract(t, mustExtractor(t, "survivor", nil), b)

	want := map[string]float64{
		"team1_player_swaps":        1,
		"team2_player_swaps":        1,
		"team1_surviving_pokemon":   2,
		"team2_surviving_pokemon":   5,
		"team1_status_score":        0.8,
		"team2_status_score":        1,
		"t1_winningmost_num":        1,
		"t2_critical_status_num":    1,
		"critical_status_num_ratio": 1,
		"t1_psychic_num":            1,
		"t1_c_spe":                  115,
		"t2_c_spe":                  0,
		"c_spe_adv":                 1,
	}
	for k, v := range want {
		if got := feature(t, rec, k); got != v {
			t.Errorf("%s = %v, want %v", k, got, v)
		}
	}
}

// TestExtract_InvalidBattle tests that missing fields fail per battle
func TestExtract_InvalidBattle(t *testing.T) {
	e := mustExtractor(t, DefaultPreset, nil)
	b := newBattle("broken")
	if _, err := e.Extract(&b); !errors.Is(err, battle.ErrEmptyTimeline) {
		t.Errorf("Expected ErrEmptyTimeline, got %v", err)
	}
}

// TestExtractAll_Idempotent tests that two runs over the same input produce identical output
func TestExtractAll_Idempotent(t *testing.T) {
	battles := []battle.Battle{
		newBattle("b1", turn(1, state("A", 0.7), tackle, state("B", 0.2), surf)),
		newBattle("b2", turn(1, state("A", 0.1), surf, state("C", 1), tackle), turn(2, state("snorlax", 1), tackle, state("C", 0.3), tackle)),
		newBattle("bad"),
		newBattle("b3", turn(1, state("snorlax", 0.5), agility, state("B", 0.5), nil)),
	}

	var progressCalls int
	e := mustExtractor(t, DefaultPreset, nil)
	WithWorkers(3)(e)
	WithProgress(func(done, total int) { progressCalls++ }, 1)(e)

	encode := func() []byte {
		res, err := e.ExtractAll(context.Background(), battles)
		if err != nil {
			t.Fatalf("ExtractAll: %v", err)
		}
		if len(res.Records) != 3 || len(res.Errors) != 1 {
			t.Fatalf("Expected 3 records and 1 error, got %d and %d", len(res.Records), len(res.Errors))
		}
		if res.Errors[0].Index != 2 || res.Errors[0].BattleID != "bad" {
			t.Errorf("Unexpected battle error %+v", res.Errors[0])
		}
		out, err := json.Marshal(res.Records)
		if err != nil {
			t.Fatal(err)
		}
		return out
	}

	first, second := encode(), encode()
	if !bytes.Equal(first, second) {
		t.Error("Repeated runs produced different output")
	}
	if progressCalls != 8 {
		t.Errorf("Expected 8 progress calls over two runs, got %d", progressCalls)
	}
	if !bytes.HasPrefix(first, []byte(`[{"battle_id":"b1","player_won":1,`)) {
		t.Errorf("Records should start with battle_id and player_won in input order: %.60s", first)
	}
}

func TestExtractAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := mustExtractor(t, DefaultPreset, nil)
	battles := []battle.Battle{newBattle("b1", turn(1, state("A", 1), tackle, state("B", 1), tackle))}
	if _, err := e.ExtractAll(ctx, battles); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestPokedex_FirstSeenWins(t *testing.T) {
	first := newBattle("one")
	second := newBattle("two")
	second.P1Team[0].BaseSpe = 1

	dex := BuildPokedex([]battle.Battle{first, second})
	p, ok := dex.Lookup("A")
	if !ok || p.BaseSpe != 100 {
		t.Errorf("Expected first listing of A to win, got %+v", p)
	}
	if dex.Len() != 3 {
		t.Errorf("Expected 3 entries, got %d", dex.Len())
	}
	var nilDex *Pokedex
	if _, ok := nilDex.Lookup("A"); ok {
		t.Error("nil Pokedex should find nothing")
	}
}

func TestRecord_OrderedJSON(t *testing.T) {
	rec := NewRecord()
	rec.Set("z", Num(1.5))
	rec.Set("a", Bool(true))
	rec.Set("m", Str("x"))
	rec.Add("z", 1)

	out, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"z":2.5,"a":true,"m":"x"}` {
		t.Errorf("Unexpected JSON %s", out)
	}
	if v, _ := rec.Get("a"); v.String() != "1" {
		t.Errorf("Bool should render as 1, got %q", v.String())
	}
}

// TestSurvivorGroup_BenchedMemberCounts tests that a team member that never
// enters the timeline counts as alive at full health in every survivor aggregate
func TestSurvivorGroup_BenchedMemberCounts(t *testing.T) {
	b := newBattle("bench",
		turn(1, state("A", 1), tackle, state("B", 0.9), tackle),
		turn(2, state("A", 0.5), tackle, state("B", 0.4), tackle),
	)
	rec := mustExtract(t, mustExtractor(t, "survivor", nil), b)

	want := map[string]float64{
		"team1_surviving_pokemon": 2,
		"t1_winningmost_num":      1,
		"t1_psychic_num":          1,
		"t1_c_spe":                80,
		"t1_c_level":              150,
		"team2_surviving_pokemon": 6,
		"t2_c_spe":                32,
	}
	for k, v := range want {
		if got := feature(t, rec, k); got != v {
			t.Errorf("%s = %v, want %v", k, got, v)
		}
	}
}

// TestExtract_RejectsMissingHP tests that a state without hp_pct fails instead of reading as fainted
func TestExtract_RejectsMissingHP(t *testing.T) {
	line, err := json.Marshal(newBattle("nohp", turn(1, state("A", 1), tackle, state("B", 1), tackle)))
	if err != nil {
		t.Fatal(err)
	}
	stripped := bytes.Replace(line, []byte(`"name":"A","hp_pct":1,`), []byte(`"name":"A",`), 1)
	if bytes.Equal(stripped, line) {
		t.Fatalf("fixture JSON has unexpected shape: %s", line)
	}

	res, err := battle.Decode(bytes.NewReader(stripped), "nohp", nil)
	if err != nil || len(res.Battles) != 1 {
		t.Fatalf("decode: %v", err)
	}

	_, err = mustExtractor(t, DefaultPreset, nil).Extract(&res.Battles[0])
	if !errors.Is(err, battle.ErrMissingField) {
		t.Errorf("Expected ErrMissingField, got %v", err)
	}
}

// TestTurnComparisons_PerPreset tests that each preset keeps its own count, mean and flag forms
func TestTurnComparisons_PerPreset(t *testing.T) {
	// power <=: no, yes, yes. priority >: no, yes, yes; diffs -1, +1, +1.
	// hp >: yes, no, yes. p2 ends fainted.
	b := newBattle("compare",
		turn(1, state("A", 1), tackle, state("B", 0.8), agility),
		turn(2, state("A", 0.6), agility, state("B", 0.7), tackle),
		turn(3, state("A", 0.5), agility, state("B", 0), surf),
	)

	tests := []struct {
		preset string
		want   map[string]float64
		absent []string
	}{
		{
			preset: DefaultPreset,
			want: map[string]float64{
				"power_advantage":           2,
				"priority_advantage":        1.0 / 3,
				"hp_pct_advantage":          2,
				"p1_hp_pct_zero_diff":       -1,
				"residual_hp_pct_advantage": 0.5,
			},
			absent: []string{"p1_hp_pct_zero_advantage"},
		},
		{
			preset: "sealed-82",
			want: map[string]float64{
				"power_advantage":           2,
				"priority_advantage":        2,
				"hp_pct_advantage":          2,
				"p1_hp_pct_zero_advantage":  1,
				"residual_hp_pct_advantage": 1,
			},
			absent: []string{"p1_hp_pct_zero_diff"},
		},
		{
			preset: "minimal",
			want: map[string]float64{
				"hp_pct_advantage":          2,
				"p1_hp_pct_zero_advantage":  1,
				"residual_hp_pct_advantage": 1,
			},
			absent: []string{"power_advantage", "priority_advantage", "p1_hp_pct_zero_diff"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			rec := mustExtract(t, mustExtractor(t, tt.preset, nil), b)
			for k, v := range tt.want {
				if got := feature(t, rec, k); got != v {
					t.Errorf("%s = %v, want %v", k, got, v)
				}
			}
			for _, k := range tt.absent {
				if _, ok := rec.Get(k); ok {
					t.Errorf("%s should not be emitted by %s", k, tt.preset)
				}
			}
		})
	}

	flag, _ := mustExtract(t, mustExtractor(t, "sealed-82", nil), b).Get("p1_hp_pct_zero_advantage")
	if flag.Kind() != KindBool {
		t.Errorf("Zero-HP advantage should be a boolean flag, got kind %v", flag.Kind())
	}
}
