package battle

// Side identifies one of the two players in a battle
type Side int

const (
	P1 Side = iota
	P2
)

// Prefix returns the short column prefix for the side ("p1" or "p2")
func (s Side) Prefix() string {
	if s == P2 {
		return "p2"
	}
	return "p1"
}

// Other returns the opposing side
func (s Side) Other() Side {
	if s == P1 {
		return P2
	}
	return P1
}

// Sides lists both players in output order
var Sides = [2]Side{P1, P2}

// Status values as they appear in the battle logs
const (
	StatusNone      = "nostatus"
	StatusFrozen    = "frz"
	StatusAsleep    = "slp"
	StatusFainted   = "fnt"
	StatusParalyzed = "par"
	StatusPoisoned  = "psn"
	StatusBurned    = "brn"
	StatusToxic     = "tox"

	NoType = "notype"
)

// Battle is one structured battle log record (one JSONL line)
type Battle struct {
	BattleID  string    `json:"battle_id"`
	PlayerWon *bool     `json:"player_won,omitempty"` // absent at inference time
	P1Team    []Pokemon `json:"p1_team_details"`
	P2Lead    *Pokemon  `json:"p2_lead_details"`
	Timeline  []Turn    `json:"battle_timeline"`
}

// Pokemon describes a Pokémon's identity and base stats
type Pokemon struct {
	Name    string   `json:"name"`
	Level   int      `json:"level"`
	Types   []string `json:"types"`
	BaseHP  float64  `json:"base_hp"`
	BaseAtk float64  `json:"base_atk"`
	BaseDef float64  `json:"base_def"`
	BaseSpa float64  `json:"base_spa"`
	BaseSpd float64  `json:"base_spd"`
	BaseSpe float64  `json:"base_spe"`

	missing []string // required keys absent from the decoded record
}

// Stat names in the order features are emitted
var StatNames = []string{"hp", "atk", "def", "spa", "spd", "spe"}

// Stat returns a base stat by its short name. Unknown names return 0, false.
func (p Pokemon) Stat(name string) (float64, bool) {
	switch name {
	case "hp":
		return p.BaseHP, true
	case "atk":
		return p.BaseAtk, true
	case "def":
		return p.BaseDef, true
	case "spa":
		return p.BaseSpa, true
	case "spd":
		return p.BaseSpd, true
	case "spe":
		return p.BaseSpe, true
	}
	return 0, false
}

// Type returns the i-th type (0 or 1), or NoType when the slot is missing
func (p Pokemon) Type(i int) string {
	if i < len(p.Types) && p.Types[i] != "" {
		return p.Types[i]
	}
	return NoType
}

// HasType reports whether the Pokémon carries the given elemental type
func (p Pokemon) HasType(t string) bool {
	for _, own := range p.Types {
		if own == t && own != NoType {
			return true
		}
	}
	return false
}

// Turn is one element of the battle timeline
type Turn struct {
	Turn    int          `json:"turn"`
	P1State PokemonState `json:"p1_pokemon_state"`
	P1Move  *Move        `json:"p1_move_details"` // nil when p1 switched instead of moving
	P2State PokemonState `json:"p2_pokemon_state"`
	P2Move  *Move        `json:"p2_move_details"`
}

// State returns the active Pokémon snapshot for a side
func (t *Turn) State(s Side) *PokemonState {
	if s == P2 {
		return &t.P2State
	}
	return &t.P1State
}

// Move returns the move used by a side, or nil
func (t *Turn) Move(s Side) *Move {
	if s == P2 {
		return t.P2Move
	}
	return t.P1Move
}

// BothMoved reports whether both sides used a move this turn (no switch)
func (t *Turn) BothMoved() bool {
	return t.P1Move != nil && t.P2Move != nil
}

// PokemonState is the per-turn snapshot of a side's active Pokémon
type PokemonState struct {
	Name    string         `json:"name"`
	HPPct   float64        `json:"hp_pct"`
	Status  string         `json:"status"`
	Effects []string       `json:"effects,omitempty"`
	Boosts  map[string]int `json:"boosts,omitempty"`

	missing []string
}

// Move describes the move a side used on a turn
type Move struct {
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Category  string  `json:"category,omitempty"`
	BasePower float64 `json:"base_power"`
	Accuracy  float64 `json:"accuracy"` // percent, 0-100
	Priority  int     `json:"priority"`

	missing []string
}

// Won returns the outcome as 0/1 and whether it is known
func (b *Battle) Won() (int, bool) {
	if b.PlayerWon == nil {
		return 0, false
	}
	if *b.PlayerWon {
		return 1, true
	}
	return 0, true
}

// LastTurn returns the final timeline element. The timeline must be non-empty.
func (b *Battle) LastTurn() *Turn {
	return &b.Timeline[len(b.Timeline)-1]
}
