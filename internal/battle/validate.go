package battle

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingTeam   = errors.New("missing p1 team details")
	ErrMissingLead   = errors.New("missing p2 lead details")
	ErrEmptyTimeline = errors.New("empty battle timeline")
	ErrMissingName   = errors.New("missing pokemon name")
	ErrBadTypes      = errors.New("pokemon must list two types")
	ErrHPOutOfRange  = errors.New("hp_pct outside [0,1]")
	ErrMissingField  = errors.New("missing required field")
)

func missingField(keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(keys, ", "))
}

// ValidationError reports the first malformed field of a battle record
type ValidationError struct {
	BattleID string
	Field    string
	Err      error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("battle %s: %s: %v", e.BattleID, e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks that every field the feature groups read is present.
// Records that fail validation must not produce features.
func (b *Battle) Validate() error {
	fail := func(field string, err error) error {
		return &ValidationError{BattleID: b.BattleID, Field: field, Err: err}
	}

	if len(b.P1Team) == 0 {
		return fail("p1_team_details", ErrMissingTeam)
	}
	for i, p := range b.P1Team {
		if err := validatePokemon(p); err != nil {
			return fail(fmt.Sprintf("p1_team_details[%d]", i), err)
		}
	}

	if b.P2Lead == nil {
		return fail("p2_lead_details", ErrMissingLead)
	}
	if err := validatePokemon(*b.P2Lead); err != nil {
		return fail("p2_lead_details", err)
	}

	if len(b.Timeline) == 0 {
		return fail("battle_timeline", ErrEmptyTimeline)
	}
	for i := range b.Timeline {
		turn := &b.Timeline[i]
		for _, side := range Sides {
			st := turn.State(side)
			field := fmt.Sprintf("battle_timeline[%d].%s_pokemon_state", i, side.Prefix())
			if st.Name == "" {
				return fail(field, ErrMissingName)
			}
			if err := missingField(st.missing); err != nil {
				return fail(field, err)
			}
			if st.HPPct < 0 || st.HPPct > 1 {
				return fail(field, ErrHPOutOfRange)
			}
			if m := turn.Move(side); m != nil {
				if err := missingField(m.missing); err != nil {
					return fail(fmt.Sprintf("battle_timeline[%d].%s_move_details", i, side.Prefix()), err)
				}
			}
		}
	}
	return nil
}

func validatePokemon(p Pokemon) error {
	if p.Name == "" {
		return ErrMissingName
	}
	if len(p.Types) != 2 {
		return ErrBadTypes
	}
	return missingField(p.missing)
}
