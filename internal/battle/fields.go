package battle

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// Keys a decoded record must carry. Name and types have their own checks.
var (
	pokemonKeys = []string{"level", "base_hp", "base_atk", "base_def", "base_spa", "base_spd", "base_spe"}
	stateKeys   = []string{"hp_pct"}
	moveKeys    = []string{"type", "base_power", "accuracy", "priority"}
)

// missingKeys returns the keys absent or null in raw, in keys order
func missingKeys(raw map[string]json.RawMessage, keys []string) []string {
	var missing []string
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			missing = append(missing, k)
		}
	}
	return missing
}

// decodeTracked decodes data into v and reports which of keys were not present
func decodeTracked(data []byte, v any, keys []string) ([]string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return nil, err
	}
	return missingKeys(raw, keys), nil
}

func (p *Pokemon) UnmarshalJSON(data []byte) error {
	type plain Pokemon
	missing, err := decodeTracked(data, (*plain)(p), pokemonKeys)
	p.missing = missing
	return err
}

func (s *PokemonState) UnmarshalJSON(data []byte) error {
	type plain PokemonState
	missing, err := decodeTracked(data, (*plain)(s), stateKeys)
	s.missing = missing
	return err
}

func (m *Move) UnmarshalJSON(data []byte) error {
	type plain Move
	missing, err := decodeTracked(data, (*plain)(m), moveKeys)
	m.missing = missing
	return err
}
