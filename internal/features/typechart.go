package features

import "strings"

// typeChart holds attacking type -> defending type multipliers. Pairs that
// are not listed are neutral.
var typeChart = map[string]map[string]float64{
	"fire": {
		"water": 0.5, "rock": 0.5, "fire": 0.5, "grass": 2, "ice": 2, "bug": 2, "steel": 2, "dragon": 0.5,
	},
	"water": {
		"fire": 2, "water": 0.5, "grass": 0.5, "ground": 2, "rock": 2, "dragon": 0.5,
	},
	"grass": {
		"water": 2, "ground": 2, "rock": 2, "fire": 0.5, "grass": 0.5, "poison": 0.5, "flying": 0.5, "bug": 0.5, "dragon": 0.5,
	},
	"electric": {
		"water": 2, "flying": 2, "electric": 0.5, "grass": 0.5, "dragon": 0.5, "ground": 0,
	},
	"ice": {
		"dragon": 2, "flying": 2, "grass": 2, "ground": 2, "fire": 0.5, "water": 0.5, "ice": 0.5, "steel": 0.5,
	},
	"fighting": {
		"normal": 2, "rock": 2, "steel": 2, "ice": 2, "dark": 2, "ghost": 0, "poison": 0.5, "flying": 0.5, "psychic": 0.5, "bug": 0.5, "fairy": 0.5,
	},
	"ground": {
		"fire": 2, "electric": 2, "poison": 2, "rock": 2, "steel": 2, "grass": 0.5, "bug": 0.5, "flying": 0,
	},
	"flying": {
		"grass": 2, "fighting": 2, "bug": 2, "electric": 0.5, "rock": 0.5, "steel": 0.5,
	},
	"psychic": {
		"fighting": 2, "poison": 2, "psychic": 0.5, "steel": 0.5, "dark": 0,
	},
	"ghost": {
		"ghost": 2, "psychic": 2, "dark": 0.5, "normal": 0,
	},
	"normal": {
		"rock": 0.5, "steel": 0.5, "ghost": 0,
	},
	"rock": {
		"fire": 2, "ice": 2, "flying": 2, "bug": 2, "fighting": 0.5, "ground": 0.5, "steel": 0.5,
	},
	"dragon": {
		"dragon": 2, "steel": 0.5,
	},
	"dark": {
		"ghost": 2, "psychic": 2, "dark": 0.5, "fighting": 0.5, "fairy": 0.5,
	},
	"steel": {
		"rock": 2, "ice": 2, "fairy": 2, "steel": 0.5, "fire": 0.5, "water": 0.5, "electric": 0.5,
	},
}

const stabMultiplier = 1.5

// Effectiveness multiplies the chart entry for every defending type
func Effectiveness(moveType string, defenderTypes []string) float64 {
	eff := 1.0
	row, ok := typeChart[strings.ToLower(moveType)]
	if !ok {
		return eff
	}
	for _, t := range defenderTypes {
		if v, ok := row[strings.ToLower(t)]; ok {
			eff *= v
		}
	}
	return eff
}

// STAB is 1.5 when the move shares a type with its user
func STAB(moveType string, attackerTypes []string) float64 {
	for _, t := range attackerTypes {
		if strings.EqualFold(t, moveType) {
			return stabMultiplier
		}
	}
	return 1
}
