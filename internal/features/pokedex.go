package features

import "battle-features/internal/battle"

// Pokedex is a name -> attributes table built from team listings.
// The first listing of a name wins.
type Pokedex struct {
	entries map[string]battle.Pokemon
}

func NewPokedex() *Pokedex {
	return &Pokedex{entries: make(map[string]battle.Pokemon)}
}

// BuildPokedex collects every p1 team member and p2 lead across battles
func BuildPokedex(battles []battle.Battle) *Pokedex {
	dex := NewPokedex()
	for i := range battles {
		dex.AddBattle(&battles[i])
	}
	return dex
}

// AddBattle adds the battle's team and lead listings
func (d *Pokedex) AddBattle(b *battle.Battle) {
	for _, p := range b.P1Team {
		d.Add(p)
	}
	if b.P2Lead != nil {
		d.Add(*b.P2Lead)
	}
}

// Add stores p unless its name is already known. Reports whether it was stored.
func (d *Pokedex) Add(p battle.Pokemon) bool {
	if p.Name == "" {
		return false
	}
	if _, ok := d.entries[p.Name]; ok {
		return false
	}
	d.entries[p.Name] = p
	return true
}

// Lookup is safe on a nil Pokedex
func (d *Pokedex) Lookup(name string) (battle.Pokemon, bool) {
	if d == nil {
		return battle.Pokemon{}, false
	}
	p, ok := d.entries[name]
	return p, ok
}

func (d *Pokedex) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}
