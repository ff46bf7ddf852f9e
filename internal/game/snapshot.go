package game

import "github.com/sealed-arena/backend/internal/pool"

// Snapshot returns a deep copy of the externally visible game state. The
// owning actor hands copies to outbound channels so encoding never races
// later mutations.
func (s *Session) Snapshot() *Session {
	players := make(map[string]*Player, len(s.Players))
	for identity, p := range s.Players {
		players[identity] = &Player{
			Hand:      cloneInstances(p.Hand),
			Library:   cloneInstances(p.Library),
			Graveyard: cloneInstances(p.Graveyard),
			Exile:     cloneInstances(p.Exile),
			Life:      p.Life,
		}
	}
	roles := make(map[string]Role, len(s.Roles))
	for identity, r := range s.Roles {
		roles[identity] = r
	}
	return &Session{
		Players:     players,
		Battlefield: append([]Placement{}, s.Battlefield...),
		Counters:    append([]Counter{}, s.Counters...),
		Tokens:      append([]Token{}, s.Tokens...),
		Roles:       roles,
		Turn:        s.Turn,
	}
}

func cloneInstances(cards []pool.Instance) []pool.Instance {
	return append([]pool.Instance{}, cards...)
}
