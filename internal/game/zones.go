package game

import "github.com/sealed-arena/backend/internal/pool"

// Every mutator returns whether it changed state; callers broadcast only
// on true. Unknown identities, instances, or ids are silent no-ops.

// MoveCard moves a card instance into the target zone. The instance is
// first detached from all four zones of the identity and from the
// battlefield, so invoking the same move twice leaves exactly one copy.
func (s *Session) MoveCard(identity string, card pool.Instance, target Zone, insert DeckInsert) bool {
	p := s.player(identity)
	if p == nil {
		return false
	}
	s.detach(identity, card.InstanceID)

	switch target {
	case ZoneHand:
		p.Hand = append(p.Hand, card)
	case ZoneGraveyard:
		p.Graveyard = append(p.Graveyard, card)
	case ZoneExile:
		p.Exile = append(p.Exile, card)
	case ZoneLibrary:
		switch insert {
		case InsertTop:
			p.Library = append([]pool.Instance{card}, p.Library...)
		case InsertShuffle:
			p.Library = append(p.Library, card)
			s.shuffle(p)
		default:
			p.Library = append(p.Library, card)
		}
	default:
		return false
	}
	return true
}

// PlayToBattlefield places a card on the shared battlefield at the given
// coordinates, untapped, owned by the acting identity. Re-placing an
// instance already on the battlefield just moves it.
func (s *Session) PlayToBattlefield(identity string, card pool.Instance, x, y float64) bool {
	p := s.player(identity)
	if p == nil {
		return false
	}
	s.detach(identity, card.InstanceID)
	s.Battlefield = append(s.Battlefield, Placement{
		Instance: card,
		X:        x,
		Y:        y,
		Tapped:   false,
		Owner:    identity,
	})
	return true
}

// detach removes the instance from every zone of the identity and from
// the battlefield.
func (s *Session) detach(identity, instanceID string) {
	p := s.player(identity)
	if p != nil {
		p.Hand = withoutInstance(p.Hand, instanceID)
		p.Library = withoutInstance(p.Library, instanceID)
		p.Graveyard = withoutInstance(p.Graveyard, instanceID)
		p.Exile = withoutInstance(p.Exile, instanceID)
	}
	kept := s.Battlefield[:0]
	for _, pl := range s.Battlefield {
		if pl.InstanceID != instanceID {
			kept = append(kept, pl)
		}
	}
	s.Battlefield = kept
}

// MoveOnBattlefield updates a placement's coordinates.
func (s *Session) MoveOnBattlefield(instanceID string, x, y float64) bool {
	for i := range s.Battlefield {
		if s.Battlefield[i].InstanceID == instanceID {
			s.Battlefield[i].X = x
			s.Battlefield[i].Y = y
			return true
		}
	}
	return false
}

// TapCard toggles a placement's tapped flag.
func (s *Session) TapCard(instanceID string) bool {
	for i := range s.Battlefield {
		if s.Battlefield[i].InstanceID == instanceID {
			s.Battlefield[i].Tapped = !s.Battlefield[i].Tapped
			return true
		}
	}
	return false
}

// FlipCard toggles a placement's flipped flag.
func (s *Session) FlipCard(instanceID string) bool {
	for i := range s.Battlefield {
		if s.Battlefield[i].InstanceID == instanceID {
			s.Battlefield[i].Flipped = !s.Battlefield[i].Flipped
			return true
		}
	}
	return false
}

// Draw moves the top library card to the hand. Drawing from an empty
// library is a no-op: rules enforcement is out of scope.
func (s *Session) Draw(identity string) bool {
	p := s.player(identity)
	if p == nil || len(p.Library) == 0 {
		return false
	}
	card := p.Library[0]
	p.Library = p.Library[1:]
	p.Hand = append(p.Hand, card)
	return true
}

// SetLife sets a participant's life total. Unbounded in either direction.
func (s *Session) SetLife(identity string, life int) bool {
	p := s.player(identity)
	if p == nil {
		return false
	}
	p.Life = life
	return true
}

// PassTurn advances the turn counter.
func (s *Session) PassTurn() bool {
	s.Turn++
	return true
}

func (s *Session) shuffle(p *Player) {
	s.rng.Shuffle(len(p.Library), func(i, j int) {
		p.Library[i], p.Library[j] = p.Library[j], p.Library[i]
	})
}

func withoutInstance(cards []pool.Instance, instanceID string) []pool.Instance {
	kept := cards[:0]
	for _, c := range cards {
		if c.InstanceID != instanceID {
			kept = append(kept, c)
		}
	}
	return kept
}

// AddCounter places a new counter on the battlefield.
func (s *Session) AddCounter(c Counter) bool {
	s.Counters = append(s.Counters, c)
	return true
}

// MoveCounter repositions a counter and, when value is non-nil, updates
// its numeric value.
func (s *Session) MoveCounter(id string, x, y float64, value *int) bool {
	for i := range s.Counters {
		if s.Counters[i].ID == id {
			s.Counters[i].X = x
			s.Counters[i].Y = y
			if value != nil {
				s.Counters[i].Value = *value
			}
			return true
		}
	}
	return false
}

// RemoveCounter deletes a counter by id.
func (s *Session) RemoveCounter(id string) bool {
	for i := range s.Counters {
		if s.Counters[i].ID == id {
			s.Counters = append(s.Counters[:i], s.Counters[i+1:]...)
			return true
		}
	}
	return false
}

// AddToken places a new token on the battlefield.
func (s *Session) AddToken(t Token) bool {
	s.Tokens = append(s.Tokens, t)
	return true
}

// MoveToken repositions a token.
func (s *Session) MoveToken(id string, x, y float64) bool {
	for i := range s.Tokens {
		if s.Tokens[i].ID == id {
			s.Tokens[i].X = x
			s.Tokens[i].Y = y
			return true
		}
	}
	return false
}

// TapToken toggles a token's tapped flag.
func (s *Session) TapToken(id string) bool {
	for i := range s.Tokens {
		if s.Tokens[i].ID == id {
			s.Tokens[i].Tapped = !s.Tokens[i].Tapped
			return true
		}
	}
	return false
}

// FlipToken toggles a token's flipped flag.
func (s *Session) FlipToken(id string) bool {
	for i := range s.Tokens {
		if s.Tokens[i].ID == id {
			s.Tokens[i].Flipped = !s.Tokens[i].Flipped
			return true
		}
	}
	return false
}

// RemoveToken deletes a token by id.
func (s *Session) RemoveToken(id string) bool {
	for i := range s.Tokens {
		if s.Tokens[i].ID == id {
			s.Tokens = append(s.Tokens[:i], s.Tokens[i+1:]...)
			return true
		}
	}
	return false
}
