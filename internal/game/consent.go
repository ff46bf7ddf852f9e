package game

import "github.com/sealed-arena/backend/internal/pool"

// Action is a deck-altering action that needs the opponent's consent
// before the requester may see or reorder their own hidden library.
type Action string

const (
	ActionShuffle Action = "shuffle"
	ActionScry    Action = "scry"
	ActionSurveil Action = "surveil"
	ActionSearch  Action = "search"
)

func validAction(a Action) bool {
	switch a {
	case ActionShuffle, ActionScry, ActionSurveil, ActionSearch:
		return true
	}
	return false
}

// consent tracks one requester's pending deck action. At most one exists
// per requester; there is no queue and no timeout.
type consent struct {
	action  Action
	n       int
	granted bool
}

// Consent is the externally visible shape of a pending record.
type Consent struct {
	Action Action
	N      int
}

// RequestAction records a pending deck action for the requester. Returns
// false (nothing to forward) for unknown identities, unknown actions, or
// when a request is already pending. Without an opponent to consent
// there is nobody to forward to, and a record with no possible response
// would lock the requester out for good, so none is kept.
func (s *Session) RequestAction(identity string, action Action, n int) bool {
	if s.player(identity) == nil || !validAction(action) {
		return false
	}
	if _, ok := s.Opponent(identity); !ok {
		return false
	}
	if s.consents[identity] != nil {
		return false
	}
	s.consents[identity] = &consent{action: action, n: n}
	return true
}

// RespondAction resolves the requester's pending record. A denial clears
// it. An approved shuffle is executed immediately against the requester's
// library (shuffled=true); the other actions leave a grant the matching
// result event consumes. ok reports whether a response should be
// forwarded to the requester.
func (s *Session) RespondAction(requester string, approved bool) (c Consent, shuffled bool, ok bool) {
	pending := s.consents[requester]
	if pending == nil || pending.granted {
		return Consent{}, false, false
	}
	c = Consent{Action: pending.action, N: pending.n}

	if !approved {
		delete(s.consents, requester)
		return c, false, true
	}
	if pending.action == ActionShuffle {
		delete(s.consents, requester)
		if p := s.player(requester); p != nil {
			s.shuffle(p)
			shuffled = true
		}
		return c, shuffled, true
	}
	pending.granted = true
	return c, false, true
}

// takeGrant consumes an approved grant matching one of the given actions.
func (s *Session) takeGrant(identity string, actions ...Action) bool {
	pending := s.consents[identity]
	if pending == nil || !pending.granted {
		return false
	}
	for _, a := range actions {
		if pending.action == a {
			delete(s.consents, identity)
			return true
		}
	}
	return false
}

// ApplyScryResult installs the requester's submitted library order. Valid
// only under an approved scry or search grant; the grant is consumed.
func (s *Session) ApplyScryResult(identity string, newLibrary []pool.Instance) bool {
	p := s.player(identity)
	if p == nil || !s.takeGrant(identity, ActionScry, ActionSearch) {
		return false
	}
	p.Library = append([]pool.Instance{}, newLibrary...)
	return true
}

// ApplySurveilResult installs the requester's submitted library order and
// graveyard split. Valid only under an approved surveil grant.
func (s *Session) ApplySurveilResult(identity string, newLibrary, newGraveyard []pool.Instance) bool {
	p := s.player(identity)
	if p == nil || !s.takeGrant(identity, ActionSurveil) {
		return false
	}
	p.Library = append([]pool.Instance{}, newLibrary...)
	p.Graveyard = append([]pool.Instance{}, newGraveyard...)
	return true
}

// PlayerShuffle shuffles the requester's library under an approved
// shuffle or search grant. The grant is consumed; search flows commonly
// finish with a shuffle instead of an explicit reorder.
func (s *Session) PlayerShuffle(identity string) bool {
	p := s.player(identity)
	if p == nil || !s.takeGrant(identity, ActionShuffle, ActionSearch) {
		return false
	}
	s.shuffle(p)
	return true
}
