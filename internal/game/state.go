package game

import (
	"math/rand"
	"time"

	"github.com/sealed-arena/backend/internal/pool"
)

const (
	openingHandSize = 7
	startingLife    = 20
)

// Zone names the private per-player card containers plus the shared
// battlefield target.
type Zone string

const (
	ZoneHand        Zone = "hand"
	ZoneLibrary     Zone = "library"
	ZoneGraveyard   Zone = "graveyard"
	ZoneExile       Zone = "exile"
	ZoneBattlefield Zone = "battlefield"
)

// DeckInsert selects where a card returned to the library goes.
type DeckInsert string

const (
	InsertTop     DeckInsert = "top"
	InsertBottom  DeckInsert = "bottom"
	InsertShuffle DeckInsert = "shuffle"
)

// Role is a rendering-orientation hint only; it carries no game meaning.
type Role string

const (
	RoleBottom Role = "bottom"
	RoleTop    Role = "top"
)

// Placement is a battlefield-resident card: the instance plus free-form
// coordinates and its toggle flags.
type Placement struct {
	pool.Instance
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Tapped  bool    `json:"tapped"`
	Flipped bool    `json:"flipped"`
	Owner   string  `json:"owner"`
}

// Token is a battlefield-only synthetic object, not backed by a catalog
// record. Created and destroyed entirely client-driven.
type Token struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	TypeLine  string  `json:"typeLine"`
	Power     string  `json:"power,omitempty"`
	Toughness string  `json:"toughness,omitempty"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Tapped    bool    `json:"tapped"`
	Flipped   bool    `json:"flipped"`
}

// Counter is a free-floating numeric marker on the battlefield.
type Counter struct {
	ID    string  `json:"id"`
	Value int     `json:"value"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Player is one participant's private state.
type Player struct {
	Hand      []pool.Instance `json:"hand"`
	Library   []pool.Instance `json:"library"`
	Graveyard []pool.Instance `json:"graveyard"`
	Exile     []pool.Instance `json:"exile"`
	Life      int             `json:"life"`
}

// Session is the single authoritative state of an active game. All
// mutation goes through its methods; the owning actor serializes calls.
type Session struct {
	Players     map[string]*Player `json:"players"`
	Battlefield []Placement        `json:"battlefield"`
	Counters    []Counter          `json:"counters"`
	Tokens      []Token            `json:"tokens"`
	Roles       map[string]Role    `json:"playerRoles"`
	Turn        int                `json:"turn"`

	rng      *rand.Rand
	consents map[string]*consent
}

func NewSession(rng *rand.Rand) *Session {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Session{
		Players:     make(map[string]*Player),
		Battlefield: []Placement{},
		Counters:    []Counter{},
		Tokens:      []Token{},
		Roles:       make(map[string]Role),
		Turn:        1,
		rng:         rng,
		consents:    make(map[string]*consent),
	}
}

// SubmitDeck registers a participant's finished deck: the first 7 entries
// become the opening hand, the rest the library in submitted order. The
// first submitter is assigned the bottom role, the second the top role.
// Resubmission by a known identity is ignored, as is any submitter past
// the two seats a session holds.
func (s *Session) SubmitDeck(identity string, deck []pool.Instance) bool {
	if identity == "" || s.Players[identity] != nil || len(s.Players) >= 2 {
		return false
	}

	split := openingHandSize
	if split > len(deck) {
		split = len(deck)
	}
	hand := append([]pool.Instance{}, deck[:split]...)
	library := append([]pool.Instance{}, deck[split:]...)

	s.Players[identity] = &Player{
		Hand:      hand,
		Library:   library,
		Graveyard: []pool.Instance{},
		Exile:     []pool.Instance{},
		Life:      startingLife,
	}
	if len(s.Roles) == 0 {
		s.Roles[identity] = RoleBottom
	} else {
		s.Roles[identity] = RoleTop
	}
	return true
}

// Started reports whether both participants have submitted a deck.
func (s *Session) Started() bool {
	return len(s.Players) == 2
}

// Opponent returns the other participant's identity.
func (s *Session) Opponent(identity string) (string, bool) {
	for other := range s.Players {
		if other != identity {
			return other, true
		}
	}
	return "", false
}

func (s *Session) player(identity string) *Player {
	return s.Players[identity]
}
