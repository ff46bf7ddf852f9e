package types

import (
	"github.com/sealed-arena/backend/internal/game"
	"github.com/sealed-arena/backend/internal/pool"
)

// ClientMessage is the single flat envelope for every client intent.
// Type selects the event; the other fields are filled per event and
// omitted otherwise.
type ClientMessage struct {
	Type string `json:"type"`

	Identity string `json:"identity,omitempty"`
	Set      string `json:"set,omitempty"`
	Ready    bool   `json:"ready,omitempty"`

	Deck []pool.Instance `json:"deck,omitempty"`
	Card *pool.Instance  `json:"card,omitempty"`

	Target     string `json:"target,omitempty"`
	DeckOption string `json:"deckOption,omitempty"`

	InstanceID string  `json:"instanceId,omitempty"`
	X          float64 `json:"x,omitempty"`
	Y          float64 `json:"y,omitempty"`

	Life *int `json:"life,omitempty"`

	// Deck-action consent exchange.
	Action   string `json:"action,omitempty"`
	N        int    `json:"n,omitempty"`
	From     string `json:"from,omitempty"`
	Approved *bool  `json:"approved,omitempty"`

	NewLibrary   []pool.Instance `json:"newLibrary,omitempty"`
	NewGraveyard []pool.Instance `json:"newGraveyard,omitempty"`

	// Counters and tokens.
	ID        string `json:"id,omitempty"`
	Value     *int   `json:"value,omitempty"`
	Name      string `json:"name,omitempty"`
	TypeLine  string `json:"typeLine,omitempty"`
	Power     string `json:"power,omitempty"`
	Toughness string `json:"toughness,omitempty"`
	Tapped    bool   `json:"tapped,omitempty"`
	Flipped   bool   `json:"flipped,omitempty"`
}

// LobbyPlayer is one lobby participant as broadcast to clients.
type LobbyPlayer struct {
	Identity string `json:"email"`
	Ready    bool   `json:"ready"`
	Set      string `json:"set,omitempty"`
}

// LobbySnapshot is the full lobby state, replaced wholesale on every
// lobby_update.
type LobbySnapshot struct {
	Players []LobbyPlayer `json:"players"`
	Set     string        `json:"set,omitempty"`
}

// ServerMessage is the envelope for everything the relay sends: snapshot
// broadcasts and targeted payloads alike.
type ServerMessage struct {
	Type string `json:"type"`

	Identity string         `json:"identity,omitempty"`
	Lobby    *LobbySnapshot `json:"lobby,omitempty"`
	Game     *game.Session  `json:"game,omitempty"`
	Packs    []pool.Pack    `json:"packs,omitempty"`
	Error    string         `json:"error,omitempty"`

	From     string `json:"from,omitempty"`
	Action   string `json:"action,omitempty"`
	N        int    `json:"n,omitempty"`
	Approved *bool  `json:"approved,omitempty"`
}

// Server message types.
const (
	MsgLoginSuccess      = "login_success"
	MsgLobbyUpdate       = "lobby_update"
	MsgBoosterData       = "booster_data"
	MsgBoosterError      = "booster_error"
	MsgStartDeckbuilding = "start_deckbuilding"
	MsgGameStart         = "game_start"
	MsgGameUpdate        = "game_update"
	MsgDeckActionRequest = "deck_action_request"
	MsgDeckActionReply   = "deck_action_response"
	MsgError             = "error"
)
