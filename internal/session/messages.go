package session

import (
	"github.com/sealed-arena/backend/internal/game"
	"github.com/sealed-arena/backend/internal/pool"
	"github.com/sealed-arena/backend/internal/types"
)

type Msg interface{ isSessionMsg() }

// Join registers a connection and immediately sends it the current lobby
// snapshot on its outbox.
type Join struct {
	ClientID string
	Outbox   chan types.ServerMessage
}

func (Join) isSessionMsg() {}

// Leave drops a connection; if it had logged in, its identity is removed
// from the lobby unconditionally. An active game is left intact.
type Leave struct{ ClientID string }

func (Leave) isSessionMsg() {}

// FromClient carries one decoded client intent.
type FromClient struct {
	ClientID string
	Msg      types.ClientMessage
}

func (FromClient) isSessionMsg() {}

// GetState reflects internal state without data races; test-only.
type GetState struct{ Reply chan View }

func (GetState) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

// View is the race-free test projection of a session.
type View struct {
	NumClients int
	Lobby      types.LobbySnapshot
	Game       *game.Session
	Generating bool
}

// boosterResult delivers one participant's assembled packs (or the fetch
// error) from the assembly goroutine back into the loop.
type boosterResult struct {
	Identity string
	Packs    []pool.Pack
	Err      error
}

func (boosterResult) isSessionMsg() {}

// deckbuildingReady fires once after pack assembly finished for all
// participants.
type deckbuildingReady struct{}

func (deckbuildingReady) isSessionMsg() {}
