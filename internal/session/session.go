package session

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/sealed-arena/backend/internal/game"
	"github.com/sealed-arena/backend/internal/pool"
	"github.com/sealed-arena/backend/internal/types"
)

// Session is the actor owning one lobby and its game. All mutable state
// lives behind the inbox: events are applied in arrival order, each to
// completion, so no internal locking is needed. The only blocking work,
// catalog-backed pack assembly, runs in a spawned goroutine that reports
// back through the inbox and never touches session state directly.
type Session struct {
	inbox     chan Msg
	clients   map[string]chan types.ServerMessage
	identity  map[string]string // clientID -> logged-in identity
	lobby     types.LobbySnapshot
	game      *game.Session
	assembler *pool.Assembler
	rng       *rand.Rand
	log       *zap.Logger

	generating bool // pack assembly launched for the current lobby

	ctx    context.Context
	cancel context.CancelFunc
}

func New(parent context.Context, code string, assembler *pool.Assembler, log *zap.Logger, rng *rand.Rand) *Session {
	ctx, cancel := context.WithCancel(parent)
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Session{
		inbox:     make(chan Msg, 64),
		clients:   make(map[string]chan types.ServerMessage),
		identity:  make(map[string]string),
		assembler: assembler,
		rng:       rng,
		log:       log.With(zap.String("session", code)),
		ctx:       ctx,
		cancel:    cancel,
	}
	go s.loop()
	return s
}

// Inbox exposes the message channel to the ws layer and tests.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				s.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- types.ServerMessage{Type: types.MsgLobbyUpdate, Lobby: s.lobbySnapshot()}

			case Leave:
				s.handleLeave(msg.ClientID)

			case FromClient:
				s.handleEvent(msg.ClientID, msg.Msg)

			case boosterResult:
				s.handleBoosterResult(msg)

			case deckbuildingReady:
				s.broadcast(types.ServerMessage{Type: types.MsgStartDeckbuilding})

			case GetState:
				var snap *game.Session
				if s.game != nil {
					snap = s.game.Snapshot()
				}
				msg.Reply <- View{
					NumClients: len(s.clients),
					Lobby:      *s.lobbySnapshot(),
					Game:       snap,
					Generating: s.generating,
				}

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) handleEvent(clientID string, msg types.ClientMessage) {
	switch msg.Type {
	case "login":
		s.handleLogin(clientID, msg.Identity)
	case "select_set":
		s.handleSelectSet(clientID, msg.Set)
	case "set_ready":
		s.handleSetReady(clientID, msg.Ready)
	case "reset_lobby":
		s.handleResetLobby()
	case "submit_deck":
		s.handleSubmitDeck(msg.Identity, msg.Deck)
	default:
		s.handleGameEvent(msg)
	}
}

func (s *Session) handleLogin(clientID, identity string) {
	if identity == "" {
		return
	}
	s.identity[clientID] = identity
	if len(s.lobby.Players) < 2 && s.lobbyPlayer(identity) == nil {
		s.lobby.Players = append(s.lobby.Players, types.LobbyPlayer{Identity: identity})
	}
	s.sendTo(identity, types.ServerMessage{Type: types.MsgLoginSuccess, Identity: identity})
	s.broadcastLobby()
	s.log.Info("login", zap.String("identity", identity))
}

func (s *Session) handleSelectSet(clientID, set string) {
	identity := s.identity[clientID]
	p := s.lobbyPlayer(identity)
	if p == nil || set == "" {
		return
	}
	p.Set = set
	// Last write wins; both players open the same set.
	s.lobby.Set = set
	s.broadcastLobby()
}

func (s *Session) handleSetReady(clientID string, ready bool) {
	identity := s.identity[clientID]
	p := s.lobbyPlayer(identity)
	if p == nil {
		return
	}
	p.Ready = ready
	s.broadcastLobby()

	if len(s.lobby.Players) != 2 || s.generating {
		return
	}
	for _, pl := range s.lobby.Players {
		if !pl.Ready {
			return
		}
	}
	s.generating = true
	identities := make([]string, len(s.lobby.Players))
	for i, pl := range s.lobby.Players {
		identities[i] = pl.Identity
	}
	s.log.Info("both players ready, assembling pools", zap.String("set", s.lobby.Set))
	go s.assemblePools(s.lobby.Set, identities)
}

// assemblePools runs off the loop: the catalog fetch may block on the
// network and must not stall event processing. Results come back as
// inbox messages.
func (s *Session) assemblePools(set string, identities []string) {
	for _, identity := range identities {
		packs, err := s.assembler.Assemble(s.ctx, set, pool.DefaultPackCount)
		select {
		case s.inbox <- boosterResult{Identity: identity, Packs: packs, Err: err}:
		case <-s.ctx.Done():
			return
		}
	}
	select {
	case s.inbox <- deckbuildingReady{}:
	case <-s.ctx.Done():
	}
}

func (s *Session) handleBoosterResult(res boosterResult) {
	if res.Err != nil {
		s.log.Warn("pack assembly failed",
			zap.String("identity", res.Identity), zap.Error(res.Err))
		s.sendTo(res.Identity, types.ServerMessage{
			Type:  types.MsgBoosterError,
			Error: "failed to generate boosters",
		})
		return
	}
	s.sendTo(res.Identity, types.ServerMessage{Type: types.MsgBoosterData, Packs: res.Packs})
}

func (s *Session) handleResetLobby() {
	s.lobby = types.LobbySnapshot{}
	s.game = nil
	s.generating = false
	s.broadcastLobby()
	s.log.Info("lobby reset")
}

func (s *Session) handleSubmitDeck(identity string, deck []pool.Instance) {
	// Only lobby participants may bring a deck into the game.
	if s.lobbyPlayer(identity) == nil {
		return
	}
	if s.game == nil {
		s.game = game.NewSession(s.rng)
	}
	if !s.game.SubmitDeck(identity, deck) {
		return
	}
	s.log.Info("deck submitted", zap.String("identity", identity), zap.Int("cards", len(deck)))
	if s.game.Started() {
		s.broadcastGame(types.MsgGameStart)
	}
}

func (s *Session) handleGameEvent(msg types.ClientMessage) {
	if s.game == nil {
		return
	}

	switch msg.Type {
	case "play_card_to_battlefield":
		if msg.Card == nil {
			return
		}
		s.applyGame(s.game.PlayToBattlefield(msg.Identity, *msg.Card, msg.X, msg.Y))

	case "move_card_zone":
		if msg.Card == nil {
			return
		}
		s.applyGame(s.game.MoveCard(msg.Identity, *msg.Card, game.Zone(msg.Target), game.DeckInsert(msg.DeckOption)))

	case "move_battlefield_card":
		s.applyGame(s.game.MoveOnBattlefield(msg.InstanceID, msg.X, msg.Y))

	case "tap_card":
		s.applyGame(s.game.TapCard(msg.InstanceID))

	case "flip_card":
		s.applyGame(s.game.FlipCard(msg.InstanceID))

	case "draw_card":
		s.applyGame(s.game.Draw(msg.Identity))

	case "update_life":
		if msg.Life == nil {
			return
		}
		s.applyGame(s.game.SetLife(msg.Identity, *msg.Life))

	case "pass_turn":
		s.applyGame(s.game.PassTurn())

	case "deck_action_request":
		// Opponent first: a recorded request nobody can answer would
		// block the requester forever.
		opponent, ok := s.game.Opponent(msg.Identity)
		if !ok {
			return
		}
		if !s.game.RequestAction(msg.Identity, game.Action(msg.Action), msg.N) {
			return
		}
		s.sendTo(opponent, types.ServerMessage{
			Type:   types.MsgDeckActionRequest,
			From:   msg.Identity,
			Action: msg.Action,
			N:      msg.N,
		})

	case "deck_action_response":
		approved := msg.Approved != nil && *msg.Approved
		consent, shuffled, ok := s.game.RespondAction(msg.From, approved)
		if !ok {
			return
		}
		s.sendTo(msg.From, types.ServerMessage{
			Type:     types.MsgDeckActionReply,
			From:     msg.From,
			Action:   string(consent.Action),
			N:        consent.N,
			Approved: &approved,
		})
		if shuffled {
			s.broadcastGame(types.MsgGameUpdate)
		}

	case "scry_result":
		s.applyGame(s.game.ApplyScryResult(msg.Identity, msg.NewLibrary))

	case "surveil_result":
		s.applyGame(s.game.ApplySurveilResult(msg.Identity, msg.NewLibrary, msg.NewGraveyard))

	case "shuffle_deck":
		s.applyGame(s.game.PlayerShuffle(msg.Identity))

	case "add_counter":
		value := 0
		if msg.Value != nil {
			value = *msg.Value
		}
		s.applyGame(s.game.AddCounter(game.Counter{ID: msg.ID, Value: value, X: msg.X, Y: msg.Y}))

	case "move_counter":
		s.applyGame(s.game.MoveCounter(msg.ID, msg.X, msg.Y, msg.Value))

	case "remove_counter":
		s.applyGame(s.game.RemoveCounter(msg.ID))

	case "add_token":
		s.applyGame(s.game.AddToken(game.Token{
			ID:        msg.ID,
			Name:      msg.Name,
			TypeLine:  msg.TypeLine,
			Power:     msg.Power,
			Toughness: msg.Toughness,
			X:         msg.X,
			Y:         msg.Y,
			Tapped:    msg.Tapped,
			Flipped:   msg.Flipped,
		}))

	case "move_token":
		s.applyGame(s.game.MoveToken(msg.ID, msg.X, msg.Y))

	case "tap_token":
		s.applyGame(s.game.TapToken(msg.ID))

	case "flip_token":
		s.applyGame(s.game.FlipToken(msg.ID))

	case "remove_token":
		s.applyGame(s.game.RemoveToken(msg.ID))
	}
}

// applyGame broadcasts the game snapshot when the mutation was accepted.
func (s *Session) applyGame(changed bool) {
	if changed {
		s.broadcastGame(types.MsgGameUpdate)
	}
}

func (s *Session) handleLeave(clientID string) {
	delete(s.clients, clientID)
	identity := s.identity[clientID]
	delete(s.identity, clientID)
	if identity == "" {
		return
	}
	// Drop from the lobby regardless of readiness. The game, if any,
	// stays intact so the remaining player keeps a consistent board.
	for i, p := range s.lobby.Players {
		if p.Identity == identity {
			s.lobby.Players = append(s.lobby.Players[:i], s.lobby.Players[i+1:]...)
			s.broadcastLobby()
			s.log.Info("player left", zap.String("identity", identity))
			return
		}
	}
}

func (s *Session) lobbyPlayer(identity string) *types.LobbyPlayer {
	if identity == "" {
		return nil
	}
	for i := range s.lobby.Players {
		if s.lobby.Players[i].Identity == identity {
			return &s.lobby.Players[i]
		}
	}
	return nil
}

// lobbySnapshot copies the lobby so receivers never share the slice the
// loop keeps mutating.
func (s *Session) lobbySnapshot() *types.LobbySnapshot {
	players := make([]types.LobbyPlayer, len(s.lobby.Players))
	copy(players, s.lobby.Players)
	return &types.LobbySnapshot{Players: players, Set: s.lobby.Set}
}

func (s *Session) broadcastLobby() {
	s.broadcast(types.ServerMessage{Type: types.MsgLobbyUpdate, Lobby: s.lobbySnapshot()})
}

func (s *Session) broadcastGame(msgType string) {
	s.broadcast(types.ServerMessage{Type: msgType, Game: s.game.Snapshot()})
}

// broadcast is fire-and-forget: a client whose outbox is full is dropped.
func (s *Session) broadcast(msg types.ServerMessage) {
	for id, ch := range s.clients {
		select {
		case ch <- msg:
		default:
			// Slow/full client: drop the connection. The identity map
			// entry stays until Leave so the lobby is cleaned up then.
			close(ch)
			delete(s.clients, id)
		}
	}
}

// sendTo delivers a targeted message to every connection logged in under
// the identity.
func (s *Session) sendTo(identity string, msg types.ServerMessage) {
	for id, ch := range s.clients {
		if s.identity[id] != identity {
			continue
		}
		select {
		case ch <- msg:
		default:
			close(ch)
			delete(s.clients, id)
		}
	}
}

func (s *Session) shutdown() {
	for id, ch := range s.clients {
		close(ch)
		delete(s.clients, id)
	}
	s.cancel()
}
