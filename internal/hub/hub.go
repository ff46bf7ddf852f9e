package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/sealed-arena/backend/internal/pool"
	"github.com/sealed-arena/backend/internal/session"
)

// The hub is the registry of live sessions, keyed by join code. One
// goroutine owns the map; lookups and lifecycle changes go through the
// inbox.

type HubMsg interface{ isHubMsg() }

// CreateSession registers a session under the given code, reusing an
// existing one, and replies with it.
type CreateSession struct {
	Code  string
	Reply chan *session.Session
}

type GetSession struct {
	Code  string
	Reply chan *session.Session
}

type RemoveSession struct {
	Code string
}

type ShutdownHub struct{}

func (CreateSession) isHubMsg() {}
func (GetSession) isHubMsg()    {}
func (RemoveSession) isHubMsg() {}
func (ShutdownHub) isHubMsg()   {}

type Hub struct {
	inbox     chan HubMsg
	sessions  map[string]*session.Session
	assembler *pool.Assembler
	log       *zap.Logger
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewHub(parent context.Context, assembler *pool.Assembler, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:     make(chan HubMsg, 64),
		sessions:  make(map[string]*session.Session),
		assembler: assembler,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateSession:
				msg.Reply <- h.ensure(msg.Code)

			case GetSession:
				msg.Reply <- h.sessions[msg.Code] // may be nil

			case RemoveSession:
				delete(h.sessions, msg.Code)

			case ShutdownHub:
				for _, s := range h.sessions {
					s.Inbox() <- session.Shutdown{}
				}
				clear(h.sessions)
				h.cancel()
			}
		}
	}
}

func (h *Hub) ensure(code string) *session.Session {
	if s := h.sessions[code]; s != nil {
		return s
	}
	s := session.New(h.ctx, code, h.assembler, h.log, nil)
	h.sessions[code] = s
	h.log.Info("session created", zap.String("session", code))
	return s
}
