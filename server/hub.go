package server

import (
	"context"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/alimasry/go-html-editor/console"
)

// ConsoleFactory builds the console of a new session, writing to out.
type ConsoleFactory func(out io.Writer) *console.Console

// Hub owns the running sessions, one per connected client.
type Hub struct {
	newConsole ConsoleFactory
	logger     *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
	closed   bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewHub(newConsole ConsoleFactory, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		newConsole: newConsole,
		logger:     logger,
		sessions:   make(map[string]*Session),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// open starts a session for c. It returns nil once the hub is closed.
func (h *Hub) open(c *Client) *Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}

	s := newSession(c, h.newConsole, h.logger.With(zap.String("client", c.ID)))
	h.sessions[c.ID] = s
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		s.Run(h.ctx)
		h.mu.Lock()
		delete(h.sessions, c.ID)
		h.mu.Unlock()
	}()
	h.logger.Info("session opened", zap.String("client", c.ID))
	return s
}

// GetSession returns the session of a connected client, if any.
func (h *Hub) GetSession(clientID string) *Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sessions[clientID]
}

// Count returns the number of running sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Close stops accepting sessions, exits the running ones and waits for
// them to finish.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	h.cancel()
	h.wg.Wait()
}
