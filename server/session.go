package server

import (
	"bytes"
	"context"

	"go.uber.org/zap"

	"github.com/alimasry/go-html-editor/console"
)

type request struct {
	line    string
	problem string // set when the message could not be used
}

// Session drives one client's console. All commands of a session run on
// its Run goroutine, so the console, its workspace and their documents are
// never touched concurrently.
type Session struct {
	client  *Client
	console *console.Console
	out     *bytes.Buffer
	logger  *zap.Logger

	incoming chan request
	leave    chan struct{} // closed when the connection is gone
	done     chan struct{} // closed when Run returns
}

func newSession(c *Client, newConsole ConsoleFactory, logger *zap.Logger) *Session {
	out := &bytes.Buffer{}
	return &Session{
		client:   c,
		console:  newConsole(out),
		out:      out,
		logger:   logger,
		incoming: make(chan request, 16),
		leave:    make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Run is the session's main loop. It greets the client, executes lines
// until the console exits, the client leaves or ctx is done, and then
// closes the client's send channel.
func (s *Session) Run(ctx context.Context) {
	defer close(s.done)
	defer close(s.client.send)

	s.client.sendMsg(ServerMessage{Type: MsgWelcome, ClientID: s.client.ID})

	for {
		select {
		case req := <-s.incoming:
			if req.problem != "" {
				s.client.sendMsg(ServerMessage{Type: MsgError, Message: req.problem})
				continue
			}
			if !s.exec(ctx, req.line) {
				return
			}
		case <-s.leave:
			s.shutdown(ctx)
			return
		case <-ctx.Done():
			s.shutdown(ctx)
			return
		}
	}
}

// exec runs one line and sends its output. It returns false once the
// console exited.
func (s *Session) exec(ctx context.Context, line string) bool {
	s.out.Reset()
	more := s.console.Exec(ctx, line)
	s.client.sendMsg(ServerMessage{Type: MsgOutput, Output: s.out.String(), Quit: !more})
	if !more {
		s.logger.Debug("console exited")
	}
	return more
}

// shutdown exits the console so the session state is saved even when the
// connection dropped or the server is stopping.
func (s *Session) shutdown(ctx context.Context) {
	s.logger.Debug("session closing")
	s.exec(context.WithoutCancel(ctx), "exit")
}
