package edit

import (
	"go.uber.org/zap"

	"github.com/alimasry/go-html-editor/dom"
)

// Policy decides which applied commands are recorded for undo.
type Policy int

const (
	// RecordAll pushes every applied command, including ones that failed,
	// so undo always steps back over the last attempted command.
	RecordAll Policy = iota
	// RecordSuccessful pushes only commands whose Execute succeeded.
	RecordSuccessful
)

// Option configures a Session.
type Option func(*Session)

func WithPolicy(p Policy) Option { return func(s *Session) { s.policy = p } }

// WithStrictIDs makes Insert, Append and RenameID fail when the id they
// introduce already resolves in the document.
func WithStrictIDs(strict bool) Option { return func(s *Session) { s.strict = strict } }

func WithShowID(show bool) Option { return func(s *Session) { s.showID = show } }

func WithLogger(l *zap.Logger) Option { return func(s *Session) { s.logger = l } }

// Session owns one document, its undo and redo histories and its display
// flag. It is the only mutator of its tree and is not safe for concurrent
// use.
type Session struct {
	tree     *dom.Tree
	undo     []Command
	redo     []Command
	modified bool
	showID   bool
	policy   Policy
	strict   bool
	logger   *zap.Logger
}

// NewSession wraps tree. A nil tree starts from the empty skeleton.
func NewSession(tree *dom.Tree, opts ...Option) *Session {
	if tree == nil {
		tree = dom.New()
	}
	s := &Session{tree: tree, showID: true, logger: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Session) Tree() *dom.Tree { return s.tree }

// Apply executes c and records it according to the session policy. The
// redo history is cleared on every apply. The error is the command's own.
func (s *Session) Apply(c Command) error {
	c.base().strict = s.strict
	err := c.Execute()
	if err == nil {
		s.modified = true
		s.logger.Debug("applied", zap.Stringer("command", c))
	} else {
		s.logger.Debug("apply failed", zap.Stringer("command", c), zap.Error(err))
	}
	if err == nil || s.policy == RecordAll {
		s.undo = append(s.undo, c)
	}
	s.redo = s.redo[:0]
	return err
}

// Undo reverts the most recent recorded command and returns it.
func (s *Session) Undo() (Command, error) {
	if len(s.undo) == 0 {
		return nil, ErrNothingToUndo
	}
	c := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	if c.Done() {
		s.modified = true
	}
	c.Undo()
	s.redo = append(s.redo, c)
	s.logger.Debug("undone", zap.Stringer("command", c))
	return c, nil
}

// Redo re-executes the most recently undone command and returns it along
// with the command's own execute error, if any.
func (s *Session) Redo() (Command, error) {
	if len(s.redo) == 0 {
		return nil, ErrNothingToRedo
	}
	c := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	err := c.Execute()
	if err == nil {
		s.modified = true
	}
	s.undo = append(s.undo, c)
	s.logger.Debug("redone", zap.Stringer("command", c), zap.Error(err))
	return c, err
}

func (s *Session) UndoDepth() int { return len(s.undo) }
func (s *Session) RedoDepth() int { return len(s.redo) }

func (s *Session) Modified() bool { return s.modified }

// MarkSaved clears the modified flag after the document was persisted.
func (s *Session) MarkSaved() { s.modified = false }

func (s *Session) ShowID() bool { return s.showID }

func (s *Session) SetShowID(show bool) { s.showID = show }
