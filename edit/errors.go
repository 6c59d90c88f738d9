package edit

import (
	"errors"
	"fmt"

	"github.com/alimasry/go-html-editor/dom"
)

var (
	// ErrNoParent is returned when a command targets a node without a
	// parent, i.e. the root.
	ErrNoParent = errors.New("element has no parent")

	// ErrDuplicateID is returned in strict-id mode when the new id already
	// resolves in the document.
	ErrDuplicateID = errors.New("id already in use")

	ErrEmptyHistory  = errors.New("empty history")
	ErrNothingToUndo = fmt.Errorf("nothing to undo: %w", ErrEmptyHistory)
	ErrNothingToRedo = fmt.Errorf("nothing to redo: %w", ErrEmptyHistory)
)

// LookupError reports an identifier that did not resolve when a command
// executed.
type LookupError struct {
	Op string
	ID string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s: element %q not found", e.Op, e.ID)
}

func (e *LookupError) Unwrap() error { return dom.ErrNotFound }
