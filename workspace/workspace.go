// Package workspace keeps the documents open in one editor session, each
// with its own edit.Session, and tracks which one is active.
//
// A Workspace is not safe for concurrent use; callers serialize access the
// same way they serialize access to an edit.Session.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/alimasry/go-html-editor/dom"
	"github.com/alimasry/go-html-editor/edit"
	"github.com/alimasry/go-html-editor/htmlio"
	"github.com/alimasry/go-html-editor/store"
)

var (
	ErrNoActive = errors.New("no active document")
	ErrNotOpen  = errors.New("document is not open")
	ErrUnsaved  = errors.New("document has unsaved changes")
)

// LoadStatus tells how Load satisfied a request.
type LoadStatus int

const (
	Opened      LoadStatus = iota // read from the store
	Created                       // not in the store, started from the skeleton
	AlreadyOpen                   // only activated
)

// Entry describes one open document.
type Entry struct {
	Name     string
	Active   bool
	Modified bool
}

type Option func(*Workspace)

// WithSessionOptions sets the options every new edit.Session gets.
func WithSessionOptions(opts ...edit.Option) Option {
	return func(w *Workspace) { w.sessionOpts = append(w.sessionOpts, opts...) }
}

func WithLogger(l *zap.Logger) Option { return func(w *Workspace) { w.logger = l } }

// Workspace manages the open documents of one editor.
type Workspace struct {
	store       store.DocumentStore
	sessionOpts []edit.Option
	logger      *zap.Logger

	names    []string // open order
	sessions map[string]*edit.Session
	active   string
}

func New(st store.DocumentStore, opts ...Option) *Workspace {
	w := &Workspace{
		store:    st,
		logger:   zap.NewNop(),
		sessions: make(map[string]*edit.Session),
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Load opens name and makes it active. A name that is already open is only
// activated; a name the store does not have starts from the skeleton.
func (w *Workspace) Load(ctx context.Context, name string) (LoadStatus, error) {
	if _, ok := w.sessions[name]; ok {
		w.active = name
		return AlreadyOpen, nil
	}

	status := Opened
	var tree *dom.Tree
	info, err := w.store.Get(ctx, name)
	switch {
	case errors.Is(err, store.ErrNotFound):
		tree = dom.New()
		status = Created
	case err != nil:
		return 0, fmt.Errorf("load %s: %w", name, err)
	default:
		tree, err = htmlio.ParseString(info.Content)
		if err != nil {
			return 0, fmt.Errorf("parse %s: %w", name, err)
		}
	}

	opts := append(slices.Clone(w.sessionOpts), edit.WithLogger(w.logger.With(zap.String("file", name))))
	w.sessions[name] = edit.NewSession(tree, opts...)
	w.names = append(w.names, name)
	w.active = name
	w.logger.Debug("document loaded", zap.String("file", name), zap.Bool("created", status == Created))
	return status, nil
}

// Save writes the named open document, or the active one when name is
// empty, and clears its modified flag.
func (w *Workspace) Save(ctx context.Context, name string) error {
	if name == "" {
		if w.active == "" {
			return ErrNoActive
		}
		name = w.active
	}
	s, ok := w.sessions[name]
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrNotOpen)
	}
	// Ids are always written so the next Parse sees them.
	if err := w.store.Put(ctx, name, htmlio.String(s.Tree(), true)); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	s.MarkSaved()
	w.logger.Debug("document saved", zap.String("file", name))
	return nil
}

// Close closes the active document and returns its name. A modified
// document is refused with ErrUnsaved unless discard is set. The first
// remaining document becomes active.
func (w *Workspace) Close(discard bool) (string, error) {
	name := w.active
	if name == "" {
		return "", ErrNoActive
	}
	if w.sessions[name].Modified() && !discard {
		return name, fmt.Errorf("%s: %w", name, ErrUnsaved)
	}
	delete(w.sessions, name)
	w.names = slices.DeleteFunc(w.names, func(n string) bool { return n == name })
	w.active = ""
	if len(w.names) > 0 {
		w.active = w.names[0]
	}
	return name, nil
}

// List returns the open documents in open order.
func (w *Workspace) List() []Entry {
	out := make([]Entry, 0, len(w.names))
	for _, n := range w.names {
		out = append(out, Entry{Name: n, Active: n == w.active, Modified: w.sessions[n].Modified()})
	}
	return out
}

// Documents lists what the store holds, open or not.
func (w *Workspace) Documents(ctx context.Context) ([]store.DocumentInfo, error) {
	docs, err := w.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Names returns the open document names in open order.
func (w *Workspace) Names() []string { return slices.Clone(w.names) }

func (w *Workspace) Switch(name string) error {
	if _, ok := w.sessions[name]; !ok {
		return fmt.Errorf("%s: %w", name, ErrNotOpen)
	}
	w.active = name
	return nil
}

// Active returns the active document's name and session.
func (w *Workspace) Active() (string, *edit.Session, error) {
	if w.active == "" {
		return "", nil, ErrNoActive
	}
	return w.active, w.sessions[w.active], nil
}

// Session returns the session of an open document.
func (w *Workspace) Session(name string) (*edit.Session, error) {
	s, ok := w.sessions[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotOpen)
	}
	return s, nil
}

// State captures the open files, the active one and each file's showId.
func (w *Workspace) State() store.SessionState {
	st := store.SessionState{
		OpenFiles:  slices.Clone(w.names),
		ActiveFile: w.active,
		ShowID:     make([]bool, len(w.names)),
	}
	for i, n := range w.names {
		st.ShowID[i] = w.sessions[n].ShowID()
	}
	return st
}

// Restore reopens the files of st in order, reapplies their showId flags and
// activates the saved active file. Files that fail to load are skipped and
// reported together.
func (w *Workspace) Restore(ctx context.Context, st store.SessionState) error {
	var errs []error
	for i, name := range st.OpenFiles {
		if _, err := w.Load(ctx, name); err != nil {
			w.logger.Warn("restore: skipping file", zap.String("file", name), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		if i < len(st.ShowID) {
			w.sessions[name].SetShowID(st.ShowID[i])
		}
	}
	if st.ActiveFile != "" {
		if err := w.Switch(st.ActiveFile); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SaveState persists State through the store.
func (w *Workspace) SaveState(ctx context.Context) error {
	if err := w.store.SaveState(ctx, w.State()); err != nil {
		return fmt.Errorf("save session state: %w", err)
	}
	return nil
}

// RestoreSaved restores the state persisted in the store. Having no saved
// state is not an error.
func (w *Workspace) RestoreSaved(ctx context.Context) error {
	st, err := w.store.LoadState(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load session state: %w", err)
	}
	return w.Restore(ctx, *st)
}
