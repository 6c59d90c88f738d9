package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultStateFile is the session state file name used by FileStore.
const DefaultStateFile = ".htmledit-session.yaml"

// FileStore keeps documents as plain files. Relative names resolve against
// the base directory; absolute names are used as given.
type FileStore struct {
	dir       string
	stateFile string
}

// NewFileStore returns a FileStore rooted at dir. An empty stateFile means
// DefaultStateFile inside dir.
func NewFileStore(dir, stateFile string) *FileStore {
	if dir == "" {
		dir = "."
	}
	if stateFile == "" {
		stateFile = DefaultStateFile
	}
	return &FileStore{dir: dir, stateFile: stateFile}
}

func (s *FileStore) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

func (s *FileStore) Get(_ context.Context, name string) (*DocumentInfo, error) {
	p := s.path(name)
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("document %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	info := &DocumentInfo{Name: name, Content: string(data)}
	if st, err := os.Stat(p); err == nil {
		info.UpdatedAt = st.ModTime()
	}
	return info, nil
}

func (s *FileStore) Put(_ context.Context, name, content string) error {
	p := s.path(name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", p, err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", p, err)
	}
	return nil
}

// List returns the .html and .htm files directly inside the base directory.
func (s *FileStore) List(_ context.Context) ([]DocumentInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.dir, err)
	}
	var result []DocumentInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".html", ".htm":
		default:
			continue
		}
		info := DocumentInfo{Name: e.Name()}
		if fi, err := e.Info(); err == nil {
			info.UpdatedAt = fi.ModTime()
		}
		result = append(result, info)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *FileStore) LoadState(_ context.Context) (*SessionState, error) {
	p := s.path(s.stateFile)
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("session state: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	var st SessionState
	if err := yaml.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parse %s: %w", p, err)
	}
	return &st, nil
}

func (s *FileStore) SaveState(ctx context.Context, state SessionState) error {
	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session state: %w", err)
	}
	return s.Put(ctx, s.stateFile, string(data))
}
