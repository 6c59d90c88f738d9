package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CachedStore wraps a backing DocumentStore with an in-memory cache.
// All reads and writes are served from the cache. Dirty documents and the
// session state are flushed to the backing store periodically in the
// background.
type CachedStore struct {
	cache         *MemoryStore
	backing       DocumentStore
	logger        *zap.Logger
	mu            sync.Mutex
	dirty         map[string]uint64 // name -> write generation
	gen           uint64
	stateDirty    uint64
	flushInterval time.Duration
	stop          chan struct{}
	done          chan struct{}
	closeOnce     sync.Once
}

// NewCachedStore creates a CachedStore that caches in memory and flushes
// dirty entries to the backing store every flushInterval. A nil logger
// discards flush failures.
func NewCachedStore(backing DocumentStore, flushInterval time.Duration, logger *zap.Logger) *CachedStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	cs := &CachedStore{
		cache:         NewMemoryStore(),
		backing:       backing,
		logger:        logger,
		dirty:         make(map[string]uint64),
		flushInterval: flushInterval,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
	go cs.flushLoop()
	return cs
}

func (cs *CachedStore) Get(ctx context.Context, name string) (*DocumentInfo, error) {
	info, err := cs.cache.Get(ctx, name)
	if err == nil {
		return info, nil
	}
	// Cache miss, load from backing store.
	info, err = cs.backing.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	cs.cache.mu.Lock()
	if _, exists := cs.cache.docs[name]; !exists {
		cs.cache.docs[name] = *info
	}
	cs.cache.mu.Unlock()
	return cs.cache.Get(ctx, name)
}

func (cs *CachedStore) Put(ctx context.Context, name, content string) error {
	if err := cs.cache.Put(ctx, name, content); err != nil {
		return err
	}
	cs.mu.Lock()
	cs.gen++
	cs.dirty[name] = cs.gen
	cs.mu.Unlock()
	return nil
}

// List merges the backing listing with cached writes that have not been
// flushed yet.
func (cs *CachedStore) List(ctx context.Context) ([]DocumentInfo, error) {
	backed, err := cs.backing.List(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]DocumentInfo, len(backed))
	for _, info := range backed {
		byName[info.Name] = info
	}
	cs.mu.Lock()
	pending := make([]string, 0, len(cs.dirty))
	for name := range cs.dirty {
		pending = append(pending, name)
	}
	cs.mu.Unlock()
	for _, name := range pending {
		if info, err := cs.cache.Get(ctx, name); err == nil {
			byName[name] = *info
		}
	}

	result := make([]DocumentInfo, 0, len(byName))
	for _, info := range byName {
		result = append(result, info)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (cs *CachedStore) LoadState(ctx context.Context) (*SessionState, error) {
	st, err := cs.cache.LoadState(ctx)
	if err == nil {
		return st, nil
	}
	st, err = cs.backing.LoadState(ctx)
	if err != nil {
		return nil, err
	}
	cs.mu.Lock()
	pending := cs.stateDirty != 0
	cs.mu.Unlock()
	if !pending {
		cs.cache.SaveState(ctx, *st)
	}
	return st, nil
}

func (cs *CachedStore) SaveState(ctx context.Context, state SessionState) error {
	if err := cs.cache.SaveState(ctx, state); err != nil {
		return err
	}
	cs.mu.Lock()
	cs.gen++
	cs.stateDirty = cs.gen
	cs.mu.Unlock()
	return nil
}

func (cs *CachedStore) flushLoop() {
	ticker := time.NewTicker(cs.flushInterval)
	defer ticker.Stop()
	defer close(cs.done)

	for {
		select {
		case <-ticker.C:
			cs.flush()
		case <-cs.stop:
			cs.flush()
			return
		}
	}
}

// flush writes all dirty entries to the backing store. An entry stays dirty
// if its write failed or if it was written again while flushing.
func (cs *CachedStore) flush() {
	cs.mu.Lock()
	snapshot := make(map[string]uint64, len(cs.dirty))
	for name, gen := range cs.dirty {
		snapshot[name] = gen
	}
	stateGen := cs.stateDirty
	cs.mu.Unlock()

	ctx := context.Background()

	for name, gen := range snapshot {
		info, err := cs.cache.Get(ctx, name)
		if err != nil {
			continue
		}
		if err := cs.backing.Put(ctx, name, info.Content); err != nil {
			cs.logger.Warn("cached store: flush document failed", zap.String("name", name), zap.Error(err))
			continue
		}
		cs.mu.Lock()
		if cs.dirty[name] == gen {
			delete(cs.dirty, name)
		}
		cs.mu.Unlock()
	}

	if stateGen == 0 {
		return
	}
	st, err := cs.cache.LoadState(ctx)
	if err != nil {
		return
	}
	if err := cs.backing.SaveState(ctx, *st); err != nil {
		cs.logger.Warn("cached store: flush session state failed", zap.Error(err))
		return
	}
	cs.mu.Lock()
	if cs.stateDirty == stateGen {
		cs.stateDirty = 0
	}
	cs.mu.Unlock()
}

// Flush writes pending entries now.
func (cs *CachedStore) Flush() {
	cs.flush()
}

// Close signals the flush loop to perform a final flush and waits for it
// to complete. It is safe to call more than once.
func (cs *CachedStore) Close() error {
	cs.closeOnce.Do(func() { close(cs.stop) })
	<-cs.done
	return nil
}
