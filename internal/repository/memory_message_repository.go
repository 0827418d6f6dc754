package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/portfolio/backend/internal/model"
)

type memoryEntry struct {
	seq int64
	msg model.Message
}

// MemoryMessageRepository keeps messages in process memory.
// Used for local development (STORE_DRIVER=memory) and tests.
type MemoryMessageRepository struct {
	mu      sync.RWMutex
	seq     int64
	entries map[string]*memoryEntry
}

// NewMemoryMessageRepository creates an empty MemoryMessageRepository.
func NewMemoryMessageRepository() *MemoryMessageRepository {
	return &MemoryMessageRepository{entries: make(map[string]*memoryEntry)}
}

var (
	_ MessageRepository = (*MemoryMessageRepository)(nil)
	_ DB                = (*MemoryMessageRepository)(nil)
)

// Ping always succeeds.
func (r *MemoryMessageRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *MemoryMessageRepository) Save(ctx context.Context, msg *model.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	msg.ID = uuid.NewString()
	r.seq++
	r.entries[msg.ID] = &memoryEntry{seq: r.seq, msg: *msg}
	return nil
}

// List returns copies sorted by CreatedAt descending, newest insert first on ties.
func (r *MemoryMessageRepository) List(ctx context.Context, opts model.ListOptions) ([]*model.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	entries := make([]*memoryEntry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	slices.SortFunc(entries, func(a, b *memoryEntry) int {
		if c := b.msg.CreatedAt.Compare(a.msg.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.seq > b.seq:
			return -1
		case a.seq < b.seq:
			return 1
		}
		return 0
	})

	skip := opts.Skip()
	if skip < 0 || skip >= len(entries) {
		return []*model.Message{}, nil
	}
	end := min(skip+opts.Limit, len(entries))

	out := make([]*model.Message, 0, end-skip)
	for _, e := range entries[skip:end] {
		m := e.msg
		out = append(out, &m)
	}
	return out, nil
}

func (r *MemoryMessageRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.entries)), nil
}

func (r *MemoryMessageRepository) Update(ctx context.Context, id string, upd model.MessageUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return ErrNotFound
	}
	upd.Apply(&e.msg)
	return nil
}

func (r *MemoryMessageRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; !ok {
		return ErrNotFound
	}
	delete(r.entries, id)
	return nil
}
