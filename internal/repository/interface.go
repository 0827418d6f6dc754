package repository

import (
	"context"

	"github.com/portfolio/backend/internal/model"
)

// DB checks that the backing store is reachable.
type DB interface {
	Ping(ctx context.Context) error
}

// MessageRepository is the persistence interface for contact messages.
type MessageRepository interface {
	// Save inserts msg and populates msg.ID from the store.
	Save(ctx context.Context, msg *model.Message) error
	// List returns messages newest first, sliced by opts.
	List(ctx context.Context, opts model.ListOptions) ([]*model.Message, error)
	// Count returns the total number of stored messages.
	Count(ctx context.Context) (int64, error)
	// Update sets the supplied flags. Returns ErrNotFound when no message matched.
	Update(ctx context.Context, id string, upd model.MessageUpdate) error
	// Delete removes the message. Returns ErrNotFound when no message matched.
	Delete(ctx context.Context, id string) error
}
