package service

import (
	"context"

	"github.com/portfolio/backend/internal/model"
)

// ContactService defines the business logic for contact messages.
type ContactService interface {
	// Submit validates msg, sets the server-side fields and stores it.
	// msg.ID is populated on success.
	Submit(ctx context.Context, msg *model.Message) error

	// List returns one page of messages, newest first, with its pagination.
	List(ctx context.Context, opts model.ListOptions) (*model.MessagePage, error)

	// Update changes the supplied read/replied flags of a message.
	Update(ctx context.Context, id string, upd model.MessageUpdate) error

	// Delete removes a message.
	Delete(ctx context.Context, id string) error
}
