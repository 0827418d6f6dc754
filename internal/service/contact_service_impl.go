package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/repository"
)

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo repository.MessageRepository
	now  func() time.Time
}

// NewContactService creates a ContactService backed by the given repository.
func NewContactService(repo repository.MessageRepository) ContactService {
	return &contactServiceImpl{repo: repo, now: time.Now}
}

// Submit validates msg, resets the flags, stamps CreatedAt and persists it.
func (s *contactServiceImpl) Submit(ctx context.Context, msg *model.Message) error {
	if err := ValidateMessage(msg); err != nil {
		return err
	}
	msg.ID = ""
	msg.Read = false
	msg.Replied = false
	msg.CreatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, msg); err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	return nil
}

// List normalizes opts and returns the page together with the current total.
// The slice and the total are read separately and may disagree under concurrent writes.
func (s *contactServiceImpl) List(ctx context.Context, opts model.ListOptions) (*model.MessagePage, error) {
	opts = opts.Normalize()

	messages, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, &StorageError{Op: "count", Err: err}
	}

	if messages == nil {
		messages = []*model.Message{}
	}
	return &model.MessagePage{
		Messages:   messages,
		Pagination: model.NewPagination(opts, total),
	}, nil
}

// Update changes only the supplied flags.
func (s *contactServiceImpl) Update(ctx context.Context, id string, upd model.MessageUpdate) error {
	if strings.TrimSpace(id) == "" {
		return &ValidationError{Rule: RuleMissingID, Fields: []string{"messageId"}}
	}
	return s.mapError("update", s.repo.Update(ctx, id, upd))
}

// Delete removes the message with the given id.
func (s *contactServiceImpl) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return &ValidationError{Rule: RuleMissingID, Fields: []string{"id"}}
	}
	return s.mapError("delete", s.repo.Delete(ctx, id))
}

func (s *contactServiceImpl) mapError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	default:
		return &StorageError{Op: op, Err: err}
	}
}
