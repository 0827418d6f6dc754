package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/portfolio/backend/internal/model"
)

// MessagesSchema creates the messages table used by PgMessageRepository.
const MessagesSchema = `
CREATE TABLE IF NOT EXISTS messages (
	id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name       TEXT NOT NULL,
	email      TEXT NOT NULL,
	subject    TEXT NOT NULL,
	message    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	read       BOOLEAN NOT NULL DEFAULT FALSE,
	replied    BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS messages_created_at_idx ON messages (created_at DESC);
`

// DropMessagesSchema removes the messages table.
const DropMessagesSchema = `DROP TABLE IF EXISTS messages`

// PgMessageRepository is the PostgreSQL implementation of MessageRepository.
type PgMessageRepository struct {
	pool *pgxpool.Pool
}

// NewPgMessageRepository creates a PgMessageRepository backed by the given pool.
func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

var _ MessageRepository = (*PgMessageRepository)(nil)

// Save inserts a new messages row and populates msg.ID from the RETURNING clause.
func (r *PgMessageRepository) Save(ctx context.Context, msg *model.Message) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO messages (name, email, subject, message, created_at, read, replied)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id::text`,
		msg.Name, msg.Email, msg.Subject, msg.Message, msg.CreatedAt, msg.Read, msg.Replied,
	).Scan(&msg.ID)
}

// List returns messages ordered by created_at descending.
func (r *PgMessageRepository) List(ctx context.Context, opts model.ListOptions) ([]*model.Message, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id::text, name, email, subject, message, created_at, read, replied
		 FROM messages
		 ORDER BY created_at DESC, id
		 LIMIT $1 OFFSET $2`,
		opts.Limit, opts.Skip(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.CreatedAt, &m.Read, &m.Replied); err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

// Count returns the number of rows in messages.
func (r *PgMessageRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM messages`).Scan(&n)
	return n, err
}

// Update sets read/replied when supplied. NULL parameters keep the stored value,
// so an empty update still reports whether the row exists.
func (r *PgMessageRepository) Update(ctx context.Context, id string, upd model.MessageUpdate) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE messages
		 SET read = COALESCE($2, read), replied = COALESCE($3, replied)
		 WHERE id = $1`,
		uid.String(), upd.Read, upd.Replied,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the row with the given id.
func (r *PgMessageRepository) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, uid.String())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
