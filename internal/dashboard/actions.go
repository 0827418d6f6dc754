package dashboard

import (
	"context"

	"github.com/portfolio/backend/internal/model"
)

// MarkAsRead sets the read flag on the server, then locally.
func (d *Dashboard) MarkAsRead(ctx context.Context, id string, read bool) error {
	return d.update(ctx, id, model.MessageUpdate{Read: &read})
}

// MarkAsReplied sets the replied flag on the server, then locally.
func (d *Dashboard) MarkAsReplied(ctx context.Context, id string, replied bool) error {
	return d.update(ctx, id, model.MessageUpdate{Replied: &replied})
}

func (d *Dashboard) update(ctx context.Context, id string, upd model.MessageUpdate) error {
	d.mu.Lock()
	cred := d.credential
	d.mu.Unlock()

	if err := d.api.UpdateMessage(ctx, cred, id, upd); err != nil {
		d.log.Error().Err(err).Str("message_id", id).Msg("update message failed")
		return err
	}

	d.mu.Lock()
	for i, m := range d.messages {
		if m.ID == id {
			updated := *m
			upd.Apply(&updated)
			d.messages[i] = &updated
		}
	}
	d.mu.Unlock()
	d.emit()
	return nil
}

// Delete removes the message on the server, then drops it from the page,
// decrements the total count and clears the selection if it pointed at it.
func (d *Dashboard) Delete(ctx context.Context, id string) error {
	d.mu.Lock()
	cred := d.credential
	d.mu.Unlock()

	if err := d.api.DeleteMessage(ctx, cred, id); err != nil {
		d.log.Error().Err(err).Str("message_id", id).Msg("delete message failed")
		return err
	}

	d.mu.Lock()
	kept := make([]*model.Message, 0, len(d.messages))
	for _, m := range d.messages {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	d.messages = kept
	if d.pagination != nil {
		p := *d.pagination
		p.TotalCount--
		d.pagination = &p
	}
	if d.selectedID == id {
		d.selectedID = ""
	}
	d.mu.Unlock()
	d.emit()
	return nil
}

// Select marks id as the message shown in the detail view. An empty id
// clears the selection.
func (d *Dashboard) Select(id string) {
	d.mu.Lock()
	d.selectedID = id
	d.mu.Unlock()
	d.emit()
}
