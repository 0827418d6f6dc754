// Package dashboard holds the admin message view: a polling state machine
// over the contact API that observers render from snapshots.
package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/portfolio/backend/internal/client"
	"github.com/portfolio/backend/internal/model"
	"github.com/rs/zerolog"
)

// State is the view state of the dashboard.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

const (
	DefaultInterval = 10 * time.Second

	errSessionExpired = "Session expired – please log in"
	errFetchFailed    = "Failed to fetch messages"
)

// API is the subset of the contact API the dashboard drives.
// *client.Client satisfies it.
type API interface {
	ListMessages(ctx context.Context, credential string, page, limit int) (*model.MessagePage, error)
	UpdateMessage(ctx context.Context, credential, id string, upd model.MessageUpdate) error
	DeleteMessage(ctx context.Context, credential, id string) error
}

var _ API = (*client.Client)(nil)

// Config configures a Dashboard.
type Config struct {
	Credential         string
	FallbackCredential string
	Interval           time.Duration
	Limit              int
	OnChange           func(Snapshot)
	Logger             zerolog.Logger
}

// Snapshot is an immutable view of the dashboard state.
type Snapshot struct {
	State      State
	Messages   []*model.Message
	Pagination *model.Pagination
	Selected   *model.Message
	Error      string
	Polling    bool
}

// UnreadCount returns the number of unread messages on the current page.
func (s Snapshot) UnreadCount() int {
	n := 0
	for _, m := range s.Messages {
		if !m.Read {
			n++
		}
	}
	return n
}

// Dashboard is safe for concurrent use. Scheduled fetches run on the Run
// goroutine; Refresh, GoToPage and the mutations run on the caller's.
// Responses are not ordered against each other: the last one to arrive wins.
type Dashboard struct {
	api      API
	interval time.Duration
	limit    int
	onChange func(Snapshot)
	log      zerolog.Logger

	wake chan struct{}

	mu         sync.Mutex
	credential string
	fallback   string
	state      State
	messages   []*model.Message
	pagination *model.Pagination
	page       int
	selectedID string
	errText    string
	visible    bool
	expired    bool
}

// New creates a Dashboard in the loading state on page 1.
func New(api API, cfg Config) *Dashboard {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Limit <= 0 {
		cfg.Limit = model.DefaultLimit
	}
	return &Dashboard{
		api:        api,
		interval:   cfg.Interval,
		limit:      cfg.Limit,
		onChange:   cfg.OnChange,
		log:        cfg.Logger,
		wake:       make(chan struct{}, 1),
		credential: cfg.Credential,
		fallback:   cfg.FallbackCredential,
		state:      StateLoading,
		page:       model.DefaultPage,
		visible:    true,
	}
}

// Run fetches page 1 and then re-fetches the current page every interval
// while the dashboard is visible and the session has not expired.
// It returns ctx.Err() when ctx is cancelled.
func (d *Dashboard) Run(ctx context.Context) error {
	d.fetch(ctx, model.DefaultPage)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		var tick <-chan time.Time
		if d.polling() {
			tick = ticker.C
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
			d.fetch(ctx, d.currentPage())
		case <-d.wake:
			if d.polling() {
				ticker.Reset(d.interval)
				d.fetch(ctx, d.currentPage())
			}
		}
	}
}

// SetVisible pauses scheduled polling when false. Becoming visible again
// triggers an immediate fetch.
func (d *Dashboard) SetVisible(visible bool) {
	d.mu.Lock()
	changed := d.visible != visible
	d.visible = visible
	d.mu.Unlock()

	if changed {
		d.notifyLoop()
		d.emit()
	}
}

// Reauthenticate installs a new credential and resumes polling after a
// session expiry.
func (d *Dashboard) Reauthenticate(credential string) {
	d.mu.Lock()
	d.credential = credential
	d.expired = false
	d.mu.Unlock()

	d.notifyLoop()
}

// Refresh re-fetches the current page. A successful fetch after a session
// expiry resumes scheduled polling.
func (d *Dashboard) Refresh(ctx context.Context) error {
	return d.fetch(ctx, d.currentPage())
}

// GoToPage fetches page and makes it current.
func (d *Dashboard) GoToPage(ctx context.Context, page int) error {
	if page < 1 {
		page = model.DefaultPage
	}
	return d.fetch(ctx, page)
}

// Snapshot returns the current state.
func (d *Dashboard) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

func (d *Dashboard) snapshotLocked() Snapshot {
	s := Snapshot{
		State:      d.state,
		Messages:   append([]*model.Message(nil), d.messages...),
		Pagination: d.pagination,
		Error:      d.errText,
		Polling:    d.visible && !d.expired,
	}
	if d.selectedID != "" {
		s.Selected = findMessage(d.messages, d.selectedID)
	}
	return s
}

func (d *Dashboard) fetch(ctx context.Context, page int) error {
	d.mu.Lock()
	d.state = StateLoading
	d.page = page
	cred := d.credential
	d.mu.Unlock()
	d.emit()

	result, err := d.api.ListMessages(ctx, cred, page, d.limit)
	if errors.Is(err, client.ErrUnauthorized) {
		result, err = d.retryWithFallback(ctx, page)
		if err != nil {
			d.log.Warn().Err(err).Msg("admin session expired")
			d.mu.Lock()
			d.state = StateError
			d.errText = errSessionExpired
			d.expired = true
			d.mu.Unlock()
			d.emit()
			return err
		}
	}
	if err != nil {
		d.log.Error().Err(err).Int("page", page).Msg("fetch messages failed")
		d.mu.Lock()
		d.state = StateError
		d.errText = errFetchFailed
		d.mu.Unlock()
		d.emit()
		return err
	}

	d.mu.Lock()
	resumed := d.expired
	d.expired = false
	d.state = StateReady
	d.errText = ""
	d.messages = result.Messages
	if d.pagination == nil || *d.pagination != result.Pagination {
		p := result.Pagination
		d.pagination = &p
	}
	d.mu.Unlock()
	if resumed {
		// A manual fetch succeeded after expiry; restart the scheduled polling.
		d.notifyLoop()
	}
	d.emit()
	return nil
}

// retryWithFallback repeats the list call once with the fallback credential,
// which becomes the current credential on success.
func (d *Dashboard) retryWithFallback(ctx context.Context, page int) (*model.MessagePage, error) {
	d.mu.Lock()
	fallback := d.fallback
	d.mu.Unlock()
	if fallback == "" {
		return nil, client.ErrUnauthorized
	}

	result, err := d.api.ListMessages(ctx, fallback, page, d.limit)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	d.credential = fallback
	d.mu.Unlock()
	return result, nil
}

func (d *Dashboard) polling() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.visible && !d.expired
}

func (d *Dashboard) currentPage() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.page
}

func (d *Dashboard) notifyLoop() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *Dashboard) emit() {
	if d.onChange == nil {
		return
	}
	d.onChange(d.Snapshot())
}

func findMessage(msgs []*model.Message, id string) *model.Message {
	for _, m := range msgs {
		if m.ID == id {
			return m
		}
	}
	return nil
}
