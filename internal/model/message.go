package model

import (
	"math"
	"time"
)

// Message represents a message submitted via the contact form.
type Message struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	Read      bool      `json:"read"`
	Replied   bool      `json:"replied"`
}

// MessageUpdate carries the flags to change on a message.
// A nil field leaves the stored value untouched.
type MessageUpdate struct {
	Read    *bool `json:"read,omitempty"`
	Replied *bool `json:"replied,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u MessageUpdate) IsEmpty() bool {
	return u.Read == nil && u.Replied == nil
}

// Apply sets the supplied flags on msg.
func (u MessageUpdate) Apply(msg *Message) {
	if u.Read != nil {
		msg.Read = *u.Read
	}
	if u.Replied != nil {
		msg.Replied = *u.Replied
	}
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListOptions carries pagination parameters for listing messages.
// Page is 1-based.
type ListOptions struct {
	Page  int
	Limit int
}

// Normalize replaces non-positive values with defaults and caps Limit at MaxLimit.
func (o ListOptions) Normalize() ListOptions {
	if o.Page < 1 {
		o.Page = DefaultPage
	}
	if o.Limit < 1 {
		o.Limit = DefaultLimit
	}
	if o.Limit > MaxLimit {
		o.Limit = MaxLimit
	}
	return o
}

// Skip returns the number of messages before the requested page.
// It saturates at math.MaxInt instead of overflowing.
func (o ListOptions) Skip() int {
	if o.Page < 1 || o.Limit < 1 {
		return 0
	}
	if o.Page-1 > math.MaxInt/o.Limit {
		return math.MaxInt
	}
	return (o.Page - 1) * o.Limit
}

// Pagination describes one page of a listing. It is derived per query and never stored.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int64 `json:"totalPages"`
}

// NewPagination computes the descriptor for page/limit over totalCount messages.
func NewPagination(opts ListOptions, totalCount int64) Pagination {
	var pages int64
	if opts.Limit > 0 {
		limit := int64(opts.Limit)
		pages = (totalCount + limit - 1) / limit
	}
	return Pagination{
		Page:       opts.Page,
		Limit:      opts.Limit,
		TotalCount: totalCount,
		TotalPages: pages,
	}
}

// MessagePage is the result of a list query.
type MessagePage struct {
	Messages   []*Message `json:"messages"`
	Pagination Pagination `json:"pagination"`
}
