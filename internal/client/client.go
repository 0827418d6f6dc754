// Package client is a raw HTTP client for the portfolio contact API.
// It backs the admin CLI and the dashboard poller.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/portfolio/backend/internal/model"
)

var (
	// ErrUnauthorized is returned when the API rejects the admin credential.
	ErrUnauthorized = errors.New("client: unauthorized")
	// ErrNotFound is returned when the target message does not exist.
	ErrNotFound = errors.New("client: message not found")
)

// APIError is any other non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Session is a signed admin session returned by CreateSession.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Client talks to the contact API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client for baseURL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// NewWithHTTPClient is New with a caller-supplied http.Client.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	c := New(baseURL)
	c.httpClient = hc
	return c
}

// SubmitContact validates form locally, posts it and returns the new message id.
func (c *Client) SubmitContact(ctx context.Context, form ContactForm) (string, error) {
	if err := form.Validate(); err != nil {
		return "", err
	}
	var result struct {
		Success   bool   `json:"success"`
		MessageID string `json:"messageId"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/contact", "", form, &result); err != nil {
		return "", err
	}
	return result.MessageID, nil
}

// ListMessages fetches one page of messages, newest first.
func (c *Client) ListMessages(ctx context.Context, credential string, page, limit int) (*model.MessagePage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var result model.MessagePage
	if err := c.do(ctx, http.MethodGet, "/api/admin/messages?"+q.Encode(), credential, nil, &result); err != nil {
		return nil, err
	}
	if result.Messages == nil {
		result.Messages = []*model.Message{}
	}
	return &result, nil
}

// UpdateMessage sets the supplied read/replied flags on message id.
func (c *Client) UpdateMessage(ctx context.Context, credential, id string, upd model.MessageUpdate) error {
	body := struct {
		MessageID string `json:"messageId"`
		model.MessageUpdate
	}{MessageID: id, MessageUpdate: upd}
	return c.do(ctx, http.MethodPut, "/api/admin/messages", credential, body, nil)
}

// DeleteMessage removes message id.
func (c *Client) DeleteMessage(ctx context.Context, credential, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/messages?id="+url.QueryEscape(id), credential, nil, nil)
}

// CreateSession exchanges admin username/password for a session token.
func (c *Client) CreateSession(ctx context.Context, username, password string) (*Session, error) {
	body := map[string]string{"username": username, "password": password}
	var s Session
	if err := c.do(ctx, http.MethodPost, "/api/admin/session", "", body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) do(ctx context.Context, method, path, credential string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
