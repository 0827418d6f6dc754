package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/service"
)

// ---------------------------------------------------------------------------
// Mock ContactService
// ---------------------------------------------------------------------------

type mockContactService struct {
	submitFunc func(ctx context.Context, msg *model.Message) error
	listFunc   func(ctx context.Context, opts model.ListOptions) (*model.MessagePage, error)
	updateFunc func(ctx context.Context, id string, upd model.MessageUpdate) error
	deleteFunc func(ctx context.Context, id string) error
}

func (m *mockContactService) Submit(ctx context.Context, msg *model.Message) error {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, msg)
	}
	msg.ID = "new-id"
	return nil
}

func (m *mockContactService) List(ctx context.Context, opts model.ListOptions) (*model.MessagePage, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, opts)
	}
	return &model.MessagePage{Messages: []*model.Message{}}, nil
}

func (m *mockContactService) Update(ctx context.Context, id string, upd model.MessageUpdate) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, upd)
	}
	return nil
}

func (m *mockContactService) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

// ---------------------------------------------------------------------------
// POST /api/contact
// ---------------------------------------------------------------------------

func TestContactHandler_Submit_Success(t *testing.T) {
	var captured *model.Message
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, msg *model.Message) error {
			captured = msg
			msg.ID = "abc123"
			return nil
		},
	}
	h := NewContactHandler(mock)

	body := `{"name":"Jane Doe","email":"jane@example.com","subject":"Hi","message":"Hello there"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d, body: %s", rec.Code, rec.Body.String())
	}
	if captured == nil {
		t.Fatal("expected Submit to be called")
	}
	if captured.Name != "Jane Doe" || captured.Email != "jane@example.com" || captured.Subject != "Hi" || captured.Message != "Hello there" {
		t.Errorf("unexpected message forwarded: %+v", captured)
	}

	resp := decodeMap(t, rec)
	if resp["success"] != true {
		t.Errorf("expected success=true, got %v", resp["success"])
	}
	if resp["messageId"] != "abc123" {
		t.Errorf("expected messageId=abc123, got %v", resp["messageId"])
	}
}

func TestContactHandler_Submit_ValidationError(t *testing.T) {
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, msg *model.Message) error {
			return &service.ValidationError{Rule: service.RuleMissingField, Fields: []string{"subject"}}
		},
	}
	h := NewContactHandler(mock)

	body := `{"name":"Bob","email":"bob@example.com","message":"Hi there"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	resp := decodeMap(t, rec)
	if resp["error"] != "All fields are required" {
		t.Errorf("unexpected error message: %v", resp["error"])
	}
	if resp["rule"] != service.RuleMissingField {
		t.Errorf("expected rule=%s, got %v", service.RuleMissingField, resp["rule"])
	}
}

func TestContactHandler_Submit_InvalidEmail(t *testing.T) {
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, msg *model.Message) error {
			return &service.ValidationError{Rule: service.RuleInvalidEmail, Fields: []string{"email"}}
		},
	}
	h := NewContactHandler(mock)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if resp := decodeMap(t, rec); resp["error"] != "Invalid email format" {
		t.Errorf("unexpected error message: %v", resp["error"])
	}
}

func TestContactHandler_Submit_InvalidJSON(t *testing.T) {
	called := false
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, msg *model.Message) error {
			called = true
			return nil
		},
	}
	h := NewContactHandler(mock)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader("{bad json"))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid JSON, got %d", rec.Code)
	}
	if called {
		t.Error("service must not be called for invalid JSON")
	}
}

func TestContactHandler_Submit_StorageErrorIsOpaque(t *testing.T) {
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, msg *model.Message) error {
			return &service.StorageError{Op: "save", Err: errors.New("dial tcp 10.1.2.3:27017: connection refused")}
		},
	}
	h := NewContactHandler(mock)

	body := `{"name":"A","email":"a@b.co","subject":"s","message":"m"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "10.1.2.3") {
		t.Errorf("internal detail leaked: %s", rec.Body.String())
	}
	if resp := decodeMap(t, rec); resp["error"] != "Internal server error" {
		t.Errorf("unexpected error message: %v", resp["error"])
	}
}

// ---------------------------------------------------------------------------
// GET /api/admin/messages
// ---------------------------------------------------------------------------

func TestContactHandler_AdminList_ParsesPagination(t *testing.T) {
	tests := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{"", 1, 10},
		{"?page=3&limit=25", 3, 25},
		{"?page=0&limit=-4", 1, 10},
		{"?page=abc&limit=xyz", 1, 10},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var captured model.ListOptions
			mock := &mockContactService{
				listFunc: func(ctx context.Context, opts model.ListOptions) (*model.MessagePage, error) {
					captured = opts
					return &model.MessagePage{Messages: []*model.Message{}}, nil
				},
			}
			h := NewContactHandler(mock)

			req := httptest.NewRequest(http.MethodGet, "/api/admin/messages"+tt.query, nil)
			rec := httptest.NewRecorder()
			h.AdminList(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if captured.Page != tt.wantPage || captured.Limit != tt.wantLimit {
				t.Errorf("expected page=%d limit=%d, got %+v", tt.wantPage, tt.wantLimit, captured)
			}
		})
	}
}

func TestContactHandler_AdminList_ResponseShape(t *testing.T) {
	mock := &mockContactService{
		listFunc: func(ctx context.Context, opts model.ListOptions) (*model.MessagePage, error) {
			return &model.MessagePage{
				Messages:   []*model.Message{{ID: "m1", Name: "Jane", Email: "jane@example.com"}},
				Pagination: model.Pagination{Page: 1, Limit: 10, TotalCount: 1, TotalPages: 1},
			}, nil
		},
	}
	h := NewContactHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/messages", nil)
	rec := httptest.NewRecorder()
	h.AdminList(rec, req)

	var resp model.MessagePage
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Messages) != 1 || resp.Messages[0].ID != "m1" {
		t.Errorf("unexpected messages: %+v", resp.Messages)
	}
	if resp.Pagination.TotalPages != 1 {
		t.Errorf("unexpected pagination: %+v", resp.Pagination)
	}
}

func TestContactHandler_AdminList_StorageError(t *testing.T) {
	mock := &mockContactService{
		listFunc: func(ctx context.Context, opts model.ListOptions) (*model.MessagePage, error) {
			return nil, &service.StorageError{Op: "list", Err: errors.New("timeout")}
		},
	}
	h := NewContactHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/messages", nil)
	rec := httptest.NewRecorder()
	h.AdminList(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// PUT /api/admin/messages
// ---------------------------------------------------------------------------

func TestContactHandler_Update_ForwardsOnlySuppliedFlags(t *testing.T) {
	var gotID string
	var gotUpd model.MessageUpdate
	mock := &mockContactService{
		updateFunc: func(ctx context.Context, id string, upd model.MessageUpdate) error {
			gotID, gotUpd = id, upd
			return nil
		},
	}
	h := NewContactHandler(mock)

	req := httptest.NewRequest(http.MethodPut, "/api/admin/messages", strings.NewReader(`{"messageId":"m1","read":true}`))
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != "m1" {
		t.Errorf("expected id=m1, got %q", gotID)
	}
	if gotUpd.Read == nil || !*gotUpd.Read {
		t.Error("expected read=true forwarded")
	}
	if gotUpd.Replied != nil {
		t.Error("expected replied to be omitted")
	}
}

func TestContactHandler_Update_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"missing id", `{"read":true}`, &service.ValidationError{Rule: service.RuleMissingID}, http.StatusBadRequest},
		{"not found", `{"messageId":"nope","read":true}`, service.ErrNotFound, http.StatusNotFound},
		{"storage", `{"messageId":"m1","read":true}`, &service.StorageError{Op: "update", Err: errors.New("x")}, http.StatusInternalServerError},
		{"non-boolean flag", `{"messageId":"m1","read":"yes"}`, nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockContactService{
				updateFunc: func(ctx context.Context, id string, upd model.MessageUpdate) error {
					return tt.err
				},
			}
			h := NewContactHandler(mock)

			req := httptest.NewRequest(http.MethodPut, "/api/admin/messages", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Update(rec, req)

			if rec.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, rec.Code)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// DELETE /api/admin/messages
// ---------------------------------------------------------------------------

func TestContactHandler_Delete(t *testing.T) {
	var gotID string
	mock := &mockContactService{
		deleteFunc: func(ctx context.Context, id string) error {
			gotID = id
			if id == "gone" {
				return service.ErrNotFound
			}
			return nil
		},
	}
	h := NewContactHandler(mock)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/messages?id=m1", nil)
	rec := httptest.NewRecorder()
	h.Delete(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if gotID != "m1" {
		t.Errorf("expected id=m1, got %q", gotID)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/admin/messages?id=gone", nil)
	rec = httptest.NewRecorder()
	h.Delete(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if resp := decodeMap(t, rec); resp["error"] != "Message not found" {
		t.Errorf("unexpected error: %v", resp["error"])
	}
}
