package handler

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/repository"
	"github.com/portfolio/backend/internal/service"
	"github.com/portfolio/backend/pkg/auth"
)

const routerTestToken = "router-test-token"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	repo := repository.NewMemoryMessageRepository()
	authn := auth.NewStaticAuthenticator(
		auth.Credentials{Token: routerTestToken, Username: "admin", Password: "pw"},
		auth.SessionSecretBytes("router-test-secret"),
		time.Hour,
	)
	return NewRouter(RouterConfig{
		DB:            repo,
		FrontendURL:   "http://localhost:3000",
		Contacts:      service.NewContactService(repo),
		Authenticator: authn,
		Sessions:      authn,
	})
}

func doJSON(t *testing.T, h http.Handler, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func listMessages(t *testing.T, h http.Handler, token string) model.MessagePage {
	t.Helper()
	rec := doJSON(t, h, http.MethodGet, "/api/admin/messages?page=1&limit=10", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var page model.MessagePage
	if err := json.NewDecoder(rec.Body).Decode(&page); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	return page
}

func TestRouter_ContactMessageLifecycle(t *testing.T) {
	h := newTestRouter(t)

	earlier := doJSON(t, h, http.MethodPost, "/api/contact",
		`{"name":"Old","email":"old@example.com","subject":"Before","message":"First"}`, "")
	if earlier.Code != http.StatusCreated {
		t.Fatalf("seed submit: expected 201, got %d", earlier.Code)
	}
	time.Sleep(2 * time.Millisecond)

	before := time.Now()
	rec := doJSON(t, h, http.MethodPost, "/api/contact",
		`{"name":"Jane Doe","email":"jane@example.com","subject":"Hi","message":"Hello there"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var submitted submitResponse
	if err := json.NewDecoder(rec.Body).Decode(&submitted); err != nil {
		t.Fatalf("decode submit: %v", err)
	}
	if !submitted.Success || submitted.MessageID == "" {
		t.Fatalf("expected success with id, got %+v", submitted)
	}
	id := submitted.MessageID

	page := listMessages(t, h, routerTestToken)
	if len(page.Messages) != 2 || page.Messages[0].ID != id {
		t.Fatalf("expected submitted message first, got %+v", page.Messages)
	}
	first := page.Messages[0]
	if first.Read || first.Replied {
		t.Errorf("expected read=false replied=false, got %+v", first)
	}
	if first.CreatedAt.Before(before.Add(-time.Second)) {
		t.Errorf("createdAt %v earlier than request time %v", first.CreatedAt, before)
	}
	if page.Pagination != (model.Pagination{Page: 1, Limit: 10, TotalCount: 2, TotalPages: 1}) {
		t.Errorf("unexpected pagination %+v", page.Pagination)
	}

	rec = doJSON(t, h, http.MethodPut, "/api/admin/messages", `{"messageId":"`+id+`","read":true}`, routerTestToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", rec.Code)
	}

	page = listMessages(t, h, routerTestToken)
	if !page.Messages[0].Read || page.Messages[0].Replied {
		t.Errorf("expected read=true replied=false, got %+v", page.Messages[0])
	}
	if page.Messages[1].Read {
		t.Error("other message must be untouched")
	}

	rec = doJSON(t, h, http.MethodDelete, "/api/admin/messages?id="+id, "", routerTestToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}

	page = listMessages(t, h, routerTestToken)
	for _, m := range page.Messages {
		if m.ID == id {
			t.Fatal("deleted message still listed")
		}
	}

	rec = doJSON(t, h, http.MethodDelete, "/api/admin/messages?id="+id, "", routerTestToken)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodPut, "/api/admin/messages", `{"messageId":"`+id+`","replied":true}`, routerTestToken)
	if rec.Code != http.StatusNotFound {
		t.Errorf("update deleted: expected 404, got %d", rec.Code)
	}
}

func TestRouter_InvalidSubmissionCreatesNothing(t *testing.T) {
	h := newTestRouter(t)

	for _, body := range []string{
		`{"name":"","email":"jane@example.com","subject":"Hi","message":"Hello"}`,
		`{"name":"Jane","email":"jane.example.com","subject":"Hi","message":"Hello"}`,
		`{"name":"Jane","email":"jane@example","subject":"Hi","message":"Hello"}`,
	} {
		rec := doJSON(t, h, http.MethodPost, "/api/contact", body, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for %s, got %d", body, rec.Code)
		}
	}

	if page := listMessages(t, h, routerTestToken); page.Pagination.TotalCount != 0 {
		t.Errorf("expected no stored messages, got %d", page.Pagination.TotalCount)
	}
}

func TestRouter_ListPagePastEndIsEmpty(t *testing.T) {
	h := newTestRouter(t)
	rec := doJSON(t, h, http.MethodPost, "/api/contact",
		`{"name":"Jane","email":"jane@example.com","subject":"Hi","message":"Hello"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: expected 201, got %d", rec.Code)
	}

	for _, target := range []string{
		"/api/admin/messages?page=5&limit=10",
		"/api/admin/messages?page=9223372036854775807&limit=10",
		"/api/admin/messages?page=9223372036854775807&limit=100",
	} {
		rec := doJSON(t, h, http.MethodGet, target, "", routerTestToken)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", target, rec.Code, rec.Body.String())
		}
		var page model.MessagePage
		if err := json.NewDecoder(rec.Body).Decode(&page); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(page.Messages) != 0 {
			t.Errorf("%s: expected no messages, got %d", target, len(page.Messages))
		}
		if page.Pagination.TotalCount != 1 {
			t.Errorf("%s: expected totalCount=1, got %d", target, page.Pagination.TotalCount)
		}
	}
}

func TestRouter_AdminRoutesRequireCredential(t *testing.T) {
	h := newTestRouter(t)

	for _, tc := range []struct{ method, target, body string }{
		{http.MethodGet, "/api/admin/messages", ""},
		{http.MethodPut, "/api/admin/messages", `{"messageId":"x","read":true}`},
		{http.MethodDelete, "/api/admin/messages?id=x", ""},
	} {
		rec := doJSON(t, h, tc.method, tc.target, tc.body, "wrong-token")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", tc.method, tc.target, rec.Code)
		}
	}

	basic := base64.StdEncoding.EncodeToString([]byte("admin:pw"))
	if rec := doJSON(t, h, http.MethodGet, "/api/admin/messages", "", basic); rec.Code != http.StatusOK {
		t.Errorf("basic-derived bearer: expected 200, got %d", rec.Code)
	}
}

func TestRouter_SessionTokenGrantsAccess(t *testing.T) {
	h := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/session", nil)
	req.SetBasicAuth("admin", "pw")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("session: expected 200, got %d", rec.Code)
	}
	var sess sessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&sess); err != nil {
		t.Fatalf("decode: %v", err)
	}

	listMessages(t, h, sess.Token)
}

func TestRouter_HealthAndRequestID(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/api/health", "", "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected generated request id header")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("expected request id echoed, got %q", got)
	}
}
