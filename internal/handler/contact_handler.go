package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/portfolio/backend/internal/metrics"
	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/service"
	"github.com/portfolio/backend/pkg/auth"
)

const maxBodyBytes = 1 << 20

// ContactHandler handles contact form submission and the admin message routes.
type ContactHandler struct {
	contactService service.ContactService
}

// NewContactHandler creates a ContactHandler with the given service.
func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// submitRequest is the expected JSON body for POST /api/contact.
type submitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type submitResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId"`
	Message   string `json:"message"`
}

// successResponse is returned by the admin mutation routes.
type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Submit handles POST /api/contact.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if !decodeBody(w, r, &req) {
		return
	}

	msg := &model.Message{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := h.contactService.Submit(r.Context(), msg); err != nil {
		writeServiceError(w, r, "submit message", err)
		return
	}

	metrics.MessagesSubmitted.Inc()
	slog.Info("message stored", "message_id", msg.ID, "request_id", RequestIDFromContext(r.Context()))
	writeJSON(w, http.StatusCreated, submitResponse{
		Success:   true,
		MessageID: msg.ID,
		Message:   "Message sent successfully!",
	})
}

// AdminList handles GET /api/admin/messages?page&limit.
// Missing or non-positive values fall back to page 1 and limit 10; limit is capped at 100.
func (h *ContactHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := model.ListOptions{
		Page:  positiveInt(q.Get("page"), model.DefaultPage),
		Limit: positiveInt(q.Get("limit"), model.DefaultLimit),
	}

	page, err := h.contactService.List(r.Context(), opts)
	if err != nil {
		writeServiceError(w, r, "list messages", err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// updateRequest is the expected JSON body for PUT /api/admin/messages.
type updateRequest struct {
	MessageID string `json:"messageId"`
	Read      *bool  `json:"read"`
	Replied   *bool  `json:"replied"`
}

// Update handles PUT /api/admin/messages. Only the supplied flags change.
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	upd := model.MessageUpdate{Read: req.Read, Replied: req.Replied}
	if err := h.contactService.Update(r.Context(), req.MessageID, upd); err != nil {
		writeServiceError(w, r, "update message", err)
		return
	}

	metrics.MessagesUpdated.Inc()
	logAdminAction(r, "message updated", req.MessageID)
	writeJSON(w, http.StatusOK, successResponse{Success: true, Message: "Message updated successfully"})
}

// Delete handles DELETE /api/admin/messages?id=.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if err := h.contactService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, "delete message", err)
		return
	}

	metrics.MessagesDeleted.Inc()
	logAdminAction(r, "message deleted", id)
	writeJSON(w, http.StatusOK, successResponse{Success: true, Message: "Message deleted successfully"})
}

func logAdminAction(r *http.Request, msg, id string) {
	subject, _ := auth.SubjectFromContext(r.Context())
	slog.Info(msg,
		"message_id", id,
		"admin", subject,
		"request_id", RequestIDFromContext(r.Context()),
	)
}

// decodeBody decodes a size-limited JSON body into v and writes a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

// writeServiceError maps the service error taxonomy onto HTTP responses.
// Storage failures are logged with detail and answered with a generic message.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		metrics.ValidationFailures.WithLabelValues(verr.Rule).Inc()
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  validationMessage(verr),
			Rule:   verr.Rule,
			Fields: verr.Fields,
		})
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "Message not found")
	default:
		slog.Error(op+" failed",
			"error", err,
			"request_id", RequestIDFromContext(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func validationMessage(err *service.ValidationError) string {
	switch err.Rule {
	case service.RuleMissingField:
		return "All fields are required"
	case service.RuleInvalidEmail:
		return "Invalid email format"
	case service.RuleMissingID:
		return "Message ID is required"
	}
	return "Invalid request"
}

func positiveInt(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
