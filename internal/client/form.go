package client

import (
	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/service"
)

// ContactForm is the public contact form payload.
type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Validate applies the rules the server enforces so bad input is rejected
// before a request is made.
func (f ContactForm) Validate() error {
	return service.ValidateMessage(&model.Message{
		Name:    f.Name,
		Email:   f.Email,
		Subject: f.Subject,
		Message: f.Message,
	})
}
