package catalog

import (
	"context"
	"strings"

	"manthokha-backend/models"
)

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (r ContactRequest) Validate() *ValidationError {
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Email) == "" || strings.TrimSpace(r.Message) == "" {
		return &ValidationError{Title: "Error", Message: "Please fill in all required fields."}
	}
	if err := validate.Var(strings.TrimSpace(r.Email), "email"); err != nil {
		return &ValidationError{Field: "email", Title: "Invalid email", Message: "Please enter a valid email address."}
	}
	return nil
}

type ContactWriter interface {
	Insert(ctx context.Context, rec *models.ContactSubmission) error
}

// ContactInbox stores messages sent from the contact page.
type ContactInbox struct {
	Store ContactWriter
}

func (c *ContactInbox) Submit(ctx context.Context, req ContactRequest, n Notifier) (*models.ContactSubmission, error) {
	if n == nil {
		n = NotifierFunc(func(Notification) {})
	}
	if verr := req.Validate(); verr != nil {
		n.Notify(failure(verr.Title, verr.Message))
		return nil, verr
	}

	sub := models.ContactSubmission{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
	}
	if err := c.Store.Insert(ctx, &sub); err != nil {
		serr := &StoreError{Entity: "Contact submission", Op: "insert", Err: err}
		n.Notify(failure("Error", serr.Message()))
		return nil, serr
	}

	n.Notify(success("Message Sent!", "We've received your message and will get back to you soon."))
	return &sub, nil
}
