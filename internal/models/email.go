package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// EmailStatus is the delivery state of a send attempt.
type EmailStatus string

const (
	StatusPending EmailStatus = "pending"
	StatusSent    EmailStatus = "sent"
	StatusFailed  EmailStatus = "failed"
	// StatusDelivered is reserved for relay delivery confirmations.
	// No code path inside this service sets it.
	StatusDelivered EmailStatus = "delivered"
)

// EmailRequest is the body for POST /send.
type EmailRequest struct {
	To          []string `json:"to"`
	Cc          []string `json:"cc,omitempty"`
	Bcc         []string `json:"bcc,omitempty"`
	Subject     string   `json:"subject"`
	Body        string   `json:"body"`
	IsHTML      bool     `json:"is_html"`
	Attachments []string `json:"attachments,omitempty"`
}

// Normalize trims leading/trailing whitespace from subject and body.
func (r *EmailRequest) Normalize() {
	r.Subject = strings.TrimSpace(r.Subject)
	r.Body = strings.TrimSpace(r.Body)
}

// EmailRecord is one persisted send attempt and its outcome.
// Records are append-only: once written they are never mutated.
type EmailRecord struct {
	MessageID    uuid.UUID   `json:"message_id"`
	Status       EmailStatus `json:"status"`
	To           []string    `json:"to"`
	Cc           []string    `json:"cc,omitempty"`
	Bcc          []string    `json:"bcc,omitempty"`
	Subject      string      `json:"subject"`
	Body         string      `json:"body"`
	IsHTML       bool        `json:"is_html"`
	SentAt       *time.Time  `json:"sent_at,omitempty"`
	ErrorMessage *string     `json:"error_message,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// NewEmailRecord creates a pending record for the given request.
func NewEmailRecord(messageID uuid.UUID, req *EmailRequest) *EmailRecord {
	return &EmailRecord{
		MessageID: messageID,
		Status:    StatusPending,
		To:        req.To,
		Cc:        req.Cc,
		Bcc:       req.Bcc,
		Subject:   req.Subject,
		Body:      req.Body,
		IsHTML:    req.IsHTML,
		CreatedAt: time.Now().UTC(),
	}
}

// MarkSent transitions the record to sent with the given timestamp.
func (r *EmailRecord) MarkSent(at time.Time) {
	r.Status = StatusSent
	r.SentAt = &at
}

// MarkFailed transitions the record to failed with the transport error text.
func (r *EmailRecord) MarkFailed(errMsg string) {
	r.Status = StatusFailed
	r.ErrorMessage = &errMsg
}

// HealthStatus is the response for GET /health.
type HealthStatus struct {
	Status          string    `json:"status"`
	Version         string    `json:"version"`
	Timestamp       time.Time `json:"timestamp"`
	RelayConnection bool      `json:"relay_connection"`
}
