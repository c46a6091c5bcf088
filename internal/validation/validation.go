// Package validation rejects malformed send requests before any network call.
// All violations are collected, not just the first, so the caller can fix
// every problem in one round trip.
package validation

import (
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bionic-mail/backend/internal/models"
)

const (
	// MaxSubjectLength is the subject limit in characters after trimming.
	MaxSubjectLength = 200
	// MaxAttachmentSize is the per-file attachment limit.
	MaxAttachmentSize = 10 * 1024 * 1024
)

var allowedExtensions = map[string]struct{}{
	".pdf": {}, ".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {},
	".txt": {}, ".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {},
}

// Violation describes one failed constraint on a request field.
type Violation struct {
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// ValidateEmailRequest checks the request against every constraint and
// returns all violations found. An empty slice means the request is valid.
// The request should be normalized (subject/body trimmed) before validation.
func ValidateEmailRequest(req *models.EmailRequest) []Violation {
	var violations []Violation

	if len(req.To) == 0 {
		violations = append(violations, Violation{
			Field:   "to",
			Message: "at least one recipient must be provided",
		})
	}
	violations = append(violations, validateAddresses("to", req.To)...)
	violations = append(violations, validateAddresses("cc", req.Cc)...)
	violations = append(violations, validateAddresses("bcc", req.Bcc)...)

	if req.Subject == "" {
		violations = append(violations, Violation{
			Field:   "subject",
			Message: "subject cannot be empty",
		})
	} else if n := utf8.RuneCountInString(req.Subject); n > MaxSubjectLength {
		violations = append(violations, Violation{
			Field:   "subject",
			Message: fmt.Sprintf("subject exceeds %d characters (got %d)", MaxSubjectLength, n),
		})
	}

	if req.Body == "" {
		violations = append(violations, Violation{
			Field:   "body",
			Message: "body cannot be empty",
		})
	}

	for i, path := range req.Attachments {
		violations = append(violations, validateAttachment(fmt.Sprintf("attachments[%d]", i), path)...)
	}

	return violations
}

// validateAddresses checks each entry as a bare addr-spec with a dotted
// domain. Display-name forms ("Name <a@b.com>") are rejected: recipients are
// plain addresses.
func validateAddresses(field string, addrs []string) []Violation {
	var violations []Violation
	for i, addr := range addrs {
		if err := checkAddress(addr); err != nil {
			violations = append(violations, Violation{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Value:   addr,
				Message: err.Error(),
			})
		}
	}
	return violations
}

func checkAddress(addr string) error {
	parsed, err := mail.ParseAddress(addr)
	if err != nil {
		return fmt.Errorf("invalid email address: %v", err)
	}
	if parsed.Address != addr {
		return fmt.Errorf("invalid email address: must be a bare address without display name")
	}
	at := strings.LastIndex(parsed.Address, "@")
	if at < 0 || !strings.Contains(parsed.Address[at+1:], ".") {
		return fmt.Errorf("invalid email address: domain must contain a dot")
	}
	return nil
}

func validateAttachment(field, path string) []Violation {
	info, err := os.Stat(path)
	if err != nil {
		return []Violation{{
			Field:   field,
			Value:   path,
			Message: "attachment file not found or not readable",
		}}
	}
	var violations []Violation
	if info.IsDir() {
		return []Violation{{
			Field:   field,
			Value:   path,
			Message: "attachment path is a directory",
		}}
	}
	if info.Size() > MaxAttachmentSize {
		violations = append(violations, Violation{
			Field:   field,
			Value:   path,
			Message: fmt.Sprintf("attachment exceeds %d bytes (got %d)", MaxAttachmentSize, info.Size()),
		})
	}
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := allowedExtensions[ext]; !ok {
		violations = append(violations, Violation{
			Field:   field,
			Value:   path,
			Message: fmt.Sprintf("attachment type %q is not allowed", ext),
		})
	}
	return violations
}
