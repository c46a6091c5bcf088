// Package history is the append-only log of past send attempts.
package history

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/bionic-mail/backend/internal/models"
)

// ErrNotFound is returned when no record exists for a message ID.
var ErrNotFound = errors.New("email record not found")

// ErrDuplicateID is returned when a record with the same message ID was
// already appended.
var ErrDuplicateID = errors.New("duplicate message id")

// DefaultLimit is the number of records returned when no limit is given.
const DefaultLimit = 50

// MaxLimit bounds the history page size.
const MaxLimit = 1000

// Store is the append-only history log. No update or delete is exposed:
// a record is written once, after its status has reached a terminal value.
type Store interface {
	// Append adds a record; it never overwrites.
	Append(ctx context.Context, record *models.EmailRecord) error
	// List returns the most recent limit records, newest first, ordered by
	// created_at descending with ties broken by insertion order.
	List(ctx context.Context, limit int) ([]*models.EmailRecord, error)
	// Get returns the record for the message ID, or ErrNotFound.
	Get(ctx context.Context, messageID uuid.UUID) (*models.EmailRecord, error)
}
