package history

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bionic-mail/backend/internal/models"
)

// PostgresStore is the durable Store backed by the email_records table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed history store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Append inserts a record. The primary key on message_id enforces uniqueness.
func (s *PostgresStore) Append(ctx context.Context, record *models.EmailRecord) error {
	const q = `INSERT INTO email_records
		(message_id, status, to_addrs, cc_addrs, bcc_addrs, subject, body, is_html, sent_at, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := s.pool.Exec(ctx, q,
		record.MessageID, string(record.Status), record.To, record.Cc, record.Bcc,
		record.Subject, record.Body, record.IsHTML, record.SentAt, record.ErrorMessage, record.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateID
		}
		return err
	}
	return nil
}

// List returns up to limit records, newest first. The seq column breaks
// created_at ties in insertion order.
func (s *PostgresStore) List(ctx context.Context, limit int) ([]*models.EmailRecord, error) {
	const q = `SELECT message_id, status, to_addrs, COALESCE(cc_addrs, '{}'), COALESCE(bcc_addrs, '{}'),
		subject, body, is_html, sent_at, error_message, created_at
		FROM email_records
		ORDER BY created_at DESC, seq DESC
		LIMIT $1`
	rows, err := s.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.EmailRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

// Get returns the record for the message ID, or ErrNotFound.
func (s *PostgresStore) Get(ctx context.Context, messageID uuid.UUID) (*models.EmailRecord, error) {
	const q = `SELECT message_id, status, to_addrs, COALESCE(cc_addrs, '{}'), COALESCE(bcc_addrs, '{}'),
		subject, body, is_html, sent_at, error_message, created_at
		FROM email_records
		WHERE message_id = $1`
	row := s.pool.QueryRow(ctx, q, messageID)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

func scanRecord(row pgx.Row) (*models.EmailRecord, error) {
	var rec models.EmailRecord
	var status string
	if err := row.Scan(&rec.MessageID, &status, &rec.To, &rec.Cc, &rec.Bcc,
		&rec.Subject, &rec.Body, &rec.IsHTML, &rec.SentAt, &rec.ErrorMessage, &rec.CreatedAt); err != nil {
		return nil, err
	}
	rec.Status = models.EmailStatus(status)
	if len(rec.Cc) == 0 {
		rec.Cc = nil
	}
	if len(rec.Bcc) == 0 {
		rec.Bcc = nil
	}
	return &rec, nil
}
