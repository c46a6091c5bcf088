package history

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bionic-mail/backend/internal/models"
)

func record(createdAt time.Time) *models.EmailRecord {
	return &models.EmailRecord{
		MessageID: uuid.New(),
		Status:    models.StatusSent,
		To:        []string{"a@example.com"},
		Subject:   "Hi",
		Body:      "Test",
		CreatedAt: createdAt,
	}
}

func TestMemoryStore_AppendAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sentAt := time.Now().UTC()
	rec := record(sentAt.Add(-time.Second))
	rec.MarkSent(sentAt)
	require.NoError(t, store.Append(ctx, rec))

	got, err := store.Get(ctx, rec.MessageID)
	require.NoError(t, err)
	assert.Equal(t, rec.MessageID, got.MessageID)
	assert.Equal(t, models.StatusSent, got.Status)
	require.NotNil(t, got.SentAt)
	assert.True(t, got.SentAt.Equal(sentAt))
	assert.Nil(t, got.ErrorMessage)
}

func TestMemoryStore_GetNotFound(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_DuplicateID(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	rec := record(time.Now())
	require.NoError(t, store.Append(ctx, rec))
	assert.ErrorIs(t, store.Append(ctx, rec), ErrDuplicateID)
}

func TestMemoryStore_ListNewestFirst(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	base := time.Now().UTC()

	first := record(base)
	second := record(base.Add(time.Second))
	third := record(base.Add(2 * time.Second))
	for _, r := range []*models.EmailRecord{first, second, third} {
		require.NoError(t, store.Append(ctx, r))
	}

	got, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, third.MessageID, got[0].MessageID)
	assert.Equal(t, second.MessageID, got[1].MessageID)
	assert.Equal(t, first.MessageID, got[2].MessageID)
}

func TestMemoryStore_ListTieBreakByInsertion(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	at := time.Now().UTC()

	older := record(at)
	newer := record(at) // same created_at, inserted later
	require.NoError(t, store.Append(ctx, older))
	require.NoError(t, store.Append(ctx, newer))

	got, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newer.MessageID, got[0].MessageID)
	assert.Equal(t, older.MessageID, got[1].MessageID)
}

func TestMemoryStore_ListLimit(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(ctx, record(base.Add(time.Duration(i)*time.Second))))
	}
	got, err := store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestMemoryStore_AppendCopiesRecord(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	rec := record(time.Now().UTC())
	require.NoError(t, store.Append(ctx, rec))

	rec.Subject = "mutated after append"

	got, err := store.Get(ctx, rec.MessageID)
	require.NoError(t, err)
	assert.Equal(t, "Hi", got.Subject)
}

func TestMemoryStore_RepeatedGetIdentical(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	rec := record(time.Now().UTC())
	require.NoError(t, store.Append(ctx, rec))

	first, err := store.Get(ctx, rec.MessageID)
	require.NoError(t, err)
	second, err := store.Get(ctx, rec.MessageID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
