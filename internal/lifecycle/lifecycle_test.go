package lifecycle

import (
	"testing"
	"time"

	"github.com/moneykeeper/moneykeeper-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	e := &domain.Account{}
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	Init(e, "alice", now)

	assert.Equal(t, now, e.CreatedAt)
	assert.Equal(t, "alice", e.CreatedBy)
	assert.Equal(t, now, e.UpdatedAt)
	assert.Equal(t, "alice", e.UpdatedBy)
	assert.Nil(t, e.DeletedAt)
	assert.Nil(t, e.DeletedBy)
}

func TestMarkDeleted(t *testing.T) {
	e := &domain.Account{}
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	deleted := created.Add(time.Hour)
	Init(e, "alice", created)

	require.NoError(t, MarkDeleted(e, "bob", deleted))

	require.NotNil(t, e.DeletedAt)
	assert.Equal(t, deleted, *e.DeletedAt)
	require.NotNil(t, e.DeletedBy)
	assert.Equal(t, "bob", *e.DeletedBy)
	// Create stamps are untouched.
	assert.Equal(t, created, e.CreatedAt)
	assert.Equal(t, "alice", e.CreatedBy)
}

func TestMarkDeleted_AlreadyDeleted(t *testing.T) {
	e := &domain.Account{}
	now := time.Now().UTC()
	Init(e, "alice", now)
	require.NoError(t, MarkDeleted(e, "alice", now))

	err := MarkDeleted(e, "bob", now.Add(time.Minute))
	assert.ErrorIs(t, err, domain.ErrAlreadyDeleted)

	// Stamps from the first delete are unchanged.
	assert.Equal(t, now, *e.DeletedAt)
	assert.Equal(t, "alice", *e.DeletedBy)
}

func TestMarkRestored_RoundTrip(t *testing.T) {
	e := &domain.Account{}
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	Init(e, "alice", created)
	require.NoError(t, MarkDeleted(e, "alice", created.Add(time.Hour)))

	restored := created.Add(2 * time.Hour)
	require.NoError(t, MarkRestored(e, "bob", restored))

	assert.Nil(t, e.DeletedAt)
	assert.Nil(t, e.DeletedBy)
	assert.Equal(t, restored, e.UpdatedAt)
	assert.Equal(t, "bob", e.UpdatedBy)
}

func TestMarkRestored_NotDeleted(t *testing.T) {
	e := &domain.Account{}
	Init(e, "alice", time.Now().UTC())

	err := MarkRestored(e, "alice", time.Now().UTC())
	assert.ErrorIs(t, err, domain.ErrNotDeleted)
}

func TestTouch(t *testing.T) {
	e := &domain.Account{}
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	Init(e, "alice", created)

	touched := created.Add(time.Minute)
	Touch(e, "bob", touched)

	assert.Equal(t, touched, e.UpdatedAt)
	assert.Equal(t, "bob", e.UpdatedBy)
	assert.Equal(t, created, e.CreatedAt)
	assert.Nil(t, e.DeletedAt)
}
