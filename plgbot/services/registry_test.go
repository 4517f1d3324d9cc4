package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureCreatesOnFirstContact(t *testing.T) {
	repo := newFakeUserRepo()
	reg := NewUserRegistry(repo)

	user, err := reg.Ensure(context.Background(), 42, "alice", "Alice A")
	require.NoError(t, err)

	assert.Equal(t, int64(42), user.TgID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "Alice A", user.FullName)
	assert.Equal(t, int64(0), user.XPTotal)
	assert.False(t, user.IsManager)
	assert.Equal(t, 1, repo.creates)
}

func TestEnsureIsIdempotent(t *testing.T) {
	repo := newFakeUserRepo()
	reg := NewUserRegistry(repo)

	first, err := reg.Ensure(context.Background(), 42, "alice", "Alice A")
	require.NoError(t, err)

	second, err := reg.Ensure(context.Background(), 42, "alice", "Alice A")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, repo.creates)
	assert.Equal(t, 0, repo.updates, "identical identity must not rewrite the row")
}

func TestEnsureRefreshesChangedIdentity(t *testing.T) {
	repo := newFakeUserRepo()
	reg := NewUserRegistry(repo)

	_, err := reg.Ensure(context.Background(), 42, "alice", "Alice A")
	require.NoError(t, err)

	user, err := reg.Ensure(context.Background(), 42, "alice_new", "Alice A")
	require.NoError(t, err)
	assert.Equal(t, "alice_new", user.Username)
	assert.Equal(t, 1, repo.updates)
}

func TestEnsureKeepsStoredFieldsWhenIncomingEmpty(t *testing.T) {
	repo := newFakeUserRepo()
	reg := NewUserRegistry(repo)

	_, err := reg.Ensure(context.Background(), 42, "alice", "Alice A")
	require.NoError(t, err)

	// Telegram users can hide their username; blank input must not erase it.
	user, err := reg.Ensure(context.Background(), 42, "", "")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "Alice A", user.FullName)
	assert.Equal(t, 0, repo.updates)
}

func TestEnsurePreservesXPAndFlag(t *testing.T) {
	repo := newFakeUserRepo()
	reg := NewUserRegistry(repo)

	user, err := reg.Ensure(context.Background(), 42, "alice", "Alice A")
	require.NoError(t, err)
	user.XPTotal = 300
	user.IsManager = true

	again, err := reg.Ensure(context.Background(), 42, "alice", "Alice A")
	require.NoError(t, err)
	assert.Equal(t, int64(300), again.XPTotal)
	assert.True(t, again.IsManager)
}
