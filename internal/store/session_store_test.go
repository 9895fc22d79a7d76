package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lessontictactoe/internal/session"
)

func TestSessionStore_CreateGet(t *testing.T) {
	store := NewSessionStore(4)
	sess := session.New("session-1", session.Options{})

	err := store.Create(sess)
	require.NoError(t, err)

	retrieved, err := store.Get("session-1")
	require.NoError(t, err)
	assert.Same(t, sess, retrieved)

	err = store.Create(sess)
	assert.ErrorIs(t, err, ErrSessionAlreadyExists)
}

func TestSessionStore_GetNotFound(t *testing.T) {
	store := NewSessionStore(4)

	_, err := store.Get("nonexistent")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionStore_Delete(t *testing.T) {
	store := NewSessionStore(4)
	sess := session.New("session-1", session.Options{})
	require.NoError(t, store.Create(sess))
	updates := sess.Subscribe()

	err := store.Delete("session-1")
	require.NoError(t, err)

	_, err = store.Get("session-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Subscribers are released
	_, ok := <-updates
	assert.False(t, ok)

	err = store.Delete("session-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionStore_ListCount(t *testing.T) {
	store := NewSessionStore(0)
	assert.Equal(t, 0, store.Count())
	assert.Empty(t, store.List())

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Create(session.New(fmt.Sprintf("session-%d", i), session.Options{})))
	}

	assert.Equal(t, 5, store.Count())
	assert.ElementsMatch(t,
		[]string{"session-0", "session-1", "session-2", "session-3", "session-4"},
		store.List())
}

func TestSessionStore_Concurrent(t *testing.T) {
	store := NewSessionStore(4)
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			store.Create(session.New(fmt.Sprintf("session-%d", id), session.Options{}))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, store.Count())

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_, err := store.Get(fmt.Sprintf("session-%d", id))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
}
