package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"lessontictactoe/internal/game"
)

func TestTallyStore_Get(t *testing.T) {
	store := NewTallyStore(4)

	tally := store.Get("session-1")
	assert.Equal(t, "session-1", tally.SessionID)
	assert.Equal(t, int32(0), tally.CrossWins)
	assert.Equal(t, int32(0), tally.NoughtWins)
	assert.Equal(t, int32(0), tally.Draws)
}

func TestTallyStore_Record(t *testing.T) {
	store := NewTallyStore(4)

	store.Record("session-1", game.CrossWin)
	store.Record("session-1", game.CrossWin)
	store.Record("session-1", game.NoughtWin)
	store.Record("session-1", game.Draw)
	store.Record("session-1", game.InProgress)
	store.Record("session-2", game.Draw)

	tally := store.Get("session-1")
	assert.Equal(t, int32(2), tally.CrossWins)
	assert.Equal(t, int32(1), tally.NoughtWins)
	assert.Equal(t, int32(1), tally.Draws)
	assert.Equal(t, int32(4), tally.Rounds())

	other := store.Get("session-2")
	assert.Equal(t, int32(1), other.Draws)
	assert.Equal(t, int32(1), other.Rounds())
}

func TestTallyStore_Forget(t *testing.T) {
	store := NewTallyStore(4)
	store.Record("session-1", game.Draw)

	store.Forget("session-1")
	assert.Equal(t, int32(0), store.Get("session-1").Rounds())
}

func TestTallyStore_Concurrent(t *testing.T) {
	store := NewTallyStore(4)
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			store.Record("session-1", game.CrossWin)
		}()
		go func() {
			defer wg.Done()
			store.Record("session-1", game.NoughtWin)
		}()
		go func() {
			defer wg.Done()
			store.Record("session-1", game.Draw)
		}()
	}
	wg.Wait()

	tally := store.Get("session-1")
	assert.Equal(t, int32(100), tally.CrossWins)
	assert.Equal(t, int32(100), tally.NoughtWins)
	assert.Equal(t, int32(100), tally.Draws)
	assert.Equal(t, int32(300), tally.Rounds())
}
