package store

import (
	"sync"
	"sync/atomic"

	"lessontictactoe/internal/game"
)

// Tally counts finished rounds of one session. Unlike the engine scores it
// also counts draws.
type Tally struct {
	SessionID  string
	CrossWins  int32
	NoughtWins int32
	Draws      int32
}

// Rounds returns the number of finished rounds
func (t Tally) Rounds() int32 {
	return t.CrossWins + t.NoughtWins + t.Draws
}

// TallyStore keeps round tallies for the lifetime of the process
type TallyStore struct {
	shards    []*tallyShard
	numShards int
}

type tallyShard struct {
	mu      sync.RWMutex
	tallies map[string]*Tally
}

// NewTallyStore creates a store with the given number of shards
func NewTallyStore(numShards int) *TallyStore {
	if numShards < 1 {
		numShards = defaultShards
	}

	shards := make([]*tallyShard, numShards)
	for i := range shards {
		shards[i] = &tallyShard{
			tallies: make(map[string]*Tally),
		}
	}

	return &TallyStore{
		shards:    shards,
		numShards: numShards,
	}
}

func (s *TallyStore) getOrCreate(sessionID string) *Tally {
	shard := s.shards[shardIndex(sessionID, s.numShards)]

	shard.mu.RLock()
	tally, exists := shard.tallies[sessionID]
	shard.mu.RUnlock()

	if exists {
		return tally
	}

	shard.mu.Lock()
	defer shard.mu.Unlock()

	// Double-check after acquiring write lock
	if tally, exists = shard.tallies[sessionID]; exists {
		return tally
	}

	tally = &Tally{SessionID: sessionID}
	shard.tallies[sessionID] = tally
	return tally
}

// Get returns a copy of the tally for a session
func (s *TallyStore) Get(sessionID string) Tally {
	tally := s.getOrCreate(sessionID)
	return Tally{
		SessionID:  sessionID,
		CrossWins:  atomic.LoadInt32(&tally.CrossWins),
		NoughtWins: atomic.LoadInt32(&tally.NoughtWins),
		Draws:      atomic.LoadInt32(&tally.Draws),
	}
}

// Record counts a finished round. Non-terminal states are ignored.
func (s *TallyStore) Record(sessionID string, state game.State) {
	if !state.IsTerminal() {
		return
	}

	tally := s.getOrCreate(sessionID)
	switch state {
	case game.CrossWin:
		atomic.AddInt32(&tally.CrossWins, 1)
	case game.NoughtWin:
		atomic.AddInt32(&tally.NoughtWins, 1)
	case game.Draw:
		atomic.AddInt32(&tally.Draws, 1)
	}
}

// Forget drops the tally of a session
func (s *TallyStore) Forget(sessionID string) {
	shard := s.shards[shardIndex(sessionID, s.numShards)]
	shard.mu.Lock()
	defer shard.mu.Unlock()
	delete(shard.tallies, sessionID)
}
