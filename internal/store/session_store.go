package store

import (
	"errors"
	"sort"
	"sync"

	"lessontictactoe/internal/session"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
)

const defaultShards = 16

// SessionStore keeps live sessions in memory, sharded by id
type SessionStore struct {
	shards    []*sessionShard
	numShards int
}

type sessionShard struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
}

// NewSessionStore creates a store with the given number of shards
func NewSessionStore(numShards int) *SessionStore {
	if numShards < 1 {
		numShards = defaultShards
	}

	shards := make([]*sessionShard, numShards)
	for i := range shards {
		shards[i] = &sessionShard{
			sessions: make(map[string]*session.Session),
		}
	}

	return &SessionStore{
		shards:    shards,
		numShards: numShards,
	}
}

func shardIndex(id string, n int) uint32 {
	hash := uint32(0)
	for _, c := range id {
		hash = hash*31 + uint32(c)
	}
	return hash % uint32(n)
}

func (s *SessionStore) getShard(id string) *sessionShard {
	return s.shards[shardIndex(id, s.numShards)]
}

// Create stores a new session
func (s *SessionStore) Create(sess *session.Session) error {
	shard := s.getShard(sess.ID())
	shard.mu.Lock()
	defer shard.mu.Unlock()

	if _, exists := shard.sessions[sess.ID()]; exists {
		return ErrSessionAlreadyExists
	}

	shard.sessions[sess.ID()] = sess
	return nil
}

// Get retrieves a session by id
func (s *SessionStore) Get(id string) (*session.Session, error) {
	shard := s.getShard(id)
	shard.mu.RLock()
	defer shard.mu.RUnlock()

	sess, exists := shard.sessions[id]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Delete removes a session and closes its subscriptions
func (s *SessionStore) Delete(id string) error {
	shard := s.getShard(id)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	sess, exists := shard.sessions[id]
	if !exists {
		return ErrSessionNotFound
	}

	delete(shard.sessions, id)
	sess.Close()
	return nil
}

// List returns session ids, oldest first
func (s *SessionStore) List() []string {
	var all []*session.Session
	for _, shard := range s.shards {
		shard.mu.RLock()
		for _, sess := range shard.sessions {
			all = append(all, sess)
		}
		shard.mu.RUnlock()
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt().Before(all[j].CreatedAt())
	})

	ids := make([]string, len(all))
	for i, sess := range all {
		ids[i] = sess.ID()
	}
	return ids
}

// Count returns the number of sessions
func (s *SessionStore) Count() int {
	count := 0
	for _, shard := range s.shards {
		shard.mu.RLock()
		count += len(shard.sessions)
		shard.mu.RUnlock()
	}
	return count
}
