package session

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"lessontictactoe/internal/game"
)

const (
	DefaultTurnSeconds = 10
	updateBuffer       = 10
)

// Update is a state change pushed to subscribers
type Update struct {
	Snapshot game.Snapshot
	TimeLeft int
	Message  string
}

// Summary holds the scoreboard of a session
type Summary struct {
	XScore      int
	OScore      int
	RoundNumber int
}

// Options configures a session
type Options struct {
	// TurnSeconds is the countdown length; zero means DefaultTurnSeconds.
	TurnSeconds int
	// OnRoundEnd is called once per round when it reaches a terminal state.
	OnRoundEnd func(id string, state game.State)
	Logger     logrus.FieldLogger
}

// Session drives one engine on behalf of a graphical front-end. Moves,
// resets and timer ticks may arrive from different goroutines.
type Session struct {
	mu sync.Mutex

	id          string
	engine      *game.Engine
	turnSeconds int
	timeLeft    int
	firstMove   bool
	roundClosed bool
	createdAt   time.Time
	updatedAt   time.Time

	onRoundEnd func(id string, state game.State)
	log        logrus.FieldLogger

	subscribersMu sync.RWMutex
	subscribers   map[chan Update]struct{}
	closed        bool
}

// New creates a session with a fresh engine
func New(id string, opts Options) *Session {
	turnSeconds := opts.TurnSeconds
	if turnSeconds <= 0 {
		turnSeconds = DefaultTurnSeconds
	}

	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	now := time.Now()
	return &Session{
		id:          id,
		engine:      game.NewEngine(),
		turnSeconds: turnSeconds,
		timeLeft:    turnSeconds,
		firstMove:   true,
		createdAt:   now,
		updatedAt:   now,
		onRoundEnd:  opts.OnRoundEnd,
		log:         log.WithField("session", id),
		subscribers: make(map[chan Update]struct{}),
	}
}

func (s *Session) ID() string { return s.id }

// ApplyMove places the current player's mark, settles the round when it
// ends and otherwise passes the turn.
func (s *Session) ApplyMove(row, col int) (Update, error) {
	s.mu.Lock()

	if err := s.engine.ApplyMove(row, col); err != nil {
		s.mu.Unlock()
		s.log.WithError(err).Debugf("move (%d, %d) rejected", row, col)
		return Update{}, err
	}

	s.firstMove = false
	s.timeLeft = s.turnSeconds

	state := s.engine.Evaluate()
	var ended bool
	if state.IsTerminal() {
		ended = s.closeRound(state)
	} else {
		s.engine.AdvanceTurn()
	}

	update := s.update()
	s.mu.Unlock()

	s.log.WithField("state", state).Debugf("move (%d, %d) applied", row, col)
	if ended && s.onRoundEnd != nil {
		s.onRoundEnd(s.id, state)
	}
	s.broadcast(update)
	return update, nil
}

// closeRound records the win for a round that just ended. It reports
// whether this call was the one that closed it.
func (s *Session) closeRound(state game.State) bool {
	if s.roundClosed {
		return false
	}
	s.roundClosed = true

	if winner, ok := state.Winner(); ok {
		s.engine.RecordWin(winner)
	}
	return true
}

// ResetRound clears the board keeping scores and round number
func (s *Session) ResetRound() Update {
	return s.reset(func(e *game.Engine) { e.ResetRound() })
}

// StartNextRound moves on to the next round
func (s *Session) StartNextRound() Update {
	return s.reset(func(e *game.Engine) { e.StartNextRound() })
}

// ResetGame starts over with zero scores at round 1
func (s *Session) ResetGame() Update {
	return s.reset(func(e *game.Engine) { e.ResetGame() })
}

func (s *Session) reset(fn func(e *game.Engine)) Update {
	s.mu.Lock()
	fn(s.engine)
	s.firstMove = true
	s.roundClosed = false
	s.timeLeft = s.turnSeconds
	update := s.update()
	s.mu.Unlock()

	s.log.WithField("round", update.Snapshot.RoundNumber).Debug("round reset")
	s.broadcast(update)
	return update
}

// Tick advances the turn countdown by one second. When it runs out the
// turn passes to the other player and the countdown restarts. Ticks are
// ignored before the first move of a round and once the round is over.
func (s *Session) Tick() {
	s.mu.Lock()

	if s.firstMove || s.engine.Evaluate().IsTerminal() {
		s.mu.Unlock()
		return
	}

	s.timeLeft--
	expired := s.timeLeft <= 0
	if expired {
		s.engine.AdvanceTurn()
		s.timeLeft = s.turnSeconds
	}

	update := s.update()
	s.mu.Unlock()

	if expired {
		s.log.WithField("player", update.Snapshot.CurrentPlayer).Debug("turn timed out")
	}
	s.broadcast(update)
}

// RunTimer calls Tick every interval until ctx is done
func (s *Session) RunTimer(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Tick()
		case <-ctx.Done():
			return
		}
	}
}

// Snapshot returns the current state
func (s *Session) Snapshot() Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update()
}

// Summary returns scores and round number
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Summary{
		XScore:      s.engine.XScore(),
		OScore:      s.engine.OScore(),
		RoundNumber: s.engine.RoundNumber(),
	}
}

// TimeLeft returns the seconds left in the current turn
func (s *Session) TimeLeft() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeLeft
}

// UpdatedAt returns the time of the last change
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

func (s *Session) CreatedAt() time.Time { return s.createdAt }

// update builds an Update; s.mu must be held
func (s *Session) update() Update {
	s.updatedAt = time.Now()
	snapshot := s.engine.Snapshot()
	return Update{
		Snapshot: snapshot,
		TimeLeft: s.timeLeft,
		Message:  Message(snapshot),
	}
}

// Message returns the status line shown to the player
func Message(snapshot game.Snapshot) string {
	switch snapshot.State {
	case game.CrossWin:
		return "Player X wins!"
	case game.NoughtWin:
		return "Player O wins!"
	case game.Draw:
		return "Game ended in a draw!"
	default:
		return "Current player: " + snapshot.CurrentPlayer.String()
	}
}

// Subscribe returns a channel receiving every subsequent update. The
// channel of a closed session is already closed.
func (s *Session) Subscribe() chan Update {
	ch := make(chan Update, updateBuffer)

	s.subscribersMu.Lock()
	defer s.subscribersMu.Unlock()

	if s.closed {
		close(ch)
		return ch
	}
	s.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe stops delivery to ch and closes it
func (s *Session) Unsubscribe(ch chan Update) {
	s.subscribersMu.Lock()
	defer s.subscribersMu.Unlock()

	if _, ok := s.subscribers[ch]; ok {
		delete(s.subscribers, ch)
		close(ch)
	}
}

// Close unsubscribes everyone and refuses later subscribers
func (s *Session) Close() {
	s.subscribersMu.Lock()
	defer s.subscribersMu.Unlock()

	s.closed = true
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

func (s *Session) broadcast(update Update) {
	s.subscribersMu.RLock()
	defer s.subscribersMu.RUnlock()

	for ch := range s.subscribers {
		select {
		case ch <- update:
		default:
			// Slow subscriber, drop
		}
	}
}
