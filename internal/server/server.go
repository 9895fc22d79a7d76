package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"lessontictactoe/internal/game"
	"lessontictactoe/internal/session"
	"lessontictactoe/internal/store"
)

// SessionServiceServer is the gRPC surface a touch front-end drives
type SessionServiceServer interface {
	CreateSession(context.Context, *CreateSessionRequest) (*SessionResponse, error)
	GetSession(context.Context, *SessionRequest) (*SessionResponse, error)
	ListSessions(context.Context, *ListSessionsRequest) (*ListSessionsResponse, error)
	DeleteSession(context.Context, *SessionRequest) (*DeleteSessionResponse, error)
	ApplyMove(context.Context, *MoveRequest) (*SessionResponse, error)
	ResetRound(context.Context, *SessionRequest) (*SessionResponse, error)
	StartNextRound(context.Context, *SessionRequest) (*SessionResponse, error)
	ResetGame(context.Context, *SessionRequest) (*SessionResponse, error)
	GetSummary(context.Context, *SessionRequest) (*SummaryResponse, error)
	StreamUpdates(*SessionRequest, UpdatesServer) error
}

// UpdatesServer is the server side of StreamUpdates
type UpdatesServer interface {
	Send(*Session) error
	grpc.ServerStream
}

// Options configures a SessionServer
type Options struct {
	TurnSeconds int
	// TickInterval drives session countdowns; zero disables them.
	TickInterval time.Duration
	Logger       logrus.FieldLogger
}

// SessionServer implements SessionServiceServer
type SessionServer struct {
	sessions *store.SessionStore
	tallies  *store.TallyStore

	turnSeconds  int
	tickInterval time.Duration
	log          logrus.FieldLogger

	timersMu sync.Mutex
	timers   map[string]context.CancelFunc
}

// NewSessionServer creates a new server instance
func NewSessionServer(sessions *store.SessionStore, tallies *store.TallyStore, opts Options) *SessionServer {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &SessionServer{
		sessions:     sessions,
		tallies:      tallies,
		turnSeconds:  opts.TurnSeconds,
		tickInterval: opts.TickInterval,
		log:          log.WithField("component", "server"),
		timers:       make(map[string]context.CancelFunc),
	}
}

// Register adds the service to a gRPC server
func (s *SessionServer) Register(gs *grpc.Server) {
	gs.RegisterService(&ServiceDesc, s)
}

// Shutdown stops every session countdown and ends open update streams
func (s *SessionServer) Shutdown() {
	s.timersMu.Lock()
	for id, cancel := range s.timers {
		cancel()
		delete(s.timers, id)
	}
	s.timersMu.Unlock()

	for _, id := range s.sessions.List() {
		if sess, err := s.sessions.Get(id); err == nil {
			sess.Close()
		}
	}
}

// CreateSession starts a new session at round 1
func (s *SessionServer) CreateSession(ctx context.Context, req *CreateSessionRequest) (*SessionResponse, error) {
	id := uuid.New().String()
	sess := session.New(id, session.Options{
		TurnSeconds: s.turnSeconds,
		OnRoundEnd:  s.tallies.Record,
		Logger:      s.log,
	})

	if err := s.sessions.Create(sess); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to store session: %v", err)
	}

	if s.tickInterval > 0 {
		timerCtx, cancel := context.WithCancel(context.Background())
		s.timersMu.Lock()
		s.timers[id] = cancel
		s.timersMu.Unlock()
		go sess.RunTimer(timerCtx, s.tickInterval)
	}

	s.log.WithField("session", id).Info("session created")
	return s.respond(sess, sess.Snapshot()), nil
}

// GetSession returns the current state of a session
func (s *SessionServer) GetSession(ctx context.Context, req *SessionRequest) (*SessionResponse, error) {
	sess, err := s.lookup(req.SessionID)
	if err != nil {
		return nil, err
	}
	return s.respond(sess, sess.Snapshot()), nil
}

// ListSessions returns the ids of live sessions
func (s *SessionServer) ListSessions(ctx context.Context, req *ListSessionsRequest) (*ListSessionsResponse, error) {
	return &ListSessionsResponse{SessionIDs: s.sessions.List()}, nil
}

// DeleteSession ends a session and its countdown
func (s *SessionServer) DeleteSession(ctx context.Context, req *SessionRequest) (*DeleteSessionResponse, error) {
	if req.SessionID == "" {
		return nil, status.Error(codes.InvalidArgument, "session_id is required")
	}

	if err := s.sessions.Delete(req.SessionID); err != nil {
		return nil, toStatus(err)
	}

	s.timersMu.Lock()
	if cancel, ok := s.timers[req.SessionID]; ok {
		cancel()
		delete(s.timers, req.SessionID)
	}
	s.timersMu.Unlock()

	s.tallies.Forget(req.SessionID)
	s.log.WithField("session", req.SessionID).Info("session deleted")
	return &DeleteSessionResponse{}, nil
}

// ApplyMove places the current player's mark on a tile
func (s *SessionServer) ApplyMove(ctx context.Context, req *MoveRequest) (*SessionResponse, error) {
	sess, err := s.lookup(req.SessionID)
	if err != nil {
		return nil, err
	}

	update, err := sess.ApplyMove(int(req.Row), int(req.Col))
	if err != nil {
		return nil, toStatus(err)
	}
	return s.respond(sess, update), nil
}

// ResetRound clears the board of the current round
func (s *SessionServer) ResetRound(ctx context.Context, req *SessionRequest) (*SessionResponse, error) {
	sess, err := s.lookup(req.SessionID)
	if err != nil {
		return nil, err
	}
	return s.respond(sess, sess.ResetRound()), nil
}

// StartNextRound moves the session to the next round
func (s *SessionServer) StartNextRound(ctx context.Context, req *SessionRequest) (*SessionResponse, error) {
	sess, err := s.lookup(req.SessionID)
	if err != nil {
		return nil, err
	}
	return s.respond(sess, sess.StartNextRound()), nil
}

// ResetGame zeroes scores and returns to round 1
func (s *SessionServer) ResetGame(ctx context.Context, req *SessionRequest) (*SessionResponse, error) {
	sess, err := s.lookup(req.SessionID)
	if err != nil {
		return nil, err
	}
	return s.respond(sess, sess.ResetGame()), nil
}

// GetSummary returns the scoreboard of a session
func (s *SessionServer) GetSummary(ctx context.Context, req *SessionRequest) (*SummaryResponse, error) {
	sess, err := s.lookup(req.SessionID)
	if err != nil {
		return nil, err
	}
	return summaryToWire(sess.ID(), sess.Summary(), s.tallies.Get(sess.ID())), nil
}

// StreamUpdates streams session state changes until the client leaves or
// the session is deleted
func (s *SessionServer) StreamUpdates(req *SessionRequest, stream UpdatesServer) error {
	sess, err := s.lookup(req.SessionID)
	if err != nil {
		return err
	}

	updateCh := sess.Subscribe()
	defer sess.Unsubscribe(updateCh)

	// Send initial state
	if err := stream.Send(s.respond(sess, sess.Snapshot()).Session); err != nil {
		return err
	}

	for {
		select {
		case update, ok := <-updateCh:
			if !ok {
				return nil
			}
			if err := stream.Send(s.respond(sess, update).Session); err != nil {
				return err
			}
		case <-stream.Context().Done():
			return stream.Context().Err()
		}
	}
}

func (s *SessionServer) lookup(id string) (*session.Session, error) {
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "session_id is required")
	}

	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, toStatus(err)
	}
	return sess, nil
}

func (s *SessionServer) respond(sess *session.Session, update session.Update) *SessionResponse {
	return &SessionResponse{
		Session: updateToWire(sess.ID(), update, sess.UpdatedAt().Unix()),
	}
}

// toStatus maps domain errors to gRPC status codes
func toStatus(err error) error {
	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		return status.Error(codes.NotFound, "session not found")
	case errors.Is(err, game.ErrInvalidCoordinate):
		return status.Error(codes.InvalidArgument, "invalid coordinate")
	case errors.Is(err, game.ErrCellOccupied):
		return status.Error(codes.FailedPrecondition, "cell is already occupied")
	case errors.Is(err, game.ErrRoundOver):
		return status.Error(codes.FailedPrecondition, "round is already over")
	default:
		return status.Errorf(codes.Internal, "%v", err)
	}
}
