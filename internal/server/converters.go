package server

import (
	"lessontictactoe/internal/game"
	"lessontictactoe/internal/session"
	"lessontictactoe/internal/store"
)

// Session is the wire form of a session state
type Session struct {
	SessionID     string   `json:"session_id"`
	Board         []string `json:"board"`
	CurrentPlayer string   `json:"current_player"`
	State         string   `json:"state"`
	Message       string   `json:"message"`
	TimeLeft      int32    `json:"time_left"`
	XScore        int32    `json:"x_score"`
	OScore        int32    `json:"o_score"`
	RoundNumber   int32    `json:"round_number"`
	UpdatedAt     int64    `json:"updated_at"`
}

// Finished reports whether the round shown is over
func (s *Session) Finished() bool {
	return s.State != game.InProgress.String()
}

type CreateSessionRequest struct{}

type SessionRequest struct {
	SessionID string `json:"session_id"`
}

type MoveRequest struct {
	SessionID string `json:"session_id"`
	Row       int32  `json:"row"`
	Col       int32  `json:"col"`
}

type SessionResponse struct {
	Session *Session `json:"session"`
}

type SummaryResponse struct {
	SessionID   string `json:"session_id"`
	XScore      int32  `json:"x_score"`
	OScore      int32  `json:"o_score"`
	RoundNumber int32  `json:"round_number"`
	Draws       int32  `json:"draws"`
	RoundsEnded int32  `json:"rounds_ended"`
}

type ListSessionsRequest struct{}

type ListSessionsResponse struct {
	SessionIDs []string `json:"session_ids"`
}

type DeleteSessionResponse struct{}

// updateToWire converts a session update to its wire form
func updateToWire(id string, update session.Update, updatedAt int64) *Session {
	snapshot := update.Snapshot

	board := make([]string, len(snapshot.Board))
	for i, cell := range snapshot.Board {
		board[i] = cellToChar(cell)
	}

	return &Session{
		SessionID:     id,
		Board:         board,
		CurrentPlayer: snapshot.CurrentPlayer.String(),
		State:         snapshot.State.String(),
		Message:       update.Message,
		TimeLeft:      int32(update.TimeLeft),
		XScore:        int32(snapshot.XScore),
		OScore:        int32(snapshot.OScore),
		RoundNumber:   int32(snapshot.RoundNumber),
		UpdatedAt:     updatedAt,
	}
}

// cellToChar converts a cell to the character shown on a tile
func cellToChar(c game.Cell) string {
	switch c {
	case game.CrossMark:
		return "X"
	case game.NoughtMark:
		return "O"
	default:
		return "_"
	}
}

func summaryToWire(id string, summary session.Summary, tally store.Tally) *SummaryResponse {
	return &SummaryResponse{
		SessionID:   id,
		XScore:      int32(summary.XScore),
		OScore:      int32(summary.OScore),
		RoundNumber: int32(summary.RoundNumber),
		Draws:       tally.Draws,
		RoundsEnded: tally.Rounds(),
	}
}
