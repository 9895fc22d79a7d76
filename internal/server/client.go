package server

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client calls the session service over gRPC
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient wraps an existing connection
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Dial connects to a session service at addr without transport security
func Dial(addr string) (*Client, *grpc.ClientConn, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return NewClient(conn), conn, nil
}

func (c *Client) invoke(ctx context.Context, method string, in, out any) error {
	return c.conn.Invoke(ctx, fullMethod(method), in, out, grpc.CallContentSubtype(codecName))
}

func (c *Client) CreateSession(ctx context.Context) (*Session, error) {
	out := new(SessionResponse)
	if err := c.invoke(ctx, "CreateSession", &CreateSessionRequest{}, out); err != nil {
		return nil, err
	}
	return out.Session, nil
}

func (c *Client) GetSession(ctx context.Context, id string) (*Session, error) {
	return c.sessionCall(ctx, "GetSession", id)
}

func (c *Client) ListSessions(ctx context.Context) ([]string, error) {
	out := new(ListSessionsResponse)
	if err := c.invoke(ctx, "ListSessions", &ListSessionsRequest{}, out); err != nil {
		return nil, err
	}
	return out.SessionIDs, nil
}

func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return c.invoke(ctx, "DeleteSession", &SessionRequest{SessionID: id}, new(DeleteSessionResponse))
}

func (c *Client) ApplyMove(ctx context.Context, id string, row, col int) (*Session, error) {
	out := new(SessionResponse)
	in := &MoveRequest{SessionID: id, Row: int32(row), Col: int32(col)}
	if err := c.invoke(ctx, "ApplyMove", in, out); err != nil {
		return nil, err
	}
	return out.Session, nil
}

func (c *Client) ResetRound(ctx context.Context, id string) (*Session, error) {
	return c.sessionCall(ctx, "ResetRound", id)
}

func (c *Client) StartNextRound(ctx context.Context, id string) (*Session, error) {
	return c.sessionCall(ctx, "StartNextRound", id)
}

func (c *Client) ResetGame(ctx context.Context, id string) (*Session, error) {
	return c.sessionCall(ctx, "ResetGame", id)
}

func (c *Client) GetSummary(ctx context.Context, id string) (*SummaryResponse, error) {
	out := new(SummaryResponse)
	if err := c.invoke(ctx, "GetSummary", &SessionRequest{SessionID: id}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) sessionCall(ctx context.Context, method, id string) (*Session, error) {
	out := new(SessionResponse)
	if err := c.invoke(ctx, method, &SessionRequest{SessionID: id}, out); err != nil {
		return nil, err
	}
	return out.Session, nil
}

// UpdatesClient receives streamed session states
type UpdatesClient struct {
	stream grpc.ClientStream
}

func (x *UpdatesClient) Recv() (*Session, error) {
	m := new(Session)
	if err := x.stream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// StreamUpdates subscribes to state changes of a session. The first message
// is the current state.
func (c *Client) StreamUpdates(ctx context.Context, id string) (*UpdatesClient, error) {
	stream, err := c.conn.NewStream(ctx, &ServiceDesc.Streams[0], fullMethod("StreamUpdates"),
		grpc.CallContentSubtype(codecName))
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(&SessionRequest{SessionID: id}); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return &UpdatesClient{stream: stream}, nil
}
