package server

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "lessontictactoe.Session"

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// unaryMethod builds the descriptor of a unary RPC
func unaryMethod[Req, Resp any](name string, call func(SessionServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(SessionServiceServer), ctx, in)
			}

			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod(name),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(SessionServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

type updatesServer struct {
	grpc.ServerStream
}

func (x *updatesServer) Send(m *Session) error {
	return x.ServerStream.SendMsg(m)
}

func streamUpdatesHandler(srv any, stream grpc.ServerStream) error {
	in := new(SessionRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(SessionServiceServer).StreamUpdates(in, &updatesServer{stream})
}

// ServiceDesc describes the session service for grpc.Server.RegisterService
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SessionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("CreateSession", SessionServiceServer.CreateSession),
		unaryMethod("GetSession", SessionServiceServer.GetSession),
		unaryMethod("ListSessions", SessionServiceServer.ListSessions),
		unaryMethod("DeleteSession", SessionServiceServer.DeleteSession),
		unaryMethod("ApplyMove", SessionServiceServer.ApplyMove),
		unaryMethod("ResetRound", SessionServiceServer.ResetRound),
		unaryMethod("StartNextRound", SessionServiceServer.StartNextRound),
		unaryMethod("ResetGame", SessionServiceServer.ResetGame),
		unaryMethod("GetSummary", SessionServiceServer.GetSummary),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "StreamUpdates",
			Handler:       streamUpdatesHandler,
			ServerStreams: true,
		},
	},
	Metadata: "lessontictactoe/session",
}
