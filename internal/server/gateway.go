package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type restCall func(ctx context.Context, r *http.Request, params map[string]string) (any, error)

// moveBody is the REST body of a move; both coordinates must be present
type moveBody struct {
	Row *int32 `json:"row"`
	Col *int32 `json:"col"`
}

// NewGateway returns the HTTP handler for the REST API and health check.
// REST calls go straight to srv.
func NewGateway(srv SessionServiceServer) (http.Handler, error) {
	gwMux := runtime.NewServeMux()

	byID := func(call func(context.Context, *SessionRequest) (*SessionResponse, error)) restCall {
		return func(ctx context.Context, r *http.Request, params map[string]string) (any, error) {
			return call(ctx, &SessionRequest{SessionID: params["session_id"]})
		}
	}

	routes := []struct {
		method  string
		pattern string
		call    restCall
	}{
		{"POST", "/api/v1/sessions", func(ctx context.Context, r *http.Request, _ map[string]string) (any, error) {
			return srv.CreateSession(ctx, &CreateSessionRequest{})
		}},
		{"GET", "/api/v1/sessions", func(ctx context.Context, r *http.Request, _ map[string]string) (any, error) {
			return srv.ListSessions(ctx, &ListSessionsRequest{})
		}},
		{"GET", "/api/v1/sessions/{session_id}", byID(srv.GetSession)},
		{"DELETE", "/api/v1/sessions/{session_id}", func(ctx context.Context, r *http.Request, params map[string]string) (any, error) {
			return srv.DeleteSession(ctx, &SessionRequest{SessionID: params["session_id"]})
		}},
		{"POST", "/api/v1/sessions/{session_id}/moves", func(ctx context.Context, r *http.Request, params map[string]string) (any, error) {
			var body moveBody
			if err := marshaler.NewDecoder(r.Body).Decode(&body); err != nil {
				return nil, status.Errorf(codes.InvalidArgument, "invalid move body: %v", err)
			}
			if body.Row == nil || body.Col == nil {
				return nil, status.Error(codes.InvalidArgument, "row and col are required")
			}
			return srv.ApplyMove(ctx, &MoveRequest{
				SessionID: params["session_id"],
				Row:       *body.Row,
				Col:       *body.Col,
			})
		}},
		{"POST", "/api/v1/sessions/{session_id}/reset-round", byID(srv.ResetRound)},
		{"POST", "/api/v1/sessions/{session_id}/next-round", byID(srv.StartNextRound)},
		{"POST", "/api/v1/sessions/{session_id}/reset-game", byID(srv.ResetGame)},
		{"GET", "/api/v1/sessions/{session_id}/summary", func(ctx context.Context, r *http.Request, params map[string]string) (any, error) {
			return srv.GetSummary(ctx, &SessionRequest{SessionID: params["session_id"]})
		}},
	}

	for _, route := range routes {
		if err := gwMux.HandlePath(route.method, route.pattern, restHandler(gwMux, route.call)); err != nil {
			return nil, fmt.Errorf("register %s %s: %w", route.method, route.pattern, err)
		}
	}

	httpMux := http.NewServeMux()
	httpMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Route API requests to the gateway, others to httpMux
	mainHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			gwMux.ServeHTTP(w, r)
		} else {
			httpMux.ServeHTTP(w, r)
		}
	})

	return cors(mainHandler), nil
}

func restHandler(mux *runtime.ServeMux, call restCall) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		resp, err := call(r.Context(), r, params)
		if err != nil {
			runtime.HTTPError(r.Context(), mux, marshaler, w, r, err)
			return
		}

		buf, err := marshaler.Marshal(resp)
		if err != nil {
			runtime.HTTPError(r.Context(), mux, marshaler, w, r, status.Error(codes.Internal, err.Error()))
			return
		}

		w.Header().Set("Content-Type", marshaler.ContentType(resp))
		w.Write(buf)
	}
}

// cors lets a browser-hosted front-end call the API
func cors(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}
