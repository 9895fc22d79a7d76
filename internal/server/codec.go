package server

import (
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc/encoding"
)

// codecName is the gRPC content subtype of the session service
const codecName = "json"

// marshaler is shared by the gRPC codec and the REST gateway
var marshaler runtime.Marshaler = &runtime.JSONBuiltin{}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return marshaler.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return marshaler.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return codecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
