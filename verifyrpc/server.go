package verifyrpc

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/chainseal/chainseal-go/verify"
)

// Server exposes a verify.Verifier over the Verify gRPC service.
//
// Verification outcomes, including "could not check", travel inside the
// report; only malformed requests and serialization faults surface as gRPC
// status errors.
type Server struct {
	UnimplementedVerifyServer
	Verifier *verify.Verifier

	// DeepOptions and FullOptions apply to every request.
	DeepOptions verify.DeepOptions
	FullOptions verify.FullOptions
}

func (s *Server) Deep(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	if s == nil || s.Verifier == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing verifier")
	}
	agent := in.GetValue()
	if agent == "" {
		return nil, status.Error(codes.InvalidArgument, "agent is required")
	}
	return marshalReport(s.Verifier.Deep(ctx, agent, s.DeepOptions))
}

func (s *Server) Full(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	if s == nil || s.Verifier == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing verifier")
	}
	agent := in.GetValue()
	if agent == "" {
		return nil, status.Error(codes.InvalidArgument, "agent is required")
	}
	return marshalReport(s.Verifier.Full(ctx, agent, s.FullOptions))
}

func marshalReport(r *verify.Report) (*wrapperspb.BytesValue, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, status.Error(codes.Internal, "report serialization failed")
	}
	return wrapperspb.Bytes(b), nil
}
