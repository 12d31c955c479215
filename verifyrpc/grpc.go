// Package verifyrpc exposes the verification orchestrator as a gRPC
// service.
package verifyrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// VerifyServer is the server API for the Verify gRPC service.
//
// We intentionally use protobuf well-known wrapper types so this package does
// not require a protoc/codegen toolchain. Requests carry the agent key;
// replies carry the verification report as JSON bytes.
//
// Proto definition: verify.proto.
type VerifyServer interface {
	Deep(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error)
	Full(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error)
}

// UnimplementedVerifyServer can be embedded to have forward compatible implementations.
type UnimplementedVerifyServer struct{}

func (UnimplementedVerifyServer) Deep(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Deep not implemented")
}
func (UnimplementedVerifyServer) Full(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Full not implemented")
}

// RegisterVerifyServer registers the Verify service on a gRPC server.
func RegisterVerifyServer(s grpc.ServiceRegistrar, srv VerifyServer) {
	s.RegisterService(&Verify_ServiceDesc, srv)
}

// VerifyClient is the client API for the Verify gRPC service.
type VerifyClient interface {
	Deep(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	Full(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
}

type verifyClient struct{ cc grpc.ClientConnInterface }

func NewVerifyClient(cc grpc.ClientConnInterface) VerifyClient { return &verifyClient{cc: cc} }

func (c *verifyClient) Deep(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	err := c.cc.Invoke(ctx, "/chainseal.verify.v1.Verify/Deep", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *verifyClient) Full(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	err := c.cc.Invoke(ctx, "/chainseal.verify.v1.Verify/Full", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func _Verify_Deep_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(VerifyServer).Deep(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/chainseal.verify.v1.Verify/Deep"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(VerifyServer).Deep(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _Verify_Full_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(VerifyServer).Full(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/chainseal.verify.v1.Verify/Full"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(VerifyServer).Full(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// Verify_ServiceDesc is the grpc.ServiceDesc for Verify service.
var Verify_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "chainseal.verify.v1.Verify",
	HandlerType: (*VerifyServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Deep", Handler: _Verify_Deep_Handler},
		{MethodName: "Full", Handler: _Verify_Full_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "verify.proto",
}
