// Package bridge carries the autofill protocol over loopback gRPC.
//
// The service is described by hand with well-known protobuf messages, so
// there is no generated code:
//
//	RequestVault(google.protobuf.Empty) returns (google.protobuf.Struct)
//	PromptSaveCredentials(google.protobuf.Struct) returns (google.protobuf.Empty)
//
// Every call carries a short-lived JWT in the bridge_token metadata key.
package bridge

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "gophvault.bridge.VaultBridge"

const (
	MethodRequestVault          = "/" + ServiceName + "/RequestVault"
	MethodPromptSaveCredentials = "/" + ServiceName + "/PromptSaveCredentials"
)

// VaultBridgeServer is implemented by the gRPC handler.
type VaultBridgeServer interface {
	RequestVault(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
	PromptSaveCredentials(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*VaultBridgeServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RequestVault", Handler: requestVaultHandler},
		{MethodName: "PromptSaveCredentials", Handler: promptSaveHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophvault/bridge.proto",
}

// RegisterVaultBridgeServer registers srv on s.
func RegisterVaultBridgeServer(s grpc.ServiceRegistrar, srv VaultBridgeServer) {
	s.RegisterService(&serviceDesc, srv)
}

func requestVaultHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(VaultBridgeServer).RequestVault(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodRequestVault}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(VaultBridgeServer).RequestVault(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func promptSaveHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(VaultBridgeServer).PromptSaveCredentials(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodPromptSaveCredentials}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(VaultBridgeServer).PromptSaveCredentials(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}
