package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "spongekit.v1.ScenarioService"

const (
	buildTableMethod  = "/" + ServiceName + "/BuildTable"
	selectRoofsMethod = "/" + ServiceName + "/SelectRoofs"
)

// ScenarioServiceServer is the server API. Requests and responses are
// JSON-shaped protobuf Structs.
type ScenarioServiceServer interface {
	BuildTable(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SelectRoofs(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ScenarioServiceDesc describes the service for grpc.Server.RegisterService.
var ScenarioServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ScenarioServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "BuildTable", Handler: buildTableHandler},
		{MethodName: "SelectRoofs", Handler: selectRoofsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "spongekit/v1/scenario.proto",
}

// RegisterScenarioService registers srv on s.
func RegisterScenarioService(s grpc.ServiceRegistrar, srv ScenarioServiceServer) {
	s.RegisterService(&ScenarioServiceDesc, srv)
}

func buildTableHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScenarioServiceServer).BuildTable(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: buildTableMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ScenarioServiceServer).BuildTable(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func selectRoofsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScenarioServiceServer).SelectRoofs(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: selectRoofsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ScenarioServiceServer).SelectRoofs(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Client calls a remote ScenarioService.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an existing connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// BuildTable calls ScenarioService.BuildTable.
func (c *Client) BuildTable(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, buildTableMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// SelectRoofs calls ScenarioService.SelectRoofs.
func (c *Client) SelectRoofs(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, selectRoofsMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
