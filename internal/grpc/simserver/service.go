package simserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "territorial.sim.v1.SimulationService"

const (
	methodCreateSimulation = "/" + ServiceName + "/CreateSimulation"
	methodSubmitActions    = "/" + ServiceName + "/SubmitActions"
	methodStep             = "/" + ServiceName + "/Step"
	methodGetSnapshot      = "/" + ServiceName + "/GetSnapshot"
	methodGetPlayer        = "/" + ServiceName + "/GetPlayer"
	methodListSimulations  = "/" + ServiceName + "/ListSimulations"
	methodDeleteSimulation = "/" + ServiceName + "/DeleteSimulation"
)

// SimulationServiceServer is the server API of the simulation service.
// Messages are protobuf well-known types so no generated code is needed.
type SimulationServiceServer interface {
	CreateSimulation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SubmitActions(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Step(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSnapshot(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error)
	GetPlayer(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListSimulations(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	DeleteSimulation(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
}

// RegisterSimulationServiceServer registers srv on s
func RegisterSimulationServiceServer(s grpc.ServiceRegistrar, srv SimulationServiceServer) {
	s.RegisterService(&SimulationService_ServiceDesc, srv)
}

// unaryHandler builds a grpc.MethodDesc handler for one method
func unaryHandler[Req any, Resp any](fullMethod string, newReq func() Req, call func(SimulationServiceServer, context.Context, Req) (Resp, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SimulationServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(SimulationServiceServer), ctx, req.(Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func newStruct() *structpb.Struct        { return new(structpb.Struct) }
func newString() *wrapperspb.StringValue { return new(wrapperspb.StringValue) }
func newEmpty() *emptypb.Empty           { return new(emptypb.Empty) }

// SimulationService_ServiceDesc is the grpc.ServiceDesc for the simulation service
var SimulationService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SimulationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateSimulation",
			Handler:    unaryHandler(methodCreateSimulation, newStruct, SimulationServiceServer.CreateSimulation),
		},
		{
			MethodName: "SubmitActions",
			Handler:    unaryHandler(methodSubmitActions, newStruct, SimulationServiceServer.SubmitActions),
		},
		{
			MethodName: "Step",
			Handler:    unaryHandler(methodStep, newStruct, SimulationServiceServer.Step),
		},
		{
			MethodName: "GetSnapshot",
			Handler:    unaryHandler(methodGetSnapshot, newString, SimulationServiceServer.GetSnapshot),
		},
		{
			MethodName: "GetPlayer",
			Handler:    unaryHandler(methodGetPlayer, newStruct, SimulationServiceServer.GetPlayer),
		},
		{
			MethodName: "ListSimulations",
			Handler:    unaryHandler(methodListSimulations, newEmpty, SimulationServiceServer.ListSimulations),
		},
		{
			MethodName: "DeleteSimulation",
			Handler:    unaryHandler(methodDeleteSimulation, newString, SimulationServiceServer.DeleteSimulation),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "territorial/sim/v1/simulation.proto",
}

// SimulationServiceClient is the client API of the simulation service
type SimulationServiceClient interface {
	CreateSimulation(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	SubmitActions(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Step(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetSnapshot(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	GetPlayer(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListSimulations(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	DeleteSimulation(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error)
}

type simulationServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewSimulationServiceClient creates a client over cc
func NewSimulationServiceClient(cc grpc.ClientConnInterface) SimulationServiceClient {
	return &simulationServiceClient{cc}
}

func (c *simulationServiceClient) CreateSimulation(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodCreateSimulation, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *simulationServiceClient) SubmitActions(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodSubmitActions, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *simulationServiceClient) Step(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodStep, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *simulationServiceClient) GetSnapshot(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, methodGetSnapshot, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *simulationServiceClient) GetPlayer(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodGetPlayer, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *simulationServiceClient) ListSimulations(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodListSimulations, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *simulationServiceClient) DeleteSimulation(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, methodDeleteSimulation, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
