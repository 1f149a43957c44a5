package alarm

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "rtcalarm.v1.AlarmControl"

// Full method names.
const (
	GetAlarmMethod     = "/" + ServiceName + "/GetAlarm"
	SetAlarmMethod     = "/" + ServiceName + "/SetAlarm"
	GetNextAlarmMethod = "/" + ServiceName + "/GetNextAlarm"
)

// AlarmControlServer is the server API of the control service.
type AlarmControlServer interface {
	GetAlarm(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	SetAlarm(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetNextAlarm(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
}

// ServiceDesc describes the control service for grpc.Server.RegisterService.
//
//nolint:gochecknoglobals // Mirrors generated service descriptors.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AlarmControlServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetAlarm", Handler: getAlarmHandler},
		{MethodName: "SetAlarm", Handler: setAlarmHandler},
		{MethodName: "GetNextAlarm", Handler: getNextAlarmHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rtcalarm/v1/alarm_control",
}

// RegisterAlarmControlServer registers srv on s.
func RegisterAlarmControlServer(s grpc.ServiceRegistrar, srv AlarmControlServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func getAlarmHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}

	call := func(ctx context.Context, req any) (any, error) {
		return srv.(AlarmControlServer).GetAlarm(ctx, req.(*emptypb.Empty)) //nolint:forcetypeassert // Guaranteed by dec.
	}

	return intercept(ctx, srv, in, GetAlarmMethod, interceptor, call)
}

func setAlarmHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}

	call := func(ctx context.Context, req any) (any, error) {
		return srv.(AlarmControlServer).SetAlarm(ctx, req.(*structpb.Struct)) //nolint:forcetypeassert // Guaranteed by dec.
	}

	return intercept(ctx, srv, in, SetAlarmMethod, interceptor, call)
}

func getNextAlarmHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}

	call := func(ctx context.Context, req any) (any, error) {
		return srv.(AlarmControlServer).GetNextAlarm(ctx, req.(*emptypb.Empty)) //nolint:forcetypeassert // Guaranteed by dec.
	}

	return intercept(ctx, srv, in, GetNextAlarmMethod, interceptor, call)
}

func intercept(
	ctx context.Context,
	srv, req any,
	method string,
	interceptor grpc.UnaryServerInterceptor,
	call grpc.UnaryHandler,
) (any, error) {
	if interceptor == nil {
		return call(ctx, req)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: method,
	}

	return interceptor(ctx, req, info, call)
}

// AlarmControlClient is the client API of the control service.
type AlarmControlClient interface {
	GetAlarm(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	SetAlarm(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetNextAlarm(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type alarmControlClient struct {
	cc grpc.ClientConnInterface
}

// NewAlarmControlClient creates a client over cc.
//
//nolint:ireturn // Mirrors generated client constructors.
func NewAlarmControlClient(cc grpc.ClientConnInterface) AlarmControlClient {
	return &alarmControlClient{cc: cc}
}

func (c *alarmControlClient) GetAlarm(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetAlarmMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *alarmControlClient) SetAlarm(
	ctx context.Context,
	in *structpb.Struct,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, SetAlarmMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *alarmControlClient) GetNextAlarm(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetNextAlarmMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}
