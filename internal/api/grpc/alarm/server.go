package alarm

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/rtc-alarm/internal/domain/alarm"
	"github.com/oshokin/rtc-alarm/internal/logger"
)

// Service abstracts the business operations the transport layer depends on.
type Service interface {
	Alarm(ctx context.Context) (domain.Config, error)
	SetAlarm(ctx context.Context, cfg domain.Config) (domain.Resolution, error)
	NextAlarm(ctx context.Context) (domain.Resolution, error)
}

// Server implements AlarmControlServer.
type Server struct {
	// service provides the alarm operations.
	service Service
}

var _ AlarmControlServer = (*Server)(nil)

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// GetAlarm returns the current alarm config.
func (s *Server) GetAlarm(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	cfg, err := s.service.Alarm(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	msg, err := ConfigToStruct(cfg)
	if err != nil {
		return nil, status.Error(codes.Internal, "unable to encode alarm")
	}

	return msg, nil
}

// SetAlarm replaces the alarm config and returns it with the next fire time.
func (s *Server) SetAlarm(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	cfg, err := ConfigFromStruct(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	next, err := s.service.SetAlarm(ctx, cfg)
	if err != nil {
		return nil, toStatus(err)
	}

	msg, err := AlarmToStruct(cfg, next)
	if err != nil {
		return nil, status.Error(codes.Internal, "unable to encode alarm")
	}

	return msg, nil
}

// GetNextAlarm returns the next fire time.
func (s *Server) GetNextAlarm(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	next, err := s.service.NextAlarm(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	msg, err := ResolutionToStruct(next)
	if err != nil {
		return nil, status.Error(codes.Internal, "unable to encode next alarm")
	}

	return msg, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidHour), errors.Is(err, domain.ErrInvalidMinute):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.Unavailable, "alarm service is shutting down")
	default:
		return status.Error(codes.Internal, "alarm service failure")
	}
}

// ActorHeader is the metadata key carrying "username@hostname" of the caller.
const ActorHeader = "x-rtc-actor"

// LoggingInterceptor logs every call with its caller, duration and status code.
// Calls that change the alarm are logged at info level.
func LoggingInterceptor(base context.Context) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		started := time.Now()
		resp, err := handler(ctx, req)

		log := logger.DebugKV
		if info.FullMethod == SetAlarmMethod {
			log = logger.InfoKV
		}

		log(base, "Control call",
			"method", info.FullMethod,
			"actor", Actor(ctx),
			"code", status.Code(err).String(),
			"duration", time.Since(started).String(),
		)

		return resp, err
	}
}

// Actor returns the caller identity sent in ActorHeader, or "" when absent.
func Actor(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}

	if values := md.Get(ActorHeader); len(values) > 0 {
		return values[0]
	}

	return ""
}
