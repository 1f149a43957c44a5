package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"

	api "github.com/oshokin/rtc-alarm/internal/api/grpc/alarm"
	"github.com/oshokin/rtc-alarm/internal/config"
	"github.com/oshokin/rtc-alarm/internal/domain/alarm"
)

// Client wraps the control API client with domain conversions.
type Client struct {
	// conn is the underlying gRPC connection to the daemon.
	conn *grpc.ClientConn
	// api is the control service client.
	api api.AlarmControlClient

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
	// actor identifies the caller in the daemon's audit log.
	actor string
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithActor overrides the detected caller identity.
func WithActor(actor string) Option {
	return func(c *Client) {
		if actor != "" {
			c.actor = actor
		}
	}
}

// errAddressRequired is returned when a required address value is missing.
var errAddressRequired = errors.New("address must be provided")

// Dial creates a client of the daemon at address. The transport is insecure;
// the daemon listens on loopback by default.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial alarm daemon: %w", err)
	}

	actor, err := DetectActor()
	if err != nil {
		actor = unknownActor
	}

	client := &Client{
		conn:        conn,
		api:         api.NewAlarmControlClient(conn),
		callTimeout: config.DefaultTimeout,
		actor:       actor,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// Alarm fetches the current config.
func (c *Client) Alarm(ctx context.Context) (alarm.Config, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.GetAlarm(callCtx, new(emptypb.Empty))
	if err != nil {
		return alarm.Config{}, fmt.Errorf("get alarm: %w", err)
	}

	return api.ConfigFromStruct(resp)
}

// SetAlarm replaces the config and returns the next fire time.
func (c *Client) SetAlarm(ctx context.Context, cfg alarm.Config) (alarm.Config, alarm.Resolution, error) {
	req, err := api.ConfigToStruct(cfg)
	if err != nil {
		return alarm.Config{}, alarm.Resolution{}, err
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.SetAlarm(callCtx, req)
	if err != nil {
		return alarm.Config{}, alarm.Resolution{}, fmt.Errorf("set alarm: %w", err)
	}

	applied, err := api.ConfigFromStruct(resp)
	if err != nil {
		return alarm.Config{}, alarm.Resolution{}, err
	}

	next, err := api.ResolutionFromStruct(resp.GetFields()["next"].GetStructValue())
	if err != nil {
		return alarm.Config{}, alarm.Resolution{}, err
	}

	return applied, next, nil
}

// NextAlarm fetches the next fire time.
func (c *Client) NextAlarm(ctx context.Context) (alarm.Resolution, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.GetNextAlarm(callCtx, new(emptypb.Empty))
	if err != nil {
		return alarm.Resolution{}, fmt.Errorf("get next alarm: %w", err)
	}

	return api.ResolutionFromStruct(resp)
}

// callContext returns a context carrying the actor header and the client's
// call timeout if configured, otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.actor != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, api.ActorHeader, c.actor)
	}

	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
