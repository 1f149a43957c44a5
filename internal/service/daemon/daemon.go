package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	api "github.com/oshokin/rtc-alarm/internal/api/grpc/alarm"
	httpapi "github.com/oshokin/rtc-alarm/internal/api/http"
	"github.com/oshokin/rtc-alarm/internal/clock"
	"github.com/oshokin/rtc-alarm/internal/config"
	"github.com/oshokin/rtc-alarm/internal/domain/alarm"
	"github.com/oshokin/rtc-alarm/internal/hardware/rtc"
	"github.com/oshokin/rtc-alarm/internal/logger"
	"github.com/oshokin/rtc-alarm/internal/power"
	repo "github.com/oshokin/rtc-alarm/internal/repository/state"
	"github.com/oshokin/rtc-alarm/internal/scheduler"
	"github.com/oshokin/rtc-alarm/internal/service/controller"
)

// Options controls the rtc-alarmd process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// StateFile overrides the alarm record path from config.
	StateFile string
	// LogLevel overrides the log level from config.
	LogLevel string
}

// chipPollInterval is how often the simulated RTC compares its registers.
const chipPollInterval = time.Second

// shutdownTimeout bounds the HTTP server shutdown.
const shutdownTimeout = 5 * time.Second

// Daemon is a fully wired rtc-alarmd instance.
type Daemon struct {
	settings *config.Config

	chip       *rtc.Simulated
	dispatcher *power.Dispatcher
	controller *controller.Controller
	closeStore func() error

	grpcServer   *grpc.Server
	grpcListener net.Listener
	httpServer   *http.Server
	httpListener net.Listener
}

// Run loads settings, builds the daemon and serves until ctx is canceled.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "rtc-alarmd")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if opts.StateFile != "" {
		settings.StateFile = opts.StateFile
	}

	if opts.LogLevel != "" {
		settings.LogLevel = opts.LogLevel
	}

	if err = config.Validate(settings); err != nil {
		return err
	}

	level, _ := logger.ParseLogLevel(settings.LogLevel)
	logger.SetLevel(level)

	if settings.LogFile != "" {
		logger.SetLogger(logger.Build(logger.Options{Level: logger.AtomicLevel(), File: settings.LogFile}))
	}

	d, err := New(ctx, settings)
	if err != nil {
		return err
	}

	return d.Serve(ctx)
}

// New opens the storage, binds the listeners and wires the components.
func New(ctx context.Context, settings *config.Config) (*Daemon, error) {
	store, closeStore, err := openStore(settings)
	if err != nil {
		return nil, err
	}

	system := clock.NewSystem()
	chip := rtc.NewSimulated(system, settings.RTCDrift)
	dispatcher := power.NewDispatcher(settings.PollInterval)

	ctl := controller.New(controller.Deps{
		RTC:        chip,
		Resolver:   scheduler.NewResolver(chip, system),
		Repository: store,
		Power:      dispatcher,
	})

	d := &Daemon{
		settings:   settings,
		chip:       chip,
		dispatcher: dispatcher,
		controller: ctl,
		closeStore: closeStore,
	}

	if err = d.listen(ctx); err != nil {
		_ = closeStore()

		return nil, err
	}

	return d, nil
}

// ControlAddress returns the bound gRPC address.
func (d *Daemon) ControlAddress() string {
	return d.grpcListener.Addr().String()
}

// HTTPAddress returns the bound HTTP address, or "" when the HTTP API is off.
func (d *Daemon) HTTPAddress() string {
	if d.httpListener == nil {
		return ""
	}

	return d.httpListener.Addr().String()
}

// Serve runs the power loop, the RTC and the transports until ctx is canceled.
func (d *Daemon) Serve(ctx context.Context) error {
	defer func() {
		if err := d.closeStore(); err != nil {
			logger.ErrorKV(ctx, "Failed to close alarm storage", "error", err)
		}
	}()

	ctx = logger.WithName(ctx, "rtc-alarmd")
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return d.dispatcher.Run(ctx)
	})

	if err := d.dispatcher.Do(ctx, d.setup); err != nil {
		return errors.Join(fmt.Errorf("set up controller: %w", err), group.Wait())
	}

	group.Go(func() error {
		d.chip.Run(ctx, chipPollInterval)

		return nil
	})

	group.Go(func() error {
		return d.serveGRPC(ctx)
	})

	if d.httpServer != nil {
		group.Go(func() error {
			return d.serveHTTP(ctx)
		})
	}

	logger.InfoKV(ctx, "Alarm daemon started",
		"control_addr", d.ControlAddress(),
		"http_addr", d.HTTPAddress(),
		"storage", d.settings.Storage,
		"state_file", d.settings.StateFile,
	)

	return group.Wait()
}

// setup runs on the power loop goroutine.
func (d *Daemon) setup(ctx context.Context) {
	ctx = logger.WithName(ctx, "rtcctl")

	_, _ = d.controller.Subscribe(alarm.AllEvents, "log", func(ctx context.Context, event alarm.Event) bool {
		logger.DebugKV(ctx, "Alarm event", "event", event.String())

		return true
	})

	_, _ = d.controller.Subscribe(alarm.EventOccurred, "rearm", func(ctx context.Context, _ alarm.Event) bool {
		d.controller.Rearm(ctx)

		return true
	})

	d.controller.Setup(ctx, d.chip)
}

func (d *Daemon) listen(ctx context.Context) error {
	var lc net.ListenConfig

	grpcListener, err := lc.Listen(ctx, "tcp", d.settings.ControlAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", d.settings.ControlAddress, err)
	}

	svc := &service{
		ctl:   d.controller,
		power: d.dispatcher,
		chip:  d.chip,
	}

	d.grpcListener = grpcListener
	d.grpcServer = grpc.NewServer(grpc.UnaryInterceptor(api.LoggingInterceptor(ctx)))
	api.RegisterAlarmControlServer(d.grpcServer, api.NewServer(svc))

	if d.settings.HTTPAddress == "" {
		return nil
	}

	httpListener, err := lc.Listen(ctx, "tcp", d.settings.HTTPAddress)
	if err != nil {
		_ = grpcListener.Close()

		return fmt.Errorf("listen on %s: %w", d.settings.HTTPAddress, err)
	}

	d.httpListener = httpListener
	d.httpServer = &http.Server{
		Handler:           httpapi.NewServer(svc).Router(),
		ReadHeaderTimeout: d.settings.Timeout,
	}

	return nil
}

func (d *Daemon) serveGRPC(ctx context.Context) error {
	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down gRPC server")
		d.grpcServer.GracefulStop()
		close(done)
	}()

	if err := d.grpcServer.Serve(d.grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.Info(ctx, "GRPC server stopped")

	return nil
}

func (d *Daemon) serveHTTP(ctx context.Context) error {
	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := d.httpServer.Shutdown(shutdownCtx); err != nil {
			logger.ErrorKV(ctx, "Failed to shut down HTTP server", "error", err)
		}
	}()

	if err := d.httpServer.Serve(d.httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	return nil
}

func openStore(settings *config.Config) (repo.Repository, func() error, error) {
	switch settings.Storage {
	case config.StorageSQLite:
		store, err := repo.OpenSQLite(settings.StateFile)
		if err != nil {
			return nil, nil, err
		}

		return store, store.Close, nil
	default:
		return repo.NewFileRepository(settings.StateFile), func() error { return nil }, nil
	}
}
