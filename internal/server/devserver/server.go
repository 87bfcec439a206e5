package devserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yndnr/devloop/internal/core/domain"
	"github.com/yndnr/devloop/internal/infra/fswatch"
	"github.com/yndnr/devloop/internal/infra/liveness"
	"github.com/yndnr/devloop/internal/infra/portalloc"
	"github.com/yndnr/devloop/internal/infra/project"
	"github.com/yndnr/devloop/internal/infra/shutdown"
	"github.com/yndnr/devloop/internal/server/config"
	"github.com/yndnr/devloop/internal/server/control"
	"github.com/yndnr/devloop/internal/server/globals"
	"github.com/yndnr/devloop/internal/server/httpserver"
	"github.com/yndnr/devloop/internal/storage"
	"github.com/yndnr/devloop/internal/telemetry/metric"
)

// hookTimeout bounds the whole teardown.
const hookTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	Project *project.Project
	Config  *config.ProjectConfig
	Logger  *slog.Logger

	// Oracle decides whether a recorded PID is alive. Defaults to the
	// process table.
	Oracle liveness.Oracle

	// Metrics defaults to a fresh registry.
	Metrics *metric.Registry

	// BuildVersion is reported on /health.
	BuildVersion string

	// PID is published in the state record. Defaults to os.Getpid().
	PID int
}

// Server is one devloop-server instance.
type Server struct {
	opts    Options
	logger  *slog.Logger
	engine  *storage.Engine
	globals *globals.Globals
	loop    *control.Loop
	http    *httpserver.Server
	ln      net.Listener
	watcher *fswatch.Watcher
	down    *shutdown.Handler

	serveErr chan error
	loopDone chan struct{}
	cancel   context.CancelFunc
	stopOnce sync.Once
}

// New validates options and builds the components. Nothing is bound or
// written until Start.
func New(opts Options) (*Server, error) {
	if opts.Project == nil {
		return nil, domain.ErrInvalidArgument.WithDetails("project is required")
	}
	if opts.Config == nil {
		return nil, domain.ErrInvalidArgument.WithDetails("config is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Oracle == nil {
		opts.Oracle = liveness.NewProcessOracle()
	}
	if opts.Metrics == nil {
		opts.Metrics = metric.NewRegistry()
	}
	if opts.PID == 0 {
		opts.PID = os.Getpid()
	}

	s := &Server{
		opts:     opts,
		logger:   opts.Logger,
		globals:  globals.New(),
		down:     shutdown.NewHandler(hookTimeout),
		serveErr: make(chan error, 1),
		loopDone: make(chan struct{}),
	}

	s.engine = storage.New(storage.Config{
		StatePath:   opts.Project.StatePath(),
		QueuePath:   opts.Project.RequestsPath(),
		OnMalformed: func(error) { opts.Metrics.RecordMalformed() },
		Logger:      opts.Logger,
	})

	s.loop = control.New(control.Config{
		Queue:    s.engine.Queue,
		Globals:  s.globals,
		Interval: opts.Config.Server.PollInterval,
		Logger:   opts.Logger.With("component", "control"),
		Recorder: opts.Metrics,
		OnStop:   s.down.Trigger,
	})

	opts.Metrics.MustRegister(metric.NewCollector(s.globals))
	return s, nil
}

// Start runs the start-up sequence: refuse to run next to a live server,
// bind a port, start serving, drop leftover requests and publish the
// state record. On return the server is reachable and discoverable.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.opts.Config

	if err := s.opts.Project.EnsureServerDir(); err != nil {
		return err
	}

	existing, reclaimed, err := liveness.Reclaim(ctx, s.engine.State, s.opts.Oracle)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.ErrAlreadyRunning.WithDetails(
			fmt.Sprintf("http://0.0.0.0:%d with PID %d", existing.Port, existing.PID))
	}
	if reclaimed {
		s.logger.Info("removed stale server state")
	}

	ln, err := portalloc.New(cfg.Server.Host, cfg.Server.PortAttempts).Listen(cfg.Server.Port)
	if err != nil {
		return err
	}
	s.ln = ln
	port := s.Port()
	if port != cfg.Server.Port {
		s.logger.Warn("preferred port busy, using next free port",
			"preferred", cfg.Server.Port,
			"port", port,
		)
	}

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		State:              s.globals,
		LiveReload:         cfg.Server.LiveReload(),
		SiteRoot:           cfg.Site.Root,
		BuildVersion:       s.opts.BuildVersion,
		Metrics:            s.opts.Metrics,
		Logger:             s.logger.With("component", "http"),
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		GlobalRateLimit:    cfg.Server.RateLimit,
	})
	s.http = httpserver.New(router, s.logger.With("component", "http"))
	go func() {
		s.serveErr <- s.http.Serve(ln)
	}()

	if err := s.engine.Queue.Clear(ctx); err != nil {
		s.abort()
		return fmt.Errorf("remove leftover requests: %w", err)
	}

	state := &domain.ServerState{Port: port, PID: s.opts.PID}
	if err := s.engine.State.Write(state); err != nil {
		s.abort()
		return fmt.Errorf("publish server state: %w", err)
	}
	s.logger.Info("server state published",
		"port", state.Port,
		"pid", state.PID,
		"env", cfg.Server.Env,
	)

	s.startWatcher()
	s.registerHooks()
	return nil
}

// Wait runs the control loop until a stop request, SIGINT/SIGTERM or ctx
// cancellation, then tears down: HTTP first, then the request queue, then
// the state record.
func (s *Server) Wait(ctx context.Context) error {
	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	go func() {
		defer close(s.loopDone)
		reason, err := s.loop.Run(loopCtx)
		if err != nil {
			s.logger.Error("control loop failed", "error", err)
		}
		s.logger.Debug("control loop returned", "reason", reason.String())
		// Make sure Wait wakes up whatever ended the loop.
		s.down.Trigger()
	}()

	failed := make(chan error, 1)
	go func() {
		select {
		case err := <-s.serveErr:
			if err != nil {
				s.logger.Error("http server failed", "error", err)
				failed <- err
				s.down.Trigger()
			}
		case <-s.down.Done():
		}
	}()

	err := s.down.Wait(ctx)
	s.loop.Terminate()
	s.logger.Info("server stopped", "reason", s.down.Reason())

	select {
	case serveErr := <-failed:
		err = errors.Join(serveErr, err)
	default:
	}
	return err
}

// Run is Start followed by Wait.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	return s.Wait(ctx)
}

// Stop asks a running server to shut down, as a Stop request would.
func (s *Server) Stop() {
	s.down.Trigger()
}

// Port returns the bound port, or 0 before Start.
func (s *Server) Port() int {
	if s.ln == nil {
		return 0
	}
	return s.ln.Addr().(*net.TCPAddr).Port
}

// Globals exposes the live-reload values.
func (s *Server) Globals() *globals.Globals {
	return s.globals
}

// Loop exposes the control loop.
func (s *Server) Loop() *control.Loop {
	return s.loop
}

func (s *Server) startWatcher() {
	w, err := fswatch.New(
		fswatch.WithLogger(s.logger.With("component", "fswatch")),
		fswatch.WithOps(fsnotify.Create|fsnotify.Write),
	)
	if err != nil {
		s.logger.Warn("queue watcher unavailable, relying on polling", "error", err)
		return
	}
	if err := w.Watch(s.opts.Project.RequestsPath()); err != nil {
		_ = w.Stop()
		s.logger.Warn("queue watcher unavailable, relying on polling", "error", err)
		return
	}
	w.OnChange(func(string) { s.loop.Wake() })
	w.StartAsync()
	s.watcher = w
}

// registerHooks registers teardown in reverse execution order.
func (s *Server) registerHooks() {
	s.down.OnShutdown(func(ctx context.Context) error {
		if err := s.engine.Teardown(ctx); err != nil {
			return fmt.Errorf("remove control files: %w", err)
		}
		s.logger.Debug("server state cleared")
		return nil
	})
	s.down.OnShutdown(func(ctx context.Context) error {
		return s.http.Shutdown(ctx, s.opts.Config.Server.ShutdownGrace)
	})
	s.down.OnShutdown(func(ctx context.Context) error {
		s.stopLoop(ctx)
		if s.watcher != nil {
			return s.watcher.Stop()
		}
		return nil
	})
}

// stopLoop cancels the control loop and waits for it to return.
func (s *Server) stopLoop(ctx context.Context) {
	s.stopOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
	if s.cancel == nil {
		return
	}
	select {
	case <-s.loopDone:
	case <-ctx.Done():
		s.logger.Warn("control loop did not stop in time")
	}
}

// abort undoes a partial Start.
func (s *Server) abort() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if s.http != nil {
		_ = s.http.Shutdown(ctx, 0)
	}
}
