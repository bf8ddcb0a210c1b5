package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	perrors "github.com/agentstation/phobost/pkg/errors"
	"github.com/agentstation/phobost/pkg/logging"
)

// State is the lifecycle state of a Service.
type State int32

// Lifecycle states. Transitions only move forward.
const (
	Running State = iota
	ShuttingDown
	Terminated
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case ShuttingDown:
		return "shutting_down"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Bind opens a TCP listener on addr. Failure is returned as a
// *errors.BindError and is never retried.
func Bind(ctx context.Context, addr string) (net.Listener, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, perrors.WrapBind(addr, err)
	}
	return ln, nil
}

// ServeOptions configures Serve.
type ServeOptions struct {
	// ShutdownTimeout bounds the drain of in-flight requests; zero waits indefinitely.
	ShutdownTimeout time.Duration

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Logger defaults to the package default logger.
	Logger *zerolog.Logger

	// OnStateChange is called on every state transition, including the
	// initial Running state.
	OnStateChange func(State)
}

// Service is a running HTTP accept loop.
type Service struct {
	srv    *http.Server
	ln     net.Listener
	opts   ServeOptions
	logger *zerolog.Logger

	state atomic.Int32
	done  chan struct{}
	err   error
}

// Serve starts accepting connections on ln and returns immediately.
//
// Cancelling ctx requests a graceful shutdown: the listener is closed at
// once, so new connections are refused, and in-flight requests run to
// completion. Request contexts do not inherit ctx's cancellation.
func Serve(ctx context.Context, ln net.Listener, handler http.Handler, opts ServeOptions) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}

	s := &Service{
		srv: &http.Server{
			Handler:      handler,
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
			IdleTimeout:  opts.IdleTimeout,
			ErrorLog:     logging.NewStdLogger(logger, zerolog.WarnLevel),
			BaseContext: func(net.Listener) context.Context {
				return context.WithoutCancel(ctx)
			},
		},
		ln:     ln,
		opts:   opts,
		logger: logger,
		done:   make(chan struct{}),
	}
	s.setState(Running)

	g, gctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		err := s.srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return perrors.WrapServe(ln.Addr().String(), err)
	})

	g.Go(func() error {
		select {
		case <-ctx.Done():
			return s.shutdown()
		case <-gctx.Done():
			// The accept loop failed; drop whatever is still open.
			_ = s.srv.Close()
			return nil
		}
	})

	go func() {
		s.err = g.Wait()
		if s.err != nil {
			s.logger.Error().Err(s.err).Msg("Service stopped with error")
		} else {
			s.logger.Info().Msg("Service stopped")
		}
		s.setState(Terminated)
		close(s.done)
	}()

	return s
}

// shutdown drains in-flight requests, bounded by ShutdownTimeout when set.
func (s *Service) shutdown() error {
	s.setState(ShuttingDown)
	s.logger.Info().
		Dur("shutdown_timeout", s.opts.ShutdownTimeout).
		Msg("Shutdown requested, draining in-flight requests")

	ctx := context.Background()
	if s.opts.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.ShutdownTimeout)
		defer cancel()
	}

	if err := s.srv.Shutdown(ctx); err != nil {
		_ = s.srv.Close()
		if errors.Is(err, context.DeadlineExceeded) {
			return perrors.NewTimeoutError("shutdown", s.opts.ShutdownTimeout, "in-flight requests did not drain")
		}
		return err
	}
	return nil
}

func (s *Service) setState(st State) {
	s.state.Store(int32(st))
	s.logger.Debug().Stringer("state", st).Msg("Service state changed")
	if s.opts.OnStateChange != nil {
		s.opts.OnStateChange(st)
	}
}

// State returns the current lifecycle state.
func (s *Service) State() State {
	return State(s.state.Load())
}

// Done is closed once the service has terminated.
func (s *Service) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the service has terminated. It returns nil after a
// graceful drain, a *errors.ServeError if the accept loop failed, or a
// *errors.TimeoutError if the drain deadline passed.
func (s *Service) Wait() error {
	<-s.done
	return s.err
}

// Addr returns the bound address.
func (s *Service) Addr() net.Addr {
	return s.ln.Addr()
}

// ConnectionString returns the bound address as host:port.
func (s *Service) ConnectionString() string {
	return s.Addr().String()
}

// HTTPString returns the base URL of the service.
func (s *Service) HTTPString() string {
	return "http://" + s.ConnectionString()
}
