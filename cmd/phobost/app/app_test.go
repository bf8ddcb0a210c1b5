package app

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/phobost/pkg/errors"
	"github.com/agentstation/phobost/pkg/logging"
)

// syncBuffer lets the test read command output while the server writes it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestApp(t *testing.T) *App {
	t.Helper()

	app, err := New("1.0.0", "abc123", "2026-01-01", "test", WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)
	return app
}

// execute runs the root command with args and captures its output.
func execute(ctx context.Context, app *App, out *syncBuffer, args ...string) error {
	if args == nil {
		// cobra falls back to os.Args for a nil slice
		args = []string{}
	}

	rootCmd := app.createRootCommand()
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func TestApp_New(t *testing.T) {
	app, err := New("1.0.0", "abc123", "2026-01-01", "test")
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", app.Version())
	assert.Equal(t, "abc123", app.Commit())
	assert.Equal(t, "2026-01-01", app.Date())
	assert.Equal(t, "test", app.BuiltBy())
	assert.NotNil(t, app.Logger())
	require.NotNil(t, app.Config())
	assert.Equal(t, app.Config().Port, app.ServerConfig().Port)
}

func TestApp_WithConfig(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := &Config{Host: "0.0.0.0", Port: 9000, MetricsEnabled: true}
		app, err := New("dev", "", "", "", WithConfig(cfg))
		require.NoError(t, err)

		assert.Same(t, cfg, app.Config())
		assert.Equal(t, "0.0.0.0:9000", app.ServerConfig().ConnectionString())
	})

	t.Run("invalid port", func(t *testing.T) {
		_, err := New("dev", "", "", "", WithConfig(&Config{Host: "127.0.0.1", Port: -1}))
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestExecute_Version(t *testing.T) {
	app := newTestApp(t)
	out := &syncBuffer{}

	require.NoError(t, execute(context.Background(), app, out, "version"))

	assert.Contains(t, out.String(), "phobost version 1.0.0")
	assert.Contains(t, out.String(), "commit: abc123")
}

func TestExecute_VersionFlag(t *testing.T) {
	app := newTestApp(t)
	out := &syncBuffer{}

	require.NoError(t, execute(context.Background(), app, out, "--version"))

	assert.Equal(t, "phobost 1.0.0\n", out.String())
}

func TestExecute_FlagsOverrideConfig(t *testing.T) {
	app := newTestApp(t)
	app.config.LogLevel = ""
	out := &syncBuffer{}

	require.NoError(t, execute(context.Background(), app, out, "--debug", "--log-format", "json", "version"))

	assert.True(t, app.Config().Debug)
	assert.Equal(t, "json", app.Config().LogFormat)
	assert.Equal(t, "debug", determineLogLevel(app.Config()))
}

func TestExecute_ServeBindFailure(t *testing.T) {
	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer occupied.Close()

	port := occupied.Addr().(*net.TCPAddr).Port
	app := newTestApp(t)
	out := &syncBuffer{}

	err = execute(context.Background(), app, out, "serve", "--host", "127.0.0.1", "--port", strconv.Itoa(port))

	require.Error(t, err)
	assert.True(t, errors.IsBind(err), "error = %v", err)
	assert.True(t, errors.IsFatal(err))
}

func TestExecute_ServeUntilCancelled(t *testing.T) {
	app := newTestApp(t)
	out := &syncBuffer{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- execute(ctx, app, out, "serve", "--port", "0")
	}()

	var base string
	require.Eventually(t, func() bool {
		_, after, found := strings.Cut(out.String(), "phobost listening on ")
		if !found {
			return false
		}
		line, _, _ := strings.Cut(after, "\n")
		base = strings.TrimSpace(line)
		return true
	}, 5*time.Second, 10*time.Millisecond)

	resp, err := http.Get(base + "/v1/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop after cancellation")
	}
}

func TestExecute_RootServesByDefault(t *testing.T) {
	app := newTestApp(t)
	app.config.Port = 0
	out := &syncBuffer{}
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		errCh <- execute(ctx, app, out)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "phobost listening on http://")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("root command did not stop after cancellation")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{name: "success", err: nil, code: 0},
		{
			name:    "bind failure",
			err:     errors.NewBindError("127.0.0.1:80", errors.New("permission denied")),
			code:    1,
			message: "Critical failure, application stopping!",
		},
		{
			name:    "accept loop failure",
			err:     errors.NewServeError("127.0.0.1:8080", errors.New("too many open files")),
			code:    1,
			message: "Critical failure, application stopping!",
		},
		{
			name:    "invalid configuration",
			err:     errors.NewValidationError("port", 70000, "must be between 0 and 65535"),
			code:    2,
			message: "Invalid configuration",
		},
		{
			name:    "other failure",
			err:     errors.New("unknown command"),
			code:    1,
			message: "Command failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := logging.NewTestLogger(t)
			app, err := New("1.0.0", "abc123", "2026-01-01", "test", WithLogger(logs.Logger))
			require.NoError(t, err)

			assert.Equal(t, tt.code, app.ExitCode(tt.err))
			if tt.message == "" {
				assert.Empty(t, logs.Lines())
				return
			}
			assert.Len(t, logs.EntriesWithMessage(tt.message), 1)
		})
	}
}

func TestExitCode_BindFailureFromServe(t *testing.T) {
	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer occupied.Close()

	app := newTestApp(t)
	port := strconv.Itoa(occupied.Addr().(*net.TCPAddr).Port)

	err = execute(context.Background(), app, &syncBuffer{}, "serve", "--host", "127.0.0.1", "--port", port)
	assert.Equal(t, 1, app.ExitCode(err))
}
