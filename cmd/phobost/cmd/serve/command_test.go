package serve

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/phobost/cmd/application"
	"github.com/agentstation/phobost/internal/server"
	"github.com/agentstation/phobost/pkg/errors"
)

type testApp struct {
	application.Mock
	cfg server.Config
}

func (a *testApp) ServerConfig() server.Config {
	return a.cfg
}

func newTestApp() *testApp {
	return &testApp{cfg: server.DefaultConfig()}
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestParseConfig(t *testing.T) {
	base := server.DefaultConfig()
	base.Host = "10.0.0.1"
	base.Port = 9000

	tests := []struct {
		name    string
		args    []string
		check   func(t *testing.T, cfg server.Config)
		wantErr bool
	}{
		{
			name: "no flags keeps base",
			args: nil,
			check: func(t *testing.T, cfg server.Config) {
				assert.Equal(t, base, cfg)
			},
		},
		{
			name: "short flags",
			args: []string{"-H", "0.0.0.0", "-p", "8080"},
			check: func(t *testing.T, cfg server.Config) {
				assert.Equal(t, "0.0.0.0:8080", cfg.ConnectionString())
			},
		},
		{
			name: "shutdown and timeouts",
			args: []string{"--shutdown-timeout", "10s", "--read-timeout", "1s", "--idle-timeout", "2m"},
			check: func(t *testing.T, cfg server.Config) {
				assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
				assert.Equal(t, time.Second, cfg.ReadTimeout)
				assert.Equal(t, 2*time.Minute, cfg.IdleTimeout)
				assert.Equal(t, base.WriteTimeout, cfg.WriteTimeout)
			},
		},
		{
			name: "features",
			args: []string{"--metrics=false", "--cors-origins", "https://a.example,https://b.example"},
			check: func(t *testing.T, cfg server.Config) {
				assert.False(t, cfg.MetricsEnabled)
				assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
			},
		},
		{
			name:    "port out of range",
			args:    []string{"--port", "65536"},
			wantErr: true,
		},
		{
			name:    "negative shutdown timeout",
			args:    []string{"--shutdown-timeout=-1s"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewCommand(newTestApp())
			require.NoError(t, cmd.ParseFlags(tt.args))

			cfg, err := parseConfig(cmd.Flags(), base)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestRun_ServesUntilCancelled(t *testing.T) {
	app := newTestApp()
	out := &lockedBuffer{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- Run(ctx, app, app.cfg, out)
	}()

	var base string
	require.Eventually(t, func() bool {
		_, after, found := strings.Cut(out.String(), "phobost listening on ")
		line, _, _ := strings.Cut(after, "\n")
		base = strings.TrimSpace(line)
		return found
	}, 5*time.Second, 10*time.Millisecond)
	require.True(t, strings.HasPrefix(base, "http://127.0.0.1:"), base)

	resp, err := http.Post(base+"/v1/md2html", "text/markdown", strings.NewReader("**bold**"))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<p><strong>bold</strong></p>\n", string(body))

	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	app := newTestApp()
	cfg := app.cfg
	cfg.Host = ""

	err := Run(context.Background(), app, cfg, io.Discard)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}
