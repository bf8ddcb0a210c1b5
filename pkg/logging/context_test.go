package logging_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/phobost/pkg/logging"
)

func TestContextFunctions(t *testing.T) {
	t.Run("FromContext falls back to default", func(t *testing.T) {
		logger := logging.FromContext(context.Background())
		assert.Equal(t, logging.Default(), logger)
	})

	t.Run("WithRequestID stores id and enriches logger", func(t *testing.T) {
		tl := logging.NewTestLogger(t)
		ctx := logging.WithLogger(context.Background(), tl.Logger)
		ctx = logging.WithRequestID(ctx, "7d1e")

		assert.Equal(t, "7d1e", logging.RequestID(ctx))

		logging.FromContext(ctx).Info().Msg("hello")
		tl.AssertContains(t, `"request_id":"7d1e"`)
	})

	t.Run("RequestID is empty without WithRequestID", func(t *testing.T) {
		assert.Empty(t, logging.RequestID(context.Background()))
	})

	t.Run("WithError ignores nil", func(t *testing.T) {
		ctx := context.Background()
		assert.Equal(t, ctx, logging.WithError(ctx, nil))
	})

	t.Run("WithError attaches error", func(t *testing.T) {
		tl := logging.NewTestLogger(t)
		ctx := logging.WithLogger(context.Background(), tl.Logger)
		ctx = logging.WithError(ctx, errors.New("broken pipe"))

		logging.FromContext(ctx).Warn().Msg("write failed")
		tl.AssertContains(t, "broken pipe")
	})

	t.Run("WithLogger nil uses default", func(t *testing.T) {
		ctx := logging.WithLogger(context.Background(), nil)
		assert.Equal(t, logging.Default(), logging.FromContext(ctx))
	})
}
