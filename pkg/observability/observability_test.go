package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/workshop/internal/runtime"
	"github.com/aretw0/workshop/internal/testutils"
	"github.com/aretw0/workshop/pkg/domain"
	"github.com/aretw0/workshop/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordSessionActivity(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	clock := testutils.NewFakeScheduler()

	s, err := runtime.NewSession(testutils.MatchingExercise(),
		runtime.WithScheduler(clock),
		runtime.WithLifecycleHooks(metrics.Hooks()),
	)
	require.NoError(t, err)
	defer s.Close()

	s.DropItem(ctx, "c1", "d1")
	s.DropItem(ctx, "c2", "d3")
	s.DropItem(ctx, "c3", "d3")
	clock.Advance(domain.MatchingRevertDelay)
	s.Reset(ctx)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Drops.WithLabelValues("matching", "correct")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Drops.WithLabelValues("matching", "incorrect")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Rejections.WithLabelValues("matching", "occupied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Reverts.WithLabelValues("matching")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Resets.WithLabelValues("matching", "start")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Resets.WithLabelValues("matching", "reset")))

	metrics.SessionOpened("matching")
	metrics.SessionOpened("matching")
	metrics.SessionClosed("matching")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SessionsActive))
}

func TestChain_RunsInOrder(t *testing.T) {
	var calls []string
	record := func(name string) domain.LifecycleHooks {
		return domain.LifecycleHooks{
			OnCheck: func(context.Context, *domain.CheckEvent) { calls = append(calls, name) },
		}
	}

	hooks := observability.Chain(record("a"), domain.LifecycleHooks{}, record("b"))
	require.NotNil(t, hooks.OnCheck)
	assert.Nil(t, hooks.OnDrop)

	hooks.OnCheck(context.Background(), &domain.CheckEvent{})
	assert.Equal(t, []string{"a", "b"}, calls)
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s, err := runtime.NewSession(testutils.ConstructionExercise(), runtime.WithLifecycleHooks(observability.LoggingHooks(logger)))
	require.NoError(t, err)
	defer s.Close()

	s.AppendToSequence(context.Background(), "s1t1")
	s.Check(context.Background())

	out := buf.String()
	assert.Contains(t, out, "msg=reset")
	assert.Contains(t, out, "reason=start")
	assert.Contains(t, out, "msg=drop")
	assert.Contains(t, out, "msg=check")
	assert.Contains(t, out, "outcome=incorrect")
}
