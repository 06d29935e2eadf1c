package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/workshop/pkg/domain"
)

// LoggingHooks returns hooks that log every lifecycle event at debug level,
// except resets which are logged at info.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDrop: func(ctx context.Context, e *domain.DropEvent) {
			logger.DebugContext(ctx, "drop",
				"exercise", e.ExerciseID,
				"problem", e.ProblemID,
				"item", e.Item,
				"target", e.Target.String(),
				"accepted", e.Accepted,
				"rejection", e.Rejection,
				"outcome", e.Outcome,
			)
		},
		OnRevert: func(ctx context.Context, e *domain.RevertEvent) {
			logger.DebugContext(ctx, "revert", "exercise", e.ExerciseID, "item", e.Item, "zone", e.Zone)
		},
		OnCheck: func(ctx context.Context, e *domain.CheckEvent) {
			logger.DebugContext(ctx, "check", "exercise", e.ExerciseID, "problem", e.ProblemID, "outcome", e.Outcome)
		},
		OnReset: func(ctx context.Context, e *domain.ResetEvent) {
			logger.InfoContext(ctx, "reset",
				"exercise", e.ExerciseID,
				"problem", e.ProblemID,
				"reason", e.Reason,
				"cancelled_reverts", e.CancelledReverts,
			)
		},
	}
}

// Chain combines hook sets; each callback runs in argument order.
func Chain(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		if h.OnDrop != nil {
			prev, next := out.OnDrop, h.OnDrop
			out.OnDrop = func(ctx context.Context, e *domain.DropEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
		if h.OnRevert != nil {
			prev, next := out.OnRevert, h.OnRevert
			out.OnRevert = func(ctx context.Context, e *domain.RevertEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
		if h.OnCheck != nil {
			prev, next := out.OnCheck, h.OnCheck
			out.OnCheck = func(ctx context.Context, e *domain.CheckEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
		if h.OnReset != nil {
			prev, next := out.OnReset, h.OnReset
			out.OnReset = func(ctx context.Context, e *domain.ResetEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
	}
	return out
}
