package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/silverconnect/pkg/domain"
)

// AuditHooks logs every state entry and transition at info level.
func AuditHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateEnter: func(ctx context.Context, e *domain.StateEvent) {
			logger.InfoContext(ctx, "state_enter",
				"engine", e.Engine,
				"session", e.SessionID,
				"state", e.State,
			)
		},
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			attrs := []any{
				"engine", e.Engine,
				"session", e.SessionID,
				"from", e.From,
				"to", e.To,
				"outcome", e.Outcome.String(),
			}
			if e.Rule != "" {
				attrs = append(attrs, "rule", e.Rule)
			}
			if e.Reason != "" {
				attrs = append(attrs, "reason", e.Reason)
			}
			logger.InfoContext(ctx, "transition", attrs...)
		},
	}
}
