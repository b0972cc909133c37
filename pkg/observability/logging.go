package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/venuebot/pkg/domain"
)

// LoggingHooks returns lifecycle hooks that write every event to the logger.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.Debug("transition",
				"user_id", e.UserID,
				"command", e.Command,
				"from", e.From,
				"to", e.To,
				"replies", e.Replies,
			)
		},
		OnCatalogQuery: func(ctx context.Context, e *domain.CatalogQueryEvent) {
			logger.Info("catalog_query",
				"user_id", e.UserID,
				"city_id", e.CityID,
				"category", e.Category,
				"results", e.Results,
				"duration", e.Duration,
			)
		},
	}
}
