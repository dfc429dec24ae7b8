package logger

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/event"
)

// NewCommandMonitor returns a driver command monitor that logs store
// commands through zerolog.
//
// Commands slower than slowThreshold are logged at warn level. When verbose
// is set every command is also logged at debug level, which is only meant
// for local development.
func NewCommandMonitor(logger zerolog.Logger, slowThreshold time.Duration, verbose bool) *event.CommandMonitor {
	log := logger.With().Str("component", "mongo").Logger()

	return &event.CommandMonitor{
		Started: func(_ context.Context, evt *event.CommandStartedEvent) {
			if !verbose {
				return
			}
			log.Debug().
				Str("command", evt.CommandName).
				Str("database", evt.DatabaseName).
				Int64("request_id", evt.RequestID).
				Str("body", evt.Command.String()).
				Msg("mongo command started")
		},
		Succeeded: func(_ context.Context, evt *event.CommandSucceededEvent) {
			if slowThreshold > 0 && evt.Duration >= slowThreshold {
				log.Warn().
					Str("command", evt.CommandName).
					Str("database", evt.DatabaseName).
					Int64("request_id", evt.RequestID).
					Dur("duration", evt.Duration).
					Msg("slow mongo command")
				return
			}
			if verbose {
				log.Debug().
					Str("command", evt.CommandName).
					Int64("request_id", evt.RequestID).
					Dur("duration", evt.Duration).
					Msg("mongo command succeeded")
			}
		},
		Failed: func(_ context.Context, evt *event.CommandFailedEvent) {
			log.Error().
				Str("command", evt.CommandName).
				Str("database", evt.DatabaseName).
				Int64("request_id", evt.RequestID).
				Dur("duration", evt.Duration).
				Interface("failure", evt.Failure).
				Msg("mongo command failed")
		},
	}
}
