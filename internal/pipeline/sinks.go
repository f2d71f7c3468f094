package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"battle-features/internal/config"
	"battle-features/internal/db"
	"battle-features/internal/discord"
)

// NamedSink is a feature sink with a display name
type NamedSink struct {
	Name string
	Sink db.Sink
}

// Notifier receives run outcomes
type Notifier interface {
	SendExtractionComplete(ctx context.Context, r discord.RunReport) error
	SendExtractionFailed(ctx context.Context, runID, preset string, runErr error, runtime time.Duration) error
}

// OpenSinks connects every sink configured in s. Callers must Close the
// returned sinks.
func OpenSinks(ctx context.Context, s *config.Settings) ([]NamedSink, error) {
	var sinks []NamedSink

	if s.SQLitePath != "" {
		store, err := db.OpenSQLite(s.SQLitePath)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, NamedSink{Name: "sqlite", Sink: store})
		log.Printf("[Sink] SQLite at %s", s.SQLitePath)
	}

	if s.TursoURL != "" {
		store, err := db.OpenTurso(s.TursoURL, s.TursoToken)
		if err != nil {
			CloseSinks(sinks)
			return nil, err
		}
		sinks = append(sinks, NamedSink{Name: "turso", Sink: store})
		log.Printf("[Sink] Turso connected")
	}

	if s.DatabaseURL != "" {
		store, err := db.NewPostgres(ctx, s.DatabaseURL)
		if err != nil {
			CloseSinks(sinks)
			return nil, err
		}
		sinks = append(sinks, NamedSink{Name: "postgres", Sink: store})
		log.Printf("[Sink] Postgres connected")
	}

	return sinks, nil
}

// CloseSinks closes every sink, returning the joined errors
func CloseSinks(sinks []NamedSink) error {
	var errs []error
	for _, s := range sinks {
		if err := s.Sink.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
		}
	}
	return errors.Join(errs...)
}

// NewNotifier returns a Discord notifier, or nil when no webhook is set
func NewNotifier(s *config.Settings) Notifier {
	if s.DiscordWebhook == "" {
		return nil
	}
	return discord.NewWebhookClient(s.DiscordWebhook)
}
