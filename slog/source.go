package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/cardcrawl"
)

// Ensure LoggingCardSource implements cardcrawl.CardSource.
var _ cardcrawl.CardSource = (*LoggingCardSource)(nil)

// LoggingCardSource wraps a CardSource and logs every parse.
type LoggingCardSource struct {
	next   cardcrawl.CardSource
	logger *slog.Logger
}

// NewLoggingCardSource creates a new LoggingCardSource.
func NewLoggingCardSource(next cardcrawl.CardSource, logger *slog.Logger) *LoggingCardSource {
	return &LoggingCardSource{next: next, logger: logger}
}

// Source delegates to the wrapped source.
func (s *LoggingCardSource) Source() cardcrawl.Source {
	return s.next.Source()
}

// CardURL delegates to the wrapped source.
func (s *LoggingCardSource) CardURL(id int) string {
	return s.next.CardURL(id)
}

// ParseCard delegates to the wrapped source and logs the outcome.
// Pages without a card are logged at debug level.
func (s *LoggingCardSource) ParseCard(id int, html string) (rec *cardcrawl.Record, err error) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		switch cardcrawl.ErrorCode(err) {
		case "":
		case cardcrawl.ENODATA:
			level = slog.LevelDebug
		default:
			level = slog.LevelWarn
		}
		var name string
		if rec != nil {
			name = rec.Name
		}
		s.logger.Log(context.Background(), level, "parse card",
			"source", string(s.next.Source()),
			"id", id,
			"name", name,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ParseCard(id, html)
}
