package obras

import (
	"context"
	"log/slog"
)

// NoopEventSink is a no-operation implementation of EventSink
// Useful for production when you don't need event handling or for testing
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

func (n *NoopEventSink) WorkCreated(ctx context.Context, work *Work) error     { return nil }
func (n *NoopEventSink) WorkUpdated(ctx context.Context, work *Work) error     { return nil }
func (n *NoopEventSink) WorkPublished(ctx context.Context, work *Work) error   { return nil }
func (n *NoopEventSink) WorkDeleted(ctx context.Context, workID int64) error   { return nil }
func (n *NoopEventSink) UserRegistered(ctx context.Context, user *User) error { return nil }

// LoggingEventSink writes every event to a slog logger
type LoggingEventSink struct {
	logger *slog.Logger
}

// NewLoggingEventSink creates an event sink that logs through logger.
// A nil logger uses slog.Default().
func NewLoggingEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingEventSink{logger: logger}
}

func (l *LoggingEventSink) WorkCreated(ctx context.Context, work *Work) error {
	l.logger.InfoContext(ctx, "Work created", "work_id", work.ID, "status", work.Status, "tipo", work.Kind)
	return nil
}

func (l *LoggingEventSink) WorkUpdated(ctx context.Context, work *Work) error {
	l.logger.InfoContext(ctx, "Work updated", "work_id", work.ID)
	return nil
}

func (l *LoggingEventSink) WorkPublished(ctx context.Context, work *Work) error {
	l.logger.InfoContext(ctx, "Work published", "work_id", work.ID)
	return nil
}

func (l *LoggingEventSink) WorkDeleted(ctx context.Context, workID int64) error {
	l.logger.InfoContext(ctx, "Work deleted", "work_id", workID)
	return nil
}

func (l *LoggingEventSink) UserRegistered(ctx context.Context, user *User) error {
	l.logger.InfoContext(ctx, "User registered", "user_id", user.ID)
	return nil
}
