package blogstore

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// NoopEventSink is a no-operation implementation of EventSink
// Useful when no event handling is needed or for testing
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

func (n *NoopEventSink) BlogCreated(ctx context.Context, blog *Blog) error { return nil }

func (n *NoopEventSink) BlogUpdated(ctx context.Context, blog *Blog) error { return nil }

func (n *NoopEventSink) BlogDeleted(ctx context.Context, blogID uuid.UUID) error { return nil }

func (n *NoopEventSink) PostCreated(ctx context.Context, post *Post) error { return nil }

func (n *NoopEventSink) PostUpdated(ctx context.Context, post *Post) error { return nil }

func (n *NoopEventSink) PostDeleted(ctx context.Context, postID uuid.UUID) error { return nil }

// LoggingEventSink is an event sink that logs lifecycle events but takes no
// other action. Useful for development and debugging.
type LoggingEventSink struct {
	logger *slog.Logger
}

// NewLoggingEventSink creates a logging event sink. A nil logger falls back
// to slog.Default().
func NewLoggingEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingEventSink{logger: logger}
}

func (l *LoggingEventSink) BlogCreated(ctx context.Context, blog *Blog) error {
	l.logger.InfoContext(ctx, "blog created", "blog_id", blog.ID, "name", blog.Name, "owner_id", blog.OwnerID)
	return nil
}

func (l *LoggingEventSink) BlogUpdated(ctx context.Context, blog *Blog) error {
	l.logger.InfoContext(ctx, "blog updated", "blog_id", blog.ID, "name", blog.Name, "version", blog.Version)
	return nil
}

func (l *LoggingEventSink) BlogDeleted(ctx context.Context, blogID uuid.UUID) error {
	l.logger.InfoContext(ctx, "blog deleted", "blog_id", blogID)
	return nil
}

func (l *LoggingEventSink) PostCreated(ctx context.Context, post *Post) error {
	l.logger.InfoContext(ctx, "post created", "post_id", post.ID, "blog_id", post.BlogID, "slug", post.Slug)
	return nil
}

func (l *LoggingEventSink) PostUpdated(ctx context.Context, post *Post) error {
	l.logger.InfoContext(ctx, "post updated", "post_id", post.ID, "status", string(post.ReadyStatus), "version", post.Version)
	return nil
}

func (l *LoggingEventSink) PostDeleted(ctx context.Context, postID uuid.UUID) error {
	l.logger.InfoContext(ctx, "post deleted", "post_id", postID)
	return nil
}
