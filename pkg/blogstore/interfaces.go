package blogstore

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for blog and post persistence.
//
// Update operations take the version the caller loaded and perform a
// compare-and-swap: a stale version yields ErrConflict, a missing row yields
// the matching not-found error. Implementations must never partially apply
// a write.
type Repository interface {
	// Blog operations
	CreateBlog(ctx context.Context, blog *Blog) error
	GetBlog(ctx context.Context, id uuid.UUID) (*Blog, error)
	GetBlogByName(ctx context.Context, name string) (*Blog, error)
	UpdateBlog(ctx context.Context, blog *Blog, expectedVersion int64) error
	DeleteBlog(ctx context.Context, id uuid.UUID) error
	ListBlogs(ctx context.Context) ([]*Blog, error)

	// Post operations
	CreatePost(ctx context.Context, post *Post) error
	GetPost(ctx context.Context, id uuid.UUID) (*Post, error)
	GetPostBySlug(ctx context.Context, blogID uuid.UUID, slug string) (*Post, error)
	UpdatePost(ctx context.Context, post *Post, expectedVersion int64) error
	DeletePost(ctx context.Context, id uuid.UUID) error
	ListPostsByBlog(ctx context.Context, blogID uuid.UUID) ([]*Post, error)

	// Browsing queries
	//
	// PagedPostsByCategory matches production-ready posts whose blog name
	// equals category case-insensitively, ordered by creation time
	// descending with descending ID as tie-break.
	PagedPostsByCategory(ctx context.Context, category string, pageNumber, pageSize int) (*Page, error)

	// DistinctCategories returns the names of blogs having at least one
	// production-ready post, deduplicated case-insensitively, in original
	// case, ordered by first-seen (earliest qualifying post).
	DistinctCategories(ctx context.Context) ([]string, error)

	// TagCounts returns usage counts for every distinct tag across all
	// posts, ordered by count descending, then FirstSeen ascending, then
	// tag ascending.
	TagCounts(ctx context.Context) ([]TagCount, error)
}

// EventSink defines the interface for lifecycle event handling. Sink
// failures never fail the triggering write.
type EventSink interface {
	// BlogCreated is fired when a blog is created
	BlogCreated(ctx context.Context, blog *Blog) error

	// BlogUpdated is fired when a blog is updated
	BlogUpdated(ctx context.Context, blog *Blog) error

	// BlogDeleted is fired when a blog is deleted
	BlogDeleted(ctx context.Context, blogID uuid.UUID) error

	// PostCreated is fired when a post is created
	PostCreated(ctx context.Context, post *Post) error

	// PostUpdated is fired when a post is updated
	PostUpdated(ctx context.Context, post *Post) error

	// PostDeleted is fired when a post is deleted
	PostDeleted(ctx context.Context, postID uuid.UUID) error
}
