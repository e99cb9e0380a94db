package blogstore

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the main interface for the blogstore library
type Service interface {
	// Blog operations
	CreateBlog(ctx context.Context, req CreateBlogRequest) (*Blog, error)
	GetBlog(ctx context.Context, id uuid.UUID) (*Blog, error)
	GetBlogByName(ctx context.Context, name string) (*Blog, error)
	ListBlogs(ctx context.Context) ([]*Blog, error)
	UpdateBlog(ctx context.Context, req UpdateBlogRequest) (*Blog, error)
	DeleteBlog(ctx context.Context, id uuid.UUID) error

	// Post operations
	CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error)
	GetPost(ctx context.Context, id uuid.UUID) (*Post, error)
	GetPostBySlug(ctx context.Context, blogID uuid.UUID, slug string) (*Post, error)
	ListPostsByBlog(ctx context.Context, blogID uuid.UUID) ([]*Post, error)
	UpdatePost(ctx context.Context, req UpdatePostRequest) (*Post, error)
	DeletePost(ctx context.Context, id uuid.UUID) error

	// Browsing operations
	PagedPostsByCategory(ctx context.Context, req PagedPostsRequest) (*Page, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	DistinctTags(ctx context.Context, limit int) ([]string, error)
}
