package blogstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultPageSize is the fixed number of posts per category page.
const DefaultPageSize = 5

// service implements the Service interface
type service struct {
	repository Repository
	eventSink  EventSink
	codec      ImageCodec
	pageSize   int
	facets     facetIndex
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// WithImageCodec sets the attachment codec for the service
func WithImageCodec(codec ImageCodec) Option {
	return func(s *service) {
		s.codec = codec
	}
}

// WithPageSize overrides the fixed category page size
func WithPageSize(size int) Option {
	return func(s *service) {
		s.pageSize = size
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		pageSize: DefaultPageSize,
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.pageSize < 1 {
		return nil, fmt.Errorf("page size must be positive, got %d", s.pageSize)
	}

	return s, nil
}

// Blog operations

func (s *service) CreateBlog(ctx context.Context, req CreateBlogRequest) (*Blog, error) {
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Err: err}
	}

	now := time.Now().UTC()
	blog := &Blog{
		ID:          uuid.New(),
		OwnerID:     req.OwnerID,
		Name:        req.Name,
		Description: req.Description,
		Version:     1,
		CreatedAt:   now,
	}

	if req.Image != nil {
		data, contentType, err := s.codec.Encode(req.Image, req.ImageContentType)
		if err != nil {
			return nil, err
		}
		blog.Image = data
		blog.ImageContentType = contentType
	}

	if err := s.repository.CreateBlog(ctx, blog); err != nil {
		return nil, &BlogError{BlogID: blog.ID, Op: "create", Err: err}
	}

	if s.eventSink != nil {
		_ = s.eventSink.BlogCreated(ctx, blog) // sink failures never fail the write
	}

	return blog, nil
}

func (s *service) GetBlog(ctx context.Context, id uuid.UUID) (*Blog, error) {
	return s.repository.GetBlog(ctx, id)
}

func (s *service) GetBlogByName(ctx context.Context, name string) (*Blog, error) {
	return s.repository.GetBlogByName(ctx, name)
}

func (s *service) ListBlogs(ctx context.Context) ([]*Blog, error) {
	return s.repository.ListBlogs(ctx)
}

func (s *service) UpdateBlog(ctx context.Context, req UpdateBlogRequest) (*Blog, error) {
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Err: err}
	}

	// Re-read the stored row for the fields the caller does not supply:
	// CreatedAt always, image and content type when no new image is given.
	current, err := s.repository.GetBlog(ctx, req.ID)
	if err != nil {
		return nil, &BlogError{BlogID: req.ID, Op: "update", Err: err}
	}

	now := time.Now().UTC()
	blog := &Blog{
		ID:          req.ID,
		OwnerID:     req.OwnerID,
		Name:        req.Name,
		Description: req.Description,
		Version:     req.Version + 1,
		CreatedAt:   current.CreatedAt,
		UpdatedAt:   &now,
	}

	if req.NewImage != nil {
		data, contentType, err := s.codec.Encode(req.NewImage, req.NewImageContentType)
		if err != nil {
			return nil, err
		}
		blog.Image = data
		blog.ImageContentType = contentType
	} else {
		blog.Image = current.Image
		blog.ImageContentType = current.ImageContentType
	}

	if err := s.repository.UpdateBlog(ctx, blog, req.Version); err != nil {
		return nil, &BlogError{BlogID: req.ID, Op: "update", Err: err}
	}

	// Blog names double as category names, so a rename changes facets.
	s.facets.invalidate()

	if s.eventSink != nil {
		_ = s.eventSink.BlogUpdated(ctx, blog)
	}

	return blog, nil
}

// DeleteBlog removes the blog and cascade-deletes its dependent posts.
func (s *service) DeleteBlog(ctx context.Context, id uuid.UUID) error {
	if err := s.repository.DeleteBlog(ctx, id); err != nil {
		return &BlogError{BlogID: id, Op: "delete", Err: err}
	}

	s.facets.invalidate()

	if s.eventSink != nil {
		_ = s.eventSink.BlogDeleted(ctx, id)
	}

	return nil
}

// Post operations

func (s *service) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Err: err}
	}

	// Verify the owning blog exists
	if _, err := s.repository.GetBlog(ctx, req.BlogID); err != nil {
		return nil, &BlogError{BlogID: req.BlogID, Op: "create post", Err: err}
	}

	status := req.ReadyStatus
	if status == "" {
		status = ReadyStatusDraft
	}

	now := time.Now().UTC()
	post := &Post{
		ID:          uuid.New(),
		BlogID:      req.BlogID,
		OwnerID:     req.OwnerID,
		Title:       req.Title,
		Abstract:    req.Abstract,
		Content:     req.Content,
		Slug:        Slugify(req.Title),
		ReadyStatus: status,
		Tags:        cloneStrings(req.Tags),
		Version:     1,
		CreatedAt:   now,
	}

	if req.Image != nil {
		data, contentType, err := s.codec.Encode(req.Image, req.ImageContentType)
		if err != nil {
			return nil, err
		}
		post.Image = data
		post.ImageContentType = contentType
	}

	if err := s.repository.CreatePost(ctx, post); err != nil {
		return nil, &PostError{PostID: post.ID, Op: "create", Err: err}
	}

	s.facets.invalidate()

	if s.eventSink != nil {
		_ = s.eventSink.PostCreated(ctx, post)
	}

	return post, nil
}

func (s *service) GetPost(ctx context.Context, id uuid.UUID) (*Post, error) {
	return s.repository.GetPost(ctx, id)
}

func (s *service) GetPostBySlug(ctx context.Context, blogID uuid.UUID, slug string) (*Post, error) {
	return s.repository.GetPostBySlug(ctx, blogID, slug)
}

func (s *service) ListPostsByBlog(ctx context.Context, blogID uuid.UUID) ([]*Post, error) {
	return s.repository.ListPostsByBlog(ctx, blogID)
}

func (s *service) UpdatePost(ctx context.Context, req UpdatePostRequest) (*Post, error) {
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Err: err}
	}

	current, err := s.repository.GetPost(ctx, req.ID)
	if err != nil {
		return nil, &PostError{PostID: req.ID, Op: "update", Err: err}
	}

	status := req.ReadyStatus
	if status == "" {
		status = current.ReadyStatus
	}

	now := time.Now().UTC()
	post := &Post{
		ID:          req.ID,
		BlogID:      current.BlogID, // the owning blog reference never changes
		OwnerID:     req.OwnerID,
		Title:       req.Title,
		Abstract:    req.Abstract,
		Content:     req.Content,
		Slug:        Slugify(req.Title),
		ReadyStatus: status,
		Tags:        cloneStrings(req.Tags),
		Version:     req.Version + 1,
		CreatedAt:   current.CreatedAt,
		UpdatedAt:   &now,
	}

	if req.NewImage != nil {
		data, contentType, err := s.codec.Encode(req.NewImage, req.NewImageContentType)
		if err != nil {
			return nil, err
		}
		post.Image = data
		post.ImageContentType = contentType
	} else {
		post.Image = current.Image
		post.ImageContentType = current.ImageContentType
	}

	if err := s.repository.UpdatePost(ctx, post, req.Version); err != nil {
		return nil, &PostError{PostID: req.ID, Op: "update", Err: err}
	}

	s.facets.invalidate()

	if s.eventSink != nil {
		_ = s.eventSink.PostUpdated(ctx, post)
	}

	return post, nil
}

func (s *service) DeletePost(ctx context.Context, id uuid.UUID) error {
	if err := s.repository.DeletePost(ctx, id); err != nil {
		return &PostError{PostID: id, Op: "delete", Err: err}
	}

	s.facets.invalidate()

	if s.eventSink != nil {
		_ = s.eventSink.PostDeleted(ctx, id)
	}

	return nil
}

// Browsing operations

func (s *service) PagedPostsByCategory(ctx context.Context, req PagedPostsRequest) (*Page, error) {
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Err: err}
	}

	page := req.Page
	if page < 1 {
		page = 1
	}

	return s.repository.PagedPostsByCategory(ctx, req.Category, page, s.pageSize)
}

func (s *service) DistinctCategories(ctx context.Context) ([]string, error) {
	categories, _, err := s.facets.load(ctx, s.repository)
	if err != nil {
		return nil, err
	}
	return cloneStrings(categories), nil
}

func (s *service) DistinctTags(ctx context.Context, limit int) ([]string, error) {
	if limit < 1 {
		return nil, &ValidationError{Err: fmt.Errorf("limit must be positive, got %d", limit)}
	}

	_, counts, err := s.facets.load(ctx, s.repository)
	if err != nil {
		return nil, err
	}

	if limit > len(counts) {
		limit = len(counts)
	}
	tags := make([]string, 0, limit)
	for _, tc := range counts[:limit] {
		tags = append(tags, tc.Tag)
	}
	return tags, nil
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
