package memory

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pressline/blogstore/pkg/blogstore"
)

// Repository implements blogstore.Repository using in-memory storage.
// Writes hold the lock for the whole commit, so a write is either fully
// visible or not at all; version checks run under the same lock.
type Repository struct {
	mu          sync.RWMutex
	blogs       map[uuid.UUID]*blogstore.Blog
	blogsByName map[string]uuid.UUID // lower(name) -> blog_id
	posts       map[uuid.UUID]*blogstore.Post
	postsBySlug map[string]uuid.UUID // "blog_id:slug" -> post_id
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		blogs:       make(map[uuid.UUID]*blogstore.Blog),
		blogsByName: make(map[string]uuid.UUID),
		posts:       make(map[uuid.UUID]*blogstore.Post),
		postsBySlug: make(map[string]uuid.UUID),
	}
}

// Blog operations

func (r *Repository) CreateBlog(ctx context.Context, blog *blogstore.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	nameKey := strings.ToLower(blog.Name)
	if _, exists := r.blogsByName[nameKey]; exists {
		return blogstore.ErrDuplicateBlogName
	}

	r.blogs[blog.ID] = cloneBlog(blog)
	r.blogsByName[nameKey] = blog.ID

	return nil
}

func (r *Repository) GetBlog(ctx context.Context, id uuid.UUID) (*blogstore.Blog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	blog, exists := r.blogs[id]
	if !exists {
		return nil, blogstore.ErrBlogNotFound
	}

	return cloneBlog(blog), nil
}

func (r *Repository) GetBlogByName(ctx context.Context, name string) (*blogstore.Blog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.blogsByName[strings.ToLower(name)]
	if !exists {
		return nil, blogstore.ErrBlogNotFound
	}

	return cloneBlog(r.blogs[id]), nil
}

func (r *Repository) UpdateBlog(ctx context.Context, blog *blogstore.Blog, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.blogs[blog.ID]
	if !exists {
		return blogstore.ErrBlogNotFound
	}
	if current.Version != expectedVersion {
		return blogstore.ErrConflict
	}

	newKey := strings.ToLower(blog.Name)
	oldKey := strings.ToLower(current.Name)
	if newKey != oldKey {
		if _, taken := r.blogsByName[newKey]; taken {
			return blogstore.ErrDuplicateBlogName
		}
		delete(r.blogsByName, oldKey)
		r.blogsByName[newKey] = blog.ID
	}

	r.blogs[blog.ID] = cloneBlog(blog)

	return nil
}

// DeleteBlog removes the blog and cascade-deletes its dependent posts.
func (r *Repository) DeleteBlog(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	blog, exists := r.blogs[id]
	if !exists {
		return blogstore.ErrBlogNotFound
	}

	for postID, post := range r.posts {
		if post.BlogID == id {
			delete(r.postsBySlug, slugKey(post.BlogID, post.Slug))
			delete(r.posts, postID)
		}
	}

	delete(r.blogsByName, strings.ToLower(blog.Name))
	delete(r.blogs, id)

	return nil
}

func (r *Repository) ListBlogs(ctx context.Context) ([]*blogstore.Blog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*blogstore.Blog, 0, len(r.blogs))
	for _, blog := range r.blogs {
		result = append(result, cloneBlog(blog))
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return descUUID(result[i].ID, result[j].ID)
	})

	return result, nil
}

// Post operations

func (r *Repository) CreatePost(ctx context.Context, post *blogstore.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.blogs[post.BlogID]; !exists {
		return blogstore.ErrBlogNotFound
	}

	key := slugKey(post.BlogID, post.Slug)
	if _, exists := r.postsBySlug[key]; exists {
		return blogstore.ErrDuplicateSlug
	}

	r.posts[post.ID] = clonePost(post)
	r.postsBySlug[key] = post.ID

	return nil
}

func (r *Repository) GetPost(ctx context.Context, id uuid.UUID) (*blogstore.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, exists := r.posts[id]
	if !exists {
		return nil, blogstore.ErrPostNotFound
	}

	return clonePost(post), nil
}

func (r *Repository) GetPostBySlug(ctx context.Context, blogID uuid.UUID, slug string) (*blogstore.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.postsBySlug[slugKey(blogID, slug)]
	if !exists {
		return nil, blogstore.ErrPostNotFound
	}

	return clonePost(r.posts[id]), nil
}

func (r *Repository) UpdatePost(ctx context.Context, post *blogstore.Post, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.posts[post.ID]
	if !exists {
		return blogstore.ErrPostNotFound
	}
	if current.Version != expectedVersion {
		return blogstore.ErrConflict
	}
	if current.BlogID != post.BlogID {
		return fmt.Errorf("owning blog reference cannot change")
	}

	if current.Slug != post.Slug {
		key := slugKey(post.BlogID, post.Slug)
		if _, taken := r.postsBySlug[key]; taken {
			return blogstore.ErrDuplicateSlug
		}
		delete(r.postsBySlug, slugKey(current.BlogID, current.Slug))
		r.postsBySlug[key] = post.ID
	}

	r.posts[post.ID] = clonePost(post)

	return nil
}

func (r *Repository) DeletePost(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, exists := r.posts[id]
	if !exists {
		return blogstore.ErrPostNotFound
	}

	delete(r.postsBySlug, slugKey(post.BlogID, post.Slug))
	delete(r.posts, id)

	return nil
}

func (r *Repository) ListPostsByBlog(ctx context.Context, blogID uuid.UUID) ([]*blogstore.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*blogstore.Post
	for _, post := range r.posts {
		if post.BlogID == blogID {
			result = append(result, clonePost(post))
		}
	}

	sortPostsNewestFirst(result)

	return result, nil
}

// Browsing queries

func (r *Repository) PagedPostsByCategory(ctx context.Context, category string, pageNumber, pageSize int) (*blogstore.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	nameKey := strings.ToLower(category)
	var matched []*blogstore.Post
	for _, post := range r.posts {
		if post.ReadyStatus != blogstore.ReadyStatusProductionReady {
			continue
		}
		blog, exists := r.blogs[post.BlogID]
		if !exists || strings.ToLower(blog.Name) != nameKey {
			continue
		}
		matched = append(matched, clonePost(post))
	}

	sortPostsNewestFirst(matched)

	total := len(matched)
	start := (pageNumber - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return blogstore.NewPage(matched[start:end], pageNumber, pageSize, total), nil
}

func (r *Repository) DistinctCategories(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type category struct {
		name      string
		blogID    uuid.UUID
		firstSeen time.Time
	}

	seen := make(map[uuid.UUID]*category)
	for _, post := range r.posts {
		if post.ReadyStatus != blogstore.ReadyStatusProductionReady {
			continue
		}
		blog, exists := r.blogs[post.BlogID]
		if !exists {
			continue
		}
		c, ok := seen[blog.ID]
		if !ok {
			seen[blog.ID] = &category{name: blog.Name, blogID: blog.ID, firstSeen: post.CreatedAt}
			continue
		}
		if post.CreatedAt.Before(c.firstSeen) {
			c.firstSeen = post.CreatedAt
		}
	}

	categories := make([]*category, 0, len(seen))
	for _, c := range seen {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		if !categories[i].firstSeen.Equal(categories[j].firstSeen) {
			return categories[i].firstSeen.Before(categories[j].firstSeen)
		}
		return bytes.Compare(categories[i].blogID[:], categories[j].blogID[:]) < 0
	})

	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.name)
	}
	return names, nil
}

func (r *Repository) TagCounts(ctx context.Context) ([]blogstore.TagCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]*blogstore.TagCount)
	for _, post := range r.posts {
		for _, tag := range post.Tags {
			tc, ok := counts[tag]
			if !ok {
				counts[tag] = &blogstore.TagCount{Tag: tag, Count: 1, FirstSeen: post.CreatedAt}
				continue
			}
			tc.Count++
			if post.CreatedAt.Before(tc.FirstSeen) {
				tc.FirstSeen = post.CreatedAt
			}
		}
	}

	result := make([]blogstore.TagCount, 0, len(counts))
	for _, tc := range counts {
		result = append(result, *tc)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		if !result[i].FirstSeen.Equal(result[j].FirstSeen) {
			return result[i].FirstSeen.Before(result[j].FirstSeen)
		}
		return result[i].Tag < result[j].Tag
	})

	return result, nil
}

// Helpers

func slugKey(blogID uuid.UUID, slug string) string {
	return fmt.Sprintf("%s:%s", blogID, slug)
}

func sortPostsNewestFirst(posts []*blogstore.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return descUUID(posts[i].ID, posts[j].ID)
	})
}

func descUUID(a, b uuid.UUID) bool {
	return bytes.Compare(a[:], b[:]) > 0
}

// cloneBlog copies a blog, including its image blob, so callers can never
// mutate stored state through a returned pointer.
func cloneBlog(blog *blogstore.Blog) *blogstore.Blog {
	c := *blog
	c.Image = cloneBytes(blog.Image)
	if blog.UpdatedAt != nil {
		t := *blog.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}

func clonePost(post *blogstore.Post) *blogstore.Post {
	c := *post
	c.Image = cloneBytes(post.Image)
	if post.Tags != nil {
		c.Tags = append([]string(nil), post.Tags...)
	}
	if post.UpdatedAt != nil {
		t := *post.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
