package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressline/blogstore/pkg/blogstore"
)

func newBlog(name string, createdAt time.Time) *blogstore.Blog {
	return &blogstore.Blog{
		ID:          uuid.New(),
		OwnerID:     "owner",
		Name:        name,
		Description: "desc",
		Version:     1,
		CreatedAt:   createdAt,
	}
}

func newPost(blogID uuid.UUID, title string, status blogstore.ReadyStatus, createdAt time.Time, tags ...string) *blogstore.Post {
	return &blogstore.Post{
		ID:          uuid.New(),
		BlogID:      blogID,
		OwnerID:     "owner",
		Title:       title,
		Content:     "body",
		Slug:        blogstore.Slugify(title),
		ReadyStatus: status,
		Tags:        tags,
		Version:     1,
		CreatedAt:   createdAt,
	}
}

func TestBlogCRUD(t *testing.T) {
	repo := New()
	ctx := context.Background()
	now := time.Now().UTC()

	blog := newBlog("Channel", now)
	require.NoError(t, repo.CreateBlog(ctx, blog))

	t.Run("DuplicateNameRejected", func(t *testing.T) {
		dup := newBlog("CHANNEL", now)
		assert.ErrorIs(t, repo.CreateBlog(ctx, dup), blogstore.ErrDuplicateBlogName)
	})

	t.Run("GetByName", func(t *testing.T) {
		got, err := repo.GetBlogByName(ctx, "channel")
		require.NoError(t, err)
		assert.Equal(t, blog.ID, got.ID)
	})

	t.Run("UpdateCAS", func(t *testing.T) {
		next := *blog
		next.Description = "edited"
		next.Version = 2
		require.NoError(t, repo.UpdateBlog(ctx, &next, 1))

		stale := *blog
		stale.Description = "stale edit"
		stale.Version = 2
		assert.ErrorIs(t, repo.UpdateBlog(ctx, &stale, 1), blogstore.ErrConflict)

		got, err := repo.GetBlog(ctx, blog.ID)
		require.NoError(t, err)
		assert.Equal(t, "edited", got.Description)
		assert.Equal(t, int64(2), got.Version)
	})

	t.Run("RenameMovesNameIndex", func(t *testing.T) {
		renamed := *blog
		renamed.Name = "Renamed Channel"
		renamed.Version = 3
		require.NoError(t, repo.UpdateBlog(ctx, &renamed, 2))

		_, err := repo.GetBlogByName(ctx, "Channel")
		assert.ErrorIs(t, err, blogstore.ErrBlogNotFound)

		got, err := repo.GetBlogByName(ctx, "renamed channel")
		require.NoError(t, err)
		assert.Equal(t, blog.ID, got.ID)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteBlog(ctx, blog.ID))
		_, err := repo.GetBlog(ctx, blog.ID)
		assert.ErrorIs(t, err, blogstore.ErrBlogNotFound)
		assert.ErrorIs(t, repo.DeleteBlog(ctx, blog.ID), blogstore.ErrBlogNotFound)
	})
}

func TestCopyIsolation(t *testing.T) {
	repo := New()
	ctx := context.Background()
	now := time.Now().UTC()

	blog := newBlog("Isolated", now)
	blog.Image = []byte{1, 2, 3}
	require.NoError(t, repo.CreateBlog(ctx, blog))

	// Mutating the caller's copy after the write must not leak into storage.
	blog.Image[0] = 9
	blog.Name = "Tampered"

	stored, err := repo.GetBlog(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, stored.Image)
	assert.Equal(t, "Isolated", stored.Name)

	// Mutating a read result must not change what the next read sees.
	stored.Image[1] = 9
	again, err := repo.GetBlog(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, again.Image)

	post := newPost(blog.ID, "Isolated Post", blogstore.ReadyStatusDraft, now, "a", "b")
	require.NoError(t, repo.CreatePost(ctx, post))
	post.Tags[0] = "mutated"

	storedPost, err := repo.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, storedPost.Tags)
}

func TestPostCRUD(t *testing.T) {
	repo := New()
	ctx := context.Background()
	now := time.Now().UTC()

	blog := newBlog("Home", now)
	require.NoError(t, repo.CreateBlog(ctx, blog))

	t.Run("CreateRequiresBlog", func(t *testing.T) {
		orphan := newPost(uuid.New(), "Orphan", blogstore.ReadyStatusDraft, now)
		assert.ErrorIs(t, repo.CreatePost(ctx, orphan), blogstore.ErrBlogNotFound)
	})

	post := newPost(blog.ID, "First", blogstore.ReadyStatusDraft, now)
	require.NoError(t, repo.CreatePost(ctx, post))

	t.Run("DuplicateSlugWithinBlog", func(t *testing.T) {
		dup := newPost(blog.ID, "First", blogstore.ReadyStatusDraft, now)
		assert.ErrorIs(t, repo.CreatePost(ctx, dup), blogstore.ErrDuplicateSlug)
	})

	t.Run("SameSlugInAnotherBlog", func(t *testing.T) {
		other := newBlog("Elsewhere", now)
		require.NoError(t, repo.CreateBlog(ctx, other))
		elsewhere := newPost(other.ID, "First", blogstore.ReadyStatusDraft, now)
		assert.NoError(t, repo.CreatePost(ctx, elsewhere))
	})

	t.Run("GetBySlug", func(t *testing.T) {
		got, err := repo.GetPostBySlug(ctx, blog.ID, "first")
		require.NoError(t, err)
		assert.Equal(t, post.ID, got.ID)
	})

	t.Run("UpdateCAS", func(t *testing.T) {
		next := *post
		next.Content = "edited"
		next.Version = 2
		require.NoError(t, repo.UpdatePost(ctx, &next, 1))

		stale := *post
		stale.Version = 2
		assert.ErrorIs(t, repo.UpdatePost(ctx, &stale, 1), blogstore.ErrConflict)
	})

	t.Run("UpdateRejectsBlogMove", func(t *testing.T) {
		other := newBlog("Target", now)
		require.NoError(t, repo.CreateBlog(ctx, other))

		moved := *post
		moved.BlogID = other.ID
		moved.Version = 3
		assert.Error(t, repo.UpdatePost(ctx, &moved, 2))
	})

	t.Run("RetitleMovesSlugIndex", func(t *testing.T) {
		renamed := *post
		renamed.Title = "Second"
		renamed.Slug = "second"
		renamed.Version = 3
		require.NoError(t, repo.UpdatePost(ctx, &renamed, 2))

		_, err := repo.GetPostBySlug(ctx, blog.ID, "first")
		assert.ErrorIs(t, err, blogstore.ErrPostNotFound)

		got, err := repo.GetPostBySlug(ctx, blog.ID, "second")
		require.NoError(t, err)
		assert.Equal(t, post.ID, got.ID)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.DeletePost(ctx, post.ID))
		_, err := repo.GetPost(ctx, post.ID)
		assert.ErrorIs(t, err, blogstore.ErrPostNotFound)
	})
}

func TestCascadeDelete(t *testing.T) {
	repo := New()
	ctx := context.Background()
	now := time.Now().UTC()

	blog := newBlog("Doomed", now)
	require.NoError(t, repo.CreateBlog(ctx, blog))

	survivorBlog := newBlog("Survivor", now)
	require.NoError(t, repo.CreateBlog(ctx, survivorBlog))

	doomed := newPost(blog.ID, "Goes Away", blogstore.ReadyStatusDraft, now)
	require.NoError(t, repo.CreatePost(ctx, doomed))
	survivor := newPost(survivorBlog.ID, "Stays", blogstore.ReadyStatusDraft, now)
	require.NoError(t, repo.CreatePost(ctx, survivor))

	require.NoError(t, repo.DeleteBlog(ctx, blog.ID))

	_, err := repo.GetPost(ctx, doomed.ID)
	assert.ErrorIs(t, err, blogstore.ErrPostNotFound)

	// The slug index slot is released along with the post.
	recreated := newBlog("Doomed", now)
	require.NoError(t, repo.CreateBlog(ctx, recreated))

	_, err = repo.GetPost(ctx, survivor.ID)
	assert.NoError(t, err)
}

func TestPagedPostsByCategory(t *testing.T) {
	repo := New()
	ctx := context.Background()
	base := time.Now().UTC()

	blog := newBlog("Paged", base)
	require.NoError(t, repo.CreateBlog(ctx, blog))

	for i := 0; i < 7; i++ {
		post := newPost(blog.ID, fmt.Sprintf("Ready %d", i), blogstore.ReadyStatusProductionReady, base.Add(time.Duration(i)*time.Second))
		require.NoError(t, repo.CreatePost(ctx, post))
	}
	draft := newPost(blog.ID, "Draft", blogstore.ReadyStatusDraft, base.Add(time.Hour))
	require.NoError(t, repo.CreatePost(ctx, draft))

	t.Run("WindowAndTotals", func(t *testing.T) {
		page, err := repo.PagedPostsByCategory(ctx, "paged", 1, 5)
		require.NoError(t, err)
		assert.Len(t, page.Items, 5)
		assert.Equal(t, 7, page.TotalItems)
		assert.Equal(t, 2, page.TotalPages)
		assert.Equal(t, "Ready 6", page.Items[0].Title, "newest post leads the first page")

		page, err = repo.PagedPostsByCategory(ctx, "paged", 2, 5)
		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
		assert.Equal(t, "Ready 0", page.Items[1].Title)
	})

	t.Run("PageBeyondEnd", func(t *testing.T) {
		page, err := repo.PagedPostsByCategory(ctx, "paged", 9, 5)
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Equal(t, 7, page.TotalItems)
	})

	t.Run("UnknownCategory", func(t *testing.T) {
		page, err := repo.PagedPostsByCategory(ctx, "missing", 1, 5)
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Equal(t, 0, page.TotalItems)
	})
}

func TestFacetQueries(t *testing.T) {
	repo := New()
	ctx := context.Background()
	base := time.Now().UTC()

	early := newBlog("Early", base)
	late := newBlog("Late", base)
	quiet := newBlog("Quiet", base)
	for _, b := range []*blogstore.Blog{early, late, quiet} {
		require.NoError(t, repo.CreateBlog(ctx, b))
	}

	require.NoError(t, repo.CreatePost(ctx, newPost(early.ID, "E1", blogstore.ReadyStatusProductionReady, base, "go", "db")))
	require.NoError(t, repo.CreatePost(ctx, newPost(late.ID, "L1", blogstore.ReadyStatusProductionReady, base.Add(time.Minute), "go")))
	require.NoError(t, repo.CreatePost(ctx, newPost(quiet.ID, "Q1", blogstore.ReadyStatusDraft, base.Add(2*time.Minute), "go", "quietude")))

	t.Run("DistinctCategories", func(t *testing.T) {
		categories, err := repo.DistinctCategories(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Early", "Late"}, categories)
	})

	t.Run("TagCounts", func(t *testing.T) {
		counts, err := repo.TagCounts(ctx)
		require.NoError(t, err)
		require.Len(t, counts, 3)

		// Tags on drafts still count; ordering is frequency, then first seen.
		assert.Equal(t, "go", counts[0].Tag)
		assert.Equal(t, 3, counts[0].Count)
		assert.Equal(t, "db", counts[1].Tag)
		assert.Equal(t, "quietude", counts[2].Tag)
	})
}
