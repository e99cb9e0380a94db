package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pressline/blogstore/pkg/blogstore"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements blogstore.Repository using PostgreSQL.
//
// Optimistic concurrency is a compare-and-swap on the version column: the
// UPDATE matches both id and the caller-loaded version and bumps the column,
// so a stale writer matches zero rows. Attachments live inline in BYTEA
// columns; posts are removed with their blog through the ON DELETE CASCADE
// foreign key.
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

func (r *Repository) handleError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.Contains(pgErr.ConstraintName, "blogs_name") {
				return blogstore.ErrDuplicateBlogName
			}
			if strings.Contains(pgErr.ConstraintName, "posts_blog_id_slug") {
				return blogstore.ErrDuplicateSlug
			}
			return fmt.Errorf("duplicate entry in %s: %s", operation, pgErr.ConstraintName)
		case "23503": // foreign_key_violation
			return blogstore.ErrBlogNotFound
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

// Blog operations

func (r *Repository) CreateBlog(ctx context.Context, blog *blogstore.Blog) error {
	query := `
		INSERT INTO blogs (
			id, owner_id, name, description, image, image_content_type,
			version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query,
		blog.ID, blog.OwnerID, blog.Name, blog.Description,
		blog.Image, blog.ImageContentType,
		blog.Version, blog.CreatedAt, blog.UpdatedAt)

	if err != nil {
		return r.handleError("create blog", err)
	}

	return nil
}

const blogColumns = `id, owner_id, name, description, image, image_content_type,
	version, created_at, updated_at`

func (r *Repository) GetBlog(ctx context.Context, id uuid.UUID) (*blogstore.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs WHERE id = $1`

	return r.scanBlog(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) GetBlogByName(ctx context.Context, name string) (*blogstore.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs WHERE lower(name) = lower($1)`

	return r.scanBlog(r.db.QueryRow(ctx, query, name))
}

func (r *Repository) scanBlog(row pgx.Row) (*blogstore.Blog, error) {
	var blog blogstore.Blog
	err := row.Scan(
		&blog.ID, &blog.OwnerID, &blog.Name, &blog.Description,
		&blog.Image, &blog.ImageContentType,
		&blog.Version, &blog.CreatedAt, &blog.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, blogstore.ErrBlogNotFound
		}
		return nil, r.handleError("get blog", err)
	}
	return &blog, nil
}

func (r *Repository) UpdateBlog(ctx context.Context, blog *blogstore.Blog, expectedVersion int64) error {
	query := `
		UPDATE blogs SET
			owner_id = $3, name = $4, description = $5, image = $6,
			image_content_type = $7, version = $8, updated_at = $9
		WHERE id = $1 AND version = $2`

	tag, err := r.db.Exec(ctx, query,
		blog.ID, expectedVersion,
		blog.OwnerID, blog.Name, blog.Description, blog.Image,
		blog.ImageContentType, blog.Version, blog.UpdatedAt)
	if err != nil {
		return r.handleError("update blog", err)
	}

	if tag.RowsAffected() == 0 {
		return r.resolveMissedWrite(ctx, "blogs", blog.ID)
	}

	return nil
}

// resolveMissedWrite distinguishes a version conflict from a vanished row
// after a CAS update matched nothing. A row that no longer exists is
// reported as not-found, never silently recreated.
func (r *Repository) resolveMissedWrite(ctx context.Context, table string, id uuid.UUID) error {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM ` + table + ` WHERE id = $1)`
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return r.handleError("resolve missed write", err)
	}
	if exists {
		return blogstore.ErrConflict
	}
	if table == "posts" {
		return blogstore.ErrPostNotFound
	}
	return blogstore.ErrBlogNotFound
}

func (r *Repository) DeleteBlog(ctx context.Context, id uuid.UUID) error {
	// Dependent posts go with the blog via the ON DELETE CASCADE constraint.
	tag, err := r.db.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return r.handleError("delete blog", err)
	}
	if tag.RowsAffected() == 0 {
		return blogstore.ErrBlogNotFound
	}
	return nil
}

func (r *Repository) ListBlogs(ctx context.Context) ([]*blogstore.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handleError("list blogs", err)
	}
	defer rows.Close()

	var blogs []*blogstore.Blog
	for rows.Next() {
		var blog blogstore.Blog
		if err := rows.Scan(
			&blog.ID, &blog.OwnerID, &blog.Name, &blog.Description,
			&blog.Image, &blog.ImageContentType,
			&blog.Version, &blog.CreatedAt, &blog.UpdatedAt); err != nil {
			return nil, r.handleError("list blogs", err)
		}
		blogs = append(blogs, &blog)
	}

	return blogs, rows.Err()
}

// Post operations

const postColumns = `id, blog_id, owner_id, title, abstract, content, slug,
	ready_status, tags, image, image_content_type, version, created_at, updated_at`

func (r *Repository) CreatePost(ctx context.Context, post *blogstore.Post) error {
	query := `
		INSERT INTO posts (
			id, blog_id, owner_id, title, abstract, content, slug,
			ready_status, tags, image, image_content_type,
			version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.Exec(ctx, query,
		post.ID, post.BlogID, post.OwnerID, post.Title, post.Abstract,
		post.Content, post.Slug, string(post.ReadyStatus), post.Tags,
		post.Image, post.ImageContentType,
		post.Version, post.CreatedAt, post.UpdatedAt)

	if err != nil {
		return r.handleError("create post", err)
	}

	return nil
}

func (r *Repository) GetPost(ctx context.Context, id uuid.UUID) (*blogstore.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	return r.scanPost(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) GetPostBySlug(ctx context.Context, blogID uuid.UUID, slug string) (*blogstore.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE blog_id = $1 AND slug = $2`

	return r.scanPost(r.db.QueryRow(ctx, query, blogID, slug))
}

func (r *Repository) scanPost(row pgx.Row) (*blogstore.Post, error) {
	var (
		post   blogstore.Post
		status string
	)
	err := row.Scan(
		&post.ID, &post.BlogID, &post.OwnerID, &post.Title, &post.Abstract,
		&post.Content, &post.Slug, &status, &post.Tags,
		&post.Image, &post.ImageContentType,
		&post.Version, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, blogstore.ErrPostNotFound
		}
		return nil, r.handleError("get post", err)
	}
	post.ReadyStatus = blogstore.ReadyStatus(status)
	return &post, nil
}

func (r *Repository) UpdatePost(ctx context.Context, post *blogstore.Post, expectedVersion int64) error {
	// blog_id is deliberately absent from the SET list: the owning blog
	// reference never changes.
	query := `
		UPDATE posts SET
			owner_id = $3, title = $4, abstract = $5, content = $6,
			slug = $7, ready_status = $8, tags = $9, image = $10,
			image_content_type = $11, version = $12, updated_at = $13
		WHERE id = $1 AND version = $2`

	tag, err := r.db.Exec(ctx, query,
		post.ID, expectedVersion,
		post.OwnerID, post.Title, post.Abstract, post.Content,
		post.Slug, string(post.ReadyStatus), post.Tags, post.Image,
		post.ImageContentType, post.Version, post.UpdatedAt)
	if err != nil {
		return r.handleError("update post", err)
	}

	if tag.RowsAffected() == 0 {
		return r.resolveMissedWrite(ctx, "posts", post.ID)
	}

	return nil
}

func (r *Repository) DeletePost(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return r.handleError("delete post", err)
	}
	if tag.RowsAffected() == 0 {
		return blogstore.ErrPostNotFound
	}
	return nil
}

func (r *Repository) ListPostsByBlog(ctx context.Context, blogID uuid.UUID) ([]*blogstore.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts
		WHERE blog_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, blogID)
	if err != nil {
		return nil, r.handleError("list posts", err)
	}
	defer rows.Close()

	return r.collectPosts(rows)
}

func (r *Repository) collectPosts(rows pgx.Rows) ([]*blogstore.Post, error) {
	var posts []*blogstore.Post
	for rows.Next() {
		var (
			post   blogstore.Post
			status string
		)
		if err := rows.Scan(
			&post.ID, &post.BlogID, &post.OwnerID, &post.Title, &post.Abstract,
			&post.Content, &post.Slug, &status, &post.Tags,
			&post.Image, &post.ImageContentType,
			&post.Version, &post.CreatedAt, &post.UpdatedAt); err != nil {
			return nil, r.handleError("scan post", err)
		}
		post.ReadyStatus = blogstore.ReadyStatus(status)
		posts = append(posts, &post)
	}
	return posts, rows.Err()
}

// Browsing queries

func (r *Repository) PagedPostsByCategory(ctx context.Context, category string, pageNumber, pageSize int) (*blogstore.Page, error) {
	countQuery := `
		SELECT count(*)
		FROM posts p
		JOIN blogs b ON b.id = p.blog_id
		WHERE lower(b.name) = lower($1) AND p.ready_status = $2`

	var total int
	err := r.db.QueryRow(ctx, countQuery, category, string(blogstore.ReadyStatusProductionReady)).Scan(&total)
	if err != nil {
		return nil, r.handleError("count posts by category", err)
	}

	query := `
		SELECT p.id, p.blog_id, p.owner_id, p.title, p.abstract, p.content,
			p.slug, p.ready_status, p.tags, p.image, p.image_content_type,
			p.version, p.created_at, p.updated_at
		FROM posts p
		JOIN blogs b ON b.id = p.blog_id
		WHERE lower(b.name) = lower($1) AND p.ready_status = $2
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $3 OFFSET $4`

	offset := (pageNumber - 1) * pageSize
	rows, err := r.db.Query(ctx, query,
		category, string(blogstore.ReadyStatusProductionReady), pageSize, offset)
	if err != nil {
		return nil, r.handleError("page posts by category", err)
	}
	defer rows.Close()

	posts, err := r.collectPosts(rows)
	if err != nil {
		return nil, err
	}

	return blogstore.NewPage(posts, pageNumber, pageSize, total), nil
}

func (r *Repository) DistinctCategories(ctx context.Context) ([]string, error) {
	// Blog names are unique case-insensitively, so grouping by blog already
	// deduplicates; first-seen order is the earliest qualifying post.
	query := `
		SELECT b.name
		FROM blogs b
		JOIN posts p ON p.blog_id = b.id
		WHERE p.ready_status = $1
		GROUP BY b.id, b.name
		ORDER BY min(p.created_at) ASC, b.id ASC`

	rows, err := r.db.Query(ctx, query, string(blogstore.ReadyStatusProductionReady))
	if err != nil {
		return nil, r.handleError("distinct categories", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, r.handleError("distinct categories", err)
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

func (r *Repository) TagCounts(ctx context.Context) ([]blogstore.TagCount, error) {
	query := `
		SELECT t.tag, count(*) AS n, min(p.created_at) AS first_seen
		FROM posts p
		CROSS JOIN LATERAL unnest(p.tags) AS t(tag)
		GROUP BY t.tag
		ORDER BY n DESC, first_seen ASC, t.tag ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handleError("tag counts", err)
	}
	defer rows.Close()

	var counts []blogstore.TagCount
	for rows.Next() {
		var tc blogstore.TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count, &tc.FirstSeen); err != nil {
			return nil, r.handleError("tag counts", err)
		}
		counts = append(counts, tc)
	}

	return counts, rows.Err()
}
