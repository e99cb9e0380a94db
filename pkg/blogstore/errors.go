package blogstore

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrBlogNotFound indicates a blog was not found
	ErrBlogNotFound = errors.New("blog not found")

	// ErrPostNotFound indicates a post was not found
	ErrPostNotFound = errors.New("post not found")

	// ErrConflict indicates an optimistic-concurrency check failed: the
	// record was modified after the caller loaded it. The caller decides
	// whether to re-fetch and retry or abort; the store never auto-merges.
	ErrConflict = errors.New("concurrent modification detected")

	// ErrDuplicateBlogName indicates the blog name is already in use
	// (names are compared case-insensitively)
	ErrDuplicateBlogName = errors.New("blog name already in use")

	// ErrDuplicateSlug indicates another post in the same blog already
	// uses the derived slug
	ErrDuplicateSlug = errors.New("slug already in use within blog")
)

// ValidationError represents malformed or missing required input. It is
// always locally recoverable: the caller corrects the input and retries.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// BlogError represents an error related to blog operations
type BlogError struct {
	BlogID uuid.UUID
	Op     string
	Err    error
}

func (e *BlogError) Error() string {
	return fmt.Sprintf("blog operation %s failed for blog %s: %v", e.Op, e.BlogID, e.Err)
}

func (e *BlogError) Unwrap() error {
	return e.Err
}

// PostError represents an error related to post operations
type PostError struct {
	PostID uuid.UUID
	Op     string
	Err    error
}

func (e *PostError) Error() string {
	return fmt.Sprintf("post operation %s failed for post %s: %v", e.Op, e.PostID, e.Err)
}

func (e *PostError) Unwrap() error {
	return e.Err
}

// AttachmentError represents a failure to read or persist an attachment
// stream. It is surfaced as a fatal operation failure, never swallowed.
type AttachmentError struct {
	Op  string
	Err error
}

func (e *AttachmentError) Error() string {
	return fmt.Sprintf("attachment operation %s failed: %v", e.Op, e.Err)
}

func (e *AttachmentError) Unwrap() error {
	return e.Err
}
