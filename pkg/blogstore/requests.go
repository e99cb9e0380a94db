package blogstore

import (
	"fmt"
	"io"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Request DTOs
//
// The acting identity is always an explicit OwnerID parameter supplied by
// the caller; the store never derives it from ambient state. On updates the
// supplied OwnerID becomes the record's owner reference (the acting editor,
// not necessarily the original owner).

// CreateBlogRequest contains parameters for creating a blog
type CreateBlogRequest struct {
	OwnerID          string
	Name             string
	Description      string
	Image            io.Reader
	ImageContentType string
}

func (r CreateBlogRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OwnerID, validation.Required.Error("owner id is required")),
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 100),
		),
		validation.Field(&r.Description,
			validation.Required.Error("description is required"),
			validation.Length(1, 500),
		),
	)
}

// UpdateBlogRequest contains parameters for updating a blog. Version must be
// the version the caller loaded; a stale value yields ErrConflict. When
// NewImage is nil the stored image and content type are preserved.
type UpdateBlogRequest struct {
	ID                  uuid.UUID
	Version             int64
	OwnerID             string
	Name                string
	Description         string
	NewImage            io.Reader
	NewImageContentType string
}

func (r UpdateBlogRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required.Error("blog id is required")),
		validation.Field(&r.Version,
			validation.Required.Error("version is required"),
			validation.Min(int64(1)).Error("version must be positive"),
		),
		validation.Field(&r.OwnerID, validation.Required.Error("owner id is required")),
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 100),
		),
		validation.Field(&r.Description,
			validation.Required.Error("description is required"),
			validation.Length(1, 500),
		),
	)
}

// CreatePostRequest contains parameters for creating a post. ReadyStatus
// left empty defaults to draft. The slug is derived from the title.
type CreatePostRequest struct {
	BlogID           uuid.UUID
	OwnerID          string
	Title            string
	Abstract         string
	Content          string
	ReadyStatus      ReadyStatus
	Tags             []string
	Image            io.Reader
	ImageContentType string
}

func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BlogID, validation.Required.Error("blog id is required")),
		validation.Field(&r.OwnerID, validation.Required.Error("owner id is required")),
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 200),
		),
		validation.Field(&r.Content, validation.Required.Error("content is required")),
		validation.Field(&r.ReadyStatus, validation.By(validReadyStatus)),
		validation.Field(&r.Tags, validation.Each(validation.Required.Error("empty tag is not allowed"))),
	)
}

// UpdatePostRequest contains parameters for updating a post. The owning blog
// reference cannot be changed, so the request carries no blog ID. ReadyStatus
// left empty keeps the stored status.
type UpdatePostRequest struct {
	ID                  uuid.UUID
	Version             int64
	OwnerID             string
	Title               string
	Abstract            string
	Content             string
	ReadyStatus         ReadyStatus
	Tags                []string
	NewImage            io.Reader
	NewImageContentType string
}

func (r UpdatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required.Error("post id is required")),
		validation.Field(&r.Version,
			validation.Required.Error("version is required"),
			validation.Min(int64(1)).Error("version must be positive"),
		),
		validation.Field(&r.OwnerID, validation.Required.Error("owner id is required")),
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 200),
		),
		validation.Field(&r.Content, validation.Required.Error("content is required")),
		validation.Field(&r.ReadyStatus, validation.By(validReadyStatus)),
		validation.Field(&r.Tags, validation.Each(validation.Required.Error("empty tag is not allowed"))),
	)
}

// PagedPostsRequest contains parameters for a paginated category listing.
// Page defaults to 1 and is clamped to at least 1; the page size is a store
// configuration constant, not caller-supplied.
type PagedPostsRequest struct {
	Category string
	Page     int
}

func (r PagedPostsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Category, validation.Required.Error("category is required")),
	)
}

func validReadyStatus(value interface{}) error {
	s, _ := value.(ReadyStatus)
	if s == "" || s.Valid() {
		return nil
	}
	return fmt.Errorf("unknown ready status %q", string(s))
}
