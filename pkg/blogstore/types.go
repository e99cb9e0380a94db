package blogstore

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReadyStatus is the editorial readiness of a post. Only production-ready
// posts are eligible for public category listings.
type ReadyStatus string

// Ready status constants (typed).
const (
	ReadyStatusDraft           ReadyStatus = "draft"
	ReadyStatusSubmitted       ReadyStatus = "submitted"
	ReadyStatusPreproduction   ReadyStatus = "preproduction"
	ReadyStatusProductionReady ReadyStatus = "production_ready"
)

// Valid reports whether s is one of the enumerated ready statuses.
func (s ReadyStatus) Valid() bool {
	switch s {
	case ReadyStatusDraft, ReadyStatusSubmitted, ReadyStatusPreproduction, ReadyStatusProductionReady:
		return true
	}
	return false
}

// ParseReadyStatus converts a raw string into a ReadyStatus.
func ParseReadyStatus(raw string) (ReadyStatus, error) {
	s := ReadyStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown ready status %q", raw)
	}
	return s, nil
}

// Blog is a named content channel owning zero or more posts.
//
// Version is the optimistic-concurrency token: it starts at 1 and is
// incremented on every successful update. Callers must pass the version they
// loaded back into update requests.
type Blog struct {
	ID               uuid.UUID  `json:"id"`
	OwnerID          string     `json:"owner_id"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	Image            []byte     `json:"-"`
	ImageContentType string     `json:"image_content_type,omitempty"`
	Version          int64      `json:"version"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

// Post is an article belonging to exactly one blog. UpdatedAt stays nil
// until the first successful edit; CreatedAt never changes after creation.
type Post struct {
	ID               uuid.UUID   `json:"id"`
	BlogID           uuid.UUID   `json:"blog_id"`
	OwnerID          string      `json:"owner_id"`
	Title            string      `json:"title"`
	Abstract         string      `json:"abstract,omitempty"`
	Content          string      `json:"content"`
	Slug             string      `json:"slug"`
	ReadyStatus      ReadyStatus `json:"ready_status"`
	Tags             []string    `json:"tags,omitempty"`
	Image            []byte      `json:"-"`
	ImageContentType string      `json:"image_content_type,omitempty"`
	Version          int64       `json:"version"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        *time.Time  `json:"updated_at,omitempty"`
}

// Page is one page of a paginated post listing.
type Page struct {
	Items       []*Post `json:"items"`
	PageNumber  int     `json:"page_number"`
	PageSize    int     `json:"page_size"`
	TotalItems  int     `json:"total_items"`
	TotalPages  int     `json:"total_pages"`
	HasPrevious bool    `json:"has_previous"`
	HasNext     bool    `json:"has_next"`
}

// NewPage assembles a Page from a slice of items already cut to the page
// window. A category with zero matches yields a valid empty page.
func NewPage(items []*Post, pageNumber, pageSize, totalItems int) *Page {
	if items == nil {
		items = []*Post{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = (totalItems + pageSize - 1) / pageSize
	}
	return &Page{
		Items:       items,
		PageNumber:  pageNumber,
		PageSize:    pageSize,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		HasPrevious: pageNumber > 1,
		HasNext:     pageNumber < totalPages,
	}
}

// TagCount is the usage frequency of a single tag. FirstSeen is the creation
// time of the earliest post carrying the tag and breaks frequency ties.
type TagCount struct {
	Tag       string    `json:"tag"`
	Count     int       `json:"count"`
	FirstSeen time.Time `json:"first_seen"`
}
