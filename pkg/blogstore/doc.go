// Package blogstore is the content store and retrieval engine for a
// blogging platform: durable Blog and Post storage with optimistic
// concurrency, inline image attachments, and the paginated category/tag
// index used for browsing.
//
// The package is a library-level contract. The surrounding web layer
// (routing, rendering, authentication) is expected to call into it, thread
// the acting identity through explicitly, and interpret the typed errors:
// ValidationError for malformed input, ErrBlogNotFound/ErrPostNotFound for
// absent entities, ErrConflict when an optimistic check fails, and
// AttachmentError for attachment I/O failures.
//
// Construct a Service with a Repository implementation:
//
//	repo := memory.New()
//	svc, err := blogstore.New(
//		blogstore.WithRepository(repo),
//		blogstore.WithImageCodec(blogstore.ImageCodec{MaxBytes: blogstore.DefaultMaxImageBytes}),
//	)
package blogstore
