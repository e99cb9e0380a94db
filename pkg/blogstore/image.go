package blogstore

import (
	"fmt"
	"io"
	"net/http"
)

// DefaultMaxImageBytes is the default attachment size cap (5 MiB).
const DefaultMaxImageBytes = 5 << 20

// ImageCodec converts an uploaded binary stream into a storable byte blob
// plus a content-type tag. Attachments are stored inline, so the full stream
// is read into memory.
type ImageCodec struct {
	// MaxBytes caps the accepted attachment size. Zero means no cap.
	MaxBytes int64
}

// Encode reads the full input stream and returns the blob together with its
// content type. The declared media type is recorded verbatim; the blob is
// only sniffed when the caller declared none. A short read or stream failure
// surfaces as an AttachmentError.
func (c ImageCodec) Encode(r io.Reader, declaredType string) ([]byte, string, error) {
	if r == nil {
		return nil, "", nil
	}

	var (
		data []byte
		err  error
	)
	if c.MaxBytes > 0 {
		// Read one byte past the cap so an oversized stream is detectable
		// without buffering it whole.
		data, err = io.ReadAll(io.LimitReader(r, c.MaxBytes+1))
	} else {
		data, err = io.ReadAll(r)
	}
	if err != nil {
		return nil, "", &AttachmentError{Op: "encode", Err: err}
	}
	if c.MaxBytes > 0 && int64(len(data)) > c.MaxBytes {
		return nil, "", &ValidationError{Err: fmt.Errorf("attachment exceeds %d bytes", c.MaxBytes)}
	}

	return data, c.ContentType(declaredType, data), nil
}

// ContentType resolves the content-type tag for an attachment. The declared
// type wins when present; otherwise the blob prefix is sniffed.
func (c ImageCodec) ContentType(declaredType string, data []byte) string {
	if declaredType != "" {
		return declaredType
	}
	if len(data) == 0 {
		return ""
	}
	return http.DetectContentType(data)
}
