package blogstore_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressline/blogstore/pkg/blogstore"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("stream torn down")
}

func TestImageCodecEncode(t *testing.T) {
	t.Run("NilReader", func(t *testing.T) {
		data, contentType, err := blogstore.ImageCodec{}.Encode(nil, "image/png")
		require.NoError(t, err)
		assert.Nil(t, data)
		assert.Empty(t, contentType)
	})

	t.Run("DeclaredTypeWins", func(t *testing.T) {
		// The payload is plain text, but the declared type is recorded verbatim.
		data, contentType, err := blogstore.ImageCodec{}.Encode(strings.NewReader("not really an image"), "image/png")
		require.NoError(t, err)
		assert.Equal(t, []byte("not really an image"), data)
		assert.Equal(t, "image/png", contentType)
	})

	t.Run("SniffsWhenUndeclared", func(t *testing.T) {
		png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}
		data, contentType, err := blogstore.ImageCodec{}.Encode(bytes.NewReader(png), "")
		require.NoError(t, err)
		assert.Equal(t, png, data)
		assert.Equal(t, "image/png", contentType)
	})

	t.Run("WithinCap", func(t *testing.T) {
		codec := blogstore.ImageCodec{MaxBytes: 16}
		data, _, err := codec.Encode(strings.NewReader("0123456789abcdef"), "image/gif")
		require.NoError(t, err)
		assert.Len(t, data, 16)
	})

	t.Run("OverCap", func(t *testing.T) {
		codec := blogstore.ImageCodec{MaxBytes: 8}
		_, _, err := codec.Encode(strings.NewReader("nine bytes"), "image/gif")

		var verr *blogstore.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("ZeroCapMeansUnlimited", func(t *testing.T) {
		payload := bytes.Repeat([]byte{0xff}, 1<<16)
		data, _, err := blogstore.ImageCodec{}.Encode(bytes.NewReader(payload), "image/jpeg")
		require.NoError(t, err)
		assert.Len(t, data, 1<<16)
	})

	t.Run("ReadFailure", func(t *testing.T) {
		_, _, err := blogstore.ImageCodec{}.Encode(failingReader{}, "image/png")

		var aerr *blogstore.AttachmentError
		require.ErrorAs(t, err, &aerr)
		assert.Equal(t, "encode", aerr.Op)
	})
}

func TestImageCodecContentType(t *testing.T) {
	codec := blogstore.ImageCodec{}

	assert.Equal(t, "image/webp", codec.ContentType("image/webp", []byte("whatever")))
	assert.Equal(t, "", codec.ContentType("", nil))

	jpeg := []byte{0xff, 0xd8, 0xff, 0xe0, 0, 0, 0, 0}
	assert.Equal(t, "image/jpeg", codec.ContentType("", jpeg))
}
