package blogstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressline/blogstore/pkg/blogstore"
)

func TestParseReadyStatus(t *testing.T) {
	for _, raw := range []string{"draft", "submitted", "preproduction", "production_ready"} {
		status, err := blogstore.ParseReadyStatus(raw)
		require.NoError(t, err)
		assert.Equal(t, blogstore.ReadyStatus(raw), status)
		assert.True(t, status.Valid())
	}

	_, err := blogstore.ParseReadyStatus("published")
	assert.Error(t, err)
	assert.False(t, blogstore.ReadyStatus("").Valid())
}

func TestNewPage(t *testing.T) {
	post := func() *blogstore.Post { return &blogstore.Post{} }

	t.Run("MiddlePage", func(t *testing.T) {
		page := blogstore.NewPage([]*blogstore.Post{post(), post(), post(), post(), post()}, 2, 5, 12)
		assert.Equal(t, 2, page.PageNumber)
		assert.Equal(t, 3, page.TotalPages)
		assert.True(t, page.HasPrevious)
		assert.True(t, page.HasNext)
	})

	t.Run("SinglePage", func(t *testing.T) {
		page := blogstore.NewPage([]*blogstore.Post{post(), post()}, 1, 5, 2)
		assert.Equal(t, 1, page.TotalPages)
		assert.False(t, page.HasPrevious)
		assert.False(t, page.HasNext)
	})

	t.Run("ExactMultiple", func(t *testing.T) {
		page := blogstore.NewPage([]*blogstore.Post{post(), post(), post(), post(), post()}, 2, 5, 10)
		assert.Equal(t, 2, page.TotalPages)
		assert.False(t, page.HasNext)
	})

	t.Run("Empty", func(t *testing.T) {
		page := blogstore.NewPage(nil, 1, 5, 0)
		require.NotNil(t, page.Items)
		assert.Empty(t, page.Items)
		assert.Equal(t, 0, page.TotalPages)
		assert.False(t, page.HasPrevious)
		assert.False(t, page.HasNext)
	})
}
