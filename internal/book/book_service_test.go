package book_test

import (
	"context"
	"testing"

	"bookvault/internal/book"
	"bookvault/tests/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupService(t *testing.T) (*book.BookService, func()) {
	factory, cleanup := testutils.SetupTestRepositoryFactory(t)
	return book.NewBookService(factory.NewBookRepository()), cleanup
}

func TestCreate(t *testing.T) {
	service, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		year := 1965
		created, err := service.Create(ctx, "Dune", "Herbert", &year)
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "Dune", created.Title)
		assert.Equal(t, "Herbert", created.Author)
		require.NotNil(t, created.PublishedYear)
		assert.Equal(t, 1965, *created.PublishedYear)
	})

	t.Run("WithoutYear", func(t *testing.T) {
		created, err := service.Create(ctx, "The Trial", "Kafka", nil)
		require.NoError(t, err)
		assert.Nil(t, created.PublishedYear)
	})

	t.Run("MissingTitle", func(t *testing.T) {
		_, err := service.Create(ctx, "", "Herbert", nil)
		assert.ErrorIs(t, err, book.ErrValidation)
	})

	t.Run("MissingAuthor", func(t *testing.T) {
		_, err := service.Create(ctx, "Dune", "", nil)
		assert.ErrorIs(t, err, book.ErrValidation)
	})
}

func TestList(t *testing.T) {
	service, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()

	books, err := service.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)

	titles := []string{"Dune", "Hyperion", "Solaris"}
	for _, title := range titles {
		_, err := service.Create(ctx, title, "Author", nil)
		require.NoError(t, err)
	}

	books, err = service.List(ctx)
	require.NoError(t, err)
	require.Len(t, books, 3)

	// Insertion order is preserved.
	for i, title := range titles {
		assert.Equal(t, title, books[i].Title)
	}
}
