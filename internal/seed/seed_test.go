package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bookshop/internal/hash"
	"github.com/Skotchmaster/bookshop/internal/repo/memory"
)

func TestRun(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, Run(ctx, s))

	books, err := s.Books.List(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 6)

	a, err := s.Users.FindByEmail(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Astronomax", a.Name)
	assert.NotEqual(t, "a", a.PasswordHash)
	assert.True(t, hash.CheckPassword(a.PasswordHash, "a"))

	reviews, err := s.Reviews.ListByBook(ctx, books[0].ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, a.ID, reviews[0].UserID)

	reviews, err = s.Reviews.ListByBook(ctx, books[2].ID)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}
