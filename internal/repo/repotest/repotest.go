// Package repotest holds the behaviour every repo.Store implementation must
// share. Store packages call Run from their own tests.
package repotest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bookshop/internal/models"
	"github.com/Skotchmaster/bookshop/internal/repo"
)

func Run(t *testing.T, newStore func(t *testing.T) repo.Store) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("users concurrent create", func(t *testing.T) { testUsersConcurrent(t, newStore(t)) })
	t.Run("books", func(t *testing.T) { testBooks(t, newStore(t)) })
	t.Run("reviews", func(t *testing.T) { testReviews(t, newStore(t)) })
	t.Run("carts", func(t *testing.T) { testCarts(t, newStore(t)) })
	t.Run("carts concurrent add", func(t *testing.T) { testCartsConcurrent(t, newStore(t)) })
}

func testUsers(t *testing.T, s repo.Store) {
	ctx := context.Background()

	x := &models.User{Email: "x", PasswordHash: "h1", Name: "X"}
	y := &models.User{Email: "y", PasswordHash: "h2", Name: "Y", Image: "y.png"}
	require.NoError(t, s.Users.Create(ctx, x))
	require.NoError(t, s.Users.Create(ctx, y))
	assert.Positive(t, x.ID)
	assert.Greater(t, y.ID, x.ID)

	err := s.Users.Create(ctx, &models.User{Email: "x", PasswordHash: "h3", Name: "other"})
	require.ErrorIs(t, err, repo.ErrAlreadyExists)

	got, err := s.Users.FindByEmail(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, x.ID, got.ID)
	assert.Equal(t, "h1", got.PasswordHash)

	_, err = s.Users.FindByEmail(ctx, "nobody")
	require.ErrorIs(t, err, repo.ErrNotFound)

	got, err = s.Users.Get(ctx, y.ID)
	require.NoError(t, err)
	assert.Equal(t, "y.png", got.Image)

	_, err = s.Users.Get(ctx, 999)
	require.ErrorIs(t, err, repo.ErrNotFound)

	all, err := s.Users.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "X", all[0].Name)
	assert.Equal(t, "Y", all[1].Name)
}

func testUsersConcurrent(t *testing.T, s repo.Store) {
	ctx := context.Background()
	const n = 20

	var wg sync.WaitGroup
	ids := make([]int64, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u := &models.User{Email: fmt.Sprintf("user%d", i), PasswordHash: "h", Name: "u"}
			errs[i] = s.Users.Create(ctx, u)
			ids[i] = u.ID
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool, n)
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.False(t, seen[ids[i]], "duplicate id %d", ids[i])
		seen[ids[i]] = true
	}

	var ok, conflict int
	var mu sync.Mutex
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Users.Create(ctx, &models.User{Email: "same", PasswordHash: "h", Name: "s"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case assert.ErrorIs(t, err, repo.ErrAlreadyExists):
				conflict++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflict)
}

func testBooks(t *testing.T, s repo.Store) {
	ctx := context.Background()

	a := &models.Book{Name: "A", Price: 10, Author: "Alice"}
	b := &models.Book{Name: "B", Price: 12.5, Author: "Bob", Image: "b.png"}
	require.NoError(t, s.Books.Create(ctx, a))
	require.NoError(t, s.Books.Create(ctx, b))
	assert.NotEqual(t, a.ID, b.ID)

	got, err := s.Books.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, *b, *got)

	_, err = s.Books.Get(ctx, 404)
	require.ErrorIs(t, err, repo.ErrNotFound)

	all, err := s.Books.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "A", all[0].Name)
}

func testReviews(t *testing.T, s repo.Store) {
	ctx := context.Background()

	none, err := s.Reviews.ListByBook(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, none)

	r1 := &models.Review{Rating: 5, Text: "great", BookID: 1, UserID: 1}
	r2 := &models.Review{Rating: 2, Text: "meh", BookID: 1, UserID: 2}
	r3 := &models.Review{Rating: 4, Text: "fine", BookID: 2, UserID: 1}
	for _, r := range []*models.Review{r1, r2, r3} {
		require.NoError(t, s.Reviews.Create(ctx, r))
	}
	assert.Greater(t, r2.ID, r1.ID)

	byBook, err := s.Reviews.ListByBook(ctx, 1)
	require.NoError(t, err)
	require.Len(t, byBook, 2)
	assert.Equal(t, r1.ID, byBook[0].ID)
	assert.Equal(t, r2.ID, byBook[1].ID)

	got, err := s.Reviews.Get(ctx, r3.ID)
	require.NoError(t, err)
	assert.Equal(t, *r3, *got)

	require.NoError(t, s.Reviews.Delete(ctx, r1.ID))
	_, err = s.Reviews.Get(ctx, r1.ID)
	require.ErrorIs(t, err, repo.ErrNotFound)
	require.ErrorIs(t, s.Reviews.Delete(ctx, r1.ID), repo.ErrNotFound)

	byBook, err = s.Reviews.ListByBook(ctx, 1)
	require.NoError(t, err)
	require.Len(t, byBook, 1)
	assert.Equal(t, r2.ID, byBook[0].ID)
}

func testCarts(t *testing.T, s repo.Store) {
	ctx := context.Background()

	_, err := s.Carts.List(ctx, 1)
	require.ErrorIs(t, err, repo.ErrNotFound)

	item, err := s.Carts.Add(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)

	item, err = s.Carts.Add(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)

	item, err = s.Carts.Increase(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)

	_, err = s.Carts.Add(ctx, 1, 11)
	require.NoError(t, err)

	items, err := s.Carts.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(10), items[0].BookID)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, int64(11), items[1].BookID)

	_, err = s.Carts.List(ctx, 2)
	require.ErrorIs(t, err, repo.ErrNotFound, "carts are per user")

	item, removed, err := s.Carts.Decrease(ctx, 1, 10)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 2, item.Quantity)

	item, removed, err = s.Carts.Decrease(ctx, 1, 11)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, int64(11), item.BookID)

	_, _, err = s.Carts.Decrease(ctx, 1, 11)
	require.ErrorIs(t, err, repo.ErrNotFound)
	_, err = s.Carts.Increase(ctx, 1, 11)
	require.ErrorIs(t, err, repo.ErrNotFound)
	_, err = s.Carts.Increase(ctx, 2, 10)
	require.ErrorIs(t, err, repo.ErrNotFound)

	item, err = s.Carts.Remove(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
	_, err = s.Carts.Remove(ctx, 1, 10)
	require.ErrorIs(t, err, repo.ErrNotFound)

	items, err = s.Carts.List(ctx, 1)
	require.NoError(t, err, "an emptied cart still exists")
	assert.Empty(t, items)
}

func testCartsConcurrent(t *testing.T, s repo.Store) {
	ctx := context.Background()
	const n = 50

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Carts.Add(ctx, 7, 3)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	items, err := s.Carts.List(ctx, 7)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, n, items[0].Quantity)
}
