package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bookshop/internal/events"
	"github.com/Skotchmaster/bookshop/internal/models"
	"github.com/Skotchmaster/bookshop/internal/repo"
	"github.com/Skotchmaster/bookshop/internal/repo/memory"
	"github.com/Skotchmaster/bookshop/internal/search"
	"github.com/Skotchmaster/bookshop/internal/tokens"
	"github.com/Skotchmaster/bookshop/internal/transport"
)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
	topics []string
	err    error
}

func (r *recorder) PublishEvent(_ context.Context, topic, _ string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.topics = append(r.topics, topic)
	r.events = append(r.events, event.(events.Event))
	return r.err
}

func (r *recorder) Close() error { return nil }

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

type env struct {
	store   repo.Store
	tokens  *tokens.Manager
	events  *recorder
	auth    *AuthService
	catalog *CatalogService
	reviews *ReviewService
	carts   *CartService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	tm, err := tokens.NewManager(tokens.Config{
		AccessSecret: []byte("access"),
		AccessTTL:    time.Minute,
		RefreshTTL:   time.Hour,
	})
	require.NoError(t, err)
	rec := &recorder{}

	return &env{
		store:   store,
		tokens:  tm,
		events:  rec,
		auth:    &AuthService{Users: store.Users, Tokens: tm, Events: rec},
		catalog: &CatalogService{Books: store.Books, Users: store.Users, Searcher: &search.Catalog{Books: store.Books}},
		reviews: &ReviewService{Books: store.Books, Reviews: store.Reviews, Events: rec},
		carts:   &CartService{Users: store.Users, Books: store.Books, Carts: store.Carts, Events: rec},
	}
}

func (e *env) register(t *testing.T, email, password string) *models.User {
	t.Helper()
	u, err := e.auth.Register(context.Background(), transport.RegisterRequest{Name: email, Email: email, Password: password})
	require.NoError(t, err)
	return u
}

func (e *env) book(t *testing.T, name string) *models.Book {
	t.Helper()
	b := &models.Book{Name: name, Author: "author", Price: 1}
	require.NoError(t, e.store.Books.Create(context.Background(), b))
	return b
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u := e.register(t, "x", "p")
	assert.Positive(t, u.ID)
	assert.NotEqual(t, "p", u.PasswordHash)
	assert.Equal(t, []string{events.UserRegistered}, e.events.types())
	assert.Equal(t, events.TopicUsers, e.events.topics[0])

	pair, err := e.auth.Login(ctx, "x", "p")
	require.NoError(t, err)
	id, err := e.tokens.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
	id, err = e.tokens.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	_, err = e.auth.Login(ctx, "x", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = e.auth.Login(ctx, "nobody", "p")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuth_RegisterErrors(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.register(t, "x", "p")

	_, err := e.auth.Register(ctx, transport.RegisterRequest{Name: "again", Email: "x", Password: "q"})
	require.ErrorIs(t, err, ErrConflict)

	_, err = e.auth.Register(ctx, transport.RegisterRequest{Email: "y", Password: "q"})
	require.ErrorIs(t, err, ErrValidation)

	pair, err := e.auth.Login(ctx, "x", "p")
	require.NoError(t, err, "original password still works after a rejected duplicate")
	assert.NotEmpty(t, pair.AccessToken)
}

func TestAuth_RegisterPublishFailureIsNotFatal(t *testing.T) {
	e := newEnv(t)
	e.events.err = errors.New("broker down")

	_, err := e.auth.Register(context.Background(), transport.RegisterRequest{Name: "x", Email: "x", Password: "p"})
	require.NoError(t, err)
}

func TestAuth_Refresh(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "x", "p")

	pair, err := e.auth.Login(ctx, "x", "p")
	require.NoError(t, err)

	res, err := e.auth.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, pair.RefreshToken, res.RefreshToken)
	id, err := e.tokens.VerifyAccess(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	_, err = e.auth.Refresh(ctx, pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
	_, err = e.auth.Refresh(ctx, pair.RefreshToken+"x")
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuth_ConcurrentRegistration(t *testing.T) {
	e := newEnv(t)
	const n = 8

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.auth.Register(context.Background(), transport.RegisterRequest{Name: "x", Email: "same", Password: "p"})
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrConflict)
	}
	assert.Equal(t, 1, ok)
}

func TestCatalog(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	b := e.book(t, "Граф Монте-Кристо")
	u := e.register(t, "x", "p")

	got, err := e.catalog.GetBook(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.Name, got.Name)

	_, err = e.catalog.GetBook(ctx, 999)
	require.ErrorIs(t, err, ErrNotFound)

	found, err := e.catalog.SearchBooks(ctx, "монте")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = e.catalog.SearchBooks(ctx, "  ")
	require.ErrorIs(t, err, ErrValidation)

	info, err := e.catalog.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserInfo{ID: u.ID, Name: "x"}, *info)

	_, err = e.catalog.GetUser(ctx, 999)
	require.ErrorIs(t, err, ErrNotFound)

	users, err := e.catalog.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestReviews(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	b := e.book(t, "A")
	author := e.register(t, "x", "p")
	other := e.register(t, "y", "p")

	none, err := e.reviews.ListByBook(ctx, b.ID)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	r, err := e.reviews.Submit(ctx, author.ID, b.ID, transport.SubmitReviewRequest{Rating: 5, Text: "great"})
	require.NoError(t, err)
	assert.Positive(t, r.ID)
	assert.Equal(t, author.ID, r.UserID)
	assert.Equal(t, b.ID, r.BookID)

	_, err = e.reviews.Submit(ctx, author.ID, 999, transport.SubmitReviewRequest{Rating: 5})
	require.ErrorIs(t, err, ErrNotFound)
	_, err = e.reviews.Submit(ctx, author.ID, b.ID, transport.SubmitReviewRequest{Rating: 9})
	require.ErrorIs(t, err, ErrValidation)

	_, err = e.reviews.Remove(ctx, other.ID, r.ID)
	require.ErrorIs(t, err, ErrForbidden)

	list, err := e.reviews.ListByBook(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1, "a forbidden removal leaves the review in place")

	removed, err := e.reviews.Remove(ctx, author.ID, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, removed.ID)

	_, err = e.reviews.Remove(ctx, author.ID, r.ID)
	require.ErrorIs(t, err, ErrNotFound)

	assert.Contains(t, e.events.types(), events.ReviewSubmitted)
	assert.Contains(t, e.events.types(), events.ReviewRemoved)
}

func TestCart(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	b := e.book(t, "A")
	u := e.register(t, "x", "p")
	other := e.register(t, "y", "p")

	_, err := e.carts.GetCart(ctx, u.ID, u.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = e.carts.IncreaseQuantity(ctx, u.ID, b.ID)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = e.carts.GetCart(ctx, u.ID, other.ID)
	require.ErrorIs(t, err, ErrForbidden)
	_, err = e.carts.AddToCart(ctx, u.ID, other.ID, b.ID)
	require.ErrorIs(t, err, ErrForbidden)
	_, err = e.carts.AddToCart(ctx, u.ID, u.ID, 999)
	require.ErrorIs(t, err, ErrNotFound)

	item, err := e.carts.AddToCart(ctx, u.ID, u.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)
	item, err = e.carts.AddToCart(ctx, u.ID, u.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)

	item, err = e.carts.IncreaseQuantity(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)

	for want := 2; want >= 1; want-- {
		item, err = e.carts.DecreaseQuantity(ctx, u.ID, b.ID)
		require.NoError(t, err)
		assert.Equal(t, want, item.Quantity)
	}
	_, err = e.carts.DecreaseQuantity(ctx, u.ID, b.ID)
	require.NoError(t, err)

	items, err := e.carts.GetCart(ctx, u.ID, u.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = e.carts.RemoveFromCart(ctx, u.ID, b.ID)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = e.carts.AddToCart(ctx, u.ID, u.ID, b.ID)
	require.NoError(t, err)
	item, err = e.carts.RemoveFromCart(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, item.BookID)

	assert.Contains(t, e.events.types(), events.CartItemAdded)
	assert.Contains(t, e.events.types(), events.CartItemRemoved)
	assert.Contains(t, e.events.types(), events.CartItemChanged)
}

func TestCart_UnknownUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	b := e.book(t, "A")

	_, err := e.carts.GetCart(ctx, 42, 42)
	require.ErrorIs(t, err, ErrValidation)
	_, err = e.carts.AddToCart(ctx, 42, 42, b.ID)
	require.ErrorIs(t, err, ErrValidation)
	_, err = e.carts.RemoveFromCart(ctx, 42, b.ID)
	require.ErrorIs(t, err, ErrValidation)
}
