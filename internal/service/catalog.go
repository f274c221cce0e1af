package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/bookshop/internal/models"
	"github.com/Skotchmaster/bookshop/internal/repo"
	"github.com/Skotchmaster/bookshop/internal/search"
)

// CatalogService serves the public book and profile reads.
type CatalogService struct {
	Books    repo.Books
	Users    repo.Users
	Searcher search.Searcher
}

func (s *CatalogService) ListBooks(ctx context.Context) ([]models.Book, error) {
	return s.Books.List(ctx)
}

func (s *CatalogService) GetBook(ctx context.Context, id int64) (*models.Book, error) {
	book, err := s.Books.Get(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("book not found: %w", ErrNotFound)
	}
	return book, err
}

func (s *CatalogService) SearchBooks(ctx context.Context, query string) ([]models.Book, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is empty: %w", ErrValidation)
	}
	return s.Searcher.Search(ctx, query)
}

func (s *CatalogService) ListUsers(ctx context.Context) ([]models.UserInfo, error) {
	users, err := s.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.UserInfo, len(users))
	for i, u := range users {
		out[i] = u.Info()
	}
	return out, nil
}

func (s *CatalogService) GetUser(ctx context.Context, id int64) (*models.UserInfo, error) {
	user, err := s.Users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("user not found: %w", ErrNotFound)
		}
		return nil, err
	}
	info := user.Info()
	return &info, nil
}
