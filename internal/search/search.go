// Package search finds books by name or author.
package search

import (
	"context"
	"strings"

	"github.com/Skotchmaster/bookshop/internal/models"
	"github.com/Skotchmaster/bookshop/internal/repo"
)

type Searcher interface {
	Search(ctx context.Context, query string) ([]models.Book, error)
}

// Catalog scans the book collection with a case-insensitive substring match.
type Catalog struct {
	Books repo.Books
}

func (s *Catalog) Search(ctx context.Context, query string) ([]models.Book, error) {
	books, err := s.Books.List(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Book, 0, len(books))
	for _, b := range books {
		if strings.Contains(strings.ToLower(b.Name), q) || strings.Contains(strings.ToLower(b.Author), q) {
			out = append(out, b)
		}
	}
	return out, nil
}
