package search

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bookshop/internal/models"
	"github.com/Skotchmaster/bookshop/internal/repo/memory"
)

func TestCatalog_Search(t *testing.T) {
	ctx := context.Background()
	books := memory.NewBooks()
	for _, b := range []models.Book{
		{Name: "Олимпиадное программирование", Author: "Антти Лааксонен"},
		{Name: "Граф Монте-Кристо", Author: "Александр Дюма"},
		{Name: "The Go Programming Language", Author: "Donovan"},
	} {
		require.NoError(t, books.Create(ctx, &b))
	}
	s := &Catalog{Books: books}

	tests := []struct {
		query string
		want  []string
	}{
		{query: "программ", want: []string{"Олимпиадное программирование"}},
		{query: "ДЮМА", want: []string{"Граф Монте-Кристо"}},
		{query: "go", want: []string{"The Go Programming Language"}},
		{query: "nothing here", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := s.Search(ctx, tt.query)
			require.NoError(t, err)
			names := make([]string, 0, len(got))
			for _, b := range got {
				names = append(names, b.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

type fakeES struct {
	mu      sync.Mutex
	indexed map[string]models.Book
	query   map[string]any
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/":
		_, _ = io.WriteString(w, `{"version":{"number":"9.0.0"},"tagline":"You Know, for Search"}`)
	case strings.HasPrefix(r.URL.Path, "/books/_doc/"):
		var b models.Book
		_ = json.NewDecoder(r.Body).Decode(&b)
		f.indexed[strings.TrimPrefix(r.URL.Path, "/books/_doc/")] = b
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	case r.URL.Path == "/books/_refresh":
		_, _ = io.WriteString(w, `{"_shards":{"total":1,"successful":1,"failed":0}}`)
	case r.URL.Path == "/books/_search":
		_ = json.NewDecoder(r.Body).Decode(&f.query)
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":1},"hits":[{"_id":"2","_source":{"id":2,"name":"Граф Монте-Кристо","price":1299.99,"author":"Александр Дюма"}}]}}`)
	case r.URL.Path == "/broken/_search":
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"boom"}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{}`)
	}
}

func newFakeES(t *testing.T) (*fakeES, ElasticConfig) {
	f := &fakeES{indexed: map[string]models.Book{}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, ElasticConfig{URL: srv.URL}
}

func TestElastic(t *testing.T) {
	ctx := context.Background()
	f, cfg := newFakeES(t)

	client, err := NewElasticClient(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	s := &Elastic{Client: client, Index: "books"}
	require.NoError(t, s.IndexBooks(ctx, []models.Book{
		{ID: 1, Name: "A", Author: "a"},
		{ID: 2, Name: "Граф Монте-Кристо", Author: "Александр Дюма"},
	}))

	f.mu.Lock()
	assert.Len(t, f.indexed, 2)
	assert.Equal(t, "A", f.indexed["1"].Name)
	f.mu.Unlock()

	got, err := s.Search(ctx, "монте")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, "Александр Дюма", got[0].Author)

	f.mu.Lock()
	defer f.mu.Unlock()
	mm := f.query["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "монте", mm["query"])
	assert.EqualValues(t, maxHits, f.query["size"])
}

func TestElastic_ErrorResponse(t *testing.T) {
	_, cfg := newFakeES(t)
	client, err := NewElasticClient(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	s := &Elastic{Client: client, Index: "broken"}
	_, err = s.Search(context.Background(), "x")
	require.Error(t, err)
}
