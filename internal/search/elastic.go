package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/bookshop/internal/models"
)

const maxHits = 100

type ElasticConfig struct {
	URL      string
	Username string
	Password string
}

// NewElasticClient connects and checks the cluster answers Info.
func NewElasticClient(cfg ElasticConfig, log *slog.Logger) (*elasticsearch.Client, error) {
	log.Info("connecting to elasticsearch", "url", cfg.URL)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch info: %s: %s", res.Status(), body)
	}

	log.Info("connected to elasticsearch")
	return client, nil
}

type Elastic struct {
	Client *elasticsearch.Client
	Index  string
}

// IndexBooks writes every book under its id and refreshes the index.
func (s *Elastic) IndexBooks(ctx context.Context, books []models.Book) error {
	for _, b := range books {
		data, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("index book %d: %w", b.ID, err)
		}

		res, err := s.Client.Index(
			s.Index,
			bytes.NewReader(data),
			s.Client.Index.WithContext(ctx),
			s.Client.Index.WithDocumentID(strconv.FormatInt(b.ID, 10)),
		)
		if err != nil {
			return fmt.Errorf("index book %d: %w", b.ID, err)
		}
		isErr, status := res.IsError(), res.Status()
		res.Body.Close()
		if isErr {
			return fmt.Errorf("index book %d: %s", b.ID, status)
		}
	}

	res, err := s.Client.Indices.Refresh(
		s.Client.Indices.Refresh.WithContext(ctx),
		s.Client.Indices.Refresh.WithIndex(s.Index),
	)
	if err != nil {
		return fmt.Errorf("refresh %s: %w", s.Index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("refresh %s: %s", s.Index, res.Status())
	}
	return nil
}

func (s *Elastic) Search(ctx context.Context, query string) ([]models.Book, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "author"},
				"fuzziness": "AUTO",
			},
		},
		"size": maxHits,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	res, err := s.Client.Search(
		s.Client.Search.WithContext(ctx),
		s.Client.Search.WithIndex(s.Index),
		s.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.Book `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("search: decode: %w", err)
	}

	books := make([]models.Book, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		books[i] = hit.Source
	}
	return books, nil
}
