package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"
	"github.com/google/uuid"

	"github.com/Skotchmaster/noteet/internal/models"
)

const defaultLimit = 20

var ErrSearch = errors.New("search error")

// NewClient connects to elasticsearch and checks the cluster answers.
func NewClient(ctx context.Context, url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError("info", res)
	}
	return client, nil
}

// ES indexes notes into one elasticsearch index and searches them
// scoped to an owner.
type ES struct {
	client *elasticsearch.Client
	index  string
}

func NewES(client *elasticsearch.Client, index string) *ES {
	return &ES{client: client, index: index}
}

type document struct {
	ID        string    `json:"id"`
	Value     string    `json:"value"`
	Color     string    `json:"color"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
}

func toDocument(n models.Note) document {
	return document{
		ID:        n.ID.String(),
		Value:     n.Value,
		Color:     n.Color,
		Owner:     n.Owner.String(),
		CreatedAt: n.CreatedAt,
	}
}

func (d document) note() (models.Note, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return models.Note{}, err
	}
	owner, err := uuid.Parse(d.Owner)
	if err != nil {
		return models.Note{}, err
	}
	return models.Note{ID: id, Value: d.Value, Color: d.Color, Owner: owner, CreatedAt: d.CreatedAt}, nil
}

var indexMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"id":        map[string]any{"type": "keyword"},
			"value":     map[string]any{"type": "text"},
			"color":     map[string]any{"type": "keyword"},
			"owner":     map[string]any{"type": "keyword"},
			"createdAt": map[string]any{"type": "date"},
		},
	},
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (s *ES) EnsureIndex(ctx context.Context) error {
	res, err := s.client.Indices.Exists([]string{s.index}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSearch, err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, err := encode(indexMapping)
	if err != nil {
		return err
	}
	res, err = s.client.Indices.Create(s.index,
		s.client.Indices.Create.WithContext(ctx),
		s.client.Indices.Create.WithBody(body),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSearch, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("create index", res)
	}
	return nil
}

func (s *ES) IndexNote(ctx context.Context, n models.Note) error {
	body, err := encode(toDocument(n))
	if err != nil {
		return err
	}
	res, err := s.client.Index(s.index, body,
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(n.ID.String()),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSearch, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index", res)
	}
	return nil
}

func (s *ES) RemoveNote(ctx context.Context, id uuid.UUID) error {
	res, err := s.client.Delete(s.index, id.String(), s.client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSearch, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError("delete", res)
	}
	return nil
}

func (s *ES) SearchNotes(ctx context.Context, owner uuid.UUID, query string, limit int) ([]models.Note, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	body, err := encode(buildQuery(owner, query, limit))
	if err != nil {
		return nil, err
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(body),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearch, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError("search", res)
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrSearch, err)
	}

	notes := make([]models.Note, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		n, err := hit.Source.note()
		if err != nil {
			return nil, fmt.Errorf("%w: bad document: %w", ErrSearch, err)
		}
		// results never cross owners, whatever the index holds
		if n.Owner != owner {
			continue
		}
		notes = append(notes, n)
	}
	return notes, nil
}

func buildQuery(owner uuid.UUID, query string, limit int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": []any{
					map[string]any{
						"match": map[string]any{
							"value": map[string]any{
								"query":     query,
								"fuzziness": "AUTO",
							},
						},
					},
				},
				"filter": []any{
					map[string]any{"term": map[string]any{"owner": owner.String()}},
				},
			},
		},
		"sort": []any{
			"_score",
			map[string]any{"createdAt": map[string]any{"order": "desc"}},
		},
		"size": limit,
	}
}

func encode(v any) (io.Reader, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("%w: encode body: %w", ErrSearch, err)
	}
	return &buf, nil
}

func responseError(op string, res *esapi.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
	return fmt.Errorf("%w: %s: %s: %s", ErrSearch, op, res.Status(), bytes.TrimSpace(body))
}
