// internal/dataset/elasticsearch.go
package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"country-match-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
)

const maxSearchSize = 10000

// ElasticsearchSource reads every document of an index sorted by position.
type ElasticsearchSource struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticsearchSource(client *elasticsearch.Client, index string) *ElasticsearchSource {
	if index == "" {
		index = "countries"
	}
	return &ElasticsearchSource{client: client, index: index}
}

func (s *ElasticsearchSource) String() string {
	return "elasticsearch:" + s.index
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source models.Country `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *ElasticsearchSource) Countries(ctx context.Context) ([]models.Country, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{"match_all": map[string]interface{}{}},
		"sort": []interface{}{
			map[string]interface{}{"position": map[string]interface{}{"order": "asc", "unmapped_type": "long"}},
			map[string]interface{}{"name.keyword": map[string]interface{}{"order": "asc", "unmapped_type": "keyword"}},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(&buf),
		s.client.Search.WithSize(maxSearchSize),
	)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", s.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search %s: %s", s.index, res.Status())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	countries := make([]models.Country, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		if hit.Source.Name == "" {
			continue
		}
		countries = append(countries, hit.Source)
	}
	return countries, nil
}
