package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

	apperrors "evently/internal/common/errors"
	"evently/internal/common/logger"
	"evently/internal/models"
)

const vendorIndex = "vendors"

// SearchIndex provides full-text vendor search over Elasticsearch.
type SearchIndex struct {
	es     *elasticsearch.Client
	logger logger.Logger
}

func NewSearchIndex(es *elasticsearch.Client, log logger.Logger) *SearchIndex {
	return &SearchIndex{
		es:     es,
		logger: log.WithFields(map[string]interface{}{"component": "catalog-search"}),
	}
}

// IndexVendor upserts a vendor document. Indexing is best-effort; a
// failure is logged and returned but callers usually ignore it.
func (s *SearchIndex) IndexVendor(ctx context.Context, v models.Vendor) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal vendor document: %w", err)
	}

	res, err := s.es.Index(
		vendorIndex,
		bytes.NewReader(data),
		s.es.Index.WithDocumentID(v.ID),
		s.es.Index.WithContext(ctx),
	)
	if err != nil {
		return apperrors.NewSearchQueryFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return apperrors.NewSearchQueryFailedError(fmt.Errorf("index vendor: %s", res.Status()))
	}
	return nil
}

// SearchVendors runs a multi-field text query over name, category and
// city and returns matching vendors in score order.
func (s *SearchIndex) SearchVendors(ctx context.Context, query string, size int) ([]models.Vendor, error) {
	if size <= 0 {
		size = 20
	}

	var body bytes.Buffer
	searchBody := map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^2", "category", "city"},
				"fuzziness": "AUTO",
			},
		},
	}
	if err := json.NewEncoder(&body).Encode(searchBody); err != nil {
		return nil, fmt.Errorf("encode search body: %w", err)
	}

	res, err := s.es.Search(
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex(vendorIndex),
		s.es.Search.WithBody(&body),
	)
	if err != nil {
		return nil, apperrors.NewSearchQueryFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		if strings.Contains(res.Status(), "404") {
			return nil, apperrors.NewNotFoundError("index", vendorIndex)
		}
		return nil, apperrors.NewSearchQueryFailedError(fmt.Errorf("search: %s", res.Status()))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source models.Vendor `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewSearchQueryFailedError(err)
	}

	vendors := make([]models.Vendor, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		vendors = append(vendors, hit.Source)
	}
	return vendors, nil
}
