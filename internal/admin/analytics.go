package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	apperrors "evently/internal/common/errors"
	"evently/internal/common/logger"
)

const ordersIndex = "orders"

// Analytics answers back-office questions from the order search index:
// order volume per day and revenue per vendor category.
type Analytics struct {
	es     *elasticsearch.Client
	logger logger.Logger
}

func NewAnalytics(es *elasticsearch.Client, log logger.Logger) *Analytics {
	return &Analytics{
		es:     es,
		logger: log.WithFields(map[string]interface{}{"component": "admin-analytics"}),
	}
}

// DailyOrders is one bucket of the order-volume histogram.
type DailyOrders struct {
	Date   string `json:"date"`
	Orders int64  `json:"orders"`
	Total  int64  `json:"total"` // naira
}

// CategoryRevenue is one bucket of revenue grouped by vendor category.
type CategoryRevenue struct {
	Category string `json:"category"`
	Orders   int64  `json:"orders"`
	Total    int64  `json:"total"` // naira
}

// OrdersPerDay aggregates order count and revenue per calendar day for
// the trailing window.
func (a *Analytics) OrdersPerDay(ctx context.Context, days int) ([]DailyOrders, error) {
	if days <= 0 {
		days = 30
	}

	body := map[string]interface{}{
		"size": 0,
		"query": map[string]interface{}{
			"range": map[string]interface{}{
				"createdAt": map[string]interface{}{
					"gte": fmt.Sprintf("now-%dd/d", days),
				},
			},
		},
		"aggs": map[string]interface{}{
			"per_day": map[string]interface{}{
				"date_histogram": map[string]interface{}{
					"field":             "createdAt",
					"calendar_interval": "day",
				},
				"aggs": map[string]interface{}{
					"revenue": map[string]interface{}{
						"sum": map[string]interface{}{"field": "total"},
					},
				},
			},
		},
	}

	var parsed struct {
		Aggregations struct {
			PerDay struct {
				Buckets []struct {
					KeyAsString string `json:"key_as_string"`
					DocCount    int64  `json:"doc_count"`
					Revenue     struct {
						Value float64 `json:"value"`
					} `json:"revenue"`
				} `json:"buckets"`
			} `json:"per_day"`
		} `json:"aggregations"`
	}
	if err := a.search(ctx, body, &parsed); err != nil {
		return nil, err
	}

	out := make([]DailyOrders, 0, len(parsed.Aggregations.PerDay.Buckets))
	for _, b := range parsed.Aggregations.PerDay.Buckets {
		out = append(out, DailyOrders{
			Date:   b.KeyAsString,
			Orders: b.DocCount,
			Total:  int64(b.Revenue.Value),
		})
	}
	return out, nil
}

// RevenueByCategory aggregates revenue grouped by the category of the
// ordered services. An order containing several categories is counted
// in each of them, which is good enough for trend lines.
func (a *Analytics) RevenueByCategory(ctx context.Context) ([]CategoryRevenue, error) {
	body := map[string]interface{}{
		"size": 0,
		"aggs": map[string]interface{}{
			"by_category": map[string]interface{}{
				"terms": map[string]interface{}{
					"field": "items.category.keyword",
					"size":  20,
				},
				"aggs": map[string]interface{}{
					"revenue": map[string]interface{}{
						"sum": map[string]interface{}{"field": "total"},
					},
				},
			},
		},
	}

	var parsed struct {
		Aggregations struct {
			ByCategory struct {
				Buckets []struct {
					Key      string `json:"key"`
					DocCount int64  `json:"doc_count"`
					Revenue  struct {
						Value float64 `json:"value"`
					} `json:"revenue"`
				} `json:"buckets"`
			} `json:"by_category"`
		} `json:"aggregations"`
	}
	if err := a.search(ctx, body, &parsed); err != nil {
		return nil, err
	}

	out := make([]CategoryRevenue, 0, len(parsed.Aggregations.ByCategory.Buckets))
	for _, b := range parsed.Aggregations.ByCategory.Buckets {
		out = append(out, CategoryRevenue{
			Category: b.Key,
			Orders:   b.DocCount,
			Total:    int64(b.Revenue.Value),
		})
	}
	return out, nil
}

// IndexOrder mirrors a confirmed order into the analytics index.
func (a *Analytics) IndexOrder(ctx context.Context, id string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal order document: %w", err)
	}

	res, err := a.es.Index(
		ordersIndex,
		bytes.NewReader(data),
		a.es.Index.WithDocumentID(id),
		a.es.Index.WithContext(ctx),
	)
	if err != nil {
		return apperrors.NewSearchQueryFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return apperrors.NewSearchQueryFailedError(fmt.Errorf("index order: %s", res.Status()))
	}
	return nil
}

func (a *Analytics) search(ctx context.Context, body map[string]interface{}, out interface{}) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return fmt.Errorf("encode aggregation body: %w", err)
	}

	res, err := a.es.Search(
		a.es.Search.WithContext(ctx),
		a.es.Search.WithIndex(ordersIndex),
		a.es.Search.WithBody(&buf),
	)
	if err != nil {
		return apperrors.NewSearchQueryFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return apperrors.NewSearchQueryFailedError(fmt.Errorf("aggregate: %s", res.Status()))
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return apperrors.NewSearchQueryFailedError(err)
	}
	return nil
}
