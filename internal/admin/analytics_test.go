package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evently/internal/common/logger"
)

func newTestAnalytics(t *testing.T, handler http.HandlerFunc) *Analytics {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{server.URL}})
	require.NoError(t, err)

	return NewAnalytics(es, logger.NewNoOpLogger())
}

func TestAnalytics_OrdersPerDay(t *testing.T) {
	analytics := newTestAnalytics(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "aggs")

		json.NewEncoder(w).Encode(map[string]interface{}{
			"aggregations": map[string]interface{}{
				"per_day": map[string]interface{}{
					"buckets": []map[string]interface{}{
						{"key_as_string": "2026-08-27", "doc_count": 4, "revenue": map[string]interface{}{"value": 1200000.0}},
						{"key_as_string": "2026-08-28", "doc_count": 7, "revenue": map[string]interface{}{"value": 3400000.0}},
					},
				},
			},
		})
	})

	buckets, err := analytics.OrdersPerDay(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	assert.Equal(t, "2026-08-27", buckets[0].Date)
	assert.Equal(t, int64(4), buckets[0].Orders)
	assert.Equal(t, int64(1200000), buckets[0].Total)
	assert.Equal(t, int64(3400000), buckets[1].Total)
}

func TestAnalytics_RevenueByCategory(t *testing.T) {
	analytics := newTestAnalytics(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"aggregations": map[string]interface{}{
				"by_category": map[string]interface{}{
					"buckets": []map[string]interface{}{
						{"key": "catering", "doc_count": 12, "revenue": map[string]interface{}{"value": 5600000.0}},
					},
				},
			},
		})
	})

	buckets, err := analytics.RevenueByCategory(context.Background())
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, "catering", buckets[0].Category)
	assert.Equal(t, int64(5600000), buckets[0].Total)
}

func TestAnalytics_SearchErrorSurfaces(t *testing.T) {
	analytics := newTestAnalytics(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := analytics.OrdersPerDay(context.Background(), 7)
	require.Error(t, err)
}
