package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"route"},
	)

	ChatTurns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_turns_total",
			Help: "Total number of chat turns by delivery source",
		},
		[]string{"source"}, // "stream" or "fallback"
	)

	ChatFragments = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_fragments_total",
			Help: "Total number of streamed assistant fragments",
		},
	)

	ExtractionHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_extraction_hits_total",
			Help: "Total number of recommendation fields extracted",
		},
		[]string{"field"},
	)

	OrdersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Total number of orders created",
		},
	)

	ReceiptsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "receipts_sent_total",
			Help: "Total number of receipt deliveries by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)
)
