// Package metrics holds the prometheus collectors shared by the generator and server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LLMRequests counts completion calls by operation and outcome (ok, error).
	LLMRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "llm_requests_total",
		Help: "Completion requests sent to the LLM provider.",
	}, []string{"operation", "outcome"})

	// AdShortens counts shorten fallbacks by field.
	AdShortens = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ad_shorten_total",
		Help: "Shorten calls issued because generated copy exceeded its limit.",
	}, []string{"field"})

	// AdValidationFailures counts ads rejected after shortening.
	AdValidationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ad_validation_failures_total",
		Help: "Ad fields still over their limit after one shorten attempt.",
	}, []string{"field"})
)

// Outcome maps an error to the outcome label.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
