// Package metricskey declares the metrics emitted by this repo.
package metricskey

import "github.com/effective-security/metrics"

// Perf
var (
	// PerfAssertionSign is perf metric for building and signing client assertions
	PerfAssertionSign = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_assertion_sign",
		Help:         "perf_assertion_sign provides the sample metrics of assertion signing",
		RequiredTags: []string{"algo"},
	}

	// PerfTokenExchange is perf metric for access token requests
	PerfTokenExchange = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_token_exchange",
		Help:         "perf_token_exchange provides the sample metrics of token endpoint exchanges",
		RequiredTags: []string{"endpoint", "status"},
	}
)

// Metrics returns slice of metrics from this repo
var Metrics = []*metrics.Describe{
	&PerfAssertionSign,
	&PerfTokenExchange,
}
