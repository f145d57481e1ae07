package policy

import "expvar"

var (
	metricCacheHitTotal        = expvar.NewInt("policy_cache_hit_total")
	metricCacheMissTotal       = expvar.NewInt("policy_cache_miss_total")
	metricExternalCallTotal    = expvar.NewInt("policy_external_call_total")
	metricTimeoutTotal         = expvar.NewInt("policy_timeout_total")
	metricTransportErrorTotal  = expvar.NewInt("policy_transport_error_total")
	metricInvalidDecisionTotal = expvar.NewInt("policy_invalid_decision_total")
	metricFallbackTotal        = expvar.NewInt("policy_fallback_total")
	metricBudgetExhaustedTotal = expvar.NewInt("policy_budget_exhausted_total")
)
