package httptransport

import "expvar"

var (
	metricHTTPRequestErrors = expvar.NewInt("http_request_errors_total")
	metricInvalidJSONTotal  = expvar.NewInt("http_invalid_json_total")

	replayQueryTotal       = expvar.NewInt("replay_query_total")
	replayQueryErrorsTotal = expvar.NewInt("replay_query_errors_total")
)
