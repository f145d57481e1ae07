package gateway

import "expvar"

var (
	metricConnectionsTotal  = expvar.NewInt("gateway_connections_total")
	metricConnectionsActive = expvar.NewInt("gateway_connections_active")
	metricRequestsTotal     = expvar.NewInt("gateway_requests_total")
	metricReplayedTotal     = expvar.NewInt("gateway_replayed_total")
	metricBusyTotal         = expvar.NewInt("gateway_session_busy_total")
	metricDisconnectedTotal = expvar.NewInt("gateway_disconnected_total")
)
