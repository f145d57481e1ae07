package session

import "expvar"

var (
	metricSessionCreateTotal = expvar.NewInt("session_create_total")
	metricHandStartTotal     = expvar.NewInt("hand_start_total")
	metricHandCompleteTotal  = expvar.NewInt("hand_complete_total")
	metricRebuyTotal         = expvar.NewInt("session_rebuy_total")
	metricSessionExpired     = expvar.NewInt("session_expired_total")

	metricActionSubmitTotal  = expvar.NewInt("action_submit_total")
	metricActionSubmitErrors = expvar.NewInt("action_submit_errors_total")
	metricOpponentActions    = expvar.NewInt("opponent_action_total")
)
