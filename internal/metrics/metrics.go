package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SessionStartedTotal counts started quiz sessions by mode
	SessionStartedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kakomon_session_started_total",
			Help: "Total number of quiz sessions started by mode",
		},
		[]string{"mode"},
	)

	// SessionRejectedTotal counts session starts that produced no questions, by reason
	SessionRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kakomon_session_rejected_total",
			Help: "Total number of quiz session starts rejected by reason",
		},
		[]string{"reason"},
	)

	// SessionGradedTotal counts graded sessions by trigger (manual or timeout) and outcome
	SessionGradedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kakomon_session_graded_total",
			Help: "Total number of graded quiz sessions by trigger and outcome",
		},
		[]string{"trigger", "outcome"},
	)

	// ScoreSubmitFailedTotal counts score records that could not be queued
	ScoreSubmitFailedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kakomon_score_submit_failed_total",
			Help: "Total number of score records that failed to be queued",
		},
	)
)

// RecordSessionStarted records a started session
func RecordSessionStarted(mode string) {
	SessionStartedTotal.WithLabelValues(mode).Inc()
}

// RecordSessionRejected records a start that could not be served
func RecordSessionRejected(reason string) {
	SessionRejectedTotal.WithLabelValues(reason).Inc()
}

// RecordSessionGraded records a grading outcome
func RecordSessionGraded(trigger string, pass bool) {
	outcome := "fail"
	if pass {
		outcome = "pass"
	}
	SessionGradedTotal.WithLabelValues(trigger, outcome).Inc()
}

// RecordScoreSubmitFailed records a lost score record
func RecordScoreSubmitFailed() {
	ScoreSubmitFailedTotal.Inc()
}
