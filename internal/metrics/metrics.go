// Package metrics provides the Prometheus instruments exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SubmissionsTotal counts attendance submissions by outcome.
	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rollcall_submissions_total",
		Help: "Attendance submissions by outcome.",
	}, []string{"outcome"})

	// ExportsTotal counts record exports by format.
	ExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rollcall_exports_total",
		Help: "Record exports by format.",
	}, []string{"format"})

	// LoginsTotal counts login attempts by outcome.
	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rollcall_logins_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})
)
