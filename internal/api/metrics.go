package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	feedLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "techtoday_feed_loads_total",
		Help: "Product feed loads by resulting state.",
	}, []string{"state"})

	discussionTurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "techtoday_discussion_turns_total",
		Help: "Discussion turns by outcome.",
	}, []string{"outcome"})
)
