package main

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	questionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cargoquery_questions_total",
			Help: "Questions processed, labelled by pipeline outcome.",
		},
		[]string{"outcome"},
	)

	llmCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cargoquery_llm_calls_total",
			Help: "LLM invocations, labelled by call kind (classify, agent).",
		},
		[]string{"kind"},
	)

	cacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cargoquery_cache_hits_total",
			Help: "Response cache hits.",
		},
	)

	cacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cargoquery_cache_misses_total",
			Help: "Response cache misses.",
		},
	)
)

func init() {
	prometheus.MustRegister(questionsTotal, llmCallsTotal, cacheHitsTotal, cacheMissesTotal)
}
