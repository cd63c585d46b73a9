// ShopSphere - E-Commerce Recommendation Backend
// Copyright 2026 ShopSphere
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsphere/backend

package recommend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopsphere_recommend_queries_total",
		Help: "Recommendation queries by operation and result.",
	}, []string{"operation", "result"})

	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shopsphere_recommend_query_duration_seconds",
		Help:    "Recommendation query latency by operation.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	rebuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopsphere_recommend_rebuilds_total",
		Help: "Model rebuilds by result.",
	}, []string{"result"})

	rebuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shopsphere_recommend_rebuild_duration_seconds",
		Help:    "Model rebuild duration.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
	})

	modelVersion = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shopsphere_recommend_model_version",
		Help: "Version of the currently published model.",
	})

	coOccurrencePairs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shopsphere_recommend_co_occurrence_pairs",
		Help: "Stored entries in the co-occurrence matrix.",
	})

	similarityPairs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shopsphere_recommend_similarity_pairs",
		Help: "Stored entries in the similarity matrix.",
	})
)
