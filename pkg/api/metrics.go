// SPDX-FileCopyrightText: Copyright 2025 Drydock Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/drydocklabs/mcpdock/pkg/catalog"
	"github.com/drydocklabs/mcpdock/pkg/versions"
)

// Metrics holds the Prometheus instruments for the catalog server.
type Metrics struct {
	registry *prometheus.Registry
	lookups  *prometheus.CounterVec
}

// NewMetrics creates a metrics set on a private registry, so tests never
// collide on the global default registerer.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)

	buildInfo := factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mcpdock_build_info",
			Help: "Build metadata of the running catalog server.",
		},
		[]string{"version", "commit"},
	)
	info := versions.GetVersionInfo()
	buildInfo.WithLabelValues(info.Version, info.Commit).Set(1)

	return &Metrics{
		registry: registry,
		lookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mcpdock_registry_lookups_total",
				Help: "Registry snapshot lookups by cache outcome.",
			},
			[]string{"outcome"},
		),
	}
}

// ObserveOutcome records how one registry lookup was served. It has the
// signature the cache's outcome hook expects.
func (m *Metrics) ObserveOutcome(outcome catalog.Outcome) {
	m.lookups.WithLabelValues(string(outcome)).Inc()
}

// Handler serves the metrics in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
