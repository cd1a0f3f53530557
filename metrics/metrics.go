// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics exposes the meters of the engine. Until
// InitializePrometheusMetrics is called every meter is a no-op.
package metrics

import (
	"net/http"
	"sync"
)

var metrics = defaultNoopMetrics()

type Metrics interface {
	GetOrCreateCountVecMeter(name string, labels []string) CountVecMeter
	GetOrCreateGaugeMeter(name string) GaugeMeter
	GetOrCreateHistogramMeter(name string, buckets []int64) HistogramMeter
	GetOrCreateHandler() http.Handler
}

// HTTPHandler serves the registry, nil when metrics are disabled.
func HTTPHandler() http.Handler {
	return metrics.GetOrCreateHandler()
}

var (
	// BucketGas covers the gas of clauses and extern queries.
	BucketGas = []int64{0, 1_000, 5_000, 10_000, 50_000, 100_000, 500_000, 1_000_000, 5_000_000, 20_000_000}
	// BucketHTTPReqs covers request durations in milliseconds.
	BucketHTTPReqs = []int64{0, 1, 2, 5, 10, 20, 50, 100, 200, 500, 1000, 2000, 5000}
)

type HistogramMeter interface {
	Observe(int64)
}

// CountVecMeter counts per label set, e.g. operations by name or reverts by kind.
type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

type GaugeMeter interface {
	Set(int64)
}

// Lazy defers creating a meter to its first use, after the backend is chosen.
func Lazy[T any](create func() T) func() T {
	return sync.OnceValue(create)
}

func LazyLoadHistogram(name string, buckets []int64) func() HistogramMeter {
	return Lazy(func() HistogramMeter { return metrics.GetOrCreateHistogramMeter(name, buckets) })
}

func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return Lazy(func() CountVecMeter { return metrics.GetOrCreateCountVecMeter(name, labels) })
}

func LazyLoadGauge(name string) func() GaugeMeter {
	return Lazy(func() GaugeMeter { return metrics.GetOrCreateGaugeMeter(name) })
}
