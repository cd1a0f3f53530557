// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	m := defaultNoopMetrics()
	assert.NotPanics(t, func() {
		m.GetOrCreateCountVecMeter("cv", []string{"op"}).AddWithLabel(1, map[string]string{"op": "enter"})
		m.GetOrCreateGaugeMeter("g").Set(1)
		m.GetOrCreateHistogramMeter("h", BucketGas).Observe(1)
	})
	assert.Nil(t, m.GetOrCreateHandler())
}

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()
	defer func() { metrics = defaultNoopMetrics() }()

	lazy := LazyLoadCounterVec("farm_ops_count", []string{"op", "status"})
	lazy().AddWithLabel(1, map[string]string{"op": "enter", "status": "ok"})
	lazy().AddWithLabel(2, map[string]string{"op": "exit", "status": "ok"})
	assert.Same(t, lazy(), metrics.GetOrCreateCountVecMeter("farm_ops_count", []string{"op", "status"}))

	LazyLoadGauge("pending_callbacks")().Set(5)
	LazyLoadHistogram("extern_query_gas", BucketGas)().Observe(1500)

	rec := httptest.NewRecorder()
	HTTPHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, `thorfarm_farm_ops_count{op="exit",status="ok"} 2`)
	assert.Contains(t, text, "thorfarm_pending_callbacks 5")
	assert.Contains(t, text, "thorfarm_extern_query_gas_count 1")
}
