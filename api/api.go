// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/thorfarm/api/contracts"
	"github.com/vechain/thorfarm/api/farms"
	"github.com/vechain/thorfarm/api/node"
	"github.com/vechain/thorfarm/api/staking"
	"github.com/vechain/thorfarm/log"
	"github.com/vechain/thorfarm/runtime"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	CallGasLimit    uint64
	AllowExecute    bool
	EnableReqLogger bool
	EnableMetrics   bool
}

// New return api router
func New(rt *runtime.Runtime, opts Options) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	contracts.New(rt, opts.CallGasLimit, opts.AllowExecute).
		Mount(router, "/contracts")
	farms.New(rt).
		Mount(router, "/farms")
	staking.New(rt).
		Mount(router, "/staking")
	node.New(rt).
		Mount(router, "/node")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}

	return handler.ServeHTTP
}
