// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/vechain/thorfarm/log"
)

// maxLoggedBody caps the request body copied into a log record.
const maxLoggedBody = 4096

// RequestLoggerHandler logs each request with its clause body before serving it.
func RequestLoggerHandler(handler http.Handler, logger log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			var err error
			if body, err = io.ReadAll(r.Body); err != nil {
				logger.Warn("unexpected body read error", "err", err)
				http.Error(w, "unable to read body", http.StatusBadRequest)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		if len(body) > maxLoggedBody {
			body = append(body[:maxLoggedBody:maxLoggedBody], "..."...)
		}

		start := time.Now()
		handler.ServeHTTP(w, r)
		logger.Info("API request",
			"method", r.Method,
			"uri", r.URL.String(),
			"body", string(body),
			"elapsed", time.Since(start),
		)
	})
}
