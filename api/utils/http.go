// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/vechain/thorfarm/builtin/reverts"
	"github.com/vechain/thorfarm/log"
)

var logger = log.WithContext("pkg", "api")

const JSONContentType = "application/json; charset=utf-8"

type httpError struct {
	cause  error
	status int
	kind   string
}

func (e *httpError) Error() string { return e.cause.Error() }
func (e *httpError) Unwrap() error { return e.cause }

func BadRequest(cause error) error { return &httpError{cause: cause, status: http.StatusBadRequest} }
func NotFound(cause error) error   { return &httpError{cause: cause, status: http.StatusNotFound} }
func Forbidden(cause error) error  { return &httpError{cause: cause, status: http.StatusForbidden} }

// revertError reports a reverted view, NotFound style kinds as 404.
func revertError(kind string, cause error) error {
	status := http.StatusBadRequest
	if kind == reverts.KindNotFound.String() || kind == reverts.KindInvalidNonce.String() {
		status = http.StatusNotFound
	}
	return &httpError{cause: cause, status: status, kind: kind}
}

// ErrorBody is written for every failed request. Kind names the revert
// kind when the failure comes from a contract.
type ErrorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// HandlerFunc is an http.HandlerFunc that may fail. Errors made by
// BadRequest, NotFound or Forbidden keep their status, others answer 500.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		status := http.StatusInternalServerError
		body := ErrorBody{Error: err.Error()}
		var he *httpError
		if errors.As(err, &he) {
			status, body.Kind = he.status, he.kind
		} else {
			logger.Error("request failed", "method", r.Method, "uri", r.URL.String(), "err", err)
		}
		if kind, ok := reverts.KindOf(err); ok && body.Kind == "" {
			body.Kind = kind.String()
		}
		w.Header().Set("Content-Type", JSONContentType)
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(&body)
	}
}

// ParseJSON decodes r into v rejecting unknown fields.
func ParseJSON(r io.Reader, v any) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}
