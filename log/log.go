// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log wraps the go-ethereum structured logger. Package level loggers
// created with WithContext resolve the root handler on every record, so
// handlers installed by the command line after package init are honored.
package log

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	ethlog "github.com/ethereum/go-ethereum/log"
)

type Logger = ethlog.Logger

const (
	LegacyLevelCrit = iota
	LegacyLevelError
	LegacyLevelWarn
	LegacyLevelInfo
	LegacyLevelDebug
	LegacyLevelTrace
)

var root atomic.Pointer[slog.Handler]

func init() {
	var h slog.Handler = slog.DiscardHandler
	root.Store(&h)
}

// SetHandler installs h as the root handler of every logger from this package.
func SetHandler(h slog.Handler) {
	root.Store(&h)
	ethlog.SetDefault(ethlog.NewLogger(h))
}

// Root returns the currently installed root handler.
func Root() slog.Handler {
	return *root.Load()
}

// WithContext returns a logger carrying the given key/value pairs.
func WithContext(ctx ...any) Logger {
	return ethlog.NewLogger(&lazyHandler{}).With(ctx...)
}

// FromLegacyLevel converts a 0-5 verbosity into a slog level. Values beyond
// trace stay at trace.
func FromLegacyLevel(lvl int) slog.Level {
	switch {
	case lvl <= LegacyLevelCrit:
		return ethlog.LevelCrit
	case lvl == LegacyLevelError:
		return ethlog.LevelError
	case lvl == LegacyLevelWarn:
		return ethlog.LevelWarn
	case lvl == LegacyLevelInfo:
		return ethlog.LevelInfo
	case lvl == LegacyLevelDebug:
		return ethlog.LevelDebug
	default:
		return ethlog.LevelTrace
	}
}

// NewTerminalHandler returns a human readable handler dropping records below lvl.
func NewTerminalHandler(w io.Writer, lvl slog.Leveler, useColor bool) slog.Handler {
	return &levelHandler{level: lvl, next: ethlog.NewTerminalHandler(w, useColor)}
}

// NewJSONHandler returns a handler writing one JSON object per record.
func NewJSONHandler(w io.Writer, lvl slog.Leveler) slog.Handler {
	return &levelHandler{level: lvl, next: ethlog.JSONHandler(w)}
}

type levelHandler struct {
	level slog.Leveler
	next  slog.Handler
}

func (h *levelHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return lvl >= h.level.Level() && h.next.Enabled(ctx, lvl)
}

func (h *levelHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.next.Handle(ctx, r)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{h.level, h.next.WithAttrs(attrs)}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{h.level, h.next.WithGroup(name)}
}

// lazyHandler replays its derivations onto the root handler at log time.
type lazyHandler struct {
	derive []func(slog.Handler) slog.Handler
}

func (h *lazyHandler) resolve() slog.Handler {
	next := Root()
	for _, d := range h.derive {
		next = d(next)
	}
	return next
}

func (h *lazyHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return Root().Enabled(ctx, lvl)
}

func (h *lazyHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.resolve().Handle(ctx, r)
}

func (h *lazyHandler) with(d func(slog.Handler) slog.Handler) *lazyHandler {
	derive := make([]func(slog.Handler) slog.Handler, 0, len(h.derive)+1)
	return &lazyHandler{derive: append(append(derive, h.derive...), d)}
}

func (h *lazyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.with(func(next slog.Handler) slog.Handler { return next.WithAttrs(attrs) })
}

func (h *lazyHandler) WithGroup(name string) slog.Handler {
	return h.with(func(next slog.Handler) slog.Handler { return next.WithGroup(name) })
}
