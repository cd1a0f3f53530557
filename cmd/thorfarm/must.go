// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/thorfarm/log"
	"github.com/vechain/thorfarm/lvldb"
	"github.com/vechain/thorfarm/metrics"
	"github.com/vechain/thorfarm/runtime"
	"github.com/vechain/thorfarm/state"
)

func initLogger(ctx *cli.Context) *slog.LevelVar {
	lvl := new(slog.LevelVar)
	lvl.Set(log.FromLegacyLevel(ctx.GlobalInt(verbosityFlag.Name)))

	var handler slog.Handler
	if ctx.GlobalBool(jsonLogsFlag.Name) {
		handler = log.NewJSONHandler(os.Stdout, lvl)
	} else {
		fd := os.Stderr.Fd()
		useColor := (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandler(os.Stderr, lvl, useColor)
	}
	log.SetHandler(handler)
	return lvl
}

// openRuntime opens the state database under the data dir. The returned
// func closes it.
func openRuntime(ctx *cli.Context) (*runtime.Runtime, func(), error) {
	dataDir := ctx.GlobalString(dataDirFlag.Name)
	if dataDir == "" {
		return nil, nil, errors.Errorf("unable to infer default data dir, use --%s to specify one", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, nil, errors.Wrapf(err, "create data dir at '%v'", dataDir)
	}

	cacheMB := ctx.GlobalInt(cacheFlag.Name)
	dir := filepath.Join(dataDir, "state.db")
	db, err := lvldb.New(dir, lvldb.Options{CacheSize: cacheMB, OpenFilesCacheCapacity: 64})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open state database at '%v'", dir)
	}
	logger.Debug("state database opened", "dir", dir, "cache(MB)", cacheMB)

	rt, err := runtime.New(state.NewWithCache(db, cacheMB*1024*1024/2))
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return rt, func() {
		logger.Info("closing state database...")
		if err := db.Close(); err != nil {
			logger.Warn("failed to close state database", "err", err)
		}
	}, nil
}

func listen(addr, name string) (net.Listener, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen %s addr [%v]", name, addr)
	}
	return listener, nil
}

func newAPIServer(handler http.Handler, timeout time.Duration) *http.Server {
	if timeout > 0 {
		handler = http.TimeoutHandler(handler, timeout, `{"error":"request timeout"}`)
	}
	return &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
}

func newMetricsServer() *http.Server {
	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	handler := handlers.CompressHandler(router)
	return &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}
