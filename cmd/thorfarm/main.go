// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/thorfarm/api"
	"github.com/vechain/thorfarm/api/utils"
	"github.com/vechain/thorfarm/builtin"
	"github.com/vechain/thorfarm/log"
	"github.com/vechain/thorfarm/metrics"
	"github.com/vechain/thorfarm/runtime"
	"github.com/vechain/thorfarm/thor"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "thorfarm")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	envFile := os.Getenv("THORFARM_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(errors.Cause(err)) {
		fmt.Fprintln(os.Stderr, "load env file:", err)
		os.Exit(1)
	}

	app := cli.App{
		Version:   fullVersion(),
		Name:      "thorfarm",
		Usage:     "Yield farming and staking position engine",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			dataDirFlag,
			cacheFlag,
			verbosityFlag,
			jsonLogsFlag,
		},
		Before: func(ctx *cli.Context) error {
			initLogger(ctx)
			return nil
		},
		Action: serveAction,
		Commands: []cli.Command{
			{
				Name:  "serve",
				Usage: "serve the HTTP API over the local state",
				Flags: []cli.Flag{
					apiAddrFlag,
					apiCorsFlag,
					apiTimeoutFlag,
					apiCallGasLimitFlag,
					apiAllowExecuteFlag,
					enableAPILogsFlag,
					enableMetricsFlag,
					metricsAddrFlag,
				},
				Action: serveAction,
			},
			{
				Name:   "deploy",
				Usage:  "deploy contracts described by a YAML file",
				Flags:  []cli.Flag{configFlag},
				Action: deployAction,
			},
			{
				Name:      "call",
				Usage:     "run a clause without persisting its changes",
				ArgsUsage: "[arguments...]",
				Flags:     []cli.Flag{toFlag, callerFlag, methodFlag, payTokenFlag, payNonceFlag, payAmountFlag, gasFlag},
				Action:    callAction,
			},
			{
				Name:      "execute",
				Usage:     "run a clause, deliver its callbacks and commit",
				ArgsUsage: "[arguments...]",
				Flags:     []cli.Flag{toFlag, callerFlag, methodFlag, payTokenFlag, payNonceFlag, payAmountFlag, gasFlag},
				Action:    executeAction,
			},
			{
				Name:   "advance-epoch",
				Usage:  "move the block clock forward",
				Flags:  []cli.Flag{epochsFlag},
				Action: advanceEpochAction,
			},
			{
				Name:   "mint",
				Usage:  "credit tokens to an account",
				Flags:  []cli.Flag{accountFlag, tokenFlag, amountFlag},
				Action: mintAction,
			},
			{
				Name:   "inspect",
				Usage:  "dump the clock and contract views",
				Flags:  []cli.Flag{addressFlag},
				Action: inspectAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	rt, closeDB, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	enableMetrics := ctx.Bool(enableMetricsFlag.Name)
	if enableMetrics {
		metrics.InitializePrometheusMetrics()
	}

	apiAddr := ctx.String(apiAddrFlag.Name)
	if apiAddr == "" {
		apiAddr = apiAddrFlag.Value
	}
	apiListener, err := listen(apiAddr, "API")
	if err != nil {
		return err
	}
	callGas := ctx.Uint64(apiCallGasLimitFlag.Name)
	if callGas == 0 {
		callGas = thor.DefaultCallGas
	}
	handler := api.New(rt, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		CallGasLimit:    callGas,
		AllowExecute:    ctx.Bool(apiAllowExecuteFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   enableMetrics,
	})
	servers := []*http.Server{newAPIServer(handler, time.Duration(ctx.Uint64(apiTimeoutFlag.Name))*time.Millisecond)}
	listeners := []func() error{func() error { return servers[0].Serve(apiListener) }}
	logger.Info("API server started", "url", "http://"+apiListener.Addr().String()+"/")

	if enableMetrics {
		metricsListener, err := listen(ctx.String(metricsAddrFlag.Name), "metrics")
		if err != nil {
			apiListener.Close()
			return err
		}
		srv := newMetricsServer()
		servers = append(servers, srv)
		listeners = append(listeners, func() error { return srv.Serve(metricsListener) })
		logger.Info("metrics server started", "url", "http://"+metricsListener.Addr().String()+"/metrics")
	}

	clock := rt.BlockContext()
	logger.Info("serving state", "number", clock.Number, "epoch", clock.Epoch)

	g, gctx := errgroup.WithContext(handleExitSignal())
	for _, serve := range listeners {
		g.Go(func() error {
			if err := serve(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("stopping servers...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("server shutdown", "err", err)
			}
		}
		return nil
	})
	return g.Wait()
}

func deployAction(ctx *cli.Context) error {
	cfg, err := loadDeployConfig(ctx.String(configFlag.Name))
	if err != nil {
		return err
	}
	rt, closeDB, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := cfg.apply(rt); err != nil {
		return err
	}
	hash, err := rt.Commit()
	if err != nil {
		return err
	}
	logger.Info("deployment committed", "contracts", len(cfg.Contracts), "hash", hash)
	return nil
}

func clauseFromFlags(ctx *cli.Context, rt *runtime.Runtime) (*runtime.Clause, error) {
	payment, err := parsePayment(ctx.String(payTokenFlag.Name), ctx.Uint64(payNonceFlag.Name), ctx.String(payAmountFlag.Name))
	if err != nil {
		return nil, errors.Wrap(err, "payment")
	}
	return newClause(rt,
		ctx.String(toFlag.Name),
		ctx.String(callerFlag.Name),
		ctx.String(methodFlag.Name),
		ctx.Args(),
		payment,
		ctx.Uint64(gasFlag.Name),
	)
}

func callAction(ctx *cli.Context) error {
	rt, closeDB, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	clause, err := clauseFromFlags(ctx, rt)
	if err != nil {
		return err
	}
	receipt, err := rt.Call(clause)
	if err != nil {
		return err
	}
	return printReceipt(os.Stdout, receipt, nil)
}

func executeAction(ctx *cli.Context) error {
	rt, closeDB, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	clause, err := clauseFromFlags(ctx, rt)
	if err != nil {
		return err
	}
	receipt, err := rt.Execute(clause)
	if err != nil {
		return err
	}
	callbacks, err := rt.DeliverCallbacks()
	if err != nil {
		return err
	}
	if _, err := rt.Commit(); err != nil {
		return err
	}
	return printReceipt(os.Stdout, receipt, callbacks)
}

func advanceEpochAction(ctx *cli.Context) error {
	rt, closeDB, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	clock, err := rt.AdvanceEpoch(ctx.Uint64(epochsFlag.Name), uint64(time.Now().Unix()))
	if err != nil {
		return err
	}
	if _, err := rt.Commit(); err != nil {
		return err
	}
	return printJSON(os.Stdout, clock)
}

func mintAction(ctx *cli.Context) error {
	account, err := thor.ParseAddress(ctx.String(accountFlag.Name))
	if err != nil {
		return errors.Wrap(err, "account")
	}
	token := thor.TokenID(ctx.String(tokenFlag.Name))
	if token.IsEmpty() {
		return errors.New("token required")
	}
	amount, err := parseAmount(ctx.String(amountFlag.Name))
	if err != nil {
		return err
	}

	rt, closeDB, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := rt.Mint(account, token, amount); err != nil {
		return err
	}
	if _, err := rt.Commit(); err != nil {
		return err
	}
	balance, err := rt.Balance(account, token, 0)
	if err != nil {
		return err
	}
	logger.Info("minted", "account", account, "token", token, "amount", amount, "balance", balance)
	return nil
}

func inspectAction(ctx *cli.Context) error {
	rt, closeDB, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	var addrs []thor.Address
	if s := ctx.String(addressFlag.Name); s != "" {
		addr, err := thor.ParseAddress(s)
		if err != nil {
			return errors.Wrap(err, "address")
		}
		addrs = append(addrs, addr)
	} else {
		deployed, err := rt.Deployments()
		if err != nil {
			return err
		}
		for addr := range deployed {
			addrs = append(addrs, addr)
		}
		sort.Slice(addrs, func(i, j int) bool { return addrs[i].String() < addrs[j].String() })
	}

	report, err := inspect(rt, addrs)
	if err != nil {
		return err
	}
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
	cfg.Fdump(os.Stdout, report)
	return nil
}

type contractReport struct {
	Address string
	Kind    string
	Views   map[string][]string
}

type inspectReport struct {
	Clock     any
	Contracts []*contractReport
}

// inspect evaluates every argument free getter of the given contracts.
func inspect(rt *runtime.Runtime, addrs []thor.Address) (*inspectReport, error) {
	report := &inspectReport{Clock: rt.BlockContext()}
	for _, addr := range addrs {
		kind, err := rt.KindOf(addr)
		if err != nil {
			return nil, err
		}
		if kind == 0 {
			return nil, errors.Errorf("no contract at %v", addr)
		}
		cr := &contractReport{Address: addr.String(), Kind: kind.String(), Views: make(map[string][]string)}
		for name, args := range builtin.Methods(kind) {
			if len(args) > 0 || !strings.HasPrefix(name, "get") {
				continue
			}
			receipt, err := rt.Call(&runtime.Clause{To: addr, Method: name})
			if err != nil {
				return nil, err
			}
			if receipt.Reverted {
				cr.Views[name] = []string{"reverted: " + receipt.Error}
				continue
			}
			cr.Views[name] = utils.FormatValues(receipt.Output)
		}
		report.Contracts = append(report.Contracts, cr)
	}
	return report, nil
}
