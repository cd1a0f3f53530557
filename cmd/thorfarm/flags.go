// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/thorfarm/log"
	"github.com/vechain/thorfarm/thor"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:   "data-dir",
		Value:  defaultDataDir(),
		EnvVar: "THORFARM_DATA_DIR",
		Usage:  "directory for the state database",
	}
	cacheFlag = cli.IntFlag{
		Name:   "cache",
		Value:  64,
		EnvVar: "THORFARM_CACHE",
		Usage:  "state cache size in MB",
	}
	verbosityFlag = cli.IntFlag{
		Name:   "verbosity",
		Value:  log.LegacyLevelInfo,
		EnvVar: "THORFARM_VERBOSITY",
		Usage:  "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:   "json-logs",
		EnvVar: "THORFARM_JSON_LOGS",
		Usage:  "output logs in JSON format",
	}

	apiAddrFlag = cli.StringFlag{
		Name:   "api-addr",
		Value:  "localhost:8669",
		EnvVar: "THORFARM_API_ADDR",
		Usage:  "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:   "api-cors",
		Value:  "",
		EnvVar: "THORFARM_API_CORS",
		Usage:  "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiTimeoutFlag = cli.Uint64Flag{
		Name:   "api-timeout",
		Value:  10000,
		EnvVar: "THORFARM_API_TIMEOUT",
		Usage:  "API request timeout value in milliseconds",
	}
	apiCallGasLimitFlag = cli.Uint64Flag{
		Name:   "api-call-gas-limit",
		Value:  thor.DefaultCallGas,
		EnvVar: "THORFARM_API_CALL_GAS_LIMIT",
		Usage:  "limit contract call gas",
	}
	apiAllowExecuteFlag = cli.BoolFlag{
		Name:   "api-allow-execute",
		EnvVar: "THORFARM_API_ALLOW_EXECUTE",
		Usage:  "allow state changing clauses through POST /contracts/{address}/execute",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:   "enable-api-logs",
		EnvVar: "THORFARM_ENABLE_API_LOGS",
		Usage:  "enables API requests logging",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:   "enable-metrics",
		EnvVar: "THORFARM_ENABLE_METRICS",
		Usage:  "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:   "metrics-addr",
		Value:  "localhost:2112",
		EnvVar: "THORFARM_METRICS_ADDR",
		Usage:  "metrics service listening address",
	}

	configFlag = cli.StringFlag{
		Name:  "config",
		Value: "deploy.yaml",
		Usage: "YAML file describing contracts to deploy",
	}
	toFlag = cli.StringFlag{
		Name:  "to",
		Usage: "address of the target contract",
	}
	callerFlag = cli.StringFlag{
		Name:  "caller",
		Usage: "address of the calling account",
	}
	methodFlag = cli.StringFlag{
		Name:  "method",
		Usage: "contract method name",
	}
	payTokenFlag = cli.StringFlag{
		Name:  "pay-token",
		Usage: "token attached to the call",
	}
	payNonceFlag = cli.Uint64Flag{
		Name:  "pay-nonce",
		Usage: "nonce of the attached token",
	}
	payAmountFlag = cli.StringFlag{
		Name:  "pay-amount",
		Usage: "amount of the attached token",
	}
	gasFlag = cli.Uint64Flag{
		Name:  "gas",
		Value: thor.DefaultCallGas,
		Usage: "gas limit of the clause",
	}
	epochsFlag = cli.Uint64Flag{
		Name:  "epochs",
		Value: 1,
		Usage: "number of epochs to advance",
	}
	accountFlag = cli.StringFlag{
		Name:  "account",
		Usage: "account address",
	}
	tokenFlag = cli.StringFlag{
		Name:  "token",
		Usage: "token identifier",
	}
	amountFlag = cli.StringFlag{
		Name:  "amount",
		Usage: "token amount",
	}
	addressFlag = cli.StringFlag{
		Name:  "address",
		Usage: "contract address, all contracts if omitted",
	}
)
