// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/thorfarm/builtin"
	"github.com/vechain/thorfarm/runtime"
	"github.com/vechain/thorfarm/thor"
)

// deployConfig describes a set of contracts and the setup clauses run against them.
//
//	mint:
//	  - account: "0x..."
//	    token: UNIT
//	    amount: "1000"
//	contracts:
//	  - address: "0x..."
//	    kind: farm
//	    calls:
//	      - caller: "0x..."
//	        method: init
//	        args: [UNIT, "0x...", "false"]
type deployConfig struct {
	Mint      []mintConfig     `yaml:"mint"`
	Contracts []contractConfig `yaml:"contracts"`
}

type mintConfig struct {
	Account string `yaml:"account"`
	Token   string `yaml:"token"`
	Amount  string `yaml:"amount"`
}

type contractConfig struct {
	Address string       `yaml:"address"`
	Kind    string       `yaml:"kind"`
	Calls   []callConfig `yaml:"calls"`
}

type callConfig struct {
	Caller  string         `yaml:"caller"`
	Method  string         `yaml:"method"`
	Args    []string       `yaml:"args"`
	Payment *paymentConfig `yaml:"payment"`
	Gas     uint64         `yaml:"gas"`
}

type paymentConfig struct {
	Token  string `yaml:"token"`
	Nonce  uint64 `yaml:"nonce"`
	Amount string `yaml:"amount"`
}

func loadDeployConfig(path string) (*deployConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read deploy config")
	}
	var cfg deployConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "decode deploy config %v", path)
	}
	return &cfg, nil
}

// apply mints the configured balances, deploys every contract and runs its
// calls in order. Any reverted clause or callback aborts the deployment.
func (cfg *deployConfig) apply(rt *runtime.Runtime) error {
	for i, m := range cfg.Mint {
		account, err := thor.ParseAddress(m.Account)
		if err != nil {
			return errors.Wrapf(err, "mint[%d]: account", i)
		}
		amount, err := parseAmount(m.Amount)
		if err != nil {
			return errors.Wrapf(err, "mint[%d]", i)
		}
		if err := rt.Mint(account, thor.TokenID(m.Token), amount); err != nil {
			return errors.Wrapf(err, "mint[%d]", i)
		}
	}

	for i, c := range cfg.Contracts {
		addr, err := thor.ParseAddress(c.Address)
		if err != nil {
			return errors.Wrapf(err, "contracts[%d]: address", i)
		}
		kind, err := builtin.ParseKind(c.Kind)
		if err != nil {
			return errors.Wrapf(err, "contracts[%d]", i)
		}
		if err := rt.Deploy(addr, kind); err != nil {
			return errors.Wrapf(err, "contracts[%d]", i)
		}

		for j, call := range c.Calls {
			if err := runCall(rt, c.Address, &call); err != nil {
				return errors.Wrapf(err, "contracts[%d].calls[%d] (%s)", i, j, call.Method)
			}
		}
	}
	return nil
}

func runCall(rt *runtime.Runtime, to string, call *callConfig) error {
	var (
		token, amount string
		nonce         uint64
	)
	if call.Payment != nil {
		token, nonce, amount = call.Payment.Token, call.Payment.Nonce, call.Payment.Amount
	}
	payment, err := parsePayment(token, nonce, amount)
	if err != nil {
		return errors.Wrap(err, "payment")
	}
	clause, err := newClause(rt, to, call.Caller, call.Method, call.Args, payment, call.Gas)
	if err != nil {
		return err
	}

	receipt, err := rt.Execute(clause)
	if err != nil {
		return err
	}
	if receipt.Reverted {
		return errors.Errorf("reverted: %s", receipt.Error)
	}
	callbacks, err := rt.DeliverCallbacks()
	if err != nil {
		return err
	}
	for _, cb := range callbacks {
		if cb.Reverted {
			return errors.Errorf("callback reverted: %s", cb.Error)
		}
	}
	logger.Info("clause executed", "to", clause.To, "method", clause.Method, "gas", receipt.GasUsed, "callbacks", len(callbacks))
	return nil
}
