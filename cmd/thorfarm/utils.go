// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"
	"os/user"
	"path/filepath"
	goruntime "runtime"

	"github.com/pkg/errors"

	"github.com/vechain/thorfarm/api/utils"
	"github.com/vechain/thorfarm/builtin"
	"github.com/vechain/thorfarm/runtime"
	"github.com/vechain/thorfarm/thor"
	"github.com/vechain/thorfarm/xenv"
)

func defaultDataDir() string {
	// Try to place the data folder in the user's home dir
	if home := homeDir(); home != "" {
		switch goruntime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.vechain.thorfarm")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.vechain.thorfarm")
		default:
			return filepath.Join(home, ".org.vechain.thorfarm")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func parseAmount(s string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok || amount.Sign() < 0 {
		return nil, errors.Errorf("invalid amount %q", s)
	}
	return amount, nil
}

// parsePayment returns nil when no token is given.
func parsePayment(token string, nonce uint64, amount string) (*xenv.Payment, error) {
	if token == "" {
		return nil, nil
	}
	v, err := parseAmount(amount)
	if err != nil {
		return nil, err
	}
	return &xenv.Payment{Token: thor.TokenID(token), Nonce: nonce, Amount: v}, nil
}

// newClause resolves the contract at to and parses args against its method table.
func newClause(rt *runtime.Runtime, to, caller, method string, args []string, payment *xenv.Payment, gas uint64) (*runtime.Clause, error) {
	addr, err := thor.ParseAddress(to)
	if err != nil {
		return nil, errors.Wrap(err, "to")
	}
	kind, err := rt.KindOf(addr)
	if err != nil {
		return nil, err
	}
	if kind == 0 {
		return nil, errors.Errorf("no contract at %v", addr)
	}
	parsed, err := builtin.ParseArgs(kind, method, args)
	if err != nil {
		return nil, err
	}

	var from thor.Address
	if caller != "" {
		if from, err = thor.ParseAddress(caller); err != nil {
			return nil, errors.Wrap(err, "caller")
		}
	}
	return &runtime.Clause{
		Caller:  from,
		To:      addr,
		Method:  method,
		Args:    parsed,
		Payment: payment,
		Gas:     gas,
	}, nil
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printReceipt(w io.Writer, receipt *runtime.Receipt, callbacks []*runtime.Receipt) error {
	if callbacks == nil {
		return printJSON(w, utils.ConvertReceipt(receipt))
	}
	out := struct {
		Receipt   *utils.Receipt   `json:"receipt"`
		Callbacks []*utils.Receipt `json:"callbacks"`
	}{utils.ConvertReceipt(receipt), make([]*utils.Receipt, 0, len(callbacks))}
	for _, cb := range callbacks {
		out.Callbacks = append(out.Callbacks, utils.ConvertReceipt(cb))
	}
	return printJSON(w, out)
}
