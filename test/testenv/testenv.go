// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testenv runs contract calls directly against an in-memory state, moving payments
// and reverting failed calls the way the executor does.
package testenv

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vechain/thorfarm/builtin/esdt"
	"github.com/vechain/thorfarm/builtin/gascharger"
	"github.com/vechain/thorfarm/builtin/pair"
	"github.com/vechain/thorfarm/builtin/position"
	"github.com/vechain/thorfarm/builtin/pricing"
	"github.com/vechain/thorfarm/lvldb"
	"github.com/vechain/thorfarm/state"
	"github.com/vechain/thorfarm/thor"
	"github.com/vechain/thorfarm/xenv"
)

// Authority is the address of the token authority in test environments.
var Authority = thor.BytesToAddress([]byte("esdt"))

// Call is the body of a contract call.
type Call func(env *xenv.Environment, authority *esdt.ESDT) error

// Env is an in-memory ledger with a manual epoch clock.
type Env struct {
	t       *testing.T
	State   *state.State
	Epoch   uint64
	Decoder *position.Decoder
	Locator pricing.Locator
}

func New(t *testing.T) *Env {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	return &Env{
		t:       t,
		State:   st,
		Decoder: position.NewDecoder(64),
		Locator: pricing.LocatorFunc(func(addr thor.Address) (pricing.Pair, error) {
			return pair.New(addr, st), nil
		}),
	}
}

// Mint credits amount of fungible token to addr.
func (e *Env) Mint(addr thor.Address, token thor.TokenID, amount int64) {
	require.NoError(e.t, e.State.AddBalance(addr, token, 0, big.NewInt(amount)))
}

// Balance returns the balance of (token, nonce) held by addr.
func (e *Env) Balance(addr thor.Address, token thor.TokenID, nonce uint64) *big.Int {
	bal, err := e.State.GetBalance(addr, token, nonce)
	require.NoError(e.t, err)
	return bal
}

// Invoke runs call as caller on contract to. The payment is moved to the contract first;
// any failure reverts every change of the call.
func (e *Env) Invoke(caller, to thor.Address, pay *xenv.Payment, call Call) (*xenv.Environment, error) {
	checkpoint := e.State.NewCheckpoint()
	charger := gascharger.New(thor.DefaultCallGas)
	env := xenv.New(e.State, &xenv.BlockContext{Epoch: e.Epoch}, &xenv.TransactionContext{}, caller, to, pay, charger)

	err := gascharger.Run(func() error {
		if pay != nil && pay.Amount != nil && pay.Amount.Sign() > 0 {
			if err := e.State.Transfer(caller, to, pay.Token, pay.Nonce, pay.Amount); err != nil {
				return err
			}
		}
		return call(env, esdt.New(Authority, e.State, env.UseGas))
	})
	if err != nil {
		e.State.RevertTo(checkpoint)
	}
	return env, err
}

// Deliver pops every queued callback of the authority, moves its refund and hands it to handle
// as a call from the authority to the callback's recipient.
func (e *Env) Deliver(handle func(env *xenv.Environment, authority *esdt.ESDT, cb *esdt.Callback) error) []error {
	var errs []error
	for {
		cb, err := esdt.New(Authority, e.State, nil).PopCallback()
		require.NoError(e.t, err)
		if cb == nil {
			return errs
		}
		var pay *xenv.Payment
		if cb.HasRefund() {
			pay = &xenv.Payment{Token: cb.RefundToken, Amount: cb.RefundAmount}
		}
		_, err = e.Invoke(Authority, cb.To, pay, func(env *xenv.Environment, authority *esdt.ESDT) error {
			return handle(env, authority, cb)
		})
		errs = append(errs, err)
	}
}

// Pay is a fungible payment.
func Pay(token thor.TokenID, amount int64) *xenv.Payment {
	return &xenv.Payment{Token: token, Amount: big.NewInt(amount)}
}

// PayNonce is a semi-fungible payment.
func PayNonce(token thor.TokenID, nonce uint64, amount int64) *xenv.Payment {
	return &xenv.Payment{Token: token, Nonce: nonce, Amount: big.NewInt(amount)}
}
