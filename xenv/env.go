// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/thorfarm/builtin/gascharger"
	"github.com/vechain/thorfarm/builtin/reverts"
	"github.com/vechain/thorfarm/state"
	"github.com/vechain/thorfarm/thor"
)

// BlockContext block context.
type BlockContext struct {
	Number uint32
	Epoch  uint64
	Time   uint64
}

// TransactionContext transaction context.
type TransactionContext struct {
	ID     thor.Bytes32
	Origin thor.Address
}

// Payment is the token amount attached to a call. Nonce is zero for fungible tokens.
type Payment struct {
	Token  thor.TokenID
	Nonce  uint64
	Amount *big.Int
}

// Event is a log record emitted by a contract. Data holds key/value pairs.
type Event struct {
	Address thor.Address
	Name    string
	Data    []any
}

// Environment an env to execute native method.
type Environment struct {
	state    *state.State
	blockCtx *BlockContext
	txCtx    *TransactionContext
	caller   thor.Address
	to       thor.Address
	payment  *Payment
	charger  *gascharger.Charger
	events   []*Event
}

// New create a new env.
func New(
	state *state.State,
	blockCtx *BlockContext,
	txCtx *TransactionContext,
	caller thor.Address,
	to thor.Address,
	payment *Payment,
	charger *gascharger.Charger,
) *Environment {
	return &Environment{
		state:    state,
		blockCtx: blockCtx,
		txCtx:    txCtx,
		caller:   caller,
		to:       to,
		payment:  payment,
		charger:  charger,
	}
}

func (env *Environment) State() *state.State                     { return env.state }
func (env *Environment) TransactionContext() *TransactionContext { return env.txCtx }
func (env *Environment) BlockContext() *BlockContext             { return env.blockCtx }
func (env *Environment) Caller() thor.Address                    { return env.caller }
func (env *Environment) To() thor.Address                        { return env.to }
func (env *Environment) Epoch() uint64                           { return env.blockCtx.Epoch }
func (env *Environment) GasLeft() uint64                         { return env.charger.Left() }
func (env *Environment) GasUsed() uint64                         { return env.charger.Used() }
func (env *Environment) Events() []*Event                        { return env.events }

// Payment returns the payment attached to the call, nil if none.
func (env *Environment) Payment() *Payment {
	return env.payment
}

// UseGas consumes gas from the call budget. The call is unwound when the budget runs out.
func (env *Environment) UseGas(gas uint64) {
	env.charger.Charge(gas)
}

// Log records an event emitted by the called contract.
func (env *Environment) Log(name string, data ...any) {
	env.events = append(env.events, &Event{Address: env.to, Name: name, Data: data})
}

// Balance returns the called contract's holding of (token, nonce).
func (env *Environment) Balance(token thor.TokenID, nonce uint64) (*big.Int, error) {
	env.UseGas(thor.SloadGas)
	return env.state.GetBalance(env.to, token, nonce)
}

// Transfer sends tokens held by the called contract to the recipient.
func (env *Environment) Transfer(recipient thor.Address, token thor.TokenID, nonce uint64, amount *big.Int) error {
	env.UseGas(thor.TransferGas)
	if err := env.state.Transfer(env.to, recipient, token, nonce, amount); err != nil {
		if errors.Is(err, state.ErrInsufficientBalance) {
			return reverts.Errorf(reverts.KindInsufficientBalance, "insufficient %s balance", token)
		}
		return errors.WithMessage(err, "transfer")
	}
	return nil
}
