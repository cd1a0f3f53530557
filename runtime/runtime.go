// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"
	"sync"

	"github.com/pkg/errors"

	"github.com/vechain/thorfarm/builtin"
	"github.com/vechain/thorfarm/builtin/gascharger"
	"github.com/vechain/thorfarm/builtin/reverts"
	"github.com/vechain/thorfarm/builtin/solidity"
	"github.com/vechain/thorfarm/log"
	"github.com/vechain/thorfarm/metrics"
	"github.com/vechain/thorfarm/state"
	"github.com/vechain/thorfarm/thor"
	"github.com/vechain/thorfarm/xenv"
)

var (
	logger = log.WithContext("pkg", "runtime")

	clockAddress = thor.BytesToAddress([]byte("Clock"))
	clockSlot    = thor.BytesToBytes32([]byte("block-context"))

	metricClauseGas        = metrics.LazyLoadHistogram("runtime_clause_gas", metrics.BucketGas)
	metricClauseCount      = metrics.LazyLoadCounterVec("runtime_clause_count", []string{"status"})
	metricRevertCount      = metrics.LazyLoadCounterVec("runtime_revert_count", []string{"kind"})
	metricPendingCallbacks = metrics.LazyLoadGauge("runtime_pending_callbacks")
)

// Clause is a single contract call.
type Clause struct {
	Caller  thor.Address
	To      thor.Address
	Method  string
	Args    []any
	Payment *xenv.Payment
	// Gas limit of the call, thor.DefaultCallGas if zero.
	Gas uint64
}

// Receipt is the outcome of a clause.
type Receipt struct {
	GasUsed  uint64
	Reverted bool
	// Kind and Error describe the revert.
	Kind   string
	Error  string
	Events []*xenv.Event
	Output []any
}

// Runtime executes clauses on a state. Calls are serialized.
type Runtime struct {
	mu       sync.Mutex
	state    *state.State
	clock    *solidity.Raw[*xenv.BlockContext]
	blockCtx xenv.BlockContext
}

// New creates a runtime, restoring the block context kept in state.
func New(st *state.State) (*Runtime, error) {
	clock := solidity.NewRaw[*xenv.BlockContext](solidity.NewContext(clockAddress, st, nil), clockSlot)
	ctx, err := clock.Get()
	if err != nil {
		return nil, errors.Wrap(err, "load block context")
	}
	rt := &Runtime{state: st, clock: clock}
	if ctx != nil {
		rt.blockCtx = *ctx
	}
	return rt, nil
}

func (rt *Runtime) State() *state.State { return rt.state }

// BlockContext returns a copy of the current block context.
func (rt *Runtime) BlockContext() xenv.BlockContext {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.blockCtx
}

// AdvanceEpoch moves the clock n epochs forward, sealing one block per call.
func (rt *Runtime) AdvanceEpoch(n uint64, now uint64) (xenv.BlockContext, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	next := rt.blockCtx
	next.Number++
	next.Epoch += n
	if now > next.Time {
		next.Time = now
	}
	if err := rt.clock.Set(&next); err != nil {
		return rt.blockCtx, err
	}
	rt.blockCtx = next
	logger.Debug("advanced epoch", "number", next.Number, "epoch", next.Epoch)
	return next, nil
}

// Deploy binds a contract kind to addr.
func (rt *Runtime) Deploy(addr thor.Address, kind builtin.Kind) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if err := builtin.Registry.WithState(rt.state).Deploy(addr, kind); err != nil {
		return err
	}
	logger.Info("contract deployed", "address", addr, "kind", kind)
	return nil
}

// Deployments lists deployed contracts with their kinds.
func (rt *Runtime) Deployments() (map[thor.Address]builtin.Kind, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	registry := builtin.Registry.WithState(rt.state)
	all, err := registry.All()
	if err != nil {
		return nil, err
	}
	out := make(map[thor.Address]builtin.Kind, len(all))
	for _, addr := range all {
		kind, err := registry.KindOf(addr)
		if err != nil {
			return nil, err
		}
		out[addr] = kind
	}
	return out, nil
}

// KindOf returns the contract kind at addr, zero if nothing is deployed there.
func (rt *Runtime) KindOf(addr thor.Address) (builtin.Kind, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return builtin.Registry.WithState(rt.state).KindOf(addr)
}

// Balance returns the holding of (token, nonce) by addr.
func (rt *Runtime) Balance(addr thor.Address, token thor.TokenID, nonce uint64) (*big.Int, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.state.GetBalance(addr, token, nonce)
}

// Mint credits amount of a fungible token to addr, outside of any contract.
func (rt *Runtime) Mint(addr thor.Address, token thor.TokenID, amount *big.Int) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.state.AddBalance(addr, token, 0, amount)
}

// Execute runs the clause. Reverts are reported in the receipt; the returned error is
// reserved for failures of the underlying store.
func (rt *Runtime) Execute(clause *Clause) (*Receipt, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.execute(clause, false)
}

// Call runs the clause and discards its changes.
func (rt *Runtime) Call(clause *Clause) (*Receipt, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.execute(clause, true)
}

func (rt *Runtime) execute(clause *Clause, static bool) (*Receipt, error) {
	gas := clause.Gas
	if gas == 0 {
		gas = thor.DefaultCallGas
	}
	blockCtx := rt.blockCtx
	charger := gascharger.New(gas)
	env := xenv.New(
		rt.state,
		&blockCtx,
		&xenv.TransactionContext{Origin: clause.Caller},
		clause.Caller,
		clause.To,
		clause.Payment,
		charger,
	)

	checkpoint := rt.state.NewCheckpoint()
	var output []any
	err := gascharger.Run(func() error {
		charger.Charge(thor.CallGas)
		if err := rt.movePayment(clause); err != nil {
			return err
		}
		var err error
		output, err = builtin.Call(env, clause.Method, clause.Args)
		return err
	})
	if err != nil || static {
		rt.state.RevertTo(checkpoint)
	}

	receipt := &Receipt{GasUsed: charger.Used()}
	if !static {
		metricClauseGas().Observe(int64(receipt.GasUsed))
	}
	if err != nil {
		kind, ok := reverts.KindOf(err)
		if !ok {
			logger.Error("clause aborted", "to", clause.To, "method", clause.Method, "error", err)
			return nil, err
		}
		receipt.Reverted = true
		receipt.Kind = kind.String()
		receipt.Error = err.Error()
		if !static {
			metricClauseCount().AddWithLabel(1, map[string]string{"status": "reverted"})
			metricRevertCount().AddWithLabel(1, map[string]string{"kind": kind.String()})
		}
		logger.Debug("clause reverted", "to", clause.To, "method", clause.Method, "error", err, "gas", charger.Breakdown())
		return receipt, nil
	}

	receipt.Output = output
	receipt.Events = env.Events()
	if !static {
		metricClauseCount().AddWithLabel(1, map[string]string{"status": "ok"})
	}
	return receipt, nil
}

func (rt *Runtime) movePayment(clause *Clause) error {
	pay := clause.Payment
	if pay == nil || pay.Amount == nil || pay.Amount.Sign() == 0 {
		return nil
	}
	if pay.Amount.Sign() < 0 {
		return reverts.ErrInvalidAmount
	}
	err := rt.state.Transfer(clause.Caller, clause.To, pay.Token, pay.Nonce, pay.Amount)
	if errors.Is(err, state.ErrInsufficientBalance) {
		return reverts.Errorf(reverts.KindInsufficientBalance, "payment of %v %s exceeds balance", pay.Amount, pay.Token)
	}
	return err
}

// DeliverCallbacks hands every queued answer of the token authority to its recipient,
// each as a call from the authority carrying the refund as payment.
func (rt *Runtime) DeliverCallbacks() ([]*Receipt, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	authority := builtin.ESDT.WithState(rt.state, nil)
	var receipts []*Receipt
	for {
		cb, err := authority.PopCallback()
		if err != nil {
			return receipts, err
		}
		if cb == nil {
			break
		}
		var pay *xenv.Payment
		if cb.HasRefund() {
			pay = &xenv.Payment{Token: cb.RefundToken, Amount: cb.RefundAmount}
		}
		receipt, err := rt.execute(&Clause{
			Caller:  authority.Address(),
			To:      cb.To,
			Method:  "callback",
			Args:    []any{cb},
			Payment: pay,
		}, false)
		if err != nil {
			return receipts, err
		}
		if receipt.Reverted {
			logger.Warn("callback reverted", "to", cb.To, "id", cb.ID, "kind", cb.Kind, "error", receipt.Error)
		}
		receipts = append(receipts, receipt)
	}

	pending, err := authority.PendingCallbacks()
	if err != nil {
		return receipts, err
	}
	metricPendingCallbacks().Set(int64(pending))
	return receipts, nil
}

// Commit writes the changes made so far into the store, returning their digest.
func (rt *Runtime) Commit() (thor.Bytes32, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	stage := rt.state.Stage()
	hash := stage.Hash()
	if err := stage.Commit(); err != nil {
		return thor.Bytes32{}, err
	}
	logger.Debug("committed", "changes", stage.Len(), "hash", hash)
	return hash, nil
}
