// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package handshake keeps the continuations of asynchronous requests a contract sent to the
// token authority. Each continuation is resolved exactly once.
package handshake

import (
	"math/big"

	"github.com/looplab/fsm"
	"github.com/pkg/errors"

	"github.com/vechain/thorfarm/builtin/reverts"
	"github.com/vechain/thorfarm/builtin/solidity"
	"github.com/vechain/thorfarm/log"
	"github.com/vechain/thorfarm/thor"
)

var logger = log.WithContext("pkg", "handshake")

// Kind of the request a continuation belongs to.
type Kind uint8

const (
	KindIssue Kind = iota + 1
	KindSetRoles
)

const (
	StatusPending   = "pending"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"

	eventSucceed = "succeed"
	eventFail    = "fail"
)

// Request is a registered continuation.
type Request struct {
	Kind     Kind
	Caller   thor.Address
	Fee      *big.Int
	FeeToken thor.TokenID
	Status   string
}

// Pending reports whether the request still awaits its callback.
func (r *Request) Pending() bool {
	return r.Status == StatusPending
}

// Table is the pending request table of a contract, keyed by an increasing id.
type Table struct {
	requests *solidity.Mapping[*big.Int, *Request]
	counter  *solidity.Uint256
}

func New(sctx *solidity.Context, pos thor.Bytes32) *Table {
	return &Table{
		requests: solidity.NewMapping[*big.Int, *Request](sctx, pos),
		counter:  solidity.NewUint256(sctx, thor.Blake2b(pos.Bytes(), []byte("counter"))),
	}
}

// Register stores a new pending continuation and returns its id.
func (t *Table) Register(kind Kind, caller thor.Address, fee *big.Int, feeToken thor.TokenID) (*big.Int, error) {
	last, err := t.counter.Get()
	if err != nil {
		return nil, err
	}
	id := last.Add(last, big.NewInt(1))
	if err := t.counter.Set(id); err != nil {
		return nil, err
	}
	if fee == nil {
		fee = new(big.Int)
	}
	req := &Request{Kind: kind, Caller: caller, Fee: fee, FeeToken: feeToken, Status: StatusPending}
	if err := t.requests.Set(id, req); err != nil {
		return nil, errors.Wrap(err, "failed to register request")
	}
	return id, nil
}

// Get returns the request registered under id.
func (t *Table) Get(id *big.Int) (*Request, error) {
	req, err := t.requests.Get(id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, reverts.Errorf(reverts.KindNotFound, "unknown request %v", id)
	}
	return req, nil
}

// Complete resolves the continuation id with the outcome of the request.
// Resolving an unknown or already resolved continuation fails.
func (t *Table) Complete(id *big.Int, ok bool) (*Request, error) {
	req, err := t.Get(id)
	if err != nil {
		return nil, err
	}

	machine := newMachine(req.Status, id)
	event := eventFail
	if ok {
		event = eventSucceed
	}
	if err := machine.Event(event); err != nil {
		return nil, reverts.Errorf(reverts.KindAlreadyExists, "request %v already %s", id, req.Status)
	}
	req.Status = machine.Current()
	if err := t.requests.Set(id, req); err != nil {
		return nil, err
	}
	return req, nil
}

func newMachine(status string, id *big.Int) *fsm.FSM {
	return fsm.NewFSM(
		status,
		fsm.Events{
			{Name: eventSucceed, Src: []string{StatusPending}, Dst: StatusSucceeded},
			{Name: eventFail, Src: []string{StatusPending}, Dst: StatusFailed},
		},
		fsm.Callbacks{
			"enter_state": func(e *fsm.Event) {
				logger.Debug("request resolved", "id", id, "from", e.Src, "to", e.Dst)
			},
		},
	)
}
