// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package esdt

import (
	"math/big"

	"github.com/vechain/thorfarm/builtin/solidity"
	"github.com/vechain/thorfarm/thor"
)

type CallKind uint8

const (
	CallIssue CallKind = iota + 1
	CallSetRoles
)

func (k CallKind) String() string {
	switch k {
	case CallIssue:
		return "issue"
	case CallSetRoles:
		return "setRoles"
	}
	return "unknown"
}

// Callback is the answer to an asynchronous request, delivered to To.
// A non-empty Err marks failure. Refunded tokens travel with the callback.
type Callback struct {
	ID           *big.Int
	To           thor.Address
	Kind         CallKind
	Token        thor.TokenID
	Err          string
	RefundToken  thor.TokenID
	RefundAmount *big.Int
}

// OK reports whether the request succeeded.
func (c *Callback) OK() bool {
	return c.Err == ""
}

// HasRefund reports whether tokens travel back with the callback.
func (c *Callback) HasRefund() bool {
	return c.RefundAmount != nil && c.RefundAmount.Sign() > 0
}

// queue is a storage backed fifo of callbacks.
type queue struct {
	items *solidity.Mapping[*big.Int, *Callback]
	head  *solidity.Uint256
	tail  *solidity.Uint256
}

func newQueue(sctx *solidity.Context, items, head, tail thor.Bytes32) *queue {
	return &queue{
		items: solidity.NewMapping[*big.Int, *Callback](sctx, items),
		head:  solidity.NewUint256(sctx, head),
		tail:  solidity.NewUint256(sctx, tail),
	}
}

func (q *queue) push(cb *Callback) error {
	tail, err := q.tail.Get()
	if err != nil {
		return err
	}
	if err := q.items.Set(tail, cb); err != nil {
		return err
	}
	return q.tail.Set(tail.Add(tail, big.NewInt(1)))
}

func (q *queue) pop() (*Callback, error) {
	head, err := q.head.Get()
	if err != nil {
		return nil, err
	}
	tail, err := q.tail.Get()
	if err != nil {
		return nil, err
	}
	if head.Cmp(tail) >= 0 {
		return nil, nil
	}
	cb, err := q.items.Get(head)
	if err != nil {
		return nil, err
	}
	q.items.Delete(head)
	if err := q.head.Set(new(big.Int).Add(head, big.NewInt(1))); err != nil {
		return nil, err
	}
	return cb, nil
}

func (q *queue) len() (uint64, error) {
	head, err := q.head.Get()
	if err != nil {
		return 0, err
	}
	tail, err := q.tail.Get()
	if err != nil {
		return 0, err
	}
	return new(big.Int).Sub(tail, head).Uint64(), nil
}
