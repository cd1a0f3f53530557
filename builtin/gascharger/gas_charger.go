// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gascharger

import (
	"fmt"

	"github.com/vechain/thorfarm/builtin/reverts"
	"github.com/vechain/thorfarm/thor"
)

// outOfGas is the panic value raised when the budget is exhausted.
type outOfGas struct{}

// Charger meters gas against a fixed budget.
// Exhausting the budget unwinds the running call, see Run.
type Charger struct {
	limit uint64

	sloadOps    uint64
	sstoreOps   uint64
	transferOps uint64
	customGas   uint64
	totalGas    uint64
}

func New(limit uint64) *Charger {
	return &Charger{limit: limit}
}

// Charge consumes gas. It panics when the budget is exceeded, the panic is recovered by Run.
func (c *Charger) Charge(gas uint64) {
	switch {
	case gas == 0:
		return
	case gas%thor.SstoreGas == 0:
		c.sstoreOps += gas / thor.SstoreGas
	case gas%thor.TransferGas == 0:
		c.transferOps += gas / thor.TransferGas
	case gas%thor.SloadGas == 0:
		c.sloadOps += gas / thor.SloadGas
	default:
		c.customGas += gas
	}

	if gas > c.limit-c.totalGas {
		c.totalGas = c.limit
		panic(outOfGas{})
	}
	c.totalGas += gas
}

// Used returns gas consumed so far.
func (c *Charger) Used() uint64 {
	return c.totalGas
}

// Left returns the remaining budget.
func (c *Charger) Left() uint64 {
	return c.limit - c.totalGas
}

func (c *Charger) Breakdown() string {
	return fmt.Sprintf(
		"SLOAD: %d ops (%d gas) | SSTORE: %d ops (%d gas) | TRANSFER: %d ops (%d gas) | CUSTOM: %d gas | TOTAL: %d gas",
		c.sloadOps,
		c.sloadOps*thor.SloadGas,
		c.sstoreOps,
		c.sstoreOps*thor.SstoreGas,
		c.transferOps,
		c.transferOps*thor.TransferGas,
		c.customGas,
		c.totalGas,
	)
}

// Run invokes fn, converting budget exhaustion inside it into reverts.ErrOutOfGas.
// Other panics are propagated.
func Run(fn func() error) (err error) {
	defer func() {
		if e := recover(); e != nil {
			if _, ok := e.(outOfGas); ok {
				err = reverts.ErrOutOfGas
				return
			}
			panic(e)
		}
	}()
	return fn()
}
