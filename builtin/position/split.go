// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"math/big"

	"github.com/vechain/thorfarm/builtin/reverts"
)

// Split is the share of a record represented by a redeemed quantity.
type Split struct {
	Quantity     *big.Int
	Principal    *big.Int
	OriginAmount *big.Int
}

// Split pro-rates the record to quantity out of its shares.
func (a *Attributes) Split(quantity *big.Int) (*Split, error) {
	if quantity == nil || quantity.Sign() <= 0 || quantity.Cmp(a.Shares) > 0 {
		return nil, reverts.Errorf(reverts.KindInvalidAmount, "quantity %v out of range", quantity)
	}

	principal := new(big.Int).Mul(a.EntryValue, quantity)
	principal.Quo(principal, a.Shares)
	if principal.Sign() <= 0 {
		return nil, reverts.ErrZeroPrincipal
	}

	origin := new(big.Int).Mul(a.OriginAmount, quantity)
	origin.Quo(origin, a.Shares)
	if origin.Sign() <= 0 {
		return nil, reverts.ErrZeroOriginAmount
	}

	return &Split{
		Quantity:     new(big.Int).Set(quantity),
		Principal:    principal,
		OriginAmount: origin,
	}, nil
}
