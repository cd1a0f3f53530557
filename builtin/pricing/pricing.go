// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pricing converts deposited assets into the unit of account of a pool.
package pricing

//go:generate mockgen -source=pricing.go -destination=mock_pricing/mock_pricing.go -package=mock_pricing

import (
	"math/big"

	"github.com/vechain/thorfarm/log"
	"github.com/vechain/thorfarm/metrics"
	"github.com/vechain/thorfarm/thor"
)

var (
	logger = log.WithContext("pkg", "pricing")

	metricQueryGas     = metrics.LazyLoadHistogram("pricing_extern_query_gas", metrics.BucketGas)
	metricResolveCount = metrics.LazyLoadCounterVec("pricing_resolve_count", []string{"route"})
)

// TokenAmount is an amount of a token.
type TokenAmount struct {
	Token  thor.TokenID
	Amount *big.Int
}

// Pair is a paired-liquidity contract able to price its own liquidity token.
// Every query runs under the given gas budget and reports the gas it consumed,
// also when it fails.
type Pair interface {
	// TokensForPosition decomposes liquidity into its two constituents.
	TokensForPosition(gas uint64, liquidity *big.Int) (first, second *TokenAmount, used uint64, err error)
	// Equivalent quotes amount of token in terms of the other token of the pair.
	Equivalent(gas uint64, token thor.TokenID, amount *big.Int) (quote *big.Int, used uint64, err error)
}

// Locator finds the pair deployed at an address.
type Locator interface {
	Locate(addr thor.Address) (Pair, error)
}

// LocatorFunc implements Locator with a function.
type LocatorFunc func(addr thor.Address) (Pair, error)

func (f LocatorFunc) Locate(addr thor.Address) (Pair, error) { return f(addr) }

// Meter is the gas account of the calling transaction.
type Meter interface {
	GasLeft() uint64
	UseGas(gas uint64)
}
