// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pricing

import (
	"math/big"

	"github.com/vechain/thorfarm/builtin/reverts"
	"github.com/vechain/thorfarm/thor"
)

// Resolver values deposits in the unit of account. It only reads state.
type Resolver struct {
	unit     thor.TokenID
	lpMode   bool
	maxGas   uint64
	registry *Registry
	locator  Locator
}

func NewResolver(unit thor.TokenID, lpMode bool, maxGas uint64, registry *Registry, locator Locator) *Resolver {
	return &Resolver{
		unit:     unit,
		lpMode:   lpMode,
		maxGas:   maxGas,
		registry: registry,
		locator:  locator,
	}
}

// AcceptedTokens lists the tokens a deposit may be made in.
func (r *Resolver) AcceptedTokens() ([]thor.TokenID, error) {
	if !r.lpMode {
		return []thor.TokenID{r.unit}, nil
	}
	return r.registry.AcceptedTokens()
}

// Resolve returns the value of amount of token in the unit of account.
func (r *Resolver) Resolve(meter Meter, token thor.TokenID, amount *big.Int) (*big.Int, error) {
	if token == r.unit && !r.lpMode {
		metricResolveCount().AddWithLabel(1, map[string]string{"route": "identity"})
		return new(big.Int).Set(amount), nil
	}

	pairAddr, found, err := r.registry.PairOf(token)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, reverts.Errorf(reverts.KindUnknownAsset, "token %s not accepted", token)
	}
	pair, err := r.locate(pairAddr)
	if err != nil {
		return nil, err
	}

	first, second, used, err := pair.TokensForPosition(r.budget(meter), amount)
	r.charge(meter, used)
	if err != nil {
		return nil, remoteError(pairAddr, err)
	}
	if first == nil || second == nil || first.Amount == nil || second.Amount == nil {
		return nil, reverts.Errorf(reverts.KindRemoteCall, "pair %v: malformed position", pairAddr)
	}

	for _, c := range []*TokenAmount{first, second} {
		if c.Token == r.unit {
			metricResolveCount().AddWithLabel(1, map[string]string{"route": "pair"})
			return new(big.Int).Set(c.Amount), nil
		}
	}

	for _, c := range []*TokenAmount{first, second} {
		oracleAddr, found, err := r.registry.OracleOf(c.Token, r.unit)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		oracle, err := r.locate(oracleAddr)
		if err != nil {
			return nil, err
		}
		quote, used, err := oracle.Equivalent(r.budget(meter), c.Token, c.Amount)
		r.charge(meter, used)
		if err != nil {
			return nil, remoteError(oracleAddr, err)
		}
		logger.Debug("priced through oracle", "token", token, "constituent", c.Token, "oracle", oracleAddr, "quote", quote)
		metricResolveCount().AddWithLabel(1, map[string]string{"route": "oracle"})
		return quote, nil
	}
	return nil, reverts.Errorf(reverts.KindNoPriceRoute, "no oracle for %s or %s", first.Token, second.Token)
}

func (r *Resolver) locate(addr thor.Address) (Pair, error) {
	pair, err := r.locator.Locate(addr)
	if err != nil {
		return nil, remoteError(addr, err)
	}
	return pair, nil
}

func (r *Resolver) budget(meter Meter) uint64 {
	return min(meter.GasLeft(), r.maxGas)
}

func (r *Resolver) charge(meter Meter, used uint64) {
	metricQueryGas().Observe(int64(used))
	meter.UseGas(used)
}

func remoteError(addr thor.Address, err error) error {
	if kind, ok := reverts.KindOf(err); ok && kind == reverts.KindRemoteCall {
		return err
	}
	return reverts.Errorf(reverts.KindRemoteCall, "remote call to %v: %v", addr, err)
}
