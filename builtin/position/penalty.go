// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"math/big"

	"github.com/vechain/thorfarm/builtin/params"
)

var hundred = big.NewInt(100)

// Policy is the early exit penalty.
type Policy struct {
	Percent   uint64
	MinEpochs uint64
	Rule      uint64
}

// LoadPolicy reads the policy from contract params.
func LoadPolicy(p *params.Params) (*Policy, error) {
	percent, err := p.Get(params.PenaltyPercent)
	if err != nil {
		return nil, err
	}
	minEpochs, err := p.Get(params.MinEpochsNoPenalty)
	if err != nil {
		return nil, err
	}
	rule, err := p.Get(params.PenaltyRule)
	if err != nil {
		return nil, err
	}
	return &Policy{Percent: percent, MinEpochs: minEpochs, Rule: rule}, nil
}

// Penalized reports whether a position entered at entryEpoch is still inside the
// minimum holding period at current.
func (p *Policy) Penalized(entryEpoch, current uint64) bool {
	if p.Rule == params.RuleLegacy {
		return entryEpoch+p.MinEpochs >= current
	}
	return current < entryEpoch+p.MinEpochs
}

// Apply returns amount after the haircut.
func (p *Policy) Apply(amount *big.Int) *big.Int {
	out := new(big.Int).Mul(amount, new(big.Int).Sub(hundred, new(big.Int).SetUint64(p.Percent)))
	return out.Quo(out, hundred)
}

// Payout applies the haircut to both legs when penalized, each independently.
func (p *Policy) Payout(reward, origin *big.Int, penalized bool) (*big.Int, *big.Int) {
	if !penalized {
		return new(big.Int).Set(reward), new(big.Int).Set(origin)
	}
	return p.Apply(reward), p.Apply(origin)
}
