// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"

	"github.com/vechain/thorfarm/builtin/reverts"
	"github.com/vechain/thorfarm/builtin/solidity"
	"github.com/vechain/thorfarm/thor"
)

var (
	slotTotalValue  = thor.BytesToBytes32([]byte("pool-total-value"))
	slotTotalShares = thor.BytesToBytes32([]byte("pool-total-shares"))
)

// Totals is a snapshot of the ledger. Shares is zero iff Value is zero.
type Totals struct {
	Value  *big.Int
	Shares *big.Int
}

// SharesFor returns shares minted for value: 1:1 on an empty pool, proportional otherwise.
func SharesFor(value *big.Int, t *Totals) *big.Int {
	if t.Shares.Sign() == 0 {
		return new(big.Int).Set(value)
	}
	shares := new(big.Int).Mul(value, t.Shares)
	return shares.Quo(shares, t.Value)
}

// Attributable returns the pool value backing shares.
func Attributable(shares *big.Int, t *Totals) *big.Int {
	if t.Shares.Sign() == 0 {
		return new(big.Int)
	}
	v := new(big.Int).Mul(shares, t.Value)
	return v.Quo(v, t.Shares)
}

// Reward is the part of attributable above principal, never negative.
func Reward(attributable, principal *big.Int) *big.Int {
	reward := new(big.Int).Sub(attributable, principal)
	if reward.Sign() < 0 {
		return reward.SetInt64(0)
	}
	return reward
}

// Service manages the shared pool ledger of a farm.
type Service struct {
	totalValue  *solidity.Uint256
	totalShares *solidity.Uint256
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		totalValue:  solidity.NewUint256(sctx, slotTotalValue),
		totalShares: solidity.NewUint256(sctx, slotTotalShares),
	}
}

// Totals returns the current totals.
func (s *Service) Totals() (*Totals, error) {
	value, err := s.totalValue.Get()
	if err != nil {
		return nil, err
	}
	shares, err := s.totalShares.Get()
	if err != nil {
		return nil, err
	}
	return &Totals{Value: value, Shares: shares}, nil
}

// VirtualReserve is the pool value in unit of account, the pricing reference of the pool
// as opposed to the literal balance the contract holds.
func (s *Service) VirtualReserve() (*big.Int, error) {
	return s.totalValue.Get()
}

// Add accounts value into the pool and returns the shares issued for it.
func (s *Service) Add(value *big.Int) (*big.Int, error) {
	if value == nil || value.Sign() <= 0 {
		return nil, reverts.ErrInvalidAmount
	}
	totals, err := s.Totals()
	if err != nil {
		return nil, err
	}
	shares := SharesFor(value, totals)
	if shares.Sign() == 0 {
		return nil, reverts.Errorf(reverts.KindInvalidAmount, "value %v too small for a share", value)
	}

	if err := s.totalValue.Add(value); err != nil {
		return nil, err
	}
	if err := s.totalShares.Add(shares); err != nil {
		return nil, err
	}
	return shares, nil
}

// CalculateReward returns the reward of redeeming shares entered with principal, without
// changing the ledger.
func (s *Service) CalculateReward(shares, principal *big.Int) (*big.Int, error) {
	totals, err := s.Totals()
	if err != nil {
		return nil, err
	}
	if shares.Cmp(totals.Shares) > 0 {
		return nil, reverts.ErrInsufficientShares
	}
	return Reward(Attributable(shares, totals), principal), nil
}

// Remove redeems shares entered with principal and returns the reward above principal.
// A loss is absorbed: the reward is zero and nothing is charged back.
func (s *Service) Remove(shares, principal *big.Int) (*big.Int, error) {
	totals, err := s.Totals()
	if err != nil {
		return nil, err
	}
	if shares.Sign() <= 0 {
		return nil, reverts.ErrInvalidAmount
	}
	if shares.Cmp(totals.Shares) > 0 {
		return nil, reverts.ErrInsufficientShares
	}

	attributable := Attributable(shares, totals)
	if err := s.totalValue.Sub(attributable); err != nil {
		return nil, err
	}
	if err := s.totalShares.Sub(shares); err != nil {
		return nil, err
	}
	return Reward(attributable, principal), nil
}

// Distribute credits amount of reward to the pool without issuing shares.
// An empty pool cannot take rewards since nobody would own them.
func (s *Service) Distribute(amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return reverts.ErrInvalidAmount
	}
	totals, err := s.Totals()
	if err != nil {
		return err
	}
	if totals.Shares.Sign() == 0 {
		return reverts.Errorf(reverts.KindInvalidAmount, "no shares to reward")
	}
	return s.totalValue.Add(amount)
}
