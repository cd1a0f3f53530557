// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking extends the farm with an unbonding delay: unstaking burns the position
// and pays the reward, the origin amount is released by a later withdraw.
package staking

import (
	"math/big"

	"github.com/vechain/thorfarm/builtin/esdt"
	"github.com/vechain/thorfarm/builtin/farm"
	"github.com/vechain/thorfarm/builtin/params"
	"github.com/vechain/thorfarm/builtin/position"
	"github.com/vechain/thorfarm/builtin/pricing"
	"github.com/vechain/thorfarm/builtin/reverts"
	"github.com/vechain/thorfarm/builtin/solidity"
	"github.com/vechain/thorfarm/log"
	"github.com/vechain/thorfarm/metrics"
	"github.com/vechain/thorfarm/thor"
	"github.com/vechain/thorfarm/xenv"
)

var (
	logger = log.WithContext("pkg", "staking")

	metricOpsCount = metrics.LazyLoadCounterVec("staking_ops_count", []string{"op"})

	slotPending = thor.BytesToBytes32([]byte("staking-pending"))
)

// Pending is the amount an account can withdraw once ReleaseEpoch is reached.
type Pending struct {
	Amount       *big.Int
	ReleaseEpoch uint64
}

type pendingKey struct {
	account thor.Address
	token   thor.TokenID
}

func (k pendingKey) Bytes() []byte {
	return append(k.account.Bytes(), k.token...)
}

// Staking implements the staking contract bound to the environment of one call.
type Staking struct {
	*farm.Farm
	env     *xenv.Environment
	pending *solidity.Mapping[pendingKey, *Pending]
}

// New create a new instance at env.To().
func New(env *xenv.Environment, authority *esdt.ESDT, locator pricing.Locator, decoder *position.Decoder) *Staking {
	sctx := solidity.NewContext(env.To(), env.State(), env.UseGas)
	return &Staking{
		Farm:    farm.New(env, authority, locator, decoder),
		env:     env,
		pending: solidity.NewMapping[pendingKey, *Pending](sctx, slotPending),
	}
}

// Stake takes the call payment and mints a staking position, like farm Enter.
func (s *Staking) Stake() (uint64, error) {
	nonce, err := s.Enter()
	if err != nil {
		return 0, err
	}
	metricOpsCount().AddWithLabel(1, map[string]string{"op": "stake"})
	return nonce, nil
}

// Unstake burns the presented position. The reward is paid now, the origin amount joins the
// caller's pending entry, released UnbondEpochs from now or later.
func (s *Staking) Unstake() (*farm.Redemption, *Pending, error) {
	pay, err := s.PresentedPosition()
	if err != nil {
		return nil, nil, err
	}
	unit, err := s.UnitToken()
	if err != nil {
		return nil, nil, err
	}
	delay, err := s.Param(params.UnbondEpochs)
	if err != nil {
		return nil, nil, err
	}

	r, err := s.Redeem(pay.Nonce, pay.Amount, false)
	if err != nil {
		return nil, nil, err
	}
	caller := s.env.Caller()
	if err := s.Pay(caller, unit, r.RewardOut); err != nil {
		return nil, nil, err
	}

	key := pendingKey{caller, r.Attributes.OriginToken}
	entry, err := s.pending.Get(key)
	if err != nil {
		return nil, nil, err
	}
	if entry == nil {
		entry = &Pending{Amount: new(big.Int)}
	}
	entry.Amount.Add(entry.Amount, r.OriginOut)
	entry.ReleaseEpoch = max(entry.ReleaseEpoch, s.env.Epoch()+delay)
	if err := s.pending.Set(key, entry); err != nil {
		return nil, nil, err
	}

	s.env.Log("Unstake", caller, pay.Nonce, r.Quantity, r.RewardOut, r.OriginOut, entry.ReleaseEpoch)
	metricOpsCount().AddWithLabel(1, map[string]string{"op": "unstake"})
	logger.Debug("unstaked", "caller", caller, "nonce", pay.Nonce, "reward", r.RewardOut, "pending", entry.Amount, "release", entry.ReleaseEpoch)
	return r, entry, nil
}

// Withdraw pays the caller's released pending amount of token.
func (s *Staking) Withdraw(token thor.TokenID) (*big.Int, error) {
	caller := s.env.Caller()
	key := pendingKey{caller, token}
	entry, err := s.pending.Get(key)
	if err != nil {
		return nil, err
	}
	if entry == nil || entry.Amount.Sign() == 0 {
		return nil, reverts.ErrNothingToWithdraw
	}
	if s.env.Epoch() < entry.ReleaseEpoch {
		return nil, reverts.Errorf(reverts.KindUnbondTooEarly, "released at epoch %d", entry.ReleaseEpoch)
	}
	balance, err := s.env.Balance(token, 0)
	if err != nil {
		return nil, err
	}
	if balance.Cmp(entry.Amount) <= 0 {
		logger.Error("on-hand balance does not cover pending unbond", "contract", s.env.To(), "token", token, "balance", balance, "pending", entry.Amount)
		return nil, reverts.Errorf(reverts.KindInsufficientBalance, "balance %v does not exceed pending %v", balance, entry.Amount)
	}

	if err := s.env.Transfer(caller, token, 0, entry.Amount); err != nil {
		return nil, err
	}
	s.pending.Delete(key)

	s.env.Log("Withdraw", caller, token, entry.Amount)
	metricOpsCount().AddWithLabel(1, map[string]string{"op": "withdraw"})
	return entry.Amount, nil
}

// PendingUnbond returns the pending entry of (account, token), nil if none.
func (s *Staking) PendingUnbond(account thor.Address, token thor.TokenID) (*Pending, error) {
	return s.pending.Get(pendingKey{account, token})
}
