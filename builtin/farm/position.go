// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/thorfarm/builtin/position"
	"github.com/vechain/thorfarm/builtin/reverts"
	"github.com/vechain/thorfarm/thor"
	"github.com/vechain/thorfarm/xenv"
)

// Redemption is the outcome of burning part of a position.
type Redemption struct {
	Nonce      uint64
	Attributes *position.Attributes
	*position.Split

	Reward    *big.Int
	Penalized bool
	// amounts due after penalty
	RewardOut *big.Int
	OriginOut *big.Int
}

func (f *Farm) payment() (*xenv.Payment, error) {
	pay := f.env.Payment()
	if pay == nil || pay.Amount == nil || pay.Amount.Sign() <= 0 {
		return nil, reverts.ErrInvalidAmount
	}
	return pay, nil
}

// Enter takes the call payment into the pool and mints a position for it.
// The caller receives one unit of position per share; one more unit is retained by the farm.
func (f *Farm) Enter() (uint64, error) {
	if err := f.RequireActive(); err != nil {
		return 0, err
	}
	farmToken, err := f.issuedToken()
	if err != nil {
		return 0, err
	}
	pay, err := f.payment()
	if err != nil {
		return 0, err
	}
	if pay.Nonce != 0 {
		return 0, reverts.Errorf(reverts.KindUnknownAsset, "token %s with nonce %d not accepted", pay.Token, pay.Nonce)
	}

	resolver, err := f.resolver()
	if err != nil {
		return 0, err
	}
	value, err := resolver.Resolve(f.env, pay.Token, pay.Amount)
	if err != nil {
		logger.Debug("failed to resolve deposit", "token", pay.Token, "amount", pay.Amount, "error", err)
		return 0, err
	}
	if value.Sign() <= 0 {
		return 0, reverts.ErrZeroContribution
	}

	shares, err := f.pool.Add(value)
	if err != nil {
		return 0, err
	}
	attrs := &position.Attributes{
		Version:      position.Version,
		OriginToken:  pay.Token,
		OriginAmount: new(big.Int).Set(pay.Amount),
		EntryValue:   value,
		Shares:       shares,
		EntryEpoch:   f.env.Epoch(),
	}
	raw, err := attrs.Encode()
	if err != nil {
		return 0, errors.Wrap(err, "failed to encode position")
	}
	nonce, err := f.authority.Create(f.env.To(), farmToken, new(big.Int).Add(shares, one), raw)
	if err != nil {
		return 0, err
	}
	if err := f.env.Transfer(f.env.Caller(), farmToken, nonce, shares); err != nil {
		return 0, err
	}

	f.env.Log("Enter", f.env.Caller(), pay.Token, pay.Amount, value, shares, nonce)
	metricOpsCount().AddWithLabel(1, map[string]string{"op": "enter"})
	logger.Debug("entered farm", "caller", f.env.Caller(), "token", pay.Token, "value", value, "shares", shares, "nonce", nonce)
	return nonce, nil
}

// Position returns the attributes of a nonce of the position token.
func (f *Farm) Position(nonce uint64) (*position.Attributes, error) {
	farmToken, err := f.issuedToken()
	if err != nil {
		return nil, err
	}
	return f.position(farmToken, nonce)
}

func (f *Farm) position(farmToken thor.TokenID, nonce uint64) (*position.Attributes, error) {
	data, err := f.authority.TokenData(farmToken, nonce)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, reverts.Errorf(reverts.KindInvalidNonce, "no position %s/%d", farmToken, nonce)
	}
	return f.decoder.Decode(data.Attributes)
}

func (f *Farm) policy() (*position.Policy, error) {
	return position.LoadPolicy(f.params)
}

// Redeem removes quantity of the position at nonce from the pool and burns it from the
// farm's holdings. The early exit penalty is only considered when penalize is set.
func (f *Farm) Redeem(nonce uint64, quantity *big.Int, penalize bool) (*Redemption, error) {
	farmToken, err := f.issuedToken()
	if err != nil {
		return nil, err
	}
	attrs, err := f.position(farmToken, nonce)
	if err != nil {
		return nil, err
	}
	split, err := attrs.Split(quantity)
	if err != nil {
		return nil, err
	}
	reward, err := f.pool.Remove(split.Quantity, split.Principal)
	if err != nil {
		return nil, err
	}
	if err := f.authority.Burn(f.env.To(), farmToken, nonce, split.Quantity); err != nil {
		return nil, err
	}

	policy, err := f.policy()
	if err != nil {
		return nil, err
	}
	penalized := penalize && policy.Penalized(attrs.EntryEpoch, f.env.Epoch())
	rewardOut, originOut := policy.Payout(reward, split.OriginAmount, penalized)

	return &Redemption{
		Nonce:      nonce,
		Attributes: attrs,
		Split:      split,
		Reward:     reward,
		Penalized:  penalized,
		RewardOut:  rewardOut,
		OriginOut:  originOut,
	}, nil
}

// Pay transfers amount of token to recipient, skipping zero amounts.
func (f *Farm) Pay(recipient thor.Address, token thor.TokenID, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	return f.env.Transfer(recipient, token, 0, amount)
}

// PresentedPosition returns the call payment, which must be a quantity of the farm token.
func (f *Farm) PresentedPosition() (*xenv.Payment, error) {
	pay, err := f.payment()
	if err != nil {
		return nil, err
	}
	farmToken, err := f.farmToken.Get()
	if err != nil {
		return nil, err
	}
	if farmToken.IsEmpty() || pay.Token != farmToken {
		return nil, reverts.Errorf(reverts.KindUnknownToken, "token %s is not the farm token", pay.Token)
	}
	return pay, nil
}

// Exit redeems the position presented as payment, paying reward in the unit of account
// and the origin amount in the origin token.
func (f *Farm) Exit() (*Redemption, error) {
	pay, err := f.PresentedPosition()
	if err != nil {
		return nil, err
	}
	unit, err := f.UnitToken()
	if err != nil {
		return nil, err
	}

	r, err := f.Redeem(pay.Nonce, pay.Amount, true)
	if err != nil {
		return nil, err
	}
	caller := f.env.Caller()
	if err := f.Pay(caller, unit, r.RewardOut); err != nil {
		return nil, err
	}
	if err := f.Pay(caller, r.Attributes.OriginToken, r.OriginOut); err != nil {
		return nil, err
	}

	f.env.Log("Exit", caller, pay.Nonce, r.Quantity, r.RewardOut, r.OriginOut, r.Penalized)
	metricOpsCount().AddWithLabel(1, map[string]string{"op": "exit"})
	logger.Debug("exited farm", "caller", caller, "nonce", pay.Nonce, "quantity", r.Quantity, "reward", r.RewardOut, "origin", r.OriginOut, "penalized", r.Penalized)
	return r, nil
}

// CalculateRewardsForGivenPosition quotes the reward Exit would pay for quantity of nonce now.
func (f *Farm) CalculateRewardsForGivenPosition(nonce uint64, quantity *big.Int) (*big.Int, error) {
	farmToken, err := f.issuedToken()
	if err != nil {
		return nil, err
	}
	last, err := f.authority.LastNonce(farmToken)
	if err != nil {
		return nil, err
	}
	if nonce == 0 || nonce > last {
		return nil, reverts.ErrInvalidNonce
	}
	attrs, err := f.position(farmToken, nonce)
	if err != nil {
		return nil, err
	}
	split, err := attrs.Split(quantity)
	if err != nil {
		return nil, err
	}
	reward, err := f.pool.CalculateReward(split.Quantity, split.Principal)
	if err != nil {
		return nil, err
	}
	policy, err := f.policy()
	if err != nil {
		return nil, err
	}
	if policy.Penalized(attrs.EntryEpoch, f.env.Epoch()) {
		return policy.Apply(reward), nil
	}
	return reward, nil
}

// Fund credits the payment, in the unit of account, to the pool as reward.
func (f *Farm) Fund() error {
	if err := f.RequireActive(); err != nil {
		return err
	}
	pay, err := f.payment()
	if err != nil {
		return err
	}
	unit, err := f.UnitToken()
	if err != nil {
		return err
	}
	if pay.Token != unit || pay.Nonce != 0 {
		return reverts.Errorf(reverts.KindInvalidAmount, "rewards must be paid in %s", unit)
	}
	if err := f.pool.Distribute(pay.Amount); err != nil {
		return err
	}
	f.env.Log("Fund", f.env.Caller(), pay.Amount)
	metricOpsCount().AddWithLabel(1, map[string]string{"op": "fund"})
	return nil
}
