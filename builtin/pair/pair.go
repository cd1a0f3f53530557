// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pair implements a constant product liquidity pair. Its reserves are the
// balances the pair address holds, its liquidity token is fungible (nonce 0).
package pair

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/thorfarm/builtin/gascharger"
	"github.com/vechain/thorfarm/builtin/pricing"
	"github.com/vechain/thorfarm/builtin/reverts"
	"github.com/vechain/thorfarm/builtin/solidity"
	"github.com/vechain/thorfarm/log"
	"github.com/vechain/thorfarm/state"
	"github.com/vechain/thorfarm/thor"
)

var (
	logger = log.WithContext("pkg", "pair")

	slotConfig = thor.BytesToBytes32([]byte("pair-config"))
	slotSupply = thor.BytesToBytes32([]byte("pair-lp-supply"))
)

var _ pricing.Pair = (*Pair)(nil)

// Config names the tokens of a pair.
type Config struct {
	First   thor.TokenID
	Second  thor.TokenID
	LPToken thor.TokenID
}

type Pair struct {
	addr  thor.Address
	state *state.State
}

func New(addr thor.Address, state *state.State) *Pair {
	return &Pair{addr: addr, state: state}
}

func (p *Pair) Address() thor.Address { return p.addr }

// bind returns the storage of the pair charging gas to useGas.
func (p *Pair) bind(useGas solidity.UseGasFunc) (*solidity.Raw[*Config], *solidity.Uint256) {
	sctx := solidity.NewContext(p.addr, p.state, useGas)
	return solidity.NewRaw[*Config](sctx, slotConfig), solidity.NewUint256(sctx, slotSupply)
}

// Config returns the tokens of the pair, nil if not set up.
func (p *Pair) Config() (*Config, error) {
	config, _ := p.bind(nil)
	return config.Get()
}

// Setup initializes the pair once.
func (p *Pair) Setup(first, second, lpToken thor.TokenID) error {
	if first.IsEmpty() || second.IsEmpty() || lpToken.IsEmpty() || first == second {
		return reverts.Errorf(reverts.KindInvalidAmount, "invalid pair tokens")
	}
	config, _ := p.bind(nil)
	exists, err := config.Exists()
	if err != nil {
		return err
	}
	if exists {
		return reverts.Errorf(reverts.KindAlreadyExists, "pair %v already set up", p.addr)
	}
	return config.Set(&Config{First: first, Second: second, LPToken: lpToken})
}

// Reserves returns the balances of both tokens held by the pair.
func (p *Pair) Reserves() (first, second *big.Int, err error) {
	cfg, err := p.mustConfig(nil)
	if err != nil {
		return nil, nil, err
	}
	return p.reserves(cfg, nil)
}

func (p *Pair) reserves(cfg *Config, useGas solidity.UseGasFunc) (first, second *big.Int, err error) {
	if useGas != nil {
		useGas(2 * thor.SloadGas)
	}
	if first, err = p.state.GetBalance(p.addr, cfg.First, 0); err != nil {
		return
	}
	second, err = p.state.GetBalance(p.addr, cfg.Second, 0)
	return
}

func (p *Pair) mustConfig(useGas solidity.UseGasFunc) (*Config, error) {
	config, _ := p.bind(useGas)
	cfg, err := config.Get()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, errors.Errorf("no pair at %v", p.addr)
	}
	return cfg, nil
}

// AddLiquidity moves both amounts from provider into the pair and mints liquidity to provider.
func (p *Pair) AddLiquidity(provider thor.Address, firstAmount, secondAmount *big.Int) (*big.Int, error) {
	if firstAmount.Sign() <= 0 || secondAmount.Sign() <= 0 {
		return nil, reverts.ErrInvalidAmount
	}
	cfg, err := p.mustConfig(nil)
	if err != nil {
		return nil, err
	}
	_, supply := p.bind(nil)
	total, err := supply.Get()
	if err != nil {
		return nil, err
	}
	firstReserve, secondReserve, err := p.reserves(cfg, nil)
	if err != nil {
		return nil, err
	}

	var liquidity *big.Int
	if total.Sign() == 0 {
		liquidity = new(big.Int).Sqrt(new(big.Int).Mul(firstAmount, secondAmount))
	} else {
		byFirst := new(big.Int).Mul(firstAmount, total)
		byFirst.Quo(byFirst, firstReserve)
		bySecond := new(big.Int).Mul(secondAmount, total)
		bySecond.Quo(bySecond, secondReserve)
		liquidity = byFirst
		if bySecond.Cmp(byFirst) < 0 {
			liquidity = bySecond
		}
	}
	if liquidity.Sign() <= 0 {
		return nil, reverts.Errorf(reverts.KindInvalidAmount, "insufficient liquidity minted")
	}

	for _, leg := range []struct {
		token  thor.TokenID
		amount *big.Int
	}{{cfg.First, firstAmount}, {cfg.Second, secondAmount}} {
		if err := p.state.Transfer(provider, p.addr, leg.token, 0, leg.amount); err != nil {
			if errors.Is(err, state.ErrInsufficientBalance) {
				return nil, reverts.Errorf(reverts.KindInsufficientBalance, "insufficient %s balance", leg.token)
			}
			return nil, err
		}
	}
	if err := p.state.AddBalance(provider, cfg.LPToken, 0, liquidity); err != nil {
		return nil, err
	}
	if err := supply.Add(liquidity); err != nil {
		return nil, err
	}
	logger.Debug("liquidity added", "pair", p.addr, "provider", provider, "liquidity", liquidity)
	return liquidity, nil
}

// TokensForPosition implements pricing.Pair.
func (p *Pair) TokensForPosition(gas uint64, liquidity *big.Int) (first, second *pricing.TokenAmount, used uint64, err error) {
	charger := gascharger.New(gas)
	err = gascharger.Run(func() error {
		cfg, err := p.mustConfig(charger.Charge)
		if err != nil {
			return err
		}
		_, supply := p.bind(charger.Charge)
		total, err := supply.Get()
		if err != nil {
			return err
		}
		if liquidity.Sign() <= 0 || liquidity.Cmp(total) > 0 {
			return reverts.Errorf(reverts.KindInvalidAmount, "liquidity %v out of range", liquidity)
		}
		firstReserve, secondReserve, err := p.reserves(cfg, charger.Charge)
		if err != nil {
			return err
		}
		first = &pricing.TokenAmount{Token: cfg.First, Amount: share(firstReserve, liquidity, total)}
		second = &pricing.TokenAmount{Token: cfg.Second, Amount: share(secondReserve, liquidity, total)}
		return nil
	})
	if err != nil {
		return nil, nil, charger.Used(), err
	}
	return first, second, charger.Used(), nil
}

// Equivalent implements pricing.Pair, quoting at the current reserve ratio.
func (p *Pair) Equivalent(gas uint64, token thor.TokenID, amount *big.Int) (quote *big.Int, used uint64, err error) {
	charger := gascharger.New(gas)
	err = gascharger.Run(func() error {
		cfg, err := p.mustConfig(charger.Charge)
		if err != nil {
			return err
		}
		firstReserve, secondReserve, err := p.reserves(cfg, charger.Charge)
		if err != nil {
			return err
		}
		switch token {
		case cfg.First:
			quote, err = quoteOf(amount, firstReserve, secondReserve)
		case cfg.Second:
			quote, err = quoteOf(amount, secondReserve, firstReserve)
		default:
			err = reverts.Errorf(reverts.KindUnknownToken, "token %s not in pair", token)
		}
		return err
	})
	return quote, charger.Used(), err
}

func share(reserve, liquidity, total *big.Int) *big.Int {
	v := new(big.Int).Mul(reserve, liquidity)
	return v.Quo(v, total)
}

func quoteOf(amount, reserveIn, reserveOut *big.Int) (*big.Int, error) {
	if amount.Sign() <= 0 {
		return nil, reverts.ErrInvalidAmount
	}
	if reserveIn.Sign() == 0 || reserveOut.Sign() == 0 {
		return nil, reverts.Errorf(reverts.KindInsufficientBalance, "insufficient liquidity")
	}
	q := new(big.Int).Mul(amount, reserveOut)
	return q.Quo(q, reserveIn), nil
}
