// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/vechain/thorfarm/builtin/params"
	"github.com/vechain/thorfarm/builtin/reverts"
)

var nativeMethods = map[Kind]map[string]*nativeMethod{}

func init() {
	farmMethods := commonFarmMethods()
	farmMethods = append(farmMethods,
		&nativeMethod{"enter", nil, func(c *Context) ([]any, error) {
			nonce, err := c.Farm().Enter()
			return []any{nonce}, err
		}},
		&nativeMethod{"exit", nil, func(c *Context) ([]any, error) {
			r, err := c.Farm().Exit()
			if err != nil {
				return nil, err
			}
			return []any{r.RewardOut, r.OriginOut, r.Penalized}, nil
		}},
	)
	register(KindFarm, farmMethods)

	stakingMethods := commonFarmMethods()
	stakingMethods = append(stakingMethods,
		&nativeMethod{"stake", nil, func(c *Context) ([]any, error) {
			nonce, err := c.Staking().Stake()
			return []any{nonce}, err
		}},
		&nativeMethod{"unstake", nil, func(c *Context) ([]any, error) {
			r, p, err := c.Staking().Unstake()
			if err != nil {
				return nil, err
			}
			return []any{r.RewardOut, p.Amount, p.ReleaseEpoch}, nil
		}},
		&nativeMethod{"withdraw", []ArgKind{ArgToken}, func(c *Context) ([]any, error) {
			amount, err := c.Staking().Withdraw(c.Token(0))
			return []any{amount}, err
		}},
		&nativeMethod{"getPendingUnbond", []ArgKind{ArgAddress, ArgToken}, func(c *Context) ([]any, error) {
			p, err := c.Staking().PendingUnbond(c.Address(0), c.Token(1))
			if err != nil {
				return nil, err
			}
			if p == nil {
				return []any{new(big.Int), uint64(0)}, nil
			}
			return []any{p.Amount, p.ReleaseEpoch}, nil
		}},
	)
	register(KindStaking, stakingMethods)

	register(KindPair, pairMethods())
}

func register(kind Kind, methods []*nativeMethod) {
	table := make(map[string]*nativeMethod, len(methods))
	for _, m := range methods {
		if _, dup := table[m.name]; dup {
			panic("duplicated native method " + m.name)
		}
		table[m.name] = m
	}
	nativeMethods[kind] = table
}

func none(err error) ([]any, error) {
	return nil, err
}

func commonFarmMethods() []*nativeMethod {
	return []*nativeMethod{
		{"init", []ArgKind{ArgToken, ArgAddress, ArgBool}, func(c *Context) ([]any, error) {
			return none(c.Farm().Init(c.Token(0), c.Address(1), c.Bool(2)))
		}},
		{"pause", nil, func(c *Context) ([]any, error) {
			return none(c.Farm().Pause())
		}},
		{"resume", nil, func(c *Context) ([]any, error) {
			return none(c.Farm().Resume())
		}},
		{"setParam", []ArgKind{ArgString, ArgUint}, func(c *Context) ([]any, error) {
			return none(c.Farm().SetParam(c.Text(0), c.Uint(1)))
		}},
		{"getParam", []ArgKind{ArgString}, func(c *Context) ([]any, error) {
			key, ok := params.KeyByName(c.Text(0))
			if !ok {
				return nil, reverts.Errorf(reverts.KindNotFound, "unknown param %q", c.Text(0))
			}
			v, err := c.Farm().Param(key)
			return []any{v}, err
		}},
		{"addAcceptedPair", []ArgKind{ArgToken, ArgAddress}, func(c *Context) ([]any, error) {
			return none(c.Farm().AddAcceptedPair(c.Token(0), c.Address(1)))
		}},
		{"removeAcceptedPair", []ArgKind{ArgToken}, func(c *Context) ([]any, error) {
			return none(c.Farm().RemoveAcceptedPair(c.Token(0)))
		}},
		{"addOracle", []ArgKind{ArgToken, ArgToken, ArgAddress}, func(c *Context) ([]any, error) {
			return none(c.Farm().AddOracle(c.Token(0), c.Token(1), c.Address(2)))
		}},
		{"removeOracle", []ArgKind{ArgToken, ArgToken}, func(c *Context) ([]any, error) {
			return none(c.Farm().RemoveOracle(c.Token(0), c.Token(1)))
		}},
		{"fund", nil, func(c *Context) ([]any, error) {
			return none(c.Farm().Fund())
		}},
		{"issueFarmToken", []ArgKind{ArgString, ArgString}, func(c *Context) ([]any, error) {
			id, err := c.Farm().IssueFarmToken(c.Text(0), c.Text(1))
			return []any{id}, err
		}},
		{"setLocalRoles", nil, func(c *Context) ([]any, error) {
			id, err := c.Farm().SetLocalRoles()
			return []any{id}, err
		}},
		{"callback", []ArgKind{ArgCallback}, func(c *Context) ([]any, error) {
			return none(c.Farm().OnCallback(c.Callback(0)))
		}},
		{"calculateRewardsForGivenPosition", []ArgKind{ArgUint, ArgBigInt}, func(c *Context) ([]any, error) {
			reward, err := c.Farm().CalculateRewardsForGivenPosition(c.Uint(0), c.BigInt(1))
			return []any{reward}, err
		}},
		{"getPosition", []ArgKind{ArgUint}, func(c *Context) ([]any, error) {
			a, err := c.Farm().Position(c.Uint(0))
			if err != nil {
				return nil, err
			}
			return []any{a.OriginToken, a.OriginAmount, a.EntryValue, a.Shares, a.EntryEpoch}, nil
		}},
		{"getFarmTokenId", nil, func(c *Context) ([]any, error) {
			token, err := c.Farm().FarmTokenID()
			return []any{token}, err
		}},
		{"getState", nil, func(c *Context) ([]any, error) {
			active, err := c.Farm().Active()
			return []any{active}, err
		}},
		{"getOwner", nil, func(c *Context) ([]any, error) {
			owner, err := c.Farm().Owner()
			return []any{owner}, err
		}},
		{"getRouter", nil, func(c *Context) ([]any, error) {
			router, err := c.Farm().Router()
			return []any{router}, err
		}},
		{"getLastErrorMessage", nil, func(c *Context) ([]any, error) {
			msg, err := c.Farm().LastErrorMessage()
			return []any{msg}, err
		}},
		{"getAllAcceptedTokens", nil, func(c *Context) ([]any, error) {
			tokens, err := c.Farm().AcceptedTokens()
			if err != nil {
				return nil, err
			}
			out := make([]any, 0, len(tokens))
			for _, t := range tokens {
				out = append(out, t)
			}
			return out, nil
		}},
		{"getFarmingPoolTokenIdAndAmounts", nil, func(c *Context) ([]any, error) {
			token, reserve, balance, err := c.Farm().PoolTokenAndAmounts()
			return []any{token, reserve, balance}, err
		}},
		{"getTotals", nil, func(c *Context) ([]any, error) {
			totals, err := c.Farm().Totals()
			if err != nil {
				return nil, err
			}
			return []any{totals.Value, totals.Shares}, nil
		}},
	}
}

func pairMethods() []*nativeMethod {
	return []*nativeMethod{
		{"setup", []ArgKind{ArgToken, ArgToken, ArgToken}, func(c *Context) ([]any, error) {
			return none(c.Pair().Setup(c.Token(0), c.Token(1), c.Token(2)))
		}},
		{"addLiquidity", []ArgKind{ArgBigInt, ArgBigInt}, func(c *Context) ([]any, error) {
			liquidity, err := c.Pair().AddLiquidity(c.Env.Caller(), c.BigInt(0), c.BigInt(1))
			return []any{liquidity}, err
		}},
		{"getReserves", nil, func(c *Context) ([]any, error) {
			first, second, err := c.Pair().Reserves()
			return []any{first, second}, err
		}},
		{"getTokensForGivenPosition", []ArgKind{ArgBigInt}, func(c *Context) ([]any, error) {
			first, second, used, err := c.Pair().TokensForPosition(c.Env.GasLeft(), c.BigInt(0))
			c.Env.UseGas(used)
			if err != nil {
				return nil, err
			}
			return []any{first.Token, first.Amount, second.Token, second.Amount}, nil
		}},
		{"getEquivalent", []ArgKind{ArgToken, ArgBigInt}, func(c *Context) ([]any, error) {
			quote, used, err := c.Pair().Equivalent(c.Env.GasLeft(), c.Token(0), c.BigInt(1))
			c.Env.UseGas(used)
			return []any{quote}, err
		}},
	}
}
