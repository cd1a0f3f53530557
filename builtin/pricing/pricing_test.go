// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pricing_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/thorfarm/builtin/pricing"
	"github.com/vechain/thorfarm/builtin/pricing/mock_pricing"
	"github.com/vechain/thorfarm/builtin/reverts"
	"github.com/vechain/thorfarm/builtin/solidity"
	"github.com/vechain/thorfarm/lvldb"
	"github.com/vechain/thorfarm/state"
	"github.com/vechain/thorfarm/test/datagen"
	"github.com/vechain/thorfarm/thor"
)

const (
	unit   = thor.TokenID("UNIT-000001")
	lp     = thor.TokenID("LPAB-000002")
	tokenA = thor.TokenID("AAA-000003")
	tokenB = thor.TokenID("BBB-000004")
)

func newRegistry(t *testing.T) *pricing.Registry {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	sctx := solidity.NewContext(datagen.RandAddress(), state.New(db), nil)
	return pricing.NewRegistry(sctx, thor.BytesToBytes32([]byte("registry")))
}

func TestRegistryPairs(t *testing.T) {
	reg := newRegistry(t)
	pairAddr := datagen.RandAddress()

	_, found, err := reg.PairOf(lp)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, reg.AddAcceptedPair(lp, pairAddr))
	require.NoError(t, reg.AddAcceptedPair(tokenA, datagen.RandAddress()))

	addr, found, err := reg.PairOf(lp)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, pairAddr, addr)

	// re-registering moves the pair, the token is listed once
	other := datagen.RandAddress()
	require.NoError(t, reg.AddAcceptedPair(lp, other))
	addr, _, err = reg.PairOf(lp)
	require.NoError(t, err)
	assert.Equal(t, other, addr)

	tokens, err := reg.AcceptedTokens()
	require.NoError(t, err)
	assert.Equal(t, []thor.TokenID{lp, tokenA}, tokens)

	require.NoError(t, reg.RemoveAcceptedPair(lp))
	tokens, err = reg.AcceptedTokens()
	require.NoError(t, err)
	assert.Equal(t, []thor.TokenID{tokenA}, tokens)

	err = reg.RemoveAcceptedPair(lp)
	assert.True(t, errors.Is(err, reverts.ErrNotFound))

	err = reg.AddAcceptedPair(lp, thor.Address{})
	assert.True(t, errors.Is(err, reverts.ErrInvalidAmount))
}

func TestRegistryOraclesAreSymmetric(t *testing.T) {
	reg := newRegistry(t)
	oracle := datagen.RandAddress()

	require.NoError(t, reg.AddOracle(tokenA, unit, oracle))
	for _, route := range [][2]thor.TokenID{{tokenA, unit}, {unit, tokenA}} {
		addr, found, err := reg.OracleOf(route[0], route[1])
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, oracle, addr)
	}

	// removal through the reverse ordering clears both
	require.NoError(t, reg.RemoveOracle(unit, tokenA))
	for _, route := range [][2]thor.TokenID{{tokenA, unit}, {unit, tokenA}} {
		_, found, err := reg.OracleOf(route[0], route[1])
		require.NoError(t, err)
		assert.False(t, found)
	}

	assert.True(t, errors.Is(reg.RemoveOracle(tokenA, unit), reverts.ErrNotFound))
	assert.True(t, errors.Is(reg.AddOracle(tokenA, tokenA, oracle), reverts.ErrInvalidAmount))
}

type fixture struct {
	reg     *pricing.Registry
	pair    *mock_pricing.MockPair
	oracle  *mock_pricing.MockPair
	locator *mock_pricing.MockLocator
	meter   *mock_pricing.MockMeter

	pairAddr   thor.Address
	oracleAddr thor.Address
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		reg:        newRegistry(t),
		pair:       mock_pricing.NewMockPair(ctrl),
		oracle:     mock_pricing.NewMockPair(ctrl),
		locator:    mock_pricing.NewMockLocator(ctrl),
		meter:      mock_pricing.NewMockMeter(ctrl),
		pairAddr:   datagen.RandAddress(),
		oracleAddr: datagen.RandAddress(),
	}
	f.locator.EXPECT().Locate(f.pairAddr).Return(f.pair, nil).AnyTimes()
	f.locator.EXPECT().Locate(f.oracleAddr).Return(f.oracle, nil).AnyTimes()
	f.meter.EXPECT().GasLeft().Return(uint64(50_000_000)).AnyTimes()
	require.NoError(t, f.reg.AddAcceptedPair(lp, f.pairAddr))
	return f
}

func (f *fixture) resolver(lpMode bool) *pricing.Resolver {
	return pricing.NewResolver(unit, lpMode, thor.ExternQueryMaxGas, f.reg, f.locator)
}

func TestResolveIdentity(t *testing.T) {
	f := newFixture(t)
	amount := big.NewInt(1234)

	value, err := f.resolver(false).Resolve(f.meter, unit, amount)
	require.NoError(t, err)
	assert.Equal(t, amount, value)

	// lp farms never take the unit of account at face value
	_, err = f.resolver(true).Resolve(f.meter, unit, amount)
	assert.True(t, errors.Is(err, reverts.ErrUnknownAsset))

	_, err = f.resolver(false).Resolve(f.meter, tokenA, amount)
	assert.True(t, errors.Is(err, reverts.ErrUnknownAsset))
}

func TestResolvePairHoldsUnit(t *testing.T) {
	f := newFixture(t)
	liquidity := big.NewInt(100)

	f.pair.EXPECT().TokensForPosition(thor.ExternQueryMaxGas, liquidity).Return(
		&pricing.TokenAmount{Token: tokenA, Amount: big.NewInt(40)},
		&pricing.TokenAmount{Token: unit, Amount: big.NewInt(250)},
		uint64(3000), nil,
	)
	f.meter.EXPECT().UseGas(uint64(3000))

	// no oracle is consulted: f.oracle has no expectations
	require.NoError(t, f.reg.AddOracle(tokenA, unit, f.oracleAddr))
	value, err := f.resolver(true).Resolve(f.meter, lp, liquidity)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(250), value)
}

func TestResolveThroughOracle(t *testing.T) {
	f := newFixture(t)
	liquidity := big.NewInt(100)
	second := &pricing.TokenAmount{Token: tokenB, Amount: big.NewInt(70)}

	f.pair.EXPECT().TokensForPosition(thor.ExternQueryMaxGas, liquidity).Return(
		&pricing.TokenAmount{Token: tokenA, Amount: big.NewInt(40)},
		second,
		uint64(3000), nil,
	)
	f.oracle.EXPECT().Equivalent(thor.ExternQueryMaxGas, tokenB, second.Amount).Return(big.NewInt(140), uint64(2000), nil)
	gomock.InOrder(
		f.meter.EXPECT().UseGas(uint64(3000)),
		f.meter.EXPECT().UseGas(uint64(2000)),
	)

	require.NoError(t, f.reg.AddOracle(unit, tokenB, f.oracleAddr))
	value, err := f.resolver(true).Resolve(f.meter, lp, liquidity)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(140), value)
}

func TestResolveNoRoute(t *testing.T) {
	f := newFixture(t)
	liquidity := big.NewInt(100)

	f.pair.EXPECT().TokensForPosition(gomock.Any(), liquidity).Return(
		&pricing.TokenAmount{Token: tokenA, Amount: big.NewInt(40)},
		&pricing.TokenAmount{Token: tokenB, Amount: big.NewInt(70)},
		uint64(3000), nil,
	)
	f.meter.EXPECT().UseGas(uint64(3000))

	_, err := f.resolver(true).Resolve(f.meter, lp, liquidity)
	assert.True(t, errors.Is(err, reverts.ErrNoPriceRoute))
}

func TestResolveRemoteFailure(t *testing.T) {
	f := newFixture(t)
	liquidity := big.NewInt(100)

	f.pair.EXPECT().TokensForPosition(gomock.Any(), liquidity).Return(nil, nil, thor.ExternQueryMaxGas, reverts.ErrOutOfGas)
	f.meter.EXPECT().UseGas(thor.ExternQueryMaxGas)

	_, err := f.resolver(true).Resolve(f.meter, lp, liquidity)
	kind, ok := reverts.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, reverts.KindRemoteCall, kind)
}

func TestResolveBudgetCappedByGasLeft(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t)
	meter := mock_pricing.NewMockMeter(ctrl)
	meter.EXPECT().GasLeft().Return(uint64(10_000))
	meter.EXPECT().UseGas(uint64(9_000))

	liquidity := big.NewInt(5)
	f.pair.EXPECT().TokensForPosition(uint64(10_000), liquidity).Return(
		&pricing.TokenAmount{Token: unit, Amount: big.NewInt(5)},
		&pricing.TokenAmount{Token: tokenA, Amount: big.NewInt(5)},
		uint64(9_000), nil,
	)

	value, err := f.resolver(true).Resolve(meter, lp, liquidity)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(5), value)
}

func TestAcceptedTokens(t *testing.T) {
	f := newFixture(t)

	tokens, err := f.resolver(false).AcceptedTokens()
	require.NoError(t, err)
	assert.Equal(t, []thor.TokenID{unit}, tokens)

	tokens, err = f.resolver(true).AcceptedTokens()
	require.NoError(t, err)
	assert.Equal(t, []thor.TokenID{lp}, tokens)
}
