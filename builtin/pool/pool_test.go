// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"errors"
	"math/big"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/thorfarm/builtin/reverts"
	"github.com/vechain/thorfarm/builtin/solidity"
	"github.com/vechain/thorfarm/lvldb"
	"github.com/vechain/thorfarm/state"
	"github.com/vechain/thorfarm/thor"
)

func newSvc(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	sctx := solidity.NewContext(thor.BytesToAddress([]byte("farm")), state.New(db), nil)
	return New(sctx)
}

func assertTotals(t *testing.T, svc *Service, value, shares int64) {
	totals, err := svc.Totals()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(value), totals.Value, "value")
	assert.Equal(t, big.NewInt(shares), totals.Shares, "shares")
}

func TestWorkedExample(t *testing.T) {
	svc := newSvc(t)

	shares, err := svc.Add(big.NewInt(1000))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), shares)

	shares, err = svc.Add(big.NewInt(500))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(500), shares)
	assertTotals(t, svc, 1500, 1500)

	reward, err := svc.Remove(big.NewInt(500), big.NewInt(500))
	require.NoError(t, err)
	assert.Equal(t, 0, reward.Sign())
	assertTotals(t, svc, 1000, 1000)
}

func TestRewardDistribution(t *testing.T) {
	svc := newSvc(t)

	_, err := svc.Add(big.NewInt(100))
	require.NoError(t, err)
	_, err = svc.Add(big.NewInt(300))
	require.NoError(t, err)

	require.NoError(t, svc.Distribute(big.NewInt(40)))
	assertTotals(t, svc, 440, 400)

	reward, err := svc.CalculateReward(big.NewInt(100), big.NewInt(100))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10), reward)
	assertTotals(t, svc, 440, 400)

	// late entrant buys at the new share price
	shares, err := svc.Add(big.NewInt(110))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), shares)

	reward, err = svc.Remove(big.NewInt(300), big.NewInt(300))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(30), reward)
	assertTotals(t, svc, 220, 200)
}

func TestLossIsAbsorbed(t *testing.T) {
	svc := newSvc(t)

	_, err := svc.Add(big.NewInt(10))
	require.NoError(t, err)
	require.NoError(t, svc.Distribute(big.NewInt(1)))

	shares, err := svc.Add(big.NewInt(7))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(6), shares, "floor(7*10/11)")

	// 6 shares are worth floor(6*18/16) = 6 < principal 7
	reward, err := svc.Remove(shares, big.NewInt(7))
	require.NoError(t, err)
	assert.Equal(t, 0, reward.Sign())
	assertTotals(t, svc, 12, 10)
}

func TestPoolErrors(t *testing.T) {
	svc := newSvc(t)

	_, err := svc.Add(big.NewInt(0))
	assert.True(t, errors.Is(err, reverts.ErrInvalidAmount))

	assert.True(t, errors.Is(svc.Distribute(big.NewInt(5)), reverts.ErrInvalidAmount), "empty pool")

	_, err = svc.Add(big.NewInt(10))
	require.NoError(t, err)
	require.NoError(t, svc.Distribute(big.NewInt(20)))

	_, err = svc.Add(big.NewInt(2))
	assert.True(t, errors.Is(err, reverts.ErrInvalidAmount), "zero share mint")

	_, err = svc.Remove(big.NewInt(11), big.NewInt(1))
	assert.True(t, errors.Is(err, reverts.ErrInsufficientShares))

	_, err = svc.CalculateReward(big.NewInt(11), big.NewInt(1))
	assert.True(t, errors.Is(err, reverts.ErrInsufficientShares))

	_, err = svc.Remove(big.NewInt(0), big.NewInt(1))
	assert.True(t, errors.Is(err, reverts.ErrInvalidAmount))

	assert.True(t, errors.Is(svc.Distribute(big.NewInt(0)), reverts.ErrInvalidAmount))
}

type op struct {
	Kind   uint8
	Amount uint32
}

type holding struct {
	shares    *big.Int
	principal *big.Int
}

// TestInvariantRandomSequences drives random enter, reward and exit sequences and checks that
// value is conserved and the share price never decreases.
func TestInvariantRandomSequences(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		var ops []op
		fuzz.NewWithSeed(seed).NilChance(0).NumElements(50, 200).Fuzz(&ops)

		svc := newSvc(t)
		var (
			holdings []*holding
			in       = new(big.Int)
			out      = new(big.Int)
		)

		for _, o := range ops {
			before, err := svc.Totals()
			require.NoError(t, err)

			amount := big.NewInt(int64(o.Amount%1_000_000) + 1)
			switch o.Kind % 3 {
			case 0:
				shares, err := svc.Add(amount)
				if err != nil {
					require.True(t, errors.Is(err, reverts.ErrInvalidAmount))
					continue
				}
				in.Add(in, amount)
				holdings = append(holdings, &holding{shares, amount})
			case 1:
				if before.Shares.Sign() == 0 {
					continue
				}
				require.NoError(t, svc.Distribute(amount))
				in.Add(in, amount)
			case 2:
				if len(holdings) == 0 {
					continue
				}
				i := int(o.Amount) % len(holdings)
				h := holdings[i]
				attributable := Attributable(h.shares, before)
				reward, err := svc.Remove(h.shares, h.principal)
				require.NoError(t, err)
				assert.Equal(t, Reward(attributable, h.principal).String(), reward.String())
				out.Add(out, attributable)
				holdings = append(holdings[:i], holdings[i+1:]...)
			}

			after, err := svc.Totals()
			require.NoError(t, err)
			require.Equal(t, after.Shares.Sign() == 0, after.Value.Sign() == 0, "seed %d", seed)
			if before.Shares.Sign() > 0 && after.Shares.Sign() > 0 {
				// after.Value/after.Shares >= before.Value/before.Shares
				lhs := new(big.Int).Mul(after.Value, before.Shares)
				rhs := new(big.Int).Mul(before.Value, after.Shares)
				require.True(t, lhs.Cmp(rhs) >= 0, "share price decreased, seed %d", seed)
			}
			require.Equal(t, in.String(), new(big.Int).Add(out, after.Value).String(), "value not conserved, seed %d", seed)
		}
	}
}
