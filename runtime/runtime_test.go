// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime_test

import (
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/thorfarm/builtin"
	"github.com/vechain/thorfarm/lvldb"
	"github.com/vechain/thorfarm/runtime"
	"github.com/vechain/thorfarm/state"
	"github.com/vechain/thorfarm/test/datagen"
	"github.com/vechain/thorfarm/thor"
	"github.com/vechain/thorfarm/xenv"
)

const unit = thor.TokenID("UNIT-a1b2c3")

func newRuntime(t *testing.T) (*runtime.Runtime, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rt, err := runtime.New(state.New(db))
	require.NoError(t, err)
	return rt, db
}

func pay(token thor.TokenID, nonce uint64, amount int64) *xenv.Payment {
	return &xenv.Payment{Token: token, Nonce: nonce, Amount: big.NewInt(amount)}
}

func mustExecute(t *testing.T, rt *runtime.Runtime, clause *runtime.Clause) *runtime.Receipt {
	receipt, err := rt.Execute(clause)
	require.NoError(t, err)
	require.False(t, receipt.Reverted, "%s reverted: %s", clause.Method, receipt.Error)
	return receipt
}

// deployFarm deploys and initializes a plain farm with its position token ready.
func deployFarm(t *testing.T, rt *runtime.Runtime, owner thor.Address) (thor.Address, thor.TokenID) {
	farm := datagen.RandAddress()
	require.NoError(t, rt.Deploy(farm, builtin.KindFarm))

	mustExecute(t, rt, &runtime.Clause{Caller: owner, To: farm, Method: "init", Args: []any{unit, datagen.RandAddress(), false}})

	require.NoError(t, rt.Mint(owner, thor.NativeToken, new(big.Int).Set(thor.IssueCost)))
	mustExecute(t, rt, &runtime.Clause{
		Caller:  owner,
		To:      farm,
		Method:  "issueFarmToken",
		Args:    []any{"FarmToken", "FARM"},
		Payment: &xenv.Payment{Token: thor.NativeToken, Amount: new(big.Int).Set(thor.IssueCost)},
	})
	receipts, err := rt.DeliverCallbacks()
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	assert.False(t, receipts[0].Reverted)

	mustExecute(t, rt, &runtime.Clause{Caller: owner, To: farm, Method: "setLocalRoles"})
	receipts, err = rt.DeliverCallbacks()
	require.NoError(t, err)
	require.Len(t, receipts, 1)

	receipt, err := rt.Call(&runtime.Clause{Caller: owner, To: farm, Method: "getFarmTokenId"})
	require.NoError(t, err)
	return farm, receipt.Output[0].(thor.TokenID)
}

func TestExecute(t *testing.T) {
	rt, _ := newRuntime(t)
	owner, user := datagen.RandAddress(), datagen.RandAddress()
	farm, farmToken := deployFarm(t, rt, owner)

	require.NoError(t, rt.Mint(user, unit, big.NewInt(1000)))
	receipt := mustExecute(t, rt, &runtime.Clause{Caller: user, To: farm, Method: "enter", Payment: pay(unit, 0, 1000)})
	assert.Equal(t, []any{uint64(1)}, receipt.Output)
	assert.Greater(t, receipt.GasUsed, thor.CallGas)
	require.NotEmpty(t, receipt.Events)
	assert.Equal(t, "Enter", receipt.Events[len(receipt.Events)-1].Name)

	bal, err := rt.Balance(user, farmToken, 1)
	require.NoError(t, err)
	assert.Equal(t, "1000", bal.String())
	bal, err = rt.Balance(farm, farmToken, 1)
	require.NoError(t, err)
	assert.Equal(t, "1", bal.String())
}

func TestRevert(t *testing.T) {
	rt, _ := newRuntime(t)
	owner, user := datagen.RandAddress(), datagen.RandAddress()
	farm, _ := deployFarm(t, rt, owner)

	require.NoError(t, rt.Mint(user, unit, big.NewInt(100)))

	tests := []struct {
		name   string
		clause *runtime.Clause
		kind   string
	}{
		{"unknown method", &runtime.Clause{Caller: user, To: farm, Method: "stake"}, "NotFound"},
		{"payment over balance", &runtime.Clause{Caller: user, To: farm, Method: "enter", Payment: pay(unit, 0, 101)}, "InsufficientBalance"},
		{"negative payment", &runtime.Clause{Caller: user, To: farm, Method: "enter", Payment: pay(unit, 0, -1)}, "InvalidAmount"},
		{"exit without position", &runtime.Clause{Caller: user, To: farm, Method: "exit", Payment: pay(unit, 0, 100)}, "UnknownToken"},
		{"out of gas", &runtime.Clause{Caller: user, To: farm, Method: "enter", Payment: pay(unit, 0, 100), Gas: 100}, "OutOfGas"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			receipt, err := rt.Execute(tt.clause)
			require.NoError(t, err)
			assert.True(t, receipt.Reverted)
			assert.Equal(t, tt.kind, receipt.Kind)
			assert.Empty(t, receipt.Events)
			assert.Nil(t, receipt.Output)

			bal, err := rt.Balance(user, unit, 0)
			require.NoError(t, err)
			assert.Equal(t, "100", bal.String())
		})
	}

	receipt, err := rt.Execute(&runtime.Clause{Caller: user, To: farm, Method: "enter", Payment: pay(unit, 0, 100), Gas: 100})
	require.NoError(t, err)
	assert.Equal(t, uint64(100), receipt.GasUsed)
}

func TestCallDiscardsChanges(t *testing.T) {
	rt, _ := newRuntime(t)
	owner, user := datagen.RandAddress(), datagen.RandAddress()
	farm, _ := deployFarm(t, rt, owner)

	require.NoError(t, rt.Mint(user, unit, big.NewInt(1000)))
	receipt, err := rt.Call(&runtime.Clause{Caller: user, To: farm, Method: "enter", Payment: pay(unit, 0, 1000)})
	require.NoError(t, err)
	assert.False(t, receipt.Reverted)

	bal, err := rt.Balance(user, unit, 0)
	require.NoError(t, err)
	assert.Equal(t, "1000", bal.String())

	receipt, err = rt.Call(&runtime.Clause{Caller: user, To: farm, Method: "getTotals"})
	require.NoError(t, err)
	assert.Equal(t, "0", receipt.Output[0].(*big.Int).String())
	assert.Equal(t, "0", receipt.Output[1].(*big.Int).String())
}

func TestDeploy(t *testing.T) {
	rt, _ := newRuntime(t)
	farm, pair := datagen.RandAddress(), datagen.RandAddress()

	require.NoError(t, rt.Deploy(farm, builtin.KindFarm))
	require.NoError(t, rt.Deploy(pair, builtin.KindPair))
	assert.Error(t, rt.Deploy(pair, builtin.KindStaking))

	all, err := rt.Deployments()
	require.NoError(t, err)
	assert.Equal(t, map[thor.Address]builtin.Kind{farm: builtin.KindFarm, pair: builtin.KindPair}, all)

	kind, err := rt.KindOf(datagen.RandAddress())
	require.NoError(t, err)
	assert.Equal(t, builtin.Kind(0), kind)

	receipt, err := rt.Execute(&runtime.Clause{Caller: farm, To: datagen.RandAddress(), Method: "getOwner"})
	require.NoError(t, err)
	assert.Equal(t, "NotFound", receipt.Kind)
}

func TestEpochAffectsPenalty(t *testing.T) {
	rt, _ := newRuntime(t)
	owner, user := datagen.RandAddress(), datagen.RandAddress()
	farm, farmToken := deployFarm(t, rt, owner)

	require.NoError(t, rt.Mint(user, unit, big.NewInt(1000)))
	mustExecute(t, rt, &runtime.Clause{Caller: user, To: farm, Method: "enter", Payment: pay(unit, 0, 1000)})
	require.NoError(t, rt.Mint(owner, unit, big.NewInt(100)))
	mustExecute(t, rt, &runtime.Clause{Caller: owner, To: farm, Method: "fund", Payment: pay(unit, 0, 100)})

	quote := func() string {
		receipt, err := rt.Call(&runtime.Clause{Caller: user, To: farm, Method: "calculateRewardsForGivenPosition", Args: []any{uint64(1), big.NewInt(1000)}})
		require.NoError(t, err)
		require.False(t, receipt.Reverted, receipt.Error)
		return receipt.Output[0].(*big.Int).String()
	}
	assert.Equal(t, "90", quote())

	ctx, err := rt.AdvanceEpoch(thor.MinEpochsNoPenalty, 1000)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), ctx.Number)
	assert.Equal(t, thor.MinEpochsNoPenalty, ctx.Epoch)
	assert.Equal(t, uint64(1000), ctx.Time)
	assert.Equal(t, "100", quote())

	receipt := mustExecute(t, rt, &runtime.Clause{Caller: user, To: farm, Method: "exit", Payment: pay(farmToken, 1, 1000)})
	assert.Equal(t, "100", receipt.Output[0].(*big.Int).String())
	assert.Equal(t, "1000", receipt.Output[1].(*big.Int).String())
	assert.Equal(t, false, receipt.Output[2])
}

func TestCallbackRefund(t *testing.T) {
	rt, _ := newRuntime(t)
	owner := datagen.RandAddress()
	farm := datagen.RandAddress()
	require.NoError(t, rt.Deploy(farm, builtin.KindFarm))
	mustExecute(t, rt, &runtime.Clause{Caller: owner, To: farm, Method: "init", Args: []any{unit, datagen.RandAddress(), false}})

	require.NoError(t, rt.Mint(owner, thor.NativeToken, big.NewInt(1)))
	mustExecute(t, rt, &runtime.Clause{
		Caller:  owner,
		To:      farm,
		Method:  "issueFarmToken",
		Args:    []any{"FarmToken", "FARM"},
		Payment: pay(thor.NativeToken, 0, 1),
	})

	receipts, err := rt.DeliverCallbacks()
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	assert.False(t, receipts[0].Reverted)

	bal, err := rt.Balance(owner, thor.NativeToken, 0)
	require.NoError(t, err)
	assert.Equal(t, "1", bal.String())

	receipt, err := rt.Call(&runtime.Clause{Caller: owner, To: farm, Method: "getLastErrorMessage"})
	require.NoError(t, err)
	assert.Equal(t, []any{"insufficient issue cost"}, receipt.Output)

	receipts, err = rt.DeliverCallbacks()
	require.NoError(t, err)
	assert.Empty(t, receipts)
}

func TestCommitAndReopen(t *testing.T) {
	rt, db := newRuntime(t)
	owner, user := datagen.RandAddress(), datagen.RandAddress()
	farm, _ := deployFarm(t, rt, owner)

	require.NoError(t, rt.Mint(user, unit, big.NewInt(1000)))
	mustExecute(t, rt, &runtime.Clause{Caller: user, To: farm, Method: "enter", Payment: pay(unit, 0, 1000)})
	_, err := rt.AdvanceEpoch(5, 0)
	require.NoError(t, err)

	hash, err := rt.Commit()
	require.NoError(t, err)
	assert.False(t, hash.IsZero())

	reopened, err := runtime.New(state.New(db))
	require.NoError(t, err)
	assert.Equal(t, uint64(5), reopened.BlockContext().Epoch)

	receipt, err := reopened.Call(&runtime.Clause{Caller: user, To: farm, Method: "getTotals"})
	require.NoError(t, err)
	assert.Equal(t, "1000", receipt.Output[0].(*big.Int).String())

	hash, err = reopened.Commit()
	require.NoError(t, err)
	assert.Equal(t, thor.Blake2b(), hash)
}

func TestConcurrentExecute(t *testing.T) {
	rt, _ := newRuntime(t)
	owner := datagen.RandAddress()
	farm, _ := deployFarm(t, rt, owner)

	users := make([]thor.Address, 8)
	for i := range users {
		users[i] = datagen.RandAddress()
		require.NoError(t, rt.Mint(users[i], unit, big.NewInt(100)))
	}

	var wg sync.WaitGroup
	for _, user := range users {
		wg.Add(1)
		go func(user thor.Address) {
			defer wg.Done()
			receipt, err := rt.Execute(&runtime.Clause{Caller: user, To: farm, Method: "enter", Payment: pay(unit, 0, 100)})
			assert.NoError(t, err)
			assert.False(t, receipt.Reverted)
		}(user)
	}
	wg.Wait()

	receipt, err := rt.Call(&runtime.Clause{Caller: owner, To: farm, Method: "getTotals"})
	require.NoError(t, err)
	assert.Equal(t, "800", receipt.Output[0].(*big.Int).String())
	assert.Equal(t, "800", receipt.Output[1].(*big.Int).String())
}
