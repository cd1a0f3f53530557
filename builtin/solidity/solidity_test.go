// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/thorfarm/lvldb"
	"github.com/vechain/thorfarm/state"
	"github.com/vechain/thorfarm/thor"
)

type record struct {
	Owner  thor.Address
	Amount *big.Int
}

func newContext(t *testing.T, charger UseGasFunc) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(thor.BytesToAddress([]byte("contract")), state.New(db), charger)
}

func TestMapping(t *testing.T) {
	ctx := newContext(t, nil)
	m := NewMapping[thor.TokenID, *record](ctx, thor.BytesToBytes32([]byte("records")))

	got, err := m.Get("A")
	require.NoError(t, err)
	assert.Nil(t, got)

	exists, err := m.Exists("A")
	require.NoError(t, err)
	assert.False(t, exists)

	rec := &record{Owner: thor.BytesToAddress([]byte("owner")), Amount: big.NewInt(99)}
	require.NoError(t, m.Set("A", rec))

	got, err = m.Get("A")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	// keys don't collide
	got, err = m.Get("B")
	require.NoError(t, err)
	assert.Nil(t, got)

	m.Delete("A")
	exists, err = m.Exists("A")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRaw(t *testing.T) {
	ctx := newContext(t, nil)
	flag := NewRaw[bool](ctx, thor.BytesToBytes32([]byte("active")))

	v, err := flag.Get()
	require.NoError(t, err)
	assert.False(t, v)

	require.NoError(t, flag.Set(true))
	v, err = flag.Get()
	require.NoError(t, err)
	assert.True(t, v)

	// false is stored, not absent
	require.NoError(t, flag.Set(false))
	exists, err := flag.Exists()
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUint256(t *testing.T) {
	ctx := newContext(t, nil)
	u := NewUint256(ctx, thor.BytesToBytes32([]byte("total")))

	v, err := u.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	require.NoError(t, u.Add(big.NewInt(10)))
	require.NoError(t, u.Sub(big.NewInt(3)))
	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(7), v)

	assert.ErrorIs(t, u.Sub(big.NewInt(8)), ErrUnderflow)
	assert.ErrorIs(t, u.Set(new(big.Int).Lsh(big.NewInt(1), 256)), ErrOverflow)

	require.NoError(t, u.Sub(big.NewInt(7)))
	exists, err := u.raw.Exists()
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGasCharged(t *testing.T) {
	var used uint64
	ctx := newContext(t, func(gas uint64) { used += gas })
	raw := NewRaw[uint64](ctx, thor.BytesToBytes32([]byte("slot")))

	require.NoError(t, raw.Set(1))
	assert.Equal(t, thor.SstoreGas, used)

	_, err := raw.Get()
	require.NoError(t, err)
	assert.Equal(t, thor.SstoreGas+thor.SloadGas, used)
}
