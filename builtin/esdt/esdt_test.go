// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package esdt

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/thorfarm/builtin/reverts"
	"github.com/vechain/thorfarm/lvldb"
	"github.com/vechain/thorfarm/state"
	"github.com/vechain/thorfarm/thor"
)

var (
	authority = thor.BytesToAddress([]byte("esdt"))
	farmAddr  = thor.BytesToAddress([]byte("farm"))
)

func newSvc(t *testing.T) (*ESDT, *state.State) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st := state.New(db)
	return New(authority, st, nil), st
}

func issue(t *testing.T, e *ESDT, ticker string) thor.TokenID {
	require.NoError(t, e.IssueSemiFungible(farmAddr, thor.IssueCost, "FarmToken", ticker, big.NewInt(1)))
	cb, err := e.PopCallback()
	require.NoError(t, err)
	require.NotNil(t, cb)
	require.True(t, cb.OK(), cb.Err)
	return cb.Token
}

func TestIssue(t *testing.T) {
	e, _ := newSvc(t)

	require.NoError(t, e.IssueSemiFungible(farmAddr, thor.IssueCost, "FarmToken", "FARM", big.NewInt(7)))
	n, err := e.PendingCallbacks()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	cb, err := e.PopCallback()
	require.NoError(t, err)
	assert.True(t, cb.OK())
	assert.Equal(t, farmAddr, cb.To)
	assert.Equal(t, CallIssue, cb.Kind)
	assert.Equal(t, big.NewInt(7), cb.ID)
	assert.True(t, strings.HasPrefix(string(cb.Token), "FARM-"))
	assert.Len(t, string(cb.Token), len("FARM-")+6)
	assert.False(t, cb.HasRefund())

	class, err := e.Class(cb.Token)
	require.NoError(t, err)
	assert.Equal(t, farmAddr, class.Owner)

	// same ticker yields a distinct id
	other := issue(t, e, "FARM")
	assert.NotEqual(t, cb.Token, other)

	cb, err = e.PopCallback()
	require.NoError(t, err)
	assert.Nil(t, cb)
}

func TestIssueFailure(t *testing.T) {
	tests := []struct {
		name   string
		fee    *big.Int
		token  string
		ticker string
		reason string
	}{
		{"low fee", big.NewInt(1), "FarmToken", "FARM", "insufficient issue cost"},
		{"bad name", thor.IssueCost, "Farm Token", "FARM", "invalid token name"},
		{"short ticker", thor.IssueCost, "FarmToken", "FA", "invalid ticker"},
		{"lower ticker", thor.IssueCost, "FarmToken", "farm", "invalid ticker"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newSvc(t)
			require.NoError(t, e.IssueSemiFungible(farmAddr, tt.fee, tt.token, tt.ticker, big.NewInt(1)))

			cb, err := e.PopCallback()
			require.NoError(t, err)
			assert.False(t, cb.OK())
			assert.Equal(t, tt.reason, cb.Err)
			assert.True(t, cb.HasRefund())
			assert.Equal(t, thor.NativeToken, cb.RefundToken)
			assert.Equal(t, tt.fee, cb.RefundAmount)
		})
	}
}

func TestRoles(t *testing.T) {
	e, _ := newSvc(t)
	token := issue(t, e, "FARM")

	stranger := thor.BytesToAddress([]byte("stranger"))
	require.NoError(t, e.SetSpecialRoles(stranger, stranger, token, RoleNftCreate, big.NewInt(2)))
	cb, err := e.PopCallback()
	require.NoError(t, err)
	assert.Equal(t, "only token owner can set roles", cb.Err)
	assert.False(t, cb.HasRefund())

	require.NoError(t, e.SetSpecialRoles(farmAddr, farmAddr, "NONE-000000", RoleNftCreate, big.NewInt(3)))
	cb, err = e.PopCallback()
	require.NoError(t, err)
	assert.Equal(t, "token not found", cb.Err)

	require.NoError(t, e.SetSpecialRoles(farmAddr, farmAddr, token, RoleNftCreate|RoleNftBurn, big.NewInt(4)))
	cb, err = e.PopCallback()
	require.NoError(t, err)
	assert.True(t, cb.OK())
	assert.Equal(t, CallSetRoles, cb.Kind)

	roles, err := e.Roles(farmAddr, token)
	require.NoError(t, err)
	assert.True(t, roles.Has(RoleNftCreate))
	assert.True(t, roles.Has(RoleNftBurn))
	assert.False(t, roles.Has(RoleNftAddQuantity))
}

func TestCreateBurn(t *testing.T) {
	e, st := newSvc(t)
	token := issue(t, e, "FARM")

	_, err := e.Create(farmAddr, token, big.NewInt(10), []byte{1})
	assert.True(t, errors.Is(err, reverts.ErrPermissionDenied))

	require.NoError(t, e.SetSpecialRoles(farmAddr, farmAddr, token, RoleNftCreate|RoleNftAddQuantity|RoleNftBurn, big.NewInt(2)))

	_, err = e.Create(farmAddr, token, big.NewInt(0), nil)
	assert.True(t, errors.Is(err, reverts.ErrInvalidAmount))

	nonce, err := e.Create(farmAddr, token, big.NewInt(10), []byte{1, 2})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), nonce)

	nonce, err = e.Create(farmAddr, token, big.NewInt(5), []byte{3})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), nonce)

	last, err := e.LastNonce(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), last)

	data, err := e.TokenData(token, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, data.Attributes)
	assert.Equal(t, farmAddr, data.Creator)

	data, err = e.TokenData(token, 3)
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, e.AddQuantity(farmAddr, token, 1, big.NewInt(2)))
	assert.True(t, errors.Is(e.AddQuantity(farmAddr, token, 3, big.NewInt(1)), reverts.ErrInvalidNonce))

	require.NoError(t, e.Burn(farmAddr, token, 1, big.NewInt(12)))
	bal, err := st.GetBalance(farmAddr, token, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, bal.Sign())

	assert.True(t, errors.Is(e.Burn(farmAddr, token, 2, big.NewInt(6)), reverts.ErrInsufficientBalance))
}
