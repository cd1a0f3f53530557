// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/thorfarm/builtin/esdt"
	"github.com/vechain/thorfarm/test/datagen"
	"github.com/vechain/thorfarm/test/testenv"
	"github.com/vechain/thorfarm/thor"
	"github.com/vechain/thorfarm/xenv"
)

const unit = thor.TokenID("UNIT-a1b2c3")

type fixture struct {
	*testenv.Env
	t *testing.T

	addr   thor.Address
	owner  thor.Address
	router thor.Address
	token  thor.TokenID
}

// newFixture deploys a farm with its position token issued and roles granted.
func newFixture(t *testing.T, lpMode bool) *fixture {
	fx := newBareFixture(t, lpMode)
	fx.Mint(fx.owner, thor.NativeToken, thor.IssueCost.Int64())

	_, err := fx.issue(fx.owner, testenv.Pay(thor.NativeToken, thor.IssueCost.Int64()), "FarmToken", "FARM")
	require.NoError(t, err)
	fx.deliverOK()

	require.NoError(t, fx.call(fx.owner, nil, func(f *Farm) error {
		_, err := f.SetLocalRoles()
		return err
	}))
	fx.deliverOK()

	fx.view(func(f *Farm) {
		token, err := f.FarmTokenID()
		require.NoError(t, err)
		require.False(t, token.IsEmpty())
		fx.token = token
	})
	return fx
}

// newBareFixture deploys an initialized farm without position token.
func newBareFixture(t *testing.T, lpMode bool) *fixture {
	fx := &fixture{
		Env:    testenv.New(t),
		t:      t,
		addr:   datagen.RandAddress(),
		owner:  datagen.RandAddress(),
		router: datagen.RandAddress(),
	}
	require.NoError(t, fx.call(fx.owner, nil, func(f *Farm) error {
		return f.Init(unit, fx.router, lpMode)
	}))
	return fx
}

func (fx *fixture) call(caller thor.Address, pay *xenv.Payment, fn func(f *Farm) error) error {
	_, err := fx.Invoke(caller, fx.addr, pay, func(env *xenv.Environment, authority *esdt.ESDT) error {
		return fn(New(env, authority, fx.Locator, fx.Decoder))
	})
	return err
}

func (fx *fixture) view(fn func(f *Farm)) {
	require.NoError(fx.t, fx.call(thor.Address{}, nil, func(f *Farm) error {
		fn(f)
		return nil
	}))
}

func (fx *fixture) issue(caller thor.Address, pay *xenv.Payment, name, ticker string) (id *big.Int, err error) {
	err = fx.call(caller, pay, func(f *Farm) error {
		id, err = f.IssueFarmToken(name, ticker)
		return err
	})
	return
}

func (fx *fixture) deliver() []error {
	return fx.Deliver(func(env *xenv.Environment, authority *esdt.ESDT, cb *esdt.Callback) error {
		return New(env, authority, fx.Locator, fx.Decoder).OnCallback(cb)
	})
}

func (fx *fixture) deliverOK() {
	for _, err := range fx.deliver() {
		require.NoError(fx.t, err)
	}
}

func (fx *fixture) enter(user thor.Address, token thor.TokenID, amount int64) (nonce uint64, err error) {
	err = fx.call(user, testenv.Pay(token, amount), func(f *Farm) error {
		nonce, err = f.Enter()
		return err
	})
	return
}

func (fx *fixture) exit(user thor.Address, nonce uint64, quantity int64) (r *Redemption, err error) {
	err = fx.call(user, testenv.PayNonce(fx.token, nonce, quantity), func(f *Farm) error {
		r, err = f.Exit()
		return err
	})
	return
}

func (fx *fixture) fund(funder thor.Address, amount int64) error {
	return fx.call(funder, testenv.Pay(unit, amount), func(f *Farm) error {
		return f.Fund()
	})
}

func (fx *fixture) assertTotals(value, shares int64) {
	fx.view(func(f *Farm) {
		totals, err := f.Totals()
		require.NoError(fx.t, err)
		assert.Equal(fx.t, big.NewInt(value).String(), totals.Value.String(), "pool value")
		assert.Equal(fx.t, big.NewInt(shares).String(), totals.Shares.String(), "pool shares")
	})
}

type TestFunc func(t *testing.T)

// TestSequence runs farm operations in order, failing on the first unexpected outcome.
type TestSequence struct {
	fx *fixture

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(fx *fixture) *TestSequence {
	return &TestSequence{fx: fx}
}

func (s *TestSequence) AddFunc(f TestFunc) *TestSequence {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.funcs = append(s.funcs, f)
	return s
}

func (s *TestSequence) Enter(user thor.Address, amount int64, expectedNonce uint64) *TestSequence {
	return s.AddFunc(func(t *testing.T) {
		s.fx.Mint(user, unit, amount)
		nonce, err := s.fx.enter(user, unit, amount)
		if err != nil {
			t.Fatalf("failed to enter with %d: %v", amount, err)
		}
		assert.Equal(t, expectedNonce, nonce)
		t.Logf("%s entered with %d, nonce %d", user, amount, nonce)
	})
}

func (s *TestSequence) Fund(amount int64) *TestSequence {
	return s.AddFunc(func(t *testing.T) {
		s.fx.Mint(s.fx.owner, unit, amount)
		if err := s.fx.fund(s.fx.owner, amount); err != nil {
			t.Fatalf("failed to fund %d: %v", amount, err)
		}
	})
}

func (s *TestSequence) SetEpoch(epoch uint64) *TestSequence {
	return s.AddFunc(func(t *testing.T) {
		s.fx.Epoch = epoch
	})
}

func (s *TestSequence) Quote(nonce uint64, quantity int64, expected int64) *TestSequence {
	return s.AddFunc(func(t *testing.T) {
		s.fx.view(func(f *Farm) {
			reward, err := f.CalculateRewardsForGivenPosition(nonce, big.NewInt(quantity))
			require.NoError(t, err)
			assert.Equal(t, big.NewInt(expected).String(), reward.String(), "quoted reward")
		})
	})
}

func (s *TestSequence) Exit(user thor.Address, nonce uint64, quantity, reward, origin int64) *TestSequence {
	return s.AddFunc(func(t *testing.T) {
		r, err := s.fx.exit(user, nonce, quantity)
		if err != nil {
			t.Fatalf("failed to exit %d of nonce %d: %v", quantity, nonce, err)
		}
		assert.Equal(t, big.NewInt(reward).String(), r.RewardOut.String(), "reward paid")
		assert.Equal(t, big.NewInt(origin).String(), r.OriginOut.String(), "origin paid")
	})
}

func (s *TestSequence) AssertTotals(value, shares int64) *TestSequence {
	return s.AddFunc(func(t *testing.T) {
		s.fx.assertTotals(value, shares)
	})
}

func (s *TestSequence) AssertBalance(addr thor.Address, token thor.TokenID, nonce uint64, expected int64) *TestSequence {
	return s.AddFunc(func(t *testing.T) {
		assert.Equal(t, big.NewInt(expected).String(), s.fx.Balance(addr, token, nonce).String(), "balance of %s", addr)
	})
}

func (s *TestSequence) Run(t *testing.T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.funcs {
		f(t)
	}
}
