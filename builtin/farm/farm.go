// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package farm implements the yield farm contract: deposits valued in a unit of
// account are pooled, and every deposit is represented by a semi-fungible position.
package farm

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/thorfarm/builtin/esdt"
	"github.com/vechain/thorfarm/builtin/handshake"
	"github.com/vechain/thorfarm/builtin/params"
	"github.com/vechain/thorfarm/builtin/pool"
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
	logger = log.WithContext("pkg", "farm")

	metricOpsCount = metrics.LazyLoadCounterVec("farm_ops_count", []string{"op"})

	slotConfig    = thor.BytesToBytes32([]byte("farm-config"))
	slotActive    = thor.BytesToBytes32([]byte("farm-active"))
	slotFarmToken = thor.BytesToBytes32([]byte("farm-token"))
	slotLastError = thor.BytesToBytes32([]byte("farm-last-error"))
	slotParams    = thor.BytesToBytes32([]byte("farm-params"))
	slotRegistry  = thor.BytesToBytes32([]byte("farm-registry"))
	slotRequests  = thor.BytesToBytes32([]byte("farm-requests"))

	one = big.NewInt(1)
)

// Config is set once by Init.
type Config struct {
	Owner  thor.Address
	Router thor.Address
	Unit   thor.TokenID
	LPMode bool
}

// Farm implements the farm contract bound to the environment of one call.
type Farm struct {
	env       *xenv.Environment
	authority *esdt.ESDT
	locator   pricing.Locator
	decoder   *position.Decoder

	config    *solidity.Raw[*Config]
	active    *solidity.Raw[bool]
	farmToken *solidity.Raw[thor.TokenID]
	lastError *solidity.Raw[string]

	params   *params.Params
	pool     *pool.Service
	registry *pricing.Registry
	requests *handshake.Table
}

// New create a new instance at env.To().
func New(env *xenv.Environment, authority *esdt.ESDT, locator pricing.Locator, decoder *position.Decoder) *Farm {
	sctx := solidity.NewContext(env.To(), env.State(), env.UseGas)
	return &Farm{
		env:       env,
		authority: authority,
		locator:   locator,
		decoder:   decoder,

		config:    solidity.NewRaw[*Config](sctx, slotConfig),
		active:    solidity.NewRaw[bool](sctx, slotActive),
		farmToken: solidity.NewRaw[thor.TokenID](sctx, slotFarmToken),
		lastError: solidity.NewRaw[string](sctx, slotLastError),

		params:   params.New(sctx, slotParams),
		pool:     pool.New(sctx),
		registry: pricing.NewRegistry(sctx, slotRegistry),
		requests: handshake.New(sctx, slotRequests),
	}
}

// Env returns the environment the farm is bound to.
func (f *Farm) Env() *xenv.Environment { return f.env }

// Init configures the farm. The caller becomes its owner.
func (f *Farm) Init(unit thor.TokenID, router thor.Address, lpMode bool) error {
	exists, err := f.config.Exists()
	if err != nil {
		return err
	}
	if exists {
		return reverts.Errorf(reverts.KindAlreadyExists, "farm %v already initialized", f.env.To())
	}
	if unit.IsEmpty() {
		return reverts.Errorf(reverts.KindInvalidAmount, "empty unit of account")
	}
	cfg := &Config{Owner: f.env.Caller(), Router: router, Unit: unit, LPMode: lpMode}
	if err := f.config.Set(cfg); err != nil {
		return errors.Wrap(err, "failed to set config")
	}
	if err := f.active.Set(true); err != nil {
		return err
	}
	logger.Info("farm initialized", "farm", f.env.To(), "owner", cfg.Owner, "unit", unit, "lp", lpMode)
	return nil
}

// Config returns the configuration, failing when the farm is not initialized.
func (f *Farm) Config() (*Config, error) {
	cfg, err := f.config.Get()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, reverts.Errorf(reverts.KindNotFound, "farm %v not initialized", f.env.To())
	}
	return cfg, nil
}

// RequirePermissions fails unless the caller is the owner or the router.
func (f *Farm) RequirePermissions() error {
	cfg, err := f.Config()
	if err != nil {
		return err
	}
	if caller := f.env.Caller(); caller != cfg.Owner && caller != cfg.Router {
		return reverts.Errorf(reverts.KindPermissionDenied, "permission denied for %v", caller)
	}
	return nil
}

// RequireActive fails when the farm is paused.
func (f *Farm) RequireActive() error {
	active, err := f.active.Get()
	if err != nil {
		return err
	}
	if !active {
		return reverts.Errorf(reverts.KindNotActive, "farm %v not active", f.env.To())
	}
	return nil
}

func (f *Farm) requireLPMode() error {
	cfg, err := f.Config()
	if err != nil {
		return err
	}
	if !cfg.LPMode {
		return reverts.Errorf(reverts.KindPermissionDenied, "farm %v does not take liquidity tokens", f.env.To())
	}
	return nil
}

func (f *Farm) setActive(active bool) error {
	if err := f.RequirePermissions(); err != nil {
		return err
	}
	if err := f.active.Set(active); err != nil {
		return err
	}
	logger.Info("farm state changed", "farm", f.env.To(), "active", active)
	return nil
}

func (f *Farm) Pause() error  { return f.setActive(false) }
func (f *Farm) Resume() error { return f.setActive(true) }

// SetParam overrides a tunable.
func (f *Farm) SetParam(name string, value uint64) error {
	if err := f.RequirePermissions(); err != nil {
		return err
	}
	key, ok := params.KeyByName(name)
	if !ok {
		return reverts.Errorf(reverts.KindNotFound, "unknown param %q", name)
	}
	return f.params.Set(key, value)
}

// Param returns the current value of a tunable.
func (f *Farm) Param(key *params.Key) (uint64, error) {
	return f.params.Get(key)
}

func (f *Farm) registryOp(op func() error) error {
	if err := f.RequirePermissions(); err != nil {
		return err
	}
	if err := f.RequireActive(); err != nil {
		return err
	}
	if err := f.requireLPMode(); err != nil {
		return err
	}
	return op()
}

func (f *Farm) AddAcceptedPair(token thor.TokenID, pairAddr thor.Address) error {
	return f.registryOp(func() error { return f.registry.AddAcceptedPair(token, pairAddr) })
}

func (f *Farm) RemoveAcceptedPair(token thor.TokenID) error {
	return f.registryOp(func() error { return f.registry.RemoveAcceptedPair(token) })
}

func (f *Farm) AddOracle(first, second thor.TokenID, oracle thor.Address) error {
	return f.registryOp(func() error { return f.registry.AddOracle(first, second, oracle) })
}

func (f *Farm) RemoveOracle(first, second thor.TokenID) error {
	return f.registryOp(func() error { return f.registry.RemoveOracle(first, second) })
}

// Registry exposes the accepted-asset registry for reads.
func (f *Farm) Registry() *pricing.Registry { return f.registry }

func (f *Farm) resolver() (*pricing.Resolver, error) {
	cfg, err := f.Config()
	if err != nil {
		return nil, err
	}
	maxGas, err := f.params.Get(params.ExternQueryMaxGas)
	if err != nil {
		return nil, err
	}
	return pricing.NewResolver(cfg.Unit, cfg.LPMode, maxGas, f.registry, f.locator), nil
}

//
// Getters - no state change
//

func (f *Farm) Owner() (thor.Address, error) {
	cfg, err := f.Config()
	if err != nil {
		return thor.Address{}, err
	}
	return cfg.Owner, nil
}

func (f *Farm) Router() (thor.Address, error) {
	cfg, err := f.Config()
	if err != nil {
		return thor.Address{}, err
	}
	return cfg.Router, nil
}

func (f *Farm) UnitToken() (thor.TokenID, error) {
	cfg, err := f.Config()
	if err != nil {
		return "", err
	}
	return cfg.Unit, nil
}

// Active reports whether value-moving entry points are open.
func (f *Farm) Active() (bool, error) {
	return f.active.Get()
}

// FarmTokenID returns the position token, empty until issued.
func (f *Farm) FarmTokenID() (thor.TokenID, error) {
	return f.farmToken.Get()
}

func (f *Farm) issuedToken() (thor.TokenID, error) {
	token, err := f.farmToken.Get()
	if err != nil {
		return "", err
	}
	if token.IsEmpty() {
		return "", reverts.ErrNotIssued
	}
	return token, nil
}

func (f *Farm) LastErrorMessage() (string, error) {
	return f.lastError.Get()
}

// Totals returns the pool ledger totals.
func (f *Farm) Totals() (*pool.Totals, error) {
	return f.pool.Totals()
}

// PoolTokenAndAmounts returns the unit of account with its virtual reserve and on-hand balance.
func (f *Farm) PoolTokenAndAmounts() (thor.TokenID, *big.Int, *big.Int, error) {
	unit, err := f.UnitToken()
	if err != nil {
		return "", nil, nil, err
	}
	reserve, err := f.pool.VirtualReserve()
	if err != nil {
		return "", nil, nil, err
	}
	balance, err := f.env.Balance(unit, 0)
	if err != nil {
		return "", nil, nil, err
	}
	return unit, reserve, balance, nil
}

// AcceptedTokens lists the tokens Enter takes.
func (f *Farm) AcceptedTokens() ([]thor.TokenID, error) {
	r, err := f.resolver()
	if err != nil {
		return nil, err
	}
	return r.AcceptedTokens()
}
