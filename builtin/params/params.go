// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"math"
	"math/big"

	"github.com/vechain/thorfarm/builtin/reverts"
	"github.com/vechain/thorfarm/builtin/solidity"
	"github.com/vechain/thorfarm/log"
	"github.com/vechain/thorfarm/thor"
)

var logger = log.WithContext("pkg", "params")

// Key is a tunable with a default used until the owner overrides it.
type Key struct {
	Name    string
	Default uint64
	Max     uint64
	slot    thor.Bytes32
}

func newKey(name string, def, max uint64) *Key {
	return &Key{Name: name, Default: def, Max: max, slot: thor.BytesToBytes32([]byte(name))}
}

const (
	// RuleStrict penalizes a position while current < entry + min epochs.
	RuleStrict uint64 = iota
	// RuleLegacy penalizes a position while entry + min epochs >= current.
	RuleLegacy
)

var (
	PenaltyPercent     = newKey("penalty-percent", thor.PenaltyPercent, 100)
	MinEpochsNoPenalty = newKey("min-epochs-no-penalty", thor.MinEpochsNoPenalty, math.MaxUint32)
	PenaltyRule        = newKey("penalty-rule", RuleStrict, RuleLegacy)
	UnbondEpochs       = newKey("unbond-epochs", thor.UnbondEpochs, math.MaxUint32)
	ExternQueryMaxGas  = newKey("extern-query-max-gas", thor.ExternQueryMaxGas, math.MaxUint64)
)

var keys = []*Key{PenaltyPercent, MinEpochsNoPenalty, PenaltyRule, UnbondEpochs, ExternQueryMaxGas}

// Keys returns all known keys.
func Keys() []*Key {
	return keys
}

// KeyByName looks a key up by its name.
func KeyByName(name string) (*Key, bool) {
	for _, k := range keys {
		if k.Name == name {
			return k, true
		}
	}
	return nil, false
}

// Params binder of the parameters region of a native contract.
type Params struct {
	storage *solidity.Mapping[thor.Bytes32, *big.Int]
}

func New(sctx *solidity.Context, pos thor.Bytes32) *Params {
	return &Params{storage: solidity.NewMapping[thor.Bytes32, *big.Int](sctx, pos)}
}

// Get returns the overridden value of key, or its default.
func (p *Params) Get(key *Key) (uint64, error) {
	v, err := p.storage.Get(key.slot)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return key.Default, nil
	}
	return v.Uint64(), nil
}

// Set overrides the value of key.
func (p *Params) Set(key *Key, value uint64) error {
	if value > key.Max {
		return reverts.Errorf(reverts.KindInvalidAmount, "%s exceeds %d", key.Name, key.Max)
	}
	if err := p.storage.Set(key.slot, new(big.Int).SetUint64(value)); err != nil {
		return err
	}
	logger.Debug("param updated", "key", key.Name, "value", value)
	return nil
}

// Reset drops the override, restoring the default.
func (p *Params) Reset(key *Key) {
	p.storage.Delete(key.slot)
}
