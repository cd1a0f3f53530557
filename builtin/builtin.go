// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/pkg/errors"

	"github.com/vechain/thorfarm/builtin/esdt"
	"github.com/vechain/thorfarm/builtin/pair"
	"github.com/vechain/thorfarm/builtin/position"
	"github.com/vechain/thorfarm/builtin/pricing"
	"github.com/vechain/thorfarm/builtin/reverts"
	"github.com/vechain/thorfarm/builtin/solidity"
	"github.com/vechain/thorfarm/state"
	"github.com/vechain/thorfarm/thor"
)

// Builtin contracts binding.
var (
	ESDT     = &esdtContract{newContract("ESDT")}
	Registry = &registryContract{newContract("Registry")}

	// Decoder decodes position attributes for every farm. Entries are keyed by content.
	Decoder = position.NewDecoder(4096)
)

type contract struct {
	name    string
	Address thor.Address
}

func newContract(name string) *contract {
	return &contract{name, thor.BytesToAddress([]byte(name))}
}

type (
	esdtContract     struct{ *contract }
	registryContract struct{ *contract }
)

func (e *esdtContract) WithState(state *state.State, charger solidity.UseGasFunc) *esdt.ESDT {
	return esdt.New(e.Address, state, charger)
}

func (r *registryContract) WithState(state *state.State) *Deployments {
	sctx := solidity.NewContext(r.Address, state, nil)
	return &Deployments{
		kinds: solidity.NewMapping[thor.Address, uint8](sctx, thor.BytesToBytes32([]byte("kinds"))),
		list:  solidity.NewRaw[[]thor.Address](sctx, thor.BytesToBytes32([]byte("deployed"))),
	}
}

// Kind of a deployed contract.
type Kind uint8

const (
	KindFarm Kind = iota + 1
	KindStaking
	KindPair
)

func (k Kind) String() string {
	switch k {
	case KindFarm:
		return "farm"
	case KindStaking:
		return "staking"
	case KindPair:
		return "pair"
	default:
		return "none"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{KindFarm, KindStaking, KindPair} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, errors.Errorf("unknown contract kind %q", s)
}

// Deployments records which contract lives at which address.
type Deployments struct {
	kinds *solidity.Mapping[thor.Address, uint8]
	list  *solidity.Raw[[]thor.Address]
}

// Deploy binds kind to addr.
func (d *Deployments) Deploy(addr thor.Address, kind Kind) error {
	if addr.IsZero() || addr == ESDT.Address || addr == Registry.Address {
		return reverts.Errorf(reverts.KindInvalidAmount, "reserved address %v", addr)
	}
	current, err := d.KindOf(addr)
	if err != nil {
		return err
	}
	if current != 0 {
		return reverts.Errorf(reverts.KindAlreadyExists, "%s already deployed at %v", current, addr)
	}
	if err := d.kinds.Set(addr, uint8(kind)); err != nil {
		return err
	}
	list, err := d.list.Get()
	if err != nil {
		return err
	}
	return d.list.Set(append(list, addr))
}

// KindOf returns the kind deployed at addr, zero if none.
func (d *Deployments) KindOf(addr thor.Address) (Kind, error) {
	k, err := d.kinds.Get(addr)
	return Kind(k), err
}

// All lists deployed addresses in deployment order.
func (d *Deployments) All() ([]thor.Address, error) {
	return d.list.Get()
}

// PairLocator locates pairs deployed on state.
func PairLocator(state *state.State) pricing.Locator {
	return pricing.LocatorFunc(func(addr thor.Address) (pricing.Pair, error) {
		kind, err := Registry.WithState(state).KindOf(addr)
		if err != nil {
			return nil, err
		}
		if kind != KindPair {
			return nil, errors.Errorf("no pair at %v", addr)
		}
		return pair.New(addr, state), nil
	})
}
