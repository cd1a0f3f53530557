// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/thorfarm/thor"
)

// Raw is a single storage slot holding an rlp encoded value.
type Raw[V any] struct {
	context *Context
	pos     thor.Bytes32
}

func NewRaw[V any](context *Context, pos thor.Bytes32) *Raw[V] {
	return &Raw[V]{context: context, pos: pos}
}

// Get returns the stored value, or zero value of V if the slot is empty.
func (r *Raw[V]) Get() (value V, err error) {
	_, err = r.get(&value)
	return
}

// Exists reports whether the slot holds a value.
func (r *Raw[V]) Exists() (bool, error) {
	var value V
	return r.get(&value)
}

func (r *Raw[V]) get(value *V) (found bool, err error) {
	err = r.context.state.DecodeStorage(r.context.address, r.pos, func(raw []byte) error {
		r.context.UseGas(toWordSize(len(raw)) * thor.SloadGas)
		if len(raw) == 0 {
			return nil
		}
		found = true
		return rlp.DecodeBytes(raw, value)
	})
	return
}

func (r *Raw[V]) Set(value V) error {
	return r.context.state.EncodeStorage(r.context.address, r.pos, func() ([]byte, error) {
		val, err := rlp.EncodeToBytes(value)
		if err != nil {
			return nil, err
		}
		r.context.UseGas(toWordSize(len(val)) * thor.SstoreGas)
		return val, nil
	})
}

func (r *Raw[V]) Delete() {
	r.context.UseGas(thor.SstoreGas)
	r.context.state.SetRawStorage(r.context.address, r.pos, nil)
}
