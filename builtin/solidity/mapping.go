// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/thorfarm/thor"
)

type Key interface {
	Bytes() []byte
}

// Mapping is a key/value storage abstraction for built-in contracts, similar to the mapping in Solidity.
// Each entry lives at blake2b(key, basePos).
type Mapping[K Key, V any] struct {
	context *Context
	basePos thor.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos thor.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) slot(key K) *Raw[V] {
	return NewRaw[V](m.context, thor.Blake2b(key.Bytes(), m.basePos.Bytes()))
}

// Get returns the value for key, or zero value of V if absent.
func (m *Mapping[K, V]) Get(key K) (V, error) {
	return m.slot(key).Get()
}

// Exists reports whether key has a stored value.
func (m *Mapping[K, V]) Exists(key K) (bool, error) {
	return m.slot(key).Exists()
}

func (m *Mapping[K, V]) Set(key K, value V) error {
	return m.slot(key).Set(value)
}

func (m *Mapping[K, V]) Delete(key K) {
	m.slot(key).Delete()
}
