// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"errors"
	"math/big"

	"github.com/vechain/thorfarm/thor"
)

// ErrUnderflow is returned when a subtraction would leave a negative value.
var ErrUnderflow = errors.New("uint256 underflow")

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// ErrOverflow is returned when a value exceeds 256 bits.
var ErrOverflow = errors.New("uint256 overflow")

// Uint256 is a wrapper for storage and retrieval of an unsigned 256 bits integer.
type Uint256 struct {
	raw *Raw[*big.Int]
}

func NewUint256(context *Context, slot thor.Bytes32) *Uint256 {
	return &Uint256{raw: NewRaw[*big.Int](context, slot)}
}

// Get returns the stored value, zero if never set.
func (u *Uint256) Get() (*big.Int, error) {
	v, err := u.raw.Get()
	if err != nil {
		return nil, err
	}
	if v == nil {
		return new(big.Int), nil
	}
	return v, nil
}

func (u *Uint256) Set(value *big.Int) error {
	if value.Sign() < 0 {
		return ErrUnderflow
	}
	if value.Cmp(maxUint256) > 0 {
		return ErrOverflow
	}
	if value.Sign() == 0 {
		u.raw.Delete()
		return nil
	}
	return u.raw.Set(value)
}

func (u *Uint256) Add(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	return u.Set(storage.Add(storage, value))
}

func (u *Uint256) Sub(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	return u.Set(storage.Sub(storage, value))
}
