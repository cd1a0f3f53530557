// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/thorfarm/builtin/reverts"
	"github.com/vechain/thorfarm/cache"
	"github.com/vechain/thorfarm/thor"
)

// Version of the attributes encoding.
const Version uint8 = 1

// Attributes is the immutable record carried by every nonce of a position token.
type Attributes struct {
	Version      uint8
	OriginToken  thor.TokenID
	OriginAmount *big.Int
	EntryValue   *big.Int
	Shares       *big.Int
	EntryEpoch   uint64
}

// Validate checks the record can back a redemption.
func (a *Attributes) Validate() error {
	switch {
	case a.OriginAmount == nil || a.OriginAmount.Sign() <= 0:
		return errors.New("origin amount must be positive")
	case a.EntryValue == nil || a.EntryValue.Sign() <= 0:
		return errors.New("entry value must be positive")
	case a.Shares == nil || a.Shares.Sign() <= 0:
		return errors.New("shares must be positive")
	}
	return nil
}

// Encode returns the storage form of the record.
func (a *Attributes) Encode() ([]byte, error) {
	if a.Version != Version {
		return nil, errors.Errorf("unsupported attributes version %d", a.Version)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return rlp.EncodeToBytes(a)
}

// Copy returns a deep copy.
func (a *Attributes) Copy() *Attributes {
	cpy := *a
	cpy.OriginAmount = new(big.Int).Set(a.OriginAmount)
	cpy.EntryValue = new(big.Int).Set(a.EntryValue)
	cpy.Shares = new(big.Int).Set(a.Shares)
	return &cpy
}

// Decode parses raw attributes. Malformed input, unknown versions and records that
// fail validation yield a DecodingError.
func Decode(raw []byte) (*Attributes, error) {
	if len(raw) == 0 {
		return nil, reverts.Errorf(reverts.KindDecodingError, "empty attributes")
	}
	var a Attributes
	if err := rlp.DecodeBytes(raw, &a); err != nil {
		return nil, reverts.Errorf(reverts.KindDecodingError, "malformed attributes: %v", err)
	}
	if a.Version != Version {
		return nil, reverts.Errorf(reverts.KindDecodingError, "unsupported attributes version %d", a.Version)
	}
	if err := a.Validate(); err != nil {
		return nil, reverts.Errorf(reverts.KindDecodingError, "invalid attributes: %v", err)
	}
	return &a, nil
}

// Decoder decodes attributes through a cache keyed by content hash.
type Decoder struct {
	cache *cache.LRU[thor.Bytes32, *Attributes]
}

func NewDecoder(size int) *Decoder {
	c, err := cache.NewLRU[thor.Bytes32, *Attributes](size)
	if err != nil {
		panic(err)
	}
	return &Decoder{cache: c}
}

// Decode is like the package level Decode. The returned record is owned by the caller.
func (d *Decoder) Decode(raw []byte) (*Attributes, error) {
	a, err := d.cache.GetOrLoad(thor.Blake2b(raw), func(thor.Bytes32) (*Attributes, error) {
		return Decode(raw)
	})
	if err != nil {
		return nil, err
	}
	return a.Copy(), nil
}

// Stats returns cache hits and misses.
func (d *Decoder) Stats() (hit, miss int64) {
	return d.cache.Stats()
}
