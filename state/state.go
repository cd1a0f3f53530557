// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/qianbin/directcache"

	"github.com/vechain/thorfarm/kv"
	"github.com/vechain/thorfarm/stackedmap"
	"github.com/vechain/thorfarm/thor"
)

const (
	storageBucket kv.Bucket = "s"
	balanceBucket kv.Bucket = "b"

	defaultCacheSize = 16 * 1024 * 1024
)

// ErrInsufficientBalance is returned when a debit exceeds the held quantity.
var ErrInsufficientBalance = errors.New("insufficient balance")

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr thor.Address
	key  thor.Bytes32
}

// balanceKey addresses a holding: the native currency and fungible tokens use nonce 0.
type balanceKey struct {
	addr  thor.Address
	token thor.TokenID
	nonce uint64
}

// State is the host ledger: token holdings per account and raw storage of native contracts.
// Changes are journaled and can be reverted to a checkpoint until staged and committed.
type State struct {
	db    kv.Store
	cache *directcache.Cache
	sm    *stackedmap.StackedMap[any, any]
}

// New create state object backed by the given store.
func New(db kv.Store) *State {
	return NewWithCache(db, defaultCacheSize)
}

// NewWithCache create state object with read cache of given size in bytes.
func NewWithCache(db kv.Store, cacheSize int) *State {
	s := &State{
		db:    db,
		cache: directcache.New(cacheSize),
	}
	s.sm = stackedmap.New(s.cacheGetter)
	return s
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key any) (value any, exist bool, err error) {
	switch k := key.(type) {
	case storageKey:
		raw, err := s.load(storageBucket, storageDBKey(k))
		if err != nil {
			return nil, false, err
		}
		return rlp.RawValue(raw), true, nil
	case balanceKey:
		raw, err := s.load(balanceBucket, balanceDBKey(k))
		if err != nil {
			return nil, false, err
		}
		return new(big.Int).SetBytes(raw), true, nil
	}
	panic(fmt.Errorf("unexpected key type %+v", key))
}

// load reads committed value through the cache. Absent keys read as empty.
func (s *State) load(bucket kv.Bucket, key []byte) ([]byte, error) {
	ck := bucket.Key(key)
	var val []byte
	if s.cache.AdvGet(ck, func(v []byte) {
		val = append([]byte(nil), v...)
	}, true) {
		return val, nil
	}

	val, err := bucket.Get(s.db, key)
	if err != nil {
		if !s.db.IsNotFound(err) {
			return nil, err
		}
		val = nil
	}
	_ = s.cache.Set(ck, val)
	return val, nil
}

func storageDBKey(k storageKey) []byte {
	return append(k.addr.Bytes(), k.key[:]...)
}

func balanceDBKey(k balanceKey) []byte {
	key := make([]byte, 0, thor.AddressLength+8+len(k.token))
	key = append(key, k.addr.Bytes()...)
	key = binary.BigEndian.AppendUint64(key, k.nonce)
	return append(key, k.token...)
}

// GetBalance returns the quantity of (token, nonce) held by addr.
func (s *State) GetBalance(addr thor.Address, token thor.TokenID, nonce uint64) (*big.Int, error) {
	v, _, err := s.sm.Get(balanceKey{addr, token, nonce})
	if err != nil {
		return nil, &Error{err}
	}
	return new(big.Int).Set(v.(*big.Int)), nil
}

// SetBalance set the quantity of (token, nonce) held by addr.
func (s *State) SetBalance(addr thor.Address, token thor.TokenID, nonce uint64, balance *big.Int) {
	s.sm.Put(balanceKey{addr, token, nonce}, new(big.Int).Set(balance))
}

// AddBalance credits amount to addr.
func (s *State) AddBalance(addr thor.Address, token thor.TokenID, nonce uint64, amount *big.Int) error {
	if amount.Sign() < 0 {
		return &Error{errors.New("negative amount")}
	}
	bal, err := s.GetBalance(addr, token, nonce)
	if err != nil {
		return err
	}
	s.SetBalance(addr, token, nonce, bal.Add(bal, amount))
	return nil
}

// SubBalance debits amount from addr. It returns ErrInsufficientBalance if the holding is too small.
func (s *State) SubBalance(addr thor.Address, token thor.TokenID, nonce uint64, amount *big.Int) error {
	if amount.Sign() < 0 {
		return &Error{errors.New("negative amount")}
	}
	bal, err := s.GetBalance(addr, token, nonce)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	s.SetBalance(addr, token, nonce, bal.Sub(bal, amount))
	return nil
}

// Transfer moves amount of (token, nonce) from one account to another.
func (s *State) Transfer(from, to thor.Address, token thor.TokenID, nonce uint64, amount *big.Int) error {
	if err := s.SubBalance(from, token, nonce, amount); err != nil {
		return err
	}
	return s.AddBalance(to, token, nonce, amount)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr thor.Address, key thor.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw. Empty raw clears the slot.
func (s *State) SetRawStorage(addr thor.Address, key thor.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by end will be absorbed by State instance.
func (s *State) EncodeStorage(addr thor.Address, key thor.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr thor.Address, key thor.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage collects all journaled changes for commit.
func (s *State) Stage() *Stage {
	storage := make(map[storageKey]rlp.RawValue)
	balances := make(map[balanceKey]*big.Int)

	for _, entry := range s.sm.Journal() {
		switch key := entry.Key.(type) {
		case storageKey:
			storage[key] = entry.Value.(rlp.RawValue)
		case balanceKey:
			balances[key] = entry.Value.(*big.Int)
		}
	}
	return newStage(s, storage, balances)
}

// reset drops the journal after a commit.
func (s *State) reset() {
	s.sm = stackedmap.New(s.cacheGetter)
}
