// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"io"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/thorfarm/kv"
	"github.com/vechain/thorfarm/thor"
)

type stagedKV struct {
	bucket kv.Bucket
	key    []byte
	val    []byte
}

// Stage abstracts changes collected from a state, ready to be hashed or committed.
type Stage struct {
	state *State
	kvs   []stagedKV
}

func newStage(s *State, storage map[storageKey]rlp.RawValue, balances map[balanceKey]*big.Int) *Stage {
	kvs := make([]stagedKV, 0, len(storage)+len(balances))
	for k, v := range storage {
		kvs = append(kvs, stagedKV{storageBucket, storageDBKey(k), v})
	}
	for k, v := range balances {
		kvs = append(kvs, stagedKV{balanceBucket, balanceDBKey(k), v.Bytes()})
	}
	sort.Slice(kvs, func(i, j int) bool {
		if kvs[i].bucket != kvs[j].bucket {
			return kvs[i].bucket < kvs[j].bucket
		}
		return bytes.Compare(kvs[i].key, kvs[j].key) < 0
	})
	return &Stage{state: s, kvs: kvs}
}

// Len returns count of changed entries.
func (s *Stage) Len() int {
	return len(s.kvs)
}

// Hash computes digest of the change set.
func (s *Stage) Hash() thor.Bytes32 {
	return thor.Blake2bFn(func(w io.Writer) {
		for _, e := range s.kvs {
			w.Write([]byte(e.bucket))
			w.Write(e.key)
			w.Write(e.val)
		}
	})
}

// Commit writes all changes into the store atomically, and resets the journal of the state.
func (s *Stage) Commit() error {
	batch := s.state.db.NewBatch()
	for _, e := range s.kvs {
		if err := e.bucket.Put(batch, e.key, e.val); err != nil {
			return &Error{err}
		}
	}
	if err := batch.Write(); err != nil {
		return &Error{err}
	}
	for _, e := range s.kvs {
		_ = s.state.cache.Set(e.bucket.Key(e.key), e.val)
	}
	s.state.reset()
	return nil
}
