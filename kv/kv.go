// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv defines the key-value store the host ledger is persisted to.
package kv

type Getter interface {
	// Get fails for absent keys, check with IsNotFound.
	Get(key []byte) ([]byte, error)
	IsNotFound(error) bool
}

type Putter interface {
	Put(key, value []byte) error
	Delete(key []byte) error
}

// Batch collects puts and deletes until Write applies them atomically.
type Batch interface {
	Putter

	Len() int
	Write() error
}

type Store interface {
	Getter
	Putter

	NewBatch() Batch
}

type StoreCloser interface {
	Store
	Close() error
}
