// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Bucket is a key prefix partitioning one store into logical tables.
type Bucket string

// Key returns a newly allocated prefixed key.
func (b Bucket) Key(key []byte) []byte {
	k := make([]byte, 0, len(b)+len(key))
	return append(append(k, b...), key...)
}

// Get reads key of the bucket from src.
func (b Bucket) Get(src Getter, key []byte) ([]byte, error) {
	return src.Get(b.Key(key))
}

// Put writes key of the bucket into dst. An empty value deletes the key.
func (b Bucket) Put(dst Putter, key, val []byte) error {
	if len(val) == 0 {
		return dst.Delete(b.Key(key))
	}
	return dst.Put(b.Key(key), val)
}
