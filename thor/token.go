// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

// TokenID identifies a token class. The native currency uses NativeToken.
type TokenID string

// NativeToken is the identifier of the chain's native currency.
const NativeToken TokenID = "VET"

// IsNative reports whether the id names the native currency.
func (t TokenID) IsNative() bool {
	return t == NativeToken
}

// IsEmpty reports whether the id is unset.
func (t TokenID) IsEmpty() bool {
	return t == ""
}

// Bytes returns the byte form, used as storage key.
func (t TokenID) Bytes() []byte {
	return []byte(t)
}

func (t TokenID) String() string {
	return string(t)
}
