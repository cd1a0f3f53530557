// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	addr := BytesToAddress([]byte("farm"))

	parsed, err := ParseAddress(addr.String())
	require.NoError(t, err)
	assert.Equal(t, addr, parsed)

	parsed, err = ParseAddress(addr.String()[2:])
	require.NoError(t, err)
	assert.Equal(t, addr, parsed)

	_, err = ParseAddress("0x1234")
	assert.EqualError(t, err, "invalid length")

	_, err = ParseAddress("1x" + addr.String()[2:])
	assert.EqualError(t, err, "invalid prefix")

	assert.True(t, Address{}.IsZero())
	assert.False(t, addr.IsZero())
	assert.Panics(t, func() { MustParseAddress("bad") })
}

func TestAddressJSON(t *testing.T) {
	addr := BytesToAddress([]byte("farm"))

	data, err := json.Marshal(&addr)
	require.NoError(t, err)
	assert.Equal(t, `"`+addr.String()+`"`, string(data))

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded)
}

func TestBytes32(t *testing.T) {
	b := BytesToBytes32([]byte("penalty-percent"))
	parsed, err := ParseBytes32(b.String())
	require.NoError(t, err)
	assert.Equal(t, b, parsed)
	assert.False(t, b.IsZero())
	assert.True(t, Bytes32{}.IsZero())
}

func TestBlake2b(t *testing.T) {
	assert.Equal(t, Blake2b([]byte("ab")), Blake2b([]byte("a"), []byte("b")))
	assert.NotEqual(t, Blake2b([]byte("a")), Blake2b([]byte("b")))
}

func TestTokenID(t *testing.T) {
	assert.True(t, NativeToken.IsNative())
	assert.False(t, TokenID("LP-abcdef").IsNative())
	assert.True(t, TokenID("").IsEmpty())
	assert.Equal(t, []byte("LP-abcdef"), TokenID("LP-abcdef").Bytes())
}
