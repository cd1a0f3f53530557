// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/hex"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Bytes32 is a 32 byte word, used for storage slots and change set hashes.
type Bytes32 [32]byte

func (b Bytes32) String() string {
	return "0x" + hex.EncodeToString(b[:])
}

func (b Bytes32) Bytes() []byte {
	return b[:]
}

func (b Bytes32) IsZero() bool {
	return b == Bytes32{}
}

// ParseBytes32 decodes a 64 digit hex string, with or without 0x prefix.
func ParseBytes32(s string) (b Bytes32, err error) {
	err = decodeFixedHex(b[:], s)
	return
}

// BytesToBytes32 left pads or left crops b to 32 bytes.
func BytesToBytes32(b []byte) Bytes32 {
	return Bytes32(common.BytesToHash(b))
}

// decodeFixedHex fills dst from s, which must encode exactly len(dst) bytes.
func decodeFixedHex(dst []byte, s string) error {
	switch len(s) {
	case len(dst) * 2:
	case len(dst)*2 + 2:
		if strings.ToLower(s[:2]) != "0x" {
			return errors.New("invalid prefix")
		}
		s = s[2:]
	default:
		return errors.New("invalid length")
	}
	_, err := hex.Decode(dst, []byte(s))
	return err
}
