// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package datagen produces random fixtures for tests.
package datagen

import (
	"crypto/rand"

	"github.com/vechain/thorfarm/thor"
)

// RandAddress returns a random, practically unique account address.
func RandAddress() (addr thor.Address) {
	rand.Read(addr[:])
	return
}
