// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"math/big"
)

// Gas schedule of native contract storage access.
const (
	SloadGas  uint64 = 200
	SstoreGas uint64 = 5000

	// TransferGas is charged for every token movement performed on behalf of a contract.
	TransferGas uint64 = 1500
	// CallGas is the base cost of entering a contract.
	CallGas uint64 = 21000

	// DefaultCallGas is the gas granted to a call when the caller does not specify one.
	DefaultCallGas uint64 = 100_000_000
)

// Defaults of farm and staking tunables.
const (
	// ExternQueryMaxGas caps the gas granted to a single pricing query against a pair.
	ExternQueryMaxGas uint64 = 20_000_000
	// PenaltyPercent is the share of the reward burned on early exit.
	PenaltyPercent uint64 = 10
	// MinEpochsNoPenalty is the number of epochs a position must age to exit without penalty.
	MinEpochsNoPenalty uint64 = 3
	// UnbondEpochs is the delay between unstake and the withdrawable release.
	UnbondEpochs uint64 = 10
)

// IssueCost is the fee the token authority charges for issuing a token class, in native units.
var IssueCost = new(big.Int).Mul(big.NewInt(5), big.NewInt(1e16))
