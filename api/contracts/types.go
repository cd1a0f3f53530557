// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contracts

import "github.com/vechain/thorfarm/api/utils"

type Contract struct {
	Address string    `json:"address"`
	Kind    string    `json:"kind"`
	Methods []*Method `json:"methods,omitempty"`
}

type Method struct {
	Name string   `json:"name"`
	Args []string `json:"args"`
}

// CallData is the body of a contract call. Args are given in text form.
type CallData struct {
	Caller  string         `json:"caller"`
	Method  string         `json:"method"`
	Args    []string       `json:"args"`
	Payment *utils.Payment `json:"payment"`
	Gas     uint64         `json:"gas"`
}

type ExecuteResult struct {
	Receipt   *utils.Receipt   `json:"receipt"`
	Callbacks []*utils.Receipt `json:"callbacks"`
}
