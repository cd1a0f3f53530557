// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farms

type Status struct {
	Address        string   `json:"address"`
	Kind           string   `json:"kind"`
	Owner          string   `json:"owner"`
	Router         string   `json:"router"`
	Active         bool     `json:"active"`
	FarmToken      string   `json:"farmToken"`
	LastError      string   `json:"lastError"`
	UnitToken      string   `json:"unitToken"`
	TotalValue     string   `json:"totalValue"`
	TotalShares    string   `json:"totalShares"`
	VirtualReserve string   `json:"virtualReserve"`
	Balance        string   `json:"balance"`
	AcceptedTokens []string `json:"acceptedTokens"`
}

type Position struct {
	Nonce        uint64 `json:"nonce"`
	OriginToken  string `json:"originToken"`
	OriginAmount string `json:"originAmount"`
	EntryValue   string `json:"entryValue"`
	Shares       string `json:"shares"`
	EntryEpoch   uint64 `json:"entryEpoch"`
}

type Rewards struct {
	Nonce    uint64 `json:"nonce"`
	Quantity string `json:"quantity"`
	Reward   string `json:"reward"`
	Epoch    uint64 `json:"epoch"`
}
