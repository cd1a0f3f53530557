// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/pkg/errors"

	"github.com/vechain/thorfarm/builtin"
	"github.com/vechain/thorfarm/runtime"
	"github.com/vechain/thorfarm/thor"
	"github.com/vechain/thorfarm/xenv"
)

// Receipt is the JSON form of a clause receipt.
type Receipt struct {
	GasUsed  uint64   `json:"gasUsed"`
	Reverted bool     `json:"reverted"`
	Kind     string   `json:"kind,omitempty"`
	Error    string   `json:"error,omitempty"`
	Events   []*Event `json:"events"`
	Output   []string `json:"output"`
}

// Event is the JSON form of a contract event.
type Event struct {
	Address string   `json:"address"`
	Name    string   `json:"name"`
	Data    []string `json:"data"`
}

// Payment is the JSON form of a call payment.
type Payment struct {
	Token  string `json:"token"`
	Nonce  uint64 `json:"nonce"`
	Amount string `json:"amount"`
}

// Parse converts the payment, nil if p is nil.
func (p *Payment) Parse() (*xenv.Payment, error) {
	if p == nil {
		return nil, nil
	}
	amount, ok := new(big.Int).SetString(p.Amount, 10)
	if !ok {
		return nil, errors.Errorf("invalid amount %q", p.Amount)
	}
	return &xenv.Payment{Token: thor.TokenID(p.Token), Nonce: p.Nonce, Amount: amount}, nil
}

// FormatValues renders contract values as strings.
func FormatValues(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		switch v := v.(type) {
		case uint64:
			out = append(out, strconv.FormatUint(v, 10))
		default:
			out = append(out, fmt.Sprint(v))
		}
	}
	return out
}

// ConvertReceipt converts a runtime receipt into its JSON form.
func ConvertReceipt(r *runtime.Receipt) *Receipt {
	events := make([]*Event, 0, len(r.Events))
	for _, ev := range r.Events {
		events = append(events, &Event{
			Address: ev.Address.String(),
			Name:    ev.Name,
			Data:    FormatValues(ev.Data),
		})
	}
	return &Receipt{
		GasUsed:  r.GasUsed,
		Reverted: r.Reverted,
		Kind:     r.Kind,
		Error:    r.Error,
		Events:   events,
		Output:   FormatValues(r.Output),
	}
}

// ParseAddress parses an address path variable.
func ParseAddress(s string, name string) (thor.Address, error) {
	addr, err := thor.ParseAddress(s)
	if err != nil {
		return thor.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

// RequireKind fails with not found unless a contract of one of kinds is deployed at addr.
func RequireKind(rt *runtime.Runtime, addr thor.Address, kinds ...builtin.Kind) (builtin.Kind, error) {
	kind, err := rt.KindOf(addr)
	if err != nil {
		return 0, err
	}
	for _, k := range kinds {
		if kind == k {
			return kind, nil
		}
	}
	return 0, NotFound(errors.Errorf("no %v contract at %v", kinds, addr))
}

// View calls a read-only method and maps reverts to http errors.
func View(rt *runtime.Runtime, to thor.Address, method string, args ...any) ([]any, error) {
	receipt, err := rt.Call(&runtime.Clause{To: to, Method: method, Args: args})
	if err != nil {
		return nil, err
	}
	if receipt.Reverted {
		return nil, revertError(receipt.Kind, errors.Errorf("%s: %s", method, receipt.Error))
	}
	return receipt.Output, nil
}
