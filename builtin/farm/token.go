// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/vechain/thorfarm/builtin/esdt"
	"github.com/vechain/thorfarm/builtin/handshake"
	"github.com/vechain/thorfarm/builtin/reverts"
	"github.com/vechain/thorfarm/thor"
)

const allRoles = esdt.RoleNftCreate | esdt.RoleNftAddQuantity | esdt.RoleNftBurn

// IssueFarmToken requests the position token class from the authority. The payment is
// the issue fee; only a native fee is forwarded, and so only a native fee can be refunded.
func (f *Farm) IssueFarmToken(name, ticker string) (*big.Int, error) {
	if err := f.RequirePermissions(); err != nil {
		return nil, err
	}
	if err := f.RequireActive(); err != nil {
		return nil, err
	}
	current, err := f.farmToken.Get()
	if err != nil {
		return nil, err
	}
	if !current.IsEmpty() {
		return nil, reverts.ErrAlreadyIssued
	}

	fee, feeToken := new(big.Int), thor.NativeToken
	if pay := f.env.Payment(); pay != nil && pay.Amount != nil {
		fee, feeToken = pay.Amount, pay.Token
	}
	id, err := f.requests.Register(handshake.KindIssue, f.env.Caller(), fee, feeToken)
	if err != nil {
		return nil, err
	}

	forwarded := new(big.Int)
	if feeToken.IsNative() && fee.Sign() > 0 {
		if err := f.env.Transfer(f.authority.Address(), thor.NativeToken, 0, fee); err != nil {
			return nil, err
		}
		forwarded = fee
	}
	if err := f.authority.IssueSemiFungible(f.env.To(), forwarded, name, ticker, id); err != nil {
		return nil, err
	}
	f.env.Log("IssueRequested", f.env.Caller(), ticker, id)
	return id, nil
}

// SetLocalRoles requests the create, add quantity and burn roles on the farm token.
func (f *Farm) SetLocalRoles() (*big.Int, error) {
	if err := f.RequirePermissions(); err != nil {
		return nil, err
	}
	if err := f.RequireActive(); err != nil {
		return nil, err
	}
	farmToken, err := f.issuedToken()
	if err != nil {
		return nil, err
	}
	id, err := f.requests.Register(handshake.KindSetRoles, f.env.Caller(), nil, "")
	if err != nil {
		return nil, err
	}
	if err := f.authority.SetSpecialRoles(f.env.To(), f.env.To(), farmToken, allRoles, id); err != nil {
		return nil, err
	}
	return id, nil
}

// OnCallback completes a request with the answer of the authority. Refunded tokens have
// already been moved to the farm with the callback.
func (f *Farm) OnCallback(cb *esdt.Callback) error {
	if f.env.Caller() != f.authority.Address() {
		return reverts.Errorf(reverts.KindPermissionDenied, "callback from %v", f.env.Caller())
	}
	req, err := f.requests.Complete(cb.ID, cb.OK())
	if err != nil {
		return err
	}

	if !cb.OK() {
		logger.Info("request failed", "farm", f.env.To(), "id", cb.ID, "kind", cb.Kind, "error", cb.Err)
		if err := f.lastError.Set(cb.Err); err != nil {
			return err
		}
		if req.Kind == handshake.KindIssue && req.FeeToken.IsNative() && cb.HasRefund() {
			return f.env.Transfer(req.Caller, thor.NativeToken, 0, cb.RefundAmount)
		}
		return nil
	}

	f.lastError.Delete()
	if req.Kind != handshake.KindIssue {
		return nil
	}
	current, err := f.farmToken.Get()
	if err != nil {
		return err
	}
	if !current.IsEmpty() {
		logger.Info("duplicate farm token dropped", "farm", f.env.To(), "token", cb.Token, "current", current)
		return nil
	}
	logger.Info("farm token issued", "farm", f.env.To(), "token", cb.Token)
	return f.farmToken.Set(cb.Token)
}
