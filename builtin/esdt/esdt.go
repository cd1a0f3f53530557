// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package esdt implements the host token authority: semi-fungible token classes with
// per-nonce attributes and quantities, operational roles, and asynchronous issuance
// answered through a callback queue.
package esdt

import (
	"encoding/binary"
	"encoding/hex"
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/thorfarm/builtin/reverts"
	"github.com/vechain/thorfarm/builtin/solidity"
	"github.com/vechain/thorfarm/log"
	"github.com/vechain/thorfarm/state"
	"github.com/vechain/thorfarm/thor"
)

var logger = log.WithContext("pkg", "esdt")

var (
	slotClasses   = thor.BytesToBytes32([]byte("classes"))
	slotRoles     = thor.BytesToBytes32([]byte("roles"))
	slotNonces    = thor.BytesToBytes32([]byte("nonces"))
	slotData      = thor.BytesToBytes32([]byte("token-data"))
	slotIssued    = thor.BytesToBytes32([]byte("issued"))
	slotQueue     = thor.BytesToBytes32([]byte("callback-queue"))
	slotQueueHead = thor.BytesToBytes32([]byte("callback-queue-head"))
	slotQueueTail = thor.BytesToBytes32([]byte("callback-queue-tail"))
)

// Role is a bit set of operational permissions on a token class.
type Role uint8

const (
	RoleNftCreate Role = 1 << iota
	RoleNftAddQuantity
	RoleNftBurn
)

func (r Role) Has(role Role) bool {
	return r&role == role
}

// Class describes an issued token class.
type Class struct {
	Owner  thor.Address
	Name   string
	Ticker string
}

// TokenData is the per-nonce record of a semi-fungible token.
type TokenData struct {
	Creator    thor.Address
	Attributes []byte
}

type roleKey struct {
	token thor.TokenID
	addr  thor.Address
}

func (k roleKey) Bytes() []byte {
	return append(k.addr.Bytes(), k.token...)
}

type nonceKey struct {
	token thor.TokenID
	nonce uint64
}

func (k nonceKey) Bytes() []byte {
	return append(binary.BigEndian.AppendUint64(nil, k.nonce), k.token...)
}

// ESDT implements the token authority over a state.
type ESDT struct {
	addr    thor.Address
	state   *state.State
	classes *solidity.Mapping[thor.TokenID, *Class]
	roles   *solidity.Mapping[roleKey, uint8]
	nonces  *solidity.Mapping[thor.TokenID, uint64]
	data    *solidity.Mapping[nonceKey, *TokenData]
	issued  *solidity.Uint256
	queue   *queue
}

// New create a new instance.
func New(addr thor.Address, state *state.State, charger solidity.UseGasFunc) *ESDT {
	sctx := solidity.NewContext(addr, state, charger)
	return &ESDT{
		addr:    addr,
		state:   state,
		classes: solidity.NewMapping[thor.TokenID, *Class](sctx, slotClasses),
		roles:   solidity.NewMapping[roleKey, uint8](sctx, slotRoles),
		nonces:  solidity.NewMapping[thor.TokenID, uint64](sctx, slotNonces),
		data:    solidity.NewMapping[nonceKey, *TokenData](sctx, slotData),
		issued:  solidity.NewUint256(sctx, slotIssued),
		queue:   newQueue(sctx, slotQueue, slotQueueHead, slotQueueTail),
	}
}

// Address returns the authority's address.
func (e *ESDT) Address() thor.Address {
	return e.addr
}

// Class returns the class of token, nil if never issued.
func (e *ESDT) Class(token thor.TokenID) (*Class, error) {
	return e.classes.Get(token)
}

// IssueSemiFungible requests a new semi-fungible class for caller. The fee must already be
// transferred to the authority. The answer, success or failure, is queued as a callback to
// caller carrying callbackID. Failures return the fee with the callback.
func (e *ESDT) IssueSemiFungible(caller thor.Address, fee *big.Int, name, ticker string, callbackID *big.Int) error {
	cb := &Callback{ID: callbackID, To: caller, Kind: CallIssue}

	if msg := validateIssue(fee, name, ticker); msg != "" {
		logger.Debug("issue rejected", "caller", caller, "ticker", ticker, "reason", msg)
		cb.Err = msg
		cb.RefundToken = thor.NativeToken
		cb.RefundAmount = fee
		return e.queue.push(cb)
	}

	token, err := e.nextTokenID(ticker)
	if err != nil {
		return err
	}
	if err := e.classes.Set(token, &Class{Owner: caller, Name: name, Ticker: ticker}); err != nil {
		return errors.Wrap(err, "failed to set class")
	}
	logger.Info("token issued", "token", token, "owner", caller)

	cb.Token = token
	return e.queue.push(cb)
}

func (e *ESDT) nextTokenID(ticker string) (thor.TokenID, error) {
	count, err := e.issued.Get()
	if err != nil {
		return "", err
	}
	if err := e.issued.Set(new(big.Int).Add(count, big.NewInt(1))); err != nil {
		return "", err
	}
	suffix := thor.Blake2b([]byte(ticker), count.Bytes())
	return thor.TokenID(ticker + "-" + hex.EncodeToString(suffix[:3])), nil
}

func validateIssue(fee *big.Int, name, ticker string) string {
	if fee == nil || fee.Cmp(thor.IssueCost) < 0 {
		return "insufficient issue cost"
	}
	if len(name) < 3 || len(name) > 20 || !isAlphanumeric(name, false) {
		return "invalid token name"
	}
	if len(ticker) < 3 || len(ticker) > 10 || !isAlphanumeric(ticker, true) {
		return "invalid ticker"
	}
	return ""
}

func isAlphanumeric(s string, upperOnly bool) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z' && !upperOnly:
		default:
			return false
		}
	}
	return true
}

// SetSpecialRoles grants roles on token to target. Only the class owner may do so.
// The outcome is queued as a callback to caller.
func (e *ESDT) SetSpecialRoles(caller, target thor.Address, token thor.TokenID, roles Role, callbackID *big.Int) error {
	cb := &Callback{ID: callbackID, To: caller, Kind: CallSetRoles, Token: token}

	class, err := e.classes.Get(token)
	if err != nil {
		return err
	}
	switch {
	case class == nil:
		cb.Err = "token not found"
	case class.Owner != caller:
		cb.Err = "only token owner can set roles"
	default:
		current, err := e.roles.Get(roleKey{token, target})
		if err != nil {
			return err
		}
		if err := e.roles.Set(roleKey{token, target}, current|uint8(roles)); err != nil {
			return err
		}
		logger.Debug("roles granted", "token", token, "target", target, "roles", roles)
	}
	return e.queue.push(cb)
}

// Roles returns the roles held by addr on token.
func (e *ESDT) Roles(addr thor.Address, token thor.TokenID) (Role, error) {
	r, err := e.roles.Get(roleKey{token, addr})
	return Role(r), err
}

func (e *ESDT) requireRole(addr thor.Address, token thor.TokenID, role Role) error {
	roles, err := e.Roles(addr, token)
	if err != nil {
		return err
	}
	if !roles.Has(role) {
		return reverts.Errorf(reverts.KindPermissionDenied, "missing role %d on %s", role, token)
	}
	return nil
}

// LastNonce returns the nonce of the latest record created for token.
func (e *ESDT) LastNonce(token thor.TokenID) (uint64, error) {
	return e.nonces.Get(token)
}

// Create mints amount of a new nonce of token to creator, carrying the attributes.
func (e *ESDT) Create(creator thor.Address, token thor.TokenID, amount *big.Int, attributes []byte) (uint64, error) {
	if err := e.requireRole(creator, token, RoleNftCreate); err != nil {
		return 0, err
	}
	if amount.Sign() <= 0 {
		return 0, reverts.ErrInvalidAmount
	}
	last, err := e.nonces.Get(token)
	if err != nil {
		return 0, err
	}
	nonce := last + 1
	if err := e.nonces.Set(token, nonce); err != nil {
		return 0, err
	}
	if err := e.data.Set(nonceKey{token, nonce}, &TokenData{Creator: creator, Attributes: attributes}); err != nil {
		return 0, errors.Wrap(err, "failed to set token data")
	}
	if err := e.state.AddBalance(creator, token, nonce, amount); err != nil {
		return 0, err
	}
	return nonce, nil
}

// AddQuantity mints more of an existing nonce to holder.
func (e *ESDT) AddQuantity(holder thor.Address, token thor.TokenID, nonce uint64, amount *big.Int) error {
	if err := e.requireRole(holder, token, RoleNftAddQuantity); err != nil {
		return err
	}
	last, err := e.nonces.Get(token)
	if err != nil {
		return err
	}
	if nonce == 0 || nonce > last {
		return reverts.ErrInvalidNonce
	}
	return e.state.AddBalance(holder, token, nonce, amount)
}

// Burn destroys amount of (token, nonce) held by holder.
func (e *ESDT) Burn(holder thor.Address, token thor.TokenID, nonce uint64, amount *big.Int) error {
	if err := e.requireRole(holder, token, RoleNftBurn); err != nil {
		return err
	}
	if err := e.state.SubBalance(holder, token, nonce, amount); err != nil {
		if errors.Is(err, state.ErrInsufficientBalance) {
			return reverts.ErrInsufficientBalance
		}
		return err
	}
	return nil
}

// TokenData returns the record of (token, nonce), nil if absent.
func (e *ESDT) TokenData(token thor.TokenID, nonce uint64) (*TokenData, error) {
	return e.data.Get(nonceKey{token, nonce})
}

// PendingCallbacks returns count of callbacks awaiting delivery.
func (e *ESDT) PendingCallbacks() (uint64, error) {
	return e.queue.len()
}

// PopCallback dequeues the oldest callback, nil if none.
func (e *ESDT) PopCallback() (*Callback, error) {
	return e.queue.pop()
}
