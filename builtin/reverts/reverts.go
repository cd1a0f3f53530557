// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies a revert.
type Kind uint8

const (
	KindPermissionDenied Kind = iota + 1
	KindNotActive
	KindInvalidAmount
	KindZeroContribution
	KindZeroPrincipal
	KindZeroOriginAmount
	KindUnknownAsset
	KindUnknownToken
	KindNoPriceRoute
	KindInsufficientShares
	KindInsufficientBalance
	KindDecodingError
	KindUnbondTooEarly
	KindNothingToWithdraw
	KindAlreadyIssued
	KindNotIssued
	KindInvalidNonce
	KindAlreadyExists
	KindNotFound
	KindOutOfGas
	KindRemoteCall
)

var kindNames = map[Kind]string{
	KindPermissionDenied:    "PermissionDenied",
	KindNotActive:           "NotActive",
	KindInvalidAmount:       "InvalidAmount",
	KindZeroContribution:    "ZeroContribution",
	KindZeroPrincipal:       "ZeroPrincipal",
	KindZeroOriginAmount:    "ZeroOriginAmount",
	KindUnknownAsset:        "UnknownAsset",
	KindUnknownToken:        "UnknownToken",
	KindNoPriceRoute:        "NoPriceRoute",
	KindInsufficientShares:  "InsufficientShares",
	KindInsufficientBalance: "InsufficientBalance",
	KindDecodingError:       "DecodingError",
	KindUnbondTooEarly:      "UnbondTooEarly",
	KindNothingToWithdraw:   "NothingToWithdraw",
	KindAlreadyIssued:       "AlreadyIssued",
	KindNotIssued:           "NotIssued",
	KindInvalidNonce:        "InvalidNonce",
	KindAlreadyExists:       "AlreadyExists",
	KindNotFound:            "NotFound",
	KindOutOfGas:            "OutOfGas",
	KindRemoteCall:          "RemoteCall",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Error is a contract level failure. The transaction carrying it is reverted.
type Error struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.message
}

func (e *Error) Kind() Kind {
	return e.kind
}

// Is matches any revert of the same kind, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.kind == e.kind
}

var (
	ErrPermissionDenied    = New(KindPermissionDenied, "permission denied")
	ErrNotActive           = New(KindNotActive, "not active")
	ErrInvalidAmount       = New(KindInvalidAmount, "invalid amount")
	ErrZeroContribution    = New(KindZeroContribution, "cannot farm with amount of 0")
	ErrZeroPrincipal       = New(KindZeroPrincipal, "cannot unfarm with 0 farming amount")
	ErrZeroOriginAmount    = New(KindZeroOriginAmount, "cannot unfarm with 0 amount")
	ErrUnknownAsset        = New(KindUnknownAsset, "not an accepted token")
	ErrUnknownToken        = New(KindUnknownToken, "unknown farm token")
	ErrNoPriceRoute        = New(KindNoPriceRoute, "cannot get equivalent")
	ErrInsufficientShares  = New(KindInsufficientShares, "insufficient shares")
	ErrInsufficientBalance = New(KindInsufficientBalance, "insufficient balance")
	ErrDecodingError       = New(KindDecodingError, "error decoding position attributes")
	ErrUnbondTooEarly      = New(KindUnbondTooEarly, "unbond period not ended")
	ErrNothingToWithdraw   = New(KindNothingToWithdraw, "nothing to withdraw")
	ErrAlreadyIssued       = New(KindAlreadyIssued, "already issued")
	ErrNotIssued           = New(KindNotIssued, "no farm token issued")
	ErrInvalidNonce        = New(KindInvalidNonce, "invalid nonce")
	ErrAlreadyExists       = New(KindAlreadyExists, "already exists")
	ErrNotFound            = New(KindNotFound, "not found")
	ErrOutOfGas            = New(KindOutOfGas, "out of gas")
	ErrRemoteCall          = New(KindRemoteCall, "remote call failed")
)

// KindOf returns the revert kind carried by err, if any.
func KindOf(err error) (Kind, bool) {
	var re *Error
	if errors.As(err, &re) {
		return re.kind, true
	}
	return 0, false
}

func IsRevertErr(err any) bool {
	e, ok := err.(error)
	if !ok || e == nil {
		return false
	}
	_, ok = KindOf(e)
	return ok
}
