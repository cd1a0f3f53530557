// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/vechain/thorfarm/builtin/esdt"
	"github.com/vechain/thorfarm/builtin/farm"
	"github.com/vechain/thorfarm/builtin/pair"
	"github.com/vechain/thorfarm/builtin/reverts"
	"github.com/vechain/thorfarm/builtin/staking"
	"github.com/vechain/thorfarm/thor"
	"github.com/vechain/thorfarm/xenv"
)

// ArgKind is the type of a native method argument.
type ArgKind uint8

const (
	ArgAddress ArgKind = iota
	ArgToken
	ArgUint
	ArgBigInt
	ArgBool
	ArgString
	// ArgCallback is only passed by the executor.
	ArgCallback
)

func (k ArgKind) String() string {
	return [...]string{"address", "token", "uint", "bigint", "bool", "string", "callback"}[k]
}

func (k ArgKind) parse(s string) (any, error) {
	switch k {
	case ArgAddress:
		return thor.ParseAddress(s)
	case ArgToken:
		if s == "" {
			return nil, fmt.Errorf("empty token")
		}
		return thor.TokenID(s), nil
	case ArgUint:
		return strconv.ParseUint(s, 10, 64)
	case ArgBigInt:
		v, ok := new(big.Int).SetString(s, 10)
		if !ok || v.Sign() < 0 {
			return nil, fmt.Errorf("invalid amount %q", s)
		}
		return v, nil
	case ArgBool:
		return strconv.ParseBool(s)
	case ArgString:
		return s, nil
	default:
		return nil, fmt.Errorf("%s arguments cannot be parsed", k)
	}
}

func (k ArgKind) accepts(v any) bool {
	switch k {
	case ArgAddress:
		_, ok := v.(thor.Address)
		return ok
	case ArgToken:
		_, ok := v.(thor.TokenID)
		return ok
	case ArgUint:
		_, ok := v.(uint64)
		return ok
	case ArgBigInt:
		b, ok := v.(*big.Int)
		return ok && b != nil
	case ArgBool:
		_, ok := v.(bool)
		return ok
	case ArgString:
		_, ok := v.(string)
		return ok
	case ArgCallback:
		cb, ok := v.(*esdt.Callback)
		return ok && cb != nil
	}
	return false
}

// nativeMethod describes a native call.
type nativeMethod struct {
	name string
	args []ArgKind
	run  func(c *Context) ([]any, error)
}

// Context is the invocation context of a native method.
type Context struct {
	Env       *xenv.Environment
	Authority *esdt.ESDT
	kind      Kind
	args      []any
}

func (c *Context) Address(i int) thor.Address { return c.args[i].(thor.Address) }
func (c *Context) Token(i int) thor.TokenID   { return c.args[i].(thor.TokenID) }
func (c *Context) Uint(i int) uint64          { return c.args[i].(uint64) }
func (c *Context) BigInt(i int) *big.Int      { return c.args[i].(*big.Int) }
func (c *Context) Bool(i int) bool            { return c.args[i].(bool) }
func (c *Context) Text(i int) string          { return c.args[i].(string) }

func (c *Context) Callback(i int) *esdt.Callback { return c.args[i].(*esdt.Callback) }

// Farm binds the farm at the called address. A staking contract is a farm too.
func (c *Context) Farm() *farm.Farm {
	if c.kind == KindStaking {
		return c.Staking().Farm
	}
	return farm.New(c.Env, c.Authority, PairLocator(c.Env.State()), Decoder)
}

func (c *Context) Staking() *staking.Staking {
	return staking.New(c.Env, c.Authority, PairLocator(c.Env.State()), Decoder)
}

func (c *Context) Pair() *pair.Pair {
	return pair.New(c.Env.To(), c.Env.State())
}

func lookup(kind Kind, name string) (*nativeMethod, error) {
	m, ok := nativeMethods[kind][name]
	if !ok {
		return nil, reverts.Errorf(reverts.KindNotFound, "%s has no method %q", kind, name)
	}
	return m, nil
}

// Methods lists the methods of a contract kind with their argument kinds.
func Methods(kind Kind) map[string][]ArgKind {
	out := make(map[string][]ArgKind, len(nativeMethods[kind]))
	for name, m := range nativeMethods[kind] {
		out[name] = m.args
	}
	return out
}

// ParseArgs converts textual arguments of a method.
func ParseArgs(kind Kind, method string, args []string) ([]any, error) {
	m, err := lookup(kind, method)
	if err != nil {
		return nil, err
	}
	if len(args) != len(m.args) {
		return nil, reverts.Errorf(reverts.KindDecodingError, "%s expects %d arguments, got %d", method, len(m.args), len(args))
	}
	out := make([]any, len(args))
	for i, s := range args {
		v, err := m.args[i].parse(s)
		if err != nil {
			return nil, reverts.Errorf(reverts.KindDecodingError, "argument %d of %s: %v", i, method, err)
		}
		out[i] = v
	}
	return out, nil
}

// Call runs method of the contract deployed at env.To().
func Call(env *xenv.Environment, method string, args []any) ([]any, error) {
	kind, err := Registry.WithState(env.State()).KindOf(env.To())
	if err != nil {
		return nil, err
	}
	if kind == 0 {
		return nil, reverts.Errorf(reverts.KindNotFound, "no contract at %v", env.To())
	}
	m, err := lookup(kind, method)
	if err != nil {
		return nil, err
	}
	if len(args) != len(m.args) {
		return nil, reverts.Errorf(reverts.KindDecodingError, "%s expects %d arguments, got %d", method, len(m.args), len(args))
	}
	for i, a := range m.args {
		if !a.accepts(args[i]) {
			return nil, reverts.Errorf(reverts.KindDecodingError, "argument %d of %s is not %s", i, method, a)
		}
	}
	return m.run(&Context{
		Env:       env,
		Authority: ESDT.WithState(env.State(), env.UseGas),
		kind:      kind,
		args:      args,
	})
}

// DeliverCallback hands cb to its recipient. env must be a call from the authority to cb.To.
func DeliverCallback(env *xenv.Environment, cb *esdt.Callback) error {
	_, err := Call(env, "callback", []any{cb})
	return err
}
