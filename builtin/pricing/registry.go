// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pricing

import (
	"github.com/pkg/errors"

	"github.com/vechain/thorfarm/builtin/reverts"
	"github.com/vechain/thorfarm/builtin/solidity"
	"github.com/vechain/thorfarm/thor"
)

type routeKey struct {
	from, to thor.TokenID
}

func (k routeKey) Bytes() []byte {
	b := make([]byte, 0, len(k.from)+len(k.to)+1)
	b = append(b, k.from...)
	b = append(b, 0)
	return append(b, k.to...)
}

// Registry holds the accepted liquidity tokens and the oracle routes of a pool.
type Registry struct {
	pairs    *solidity.Mapping[thor.TokenID, thor.Address]
	accepted *solidity.Raw[[]thor.TokenID]
	oracles  *solidity.Mapping[routeKey, thor.Address]
}

func NewRegistry(sctx *solidity.Context, pos thor.Bytes32) *Registry {
	return &Registry{
		pairs:    solidity.NewMapping[thor.TokenID, thor.Address](sctx, thor.Blake2b(pos.Bytes(), []byte("pairs"))),
		accepted: solidity.NewRaw[[]thor.TokenID](sctx, thor.Blake2b(pos.Bytes(), []byte("accepted"))),
		oracles:  solidity.NewMapping[routeKey, thor.Address](sctx, thor.Blake2b(pos.Bytes(), []byte("oracles"))),
	}
}

// AddAcceptedPair accepts token as deposit, priced by the pair at addr.
// An already accepted token is pointed at the new pair.
func (r *Registry) AddAcceptedPair(token thor.TokenID, addr thor.Address) error {
	if token.IsEmpty() || addr.IsZero() {
		return reverts.Errorf(reverts.KindInvalidAmount, "empty token or pair address")
	}
	_, found, err := r.PairOf(token)
	if err != nil {
		return err
	}
	if err := r.pairs.Set(token, addr); err != nil {
		return errors.Wrap(err, "failed to set pair")
	}
	if found {
		return nil
	}
	tokens, err := r.accepted.Get()
	if err != nil {
		return err
	}
	return r.accepted.Set(append(tokens, token))
}

// RemoveAcceptedPair stops accepting token.
func (r *Registry) RemoveAcceptedPair(token thor.TokenID) error {
	_, found, err := r.PairOf(token)
	if err != nil {
		return err
	}
	if !found {
		return reverts.Errorf(reverts.KindNotFound, "token %s not accepted", token)
	}
	r.pairs.Delete(token)

	tokens, err := r.accepted.Get()
	if err != nil {
		return err
	}
	for i, t := range tokens {
		if t == token {
			tokens = append(tokens[:i], tokens[i+1:]...)
			break
		}
	}
	if len(tokens) == 0 {
		r.accepted.Delete()
		return nil
	}
	return r.accepted.Set(tokens)
}

// PairOf returns the pair pricing token.
func (r *Registry) PairOf(token thor.TokenID) (thor.Address, bool, error) {
	addr, err := r.pairs.Get(token)
	if err != nil {
		return thor.Address{}, false, err
	}
	return addr, !addr.IsZero(), nil
}

// AcceptedTokens lists accepted tokens in registration order.
func (r *Registry) AcceptedTokens() ([]thor.TokenID, error) {
	return r.accepted.Get()
}

// AddOracle registers the oracle at addr for both orderings of (a, b).
func (r *Registry) AddOracle(a, b thor.TokenID, addr thor.Address) error {
	if a.IsEmpty() || b.IsEmpty() || a == b || addr.IsZero() {
		return reverts.Errorf(reverts.KindInvalidAmount, "invalid oracle route")
	}
	if err := r.oracles.Set(routeKey{a, b}, addr); err != nil {
		return errors.Wrap(err, "failed to set oracle")
	}
	if err := r.oracles.Set(routeKey{b, a}, addr); err != nil {
		return errors.Wrap(err, "failed to set oracle")
	}
	return nil
}

// RemoveOracle removes both orderings of (a, b).
func (r *Registry) RemoveOracle(a, b thor.TokenID) error {
	_, found, err := r.OracleOf(a, b)
	if err != nil {
		return err
	}
	if !found {
		return reverts.Errorf(reverts.KindNotFound, "no oracle for %s/%s", a, b)
	}
	r.oracles.Delete(routeKey{a, b})
	r.oracles.Delete(routeKey{b, a})
	return nil
}

// OracleOf returns the oracle quoting from in terms of to.
func (r *Registry) OracleOf(from, to thor.TokenID) (thor.Address, bool, error) {
	addr, err := r.oracles.Get(routeKey{from, to})
	if err != nil {
		return thor.Address{}, false, err
	}
	return addr, !addr.IsZero(), nil
}
