// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/thorfarm/api/utils"
	"github.com/vechain/thorfarm/builtin"
	"github.com/vechain/thorfarm/runtime"
	"github.com/vechain/thorfarm/thor"
)

type Staking struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Staking {
	return &Staking{rt}
}

// Pending is an unbonding amount with its release epoch.
type Pending struct {
	Account      string `json:"account"`
	Token        string `json:"token"`
	Amount       string `json:"amount"`
	ReleaseEpoch uint64 `json:"releaseEpoch"`
	Withdrawable bool   `json:"withdrawable"`
}

func (s *Staking) handleGetPending(w http.ResponseWriter, req *http.Request) error {
	vars := mux.Vars(req)
	addr, err := utils.ParseAddress(vars["address"], "address")
	if err != nil {
		return err
	}
	if _, err := utils.RequireKind(s.rt, addr, builtin.KindStaking); err != nil {
		return err
	}
	account, err := utils.ParseAddress(vars["account"], "account")
	if err != nil {
		return err
	}
	token := thor.TokenID(vars["token"])
	if token.IsEmpty() {
		return utils.BadRequest(errors.New("token: empty"))
	}

	out, err := utils.View(s.rt, addr, "getPendingUnbond", account, token)
	if err != nil {
		return err
	}
	values := utils.FormatValues(out)
	release := out[1].(uint64)
	return utils.WriteJSON(w, &Pending{
		Account:      account.String(),
		Token:        string(token),
		Amount:       values[0],
		ReleaseEpoch: release,
		Withdrawable: values[0] != "0" && s.rt.BlockContext().Epoch >= release,
	})
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}/pending/{account}/{token}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleGetPending))
}
