// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farms

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/thorfarm/api/utils"
	"github.com/vechain/thorfarm/builtin"
	"github.com/vechain/thorfarm/runtime"
	"github.com/vechain/thorfarm/thor"
)

type Farms struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Farms {
	return &Farms{rt}
}

func (f *Farms) farmAddress(req *http.Request) (thor.Address, builtin.Kind, error) {
	addr, err := utils.ParseAddress(mux.Vars(req)["address"], "address")
	if err != nil {
		return thor.Address{}, 0, err
	}
	kind, err := utils.RequireKind(f.rt, addr, builtin.KindFarm, builtin.KindStaking)
	return addr, kind, err
}

func (f *Farms) status(addr thor.Address, kind builtin.Kind) (*Status, error) {
	view := func(method string) ([]any, error) {
		return utils.View(f.rt, addr, method)
	}
	owner, err := view("getOwner")
	if err != nil {
		return nil, err
	}
	router, err := view("getRouter")
	if err != nil {
		return nil, err
	}
	active, err := view("getState")
	if err != nil {
		return nil, err
	}
	farmToken, err := view("getFarmTokenId")
	if err != nil {
		return nil, err
	}
	lastError, err := view("getLastErrorMessage")
	if err != nil {
		return nil, err
	}
	totals, err := view("getTotals")
	if err != nil {
		return nil, err
	}
	pool, err := view("getFarmingPoolTokenIdAndAmounts")
	if err != nil {
		return nil, err
	}
	accepted, err := view("getAllAcceptedTokens")
	if err != nil {
		return nil, err
	}

	return &Status{
		Address:        addr.String(),
		Kind:           kind.String(),
		Owner:          utils.FormatValues(owner)[0],
		Router:         utils.FormatValues(router)[0],
		Active:         active[0].(bool),
		FarmToken:      utils.FormatValues(farmToken)[0],
		LastError:      utils.FormatValues(lastError)[0],
		TotalValue:     utils.FormatValues(totals)[0],
		TotalShares:    utils.FormatValues(totals)[1],
		UnitToken:      utils.FormatValues(pool)[0],
		VirtualReserve: utils.FormatValues(pool)[1],
		Balance:        utils.FormatValues(pool)[2],
		AcceptedTokens: utils.FormatValues(accepted),
	}, nil
}

func (f *Farms) handleGetFarm(w http.ResponseWriter, req *http.Request) error {
	addr, kind, err := f.farmAddress(req)
	if err != nil {
		return err
	}
	status, err := f.status(addr, kind)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, status)
}

func parseNonce(req *http.Request) (uint64, error) {
	nonce, err := strconv.ParseUint(mux.Vars(req)["nonce"], 10, 64)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, "nonce"))
	}
	return nonce, nil
}

func (f *Farms) handleGetPosition(w http.ResponseWriter, req *http.Request) error {
	addr, _, err := f.farmAddress(req)
	if err != nil {
		return err
	}
	nonce, err := parseNonce(req)
	if err != nil {
		return err
	}
	out, err := utils.View(f.rt, addr, "getPosition", nonce)
	if err != nil {
		return err
	}
	values := utils.FormatValues(out)
	return utils.WriteJSON(w, &Position{
		Nonce:        nonce,
		OriginToken:  values[0],
		OriginAmount: values[1],
		EntryValue:   values[2],
		Shares:       values[3],
		EntryEpoch:   out[4].(uint64),
	})
}

func (f *Farms) handleGetRewards(w http.ResponseWriter, req *http.Request) error {
	addr, _, err := f.farmAddress(req)
	if err != nil {
		return err
	}
	nonce, err := parseNonce(req)
	if err != nil {
		return err
	}

	quantity := new(big.Int)
	if q := req.URL.Query().Get("quantity"); q != "" {
		if _, ok := quantity.SetString(q, 10); !ok || quantity.Sign() < 0 {
			return utils.BadRequest(errors.Errorf("quantity: invalid value %q", q))
		}
	} else {
		// whole position
		out, err := utils.View(f.rt, addr, "getPosition", nonce)
		if err != nil {
			return err
		}
		quantity = out[3].(*big.Int)
	}

	out, err := utils.View(f.rt, addr, "calculateRewardsForGivenPosition", nonce, quantity)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Rewards{
		Nonce:    nonce,
		Quantity: quantity.String(),
		Reward:   utils.FormatValues(out)[0],
		Epoch:    f.rt.BlockContext().Epoch,
	})
}

func (f *Farms) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(f.handleGetFarm))
	sub.Path("/{address}/positions/{nonce}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(f.handleGetPosition))
	sub.Path("/{address}/positions/{nonce}/rewards").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(f.handleGetRewards))
}
