// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contracts

import (
	"net/http"
	"sort"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/thorfarm/api/utils"
	"github.com/vechain/thorfarm/builtin"
	"github.com/vechain/thorfarm/log"
	"github.com/vechain/thorfarm/runtime"
	"github.com/vechain/thorfarm/thor"
)

var logger = log.WithContext("pkg", "contracts")

type Contracts struct {
	rt           *runtime.Runtime
	callGasLimit uint64
	allowExecute bool
}

func New(rt *runtime.Runtime, callGasLimit uint64, allowExecute bool) *Contracts {
	return &Contracts{rt, callGasLimit, allowExecute}
}

func (c *Contracts) handleList(w http.ResponseWriter, _ *http.Request) error {
	deployed, err := c.rt.Deployments()
	if err != nil {
		return err
	}
	list := make([]*Contract, 0, len(deployed))
	for addr, kind := range deployed {
		list = append(list, &Contract{Address: addr.String(), Kind: kind.String()})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Address < list[j].Address })
	return utils.WriteJSON(w, list)
}

func (c *Contracts) handleGetContract(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress(mux.Vars(req)["address"], "address")
	if err != nil {
		return err
	}
	kind, err := c.rt.KindOf(addr)
	if err != nil {
		return err
	}
	if kind == 0 {
		return utils.NotFound(errors.Errorf("no contract at %v", addr))
	}

	methods := make([]*Method, 0)
	for name, args := range builtin.Methods(kind) {
		m := &Method{Name: name, Args: make([]string, 0, len(args))}
		for _, a := range args {
			m.Args = append(m.Args, a.String())
		}
		methods = append(methods, m)
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i].Name < methods[j].Name })
	return utils.WriteJSON(w, &Contract{Address: addr.String(), Kind: kind.String(), Methods: methods})
}

func (c *Contracts) parseClause(req *http.Request) (*runtime.Clause, error) {
	addr, err := utils.ParseAddress(mux.Vars(req)["address"], "address")
	if err != nil {
		return nil, err
	}
	var body CallData
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "body"))
	}

	kind, err := c.rt.KindOf(addr)
	if err != nil {
		return nil, err
	}
	if kind == 0 {
		return nil, utils.NotFound(errors.Errorf("no contract at %v", addr))
	}
	args, err := builtin.ParseArgs(kind, body.Method, body.Args)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "args"))
	}
	payment, err := body.Payment.Parse()
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "payment"))
	}

	var caller thor.Address
	if body.Caller != "" {
		if caller, err = utils.ParseAddress(body.Caller, "caller"); err != nil {
			return nil, err
		}
	}
	gas := body.Gas
	if gas == 0 || gas > c.callGasLimit {
		gas = c.callGasLimit
	}
	return &runtime.Clause{
		Caller:  caller,
		To:      addr,
		Method:  body.Method,
		Args:    args,
		Payment: payment,
		Gas:     gas,
	}, nil
}

func (c *Contracts) handleCall(w http.ResponseWriter, req *http.Request) error {
	clause, err := c.parseClause(req)
	if err != nil {
		return err
	}
	receipt, err := c.rt.Call(clause)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (c *Contracts) handleExecute(w http.ResponseWriter, req *http.Request) error {
	if !c.allowExecute {
		return utils.Forbidden(errors.New("execution disabled"))
	}
	clause, err := c.parseClause(req)
	if err != nil {
		return err
	}
	receipt, err := c.rt.Execute(clause)
	if err != nil {
		return err
	}
	callbacks, err := c.rt.DeliverCallbacks()
	if err != nil {
		return err
	}
	hash, err := c.rt.Commit()
	if err != nil {
		return err
	}
	logger.Debug("clause executed", "to", clause.To, "method", clause.Method, "reverted", receipt.Reverted, "changes", hash)

	result := &ExecuteResult{Receipt: utils.ConvertReceipt(receipt), Callbacks: make([]*utils.Receipt, 0, len(callbacks))}
	for _, cb := range callbacks {
		result.Callbacks = append(result.Callbacks, utils.ConvertReceipt(cb))
	}
	return utils.WriteJSON(w, result)
}

func (c *Contracts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(c.handleList))
	sub.Path("/{address}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(c.handleGetContract))
	sub.Path("/{address}").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(c.handleCall))
	sub.Path("/{address}/execute").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(c.handleExecute))
}
