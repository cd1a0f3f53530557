// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/thorfarm/api/utils"
	"github.com/vechain/thorfarm/runtime"
)

type Node struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Node {
	return &Node{rt}
}

// Clock is the current block context.
type Clock struct {
	Number uint32 `json:"number"`
	Epoch  uint64 `json:"epoch"`
	Time   uint64 `json:"time"`
}

func (n *Node) handleGetClock(w http.ResponseWriter, _ *http.Request) error {
	ctx := n.rt.BlockContext()
	return utils.WriteJSON(w, &Clock{Number: ctx.Number, Epoch: ctx.Epoch, Time: ctx.Time})
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/clock").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(n.handleGetClock))
}
