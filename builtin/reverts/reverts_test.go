// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIs(t *testing.T) {
	err := Errorf(KindZeroPrincipal, "principal of %d shares is zero", 3)
	assert.True(t, errors.Is(err, ErrZeroPrincipal))
	assert.False(t, errors.Is(err, ErrZeroOriginAmount))
	assert.Equal(t, "principal of 3 shares is zero", err.Error())

	wrapped := pkgerrors.WithMessage(err, "exit")
	assert.True(t, errors.Is(wrapped, ErrZeroPrincipal))

	kind, ok := KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, KindZeroPrincipal, kind)
	assert.Equal(t, "ZeroPrincipal", kind.String())
}

func TestIsRevertErr(t *testing.T) {
	assert.True(t, IsRevertErr(ErrNotActive))
	assert.True(t, IsRevertErr(pkgerrors.Wrap(ErrNotActive, "pause")))
	assert.False(t, IsRevertErr(errors.New("io")))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr("not an error"))
	assert.Equal(t, "Kind(255)", Kind(255).String())
}
