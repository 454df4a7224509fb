package deploy

import (
	"errors"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestContractAddress(t *testing.T) {
	sender := util.Uint160{1, 2, 3}
	prm := CommonDeployPrm{
		NEF:      nef.File{Checksum: 42},
		Manifest: manifest.Manifest{Name: "Kiosk"},
	}

	addr := contractAddress(sender, prm)
	require.Equal(t, state.CreateContractHash(sender, 42, "Kiosk"), addr)

	// address must react to every input
	require.NotEqual(t, addr, contractAddress(util.Uint160{3, 2, 1}, prm))

	otherSum := prm
	otherSum.NEF.Checksum = 43
	require.NotEqual(t, addr, contractAddress(sender, otherSum))

	otherName := prm
	otherName.Manifest.Name = "Policy"
	require.NotEqual(t, addr, contractAddress(sender, otherName))
}

func TestIsErrContractNotFound(t *testing.T) {
	require.True(t, isErrContractNotFound(errors.New("Unknown contract")))
	require.True(t, isErrContractNotFound(errors.New("RPC error: Unknown contract wrapped")))
	require.False(t, isErrContractNotFound(errors.New("connection refused")))
}
