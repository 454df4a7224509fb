package tests

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func require1Event(t *testing.T, events []state.NotificationEvent, name string) {
	require.Equal(t, 1, len(events))
	require.Equal(t, name, events[0].Name)
}

// structItem builds the expected stack item for a contract method
// returning a struct.
func structItem(fields ...any) stackitem.Item {
	items := make([]stackitem.Item, len(fields))
	for i := range fields {
		items[i] = stackitem.Make(fields[i])
	}
	return stackitem.NewStruct(items)
}

func balanceMint(t *testing.T, s *kioskSuite, to util.Uint160, amount int64) {
	s.balance.Invoke(t, stackitem.Null{}, "mint", to, amount)
}

// createKiosk creates a kiosk owned by the signer and returns the kiosk
// and owner capability IDs, both matching the on-chain derivation.
func createKiosk(t *testing.T, s *kioskSuite, owner neotest.Signer) ([]byte, []byte) {
	salt := randomBytes(8)
	kioskID := kioskIDOf(owner.ScriptHash(), salt)

	s.kiosk.WithSigners(owner).Invoke(t, kioskID, "new", owner.ScriptHash(), salt)

	return kioskID, ownerCapIDOf(kioskID)
}

// placeAsset places a fresh asset into the kiosk and returns its ID.
func placeAsset(t *testing.T, s *kioskSuite, owner neotest.Signer, kioskID, capID []byte, assetType string, payload []byte) []byte {
	assetID := newAssetID()
	s.kiosk.WithSigners(owner).Invoke(t, stackitem.Null{}, "place", kioskID, capID, assetID, assetType, payload)
	return assetID
}

// createPolicy creates a transfer policy for the asset type published by
// the signer and returns the policy and policy capability IDs.
func createPolicy(t *testing.T, s *kioskSuite, publisher neotest.Signer, assetType string) ([]byte, []byte) {
	salt := randomBytes(8)
	policyID := policyIDOf(assetType, salt)

	s.policy.WithSigners(publisher).Invoke(t, policyID, "new", assetType, publisher.ScriptHash(), salt)

	return policyID, policyCapIDOf(policyID)
}
