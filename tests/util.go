package tests

import (
	"crypto/sha256"
	"math/rand"
	"path"
	"testing"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

const (
	balancePath = "../balance"
	kioskPath   = "../kiosk"
	policyPath  = "../policy"
	royaltyPath = "../royalty"
	stampPath   = "../stamp"
	trackerPath = "../internal/testcontracts/tracker"
)

func newExecutor(t *testing.T) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

// kioskSuite is the fully wired contract suite on a fresh chain.
type kioskSuite struct {
	e *neotest.Executor

	balanceHash util.Uint160
	kioskHash   util.Uint160
	policyHash  util.Uint160
	royaltyHash util.Uint160
	stampHash   util.Uint160
	trackerHash util.Uint160

	balance *neotest.ContractInvoker
	kiosk   *neotest.ContractInvoker
	policy  *neotest.ContractInvoker
	stamp   *neotest.ContractInvoker
}

// newKioskSuite compiles and deploys the whole suite. The kiosk and
// policy contracts reference each other, so both addresses are computed
// from the compiled artifacts before anything hits the chain.
func newKioskSuite(t *testing.T) *kioskSuite {
	e := newExecutor(t)

	ctrBalance := neotest.CompileFile(t, e.CommitteeHash, balancePath, path.Join(balancePath, "config.yml"))
	ctrKiosk := neotest.CompileFile(t, e.CommitteeHash, kioskPath, path.Join(kioskPath, "config.yml"))
	ctrPolicy := neotest.CompileFile(t, e.CommitteeHash, policyPath, path.Join(policyPath, "config.yml"))
	ctrRoyalty := neotest.CompileFile(t, e.CommitteeHash, royaltyPath, path.Join(royaltyPath, "config.yml"))
	ctrStamp := neotest.CompileFile(t, e.CommitteeHash, stampPath, path.Join(stampPath, "config.yml"))
	ctrTracker := neotest.CompileFile(t, e.CommitteeHash, trackerPath, path.Join(trackerPath, "config.yml"))

	e.DeployContract(t, ctrBalance, nil)
	e.DeployContract(t, ctrKiosk, []any{ctrPolicy.Hash, ctrBalance.Hash})
	e.DeployContract(t, ctrPolicy, []any{ctrKiosk.Hash, ctrBalance.Hash})
	e.DeployContract(t, ctrRoyalty, []any{ctrKiosk.Hash, ctrPolicy.Hash})
	e.DeployContract(t, ctrStamp, ctrKiosk.Hash)
	e.DeployContract(t, ctrTracker, ctrKiosk.Hash)

	return &kioskSuite{
		e:           e,
		balanceHash: ctrBalance.Hash,
		kioskHash:   ctrKiosk.Hash,
		policyHash:  ctrPolicy.Hash,
		royaltyHash: ctrRoyalty.Hash,
		stampHash:   ctrStamp.Hash,
		trackerHash: ctrTracker.Hash,
		balance:     e.CommitteeInvoker(ctrBalance.Hash),
		kiosk:       e.CommitteeInvoker(ctrKiosk.Hash),
		policy:      e.CommitteeInvoker(ctrPolicy.Hash),
		stamp:       e.CommitteeInvoker(ctrStamp.Hash),
	}
}

func randomBytes(n int) []byte {
	a := make([]byte, n)
	rand.Read(a)
	return a
}

// newAssetID produces a fresh SHA256-sized asset identifier.
func newAssetID() []byte {
	id := sha256.Sum256([]byte(uuid.New().String()))
	return id[:]
}

// assetPayload derives a readable metadata payload for an asset.
func assetPayload(assetID []byte) []byte {
	return []byte("meta:" + base58.Encode(assetID))
}

// The ID helpers below mirror the on-chain derivations so that tests
// can compute every identifier up front.

func derivedID(prefix byte, tag string, parts ...[]byte) []byte {
	preimage := []byte{prefix}
	preimage = append(preimage, []byte(tag)...)
	for i := range parts {
		preimage = append(preimage, parts[i]...)
	}
	id := sha256.Sum256(preimage)
	return id[:]
}

func kioskIDOf(owner util.Uint160, salt []byte) []byte {
	return derivedID('k', "kiosk", owner.BytesBE(), salt)
}

func ownerCapIDOf(kioskID []byte) []byte {
	return derivedID('c', "kioskcap", kioskID)
}

func purchaseCapIDOf(kioskID, assetID []byte) []byte {
	return derivedID('p', "pcap", kioskID, assetID)
}

func tradeRequestIDOf(kioskID, assetID []byte) []byte {
	return derivedID('t', "trade", kioskID, assetID)
}

func policyIDOf(assetType string, salt []byte) []byte {
	typeHash := sha256.Sum256([]byte(assetType))
	return derivedID('p', "policy", typeHash[:], salt)
}

func policyCapIDOf(policyID []byte) []byte {
	return derivedID('c', "policycap", policyID)
}
