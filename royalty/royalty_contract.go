package royalty

import (
	"github.com/neokiosk/kiosk-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Config is the royalty rule configuration stored in the policy
// registry. BasisPoints is the fee share of the sale price in 1/100 of
// a percent, MinAmount the floor charged on any sale.
type Config struct {
	BasisPoints int
	MinAmount   int
}

// tradeSummary mirrors the kiosk contract's trade request projection.
type tradeSummary struct {
	Kiosk     []byte
	Asset     []byte
	AssetType string
	Paid      int
	Receipts  [][]byte
}

const (
	kioskContractKey  = "kioskScriptHash"
	policyContractKey = "policyScriptHash"

	basisPointsTotal = 10000
)

func _deploy(data interface{}, isUpdate bool) {
	if isUpdate {
		args := data.([]interface{})
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		addrKiosk  interop.Hash160
		addrPolicy interop.Hash160
	})

	if len(args.addrKiosk) != interop.Hash160Len || len(args.addrPolicy) != interop.Hash160Len {
		panic("incorrect length of contract script hash")
	}

	ctx := storage.GetContext()
	storage.Put(ctx, kioskContractKey, args.addrKiosk)
	storage.Put(ctx, policyContractKey, args.addrPolicy)

	runtime.Log("royalty contract initialized")
}

// Update method updates contract source code and manifest. Can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data interface{}) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("royalty contract updated")
}

// Pay collects the royalty fee of a pending trade from the payer into
// the policy balance and stamps the trade request with this rule's
// receipt. The payer must witness the transaction, the fee transfer
// fails otherwise.
func Pay(policyID, requestID []byte, payer interop.Hash160) {
	ctx := storage.GetReadOnlyContext()
	kioskContractAddr := storage.Get(ctx, kioskContractKey).(interop.Hash160)
	policyContractAddr := storage.Get(ctx, policyContractKey).(interop.Hash160)

	summary := contract.Call(kioskContractAddr, "getTradeSummary", contract.ReadOnly, requestID).(tradeSummary)
	fee := feeFor(policyContractAddr, policyID, summary.Paid)

	if fee > 0 {
		contract.Call(policyContractAddr, "addToBalance", contract.All, policyID, payer, fee)
	}
	contract.Call(kioskContractAddr, "addReceipt", contract.All, requestID)

	runtime.Notify("RoyaltyPaid", policyID, requestID, fee)
}

// Fee returns the royalty owed on a sale of the given price under the
// policy's stored configuration.
func Fee(policyID []byte, paid int) int {
	ctx := storage.GetReadOnlyContext()
	policyContractAddr := storage.Get(ctx, policyContractKey).(interop.Hash160)

	return feeFor(policyContractAddr, policyID, paid)
}

// EncodeConfig packs a rule configuration for the policy registry.
func EncodeConfig(basisPoints, minAmount int) []byte {
	if basisPoints < 0 || basisPoints > basisPointsTotal {
		panic("basis points out of range")
	}
	if minAmount < 0 {
		panic("negative minimum amount")
	}

	return std.Serialize(Config{BasisPoints: basisPoints, MinAmount: minAmount})
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func feeFor(policyContractAddr interop.Hash160, policyID []byte, paid int) int {
	self := runtime.GetExecutingScriptHash()
	raw := contract.Call(policyContractAddr, "getRuleConfig", contract.ReadOnly, policyID, self).([]byte)
	cfg := std.Deserialize(raw).(Config)

	fee := paid * cfg.BasisPoints / basisPointsTotal
	if fee < cfg.MinAmount {
		fee = cfg.MinAmount
	}

	return fee
}
