package stamp

import (
	"github.com/neokiosk/kiosk-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// tradeSummary mirrors the kiosk contract's trade request projection.
type tradeSummary struct {
	Kiosk     []byte
	Asset     []byte
	AssetType string
	Paid      int
	Receipts  [][]byte
}

const (
	countPrefix = 's'

	kioskContractKey = "kioskScriptHash"
)

func _deploy(data interface{}, isUpdate bool) {
	if isUpdate {
		args := data.([]interface{})
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	addrKiosk := data.(interop.Hash160)
	if len(addrKiosk) != interop.Hash160Len {
		panic("incorrect length of contract script hash")
	}

	ctx := storage.GetContext()
	storage.Put(ctx, kioskContractKey, addrKiosk)

	runtime.Log("stamp contract initialized")
}

// Update method updates contract source code and manifest. Can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data interface{}) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("stamp contract updated")
}

// Stamp counts the pending trade in the per-type sale tally and adds
// this rule's receipt to the trade request. The rule takes no
// configuration and charges nothing, it only requires the buyer to pass
// through here so the tally stays complete.
func Stamp(requestID []byte) {
	ctx := storage.GetContext()
	kioskContractAddr := storage.Get(ctx, kioskContractKey).(interop.Hash160)

	summary := contract.Call(kioskContractAddr, "getTradeSummary", contract.ReadOnly, requestID).(tradeSummary)

	key := countKey(summary.AssetType)
	storage.Put(ctx, key, saleCount(ctx, key)+1)

	contract.Call(kioskContractAddr, "addReceipt", contract.All, requestID)

	runtime.Notify("Stamped", requestID, summary.AssetType)
}

// SaleCount returns the number of stamped sales of an asset type.
func SaleCount(assetType string) int {
	ctx := storage.GetReadOnlyContext()
	return saleCount(ctx, countKey(assetType))
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func saleCount(ctx storage.Context, key []byte) int {
	data := storage.Get(ctx, key)
	if data == nil {
		return 0
	}

	return data.(int)
}

func countKey(assetType string) []byte {
	return common.StorageKey(countPrefix, crypto.Sha256([]byte(assetType)))
}
