package tracker

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const kioskContractKey = "kioskScriptHash"

func _deploy(data interface{}, isUpdate bool) {
	if isUpdate {
		return
	}
	storage.Put(storage.GetContext(), kioskContractKey, data.(interop.Hash160))
}

// Join installs this contract as an extension of the kiosk.
func Join(kioskID, capID []byte, permissions int) {
	contract.Call(kioskAddr(), "install", contract.All, kioskID, capID, permissions)
}

// Deposit places an asset through the extension surface and records it
// in the extension storage.
func Deposit(kioskID, assetID []byte, assetType string, payload []byte) {
	h := kioskAddr()
	contract.Call(h, "extensionPlace", contract.All, kioskID, assetID, assetType, payload)
	contract.Call(h, "extensionPut", contract.All, kioskID, assetID, []byte(assetType))
}

// DepositLocked places and locks an asset through the extension surface.
func DepositLocked(kioskID, policyID, assetID []byte, assetType string, payload []byte) {
	h := kioskAddr()
	contract.Call(h, "extensionLock", contract.All, kioskID, policyID, assetID, assetType, payload)
	contract.Call(h, "extensionPut", contract.All, kioskID, assetID, []byte(assetType))
}

// Forget drops the record of an asset from the extension storage.
func Forget(kioskID, assetID []byte) {
	contract.Call(kioskAddr(), "extensionDelete", contract.All, kioskID, assetID)
}

func kioskAddr() interop.Hash160 {
	return storage.Get(storage.GetReadOnlyContext(), kioskContractKey).(interop.Hash160)
}
