package kiosk

import (
	"github.com/neokiosk/kiosk-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Extension is a per-kiosk record of a permissioned delegate contract.
// The witness of an extension is its script hash: protected methods read
// the calling script hash, so only the extension contract itself can act
// under its record.
type Extension struct {
	Permissions  int
	Enabled      bool
	StorageCount int
}

// Install creates the extension record for the calling contract,
// enabled by default. It must be invoked by the extension contract
// within a transaction witnessed by the kiosk owner capability holder:
// the calling script hash is the unforgeable extension identity, the
// capability authorizes the installation.
func Install(kioskID, capID []byte, permissions int) {
	ctx := storage.GetContext()
	accessKiosk(ctx, kioskID, capID)

	ext := runtime.GetCallingScriptHash()
	if common.Exists(ctx, extKey(kioskID, ext)) {
		panic(common.ErrExtInstalled)
	}

	record := Extension{
		Permissions:  permissions,
		Enabled:      true,
		StorageCount: 0,
	}
	common.SetSerialized(ctx, extKey(kioskID, ext), record)

	runtime.Log("install: added kiosk extension")
}

// Enable re-enables a disabled extension. Owner-gated.
func Enable(kioskID, capID []byte, ext interop.Hash160) {
	setEnabled(kioskID, capID, ext, true)
}

// Disable blocks the protected actions of an extension without touching
// its storage. Owner-gated.
func Disable(kioskID, capID []byte, ext interop.Hash160) {
	setEnabled(kioskID, capID, ext, false)
}

// Uninstall deletes the extension record. The extension storage must be
// empty: removal never destroys data the extension still holds.
func Uninstall(kioskID, capID []byte, ext interop.Hash160) {
	ctx := storage.GetContext()
	accessKiosk(ctx, kioskID, capID)

	record := getExtension(ctx, kioskID, ext)
	if record.StorageCount != 0 {
		panic(common.ErrExtNotEmpty)
	}

	storage.Delete(ctx, extKey(kioskID, ext))
	runtime.Log("uninstall: removed kiosk extension")
}

// ExtensionPlace places an asset on behalf of the calling extension.
// Requires an installed, enabled record with the place permission (the
// lock permission implies it).
func ExtensionPlace(kioskID, assetID []byte, assetType string, payload []byte) {
	ctx := storage.GetContext()
	kiosk := getKiosk(ctx, kioskID)

	ext := runtime.GetCallingScriptHash()
	requirePermission(ctx, kioskID, ext, PermPlace)

	placeItem(ctx, kioskID, kiosk, assetID, assetType, payload)
}

// ExtensionLock places and locks an asset on behalf of the calling
// extension. Requires the lock permission and, as with Lock, an
// existing transfer policy for the asset type.
func ExtensionLock(kioskID, policyID, assetID []byte, assetType string, payload []byte) {
	ctx := storage.GetContext()
	kiosk := getKiosk(ctx, kioskID)

	ext := runtime.GetCallingScriptHash()
	requirePermission(ctx, kioskID, ext, PermLock)

	requirePolicy(ctx, policyID, assetType)
	placeItem(ctx, kioskID, kiosk, assetID, assetType, payload)
	storage.Put(ctx, lockKey(kioskID, assetID), true)
}

// ExtensionPut writes a value into the calling extension's private
// storage on the kiosk. Storage access is never gated by the enabled
// flag: disabling an extension is a circuit breaker for its write
// surface into the kiosk, not a destructive action on its own data.
func ExtensionPut(kioskID, key, value []byte) {
	ctx := storage.GetContext()

	ext := runtime.GetCallingScriptHash()
	record := getExtension(ctx, kioskID, ext)

	dataKey := extDataKey(kioskID, ext, key)
	if !common.Exists(ctx, dataKey) {
		record.StorageCount = record.StorageCount + 1
		common.SetSerialized(ctx, extKey(kioskID, ext), record)
	}

	storage.Put(ctx, dataKey, value)
}

// ExtensionDelete removes a value from the calling extension's storage.
func ExtensionDelete(kioskID, key []byte) {
	ctx := storage.GetContext()

	ext := runtime.GetCallingScriptHash()
	record := getExtension(ctx, kioskID, ext)

	dataKey := extDataKey(kioskID, ext, key)
	if !common.Exists(ctx, dataKey) {
		return
	}

	storage.Delete(ctx, dataKey)
	record.StorageCount = record.StorageCount - 1
	common.SetSerialized(ctx, extKey(kioskID, ext), record)
}

// ExtensionGet reads a value from an extension's storage.
func ExtensionGet(kioskID []byte, ext interop.Hash160, key []byte) []byte {
	ctx := storage.GetReadOnlyContext()
	getExtension(ctx, kioskID, ext)

	return common.GetBytes(ctx, extDataKey(kioskID, ext, key))
}

// GetExtension returns the extension record.
func GetExtension(kioskID []byte, ext interop.Hash160) Extension {
	ctx := storage.GetReadOnlyContext()
	return getExtension(ctx, kioskID, ext)
}

// IsExtensionInstalled reports whether the extension is installed in
// the kiosk.
func IsExtensionInstalled(kioskID []byte, ext interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return common.Exists(ctx, extKey(kioskID, ext))
}

func setEnabled(kioskID, capID []byte, ext interop.Hash160, enabled bool) {
	ctx := storage.GetContext()
	accessKiosk(ctx, kioskID, capID)

	record := getExtension(ctx, kioskID, ext)
	record.Enabled = enabled
	common.SetSerialized(ctx, extKey(kioskID, ext), record)
}

func requirePermission(ctx storage.Context, kioskID []byte, ext interop.Hash160, perm int) {
	record := getExtension(ctx, kioskID, ext)
	if !record.Enabled {
		panic(common.ErrExtDisabled)
	}

	// The lock permission implies the place permission.
	if perm == PermPlace && record.Permissions&PermLock != 0 {
		return
	}
	if record.Permissions&perm == 0 {
		panic(common.ErrExtPermission)
	}
}

func getExtension(ctx storage.Context, kioskID []byte, ext interop.Hash160) Extension {
	data := storage.Get(ctx, extKey(kioskID, ext))
	if data == nil {
		panic(common.ErrExtNotInstalled)
	}

	return std.Deserialize(data.([]byte)).(Extension)
}

func extKey(kioskID []byte, ext interop.Hash160) []byte {
	return common.StorageKey(extPrefix, kioskID, ext)
}

// extDataKey hashes the composite identity down to a fixed size, the
// raw kiosk+extension+key triple would exceed the VM storage key size
// limit.
func extDataKey(kioskID []byte, ext interop.Hash160, key []byte) []byte {
	id := append([]byte{}, kioskID...)
	id = append(id, ext...)
	id = append(id, key...)
	return common.StorageKey(extDataPrefix, crypto.Sha256(id))
}
