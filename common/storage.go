package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// SetSerialized serializes data and puts it into contract storage.
func SetSerialized(ctx storage.Context, key interface{}, value interface{}) {
	data := std.Serialize(value)
	storage.Put(ctx, key, data)
}

// GetBytes returns a raw byte value from contract storage or nil when
// the key is missing.
func GetBytes(ctx storage.Context, key interface{}) []byte {
	data := storage.Get(ctx, key)
	if data != nil {
		return data.([]byte)
	}

	return nil
}

// Exists reports whether the key is present in contract storage.
func Exists(ctx storage.Context, key interface{}) bool {
	return storage.Get(ctx, key) != nil
}

// StorageKey composes a structural storage key from a namespace prefix
// and identity parts.
func StorageKey(prefix byte, parts ...[]byte) []byte {
	key := []byte{prefix}
	for i := range parts {
		key = append(key, parts[i]...)
	}

	return key
}

// BytesEqual compares two slices of bytes by wrapping them into strings,
// which is necessary with new util.Equals interop behaviour, see neo-go#1176.
func BytesEqual(a []byte, b []byte) bool {
	return string(a) == string(b)
}
