package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// FromKnownContract reports whether the caller script hash equals the
// contract hash recorded in storage under the given key at deployment
// time. Used to restrict methods to calls coming from a cooperating
// contract of the suite.
func FromKnownContract(ctx storage.Context, caller interop.Hash160, key string) bool {
	addr := storage.Get(ctx, key).(interop.Hash160)
	return BytesEqual(caller, addr)
}
