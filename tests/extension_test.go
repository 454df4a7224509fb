package tests

import (
	"testing"

	"github.com/neokiosk/kiosk-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

const (
	permPlace = 1
	permLock  = 2
)

func TestExtensionInstall(t *testing.T) {
	s := newKioskSuite(t)

	owner := s.e.NewAccount(t)
	kioskID, capID := createKiosk(t, s, owner)
	tracker := s.e.CommitteeInvoker(s.trackerHash).WithSigners(owner)

	t.Run("act before install", func(t *testing.T) {
		tracker.InvokeFail(t, common.ErrExtNotInstalled, "deposit", kioskID, newAssetID(), "sword", []byte("x"))
	})

	tracker.Invoke(t, stackitem.Null{}, "join", kioskID, capID, int64(permPlace))

	s.kiosk.Invoke(t, true, "isExtensionInstalled", kioskID, s.trackerHash)
	s.kiosk.Invoke(t, structItem(int64(permPlace), true, int64(0)), "getExtension", kioskID, s.trackerHash)

	t.Run("double install", func(t *testing.T) {
		tracker.InvokeFail(t, common.ErrExtInstalled, "join", kioskID, capID, int64(permPlace))
	})

	t.Run("install needs the owner capability", func(t *testing.T) {
		stranger := s.e.NewAccount(t)
		otherKiosk, otherCap := createKiosk(t, s, stranger)
		tracker.InvokeFail(t, common.ErrOwnerWitnessFailed, "join", otherKiosk, otherCap, int64(permPlace))
	})
}

func TestExtensionPlace(t *testing.T) {
	s := newKioskSuite(t)

	owner := s.e.NewAccount(t)
	kioskID, capID := createKiosk(t, s, owner)
	tracker := s.e.CommitteeInvoker(s.trackerHash).WithSigners(owner)

	tracker.Invoke(t, stackitem.Null{}, "join", kioskID, capID, int64(permPlace))

	assetID := newAssetID()
	tracker.Invoke(t, stackitem.Null{}, "deposit", kioskID, assetID, "sword", []byte("x"))

	s.kiosk.Invoke(t, true, "hasItem", kioskID, assetID)
	s.kiosk.Invoke(t, int64(1), "itemCount", kioskID)

	// the deposit note landed in the extension storage
	s.kiosk.Invoke(t, []byte("sword"), "extensionGet", kioskID, s.trackerHash, assetID)
	s.kiosk.Invoke(t, structItem(int64(permPlace), true, int64(1)), "getExtension", kioskID, s.trackerHash)

	t.Run("lock needs the lock permission", func(t *testing.T) {
		policyID, _ := createPolicy(t, s, owner, "sword")
		tracker.InvokeFail(t, common.ErrExtPermission, "depositLocked", kioskID, policyID, newAssetID(), "sword", []byte("y"))
	})
}

func TestExtensionLock(t *testing.T) {
	s := newKioskSuite(t)

	owner := s.e.NewAccount(t)
	kioskID, capID := createKiosk(t, s, owner)
	tracker := s.e.CommitteeInvoker(s.trackerHash).WithSigners(owner)

	tracker.Invoke(t, stackitem.Null{}, "join", kioskID, capID, int64(permLock))
	policyID, _ := createPolicy(t, s, owner, "sword")

	assetID := newAssetID()
	tracker.Invoke(t, stackitem.Null{}, "depositLocked", kioskID, policyID, assetID, "sword", []byte("x"))
	s.kiosk.Invoke(t, true, "isLocked", kioskID, assetID)

	// the lock permission implies the place permission
	tracker.Invoke(t, stackitem.Null{}, "deposit", kioskID, newAssetID(), "sword", []byte("y"))
}

func TestExtensionDisable(t *testing.T) {
	s := newKioskSuite(t)

	owner := s.e.NewAccount(t)
	kioskID, capID := createKiosk(t, s, owner)
	cOwner := s.kiosk.WithSigners(owner)
	tracker := s.e.CommitteeInvoker(s.trackerHash).WithSigners(owner)

	tracker.Invoke(t, stackitem.Null{}, "join", kioskID, capID, int64(permPlace))

	assetID := newAssetID()
	tracker.Invoke(t, stackitem.Null{}, "deposit", kioskID, assetID, "sword", []byte("x"))

	cOwner.Invoke(t, stackitem.Null{}, "disable", kioskID, capID, s.trackerHash)
	tracker.InvokeFail(t, common.ErrExtDisabled, "deposit", kioskID, newAssetID(), "sword", []byte("y"))

	// the private storage stays reachable while disabled
	s.kiosk.Invoke(t, []byte("sword"), "extensionGet", kioskID, s.trackerHash, assetID)
	tracker.Invoke(t, stackitem.Null{}, "forget", kioskID, assetID)

	cOwner.Invoke(t, stackitem.Null{}, "enable", kioskID, capID, s.trackerHash)
	tracker.Invoke(t, stackitem.Null{}, "deposit", kioskID, newAssetID(), "sword", []byte("y"))
}

func TestExtensionUninstall(t *testing.T) {
	s := newKioskSuite(t)

	owner := s.e.NewAccount(t)
	kioskID, capID := createKiosk(t, s, owner)
	cOwner := s.kiosk.WithSigners(owner)
	tracker := s.e.CommitteeInvoker(s.trackerHash).WithSigners(owner)

	tracker.Invoke(t, stackitem.Null{}, "join", kioskID, capID, int64(permPlace))

	assetID := newAssetID()
	tracker.Invoke(t, stackitem.Null{}, "deposit", kioskID, assetID, "sword", []byte("x"))

	t.Run("non-empty storage blocks removal", func(t *testing.T) {
		cOwner.InvokeFail(t, common.ErrExtNotEmpty, "uninstall", kioskID, capID, s.trackerHash)
	})

	tracker.Invoke(t, stackitem.Null{}, "forget", kioskID, assetID)
	cOwner.Invoke(t, stackitem.Null{}, "uninstall", kioskID, capID, s.trackerHash)

	s.kiosk.Invoke(t, false, "isExtensionInstalled", kioskID, s.trackerHash)
	tracker.InvokeFail(t, common.ErrExtNotInstalled, "deposit", kioskID, newAssetID(), "sword", []byte("y"))
}
