package tests

import (
	"testing"

	"github.com/neokiosk/kiosk-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func TestAbortTrade(t *testing.T) {
	s := newKioskSuite(t)

	owner := s.e.NewAccount(t)
	buyer := s.e.NewAccount(t)
	kioskID, capID := createKiosk(t, s, owner)
	cOwner := s.kiosk.WithSigners(owner)
	cBuyer := s.kiosk.WithSigners(buyer)

	payload := []byte("weapon stats")
	assetID := placeAsset(t, s, owner, kioskID, capID, "sword", payload)
	cOwner.Invoke(t, stackitem.Null{}, "list", kioskID, capID, assetID, int64(100))

	balanceMint(t, s, buyer.ScriptHash(), 100)
	requestID := tradeRequestIDOf(kioskID, assetID)
	cBuyer.Invoke(t, requestID, "purchase", kioskID, assetID, buyer.ScriptHash(), int64(100))

	t.Run("only the buyer can abort", func(t *testing.T) {
		cOwner.InvokeFail(t, common.ErrOwnerWitnessFailed, "abortTrade", requestID)
	})

	cBuyer.Invoke(t, stackitem.Null{}, "abortTrade", requestID)

	// full refund and the exact pre-purchase kiosk state
	s.balance.Invoke(t, int64(100), "balanceOf", buyer.ScriptHash())
	s.kiosk.Invoke(t, int64(0), "profits", kioskID)
	s.kiosk.Invoke(t, int64(1), "itemCount", kioskID)
	s.kiosk.Invoke(t, structItem("sword", payload), "borrow", kioskID, assetID)
	s.kiosk.Invoke(t, true, "isListed", kioskID, assetID)
	s.kiosk.Invoke(t, false, "isListedExclusively", kioskID, assetID)
	s.kiosk.Invoke(t, false, "isLocked", kioskID, assetID)

	t.Run("request is consumed", func(t *testing.T) {
		cBuyer.InvokeFail(t, common.ErrRequestNotFound, "abortTrade", requestID)
		s.kiosk.InvokeFail(t, common.ErrRequestNotFound, "getTradeSummary", requestID)
	})

	t.Run("item can be bought again", func(t *testing.T) {
		cBuyer.Invoke(t, requestID, "purchase", kioskID, assetID, buyer.ScriptHash(), int64(100))
	})
}

func TestAbortTradeLocked(t *testing.T) {
	s := newKioskSuite(t)

	owner := s.e.NewAccount(t)
	buyer := s.e.NewAccount(t)
	kioskID, capID := createKiosk(t, s, owner)
	cOwner := s.kiosk.WithSigners(owner)

	policyID, _ := createPolicy(t, s, owner, "sword")
	assetID := newAssetID()
	cOwner.Invoke(t, stackitem.Null{}, "lock", kioskID, capID, policyID, assetID, "sword", []byte("x"))
	cOwner.Invoke(t, stackitem.Null{}, "list", kioskID, capID, assetID, int64(100))

	balanceMint(t, s, buyer.ScriptHash(), 100)
	requestID := tradeRequestIDOf(kioskID, assetID)
	s.kiosk.WithSigners(buyer).Invoke(t, requestID, "purchase", kioskID, assetID, buyer.ScriptHash(), int64(100))

	// the sale cleared the lock flag
	s.kiosk.Invoke(t, false, "isLocked", kioskID, assetID)

	s.kiosk.WithSigners(buyer).Invoke(t, stackitem.Null{}, "abortTrade", requestID)

	// the lock flag survives the round trip
	s.kiosk.Invoke(t, true, "isLocked", kioskID, assetID)
	cOwner.InvokeFail(t, common.ErrItemLocked, "take", kioskID, capID, assetID)
}

func TestAbortTradeWithCap(t *testing.T) {
	s := newKioskSuite(t)

	owner := s.e.NewAccount(t)
	buyer := s.e.NewAccount(t)
	kioskID, capID := createKiosk(t, s, owner)
	cOwner := s.kiosk.WithSigners(owner)
	cBuyer := s.kiosk.WithSigners(buyer)

	assetID := placeAsset(t, s, owner, kioskID, capID, "sword", []byte("x"))
	pcapID := purchaseCapIDOf(kioskID, assetID)
	cOwner.Invoke(t, pcapID, "listWithPurchaseCap", kioskID, capID, assetID, int64(100))
	cOwner.Invoke(t, stackitem.Null{}, "transferPurchaseCap", pcapID, buyer.ScriptHash())

	balanceMint(t, s, buyer.ScriptHash(), 120)
	requestID := tradeRequestIDOf(kioskID, assetID)
	cBuyer.Invoke(t, requestID, "purchaseWithCap", pcapID, int64(120))
	cBuyer.Invoke(t, stackitem.Null{}, "abortTrade", requestID)

	// the exclusive listing and the consumed capability come back
	s.balance.Invoke(t, int64(120), "balanceOf", buyer.ScriptHash())
	s.kiosk.Invoke(t, true, "isListedExclusively", kioskID, assetID)

	t.Run("restored capability buys again at the floor", func(t *testing.T) {
		cBuyer.InvokeFail(t, common.ErrBelowMinPrice, "purchaseWithCap", pcapID, int64(99))
		cBuyer.Invoke(t, requestID, "purchaseWithCap", pcapID, int64(100))
	})
}

func TestWithdrawPendingTrade(t *testing.T) {
	s := newKioskSuite(t)

	owner := s.e.NewAccount(t)
	buyer := s.e.NewAccount(t)
	kioskID, capID := createKiosk(t, s, owner)
	cOwner := s.kiosk.WithSigners(owner)

	assetID := placeAsset(t, s, owner, kioskID, capID, "sword", []byte("x"))
	cOwner.Invoke(t, stackitem.Null{}, "list", kioskID, capID, assetID, int64(100))

	balanceMint(t, s, buyer.ScriptHash(), 100)
	requestID := tradeRequestIDOf(kioskID, assetID)
	s.kiosk.WithSigners(buyer).Invoke(t, requestID, "purchase", kioskID, assetID, buyer.ScriptHash(), int64(100))

	// the escrowed payment is not withdrawable while the trade pends
	s.kiosk.Invoke(t, int64(0), "profits", kioskID)
	cOwner.InvokeFail(t, common.ErrNotEnoughProfits, "withdraw", kioskID, capID, int64(1))
	cOwner.Invoke(t, stackitem.Null{}, "withdraw", kioskID, capID, nil)

	// the refund stays fully covered after the owner's withdrawal
	s.kiosk.WithSigners(buyer).Invoke(t, stackitem.Null{}, "abortTrade", requestID)
	s.balance.Invoke(t, int64(100), "balanceOf", buyer.ScriptHash())
	s.kiosk.Invoke(t, int64(0), "profits", kioskID)
}

func TestAbortTradeAfterRuleFee(t *testing.T) {
	s := newKioskSuite(t)

	publisher := s.e.NewAccount(t)
	buyer := s.e.NewAccount(t)
	policyID, polCapID := createPolicy(t, s, publisher, "sword")

	royalty := s.e.CommitteeInvoker(s.royaltyHash)
	res, err := royalty.TestInvoke(t, "encodeConfig", int64(1000), int64(5))
	require.NoError(t, err)
	s.policy.WithSigners(publisher).Invoke(t, stackitem.Null{}, "addRule", policyID, polCapID, s.royaltyHash, res.Pop().Bytes())

	kioskID, capID := createKiosk(t, s, publisher)
	assetID := placeAsset(t, s, publisher, kioskID, capID, "sword", []byte("x"))
	s.kiosk.WithSigners(publisher).Invoke(t, stackitem.Null{}, "list", kioskID, capID, assetID, int64(200))

	balanceMint(t, s, buyer.ScriptHash(), 250)
	requestID := tradeRequestIDOf(kioskID, assetID)
	s.kiosk.WithSigners(buyer).Invoke(t, requestID, "purchase", kioskID, assetID, buyer.ScriptHash(), int64(200))
	royalty.WithSigners(buyer).Invoke(t, stackitem.Null{}, "pay", policyID, requestID, buyer.ScriptHash())

	s.kiosk.WithSigners(buyer).Invoke(t, stackitem.Null{}, "abortTrade", requestID)

	// the sale payment comes back, the posted rule fee does not
	s.balance.Invoke(t, int64(230), "balanceOf", buyer.ScriptHash())
	s.policy.Invoke(t, int64(20), "balance", policyID)
	s.kiosk.Invoke(t, int64(0), "profits", kioskID)
}

func TestAbortTradeOccupiedSlot(t *testing.T) {
	s := newKioskSuite(t)

	owner := s.e.NewAccount(t)
	buyer := s.e.NewAccount(t)
	kioskID, capID := createKiosk(t, s, owner)
	cOwner := s.kiosk.WithSigners(owner)

	assetID := placeAsset(t, s, owner, kioskID, capID, "sword", []byte("x"))
	cOwner.Invoke(t, stackitem.Null{}, "list", kioskID, capID, assetID, int64(100))

	balanceMint(t, s, buyer.ScriptHash(), 100)
	requestID := tradeRequestIDOf(kioskID, assetID)
	s.kiosk.WithSigners(buyer).Invoke(t, requestID, "purchase", kioskID, assetID, buyer.ScriptHash(), int64(100))

	// the vacated asset ID gets reused while the trade is pending
	cOwner.Invoke(t, stackitem.Null{}, "place", kioskID, capID, assetID, "sword", []byte("impostor"))

	s.kiosk.WithSigners(buyer).InvokeFail(t, common.ErrItemExists, "abortTrade", requestID)
}
