package tests

import (
	"testing"

	"github.com/neokiosk/kiosk-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func TestPolicyNew(t *testing.T) {
	s := newKioskSuite(t)

	publisher := s.e.NewAccount(t)
	stranger := s.e.NewAccount(t)

	s.policy.Invoke(t, false, "hasPolicyForType", "sword")
	s.policy.Invoke(t, stackitem.Null{}, "publisher", "sword")

	t.Run("missing witness", func(t *testing.T) {
		s.policy.WithSigners(stranger).InvokeFail(t, common.ErrWitnessFailed, "new", "sword", publisher.ScriptHash(), randomBytes(8))
	})

	policyID, _ := createPolicy(t, s, publisher, "sword")

	s.policy.Invoke(t, true, "hasPolicyForType", "sword")
	s.policy.Invoke(t, publisher.ScriptHash().BytesBE(), "publisher", "sword")
	s.policy.Invoke(t, "sword", "policyAssetType", policyID)

	t.Run("first policy binds the type", func(t *testing.T) {
		s.policy.WithSigners(stranger).InvokeFail(t, common.ErrNotPublisher, "new", "sword", stranger.ScriptHash(), randomBytes(8))
		// right publisher, wrong witness
		s.policy.WithSigners(stranger).InvokeFail(t, common.ErrWitnessFailed, "new", "sword", publisher.ScriptHash(), randomBytes(8))
	})

	t.Run("publisher can add policies", func(t *testing.T) {
		createPolicy(t, s, publisher, "sword")
	})

	t.Run("another type is free", func(t *testing.T) {
		createPolicy(t, s, stranger, "shield")
	})
}

func TestPolicyRules(t *testing.T) {
	s := newKioskSuite(t)

	publisher := s.e.NewAccount(t)
	policyID, capID := createPolicy(t, s, publisher, "sword")
	cPub := s.policy.WithSigners(publisher)

	royalty := s.e.CommitteeInvoker(s.royaltyHash)
	res, err := royalty.TestInvoke(t, "encodeConfig", int64(1000), int64(5))
	require.NoError(t, err)
	cfg := res.Pop().Bytes()

	t.Run("config of unregistered rule", func(t *testing.T) {
		s.policy.InvokeFail(t, common.ErrRuleNotFound, "getRuleConfig", policyID, s.royaltyHash)
	})

	t.Run("missing capability witness", func(t *testing.T) {
		s.policy.InvokeFail(t, common.ErrOwnerWitnessFailed, "addRule", policyID, capID, s.royaltyHash, cfg)
	})

	cPub.Invoke(t, stackitem.Null{}, "addRule", policyID, capID, s.royaltyHash, cfg)
	s.policy.Invoke(t, cfg, "getRuleConfig", policyID, s.royaltyHash)

	t.Run("duplicate rule", func(t *testing.T) {
		cPub.InvokeFail(t, common.ErrRuleExists, "addRule", policyID, capID, s.royaltyHash, cfg)
	})

	// fee follows the stored config: 10% with a floor of 5
	royalty.Invoke(t, int64(20), "fee", policyID, int64(200))
	royalty.Invoke(t, int64(5), "fee", policyID, int64(10))

	t.Run("remove unknown rule", func(t *testing.T) {
		cPub.InvokeFail(t, common.ErrRuleNotFound, "removeRule", policyID, capID, s.stampHash)
	})

	cPub.Invoke(t, stackitem.Null{}, "removeRule", policyID, capID, s.royaltyHash)
	s.policy.InvokeFail(t, common.ErrRuleNotFound, "getRuleConfig", policyID, s.royaltyHash)
}

func TestPolicyConfirm(t *testing.T) {
	s := newKioskSuite(t)

	publisher := s.e.NewAccount(t)
	buyer := s.e.NewAccount(t)
	policyID, polCapID := createPolicy(t, s, publisher, "sword")
	cPub := s.policy.WithSigners(publisher)

	royalty := s.e.CommitteeInvoker(s.royaltyHash)
	res, err := royalty.TestInvoke(t, "encodeConfig", int64(1000), int64(5))
	require.NoError(t, err)
	cfg := res.Pop().Bytes()

	cPub.Invoke(t, stackitem.Null{}, "addRule", policyID, polCapID, s.royaltyHash, cfg)
	cPub.Invoke(t, stackitem.Null{}, "addRule", policyID, polCapID, s.stampHash, []byte{})

	kioskID, capID := createKiosk(t, s, publisher)
	assetID := newAssetID()
	payload := assetPayload(assetID)
	s.kiosk.WithSigners(publisher).Invoke(t, stackitem.Null{}, "place", kioskID, capID, assetID, "sword", payload)
	s.kiosk.WithSigners(publisher).Invoke(t, stackitem.Null{}, "list", kioskID, capID, assetID, int64(200))

	balanceMint(t, s, buyer.ScriptHash(), 250)
	requestID := tradeRequestIDOf(kioskID, assetID)
	s.kiosk.WithSigners(buyer).Invoke(t, requestID, "purchase", kioskID, assetID, buyer.ScriptHash(), int64(200))

	t.Run("no receipts yet", func(t *testing.T) {
		s.policy.InvokeFail(t, common.ErrPolicyNotSatisfied, "confirm", policyID, requestID)
	})

	t.Run("policy of another type", func(t *testing.T) {
		shieldPolicy, _ := createPolicy(t, s, publisher, "shield")
		s.policy.InvokeFail(t, common.ErrWrongAssetType, "confirm", shieldPolicy, requestID)
	})

	// the royalty rule charges 10% of 200
	royalty.WithSigners(buyer).Invoke(t, stackitem.Null{}, "pay", policyID, requestID, buyer.ScriptHash())
	s.policy.Invoke(t, int64(20), "balance", policyID)
	s.balance.Invoke(t, int64(30), "balanceOf", buyer.ScriptHash())

	t.Run("rule cannot pay twice", func(t *testing.T) {
		royalty.WithSigners(buyer).InvokeFail(t, common.ErrReceiptExists, "pay", policyID, requestID, buyer.ScriptHash())
	})

	t.Run("one receipt of two", func(t *testing.T) {
		s.policy.InvokeFail(t, common.ErrPolicyNotSatisfied, "confirm", policyID, requestID)
	})

	s.stamp.Invoke(t, stackitem.Null{}, "stamp", requestID)
	s.stamp.Invoke(t, int64(1), "saleCount", "sword")

	s.policy.Invoke(t, structItem(kioskID, assetID, "sword", payload, int64(200)), "confirm", policyID, requestID)

	t.Run("withdraw rule fees", func(t *testing.T) {
		cPub.Invoke(t, stackitem.Null{}, "withdraw", policyID, polCapID, nil)
		s.balance.Invoke(t, int64(20), "balanceOf", publisher.ScriptHash())
		s.policy.Invoke(t, int64(0), "balance", policyID)
	})
}

func TestPolicyConfirmIllegalReceipt(t *testing.T) {
	s := newKioskSuite(t)

	publisher := s.e.NewAccount(t)
	buyer := s.e.NewAccount(t)
	policyID, polCapID := createPolicy(t, s, publisher, "sword")
	cPub := s.policy.WithSigners(publisher)

	cPub.Invoke(t, stackitem.Null{}, "addRule", policyID, polCapID, s.stampHash, []byte{})

	kioskID, capID := createKiosk(t, s, publisher)
	assetID := placeAsset(t, s, publisher, kioskID, capID, "sword", []byte("x"))
	s.kiosk.WithSigners(publisher).Invoke(t, stackitem.Null{}, "list", kioskID, capID, assetID, int64(100))

	balanceMint(t, s, buyer.ScriptHash(), 100)
	requestID := tradeRequestIDOf(kioskID, assetID)
	s.kiosk.WithSigners(buyer).Invoke(t, requestID, "purchase", kioskID, assetID, buyer.ScriptHash(), int64(100))

	s.stamp.Invoke(t, stackitem.Null{}, "stamp", requestID)

	// swap the rule set under the collected receipt: sizes still match,
	// membership does not
	cPub.Invoke(t, stackitem.Null{}, "removeRule", policyID, polCapID, s.stampHash)
	cPub.Invoke(t, stackitem.Null{}, "addRule", policyID, polCapID, s.royaltyHash, []byte{})

	s.policy.InvokeFail(t, common.ErrIllegalReceipt, "confirm", policyID, requestID)
}

func TestPolicyAddToBalanceGuard(t *testing.T) {
	s := newKioskSuite(t)

	publisher := s.e.NewAccount(t)
	policyID, _ := createPolicy(t, s, publisher, "sword")

	// only a registered rule contract may post fees
	s.policy.InvokeFail(t, common.ErrRuleNotFound, "addToBalance", policyID, publisher.ScriptHash(), int64(10))
}

func TestPolicyDestroy(t *testing.T) {
	s := newKioskSuite(t)

	publisher := s.e.NewAccount(t)
	policyID, capID := createPolicy(t, s, publisher, "sword")
	cPub := s.policy.WithSigners(publisher)

	t.Run("missing capability witness", func(t *testing.T) {
		s.policy.InvokeFail(t, common.ErrOwnerWitnessFailed, "destroy", policyID, capID)
	})

	cPub.Invoke(t, stackitem.Null{}, "destroy", policyID, capID)

	s.policy.Invoke(t, false, "hasPolicyForType", "sword")
	s.policy.InvokeFail(t, common.ErrPolicyNotFound, "get", policyID)

	t.Run("type stays bound to the publisher", func(t *testing.T) {
		stranger := s.e.NewAccount(t)
		s.policy.WithSigners(stranger).InvokeFail(t, common.ErrNotPublisher, "new", "sword", stranger.ScriptHash(), randomBytes(8))
		createPolicy(t, s, publisher, "sword")
		s.policy.Invoke(t, true, "hasPolicyForType", "sword")
	})
}

func TestFinishTradeGuard(t *testing.T) {
	s := newKioskSuite(t)

	owner := s.e.NewAccount(t)
	buyer := s.e.NewAccount(t)
	kioskID, capID := createKiosk(t, s, owner)

	assetID := placeAsset(t, s, owner, kioskID, capID, "sword", []byte("x"))
	s.kiosk.WithSigners(owner).Invoke(t, stackitem.Null{}, "list", kioskID, capID, assetID, int64(100))

	balanceMint(t, s, buyer.ScriptHash(), 100)
	requestID := tradeRequestIDOf(kioskID, assetID)
	s.kiosk.WithSigners(buyer).Invoke(t, requestID, "purchase", kioskID, assetID, buyer.ScriptHash(), int64(100))

	// only the policy contract may release the escrow
	s.kiosk.InvokeFail(t, "caller is not the policy contract", "finishTrade", requestID)
	s.kiosk.WithSigners(buyer).InvokeFail(t, "caller is not the policy contract", "finishTrade", requestID)
}
