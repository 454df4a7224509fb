package policy

import (
	"github.com/neokiosk/kiosk-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type (
	// Policy is the per-asset-type registry of transfer rules. A sale
	// of an asset of this type is authorized only when its trade
	// request collected exactly one receipt per registered rule.
	Policy struct {
		AssetType string
		Balance   int
		Rules     [][]byte
	}

	// PolicyCap is the policy capability record required for rule
	// management, withdrawal and destruction.
	PolicyCap struct {
		Policy []byte
		Holder interop.Hash160
	}

	// tradeSummary mirrors the kiosk contract's trade request
	// projection. Field order matters: cross-contract returns are
	// plain VM structs.
	tradeSummary struct {
		Kiosk     []byte
		Asset     []byte
		AssetType string
		Paid      int
		Receipts  [][]byte
	}

	// item mirrors the kiosk contract's asset value.
	item struct {
		AssetType string
		Payload   []byte
	}

	// ConfirmedTrade is returned by Confirm: the released asset plus
	// the sale facts.
	ConfirmedTrade struct {
		Kiosk     []byte
		Asset     []byte
		AssetType string
		Payload   []byte
		Paid      int
	}
)

const (
	policyPrefix     = 'p'
	capPrefix        = 'c'
	ruleConfigPrefix = 'r'
	publisherPrefix  = 'u'
	typeCountPrefix  = 'n'

	kioskContractKey   = "kioskScriptHash"
	balanceContractKey = "balanceScriptHash"
)

func _deploy(data interface{}, isUpdate bool) {
	if isUpdate {
		args := data.([]interface{})
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		addrKiosk   interop.Hash160
		addrBalance interop.Hash160
	})

	if len(args.addrKiosk) != interop.Hash160Len || len(args.addrBalance) != interop.Hash160Len {
		panic("incorrect length of contract script hash")
	}

	ctx := storage.GetContext()
	storage.Put(ctx, kioskContractKey, args.addrKiosk)
	storage.Put(ctx, balanceContractKey, args.addrBalance)

	runtime.Log("policy contract initialized")
}

// Update method updates contract source code and manifest. Can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data interface{}) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("policy contract updated")
}

// New creates a transfer policy for an asset type and mints its
// capability for the publisher. The first policy of a type binds the
// type to the witnessed publisher; every further policy for that type
// requires the recorded publisher's witness. Multiple policies per type
// may coexist and any one of them authorizes a sale. Returns the new
// policy ID.
func New(assetType string, publisher interop.Hash160, salt []byte) []byte {
	if len(assetType) == 0 {
		panic("empty asset type")
	}
	if len(publisher) != interop.Hash160Len {
		panic("incorrect length of publisher script hash")
	}

	ctx := storage.GetContext()
	typeHash := crypto.Sha256([]byte(assetType))

	recorded := storage.Get(ctx, publisherKey(typeHash))
	if recorded == nil {
		common.CheckWitness(publisher)
		storage.Put(ctx, publisherKey(typeHash), publisher)
	} else {
		owner := recorded.(interop.Hash160)
		if !common.BytesEqual(owner, publisher) {
			panic(common.ErrNotPublisher)
		}
		common.CheckWitness(owner)
	}

	policyID := newPolicyID(typeHash, salt)
	if common.Exists(ctx, policyKey(policyID)) {
		panic("policy already exists")
	}

	policy := Policy{
		AssetType: assetType,
		Balance:   0,
		Rules:     [][]byte{},
	}
	common.SetSerialized(ctx, policyKey(policyID), policy)

	cap := PolicyCap{Policy: policyID, Holder: publisher}
	common.SetSerialized(ctx, capKey(PolicyCapID(policyID)), cap)

	count := typeCount(ctx, typeHash)
	storage.Put(ctx, typeCountKey(typeHash), count+1)

	runtime.Notify("PolicyCreated", policyID, assetType)
	runtime.Log("new: created transfer policy")

	return policyID
}

// Destroy removes a policy and pays its remaining balance out to the
// capability holder.
func Destroy(policyID, capID []byte) {
	ctx := storage.GetContext()
	policy, cap := accessPolicy(ctx, policyID, capID)

	if policy.Balance > 0 {
		payOut(ctx, cap.Holder, policy.Balance)
	}

	for i := range policy.Rules {
		storage.Delete(ctx, ruleConfigKey(policyID, policy.Rules[i]))
	}

	storage.Delete(ctx, policyKey(policyID))
	storage.Delete(ctx, capKey(capID))

	typeHash := crypto.Sha256([]byte(policy.AssetType))
	count := typeCount(ctx, typeHash)
	if count <= 1 {
		storage.Delete(ctx, typeCountKey(typeHash))
	} else {
		storage.Put(ctx, typeCountKey(typeHash), count-1)
	}

	runtime.Notify("PolicyDestroyed", policyID)
	runtime.Log("destroy: removed transfer policy")
}

// TransferCap passes the policy capability to another holder.
func TransferCap(capID []byte, newHolder interop.Hash160) {
	if len(newHolder) != interop.Hash160Len {
		panic("incorrect length of holder script hash")
	}

	ctx := storage.GetContext()
	cap := getCap(ctx, capID)
	common.CheckOwnerWitness(cap.Holder)

	cap.Holder = newHolder
	common.SetSerialized(ctx, capKey(capID), cap)
}

// AddRule registers a transfer rule contract in the policy and stores
// its configuration. A sale of this policy's asset type then requires
// the rule's receipt on the trade request.
func AddRule(policyID, capID []byte, rule interop.Hash160, config []byte) {
	if len(rule) != interop.Hash160Len {
		panic("incorrect length of rule script hash")
	}

	ctx := storage.GetContext()
	policy, _ := accessPolicy(ctx, policyID, capID)

	for i := range policy.Rules {
		if common.BytesEqual(policy.Rules[i], rule) {
			panic(common.ErrRuleExists)
		}
	}

	policy.Rules = append(policy.Rules, rule)
	common.SetSerialized(ctx, policyKey(policyID), policy)
	storage.Put(ctx, ruleConfigKey(policyID, rule), config)

	runtime.Notify("RuleAdded", policyID, rule)
}

// RemoveRule unregisters a transfer rule and drops its configuration.
func RemoveRule(policyID, capID []byte, rule interop.Hash160) {
	ctx := storage.GetContext()
	policy, _ := accessPolicy(ctx, policyID, capID)

	rules := [][]byte{}
	found := false
	for i := range policy.Rules {
		if common.BytesEqual(policy.Rules[i], rule) {
			found = true
			continue
		}
		rules = append(rules, policy.Rules[i])
	}
	if !found {
		panic(common.ErrRuleNotFound)
	}

	policy.Rules = rules
	common.SetSerialized(ctx, policyKey(policyID), policy)
	storage.Delete(ctx, ruleConfigKey(policyID, rule))

	runtime.Notify("RuleRemoved", policyID, rule)
}

// GetRuleConfig returns the stored configuration of a registered rule.
func GetRuleConfig(policyID []byte, rule interop.Hash160) []byte {
	ctx := storage.GetReadOnlyContext()
	getPolicy(ctx, policyID)

	data := storage.Get(ctx, ruleConfigKey(policyID, rule))
	if data == nil {
		panic(common.ErrRuleNotFound)
	}

	return data.([]byte)
}

// AddToBalance moves a rule fee into the policy balance. Only a rule
// registered in the policy may post here; presenting the call is the
// rule's proof, its script hash is checked against the registry.
func AddToBalance(policyID []byte, from interop.Hash160, amount int) {
	if amount <= 0 {
		panic("non-positive amount")
	}

	ctx := storage.GetContext()
	policy := getPolicy(ctx, policyID)

	caller := runtime.GetCallingScriptHash()
	if !isRegistered(policy, caller) {
		panic(common.ErrRuleNotFound)
	}

	collectPayment(ctx, from, amount)

	policy.Balance = policy.Balance + amount
	common.SetSerialized(ctx, policyKey(policyID), policy)
}

// Withdraw pays accumulated rule fees out to the capability holder. A
// nil amount withdraws the full balance.
func Withdraw(policyID, capID []byte, amount interface{}) {
	ctx := storage.GetContext()
	policy, cap := accessPolicy(ctx, policyID, capID)

	value := policy.Balance
	if amount != nil {
		value = amount.(int)
	}
	if value < 0 {
		panic("negative amount")
	}
	if value > policy.Balance {
		panic(common.ErrNotEnoughProfits)
	}

	payOut(ctx, cap.Holder, value)

	policy.Balance = policy.Balance - value
	common.SetSerialized(ctx, policyKey(policyID), policy)
}

// Confirm verifies a trade request against the policy and finishes the
// trade. The request is accepted only when its receipt set exactly
// equals the registered rule set: sizes must match and every receipt
// must be registered. Receipts are collected without duplicates, so the
// two checks together establish set equality in one pass. On success
// the escrowed asset is released and returned to the caller together
// with the sale facts.
func Confirm(policyID, requestID []byte) ConfirmedTrade {
	ctx := storage.GetContext()
	policy := getPolicy(ctx, policyID)

	kioskContractAddr := storage.Get(ctx, kioskContractKey).(interop.Hash160)
	summary := contract.Call(kioskContractAddr, "getTradeSummary", contract.ReadOnly, requestID).(tradeSummary)

	if summary.AssetType != policy.AssetType {
		panic(common.ErrWrongAssetType)
	}

	if len(summary.Receipts) != len(policy.Rules) {
		panic(common.ErrPolicyNotSatisfied)
	}
	for i := range summary.Receipts {
		if !isRegistered(policy, summary.Receipts[i]) {
			panic(common.ErrIllegalReceipt)
		}
	}

	released := contract.Call(kioskContractAddr, "finishTrade", contract.All, requestID).(item)

	runtime.Notify("TradeConfirmed", policyID, summary.Kiosk, summary.Asset, summary.Paid)
	runtime.Log("confirm: trade authorized")

	return ConfirmedTrade{
		Kiosk:     summary.Kiosk,
		Asset:     summary.Asset,
		AssetType: released.AssetType,
		Payload:   released.Payload,
		Paid:      summary.Paid,
	}
}

// Get returns the policy record.
func Get(policyID []byte) Policy {
	ctx := storage.GetReadOnlyContext()
	return getPolicy(ctx, policyID)
}

// PolicyAssetType returns the asset type the policy governs. Consumed
// by the kiosk contract as the policy existence witness of Lock.
func PolicyAssetType(policyID []byte) string {
	ctx := storage.GetReadOnlyContext()
	return getPolicy(ctx, policyID).AssetType
}

// Rules returns the registered rule set of the policy.
func Rules(policyID []byte) [][]byte {
	ctx := storage.GetReadOnlyContext()
	return getPolicy(ctx, policyID).Rules
}

// Balance returns the accumulated rule fees of the policy.
func Balance(policyID []byte) int {
	ctx := storage.GetReadOnlyContext()
	return getPolicy(ctx, policyID).Balance
}

// HasPolicyForType reports whether at least one policy exists for the
// asset type.
func HasPolicyForType(assetType string) bool {
	ctx := storage.GetReadOnlyContext()
	typeHash := crypto.Sha256([]byte(assetType))
	return typeCount(ctx, typeHash) > 0
}

// Publisher returns the recorded publisher of an asset type or nil when
// the type has no policies yet.
func Publisher(assetType string) interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	typeHash := crypto.Sha256([]byte(assetType))

	data := storage.Get(ctx, publisherKey(typeHash))
	if data == nil {
		return nil
	}

	return data.(interop.Hash160)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// PolicyCapID derives the capability ID of a policy.
func PolicyCapID(policyID []byte) []byte {
	return crypto.Sha256(common.StorageKey(capPrefix, []byte("policycap"), policyID))
}

func newPolicyID(typeHash []byte, salt []byte) []byte {
	return crypto.Sha256(common.StorageKey(policyPrefix, []byte("policy"), typeHash, salt))
}

func isRegistered(policy Policy, rule []byte) bool {
	for i := range policy.Rules {
		if common.BytesEqual(policy.Rules[i], rule) {
			return true
		}
	}

	return false
}

func collectPayment(ctx storage.Context, payer interop.Hash160, amount int) {
	balanceContractAddr := storage.Get(ctx, balanceContractKey).(interop.Hash160)
	self := runtime.GetExecutingScriptHash()

	ok := contract.Call(balanceContractAddr, "transfer", contract.All, payer, self, amount, nil).(bool)
	if !ok {
		panic(common.ErrPaymentFailed)
	}
}

func payOut(ctx storage.Context, to interop.Hash160, amount int) {
	balanceContractAddr := storage.Get(ctx, balanceContractKey).(interop.Hash160)
	self := runtime.GetExecutingScriptHash()

	ok := contract.Call(balanceContractAddr, "transfer", contract.All, self, to, amount, nil).(bool)
	if !ok {
		panic(common.ErrPaymentFailed)
	}
}

func accessPolicy(ctx storage.Context, policyID, capID []byte) (Policy, PolicyCap) {
	policy := getPolicy(ctx, policyID)
	cap := getCap(ctx, capID)

	if !common.BytesEqual(cap.Policy, policyID) {
		panic(common.ErrCapMismatch)
	}
	common.CheckOwnerWitness(cap.Holder)

	return policy, cap
}

func getPolicy(ctx storage.Context, policyID []byte) Policy {
	data := storage.Get(ctx, policyKey(policyID))
	if data == nil {
		panic(common.ErrPolicyNotFound)
	}

	return std.Deserialize(data.([]byte)).(Policy)
}

func getCap(ctx storage.Context, capID []byte) PolicyCap {
	data := storage.Get(ctx, capKey(capID))
	if data == nil {
		panic(common.ErrCapNotFound)
	}

	return std.Deserialize(data.([]byte)).(PolicyCap)
}

func typeCount(ctx storage.Context, typeHash []byte) int {
	data := storage.Get(ctx, typeCountKey(typeHash))
	if data == nil {
		return 0
	}

	return data.(int)
}

func policyKey(policyID []byte) []byte {
	return common.StorageKey(policyPrefix, policyID)
}

func capKey(capID []byte) []byte {
	return common.StorageKey(capPrefix, capID)
}

func ruleConfigKey(policyID, rule []byte) []byte {
	return common.StorageKey(ruleConfigPrefix, policyID, rule)
}

func publisherKey(typeHash []byte) []byte {
	return common.StorageKey(publisherPrefix, typeHash)
}

func typeCountKey(typeHash []byte) []byte {
	return common.StorageKey(typeCountPrefix, typeHash)
}
