package kiosk

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
	// Kiosk is the custody container record. Profits are backed by
	// settlement credits held on the kiosk contract account.
	Kiosk struct {
		Owner           interop.Hash160
		Profits         int
		ItemCount       int
		Pending         int
		AllowExtensions bool
	}

	// OwnerCap is the owner capability record. Exactly one is minted
	// per kiosk at creation and it is the sole key accepted by access
	// checks.
	OwnerCap struct {
		Kiosk  []byte
		Holder interop.Hash160
	}

	// Item is a stored asset: an opaque typed payload.
	Item struct {
		AssetType string
		Payload   []byte
	}

	// Listing marks an asset as offered for sale.
	Listing struct {
		Price     int
		Exclusive bool
	}

	// PurchaseCap is a transferable right to buy one specific
	// exclusively listed asset at or above a floor price.
	PurchaseCap struct {
		Kiosk     []byte
		Asset     []byte
		AssetType string
		MinPrice  int
		Holder    interop.Hash160
	}

	// TradeRequest escrows a sold asset together with the bookkeeping
	// needed to either finish the trade through a transfer policy or
	// abort it restoring the exact pre-purchase state.
	TradeRequest struct {
		Kiosk       []byte
		Asset       []byte
		AssetType   string
		Payload     []byte
		Paid        int
		Buyer       interop.Hash160
		WasLocked   bool
		CapID       []byte
		CapMinPrice int
		Receipts    [][]byte
	}

	// TradeSummary is the read-only projection of a trade request
	// consumed by the policy and rule contracts.
	TradeSummary struct {
		Kiosk     []byte
		Asset     []byte
		AssetType string
		Paid      int
		Receipts  [][]byte
	}

	// borrowReceipt marks a value taken out with guaranteed return.
	// The holder recorded at borrow time is the only one allowed to
	// bring the value back.
	borrowReceipt struct {
		AssetType string
		Holder    interop.Hash160
	}
)

const (
	kioskPrefix       = 'k'
	capPrefix         = 'c'
	itemPrefix        = 'i'
	listingPrefix     = 'l'
	lockPrefix        = 'x'
	purchaseCapPrefix = 'p'
	requestPrefix     = 't'
	borrowPrefix      = 'b'
	extPrefix         = 'e'
	extDataPrefix     = 'd'

	policyContractKey  = "policyScriptHash"
	balanceContractKey = "balanceScriptHash"

	assetIDSize = 32 // SHA256 size

	// Extension permission bits.
	PermPlace = 1
	PermLock  = 2
)

func _deploy(data interface{}, isUpdate bool) {
	if isUpdate {
		args := data.([]interface{})
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		addrPolicy  interop.Hash160
		addrBalance interop.Hash160
	})

	if len(args.addrPolicy) != interop.Hash160Len || len(args.addrBalance) != interop.Hash160Len {
		panic("incorrect length of contract script hash")
	}

	ctx := storage.GetContext()
	storage.Put(ctx, policyContractKey, args.addrPolicy)
	storage.Put(ctx, balanceContractKey, args.addrBalance)

	runtime.Log("kiosk contract initialized")
}

// Update method updates contract source code and manifest. Can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data interface{}) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("kiosk contract updated")
}

// New creates a kiosk for the witnessed owner and mints its single owner
// capability. Kiosk and capability IDs are derived from the owner and
// the caller-provided salt, so a client can compute both up front.
// Returns the new kiosk ID.
func New(owner interop.Hash160, salt []byte) []byte {
	if len(owner) != interop.Hash160Len {
		panic("incorrect length of owner script hash")
	}
	common.CheckWitness(owner)

	ctx := storage.GetContext()
	kioskID := newKioskID(owner, salt)
	if common.Exists(ctx, kioskKey(kioskID)) {
		panic("kiosk already exists")
	}

	kiosk := Kiosk{
		Owner:           owner,
		Profits:         0,
		ItemCount:       0,
		Pending:         0,
		AllowExtensions: false,
	}
	common.SetSerialized(ctx, kioskKey(kioskID), kiosk)

	cap := OwnerCap{Kiosk: kioskID, Holder: owner}
	common.SetSerialized(ctx, capKey(OwnerCapID(kioskID)), cap)

	runtime.Notify("KioskCreated", kioskID, owner)
	runtime.Log("new: created kiosk")

	return kioskID
}

// Close destroys an empty kiosk together with its owner capability,
// paying out any remaining profits to the capability holder.
func Close(kioskID, capID []byte) {
	ctx := storage.GetContext()
	kiosk, cap := accessKiosk(ctx, kioskID, capID)

	if kiosk.ItemCount != 0 {
		panic(common.ErrNotEmpty)
	}
	if kiosk.Pending != 0 {
		panic("kiosk has unresolved trade requests")
	}

	if kiosk.Profits > 0 {
		payOut(ctx, cap.Holder, kiosk.Profits)
	}

	storage.Delete(ctx, kioskKey(kioskID))
	storage.Delete(ctx, capKey(capID))

	runtime.Notify("KioskClosed", kioskID, kiosk.Owner)
	runtime.Log("close: destroyed kiosk")
}

// SetOwner updates the cosmetic owner field of the kiosk. Access to the
// kiosk is controlled by the capability alone.
func SetOwner(kioskID, capID []byte, newOwner interop.Hash160) {
	if len(newOwner) != interop.Hash160Len {
		panic("incorrect length of owner script hash")
	}

	ctx := storage.GetContext()
	kiosk, _ := accessKiosk(ctx, kioskID, capID)

	kiosk.Owner = newOwner
	common.SetSerialized(ctx, kioskKey(kioskID), kiosk)
}

// SetAllowExtensions toggles the legacy raw storage access gate.
func SetAllowExtensions(kioskID, capID []byte, allow bool) {
	ctx := storage.GetContext()
	kiosk, _ := accessKiosk(ctx, kioskID, capID)

	kiosk.AllowExtensions = allow
	common.SetSerialized(ctx, kioskKey(kioskID), kiosk)
}

// TransferCap passes the owner capability to another holder.
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

// Place puts an asset into the kiosk.
func Place(kioskID, capID, assetID []byte, assetType string, payload []byte) {
	ctx := storage.GetContext()
	kiosk, _ := accessKiosk(ctx, kioskID, capID)

	placeItem(ctx, kioskID, kiosk, assetID, assetType, payload)
}

// Lock puts an asset into the kiosk and locks it: the asset can never be
// taken back by the owner, it can only leave through a sale. The policy
// reference is checked for existence of a transfer policy matching the
// asset type and nothing beyond that.
func Lock(kioskID, capID, policyID, assetID []byte, assetType string, payload []byte) {
	ctx := storage.GetContext()
	kiosk, _ := accessKiosk(ctx, kioskID, capID)

	requirePolicy(ctx, policyID, assetType)
	placeItem(ctx, kioskID, kiosk, assetID, assetType, payload)
	storage.Put(ctx, lockKey(kioskID, assetID), true)
}

// Take removes an asset from the kiosk and returns it. Locked and
// exclusively listed assets cannot be taken; an open listing is cleared.
func Take(kioskID, capID, assetID []byte) Item {
	ctx := storage.GetContext()
	kiosk, _ := accessKiosk(ctx, kioskID, capID)

	item := getItem(ctx, kioskID, assetID)
	if common.Exists(ctx, lockKey(kioskID, assetID)) {
		panic(common.ErrItemLocked)
	}

	listing, ok := getListing(ctx, kioskID, assetID)
	if ok {
		if listing.Exclusive {
			panic(common.ErrListedExclusively)
		}
		storage.Delete(ctx, listingKey(kioskID, assetID))
	}

	storage.Delete(ctx, itemKey(kioskID, assetID))
	kiosk.ItemCount = kiosk.ItemCount - 1
	common.SetSerialized(ctx, kioskKey(kioskID), kiosk)

	return item
}

// List offers an asset for an open sale at a fixed price.
func List(kioskID, capID, assetID []byte, price int) {
	ctx := storage.GetContext()
	accessKiosk(ctx, kioskID, capID)

	if price < 0 {
		panic("negative price")
	}

	getItem(ctx, kioskID, assetID)
	listing, ok := getListing(ctx, kioskID, assetID)
	if ok {
		if listing.Exclusive {
			panic(common.ErrListedExclusively)
		}
		panic(common.ErrAlreadyListed)
	}

	common.SetSerialized(ctx, listingKey(kioskID, assetID), Listing{Price: price, Exclusive: false})
	runtime.Notify("ItemListed", kioskID, assetID, price)
}

// Delist removes an open listing.
func Delist(kioskID, capID, assetID []byte) {
	ctx := storage.GetContext()
	accessKiosk(ctx, kioskID, capID)

	listing, ok := getListing(ctx, kioskID, assetID)
	if !ok {
		panic(common.ErrNotListed)
	}
	if listing.Exclusive {
		panic(common.ErrListedExclusively)
	}

	storage.Delete(ctx, listingKey(kioskID, assetID))
	runtime.Notify("ItemDelisted", kioskID, assetID)
}

// Purchase buys an openly listed asset. No capability is required: the
// method is open to anyone able to pay the exact listing price. The sold
// asset is escrowed into a trade request which must be confirmed by a
// transfer policy for the asset type (or aborted by the buyer) before
// the buyer receives it. Returns the trade request ID.
func Purchase(kioskID, assetID []byte, buyer interop.Hash160, amount int) []byte {
	ctx := storage.GetContext()
	kiosk := getKiosk(ctx, kioskID)

	item := getItem(ctx, kioskID, assetID)
	listing, ok := getListing(ctx, kioskID, assetID)
	if !ok || listing.Exclusive {
		panic(common.ErrNotListed)
	}
	if amount != listing.Price {
		panic(common.ErrWrongPrice)
	}

	collectPayment(ctx, buyer, amount)

	wasLocked := common.Exists(ctx, lockKey(kioskID, assetID))
	removeEntry(ctx, kioskID, assetID)

	// The payment stays escrowed with the request until FinishTrade,
	// it never enters the withdrawable profits of a pending trade.
	kiosk.ItemCount = kiosk.ItemCount - 1
	kiosk.Pending = kiosk.Pending + 1
	common.SetSerialized(ctx, kioskKey(kioskID), kiosk)

	requestID := newTradeRequest(ctx, TradeRequest{
		Kiosk:       kioskID,
		Asset:       assetID,
		AssetType:   item.AssetType,
		Payload:     item.Payload,
		Paid:        amount,
		Buyer:       buyer,
		WasLocked:   wasLocked,
		CapID:       []byte{},
		CapMinPrice: 0,
		Receipts:    [][]byte{},
	})

	runtime.Notify("ItemPurchased", kioskID, assetID, amount)

	return requestID
}

// ListWithPurchaseCap lists an asset exclusively and mints a purchase
// capability: a transferable right to buy this asset at or above the
// floor price. The capability is handed to the owner capability holder.
// Returns the purchase capability ID.
func ListWithPurchaseCap(kioskID, capID, assetID []byte, minPrice int) []byte {
	ctx := storage.GetContext()
	_, cap := accessKiosk(ctx, kioskID, capID)

	if minPrice < 0 {
		panic("negative price")
	}

	item := getItem(ctx, kioskID, assetID)
	if _, ok := getListing(ctx, kioskID, assetID); ok {
		panic(common.ErrAlreadyListed)
	}

	common.SetSerialized(ctx, listingKey(kioskID, assetID), Listing{Price: minPrice, Exclusive: true})

	pcapID := PurchaseCapIDOf(kioskID, assetID)
	pcap := PurchaseCap{
		Kiosk:     kioskID,
		Asset:     assetID,
		AssetType: item.AssetType,
		MinPrice:  minPrice,
		Holder:    cap.Holder,
	}
	common.SetSerialized(ctx, purchaseCapKey(pcapID), pcap)

	return pcapID
}

// TransferPurchaseCap passes a purchase capability to another holder.
func TransferPurchaseCap(pcapID []byte, newHolder interop.Hash160) {
	if len(newHolder) != interop.Hash160Len {
		panic("incorrect length of holder script hash")
	}

	ctx := storage.GetContext()
	pcap := getPurchaseCap(ctx, pcapID)
	common.CheckOwnerWitness(pcap.Holder)

	pcap.Holder = newHolder
	common.SetSerialized(ctx, purchaseCapKey(pcapID), pcap)
}

// PurchaseWithCap consumes a purchase capability and buys its asset for
// any amount at or above the recorded floor price. The paid amount, not
// the floor, is the recorded sale price. Returns the trade request ID.
func PurchaseWithCap(pcapID []byte, amount int) []byte {
	ctx := storage.GetContext()
	pcap := getPurchaseCap(ctx, pcapID)
	common.CheckOwnerWitness(pcap.Holder)

	if amount < pcap.MinPrice {
		panic(common.ErrBelowMinPrice)
	}

	kioskID := pcap.Kiosk
	assetID := pcap.Asset
	kiosk := getKiosk(ctx, kioskID)
	item := getItem(ctx, kioskID, assetID)

	collectPayment(ctx, pcap.Holder, amount)

	wasLocked := common.Exists(ctx, lockKey(kioskID, assetID))
	removeEntry(ctx, kioskID, assetID)
	storage.Delete(ctx, purchaseCapKey(pcapID))

	kiosk.ItemCount = kiosk.ItemCount - 1
	kiosk.Pending = kiosk.Pending + 1
	common.SetSerialized(ctx, kioskKey(kioskID), kiosk)

	requestID := newTradeRequest(ctx, TradeRequest{
		Kiosk:       kioskID,
		Asset:       assetID,
		AssetType:   item.AssetType,
		Payload:     item.Payload,
		Paid:        amount,
		Buyer:       pcap.Holder,
		WasLocked:   wasLocked,
		CapID:       pcapID,
		CapMinPrice: pcap.MinPrice,
		Receipts:    [][]byte{},
	})

	runtime.Notify("ItemPurchased", kioskID, assetID, amount)

	return requestID
}

// ReturnPurchaseCap consumes a purchase capability without a sale and
// clears the exclusive listing, restoring the asset to its pre-listing
// state.
func ReturnPurchaseCap(pcapID []byte) {
	ctx := storage.GetContext()
	pcap := getPurchaseCap(ctx, pcapID)
	common.CheckOwnerWitness(pcap.Holder)

	storage.Delete(ctx, listingKey(pcap.Kiosk, pcap.Asset))
	storage.Delete(ctx, purchaseCapKey(pcapID))
}

// Withdraw pays accumulated profits out to the capability holder. A nil
// amount withdraws the full balance.
func Withdraw(kioskID, capID []byte, amount interface{}) {
	ctx := storage.GetContext()
	kiosk, cap := accessKiosk(ctx, kioskID, capID)

	value := kiosk.Profits
	if amount != nil {
		value = amount.(int)
	}
	if value < 0 {
		panic("negative amount")
	}
	if value > kiosk.Profits {
		panic(common.ErrNotEnoughProfits)
	}

	payOut(ctx, cap.Holder, value)

	kiosk.Profits = kiosk.Profits - value
	common.SetSerialized(ctx, kioskKey(kioskID), kiosk)
}

// Borrow returns a stored asset without removing it. Allowed on any
// present item regardless of its listing or lock state.
func Borrow(kioskID, assetID []byte) Item {
	ctx := storage.GetReadOnlyContext()
	return getItem(ctx, kioskID, assetID)
}

// BorrowMut replaces the payload of a stored asset in place. Mutable
// access is not permitted while the asset is listed.
func BorrowMut(kioskID, capID, assetID []byte, payload []byte) {
	ctx := storage.GetContext()
	accessKiosk(ctx, kioskID, capID)

	item := getItem(ctx, kioskID, assetID)
	requireNotListed(ctx, kioskID, assetID)

	item.Payload = payload
	common.SetSerialized(ctx, itemKey(kioskID, assetID), item)
}

// BorrowVal takes an asset out with a guaranteed return: a borrow
// receipt is recorded and the asset is invisible to every other
// operation until ReturnVal brings it back. Not permitted while the
// asset is listed.
func BorrowVal(kioskID, capID, assetID []byte) Item {
	ctx := storage.GetContext()
	_, cap := accessKiosk(ctx, kioskID, capID)

	item := getItem(ctx, kioskID, assetID)
	requireNotListed(ctx, kioskID, assetID)

	common.SetSerialized(ctx, borrowKey(kioskID, assetID), borrowReceipt{AssetType: item.AssetType, Holder: cap.Holder})
	storage.Delete(ctx, itemKey(kioskID, assetID))

	return item
}

// ReturnVal returns a borrowed asset. The caller must be the recorded
// borrower, both the kiosk and the asset identity must match an
// outstanding borrow receipt and the asset type cannot change; the
// payload may, which is the whole point of the borrow.
func ReturnVal(kioskID, assetID []byte, assetType string, payload []byte) {
	ctx := storage.GetContext()

	data := storage.Get(ctx, borrowKey(kioskID, assetID))
	if data == nil {
		panic(common.ErrBorrowNotFound)
	}
	borrow := std.Deserialize(data.([]byte)).(borrowReceipt)
	common.CheckOwnerWitness(borrow.Holder)
	if borrow.AssetType != assetType {
		panic(common.ErrBorrowMismatch)
	}

	common.SetSerialized(ctx, itemKey(kioskID, assetID), Item{AssetType: assetType, Payload: payload})
	storage.Delete(ctx, borrowKey(kioskID, assetID))
}

// AddReceipt records the calling rule contract on the trade request.
// Presenting the call is the proof that the rule ran: the receipt tag is
// the caller script hash and cannot be forged by anyone else.
func AddReceipt(requestID []byte) {
	ctx := storage.GetContext()
	req := getTradeRequest(ctx, requestID)

	tag := runtime.GetCallingScriptHash()
	for i := range req.Receipts {
		if common.BytesEqual(req.Receipts[i], tag) {
			panic(common.ErrReceiptExists)
		}
	}

	req.Receipts = append(req.Receipts, tag)
	common.SetSerialized(ctx, requestKey(requestID), req)
}

// GetTradeSummary returns the projection of a trade request used by
// policy and rule contracts: identity, paid amount and collected
// receipts.
func GetTradeSummary(requestID []byte) TradeSummary {
	ctx := storage.GetReadOnlyContext()
	req := getTradeRequest(ctx, requestID)

	return TradeSummary{
		Kiosk:     req.Kiosk,
		Asset:     req.Asset,
		AssetType: req.AssetType,
		Paid:      req.Paid,
		Receipts:  req.Receipts,
	}
}

// FinishTrade consumes a confirmed trade request and releases the
// escrowed asset. Can be invoked only by the policy contract, which
// performs the receipt verification before calling here. The escrowed
// payment becomes withdrawable kiosk profits at this point and not
// earlier.
func FinishTrade(requestID []byte) Item {
	ctx := storage.GetContext()

	caller := runtime.GetCallingScriptHash()
	if !common.FromKnownContract(ctx, caller, policyContractKey) {
		panic("finishTrade: caller is not the policy contract")
	}

	req := getTradeRequest(ctx, requestID)
	storage.Delete(ctx, requestKey(requestID))

	kiosk := getKiosk(ctx, req.Kiosk)
	kiosk.Pending = kiosk.Pending - 1
	kiosk.Profits = kiosk.Profits + req.Paid
	common.SetSerialized(ctx, kioskKey(req.Kiosk), kiosk)

	return Item{AssetType: req.AssetType, Payload: req.Payload}
}

// AbortTrade rolls an unconfirmed trade back: the buyer gets the
// escrowed payment back and the kiosk is restored to the exact
// pre-purchase state, including the listing, the lock flag and a
// consumed purchase capability. This is the failure fate of a trade
// request, mirroring a transaction abort. Fees already posted by
// transfer rules stay with their policies, only the sale payment
// itself is refunded.
func AbortTrade(requestID []byte) {
	ctx := storage.GetContext()
	req := getTradeRequest(ctx, requestID)
	common.CheckOwnerWitness(req.Buyer)

	kioskID := req.Kiosk
	assetID := req.Asset
	kiosk := getKiosk(ctx, kioskID)

	// The asset ID must still be vacant for the rollback to restore the
	// exact pre-purchase state.
	if common.Exists(ctx, itemKey(kioskID, assetID)) || common.Exists(ctx, borrowKey(kioskID, assetID)) {
		panic(common.ErrItemExists)
	}

	payOut(ctx, req.Buyer, req.Paid)

	common.SetSerialized(ctx, itemKey(kioskID, assetID), Item{AssetType: req.AssetType, Payload: req.Payload})
	if req.WasLocked {
		storage.Put(ctx, lockKey(kioskID, assetID), true)
	}

	if len(req.CapID) != 0 {
		common.SetSerialized(ctx, listingKey(kioskID, assetID), Listing{Price: req.CapMinPrice, Exclusive: true})
		pcap := PurchaseCap{
			Kiosk:     kioskID,
			Asset:     assetID,
			AssetType: req.AssetType,
			MinPrice:  req.CapMinPrice,
			Holder:    req.Buyer,
		}
		common.SetSerialized(ctx, purchaseCapKey(req.CapID), pcap)
	} else {
		common.SetSerialized(ctx, listingKey(kioskID, assetID), Listing{Price: req.Paid, Exclusive: false})
	}

	kiosk.ItemCount = kiosk.ItemCount + 1
	kiosk.Pending = kiosk.Pending - 1
	common.SetSerialized(ctx, kioskKey(kioskID), kiosk)

	storage.Delete(ctx, requestKey(requestID))

	runtime.Notify("TradeAborted", kioskID, assetID)
}

// Get returns the kiosk record.
func Get(kioskID []byte) Kiosk {
	ctx := storage.GetReadOnlyContext()
	return getKiosk(ctx, kioskID)
}

// Owner returns the cosmetic owner of the kiosk.
func Owner(kioskID []byte) interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getKiosk(ctx, kioskID).Owner
}

// ItemCount returns the number of assets currently stored in the kiosk.
func ItemCount(kioskID []byte) int {
	ctx := storage.GetReadOnlyContext()
	return getKiosk(ctx, kioskID).ItemCount
}

// Profits returns the accumulated sale proceeds of the kiosk.
func Profits(kioskID []byte) int {
	ctx := storage.GetReadOnlyContext()
	return getKiosk(ctx, kioskID).Profits
}

// HasItem reports whether the asset is stored in the kiosk.
func HasItem(kioskID, assetID []byte) bool {
	ctx := storage.GetReadOnlyContext()
	return common.Exists(ctx, itemKey(kioskID, assetID))
}

// IsLocked reports whether the asset carries the lock flag.
func IsLocked(kioskID, assetID []byte) bool {
	ctx := storage.GetReadOnlyContext()
	return common.Exists(ctx, lockKey(kioskID, assetID))
}

// IsListed reports whether the asset carries a listing of any kind.
func IsListed(kioskID, assetID []byte) bool {
	ctx := storage.GetReadOnlyContext()
	_, ok := getListing(ctx, kioskID, assetID)
	return ok
}

// IsListedExclusively reports whether the asset carries an exclusive
// listing.
func IsListedExclusively(kioskID, assetID []byte) bool {
	ctx := storage.GetReadOnlyContext()
	listing, ok := getListing(ctx, kioskID, assetID)
	return ok && listing.Exclusive
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// OwnerCapID derives the owner capability ID of a kiosk.
func OwnerCapID(kioskID []byte) []byte {
	return crypto.Sha256(common.StorageKey(capPrefix, []byte("kioskcap"), kioskID))
}

// PurchaseCapIDOf derives the purchase capability ID for an asset.
func PurchaseCapIDOf(kioskID, assetID []byte) []byte {
	return crypto.Sha256(common.StorageKey(purchaseCapPrefix, []byte("pcap"), kioskID, assetID))
}

// TradeRequestID derives the trade request ID for an asset sale.
func TradeRequestID(kioskID, assetID []byte) []byte {
	return crypto.Sha256(common.StorageKey(requestPrefix, []byte("trade"), kioskID, assetID))
}

func newKioskID(owner interop.Hash160, salt []byte) []byte {
	return crypto.Sha256(common.StorageKey(kioskPrefix, []byte("kiosk"), owner, salt))
}

func placeItem(ctx storage.Context, kioskID []byte, kiosk Kiosk, assetID []byte, assetType string, payload []byte) {
	if len(assetID) != assetIDSize {
		panic("incorrect length of asset ID")
	}
	if len(assetType) == 0 {
		panic("empty asset type")
	}
	if common.Exists(ctx, itemKey(kioskID, assetID)) {
		panic(common.ErrItemExists)
	}
	if common.Exists(ctx, borrowKey(kioskID, assetID)) {
		panic(common.ErrItemExists)
	}

	common.SetSerialized(ctx, itemKey(kioskID, assetID), Item{AssetType: assetType, Payload: payload})

	kiosk.ItemCount = kiosk.ItemCount + 1
	common.SetSerialized(ctx, kioskKey(kioskID), kiosk)
}

// removeEntry clears the item together with its listing and lock flags.
func removeEntry(ctx storage.Context, kioskID, assetID []byte) {
	storage.Delete(ctx, itemKey(kioskID, assetID))
	storage.Delete(ctx, listingKey(kioskID, assetID))
	storage.Delete(ctx, lockKey(kioskID, assetID))
}

func newTradeRequest(ctx storage.Context, req TradeRequest) []byte {
	requestID := TradeRequestID(req.Kiosk, req.Asset)
	if common.Exists(ctx, requestKey(requestID)) {
		panic("trade already pending for this item")
	}
	common.SetSerialized(ctx, requestKey(requestID), req)
	return requestID
}

func requireNotListed(ctx storage.Context, kioskID, assetID []byte) {
	listing, ok := getListing(ctx, kioskID, assetID)
	if ok {
		if listing.Exclusive {
			panic(common.ErrListedExclusively)
		}
		panic(common.ErrAlreadyListed)
	}
}

// requirePolicy verifies that the referenced transfer policy exists and
// matches the asset type. The policy content is deliberately not
// inspected.
func requirePolicy(ctx storage.Context, policyID []byte, assetType string) {
	policyContractAddr := storage.Get(ctx, policyContractKey).(interop.Hash160)
	registered := contract.Call(policyContractAddr, "policyAssetType", contract.ReadOnly, policyID).(string)
	if registered != assetType {
		panic(common.ErrNoPolicyForType)
	}
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

func accessKiosk(ctx storage.Context, kioskID, capID []byte) (Kiosk, OwnerCap) {
	kiosk := getKiosk(ctx, kioskID)
	cap := getCap(ctx, capID)

	if !common.BytesEqual(cap.Kiosk, kioskID) {
		panic(common.ErrCapMismatch)
	}
	common.CheckOwnerWitness(cap.Holder)

	return kiosk, cap
}

func getKiosk(ctx storage.Context, kioskID []byte) Kiosk {
	data := storage.Get(ctx, kioskKey(kioskID))
	if data == nil {
		panic(common.ErrKioskNotFound)
	}

	return std.Deserialize(data.([]byte)).(Kiosk)
}

func getCap(ctx storage.Context, capID []byte) OwnerCap {
	data := storage.Get(ctx, capKey(capID))
	if data == nil {
		panic(common.ErrCapNotFound)
	}

	return std.Deserialize(data.([]byte)).(OwnerCap)
}

func getItem(ctx storage.Context, kioskID, assetID []byte) Item {
	data := storage.Get(ctx, itemKey(kioskID, assetID))
	if data == nil {
		panic(common.ErrItemNotFound)
	}

	return std.Deserialize(data.([]byte)).(Item)
}

func getListing(ctx storage.Context, kioskID, assetID []byte) (Listing, bool) {
	data := storage.Get(ctx, listingKey(kioskID, assetID))
	if data == nil {
		return Listing{}, false
	}

	return std.Deserialize(data.([]byte)).(Listing), true
}

func getPurchaseCap(ctx storage.Context, pcapID []byte) PurchaseCap {
	data := storage.Get(ctx, purchaseCapKey(pcapID))
	if data == nil {
		panic(common.ErrCapNotFound)
	}

	return std.Deserialize(data.([]byte)).(PurchaseCap)
}

func getTradeRequest(ctx storage.Context, requestID []byte) TradeRequest {
	data := storage.Get(ctx, requestKey(requestID))
	if data == nil {
		panic(common.ErrRequestNotFound)
	}

	return std.Deserialize(data.([]byte)).(TradeRequest)
}

func kioskKey(kioskID []byte) []byte {
	return common.StorageKey(kioskPrefix, kioskID)
}

func capKey(capID []byte) []byte {
	return common.StorageKey(capPrefix, capID)
}

// entryID folds a kiosk and asset identity pair into a fixed-size key
// part. Raw composite keys would exceed the VM storage key size limit.
func entryID(kioskID, assetID []byte) []byte {
	pair := append([]byte{}, kioskID...)
	pair = append(pair, assetID...)
	return crypto.Sha256(pair)
}

func itemKey(kioskID, assetID []byte) []byte {
	return common.StorageKey(itemPrefix, entryID(kioskID, assetID))
}

func listingKey(kioskID, assetID []byte) []byte {
	return common.StorageKey(listingPrefix, entryID(kioskID, assetID))
}

func lockKey(kioskID, assetID []byte) []byte {
	return common.StorageKey(lockPrefix, entryID(kioskID, assetID))
}

func purchaseCapKey(pcapID []byte) []byte {
	return common.StorageKey(purchaseCapPrefix, pcapID)
}

func requestKey(requestID []byte) []byte {
	return common.StorageKey(requestPrefix, requestID)
}

func borrowKey(kioskID, assetID []byte) []byte {
	return common.StorageKey(borrowPrefix, entryID(kioskID, assetID))
}
