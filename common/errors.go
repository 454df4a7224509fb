package common

// Abort messages shared by the kiosk and policy contracts. Every guard
// failure panics with one of these so that callers observe a distinct,
// stable fault message per failure mode.
const (
	// ErrKioskNotFound appears when a referenced kiosk does not exist.
	ErrKioskNotFound = "kiosk not found"
	// ErrCapNotFound appears when a referenced capability record does
	// not exist.
	ErrCapNotFound = "capability not found"
	// ErrCapMismatch appears when a capability is bound to another
	// kiosk or policy than the one it is used against.
	ErrCapMismatch = "capability does not match target"
	// ErrItemNotFound appears when a referenced asset is not stored in
	// the kiosk.
	ErrItemNotFound = "item not found"
	// ErrItemExists appears on an attempt to place an asset under an
	// already occupied ID.
	ErrItemExists = "item already placed"
	// ErrItemLocked appears on an attempt to take a locked asset.
	ErrItemLocked = "item is locked"
	// ErrAlreadyListed appears on an attempt to list an asset that
	// already carries a listing of any kind.
	ErrAlreadyListed = "item already listed"
	// ErrListedExclusively appears when an operation is blocked by an
	// exclusive listing.
	ErrListedExclusively = "item listed exclusively"
	// ErrNotListed appears when an open listing is required but absent.
	ErrNotListed = "item not listed"
	// ErrWrongPrice appears when a payment does not match the listing
	// price.
	ErrWrongPrice = "payment does not match listing price"
	// ErrBelowMinPrice appears when a purchase cap payment is below the
	// recorded floor price.
	ErrBelowMinPrice = "payment below minimum price"
	// ErrNotEnoughProfits appears when a withdrawal exceeds the
	// accumulated balance.
	ErrNotEnoughProfits = "not enough profits"
	// ErrNotEmpty appears on an attempt to close a kiosk that still
	// stores items.
	ErrNotEmpty = "kiosk is not empty"
	// ErrPaymentFailed appears when the settlement token refuses a
	// transfer.
	ErrPaymentFailed = "payment transfer failed"

	// ErrPolicyNotFound appears when a referenced transfer policy does
	// not exist.
	ErrPolicyNotFound = "policy not found"
	// ErrNoPolicyForType appears when locking an asset whose type has
	// no transfer policy.
	ErrNoPolicyForType = "no policy for asset type"
	// ErrWrongAssetType appears when a trade request is confirmed
	// against a policy for another asset type.
	ErrWrongAssetType = "asset type does not match policy"
	// ErrRuleExists appears on duplicate rule registration.
	ErrRuleExists = "rule already registered"
	// ErrRuleNotFound appears when an unregistered rule is referenced.
	ErrRuleNotFound = "rule not registered"
	// ErrPolicyNotSatisfied appears when a trade request does not carry
	// one receipt per registered rule.
	ErrPolicyNotSatisfied = "policy not satisfied"
	// ErrIllegalReceipt appears when a trade request carries a receipt
	// of a rule that is not registered in the policy.
	ErrIllegalReceipt = "illegal rule receipt"
	// ErrNotPublisher appears when a policy for an asset type is created
	// without the witness of the type's recorded publisher.
	ErrNotPublisher = "not the asset type publisher"

	// ErrRequestNotFound appears when a referenced trade request does
	// not exist.
	ErrRequestNotFound = "trade request not found"
	// ErrReceiptExists appears when a rule posts its receipt twice on
	// the same trade request.
	ErrReceiptExists = "receipt already collected"

	// ErrExtNotInstalled appears when an extension acts on a kiosk it is
	// not installed in.
	ErrExtNotInstalled = "extension not installed"
	// ErrExtInstalled appears on double installation of an extension.
	ErrExtInstalled = "extension already installed"
	// ErrExtDisabled appears when a disabled extension performs a
	// protected action.
	ErrExtDisabled = "extension disabled"
	// ErrExtPermission appears when an extension acts outside its
	// granted permission bits.
	ErrExtPermission = "extension permission denied"
	// ErrExtNotEmpty appears on removal of an extension with non-empty
	// storage.
	ErrExtNotEmpty = "extension storage is not empty"

	// ErrBorrowNotFound appears when a value is returned without a
	// matching borrow receipt.
	ErrBorrowNotFound = "no matching borrow"
	// ErrBorrowMismatch appears when a returned value does not match
	// the borrow receipt.
	ErrBorrowMismatch = "returned value does not match borrow"
)
