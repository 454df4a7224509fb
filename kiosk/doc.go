/*
Package kiosk implements the custody container contract of the kiosk
suite.

A kiosk holds arbitrary typed assets on behalf of one owner. The single
owner capability minted at creation is the only key accepted by mutating
operations; it is transferable, and a capability bound to another kiosk
is always rejected. Per asset the contract tracks an optional lock flag
(the asset can only leave through a sale) and at most one listing, open
or exclusive.

An open listing is bought by anyone paying the exact price via Purchase.
An exclusive listing mints a purchase capability, a transferable right
to buy that one asset at or above a floor price. Either purchase path
escrows the asset into a trade request holding the payment and the
receipts collected from transfer rule contracts. The trade request has
exactly two fates: FinishTrade, invoked by the policy contract after it
verified that the receipt set matches the registered rule set, which
turns the escrowed payment into withdrawable kiosk profits, and
AbortTrade, invoked by the buyer, which refunds the escrowed payment
and restores the kiosk to its pre-purchase state (fees already taken by
transfer rules stay with their policies). This pair realizes the
must-be-consumed discipline of a sale on top of persistent storage.

Extensions are delegate contracts installed per kiosk with an immutable
permission set. A disabled extension keeps access to its private storage
but loses its write surface into the kiosk.

Payments settle in the suite's balance contract; kiosk proceeds are held
on the kiosk contract account and tracked per kiosk.

# Contract notifications

KioskCreated notification:

	KioskCreated:
	  - name: kioskID
	    type: ByteArray
	  - name: owner
	    type: Hash160

KioskClosed notification:

	KioskClosed:
	  - name: kioskID
	    type: ByteArray
	  - name: owner
	    type: Hash160

ItemListed notification:

	ItemListed:
	  - name: kioskID
	    type: ByteArray
	  - name: assetID
	    type: ByteArray
	  - name: price
	    type: Integer

ItemDelisted notification:

	ItemDelisted:
	  - name: kioskID
	    type: ByteArray
	  - name: assetID
	    type: ByteArray

ItemPurchased notification:

	ItemPurchased:
	  - name: kioskID
	    type: ByteArray
	  - name: assetID
	    type: ByteArray
	  - name: price
	    type: Integer

TradeAborted notification:

	TradeAborted:
	  - name: kioskID
	    type: ByteArray
	  - name: assetID
	    type: ByteArray
*/
package kiosk
