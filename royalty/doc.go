/*
Package royalty implements a transfer rule contract charging a
percentage fee on every sale.

The rule is registered in a transfer policy with a Config carrying the
fee share in basis points and a minimum amount. Pay reads the pending
trade from the kiosk contract, collects the fee from the payer into the
policy balance and adds this rule's receipt to the trade request. A
configuration yielding a zero fee still stamps the receipt.

# Contract notifications

RoyaltyPaid notification:

	RoyaltyPaid:
	  - name: policyID
	    type: ByteArray
	  - name: requestID
	    type: ByteArray
	  - name: fee
	    type: Integer
*/
package royalty
