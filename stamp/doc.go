/*
Package stamp implements a zero-fee transfer rule contract keeping a
per-asset-type sale tally.

Registered in a transfer policy it forces every sale of the governed
type through Stamp, which increments the tally and adds the rule's
receipt to the trade request. The rule reads no configuration.

# Contract notifications

Stamped notification:

	Stamped:
	  - name: requestID
	    type: ByteArray
	  - name: assetType
	    type: String
*/
package stamp
