/*
Package policy implements the transfer policy contract of the kiosk
suite.

A policy governs one asset type. The first policy created for a type
binds the type to its witnessed publisher, and only that publisher can
create further policies for it. The policy capability minted at
creation gates rule management, fee withdrawal and destruction.

Registered rules are transfer rule contracts identified by script hash,
each with an opaque stored configuration. A sale escrowed in the kiosk
contract is authorized through Confirm: the trade request's receipt set
must exactly match the registered rule set, then the policy contract
calls back into the kiosk to finish the trade and release the asset.
Rules post their fees into the policy balance via AddToBalance; the
call itself is the rule's proof of identity.

# Contract notifications

PolicyCreated notification:

	PolicyCreated:
	  - name: policyID
	    type: ByteArray
	  - name: assetType
	    type: String

PolicyDestroyed notification:

	PolicyDestroyed:
	  - name: policyID
	    type: ByteArray

RuleAdded notification:

	RuleAdded:
	  - name: policyID
	    type: ByteArray
	  - name: rule
	    type: Hash160

RuleRemoved notification:

	RuleRemoved:
	  - name: policyID
	    type: ByteArray
	  - name: rule
	    type: Hash160

TradeConfirmed notification:

	TradeConfirmed:
	  - name: policyID
	    type: ByteArray
	  - name: kioskID
	    type: ByteArray
	  - name: assetID
	    type: ByteArray
	  - name: paid
	    type: Integer
*/
package policy
