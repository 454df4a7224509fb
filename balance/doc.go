/*
Package balance implements the settlement token contract of the kiosk
suite.

Balance contract stores settlement credit balances of all market
participants. It is a NEP-17 compatible contract, so it can be tracked
and controlled by N3 compatible network monitors and wallet software.

Every sale through a kiosk and every rule fee is paid in this token. The
kiosk and policy contracts hold accumulated proceeds on their own
accounts here and move them out on withdrawal. Committee mints and burns
credits to bootstrap test networks and deployments.

# Contract notifications

Transfer notification. This is a NEP-17 standard notification.

	Transfer:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer

Mint notification.

	Mint:
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer

Burn notification.

	Burn:
	  - name: from
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package balance
