// Package deploy provides the deployment procedure of the kiosk contract
// suite to a Neo blockchain network.
package deploy

import (
	"context"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for the deployment of the kiosk contract suite.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to the
	// blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by its
	// address. GetContractStateByHash returns error with 'Unknown contract'
	// substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// CommonDeployPrm groups common deployment parameters of a smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// Prm groups all parameters of the kiosk suite deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance the suite is deployed to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	// The resulting contract addresses are a function of this account, so
	// re-running the procedure with the same account and artifacts is
	// idempotent.
	LocalAccount *wallet.Account

	BalanceContract CommonDeployPrm
	KioskContract   CommonDeployPrm
	PolicyContract  CommonDeployPrm
	RoyaltyContract CommonDeployPrm
	StampContract   CommonDeployPrm
}

// Contracts carries the on-chain addresses of the deployed kiosk suite.
type Contracts struct {
	Balance util.Uint160
	Kiosk   util.Uint160
	Policy  util.Uint160
	Royalty util.Uint160
	Stamp   util.Uint160
}

// Deploy deploys the kiosk contract suite represented by given Prm to the
// Neo network.
//
// The kiosk and policy contracts reference each other, so all addresses are
// precomputed from the deployer account and the contract artifacts, wired in
// as deployment arguments, and only then deployed. Contracts already present
// on the chain under their computed address are skipped, which makes the
// procedure restartable. Deployment progress is logged in detail.
func Deploy(ctx context.Context, prm Prm) (Contracts, error) {
	act, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return Contracts{}, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	sender := prm.LocalAccount.ScriptHash()

	res := Contracts{
		Balance: contractAddress(sender, prm.BalanceContract),
		Kiosk:   contractAddress(sender, prm.KioskContract),
		Policy:  contractAddress(sender, prm.PolicyContract),
		Royalty: contractAddress(sender, prm.RoyaltyContract),
		Stamp:   contractAddress(sender, prm.StampContract),
	}

	mgmt := management.New(act)

	order := []struct {
		prm  CommonDeployPrm
		addr util.Uint160
		data any
	}{
		{prm.BalanceContract, res.Balance, nil},
		{prm.KioskContract, res.Kiosk, []any{res.Policy, res.Balance}},
		{prm.PolicyContract, res.Policy, []any{res.Kiosk, res.Balance}},
		{prm.RoyaltyContract, res.Royalty, []any{res.Kiosk, res.Policy}},
		{prm.StampContract, res.Stamp, res.Kiosk},
	}

	for i := range order {
		err = syncContract(ctx, syncContractPrm{
			logger:     prm.Logger,
			blockchain: prm.Blockchain,
			actor:      act,
			mgmt:       mgmt,
			deployPrm:  order[i].prm,
			address:    order[i].addr,
			deployData: order[i].data,
		})
		if err != nil {
			return Contracts{}, fmt.Errorf("sync %s contract with the chain: %w", order[i].prm.Manifest.Name, err)
		}
	}

	return res, nil
}

type syncContractPrm struct {
	logger     *zap.Logger
	blockchain Blockchain
	actor      *actor.Actor
	mgmt       *management.Contract
	deployPrm  CommonDeployPrm
	address    util.Uint160
	deployData any
}

func syncContract(ctx context.Context, prm syncContractPrm) error {
	l := prm.logger.With(zap.String("contract", prm.deployPrm.Manifest.Name),
		zap.Stringer("address", prm.address))

	onChainState, err := prm.blockchain.GetContractStateByHash(prm.address)
	if err != nil && !isErrContractNotFound(err) {
		return fmt.Errorf("read on-chain state of the contract: %w", err)
	}

	if onChainState != nil {
		l.Info("contract is already on the chain, skip deployment")
		return nil
	}

	l.Info("contract is missing on the chain, deploying...")

	txHash, vub, err := prm.mgmt.Deploy(&prm.deployPrm.NEF, &prm.deployPrm.Manifest, prm.deployData)
	if err != nil {
		return fmt.Errorf("send deployment transaction: %w", err)
	}

	res, err := prm.actor.Wait(txHash, vub, nil)
	if err != nil {
		return fmt.Errorf("wait for deployment transaction %s: %w", txHash.StringLE(), err)
	}

	if res.VMState != vmstate.Halt {
		return fmt.Errorf("deployment transaction %s failed: %s", txHash.StringLE(), res.FaultException)
	}

	l.Info("contract successfully deployed", zap.Stringer("tx", txHash))

	return nil
}

func contractAddress(sender util.Uint160, prm CommonDeployPrm) util.Uint160 {
	return state.CreateContractHash(sender, prm.NEF.Checksum, prm.Manifest.Name)
}

func isErrContractNotFound(err error) bool {
	return strings.Contains(err.Error(), "Unknown contract")
}
