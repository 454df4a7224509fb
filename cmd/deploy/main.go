// Command deploy deploys the kiosk contract suite to a Neo network using
// pre-compiled contract artifacts.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/neokiosk/kiosk-contract/deploy"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	walletPath := flag.String("wallet", "", "Path to the deployer NEP-6 wallet")
	walletPassword := flag.String("password", "", "Password of the deployer account")
	artifactsDir := flag.String("contracts", "build", "Directory with compiled contract artifacts (<name>.nef, <name>.manifest.json)")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *walletPath == "":
		log.Fatal("missing deployer wallet")
	}

	l, err := zap.NewProduction()
	if err != nil {
		log.Fatal(fmt.Errorf("init logger: %w", err))
	}

	err = run(l, *neoRPCEndpoint, *walletPath, *walletPassword, *artifactsDir)
	if err != nil {
		log.Fatal(err)
	}
}

func run(l *zap.Logger, endpoint, walletPath, password, artifactsDir string) error {
	ctx := context.Background()

	w, err := wallet.NewWalletFromFile(walletPath)
	if err != nil {
		return fmt.Errorf("open deployer wallet: %w", err)
	}

	acc := w.Accounts[0]
	err = acc.Decrypt(password, w.Scrypt)
	if err != nil {
		return fmt.Errorf("unlock deployer account: %w", err)
	}

	c, err := rpcclient.New(ctx, endpoint, rpcclient.Options{})
	if err != nil {
		return fmt.Errorf("create Neo RPC client: %w", err)
	}
	err = c.Init()
	if err != nil {
		return fmt.Errorf("init Neo RPC client: %w", err)
	}

	prm := deploy.Prm{
		Logger:       l,
		Blockchain:   c,
		LocalAccount: acc,
	}

	for _, target := range []struct {
		name string
		dst  *deploy.CommonDeployPrm
	}{
		{"balance", &prm.BalanceContract},
		{"kiosk", &prm.KioskContract},
		{"policy", &prm.PolicyContract},
		{"royalty", &prm.RoyaltyContract},
		{"stamp", &prm.StampContract},
	} {
		*target.dst, err = readContract(artifactsDir, target.name)
		if err != nil {
			return fmt.Errorf("read %s contract artifacts: %w", target.name, err)
		}
	}

	res, err := deploy.Deploy(ctx, prm)
	if err != nil {
		return fmt.Errorf("deploy kiosk suite: %w", err)
	}

	l.Info("kiosk contract suite is on the chain",
		zap.Stringer("balance", res.Balance),
		zap.Stringer("kiosk", res.Kiosk),
		zap.Stringer("policy", res.Policy),
		zap.Stringer("royalty", res.Royalty),
		zap.Stringer("stamp", res.Stamp))

	return nil
}

func readContract(dir, name string) (deploy.CommonDeployPrm, error) {
	rawNEF, err := os.ReadFile(filepath.Join(dir, name+".nef"))
	if err != nil {
		return deploy.CommonDeployPrm{}, fmt.Errorf("read NEF: %w", err)
	}

	f, err := nef.FileFromBytes(rawNEF)
	if err != nil {
		return deploy.CommonDeployPrm{}, fmt.Errorf("parse NEF: %w", err)
	}

	rawManifest, err := os.ReadFile(filepath.Join(dir, name+".manifest.json"))
	if err != nil {
		return deploy.CommonDeployPrm{}, fmt.Errorf("read manifest: %w", err)
	}

	var m manifest.Manifest
	err = json.Unmarshal(rawManifest, &m)
	if err != nil {
		return deploy.CommonDeployPrm{}, fmt.Errorf("parse manifest: %w", err)
	}

	return deploy.CommonDeployPrm{NEF: f, Manifest: m}, nil
}
