// Package evidence holds the independent collectors the investigator
// fans out across. Except for on-chain facts, every collector degrades
// to a nil artifact on failure rather than aborting the investigation.
package evidence

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ticoworld/veritas/internal/domain"
	"github.com/Ticoworld/veritas/internal/solana"
)

// Ledger is the subset of the Solana RPC client the collectors use.
type Ledger interface {
	GetMintAccount(ctx context.Context, mint string) (*solana.MintAccount, error)
	GetTokenLargestAccounts(ctx context.Context, mint string) ([]solana.TokenBalance, error)
	GetTokenAccountOwner(ctx context.Context, address string) (string, error)
	GetSignaturesForAddress(ctx context.Context, address string, opts *solana.SignaturesOpts) ([]solana.SignatureInfo, error)
	GetTransaction(ctx context.Context, signature string) (*solana.Transaction, error)
}

// Compile-time interface check.
var _ Ledger = (*solana.HTTPClient)(nil)

// CollectFacts resolves the mandatory on-chain facts for a mint.
// This is the only collector whose failure is fatal: a missing account
// or an unrecognized token program surfaces domain.ErrAssetNotFound.
func CollectFacts(ctx context.Context, ledger Ledger, mint string) (*domain.OnChainFacts, error) {
	account, err := ledger.GetMintAccount(ctx, mint)
	if err != nil {
		if errors.Is(err, solana.ErrNotTokenMint) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, fmt.Errorf("fetch mint account: %w", err)
	}
	if account == nil {
		return nil, domain.ErrAssetNotFound
	}

	return &domain.OnChainFacts{
		Mint:            mint,
		MintAuthority:   account.MintAuthority,
		FreezeAuthority: account.FreezeAuthority,
		Supply:          account.Supply,
		Decimals:        account.Decimals,
		TokenProgram:    account.Program,
	}, nil
}

// DeriveCreatorProfile computes the per-investigation creator view from
// on-chain facts, the holder distribution and an optional audit deployer
// hint. Returns nil when no creator identity can be established.
func DeriveCreatorProfile(facts *domain.OnChainFacts, dist *domain.HolderDistribution, deployerHint string) *domain.CreatorProfile {
	creator := facts.AuthorityAddress()
	if creator == "" {
		creator = deployerHint
	}
	if creator == "" {
		return nil
	}

	profile := &domain.CreatorProfile{Address: creator}

	// Dumped/Whale are facts of the holder distribution. With the
	// distribution degraded the holding is unknown, and neither flag
	// may fire.
	if dist == nil {
		return profile
	}

	for _, h := range dist.Holders {
		if h.Owner == creator || h.Address == creator {
			profile.Percent += h.Percent
		}
	}
	profile.Dumped = profile.Percent < 1.0
	profile.Whale = profile.Percent > 20.0
	return profile
}
