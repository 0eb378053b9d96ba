package evidence

import (
	"context"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"

	"github.com/Ticoworld/veritas/internal/domain"
)

// knownPoolOwners are AMM vault authorities whose token accounts must
// never count toward holder concentration.
var knownPoolOwners = map[string]bool{
	// Raydium AMM v4 authority
	"5Q544fKrFoe6tsEbD7S8EmxGTJYAKtTVhAW5Q5pge4j1": true,
	// Raydium CPMM authority
	"GpMZbSM2GgvTKHJirzeGfMFoaZ8UR2X7F4v8vHTvxFbL": true,
	// pump.fun bonding curve program
	"6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P": true,
}

// HolderConfig tunes the liquidity-pool exclusion predicate.
// Allow overrides deny: an allowed owner is always kept.
type HolderConfig struct {
	TopN       int
	AllowOwner map[string]bool
	DenyOwner  map[string]bool
}

// DefaultHolderConfig returns the production exclusion lists.
func DefaultHolderConfig() HolderConfig {
	return HolderConfig{
		TopN:      20,
		DenyOwner: knownPoolOwners,
	}
}

// IsLikelyPoolOwner reports whether a holder's owner account looks like
// a liquidity-pool authority: explicitly denylisted, or off the ed25519
// curve (program-derived addresses cannot be user wallets).
func (c HolderConfig) IsLikelyPoolOwner(owner string) bool {
	if owner == "" {
		return false
	}
	if c.AllowOwner[owner] {
		return false
	}
	if c.DenyOwner[owner] {
		return true
	}
	return !isOnCurve(owner)
}

// isOnCurve reports whether a base58 address decodes to a valid ed25519
// curve point. PDAs are constructed to fail this check.
func isOnCurve(address string) bool {
	decoded, err := base58.Decode(address)
	if err != nil || len(decoded) != 32 {
		return false
	}
	_, err = new(edwards25519.Point).SetBytes(decoded)
	return err == nil
}

// CollectHolders fetches the top holder accounts, resolves their owning
// wallets and filters likely liquidity-pool entries. Percentages derive
// from the single supply figure in facts. When filtering would drop
// every holder, the unfiltered set is returned with Unfiltered set.
func CollectHolders(ctx context.Context, ledger Ledger, facts *domain.OnChainFacts, cfg HolderConfig) (*domain.HolderDistribution, error) {
	balances, err := ledger.GetTokenLargestAccounts(ctx, facts.Mint)
	if err != nil {
		return nil, fmt.Errorf("fetch largest accounts: %w", err)
	}
	if cfg.TopN > 0 && len(balances) > cfg.TopN {
		balances = balances[:cfg.TopN]
	}

	all := make([]domain.Holder, 0, len(balances))
	for _, b := range balances {
		// Owner resolution is best-effort; an unresolved owner keeps
		// the holder in the distribution.
		owner, err := ledger.GetTokenAccountOwner(ctx, b.Address)
		if err != nil {
			owner = ""
		}
		var percent float64
		if facts.Supply > 0 {
			percent = float64(b.Amount) / float64(facts.Supply) * 100
		}
		all = append(all, domain.Holder{
			Address: b.Address,
			Owner:   owner,
			Balance: b.Amount,
			Percent: percent,
		})
	}

	filtered := make([]domain.Holder, 0, len(all))
	for _, h := range all {
		if cfg.IsLikelyPoolOwner(h.Owner) {
			continue
		}
		filtered = append(filtered, h)
	}

	dist := &domain.HolderDistribution{
		Holders:     filtered,
		FilteredOut: len(all) - len(filtered),
	}
	if len(filtered) == 0 && len(all) > 0 {
		dist.Holders = all
		dist.FilteredOut = 0
		dist.Unfiltered = true
	}
	return dist, nil
}
