package evidence

import (
	"context"
	"testing"

	"github.com/Ticoworld/veritas/internal/domain"
	"github.com/Ticoworld/veritas/internal/solana"
)

// An exchange hot wallet: signs transactions, so necessarily on-curve.
const onCurveWallet = "5tzFkiKscXHK5ZXCGbXZxdw7gTjjD1mBwuoFbhUvuAi9"

// Raydium AMM v4 authority: a program-derived address, off-curve.
const raydiumAuthority = "5Q544fKrFoe6tsEbD7S8EmxGTJYAKtTVhAW5Q5pge4j1"

func TestIsLikelyPoolOwner_Denylist(t *testing.T) {
	cfg := DefaultHolderConfig()
	if !cfg.IsLikelyPoolOwner(raydiumAuthority) {
		t.Error("denylisted authority should be excluded")
	}
	if cfg.IsLikelyPoolOwner(onCurveWallet) {
		t.Error("regular wallet should be kept")
	}
}

func TestIsLikelyPoolOwner_OffCurveWithoutDenylist(t *testing.T) {
	// Even with an empty denylist the PDA is caught by the curve check.
	cfg := HolderConfig{}
	if !cfg.IsLikelyPoolOwner(raydiumAuthority) {
		t.Error("off-curve owner should be excluded")
	}
}

func TestIsLikelyPoolOwner_AllowOverridesDeny(t *testing.T) {
	cfg := HolderConfig{
		AllowOwner: map[string]bool{raydiumAuthority: true},
		DenyOwner:  map[string]bool{raydiumAuthority: true},
	}
	if cfg.IsLikelyPoolOwner(raydiumAuthority) {
		t.Error("allowlist must override the denylist")
	}
}

func TestIsLikelyPoolOwner_UnresolvedOwnerIsKept(t *testing.T) {
	cfg := DefaultHolderConfig()
	if cfg.IsLikelyPoolOwner("") {
		t.Error("unresolved owner must not be excluded")
	}
}

func TestIsOnCurve(t *testing.T) {
	if !isOnCurve(onCurveWallet) {
		t.Error("signing wallet must be on-curve")
	}
	if isOnCurve(raydiumAuthority) {
		t.Error("PDA must be off-curve")
	}
	if isOnCurve("not-base58-0OIl") {
		t.Error("undecodable address must not be on-curve")
	}
	if isOnCurve("abc") {
		t.Error("short address must not be on-curve")
	}
}

func TestCollectHolders_FiltersPoolAccounts(t *testing.T) {
	facts := &domain.OnChainFacts{Mint: "mint", Supply: 1000}
	ledger := &stubLedger{
		balances: []solana.TokenBalance{
			{Address: "acc-pool", Amount: 500},
			{Address: "acc-user", Amount: 100},
		},
		owners: map[string]string{
			"acc-pool": raydiumAuthority,
			"acc-user": onCurveWallet,
		},
	}

	dist, err := CollectHolders(context.Background(), ledger, facts, DefaultHolderConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dist.Holders) != 1 {
		t.Fatalf("expected 1 holder, got %d", len(dist.Holders))
	}
	if dist.FilteredOut != 1 {
		t.Errorf("expected 1 filtered out, got %d", dist.FilteredOut)
	}
	if dist.Unfiltered {
		t.Error("must not be marked unfiltered")
	}
	h := dist.Holders[0]
	if h.Address != "acc-user" || h.Percent != 10 {
		t.Errorf("unexpected holder: %+v", h)
	}
}

func TestCollectHolders_FallsBackWhenEverythingFiltered(t *testing.T) {
	facts := &domain.OnChainFacts{Mint: "mint", Supply: 1000}
	ledger := &stubLedger{
		balances: []solana.TokenBalance{{Address: "acc-pool", Amount: 500}},
		owners:   map[string]string{"acc-pool": raydiumAuthority},
	}

	dist, err := CollectHolders(context.Background(), ledger, facts, DefaultHolderConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dist.Unfiltered {
		t.Error("expected the unfiltered fallback")
	}
	if len(dist.Holders) != 1 || dist.FilteredOut != 0 {
		t.Errorf("unexpected distribution: %+v", dist)
	}
}

func TestCollectHolders_OwnerResolutionBestEffort(t *testing.T) {
	facts := &domain.OnChainFacts{Mint: "mint", Supply: 1000}
	ledger := &stubLedger{
		balances: []solana.TokenBalance{{Address: "acc", Amount: 250}},
		ownerErr: context.DeadlineExceeded,
	}

	dist, err := CollectHolders(context.Background(), ledger, facts, DefaultHolderConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dist.Holders) != 1 || dist.Holders[0].Owner != "" {
		t.Errorf("holder with unresolved owner should be kept: %+v", dist.Holders)
	}
}

func TestCollectHolders_TopNCap(t *testing.T) {
	facts := &domain.OnChainFacts{Mint: "mint", Supply: 1000}
	var balances []solana.TokenBalance
	for i := 0; i < 30; i++ {
		balances = append(balances, solana.TokenBalance{Address: onCurveWallet, Amount: 1})
	}
	ledger := &stubLedger{balances: balances}

	cfg := HolderConfig{TopN: 20, AllowOwner: map[string]bool{"": true}}
	dist, err := CollectHolders(context.Background(), ledger, facts, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dist.Holders) != 20 {
		t.Errorf("expected 20 holders, got %d", len(dist.Holders))
	}
	if ledger.ownerGets != 20 {
		t.Errorf("expected 20 owner lookups, got %d", ledger.ownerGets)
	}
}
