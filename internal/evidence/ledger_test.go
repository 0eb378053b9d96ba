package evidence

import (
	"context"
	"errors"
	"testing"

	"github.com/Ticoworld/veritas/internal/domain"
	"github.com/Ticoworld/veritas/internal/solana"
)

// stubLedger is a scripted Ledger for collector tests.
type stubLedger struct {
	mint      *solana.MintAccount
	mintErr   error
	balances  []solana.TokenBalance
	owners    map[string]string
	ownerErr  error
	sigs      []solana.SignatureInfo
	sigsErr   error
	txs       map[string]*solana.Transaction
	txErr     error
	ownerGets int
	txGets    int
}

func (s *stubLedger) GetMintAccount(ctx context.Context, mint string) (*solana.MintAccount, error) {
	return s.mint, s.mintErr
}

func (s *stubLedger) GetTokenLargestAccounts(ctx context.Context, mint string) ([]solana.TokenBalance, error) {
	return s.balances, nil
}

func (s *stubLedger) GetTokenAccountOwner(ctx context.Context, address string) (string, error) {
	s.ownerGets++
	if s.ownerErr != nil {
		return "", s.ownerErr
	}
	return s.owners[address], nil
}

func (s *stubLedger) GetSignaturesForAddress(ctx context.Context, address string, opts *solana.SignaturesOpts) ([]solana.SignatureInfo, error) {
	return s.sigs, s.sigsErr
}

func (s *stubLedger) GetTransaction(ctx context.Context, signature string) (*solana.Transaction, error) {
	s.txGets++
	if s.txErr != nil {
		return nil, s.txErr
	}
	return s.txs[signature], nil
}

func strPtr(s string) *string { return &s }

func TestCollectFacts_MapsMintAccount(t *testing.T) {
	ledger := &stubLedger{
		mint: &solana.MintAccount{
			MintAuthority: strPtr("auth"),
			Supply:        1000,
			Decimals:      6,
			Program:       solana.TokenProgram,
		},
	}

	facts, err := CollectFacts(context.Background(), ledger, "mint")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if facts.Mint != "mint" || facts.Supply != 1000 || facts.Decimals != 6 {
		t.Errorf("unexpected facts: %+v", facts)
	}
	if facts.MintAuthority == nil || *facts.MintAuthority != "auth" {
		t.Error("mint authority not carried over")
	}
}

func TestCollectFacts_MissingAccountIsNotFound(t *testing.T) {
	ledger := &stubLedger{mint: nil}
	_, err := CollectFacts(context.Background(), ledger, "mint")
	if !errors.Is(err, domain.ErrAssetNotFound) {
		t.Errorf("expected ErrAssetNotFound, got %v", err)
	}
}

func TestCollectFacts_WrongProgramIsNotFound(t *testing.T) {
	ledger := &stubLedger{mintErr: solana.ErrNotTokenMint}
	_, err := CollectFacts(context.Background(), ledger, "mint")
	if !errors.Is(err, domain.ErrAssetNotFound) {
		t.Errorf("expected ErrAssetNotFound, got %v", err)
	}
}

func TestCollectFacts_RPCErrorSurfaces(t *testing.T) {
	ledger := &stubLedger{mintErr: errors.New("rpc down")}
	_, err := CollectFacts(context.Background(), ledger, "mint")
	if err == nil || errors.Is(err, domain.ErrAssetNotFound) {
		t.Errorf("expected transport error, got %v", err)
	}
}

func TestDeriveCreatorProfile_UsesMintAuthority(t *testing.T) {
	facts := &domain.OnChainFacts{MintAuthority: strPtr("creator")}
	dist := &domain.HolderDistribution{
		Holders: []domain.Holder{
			{Owner: "creator", Percent: 15},
			{Owner: "creator", Percent: 10},
			{Owner: "other", Percent: 5},
		},
	}

	profile := DeriveCreatorProfile(facts, dist, "")
	if profile == nil {
		t.Fatal("expected a profile")
	}
	if profile.Address != "creator" || profile.Percent != 25 {
		t.Errorf("unexpected profile: %+v", profile)
	}
	if !profile.Whale || profile.Dumped {
		t.Errorf("25%% holding should read as whale, not dumped: %+v", profile)
	}
}

func TestDeriveCreatorProfile_FallsBackToDeployerHint(t *testing.T) {
	facts := &domain.OnChainFacts{}
	dist := &domain.HolderDistribution{
		Holders: []domain.Holder{{Owner: "other", Percent: 30}},
	}

	profile := DeriveCreatorProfile(facts, dist, "deployer")
	if profile == nil || profile.Address != "deployer" {
		t.Fatalf("expected deployer profile, got %+v", profile)
	}
	if !profile.Dumped {
		t.Error("zero holding should read as dumped")
	}
}

func TestDeriveCreatorProfile_DegradedHoldersLeaveHoldingUnknown(t *testing.T) {
	facts := &domain.OnChainFacts{MintAuthority: strPtr("creator")}

	profile := DeriveCreatorProfile(facts, nil, "")
	if profile == nil || profile.Address != "creator" {
		t.Fatalf("expected creator profile, got %+v", profile)
	}
	if profile.Dumped || profile.Whale {
		t.Errorf("unknown holding must not fire dumped or whale: %+v", profile)
	}
	if profile.Percent != 0 {
		t.Errorf("expected zero percent, got %f", profile.Percent)
	}
}

func TestDeriveCreatorProfile_NoIdentity(t *testing.T) {
	if p := DeriveCreatorProfile(&domain.OnChainFacts{}, nil, ""); p != nil {
		t.Errorf("expected nil profile, got %+v", p)
	}
}

func TestDeriveCreatorProfile_MatchesTokenAccountAddress(t *testing.T) {
	facts := &domain.OnChainFacts{FreezeAuthority: strPtr("creator")}
	dist := &domain.HolderDistribution{
		Holders: []domain.Holder{{Address: "creator", Percent: 2}},
	}
	profile := DeriveCreatorProfile(facts, dist, "")
	if profile.Percent != 2 {
		t.Errorf("expected 2%%, got %f", profile.Percent)
	}
}
