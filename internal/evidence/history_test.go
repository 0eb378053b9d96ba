package evidence

import (
	"context"
	"fmt"
	"testing"

	"github.com/Ticoworld/veritas/internal/solana"
)

func launchTx(sig, creator, mint string) *solana.Transaction {
	return &solana.Transaction{
		Signature:   sig,
		LogMessages: []string{"Program log: Instruction: InitializeMint"},
		AccountKeys: []string{creator, mint},
	}
}

func TestCollectHistory_CountsPriorLaunches(t *testing.T) {
	ledger := &stubLedger{
		sigs: []solana.SignatureInfo{
			{Signature: "s1"},
			{Signature: "s2"},
			{Signature: "s3"},
		},
		txs: map[string]*solana.Transaction{
			"s1": launchTx("s1", "creator", "mintA"),
			"s2": launchTx("s2", "creator", "mintB"),
			"s3": {Signature: "s3", LogMessages: []string{"Program log: Instruction: Transfer"}, AccountKeys: []string{"creator", "x"}},
		},
	}

	history, err := CollectHistory(context.Background(), ledger, "creator", "subject")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if history.PriorTokens != 2 {
		t.Errorf("expected 2 prior tokens, got %d", history.PriorTokens)
	}
	if !history.SerialLauncher {
		t.Error("two prior launches should flag a serial launcher")
	}
}

func TestCollectHistory_ExcludesSubjectMint(t *testing.T) {
	ledger := &stubLedger{
		sigs: []solana.SignatureInfo{{Signature: "s1"}},
		txs: map[string]*solana.Transaction{
			"s1": launchTx("s1", "creator", "subject"),
		},
	}

	history, err := CollectHistory(context.Background(), ledger, "creator", "subject")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if history.PriorTokens != 0 || history.SerialLauncher {
		t.Errorf("subject's own launch must not count: %+v", history)
	}
}

func TestCollectHistory_DeduplicatesMints(t *testing.T) {
	ledger := &stubLedger{
		sigs: []solana.SignatureInfo{{Signature: "s1"}, {Signature: "s2"}},
		txs: map[string]*solana.Transaction{
			"s1": launchTx("s1", "creator", "mintA"),
			"s2": launchTx("s2", "creator", "mintA"),
		},
	}

	history, _ := CollectHistory(context.Background(), ledger, "creator", "subject")
	if history.PriorTokens != 1 {
		t.Errorf("duplicate mint should count once, got %d", history.PriorTokens)
	}
}

func TestCollectHistory_SkipsFailedSignatures(t *testing.T) {
	ledger := &stubLedger{
		sigs: []solana.SignatureInfo{
			{Signature: "s1", Err: map[string]any{"InstructionError": 0}},
			{Signature: "s2"},
		},
		txs: map[string]*solana.Transaction{
			"s1": launchTx("s1", "creator", "mintA"),
			"s2": launchTx("s2", "creator", "mintB"),
		},
	}

	history, _ := CollectHistory(context.Background(), ledger, "creator", "subject")
	if history.PriorTokens != 1 || history.Mints[0] != "mintB" {
		t.Errorf("failed tx must be skipped: %+v", history)
	}
	if ledger.txGets != 1 {
		t.Errorf("failed signatures must not be fetched, got %d fetches", ledger.txGets)
	}
}

func TestCollectHistory_CapsTransactionFetches(t *testing.T) {
	var sigs []solana.SignatureInfo
	txs := make(map[string]*solana.Transaction)
	for i := 0; i < HistorySignatureLimit; i++ {
		sig := fmt.Sprintf("s%d", i)
		sigs = append(sigs, solana.SignatureInfo{Signature: sig})
		txs[sig] = launchTx(sig, "creator", fmt.Sprintf("mint%d", i))
	}
	ledger := &stubLedger{sigs: sigs, txs: txs}

	history, _ := CollectHistory(context.Background(), ledger, "creator", "subject")
	if ledger.txGets != HistoryTxFetchLimit {
		t.Errorf("expected %d fetches, got %d", HistoryTxFetchLimit, ledger.txGets)
	}
	if history.PriorTokens != HistoryTxFetchLimit {
		t.Errorf("expected %d mints, got %d", HistoryTxFetchLimit, history.PriorTokens)
	}
}

func TestCollectHistory_FeePayerMustBeCreator(t *testing.T) {
	ledger := &stubLedger{
		sigs: []solana.SignatureInfo{{Signature: "s1"}},
		txs: map[string]*solana.Transaction{
			"s1": launchTx("s1", "someone-else", "mintA"),
		},
	}

	history, _ := CollectHistory(context.Background(), ledger, "creator", "subject")
	if history.PriorTokens != 0 {
		t.Errorf("launch paid by another wallet must not count: %+v", history)
	}
}

func TestCollectHistory_EmptyCreator(t *testing.T) {
	history, err := CollectHistory(context.Background(), &stubLedger{}, "", "subject")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if history.PriorTokens != 0 || history.SerialLauncher {
		t.Errorf("empty creator yields empty history: %+v", history)
	}
}
