package evidence

import (
	"context"
	"strings"

	"github.com/Ticoworld/veritas/internal/domain"
	"github.com/Ticoworld/veritas/internal/solana"
)

// History scan bounds. The scan is best-effort: it looks at the
// creator's most recent activity only, never the full history.
const (
	HistorySignatureLimit = 50
	HistoryTxFetchLimit   = 25
	serialLauncherFloor   = 2
)

// Log signatures that mark a token creation by the scanned address.
var mintCreationMarkers = []string{
	"Program log: Instruction: InitializeMint",
	"Program log: Instruction: InitializeMint2",
	"Program log: Instruction: Create", // pump.fun launch
}

// CollectHistory scans the creator's recent transactions for prior token
// launches, most-recent-first with capped depth, deduplicating by the
// created mint address. The subject's own mint is not counted. Any
// failure yields zero history; callers treat that as degraded evidence.
func CollectHistory(ctx context.Context, ledger Ledger, creator, subjectMint string) (*domain.CreatorHistory, error) {
	history := &domain.CreatorHistory{Creator: creator}
	if creator == "" {
		return history, nil
	}

	sigs, err := ledger.GetSignaturesForAddress(ctx, creator, &solana.SignaturesOpts{
		Limit: HistorySignatureLimit,
	})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	fetched := 0
	for _, sig := range sigs {
		if fetched >= HistoryTxFetchLimit {
			break
		}
		if sig.Err != nil {
			continue
		}
		fetched++

		tx, err := ledger.GetTransaction(ctx, sig.Signature)
		if err != nil || tx == nil {
			continue
		}
		mint := createdMint(tx, creator)
		if mint == "" || mint == subjectMint || seen[mint] {
			continue
		}
		seen[mint] = true
		history.Mints = append(history.Mints, mint)
	}

	history.PriorTokens = len(history.Mints)
	history.SerialLauncher = history.PriorTokens >= serialLauncherFloor
	return history, nil
}

// createdMint returns the mint account created in tx, or "" when the
// transaction is not a token launch. By convention the fee payer is the
// first account key and the new mint the second.
func createdMint(tx *solana.Transaction, creator string) string {
	matched := false
	for _, log := range tx.LogMessages {
		for _, marker := range mintCreationMarkers {
			if strings.Contains(log, marker) {
				matched = true
				break
			}
		}
		if matched {
			break
		}
	}
	if !matched {
		return ""
	}
	if len(tx.AccountKeys) < 2 || tx.AccountKeys[0] != creator {
		return ""
	}
	return tx.AccountKeys[1]
}
