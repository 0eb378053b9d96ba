package investigator

import (
	"context"
	"errors"
	"time"

	"github.com/Ticoworld/veritas/internal/cache"
	"github.com/Ticoworld/veritas/internal/domain"
	"github.com/Ticoworld/veritas/internal/evidence"
)

// fetchFacts resolves the subject's mint account. Shared between lanes
// through the dedup layer; the only collector whose failure is fatal.
func (inv *Investigator) fetchFacts(ctx context.Context, mint string) (*domain.OnChainFacts, error) {
	v, err := inv.dedup.Do(ctx, "facts:"+mint, inv.evidenceTTL, func(ctx context.Context) (any, error) {
		start := time.Now()
		facts, err := evidence.CollectFacts(ctx, inv.ledger, mint)
		inv.observeOutbound("rpc", time.Since(start))
		if err != nil {
			return nil, err
		}
		return facts, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.OnChainFacts), nil
}

// fetchMarket returns the market snapshot, or nil when the aggregator
// has no pair or the fetch fails. A nil-for-no-pair outcome is cached;
// fetch failures are not.
func (inv *Investigator) fetchMarket(ctx context.Context, mint string) *domain.MarketSnapshot {
	v, err := inv.dedup.Do(ctx, "market:"+mint, inv.evidenceTTL, func(ctx context.Context) (any, error) {
		ctx, cancel := context.WithTimeout(ctx, marketTimeout)
		defer cancel()

		start := time.Now()
		snapshot, err := inv.market.Snapshot(ctx, mint)
		inv.observeOutbound("market", time.Since(start))
		if err != nil {
			return nil, err
		}
		return snapshot, nil
	})
	if err != nil {
		inv.logf("market fetch failed for %s: %v", mint, err)
		inv.countDegraded("market")
		return nil
	}
	snapshot, _ := v.(*domain.MarketSnapshot)
	return snapshot
}

// fetchAudit returns the contract-risk report. 404 comes back as a
// cached nil (the auditor does not know the token); 429 comes back as
// an uncached nil so the next investigation retries; other failures are
// cached as nil for the evidence window to spare a struggling upstream.
func (inv *Investigator) fetchAudit(ctx context.Context, mint string) *domain.AuditReport {
	v, err := inv.dedup.Do(ctx, "audit:"+mint, inv.evidenceTTL, func(ctx context.Context) (any, error) {
		ctx, cancel := context.WithTimeout(ctx, auditTimeout)
		defer cancel()

		start := time.Now()
		report, err := inv.audit.Report(ctx, mint)
		inv.observeOutbound("audit", time.Since(start))
		if errors.Is(err, evidence.ErrRateLimited) {
			inv.logf("audit rate limited for %s", mint)
			return (*domain.AuditReport)(nil), cache.ErrNoStore
		}
		if err != nil {
			inv.logf("audit fetch failed for %s: %v", mint, err)
			return (*domain.AuditReport)(nil), nil
		}
		return report, nil
	})
	if err != nil {
		inv.countDegraded("audit")
		return nil
	}
	report, _ := v.(*domain.AuditReport)
	if report == nil {
		inv.countDegraded("audit")
	}
	return report
}

// fetchHolders resolves the top holder accounts and their pool-filtered
// distribution.
func (inv *Investigator) fetchHolders(ctx context.Context, facts *domain.OnChainFacts) *domain.HolderDistribution {
	v, err := inv.dedup.Do(ctx, "holders:"+facts.Mint, inv.evidenceTTL, func(ctx context.Context) (any, error) {
		ctx, cancel := context.WithTimeout(ctx, holdersTimeout)
		defer cancel()

		start := time.Now()
		dist, err := evidence.CollectHolders(ctx, inv.ledger, facts, inv.holderCfg)
		inv.observeOutbound("rpc", time.Since(start))
		if err != nil {
			return nil, err
		}
		return dist, nil
	})
	if err != nil {
		inv.logf("holder fetch failed for %s: %v", facts.Mint, err)
		inv.countDegraded("holders")
		return nil
	}
	dist, _ := v.(*domain.HolderDistribution)
	return dist
}

// fetchVisual captures a screenshot of the project website. Any failure
// means the investigation proceeds without visual evidence.
func (inv *Investigator) fetchVisual(ctx context.Context, pageURL string) *domain.VisualEvidence {
	v, err := inv.dedup.Do(ctx, "visual:"+pageURL, inv.evidenceTTL, func(ctx context.Context) (any, error) {
		start := time.Now()
		ev, err := inv.capturer.Capture(ctx, pageURL)
		inv.observeOutbound("screenshot", time.Since(start))
		if err != nil {
			return nil, err
		}
		inv.countScreenshot(ev.Provider, "ok")
		return ev, nil
	})
	if err != nil {
		inv.logf("screenshot failed for %s: %v", pageURL, err)
		inv.countScreenshot("", "error")
		inv.countDegraded("visual")
		return nil
	}
	ev, _ := v.(*domain.VisualEvidence)
	return ev
}

// fetchHistory scans the creator's recent transactions for prior token
// launches.
func (inv *Investigator) fetchHistory(ctx context.Context, creator, mint string) *domain.CreatorHistory {
	v, err := inv.dedup.Do(ctx, "history:"+creator, inv.evidenceTTL, func(ctx context.Context) (any, error) {
		ctx, cancel := context.WithTimeout(ctx, historyTimeout)
		defer cancel()

		start := time.Now()
		history, err := evidence.CollectHistory(ctx, inv.ledger, creator, mint)
		inv.observeOutbound("rpc", time.Since(start))
		if err != nil {
			return nil, err
		}
		return history, nil
	})
	if err != nil {
		inv.logf("history scan failed for %s: %v", creator, err)
		inv.countDegraded("history")
		return nil
	}
	history, _ := v.(*domain.CreatorHistory)
	return history
}
