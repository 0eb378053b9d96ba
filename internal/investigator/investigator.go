// Package investigator coordinates a token investigation end to end.
// Phases: cache check → subject validation → on-chain facts →
// known-offender fast path → evidence fan-out → creator profile →
// visual/history fan-out → AI judgment → score blend → registry
// write-back → cache.
package investigator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Ticoworld/veritas/internal/cache"
	"github.com/Ticoworld/veritas/internal/domain"
	"github.com/Ticoworld/veritas/internal/evidence"
	"github.com/Ticoworld/veritas/internal/judgment"
	"github.com/Ticoworld/veritas/internal/observability"
	"github.com/Ticoworld/veritas/internal/scoring"
	"github.com/Ticoworld/veritas/internal/storage"
)

// Lanes. The quick lane serves the prompt numeric-only response; the
// full lane adds visual evidence and the AI judgment.
const (
	laneQuick = "quick"
	laneFull  = "full"
)

// Default TTLs and timeouts.
const (
	DefaultResultTTL   = 5 * time.Minute
	DefaultEvidenceTTL = 90 * time.Second

	marketTimeout  = 8 * time.Second
	auditTimeout   = 5 * time.Second
	holdersTimeout = 15 * time.Second
	historyTimeout = 20 * time.Second
	judgeTimeout   = 60 * time.Second
)

// MarketSource fetches a market snapshot for a mint.
type MarketSource interface {
	Snapshot(ctx context.Context, mint string) (*domain.MarketSnapshot, error)
}

// AuditSource fetches a contract-risk report for a mint.
type AuditSource interface {
	Report(ctx context.Context, mint string) (*domain.AuditReport, error)
}

// Compile-time interface checks against the production clients.
var (
	_ MarketSource = (*evidence.MarketClient)(nil)
	_ AuditSource  = (*evidence.AuditClient)(nil)
)

// Options for creating an Investigator.
type Options struct {
	// Required collaborators
	Ledger    evidence.Ledger
	Market    MarketSource
	Audit     AuditSource
	Engine    judgment.Engine
	Offenders storage.OffenderStore

	// Optional collaborators
	Capturer evidence.Capturer      // nil disables visual evidence
	Archive  storage.VerdictArchive // nil disables archiving
	Cache    cache.Cache            // nil creates a default TTLCache
	Metrics  *observability.Metrics // nil disables metrics

	// Policy
	ScoreConfig  *scoring.Config
	HolderConfig *evidence.HolderConfig
	ResultTTL    time.Duration
	EvidenceTTL  time.Duration

	Logger  *log.Logger
	Verbose bool
}

// Investigator runs investigations. Safe for concurrent use; the cache
// and offender registry are the only shared mutable state.
type Investigator struct {
	ledger    evidence.Ledger
	market    MarketSource
	audit     AuditSource
	engine    judgment.Engine
	offenders storage.OffenderStore
	capturer  evidence.Capturer
	archive   storage.VerdictArchive
	metrics   *observability.Metrics

	cache cache.Cache
	dedup *cache.Dedup

	scoreCfg  scoring.Config
	holderCfg evidence.HolderConfig

	resultTTL   time.Duration
	evidenceTTL time.Duration

	logger  *log.Logger
	verbose bool
}

// New creates a new Investigator.
func New(opts Options) *Investigator {
	c := opts.Cache
	if c == nil {
		c = cache.NewTTLCache(cache.DefaultMaxSize)
	}

	scoreCfg := scoring.DefaultConfig()
	if opts.ScoreConfig != nil {
		scoreCfg = *opts.ScoreConfig
	}
	holderCfg := evidence.DefaultHolderConfig()
	if opts.HolderConfig != nil {
		holderCfg = *opts.HolderConfig
	}

	resultTTL := opts.ResultTTL
	if resultTTL <= 0 {
		resultTTL = DefaultResultTTL
	}
	evidenceTTL := opts.EvidenceTTL
	if evidenceTTL <= 0 {
		evidenceTTL = DefaultEvidenceTTL
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Investigator{
		ledger:      opts.Ledger,
		market:      opts.Market,
		audit:       opts.Audit,
		engine:      opts.Engine,
		offenders:   opts.Offenders,
		capturer:    opts.Capturer,
		archive:     opts.Archive,
		metrics:     opts.Metrics,
		cache:       c,
		dedup:       cache.NewDedup(c),
		scoreCfg:    scoreCfg,
		holderCfg:   holderCfg,
		resultTTL:   resultTTL,
		evidenceTTL: evidenceTTL,
		logger:      logger,
		verbose:     opts.Verbose,
	}
}

// Investigate runs the full AI-augmented investigation for a subject.
func (inv *Investigator) Investigate(ctx context.Context, rawSubject string) (*domain.InvestigationResult, error) {
	return inv.investigate(ctx, rawSubject, laneFull)
}

// QuickScan runs the numeric-only lane: on-chain facts, holders, market
// and the deterministic score. No visual capture, no AI call, no
// registry write-back.
func (inv *Investigator) QuickScan(ctx context.Context, rawSubject string) (*domain.InvestigationResult, error) {
	return inv.investigate(ctx, rawSubject, laneQuick)
}

func (inv *Investigator) investigate(ctx context.Context, rawSubject, lane string) (*domain.InvestigationResult, error) {
	mint := strings.TrimSpace(rawSubject)
	resultKey := "result:" + lane + ":" + mint

	// Phase 1: cache check.
	if v, ok := inv.cache.Get(resultKey); ok {
		inv.countCacheHit()
		cached := *(v.(*domain.InvestigationResult))
		cached.FromCache = true
		inv.countInvestigation(lane, "cached")
		return &cached, nil
	}
	inv.countCacheMiss()

	// Phase 2: validate subject identifier; fail fast before any I/O.
	subject, err := domain.NewSubject(mint)
	if err != nil {
		inv.countInvestigation(lane, "invalid")
		return nil, err
	}

	// Concurrent callers of the same lane+subject converge on a single
	// pipeline run; the result is cached for ResultTTL. The run is
	// detached from the initiating caller's cancellation: a disconnect
	// must not fail the other callers sharing the flight, and a started
	// investigation runs to completion. Per-collector timeouts still
	// bound every outbound call.
	runCtx := context.WithoutCancel(ctx)
	v, err := inv.dedup.Do(runCtx, resultKey, inv.resultTTL, func(ctx context.Context) (any, error) {
		return inv.run(ctx, subject, lane)
	})
	if err != nil {
		inv.countInvestigation(lane, "error")
		return nil, err
	}

	result := v.(*domain.InvestigationResult)
	inv.countInvestigation(lane, "ok")
	return result, nil
}

// run executes phases 3-11 for a validated subject.
func (inv *Investigator) run(ctx context.Context, subject domain.Subject, lane string) (*domain.InvestigationResult, error) {
	started := time.Now()
	mint := subject.Mint()
	inv.logf("investigating %s (%s lane)", mint, lane)

	// Phase 3: on-chain facts. The only fatal collector.
	facts, err := inv.fetchFacts(ctx, mint)
	if err != nil {
		return nil, err
	}

	// Phase 4: known-offender fast path.
	if result := inv.fastPath(ctx, facts, started); result != nil {
		inv.countFastPath()
		inv.observeDuration(lane, time.Since(started))
		inv.archiveResult(ctx, result)
		return result, nil
	}

	result := &domain.InvestigationResult{
		Mint:      mint,
		Facts:     facts,
		StartedAt: started,
	}

	// Phase 5: parallel fan-out: market, audit, holders. Siblings are
	// never cancelled by one another; each degrades independently.
	var (
		market  *domain.MarketSnapshot
		audit   *domain.AuditReport
		holders *domain.HolderDistribution
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		market = inv.fetchMarket(gctx, mint)
		return nil
	})
	g.Go(func() error {
		audit = inv.fetchAudit(gctx, mint)
		return nil
	})
	g.Go(func() error {
		holders = inv.fetchHolders(gctx, facts)
		return nil
	})
	_ = g.Wait()
	result.Market = market
	result.Audit = audit
	result.Holders = holders
	if market == nil {
		result.Degraded = append(result.Degraded, "market")
	}
	if audit == nil {
		result.Degraded = append(result.Degraded, "audit")
	}
	if holders == nil {
		result.Degraded = append(result.Degraded, "holders")
	}

	// Phase 6: creator profile.
	var deployerHint string
	if audit != nil {
		deployerHint = audit.DeployerHint
	}
	result.Creator = evidence.DeriveCreatorProfile(facts, holders, deployerHint)

	// Phase 7: parallel fan-out: visual capture (conditional), history.
	if lane == laneFull {
		wantVisual := inv.capturer != nil && market != nil && evidence.IsCapturableWebsite(market.WebsiteURL)
		creatorAddr := ""
		if result.Creator != nil {
			creatorAddr = result.Creator.Address
		}

		var (
			visual  *domain.VisualEvidence
			history *domain.CreatorHistory
		)
		g, gctx = errgroup.WithContext(ctx)
		if wantVisual {
			g.Go(func() error {
				visual = inv.fetchVisual(gctx, market.WebsiteURL)
				return nil
			})
		}
		if creatorAddr != "" {
			g.Go(func() error {
				history = inv.fetchHistory(gctx, creatorAddr, mint)
				return nil
			})
		}
		_ = g.Wait()
		result.Visual = visual
		result.History = history
		if wantVisual && visual == nil {
			result.Degraded = append(result.Degraded, "visual")
		}
		if creatorAddr != "" && history == nil {
			result.Degraded = append(result.Degraded, "history")
		}
	}

	// Phase 9 (first half): deterministic score.
	detScore, reasons := scoring.Score(inv.scoreCfg, scoring.Evidence{
		Facts:   facts,
		Holders: holders,
		Creator: result.Creator,
		Market:  market,
		Audit:   audit,
	})
	result.DeterministicScore = detScore
	result.ScoreReasons = reasons

	if lane == laneQuick {
		result.Score = detScore
		result.Verdict = scoring.VerdictFor(detScore)
		result.Duration = time.Since(started)
		inv.observeDuration(lane, result.Duration)
		return result, nil
	}

	// Phase 8: AI judgment. Failure is fatal; a verdict is never
	// emitted without a reasoned judgment.
	bundle := &judgment.EvidenceBundle{
		Mint:               mint,
		Facts:              facts,
		Holders:            holders,
		Creator:            result.Creator,
		Market:             market,
		Audit:              audit,
		History:            result.History,
		Visual:             result.Visual,
		DeterministicScore: detScore,
		ScoreReasons:       reasons,
	}
	judgeCtx, cancel := context.WithTimeout(ctx, judgeTimeout)
	j, err := inv.engine.Judge(judgeCtx, bundle)
	cancel()
	if err != nil {
		if errors.Is(err, domain.ErrReasoningFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrReasoningFailed, err)
	}
	result.Judgment = j

	// Phase 9 (second half): blend under the ceiling invariant.
	result.Score = scoring.Blend(detScore, j, result.Visual != nil)
	result.Verdict = scoring.VerdictFor(result.Score)

	// Phase 10: registry write-back on the most severe verdict.
	if result.Verdict == domain.VerdictDanger {
		inv.flagOffender(ctx, result)
	}

	// Phase 11: assemble, archive, cache (caching is done by the dedup
	// layer that invoked run).
	result.Duration = time.Since(started)
	inv.observeDuration(lane, result.Duration)
	inv.archiveResult(ctx, result)
	inv.logf("completed %s: score %d verdict %s in %s", mint, result.Score, result.Verdict, result.Duration)
	return result, nil
}

// fastPath checks the offender registry for the token's authority
// address and, on a hit, synthesizes a maximal-severity result without
// running any collector or the AI call.
func (inv *Investigator) fastPath(ctx context.Context, facts *domain.OnChainFacts, started time.Time) *domain.InvestigationResult {
	creator := facts.AuthorityAddress()
	if creator == "" {
		return nil
	}

	record, err := inv.offenders.Get(ctx, creator)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			inv.logf("offender lookup failed for %s: %v", creator, err)
		}
		return nil
	}

	// Re-flag: the repeat detection counts toward the record.
	flagged, err := inv.offenders.Flag(ctx, &domain.OffenderRecord{
		Creator:   creator,
		TokenMint: facts.Mint,
		Verdict:   domain.VerdictDanger,
		Reason:    record.Reason,
	})
	if err != nil {
		inv.logf("offender re-flag failed for %s: %v", creator, err)
		flagged = record
	}

	reason := fmt.Sprintf("creator previously flagged for %s on %s (%d detections)",
		record.TokenMint, record.FirstFlaggedAt.Format("2006-01-02"), flagged.DetectionCount)

	return &domain.InvestigationResult{
		Mint:         facts.Mint,
		Score:        0,
		Verdict:      domain.VerdictDanger,
		Facts:        facts,
		ScoreReasons: []string{reason},
		FastPath:     true,
		Offender:     flagged,
		StartedAt:    started,
		Duration:     time.Since(started),
	}
}

// flagOffender writes the creator to the registry after a DANGER verdict.
func (inv *Investigator) flagOffender(ctx context.Context, result *domain.InvestigationResult) {
	if result.Creator == nil || result.Creator.Address == "" {
		return
	}

	reason := ""
	if result.Judgment != nil {
		reason = result.Judgment.Summary
	}
	if reason == "" && len(result.ScoreReasons) > 0 {
		reason = strings.Join(result.ScoreReasons, "; ")
	}

	flagged, err := inv.offenders.Flag(ctx, &domain.OffenderRecord{
		Creator:   result.Creator.Address,
		TokenMint: result.Mint,
		Verdict:   result.Verdict,
		Reason:    reason,
	})
	if err != nil {
		inv.logf("offender write-back failed for %s: %v", result.Creator.Address, err)
		return
	}
	result.Offender = flagged
	inv.countOffenderFlagged()
}

// archiveResult records the completed investigation, best-effort.
func (inv *Investigator) archiveResult(ctx context.Context, result *domain.InvestigationResult) {
	if inv.archive == nil {
		return
	}

	archived := &storage.ArchivedVerdict{
		Mint:               result.Mint,
		Score:              result.Score,
		Verdict:            string(result.Verdict),
		DeterministicScore: result.DeterministicScore,
		FastPath:           result.FastPath,
		Degraded:           result.Degraded,
		DurationMs:         result.Duration.Milliseconds(),
		InvestigatedAt:     result.StartedAt.UTC(),
	}
	if result.Judgment != nil {
		archived.AIScore = result.Judgment.Score
	}
	if result.Creator != nil {
		archived.Creator = result.Creator.Address
	}

	if err := inv.archive.Insert(ctx, archived); err != nil {
		inv.logf("verdict archive insert failed for %s: %v", result.Mint, err)
	}
}

func (inv *Investigator) logf(format string, args ...interface{}) {
	if inv.verbose {
		inv.logger.Printf("[investigator] "+format, args...)
	}
}
