package investigator

import "time"

// Nil-safe wrappers around the optional metrics collaborator.

func (inv *Investigator) countInvestigation(lane, outcome string) {
	if inv.metrics != nil {
		inv.metrics.InvestigationsTotal.WithLabelValues(lane, outcome).Inc()
	}
}

func (inv *Investigator) observeDuration(lane string, d time.Duration) {
	if inv.metrics != nil {
		inv.metrics.InvestigationDuration.WithLabelValues(lane).Observe(d.Seconds())
	}
}

func (inv *Investigator) countFastPath() {
	if inv.metrics != nil {
		inv.metrics.FastPathHits.Inc()
	}
}

func (inv *Investigator) countCacheHit() {
	if inv.metrics != nil {
		inv.metrics.CacheHits.Inc()
	}
}

func (inv *Investigator) countCacheMiss() {
	if inv.metrics != nil {
		inv.metrics.CacheMisses.Inc()
	}
}

func (inv *Investigator) countDegraded(collector string) {
	if inv.metrics != nil {
		inv.metrics.CollectorDegraded.WithLabelValues(collector).Inc()
	}
}

func (inv *Investigator) observeOutbound(service string, d time.Duration) {
	if inv.metrics != nil {
		inv.metrics.OutboundLatency.WithLabelValues(service).Observe(d.Seconds())
	}
}

func (inv *Investigator) countScreenshot(provider, status string) {
	if inv.metrics != nil {
		inv.metrics.ScreenshotCaptures.WithLabelValues(provider, status).Inc()
	}
}

func (inv *Investigator) countOffenderFlagged() {
	if inv.metrics != nil {
		inv.metrics.OffendersFlagged.Inc()
	}
}
