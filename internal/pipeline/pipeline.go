// Package pipeline orchestrates a run: fetch each configured source,
// locate and classify its entries, aggregate them into a deduplicated
// result set, and flush outputs incrementally so a failed run still
// leaves the sources processed so far on disk.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rmaksimov/founderscout/internal/aggregate"
	"github.com/rmaksimov/founderscout/internal/cache"
	"github.com/rmaksimov/founderscout/internal/export"
	"github.com/rmaksimov/founderscout/internal/extract"
	"github.com/rmaksimov/founderscout/internal/fetch"
	"github.com/rmaksimov/founderscout/internal/model"
	"github.com/rmaksimov/founderscout/internal/refine"
	"github.com/rmaksimov/founderscout/internal/validate"
	"github.com/rmaksimov/founderscout/internal/worker"
)

// Stats summarizes one pipeline run
type Stats struct {
	SourcesProcessed int
	SourcesFailed    int
	CandidatesSeen   int
	RecordsAdded     int
	Filtered         int
	Duration         time.Duration
}

// Result is what a run produces: the final record list plus run stats
type Result struct {
	Records []*model.Record
	Stats   Stats
}

// Pipeline processes sources sequentially. Sources share the fetchers,
// the rate limiter and the result set; the browser keeps one logged-in
// session alive across sources, so there is no cross-source concurrency.
type Pipeline struct {
	cfg            *model.Config
	sources        []model.Source
	regionKeywords []string

	static   fetch.Fetcher
	rendered fetch.Fetcher // Started on first rendered source
	limiter  *worker.Limiter
	refiner  refine.Provider

	log *logrus.Entry
}

// New builds a pipeline from configuration. The browser is not started
// here; a run with only static sources never needs one.
func New(cfg *model.Config, sourceFile *model.SourceFile) (*Pipeline, error) {
	refiner, err := refine.NewProvider(cfg.Refine)
	if err != nil {
		return nil, fmt.Errorf("configure refiner: %w", err)
	}

	var pageCache cache.Cache
	if cfg.Cache.Enabled {
		pageCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.DiskDir, cfg.Cache.DiskTTL)
	}

	return &Pipeline{
		cfg:            cfg,
		sources:        sourceFile.Sources,
		regionKeywords: sourceFile.RegionKeywords,
		static:         fetch.NewStaticFetcher(cfg.HTTP, pageCache),
		limiter:        worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize),
		refiner:        refiner,
		log:            logrus.WithField("component", "pipeline"),
	}, nil
}

// Close releases the fetchers
func (p *Pipeline) Close() error {
	if p.rendered != nil {
		_ = p.rendered.Close()
	}
	return p.static.Close()
}

// Run processes every source in order. A source that fails to fetch is
// logged and skipped; an unavailable fetch engine aborts the run with
// the partial result set already flushed.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	results := aggregate.New()
	stats := Stats{}

	for _, src := range p.sources {
		if p.capReached(results) {
			p.log.WithField("max_results", p.cfg.MaxResults).Info("result cap reached, skipping remaining sources")
			break
		}

		added, seen, err := p.processSource(ctx, src, results)
		stats.CandidatesSeen += seen
		stats.RecordsAdded += added

		if err != nil {
			stats.SourcesFailed++
			if fetch.IsFatal(err) || ctx.Err() != nil {
				_ = p.flush(results.Records())
				stats.Duration = time.Since(start)
				return &Result{Records: results.Records(), Stats: stats}, err
			}
			p.log.WithError(err).WithField("source", src.Label).Warn("source failed, continuing")
			continue
		}

		stats.SourcesProcessed++
		if err := p.flush(results.Records()); err != nil {
			p.log.WithError(err).Warn("incremental flush failed")
		}
	}

	if len(p.regionKeywords) > 0 {
		before := results.Len()
		results = results.Filter(aggregate.KeywordRegion(p.regionKeywords))
		stats.Filtered = before - results.Len()
	}

	records := results.Records()
	refine.Apply(ctx, p.refiner, records)

	if p.cfg.Validation.Enabled {
		validator := validate.NewValidator(p.cfg.Validation, p.cfg.HTTP)
		validator.ValidateRecords(ctx, records)
	}

	if err := p.flush(records); err != nil {
		return nil, fmt.Errorf("write outputs: %w", err)
	}

	stats.Duration = time.Since(start)
	return &Result{Records: records, Stats: stats}, nil
}

// processSource fetches one source and classifies its candidates into
// the shared result set. Returns records added and candidates seen.
func (p *Pipeline) processSource(ctx context.Context, src model.Source, results *aggregate.ResultSet) (int, int, error) {
	log := p.log.WithField("source", src.Label)

	fetcher, err := p.fetcherFor(src.Mode)
	if err != nil {
		return 0, 0, err
	}

	if err := p.limiter.WaitWithDelay(ctx, src.URL, p.cfg.RateLimiting.RequestDelay); err != nil {
		return 0, 0, err
	}

	page, err := fetcher.Fetch(ctx, src.URL)
	if err != nil {
		return 0, 0, err
	}

	locator := extract.NewLocator(src.Strategies)
	candidates, err := locator.Candidates(page)
	if err != nil {
		candidates = extract.FallbackCandidates(page)
		log.WithField("candidates", len(candidates)).Info("structural strategies empty, using line-scan fallback")
	}

	classifier := extract.NewClassifier(src)
	added := 0
	detailsFollowed := 0

	for _, cand := range candidates {
		if p.capReached(results) {
			break
		}

		record, ok := p.classifyCandidate(classifier, cand, log)
		if !ok {
			continue
		}

		record.JoinYear = extract.ExtractJoinYear(strings.Join(cand.Lines, "\n"))

		if src.FollowDetails && detailsFollowed < src.MaxDetails {
			if href := cand.DetailHref(page.FinalURL); href != "" {
				detailsFollowed++
				p.followDetail(ctx, fetcher, classifier, record, href, log)
			}
		}

		if src.MinJoinYear > 0 && record.JoinYear != 0 && record.JoinYear < src.MinJoinYear {
			continue
		}

		if results.Add(record) {
			added++
		}
	}

	log.WithFields(logrus.Fields{
		"candidates": len(candidates),
		"added":      added,
		"total":      results.Len(),
	}).Info("source processed")

	return added, len(candidates), nil
}

// classifyCandidate isolates classification so one malformed candidate
// cannot take down the source
func (p *Pipeline) classifyCandidate(classifier *extract.Classifier, cand extract.Candidate, log *logrus.Entry) (record *model.Record, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Warn("candidate classification panicked, skipping entry")
			record, ok = nil, false
		}
	}()

	return classifier.Classify(cand)
}

// followDetail fetches a candidate's detail page and merges what it
// adds. Detail failures never fail the source.
func (p *Pipeline) followDetail(ctx context.Context, fetcher fetch.Fetcher, classifier *extract.Classifier, record *model.Record, href string, log *logrus.Entry) {
	if err := p.limiter.WaitWithDelay(ctx, href, p.cfg.RateLimiting.RequestDelay); err != nil {
		return
	}

	page, err := fetcher.Fetch(ctx, href)
	if err != nil {
		log.WithError(err).WithField("url", href).Debug("detail page fetch failed")
		return
	}

	classifier.EnrichFromDetail(record, page)
}

// fetcherFor returns the fetcher for a source mode, starting the
// browser on first use
func (p *Pipeline) fetcherFor(mode model.FetchMode) (fetch.Fetcher, error) {
	if mode != model.ModeRendered {
		return p.static, nil
	}

	if p.rendered == nil {
		rendered, err := fetch.NewRenderedFetcher(p.cfg.Browser, p.cfg.HTTP.UserAgent)
		if err != nil {
			return nil, err
		}
		p.rendered = rendered
	}

	return p.rendered, nil
}

func (p *Pipeline) capReached(results *aggregate.ResultSet) bool {
	return p.cfg.MaxResults > 0 && results.Len() >= p.cfg.MaxResults
}

func (p *Pipeline) flush(records []*model.Record) error {
	return export.Flush(p.cfg.Output, records)
}
