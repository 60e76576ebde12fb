package schoolstats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"edustats-backend/lib/scrapers/edugis"
	"edustats-backend/lib/timezone"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ErrPipeline wraps the underlying fetch/parse failure when no cached
// fallback exists to serve instead.
var ErrPipeline = errors.New("school statistics pipeline failed")

// Fetcher is the remote query side of the pipeline.
type Fetcher interface {
	FetchDistrict(ctx context.Context, district edugis.District) (string, error)
}

// Snapshot is what GetData hands to callers: the record set, when it
// was fetched, and whether it outlived its ttl (served as a fallback
// after a failed refresh).
type Snapshot struct {
	Records   []edugis.Record
	FetchedAt time.Time
	Stale     bool
}

type Options struct {
	// defaults to edugis.Districts
	Districts []edugis.District
	// defaults to one hour
	CacheTTL time.Duration
	// optional sqlite persistence of successful runs
	Store *Store
	// optional failure alerts
	Mailer *Mailer
}

type Service struct {
	fetcher   Fetcher
	cache     *Cache
	districts []edugis.District
	store     *Store
	mailer    *Mailer

	// single-writer discipline for refreshes: concurrent forced
	// refreshes queue up instead of interleaving
	refreshMu sync.Mutex
}

func NewService(fetcher Fetcher, opts Options) *Service {
	districts := opts.Districts
	if len(districts) == 0 {
		districts = edugis.Districts
	}
	return &Service{
		fetcher:   fetcher,
		cache:     NewCache(opts.CacheTTL),
		districts: districts,
		store:     opts.Store,
		mailer:    opts.Mailer,
	}
}

type districtResult struct {
	records []edugis.Record
	err     error
}

// GetData returns the current record set, refreshing from the portal
// when the cache misses, expired, or forceRefresh is set. A failed
// refresh never discards previously cached data: the old entry is
// returned marked stale, and ErrPipeline is raised only when there is
// nothing at all to serve.
func (s *Service) GetData(ctx context.Context, forceRefresh bool) (Snapshot, error) {
	ctx, span := tracer.Start(ctx, "GetData")
	defer span.End()
	span.SetAttributes(attribute.Bool("force_refresh", forceRefresh))

	if !forceRefresh {
		if entry, ok := s.cache.Get(); ok {
			span.SetStatus(codes.Ok, "CACHE HIT")
			return Snapshot{Records: entry.Records, FetchedAt: entry.FetchedAt}, nil
		}
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	// another caller may have refreshed while this one waited
	if !forceRefresh {
		if entry, ok := s.cache.Get(); ok {
			span.SetStatus(codes.Ok, "CACHE HIT")
			return Snapshot{Records: entry.Records, FetchedAt: entry.FetchedAt}, nil
		}
	}

	records, err := s.refresh(ctx)
	if err == nil {
		entry, _ := s.cache.GetForce()
		return Snapshot{Records: records, FetchedAt: entry.FetchedAt}, nil
	}

	if entry, ok := s.cache.GetForce(); ok {
		slog.WarnContext(ctx, "refresh failed, serving stale cache",
			"err", err, "fetched_at", entry.FetchedAt)
		span.SetStatus(codes.Ok, "STALE FALLBACK")
		return Snapshot{Records: entry.Records, FetchedAt: entry.FetchedAt, Stale: true}, nil
	}

	if s.mailer != nil {
		mailErr := s.mailer.SendFailureAlert(ctx, err)
		if mailErr != nil {
			slog.WarnContext(ctx, "failed to send failure alert", "err", mailErr)
		}
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, "pipeline failed with no fallback")
	return Snapshot{}, fmt.Errorf("%w: %s", ErrPipeline, err)
}

// refresh fetches and parses every district, and replaces the cache
// only when all of them succeeded. Caching a partial dataset would
// silently drop a district, so partial success counts as failure here.
func (s *Service) refresh(ctx context.Context) ([]edugis.Record, error) {
	ctx, span := tracer.Start(ctx, "refresh")
	defer span.End()

	results := make([]districtResult, len(s.districts))
	wg := sync.WaitGroup{}

	for i, district := range s.districts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = s.fetchDistrict(ctx, district)
		}()
	}
	wg.Wait()

	var merged []edugis.Record
	var errList []error
	for i, district := range s.districts {
		if results[i].err != nil {
			slog.WarnContext(ctx, "district fetch failed",
				"district", district.String(), "err", results[i].err)
			errList = append(errList, fmt.Errorf("%s: %w", district, results[i].err))
			continue
		}
		merged = append(merged, results[i].records...)
	}
	if len(errList) > 0 {
		err := errors.Join(errList...)
		span.RecordError(err)
		span.SetStatus(codes.Error, "refresh failed")
		if s.store != nil {
			logErr := s.store.RecordFailure(ctx, err, timezone.Now())
			if logErr != nil {
				slog.WarnContext(ctx, "failed to log failed scrape run", "err", logErr)
			}
		}
		return nil, err
	}

	s.cache.Put(merged)
	span.SetAttributes(attribute.Int("record_count", len(merged)))

	if s.store != nil {
		entry, _ := s.cache.GetForce()
		err := s.store.RecordRun(ctx, merged, entry.FetchedAt)
		if err != nil {
			// persistence is best effort, the fresh data still serves
			slog.WarnContext(ctx, "failed to persist scrape run", "err", err)
		}
	}

	return merged, nil
}

func (s *Service) fetchDistrict(ctx context.Context, district edugis.District) districtResult {
	html, err := s.fetcher.FetchDistrict(ctx, district)
	if err != nil {
		return districtResult{err: err}
	}
	records, err := edugis.ParseSchoolTable(html, district)
	if err != nil {
		return districtResult{err: err}
	}
	return districtResult{records: records}
}
