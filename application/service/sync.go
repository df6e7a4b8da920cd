package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lastmile-ai/mcp-registry-search/domain/registry"
	"github.com/lastmile-ai/mcp-registry-search/domain/search"
	"github.com/lastmile-ai/mcp-registry-search/domain/server"
)

// Summary reports what one sync run did.
type Summary struct {
	inserted   int
	updated    int
	unchanged  int
	failed     int
	tombstoned int64
	complete   bool
	duration   time.Duration
}

// Inserted returns the number of newly indexed entries.
func (s Summary) Inserted() int { return s.inserted }

// Updated returns the number of rewritten entries.
func (s Summary) Updated() int { return s.updated }

// Unchanged returns the number of entries left untouched.
func (s Summary) Unchanged() int { return s.unchanged }

// Failed returns the number of entries that could not be processed.
func (s Summary) Failed() int { return s.failed }

// Tombstoned returns the number of entries marked deleted.
func (s Summary) Tombstoned() int64 { return s.tombstoned }

// Complete reports whether the upstream listing was read to exhaustion.
// Tombstoning only happens on complete runs; a partial listing says nothing
// about entries it never reached.
func (s Summary) Complete() bool { return s.complete }

// Duration returns the wall time of the run.
func (s Summary) Duration() time.Duration { return s.duration }

// syncItem pairs a canonical record with its embedding work.
type syncItem struct {
	desired   server.Server
	needEmbed bool
	failed    bool
}

// Sync pulls the upstream catalog into the store: one canonical version per
// name, embeddings for entries whose search text changed, and tombstones for
// names that vanished upstream. Runs are serialized by an atomic guard.
type Sync struct {
	source      registry.Source
	store       server.Store
	embedder    search.Embedder
	parallelism int
	logger      *slog.Logger
	running     atomic.Bool
}

// NewSync creates a Sync service. Parallelism bounds concurrent embedding
// calls; values below one are raised to one.
func NewSync(source registry.Source, st server.Store, embedder search.Embedder, parallelism int, logger *slog.Logger) *Sync {
	if logger == nil {
		logger = slog.Default()
	}
	if parallelism < 1 {
		parallelism = 1
	}
	return &Sync{
		source:      source,
		store:       st,
		embedder:    embedder,
		parallelism: parallelism,
		logger:      logger,
	}
}

// Running reports whether a sync run is in flight.
func (s *Sync) Running() bool {
	return s.running.Load()
}

// Run executes one sync pass. A failure on the first catalog page aborts the
// run untouched; a failure mid-listing processes the pages already read and
// skips the tombstone pass. Per-entry embedding failures are counted and
// leave any previously stored row intact.
func (s *Sync) Run(ctx context.Context) (Summary, error) {
	if !s.running.CompareAndSwap(false, true) {
		return Summary{}, ErrSyncInProgress
	}
	defer s.running.Store(false)

	start := time.Now()

	records, complete, err := s.fetchAll(ctx)
	if err != nil {
		return Summary{}, err
	}

	canonical := canonicalByName(records)
	existing, err := s.loadExisting(ctx)
	if err != nil {
		return Summary{}, err
	}

	items := s.planItems(canonical, existing)
	s.embedItems(ctx, items)

	summary := Summary{complete: complete}
	for _, item := range items {
		if item.failed {
			summary.failed++
			continue
		}

		outcome, err := s.store.Upsert(ctx, item.desired)
		if err != nil {
			s.logger.WarnContext(ctx, "upsert failed",
				"server", item.desired.Name(),
				"error", err,
			)
			summary.failed++
			continue
		}

		switch outcome {
		case server.OutcomeInserted:
			summary.inserted++
		case server.OutcomeUpdated:
			summary.updated++
		default:
			summary.unchanged++
		}
	}

	if complete {
		keep := make([]string, 0, len(canonical))
		for name := range canonical {
			keep = append(keep, name)
		}
		tombstoned, err := s.store.MarkDeletedExcept(ctx, keep)
		if err != nil {
			return Summary{}, fmt.Errorf("tombstone pass: %w", err)
		}
		summary.tombstoned = tombstoned
	}

	summary.duration = time.Since(start)
	s.logger.InfoContext(ctx, "sync complete",
		"inserted", summary.inserted,
		"updated", summary.updated,
		"unchanged", summary.unchanged,
		"failed", summary.failed,
		"tombstoned", summary.tombstoned,
		"complete", summary.complete,
		"duration", summary.duration,
	)
	return summary, nil
}

// fetchAll reads the catalog page by page. A first-page failure is returned
// as an error; a later failure ends the listing early with complete=false.
func (s *Sync) fetchAll(ctx context.Context) ([]registry.Record, bool, error) {
	var records []registry.Record
	cursor := ""

	for {
		page, err := s.source.ListPage(ctx, cursor)
		if err != nil {
			var srcErr *registry.SourceError
			if cursor == "" || (errors.As(err, &srcErr) && srcErr.FirstPage()) {
				return nil, false, err
			}
			s.logger.WarnContext(ctx, "catalog listing ended early",
				"cursor", cursor,
				"records", len(records),
				"error", err,
			)
			return records, false, nil
		}

		records = append(records, page.Records()...)
		if !page.HasMore() {
			return records, true, nil
		}
		cursor = page.NextCursor()
	}
}

// canonicalByName groups listings by name and picks one version per server.
// Records without a name are dropped.
func canonicalByName(records []registry.Record) map[string]registry.Record {
	grouped := make(map[string][]registry.Record)
	for _, rec := range records {
		if rec.Name() == "" {
			continue
		}
		grouped[rec.Name()] = append(grouped[rec.Name()], rec)
	}

	canonical := make(map[string]registry.Record, len(grouped))
	for name, versions := range grouped {
		canonical[name] = registry.SelectCanonical(versions)
	}
	return canonical
}

func (s *Sync) loadExisting(ctx context.Context) (map[string]server.Server, error) {
	all, err := s.store.Find(ctx)
	if err != nil {
		return nil, fmt.Errorf("load indexed servers: %w", err)
	}

	existing := make(map[string]server.Server, len(all))
	for _, srv := range all {
		existing[srv.Name()] = srv
	}
	return existing, nil
}

// planItems builds the desired state per server and decides which entries
// need a fresh embedding. Unchanged search text carries the stored vector
// forward; deleted entries never get one.
func (s *Sync) planItems(canonical map[string]registry.Record, existing map[string]server.Server) []*syncItem {
	items := make([]*syncItem, 0, len(canonical))
	for name, rec := range canonical {
		desired := server.New(rec.Name(), rec.Description(), rec.Version()).
			WithRepository(rec.Repository()).
			WithPackages(rec.Packages()).
			WithRemotes(rec.Remotes()).
			WithStatus(server.ParseStatus(rec.Status())).
			WithPublishedAt(rec.PublishedAt())

		if rec.HasLatestFlag() {
			desired = desired.WithIsLatest(rec.IsLatest())
		}

		if desired.IsDeleted() {
			items = append(items, &syncItem{desired: desired.Tombstone()})
			continue
		}

		prev, known := existing[name]
		if known && prev.SearchTextValue() == desired.SearchTextValue() && prev.HasEmbedding() {
			items = append(items, &syncItem{desired: desired.WithEmbedding(prev.Embedding())})
			continue
		}

		items = append(items, &syncItem{desired: desired, needEmbed: true})
	}
	return items
}

// embedItems fills in embeddings with bounded parallelism. Each entry is
// embedded independently so one provider failure costs one entry, not the
// batch.
func (s *Sync) embedItems(ctx context.Context, items []*syncItem) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)

	var mu sync.Mutex
	for _, item := range items {
		if !item.needEmbed {
			continue
		}

		g.Go(func() error {
			vectors, err := s.embedder.Embed(gctx, []string{item.desired.SearchTextValue()})
			if err != nil || len(vectors) == 0 {
				s.logger.WarnContext(gctx, "embedding failed",
					"server", item.desired.Name(),
					"error", err,
				)
				mu.Lock()
				item.failed = true
				mu.Unlock()
				return nil
			}

			mu.Lock()
			item.desired = item.desired.WithEmbedding(vectors[0])
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors; failures are recorded per item.
	_ = g.Wait()
}
