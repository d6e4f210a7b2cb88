package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"partscout/internal/catalog"
	"partscout/internal/logging"
	"partscout/internal/paapi"
)

// Gateway is the slice of catalog behavior the runner needs.
type Gateway interface {
	ListCandidateModels(ctx context.Context, category string, limit int, onlyMissing bool) ([]catalog.CandidateModel, error)
	EnsureWaterFilterColumn(ctx context.Context, allowWrite bool) error
	SetWaterFilterMissing(ctx context.Context, modelID int64, missing bool) error
	LinkDiscovered(ctx context.Context, modelID int64, d catalog.Discovery) (int64, error)
}

// Searcher performs the product search for one keyword query.
type Searcher interface {
	Search(ctx context.Context, keywords string) ([]paapi.Item, error)
}

// Options control one enrichment run.
type Options struct {
	Category           string
	Limit              int
	Delay              time.Duration
	OnlyMissing        bool
	RequireFilterMatch bool
	DryRun             bool
	Resume             bool
	RetryErrors        bool
	PartnerTag         string
	ProgressPath       string
}

// Summary reports what one run did.
type Summary struct {
	Processed     int
	AddedOrLinked int
	Skipped       int
	Errors        int
}

// Runner executes the enrichment pipeline over candidate models.
type Runner struct {
	gateway  Gateway
	searcher Searcher
	logger   *slog.Logger

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// NewRunner wires a runner from its collaborators.
func NewRunner(gateway Gateway, searcher Searcher, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		gateway:  gateway,
		searcher: searcher,
		logger:   logging.WithComponent(logger, "enrich"),
		sleep:    sleepContext,
		now:      time.Now,
	}
}

// Run processes candidate models end to end: lock, resume, search, classify,
// commit. Per-model failures are recorded in the ledger and do not stop the
// run; only setup problems and context cancellation abort it.
func (r *Runner) Run(ctx context.Context, opts Options) (Summary, error) {
	var summary Summary

	if strings.TrimSpace(opts.ProgressPath) == "" {
		return summary, fmt.Errorf("%w: progress path required", ErrConfiguration)
	}

	lock := flock.New(opts.ProgressPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return summary, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return summary, ErrLocked
	}
	defer func() { _ = lock.Unlock() }()

	if err := r.gateway.EnsureWaterFilterColumn(ctx, !opts.DryRun); err != nil {
		return summary, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	ledger := NewLedger(opts.ProgressPath)
	if opts.Resume {
		ledger = LoadLedger(opts.ProgressPath)
	}

	models, err := r.gateway.ListCandidateModels(ctx, opts.Category, opts.Limit, opts.OnlyMissing)
	if err != nil {
		return summary, fmt.Errorf("list candidate models: %w", err)
	}

	runID := uuid.NewString()
	r.logger.Info("enrichment run starting",
		logging.String("run_id", runID),
		logging.String("category", opts.Category),
		logging.Int("candidates", len(models)),
		logging.Int("resumed_entries", ledger.Len()),
		logging.Bool("dry_run", opts.DryRun))

	for i, model := range models {
		if err := ctx.Err(); err != nil {
			if saveErr := ledger.Save(r.now()); saveErr != nil {
				r.logger.Warn("ledger save on cancel failed", logging.Error(saveErr))
			}
			return summary, err
		}

		if ledger.ShouldSkip(model.ID, opts.RetryErrors) {
			summary.Skipped++
			continue
		}

		entry := r.processModel(ctx, model, i+1, len(models), opts, &summary)
		ledger.Upsert(model.ID, entry, r.now())
		summary.Processed++

		if err := ledger.Save(r.now()); err != nil {
			return summary, fmt.Errorf("save progress ledger: %w", err)
		}

		if opts.Delay > 0 {
			if err := r.sleep(ctx, opts.Delay); err != nil {
				return summary, err
			}
		}
	}

	if err := ledger.Save(r.now()); err != nil {
		return summary, fmt.Errorf("save progress ledger: %w", err)
	}

	r.logger.Info("enrichment run finished",
		logging.String("run_id", runID),
		logging.Int("processed", summary.Processed),
		logging.Int("added_or_linked", summary.AddedOrLinked),
		logging.Int("skipped", summary.Skipped),
		logging.Int("errors", summary.Errors))
	return summary, nil
}

func (r *Runner) processModel(ctx context.Context, model catalog.CandidateModel, position, total int, opts Options, summary *Summary) Entry {
	entry := Entry{
		ModelNumber: model.ModelNumber,
		Brand:       model.Brand,
	}
	requestID := uuid.NewString()
	log := r.logger.With(
		logging.String("request_id", requestID),
		logging.String("model", model.ModelNumber),
		logging.String("brand", model.Brand),
		logging.String("progress", fmt.Sprintf("%d/%d", position, total)))

	items, err := r.searcher.Search(ctx, SearchKeywords(model.ModelNumber))
	if err != nil {
		summary.Errors++
		entry.Status = StatusError
		entry.Message = err.Error()
		log.Warn("search failed", logging.Error(err))
		return entry
	}

	outcome := Classify(items, opts.RequireFilterMatch)
	entry.Status = outcome.Status
	entry.Message = outcome.Message
	entry.ASIN = outcome.Item.ASIN
	entry.Title = outcome.Item.Title
	entry.DetailURL = outcome.Item.DetailURL

	switch outcome.Status {
	case StatusFound:
		if opts.DryRun {
			log.Info("match found (dry run)", logging.String("asin", outcome.Item.ASIN))
			return entry
		}
		discovery := catalog.Discovery{
			Title:       outcome.Item.Title,
			ASIN:        outcome.Item.ASIN,
			PurchaseURL: PurchaseURL(outcome.Item, opts.PartnerTag),
			Note:        LinkNote(model.ModelNumber),
		}
		if _, err := r.gateway.LinkDiscovered(ctx, model.ID, discovery); err != nil {
			summary.Errors++
			entry.Status = StatusError
			entry.Message = err.Error()
			log.Warn("link failed", logging.Error(err))
			return entry
		}
		summary.AddedOrLinked++
		log.Info("water filter linked",
			logging.String("asin", outcome.Item.ASIN),
			logging.String("title", outcome.Item.Title))
	case StatusNoMatch, StatusMissingASIN:
		if !opts.DryRun {
			if err := r.gateway.SetWaterFilterMissing(ctx, model.ID, true); err != nil {
				summary.Errors++
				entry.Status = StatusError
				entry.Message = err.Error()
				log.Warn("flagging model failed", logging.Error(err))
				return entry
			}
		}
		log.Info("no water filter match", logging.String("status", outcome.Status))
	}
	return entry
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
