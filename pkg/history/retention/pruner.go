package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mercator-hq/odrlcheck/pkg/history"
)

// Config bounds how much validation history is kept. Zero values disable
// the corresponding limit.
type Config struct {
	RetentionDays int
	MaxRecords    int64
	PruneSchedule string // standard cron syntax, e.g. "0 3 * * *"
}

// DefaultConfig keeps thirty days and prunes nightly at 03:00.
func DefaultConfig() *Config {
	return &Config{RetentionDays: 30, PruneSchedule: "0 3 * * *"}
}

// Pruner deletes history records that fall outside Config.
type Pruner struct {
	storage   history.Storage
	config    *Config
	logger    *slog.Logger
	scheduler *Scheduler
	now       func() time.Time
}

// NewPruner returns a Pruner over storage. A nil config means DefaultConfig.
func NewPruner(storage history.Storage, config *Config) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}
	p := &Pruner{
		storage: storage,
		config:  config,
		logger:  slog.Default().With("component", "history.retention"),
		now:     time.Now,
	}
	p.scheduler = newScheduler(p.config.PruneSchedule, p.runScheduled)
	return p
}

// Prune applies the age limit first and then the record limit. The count
// is what was deleted before any error.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	steps := []struct {
		name    string
		enabled bool
		run     func(context.Context) (int64, error)
	}{
		{"age", p.config.RetentionDays > 0, p.pruneByAge},
		{"count", p.config.MaxRecords > 0, p.pruneByCount},
	}

	var total int64
	for _, step := range steps {
		if !step.enabled {
			continue
		}
		n, err := step.run(ctx)
		if err != nil {
			return total, fmt.Errorf("prune by %s failed: %w", step.name, err)
		}
		total += n
	}

	if total == 0 {
		p.logger.Debug("no records pruned")
		return 0, nil
	}
	p.logger.Info("history pruned",
		"deleted", total,
		"retention_days", p.config.RetentionDays,
		"max_records", p.config.MaxRecords,
	)
	return total, nil
}

func (p *Pruner) pruneByAge(ctx context.Context) (int64, error) {
	cutoff := p.now().AddDate(0, 0, -p.config.RetentionDays)
	n, err := p.storage.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete records older than %d days: %w", p.config.RetentionDays, err)
	}
	return n, nil
}

// pruneByCount keeps the newest MaxRecords records. Ties on the cutoff
// timestamp survive, so slightly more than MaxRecords may remain.
func (p *Pruner) pruneByCount(ctx context.Context) (int64, error) {
	limit := p.config.MaxRecords
	if limit > history.MaxLimit {
		return 0, fmt.Errorf("max_records %d exceeds the query limit %d", limit, history.MaxLimit)
	}

	count, err := p.storage.Count(ctx, &history.Query{})
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	if count <= limit {
		return 0, nil
	}

	newest, err := p.storage.List(ctx, &history.Query{Limit: int(limit), SortOrder: "desc"})
	if err != nil || len(newest) == 0 {
		return 0, err
	}
	cutoff := newest[len(newest)-1].CreatedAt
	p.logger.Info("record limit exceeded", "count", count, "max_records", limit, "cutoff", cutoff)

	return p.storage.DeleteBefore(ctx, cutoff)
}

func (p *Pruner) runScheduled(ctx context.Context) {
	if _, err := p.Prune(ctx); err != nil {
		p.logger.Error("scheduled pruning failed", "error", err)
	}
}

// Start runs Prune on the configured schedule until ctx ends or Stop is
// called. An empty schedule is a no-op.
func (p *Pruner) Start(ctx context.Context) error { return p.scheduler.Start(ctx) }

// Stop waits for an in-flight scheduled prune.
func (p *Pruner) Stop() { p.scheduler.Stop() }

// NextPruning is nil when no schedule is active.
func (p *Pruner) NextPruning() *time.Time { return p.scheduler.NextRun() }
