package recorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"mercator-hq/odrlcheck/pkg/history"
	"mercator-hq/odrlcheck/pkg/odrl/issues"
	"mercator-hq/odrlcheck/pkg/odrl/validator"
)

// Config contains configuration for the history recorder.
type Config struct {
	// AsyncBuffer is the size of the async write channel buffer.
	// Default: 1000
	AsyncBuffer int

	// WriteTimeout bounds both enqueueing and each storage write.
	// Default: 5 seconds
	WriteTimeout time.Duration

	// IncludeInputs keeps the user text and the graph inside the stored
	// report. When false only their hashes are kept.
	IncludeInputs bool
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() *Config {
	return &Config{
		AsyncBuffer:  1000,
		WriteTimeout: 5 * time.Second,
	}
}

// Meta describes where a validation came from.
type Meta struct {
	Source    string
	RequestID string
	Duration  time.Duration
}

// Recorder turns validation reports into history records and writes them to
// storage from a background worker, so callers never block on the database.
type Recorder struct {
	storage    history.Storage
	config     *Config
	recordChan chan *history.Record
	wg         sync.WaitGroup
	done       chan struct{}
	closeOnce  sync.Once
	logger     *slog.Logger
	now        func() time.Time
}

// New creates a recorder writing to storage and starts its worker.
func New(storage history.Storage, config *Config) *Recorder {
	if config == nil {
		config = DefaultConfig()
	}
	if config.AsyncBuffer <= 0 {
		config.AsyncBuffer = 1000
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 5 * time.Second
	}

	r := &Recorder{
		storage:    storage,
		config:     config,
		recordChan: make(chan *history.Record, config.AsyncBuffer),
		done:       make(chan struct{}),
		logger:     slog.Default().With("component", "history.recorder"),
		now:        time.Now,
	}

	r.wg.Add(1)
	go r.worker()

	return r
}

// Build creates a record from report without storing it.
func (r *Recorder) Build(report *validator.ValidationReport, meta Meta) (*history.Record, error) {
	stored := *report
	if !r.config.IncludeInputs {
		stored.UserText = ""
		stored.GeneratedGraph = ""
	}
	data, err := json.Marshal(&stored)
	if err != nil {
		return nil, err
	}

	return &history.Record{
		ID:             uuid.New().String(),
		RequestID:      meta.RequestID,
		CreatedAt:      r.now(),
		Duration:       meta.Duration,
		Source:         meta.Source,
		UserTextHash:   HashString(report.UserText),
		GraphHash:      HashString(report.GeneratedGraph),
		Valid:          report.IsValid,
		PolicyCount:    report.PolicyCount,
		ViolationCount: report.ViolationCount,
		WarningCount:   report.WarningCount,
		IssueTypes:     issues.Types(report.Issues),
		Report:         data,
	}, nil
}

// Record builds a record from report and enqueues it for writing. It returns
// the record ID, or an error when the queue stays full for WriteTimeout or
// the recorder is closed.
func (r *Recorder) Record(ctx context.Context, report *validator.ValidationReport, meta Meta) (string, error) {
	record, err := r.Build(report, meta)
	if err != nil {
		return "", history.NewRecorderError("", err)
	}

	select {
	case <-r.done:
		return "", history.NewRecorderError(record.ID, context.Canceled)
	default:
	}

	timer := time.NewTimer(r.config.WriteTimeout)
	defer timer.Stop()

	select {
	case r.recordChan <- record:
		r.logger.Debug("history record enqueued",
			"record_id", record.ID,
			"request_id", record.RequestID,
		)
		return record.ID, nil
	case <-timer.C:
		r.logger.Error("history channel full, dropping record",
			"record_id", record.ID,
			"channel_capacity", r.config.AsyncBuffer,
		)
		return "", history.NewRecorderError(record.ID, context.DeadlineExceeded)
	case <-ctx.Done():
		return "", history.NewRecorderError(record.ID, ctx.Err())
	case <-r.done:
		return "", history.NewRecorderError(record.ID, context.Canceled)
	}
}

// Close stops accepting records, writes everything already queued and waits
// for the worker to exit. It is safe to call more than once.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		close(r.done)
		r.wg.Wait()
	})
	return nil
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.recordChan:
			r.write(record)

		case <-r.done:
			for {
				select {
				case record := <-r.recordChan:
					r.write(record)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(record *history.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	start := time.Now()
	if err := r.storage.Store(ctx, record); err != nil {
		r.logger.Error("failed to store history record",
			"record_id", record.ID,
			"error", err,
		)
		return
	}

	duration := time.Since(start)
	r.logger.Debug("history recorded",
		"record_id", record.ID,
		"valid", record.Valid,
		"duration_ms", duration.Milliseconds(),
	)
	if duration > r.config.WriteTimeout/2 {
		r.logger.Warn("slow history write",
			"record_id", record.ID,
			"duration_ms", duration.Milliseconds(),
		)
	}
}
