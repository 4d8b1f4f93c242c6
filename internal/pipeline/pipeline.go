package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/couchcryptid/navaid-service/internal/domain"
	"github.com/couchcryptid/navaid-service/internal/observability"
)

// BatchExtractor reads up to batchSize requests from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawMessage, error)
}

// Transformer resolves one request into a result message.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawMessage) (domain.OutputMessage, error)
}

// BatchLoader writes result messages to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, msgs []domain.OutputMessage) error
}

// ErrMalformedRequest marks requests that could not be decoded or are missing
// fields, as opposed to well-formed requests with no answer.
var ErrMalformedRequest = errors.New("malformed request")

// Rejection reasons, used as the transform_errors_total label.
const (
	ReasonMalformed  = "malformed"
	ReasonUnresolved = "unresolved"
)

// Retry backoff after extract or load failures.
const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Pipeline answers resolution requests read from a stream and publishes the
// results. A request is committed once its result is published, or at once
// when it is rejected.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	batchSize   int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// Run answers batches until the context is cancelled. Extract and load
// failures are retried with exponential backoff.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("stream resolution started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	backoff := initialBackoff
	for ctx.Err() == nil {
		err := p.answerBatch(ctx)
		switch {
		case ctx.Err() != nil:
		case err != nil:
			p.logger.Error("stream resolution batch failed", "error", err, "retry_in", backoff)
			if sleepWithContext(ctx, backoff) {
				backoff = nextBackoff(backoff, maxBackoff)
			}
		default:
			backoff = initialBackoff
		}
	}
	p.logger.Info("stream resolution stopping", "reason", ctx.Err())
	return nil
}

// answerBatch reads one batch, resolves it, publishes the answers and commits.
// Rejected requests are committed without a result. An error means nothing
// from this batch was published and no answered request was committed.
func (p *Pipeline) answerBatch(ctx context.Context) error {
	start := time.Now()

	requests, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		return errors.Wrap(err, "extract requests")
	}
	if len(requests) == 0 {
		return nil
	}
	p.metrics.MessagesConsumed.Add(float64(len(requests)))
	p.metrics.BatchSize.Observe(float64(len(requests)))

	results := make([]domain.OutputMessage, 0, len(requests))
	answered := make([]domain.RawMessage, 0, len(requests))
	for _, req := range requests {
		out, err := p.transformer.Transform(ctx, req)
		if err != nil {
			p.reject(ctx, req, err)
			continue
		}
		results = append(results, out)
		answered = append(answered, req)
	}
	if len(results) == 0 {
		return nil
	}

	if err := p.loader.LoadBatch(ctx, results); err != nil {
		return errors.Wrapf(err, "publish %d results", len(results))
	}
	p.metrics.MessagesProduced.Add(float64(len(results)))
	for _, req := range answered {
		p.commit(ctx, req)
	}
	p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	return nil
}

// reject counts and logs a request that gets no result, then commits it so it
// is not redelivered. Malformed requests point at a broken producer and log
// at warn; unknown identifiers and out-of-range values are ordinary misses.
func (p *Pipeline) reject(ctx context.Context, req domain.RawMessage, err error) {
	reason := ReasonUnresolved
	level := slog.LevelInfo
	if errors.Is(err, ErrMalformedRequest) {
		reason, level = ReasonMalformed, slog.LevelWarn
	}
	p.metrics.TransformErrors.WithLabelValues(reason).Inc()
	p.logger.Log(ctx, level, "request rejected",
		"reason", reason,
		"error", err,
		"key", string(req.Key),
		"partition", req.Partition,
		"offset", req.Offset,
	)
	p.commit(ctx, req)
}

func (p *Pipeline) commit(ctx context.Context, req domain.RawMessage) {
	if req.Commit == nil {
		return
	}
	if err := req.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", req.Topic, "partition", req.Partition, "offset", req.Offset)
	}
}

func nextBackoff(current, limit time.Duration) time.Duration {
	next := current * 2
	if next > limit {
		return limit
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
