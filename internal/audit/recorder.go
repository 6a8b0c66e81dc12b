package audit

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Recorder appends records after the primary write has committed. Failures
// are logged and spooled; they never reach the caller.
type Recorder struct {
	sink   Sink
	spool  Spool
	logger *zap.Logger
}

// NewRecorder creates a Recorder. spool may be nil.
func NewRecorder(sink Sink, spool Spool, logger *zap.Logger) *Recorder {
	return &Recorder{sink: sink, spool: spool, logger: logger}
}

// Record appends rec to the sink.
func (r *Recorder) Record(ctx context.Context, rec Record) {
	err := r.sink.Append(ctx, rec)
	if err == nil {
		return
	}
	r.logger.Error("failed to append audit record",
		zap.String("action", string(rec.Action)),
		zap.String("entity_id", rec.EntityID.String()),
		zap.Error(err),
	)
	if r.spool == nil {
		return
	}
	if err := r.spool.Put(rec); err != nil {
		r.logger.Error("failed to spool audit record",
			zap.String("record_id", rec.ID.String()),
			zap.Error(err),
		)
	}
}

// Replay moves spooled records into the sink. It stops at the first sink error.
func (r *Recorder) Replay(ctx context.Context) (int, error) {
	if r.spool == nil {
		return 0, nil
	}
	n, err := r.spool.Drain(func(rec Record) error {
		return r.sink.Append(ctx, rec)
	})
	if err != nil {
		return n, fmt.Errorf("replay audit spool: %w", err)
	}
	if n > 0 {
		r.logger.Info("replayed spooled audit records", zap.Int("count", n))
	}
	return n, nil
}
