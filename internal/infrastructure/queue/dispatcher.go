package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/modernmember/member-directory/internal/api/metrics"
	"github.com/modernmember/member-directory/internal/core/domain"
	"github.com/modernmember/member-directory/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// AuditDispatcher persists audit events off the request path. Events are
// routed to a fixed set of workers by consistent hashing on the subject id,
// which keeps per-member event ordering intact.
type AuditDispatcher struct {
	workers []chan domain.AuditEvent
	repo    ports.AuditRepository
	log     zerolog.Logger
}

// NewAuditDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.AuditEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Submit enqueues an event for asynchronous persistence. Non-blocking: when
// the responsible worker's buffer is full the event is dropped and counted,
// because the audit trail must never stall an authentication request.
func (d *AuditDispatcher) Submit(event domain.AuditEvent) {
	idx := d.shardIndex(event.SubjectID)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AuditEventsDroppedTotal.Inc()
		d.log.Warn().Str("subject_id", event.SubjectID).Str("action", string(event.Action)).Msg("audit queue full, event dropped")
	}
}

// shardIndex maps a subject id deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(subjectID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(subjectID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			start := time.Now()
			writeCtx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			err := d.repo.Insert(writeCtx, &event)
			cancel()
			metrics.AuditWriteDuration.Observe(time.Since(start).Seconds())
			metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			if err != nil {
				d.log.Error().Err(err).
					Str("subject_id", event.SubjectID).
					Int("worker_id", id).
					Msg("audit event write failed")
			}
		}
	}
}
