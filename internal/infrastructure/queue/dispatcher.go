package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/visioncare/clinic-portal/internal/core/domain"
	"github.com/visioncare/clinic-portal/internal/core/ports"
	"github.com/visioncare/clinic-portal/internal/infrastructure/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	processTimeout = 5 * time.Second
)

// Dispatcher routes audit events to a fixed set of workers using consistent
// hashing on the browser profile, keeping each profile's events in order.
type Dispatcher struct {
	workers []chan domain.SessionEvent
	service ports.AuditService
	log     zerolog.Logger
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.AuditService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.SessionEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.SessionEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers run until Close.
func (d *Dispatcher) Start() {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
}

// Close stops accepting events. Workers finish what is already queued and
// then return; use Wait to block until they have. Close is idempotent.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Record hands the event to the worker owning its profile. It never blocks:
// when that worker's buffer is full, or the dispatcher is closed, the event
// is dropped and counted.
func (d *Dispatcher) Record(event domain.SessionEvent) {
	idx := d.shardIndex(event.Profile)

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(event, idx, "audit dispatcher closed, event dropped")
		return
	}

	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.drop(event, idx, "audit queue full, event dropped")
	}
}

func (d *Dispatcher) drop(event domain.SessionEvent, idx int, msg string) {
	metrics.AuditEventsTotal.WithLabelValues("dropped").Inc()
	d.log.Warn().
		Str("profile", event.Profile).
		Str("action", string(event.Action)).
		Int("worker_id", idx).
		Msg(msg)
}

// shardIndex maps a profile deterministically to a worker index.
func (d *Dispatcher) shardIndex(profile string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(profile))
	return int(h.Sum32() % uint32(len(d.workers)))
}

// runWorker drains ch until it is closed, so events queued before Close are
// still stored.
func (d *Dispatcher) runWorker(id int, ch <-chan domain.SessionEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for event := range ch {
		metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
		d.process(id, event)
	}
}

func (d *Dispatcher) process(id int, event domain.SessionEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	if err := d.service.Process(ctx, event); err != nil {
		d.log.Error().Err(err).
			Str("profile", event.Profile).
			Int("worker_id", id).
			Msg("audit event processing failed")
	}
}
