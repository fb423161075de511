package dispatch

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/huynhanx03/mq-common/pkg/common/apperr"
	"github.com/huynhanx03/mq-common/pkg/datastructs/queue"
	"github.com/huynhanx03/mq-common/pkg/timer"
)

const component = "dispatcher"

const (
	defaultWorkers      = 1
	defaultBatchSize    = 16
	defaultOfferTimeout = 50 * time.Millisecond
)

// envelope carries an item together with its enqueue timestamp so workers can
// account for queue wait time.
type envelope[T any] struct {
	item T
	at   time.Time
}

// Stats is a point-in-time snapshot of dispatcher counters.
type Stats struct {
	Published     int64
	Rejected      int64
	Handled       int64
	HandlerErrors int64
	// QueueWait is the cumulative time items spent buffered before a worker
	// picked them up. Resolution follows the configured clock.
	QueueWait time.Duration
}

// Dispatcher connects producers to a Handler through a bounded blocking
// queue. Producers either block on Publish (backpressure) or use TryPublish,
// which gives up after the offer timeout and routes the item to the overflow
// sink. A pool of workers drains the queue in batches.
type Dispatcher[T any] struct {
	queue    *queue.Blocking[envelope[T]]
	handler  Handler[T]
	overflow Sink[T]
	log      *zap.Logger
	clock    timer.Timer
	cfg      Config

	cancel  context.CancelFunc
	group   *errgroup.Group
	started atomic.Bool
	closed  atomic.Bool

	published     atomic.Int64
	rejected      atomic.Int64
	handled       atomic.Int64
	handlerErrors atomic.Int64
	queueWaitNs   atomic.Int64
}

// New creates a Dispatcher draining into handler. Workers are not started
// until Start is called.
func New[T any](handler Handler[T], cfg Config) (*Dispatcher[T], error) {
	if handler == nil {
		return nil, apperr.NewError(component, apperr.CodeInvalidConfig, "requires a handler", nil)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.OfferTimeout <= 0 {
		cfg.OfferTimeout = defaultOfferTimeout
	}

	q, err := queue.NewBlocking[envelope[T]](cfg.QueueCapacity)
	if err != nil {
		return nil, apperr.MapError(component, err, apperr.CodeInvalidConfig, apperr.MsgConfigInvalid)
	}

	return &Dispatcher[T]{
		queue:   q,
		handler: handler,
		log:     zap.NewNop(),
		clock:   timer.SystemTimer{},
		cfg:     cfg,
	}, nil
}

// WithLogger sets the logger used for worker and overflow events.
func (d *Dispatcher[T]) WithLogger(log *zap.Logger) *Dispatcher[T] {
	if log != nil {
		d.log = log
	}
	return d
}

// WithOverflow sets the sink receiving items rejected by TryPublish.
func (d *Dispatcher[T]) WithOverflow(sink Sink[T]) *Dispatcher[T] {
	d.overflow = sink
	return d
}

// WithClock sets the clock used for queue-wait accounting. A CachedTimer
// keeps the hot path cheap at the cost of timestamp resolution.
func (d *Dispatcher[T]) WithClock(clock timer.Timer) *Dispatcher[T] {
	if clock != nil {
		d.clock = clock
	}
	return d
}

// Start launches the worker pool. Workers run until ctx is canceled or Close
// is called.
func (d *Dispatcher[T]) Start(ctx context.Context) error {
	if !d.started.CompareAndSwap(false, true) {
		return apperr.NewError(component, apperr.CodeInvalidConfig, "already started", nil)
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	g, gctx := errgroup.WithContext(runCtx)
	d.group = g
	for i := 0; i < d.cfg.Workers; i++ {
		id := i
		g.Go(func() error {
			d.runWorker(gctx, id)
			return nil
		})
	}

	d.log.Info("dispatcher started",
		zap.Int("workers", d.cfg.Workers),
		zap.Int("queue_capacity", d.cfg.QueueCapacity),
		zap.Int("batch_size", d.cfg.BatchSize),
	)
	return nil
}

// Publish inserts item, blocking while the queue is full. The queue applies
// backpressure: the call suspends until a worker frees a slot or ctx is done.
func (d *Dispatcher[T]) Publish(ctx context.Context, item T) error {
	if d.closed.Load() {
		return apperr.NewError(component, apperr.CodeClosed, apperr.MsgClosed, nil)
	}
	env := envelope[T]{item: item, at: d.clock.Now()}
	if err := d.queue.Put(ctx, env); err != nil {
		return apperr.MapError(component, err, apperr.CodePublishFailed, apperr.MsgPublishFailed)
	}
	d.published.Add(1)
	return nil
}

// TryPublish inserts item, waiting at most the offer timeout for queue room.
// Rejected items are routed to the overflow sink when one is configured.
// Returns true if the item was accepted onto the queue.
func (d *Dispatcher[T]) TryPublish(item T) bool {
	if d.closed.Load() {
		return false
	}
	env := envelope[T]{item: item, at: d.clock.Now()}
	if d.queue.Offer(env, d.cfg.OfferTimeout) {
		d.published.Add(1)
		return true
	}

	d.rejected.Add(1)
	if d.overflow != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := d.overflow.Reject(ctx, item); err != nil {
			d.log.Error("overflow sink failed", zap.Error(err))
		}
	} else {
		d.log.Warn("item rejected, no overflow sink configured",
			zap.Int("queue_len", d.queue.Len()),
		)
	}
	return false
}

// Close stops the workers, then synchronously drains any items still buffered
// into the handler. Safe to call once; later publishes fail fast.
func (d *Dispatcher[T]) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return apperr.NewError(component, apperr.CodeClosed, apperr.MsgClosed, nil)
	}
	if d.started.Load() {
		d.cancel()
		_ = d.group.Wait()
	}

	// Workers are gone; whatever is left is drained inline.
	for {
		head, ok := d.queue.TryTake()
		if !ok {
			break
		}
		batch := append([]envelope[T]{head}, d.drainBatch()...)
		d.handle(context.Background(), batch)
	}

	d.log.Info("dispatcher closed", zap.Int64("handled", d.handled.Load()))
	return nil
}

// Stats returns a snapshot of the dispatcher counters.
func (d *Dispatcher[T]) Stats() Stats {
	return Stats{
		Published:     d.published.Load(),
		Rejected:      d.rejected.Load(),
		Handled:       d.handled.Load(),
		HandlerErrors: d.handlerErrors.Load(),
		QueueWait:     time.Duration(d.queueWaitNs.Load()),
	}
}

// QueueLen returns the number of items currently buffered.
func (d *Dispatcher[T]) QueueLen() int { return d.queue.Len() }

func (d *Dispatcher[T]) runWorker(ctx context.Context, id int) {
	log := d.log.With(zap.Int("worker", id))
	log.Debug("worker started")

	for {
		head, err := d.queue.Take(ctx)
		if err != nil {
			log.Debug("worker stopped", zap.Error(err))
			return
		}
		batch := append([]envelope[T]{head}, d.drainBatch()...)
		d.handle(ctx, batch)
	}
}

// drainBatch collects up to BatchSize-1 more buffered envelopes without
// blocking.
func (d *Dispatcher[T]) drainBatch() []envelope[T] {
	var batch []envelope[T]
	for len(batch) < d.cfg.BatchSize-1 {
		env, ok := d.queue.TryTake()
		if !ok {
			break
		}
		batch = append(batch, env)
	}
	return batch
}

func (d *Dispatcher[T]) handle(ctx context.Context, batch []envelope[T]) {
	now := d.clock.Now()
	items := make([]T, len(batch))
	var wait time.Duration
	for i, env := range batch {
		items[i] = env.item
		if w := now.Sub(env.at); w > 0 {
			wait += w
		}
	}
	d.queueWaitNs.Add(int64(wait))

	if err := d.handler.Handle(ctx, items); err != nil {
		d.handlerErrors.Add(1)
		d.log.Error("handler failed",
			zap.Int("batch_size", len(items)),
			zap.Error(err),
		)
		return
	}
	d.handled.Add(int64(len(items)))
}
