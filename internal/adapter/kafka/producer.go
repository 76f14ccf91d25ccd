package kafka

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/niksmo/shoplist/internal/core/domain"
	"github.com/niksmo/shoplist/internal/core/port"
	"github.com/twmb/franz-go/pkg/kgo"
)

var _ port.CatalogPublisher = (*CatalogPublisher)(nil)

const (
	defaultQueueSize = 64
	catalogKey       = "productCatalog"
)

// A producer is used for composition.
//
// Producing records to kafka broker and closing underlying [kgo.Client].
type producer struct {
	opPrefix string
	cl       ProducerClient
}

func (p producer) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p producer) produce(
	ctx context.Context, rs ...*kgo.Record,
) error {
	const op = "produce"
	res := p.cl.ProduceSync(ctx, rs...)
	if err := res.FirstErr(); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

// A CatalogPublisher observes the store and produces the whole catalog each
// time it changes.
//
// Observe never blocks: records are queued and produced by Run. When the
// queue is full the change is dropped.
type CatalogPublisher struct {
	producer producer
	encoder  Encoder
	opPrefix string

	mu    sync.Mutex
	last  []domain.Product
	seen  bool
	queue chan []domain.Product
}

func NewCatalogPublisher(
	opts ...ProducerOpt,
) (*CatalogPublisher, error) {
	const op = "NewCatalogPublisher"

	options := producerOpts{queueSize: defaultQueueSize}
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return nil, opErr(err, op)
		}
	}

	if options.cl == nil || options.encoder == nil {
		return nil, opErr(ErrTooFewOpts, op)
	}

	opPrefix := "CatalogPublisher"
	return &CatalogPublisher{
		producer: producer{opPrefix: opPrefix, cl: options.cl},
		encoder:  options.encoder,
		opPrefix: opPrefix,
		queue:    make(chan []domain.Product, options.queueSize),
	}, nil
}

func (p *CatalogPublisher) Observe(snap domain.Snapshot) {
	const op = "Observe"
	log := slog.With("op", makeOp(p.opPrefix, op))

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.seen && slices.Equal(p.last, snap.Catalog) {
		return
	}

	select {
	case p.queue <- snap.Catalog:
		p.last = snap.Catalog
		p.seen = true
	default:
		log.Warn("queue is full, catalog change dropped",
			"nProducts", len(snap.Catalog))
	}
}

// Run produces queued catalogs until ctx is done.
//
// wg is released once the publisher is ready.
func (p *CatalogPublisher) Run(ctx context.Context, wg *sync.WaitGroup) {
	const op = "Run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	wg.Done()
	log.Info("catalog publisher is running")

	for {
		select {
		case <-ctx.Done():
			return
		case ps := <-p.queue:
			if err := p.publish(ctx, ps); err != nil {
				log.Error("failed to publish catalog", "err", err)
				continue
			}
			log.Debug("catalog published", "nProducts", len(ps))
		}
	}
}

func (p *CatalogPublisher) Close() {
	p.producer.close()
}

func (p *CatalogPublisher) publish(ctx context.Context, ps []domain.Product) error {
	const op = "publish"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	r, err := p.createRecord(ps)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	if err := p.producer.produce(ctx, r); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

func (p *CatalogPublisher) createRecord(ps []domain.Product) (*kgo.Record, error) {
	const op = "createRecord"

	b, err := p.encoder.Encode(catalogToSchemaV1(catalogKey, ps))
	if err != nil {
		return nil, opErr(err, p.opPrefix, op)
	}
	return &kgo.Record{Key: []byte(catalogKey), Value: b}, nil
}
