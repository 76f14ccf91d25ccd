package kafka_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/niksmo/shoplist/internal/adapter/kafka"
	"github.com/niksmo/shoplist/internal/core/domain"
	"github.com/niksmo/shoplist/internal/core/service"
	"github.com/niksmo/shoplist/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

type MockProducerClient struct {
	mock.Mock
	mu      sync.Mutex
	records []*kgo.Record
}

func (c *MockProducerClient) ProduceSync(
	ctx context.Context, rs ...*kgo.Record,
) kgo.ProduceResults {
	c.mu.Lock()
	c.records = append(c.records, rs...)
	c.mu.Unlock()

	args := c.Called(ctx, rs)
	res := make(kgo.ProduceResults, len(rs))
	for i, r := range rs {
		res[i] = kgo.ProduceResult{Record: r, Err: args.Error(0)}
	}
	return res
}

func (c *MockProducerClient) Close() {
	c.Called()
}

func (c *MockProducerClient) produced() []*kgo.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*kgo.Record(nil), c.records...)
}

// captureEncoder keeps the encoded values instead of serializing them.
type captureEncoder struct {
	mu sync.Mutex
	vs []schema.CatalogChangedV1
}

func (e *captureEncoder) Encode(v any) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	cv, ok := v.(schema.CatalogChangedV1)
	if !ok {
		return nil, errors.New("unexpected value")
	}
	e.vs = append(e.vs, cv)
	return []byte("encoded"), nil
}

func (e *captureEncoder) values() []schema.CatalogChangedV1 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]schema.CatalogChangedV1(nil), e.vs...)
}

func TestNewCatalogPublisher(t *testing.T) {
	_, err := kafka.NewCatalogPublisher()
	assert.ErrorIs(t, err, kafka.ErrTooFewOpts)

	_, err = kafka.NewCatalogPublisher(kafka.ProducerEncoderOpt(nil))
	assert.Error(t, err)

	_, err = kafka.NewCatalogPublisher(
		kafka.ProducerWithClientOpt(new(MockProducerClient)),
		kafka.ProducerEncoderOpt(new(captureEncoder)),
		kafka.ProducerQueueSizeOpt(0),
	)
	assert.Error(t, err)
}

func TestCatalogPublisher(t *testing.T) {
	cl := new(MockProducerClient)
	cl.On("ProduceSync", mock.Anything, mock.Anything).Return(nil)
	cl.On("Close").Return()
	enc := new(captureEncoder)

	p, err := kafka.NewCatalogPublisher(
		kafka.ProducerWithClientOpt(cl),
		kafka.ProducerEncoderOpt(enc),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go p.Run(ctx, &wg)
	wg.Wait()

	store := service.NewStore(nil)
	store.Subscribe(p.Observe)

	require.NoError(t, store.SetCatalog(ctx, []domain.Product{
		{ID: 1, Title: "Phone", Price: 200, Thumbnail: "a.png"},
	}))
	store.AddToCart(domain.Product{ID: 1})
	store.ToggleFavorite(domain.Product{ID: 1})
	_, err = store.AddProduct(ctx, domain.Product{Title: "Mug", Price: 10})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(cl.produced()) == 2
	}, time.Second, 10*time.Millisecond)

	for _, r := range cl.produced() {
		assert.Equal(t, "productCatalog", string(r.Key))
		assert.Equal(t, "encoded", string(r.Value))
	}

	vs := enc.values()
	require.Len(t, vs, 2)
	assert.Len(t, vs[0].Products, 1)
	require.Len(t, vs[1].Products, 2)
	assert.Equal(t, int64(1001), vs[1].Products[1].ID)
	assert.True(t, vs[1].Products[1].IsCustom)

	p.Close()
	cl.AssertCalled(t, "Close")
}

func TestCatalogPublisherDropsWhenQueueFull(t *testing.T) {
	cl := new(MockProducerClient)
	p, err := kafka.NewCatalogPublisher(
		kafka.ProducerWithClientOpt(cl),
		kafka.ProducerEncoderOpt(new(captureEncoder)),
		kafka.ProducerQueueSizeOpt(1),
	)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		p.Observe(domain.Snapshot{Catalog: []domain.Product{{ID: 1}}})
		p.Observe(domain.Snapshot{Catalog: []domain.Product{{ID: 2}}})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Observe blocked on a full queue")
	}
}
