package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/niksmo/shoplist/config"
	"github.com/niksmo/shoplist/internal/adapter"
	"github.com/niksmo/shoplist/internal/adapter/httphandler"
	"github.com/niksmo/shoplist/internal/adapter/kafka"
	"github.com/niksmo/shoplist/internal/adapter/seedsource"
	"github.com/niksmo/shoplist/internal/adapter/storage"
	"github.com/niksmo/shoplist/internal/core/service"
	"github.com/niksmo/shoplist/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

type storages struct {
	kv      storage.KV
	catalog storage.CatalogRepository
	closeFn func()
}

type publishers struct {
	catalog     *kafka.CatalogPublisher
	unsubscribe func()
}

// App owns the store and wires every adapter around it.
type App struct {
	ctx        context.Context
	cfg        config.Config
	storages   storages
	store      *service.Store
	seeder     service.Seeder
	publishers publishers
	httpServer httphandler.HTTPServer
	wg         sync.WaitGroup
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initStorage()
	app.initCoreService()
	app.initPublishers()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initStorage() {
	const op = "App.initStorage"

	sc := app.cfg.Storage
	switch sc.Driver {
	case config.StorageDriverMemory:
		app.storages.kv = storage.NewMemoryKV()
		app.storages.closeFn = func() {}
	case config.StorageDriverPostgres:
		db, err := storage.NewSQLDB(app.ctx, sc.SQLDB)
		if err != nil {
			app.fallDown(op, err)
		}
		app.storages.kv = storage.NewSQLKV(db)
		app.storages.closeFn = db.Close
	case config.StorageDriverBolt, "":
		kv, err := storage.NewBoltKV(sc.BoltPath)
		if err != nil {
			app.fallDown(op, err)
		}
		app.storages.kv = kv
		app.storages.closeFn = kv.Close
	default:
		app.fallDown(op, fmt.Errorf("unknown storage driver %q", sc.Driver))
	}

	app.storages.catalog = storage.NewCatalogRepository(
		app.storages.kv, sc.CatalogKey,
	)
}

func (app *App) initCoreService() {
	const op = "App.initCoreService"

	ids, err := service.NewIDAssigner(app.cfg.IDs.Policy, app.cfg.IDs.Node)
	if err != nil {
		app.fallDown(op, err)
	}

	app.store = service.NewStore(
		app.storages.catalog,
		service.IDAssignerOpt(ids),
	)

	source := seedsource.New(
		app.cfg.Seed.URL,
		seedsource.TimeoutOpt(app.cfg.Seed.Timeout),
		seedsource.MaxAttemptsOpt(app.cfg.Seed.MaxAttempts),
	)
	app.seeder = service.NewSeeder(app.store, app.storages.catalog, source)
}

func (app *App) initPublishers() {
	const op = "App.initPublishers"

	if !app.cfg.EventsEnabled() {
		slog.Info("catalog events are disabled", "op", op)
		return
	}

	ctx := app.ctx
	topic := app.cfg.Broker.Topics.CatalogChanged

	var tlsCfg *tls.Config
	srOpts := []sr.ClientOpt{sr.URLs(app.cfg.Broker.SchemaRegistryURLs...)}
	if app.cfg.TLSEnabled() {
		t := app.cfg.Broker.TLS
		tlsCfg = adapter.MakeTLSConfig(t.CAFile, t.CertFile, t.KeyFile)
		srOpts = append(srOpts, sr.DialTLSConfig(tlsCfg))
	}

	srClient, err := sr.NewClient(srOpts...)
	if err != nil {
		app.fallDown(op, err)
	}

	serde, err := schema.NewSerdeCatalogChangedV1(
		ctx,
		schema.SubjectOpt(topic+"-value"),
		schema.SchemaIdentifierOpt(schema.NewRegistryIdentifier(srClient)),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	publisher, err := kafka.NewCatalogPublisher(
		kafka.ProducerClientOpt(ctx, app.cfg.Broker.SeedBrokers, topic, tlsCfg),
		kafka.ProducerEncoderOpt(serde),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.publishers.catalog = publisher
	app.publishers.unsubscribe = app.store.Subscribe(publisher.Observe)
}

func (app *App) initInboundAdapters() {
	addr := app.cfg.HTTPServerAddr
	mux := http.NewServeMux()
	httphandler.RegisterCatalog(mux, app.store, app.store, app.store)
	httphandler.RegisterCart(mux, app.store, app.store, app.store)
	httphandler.RegisterFavorites(mux, app.store, app.store)

	handler := httphandler.LogRequests(httphandler.AllowJSON(mux))
	app.httpServer = httphandler.NewHTTPServer(addr, handler)
}

// Run seeds the catalog and starts serving. A failed seed is logged and
// leaves the catalog empty.
func (app *App) Run(stopFn context.CancelFunc) {
	const op = "App.Run"
	log := slog.With("op", op)

	if p := app.publishers.catalog; p != nil {
		app.wg.Add(1)
		go p.Run(app.ctx, &app.wg)
		app.wg.Wait()
	}

	origin, err := app.seeder.Seed(app.ctx)
	if err != nil {
		log.Error("failed to seed catalog", "origin", origin, "err", err)
	}

	go app.httpServer.Run(stopFn)

	log.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)

	if p := app.publishers.catalog; p != nil {
		app.publishers.unsubscribe()
		p.Close()
	}

	app.storages.closeFn()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
