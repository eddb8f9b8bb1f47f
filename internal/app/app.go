package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/shopcore/storefront/config"
	"github.com/shopcore/storefront/internal/adapter/httphandler"
	"github.com/shopcore/storefront/internal/adapter/kafka"
	"github.com/shopcore/storefront/internal/adapter/storage"
	"github.com/shopcore/storefront/internal/core/service"
	"github.com/shopcore/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

type repositories struct {
	catalog storage.CatalogRepository
	carts   storage.CartsRepository
	orders  storage.OrdersRepository
	users   storage.UsersRepository
}

type coreServices struct {
	fulfillment service.FulfillmentService
	recommend   service.RecommendationService
	cart        service.CartService
	catalog     service.CatalogService
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	wg         sync.WaitGroup
	sqlDB      storage.SQLDB
	repos      repositories
	orderSerde schema.Serde
	producer   kafka.OrderPlacedProducer
	salesProc  *kafka.SalesTallyProcessor
	salesView  kafka.SalesView
	services   coreServices
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initStorage()
	app.initSerdes()
	app.initBrokerAdapters()
	app.initCoreServices()
	app.initHTTPServer()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initStorage() {
	const op = "App.initStorage"

	sqlDB, err := storage.NewSQLDB(app.ctx, app.cfg.SQLDB)
	if err != nil {
		app.fallDown(op, err)
	}

	app.sqlDB = sqlDB
	app.repos = repositories{
		catalog: storage.NewCatalogRepository(sqlDB),
		carts:   storage.NewCartsRepository(sqlDB),
		orders:  storage.NewOrdersRepository(sqlDB),
		users:   storage.NewUsersRepository(sqlDB),
	}
}

func (app *App) initSerdes() {
	const op = "App.initSerdes"

	srClient, err := sr.NewClient(
		sr.URLs(app.cfg.Broker.SchemaRegistryURLs...),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	schemaCreater := schema.NewSchemaCreater(srClient)

	orderPlacedSS := app.cfg.Broker.Topics.OrderPlaced + "-value"
	orderSerde, err := schema.NewSerdeOrderPlacedV1(
		app.ctx,
		schema.SubjectOpt(orderPlacedSS),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.orderSerde = orderSerde
}

func (app *App) initBrokerAdapters() {
	const op = "App.initBrokerAdapters"

	seedBrokers := app.cfg.Broker.SeedBrokers
	orderPlacedTopic := app.cfg.Broker.Topics.OrderPlaced
	salesGroup := app.cfg.Broker.Consumers.SalesTallyGroup

	producer, err := kafka.NewOrderPlacedProducer(
		kafka.ProducerClientOpt(app.ctx, seedBrokers, orderPlacedTopic),
		kafka.ProducerEncoderOpt(app.orderSerde),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	salesProc, err := kafka.NewSalesTallyProc(
		seedBrokers, orderPlacedTopic, salesGroup, app.orderSerde,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	salesView, err := kafka.NewSalesView(seedBrokers, salesGroup)
	if err != nil {
		app.fallDown(op, err)
	}

	app.producer = producer
	app.salesProc = salesProc
	app.salesView = salesView
}

func (app *App) initCoreServices() {
	app.services = coreServices{
		fulfillment: service.NewFulfillment(
			app.repos.catalog,
			app.repos.carts,
			app.repos.orders,
			app.repos.users,
			app.producer,
		),
		recommend: service.NewRecommendation(
			app.repos.catalog, app.repos.users,
		),
		cart:    service.NewCart(app.repos.catalog, app.repos.carts),
		catalog: service.NewCatalog(app.repos.catalog),
	}
}

func (app *App) initHTTPServer() {
	mux := http.NewServeMux()
	httphandler.RegisterCatalog(mux, app.services.catalog, app.services.catalog)
	httphandler.RegisterCart(mux, app.services.cart)
	httphandler.RegisterOrders(
		mux, app.services.fulfillment, app.services.fulfillment,
	)
	httphandler.RegisterRecommendations(mux, app.services.recommend)
	httphandler.RegisterStats(mux, app.salesView)

	handler := httphandler.AllowJSON(mux)
	app.httpServer = httphandler.NewHTTPServer(app.cfg.HTTPServerAddr, handler)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	app.wg.Add(1)
	go app.salesProc.Run(app.ctx, stopFn, &app.wg)
	go app.salesView.Run(app.ctx)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.salesProc.Close()
	app.wg.Wait()
	app.producer.Close()
	app.sqlDB.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
