package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/tu-usuario/chatcommerce-api/internal/application/inventory"
	"github.com/tu-usuario/chatcommerce-api/internal/application/orders"
	infrakafka "github.com/tu-usuario/chatcommerce-api/internal/infrastructure/kafka"
	"github.com/tu-usuario/chatcommerce-api/internal/infrastructure/postgres"
	"github.com/tu-usuario/chatcommerce-api/internal/infrastructure/redisx"
	httpRouter "github.com/tu-usuario/chatcommerce-api/internal/interfaces/http"
	"github.com/tu-usuario/chatcommerce-api/pkg/config"
	"github.com/tu-usuario/chatcommerce-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	redisClient, err := redisx.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer redisClient.Close()

	// Repos atados al pool: solo lecturas. Las mutaciones pasan por el
	// TxRunner, que ata los repos a la transacción serializable.
	orderRepo := postgres.NewOrderRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	movRepo := postgres.NewStockMovementRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	idemStore := redisx.NewIdempotencyStore(redisClient)
	cartStore := redisx.NewCartStore(redisClient)

	var notifier orders.Notifier
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaNotifier := infrakafka.NewNotifier(cfg.Kafka.Brokers, log)
		defer func() { _ = kafkaNotifier.Close() }()
		notifier = kafkaNotifier
	} else {
		log.Warn().Msg("KAFKA_BROKERS vacío: los eventos de pedido solo se loguean")
		notifier = logNotifier{log: log}
	}

	ledger := inventory.NewLedger(nil)
	planLimits := staticPlanLimits{quota: cfg.Orders.MonthlyQuota}

	confirmUC := orders.NewConfirmUseCase(
		txRunner, orderRepo, stockRepo, customerRepo,
		ledger, idemStore, cartStore, planLimits, notifier, log, nil,
	)
	modifyUC := orders.NewModifyUseCase(txRunner, orderRepo, productRepo, ledger, notifier, log, nil)
	cancelUC := orders.NewCancelUseCase(txRunner, orderRepo, ledger, notifier, log, nil)
	getOrderUC := orders.NewGetOrderUseCase(orderRepo)
	stockUC := inventory.NewStockUseCase(txRunner, stockRepo, movRepo, ledger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	// El JSON lo genera swag a partir de las anotaciones de los handlers.
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "ChatCommerce API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ConfirmUC: confirmUC,
		ModifyUC:  modifyUC,
		CancelUC:  cancelUC,
		GetOrder:  getOrderUC,
		StockUC:   stockUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// staticPlanLimits cuota mensual fija desde configuración. Cuando el plan por
// workspace viva en otro servicio, este adaptador se reemplaza sin tocar los
// casos de uso.
type staticPlanLimits struct{ quota int }

func (p staticPlanLimits) MonthlyOrderQuota(ctx context.Context, workspaceID string) (int, error) {
	return p.quota, nil
}

// logNotifier respaldo sin Kafka: deja el evento en el log y sigue.
type logNotifier struct{ log *logger.Logger }

func (n logNotifier) Notify(ctx context.Context, e orders.OrderEvent) error {
	n.log.Info().
		Str("event", e.Type).
		Str("order_id", e.OrderID).
		Int64("order_number", e.Number).
		Msg("evento de pedido")
	return nil
}
