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
	_ "github.com/jhoicas/gre-api/docs"
	"github.com/jhoicas/gre-api/internal/application/auth"
	"github.com/jhoicas/gre-api/internal/application/gre"
	"github.com/jhoicas/gre-api/internal/application/inventory"
	"github.com/jhoicas/gre-api/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/gre-api/internal/infrastructure/pdf"
	"github.com/jhoicas/gre-api/internal/infrastructure/postgres"
	"github.com/jhoicas/gre-api/internal/infrastructure/storage"
	infrasunat "github.com/jhoicas/gre-api/internal/infrastructure/sunat"
	"github.com/jhoicas/gre-api/internal/infrastructure/sunat/signer"
	httpRouter "github.com/jhoicas/gre-api/internal/interfaces/http"
	"github.com/jhoicas/gre-api/pkg/config"
	"github.com/jhoicas/gre-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("sunat_env", cfg.SUNAT.AppEnv).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	waybillRepo := postgres.NewWaybillRepository(pool)
	ubigeoRepo := postgres.NewUbigeoRepository(pool)
	unitRepo := postgres.NewUnitMeasureRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	issuer := gre.Issuer{RUC: cfg.SUNAT.RUC, Name: cfg.SUNAT.RazonSocial}

	// Cliente SUNAT: en "dev" se simula la aceptación sin tocar la red.
	var authority gre.AuthorityClient
	if cfg.SUNAT.AppEnv == "dev" {
		authority = infrasunat.NewDevClient(log)
		log.Warn().Msg("SUNAT en modo dev: las guías se aceptan sin envío real")
	} else {
		authority = infrasunat.NewClient(infrasunat.ClientConfig{
			SecurityURL:  cfg.SUNAT.SecurityURL,
			APIURL:       cfg.SUNAT.APIURL,
			ClientID:     cfg.SUNAT.ClientID,
			ClientSecret: cfg.SUNAT.ClientSecret,
			RUC:          cfg.SUNAT.RUC,
			SOLUser:      cfg.SUNAT.SOLUser,
			SOLPassword:  cfg.SUNAT.SOLPassword,
			PollAttempts: cfg.SUNAT.PollAttempts,
			PollDelay:    cfg.SUNAT.PollDelay,
			PollTimeout:  cfg.SUNAT.PollTimeout,
			RetryCodes:   cfg.SUNAT.RetryCodes,
		}, tokenCache(ctx, cfg.Redis, log), log)
	}

	var archive gre.DocumentArchive
	if cfg.Storage.Enabled() {
		minioArchive, err := storage.NewMinioArchive(ctx, cfg.Storage)
		if err != nil {
			log.Error().Err(err).Msg("archivo MinIO no disponible; se continúa sin archivo")
		} else {
			archive = minioArchive
		}
	}

	if cfg.SUNAT.CertPath == "" {
		log.Warn().Msg("SUNAT_CERT_PATH vacío: la firma fallará hasta configurar el certificado")
	}
	certs := signer.NewCertProvider(cfg.SUNAT.CertPath, cfg.SUNAT.CertKeyPath, cfg.SUNAT.CertPassword)

	stockLedger := inventory.NewStockLedger()
	ledger := gre.NewLedgerCoordinator(txRunner, stockLedger, log)
	submitUC := gre.NewSubmitUseCase(
		waybillRepo,
		infrasunat.NewXMLBuilderService(),
		signer.NewDigitalSignatureService(),
		certs,
		authority,
		archive,
		ledger,
		issuer,
		log,
	)
	voidUC := gre.NewVoidUseCase(txRunner, stockLedger, log)
	queryUC := gre.NewQueryUseCase(waybillRepo)
	pdfUC := gre.NewPDFUseCase(waybillRepo, ubigeoRepo, unitRepo, infrapdf.NewMarotoWaybillPDF(), issuer)
	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
		// la emisión incluye el sondeo del ticket
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.SUNAT.PollTimeout + 30*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "GRE API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Auth:      authUC,
		Submit:    submitUC,
		Void:      voidUC,
		Query:     queryUC,
		PDF:       pdfUC,
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

// tokenCache Redis si está configurado y responde; si no, memoria del proceso.
func tokenCache(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) infrasunat.TokenCache {
	if cfg.Addr == "" {
		return cache.NewMemoryTokenCache()
	}
	rdb := cache.NewRedisClient(cfg)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("Redis no disponible; token en memoria")
		_ = rdb.Close()
		return cache.NewMemoryTokenCache()
	}
	return cache.NewRedisTokenCache(rdb)
}
