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

	_ "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/docs"
	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/bootstrap"
	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/infrastructure/postgres"
	httpRouter "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/interfaces/http"
	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/pkg/config"
	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/pkg/logger"
)

// @title                       Perfumería DTE API
// @version                     1.0
// @description                 Emisión de boletas electrónicas (39/41) ante el SII.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
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
		Str("sii_env", cfg.SII.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	// Un certificado configurado que no carga detiene el arranque.
	sii, err := bootstrap.NewSII(cfg.SII, log)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración SII")
	}
	if sii.Cert == nil {
		log.Warn().Msg("sin certificado: los documentos no se firman (solo dev)")
	}
	uc := bootstrap.NewUseCases(cfg, pool, sii, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.SII.HTTPTimeout*2 + 10*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Perfumería DTE API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "sii_env": cfg.SII.Env})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Issuer:    uc.Issue,
		Documents: uc.Documents,
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
