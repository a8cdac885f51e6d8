package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"alfredoptarigan/resume-parser/internal/config"
	"alfredoptarigan/resume-parser/internal/handlers"
	"alfredoptarigan/resume-parser/internal/logger"
	"alfredoptarigan/resume-parser/internal/repositories"
	"alfredoptarigan/resume-parser/internal/services"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	log.Info().Str("env", cfg.Server.Env).Msg("Config loaded")

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	runRepo := repositories.NewParseRunRepository(db)

	ctx := context.Background()

	extractor, err := services.NewTextExtractor(ctx, cfg.Extraction.MaxPDFPages)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize text extractor")
	}

	promptBuilder := services.NewPromptBuilder(cfg.Extraction.MaxInputChars, cfg.Extraction.MaxSkills)
	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini, promptBuilder)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Gemini AI")
	}

	resumeParser := services.NewResumeParser(
		extractor,
		geminiService,
		services.NewNormalizer(cfg.Extraction.MaxSkills),
		runRepo,
	)
	log.Info().Msg("Services initialized")

	app := newApp(cfg, resumeParser, runRepo)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info().Msg("Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("Server starting")

	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}

func newApp(cfg *config.Config, resumeParser services.ResumeParser, runRepo repositories.ParseRunRepository) *fiber.App {
	parseHandler := handlers.NewParseHandler(resumeParser, cfg.Storage.MaxFileSize, cfg.Server.RequestTimeout)
	runHandler := handlers.NewRunHandler(runRepo)

	app := fiber.New(fiber.Config{
		AppName:      "Resume Parser API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Server.RequestTimeout + 10*time.Second,
		// room for the multipart envelope around a max-size file
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/parse-resume", parseHandler.HandleParseResume)
	api.Get("/runs", runHandler.HandleListRuns)
	api.Get("/runs/:id", runHandler.HandleGetRun)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Parser API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/parse-resume",
				"GET /api/v1/runs",
				"GET /api/v1/runs/:id",
				"GET /api/v1/health",
			},
		})
	})

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
