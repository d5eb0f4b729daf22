package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/ats-analyzer/internal/config"
	"alfredoptarigan/ats-analyzer/internal/handlers"
	"alfredoptarigan/ats-analyzer/internal/repositories"
	"alfredoptarigan/ats-analyzer/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	runRepo := repositories.NewNopAnalysisRunRepository()
	if db != nil {
		runRepo = repositories.NewAnalysisRunRepository(db)
	}
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	sessions := services.NewSessionStore()
	uploadService := services.NewUploadService(cfg.Storage.MaxFileSize)
	pdfParser := services.NewPDFParserService()
	renderer := services.NewChromedpRenderer(cfg.Report.ChromePath)
	log.Println("✅ Services initialized successfully")

	generator, err := services.NewGenerationClient(services.ProviderConfig{
		Provider:      cfg.LLM.Provider,
		CohereAPIKey:  cfg.LLM.CohereAPIKey,
		CohereModel:   cfg.LLM.CohereModel,
		CohereBaseURL: cfg.LLM.CohereBaseURL,
		GeminiAPIKey:  cfg.LLM.GeminiAPIKey,
		GeminiModel:   cfg.LLM.GeminiModel,
	})
	if err != nil {
		log.Fatalf("❌ Failed to initialize LLM provider: %v", err)
	}
	log.Printf("✅ %s (%s) initialized successfully", generator.Provider(), generator.Model())

	notifier := services.NewNopNotifier()
	if cfg.Messaging.RabbitMQURL != "" {
		notifier, err = services.NewAMQPNotifier(cfg.Messaging.RabbitMQURL)
		if err != nil {
			log.Fatalf("❌ Failed to initialize RabbitMQ: %v", err)
		}
	}
	defer notifier.Close()

	analyzerService := services.NewAnalyzerService(runRepo, generator, cfg.LLM.GenerationTimeout)
	log.Println("✅ Analyzer service initialized")

	// Initialize worker
	worker := services.NewWorker(sessions, analyzerService, notifier, services.WorkerOptions{
		Concurrency:   cfg.Worker.Concurrency,
		QueueSize:     cfg.Worker.QueueSize,
		SessionTTL:    cfg.Worker.SessionTTL,
		SweepInterval: cfg.Worker.SweepInterval,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.Start(ctx)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "ATS Resume Analyzer API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	handlers.RegisterRoutes(app, handlers.Handlers{
		Session: handlers.NewSessionHandler(sessions, runRepo),
		Upload:  handlers.NewUploadHandler(sessions, uploadService, pdfParser),
		Analyze: handlers.NewAnalyzeHandler(sessions, worker),
		Report:  handlers.NewReportHandler(sessions, renderer),
	})
	log.Println("✅ Handlers initialized")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
		cancel()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
