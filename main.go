package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"media-rewards-system/database"
	"media-rewards-system/handlers"
	"media-rewards-system/middleware"
	"media-rewards-system/services"
	"media-rewards-system/utils"
	"media-rewards-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 512 * 1024 * 1024, // recreation clips can get large
	})

	// Optional service token gate for /api (pass-through when unset)
	app.Use("/api", middleware.ServiceTokenMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	db, err := database.Connect()
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}
	if err := database.Seed(db); err != nil {
		log.Fatal("failed to seed database:", err)
	}

	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "./static"
	}
	gamesDir := os.Getenv("GAMES_DIR")
	if gamesDir == "" {
		gamesDir = "./Games"
	}
	recreationDir := filepath.Join(staticDir, "recreation")
	if err := utils.EnsureDir(recreationDir); err != nil {
		log.Fatal("failed to ensure recreation dir:", err)
	}

	ledgerService := services.NewLedgerService(db)
	resultService := services.NewGameResultService(gamesDir)
	processService := services.NewGameProcessService(gamesDir, resultService)
	resultService.Procs = processService
	catalogService := services.NewCatalogService(db, ledgerService, database.DefaultUserID)
	recreationService := services.NewRecreationService(recreationDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	indexer := workers.NewMediaIndexer(db, staticDir)
	indexer.Start(ctx)

	ledgerService.StartStreakScheduler()

	handlers.SetupGameRoutes(app, processService, resultService)
	handlers.SetupCoinRoutes(app, ledgerService)
	handlers.SetupCatalogRoutes(app, catalogService, recreationService)

	app.Static("/static", staticDir)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Media indexer running (every 1m)")
	log.Println("✅ Streak scheduler running")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
