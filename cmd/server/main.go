package main

import (
	"database/sql"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	_ "github.com/lib/pq"

	"github.com/Maxito7/central_backend/internal/application"
	"github.com/Maxito7/central_backend/internal/config"
	"github.com/Maxito7/central_backend/internal/email"
	"github.com/Maxito7/central_backend/internal/infrastructure/repository"
	handlers "github.com/Maxito7/central_backend/internal/interfaces/http"
	"github.com/Maxito7/central_backend/internal/llm"
	"github.com/Maxito7/central_backend/internal/scheduler"
	services "github.com/Maxito7/central_backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.GetDBConnString())
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Error pinging database: %v", err)
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,x-service-token,x-user-id",
		AllowCredentials: true,
		ExposeHeaders:    "Content-Length",
		MaxAge:           86400,
	}))

	// Repositorios
	eventoRepo := repository.NewEventoRepository(db)
	reservaRepo := repository.NewReservaRepository(db)
	perfilRepo := repository.NewPerfilRepository(db)
	experienciaRepo := repository.NewExperienciaRepository(db)
	usuarioRepo := repository.NewUsuarioRepository(db)
	anonRepo := repository.NewAnonSessionRepository(db)

	// Email Client
	emailClient, err := email.NewClient(
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPassword,
		cfg.SMTPFromName,
		cfg.SMTPFromEmail,
	)
	if err != nil {
		log.Printf("Warning: Email client initialization failed: %v", err)
		emailClient = nil // Continuar sin email
	}

	// LLM
	var llmClient llm.Client
	switch cfg.LLMProvider {
	case "cohere":
		llmClient = llm.NewCohereClient(cfg.CohereAPIKey, cfg.CohereModel)
	default:
		llmClient = llm.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	}

	// Servicios
	perfilService := application.NewPerfilService(perfilRepo, experienciaRepo)
	reservaService := application.NewReservaService(reservaRepo, eventoRepo, perfilRepo, experienciaRepo, usuarioRepo, anonRepo, emailClient)
	chatService := application.NewChatService(eventoRepo, reservaRepo, experienciaRepo, perfilService, reservaService, llmClient, cfg.LLMTimeout)

	// Handlers
	auth := handlers.NewAuthenticator(cfg.JWTSecret, cfg.JWTAlg, cfg.ServiceToken, usuarioRepo)
	chatHandler := handlers.NewChatHandler(chatService, auth)
	reservaHandler := handlers.NewReservaHandler(reservaService, auth)
	eventHandler := handlers.NewEventHandler(eventoRepo, auth)

	// Imágenes de experiencias (S3)
	imagenService, err := services.NewImagenesService(cfg.S3Bucket, cfg.S3Region)
	if err != nil {
		log.Printf("Warning: servicio de imágenes no disponible: %v", err)
	}

	// Scheduler de reservas provisionales
	reservationScheduler := scheduler.NewReservationScheduler(reservaService)
	reservationScheduler.Start()
	defer reservationScheduler.Stop()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	chat := app.Group("/chat")
	chat.Post("/start", chatHandler.Start)
	chat.Post("/message", chatHandler.Message)

	reservas := app.Group("/reservas")
	reservas.Post("/create", reservaHandler.Create)
	reservas.Post("/confirm", reservaHandler.Confirm)
	reservas.Post("/merge_profile", reservaHandler.MergeProfile)

	events := app.Group("/events")
	events.Post("/", eventHandler.Receive)

	if imagenService != nil {
		imagenHandler := handlers.NewImagenHandler(imagenService)
		api := app.Group("/api")
		upload := api.Group("/upload")
		upload.Post("/imagenes", imagenHandler.Upload)
	}

	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
