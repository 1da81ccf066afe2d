package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron"

	config "github.com/flowpilotuk-hash/flowpilot/configs"
	"github.com/flowpilotuk-hash/flowpilot/internal/api/handlers"
	"github.com/flowpilotuk-hash/flowpilot/internal/api/middleware"
	job "github.com/flowpilotuk-hash/flowpilot/internal/jobs"
	"github.com/flowpilotuk-hash/flowpilot/internal/notify"
	"github.com/flowpilotuk-hash/flowpilot/internal/queue"
	"github.com/flowpilotuk-hash/flowpilot/internal/repository"
	"github.com/flowpilotuk-hash/flowpilot/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	planRepo := repository.NewPlanRepository(db)
	approvalRepo := repository.NewApprovalRepository(db)
	dispatchRepo := repository.NewDispatchRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	reviewJobRepo := repository.NewReviewJobRepository(db)
	mediaAssetRepo := repository.NewMediaAssetRepository(db)
	apiKeyRepo := repository.NewApiKeyRepository(db)

	sender := notify.NewLogSender()
	deliverer := queue.NewQueue(reviewJobRepo, sender)

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo)
	profileService := service.NewProfileService(profileRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	bookingService := service.NewBookingService(bookingRepo, settingsRepo)
	planService := service.NewPlanService(planRepo)
	generatorService := service.NewPlanGeneratorService(*cfg, planRepo, profileRepo)
	approvalService := service.NewApprovalService(approvalRepo)
	dispatchService := service.NewDispatchService(planRepo, approvalRepo, dispatchRepo)
	reviewService := service.NewReviewService(bookingRepo, appointmentRepo, reviewJobRepo, settingsRepo, profileRepo, client, deliverer)
	r2Service := service.NewR2Service(*cfg)
	mediaService := service.NewMediaService(*cfg, mediaAssetRepo, *r2Service)
	apiKeyService := service.NewApiKeyService(apiKeyRepo)

	authMiddleware := middleware.NewAuthMiddleware(*cfg, apiKeyService)

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallbackHandler)

	booking := handlers.NewBookingHandler(bookingService)
	app.Get("/b/:slug", booking.Redirect)

	webhook := handlers.NewWebhookHandler(reviewService)
	app.Post("/webhook/appointments/:slug", middleware.BearerAuth(cfg.WebhookToken), webhook.Appointment)

	worker := handlers.NewWorkerHandler(reviewService, dispatchService)
	wk := app.Group("/worker")
	wk.Use(middleware.BearerAuth(cfg.WorkerToken))
	wk.Get("/review-jobs/due", worker.ReviewJobsDue)
	wk.Post("/review-jobs/consume", worker.ReviewJobsConsume)
	wk.Get("/dispatch/ready", worker.DispatchReady)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	user := handlers.NewUserHandler(userService)
	api.Get("/user/info", user.GetUserInfo)

	profile := handlers.NewProfileHandler(profileService)
	api.Get("/profile", profile.GetProfile)
	api.Post("/profile", profile.UpdateProfile)

	settings := handlers.NewSettingsHandler(settingsService)
	api.Get("/settings/info", settings.GetSettingsInfo)
	api.Post("/settings/update", settings.UpdateSettings)

	api.Post("/booking/slug", booking.ClaimSlug)
	api.Get("/booking/info", booking.BookingInfo)

	plan := handlers.NewPlanHandler(planService, generatorService)
	api.Post("/plan/generate", plan.GeneratePlan)
	api.Get("/plan/latest", plan.LatestPlan)
	api.Post("/plan/save", plan.SavePlan)

	approval := handlers.NewApprovalHandler(approvalService)
	api.Get("/approvals", approval.ListApprovals)
	api.Post("/approvals/set", approval.SetApproval)

	dispatch := handlers.NewDispatchHandler(dispatchService)
	api.Get("/dispatch", dispatch.ListFlags)
	api.Post("/dispatch/set", dispatch.SetFlag)
	api.Get("/dispatch/ready", dispatch.DispatchReady)

	media := handlers.NewMediaHandler(mediaService)
	api.Post("/media/upload", media.Upload)
	api.Get("/media", media.List)

	apiKeys := handlers.NewApiKeyHandler(apiKeyService)
	api.Post("/api_key/new", apiKeys.CreateApiKey)
	api.Get("/api_key/list", apiKeys.ListKeys)
	api.Post("/api_key/remove", apiKeys.RemoveAPIKey)

	// in-process pollers; external workers can hit /worker instead
	reviewPoller := job.NewReviewPollerJob(reviewService)

	c := cron.New()
	c.AddFunc("@every 00h01m00s", reviewPoller.ConsumeDue)
	c.AddFunc("@every 00h05m00s", reviewPoller.ReleaseStuck)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeDeliverReview, deliverer.HandleDeliverReviewTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}
}
