// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/adstation/campaign-backend/internal/config"
	"github.com/adstation/campaign-backend/internal/controller"
	"github.com/adstation/campaign-backend/internal/db"
	"github.com/adstation/campaign-backend/internal/handler"
	"github.com/adstation/campaign-backend/internal/middleware"
	"github.com/adstation/campaign-backend/internal/policy"
	"github.com/adstation/campaign-backend/internal/queue"
	"github.com/adstation/campaign-backend/internal/repository"
	"github.com/adstation/campaign-backend/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on OS environment variables")
	}

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	db.Init(cfg)

	userRepo := &repository.UserRepository{DB: db.DB}
	campaignRepo := &repository.CampaignRepository{DB: db.DB}
	logRepo := &repository.NotificationLogRepository{DB: db.DB}

	engine := policy.NewEngine(userRepo, campaignRepo)

	var q queue.Queue
	amqpQueue, err := queue.NewAMQPQueue(cfg.AMQPURL)
	if err != nil {
		// No broker, no worker: record events in-process instead.
		log.Println("amqp unavailable, recording campaign events in-process:", err)
		mem := queue.NewInMemoryQueue()
		service.StartNotificationRecorder(mem, logRepo)
		q = mem
	} else {
		defer amqpQueue.Close()
		q = amqpQueue
	}

	notifier := &service.NotificationService{Queue: q}
	campaignService := &service.CampaignService{
		CampaignRepo: campaignRepo,
		UserRepo:     userRepo,
		Policy:       engine,
		Notifier:     notifier,
	}
	authService := &service.AuthService{
		UserRepo:  userRepo,
		JWTSecret: cfg.JWTSecret,
	}

	campaignController := &controller.CampaignController{CampaignService: campaignService}
	authController := &controller.AuthController{AuthService: authService}
	userHandler := &handler.UserHandler{Repo: userRepo}
	childrenHandler := &handler.CampaignChildrenHandler{
		Service:          campaignService,
		NotificationLogs: logRepo,
	}

	r := chi.NewRouter()

	r.Post("/auth/login", authController.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(cfg.JWTSecret, userRepo))

		r.Get("/auth/me", authController.Me)

		r.Get("/users", userHandler.ListUsersHandler)
		r.Post("/users", userHandler.CreateUserHandler)

		r.Post("/campaigns", campaignController.CreateCampaign)
		r.Get("/campaigns", campaignController.ListCampaigns)
		r.Get("/campaigns/{id}", campaignController.GetCampaign)
		r.Put("/campaigns/{id}", campaignController.UpdateCampaign)
		r.Delete("/campaigns/{id}", campaignController.DeleteCampaign)
		r.Post("/campaigns/{id}/duplicate", campaignController.DuplicateCampaign)
		r.Post("/campaigns/{id}/reassign-staff", campaignController.ReassignStaff)
		r.Post("/campaigns/{id}/reassign-creator", campaignController.ReassignCreator)
		r.Get("/campaigns/{id}/posts", childrenHandler.ListPostsHandler)
		r.Get("/campaigns/{id}/order-requests", childrenHandler.ListOrderRequestsHandler)
		r.Get("/campaigns/{id}/notifications", childrenHandler.ListNotificationsHandler)
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	log.Println("server running on :" + cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, corsHandler.Handler(r)))
}
