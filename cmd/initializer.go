package main

import (
	"database/sql"
	"log"
	"time"

	"firebase.google.com/go/messaging"
	"github.com/redis/go-redis/v9"

	"carspotBack/internal/cache"
	"carspotBack/internal/handlers"
	"carspotBack/internal/notify"
	"carspotBack/internal/repositories"
	"carspotBack/internal/services"
	"carspotBack/utils"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger
	db       *sql.DB
	tokens   *utils.Manager

	userRepo *repositories.UserRepository

	messageService *services.MessageService

	listingHandler   *handlers.ListingHandler
	messageHandler   *handlers.MessageHandler
	reviewHandler    *handlers.ReviewHandler
	wishlistHandler  *handlers.WishlistHandler
	userHandler      *handlers.UserHandler
	dashboardHandler *handlers.DashboardHandler
	notifyHandler    *handlers.NotifyHandler

	wsManager *WebSocketManager
}

func initializeApp(db *sql.DB, rdb *redis.Client, fcm *messaging.Client, uploader *utils.Uploader, tokens *utils.Manager, errorLog, infoLog *log.Logger) *application {
	// Repositories
	listingRepo := repositories.ListingRepository{DB: db}
	messageRepo := repositories.MessageRepository{DB: db}
	reviewRepo := repositories.ReviewRepository{DB: db}
	wishlistRepo := repositories.WishlistRepository{DB: db}
	userRepo := repositories.UserRepository{DB: db}
	analyticsRepo := repositories.AnalyticsRepository{DB: db}

	var options services.OptionsStore
	if rdb != nil {
		options = cache.NewOptionsCache(rdb, 5*time.Minute)
	}
	push := notify.NewPushSender(fcm, db)

	// Services
	listingService := &services.ListingService{ListingRepo: &listingRepo, Options: options}
	messageService := &services.MessageService{MessageRepo: &messageRepo, ListingRepo: &listingRepo, Push: push}
	reviewService := &services.ReviewService{ReviewRepo: &reviewRepo, ListingRepo: &listingRepo, MessageRepo: &messageRepo}
	wishlistService := &services.WishlistService{WishlistRepo: &wishlistRepo, ListingRepo: &listingRepo}
	userService := &services.UserService{UserRepo: &userRepo, Tokens: tokens}
	dashboardService := &services.DashboardService{AnalyticsRepo: &analyticsRepo}

	// Handlers
	listingHandler := &handlers.ListingHandler{Service: listingService, Uploader: uploader, Tokens: tokens}
	messageHandler := &handlers.MessageHandler{Service: messageService}
	reviewHandler := &handlers.ReviewHandler{Service: reviewService}
	wishlistHandler := &handlers.WishlistHandler{Service: wishlistService}
	userHandler := &handlers.UserHandler{Service: userService, Uploader: uploader}
	dashboardHandler := &handlers.DashboardHandler{Service: dashboardService}
	notifyHandler := &handlers.NotifyHandler{Push: push}

	return &application{
		errorLog:         errorLog,
		infoLog:          infoLog,
		db:               db,
		tokens:           tokens,
		userRepo:         &userRepo,
		messageService:   messageService,
		listingHandler:   listingHandler,
		messageHandler:   messageHandler,
		reviewHandler:    reviewHandler,
		wishlistHandler:  wishlistHandler,
		userHandler:      userHandler,
		dashboardHandler: dashboardHandler,
		notifyHandler:    notifyHandler,
	}
}
