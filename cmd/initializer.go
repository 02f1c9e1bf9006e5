package main

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"firebase.google.com/go/messaging"
	"github.com/redis/go-redis/v9"

	"homevistaBack/internal/config"
	"homevistaBack/internal/geo"
	"homevistaBack/internal/handlers"
	"homevistaBack/internal/repositories"
	"homevistaBack/internal/services"
	"homevistaBack/utils"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger
	cfg      config.Config
	db       *sql.DB

	userRepo     *repositories.UserRepository
	propertyRepo *repositories.PropertyRepository

	propertyService *services.PropertyService
	geocodeService  *services.GeocodeService
	userService     *services.UserService

	tokenManager *utils.Manager

	userHandler     *handlers.UserHandler
	propertyHandler *handlers.PropertyHandler
	searchHandler   *handlers.SearchHandler
}

func initializeApp(db *sql.DB, rdb *redis.Client, fcmClient *messaging.Client, cfg config.Config, errorLog, infoLog *log.Logger) (*application, error) {
	// Repositories
	userRepo := repositories.UserRepository{DB: db}
	propertyRepo := repositories.PropertyRepository{DB: db}

	// Infrastructure
	tokenManager, err := utils.NewManager(cfg.JWT.SigningKey)
	if err != nil {
		return nil, err
	}
	storage, err := utils.NewS3Storage(utils.S3Config{
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Bucket:    cfg.S3.Bucket,
		Region:    cfg.S3.Region,
		Endpoint:  cfg.S3.Endpoint,
		PublicURL: cfg.S3.PublicURL,
	})
	if err != nil {
		return nil, err
	}
	geoClient := geo.NewGoogleClient(nil, cfg.Geocode.APIKey, cfg.Geocode.Region)
	geoCache := geo.NewGeocodeCache(rdb, 24*time.Hour)

	// Services
	geocodeService := &services.GeocodeService{Client: geoClient, Cache: geoCache}
	notificationService := &services.NotificationService{Client: fcmClient, UserRepo: &userRepo}
	propertyService := &services.PropertyService{
		PropertyRepo: &propertyRepo,
		Storage:      storage,
		Geocoder:     geocodeService,
		Notifier:     notificationService,
	}
	userService := &services.UserService{UserRepo: &userRepo, TokenManager: tokenManager}

	// Handlers
	userHandler := &handlers.UserHandler{Service: userService}
	propertyHandler := &handlers.PropertyHandler{Service: propertyService}
	searchHandler := &handlers.SearchHandler{Properties: propertyService, Geocoder: geocodeService}

	return &application{
		errorLog:        errorLog,
		infoLog:         infoLog,
		cfg:             cfg,
		db:              db,
		userRepo:        &userRepo,
		propertyRepo:    &propertyRepo,
		propertyService: propertyService,
		geocodeService:  geocodeService,
		userService:     userService,
		tokenManager:    tokenManager,
		userHandler:     userHandler,
		propertyHandler: propertyHandler,
		searchHandler:   searchHandler,
	}, nil
}

func openDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Printf("Failed to open DB: %v", err)
		return nil, err
	}
	if err = db.Ping(); err != nil {
		log.Printf("Failed to ping DB: %v", err)
		return nil, err
	}
	db.SetMaxIdleConns(35)
	log.Println("Successfully connected to database")
	return db, nil
}

func addSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Cross-Origin-Resource-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}
