package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BritneyNunes/NunesAutoBackEnd/cache"
	"github.com/BritneyNunes/NunesAutoBackEnd/config"
	"github.com/BritneyNunes/NunesAutoBackEnd/controllers"
	db "github.com/BritneyNunes/NunesAutoBackEnd/database"
	"github.com/BritneyNunes/NunesAutoBackEnd/gcs"
	middlewares "github.com/BritneyNunes/NunesAutoBackEnd/middleware"
	"github.com/BritneyNunes/NunesAutoBackEnd/models"
	"github.com/BritneyNunes/NunesAutoBackEnd/routes"
	"github.com/BritneyNunes/NunesAutoBackEnd/services"
	"github.com/BritneyNunes/NunesAutoBackEnd/utils"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("[CONFIG] ", err)
	}

	codec, err := utils.NewPasswordCodec(cfg.PasswordScheme)
	if err != nil {
		log.Fatal("[CONFIG] ", err)
	}
	if cfg.PasswordScheme != "bcrypt" {
		log.Println("[AUTH] [WARN] passwords are stored Base64-encoded, set PASSWORD_SCHEME=bcrypt to hash them")
	}

	ctx := context.Background()

	client, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal("[DB] ", err)
	}
	defer db.Disconnect(client)

	colls := db.NewCollections(client.Database(cfg.MongoDatabase))
	if err := db.EnsureIndexes(ctx, colls); err != nil {
		log.Println("[DB] [WARN] index setup incomplete:", err)
	}

	users := models.NewUserStore(colls.Users)
	carts := models.NewCartStore(colls.Cart)
	orders := models.NewOrderStore(colls.Orders)
	brands := models.NewBrandStore(colls.Brands)
	parts := models.NewPartStore(colls.Parts)

	var catalogCache cache.CatalogCache = cache.Noop{}
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Println("[CACHE] [WARN] redis unavailable, catalog is served uncached:", err)
		} else {
			catalogCache = cache.NewRedisCache(redisClient)
		}
	}
	catalog := services.NewCatalogService(brands, parts, catalogCache, cfg.CatalogCacheTTL)

	var images controllers.ImageUploader
	var closeStorage func() error
	if cfg.GCSBucket != "" {
		storageClient, err := gcs.NewClient(ctx, cfg.GCSCredentialsFile)
		if err != nil {
			log.Println("[GCS] [WARN] image uploads disabled:", err)
		} else {
			images = gcs.NewUploader(storageClient, cfg.GCSBucket)
			closeStorage = storageClient.Close
		}
	}

	var payments services.PaymentGateway
	if cfg.PaymentsEnabled() {
		gateway, err := services.NewOmiseGateway(cfg.OmisePublicKey, cfg.OmiseSecretKey, cfg.OmiseCurrency)
		if err != nil {
			log.Println("[PAYMENT] [WARN] card payments disabled:", err)
		} else {
			payments = gateway
		}
	}

	var mailer utils.Mailer
	if cfg.MailEnabled() {
		mailer = utils.NewSMTPMailer(utils.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.EmailUser,
			Password: cfg.EmailPass,
			From:     cfg.EmailFrom,
		})
	} else {
		log.Println("[MAIL] EMAIL_USER/EMAIL_PASS not set, email disabled")
	}

	scheduler, err := services.StartScheduler(cfg.CartPurgeSchedule, services.NewCartPurgeJob(carts, cfg.CartRetention))
	if err != nil {
		db.Disconnect(client)
		log.Fatal("[CRON] ", err)
	}

	timeout := cfg.RequestTimeout
	handlers := routes.Handlers{
		Users:     controllers.NewUserController(users, carts, codec, timeout),
		Catalog:   controllers.NewCatalogController(catalog, brands, parts, images, timeout),
		Cart:      controllers.NewCartController(carts, timeout),
		Orders:    controllers.NewOrderController(orders, users, payments, mailer, cfg.VATRate, timeout),
		Email:     controllers.NewEmailController(mailer),
		Health:    &controllers.HealthController{Ping: func(ctx context.Context) error { return db.Ping(ctx, client) }},
		Locations: controllers.NewResource[models.UserLocation](models.NewUserLocationStore(colls.UserLocations), models.UserLocationSchema, timeout),
		Details:   controllers.NewResource[models.UserPartsDetails](models.NewUserPartsDetailsStore(colls.UserPartsDetails), models.UserPartsDetailsSchema, timeout),
		Feedback:  controllers.NewResource[models.FeedbackRating](models.NewFeedbackRatingStore(colls.FeedbackRatings), models.FeedbackRatingSchema, timeout),
		Auth:      middlewares.BasicAuth(users, codec),
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	routes.SetupRoutes(r, handlers, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-stop:
		log.Printf("Received %s, shutting down", sig)
	case err := <-serverErr:
		log.Println("Server error, shutting down:", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("HTTP shutdown error:", err)
	}

	<-scheduler.Stop().Done()
	log.Println("[CRON] scheduler stopped")

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Println("[CACHE] redis close error:", err)
		}
	}
	if closeStorage != nil {
		if err := closeStorage(); err != nil {
			log.Println("[GCS] close error:", err)
		}
	}
}
