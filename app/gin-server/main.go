package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/hirewire/hirewire/config"
	"github.com/hirewire/hirewire/internal/api/handlers"
	"github.com/hirewire/hirewire/internal/api/middleware"
	"github.com/hirewire/hirewire/internal/api/routes"
	"github.com/hirewire/hirewire/internal/cache"
	"github.com/hirewire/hirewire/internal/logger"
	pgrepo "github.com/hirewire/hirewire/internal/repositories/postgres"
	"github.com/hirewire/hirewire/internal/services"
	"github.com/hirewire/hirewire/internal/storage"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()

	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	log.Info("PostgreSQL connected")

	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	log.Info("Redis connected")

	db := config.PostgresDB
	feeds := cache.NewRedisCache(config.RedisClient)

	var uploader storage.Uploader
	if bucket := os.Getenv("GCS_BUCKET"); bucket != "" {
		gcs, err := storage.NewGCSUploader(context.Background(), bucket)
		if err != nil {
			log.Fatalf("GCS init error: %v", err)
		}
		defer gcs.Close()
		uploader = gcs
	} else {
		log.Warn("GCS_BUCKET not set; file uploads disabled")
	}

	tagRepo := pgrepo.NewTagRepo(db)
	tagLinkRepo := pgrepo.NewTagLinkRepo(db)
	vacancyRepo := pgrepo.NewVacancyRepo(db)
	templateRepo := pgrepo.NewTemplateRepo(db)
	applicationRepo := pgrepo.NewApplicationRepo(db)
	fileRepo := pgrepo.NewFileRepo(db)
	statusRepo := pgrepo.NewStatusRepo(db)

	tagSvc := services.NewTagService(tagRepo, tagLinkRepo, vacancyRepo, feeds)
	vacancySvc := services.NewVacancyService(vacancyRepo, templateRepo, feeds)
	applicationSvc := services.NewApplicationService(applicationRepo, vacancyRepo, templateRepo, fileRepo, statusRepo)
	templateSvc := services.NewTemplateService(templateRepo)
	fileSvc := services.NewFileService(fileRepo, uploader)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	routes.RegisterRoutes(r, routes.Deps{
		Tag:         handlers.NewTagHandler(tagSvc),
		Vacancy:     handlers.NewVacancyHandler(vacancySvc),
		Application: handlers.NewApplicationHandler(applicationSvc),
		Template:    handlers.NewTemplateHandler(templateSvc),
		File:        handlers.NewFileHandler(fileSvc),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
