package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"fileshare/internal/config"
	"fileshare/internal/database"
	"fileshare/internal/middleware"
	"fileshare/internal/modules/events"
	"fileshare/internal/modules/file"
	"fileshare/internal/modules/user"
	jwtsvc "fileshare/internal/pkg/jwt"
	"fileshare/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	var userRepo user.Repository
	var fileRepo file.Repository

	if cfg.DatabaseURL != "" {
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		if err := database.Migrate(db); err != nil {
			log.Fatal(err)
		}
		userRepo = user.NewRepository(db)
		fileRepo = file.NewRepository(db)
	} else {
		log.Println("DATABASE_URL not set, using in-memory stores (state is lost on restart)")
		userRepo = user.NewMemoryRepository()
		fileRepo = file.NewMemoryRepository()
	}

	jwt := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	hub := events.NewHub()
	defer hub.Close()

	userService := user.NewService(userRepo, jwt)
	userHandler := user.NewHandler(userService)

	disk := storage.NewDisk(cfg.UploadDir)
	fileService := file.NewService(fileRepo, disk, cfg.MaxUploadSize, hub)
	fileHandler := file.NewHandler(fileService)

	eventsHandler := events.NewHandler(hub)

	router := NewRouter(jwt, userHandler, fileHandler, eventsHandler)

	log.Printf("listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

// NewRouter wires middleware and every module's routes. Registration and
// login stay public; everything touching files goes behind the guard.
func NewRouter(
	jwt *jwtsvc.Service,
	userHandler *user.Handler,
	fileHandler *file.Handler,
	eventsHandler *events.Handler,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.ErrorLogger())
	router.Use(middleware.CORS())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "file sharing API",
			"version": "1.0.0",
			"endpoints": gin.H{
				"users": "/api/users",
				"files": "/api/files",
			},
		})
	})

	api := router.Group("/api")
	{
		userHandler.RegisterPublicRoutes(api)

		protected := api.Group("/")
		protected.Use(middleware.JWTAuth(jwt))
		{
			userHandler.RegisterProtectedRoutes(protected)
			fileHandler.RegisterRoutes(protected)
			eventsHandler.RegisterRoutes(protected)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "route not found: " + c.Request.URL.Path,
			},
		})
	})

	return router
}
