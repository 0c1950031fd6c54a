package server

import (
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/internal/config"
	"github.com/inkwell-cms/inkwell/internal/handler"
	"github.com/inkwell-cms/inkwell/internal/middleware"
	"github.com/inkwell-cms/inkwell/internal/repository"
	"github.com/inkwell-cms/inkwell/internal/service"
	"github.com/inkwell-cms/inkwell/pkg/mailer"
	"github.com/inkwell-cms/inkwell/pkg/storage"
)

type Server struct {
	engine *gin.Engine
	cfg    *config.Config
}

func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	metadataRepo := repository.NewMetadataRepository(db)

	var searchIndex service.SearchIndex
	if cfg.MeiliSearchHost != "" {
		meiliClient := meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		searchIndex = service.NewMeiliSearchIndex(meiliClient)
	} else {
		log.Println("MEILISEARCH_HOST not set, post suggestions disabled")
	}

	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Printf("cloudinary storage unavailable, avatar upload disabled: %v", err)
		imageStorage = nil
	}

	resetMailer := mailer.NewSMTPMailer(
		cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword,
		cfg.MailFrom, cfg.FrontendBaseURL,
	)

	cooldown := service.NewCooldown(redisClient)

	authService := service.NewAuthService(userRepo, resetMailer, cooldown, cfg.JWTSecret, cfg.JWTTTL)
	authHandler := handler.NewAuthHandler(authService)

	userService := service.NewUserService(userRepo, postRepo, imageStorage)
	userHandler := handler.NewUserHandler(userService)

	postService := service.NewPostService(postRepo, searchIndex)
	postHandler := handler.NewPostHandler(postService)

	categoryService := service.NewCategoryService(categoryRepo)
	categoryHandler := handler.NewCategoryHandler(categoryService)

	metadataService := service.NewMetadataService(metadataRepo)
	metadataHandler := handler.NewMetadataHandler(metadataService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	setupCORS(router, cfg.AllowedOrigins)

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret)

	api := router.Group("/api")
	api.Use(authMiddleware.Attach())
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", authHandler.CurrentUser)
			auth.POST("/request-reset", authHandler.RequestReset)
			auth.POST("/reset-password", authHandler.ResetPassword)
		}

		users := api.Group("/users")
		{
			users.GET("", userHandler.GetAllUsers)
			users.GET("/:id", userHandler.GetUserByID)
			users.PATCH("/:id/data", userHandler.ChangeUserData)
			users.PATCH("/:id/email", userHandler.ChangeUserEmail)
			users.PATCH("/:id/role", userHandler.SetUserRole)
			users.PATCH("/:id/image", userHandler.SetUserImage)
			users.POST("/:id/avatar", userHandler.UploadAvatar)
			users.DELETE("/:id", userHandler.DeleteUser)
		}

		posts := api.Group("/posts")
		{
			posts.GET("", postHandler.GetAllPosts)
			posts.GET("/find", postHandler.FindPost)
			posts.GET("/by-status", postHandler.GetPostsByStatus)
			posts.GET("/by-author", postHandler.GetPostsByAuthor)
			posts.GET("/by-category", postHandler.GetPostsByCategory)
			posts.GET("/by-tag", postHandler.GetPostsByTag)
			posts.GET("/search", postHandler.SearchPosts)
			posts.GET("/suggest", postHandler.SuggestPosts)
			posts.POST("", postHandler.CreatePost)
			posts.PUT("/:id", postHandler.UpdatePost)
			posts.PATCH("/:id/status", postHandler.SetPostStatus)
			posts.DELETE("/:id", postHandler.DeletePost)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", categoryHandler.GetAllCategories)
			categories.GET("/:id", categoryHandler.GetCategoryByID)
			categories.POST("", categoryHandler.CreateCategory)
			categories.DELETE("/:id", categoryHandler.DeleteCategory)
		}

		metadata := api.Group("/metadata")
		{
			metadata.GET("/:id", metadataHandler.GetMetadata)
			metadata.POST("", metadataHandler.CreateMetadata)
			metadata.PUT("/:id/menu", metadataHandler.UpdateMenu)
		}
	}

	return &Server{
		engine: router,
		cfg:    cfg,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
