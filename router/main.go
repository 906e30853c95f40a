package router

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/collabity/collabity-api/config"
	"github.com/collabity/collabity-api/database"
	"github.com/collabity/collabity-api/handlers"
	auth_handlers "github.com/collabity/collabity-api/handlers/auth"
	faculty_handlers "github.com/collabity/collabity-api/handlers/faculty"
	profile_handlers "github.com/collabity/collabity-api/handlers/profile"
	student_handlers "github.com/collabity/collabity-api/handlers/student"
	tag_handlers "github.com/collabity/collabity-api/handlers/tag"
	"github.com/collabity/collabity-api/model"
	"github.com/collabity/collabity-api/services"
	"github.com/collabity/collabity-api/storage"
	"github.com/collabity/collabity-api/utils/auth"
	"github.com/collabity/collabity-api/utils/cache"
	"github.com/collabity/collabity-api/utils/middleware"
)

// SetupRoutes wires verifier, cache, storage, services and handlers onto the app
func SetupRoutes(app *fiber.App, store database.Storage, env *config.EnviornmentVariable) {
	if env.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := env.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "collabity-identity"
	}

	verifier := auth.NewJWTVerifier(auth.VerifierConfig{
		Secret: env.JWT_SECRET,
		Issuer: jwtIssuer,
		Expiry: 24 * time.Hour,
	})

	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Redis cache for identity lookups and the tag catalog
	redisURL := env.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}
	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Role lookups will hit the database.", err)
		redisCache = nil
	}

	// Document storage backend
	var docStore storage.Store
	switch env.STORAGE_BACKEND {
	case "spaces":
		docStore, err = storage.NewSpacesStore(storage.SpacesConfig{
			AccessKey: env.SPACES_ACCESS_KEY,
			SecretKey: env.SPACES_SECRET_KEY,
			Bucket:    env.SPACES_BUCKET,
			Region:    env.SPACES_REGION,
			Endpoint:  env.SPACES_ENDPOINT,
		})
	default:
		docStore, err = storage.NewLocalStore(env.DOCUMENTS_DIR)
	}
	if err != nil {
		log.Fatalf("Failed to initialize document storage: %v", err)
	}

	authMiddleware := middleware.NewAuthMiddleware(verifier, db, redisCache)

	// Services
	topicService := services.NewTopicService(db, docStore)
	participantService := services.NewParticipantService(db)

	// Handlers
	healthHandler := handlers.NewHealthHandler(store)
	authHandler := auth_handlers.NewAuthHandler(db, authMiddleware)
	tagHandler := tag_handlers.NewTagHandler(db, redisCache)
	facultyTopics := faculty_handlers.NewTopicHandler(db, topicService)
	facultyParticipants := faculty_handlers.NewParticipantHandler(db, participantService)
	facultyLifecycle := faculty_handlers.NewLifecycleHandler(db, topicService)
	facultyDashboard := faculty_handlers.NewDashboardHandler(db)
	studentFeed := student_handlers.NewFeedHandler(db)
	studentTopics := student_handlers.NewTopicHandler(db, topicService, participantService)
	studentDashboard := student_handlers.NewDashboardHandler(db)
	profileHandler := profile_handlers.NewProfileHandler(db, authMiddleware)

	api := app.Group("/api")

	// Health check (public)
	api.Get("/health", healthHandler.Check)

	// Tag catalog
	api.Get("/tags", tagHandler.List)
	api.Post("/tags", authMiddleware.RequireRole(model.RoleAdmin), tagHandler.Create)

	// Auth routes (public; token issuance lives in the identity gateway)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Get("/checkRole", authHandler.CheckRole)
	authGroup.Post("/login", authHandler.Login)

	// Faculty routes
	faculty := api.Group("/faculty", authMiddleware.RequireRole(model.RoleFaculty))
	faculty.Post("/topics", facultyTopics.Create)
	faculty.Get("/getRegisteredTopics", facultyTopics.ListRegistered)
	faculty.Get("/topics/:topicId", facultyTopics.GetTopic)
	faculty.Get("/participants/:topicId", facultyParticipants.List)
	faculty.Put("/participants/:topicId/:studentId", facultyParticipants.Decide)
	faculty.Put("/startTopic/:topicId", facultyLifecycle.Start)
	faculty.Put("/completeTopic/:topicId", facultyLifecycle.Complete)
	faculty.Get("/dashboard", facultyDashboard.Get)

	// Student routes
	student := api.Group("/student", authMiddleware.RequireRole(model.RoleStudent))
	student.Get("/getFeed", studentFeed.Get)
	student.Get("/getTopicDetails", studentTopics.GetDetails)
	student.Get("/downloadDocument/:topic_id", studentTopics.DownloadDocument)
	student.Post("/applyForTopic", studentTopics.Apply)
	student.Get("/topics", studentTopics.ListRegistered)
	student.Get("/dashboard", studentDashboard.Get)

	// Profile routes (any authenticated role)
	profileGroup := api.Group("/profile", authMiddleware.Required())
	profileGroup.Get("/:username", profileHandler.Get)
	profileGroup.Put("/:username", profileHandler.Update)
}
