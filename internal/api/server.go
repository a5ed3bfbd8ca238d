package api

import (
	"log"
	"strings"

	"github.com/ScholarLink/application_service/config"
	"github.com/ScholarLink/application_service/infra/queue"
	"github.com/ScholarLink/application_service/internal/api/rest/handlers"
	"github.com/ScholarLink/application_service/internal/domain"
	"github.com/ScholarLink/application_service/internal/helper"
	"github.com/ScholarLink/application_service/internal/repository"
	"github.com/ScholarLink/application_service/internal/services"
	"github.com/ScholarLink/application_service/pkg/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func StartServer(cfg config.Config) {
	app := fiber.New()

	// ---------- CORS ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.BaseURL,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}
	log.Println("database connected")

	// ---------- MIGRATION + SEED (guarded by advisory lock) ----------
	const migrateLockID int64 = 20260901

	if err := db.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
		log.Fatalf("migration lock error: %v", err)
	}
	defer func() {
		_ = db.Exec("SELECT pg_advisory_unlock(?)", migrateLockID).Error
	}()

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.StudentProfile{},
		&domain.Application{},
		&domain.AdminMember{},
		&domain.AuditLog{},
	); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	log.Println("migration successful")

	// ---------- Repositories ----------
	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentProfileRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	seedAdmins(userRepo, adminRepo, cfg.AdminEmails)

	// ---------- Infra ----------
	kafkaProducer := queue.NewProducer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
	)
	cld, err := storage.New()
	if err != nil {
		log.Fatalf("cloudinary init error: %v", err)
	}
	up := storage.NewCloudinaryUploader(cld)

	authHelper := helper.SetupAuth(cfg.AccessSecret)

	// ---------- Services ----------
	resolver := services.NewRoleResolver(adminRepo)
	authSvc := services.NewAuthService(userRepo, studentRepo, authHelper)
	appSvc := services.NewApplicationService(
		appRepo,
		studentRepo,
		up,
		services.PermissivePolicy{},
		kafkaProducer,
		cfg.SupportPhone,
	)

	// ---------- Handlers ----------
	authHandler := handlers.NewAuthHandler(authSvc, authHelper)
	appHandler := handlers.NewApplicationHandler(appSvc, authHelper)
	handlers.SetupRoutes(app, authHandler, appHandler, authHelper, resolver)

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ---------- Listen ----------
	addr := cfg.ServerPort
	log.Println("listening on", addr)
	log.Fatal(app.Listen(addr))
}

// seedAdmins grants allow-list membership to the configured emails. Emails
// without a registered user yet are skipped; rerun happens on next boot.
func seedAdmins(userRepo repository.UserRepository, adminRepo repository.AdminRepository, emails string) {
	for _, e := range strings.Split(emails, ",") {
		e = strings.TrimSpace(strings.ToLower(e))
		if e == "" {
			continue
		}

		user, err := userRepo.FindUserByEmail(e)
		if err != nil || user == nil {
			log.Printf("admin seed: no user for %s yet, skipping", e)
			continue
		}

		if err := adminRepo.AddAdmin(user.ID); err != nil {
			log.Printf("admin seed: failed for %s: %v", e, err)
		}
	}
}
