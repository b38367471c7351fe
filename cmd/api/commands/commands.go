package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskhive/core/internal/domain/entities"
	"github.com/taskhive/core/internal/infrastructure/config"
	"github.com/taskhive/core/internal/infrastructure/database"
	"github.com/taskhive/core/internal/infrastructure/logger"
	redisinfra "github.com/taskhive/core/internal/infrastructure/redis"
	"github.com/taskhive/core/internal/infrastructure/server"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the TaskHive API server",
		Long:  "Start the TaskHive API server with all configured routes and middleware",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage database migrations (up, down, version)",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run all up migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigration("up")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Run all down migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigration("down")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		Run: func(cmd *cobra.Command, args []string) {
			showMigrationVersion()
		},
	})

	return migrateCmd
}

// NewUserCommand creates the user management command
func NewUserCommand() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "User management commands",
		Long:  "Create users without going through the HTTP API",
	}

	createUserCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new user",
		Run: func(cmd *cobra.Command, args []string) {
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			if email == "" || password == "" {
				log.Fatal("Email and password are required")
			}

			createUser(name, email, password)
		},
	}

	createUserCmd.Flags().String("name", "", "User display name")
	createUserCmd.Flags().String("email", "", "User email (required)")
	createUserCmd.Flags().String("password", "", "User password (required)")

	userCmd.AddCommand(createUserCmd)
	return userCmd
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	db, err := database.New(cfg.Database)
	if err != nil {
		appLogger.Fatalw("Failed to connect to database", "error", err)
	}
	defer db.Close()

	redisClient, err := redisinfra.New(cfg.Redis)
	if err != nil {
		appLogger.Fatalw("Failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	srv, err := server.New(cfg, db, redisClient, appLogger)
	if err != nil {
		appLogger.Fatalw("Failed to create server", "error", err)
	}

	go func() {
		if err := srv.Start(); err != nil {
			appLogger.Infow("Server stopped", "reason", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Infow("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Errorw("Server shutdown failed", "error", err)
	}
}

func newMigrator() (*migrate.Migrate, func()) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	driver, err := migratepg.WithInstance(db.DB.DB, &migratepg.Config{})
	if err != nil {
		log.Fatalf("Failed to create migration driver: %v", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", cfg.Database.Name, driver)
	if err != nil {
		log.Fatalf("Failed to create migrator: %v", err)
	}

	return m, func() { db.Close() }
}

func runMigration(direction string) {
	m, cleanup := newMigrator()
	defer cleanup()

	var err error
	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	}

	if err != nil && err != migrate.ErrNoChange {
		log.Fatalf("Migration %s failed: %v", direction, err)
	}

	fmt.Printf("Migration %s completed\n", direction)
}

func showMigrationVersion() {
	m, cleanup := newMigrator()
	defer cleanup()

	version, dirty, err := m.Version()
	if err == migrate.ErrNilVersion {
		fmt.Println("No migrations applied yet")
		return
	}
	if err != nil {
		log.Fatalf("Failed to read migration version: %v", err)
	}

	fmt.Printf("Version: %d, dirty: %v\n", version, dirty)
}

func createUser(name, email, password string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &entities.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
	}

	query := `INSERT INTO users (id, name, email, password_hash) VALUES ($1, $2, $3, $4)`
	if _, err := db.DB.Exec(query, user.ID, user.Name, user.Email, user.PasswordHash); err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("User created: %s (%s)\n", user.Email, user.ID)
}
