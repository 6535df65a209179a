package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/audit"
	"github.com/mrlokans/bookstore/internal/auth"
	"github.com/mrlokans/bookstore/internal/catalog"
	"github.com/mrlokans/bookstore/internal/config"
	"github.com/mrlokans/bookstore/internal/database"
	"github.com/mrlokans/bookstore/internal/database/admins"
	auditdb "github.com/mrlokans/bookstore/internal/database/audit"
	"github.com/mrlokans/bookstore/internal/database/books"
	"github.com/mrlokans/bookstore/internal/demo"
	http_controllers "github.com/mrlokans/bookstore/internal/http"
	"github.com/mrlokans/bookstore/internal/scheduler"
	"github.com/mrlokans/bookstore/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// App is the fully wired application: router plus the background
// machinery that has to be stopped on shutdown.
type App struct {
	Router *gin.Engine

	db          *database.Database
	auditor     *audit.Service
	rateLimiter *auth.RateLimiter
	taskClient  *tasks.Client
	taskCancel  context.CancelFunc
	scheduler   *scheduler.AuditCleanupScheduler
}

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	// Background work is stopped after in-flight requests have finished
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Bookstore v%s", version)

	app, err := NewApp(cfg, version)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	Serve(app.Router, cfg, app.Shutdown)
}

// NewApp opens the database and wires services, background tasks and the router.
func NewApp(cfg *config.Config, version string) (*App, error) {
	if cfg.Audit.CleanupSchedule != "" {
		if err := scheduler.ValidateCronSchedule(cfg.Audit.CleanupSchedule); err != nil {
			return nil, fmt.Errorf("invalid AUDIT_CLEANUP_SCHEDULE %q: %w", cfg.Audit.CleanupSchedule, err)
		}
	}

	db, err := database.NewDatabase(cfg.Database.Path, cfg.Database.LogSQL)
	if err != nil {
		return nil, err
	}
	app := &App{db: db}

	auditor := audit.NewService(auditdb.NewRepository(db.DB))
	app.auditor = auditor

	catalogService := catalog.NewService(books.NewRepository(db.DB))
	catalogService.SetRecorder(auditor)

	authService := auth.NewService(admins.NewRepository(db.DB), cfg.Auth)

	// Get underlying SQL DB for session store
	sqlDB, err := db.DB.DB()
	if err != nil {
		app.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to get SQL DB for sessions: %w", err)
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		app.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to initialize session manager: %w", err)
	}

	csrfSecret, err := csrfSecretFromConfig(cfg.Auth.SessionSecret)
	if err != nil {
		app.Shutdown(context.Background())
		return nil, err
	}

	app.rateLimiter = auth.NewRateLimiter(auth.RateLimitConfigFromAuth(cfg.Auth))

	var demoMiddleware *demo.Middleware
	if cfg.Demo.Enabled {
		log.Printf("Demo mode enabled - write operations will be blocked")
		demoMiddleware = demo.NewMiddleware(true)
		seedDemo(catalogService, authService)
	}

	if cfg.Tasks.Enabled {
		if err := app.startTasks(cfg, auditor); err != nil {
			app.Shutdown(context.Background())
			return nil, err
		}
	}

	hasAdmins, err := authService.HasAdmins()
	if err != nil {
		log.Printf("Failed to check for admin accounts: %v", err)
	} else if !hasAdmins {
		log.Printf("No admins found. Visit /register or run 'bookstore create-admin' to create one.")
	}

	app.Router = http_controllers.NewRouter(http_controllers.RouterConfig{
		Catalog:        catalogService,
		Database:       db,
		AuthService:    authService,
		SessionManager: sessionManager,
		RateLimiter:    app.rateLimiter,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		Auditor:        auditor,
		DemoMiddleware: demoMiddleware,
		TemplatesPath:  cfg.UI.TemplatesPath,
		Version:        version,
	})

	return app, nil
}

// startTasks opens the task queue, registers the audit cleanup queue and
// schedules it.
func (a *App) startTasks(cfg *config.Config, auditor *audit.Service) error {
	taskClient, err := tasks.NewClient(cfg.Database.Path, tasks.ConfigFromApp(cfg.Tasks))
	if err != nil {
		return fmt.Errorf("failed to initialize task queue: %w", err)
	}
	a.taskClient = taskClient

	taskClient.Register(tasks.NewCleanupAuditEventsQueue(auditor))

	// Workers run in the background until Shutdown cancels taskCtx
	var taskCtx context.Context
	taskCtx, a.taskCancel = context.WithCancel(context.Background())
	taskClient.Start(taskCtx)

	a.scheduler = scheduler.NewAuditCleanupScheduler(taskClient, cfg.Audit.CleanupSchedule, cfg.Audit.RetentionDays)
	if err := a.scheduler.Start(taskCtx); err != nil {
		return fmt.Errorf("failed to start audit cleanup scheduler: %w", err)
	}
	return nil
}

// Shutdown stops background work and closes the database. It is safe to
// call on a partially built App.
func (a *App) Shutdown(ctx context.Context) {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.taskClient != nil {
		a.taskClient.Stop(ctx)
		if a.taskCancel != nil {
			a.taskCancel()
		}
		if err := a.taskClient.Close(); err != nil {
			log.Printf("Error closing task client: %v", err)
		}
	}
	if a.rateLimiter != nil {
		a.rateLimiter.Stop()
	}
	if a.auditor != nil {
		a.auditor.Wait()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}
}

// csrfSecretFromConfig decodes AUTH_SESSION_SECRET, or generates a
// throwaway secret when it is unset.
func csrfSecretFromConfig(secret string) ([]byte, error) {
	if secret != "" {
		decoded, err := hex.DecodeString(secret)
		if err != nil {
			// Not hex, use as raw bytes
			return []byte(secret), nil
		}
		return decoded, nil
	}

	generated, err := auth.GenerateSessionSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSRF secret: %w", err)
	}
	log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
	return hex.DecodeString(generated)
}

func seedDemo(catalogService *catalog.Service, authService *auth.Service) {
	added, err := demo.SeedCatalog(catalogService)
	if err != nil {
		log.Printf("Failed to seed demo catalog: %v", err)
	} else if added > 0 {
		log.Printf("Seeded demo catalog with %d books", added)
	}

	created, err := demo.SeedAdmin(authService)
	if err != nil {
		log.Printf("Failed to create demo admin: %v", err)
	} else if created {
		log.Printf("Created demo admin %q", demo.Username)
	}
}
