package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iman-school/caseload/api"
	"github.com/iman-school/caseload/config"
	"github.com/iman-school/caseload/database"
	"github.com/iman-school/caseload/handlers"
	"github.com/iman-school/caseload/router"
	"github.com/iman-school/caseload/services"
	"github.com/iman-school/caseload/services/cron"
	"github.com/iman-school/caseload/services/inference"
	"github.com/iman-school/caseload/services/storage"
	"github.com/iman-school/caseload/utils"
	"github.com/iman-school/caseload/utils/middleware"
	"github.com/iman-school/caseload/utils/pdfvalidation"
	"gorm.io/driver/sqlite"
)

const shutdownTimeout = 10 * time.Second

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	env, err := config.Get()
	if err != nil {
		return err
	}

	logger := utils.NewLogger(env.GO_ENV, env.LOG_FILE)
	defer logger.Sync()

	// Open the slot storage selected by STORAGE_DRIVER
	store, err := database.Open(env)
	if err != nil {
		logger.Error("failed to open storage", "driver", env.STORAGE_DRIVER, "error", err)
		if env.STORAGE_DRIVER == "postgres" || env.STORAGE_DRIVER == "pq" {
			print("Check whether the Postgres is running or not\n")
			print("If not running, run the following command:\n")
			print("  make docker-up   (for Docker setup)\n")
		}
		return err
	}
	defer store.Close()

	// Restore the student collection
	records := services.NewRecordStore(store, env.STORAGE_SLOT, logger)
	records.Load(context.Background())

	drafts := services.NewDraftRegistry(records, logger)
	navigator := services.NewNavigator(records)

	generator := inference.NewClient(inference.Config{
		APIKey:  env.INFERENCE_API_KEY,
		BaseURL: env.INFERENCE_BASE_URL,
		Model:   env.INFERENCE_MODEL,
		Timeout: time.Duration(env.INFERENCE_TIMEOUT_SECONDS) * time.Second,
	}, inference.WithRateLimiter(inference.NewRateLimiter(inference.RateLimiterConfig{
		MaxTokens:         inference.DefaultRateLimiterConfig().MaxTokens,
		RequestsPerMinute: float64(env.INFERENCE_REQUESTS_PER_MINUTE),
	})))
	if env.INFERENCE_API_KEY == "" {
		logger.Warn("INFERENCE_API_KEY is not set, generation requests will fail")
	}

	files, closeFiles, err := openAttachmentStore(env, store)
	if err != nil {
		return err
	}
	defer closeFiles()

	limits := pdfvalidation.Limits{
		MaxFileSizeMB: env.ATTACHMENT_MAX_MB,
		MaxPages:      pdfvalidation.DefaultLimits.MaxPages,
	}
	attachments := services.NewAttachmentService(records, drafts, files, limits, logger)
	assistant := services.NewAssistantService(records, generator, files, env.SCHOOL_NAME, logger)

	// Initialize Cron Manager (only if enabled via environment variable)
	var jobs handlers.JobReporter
	if env.CRON_ENABLED {
		cronManager := cron.NewCronManager(store, env.STORAGE_SLOT, generator, logger)
		if err := cronManager.Start(); err != nil {
			// Don't fail the app, just log the warning
			logger.Warn("failed to start cron jobs", "error", err)
		} else {
			jobs = cronManager
			defer cronManager.Stop()
		}
	}

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", env.PORT), env.ATTACHMENT_MAX_MB, logger)

	// Setup Routes
	router.SetupRoutes(server.GetEngine(), router.Dependencies{
		Records:     records,
		Drafts:      drafts,
		Navigator:   navigator,
		Assistant:   assistant,
		Attachments: attachments,
		Storage:     store,
		Generator:   generator,
		Jobs:        jobs,
		Security: middleware.SecurityConfig{
			AllowedOrigins:      env.ALLOWED_ORIGINS,
			RateLimitRequests:   env.RATE_LIMIT_PER_MINUTE,
			RateLimitWindow:     time.Minute,
			GenerationRateLimit: env.GENERATION_RATE_LIMIT,
		},
		Logger: logger,
	})

	// Start the server and wait for it to fail or for a stop signal
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
		return server.Shutdown(shutdownTimeout)
	}
}

// openAttachmentStore builds the report store selected by ATTACHMENT_STORE.
// The returned func releases any connection opened only for attachments.
func openAttachmentStore(env *config.EnviornmentVariable, slots database.SlotStorage) (storage.AttachmentStore, func(), error) {
	var files storage.AttachmentStore
	closer := func() {}

	switch env.ATTACHMENT_STORE {
	case "spaces":
		spaces, err := storage.NewSpacesStore(storage.SpacesConfig{
			AccessKey: env.DO_SPACES_ACCESS_KEY,
			SecretKey: env.DO_SPACES_SECRET_KEY,
			Bucket:    env.DO_SPACES_BUCKET,
			Region:    env.DO_SPACES_REGION,
			Endpoint:  env.DO_SPACES_ENDPOINT,
		})
		if err != nil {
			return nil, nil, err
		}
		files = spaces
	case "", "db":
		gormStore, ok := slots.(*database.GORMStore)
		if !ok {
			// the slot driver has no SQL database; keep blobs in a local SQLite file
			var err error
			gormStore, err = database.NewGORMStore(sqlite.Open(env.SQLITE_PATH), env.GO_ENV)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to open attachment database: %w", err)
			}
			if err := gormStore.Init(); err != nil {
				gormStore.Close()
				return nil, nil, err
			}
			closer = func() { gormStore.Close() }
		}
		files = storage.NewDBStore(gormStore.GetDB())
	default:
		return nil, nil, fmt.Errorf("unknown attachment store %q", env.ATTACHMENT_STORE)
	}

	if env.ATTACHMENT_ENCRYPTION_KEY != "" {
		files = storage.NewEncryptedStore(files, env.ATTACHMENT_ENCRYPTION_KEY)
	}
	return files, closer, nil
}
