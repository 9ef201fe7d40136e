package main

import (
	"context"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/zero-void/site-backend/api"
	"github.com/zero-void/site-backend/config"
	"github.com/zero-void/site-backend/database"
	"github.com/zero-void/site-backend/localstore"
	"github.com/zero-void/site-backend/models"
	"github.com/zero-void/site-backend/services"
	"github.com/zero-void/site-backend/store"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	c := config.New()

	ctx := context.Background()

	// Remote backend: the Supabase Postgres instance. A connection failure is
	// not fatal; the content store falls back to the local snapshot.
	db := connectDatabase(c)

	var currentDB *database.Database
	if db != nil {
		aggregate := database.New(db)
		currentDB = &aggregate
	}

	dataDir := config.GetString(c, "DATA_DIR", ".")
	snapshots, err := localstore.Open(dataDir, log.Logger)
	if err != nil {
		log.Error().Err(err).Msg("Error opening local snapshot store")
		os.Exit(1)
	}
	defer snapshots.Close()

	var remoteRepo *database.PostRepo
	if currentDB != nil {
		remoteRepo = currentDB.PostRepo()
	}

	contentStore, err := store.New(ctx, remoteRepo, snapshots, log.Logger)
	if err != nil {
		log.Error().Err(err).Msg("Error initializing content store")
		os.Exit(1)
	}
	log.Info().Str("mode", string(contentStore.Mode())).Msg("Content store ready")

	formatter := buildFormatter(ctx, c, currentDB)
	media := buildMediaStore(c)

	if currentDB != nil {
		warmSiteContent(ctx, currentDB)
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(api.Dependencies{
		Config:    c,
		DB:        currentDB,
		Store:     contentStore,
		Snapshots: snapshots,
		Formatter: formatter,
		Media:     media,
	})
	if err != nil {
		fmt.Printf("Error initializing server: %v\n", err)
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	fmt.Printf("Closing server: %v\n", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// connectDatabase opens the Supabase Postgres connection, returning nil when
// it is not configured or unreachable.
func connectDatabase(c map[string]string) *gorm.DB {
	host := config.GetString(c, "SUPABASE_DB_HOST", "")
	if host == "" {
		log.Warn().Msg("SUPABASE_DB_HOST not set, running without remote backend")
		return nil
	}

	connStr := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
		host,
		config.GetString(c, "SUPABASE_DB_USER", ""),
		config.GetString(c, "SUPABASE_DB_PASSWORD", ""),
		config.GetString(c, "SUPABASE_DB_NAME", "postgres"),
		config.GetString(c, "SUPABASE_DB_PORT", "5432"),
	)

	newLogger := gormlogger.New(
		stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Error connecting to database, falling back to local snapshot")
		return nil
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		log.Warn().Err(err).Msg("Database unreachable, falling back to local snapshot")
		return nil
	}

	fmt.Println("Connected to Supabase database")
	return db
}

// buildFormatter wires the AI formatting collaborator. Provider keys come
// from stored site settings when the remote backend is up, with environment
// variables as the fallback source.
func buildFormatter(ctx context.Context, c map[string]string, db *database.Database) *services.Formatter {
	settings := services.FormatterSettings{
		AnthropicKey:      config.GetString(c, "ANTHROPIC_API_KEY", ""),
		OpenAIKey:         config.GetString(c, "OPENAI_API_KEY", ""),
		PreferredProvider: config.GetString(c, "AI_PROVIDER", ""),
	}

	if db != nil {
		stored, err := db.SettingsRepo().Get(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to load site settings")
		} else if stored != nil {
			settings = mergeSettings(settings, stored)
		}
	}

	formatter, err := services.NewFormatter(settings, log.Logger)
	if err != nil {
		log.Warn().Err(err).Msg("AI formatting unavailable")
		return nil
	}
	return formatter
}

func mergeSettings(settings services.FormatterSettings, stored *models.SiteSettings) services.FormatterSettings {
	if stored.AnthropicKey != "" {
		settings.AnthropicKey = stored.AnthropicKey
	}
	if stored.OpenAIKey != "" {
		settings.OpenAIKey = stored.OpenAIKey
	}
	if stored.PreferredProvider != "" {
		settings.PreferredProvider = stored.PreferredProvider
	}
	return settings
}

// buildMediaStore wires the S3-compatible media bucket, returning nil when
// it is not configured. Uploads are an optional authoring convenience.
func buildMediaStore(c map[string]string) *services.MediaStore {
	accessKey := config.GetString(c, "STORAGE_ACCESS_KEY_ID", "")
	secretKey := config.GetString(c, "STORAGE_SECRET_ACCESS_KEY", "")
	endpoint := config.GetString(c, "STORAGE_ENDPOINT", "")
	bucket := config.GetString(c, "STORAGE_BUCKET", "media")
	publicBaseURL := config.GetString(c, "STORAGE_PUBLIC_URL", "")

	if accessKey == "" || secretKey == "" || endpoint == "" {
		log.Warn().Msg("Media storage not configured, uploads disabled")
		return nil
	}

	media, err := services.NewMediaStore(accessKey, secretKey, endpoint, bucket, publicBaseURL, log.Logger)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize media storage, uploads disabled")
		return nil
	}
	return media
}

// warmSiteContent fetches the site-content collections in parallel so
// connectivity problems surface at startup. Each fetch fails independently
// and never aborts the boot.
func warmSiteContent(ctx context.Context, db *database.Database) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if _, err := db.ExperienceRepo().FindAll(gctx); err != nil {
			log.Warn().Err(err).Msg("experiences warmup fetch failed")
		}
		return nil
	})
	g.Go(func() error {
		if _, err := db.GalleryRepo().FindAll(gctx); err != nil {
			log.Warn().Err(err).Msg("gallery warmup fetch failed")
		}
		return nil
	})
	g.Go(func() error {
		if _, err := db.ReadingLogRepo().FindVisible(gctx); err != nil {
			log.Warn().Err(err).Msg("reading log warmup fetch failed")
		}
		return nil
	})

	_ = g.Wait()
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
