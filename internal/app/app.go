package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/reelhub/reelhub/internal/config"
	"github.com/reelhub/reelhub/internal/db"
	"github.com/reelhub/reelhub/internal/middleware"
	"github.com/reelhub/reelhub/internal/repository"
	"github.com/reelhub/reelhub/internal/service"
	"github.com/reelhub/reelhub/internal/storage"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type App struct {
	Cfg          *config.Config
	DB           *sqlx.DB                    // relational drivers only
	Mongo        *db.Handle[*mongo.Database] // document driver only
	AuthService  *service.AuthService
	UserService  *service.UserService
	EmailService *service.EmailService
	VideoService *service.VideoService
	MediaService *service.MediaService
	AuthLimiter  *middleware.RateLimiter
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Cfg: cfg}

	// Repositories
	var (
		userRepository  repository.UserRepository
		videoRepository repository.VideoRepository
	)

	switch cfg.DBDriver {
	case config.DriverMongo:
		// connects on first use
		a.Mongo = db.Mongo(cfg.DBConnection, cfg.DBName)
		userRepository = repository.NewMongoUserRepository(a.Mongo)
		videoRepository = repository.NewMongoVideoRepository(a.Mongo)
	default:
		database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.DB = database

		err = db.RunMigrations(database.DB, cfg.DBDriver)
		if err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		userRepository = repository.NewUserRepository(database)
		videoRepository = repository.NewVideoRepository(database)
	}

	// Storage
	signer := storage.NewImageKitSigner(cfg.ImageKitPrivateKey, cfg.ImageKitPublicKey, cfg.ImageKitUploadExpiry)

	var uploader service.DirectUploader
	if cfg.S3Enabled() {
		store, err := storage.New(ctx, cfg)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		err = store.EnsureBucket(ctx)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		uploader = store
	}

	// Services
	a.EmailService = service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	a.AuthService = service.NewAuthService(
		userRepository,
		service.NewBcryptHasher(0),
		a.EmailService,
		cfg.JWTSecret,
		cfg.IsProduction(),
	)
	a.UserService = service.NewUserService(userRepository)
	a.VideoService = service.NewVideoService(videoRepository)
	a.MediaService = service.NewMediaService(signer, uploader)

	a.AuthLimiter = middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow, cfg.TrustProxy)

	return a, nil
}

// Ping checks the configured database. For the document driver this also
// performs the first connect.
func (a *App) Ping(ctx context.Context) error {
	if a.Mongo != nil {
		database, err := a.Mongo.Get(ctx)
		if err != nil {
			return err
		}
		return database.Client().Ping(ctx, readpref.Primary())
	}
	return a.DB.PingContext(ctx)
}

func (a *App) Close() error {
	if a.AuthLimiter != nil {
		a.AuthLimiter.Stop()
	}

	if a.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return db.DisconnectMongo(ctx, a.Mongo)
	}

	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
