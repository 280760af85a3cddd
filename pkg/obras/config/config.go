package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/tendant/simple-obras/pkg/obras"
	"github.com/tendant/simple-obras/pkg/obras/objectkey"
	"github.com/tendant/simple-obras/pkg/obras/repo/memory"
	repopg "github.com/tendant/simple-obras/pkg/obras/repo/postgres"
	fsstorage "github.com/tendant/simple-obras/pkg/obras/storage/fs"
	memorystorage "github.com/tendant/simple-obras/pkg/obras/storage/memory"
	s3storage "github.com/tendant/simple-obras/pkg/obras/storage/s3"
	"golang.org/x/crypto/bcrypt"
)

// ServerConfig represents server configuration for the obras service
type ServerConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"` // development, production, testing

	// Database configuration
	DatabaseType string `env:"DATABASE_TYPE" env-default:"memory"` // "memory", "postgres"
	DatabaseURL  string `env:"DATABASE_URL"`

	// Image storage configuration
	ImageStorage string `env:"IMAGE_STORAGE" env-default:"memory"` // "memory", "fs", "s3"
	FSBaseDir    string `env:"FS_BASE_DIR" env-default:"./data/images"`
	S3           S3Config

	ImageKeyStrategy string `env:"IMAGE_KEY_STRATEGY" env-default:"per-work"` // "per-work", "sharded"

	// Service options
	SeedSamples        bool `env:"SEED_SAMPLES" env-default:"true"`
	EnableEventLogging bool `env:"ENABLE_EVENT_LOGGING" env-default:"true"`
	BcryptCost         int  `env:"BCRYPT_COST" env-default:"10"`
}

// S3Config holds the S3 image storage settings
type S3Config struct {
	Bucket          string `env:"S3_BUCKET" env-default:"obras-images"`
	Region          string `env:"S3_REGION" env-default:"us-east-1"`
	Endpoint        string `env:"S3_ENDPOINT"`
	AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	UsePathStyle    bool   `env:"S3_USE_PATH_STYLE" env-default:"false"`
	CreateBucket    bool   `env:"S3_CREATE_BUCKET" env-default:"false"`
}

// Load reads an optional .env file and the process environment, then validates the result.
func Load(envFiles ...string) (*ServerConfig, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	var cfg ServerConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}

	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	switch c.ImageStorage {
	case "memory":
	case "fs":
		if c.FSBaseDir == "" {
			return errors.New("fs_base_dir is required when using fs image storage")
		}
	case "s3":
		if c.S3.Bucket == "" {
			return errors.New("s3_bucket is required when using s3 image storage")
		}
	default:
		return fmt.Errorf("image_storage must be 'memory', 'fs' or 's3', got '%s'", c.ImageStorage)
	}

	if _, err := objectkey.New(c.ImageKeyStrategy); err != nil {
		return err
	}

	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	return nil
}

// IsDevelopment reports whether the server runs in development mode.
func (c *ServerConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// BuildService creates a Service from the configuration. The returned cleanup
// func releases the database pool and is never nil.
func (c *ServerConfig) BuildService(ctx context.Context) (obras.Service, func(), error) {
	cleanup := func() {}

	repo, closeRepo, err := c.buildRepository(ctx)
	if err != nil {
		return nil, cleanup, fmt.Errorf("failed to build repository: %w", err)
	}
	cleanup = closeRepo

	store, err := c.buildImageStore(ctx)
	if err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("failed to build image storage %s: %w", c.ImageStorage, err)
	}

	keyGen, err := objectkey.New(c.ImageKeyStrategy)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}

	options := []obras.Option{
		obras.WithRepository(repo),
		obras.WithImageStore(store),
		obras.WithObjectKeyGenerator(keyGen),
		obras.WithBcryptCost(c.BcryptCost),
	}
	if c.EnableEventLogging {
		options = append(options, obras.WithEventSink(obras.NewLoggingEventSink(slog.Default())))
	}

	svc, err := obras.New(options...)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}

	if c.SeedSamples {
		if err := svc.Seed(ctx); err != nil {
			cleanup()
			return nil, func() {}, err
		}
	}

	return svc, cleanup, nil
}

// buildRepository creates a Repository based on the configuration
func (c *ServerConfig) buildRepository(ctx context.Context) (obras.Repository, func(), error) {
	switch c.DatabaseType {
	case "memory":
		return memory.New(), func() {}, nil
	case "postgres":
		cfg, err := pgxpool.ParseConfig(c.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
		}
		pool, err := pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to ping postgres: %w", err)
		}

		repo := repopg.NewWithPool(pool)
		if err := repo.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		slog.Info("Connected to postgres", "host", cfg.ConnConfig.Host, "database", cfg.ConnConfig.Database)
		return repo, pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// buildImageStore creates the BlobStore holding work images
func (c *ServerConfig) buildImageStore(ctx context.Context) (obras.BlobStore, error) {
	switch c.ImageStorage {
	case "memory":
		return memorystorage.New(), nil
	case "fs":
		return fsstorage.New(fsstorage.Config{BaseDir: c.FSBaseDir})
	case "s3":
		return s3storage.New(ctx, s3storage.Config{
			Region:                 c.S3.Region,
			Bucket:                 c.S3.Bucket,
			AccessKeyID:            c.S3.AccessKeyID,
			SecretAccessKey:        c.S3.SecretAccessKey,
			Endpoint:               c.S3.Endpoint,
			UsePathStyle:           c.S3.UsePathStyle,
			CreateBucketIfNotExist: c.S3.CreateBucket,
		})
	default:
		return nil, fmt.Errorf("unsupported image storage: %s", c.ImageStorage)
	}
}
