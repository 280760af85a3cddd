package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-obras/pkg/obras"
)

func validConfig() ServerConfig {
	return ServerConfig{
		Port:         "8080",
		Environment:  "testing",
		DatabaseType: "memory",
		ImageStorage: "memory",
		BcryptCost:   4,
		SeedSamples:  true,
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENVIRONMENT", "DATABASE_TYPE", "DATABASE_URL", "IMAGE_STORAGE", "SEED_SAMPLES", "BCRYPT_COST"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "memory", cfg.DatabaseType)
	assert.Equal(t, "memory", cfg.ImageStorage)
	assert.True(t, cfg.SeedSamples)
	assert.True(t, cfg.EnableEventLogging)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "obras-images", cfg.S3.Bucket)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("SEED_SAMPLES", "false")
	t.Setenv("IMAGE_STORAGE", "fs")
	t.Setenv("FS_BASE_DIR", t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.False(t, cfg.SeedSamples)
	assert.Equal(t, "fs", cfg.ImageStorage)
}

func TestLoad_EnvFile(t *testing.T) {
	t.Setenv("BCRYPT_COST", "")
	require.NoError(t, os.Unsetenv("BCRYPT_COST"))
	t.Cleanup(func() { os.Unsetenv("BCRYPT_COST") })

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("BCRYPT_COST=6\n"), 0o600))

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.BcryptCost)
}

func TestServerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr string
	}{
		{"valid", func(c *ServerConfig) {}, ""},
		{"missing port", func(c *ServerConfig) { c.Port = "" }, "port is required"},
		{"unknown database", func(c *ServerConfig) { c.DatabaseType = "sqlite" }, "database_type"},
		{"postgres without url", func(c *ServerConfig) { c.DatabaseType = "postgres" }, "database_url"},
		{"unknown image storage", func(c *ServerConfig) { c.ImageStorage = "ftp" }, "image_storage"},
		{"fs without dir", func(c *ServerConfig) { c.ImageStorage = "fs"; c.FSBaseDir = "" }, "fs_base_dir"},
		{"s3 without bucket", func(c *ServerConfig) { c.ImageStorage = "s3" }, "s3_bucket"},
		{"bcrypt too low", func(c *ServerConfig) { c.BcryptCost = 1 }, "bcrypt_cost"},
		{"unknown key strategy", func(c *ServerConfig) { c.ImageKeyStrategy = "tenant" }, "object key strategy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), err.Error())
		})
	}
}

func TestBuildService_Memory(t *testing.T) {
	cfg := validConfig()
	svc, cleanup, err := cfg.BuildService(context.Background())
	require.NoError(t, err)
	defer cleanup()

	works, err := svc.ListWorks(context.Background(), obras.WorkFilter{})
	require.NoError(t, err)
	assert.Len(t, works, 2, "sample works are seeded")
}

func TestBuildService_FSWithoutSeed(t *testing.T) {
	cfg := validConfig()
	cfg.ImageStorage = "fs"
	cfg.FSBaseDir = t.TempDir()
	cfg.SeedSamples = false
	cfg.EnableEventLogging = true
	cfg.ImageKeyStrategy = "sharded"

	svc, cleanup, err := cfg.BuildService(context.Background())
	require.NoError(t, err)
	defer cleanup()

	ctx := context.Background()
	works, err := svc.ListWorks(ctx, obras.WorkFilter{})
	require.NoError(t, err)
	assert.Empty(t, works)

	work, err := svc.CreateWork(ctx, obras.CreateWorkRequest{Title: "T", Content: "C"})
	require.NoError(t, err)
	updated, err := svc.AttachImage(ctx, obras.AttachImageRequest{
		WorkID:   work.ID,
		FileName: "a.txt",
		Reader:   strings.NewReader("hola"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(updated.Images[0], "images/"))
	_, err = os.Stat(filepath.Join(cfg.FSBaseDir, filepath.FromSlash(updated.Images[0])))
	assert.NoError(t, err)
}

func TestBuildService_BadPostgresURL(t *testing.T) {
	cfg := validConfig()
	cfg.DatabaseType = "postgres"
	cfg.DatabaseURL = "postgres://%zz"

	svc, cleanup, err := cfg.BuildService(context.Background())
	assert.Error(t, err)
	assert.Nil(t, svc)
	assert.NotNil(t, cleanup)
}
