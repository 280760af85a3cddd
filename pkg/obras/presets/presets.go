// Package presets builds ready-to-use services for common setups.
package presets

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/tendant/simple-obras/pkg/obras"
	memoryrepo "github.com/tendant/simple-obras/pkg/obras/repo/memory"
	fsstorage "github.com/tendant/simple-obras/pkg/obras/storage/fs"
	memorystorage "github.com/tendant/simple-obras/pkg/obras/storage/memory"
	"golang.org/x/crypto/bcrypt"
)

// NewDevelopment creates a seeded service for local development: in-memory
// works and users, images on the filesystem under ./dev-data, events logged.
//
// The cleanup func removes the storage directory.
func NewDevelopment(opts ...DevelopmentOption) (obras.Service, func(), error) {
	cfg := &devConfig{
		storageDir: "./dev-data",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	fsBackend, err := fsstorage.New(fsstorage.Config{BaseDir: cfg.storageDir})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create filesystem storage: %w", err)
	}

	svc, err := obras.New(
		obras.WithRepository(memoryrepo.New()),
		obras.WithImageStore(fsBackend),
		obras.WithEventSink(obras.NewLoggingEventSink(nil)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create service: %w", err)
	}

	if err := svc.Seed(context.Background()); err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		os.RemoveAll(cfg.storageDir)
	}
	return svc, cleanup, nil
}

// NewTesting creates an isolated in-memory service for tests. Passwords are
// hashed at the minimum bcrypt cost and no events are emitted.
func NewTesting(t testing.TB, opts ...TestingOption) obras.Service {
	t.Helper()

	cfg := &testConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	options := []obras.Option{
		obras.WithRepository(memoryrepo.New()),
		obras.WithImageStore(memorystorage.New()),
		obras.WithBcryptCost(bcrypt.MinCost),
	}
	if cfg.eventSink != nil {
		options = append(options, obras.WithEventSink(cfg.eventSink))
	}

	svc, err := obras.New(options...)
	if err != nil {
		t.Fatalf("failed to create test service: %v", err)
	}

	if cfg.samples {
		if err := svc.Seed(context.Background()); err != nil {
			t.Fatalf("failed to seed test service: %v", err)
		}
	}
	return svc
}

type devConfig struct {
	storageDir string
}

type testConfig struct {
	samples   bool
	eventSink obras.EventSink
}

// DevelopmentOption is a functional option for NewDevelopment
type DevelopmentOption func(*devConfig)

// WithDevStorage sets the image storage directory
func WithDevStorage(dir string) DevelopmentOption {
	return func(c *devConfig) {
		c.storageDir = dir
	}
}

// TestingOption is a functional option for NewTesting
type TestingOption func(*testConfig)

// WithSampleWorks seeds the two sample works
func WithSampleWorks() TestingOption {
	return func(c *testConfig) {
		c.samples = true
	}
}

// WithTestEventSink records events through sink
func WithTestEventSink(sink obras.EventSink) TestingOption {
	return func(c *testConfig) {
		c.eventSink = sink
	}
}
