//go:build !integration

package plugins_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/fx"

	plugins "github.com/flowdraft/flowdraft/internal/server-plugin/application"
	"github.com/flowdraft/flowdraft/internal/server-plugin/domain"
	"github.com/flowdraft/flowdraft/pkg/config"
)

// createTestLogger creates a quiet logger for testing that discards output
func createTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError, // Only show errors and above during tests
	}))
}

// MockEngineDiscoveryService is a mock implementation of EngineDiscoveryService for testing
type MockEngineDiscoveryService struct {
	available bool
	calls     int
}

func (m *MockEngineDiscoveryService) EngineAvailable(ctx context.Context) bool {
	m.calls++
	return m.available
}

// MockServerPlugin is a mock implementation of ServerPlugin for testing
type MockServerPlugin struct {
	id             string
	requiresEngine bool
}

func NewMockServerPlugin(id string, requiresEngine bool) *MockServerPlugin {
	return &MockServerPlugin{id: id, requiresEngine: requiresEngine}
}

func (m *MockServerPlugin) ID() string           { return m.id }
func (m *MockServerPlugin) Name() string         { return m.id }
func (m *MockServerPlugin) Description() string  { return "Mock plugin for testing" }
func (m *MockServerPlugin) Version() string      { return "1.0.0" }
func (m *MockServerPlugin) RequiresEngine() bool { return m.requiresEngine }

var _ = Describe("DynamicServerPluginRegistry", func() {
	var (
		registry      *plugins.DynamicServerPluginRegistry
		mockDiscovery *MockEngineDiscoveryService
		logger        *slog.Logger
		srvConfig     *config.ServerConfig
	)

	BeforeEach(func() {
		mockDiscovery = &MockEngineDiscoveryService{}
		logger = createTestLogger()
		srvConfig = config.DefaultConfig()
	})

	newRegistry := func(serverPlugins ...domain.ServerPlugin) *plugins.DynamicServerPluginRegistry {
		params := plugins.DynamicServerPluginRegistryParams{
			PluginRegistry:  plugins.NewServerPluginRegistry(),
			EngineDiscovery: mockDiscovery,
			Logger:          logger,
			SrvConfig:       srvConfig,
			ServerPlugins:   serverPlugins,
		}
		return plugins.NewDynamicServerPluginRegistry(params)
	}

	Describe("Basic Functionality", func() {
		BeforeEach(func() {
			registry = newRegistry(NewMockServerPlugin("builder", false))
		})

		Context("when syncing plugins", func() {
			It("should activate core plugins regardless of engine state", func() {
				mockDiscovery.available = false

				err := registry.SyncServerPlugins(context.Background())
				Expect(err).NotTo(HaveOccurred())

				Expect(registry.IsServerPluginActive("builder")).To(BeTrue(), "Core plugin should be active")

				activeServerPlugins := registry.GetActiveServerPlugins()
				Expect(activeServerPlugins).To(HaveLen(1), "Should have exactly one active plugin")
				Expect(activeServerPlugins[0].Name()).To(Equal("builder"))

				Expect(mockDiscovery.calls).To(Equal(1))
			})
		})

		Context("when checking plugin status", func() {
			BeforeEach(func() {
				err := registry.SyncServerPlugins(context.Background())
				Expect(err).NotTo(HaveOccurred())
			})

			It("should correctly report active plugins", func() {
				Expect(registry.IsServerPluginActive("builder")).To(BeTrue())
				Expect(registry.IsServerPluginActive("nonexistent")).To(BeFalse())
			})

			It("should return list of active plugins", func() {
				activeServerPlugins := registry.GetActiveServerPlugins()
				Expect(activeServerPlugins).To(HaveLen(1))
				Expect(activeServerPlugins[0].Name()).To(Equal("builder"))
			})
		})
	})

	Describe("Engine-dependent ServerPlugin Activation", func() {
		BeforeEach(func() {
			registry = newRegistry(NewMockServerPlugin("engineview", true))
		})

		Context("when the engine is reachable", func() {
			BeforeEach(func() {
				mockDiscovery.available = true
			})

			It("should activate the plugin", func() {
				err := registry.SyncServerPlugins(context.Background())
				Expect(err).NotTo(HaveOccurred())

				Expect(registry.IsServerPluginActive("engineview")).To(BeTrue())
			})
		})

		Context("when the engine goes down", func() {
			BeforeEach(func() {
				mockDiscovery.available = true
				err := registry.SyncServerPlugins(context.Background())
				Expect(err).NotTo(HaveOccurred())
				Expect(registry.IsServerPluginActive("engineview")).To(BeTrue())

				mockDiscovery.available = false
			})

			It("should deactivate the plugin on the next sync", func() {
				err := registry.SyncServerPlugins(context.Background())
				Expect(err).NotTo(HaveOccurred())

				Expect(registry.IsServerPluginActive("engineview")).To(BeFalse())
			})
		})
	})

	Describe("Fx Integration", func() {
		Context("when using Fx lifecycle", func() {
			It("should integrate properly with dependency injection", func() {
				var testRegistry *plugins.DynamicServerPluginRegistry

				app := fx.New(
					fx.Provide(
						func() domain.EngineDiscoveryService { return &MockEngineDiscoveryService{available: true} },
						func() *slog.Logger { return createTestLogger() },
						fx.Annotate(
							func() domain.ServerPlugin { return NewMockServerPlugin("builder", false) },
							fx.ResultTags(`group:"server_plugins"`),
						),
						plugins.NewServerPluginRegistry,
						func() *config.ServerConfig { return config.DefaultConfig() },
						plugins.NewDynamicServerPluginRegistry,
					),
					fx.Populate(&testRegistry),
					fx.NopLogger, // Suppress Fx logs during testing
				)

				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				err := app.Start(ctx)
				Expect(err).NotTo(HaveOccurred())

				Expect(testRegistry).NotTo(BeNil())

				err = app.Stop(ctx)
				Expect(err).NotTo(HaveOccurred())
			})
		})
	})
})
