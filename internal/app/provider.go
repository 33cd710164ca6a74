// Package app provides the security provider: the single construction point
// for the application's security services. It builds the crypter, the
// security logger and the auth generator in that order, hands them out as one
// immutable bundle, and owns their coordinated teardown.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	authService "github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/auth/service"
	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/config"
	cryptoService "github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/crypto/service"
	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/logging"
	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/metrics"
	recordsRepository "github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/records/repository"
)

// Components is the immutable security bundle every consumer shares:
// the cipher engine, the encrypted security log and the auth generator,
// built in that order because each needs its predecessors.
type Components struct {
	Crypter   cryptoService.Crypter
	Logger    logging.Logger
	Generator authService.AuthGenerator
}

// Provider assembles and owns the application's security components. It is
// an explicit context object passed by reference: construct one at process
// start, hand it to every consumer, shut it down once at exit. Construction
// is lazy and guarded, so concurrent first callers observe exactly one
// bundle. After Shutdown the next access rebuilds everything from scratch.
type Provider struct {
	config *config.Config

	loggerInit sync.Once
	logger     *slog.Logger

	mu              sync.Mutex
	metricsProvider *metrics.Provider
	business        metrics.BusinessMetrics
	components      *Components
	securityLog     *logging.FileLogger
	records         *recordsRepository.Manager
	credentials     authService.CredentialService
	fallback        bool
	initErrors      map[string]error
}

// NewProvider creates a provider over the given configuration. Nothing is
// constructed until first access.
func NewProvider(cfg *config.Config) *Provider {
	return &Provider{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (p *Provider) Config() *config.Config {
	return p.config
}

// Logger returns the process logger, built on first access from the
// configured level. This is the operational slog logger; security events go
// through the bundle's encrypted logger.
func (p *Provider) Logger() *slog.Logger {
	p.loggerInit.Do(func() {
		p.logger = p.initLogger()
	})
	return p.logger
}

func (p *Provider) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch p.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler)
}

// Components returns the security bundle, building it on first access. A
// failure while building the specialized components is logged and answered
// with a baseline fallback bundle (ephemeral engine, memory-only log and
// generator), never an absent one; only a failure to build even the fallback
// returns an error.
func (p *Provider) Components(ctx context.Context) (*Components, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.componentsLocked(ctx)
}

func (p *Provider) componentsLocked(ctx context.Context) (*Components, error) {
	if p.components != nil {
		return p.components, nil
	}

	business := p.businessMetricsLocked()

	components, securityLog, err := p.buildSpecialized(ctx, business)
	if err != nil {
		p.initErrors["components"] = err
		p.Logger().Warn("specialized security components failed, using baseline fallback",
			slog.Any("error", err))

		components, securityLog, err = p.buildFallback(business)
		if err != nil {
			return nil, fmt.Errorf("fallback security components: %w", err)
		}
		p.fallback = true
	}

	p.components = components
	p.securityLog = securityLog
	p.components.Logger.Info("security components ready")
	return p.components, nil
}

// Fallback reports whether the current bundle is the baseline fallback.
func (p *Provider) Fallback() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fallback
}

// InitError returns the recorded initialization error for a component name,
// if any. The provider keeps constructing past recoverable failures, so this
// is how callers learn a fallback's cause.
func (p *Provider) InitError(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initErrors[name]
}

// buildSpecialized constructs the persistent bundle in dependency order:
// crypter first, then the encrypted security log, then the generator.
func (p *Provider) buildSpecialized(
	ctx context.Context,
	business metrics.BusinessMetrics,
) (*Components, *logging.FileLogger, error) {
	cfg := p.config

	keyStore, err := cryptoService.NewKeyStore(ctx, cryptoService.NewKMSService(), cryptoService.KeyStoreConfig{
		Path:          cfg.KeyStorePath(),
		StorePassword: cfg.KeyStorePassword,
		EntryPassword: cfg.KeyEntryPassword,
		Alias:         cfg.KeyAlias,
		KMSKeyURI:     cfg.KMSKeyURI,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("key store: %w", err)
	}

	engine, err := cryptoService.NewSymmetricCrypter(
		ctx,
		keyStore,
		cryptoService.NewVaultStore(cfg.IVVaultPath()),
		p.Logger(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("crypto engine: %w", err)
	}
	crypter := cryptoService.NewMetricsCrypter(engine, business)

	securityLog, err := logging.NewFileLogger(logging.FileLoggerConfig{
		Path:       cfg.LogPath(),
		Source:     "security",
		Crypter:    crypter,
		MaxEntries: cfg.LogMaxEntries,
		AutoSave:   cfg.LogAutoSave,
	})
	if err != nil {
		crypter.SecureWipe()
		return nil, nil, fmt.Errorf("security log: %w", err)
	}

	generator, err := authService.NewGenerator(authService.GeneratorConfig{
		StorePath:          cfg.AuthStorePath(),
		SecurityConfigPath: cfg.SecurityConfigPath(),
		Crypter:            crypter,
		Logger:             securityLog,
	})
	if err != nil {
		_ = securityLog.Close()
		crypter.SecureWipe()
		return nil, nil, fmt.Errorf("auth generator: %w", err)
	}

	return &Components{Crypter: crypter, Logger: securityLog, Generator: generator}, securityLog, nil
}

// buildFallback constructs the baseline bundle: an ephemeral engine, a
// memory-only security log and a generator with no store. Nothing persists;
// the process keeps its security services but loses them at exit.
func (p *Provider) buildFallback(business metrics.BusinessMetrics) (*Components, *logging.FileLogger, error) {
	engine, err := cryptoService.NewEphemeralCrypter(p.Logger())
	if err != nil {
		return nil, nil, err
	}
	crypter := cryptoService.NewMetricsCrypter(engine, business)

	securityLog, err := logging.NewFileLogger(logging.FileLoggerConfig{
		Source:     "security",
		MaxEntries: p.config.LogMaxEntries,
	})
	if err != nil {
		crypter.SecureWipe()
		return nil, nil, err
	}

	generator, err := authService.NewGenerator(authService.GeneratorConfig{
		SecurityConfigPath: p.config.SecurityConfigPath(),
		Logger:             securityLog,
	})
	if err != nil {
		crypter.SecureWipe()
		return nil, nil, err
	}

	return &Components{Crypter: crypter, Logger: securityLog, Generator: generator}, securityLog, nil
}

// businessMetricsLocked builds the metrics pipeline on first use. A metrics
// failure never blocks security services; it degrades to no-op metrics.
func (p *Provider) businessMetricsLocked() metrics.BusinessMetrics {
	if p.business != nil {
		return p.business
	}

	if !p.config.MetricsEnabled {
		p.business = metrics.NewNoOpBusinessMetrics()
		return p.business
	}

	provider, err := metrics.NewProvider(p.config.MetricsNamespace)
	if err != nil {
		p.initErrors["metrics"] = err
		p.Logger().Warn("metrics provider failed, metrics disabled", slog.Any("error", err))
		p.business = metrics.NewNoOpBusinessMetrics()
		return p.business
	}

	business, err := metrics.NewBusinessMetrics(provider.MeterProvider(), p.config.MetricsNamespace)
	if err != nil {
		p.initErrors["metrics"] = err
		p.Logger().Warn("business metrics failed, metrics disabled", slog.Any("error", err))
		p.business = metrics.NewNoOpBusinessMetrics()
		return p.business
	}

	p.metricsProvider = provider
	p.business = business
	return p.business
}

// MetricsProvider returns the metrics provider, building the bundle first if
// needed. It is nil when metrics are disabled or failed to build.
func (p *Provider) MetricsProvider(ctx context.Context) (*metrics.Provider, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := p.componentsLocked(ctx); err != nil {
		return nil, err
	}
	return p.metricsProvider, nil
}

// SecurityLog returns the concrete security log behind the bundle's Logger,
// for consumers that filter, search or report over buffered entries.
func (p *Provider) SecurityLog(ctx context.Context) (*logging.FileLogger, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := p.componentsLocked(ctx); err != nil {
		return nil, err
	}
	return p.securityLog, nil
}

// Records returns the repository manager over the data directory, loading
// every repository on first access.
func (p *Provider) Records(ctx context.Context) (*recordsRepository.Manager, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.records != nil {
		return p.records, nil
	}

	components, err := p.componentsLocked(ctx)
	if err != nil {
		return nil, err
	}

	manager, err := recordsRepository.NewManager(recordsRepository.ManagerConfig{
		DataDir: p.config.DataDir,
		Crypter: components.Crypter,
		Logger:  components.Logger,
	})
	if err != nil {
		p.initErrors["records"] = err
		return nil, err
	}
	if err := manager.LoadAll(ctx); err != nil {
		p.initErrors["records"] = err
		return nil, err
	}

	p.records = manager
	return p.records, nil
}

// Credentials returns the credential store over the users file.
func (p *Provider) Credentials(ctx context.Context) (authService.CredentialService, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.credentials != nil {
		return p.credentials, nil
	}

	components, err := p.componentsLocked(ctx)
	if err != nil {
		return nil, err
	}

	store, err := authService.NewCredentialStore(authService.CredentialStoreConfig{
		UsersPath:          p.config.UsersPath(),
		Crypter:            components.Crypter,
		Logger:             components.Logger,
		RateLimitEnabled:   p.config.RateLimitEnabled,
		AttemptsPerSec:     p.config.RateLimitRequestsPerSec,
		AttemptBurst:       p.config.RateLimitBurst,
		LockoutMaxAttempts: p.config.LockoutMaxAttempts,
		LockoutDuration:    p.config.LockoutDuration,
	})
	if err != nil {
		p.initErrors["credentials"] = err
		return nil, err
	}

	p.credentials = store
	return p.credentials, nil
}

// Shutdown tears the bundle down: dirty records are persisted, the security
// log is flushed and closed while the crypter can still seal its pending
// lines, then the crypter is wiped and the cached components are cleared so
// the next access rebuilds fresh ones. Idempotent; collects every error it
// meets instead of stopping at the first.
func (p *Provider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var shutdownErrors []error

	if p.records != nil {
		if err := p.records.SaveAll(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("records save: %w", err))
		}
	}

	if p.components != nil {
		if p.components.Logger != nil {
			p.components.Logger.Info("security services shutting down")
		}
		if p.securityLog != nil {
			if err := p.securityLog.Close(); err != nil {
				shutdownErrors = append(shutdownErrors, fmt.Errorf("security log close: %w", err))
			}
		}
		if p.components.Crypter != nil {
			p.components.Crypter.SecureWipe()
		}
	}

	if p.metricsProvider != nil {
		if err := p.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics shutdown: %w", err))
		}
	}

	p.components = nil
	p.securityLog = nil
	p.records = nil
	p.credentials = nil
	p.metricsProvider = nil
	p.business = nil
	p.fallback = false
	p.initErrors = make(map[string]error)

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}
	return nil
}
