package config

import (
	"context"
	"image/color"
	"time"

	"paperless-annotator/internal/domain"
	"paperless-annotator/internal/infra/pdf"
	"paperless-annotator/internal/infra/supabase"
	"paperless-annotator/internal/raster"
	"paperless-annotator/internal/repository"
	"paperless-annotator/internal/service"
	"paperless-annotator/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config         domain.Config
	Logger         domain.Logger
	SupabaseClient *supabase.Client
	Source         domain.DocumentSource
	Catalog        domain.CatalogService
	Sessions       domain.SessionService
	Exporter       domain.ExportService

	// ArchiveExports keeps a copy of each export in storage. It is nil
	// when archiving is not configured.
	ArchiveExports func(next domain.Downloader, sessionID string) domain.Downloader

	// ExpireSessions closes idle sessions until ctx is done. It is nil when
	// idle expiry is disabled.
	ExpireSessions func(ctx context.Context)
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	config := NewConfig()
	return NewContainerWithConfig(config, logger.NewLogger(config.GetLogLevel()))
}

// NewContainerWithConfig wires the application from an explicit config.
func NewContainerWithConfig(config domain.Config, appLogger domain.Logger) *Container {
	// Document sources
	timeout := time.Duration(config.GetFetchTimeoutSeconds()) * time.Second
	httpSource := repository.NewHTTPSource(timeout, config.GetMaxFileSize(), appLogger)
	source := repository.NewMultiSource()
	source.Register("http", httpSource)
	source.Register("https", httpSource)

	supabaseClient := supabase.NewClient(config, appLogger)
	if supabaseClient.Configured() {
		if err := supabaseClient.Initialize(); err != nil {
			appLogger.Error("Failed to initialize Supabase client", err)
		} else {
			source.Register("supabase", repository.NewSupabaseSource(supabaseClient, appLogger))
		}
	} else {
		appLogger.Warn("Supabase not configured; supabase:// documents are unavailable")
	}

	// Catalog
	catalogRepo := repository.NewSeededCatalogRepository(config.GetSampleDocumentURL(), appLogger)
	catalog := service.NewCatalogService(catalogRepo, appLogger)

	// Sessions and export
	strokeWidth := config.GetInkStrokeWidth()
	newSurface := func() domain.RasterSurface {
		return raster.NewSurface(0, 0, strokeWidth, color.Black)
	}
	sessions := service.NewSessionService(source, pdf.NewFitzRenderer(appLogger), catalog, newSurface, appLogger)
	idle := time.Duration(config.GetSessionIdleMinutes()) * time.Minute
	sessions.SetLimits(service.SessionLimits{
		MaxSessions: config.GetMaxSessions(),
		IdleTimeout: idle,
	})
	exporter := service.NewExportService(sessions, source, pdf.NewKitMutator(appLogger), config.GetInkOpacity(), appLogger)

	c := &Container{
		Config:         config,
		Logger:         appLogger,
		SupabaseClient: supabaseClient,
		Source:         source,
		Catalog:        catalog,
		Sessions:       sessions,
		Exporter:       exporter,
	}

	if idle > 0 {
		interval := min(idle, time.Minute)
		c.ExpireSessions = func(ctx context.Context) {
			sessions.RunExpiry(ctx, interval)
		}
	}

	if bucket := config.GetExportBucket(); bucket != "" && supabaseClient.Ready() {
		prefix := config.GetExportPrefix()
		c.ArchiveExports = func(next domain.Downloader, sessionID string) domain.Downloader {
			return service.NewArchivingDownloader(next, supabaseClient, bucket, prefix+"/"+sessionID, appLogger)
		}
		appLogger.Info("Export archiving enabled", "bucket", bucket, "prefix", prefix)
	}

	return c
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}
