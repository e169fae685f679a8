// Package app wires the storefront's handlers into an HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/hometown/storefront/app/catalog"
	"github.com/hometown/storefront/app/categories"
	"github.com/hometown/storefront/app/observability"
	"github.com/hometown/storefront/app/storefront"
	"github.com/hometown/storefront/config"
	"github.com/hometown/storefront/models"
	"github.com/hometown/storefront/query"
	"github.com/hometown/storefront/view"
)

type App struct {
	cfg    config.Config
	logger *zap.Logger
	router chi.Router
}

// New builds the storefront over repo. A nil repo loads the embedded
// catalog.
func New(cfg config.Config, logger *zap.Logger, repo *models.ProductsRepository) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if repo == nil {
		var err error
		if repo, err = models.NewDefaultRepository(); err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
	}

	products, err := repo.GetAllProducts()
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	metrics := observability.NewMetrics()
	cache, err := query.NewCache(products, cfg.Storefront.CacheSize, metrics)
	if err != nil {
		return nil, err
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, err
	}

	assets := assetsFS(cfg.Storefront.AssetsDir)
	images := view.NewImageResolver(cfg.Storefront.AssetsURL, assets)
	tag, err := language.Parse(cfg.Storefront.Locale)
	if err != nil {
		logger.Warn("unknown locale, using en", zap.String("locale", cfg.Storefront.Locale))
		tag = language.English
	}
	money := view.NewFormatter(cfg.Storefront.CurrencySymbol, tag)

	a := &App{cfg: cfg, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.RequestLogger(logger))
	r.Use(metrics.Middleware)
	r.Use(middleware.Recoverer)
	if cfg.Server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Get(view.PlaceholderImage, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		_, _ = w.Write(view.PlaceholderSVG)
	})

	if assets != nil {
		prefix := "/" + strings.Trim(cfg.Storefront.AssetsURL, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix+"/", http.FileServer(http.FS(assets))))
	}

	page := storefront.NewPageHandler(repo, cache, view.NewBuilder(images, money), renderer)
	r.Get("/", page.HandleGet)

	catalogHandler := catalog.NewCatalogHandler(repo, cache, images)
	categoryHandler := categories.NewCategoryHandler(repo)
	r.Route("/api", func(r chi.Router) {
		r.Get("/products", catalogHandler.HandleGet)
		r.Get("/products/{id}", catalogHandler.HandleGetProduct)
		r.Get("/filters", categoryHandler.HandleGetAll)
	})

	a.router = r
	return a, nil
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.router
}

// Run serves until ctx is cancelled, then drains in-flight requests for up
// to the configured shutdown timeout.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("storefront listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// assetsFS is nil when dir does not exist, which disables the asset route
// and existence checks on image references.
func assetsFS(dir string) fs.FS {
	if dir == "" {
		return nil
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil
	}
	return os.DirFS(dir)
}
