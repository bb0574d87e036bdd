// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"carconfig/internal/api"
	"carconfig/internal/catalog"
	"carconfig/internal/config"
	"carconfig/internal/configurator"
	"carconfig/internal/data"
	"carconfig/internal/logger"
	"carconfig/internal/middleware"
)

type App struct {
	addr          string
	mux           *http.ServeMux
	connections   sync.WaitGroup
	totalRequests int64
}

func main() {
	// Step 1: Setup configuration first
	config.LoadEnv()
	config.ConfigurePaths()

	// Step 2: Setup logging
	if err := logger.SetupLogger(config.LoggerConfig()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Only NOW is logging safe to use!
	logger.LogInfo("Environment and paths loaded. Logger ready.")
	config.LogCurrentEnvironment()
	config.LoadCORSConfig()

	// Step 3: Database
	if err := data.InitDB(config.DatabasePath); err != nil {
		logger.LogFatal("Failed to initialize database: %v", err)
	}
	defer data.CloseDB()

	if err := data.CreateTables(); err != nil {
		logger.LogFatal("Failed to create tables: %v", err)
	}

	// Step 4: Load the catalog
	catalogService := catalog.NewService()
	if config.UseDatabase {
		if err := catalogService.LoadFromStore(context.Background(), data.CatalogStore{}); err != nil {
			logger.LogFatal("Failed to load catalog from database: %v", err)
		}
	} else {
		if err := catalogService.LoadFromFile(config.CatalogPath); err != nil {
			logger.LogFatal("Failed to load catalog from %s: %v", config.CatalogPath, err)
		}
	}

	// Step 5: Wire services into the API layer
	api.SetCatalogService(catalogService)
	api.SetConfigurator(configurator.NewService(catalogService))

	// Step 6: Setup app and run
	app := &App{
		addr: config.ServerAddress(),
		mux:  routes(),
	}
	app.Run()
}

// routes sets up all API routes
func routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	apiMux := http.NewServeMux()
	apiMux.HandleFunc("GET /cars", middleware.APIMiddleware(api.ListCarsHandler))
	apiMux.HandleFunc("GET /cars/{carID}/options", middleware.APIMiddleware(api.CarOptionsHandler))
	apiMux.HandleFunc("GET /cars/{carID}/price", middleware.APIMiddleware(api.CarPriceHandler))
	apiMux.HandleFunc("GET /cars/{carID}/defaults", middleware.APIMiddleware(api.CarDefaultsHandler))
	apiMux.HandleFunc("GET /cars/{carID}/conflicts", middleware.APIMiddleware(api.CarConflictsHandler))
	apiMux.HandleFunc("POST /validate", middleware.APIMiddleware(api.ValidateHandler))
	apiMux.HandleFunc("POST /configurations", middleware.APIMiddleware(api.SaveConfigurationHandler))
	apiMux.HandleFunc("GET /configurations/{id}", middleware.APIMiddleware(api.GetConfigurationHandler))
	apiMux.HandleFunc("GET /stats", middleware.APIMiddleware(api.StatsHandler))

	mux.Handle("/api/", http.StripPrefix("/api", apiMux))

	return mux
}

// Run starts the HTTP server
func (a *App) Run() {
	server := &http.Server{
		Addr:         a.addr,
		Handler:      a.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for shutdown signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in a separate goroutine
	go func() {
		logger.LogInfo("Starting server on %s", a.addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.LogFatal("Server failed: %v", err)
		}
	}()

	// Wait for a shutdown signal
	<-stop
	logger.LogInfo("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.LogError("Server shutdown error: %v", err)
	}

	logger.LogInfo("Waiting for active connections to finish...")
	a.connections.Wait()
	logger.LogInfo("All connections closed. Total requests handled: %d", atomic.LoadInt64(&a.totalRequests))
	logger.LogInfo("Server shut down gracefully")
}

// Handler assembles all middleware around the main mux
func (a *App) Handler() http.Handler {
	var handler http.Handler = a.mux

	handler = a.trackConnections(handler)
	handler = middleware.CORS(handler)
	handler = withTimeout(handler, 15*time.Second)

	return handler
}

// Middleware: timeout handler
func withTimeout(h http.Handler, timeout time.Duration) http.Handler {
	return http.TimeoutHandler(h, timeout, "Request timed out")
}

// Middleware: track active connections and total requests
func (a *App) trackConnections(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.connections.Add(1)
		atomic.AddInt64(&a.totalRequests, 1)
		defer a.connections.Done()

		h.ServeHTTP(w, r)
	})
}
