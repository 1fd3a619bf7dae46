package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/statusarea/presenced/internal/config"
	"github.com/statusarea/presenced/internal/handlers"
	"github.com/statusarea/presenced/internal/repositories"
	"github.com/statusarea/presenced/internal/services"
	"github.com/statusarea/presenced/internal/transport"
)

func main() {
	godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize persistence and profiles
	repo := repositories.NewFileStateRepository(cfg.StateFile)
	store := services.NewProfileStore(repo)
	if err := store.Load(); err != nil {
		log.Fatalf("Failed to load state: %v", err)
	}

	// Initialize the engine
	backend := transport.NewMemory()
	location := services.NewStaticLocation()
	aggregator := services.NewAggregator(
		store,
		services.NewResolver(backend),
		backend,
		services.NewLogNotifier(),
		location,
		services.Config{
			ExcludedProtocol: cfg.ExcludedProtocol,
			SoundsEnabled:    cfg.SoundsEnabled,
			BannerInterval:   cfg.BannerInterval,
			SoundInterval:    cfg.SoundInterval,
		},
	)
	defer aggregator.Close()
	backend.SetSink(aggregator)
	location.OnChange(aggregator.LocationChanged)

	// Initialize HTTP Server
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// Health check endpoints
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	handlers.NewPresenceHandler(aggregator).RegisterRoutes(router)

	// Start Server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router,
	}

	// graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("Starting server on port %s", cfg.ServerPort)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server stopped gracefully")
}
