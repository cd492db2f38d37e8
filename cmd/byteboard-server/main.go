// Command byteboard-server runs an in-memory ByteBoard service for local
// development and demos. State lives only for the lifetime of the process.
package main

import (
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/krosengr4/byteboard/internal/boardserver"
	"github.com/krosengr4/byteboard/internal/config"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	srv := boardserver.NewServer(cfg, boardserver.WithLogger(logger))
	if cfg.Seed {
		if err := srv.Seed(5, 3); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		logger.Info("seeded accounts log in with the development password",
			"password", boardserver.SeedPassword)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("ByteBoard service starting on port %s...", cfg.Port)
	log.Fatal(srv.Listen(":" + cfg.Port))
}
