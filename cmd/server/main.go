package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/sealed-arena/backend/internal/catalog"
	"github.com/sealed-arena/backend/internal/httpapi"
	"github.com/sealed-arena/backend/internal/hub"
	"github.com/sealed-arena/backend/internal/pool"
)

func main() {
	_ = godotenv.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	port := envOr("PORT", "8080")
	scryfallURL := envOr("SCRYFALL_BASE_URL", catalog.DefaultBaseURL)

	ctx := context.Background()
	client := catalog.NewClient(scryfallURL, log)
	cache := catalog.NewCache(client, log)
	assembler := pool.NewAssembler(cache, log, nil)
	h := hub.NewHub(ctx, assembler, log)

	handler := httpapi.SetupRoutes(h, assembler, log)

	log.Info("listening", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
