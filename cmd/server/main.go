package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/m2tx/contentkit/content"
	"github.com/m2tx/contentkit/internal/agent"
	"github.com/m2tx/contentkit/internal/config"
	"github.com/m2tx/contentkit/internal/functions"
	"github.com/m2tx/contentkit/internal/repository"
	"github.com/m2tx/contentkit/requestopts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal(err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Fatal(err)
	}

	var repo repository.SessionRepository = repository.NewMemorySessionRepository()
	if cfg.MongoURI != "" {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatal(err)
		}
		defer func() {
			if err := mongoClient.Disconnect(ctx); err != nil {
				log.Printf("mongodb disconnect: %v", err)
			}
		}()

		mongoRepo := repository.NewMongoSessionRepository(mongoClient.Database(cfg.MongoDB), "sessions")
		if err := mongoRepo.EnsureTTL(ctx, cfg.SessionTTL); err != nil {
			log.Fatal(err)
		}
		repo = mongoRepo
	}

	docs, err := functions.NewDocumentIndex(getDocsDir(), logger)
	if err != nil {
		log.Fatal(err)
	}

	builtin, err := functions.Tool(docs)
	if err != nil {
		log.Fatal(err)
	}
	tools := []any{builtin}

	if cfg.ToolsFile != "" {
		raw, err := config.LoadTools(cfg.ToolsFile)
		if err != nil {
			log.Fatal(err)
		}
		extra, err := content.ToFunctionLibrary(raw)
		if err != nil {
			log.Fatal(err)
		}
		tools = append(tools, extra)
	}

	retry := requestopts.DefaultRetry()
	retry.MaxAttempts = cfg.MaxAttempts

	a, err := agent.New(client, agent.Config{
		Model:             cfg.Model,
		SystemInstruction: cfg.SystemInstruction,
		Tools:             tools,
		RequestOptions:    requestopts.Options{Retry: retry, Timeout: cfg.RequestTimeout},
		Repository:        repo,
		Converter:         content.NewConverter(content.WithImageFormat(cfg.ImageFormat)),
		Logger:            logger,
	})
	if err != nil {
		log.Fatal(err)
	}

	http.Handle("/", newHandler(a))

	logger.Info("listening", "port", cfg.HTTPPort, "model", cfg.Model)
	log.Fatal(http.ListenAndServe(":"+cfg.HTTPPort, nil))
}

func getDocsDir() string {
	dir := os.Getenv("DOCS_DIR")
	if dir == "" {
		dir = "docs"
	}

	return dir
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}
