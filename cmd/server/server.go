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

	"vocabtutor/config"
	"vocabtutor/db"
	"vocabtutor/handlers"
	"vocabtutor/services"
	"vocabtutor/services/agent"
	"vocabtutor/services/analyzer"
	"vocabtutor/services/semantic"
	"vocabtutor/services/srs"

	"github.com/gorilla/mux"
)

func main() {
	cfg := config.Load()

	if cfg.AnthropicAPIKey == "" {
		log.Fatal("ANTHROPIC_API_KEY environment variable is required")
	}

	if cfg.OpenAIAPIKey == "" {
		log.Fatal("OPENAI_API_KEY environment variable is required")
	}

	wordRepo, exposureLogRepo, memoryRepo, closeStores := buildStores(cfg)
	defer closeStores()

	policy, err := srs.NewPolicy(cfg.ReviewPolicy)
	if err != nil {
		log.Fatalf("Failed to configure review policy: %v", err)
	}

	grace := time.Duration(cfg.IntroductionGraceMinutes) * time.Minute
	learningService := services.NewLearningService(wordRepo, policy, exposureLogRepo, grace)
	wordService := services.NewWordService(wordRepo)
	memoryService := services.NewMemoryService(memoryRepo)
	exposureLogService := services.NewExposureLogService(exposureLogRepo)

	queue := services.NewExposureQueue(learningService, 0)
	queue.Start()
	defer queue.Stop()

	analyzerService := analyzer.NewService(cfg.OpenAIAPIKey, wordService, queue)

	var semanticService *semantic.Service
	if cfg.PineconeAPIKey != "" {
		semanticService, err = semantic.NewService(cfg.PineconeAPIKey, cfg.OpenAIAPIKey, cfg.PineconeIndexName)
		if err != nil {
			log.Fatalf("Failed to initialize semantic index service: %v", err)
		}
	} else {
		log.Printf("[INFO] PINECONE_API_KEY not set, related-word lookups disabled")
	}

	agentService, err := agent.NewService(cfg.AnthropicAPIKey, learningService, wordService, memoryService, semanticService)
	if err != nil {
		log.Fatalf("Failed to initialize tutor agent service: %v", err)
	}

	maintenance := services.NewMaintenanceService(wordRepo, cfg.SnapshotDir)
	if err := maintenance.Start(); err != nil {
		log.Fatalf("Failed to start maintenance scheduler: %v", err)
	}
	defer maintenance.Stop()

	router := mux.NewRouter()

	router.Use(corsMiddleware)
	router.Use(jsonMiddleware)

	router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("OPTIONS")

	wordHandler := handlers.NewWordHandler(wordService)
	wordHandler.RegisterRoutes(router)

	learningHandler := handlers.NewLearningHandler(learningService, analyzerService, exposureLogService)
	learningHandler.RegisterRoutes(router)

	agentHandler := handlers.NewAgentHandler(agentService)
	agentHandler.RegisterRoutes(router)

	router.HandleFunc("/health", healthCheckHandler).Methods("GET")

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		fmt.Printf("Server starting on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Printf("[INFO] Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] Server shutdown failed: %v", err)
	}
}

// buildStores picks the storage backend from configuration and returns the
// three repositories plus a closer for whatever needs closing.
func buildStores(cfg *config.Config) (db.WordRepository, db.ExposureLogRepository, db.MemoryRepository, func()) {
	log.Printf("[INFO] Using %s word store", cfg.StoreBackend)

	switch cfg.StoreBackend {
	case "csv":
		wordRepo, err := db.NewCSVWordRepository(cfg.StorePath, cfg.VocabPath)
		if err != nil {
			log.Fatalf("Failed to initialize word store: %v", err)
		}

		memoryRepo, err := db.NewFileMemoryRepository(cfg.MemoryPath)
		if err != nil {
			log.Fatalf("Failed to initialize learner memory store: %v", err)
		}

		return wordRepo, db.NewInMemoryExposureLogRepository(), memoryRepo, func() {}

	case "postgres":
		if cfg.DatabaseURL == "" {
			log.Fatal("DB_URL environment variable is required for the postgres backend")
		}

		wordRepo, err := db.NewPostgresWordRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize word database: %v", err)
		}

		exposureLogRepo, err := db.NewPostgresExposureLogRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize exposure log database: %v", err)
		}

		memoryRepo, err := db.NewPostgresMemoryRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize learner memory database: %v", err)
		}

		return wordRepo, exposureLogRepo, memoryRepo, func() {
			wordRepo.Close()
			exposureLogRepo.Close()
			memoryRepo.Close()
		}

	case "memory":
		return db.NewInMemoryWordRepository(), db.NewInMemoryExposureLogRepository(), db.NewInMemoryMemoryRepository(), func() {}

	default:
		log.Fatalf("Unknown STORE_BACKEND %q", cfg.StoreBackend)
		return nil, nil, nil, nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Expose-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "healthy"}`))
}
